// Package generate holds the plumbing shared by the map and collage
// generators: the application context passed into every call, the error
// taxonomy, atomic output writing and the one-at-a-time run guard.
package generate

import (
	"math/rand"
	"net"
	"net/http"
	"path/filepath"
	"time"

	"github.com/carnetphoto/carnet/config"
	"github.com/carnetphoto/carnet/util/log"
)

// Network timeouts for generator HTTP traffic.
const (
	// HTTPClientRequestTimeout is the total time limit for a single HTTP
	// request, covering dial, request and body read.
	HTTPClientRequestTimeout = 60 * time.Second

	// HTTPClientDialerTimeout is the timeout for establishing a TCP connection.
	HTTPClientDialerTimeout = 15 * time.Second

	// HTTPClientTLSHandshakeTimeout is the time limit for the TLS handshake.
	HTTPClientTLSHandshakeTimeout = 10 * time.Second

	// HTTPClientResponseHeaderTimeout is the time limit for receiving
	// response headers after the request is written.
	HTTPClientResponseHeaderTimeout = 15 * time.Second

	// HTTPClientKeepAlive is the duration for TCP keep-alive probes.
	HTTPClientKeepAlive = 30 * time.Second
)

// Env is the application context handed to every generator call. It owns
// everything a generation touches beyond its own inputs, so generators stay
// testable without ambient state.
type Env struct {
	// TargetDir is the folder output files are written to.
	TargetDir string

	// CacheDir is the on-disk cache root, <TargetDir>/__cache by default.
	CacheDir string

	// HTTP is the shared client for geocoding and tile traffic.
	HTTP *http.Client

	// Rand drives layout jitter and rotation. Production seeds it per
	// process; tests inject a fixed seed for reproducible layouts.
	Rand *rand.Rand

	// Now supplies the clock, time.Now in production.
	Now func() time.Time

	// Logf receives human-readable progress lines during a generation.
	Logf func(format string, args ...interface{})

	// Location is the timezone track timestamps are normalized to.
	Location *time.Location
}

// NewEnv builds a production Env rooted at targetDir.
func NewEnv(targetDir string) *Env {
	return &Env{
		TargetDir: targetDir,
		CacheDir:  filepath.Join(targetDir, config.CacheDirName),
		HTTP:      NewHTTPClient(),
		Rand:      rand.New(rand.NewSource(time.Now().UnixNano())),
		Now:       time.Now,
		Logf:      log.Printf,
		Location:  time.Local,
	}
}

// NewHTTPClient builds the tuned client generator traffic goes through.
func NewHTTPClient() *http.Client {
	return &http.Client{
		Timeout: HTTPClientRequestTimeout,
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout:   HTTPClientDialerTimeout,
				KeepAlive: HTTPClientKeepAlive,
			}).DialContext,
			ResponseHeaderTimeout: HTTPClientResponseHeaderTimeout,
			TLSHandshakeTimeout:   HTTPClientTLSHandshakeTimeout,
		},
	}
}

// Progressf logs a progress line if a sink is attached.
func (e *Env) Progressf(format string, args ...interface{}) {
	if e.Logf != nil {
		e.Logf(format, args...)
	}
}

// Timezone returns the configured location, defaulting to time.Local.
func (e *Env) Timezone() *time.Location {
	if e.Location == nil {
		return time.Local
	}
	return e.Location
}

// Clock returns the current time through the injected clock.
func (e *Env) Clock() time.Time {
	if e.Now == nil {
		return time.Now()
	}
	return e.Now()
}
