package geo

import (
	"net/http"

	"github.com/carnetphoto/carnet/config"
)

// UserAgent identifies the app to the tile and geocoding services, which
// both refuse anonymous clients.
var UserAgent = config.AppName + "/" + config.AppVersion + " (+https://github.com/carnetphoto/carnet)"

// UserAgentTransport wraps an http.RoundTripper and adds a User-Agent header.
type UserAgentTransport struct {
	http.RoundTripper
	UserAgent string
}

// RoundTrip executes a single HTTP transaction, adding the User-Agent header.
func (t *UserAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	// Clone the request to avoid modifying the original
	clonedReq := req.Clone(req.Context())
	clonedReq.Header.Set("User-Agent", t.UserAgent)
	return t.RoundTripper.RoundTrip(clonedReq)
}

// withUserAgent returns a copy of client whose requests carry the app
// User-Agent. A nil client starts from http.DefaultClient.
func withUserAgent(client *http.Client) *http.Client {
	if client == nil {
		client = http.DefaultClient
	}
	base := client.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	wrapped := *client
	wrapped.Transport = &UserAgentTransport{RoundTripper: base, UserAgent: UserAgent}
	return &wrapped
}
