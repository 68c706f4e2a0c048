package gpsmap

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/color"
	"image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carnetphoto/carnet/pkg/exifmeta"
	"github.com/carnetphoto/carnet/pkg/generate"
)

// rideGPX is a short climb above Annecy on the morning of 2023-07-14.
const rideGPX = `<?xml version="1.0" encoding="UTF-8"?>
<gpx version="1.1" creator="test" xmlns="http://www.topografix.com/GPX/1/1">
  <trk><name>Tour</name><trkseg>
    <trkpt lat="45.9000" lon="6.1200"><time>2023-07-14T08:00:00Z</time></trkpt>
    <trkpt lat="45.9007" lon="6.1213"><time>2023-07-14T08:05:00Z</time></trkpt>
    <trkpt lat="45.9013" lon="6.1227"><time>2023-07-14T08:10:00Z</time></trkpt>
    <trkpt lat="45.9020" lon="6.1240"><time>2023-07-14T08:15:00Z</time></trkpt>
  </trkseg></trk>
</gpx>`

var grayTile = func() []byte {
	buf := new(bytes.Buffer)
	if err := png.Encode(buf, imaging.New(256, 256, color.NRGBA{R: 180, G: 180, B: 180, A: 255})); err != nil {
		panic(err)
	}
	return buf.Bytes()
}()

// fakeRemote answers tile and Nominatim traffic in-process, so map runs
// never leave the test binary.
type fakeRemote struct {
	mu        sync.Mutex
	tileHits  int
	geoHits   int
	placeLat  string // empty means no geocoding result
	placeLon  string
	failTiles bool
}

func (f *fakeRemote) RoundTrip(req *http.Request) (*http.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch {
	case strings.Contains(req.URL.Host, "nominatim"):
		f.geoHits++
		body := "[]"
		if f.placeLat != "" {
			body = fmt.Sprintf(`[{"lat":%q,"lon":%q,"display_name":"somewhere"}]`, f.placeLat, f.placeLon)
		}
		return fakeResponse(http.StatusOK, []byte(body), "application/json"), nil
	case strings.Contains(req.URL.Host, "tile"):
		f.tileHits++
		if f.failTiles {
			return fakeResponse(http.StatusNotFound, []byte("no tile"), "text/plain"), nil
		}
		return fakeResponse(http.StatusOK, grayTile, "image/png"), nil
	}
	return fakeResponse(http.StatusNotFound, nil, "text/plain"), nil
}

func fakeResponse(code int, body []byte, contentType string) *http.Response {
	return &http.Response{
		Status:     fmt.Sprintf("%d %s", code, http.StatusText(code)),
		StatusCode: code,
		Header:     http.Header{"Content-Type": []string{contentType}},
		Body:       io.NopCloser(bytes.NewReader(body)),
	}
}

func (f *fakeRemote) hits() (tiles, geo int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tileHits, f.geoHits
}

func mapTestEnv(t *testing.T, remote *fakeRemote) (*generate.Env, *[]string) {
	t.Helper()
	env := generate.NewEnv(t.TempDir())
	env.HTTP = &http.Client{Transport: remote}
	env.Location = time.FixedZone("CEST", 2*3600)
	logs := &[]string{}
	env.Logf = func(format string, args ...interface{}) {
		line := fmt.Sprintf(format, args...)
		*logs = append(*logs, line)
		t.Log(line)
	}
	return env, logs
}

func writeGPX(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ride.gpx")
	require.NoError(t, os.WriteFile(path, []byte(rideGPX), 0o644))
	return path
}

func logged(logs *[]string, substr string) bool {
	for _, line := range *logs {
		if strings.Contains(line, substr) {
			return true
		}
	}
	return false
}

func exifString(t *testing.T, path string, field exif.FieldName) string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	x, err := exif.Decode(f)
	require.NoError(t, err)
	tag, err := x.Get(field)
	require.NoError(t, err)
	s, err := tag.StringVal()
	require.NoError(t, err)
	return s
}

func TestGenerateValidation(t *testing.T) {
	gpxPath := writeGPX(t)
	cases := []struct {
		name string
		req  Request
	}{
		{"no output name", Request{GPXPath: gpxPath, Date: "2023-07-14"}},
		{"bad city position", Request{GPXPath: gpxPath, OutputName: "s", Cities: []string{"Annecy::UP"}}},
		{"bad date", Request{GPXPath: gpxPath, OutputName: "s", Date: "14/07/2023"}},
		{"bad clock", Request{GPXPath: gpxPath, OutputName: "s", Date: "2023-07-14", StartClock: "25"}},
		{"negative margin", Request{GPXPath: gpxPath, OutputName: "s", MarginM: -5}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			remote := &fakeRemote{}
			env, _ := mapTestEnv(t, remote)

			_, err := Generate(context.Background(), env, nil, tc.req)
			assert.True(t, generate.IsValidation(err), "got %v", err)

			tiles, geocodes := remote.hits()
			assert.Zero(t, tiles)
			assert.Zero(t, geocodes)
			matches, _ := filepath.Glob(filepath.Join(env.TargetDir, "*.jpg"))
			assert.Empty(t, matches)
		})
	}
}

func TestGenerateMissingGPXFile(t *testing.T) {
	env, _ := mapTestEnv(t, &fakeRemote{})
	_, err := Generate(context.Background(), env, nil, Request{
		GPXPath:    filepath.Join(t.TempDir(), "nope.gpx"),
		OutputName: "sortie",
	})
	var ioErr *generate.IOError
	assert.True(t, errors.As(err, &ioErr), "got %v", err)
}

func TestGenerateNotEnoughPoints(t *testing.T) {
	env, _ := mapTestEnv(t, &fakeRemote{})
	_, err := Generate(context.Background(), env, nil, Request{
		GPXPath:    writeGPX(t),
		Date:       "2023-07-15",
		OutputName: "sortie",
	})
	assert.True(t, generate.IsValidation(err), "got %v", err)
}

func TestGenerateWritesMap(t *testing.T) {
	remote := &fakeRemote{placeLat: "45.9010", placeLon: "6.1220"}
	env, _ := mapTestEnv(t, remote)

	out, err := Generate(context.Background(), env, nil, Request{
		GPXPath:    writeGPX(t),
		Date:       "2023-07-14",
		Cities:     []string{"Talloires"},
		Title:      "Tour du lac",
		OutputName: "sortie",
	})
	require.NoError(t, err)
	assert.Equal(t, "sortie.jpg", filepath.Base(out))

	img, err := imaging.Open(out)
	require.NoError(t, err)
	assert.Equal(t, 2700, img.Bounds().Dy())
	assert.Greater(t, img.Bounds().Dx(), 2500)
	assert.LessOrEqual(t, img.Bounds().Dx(), 3600)

	// Basemap tiles, direction arrows, both flags and the city marker.
	assert.Greater(t, countColor(img, color.NRGBA{R: 180, G: 180, B: 180, A: 255}, 30), 1000, "basemap missing")
	assert.Greater(t, countColor(img, arrowFill, 50), 50, "arrows missing")
	assert.Greater(t, countColor(img, startFlagFill, 40), 50, "start flag missing")
	assert.Greater(t, countColor(img, endFlagFill, 40), 50, "end flag missing")
	assert.Greater(t, countColor(img, cityInnerFill, 40), 50, "city marker missing")

	// The capture date is the start of the filter window.
	assert.Equal(t, "2023:07:14 00:00:00", exifString(t, out, exif.DateTimeOriginal))

	tiles, geocodes := remote.hits()
	assert.Greater(t, tiles, 0)
	assert.Equal(t, 1, geocodes)
}

func TestGenerateSkipsCityOutsideMap(t *testing.T) {
	remote := &fakeRemote{placeLat: "48.8566", placeLon: "2.3522"} // Paris
	env, logs := mapTestEnv(t, remote)

	out, err := Generate(context.Background(), env, nil, Request{
		GPXPath:    writeGPX(t),
		Date:       "2023-07-14",
		Cities:     []string{"Paris"},
		OutputName: "sortie",
	})
	require.NoError(t, err)

	img, err := imaging.Open(out)
	require.NoError(t, err)
	assert.Zero(t, countColor(img, cityInnerFill, 25))
	assert.True(t, logged(logs, "outside the map"))
}

func TestGenerateDegradesWhenTilesFail(t *testing.T) {
	remote := &fakeRemote{failTiles: true}
	env, logs := mapTestEnv(t, remote)

	out, err := Generate(context.Background(), env, nil, Request{
		GPXPath:    writeGPX(t),
		Date:       "2023-07-14",
		OutputName: "sortie",
	})
	require.NoError(t, err, "missing tiles must not fail the run")

	img, err := imaging.Open(out)
	require.NoError(t, err)
	assert.Greater(t, countColor(img, color.NRGBA{R: 255, G: 255, B: 255, A: 255}, 20), 10000, "background should stay blank")
	assert.True(t, logged(logs, "tiles missing"))
}

func TestGenerateWithoutDateSkipsMetadata(t *testing.T) {
	remote := &fakeRemote{}
	env, logs := mapTestEnv(t, remote)

	out, err := Generate(context.Background(), env, nil, Request{
		GPXPath:    writeGPX(t),
		OutputName: "sortie",
	})
	require.NoError(t, err)
	assert.True(t, logged(logs, "no date source"))

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	_, err = exif.Decode(f)
	assert.Error(t, err, "no metadata should be embedded")
}

func TestGenerateUsesReferenceImageDate(t *testing.T) {
	remote := &fakeRemote{}
	env, _ := mapTestEnv(t, remote)

	buf := new(bytes.Buffer)
	require.NoError(t, imaging.Encode(buf, imaging.New(40, 30, color.NRGBA{R: 10, G: 10, B: 10, A: 255}), imaging.JPEG))
	tagged, err := exifmeta.EmbedBytes(buf.Bytes(), exifmeta.Record{
		CaptureDate: time.Date(2023, 7, 15, 9, 0, 0, 0, time.Local),
	})
	require.NoError(t, err)
	ref := filepath.Join(t.TempDir(), "ref.jpg")
	require.NoError(t, os.WriteFile(ref, tagged, 0o644))

	out, err := Generate(context.Background(), env, nil, Request{
		GPXPath:    writeGPX(t),
		RefImage:   ref,
		OutputName: "sortie",
	})
	require.NoError(t, err)
	assert.Equal(t, "2023:07:15 08:59:50", exifString(t, out, exif.DateTimeOriginal))
}
