package gpx

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carnetphoto/carnet/pkg/generate"
)

const rideGPX = `<?xml version="1.0" encoding="UTF-8"?>
<gpx version="1.1" creator="test" xmlns="http://www.topografix.com/GPX/1/1">
  <trk>
    <name>Boucle du matin</name>
    <trkseg>
      <trkpt lat="48.8566" lon="2.3522"><time>2023-07-14T06:00:00Z</time></trkpt>
      <trkpt lat="48.8600" lon="2.3600"><time>2023-07-14T06:30:00Z</time></trkpt>
      <trkpt lat="48.8650" lon="2.3700"></trkpt>
      <trkpt lat="48.8700" lon="2.3800"><time>2023-07-14T07:00:00Z</time></trkpt>
    </trkseg>
    <trkseg>
      <trkpt lat="48.8750" lon="2.3900"><time>2023-07-14T09:00:00Z</time></trkpt>
    </trkseg>
  </trk>
</gpx>`

func writeGPX(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ride.gpx")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFlattensAndDropsTimelessPoints(t *testing.T) {
	track, err := Load(writeGPX(t, rideGPX), time.UTC)
	require.NoError(t, err)

	assert.Equal(t, "Boucle du matin", track.Name)
	require.Len(t, track.Points, 4, "the point without a timestamp is dropped")
	assert.InDelta(t, 48.8566, track.Points[0].Lat, 1e-9)
	assert.InDelta(t, 2.3522, track.Points[0].Lon, 1e-9)

	start, ok := track.StartTime()
	require.True(t, ok)
	assert.Equal(t, time.Date(2023, 7, 14, 6, 0, 0, 0, time.UTC), start)
}

func TestLoadNormalizesTimezone(t *testing.T) {
	paris, err := time.LoadLocation("Europe/Paris")
	require.NoError(t, err)

	track, err := Load(writeGPX(t, rideGPX), paris)
	require.NoError(t, err)
	// 06:00 UTC is 08:00 in Paris in July.
	assert.Equal(t, 8, track.Points[0].Time.Hour())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.gpx"), time.UTC)
	var ioErr *generate.IOError
	assert.ErrorAs(t, err, &ioErr)
}

func TestLoadMalformedFile(t *testing.T) {
	_, err := Load(writeGPX(t, "this is not xml"), time.UTC)
	assert.True(t, generate.IsValidation(err), "malformed gpx should be a validation error, got %v", err)
}

func TestFilterWindow(t *testing.T) {
	track, err := Load(writeGPX(t, rideGPX), time.UTC)
	require.NoError(t, err)

	w, err := ParseWindow("2023-07-14", "06:00", "07:00:00", time.UTC)
	require.NoError(t, err)

	got := track.Filter(w)
	assert.Len(t, got.Points, 3, "the 09:00 point falls outside the window")

	assert.Same(t, track, track.Filter(nil))
}

func TestFilterWindowInclusiveBounds(t *testing.T) {
	track, err := Load(writeGPX(t, rideGPX), time.UTC)
	require.NoError(t, err)

	w, err := ParseWindow("2023-07-14", "06:30", "06:30", time.UTC)
	require.NoError(t, err)
	assert.Len(t, track.Filter(w).Points, 1)
}

func TestParseWindow(t *testing.T) {
	tests := []struct {
		name       string
		date       string
		start, end string
		wantStart  string
		wantEnd    string
		wantErr    bool
	}{
		{name: "no date means no window", date: ""},
		{
			name: "date alone selects the whole day",
			date: "2023-07-14", wantStart: "2023-07-14T00:00:00", wantEnd: "2023-07-14T23:59:59",
		},
		{
			name: "clocks narrow the day",
			date: "2023-07-14", start: "08:15", end: "17:45:30",
			wantStart: "2023-07-14T08:15:00", wantEnd: "2023-07-14T17:45:30",
		},
		{
			name: "hour only",
			date: "2023-07-14", start: "9", end: "18",
			wantStart: "2023-07-14T09:00:00", wantEnd: "2023-07-14T18:00:00",
		},
		{name: "bad date", date: "14/07/2023", wantErr: true},
		{name: "bad clock", date: "2023-07-14", start: "morning", wantErr: true},
		{name: "too many parts", date: "2023-07-14", start: "08:00:00:00", wantErr: true},
		{name: "hour out of range", date: "2023-07-14", start: "25:00", wantErr: true},
		{name: "start after end", date: "2023-07-14", start: "18:00", end: "09:00", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, err := ParseWindow(tt.date, tt.start, tt.end, time.UTC)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, generate.IsValidation(err))
				return
			}
			require.NoError(t, err)
			if tt.date == "" {
				assert.Nil(t, w)
				return
			}
			require.NotNil(t, w)
			assert.Equal(t, tt.wantStart, w.Start.Format("2006-01-02T15:04:05"))
			assert.Equal(t, tt.wantEnd, w.End.Format("2006-01-02T15:04:05"))
		})
	}
}
