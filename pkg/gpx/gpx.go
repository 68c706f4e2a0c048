// Package gpx loads GPS track files and filters their points by a
// date/time window.
package gpx

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/tkrajina/gpxgo/gpx"

	"github.com/carnetphoto/carnet/pkg/generate"
)

// Point is a single track point. Time is always set, in the reading
// timezone; points without a timestamp are dropped at load.
type Point struct {
	Lat  float64
	Lon  float64
	Time time.Time
}

// Track is a flattened GPS track.
type Track struct {
	Name   string
	Points []Point
}

// Load reads a GPX file and flattens all tracks and segments into a single
// point sequence, normalizing timestamps to loc. Points without a timestamp
// are dropped. A nil loc means the local timezone.
func Load(path string, loc *time.Location) (*Track, error) {
	if loc == nil {
		loc = time.Local
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &generate.IOError{Op: fmt.Sprintf("reading %s", path), Err: err}
	}
	g, err := gpx.ParseBytes(data)
	if err != nil {
		return nil, generate.Validationf("not a valid GPX file: %v", err)
	}

	t := &Track{Name: g.Name}
	for _, trk := range g.Tracks {
		if t.Name == "" {
			t.Name = trk.Name
		}
		for _, seg := range trk.Segments {
			for _, p := range seg.Points {
				if p.Timestamp.IsZero() {
					continue
				}
				t.Points = append(t.Points, Point{
					Lat:  p.Latitude,
					Lon:  p.Longitude,
					Time: p.Timestamp.In(loc),
				})
			}
		}
	}
	return t, nil
}

// StartTime returns the timestamp of the first point.
func (t *Track) StartTime() (time.Time, bool) {
	if len(t.Points) == 0 {
		return time.Time{}, false
	}
	return t.Points[0].Time, true
}

// Filter returns the points that fall inside w, inclusive at both ends.
// A nil window keeps every point.
func (t *Track) Filter(w *Window) *Track {
	if w == nil {
		return t
	}
	out := &Track{Name: t.Name}
	for _, p := range t.Points {
		if p.Time.Before(w.Start) || p.Time.After(w.End) {
			continue
		}
		out.Points = append(out.Points, p)
	}
	return out
}

// Window is an inclusive time range used to select track points.
type Window struct {
	Start time.Time
	End   time.Time
}

// ParseWindow builds a window from a day and optional clock bounds. An
// empty date means no filtering and returns nil. The date alone selects
// the whole day; startClock and endClock, given as HH, HH:MM or HH:MM:SS,
// narrow it. Bad input is a validation error.
func ParseWindow(date, startClock, endClock string, loc *time.Location) (*Window, error) {
	if date == "" {
		return nil, nil
	}
	if loc == nil {
		loc = time.Local
	}
	day, err := time.ParseInLocation("2006-01-02", date, loc)
	if err != nil {
		return nil, generate.Validationf("date must be YYYY-MM-DD, got %q", date)
	}

	w := &Window{
		Start: day,
		End:   time.Date(day.Year(), day.Month(), day.Day(), 23, 59, 59, 0, loc),
	}
	if startClock != "" {
		h, m, s, err := parseClock(startClock)
		if err != nil {
			return nil, err
		}
		w.Start = time.Date(day.Year(), day.Month(), day.Day(), h, m, s, 0, loc)
	}
	if endClock != "" {
		h, m, s, err := parseClock(endClock)
		if err != nil {
			return nil, err
		}
		w.End = time.Date(day.Year(), day.Month(), day.Day(), h, m, s, 0, loc)
	}
	if w.Start.After(w.End) {
		return nil, generate.Validationf("start time %s is after end time %s", startClock, endClock)
	}
	return w, nil
}

// parseClock reads HH, HH:MM or HH:MM:SS. Missing parts default to zero.
func parseClock(clock string) (h, m, s int, err error) {
	parts := strings.Split(clock, ":")
	if len(parts) > 3 {
		return 0, 0, 0, generate.Validationf("time must be HH, HH:MM or HH:MM:SS, got %q", clock)
	}
	vals := [3]int{}
	for i, p := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return 0, 0, 0, generate.Validationf("time must be numeric, got %q", clock)
		}
		vals[i] = v
	}
	h, m, s = vals[0], vals[1], vals[2]
	if h < 0 || h > 23 || m < 0 || m > 59 || s < 0 || s > 59 {
		return 0, 0, 0, generate.Validationf("time out of range: %q", clock)
	}
	return h, m, s, nil
}
