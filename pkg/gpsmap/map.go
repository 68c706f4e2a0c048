// Package gpsmap renders a GPX track into a static map picture: OSM France
// tiles stitched under direction arrows, start and end flags, geocoded city
// markers and an optional title, written as a print-resolution JPEG with the
// trip date in its metadata.
package gpsmap

import (
	"context"
	"math"
	"path/filepath"
	"time"

	"github.com/carnetphoto/carnet/asset"
	"github.com/carnetphoto/carnet/pkg/exifmeta"
	"github.com/carnetphoto/carnet/pkg/generate"
	"github.com/carnetphoto/carnet/pkg/geo"
	"github.com/carnetphoto/carnet/pkg/gpx"
)

// Request carries the user-facing knobs of a map run.
type Request struct {
	// GPXPath is the track file to draw.
	GPXPath string

	// Date filters track points to one day (YYYY-MM-DD); StartClock and
	// EndClock narrow it further (HH, HH:MM or HH:MM:SS). All empty keeps
	// the whole track.
	Date       string
	StartClock string
	EndClock   string

	// Cities are marker entries in the form "query[:label[:position]]".
	Cities []string

	// RefImage, when set, supplies the capture date for the output
	// metadata, backdated a little.
	RefImage string

	// MarginM overrides the margin around the track, in meters. Zero
	// derives it from the zoom level.
	MarginM float64

	// Title is drawn in the top-left corner.
	Title string

	// OutputName is the output file name, extension optional.
	OutputName string
}

const (
	// zoomProbeBufferM pads the raw track bounds before choosing a zoom
	// level, so hairline tracks do not zoom in absurdly far.
	zoomProbeBufferM = 1000

	// autoMarginBaseM is the margin at zoom 12; it doubles per zoom level
	// out, halves per level in.
	autoMarginBaseM = 3000

	// arrowBaseSpacingM is the arrow interval at zoom 12, scaled the same
	// way as the margin.
	arrowBaseSpacingM = 1000

	// captureDelta backdates the map against its reference photo so the
	// map sorts first in date-ordered galleries.
	captureDelta = 10 * time.Second
)

// Generate renders the map described by req into the target folder and
// returns the path of the written file.
func Generate(ctx context.Context, env *generate.Env, assets *asset.Manager, req Request) (string, error) {
	if req.OutputName == "" {
		return "", generate.Validationf("output name is required")
	}
	if req.MarginM < 0 {
		return "", generate.Validationf("margin must be positive, got %.0f", req.MarginM)
	}
	cities, err := ParseCities(req.Cities)
	if err != nil {
		return "", err
	}
	window, err := gpx.ParseWindow(req.Date, req.StartClock, req.EndClock, env.Timezone())
	if err != nil {
		return "", err
	}
	if assets == nil {
		assets = asset.NewManager("")
	}

	env.Progressf("Reading %s", filepath.Base(req.GPXPath))
	track, err := gpx.Load(req.GPXPath, env.Timezone())
	if err != nil {
		return "", err
	}
	track = track.Filter(window)
	if len(track.Points) < 2 {
		return "", generate.Validationf("not enough track points in the selected window to draw a trace")
	}
	env.Progressf("%d track points kept", len(track.Points))

	merc := make([]geo.Point, len(track.Points))
	for i, p := range track.Points {
		merc[i] = geo.Project(p.Lat, p.Lon)
	}
	bounds, _ := geo.BoundsOf(merc)

	zoom := geo.ZoomForExtent(bounds.Buffer(zoomProbeBufferM), RenderWidth, RenderHeight)
	env.Progressf("Zoom level %d", zoom)

	margin := req.MarginM
	if margin == 0 {
		margin = autoMarginBaseM * math.Pow(2, float64(12-zoom))
		env.Progressf("Margin %.0fm (from zoom)", margin)
	} else {
		env.Progressf("Margin %.0fm", margin)
	}
	extent := bounds.Buffer(margin)

	if err := env.CheckTarget(); err != nil {
		return "", err
	}

	cache := geo.NewCache(env.CacheDir)
	placed, err := locateCities(ctx, env, cache, cities, extent)
	if err != nil {
		return "", err
	}

	env.Progressf("Fetching basemap tiles")
	fetcher := geo.NewFetcher(geo.OSMFrance(), env.HTTP, cache)
	basemap, err := fetcher.Fetch(ctx, extent, zoom, nil)
	if err != nil {
		return "", err
	}
	if basemap.Failed > 0 {
		env.Progressf("Warning: %d of %d tiles missing, background left blank there", basemap.Failed, basemap.Total)
	}

	sc := &scene{
		extent:    extent,
		basemap:   basemap.Image,
		track:     merc,
		spacing:   arrowBaseSpacingM / math.Pow(2, float64(zoom-12)),
		cities:    placed,
		title:     req.Title,
		labelFace: assets.TitleFace(ptToPx(labelFontPt)),
		titleFace: assets.TitleFace(ptToPx(titleFontPt)),
	}
	img := sc.render()

	data, err := generate.EncodeJPEG(img)
	if err != nil {
		return "", err
	}
	if taken, ok := captureDate(env, req.RefImage, window); ok {
		tagged, err := exifmeta.EmbedBytes(data, exifmeta.Record{CaptureDate: taken, Rating: 5})
		if err != nil {
			env.Progressf("Warning: %v", &generate.MetadataError{Err: err})
		} else {
			data = tagged
		}
	} else {
		env.Progressf("Warning: no date source for the map, metadata skipped")
	}

	out, err := env.WriteJPEGBytes(req.OutputName, data)
	if err != nil {
		return "", err
	}
	env.Progressf("Map written to %s", out)
	return out, nil
}

// locateCities geocodes the requested markers inside extent. Cities that
// cannot be resolved or land outside the map are skipped with a warning;
// only a canceled context aborts the run.
func locateCities(ctx context.Context, env *generate.Env, cache *geo.Cache, cities []City, extent geo.BBox) ([]placedCity, error) {
	if len(cities) == 0 {
		return nil, nil
	}
	geocoder := geo.NewGeocoder(env.HTTP, cache)
	placed := make([]placedCity, 0, len(cities))
	for _, c := range cities {
		env.Progressf("Geocoding %q", c.Query)
		place, err := geocoder.Locate(ctx, c.Query, extent)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			env.Progressf("Warning: city %q skipped: %v", c.Query, err)
			continue
		}
		at := geo.Project(place.Lat, place.Lon)
		if !extent.Contains(at) {
			env.Progressf("Warning: city %q is outside the map, skipped", c.Query)
			continue
		}
		placed = append(placed, placedCity{at: at, label: c.Label, anchor: c.anchorAt(at, extent)})
	}
	return placed, nil
}

// captureDate picks the date stamped on the map: the reference photo's
// capture date backdated by captureDelta, else the start of the filter
// window. Without either the map carries no date.
func captureDate(env *generate.Env, refImage string, window *gpx.Window) (time.Time, bool) {
	if refImage != "" {
		taken, err := exifmeta.CaptureDate(refImage)
		if err == nil {
			return taken.Add(-captureDelta), true
		}
		env.Progressf("Warning: reference image unreadable: %v", err)
	}
	if window != nil {
		return window.Start, true
	}
	return time.Time{}, false
}
