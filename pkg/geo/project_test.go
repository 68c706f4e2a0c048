package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectUnprojectRoundTrip(t *testing.T) {
	for _, c := range []struct{ lat, lon float64 }{
		{48.8566, 2.3522},
		{-33.8688, 151.2093},
		{0, 0},
		{60.17, -150.02},
	} {
		p := Project(c.lat, c.lon)
		lat, lon := Unproject(p)
		assert.InDelta(t, c.lat, lat, 1e-9)
		assert.InDelta(t, c.lon, lon, 1e-9)
	}
}

func TestTileAtKnownLocation(t *testing.T) {
	// Paris on the standard slippy grid.
	tile := TileAt(Project(48.8566, 2.3522), 10)
	assert.Equal(t, Tile{X: 518, Y: 352, Z: 10}, tile)

	// The whole world is one tile at zoom zero.
	assert.Equal(t, Tile{X: 0, Y: 0, Z: 0}, TileAt(Project(48.8566, 2.3522), 0))
}

func TestTileTopLeftInverts(t *testing.T) {
	tile := Tile{X: 518, Y: 352, Z: 10}
	corner := tile.TopLeft()
	assert.Equal(t, tile, TileAt(Point{X: corner.X + 1, Y: corner.Y - 1}, 10))
}

func TestBoundsOf(t *testing.T) {
	_, ok := BoundsOf(nil)
	assert.False(t, ok)

	b, ok := BoundsOf([]Point{{X: 3, Y: -2}, {X: -1, Y: 7}, {X: 2, Y: 0}})
	require.True(t, ok)
	assert.Equal(t, BBox{MinX: -1, MinY: -2, MaxX: 3, MaxY: 7}, b)
	assert.InDelta(t, 4, b.Width(), 1e-12)
	assert.InDelta(t, 9, b.Height(), 1e-12)
	assert.Equal(t, Point{X: 1, Y: 2.5}, b.Center())

	buffered := b.Buffer(10)
	assert.Equal(t, BBox{MinX: -11, MinY: -12, MaxX: 13, MaxY: 17}, buffered)
	assert.True(t, buffered.Contains(Point{X: -11, Y: 17}))
	assert.False(t, buffered.Contains(Point{X: 14, Y: 0}))
}

func TestZoomForExtent(t *testing.T) {
	// A 10 km square into a 3600x2700 viewport: the vertical fit wins.
	b := BBox{MinX: 0, MinY: 0, MaxX: 10000, MaxY: 10000}
	assert.Equal(t, 15, ZoomForExtent(b, 3600, 2700))

	// A continent-sized extent clamps at zoom zero.
	wide := BBox{MinX: -1e9, MinY: 0, MaxX: 1e9, MaxY: 1000}
	assert.Equal(t, 0, ZoomForExtent(wide, 3600, 2700))

	// A one-meter extent clamps at the deepest zoom.
	tiny := BBox{MinX: 0, MinY: 0, MaxX: 1, MaxY: 1}
	assert.Equal(t, MaxZoom, ZoomForExtent(tiny, 3600, 2700))
}

func TestTilesCovering(t *testing.T) {
	world := BBox{MinX: -1e7, MinY: -1e7, MaxX: 1e7, MaxY: 1e7}
	rect := TilesCovering(world, 1)
	assert.Equal(t, TileRect{MinX: 0, MinY: 0, MaxX: 1, MaxY: 1, Zoom: 1}, rect)
	assert.Equal(t, 2, rect.Cols())
	assert.Equal(t, 2, rect.Rows())
	assert.Equal(t, 4, rect.Count())
	assert.Len(t, rect.Tiles(), 4)

	origin := rect.Origin()
	assert.InDelta(t, -Equator/2, origin.X, 1e-6)
	assert.InDelta(t, Equator/2, origin.Y, 1e-6)
}

func TestMetersPerPixel(t *testing.T) {
	assert.InDelta(t, Equator/256, MetersPerPixel(0), 1e-6)
	assert.InDelta(t, Equator/512, MetersPerPixel(1), 1e-6)
}
