// Package geo holds the Web Mercator math, the tile/geocoding disk cache
// and the HTTP clients for the map basemap and the Nominatim geocoder.
package geo

import "math"

const (
	// Equator is the Earth's circumference in Web Mercator meters.
	Equator = 40075016.685578

	// TileSize is the pixel size of a slippy map tile.
	TileSize = 256

	// MaxZoom is the deepest zoom level the tile servers accept.
	MaxZoom = 18

	// resolutionZoom0 is the meters-per-pixel resolution of a single
	// world tile (Equator / TileSize).
	resolutionZoom0 = 156543.03
)

// Point is a position in Web Mercator (EPSG:3857) meters.
type Point struct {
	X float64
	Y float64
}

// Project converts WGS84 latitude/longitude to Web Mercator meters.
func Project(lat, lon float64) Point {
	latRad := lat * math.Pi / 180.0
	return Point{
		X: lon / 360.0 * Equator,
		Y: math.Log(math.Tan(math.Pi/4+latRad/2)) / (2 * math.Pi) * Equator,
	}
}

// Unproject converts Web Mercator meters back to WGS84 latitude/longitude.
func Unproject(p Point) (lat, lon float64) {
	lon = p.X / Equator * 360.0
	lat = math.Atan(math.Sinh(p.Y/Equator*2*math.Pi)) * 180.0 / math.Pi
	return lat, lon
}

// BBox is an axis-aligned extent in Web Mercator meters.
type BBox struct {
	MinX, MinY float64
	MaxX, MaxY float64
}

// BoundsOf returns the extent of pts. ok is false for an empty slice.
func BoundsOf(pts []Point) (b BBox, ok bool) {
	if len(pts) == 0 {
		return BBox{}, false
	}
	b = BBox{MinX: pts[0].X, MinY: pts[0].Y, MaxX: pts[0].X, MaxY: pts[0].Y}
	for _, p := range pts[1:] {
		b.MinX = math.Min(b.MinX, p.X)
		b.MinY = math.Min(b.MinY, p.Y)
		b.MaxX = math.Max(b.MaxX, p.X)
		b.MaxY = math.Max(b.MaxY, p.Y)
	}
	return b, true
}

// Width returns the horizontal extent in meters.
func (b BBox) Width() float64 { return b.MaxX - b.MinX }

// Height returns the vertical extent in meters.
func (b BBox) Height() float64 { return b.MaxY - b.MinY }

// Center returns the middle of the extent.
func (b BBox) Center() Point {
	return Point{X: (b.MinX + b.MaxX) / 2, Y: (b.MinY + b.MaxY) / 2}
}

// Buffer expands the extent by m meters on every side.
func (b BBox) Buffer(m float64) BBox {
	return BBox{MinX: b.MinX - m, MinY: b.MinY - m, MaxX: b.MaxX + m, MaxY: b.MaxY + m}
}

// Contains reports whether p falls inside the extent, borders included.
func (b BBox) Contains(p Point) bool {
	return p.X >= b.MinX && p.X <= b.MaxX && p.Y >= b.MinY && p.Y <= b.MaxY
}

// ZoomForExtent picks the deepest zoom level at which the extent still fits
// inside a widthPx by heightPx viewport, clamped to [0, MaxZoom].
func ZoomForExtent(b BBox, widthPx, heightPx int) int {
	zoomLon := math.Log2(resolutionZoom0 * float64(widthPx) / b.Width())
	zoomLat := math.Log2(resolutionZoom0 * float64(heightPx) / b.Height())
	zoom := int(math.Min(zoomLon, zoomLat))
	if zoom < 0 {
		zoom = 0
	}
	if zoom > MaxZoom {
		zoom = MaxZoom
	}
	return zoom
}

// MetersPerPixel returns the map resolution at a zoom level.
func MetersPerPixel(zoom int) float64 {
	return Equator / float64(int(TileSize)<<zoom)
}

// Tile identifies a slippy map tile in XYZ coordinates, Y counted from the
// north.
type Tile struct {
	X, Y, Z int
}

// TileAt returns the tile containing p at a zoom level.
func TileAt(p Point, zoom int) Tile {
	n := 1 << zoom
	x := int((0.5 + p.X/Equator) * float64(n))
	y := int((0.5 - p.Y/Equator) * float64(n))
	return Tile{X: clamp(x, 0, n-1), Y: clamp(y, 0, n-1), Z: zoom}
}

// TopLeft returns the Web Mercator position of the tile's north-west corner.
func (t Tile) TopLeft() Point {
	n := float64(int(1) << t.Z)
	return Point{
		X: (float64(t.X)/n - 0.5) * Equator,
		Y: (0.5 - float64(t.Y)/n) * Equator,
	}
}

// TileRect is an inclusive rectangle of tile indices at one zoom level.
type TileRect struct {
	MinX, MinY int
	MaxX, MaxY int
	Zoom       int
}

// TilesCovering returns the tile rectangle spanning the extent at a zoom
// level, clamped to the world.
func TilesCovering(b BBox, zoom int) TileRect {
	nw := TileAt(Point{X: b.MinX, Y: b.MaxY}, zoom)
	se := TileAt(Point{X: b.MaxX, Y: b.MinY}, zoom)
	return TileRect{MinX: nw.X, MinY: nw.Y, MaxX: se.X, MaxY: se.Y, Zoom: zoom}
}

// Cols returns the number of tile columns.
func (r TileRect) Cols() int { return r.MaxX - r.MinX + 1 }

// Rows returns the number of tile rows.
func (r TileRect) Rows() int { return r.MaxY - r.MinY + 1 }

// Count returns the total number of tiles.
func (r TileRect) Count() int { return r.Cols() * r.Rows() }

// Tiles lists every tile in the rectangle, row by row.
func (r TileRect) Tiles() []Tile {
	tiles := make([]Tile, 0, r.Count())
	for y := r.MinY; y <= r.MaxY; y++ {
		for x := r.MinX; x <= r.MaxX; x++ {
			tiles = append(tiles, Tile{X: x, Y: y, Z: r.Zoom})
		}
	}
	return tiles
}

// Origin returns the Web Mercator position of the rectangle's north-west
// corner.
func (r TileRect) Origin() Point {
	return Tile{X: r.MinX, Y: r.MinY, Z: r.Zoom}.TopLeft()
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
