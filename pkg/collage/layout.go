package collage

import (
	"image"
	"math/rand"
)

// Canvas dimensions, 4K.
const (
	CanvasWidth  = 3840
	CanvasHeight = 2160
)

const (
	// borderSize is the white frame around each photo.
	borderSize = 20

	// areaMargin keeps photos off the canvas edge.
	areaMargin = 30

	// headerHeight reserves room for the title and date lines.
	headerHeight = 250

	// sizeFactor lets tiles overflow their grid cell for a denser look.
	sizeFactor = 1.3

	// maxTilt bounds the random rotation, in degrees.
	maxTilt = 15

	// centerJitter is the random offset from the cell center, as a
	// fraction of the cell size.
	centerJitter = 0.15

	// extraJitterPx is the additional random pixel offset.
	extraJitterPx = 40
)

// cell is a tile anchor on the layout grid. Fractional coordinates center a
// tile between grid lines.
type cell struct {
	col float64
	row float64
}

// arrangement is the predefined cell pattern for one photo count. The
// patterns stagger odd counts instead of leaving grid holes.
type arrangement struct {
	cells []cell
	cols  int
	rows  int
}

var arrangements = map[int]arrangement{
	2: {cells: []cell{{0, 0}, {1, 0}}, cols: 2, rows: 1},
	3: {cells: []cell{{0, 0}, {1, 0}, {0.5, 1}}, cols: 2, rows: 2},
	4: {cells: []cell{{0, 0}, {1, 0}, {0, 1}, {1, 1}}, cols: 2, rows: 2},
	5: {cells: []cell{{0, 0}, {1, 0}, {2, 0}, {0.5, 1}, {1.5, 1}}, cols: 3, rows: 2},
	6: {cells: []cell{{0, 0}, {0, 1}, {1, 0}, {1, 1}, {2, 0}, {2, 1}}, cols: 3, rows: 2},
	7: {cells: []cell{{0, 0.5}, {0, 2}, {1, 0.5}, {1, 2}, {2, 0}, {2, 1}, {2, 2}}, cols: 3, rows: 3},
}

// MinImages and MaxImages bound the accepted photo count.
const (
	MinImages = 2
	MaxImages = 7
)

// photoArea returns the canvas region available to photos. The header strip
// is reserved only when a title is drawn.
func photoArea(withHeader bool) image.Rectangle {
	if withHeader {
		return image.Rect(areaMargin, headerHeight, CanvasWidth-areaMargin, CanvasHeight-areaMargin)
	}
	return image.Rect(areaMargin, areaMargin, CanvasWidth-areaMargin, CanvasHeight-areaMargin)
}

// tileBounds returns the maximum tile size inside area.
func tileBounds(area image.Rectangle) (maxW, maxH int) {
	return int(float64(area.Dx()) / 3 * sizeFactor), int(float64(area.Dy()) / 3 * sizeFactor)
}

// shuffledCells returns the arrangement's cells for n photos in a random
// order, so the same photos land in different spots on every run.
func shuffledCells(n int, rng *rand.Rand) (cells []cell, cols, rows int, ok bool) {
	a, ok := arrangements[n]
	if !ok {
		return nil, 0, 0, false
	}
	cells = make([]cell, len(a.cells))
	copy(cells, a.cells)
	rng.Shuffle(len(cells), func(i, j int) {
		cells[i], cells[j] = cells[j], cells[i]
	})
	return cells, a.cols, a.rows, true
}

// PlacedImage is a prepared tile with its paste position on the canvas.
// Later entries paint over earlier ones.
type PlacedImage struct {
	Image image.Image
	X, Y  int
	// Angle is the applied rotation in degrees, counter-clockwise.
	Angle int
	// Z is the paint order index.
	Z int
}

// tilt draws a random rotation angle in [-maxTilt, maxTilt] degrees.
func tilt(rng *rand.Rand) int {
	return rng.Intn(2*maxTilt+1) - maxTilt
}

// anchor computes the paste position for a tile of size w x h assigned to c.
// The position is the cell center, nudged by a fractional jitter and a few
// extra pixels.
func anchor(c cell, area image.Rectangle, cellW, cellH float64, w, h int, rng *rand.Rand) (x, y int) {
	centerX := float64(area.Min.X) + c.col*cellW + cellW/2 + (rng.Float64()*2-1)*cellW*centerJitter
	centerY := float64(area.Min.Y) + c.row*cellH + cellH/2 + (rng.Float64()*2-1)*cellH*centerJitter

	offsetX := rng.Intn(2*extraJitterPx+1) - extraJitterPx
	offsetY := rng.Intn(2*extraJitterPx+1) - extraJitterPx

	x = int(centerX-float64(w)/2) + offsetX
	y = int(centerY-float64(h)/2) + offsetY
	return x, y
}
