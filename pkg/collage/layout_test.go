package collage

import (
	"context"
	"image"
	"image/color"
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArrangementsCoverAllCounts(t *testing.T) {
	for n := MinImages; n <= MaxImages; n++ {
		a, ok := arrangements[n]
		require.True(t, ok, "no arrangement for %d photos", n)
		assert.Len(t, a.cells, n)
		for _, c := range a.cells {
			assert.GreaterOrEqual(t, c.col, 0.0)
			assert.Less(t, c.col, float64(a.cols))
			assert.GreaterOrEqual(t, c.row, 0.0)
			assert.Less(t, c.row, float64(a.rows))
		}
	}
}

func TestPhotoArea(t *testing.T) {
	full := photoArea(false)
	assert.Equal(t, image.Rect(30, 30, CanvasWidth-30, CanvasHeight-30), full)

	headed := photoArea(true)
	assert.Equal(t, headerHeight, headed.Min.Y)
	assert.Equal(t, full.Max, headed.Max)
}

func TestShuffledCellsPermutes(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	cells, cols, rows, ok := shuffledCells(5, rng)
	require.True(t, ok)
	assert.Equal(t, 3, cols)
	assert.Equal(t, 2, rows)
	assert.ElementsMatch(t, arrangements[5].cells, cells)

	_, _, _, ok = shuffledCells(9, rng)
	assert.False(t, ok)
}

func TestTiltStaysBounded(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 1000; i++ {
		a := tilt(rng)
		assert.GreaterOrEqual(t, a, -maxTilt)
		assert.LessOrEqual(t, a, maxTilt)
	}
}

func TestAnchorStaysNearCell(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	area := photoArea(false)
	cellW := float64(area.Dx()) / 3
	cellH := float64(area.Dy()) / 2

	// A tile anchored on cell (1, 1) must stay within the jitter reach of
	// that cell's center.
	for i := 0; i < 200; i++ {
		x, y := anchor(cell{1, 1}, area, cellW, cellH, 300, 200, rng)
		centerX := float64(area.Min.X) + 1.5*cellW
		centerY := float64(area.Min.Y) + 1.5*cellH
		reachX := cellW*centerJitter + extraJitterPx + 1
		reachY := cellH*centerJitter + extraJitterPx + 1

		assert.InDelta(t, centerX-150, float64(x), reachX)
		assert.InDelta(t, centerY-100, float64(y), reachY)
	}
}

func TestShiftToInclude(t *testing.T) {
	bounds := image.Rect(0, 0, 1000, 400)

	// Face to the right of the crop pulls the window right.
	crop := shiftToInclude(image.Rect(0, 0, 400, 400), image.Rect(600, 100, 700, 200), bounds)
	assert.True(t, image.Pt(650, 150).In(crop))
	assert.True(t, crop.In(bounds))

	// A face already inside leaves the crop alone.
	same := shiftToInclude(image.Rect(100, 0, 500, 400), image.Rect(200, 100, 300, 200), bounds)
	assert.Equal(t, image.Rect(100, 0, 500, 400), same)

	// Clamping never pushes the window off the image.
	clamped := shiftToInclude(image.Rect(0, 0, 400, 400), image.Rect(950, 350, 1050, 450), bounds)
	assert.True(t, clamped.In(bounds))
}

func TestMinFaceSize(t *testing.T) {
	assert.Equal(t, 20, minFaceSize(image.Rect(0, 0, 640, 480)))
	assert.Equal(t, 30, minFaceSize(image.Rect(0, 0, 4000, 3000)))
}

func TestPrepareBoundsTile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "photo.jpg")
	img := imaging.New(400, 300, color.NRGBA{R: 200, G: 40, B: 40, A: 255})
	require.NoError(t, imaging.Save(img, path))

	tp := newTilePreparer(nil)
	tile, err := tp.prepare(context.Background(), path, 150, 100)
	require.NoError(t, err)
	assert.LessOrEqual(t, tile.Bounds().Dx(), 150)
	assert.LessOrEqual(t, tile.Bounds().Dy(), 100)
}

func TestPrepareCropsPanorama(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pano.jpg")
	img := imaging.New(1200, 100, color.NRGBA{R: 40, G: 120, B: 200, A: 255})
	require.NoError(t, imaging.Save(img, path))

	tp := newTilePreparer(nil)
	tile, err := tp.prepare(context.Background(), path, 300, 200)
	require.NoError(t, err)
	assert.LessOrEqual(t, tile.Bounds().Dx(), 300)
	assert.LessOrEqual(t, tile.Bounds().Dy(), 200)

	// The crop keeps the tile from collapsing into a sliver.
	aspect := float64(tile.Bounds().Dx()) / float64(tile.Bounds().Dy())
	assert.Less(t, aspect, panoramaThreshold+0.1)
}

func TestPrepareHonorsCancel(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "photo.jpg")
	img := imaging.New(100, 100, color.NRGBA{R: 10, G: 10, B: 10, A: 255})
	require.NoError(t, imaging.Save(img, path))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	tp := newTilePreparer(nil)
	_, err := tp.prepare(ctx, path, 300, 200)
	assert.ErrorIs(t, err, context.Canceled)
}
