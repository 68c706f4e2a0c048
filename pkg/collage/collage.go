// Package collage composes 2 to 7 photos into a single 4K picture: tilted,
// white-framed prints scattered over a black canvas, with an optional title
// and date header. Layouts are randomized so the same photos give a fresh
// arrangement on every run.
package collage

import (
	"context"
	"image"
	"image/color"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/carnetphoto/carnet/asset"
	"github.com/carnetphoto/carnet/pkg/exifmeta"
	"github.com/carnetphoto/carnet/pkg/generate"
)

// Options are the user-facing knobs of a collage run.
type Options struct {
	// Title is drawn in the header strip and recorded in the output
	// metadata. Empty means no header and a full-height photo area.
	Title string

	// DateLabel overrides the date line under the title. Empty derives it
	// from the capture date.
	DateLabel string

	// RefImage, when set, supplies the capture date instead of the oldest
	// photo.
	RefImage string

	// OutputName overrides the output file name.
	OutputName string
}

// captureDelta is subtracted from the reference date so the collage sorts
// just before its source photos in date-ordered galleries.
const captureDelta = 30 * time.Second

// Header text geometry, in canvas pixels.
const (
	titleFontSize = 120
	dateFontSize  = 80
	headerX       = 30
	titleTop      = 30
	dateTop       = 170
)

// Generate builds a collage from the given photos and writes it into the
// target folder. It returns the path of the written file.
func Generate(ctx context.Context, env *generate.Env, assets *asset.Manager, paths []string, opts Options) (string, error) {
	if len(paths) < MinImages || len(paths) > MaxImages {
		return "", generate.Validationf("a collage needs %d to %d photos, got %d", MinImages, MaxImages, len(paths))
	}
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			return "", generate.Validationf("photo not found: %s", path)
		}
	}
	if assets == nil {
		assets = asset.NewManager("")
	}

	taken, err := captureTime(paths, opts.RefImage)
	if err != nil {
		return "", err
	}
	dateLabel := opts.DateLabel
	if dateLabel == "" {
		dateLabel = taken.Format("2006-01-02")
	}

	if err := env.CheckTarget(); err != nil {
		return "", err
	}

	canvas, err := composeCanvas(ctx, env, assets, paths, opts.Title, dateLabel)
	if err != nil {
		return "", err
	}

	data, err := generate.EncodeJPEG(canvas)
	if err != nil {
		return "", err
	}
	tagged, err := exifmeta.EmbedBytes(data, exifmeta.Record{
		CaptureDate: taken,
		Rating:      5,
		Title:       opts.Title,
	})
	if err != nil {
		// The picture is still good without its tags.
		env.Progressf("Warning: %v", &generate.MetadataError{Err: err})
	} else {
		data = tagged
	}

	out, err := env.WriteJPEGBytes(outputName(opts, dateLabel), data)
	if err != nil {
		return "", err
	}
	env.Progressf("Collage written to %s", out)
	return out, nil
}

// captureTime derives the collage capture date from the reference photo, or
// from the oldest photo when none is given, backdated by captureDelta.
func captureTime(paths []string, refImage string) (time.Time, error) {
	if refImage != "" {
		taken, err := exifmeta.CaptureDate(refImage)
		if err != nil {
			return time.Time{}, generate.Validationf("reference image: %v", err)
		}
		return taken.Add(-captureDelta), nil
	}
	taken, err := exifmeta.EarliestCaptureDate(paths)
	if err != nil {
		return time.Time{}, generate.Validationf("reading photo dates: %v", err)
	}
	return taken.Add(-captureDelta), nil
}

// outputName picks the output file name: explicit name first, then the
// title, then a date-stamped default.
func outputName(opts Options, dateLabel string) string {
	switch {
	case opts.OutputName != "":
		return opts.OutputName
	case opts.Title != "":
		return opts.Title
	default:
		return "collage_" + dateLabel
	}
}

// composeCanvas scatters the photos over a fresh black canvas. A non-empty
// title reserves the header strip and draws the two text lines.
func composeCanvas(ctx context.Context, env *generate.Env, assets *asset.Manager, paths []string, title, dateLabel string) (*image.NRGBA, error) {
	rng := env.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	canvas := imaging.New(CanvasWidth, CanvasHeight, color.Black)
	withHeader := title != ""
	if withHeader {
		drawHeader(canvas, assets, title, dateLabel)
	}

	area := photoArea(withHeader)
	cells, cols, rows, _ := shuffledCells(len(paths), rng)
	cellW := float64(area.Dx()) / float64(cols)
	cellH := float64(area.Dy()) / float64(rows)
	maxW, maxH := tileBounds(area)

	prep := newTilePreparer(assets)
	for i, path := range paths {
		env.Progressf("Adding photo %d/%d: %s", i+1, len(paths), filepath.Base(path))
		tile, err := prep.prepare(ctx, path, maxW, maxH)
		if err != nil {
			return nil, err
		}
		placed := place(tile, cells[i], area, cellW, cellH, rng, i)
		canvas = imaging.Overlay(canvas, placed.Image, image.Pt(placed.X, placed.Y), 1.0)
	}
	return canvas, nil
}

// place frames, tilts and positions one prepared tile on its layout cell.
func place(tile image.Image, c cell, area image.Rectangle, cellW, cellH float64, rng *rand.Rand, z int) PlacedImage {
	framed := frame(tile)
	angle := tilt(rng)
	rotated := imaging.Rotate(framed, float64(angle), color.Transparent)
	x, y := anchor(c, area, cellW, cellH, rotated.Bounds().Dx(), rotated.Bounds().Dy(), rng)
	return PlacedImage{Image: rotated, X: x, Y: y, Angle: angle, Z: z}
}

// frame surrounds a tile with the white print border.
func frame(tile image.Image) image.Image {
	b := tile.Bounds()
	framed := imaging.New(b.Dx()+2*borderSize, b.Dy()+2*borderSize, color.White)
	return imaging.Paste(framed, tile, image.Pt(borderSize, borderSize))
}

// drawHeader writes the title and date lines onto the reserved strip.
func drawHeader(canvas *image.NRGBA, assets *asset.Manager, title, dateLabel string) {
	drawText(canvas, assets.TitleFace(titleFontSize), title, headerX, titleTop)
	drawText(canvas, assets.TitleFace(dateFontSize), dateLabel, headerX, dateTop)
}

// drawText draws s in white with its ascender line at y, so (x, y) behaves
// like a top-left anchor.
func drawText(dst *image.NRGBA, face font.Face, s string, x, y int) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.White,
		Face: face,
		Dot:  fixed.P(x, y+face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(s)
}
