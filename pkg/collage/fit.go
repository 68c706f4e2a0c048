package collage

import (
	"context"
	"image"

	"github.com/disintegration/imaging"
	pigo "github.com/esimov/pigo/core"
	"github.com/muesli/smartcrop"

	"github.com/carnetphoto/carnet/asset"
	"github.com/carnetphoto/carnet/pkg/generate"
	"github.com/carnetphoto/carnet/util/log"
)

// panoramaThreshold is the width to height ratio beyond which a photo is
// cropped toward its subject instead of letterboxed into a sliver.
const panoramaThreshold = 2.2

// Face detection cascade parameters.
const (
	faceShiftFactor      = 0.1
	faceScaleFactor      = 1.1
	faceQualityThreshold = 5.0
	faceClusterIoU       = 0.2
)

// tilePreparer loads photos and shapes them for the canvas.
type tilePreparer struct {
	classifier *pigo.Pigo // nil when no face model is installed
	resampler  imaging.ResampleFilter
}

// newTilePreparer builds a preparer, loading the optional face detection
// model. A missing or corrupt model only disables face anchoring.
func newTilePreparer(assets *asset.Manager) *tilePreparer {
	tp := &tilePreparer{resampler: imaging.Lanczos}
	if assets == nil {
		return tp
	}

	modelData, err := assets.GetModel("facefinder")
	if err != nil {
		log.Debugf("No face detection model: %v. Panorama crops will not be face anchored.", err)
		return tp
	}
	p := pigo.NewPigo()
	classifier, err := p.Unpack(modelData)
	if err != nil {
		log.Printf("Failed to unpack face detection model: %v. Panorama crops will not be face anchored.", err)
		return tp
	}
	tp.classifier = classifier
	return tp
}

// prepare loads one photo, bakes in its EXIF orientation and bounds it to
// maxW x maxH without ever upscaling. Extreme panoramas are smart-cropped
// toward their subject first.
func (tp *tilePreparer) prepare(ctx context.Context, path string, maxW, maxH int) (image.Image, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, generate.Validationf("cannot read photo %s: %v", path, err)
	}
	if err := checkContext(ctx); err != nil {
		return nil, err
	}

	b := img.Bounds()
	aspect := float64(b.Dx()) / float64(b.Dy())
	if aspect > panoramaThreshold || 1/aspect > panoramaThreshold {
		img = tp.cropPanorama(img, maxW, maxH)
		if err := checkContext(ctx); err != nil {
			return nil, err
		}
	}
	return imaging.Fit(img, maxW, maxH, tp.resampler), nil
}

// cropPanorama cuts the most interesting maxW x maxH shaped region out of a
// very wide or very tall photo. When a face is detected the window is
// shifted to keep the largest face inside.
func (tp *tilePreparer) cropPanorama(img image.Image, maxW, maxH int) image.Image {
	r := &resizer{resampler: tp.resampler}
	analyzer := smartcrop.NewAnalyzer(r)

	crop, err := analyzer.FindBestCrop(img, maxW, maxH)
	if err != nil {
		log.Debugf("Smart crop failed, keeping the full frame: %v", err)
		return img
	}
	if face, ok := tp.largestFace(img); ok {
		crop = shiftToInclude(crop, face, img.Bounds())
	}

	type SubImager interface {
		SubImage(r image.Rectangle) image.Image
	}
	if s, ok := img.(SubImager); ok {
		return s.SubImage(crop)
	}
	return imaging.Crop(img, crop)
}

// largestFace runs the cascade over the full frame and returns the biggest
// detection above the confidence threshold.
func (tp *tilePreparer) largestFace(img image.Image) (image.Rectangle, bool) {
	if tp.classifier == nil {
		return image.Rectangle{}, false
	}

	b := img.Bounds()
	maxSize := b.Dx()
	if b.Dy() < maxSize {
		maxSize = b.Dy()
	}
	params := pigo.CascadeParams{
		MinSize:     minFaceSize(b),
		MaxSize:     maxSize,
		ShiftFactor: faceShiftFactor,
		ScaleFactor: faceScaleFactor,
		ImageParams: pigo.ImageParams{
			Pixels: pigo.RgbToGrayscale(img),
			Rows:   b.Dy(),
			Cols:   b.Dx(),
			Dim:    b.Dx(),
		},
	}
	dets := tp.classifier.RunCascade(params, 0.0)
	dets = tp.classifier.ClusterDetections(dets, faceClusterIoU)

	var best pigo.Detection
	found := false
	for _, det := range dets {
		if det.Q < faceQualityThreshold {
			continue
		}
		if !found || det.Scale > best.Scale {
			best = det
			found = true
		}
	}
	if !found {
		return image.Rectangle{}, false
	}
	half := best.Scale / 2
	return image.Rect(best.Col-half, best.Row-half, best.Col+half, best.Row+half), true
}

// minFaceSize is 1% of the short side, floored at the detector minimum.
func minFaceSize(b image.Rectangle) int {
	short := b.Dx()
	if b.Dy() < short {
		short = b.Dy()
	}
	size := short / 100
	if size < 20 {
		size = 20
	}
	return size
}

// shiftToInclude translates crop the minimum distance needed to contain the
// face center, then clamps the window back onto the image.
func shiftToInclude(crop, face, bounds image.Rectangle) image.Rectangle {
	cx := (face.Min.X + face.Max.X) / 2
	cy := (face.Min.Y + face.Max.Y) / 2

	dx, dy := 0, 0
	if cx < crop.Min.X {
		dx = cx - crop.Min.X
	} else if cx >= crop.Max.X {
		dx = cx - crop.Max.X + 1
	}
	if cy < crop.Min.Y {
		dy = cy - crop.Min.Y
	} else if cy >= crop.Max.Y {
		dy = cy - crop.Max.Y + 1
	}
	crop = crop.Add(image.Pt(dx, dy))

	if crop.Min.X < bounds.Min.X {
		crop = crop.Add(image.Pt(bounds.Min.X-crop.Min.X, 0))
	}
	if crop.Min.Y < bounds.Min.Y {
		crop = crop.Add(image.Pt(0, bounds.Min.Y-crop.Min.Y))
	}
	if crop.Max.X > bounds.Max.X {
		crop = crop.Add(image.Pt(bounds.Max.X-crop.Max.X, 0))
	}
	if crop.Max.Y > bounds.Max.Y {
		crop = crop.Add(image.Pt(0, bounds.Max.Y-crop.Max.Y))
	}
	return crop
}

// resizer implements the smartcrop.Resizer interface.
type resizer struct {
	resampler imaging.ResampleFilter
}

func (r *resizer) Resize(img image.Image, width, height uint) image.Image {
	return imaging.Resize(img, int(width), int(height), r.resampler)
}

func checkContext(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}
