package main

import (
	"flag"
	"fmt"
	"image"
	"os"

	"github.com/disintegration/imaging"
	pigo "github.com/esimov/pigo/core"
	"github.com/fogleman/gg"
	"github.com/muesli/smartcrop"

	"github.com/carnetphoto/carnet/asset"
	"github.com/carnetphoto/carnet/config"
)

// Shows what the collage sees in one photo: the smartcrop window in cyan,
// the largest detected face in green. Handy when a panorama crops away
// from its subject and the thresholds need tuning.
func main() {
	width := flag.Int("w", 1280, "crop window width")
	height := flag.Int("h", 960, "crop window height")
	out := flag.String("out", "crop_preview.png", "annotated preview file")
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Println("Usage: debug_crop [-w N] [-h N] [-out file.png] <photo>")
		os.Exit(1)
	}

	img, err := imaging.Open(flag.Arg(0), imaging.AutoOrientation(true))
	if err != nil {
		fmt.Println("Error opening photo:", err)
		os.Exit(1)
	}
	b := img.Bounds()
	fmt.Printf("Input: %dx%d\n", b.Dx(), b.Dy())

	analyzer := smartcrop.NewAnalyzer(resizer{})
	crop, err := analyzer.FindBestCrop(img, *width, *height)
	if err != nil {
		fmt.Println("Error finding crop:", err)
		os.Exit(1)
	}
	fmt.Printf("Best %dx%d crop: %v\n", *width, *height, crop)

	face, found := largestFace(img)
	if found {
		fmt.Printf("Largest face: %v\n", face)
	} else {
		fmt.Println("No face detected")
	}

	dc := gg.NewContextForImage(img)
	dc.SetLineWidth(6)
	dc.SetRGB(0, 1, 1)
	dc.DrawRectangle(float64(crop.Min.X), float64(crop.Min.Y),
		float64(crop.Dx()), float64(crop.Dy()))
	dc.Stroke()
	if found {
		dc.SetRGB(0, 1, 0)
		dc.DrawRectangle(float64(face.Min.X), float64(face.Min.Y),
			float64(face.Dx()), float64(face.Dy()))
		dc.Stroke()
	}
	if err := dc.SavePNG(*out); err != nil {
		fmt.Println("Error writing preview:", err)
		os.Exit(1)
	}
	fmt.Printf("Preview written to %s\n", *out)
}

// largestFace runs the same cascade the collage uses, from the same model
// location, and returns the biggest confident detection.
func largestFace(img image.Image) (image.Rectangle, bool) {
	dir, err := config.DefaultDir()
	if err != nil {
		fmt.Println("No settings directory:", err)
		return image.Rectangle{}, false
	}
	data, err := asset.NewManager(dir).GetModel("facefinder")
	if err != nil {
		fmt.Println("No face model:", err)
		return image.Rectangle{}, false
	}
	classifier, err := pigo.NewPigo().Unpack(data)
	if err != nil {
		fmt.Println("Bad face model:", err)
		return image.Rectangle{}, false
	}

	b := img.Bounds()
	maxSize := b.Dx()
	if b.Dy() < maxSize {
		maxSize = b.Dy()
	}
	params := pigo.CascadeParams{
		MinSize:     20,
		MaxSize:     maxSize,
		ShiftFactor: 0.1,
		ScaleFactor: 1.1,
		ImageParams: pigo.ImageParams{
			Pixels: pigo.RgbToGrayscale(img),
			Rows:   b.Dy(),
			Cols:   b.Dx(),
			Dim:    b.Dx(),
		},
	}
	dets := classifier.ClusterDetections(classifier.RunCascade(params, 0.0), 0.2)

	var best pigo.Detection
	found := false
	for _, det := range dets {
		if det.Q < 5.0 {
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

// resizer adapts imaging to the smartcrop analyzer.
type resizer struct{}

func (resizer) Resize(img image.Image, w, h uint) image.Image {
	return imaging.Resize(img, int(w), int(h), imaging.Lanczos)
}
