package exifmeta

import (
	"bytes"
	"fmt"
	"time"

	exif "github.com/dsoprea/go-exif/v3"
	exifcommon "github.com/dsoprea/go-exif/v3/common"
	jpegstructure "github.com/dsoprea/go-jpeg-image-structure/v2"

	"github.com/carnetphoto/carnet/config"
)

// ratingTagID is the Windows XP Rating tag. It is not part of the standard
// tag index, so it is written as a raw SHORT.
const ratingTagID = 0x4746

// Record is the metadata embedded into every generated image.
type Record struct {
	// CaptureDate fills DateTime, DateTimeOriginal and DateTimeDigitized.
	CaptureDate time.Time
	// Rating is written when non-zero.
	Rating uint16
	// Title fills ImageDescription when non-empty.
	Title string
}

// EmbedBytes returns a copy of the JPEG data with its EXIF block replaced
// by rec. Any existing EXIF is discarded.
func EmbedBytes(data []byte, rec Record) ([]byte, error) {
	jmp := jpegstructure.NewJpegMediaParser()
	intfc, err := jmp.ParseBytes(data)
	if err != nil {
		return nil, fmt.Errorf("parsing jpeg: %w", err)
	}
	sl := intfc.(*jpegstructure.SegmentList)

	im, err := exifcommon.NewIfdMappingWithStandard()
	if err != nil {
		return nil, fmt.Errorf("building ifd mapping: %w", err)
	}
	ti := exif.NewTagIndex()
	if err := exif.LoadStandardTags(ti); err != nil {
		return nil, fmt.Errorf("loading tag index: %w", err)
	}
	rootIb := exif.NewIfdBuilder(im, ti, exifcommon.IfdStandardIfdIdentity, exifcommon.EncodeDefaultByteOrder)

	stamp := rec.CaptureDate.Format(ExifTimeLayout)

	ifd0, err := exif.GetOrCreateIbFromRootIb(rootIb, "IFD0")
	if err != nil {
		return nil, fmt.Errorf("creating IFD0: %w", err)
	}
	if err := ifd0.SetStandardWithName("DateTime", stamp); err != nil {
		return nil, fmt.Errorf("setting DateTime: %w", err)
	}
	if err := ifd0.SetStandardWithName("Software", config.AppName); err != nil {
		return nil, fmt.Errorf("setting Software: %w", err)
	}
	if rec.Title != "" {
		if err := ifd0.SetStandardWithName("ImageDescription", rec.Title); err != nil {
			return nil, fmt.Errorf("setting ImageDescription: %w", err)
		}
	}
	if rec.Rating != 0 {
		raw := make([]byte, 2)
		exifcommon.EncodeDefaultByteOrder.PutUint16(raw, rec.Rating)
		bt := exif.NewBuilderTag(
			"IFD",
			ratingTagID,
			exifcommon.TypeShort,
			exif.NewIfdBuilderTagValueFromBytes(raw),
			exifcommon.EncodeDefaultByteOrder,
		)
		if err := ifd0.Add(bt); err != nil {
			return nil, fmt.Errorf("setting Rating: %w", err)
		}
	}

	exifIb, err := exif.GetOrCreateIbFromRootIb(rootIb, "IFD0/Exif")
	if err != nil {
		return nil, fmt.Errorf("creating Exif IFD: %w", err)
	}
	if err := exifIb.SetStandardWithName("DateTimeOriginal", stamp); err != nil {
		return nil, fmt.Errorf("setting DateTimeOriginal: %w", err)
	}
	if err := exifIb.SetStandardWithName("DateTimeDigitized", stamp); err != nil {
		return nil, fmt.Errorf("setting DateTimeDigitized: %w", err)
	}

	if err := sl.SetExif(rootIb); err != nil {
		return nil, fmt.Errorf("attaching exif segment: %w", err)
	}

	out := new(bytes.Buffer)
	if err := sl.Write(out); err != nil {
		return nil, fmt.Errorf("rewriting jpeg: %w", err)
	}
	return out.Bytes(), nil
}
