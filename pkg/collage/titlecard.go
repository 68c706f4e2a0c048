package collage

import (
	"context"
	"os"
	"time"

	"github.com/carnetphoto/carnet/asset"
	"github.com/carnetphoto/carnet/pkg/exifmeta"
	"github.com/carnetphoto/carnet/pkg/generate"
)

// titleCardHour is the capture hour stamped on a title card, early enough to
// sort before any photo taken that day.
const titleCardHour = 2

// TitleCardOptions are the knobs of a day title run. Date and Title are
// both required.
type TitleCardOptions struct {
	// Date is the day the card opens, formatted YYYY-MM-DD. It doubles as
	// the default output name.
	Date string

	// Title is drawn in the header and recorded in the metadata.
	Title string

	// OutputName overrides the output file name.
	OutputName string
}

// GenerateTitleCard builds the day title variant of the collage: the same
// scattered layout, but title and date are mandatory and the capture date is
// the given day at 02:00, so the card leads that day's gallery.
func GenerateTitleCard(ctx context.Context, env *generate.Env, assets *asset.Manager, paths []string, opts TitleCardOptions) (string, error) {
	if len(paths) < MinImages || len(paths) > MaxImages {
		return "", generate.Validationf("a title card needs %d to %d photos, got %d", MinImages, MaxImages, len(paths))
	}
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			return "", generate.Validationf("photo not found: %s", path)
		}
	}
	if opts.Title == "" {
		return "", generate.Validationf("a title card needs a title")
	}
	taken, err := time.ParseInLocation("2006-01-02", opts.Date, env.Timezone())
	if err != nil {
		return "", generate.Validationf("bad date %q, expected YYYY-MM-DD", opts.Date)
	}
	taken = taken.Add(titleCardHour * time.Hour)
	if assets == nil {
		assets = asset.NewManager("")
	}

	if err := env.CheckTarget(); err != nil {
		return "", err
	}

	canvas, err := composeCanvas(ctx, env, assets, paths, opts.Title, opts.Date)
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
		env.Progressf("Warning: %v", &generate.MetadataError{Err: err})
	} else {
		data = tagged
	}

	name := opts.OutputName
	if name == "" {
		name = opts.Date
	}
	out, err := env.WriteJPEGBytes(name, data)
	if err != nil {
		return "", err
	}
	env.Progressf("Title card written to %s", out)
	return out, nil
}
