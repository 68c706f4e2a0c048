package ui

import (
	"context"
	"fmt"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/carnetphoto/carnet/pkg/collage"
	"github.com/carnetphoto/carnet/pkg/generate"
)

// makeCollageTab builds the collage form: a handful of optional fields
// and the shared photo selection list.
func (a *App) makeCollageTab() fyne.CanvasObject {
	photos := newPhotoList()

	titleEntry := widget.NewEntry()

	dateEntry := widget.NewEntry()
	dateEntry.SetPlaceHolder("YYYY-MM-DD")

	outputEntry := widget.NewEntry()

	refEntry := widget.NewEntry()
	refBrowse := widget.NewButton("…", func() {
		a.pickFile("Select the reference photo", photoFilter, refEntry.SetText)
	})

	generateBtn := a.registerGenButton(widget.NewButton("Generate Collage", func() {
		paths := photos.Paths()
		if len(paths) < collage.MinImages || len(paths) > collage.MaxImages {
			dialog.ShowError(fmt.Errorf("select between %d and %d photos, %d selected",
				collage.MinImages, collage.MaxImages, len(paths)), a.win)
			return
		}
		opts := collage.Options{
			Title:      strings.TrimSpace(titleEntry.Text),
			DateLabel:  strings.TrimSpace(dateEntry.Text),
			RefImage:   strings.TrimSpace(refEntry.Text),
			OutputName: strings.TrimSpace(outputEntry.Text),
		}
		a.launch(func(ctx context.Context, env *generate.Env) (string, error) {
			return collage.Generate(ctx, env, a.assets, paths, opts)
		})
	}))

	fields := container.NewVBox(
		settingTitleLabel("Title:"),
		titleEntry,
		hintLabel("Optional. With a title the collage gets a header band with the title and the date."),

		settingTitleLabel("Date:"),
		dateEntry,
		hintLabel("Optional date label. When empty the earliest photo's date is printed."),

		settingTitleLabel("Output name:"),
		outputEntry,
		hintLabel("Optional, derived from the title or the date when empty."),

		settingTitleLabel("Reference photo:"),
		container.NewBorder(nil, nil, nil, refBrowse, refEntry),
		hintLabel("Optional. The collage takes this photo's capture date instead of the earliest one."),

		settingTitleLabel("Photos:"),
		hintLabel(fmt.Sprintf("Pick %d to %d photos for the layout.", collage.MinImages, collage.MaxImages)),
	)

	onAdd := func() {
		a.pickPhotos(func(paths []string) { photos.Add(paths...) })
	}
	content := container.NewBorder(fields, generateBtn, nil, nil, photos.view(onAdd))
	return content
}
