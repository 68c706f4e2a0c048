package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/carnetphoto/carnet/pkg/collage"
	"github.com/carnetphoto/carnet/pkg/generate"
)

// makeTitleCardTab builds the day title card form. A title card is a
// collage that opens a day in the album, so the title and the date are
// required here and the card is stamped with the date at two in the
// morning to sort before the day's photos.
func (a *App) makeTitleCardTab() fyne.CanvasObject {
	photos := newPhotoList()

	dateEntry := widget.NewEntry()
	dateEntry.SetPlaceHolder("YYYY-MM-DD")

	titleEntry := widget.NewEntry()
	titleEntry.SetPlaceHolder("Jour 1 - Annecy")

	outputEntry := widget.NewEntry()

	generateBtn := a.registerGenButton(widget.NewButton("Generate Title Card", func() {
		paths := photos.Paths()
		if len(paths) < collage.MinImages || len(paths) > collage.MaxImages {
			dialog.ShowError(fmt.Errorf("select between %d and %d photos, %d selected",
				collage.MinImages, collage.MaxImages, len(paths)), a.win)
			return
		}
		opts := collage.TitleCardOptions{
			Date:       strings.TrimSpace(dateEntry.Text),
			Title:      strings.TrimSpace(titleEntry.Text),
			OutputName: strings.TrimSpace(outputEntry.Text),
		}
		if opts.Title == "" {
			dialog.ShowError(errors.New("enter the day's title"), a.win)
			return
		}
		if opts.Date == "" {
			dialog.ShowError(errors.New("enter the day's date"), a.win)
			return
		}
		a.launch(func(ctx context.Context, env *generate.Env) (string, error) {
			return collage.GenerateTitleCard(ctx, env, a.assets, paths, opts)
		})
	}))

	fields := container.NewVBox(
		settingTitleLabel("Date:"),
		dateEntry,

		settingTitleLabel("Title:"),
		titleEntry,

		settingTitleLabel("Output name:"),
		outputEntry,
		hintLabel("Optional, the date is used when empty."),

		settingTitleLabel("Photos:"),
		hintLabel(fmt.Sprintf("Pick %d to %d photos for the layout.", collage.MinImages, collage.MaxImages)),
	)

	onAdd := func() {
		a.pickPhotos(func(paths []string) { photos.Add(paths...) })
	}
	return container.NewBorder(fields, generateBtn, nil, nil, photos.view(onAdd))
}
