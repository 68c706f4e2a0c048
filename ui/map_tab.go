package ui

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/carnetphoto/carnet/config"
	"github.com/carnetphoto/carnet/pkg/generate"
	"github.com/carnetphoto/carnet/pkg/gpsmap"
)

// makeMapTab builds the map generation form. The last used values come
// back from the settings store and are saved again on every run.
func (a *App) makeMapTab() fyne.CanvasObject {
	saved := a.store.Settings()

	gpxEntry := widget.NewEntry()
	gpxEntry.SetText(saved.LastGPXFile)
	gpxBrowse := widget.NewButton("…", func() {
		a.pickFile("Select a GPX trace", gpxFilter, gpxEntry.SetText)
	})

	outputEntry := widget.NewEntry()
	outputEntry.SetText(saved.LastOutputName)

	titleEntry := widget.NewEntry()
	titleEntry.SetText(saved.LastTitle)

	dateEntry := widget.NewEntry()
	dateEntry.SetPlaceHolder("YYYY-MM-DD")

	startEntry := widget.NewEntry()
	startEntry.SetPlaceHolder("HH:MM:SS")
	endEntry := widget.NewEntry()
	endEntry.SetPlaceHolder("HH:MM:SS")

	citiesEntry := widget.NewEntry()
	citiesEntry.SetText(saved.LastCities)

	marginEntry := widget.NewEntry()
	marginEntry.SetText(saved.LastMargin)

	refEntry := widget.NewEntry()
	refBrowse := widget.NewButton("…", func() {
		a.pickFile("Select the reference photo", photoFilter, refEntry.SetText)
	})

	generateBtn := a.registerGenButton(widget.NewButton("Generate Map", func() {
		req := gpsmap.Request{
			GPXPath:    strings.TrimSpace(gpxEntry.Text),
			Date:       strings.TrimSpace(dateEntry.Text),
			StartClock: strings.TrimSpace(startEntry.Text),
			EndClock:   strings.TrimSpace(endEntry.Text),
			Cities:     splitCSV(citiesEntry.Text),
			RefImage:   strings.TrimSpace(refEntry.Text),
			MarginM:    a.parseMargin(marginEntry.Text),
			Title:      strings.TrimSpace(titleEntry.Text),
			OutputName: strings.TrimSpace(outputEntry.Text),
		}
		if req.GPXPath == "" {
			dialog.ShowError(errors.New("select a GPX trace first"), a.win)
			return
		}
		if req.OutputName == "" {
			dialog.ShowError(errors.New("enter an output name"), a.win)
			return
		}

		a.rememberMapValues(req, marginEntry.Text)
		a.launch(func(ctx context.Context, env *generate.Env) (string, error) {
			return gpsmap.Generate(ctx, env, a.assets, req)
		})
	}))

	form := container.NewVBox(
		settingTitleLabel("GPX trace:"),
		container.NewBorder(nil, nil, nil, gpxBrowse, gpxEntry),

		settingTitleLabel("Output name:"),
		outputEntry,

		settingTitleLabel("Title:"),
		titleEntry,
		hintLabel("Optional, drawn in the top left corner of the map."),

		settingTitleLabel("Date:"),
		dateEntry,
		hintLabel("Optional. Leave empty to draw the whole trace."),

		settingTitleLabel("Time range:"),
		container.NewGridWithColumns(2, startEntry, endEntry),
		hintLabel("Optional start and end, only used together with a date."),

		settingTitleLabel("Cities:"),
		citiesEntry,
		hintLabel("Comma separated. Each entry is a city, or city:label:position with position one of N, S, E, O, NE, NO, SE, SO."),

		settingTitleLabel("Margin (meters):"),
		marginEntry,
		hintLabel("Optional, picked automatically from the zoom level when empty."),

		settingTitleLabel("Reference photo:"),
		container.NewBorder(nil, nil, nil, refBrowse, refEntry),
		hintLabel("Optional. The map takes this photo's capture date, ten seconds earlier."),

		generateBtn,
	)
	return container.NewVScroll(form)
}

// parseMargin reads the margin field. A bad value logs a warning and
// falls back to the automatic margin, like an empty field.
func (a *App) parseMargin(text string) float64 {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0
	}
	margin, err := strconv.ParseFloat(text, 64)
	if err != nil || margin < 0 {
		a.logs.Appendf("Warning: bad margin %q, using the automatic one", text)
		return 0
	}
	return margin
}

func (a *App) rememberMapValues(req gpsmap.Request, marginText string) {
	err := a.store.Update(func(st *config.Settings) {
		st.LastGPXFile = req.GPXPath
		st.LastOutputName = req.OutputName
		st.LastCities = strings.Join(req.Cities, ", ")
		st.LastTitle = req.Title
		st.LastMargin = strings.TrimSpace(marginText)
	})
	if err != nil {
		a.logs.Appendf("Warning: could not save settings: %v", err)
	}
}
