// Package ui is the desktop shell. It owns the window, the three
// generation tabs and the shared activity log; all picture work is done
// by the generation packages through a generate.Env.
package ui

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/carnetphoto/carnet/asset"
	"github.com/carnetphoto/carnet/config"
	"github.com/carnetphoto/carnet/pkg/generate"
	"github.com/carnetphoto/carnet/pkg/geo"
	"github.com/carnetphoto/carnet/util"
)

// App is the Carnet window. One generation runs at a time; the tab
// buttons are disabled while the runner is busy.
type App struct {
	fyneApp fyne.App
	win     fyne.Window
	store   *config.Store
	assets  *asset.Manager
	runner  *generate.Runner
	logs    *logPane

	folder     *widget.Entry
	progress   *widget.ProgressBarInfinite
	genButtons []*widget.Button
}

// New creates the application window. The settings store provides the
// last used values and receives updates as the user works.
func New(store *config.Store, assets *asset.Manager) *App {
	a := &App{
		fyneApp: app.NewWithID(config.ServiceName),
		store:   store,
		assets:  assets,
		runner:  generate.NewRunner(),
		logs:    newLogPane(),
	}
	a.buildWindow()
	return a
}

// Run shows the window and blocks until the user quits.
func (a *App) Run() {
	a.win.ShowAndRun()
}

func (a *App) buildWindow() {
	a.win = a.fyneApp.NewWindow(config.AppName)

	size, ok := parseGeometry(a.store.Settings().WindowGeometry)
	if !ok {
		size, _ = parseGeometry(config.DefaultWindowGeometry)
	}
	a.win.Resize(size)
	a.win.CenterOnScreen()
	a.win.SetCloseIntercept(func() {
		a.persistGeometry()
		a.win.Close()
	})

	a.win.SetMainMenu(fyne.NewMainMenu(
		fyne.NewMenu("Tools",
			fyne.NewMenuItem("Clear Cache…", a.clearCache),
		),
		fyne.NewMenu("Help",
			fyne.NewMenuItem("Check for Updates", a.checkForUpdates),
			fyne.NewMenuItem("About "+config.AppName, a.showAbout),
		),
	))

	tabs := container.NewAppTabs(
		container.NewTabItem("Map", a.makeMapTab()),
		container.NewTabItem("Collage", a.makeCollageTab()),
		container.NewTabItem("Title Card", a.makeTitleCardTab()),
	)

	a.progress = widget.NewProgressBarInfinite()
	a.progress.Hide()

	split := container.NewVSplit(tabs, a.logs.view())
	split.SetOffset(0.72)
	a.win.SetContent(container.NewBorder(a.makeFolderRow(), a.progress, nil, nil, split))
}

// makeFolderRow builds the target folder selector shared by all tabs.
// Every generated picture and the tile cache land in this folder.
func (a *App) makeFolderRow() fyne.CanvasObject {
	a.folder = widget.NewEntry()
	a.folder.SetText(a.store.Settings().TargetFolder)

	browse := widget.NewButton("Browse…", func() {
		a.pickFolder(func(dir string) {
			a.folder.SetText(dir)
			if err := a.store.SetTargetFolder(dir); err != nil {
				a.logs.Appendf("Warning: could not save settings: %v", err)
			}
		})
	})

	return container.NewBorder(nil, nil, settingTitleLabel("Target folder:"), browse, a.folder)
}

// launch runs one generation on the runner with a fresh Env rooted at
// the target folder. Progress lines land in the activity log; the final
// error, if any, is also shown in a dialog.
func (a *App) launch(fn func(ctx context.Context, env *generate.Env) (string, error)) {
	folder := strings.TrimSpace(a.folder.Text)
	if folder == "" {
		dialog.ShowError(errors.New("choose a target folder first"), a.win)
		return
	}
	if info, err := os.Stat(folder); err != nil || !info.IsDir() {
		dialog.ShowError(fmt.Errorf("target folder %s is not a directory", folder), a.win)
		return
	}
	if a.runner.Busy() {
		dialog.ShowInformation("Busy", "A generation is already running.", a.win)
		return
	}
	if err := a.store.SetTargetFolder(folder); err != nil {
		a.logs.Appendf("Warning: could not save settings: %v", err)
	}

	env := generate.NewEnv(folder)
	env.Logf = a.logs.Appendf

	a.setBusy(true)
	go func() {
		err := a.runner.Do(func() error {
			_, err := fn(context.Background(), env)
			return err
		})
		fyne.Do(func() {
			a.setBusy(false)
			if err != nil {
				a.logs.Appendf("Error: %v", err)
				dialog.ShowError(err, a.win)
			}
		})
	}()
}

func (a *App) setBusy(busy bool) {
	for _, b := range a.genButtons {
		if busy {
			b.Disable()
		} else {
			b.Enable()
		}
	}
	if busy {
		a.progress.Show()
		a.progress.Start()
	} else {
		a.progress.Stop()
		a.progress.Hide()
	}
}

// registerGenButton tracks a generation button so setBusy can toggle it.
func (a *App) registerGenButton(b *widget.Button) *widget.Button {
	a.genButtons = append(a.genButtons, b)
	return b
}

func (a *App) persistGeometry() {
	size := a.win.Canvas().Size()
	if size.Width <= 0 || size.Height <= 0 {
		return
	}
	if err := a.store.SetWindowGeometry(formatGeometry(size)); err != nil {
		a.logs.Appendf("Warning: could not save window geometry: %v", err)
	}
}

// clearCache empties the tile and geocoding cache under the current
// target folder. Cleared entries are simply refetched on the next run.
func (a *App) clearCache() {
	folder := strings.TrimSpace(a.folder.Text)
	if folder == "" {
		dialog.ShowError(errors.New("choose a target folder first"), a.win)
		return
	}
	if a.runner.Busy() {
		dialog.ShowInformation("Busy", "A generation is already running.", a.win)
		return
	}

	cache := geo.NewCache(filepath.Join(folder, config.CacheDirName))
	entries, size := cache.Stats()
	if entries == 0 {
		dialog.ShowInformation("Clear Cache", "The cache is empty.", a.win)
		return
	}
	dialog.ShowConfirm("Clear Cache",
		fmt.Sprintf("Delete %d cached tiles and geocoding answers (%.1f MB)?",
			entries, float64(size)/(1<<20)),
		func(yes bool) {
			if !yes {
				return
			}
			if err := cache.Clear(); err != nil {
				dialog.ShowError(fmt.Errorf("could not clear the cache: %w", err), a.win)
				return
			}
			a.logs.Appendf("Cache cleared, %d entries removed.", entries)
		}, a.win)
}

func (a *App) checkForUpdates() {
	a.logs.Appendf("Checking for updates...")
	go func() {
		result, err := util.CheckForUpdates(nil)
		fyne.Do(func() {
			if err != nil {
				a.logs.Appendf("Update check failed: %v", err)
				dialog.ShowError(fmt.Errorf("could not check for updates: %w", err), a.win)
				return
			}
			if !result.UpdateAvailable {
				dialog.ShowInformation("Up to Date",
					fmt.Sprintf("%s %s is the latest version.", config.AppName, result.CurrentVersion), a.win)
				return
			}
			releaseURL, parseErr := url.Parse(result.ReleaseURL)
			dialog.ShowConfirm("Update Available",
				fmt.Sprintf("%s %s is available, you have %s.\nOpen the release page?",
					config.AppName, result.LatestVersion, result.CurrentVersion),
				func(open bool) {
					if open && parseErr == nil {
						_ = a.fyneApp.OpenURL(releaseURL)
					}
				}, a.win)
		})
	}()
}

func (a *App) showAbout() {
	dialog.ShowInformation("About "+config.AppName,
		fmt.Sprintf("%s %s\n\nStatic maps from GPX traces, photo collages and day title cards.\nMap data from OpenStreetMap France, geocoding by Nominatim.",
			config.AppName, config.AppVersion), a.win)
}
