package ui

import (
	"path/filepath"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
)

// fileFilter describes one file type for the pickers. On Windows the
// native common-item dialog renders it, elsewhere the Fyne dialog does.
type fileFilter struct {
	name string
	exts []string // with leading dot, lowercase
}

var (
	gpxFilter   = fileFilter{name: "GPX traces", exts: []string{".gpx"}}
	photoFilter = fileFilter{name: "Photos", exts: []string{".jpg", ".jpeg", ".png"}}
)

// patterns renders the filter the way the Windows dialog wants it,
// "*.jpg;*.jpeg;*.png".
func (f fileFilter) patterns() string {
	out := ""
	for i, ext := range f.exts {
		if i > 0 {
			out += ";"
		}
		out += "*" + ext
	}
	return out
}

// startLocation resolves the target folder into a Fyne listable URI for
// the fallback dialogs. Best effort; a nil location opens the default.
func (a *App) startLocation() fyne.ListableURI {
	dir := a.folder.Text
	if dir == "" {
		return nil
	}
	lister, err := storage.ListerForURI(storage.NewFileURI(dir))
	if err != nil {
		return nil
	}
	return lister
}

// pickFolder asks for a directory and calls cb with it on the Fyne
// thread. Cancelling calls nothing.
func (a *App) pickFolder(cb func(string)) {
	if useNativePickers {
		go func() {
			dir, err := nativePickFolder("Select the target folder", a.folder.Text)
			if err != nil {
				return
			}
			fyne.Do(func() { cb(dir) })
		}()
		return
	}
	d := dialog.NewFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil || uri == nil {
			return
		}
		cb(uri.Path())
	}, a.win)
	if loc := a.startLocation(); loc != nil {
		d.SetLocation(loc)
	}
	d.Show()
}

// pickFile asks for a single file of the filtered type.
func (a *App) pickFile(title string, filter fileFilter, cb func(string)) {
	if useNativePickers {
		go func() {
			path, err := nativePickFile(title, a.folder.Text, filter)
			if err != nil {
				return
			}
			fyne.Do(func() { cb(path) })
		}()
		return
	}
	d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		path := reader.URI().Path()
		reader.Close()
		cb(path)
	}, a.win)
	d.SetFilter(storage.NewExtensionFileFilter(filter.exts))
	if loc := a.startLocation(); loc != nil {
		d.SetLocation(loc)
	}
	d.Show()
}

// pickPhotos asks for photos to add to a selection. The Windows dialog
// supports multi-select; the Fyne fallback picks one photo per call, so
// the add button is simply pressed once per photo there.
func (a *App) pickPhotos(cb func([]string)) {
	if useNativePickers {
		go func() {
			paths, err := nativePickFiles("Select photos", a.folder.Text, photoFilter)
			if err != nil || len(paths) == 0 {
				return
			}
			fyne.Do(func() { cb(paths) })
		}()
		return
	}
	a.pickFile("Select a photo", photoFilter, func(path string) {
		cb([]string{path})
	})
}

// isPhotoPath reports whether the path has one of the photo extensions.
func isPhotoPath(path string) bool {
	ext := filepath.Ext(path)
	for _, e := range photoFilter.exts {
		if strings.EqualFold(ext, e) {
			return true
		}
	}
	return false
}
