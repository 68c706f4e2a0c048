package ui

import (
	"fmt"
	"path/filepath"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

// photoList is the selection widget the collage and title card tabs
// share. Rows show the file name with a remove button; duplicates and
// non-photo files are dropped on add. Only the Fyne thread touches it.
type photoList struct {
	paths []string
	list  *widget.List
	count *widget.Label
}

func newPhotoList() *photoList {
	pl := &photoList{count: widget.NewLabel("No photos selected")}
	pl.list = widget.NewList(
		func() int {
			return len(pl.paths)
		},
		func() fyne.CanvasObject {
			name := widget.NewLabel("placeholder")
			remove := widget.NewButton("Remove", nil)
			return container.NewHBox(name, layout.NewSpacer(), remove)
		},
		func(i widget.ListItemID, o fyne.CanvasObject) {
			if i < 0 || i >= len(pl.paths) {
				return
			}
			row := o.(*fyne.Container)
			name := row.Objects[0].(*widget.Label)
			remove := row.Objects[2].(*widget.Button)

			name.SetText(filepath.Base(pl.paths[i]))
			remove.OnTapped = func() {
				pl.removeAt(i)
			}
		},
	)
	return pl
}

// Add appends photos, skipping duplicates and files that are not
// photos. It reports how many were actually added.
func (pl *photoList) Add(paths ...string) int {
	added := 0
	for _, p := range paths {
		if p == "" || !isPhotoPath(p) || pl.contains(p) {
			continue
		}
		pl.paths = append(pl.paths, p)
		added++
	}
	if added > 0 {
		pl.refresh()
	}
	return added
}

// Clear drops the whole selection.
func (pl *photoList) Clear() {
	pl.paths = nil
	pl.refresh()
}

// Paths returns a copy of the current selection in order.
func (pl *photoList) Paths() []string {
	out := make([]string, len(pl.paths))
	copy(out, pl.paths)
	return out
}

func (pl *photoList) contains(path string) bool {
	for _, p := range pl.paths {
		if p == path {
			return true
		}
	}
	return false
}

func (pl *photoList) removeAt(i int) {
	if i < 0 || i >= len(pl.paths) {
		return
	}
	pl.paths = append(pl.paths[:i], pl.paths[i+1:]...)
	pl.refresh()
}

func (pl *photoList) refresh() {
	switch n := len(pl.paths); n {
	case 0:
		pl.count.SetText("No photos selected")
	case 1:
		pl.count.SetText("1 photo selected")
	default:
		pl.count.SetText(fmt.Sprintf("%d photos selected", n))
	}
	pl.list.Refresh()
}

// view lays out the add and clear buttons above the selection list.
func (pl *photoList) view(onAdd func()) fyne.CanvasObject {
	addBtn := widget.NewButton("Add Photos…", onAdd)
	clearBtn := widget.NewButton("Clear", pl.Clear)
	header := container.NewHBox(addBtn, clearBtn, layout.NewSpacer(), pl.count)
	return container.NewBorder(header, nil, nil, nil, pl.list)
}
