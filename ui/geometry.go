package ui

import (
	"fmt"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
)

// minWindowSide keeps a saved geometry from shrinking the window into
// something unusable.
const minWindowSide = 300

// parseGeometry reads a "WIDTHxHEIGHT" string as saved in the settings
// file. Malformed or tiny values are rejected so the caller falls back
// to the default.
func parseGeometry(s string) (fyne.Size, bool) {
	parts := strings.Split(s, "x")
	if len(parts) != 2 {
		return fyne.Size{}, false
	}
	w, errW := strconv.Atoi(strings.TrimSpace(parts[0]))
	h, errH := strconv.Atoi(strings.TrimSpace(parts[1]))
	if errW != nil || errH != nil || w < minWindowSide || h < minWindowSide {
		return fyne.Size{}, false
	}
	return fyne.NewSize(float32(w), float32(h)), true
}

// formatGeometry renders a size back into the settings file form.
func formatGeometry(size fyne.Size) string {
	return fmt.Sprintf("%dx%d", int(size.Width), int(size.Height))
}
