package ui

import (
	"fmt"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/carnetphoto/carnet/util/log"
)

// maxLogLines caps the activity log so a long session cannot grow the
// window's memory without bound.
const maxLogLines = 500

// logPane is the shared activity log at the bottom of the window. Its
// Appendf matches generate.Env.Logf, so a generation running on a worker
// goroutine logs straight into it; the widget refresh is marshalled onto
// the Fyne thread.
type logPane struct {
	mu    sync.Mutex
	lines []string
	list  *widget.List
}

func newLogPane() *logPane {
	lp := &logPane{}
	lp.list = widget.NewList(
		func() int {
			lp.mu.Lock()
			defer lp.mu.Unlock()
			return len(lp.lines)
		},
		func() fyne.CanvasObject {
			return widget.NewLabel("")
		},
		func(i widget.ListItemID, o fyne.CanvasObject) {
			lp.mu.Lock()
			line := ""
			if i >= 0 && i < len(lp.lines) {
				line = lp.lines[i]
			}
			lp.mu.Unlock()
			o.(*widget.Label).SetText(line)
		},
	)
	return lp
}

// Appendf adds one line to the pane and mirrors it to the application
// log. Safe to call from any goroutine.
func (lp *logPane) Appendf(format string, args ...interface{}) {
	line := fmt.Sprintf(format, args...)
	log.Print(line)

	lp.mu.Lock()
	lp.lines = append(lp.lines, line)
	if len(lp.lines) > maxLogLines {
		lp.lines = lp.lines[len(lp.lines)-maxLogLines:]
	}
	lp.mu.Unlock()

	fyne.Do(func() {
		lp.list.Refresh()
		lp.list.ScrollToBottom()
	})
}

// Len returns how many lines the pane holds.
func (lp *logPane) Len() int {
	lp.mu.Lock()
	defer lp.mu.Unlock()
	return len(lp.lines)
}

func (lp *logPane) view() fyne.CanvasObject {
	return container.NewBorder(settingTitleLabel("Activity:"), nil, nil, nil, lp.list)
}
