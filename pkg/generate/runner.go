package generate

import (
	"github.com/carnetphoto/carnet/util"
)

// Runner serializes generations. A second Generate while one is in flight
// is rejected with ErrBusy rather than queued, so two writers can never
// race on the same output path or cache entry.
type Runner struct {
	busy      *util.SafeFlag
	completed *util.SafeCounter
}

// NewRunner creates an idle runner.
func NewRunner() *Runner {
	return &Runner{
		busy:      util.NewSafeBool(),
		completed: util.NewSafeInt(),
	}
}

// Do runs fn if no other run is in flight and returns its error. If a run
// is in flight it returns ErrBusy without invoking fn.
func (r *Runner) Do(fn func() error) error {
	if !r.busy.TrySet() {
		return ErrBusy
	}
	defer r.busy.Set(false)
	err := fn()
	r.completed.Increment()
	return err
}

// Busy reports whether a run is in flight.
func (r *Runner) Busy() bool {
	return r.busy.Value()
}

// Completed returns how many runs have finished, successfully or not.
func (r *Runner) Completed() int {
	return r.completed.Value()
}
