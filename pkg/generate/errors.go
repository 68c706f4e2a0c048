package generate

import (
	"errors"
	"fmt"
)

// ErrBusy is returned when a generation is requested while another one is
// still running. Generations never run in parallel.
var ErrBusy = errors.New("a generation is already running")

// ValidationError reports bad user input. It is raised before any file I/O
// happens, so a validation failure never leaves anything on disk.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

// Validationf builds a ValidationError from a format string.
func Validationf(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IOError reports a filesystem failure: unreadable input, unwritable target
// folder. The operation that raised it aborts without partial output.
type IOError struct {
	Op  string
	Err error
}

func (e *IOError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }

// Unwrap exposes the underlying error for errors.Is/As.
func (e *IOError) Unwrap() error { return e.Err }

// ExternalServiceError reports a remote service failure (geocoding, tile
// fetch) after retries were exhausted. Components degrade instead of
// aborting when they see one.
type ExternalServiceError struct {
	Service string
	Err     error
}

func (e *ExternalServiceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Service, e.Err)
}

// Unwrap exposes the underlying error for errors.Is/As.
func (e *ExternalServiceError) Unwrap() error { return e.Err }

// MetadataError reports an EXIF embed failure. It never blocks file
// creation; callers surface it as a warning.
type MetadataError struct {
	Err error
}

func (e *MetadataError) Error() string { return fmt.Sprintf("embedding metadata: %v", e.Err) }

// Unwrap exposes the underlying error for errors.Is/As.
func (e *MetadataError) Unwrap() error { return e.Err }
