// Package exifmeta reads capture dates from photos and embeds the metadata
// record (capture date, rating, description) into generated JPEG files.
package exifmeta

import (
	"fmt"
	"os"
	"time"

	"github.com/rwcarlsen/goexif/exif"
)

// ExifTimeLayout is the timestamp layout EXIF uses.
const ExifTimeLayout = "2006:01:02 15:04:05"

// CaptureDate returns when the photo at path was taken, preferring the
// DateTimeOriginal tag, then DateTime, then the file's modification time.
// It fails only when the file itself is unreadable.
func CaptureDate(path string) (time.Time, error) {
	f, err := os.Open(path)
	if err != nil {
		return time.Time{}, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	if x, err := exif.Decode(f); err == nil {
		if dt, err := x.DateTime(); err == nil {
			return dt, nil
		}
	}

	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, fmt.Errorf("stating %s: %w", path, err)
	}
	return info.ModTime(), nil
}

// EarliestCaptureDate returns the oldest capture date across paths.
func EarliestCaptureDate(paths []string) (time.Time, error) {
	var earliest time.Time
	for _, p := range paths {
		dt, err := CaptureDate(p)
		if err != nil {
			return time.Time{}, err
		}
		if earliest.IsZero() || dt.Before(earliest) {
			earliest = dt
		}
	}
	if earliest.IsZero() {
		return time.Time{}, fmt.Errorf("no capture date found")
	}
	return earliest, nil
}
