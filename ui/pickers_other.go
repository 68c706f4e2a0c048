//go:build !windows
// +build !windows

package ui

import "errors"

// useNativePickers is false off Windows; the Fyne dialogs serve instead.
const useNativePickers = false

var errNoNativeDialog = errors.New("no native file dialog on this platform")

func nativePickFolder(title, startDir string) (string, error) {
	return "", errNoNativeDialog
}

func nativePickFile(title, startDir string, filter fileFilter) (string, error) {
	return "", errNoNativeDialog
}

func nativePickFiles(title, startDir string, filter fileFilter) ([]string, error) {
	return nil, errNoNativeDialog
}
