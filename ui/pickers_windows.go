//go:build windows
// +build windows

package ui

import (
	"runtime"

	"github.com/harry1453/go-common-file-dialog/cfd"
	"github.com/harry1453/go-common-file-dialog/cfdutil"
)

// useNativePickers selects the Windows common-item dialogs, which look
// right and support multi-select, over the Fyne in-window ones.
const useNativePickers = true

// The dialogs block on a COM call, so each helper pins its goroutine to
// one OS thread for the duration.

func nativePickFolder(title, startDir string) (string, error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	return cfdutil.ShowPickFolderDialog(cfd.DialogConfig{
		Title:         title,
		DefaultFolder: startDir,
	})
}

func nativePickFile(title, startDir string, filter fileFilter) (string, error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	return cfdutil.ShowOpenFileDialog(cfd.DialogConfig{
		Title:         title,
		DefaultFolder: startDir,
		FileFilters:   cfdFilters(filter),
	})
}

func nativePickFiles(title, startDir string, filter fileFilter) ([]string, error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	return cfdutil.ShowOpenMultipleFilesDialog(cfd.DialogConfig{
		Title:         title,
		DefaultFolder: startDir,
		FileFilters:   cfdFilters(filter),
	})
}

func cfdFilters(filter fileFilter) []cfd.FileFilter {
	return []cfd.FileFilter{
		{DisplayName: filter.name, Pattern: filter.patterns()},
		{DisplayName: "All files", Pattern: "*.*"},
	}
}
