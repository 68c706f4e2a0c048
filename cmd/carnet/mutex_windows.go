//go:build windows
// +build windows

package main

import (
	"fmt"
	"syscall"

	"golang.org/x/sys/windows"

	"github.com/carnetphoto/carnet/config"
	"github.com/carnetphoto/carnet/util/log"
)

var mutex windows.Handle

// acquireLock takes the single-instance lock, a named mutex on Windows.
// CreateMutex succeeds for every instance; holding the mutex decides who
// runs, so a short wait distinguishes first from second.
func acquireLock() (bool, error) {
	namePtr, err := syscall.UTF16PtrFromString(config.AppName + "_SingleInstanceMutex")
	if err != nil {
		return false, err
	}

	handle, err := windows.CreateMutex(nil, false, namePtr)
	if err != nil {
		return false, fmt.Errorf("creating mutex: %w", err)
	}

	waitResult, err := windows.WaitForSingleObject(handle, 100)
	if err != nil {
		windows.CloseHandle(handle)
		return false, fmt.Errorf("waiting for mutex: %w", err)
	}
	if waitResult == uint32(windows.WAIT_TIMEOUT) {
		windows.CloseHandle(handle)
		return false, nil
	}

	mutex = handle
	return true, nil
}

// releaseLock releases and closes the mutex.
func releaseLock() {
	if mutex == 0 {
		return
	}
	if err := windows.ReleaseMutex(mutex); err != nil {
		log.Printf("Failed to release mutex: %v", err)
	}
	if err := windows.CloseHandle(mutex); err != nil {
		log.Printf("Failed to close mutex handle: %v", err)
	}
	mutex = 0
}
