package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/carnetphoto/carnet/asset"
	"github.com/carnetphoto/carnet/config"
	"github.com/carnetphoto/carnet/ui"
	"github.com/carnetphoto/carnet/util/log"
)

func main() {
	// Two instances would race on the settings file and the caches.
	ok, err := acquireLock()
	if err != nil {
		log.Fatalf("Could not check for another running instance: %v", err)
	}
	if !ok {
		fmt.Printf("Another instance of %s is already running.\n", config.AppName)
		os.Exit(1)
	}
	defer releaseLock()

	settingsDir, err := config.DefaultDir()
	if err != nil {
		log.Fatalf("Could not resolve the settings directory: %v", err)
	}
	store := config.NewStore(settingsDir)

	// The settings directory may hold a user-installed title font and the
	// optional face detection model.
	assets := asset.NewManager(store.Dir())
	assets.AddFontPath(filepath.Join(store.Dir(), "title.ttf"))

	ui.New(store, assets).Run()
}
