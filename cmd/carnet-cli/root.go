package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/carnetphoto/carnet/asset"
	"github.com/carnetphoto/carnet/config"
	"github.com/carnetphoto/carnet/pkg/generate"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "carnet-cli",
		Short: "Trip maps, photo collages and day title cards from the command line",
		Long: `carnet-cli is the scriptable side of Carnet.

It renders the same outputs as the desktop app: a static map of a GPX
trace on OpenStreetMap tiles, a collage of 2 to 7 photos, or a title
card that opens a day in the photo gallery. Outputs are JPEG files
written to the target folder, stamped with a capture date so photo
tools sort them in place.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
		},
	}

	cmd.AddCommand(newMapCmd())
	cmd.AddCommand(newCollageCmd())
	cmd.AddCommand(newTitleCardCmd())

	return cmd
}

// newRunEnv prepares the generation environment rooted at target, with
// progress printed to stdout, plus the asset manager. Assets live in the
// settings directory so the CLI and the desktop app share the same title
// font and face model.
func newRunEnv(target string) (*generate.Env, *asset.Manager, error) {
	abs, err := filepath.Abs(target)
	if err != nil {
		return nil, nil, fmt.Errorf("resolving target folder: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, nil, fmt.Errorf("target folder: %w", err)
	}
	if !info.IsDir() {
		return nil, nil, fmt.Errorf("target %s is not a folder", abs)
	}

	env := generate.NewEnv(abs)
	env.Logf = func(format string, args ...interface{}) {
		fmt.Printf(format+"\n", args...)
	}

	settingsDir, err := config.DefaultDir()
	if err != nil {
		fmt.Printf("Warning: settings directory unavailable, using built-in assets: %v\n", err)
		return env, asset.NewManager(""), nil
	}
	assets := asset.NewManager(settingsDir)
	assets.AddFontPath(filepath.Join(settingsDir, "title.ttf"))
	return env, assets, nil
}
