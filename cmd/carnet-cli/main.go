package main

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"

	"github.com/carnetphoto/carnet/config"
)

func main() {
	root := newRootCmd()

	// fang supplies completions, manpages and --version on top of cobra.
	if err := fang.Execute(
		context.Background(),
		root,
		fang.WithVersion(config.AppVersion),
		fang.WithNotifySignal(os.Interrupt, os.Kill),
	); err != nil {
		os.Exit(1)
	}
}
