package main

import (
	"flag"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"golang.org/x/mod/semver"

	"github.com/carnetphoto/carnet/config"
)

// Tags the current commit with config.AppVersion, so the GitHub release the
// update checker compares against always matches the built binary. Run on
// main after bumping AppVersion.
func main() {
	push := flag.Bool("push", false, "push the tag to origin after creating it")
	flag.Parse()

	tag := config.AppVersion
	if !strings.HasPrefix(tag, "v") {
		tag = "v" + tag
	}
	if !semver.IsValid(tag) {
		fmt.Printf("Error: AppVersion %q is not a valid semantic version\n", config.AppVersion)
		os.Exit(1)
	}

	branch, err := currentBranch()
	if err != nil {
		fmt.Println("Error determining current branch:", err)
		os.Exit(1)
	}
	if branch != "main" {
		fmt.Printf("Error: releases are tagged on 'main'. Current branch: %q\n", branch)
		os.Exit(1)
	}
	if tagExists(tag) {
		fmt.Printf("Error: tag %s already exists. Bump AppVersion in config/const.go first.\n", tag)
		os.Exit(1)
	}

	if err := run("git", "tag", "-a", tag, "-m", fmt.Sprintf("Release %s", tag)); err != nil {
		fmt.Println("Error creating tag:", err)
		os.Exit(1)
	}
	fmt.Printf("Tagged %s\n", tag)

	if *push {
		if err := run("git", "push", "origin", tag); err != nil {
			fmt.Println("Error pushing tag:", err)
			os.Exit(1)
		}
		fmt.Printf("Pushed %s to origin\n", tag)
	}
}

func run(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

func currentBranch() (string, error) {
	out, err := exec.Command("git", "branch", "--show-current").Output()
	if err != nil {
		return "", fmt.Errorf("git branch failed: %w", err)
	}
	return strings.TrimSpace(string(out)), nil
}

func tagExists(tag string) bool {
	err := exec.Command("git", "rev-parse", "--verify", "refs/tags/"+tag).Run()
	return err == nil
}
