package main

import (
	"fmt"
	"os"

	app "github.com/valter-silva-au/release-tag/internal"
	"github.com/valter-silva-au/release-tag/internal/cli"
)

// Set by goreleaser ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cli.SetVersionInfo(version, commit, date)
	repoPath := app.ResolveRepoPath()

	a, err := app.NewApp(repoPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing rtag: %v\n", err)
		os.Exit(1)
	}

	err = cli.Execute()
	_ = a.Close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
