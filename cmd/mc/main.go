// Package main is the entry point for the mission-control CLI.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/runoshun/mission-control/internal/app"
	"github.com/runoshun/mission-control/internal/cli"
	"github.com/runoshun/mission-control/internal/domain"
)

// version is set at build time using -ldflags.
var version = "dev"

// envDataDir names the environment variable selecting the data directory.
const envDataDir = "MC_DATA_DIR"

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	dataDir := dataDirFromArgs(os.Args[1:], os.Getenv(envDataDir))

	// Create dependency injection container
	container, err := app.New(dataDir)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	defer func() { _ = container.Close() }()

	// Create and execute root command
	rootCmd := cli.NewRootCommand(container, version)
	return rootCmd.Execute()
}

// dataDirFromArgs finds --data-dir before cobra parses the command line,
// since the container has to exist first. The flag wins over env.
func dataDirFromArgs(args []string, env string) string {
	flag := "--" + cli.DataDirFlag
	for i, arg := range args {
		if arg == "--" {
			break
		}
		if arg == flag && i+1 < len(args) {
			return args[i+1]
		}
		if v, ok := strings.CutPrefix(arg, flag+"="); ok {
			return v
		}
	}
	if env != "" {
		return env
	}
	return domain.DefaultDataDir
}
