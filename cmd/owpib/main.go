package main

import (
	"errors"
	"os"

	"github.com/docker/docker/client"

	"github.com/wehagy/owpib/internal/build"
	"github.com/wehagy/owpib/internal/commands"
	"github.com/wehagy/owpib/internal/config"
	"github.com/wehagy/owpib/pkg/logging"
)

// Version is set via ldflags during release builds.
var Version = "0.0.0"

func main() {
	logger := logging.NewLogWithWriters(os.Stdout, os.Stderr)

	cfg, err := config.Read(config.DefaultConfigPath())
	if err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}

	builder := build.NewBuilder(
		logger,
		&build.DockerEngine{Stdout: os.Stdout, Stderr: os.Stderr},
		dockerDaemon(logger),
	)

	rootCmd := commands.Build(Version, logger, cfg, builder)
	rootCmd.SetArgs(os.Args[1:])

	// Signals are deliberately not intercepted; the engine reacts to
	// termination of its invoking process on its own terms.
	if err := rootCmd.Execute(); err != nil {
		var exitErr *build.ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

// dockerDaemon creates the client used to verify the engine is reachable.
// Failure to construct one is not fatal here; dry runs never need it and
// real builds surface the problem with context.
func dockerDaemon(logger logging.Logger) build.DaemonPinger {
	dockerClient, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		logger.Debugf("docker client unavailable: %s", err)
		return nil
	}
	return dockerClient
}
