package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/urfave/cli/v3"

	"railcheck/version"
)

func main() {
	ctx := context.Background()

	appl := &cli.Command{
		Name:    version.Name(),
		Usage:   "Deployment readiness scanner for Railway projects",
		Version: version.Version() + " " + version.Commit(),
		Commands: []*cli.Command{
			scanCommand(),
		},
	}

	if err := appl.Run(ctx, os.Args); err != nil {
		slog.Error("failed to run", "error", err)
		os.Exit(1)
	}
}
