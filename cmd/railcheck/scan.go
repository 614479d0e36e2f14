package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/urfave/cli/v3"

	"railcheck"
	"railcheck/internal/config"
)

var errTooManyArgs = errors.New("expected at most one argument: project path")

//nolint:gochecknoglobals
var checkNames = map[string]railcheck.Check{
	"port":          railcheck.CheckPort,
	"host":          railcheck.CheckHost,
	"start-command": railcheck.CheckStartCommand,
	"env-vars":      railcheck.CheckEnvVars,
	"database":      railcheck.CheckDatabase,
	"framework":     railcheck.CheckFramework,
	"all":           railcheck.ChecksAll,
}

func scanCommand() *cli.Command {
	return &cli.Command{
		Name:      "scan",
		Usage:     "Scan a project directory for deployment blockers",
		ArgsUsage: "[path]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Include passed checks in the report",
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Emit the scan result as JSON instead of formatted text",
			},
			&cli.StringFlag{
				Name:    "checks",
				Aliases: []string{"C"},
				Usage:   "Comma-separated checks: all, port, host, start-command, env-vars, database, framework",
				Value:   "all",
			},
			&cli.BoolFlag{
				Name:    "debug",
				Aliases: []string{"D"},
				Usage:   "Enable debug logging",
			},
		},
		Action: func(_ context.Context, cmd *cli.Command) error {
			if cmd.NArg() > 1 {
				return fmt.Errorf("%w: got %d", errTooManyArgs, cmd.NArg())
			}

			if cmd.Bool("debug") {
				slog.SetLogLoggerLevel(slog.LevelDebug)
			}

			path := cmd.Args().First()
			if path == "" {
				path = "."
			}

			opts, err := buildOptions(path, cmd.String("checks"))
			if err != nil {
				return err
			}

			result, err := railcheck.Scan(path, opts)
			if err != nil {
				return fmt.Errorf("scan failed: %w", err)
			}

			if cmd.Bool("json") {
				if err := outputJSON(result); err != nil {
					return err
				}
			} else {
				outputConsole(result, cmd.Bool("verbose"))
			}

			if result.Summary.Errors > 0 {
				return cli.Exit("", 1)
			}

			return nil
		},
	}
}

// buildOptions merges the --checks flag with the project's optional
// .railcheck.yaml. An explicit flag wins over the config file.
func buildOptions(path, checksFlag string) (railcheck.Options, error) {
	opts := railcheck.DefaultOptions()

	cfg := config.Load(path)
	opts.IgnoreDirs = cfg.Ignore
	opts.MaxFiles = cfg.MaxFiles

	raw := checksFlag
	if raw == "all" && len(cfg.Checks) > 0 {
		raw = strings.Join(cfg.Checks, ",")
	}

	checks, err := parseChecks(raw)
	if err != nil {
		return railcheck.Options{}, err
	}

	opts.Checks = checks

	return opts, nil
}

func parseChecks(raw string) (railcheck.Check, error) {
	var result railcheck.Check

	for name := range strings.SplitSeq(raw, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}

		check, ok := checkNames[name]
		if !ok {
			return 0, fmt.Errorf("unknown check %q", name)
		}

		result |= check
	}

	if result == 0 {
		return railcheck.ChecksAll, nil
	}

	return result, nil
}
