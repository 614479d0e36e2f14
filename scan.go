// Package railcheck scans a project directory for configuration patterns
// known to break deployments on Railway-style hosting and aggregates the
// findings into a severity-ranked report with a deployment verdict.
package railcheck

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"railcheck/internal/check/database"
	"railcheck/internal/check/django"
	"railcheck/internal/check/envvars"
	"railcheck/internal/check/fastapi"
	"railcheck/internal/check/flaskapp"
	"railcheck/internal/check/host"
	"railcheck/internal/check/port"
	"railcheck/internal/check/startcmd"
	"railcheck/internal/detect"
	"railcheck/internal/project"
	"railcheck/internal/types"
)

/*
Usage:

result, err := railcheck.Scan(path, railcheck.DefaultOptions())
if result.Summary.Errors > 0 {
    fmt.Println("deployment will fail")
}

// Selected checks only
opts := railcheck.DefaultOptions()
opts.Checks = railcheck.CheckPort | railcheck.CheckHost
result, err := railcheck.Scan(path, opts)

// Iterate findings
for _, issue := range result.Issues {
    fmt.Printf("[%s] %s\n", issue.Severity, issue.Message)
}
*/

var errNotDirectory = errors.New("project path is not a directory")

// checkFn is the uniform contract every check module satisfies: a pure
// function of on-disk content returning immutable finding slices.
type checkFn func(*project.Project, types.Framework) ([]types.Issue, []types.PassedCheck)

// Scan detects the project's framework and runs the selected checks in a
// fixed sequence, folding their outputs into a single Result. Checks never
// share state; each reads the file system independently.
func Scan(root string, opts Options) (*types.Result, error) {
	if opts.Checks == 0 {
		opts.Checks = ChecksAll
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("cannot access %s: %w", root, err)
	}

	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", errNotDirectory, root)
	}

	proj := project.New(root, project.Options{
		MaxFiles:   opts.MaxFiles,
		IgnoreDirs: opts.IgnoreDirs,
	})

	framework := detect.Detect(proj)
	slog.Debug("framework detected", "kind", framework.Kind, "entry", framework.EntryPoint)

	var (
		issues []types.Issue
		passed []types.PassedCheck
	)

	run := func(check Check, fn checkFn) {
		if opts.Checks&check == 0 {
			return
		}

		started := time.Now()
		checkIssues, checkPassed := fn(proj, framework)

		issues = append(issues, checkIssues...)
		passed = append(passed, checkPassed...)

		slog.Debug("check complete",
			"check", check.String(),
			"issues", len(checkIssues),
			"elapsed", time.Since(started),
		)
	}

	run(CheckPort, port.Run)
	run(CheckHost, host.Run)
	run(CheckStartCommand, startcmd.Run)
	run(CheckEnvVars, envvars.Run)
	run(CheckDatabase, database.Run)

	if fn, ok := frameworkCheck(framework.Kind); ok {
		run(CheckFramework, fn)
	}

	var detected *types.Framework
	if framework.Kind != types.FrameworkUnknown {
		detected = &framework
	}

	return types.NewResult(root, detected, issues, passed), nil
}

// frameworkCheck maps the detected framework to its dedicated check module.
// Node frameworks have no dedicated module; their specifics live inside the
// port, host, and start-command checks.
func frameworkCheck(kind types.FrameworkKind) (checkFn, bool) {
	switch kind {
	case types.FrameworkDjango:
		return django.Run, true
	case types.FrameworkFlask:
		return flaskapp.Run, true
	case types.FrameworkFastAPI:
		return fastapi.Run, true
	case types.FrameworkExpress, types.FrameworkNextJS, types.FrameworkNestJS,
		types.FrameworkUnknown:
		return nil, false
	}

	return nil, false
}
