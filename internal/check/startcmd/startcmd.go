// Package startcmd validates how the deployed process gets launched: the
// manifest start script for Node projects, the Procfile for Python projects.
// Development launchers in a production start command are a hard error.
package startcmd

import (
	"strconv"
	"strings"

	"railcheck/internal/check/shared"
	"railcheck/internal/project"
	"railcheck/internal/types"
)

// devLaunchers must never appear in a production start script.
//
//nolint:gochecknoglobals // configuration data, effectively const
var devLaunchers = []string{
	"nodemon",
	"ts-node-dev",
	"babel-node",
	"webpack-dev-server",
	"next dev",
	"vite",
	"react-scripts start",
}

// Run validates the project's launch configuration.
func Run(proj *project.Project, framework types.Framework) ([]types.Issue, []types.PassedCheck) {
	var issues []types.Issue

	switch {
	case framework.IsPython():
		issues = checkPython(proj, framework)
	case framework.IsNode():
		issues = checkNode(proj, framework)
	default:
		// Unclassified projects still get start-script validation when a
		// manifest is around to validate.
		if proj.HasManifest() {
			issues = checkNode(proj, framework)
		}
	}

	if len(issues) > 0 {
		return issues, nil
	}

	return nil, []types.PassedCheck{{
		ID:       "start-command",
		Category: types.CategoryStartCommand,
		Message:  "Start command is production-ready",
	}}
}

func checkNode(proj *project.Project, framework types.Framework) []types.Issue {
	manifest, ok := proj.Manifest()
	if !ok {
		return []types.Issue{{
			ID:       "no-package-json",
			Severity: types.SeverityError,
			Category: types.CategoryStartCommand,
			Message:  "No readable package.json found",
			Fix: types.FixSuggestion{
				Description: "Add a package.json declaring dependencies and a start script",
				Steps: []string{
					"Run npm init -y in the project root",
					`Add "start": "node server.js" (or your entry point) under scripts`,
				},
			},
		}}
	}

	start := manifest.Script("start")
	if start == "" {
		return []types.Issue{{
			ID:       "no-start-script",
			Severity: types.SeverityError,
			Category: types.CategoryStartCommand,
			Message:  "package.json has no start script",
			File:     "package.json",
			Fix: types.FixSuggestion{
				Description: "Declare how the platform should launch the app",
				Before:      `"scripts": {}`,
				After:       `"scripts": { "start": "node server.js" }`,
			},
		}}
	}

	var issues []types.Issue

	for _, launcher := range devLaunchers {
		if strings.Contains(start, launcher) {
			issues = append(issues, types.Issue{
				ID:       "dev-start-command",
				Severity: types.SeverityError,
				Category: types.CategoryStartCommand,
				Message:  "Start script uses the development launcher " + strconv.Quote(launcher),
				File:     "package.json",
				Fix: types.FixSuggestion{
					Description: "Run the production entry point instead of dev tooling",
					Before:      `"start": "` + start + `"`,
					After:       `"start": "node server.js"`,
				},
			})

			break
		}
	}

	switch framework.Kind {
	case types.FrameworkNextJS:
		issues = append(issues, checkNext(manifest, start)...)
	case types.FrameworkNestJS:
		issues = append(issues, checkNest(manifest, start)...)
	case types.FrameworkExpress, types.FrameworkDjango, types.FrameworkFlask,
		types.FrameworkFastAPI, types.FrameworkUnknown:
	}

	return issues
}

func checkNext(manifest *project.Manifest, start string) []types.Issue {
	var issues []types.Issue

	if !strings.Contains(start, "next start") {
		issues = append(issues, types.Issue{
			ID:       "nextjs-start-command",
			Severity: types.SeverityError,
			Category: types.CategoryStartCommand,
			Message:  "Next.js start script does not invoke next start",
			File:     "package.json",
			Fix: types.FixSuggestion{
				Description: "Serve the production build",
				Before:      `"start": "` + start + `"`,
				After:       `"start": "next start -H 0.0.0.0 -p $PORT"`,
			},
		})
	}

	if manifest.Script("build") == "" {
		issues = append(issues, types.Issue{
			ID:       "nextjs-no-build",
			Severity: types.SeverityError,
			Category: types.CategoryStartCommand,
			Message:  "Next.js project has no build script",
			File:     "package.json",
			Fix: types.FixSuggestion{
				Description: "next start requires a prior production build",
				After:       `"build": "next build"`,
			},
		})
	}

	return issues
}

func checkNest(manifest *project.Manifest, start string) []types.Issue {
	if !strings.Contains(start, "nest start") || strings.Contains(start, "--watch") {
		return nil
	}

	if manifest.Script("build") != "" {
		return nil
	}

	return []types.Issue{{
		ID:       "nestjs-no-build",
		Severity: types.SeverityError,
		Category: types.CategoryStartCommand,
		Message:  "NestJS project uses nest start but has no build script",
		File:     "package.json",
		Fix: types.FixSuggestion{
			Description: "nest start serves the compiled output",
			After:       `"build": "nest build"`,
		},
	}}
}

func checkPython(proj *project.Project, framework types.Framework) []types.Issue {
	procfile, ok := proj.Procfile()
	if !ok {
		return []types.Issue{{
			ID:       "no-procfile",
			Severity: types.SeverityError,
			Category: types.CategoryStartCommand,
			Message:  "No Procfile declares how to start the deployed process",
			Fix: types.FixSuggestion{
				Description: "Add a Procfile with a web process",
				Steps: []string{
					"Create a file named Procfile in the project root",
					procfileExample(framework.Kind),
					"Commit the Procfile alongside your dependency list",
				},
			},
		}}
	}

	if framework.Kind != types.FrameworkDjango {
		return nil
	}

	var issues []types.Issue

	if !strings.Contains(strings.ToLower(procfile), shared.WSGIServer) {
		issues = append(issues, types.Issue{
			ID:       "procfile-no-gunicorn",
			Severity: types.SeverityError,
			Category: types.CategoryStartCommand,
			Message:  "Procfile does not launch a WSGI production server",
			File:     "Procfile",
			Fix: types.FixSuggestion{
				Description: "Serve Django through gunicorn, not the dev server",
				Before:      "web: python manage.py runserver",
				After:       "web: gunicorn myproject.wsgi --bind 0.0.0.0:$PORT",
			},
		})
	}

	if requirements, ok := proj.Requirements(); ok && !strings.Contains(requirements, shared.WSGIServer) {
		issues = append(issues, types.Issue{
			ID:       "gunicorn-not-in-requirements",
			Severity: types.SeverityError,
			Category: types.CategoryStartCommand,
			Message:  "gunicorn is not declared in requirements.txt",
			File:     "requirements.txt",
			Fix: types.FixSuggestion{
				Description: "Declare the production server so the build installs it",
				After:       "gunicorn==21.2.0",
			},
		})
	}

	return issues
}

func procfileExample(kind types.FrameworkKind) string {
	switch kind {
	case types.FrameworkDjango:
		return "Add: web: gunicorn myproject.wsgi --bind 0.0.0.0:$PORT"
	case types.FrameworkFastAPI:
		return "Add: web: uvicorn main:app --host 0.0.0.0 --port $PORT"
	case types.FrameworkFlask, types.FrameworkExpress, types.FrameworkNextJS,
		types.FrameworkNestJS, types.FrameworkUnknown:
		return "Add: web: gunicorn app:app --bind 0.0.0.0:$PORT"
	}

	return "Add: web: <your production start command>"
}
