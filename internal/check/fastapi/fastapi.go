// Package fastapi validates FastAPI projects: app construction idiom,
// in-source server launches, the uvicorn dependency, and the Procfile's
// server/bind/port wiring.
package fastapi

import (
	"strings"

	"railcheck/internal/check/shared"
	"railcheck/internal/project"
	"railcheck/internal/pysrc"
	"railcheck/internal/types"
)

//nolint:gochecknoglobals // configuration data, effectively const
var (
	entryCandidates = []string{"main.py", "app.py", "api.py"}
	entryNames      = []string{"main", "app", "api"}
)

// Run validates the FastAPI entry file and the surrounding launch
// configuration. A missing entry file ends the check early with a warning.
func Run(proj *project.Project, _ types.Framework) ([]types.Issue, []types.PassedCheck) {
	entry, ok := locateEntry(proj)
	if !ok {
		return []types.Issue{{
			ID:       "fastapi-no-entry",
			Severity: types.SeverityWarning,
			Category: types.CategoryStartCommand,
			Message:  "Could not locate a FastAPI application file",
			Fix: types.FixSuggestion{
				Description: "FastAPI-specific checks were skipped",
				Steps: []string{
					"Keep the application in main.py or app.py",
					"Re-run the scan after restoring it",
				},
			},
		}}, nil
	}

	content, err := proj.Read(entry)
	if err != nil {
		return nil, nil
	}

	var (
		issues []types.Issue
		passed []types.PassedCheck
	)

	if !pysrc.Idioms(content).FastAPI {
		issues = append(issues, types.Issue{
			ID:       "fastapi-no-app",
			Severity: types.SeverityWarning,
			Category: types.CategoryStartCommand,
			Message:  "No app = FastAPI() construction found in " + entry,
			File:     entry,
			Fix: types.FixSuggestion{
				Description: "The ASGI server needs an importable app object",
				After:       "app = FastAPI()",
			},
		})
	}

	if strings.Contains(content, "uvicorn.run(") {
		issues = append(issues, types.Issue{
			ID:       "fastapi-dev-server",
			Severity: types.SeverityWarning,
			Category: types.CategoryStartCommand,
			Message:  "uvicorn.run() in source; the platform should launch the server instead",
			File:     entry,
			Fix: types.FixSuggestion{
				Description: "Declare the server in the Procfile and keep uvicorn.run() under __main__ for local use",
				After:       "web: uvicorn main:app --host 0.0.0.0 --port $PORT",
			},
		})
	}

	issues, passed = checkProductionServer(proj, issues, passed)
	issues, passed = checkProcfile(proj, issues, passed)

	return issues, passed
}

// locateEntry probes the conventional root-level names first, then falls
// back to a walk for a conventionally named file anywhere in the tree.
func locateEntry(proj *project.Project) (string, bool) {
	for _, candidate := range entryCandidates {
		if proj.Exists(candidate) {
			return candidate, true
		}
	}

	return proj.FindNamed(entryNames, shared.PySourceExts)
}

func checkProductionServer(proj *project.Project, issues []types.Issue, passed []types.PassedCheck) ([]types.Issue, []types.PassedCheck) {
	requirements, ok := proj.Requirements()
	if ok && strings.Contains(requirements, shared.ASGIServer) {
		return issues, append(passed, types.PassedCheck{
			ID:       "fastapi-uvicorn",
			Category: types.CategoryStartCommand,
			Message:  "uvicorn is declared for production serving",
		})
	}

	return append(issues, types.Issue{
		ID:       "fastapi-no-uvicorn",
		Severity: types.SeverityError,
		Category: types.CategoryStartCommand,
		Message:  "uvicorn is not declared in requirements.txt",
		File:     "requirements.txt",
		Fix: types.FixSuggestion{
			Description: "FastAPI needs an ASGI server in production",
			After:       "uvicorn[standard]==0.27.0",
		},
	}), passed
}

// checkProcfile mirrors the Flask rule (server + bind + port → one
// consolidated pass) and additionally suggests a worker count.
func checkProcfile(proj *project.Project, issues []types.Issue, passed []types.PassedCheck) ([]types.Issue, []types.PassedCheck) {
	procfile, ok := proj.Procfile()
	if !ok {
		return issues, passed
	}

	lower := strings.ToLower(procfile)
	hasServer := strings.Contains(lower, shared.ASGIServer)
	hasBind := strings.Contains(procfile, shared.UniversalBindAddr)
	hasPort := strings.Contains(procfile, "$PORT")

	if hasServer && hasBind && hasPort {
		passed = append(passed, types.PassedCheck{
			ID:       "fastapi-procfile",
			Category: types.CategoryStartCommand,
			Message:  "Procfile runs uvicorn bound to " + shared.UniversalBindAddr + ":$PORT",
		})
	} else {
		if !hasServer {
			issues = append(issues, types.Issue{
				ID:       "fastapi-procfile-server",
				Severity: types.SeverityWarning,
				Category: types.CategoryStartCommand,
				Message:  "Procfile does not launch uvicorn",
				File:     "Procfile",
				Fix: types.FixSuggestion{
					Description: "Run the production ASGI server",
					After:       "web: uvicorn main:app --host 0.0.0.0 --port $PORT",
				},
			})
		}

		if !hasBind {
			issues = append(issues, types.Issue{
				ID:       "fastapi-procfile-host",
				Severity: types.SeverityWarning,
				Category: types.CategoryStartCommand,
				Message:  "Procfile does not bind to " + shared.UniversalBindAddr,
				File:     "Procfile",
				Fix: types.FixSuggestion{
					Description: "Bind to all interfaces",
					After:       "--host 0.0.0.0 --port $PORT",
				},
			})
		}

		if !hasPort {
			issues = append(issues, types.Issue{
				ID:       "fastapi-procfile-port",
				Severity: types.SeverityWarning,
				Category: types.CategoryStartCommand,
				Message:  "Procfile does not reference $PORT",
				File:     "Procfile",
				Fix: types.FixSuggestion{
					Description: "Listen on the platform-injected port",
					After:       "--host 0.0.0.0 --port $PORT",
				},
			})
		}
	}

	if hasServer && !strings.Contains(procfile, "--workers") {
		issues = append(issues, types.Issue{
			ID:       "fastapi-workers",
			Severity: types.SeverityInfo,
			Category: types.CategoryStartCommand,
			Message:  "Consider a --workers flag for concurrency under load",
			File:     "Procfile",
			Fix: types.FixSuggestion{
				Description: "A single worker serializes request handling",
				After:       "web: uvicorn main:app --host 0.0.0.0 --port $PORT --workers 2",
			},
		})
	}

	return issues, passed
}
