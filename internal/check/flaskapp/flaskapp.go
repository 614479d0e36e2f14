// Package flaskapp validates Flask projects: app construction idiom, dev
// server usage, production WSGI server declaration, and the Procfile's
// server/bind/port wiring.
package flaskapp

import (
	"regexp"
	"strings"

	"railcheck/internal/check/shared"
	"railcheck/internal/project"
	"railcheck/internal/pysrc"
	"railcheck/internal/types"
)

//nolint:gochecknoglobals // configuration data, effectively const
var (
	entryCandidates = []string{"app.py", "main.py", "wsgi.py", "application.py"}
	entryNames      = []string{"app", "main", "wsgi", "application"}
)

//nolint:gochecknoglobals
var reDebugTrue = regexp.MustCompile(`app\.run\s*\([^)]*debug\s*=\s*True`)

// Run validates the Flask entry file and the surrounding launch
// configuration. A missing entry file ends the check early with a warning.
func Run(proj *project.Project, _ types.Framework) ([]types.Issue, []types.PassedCheck) {
	entry, ok := locateEntry(proj)
	if !ok {
		return []types.Issue{{
			ID:       "flask-no-entry",
			Severity: types.SeverityWarning,
			Category: types.CategoryStartCommand,
			Message:  "Could not locate a Flask application file",
			Fix: types.FixSuggestion{
				Description: "Flask-specific checks were skipped",
				Steps: []string{
					"Keep the application in app.py, main.py, or wsgi.py",
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

	if !pysrc.Idioms(content).Flask {
		issues = append(issues, types.Issue{
			ID:       "flask-no-app",
			Severity: types.SeverityWarning,
			Category: types.CategoryStartCommand,
			Message:  "No app = Flask(__name__) construction found in " + entry,
			File:     entry,
			Fix: types.FixSuggestion{
				Description: "The WSGI server needs an importable app object",
				After:       "app = Flask(__name__)",
			},
		})
	}

	issues = append(issues, checkDevServer(content, entry)...)
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

// checkDevServer flags app.run() usage; with debug=True the file additionally
// exposes the interactive debugger, which is remote code execution when
// reachable from the internet.
func checkDevServer(content, entry string) []types.Issue {
	if !strings.Contains(content, "app.run(") {
		return nil
	}

	issues := []types.Issue{{
		ID:       "flask-dev-server",
		Severity: types.SeverityWarning,
		Category: types.CategoryStartCommand,
		Message:  "app.run() starts the Flask development server",
		File:     entry,
		Fix: types.FixSuggestion{
			Description: "Serve through gunicorn in production; keep app.run() under __main__ for local use only",
			Before:      "app.run(debug=True)",
			After:       "if __name__ == '__main__':\n    app.run()",
		},
	}}

	if reDebugTrue.MatchString(content) {
		issues = append(issues, types.Issue{
			ID:       "flask-debug-true",
			Severity: types.SeverityError,
			Category: types.CategoryStartCommand,
			Message:  "debug=True exposes the interactive debugger in production",
			File:     entry,
			Fix: types.FixSuggestion{
				Description: "Never enable the debugger on a reachable host",
				Before:      "app.run(debug=True)",
				After:       "app.run()",
			},
		})
	}

	return issues
}

func checkProductionServer(proj *project.Project, issues []types.Issue, passed []types.PassedCheck) ([]types.Issue, []types.PassedCheck) {
	requirements, ok := proj.Requirements()
	if ok && strings.Contains(requirements, shared.WSGIServer) {
		return issues, append(passed, types.PassedCheck{
			ID:       "flask-gunicorn",
			Category: types.CategoryStartCommand,
			Message:  "gunicorn is declared for production serving",
		})
	}

	return append(issues, types.Issue{
		ID:       "flask-no-gunicorn",
		Severity: types.SeverityError,
		Category: types.CategoryStartCommand,
		Message:  "gunicorn is not declared in requirements.txt",
		File:     "requirements.txt",
		Fix: types.FixSuggestion{
			Description: "The development server cannot serve production traffic",
			After:       "gunicorn==21.2.0",
		},
	}), passed
}

// checkProcfile requires server name, universal bind, and the PORT variable
// together; all three earn a single consolidated pass.
func checkProcfile(proj *project.Project, issues []types.Issue, passed []types.PassedCheck) ([]types.Issue, []types.PassedCheck) {
	procfile, ok := proj.Procfile()
	if !ok {
		return issues, passed
	}

	lower := strings.ToLower(procfile)
	hasServer := strings.Contains(lower, shared.WSGIServer)
	hasBind := strings.Contains(procfile, shared.UniversalBindAddr)
	hasPort := strings.Contains(procfile, "$PORT")

	if hasServer && hasBind && hasPort {
		return issues, append(passed, types.PassedCheck{
			ID:       "flask-procfile",
			Category: types.CategoryStartCommand,
			Message:  "Procfile runs gunicorn bound to " + shared.UniversalBindAddr + ":$PORT",
		})
	}

	if !hasServer {
		issues = append(issues, types.Issue{
			ID:       "flask-procfile-server",
			Severity: types.SeverityWarning,
			Category: types.CategoryStartCommand,
			Message:  "Procfile does not launch gunicorn",
			File:     "Procfile",
			Fix: types.FixSuggestion{
				Description: "Run the production WSGI server",
				After:       "web: gunicorn app:app --bind 0.0.0.0:$PORT",
			},
		})
	}

	if !hasBind {
		issues = append(issues, types.Issue{
			ID:       "flask-procfile-host",
			Severity: types.SeverityWarning,
			Category: types.CategoryStartCommand,
			Message:  "Procfile does not bind to " + shared.UniversalBindAddr,
			File:     "Procfile",
			Fix: types.FixSuggestion{
				Description: "Bind to all interfaces",
				After:       "--bind 0.0.0.0:$PORT",
			},
		})
	}

	if !hasPort {
		issues = append(issues, types.Issue{
			ID:       "flask-procfile-port",
			Severity: types.SeverityWarning,
			Category: types.CategoryStartCommand,
			Message:  "Procfile does not reference $PORT",
			File:     "Procfile",
			Fix: types.FixSuggestion{
				Description: "Listen on the platform-injected port",
				After:       "--bind 0.0.0.0:$PORT",
			},
		})
	}

	return issues, passed
}
