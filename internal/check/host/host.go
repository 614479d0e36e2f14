// Package host verifies that servers bind to the universal address. The
// platform routes traffic to 0.0.0.0; a loopback bind is unreachable from
// the edge, and an unspecified bind may or may not default correctly.
package host

import (
	"strings"

	"railcheck/internal/check/shared"
	"railcheck/internal/project"
	"railcheck/internal/types"
)

// pyServerCalls are the dev-server-run invocations whose binding matters.
//
//nolint:gochecknoglobals // configuration data, effectively const
var pyServerCalls = []string{"app.run(", "uvicorn.run(", "serve("}

// Run scans source files for listen/run calls that do not bind the
// universal address, and checks the Next.js start script hostname flag.
func Run(proj *project.Project, framework types.Framework) ([]types.Issue, []types.PassedCheck) {
	var issues []types.Issue

	if framework.IsNode() || framework.Kind == types.FrameworkUnknown {
		for _, file := range proj.SourceFiles(shared.JSSourceExts...) {
			content, err := proj.Read(file)
			if err != nil || !strings.Contains(content, ".listen(") {
				continue
			}

			if issue, ok := bindingIssue(content, file, framework); ok {
				issues = append(issues, issue)
			}
		}
	}

	if framework.IsPython() || framework.Kind == types.FrameworkUnknown {
		for _, file := range proj.SourceFiles(shared.PySourceExts...) {
			content, err := proj.Read(file)
			if err != nil || !hasPyServerCall(content) {
				continue
			}

			if issue, ok := bindingIssue(content, file, framework); ok {
				issues = append(issues, issue)
			}
		}
	}

	if framework.Kind == types.FrameworkNextJS {
		issues = append(issues, checkNextStartScript(proj)...)
	}

	if len(issues) > 0 {
		return issues, nil
	}

	return nil, []types.PassedCheck{{
		ID:       "host-check",
		Category: types.CategoryHost,
		Message:  "Server binds to " + shared.UniversalBindAddr,
	}}
}

func hasPyServerCall(content string) bool {
	for _, call := range pyServerCalls {
		if strings.Contains(content, call) {
			return true
		}
	}

	return false
}

// bindingIssue classifies a server file that never names the universal
// address. An explicit loopback literal means the binding is actively wrong;
// its absence only means the binding is unconfirmed.
func bindingIssue(content, file string, framework types.Framework) (types.Issue, bool) {
	if shared.BindsUniversal(content) {
		return types.Issue{}, false
	}

	severity := types.SeverityWarning
	message := "Server does not explicitly bind to " + shared.UniversalBindAddr

	if shared.HasLocalhostLiteral(content) {
		severity = types.SeverityError
		message = "Server binds to localhost, which is unreachable on the platform"
	}

	return types.Issue{
		ID:       "host-binding",
		Severity: severity,
		Category: types.CategoryHost,
		Message:  message,
		File:     file,
		Fix:      bindingFix(framework.Kind),
	}, true
}

func checkNextStartScript(proj *project.Project) []types.Issue {
	manifest, ok := proj.Manifest()
	if !ok {
		return nil
	}

	start := manifest.Script("start")
	if start == "" {
		return nil
	}

	if strings.Contains(start, "-H "+shared.UniversalBindAddr) ||
		strings.Contains(start, "--hostname "+shared.UniversalBindAddr) {
		return nil
	}

	return []types.Issue{{
		ID:       "nextjs-host-flag",
		Severity: types.SeverityError,
		Category: types.CategoryHost,
		Message:  "Next.js start script does not bind to " + shared.UniversalBindAddr,
		File:     "package.json",
		Fix: types.FixSuggestion{
			Description: "Bind next start to all interfaces",
			Before:      `"start": "next start -p $PORT"`,
			After:       `"start": "next start -H 0.0.0.0 -p $PORT"`,
		},
	}}
}

func bindingFix(kind types.FrameworkKind) types.FixSuggestion {
	switch kind {
	case types.FrameworkExpress, types.FrameworkNestJS, types.FrameworkNextJS, types.FrameworkUnknown:
		return types.FixSuggestion{
			Description: "Bind to all interfaces so the platform edge can reach the server",
			Before:      "app.listen(port, 'localhost')",
			After:       "app.listen(port, '0.0.0.0')",
		}
	case types.FrameworkFlask:
		return types.FixSuggestion{
			Description: "Bind to all interfaces so the platform edge can reach the server",
			Before:      "app.run(port=port)",
			After:       `app.run(host="0.0.0.0", port=port)`,
		}
	case types.FrameworkFastAPI:
		return types.FixSuggestion{
			Description: "Bind to all interfaces so the platform edge can reach the server",
			Before:      "uvicorn.run(app, port=port)",
			After:       `uvicorn.run(app, host="0.0.0.0", port=port)`,
		}
	case types.FrameworkDjango:
		return types.FixSuggestion{
			Description: "Bind gunicorn to all interfaces in the Procfile",
			Before:      "web: gunicorn myproject.wsgi",
			After:       "web: gunicorn myproject.wsgi --bind 0.0.0.0:$PORT",
		}
	}

	return types.FixSuggestion{Description: "Bind the server to " + shared.UniversalBindAddr}
}
