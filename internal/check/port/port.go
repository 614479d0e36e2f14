// Package port flags hardcoded listen ports. The platform injects the listen
// port through the PORT environment variable; a numeric literal is only a
// problem when the file never reads that variable (a literal next to an env
// read is a fallback default, not a bug).
package port

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"railcheck/internal/check/shared"
	"railcheck/internal/project"
	"railcheck/internal/types"
)

const minSuspiciousPort = 1000

//nolint:gochecknoglobals
var (
	reListenLiteral = regexp.MustCompile(`\.listen\(\s*(\d+)`)
	rePortVariable  = regexp.MustCompile(`(?i)(?:const|let|var)\s+port\s*=\s*(\d+)`)
	rePyRunPort     = regexp.MustCompile(`(?:app\.run|uvicorn\.run)\s*\([^)]*port\s*=\s*(\d+)`)
)

// Run scans source files for hardcoded ports and, for Next.js, verifies the
// start script interpolates $PORT.
func Run(proj *project.Project, framework types.Framework) ([]types.Issue, []types.PassedCheck) {
	var issues []types.Issue

	if framework.IsNode() || framework.Kind == types.FrameworkUnknown {
		issues = append(issues, scanJS(proj, framework)...)
	}

	if framework.IsPython() || framework.Kind == types.FrameworkUnknown {
		issues = append(issues, scanPython(proj, framework)...)
	}

	if framework.Kind == types.FrameworkNextJS {
		issues = append(issues, checkNextStartScript(proj)...)
	}

	if len(issues) > 0 {
		return issues, nil
	}

	return nil, []types.PassedCheck{{
		ID:       "port-check",
		Category: types.CategoryPort,
		Message:  "PORT environment variable handling looks correct",
	}}
}

func scanJS(proj *project.Project, framework types.Framework) []types.Issue {
	var issues []types.Issue

	for _, file := range proj.SourceFiles(shared.JSSourceExts...) {
		content, err := proj.Read(file)
		if err != nil {
			continue
		}

		// An env read anywhere in the file clears it: literals are then
		// fallback defaults.
		if shared.ReferencesPortEnv(content) {
			continue
		}

		if issue, ok := hardcodedJSPort(content, file, framework); ok {
			issues = append(issues, issue)
		}
	}

	return issues
}

// hardcodedJSPort reports at most one finding per file: the first suspicious
// listen() literal wins over a port variable assignment. Literals below the
// threshold never mask a later suspicious one.
func hardcodedJSPort(content, file string, framework types.Framework) (types.Issue, bool) {
	for _, loc := range reListenLiteral.FindAllStringSubmatchIndex(content, -1) {
		value, _ := strconv.Atoi(content[loc[2]:loc[3]])
		if value >= minSuspiciousPort {
			return hardcodedIssue(value, file, project.LineNumber(content, loc[0]), framework), true
		}
	}

	for _, loc := range rePortVariable.FindAllStringSubmatchIndex(content, -1) {
		value, _ := strconv.Atoi(content[loc[2]:loc[3]])
		if value >= minSuspiciousPort {
			return hardcodedIssue(value, file, project.LineNumber(content, loc[0]), framework), true
		}
	}

	return types.Issue{}, false
}

func scanPython(proj *project.Project, framework types.Framework) []types.Issue {
	var issues []types.Issue

	for _, file := range proj.SourceFiles(shared.PySourceExts...) {
		content, err := proj.Read(file)
		if err != nil {
			continue
		}

		if shared.ReferencesPortEnv(content) {
			continue
		}

		for _, loc := range rePyRunPort.FindAllStringSubmatchIndex(content, -1) {
			value, _ := strconv.Atoi(content[loc[2]:loc[3]])
			if value >= minSuspiciousPort {
				issues = append(issues, hardcodedIssue(value, file, project.LineNumber(content, loc[0]), framework))

				break
			}
		}
	}

	return issues
}

func checkNextStartScript(proj *project.Project) []types.Issue {
	manifest, ok := proj.Manifest()
	if !ok {
		return nil
	}

	start := manifest.Script("start")
	if start == "" {
		// The start-command check owns the missing-script finding.
		return nil
	}

	if strings.Contains(start, "$PORT") || strings.Contains(start, "${PORT}") {
		return nil
	}

	return []types.Issue{{
		ID:       "nextjs-port-flag",
		Severity: types.SeverityError,
		Category: types.CategoryPort,
		Message:  "Next.js start script does not bind to the platform PORT",
		File:     "package.json",
		Fix: types.FixSuggestion{
			Description: "Pass the injected port to next start",
			Before:      `"start": "next start"`,
			After:       `"start": "next start -p $PORT"`,
		},
	}}
}

func hardcodedIssue(value int, file string, line int, framework types.Framework) types.Issue {
	return types.Issue{
		ID:       "port-hardcoded",
		Severity: types.SeverityError,
		Category: types.CategoryPort,
		Message:  fmt.Sprintf("Hardcoded port %d will be ignored by the platform", value),
		File:     file,
		Line:     line,
		Fix:      hardcodedFix(framework.Kind, value),
	}
}

// hardcodedFix is a closed match over the framework variants so adding a new
// framework forces a decision here.
func hardcodedFix(kind types.FrameworkKind, value int) types.FixSuggestion {
	switch kind {
	case types.FrameworkExpress, types.FrameworkNestJS, types.FrameworkNextJS, types.FrameworkUnknown:
		return types.FixSuggestion{
			Description: "Read the port from the PORT environment variable with the literal as fallback",
			Before:      fmt.Sprintf("app.listen(%d)", value),
			After:       fmt.Sprintf("app.listen(process.env.PORT || %d)", value),
		}
	case types.FrameworkFlask:
		return types.FixSuggestion{
			Description: "Read the port from the PORT environment variable with the literal as fallback",
			Before:      fmt.Sprintf("app.run(port=%d)", value),
			After:       fmt.Sprintf(`app.run(host="0.0.0.0", port=int(os.environ.get("PORT", %d)))`, value),
		}
	case types.FrameworkFastAPI:
		return types.FixSuggestion{
			Description: "Read the port from the PORT environment variable with the literal as fallback",
			Before:      fmt.Sprintf("uvicorn.run(app, port=%d)", value),
			After:       fmt.Sprintf(`uvicorn.run(app, host="0.0.0.0", port=int(os.environ.get("PORT", %d)))`, value),
		}
	case types.FrameworkDjango:
		return types.FixSuggestion{
			Description: "Let gunicorn bind the platform port in the Procfile",
			Before:      fmt.Sprintf("python manage.py runserver %d", value),
			After:       "web: gunicorn myproject.wsgi --bind 0.0.0.0:$PORT",
		}
	}

	return types.FixSuggestion{Description: "Read the port from the PORT environment variable"}
}
