// Package envvars covers two independent concerns: secrets hygiene (a local
// .env file must be gitignored) and an inventory of environment variables
// the source reads, so nothing is forgotten when configuring the service.
package envvars

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"railcheck/internal/check/shared"
	"railcheck/internal/project"
	"railcheck/internal/types"
)

const (
	envFile    = ".env"
	ignoreFile = ".gitignore"

	maxListedVars = 10
)

// wellKnown are platform-provided variables that need no manual setup.
//
//nolint:gochecknoglobals // configuration data, effectively const
var wellKnown = map[string]struct{}{
	shared.PortEnvVar:        {},
	"NODE_ENV":               {},
	shared.DatabaseURLEnvVar: {},
}

//nolint:gochecknoglobals
var (
	reJSEnvAccess = regexp.MustCompile(`process\.env\.([A-Za-z_][A-Za-z0-9_]*)`)
	rePyEnvCall   = regexp.MustCompile(`os\.(?:environ\.get|getenv)\(\s*['"]([A-Za-z_][A-Za-z0-9_]*)['"]`)
	rePySubscript = regexp.MustCompile(`os\.environ\[\s*['"]([A-Za-z_][A-Za-z0-9_]*)['"]\s*\]`)
)

// Run performs the hygiene check and the usage inventory.
func Run(proj *project.Project, _ types.Framework) ([]types.Issue, []types.PassedCheck) {
	var (
		issues []types.Issue
		passed []types.PassedCheck
	)

	if issue, ok := hygiene(proj); ok {
		issues = append(issues, issue)
	} else {
		passed = append(passed, types.PassedCheck{
			ID:       "env-gitignore",
			Category: types.CategoryEnvVars,
			Message:  "Local secrets are not at risk of being committed",
		})
	}

	names := inventory(proj)
	if len(names) > 0 {
		issues = append(issues, types.Issue{
			ID:       "env-vars-detected",
			Severity: types.SeverityInfo,
			Category: types.CategoryEnvVars,
			Message:  "Environment variables referenced in source: " + formatNames(names),
			Fix: types.FixSuggestion{
				Description: "Define these in the platform's service variables before deploying",
				Steps: []string{
					"Open the service's Variables tab",
					"Add each variable with its production value",
				},
			},
		})
	} else {
		passed = append(passed, types.PassedCheck{
			ID:       "env-check",
			Category: types.CategoryEnvVars,
			Message:  "No unrecognized environment variables in use",
		})
	}

	return issues, passed
}

// hygiene returns (issue, true) when a local .env risks being committed.
// With no .env present there is nothing to misconfigure, so that counts as
// a pass. A .gitignore without a .env is not examined.
func hygiene(proj *project.Project) (types.Issue, bool) {
	if !proj.Exists(envFile) {
		return types.Issue{}, false
	}

	if ignore, err := proj.Read(ignoreFile); err == nil && strings.Contains(ignore, envFile) {
		return types.Issue{}, false
	}

	return types.Issue{
		ID:       "env-not-gitignored",
		Severity: types.SeverityWarning,
		Category: types.CategoryEnvVars,
		Message:  ".env exists but is not listed in .gitignore",
		File:     envFile,
		Fix: types.FixSuggestion{
			Description: "Keep secrets out of version control",
			After:       ".env",
			Steps: []string{
				"Append .env to .gitignore",
				"If .env was already committed, rotate the secrets it contains",
			},
		},
	}, true
}

// inventory collects the deduplicated, sorted set of referenced variable
// names outside the well-known allowlist and the package-manager namespace.
func inventory(proj *project.Project) []string {
	seen := make(map[string]struct{})

	collect := func(content string) {
		for _, pattern := range []*regexp.Regexp{reJSEnvAccess, rePyEnvCall, rePySubscript} {
			for _, match := range pattern.FindAllStringSubmatch(content, -1) {
				name := match[1]
				if _, known := wellKnown[name]; known {
					continue
				}

				if strings.HasPrefix(name, shared.NpmEnvPrefix) {
					continue
				}

				seen[name] = struct{}{}
			}
		}
	}

	exts := append(append([]string{}, shared.JSSourceExts...), shared.PySourceExts...)
	for _, file := range proj.SourceFiles(exts...) {
		if content, err := proj.Read(file); err == nil {
			collect(content)
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

func formatNames(names []string) string {
	if len(names) <= maxListedVars {
		return strings.Join(names, ", ")
	}

	return fmt.Sprintf("%s (and %d more)",
		strings.Join(names[:maxListedVars], ", "), len(names)-maxListedVars)
}
