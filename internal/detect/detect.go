// Package detect classifies a project into one of the supported framework
// variants. Detection is first-match-wins over a fixed precedence: Node
// manifests are consulted before Python dependency lists, and within each
// family the more specific frameworks win (Next.js before NestJS before
// Express; Django before Flask before FastAPI).
package detect

import (
	"strings"

	"railcheck/internal/check/shared"
	"railcheck/internal/project"
	"railcheck/internal/types"
)

// Ordered entry-point candidates per Node framework. First existing wins.
//
//nolint:gochecknoglobals // configuration data, effectively const
var (
	expressEntryCandidates = []string{
		"server.js", "index.js", "app.js", "main.js",
		"src/server.js", "src/index.js", "src/app.js",
		"server.ts", "index.ts", "src/server.ts", "src/index.ts",
	}

	nestEntryCandidates = []string{
		"src/main.ts", "main.ts", "dist/main.js",
	}

	nextConfigCandidates = []string{
		"next.config.js", "next.config.mjs", "next.config.ts",
	}

	fallbackEntryNames = []string{"server", "index", "app", "main"}
)

// Detect inspects the project's manifest files and returns a single
// Framework value. Malformed manifest JSON is treated as absence of Node
// frameworks and detection falls through to the Python path.
func Detect(proj *project.Project) types.Framework {
	if manifest, ok := proj.Manifest(); ok {
		if framework, ok := detectNode(proj, manifest); ok {
			return framework
		}
	}

	if requirements, ok := proj.Requirements(); ok {
		if framework, ok := detectPython(proj, requirements); ok {
			return framework
		}
	}

	return types.Framework{Kind: types.FrameworkUnknown}
}

func detectNode(proj *project.Project, manifest *project.Manifest) (types.Framework, bool) {
	if version, ok := manifest.Dependency("next"); ok {
		return types.Framework{
			Kind:       types.FrameworkNextJS,
			Version:    version,
			EntryPoint: firstExisting(proj, nextConfigCandidates),
		}, true
	}

	// A Next config file without the dependency still marks a Next project.
	if entry := firstExisting(proj, nextConfigCandidates); entry != "" {
		return types.Framework{Kind: types.FrameworkNextJS, EntryPoint: entry}, true
	}

	if version, ok := manifest.Dependency("@nestjs/core"); ok {
		return types.Framework{
			Kind:       types.FrameworkNestJS,
			Version:    version,
			EntryPoint: nodeEntryPoint(proj, manifest, nestEntryCandidates),
		}, true
	}

	if version, ok := manifest.Dependency("express"); ok {
		return types.Framework{
			Kind:       types.FrameworkExpress,
			Version:    version,
			EntryPoint: nodeEntryPoint(proj, manifest, expressEntryCandidates),
		}, true
	}

	return types.Framework{}, false
}

func detectPython(proj *project.Project, requirements string) (types.Framework, bool) {
	switch {
	case strings.Contains(requirements, "django"):
		framework := types.Framework{Kind: types.FrameworkDjango}
		if proj.Exists("manage.py") {
			framework.EntryPoint = "manage.py"
		}

		return framework, true
	case strings.Contains(requirements, "flask"):
		return types.Framework{Kind: types.FrameworkFlask}, true
	case strings.Contains(requirements, "fastapi"):
		return types.Framework{Kind: types.FrameworkFastAPI}, true
	default:
		return types.Framework{}, false
	}
}

// nodeEntryPoint resolves the representative entry file: framework candidate
// list first, then the manifest's declared main file, then a best-effort
// search for conventionally named scripts.
func nodeEntryPoint(proj *project.Project, manifest *project.Manifest, candidates []string) string {
	if entry := firstExisting(proj, candidates); entry != "" {
		return entry
	}

	if manifest.Main != "" && proj.Exists(manifest.Main) {
		return manifest.Main
	}

	if entry, ok := proj.FindNamed(fallbackEntryNames, shared.JSSourceExts); ok {
		return entry
	}

	return ""
}

func firstExisting(proj *project.Project, candidates []string) string {
	for _, candidate := range candidates {
		if proj.Exists(candidate) {
			return candidate
		}
	}

	return ""
}
