// Package pysrc performs best-effort textual analysis of Python source.
// This is deliberately not a parser: the contract is tolerant regex and
// substring matching over raw text. Extraction never fails outward; a field
// that cannot be found yields its zero value.
package pysrc

import (
	"path"
	"regexp"
	"strings"

	"railcheck/internal/check/shared"
)

//nolint:gochecknoglobals
var (
	reFlaskApp   = regexp.MustCompile(`app\s*=\s*Flask\s*\(`)
	reFastAPIApp = regexp.MustCompile(`app\s*=\s*FastAPI\s*\(`)
	reImport     = regexp.MustCompile(`(?m)^\s*(?:from\s+([\w.]+)\s+import|import\s+([\w.]+))`)

	reAllowedHosts = regexp.MustCompile(`(?s)ALLOWED_HOSTS\s*=\s*\[(.*?)\]`)
	reCSRFOrigins  = regexp.MustCompile(`(?s)CSRF_TRUSTED_ORIGINS\s*=\s*\[(.*?)\]`)
	reDebug        = regexp.MustCompile(`(?m)^\s*DEBUG\s*=\s*(True|False)\b`)
	reStaticRoot   = regexp.MustCompile(`(?m)^\s*STATIC_ROOT\s*=`)
	reQuoted       = regexp.MustCompile(`['"]([^'"]*)['"]`)
)

// AppIdioms records which app-construction idioms a source file uses.
type AppIdioms struct {
	Flask   bool     // app = Flask(...)
	FastAPI bool     // app = FastAPI(...)
	Imports []string // import / from-import targets, in order of appearance
}

// Idioms scans raw source text for framework-init idioms and imports.
func Idioms(content string) AppIdioms {
	idioms := AppIdioms{
		Flask:   reFlaskApp.MatchString(content),
		FastAPI: reFastAPIApp.MatchString(content),
	}

	for _, match := range reImport.FindAllStringSubmatch(content, -1) {
		target := match[1]
		if target == "" {
			target = match[2]
		}

		idioms.Imports = append(idioms.Imports, target)
	}

	return idioms
}

// Settings holds the configuration fields extracted from a Django settings
// module. Debug is nil when no DEBUG assignment was found.
type Settings struct {
	AllowedHosts       []string
	Debug              *bool
	HasWhitenoise      bool
	HasDatabaseURL     bool
	HasStaticRoot      bool
	CSRFTrustedOrigins []string
}

// IsSettingsFile reports whether a project-relative path follows the Django
// settings module naming convention.
func IsSettingsFile(rel string) bool {
	if path.Ext(rel) != ".py" {
		return false
	}

	base := path.Base(rel)
	if base == "settings.py" {
		return true
	}

	return path.Base(path.Dir(rel)) == "settings"
}

// ExtractSettings pulls the fixed set of deployment-relevant fields out of
// settings-module text. Matching tolerates either quote style and multiline
// list literals.
func ExtractSettings(content string) Settings {
	settings := Settings{
		AllowedHosts:       stringList(reAllowedHosts, content),
		CSRFTrustedOrigins: stringList(reCSRFOrigins, content),
		HasWhitenoise:      strings.Contains(strings.ToLower(content), shared.StaticFilesLib),
		HasDatabaseURL:     shared.ReferencesDatabaseURL(content),
		HasStaticRoot:      reStaticRoot.MatchString(content),
	}

	if match := reDebug.FindStringSubmatch(content); match != nil {
		debug := match[1] == "True"
		settings.Debug = &debug
	}

	return settings
}

// stringList extracts the quoted elements of the first list literal the
// pattern captures. A match with no elements returns an empty (non-nil)
// slice so callers can distinguish "assigned empty" from "absent".
func stringList(pattern *regexp.Regexp, content string) []string {
	match := pattern.FindStringSubmatch(content)
	if match == nil {
		return nil
	}

	items := []string{}
	for _, quoted := range reQuoted.FindAllStringSubmatch(match[1], -1) {
		items = append(items, quoted[1])
	}

	return items
}
