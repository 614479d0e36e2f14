// Package shared carries the platform constants and matchers every check
// module agrees on.
package shared

import (
	"regexp"
	"strings"
)

const (
	// PortEnvVar is the environment variable the platform injects the
	// listen port through.
	PortEnvVar = "PORT"

	// DatabaseURLEnvVar is the platform-provided database connection string.
	DatabaseURLEnvVar = "DATABASE_URL"

	// UniversalBindAddr is the all-interfaces address the platform requires.
	UniversalBindAddr = "0.0.0.0"

	// PlatformDomain is the hosting platform's application domain.
	PlatformDomain = "railway.app"

	// WSGIServer, ASGIServer are the production servers for Python apps.
	WSGIServer = "gunicorn"
	ASGIServer = "uvicorn"

	// StaticFilesLib serves static assets for Django deployments.
	StaticFilesLib = "whitenoise"

	// NpmEnvPrefix marks package-manager-internal environment variables.
	NpmEnvPrefix = "npm_"
)

// JSSourceExts and PySourceExts select source files by extension.
//
//nolint:gochecknoglobals // configuration data, effectively const
var (
	JSSourceExts = []string{".js", ".jsx", ".ts", ".tsx", ".mjs", ".cjs"}
	PySourceExts = []string{".py"}
)

//nolint:gochecknoglobals
var (
	// process.env.PORT, process.env['PORT'], process.env["PORT"]
	reJSPortEnv = regexp.MustCompile(`process\.env(?:\.PORT\b|\[\s*['"]PORT['"]\s*\])`)

	// os.environ.get('PORT'), os.getenv('PORT'), os.environ['PORT']
	rePyPortEnv = regexp.MustCompile(`os\.(?:environ\.get\(\s*['"]PORT['"]|getenv\(\s*['"]PORT['"]|environ\[\s*['"]PORT['"]\s*\])`)

	reLocalhost = regexp.MustCompile(`(?i)\b(?:localhost|127\.0\.0\.1)\b`)
)

// ReferencesPortEnv reports whether the source text reads the PORT
// environment variable in any recognized access form.
func ReferencesPortEnv(content string) bool {
	return reJSPortEnv.MatchString(content) || rePyPortEnv.MatchString(content)
}

// ReferencesDatabaseURL reports whether the source text carries any
// DATABASE_URL-related identifier (direct env access or dj_database_url).
func ReferencesDatabaseURL(content string) bool {
	return strings.Contains(content, DatabaseURLEnvVar) ||
		strings.Contains(content, "dj_database_url")
}

// HasLocalhostLiteral reports whether the source text contains an explicit
// loopback literal.
func HasLocalhostLiteral(content string) bool {
	return reLocalhost.MatchString(content)
}

// BindsUniversal reports whether the source text contains the universal bind
// address as a quoted literal in any of the three quote styles.
func BindsUniversal(content string) bool {
	for _, quoted := range []string{
		`'` + UniversalBindAddr + `'`,
		`"` + UniversalBindAddr + `"`,
		"`" + UniversalBindAddr + "`",
	} {
		if strings.Contains(content, quoted) {
			return true
		}
	}

	return false
}
