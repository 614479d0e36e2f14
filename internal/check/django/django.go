// Package django validates a Django project's settings module against the
// platform's deployment requirements: host allow-list, debug mode, static
// file serving, database wiring, and the production WSGI server.
package django

import (
	"strings"

	"railcheck/internal/check/shared"
	"railcheck/internal/project"
	"railcheck/internal/pysrc"
	"railcheck/internal/types"
)

// settingsCandidates are tried in order before falling back to a glob.
//
//nolint:gochecknoglobals // configuration data, effectively const
var settingsCandidates = []string{
	"settings.py",
	"config/settings.py",
	"app/settings.py",
}

// Run locates the settings module and validates its deployment-relevant
// fields. A missing settings module is a non-fatal warning: nothing else can
// be checked without it.
func Run(proj *project.Project, _ types.Framework) ([]types.Issue, []types.PassedCheck) {
	settingsPath, ok := locateSettings(proj)
	if !ok {
		return []types.Issue{{
			ID:       "django-no-settings",
			Severity: types.SeverityWarning,
			Category: types.CategoryStartCommand,
			Message:  "Could not locate a Django settings module",
			Fix: types.FixSuggestion{
				Description: "Deployment settings could not be validated",
				Steps: []string{
					"Keep the settings module at <project>/settings.py",
					"Re-run the scan after restoring it",
				},
			},
		}}, nil
	}

	content, err := proj.Read(settingsPath)
	if err != nil {
		return nil, nil
	}

	settings := pysrc.ExtractSettings(content)

	var (
		issues []types.Issue
		passed []types.PassedCheck
	)

	issues, passed = checkAllowedHosts(settings, settingsPath, issues, passed)
	issues, passed = checkDebug(settings, settingsPath, issues, passed)
	issues, passed = checkStaticFiles(settings, settingsPath, issues, passed)
	issues, passed = checkDatabaseURL(settings, settingsPath, issues, passed)
	issues = checkCSRFOrigins(settings, settingsPath, issues)
	issues, passed = checkProductionServer(proj, issues, passed)

	return issues, passed
}

func locateSettings(proj *project.Project) (string, bool) {
	for _, candidate := range settingsCandidates {
		if proj.Exists(candidate) {
			return candidate, true
		}
	}

	for _, file := range proj.SourceFiles(shared.PySourceExts...) {
		if pysrc.IsSettingsFile(file) {
			return file, true
		}
	}

	return "", false
}

func checkAllowedHosts(settings pysrc.Settings, file string, issues []types.Issue, passed []types.PassedCheck) ([]types.Issue, []types.PassedCheck) {
	// An absent assignment behaves like an empty list in production.
	if len(settings.AllowedHosts) == 0 {
		return append(issues, types.Issue{
			ID:       "django-empty-allowed-hosts",
			Severity: types.SeverityError,
			Category: types.CategoryHost,
			Message:  "ALLOWED_HOSTS is empty; Django will reject every request",
			File:     file,
			Fix: types.FixSuggestion{
				Description: "Allow the platform domain",
				Before:      "ALLOWED_HOSTS = []",
				After:       "ALLOWED_HOSTS = ['*']  # or ['.railway.app']",
			},
		}), passed
	}

	for _, allowedHost := range settings.AllowedHosts {
		if allowedHost == "*" || strings.Contains(allowedHost, shared.PlatformDomain) {
			return issues, append(passed, types.PassedCheck{
				ID:       "django-allowed-hosts",
				Category: types.CategoryHost,
				Message:  "ALLOWED_HOSTS admits the platform domain",
			})
		}
	}

	return append(issues, types.Issue{
		ID:       "django-allowed-hosts-domain",
		Severity: types.SeverityWarning,
		Category: types.CategoryHost,
		Message:  "ALLOWED_HOSTS does not include the platform domain",
		File:     file,
		Fix: types.FixSuggestion{
			Description: "Add the deployed hostname",
			After:       "ALLOWED_HOSTS = ['myapp." + shared.PlatformDomain + "', '." + shared.PlatformDomain + "']",
		},
	}), passed
}

func checkDebug(settings pysrc.Settings, file string, issues []types.Issue, passed []types.PassedCheck) ([]types.Issue, []types.PassedCheck) {
	if settings.Debug == nil {
		return issues, passed
	}

	if *settings.Debug {
		return append(issues, types.Issue{
			ID:       "django-debug-true",
			Severity: types.SeverityWarning,
			Category: types.CategoryEnvVars,
			Message:  "DEBUG is True; stack traces and settings leak in production",
			File:     file,
			Fix: types.FixSuggestion{
				Description: "Drive DEBUG from the environment",
				Before:      "DEBUG = True",
				After:       "DEBUG = os.environ.get('DEBUG', 'False') == 'True'",
			},
		}), passed
	}

	return issues, append(passed, types.PassedCheck{
		ID:       "django-debug",
		Category: types.CategoryEnvVars,
		Message:  "DEBUG is disabled",
	})
}

func checkStaticFiles(settings pysrc.Settings, file string, issues []types.Issue, passed []types.PassedCheck) ([]types.Issue, []types.PassedCheck) {
	if !settings.HasWhitenoise {
		issues = append(issues, types.Issue{
			ID:       "django-no-whitenoise",
			Severity: types.SeverityError,
			Category: types.CategoryStaticFiles,
			Message:  "No whitenoise middleware; static files will 404 in production",
			File:     file,
			Fix: types.FixSuggestion{
				Description: "Serve static assets through whitenoise",
				Steps: []string{
					"pip install whitenoise and add it to requirements.txt",
					"Insert 'whitenoise.middleware.WhiteNoiseMiddleware' after SecurityMiddleware in MIDDLEWARE",
				},
			},
		})
	} else {
		passed = append(passed, types.PassedCheck{
			ID:       "django-whitenoise",
			Category: types.CategoryStaticFiles,
			Message:  "whitenoise serves static files",
		})
	}

	// STATIC_ROOT absence is a warning only; presence earns no pass.
	if !settings.HasStaticRoot {
		issues = append(issues, types.Issue{
			ID:       "django-no-static-root",
			Severity: types.SeverityWarning,
			Category: types.CategoryStaticFiles,
			Message:  "STATIC_ROOT is not set; collectstatic has nowhere to write",
			File:     file,
			Fix: types.FixSuggestion{
				Description: "Give collectstatic a target directory",
				After:       "STATIC_ROOT = BASE_DIR / 'staticfiles'",
			},
		})
	}

	return issues, passed
}

func checkDatabaseURL(settings pysrc.Settings, file string, issues []types.Issue, passed []types.PassedCheck) ([]types.Issue, []types.PassedCheck) {
	if !settings.HasDatabaseURL {
		return append(issues, types.Issue{
			ID:       "django-no-database-url",
			Severity: types.SeverityWarning,
			Category: types.CategoryDatabase,
			Message:  "Settings show no DATABASE_URL usage",
			File:     file,
			Fix: types.FixSuggestion{
				Description: "Configure the database from the platform-provided URL",
				After:       "DATABASES = {'default': dj_database_url.config(conn_max_age=600)}",
				Steps: []string{
					"pip install dj-database-url and add it to requirements.txt",
				},
			},
		}), passed
	}

	return issues, append(passed, types.PassedCheck{
		ID:       "django-database-url",
		Category: types.CategoryDatabase,
		Message:  "Database is configured from DATABASE_URL",
	})
}

func checkCSRFOrigins(settings pysrc.Settings, file string, issues []types.Issue) []types.Issue {
	if len(settings.CSRFTrustedOrigins) > 0 {
		return issues
	}

	return append(issues, types.Issue{
		ID:       "django-csrf-origins",
		Severity: types.SeverityInfo,
		Category: types.CategoryHost,
		Message:  "CSRF_TRUSTED_ORIGINS is empty; form posts over HTTPS may be rejected on Django 4+",
		File:     file,
		Fix: types.FixSuggestion{
			Description: "Trust the platform origin",
			After:       "CSRF_TRUSTED_ORIGINS = ['https://*." + shared.PlatformDomain + "']",
		},
	})
}

func checkProductionServer(proj *project.Project, issues []types.Issue, passed []types.PassedCheck) ([]types.Issue, []types.PassedCheck) {
	requirements, ok := proj.Requirements()
	if ok && strings.Contains(requirements, shared.WSGIServer) {
		return issues, append(passed, types.PassedCheck{
			ID:       "django-gunicorn",
			Category: types.CategoryStartCommand,
			Message:  "gunicorn is declared for production serving",
		})
	}

	return append(issues, types.Issue{
		ID:       "django-no-gunicorn",
		Severity: types.SeverityError,
		Category: types.CategoryStartCommand,
		Message:  "gunicorn is not declared in requirements.txt",
		File:     "requirements.txt",
		Fix: types.FixSuggestion{
			Description: "The dev server cannot serve production traffic",
			After:       "gunicorn==21.2.0",
		},
	}), passed
}
