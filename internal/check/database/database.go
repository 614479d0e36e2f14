// Package database looks for platform-incompatible database wiring. The
// platform provisions databases behind the DATABASE_URL environment
// variable; hardcoded localhost hosts and Unix-socket paths both point at
// infrastructure that does not exist in the deployed container.
package database

import (
	"strings"

	"railcheck/internal/check/shared"
	"railcheck/internal/project"
	"railcheck/internal/types"
)

// Node package name → human database label. Order fixes output order.
//
//nolint:gochecknoglobals // configuration data, effectively const
var nodeLibraries = []struct {
	pkg   string
	label string
}{
	{"pg", "PostgreSQL"},
	{"mysql", "MySQL"},
	{"mysql2", "MySQL"},
	{"mongodb", "MongoDB"},
	{"mongoose", "MongoDB"},
	{"sequelize", "Sequelize"},
	{"typeorm", "TypeORM"},
	{"prisma", "Prisma"},
	{"@prisma/client", "Prisma"},
}

// Python dependency-list fragments → label.
//
//nolint:gochecknoglobals // configuration data, effectively const
var pythonLibraries = []struct {
	fragment string
	label    string
}{
	{"psycopg", "PostgreSQL"},
	{"pymysql", "MySQL"},
	{"mysqlclient", "MySQL"},
	{"pymongo", "MongoDB"},
	{"sqlalchemy", "SQLAlchemy"},
	{"peewee", "Peewee"},
}

// connectionKeywords gate the localhost heuristic: a loopback literal only
// looks like a database host when one of these shares its line.
//
//nolint:gochecknoglobals // configuration data, effectively const
var connectionKeywords = []string{
	"connect",
	"host",
	"databases",
	"createconnection",
	"createpool",
	"mongoclient",
}

// socketPaths are Unix-socket conventions that never resolve in the
// deployed container.
//
//nolint:gochecknoglobals // configuration data, effectively const
var socketPaths = []string{
	"/var/run/postgresql",
	".s.PGSQL",
	"/var/run/mysqld",
	"/tmp/mysql.sock",
}

// Run detects declared database libraries and scans source for
// platform-incompatible connection configuration.
func Run(proj *project.Project, framework types.Framework) ([]types.Issue, []types.PassedCheck) {
	var (
		issues []types.Issue
		passed []types.PassedCheck
	)

	labels := detectLibraries(proj, framework)
	if len(labels) == 0 {
		passed = append(passed, types.PassedCheck{
			ID:       "database-check",
			Category: types.CategoryDatabase,
			Message:  "No database libraries detected",
		})
	}

	scan := scanSources(proj)

	if scan.localhostFile != "" && !scan.hasDatabaseURL {
		issues = append(issues, types.Issue{
			ID:       "database-localhost",
			Severity: types.SeverityError,
			Category: types.CategoryDatabase,
			Message:  "Database connection points at localhost, which does not exist on the platform",
			File:     scan.localhostFile,
			Line:     scan.localhostLine,
			Fix: types.FixSuggestion{
				Description: "Connect through the DATABASE_URL the platform provides",
				Before:      "host: 'localhost'",
				After:       "connectionString: process.env.DATABASE_URL",
			},
		})
	}

	for _, file := range scan.socketFiles {
		issues = append(issues, types.Issue{
			ID:       "database-socket",
			Severity: types.SeverityError,
			Category: types.CategoryDatabase,
			Message:  "Unix-socket database path is unavailable in the deployed container",
			File:     file,
			Fix: types.FixSuggestion{
				Description: "Use the TCP connection string from DATABASE_URL",
			},
		})
	}

	switch {
	case len(labels) > 0 && scan.hasDatabaseURL:
		passed = append(passed, types.PassedCheck{
			ID:       "database-url",
			Category: types.CategoryDatabase,
			Message:  "Database connection uses " + shared.DatabaseURLEnvVar + " (" + strings.Join(labels, ", ") + ")",
		})
	case len(labels) > 0 && scan.localhostFile == "" && !scan.hasDatabaseURL:
		issues = append(issues, types.Issue{
			ID:       "database-url-recommended",
			Severity: types.SeverityInfo,
			Category: types.CategoryDatabase,
			Message:  "Database libraries detected (" + strings.Join(labels, ", ") + ") but no " + shared.DatabaseURLEnvVar + " reference found",
			Fix: types.FixSuggestion{
				Description: "Read the connection string from DATABASE_URL so the platform can inject it",
			},
		})
	}

	return issues, passed
}

// detectLibraries returns deduplicated human labels in declaration map
// order for Node, dependency-list order for Python.
func detectLibraries(proj *project.Project, framework types.Framework) []string {
	var labels []string

	seen := make(map[string]struct{})
	add := func(label string) {
		if _, dup := seen[label]; !dup {
			seen[label] = struct{}{}

			labels = append(labels, label)
		}
	}

	if framework.IsNode() || framework.Kind == types.FrameworkUnknown {
		if manifest, ok := proj.Manifest(); ok {
			for _, lib := range nodeLibraries {
				if _, ok := manifest.Dependency(lib.pkg); ok {
					add(lib.label)
				}
			}
		}
	}

	if framework.IsPython() || framework.Kind == types.FrameworkUnknown {
		if requirements, ok := proj.Requirements(); ok {
			for _, lib := range pythonLibraries {
				if strings.Contains(requirements, lib.fragment) {
					add(lib.label)
				}
			}
		}
	}

	return labels
}

type sourceScan struct {
	localhostFile  string
	localhostLine  int
	socketFiles    []string
	hasDatabaseURL bool
}

func scanSources(proj *project.Project) sourceScan {
	var scan sourceScan

	exts := append(append([]string{}, shared.JSSourceExts...), shared.PySourceExts...)

	for _, file := range proj.SourceFiles(exts...) {
		content, err := proj.Read(file)
		if err != nil {
			continue
		}

		if shared.ReferencesDatabaseURL(content) {
			scan.hasDatabaseURL = true
		}

		if scan.localhostFile == "" {
			if line, ok := localhostConnectionLine(content); ok {
				scan.localhostFile = file
				scan.localhostLine = line
			}
		}

		for _, socket := range socketPaths {
			if strings.Contains(content, socket) {
				scan.socketFiles = append(scan.socketFiles, file)

				break
			}
		}
	}

	return scan
}

// localhostConnectionLine finds the first line where a loopback literal
// co-occurs with a connection keyword.
func localhostConnectionLine(content string) (int, bool) {
	for i, line := range strings.Split(content, "\n") {
		if !shared.HasLocalhostLiteral(line) {
			continue
		}

		lower := strings.ToLower(line)
		for _, keyword := range connectionKeywords {
			if strings.Contains(lower, keyword) {
				return i + 1, true
			}
		}
	}

	return 0, false
}
