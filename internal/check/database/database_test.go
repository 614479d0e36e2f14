package database

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"railcheck/internal/project"
	"railcheck/internal/types"
)

func fixture(t *testing.T, files map[string]string) *project.Project {
	t.Helper()

	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	return project.New(root, project.DefaultOptions())
}

func TestRunNoLibraries(t *testing.T) {
	proj := fixture(t, map[string]string{
		"package.json": `{"dependencies": {"express": "^4.18.0"}}`,
		"server.js":    "app.listen(process.env.PORT)\n",
	})

	issues, passed := Run(proj, types.Framework{Kind: types.FrameworkExpress})

	if len(issues) != 0 {
		t.Fatalf("issues = %v, want none", issues)
	}
	if len(passed) != 1 || passed[0].ID != "database-check" {
		t.Errorf("passed = %v, want single database-check", passed)
	}
}

func TestRunLocalhostConnection(t *testing.T) {
	proj := fixture(t, map[string]string{
		"package.json": `{"dependencies": {"pg": "^8.11.0"}}`,
		"db.js":        "const pool = new Pool({\n  host: 'localhost',\n  database: 'app',\n})\n",
	})

	issues, _ := Run(proj, types.Framework{Kind: types.FrameworkExpress})

	if len(issues) != 1 {
		t.Fatalf("issues = %v, want exactly one", issues)
	}

	issue := issues[0]
	if issue.ID != "database-localhost" || issue.Severity != types.SeverityError {
		t.Errorf("issue = %+v, want database-localhost error", issue)
	}
	if issue.File != "db.js" || issue.Line != 2 {
		t.Errorf("location = %s:%d, want db.js:2", issue.File, issue.Line)
	}
}

func TestRunDatabaseURLSuppressesLocalhost(t *testing.T) {
	proj := fixture(t, map[string]string{
		"package.json": `{"dependencies": {"pg": "^8.11.0"}}`,
		"db.js": "const pool = new Pool({\n" +
			"  connectionString: process.env.DATABASE_URL || 'postgres://localhost/app',\n" +
			"})\n",
	})

	issues, passed := Run(proj, types.Framework{Kind: types.FrameworkExpress})

	if len(issues) != 0 {
		t.Fatalf("issues = %v, DATABASE_URL fallback must clear the localhost finding", issues)
	}

	if len(passed) != 1 || passed[0].ID != "database-url" {
		t.Fatalf("passed = %v, want single database-url", passed)
	}
	if !strings.Contains(passed[0].Message, "PostgreSQL") {
		t.Errorf("Message = %q, want PostgreSQL label", passed[0].Message)
	}
}

func TestRunSocketPath(t *testing.T) {
	proj := fixture(t, map[string]string{
		"package.json": `{"dependencies": {"mysql2": "^3.9.0"}}`,
		"db.js":        "const conn = mysql.createConnection({ socketPath: '/tmp/mysql.sock' })\n",
	})

	issues, _ := Run(proj, types.Framework{Kind: types.FrameworkExpress})

	var socket bool
	for _, issue := range issues {
		if issue.ID == "database-socket" && issue.File == "db.js" {
			socket = true
		}
	}
	if !socket {
		t.Fatalf("issues = %v, want database-socket for db.js", issues)
	}
}

func TestRunURLRecommended(t *testing.T) {
	proj := fixture(t, map[string]string{
		"requirements.txt": "flask==3.0\nsqlalchemy==2.0\npsycopg[binary]==3.1\n",
		"app.py":           "from flask import Flask\napp = Flask(__name__)\n",
	})

	issues, _ := Run(proj, types.Framework{Kind: types.FrameworkFlask})

	if len(issues) != 1 {
		t.Fatalf("issues = %v, want exactly one", issues)
	}

	issue := issues[0]
	if issue.ID != "database-url-recommended" || issue.Severity != types.SeverityInfo {
		t.Errorf("issue = %+v, want database-url-recommended info", issue)
	}

	// Label order follows the dependency table, not the requirements file.
	if !strings.Contains(issue.Message, "PostgreSQL, SQLAlchemy") {
		t.Errorf("Message = %q, want PostgreSQL, SQLAlchemy labels", issue.Message)
	}
}

func TestRunRecommendationSuppressedByLocalhostFinding(t *testing.T) {
	proj := fixture(t, map[string]string{
		"package.json": `{"dependencies": {"mongoose": "^8.0.0"}}`,
		"db.js":        "mongoose.connect('mongodb://localhost:27017/app')\n",
	})

	issues, _ := Run(proj, types.Framework{Kind: types.FrameworkExpress})

	if len(issues) != 1 || issues[0].ID != "database-localhost" {
		t.Fatalf("issues = %v, want only the localhost error", issues)
	}
}

func TestRunLibraryDeduplication(t *testing.T) {
	proj := fixture(t, map[string]string{
		"package.json": `{"dependencies": {"prisma": "^5.0.0", "@prisma/client": "^5.0.0"}}`,
		"db.js":        "const url = process.env.DATABASE_URL\n",
	})

	_, passed := Run(proj, types.Framework{Kind: types.FrameworkExpress})

	if len(passed) != 1 {
		t.Fatalf("passed = %v, want single database-url", passed)
	}
	if strings.Count(passed[0].Message, "Prisma") != 1 {
		t.Errorf("Message = %q, want Prisma listed once", passed[0].Message)
	}
}

func TestRunLoopbackWithoutKeywordIgnored(t *testing.T) {
	proj := fixture(t, map[string]string{
		"package.json": `{"dependencies": {"pg": "^8.11.0"}}`,
		"probe.js":     "const url = 'http://127.0.0.1:3000/health'\n",
	})

	issues, _ := Run(proj, types.Framework{Kind: types.FrameworkExpress})

	// A loopback literal on a line without connection keywords is not a
	// database finding; only the missing-URL recommendation remains.
	if len(issues) != 1 || issues[0].ID != "database-url-recommended" {
		t.Errorf("issues = %v, want only database-url-recommended", issues)
	}
}
