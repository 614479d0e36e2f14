package host

import (
	"os"
	"path/filepath"
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

func TestRunLocalhostBinding(t *testing.T) {
	proj := fixture(t, map[string]string{
		"server.js": "app.listen(port, 'localhost')\n",
	})

	issues, passed := Run(proj, types.Framework{Kind: types.FrameworkExpress})

	if len(issues) != 1 {
		t.Fatalf("issues = %v, want exactly one", issues)
	}
	if len(passed) != 0 {
		t.Errorf("passed = %v, want none alongside issues", passed)
	}

	issue := issues[0]
	if issue.ID != "host-binding" || issue.Severity != types.SeverityError {
		t.Errorf("issue = %+v, want host-binding error", issue)
	}
}

func TestRunLoopbackAddress(t *testing.T) {
	proj := fixture(t, map[string]string{
		"server.js": "app.listen(port, '127.0.0.1')\n",
	})

	issues, _ := Run(proj, types.Framework{Kind: types.FrameworkExpress})
	if len(issues) != 1 || issues[0].Severity != types.SeverityError {
		t.Fatalf("issues = %v, want one error for loopback literal", issues)
	}
}

func TestRunUnspecifiedBinding(t *testing.T) {
	proj := fixture(t, map[string]string{
		"server.js": "app.listen(port)\n",
	})

	issues, _ := Run(proj, types.Framework{Kind: types.FrameworkExpress})

	if len(issues) != 1 || issues[0].Severity != types.SeverityWarning {
		t.Fatalf("issues = %v, want one warning for unconfirmed binding", issues)
	}
}

func TestRunUniversalBinding(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"single quotes", "app.listen(port, '0.0.0.0')\n"},
		{"double quotes", "app.listen(port, \"0.0.0.0\")\n"},
		{"template literal", "app.listen(port, `0.0.0.0`)\n"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			proj := fixture(t, map[string]string{"server.js": tc.content})

			issues, passed := Run(proj, types.Framework{Kind: types.FrameworkExpress})

			if len(issues) != 0 {
				t.Fatalf("issues = %v, want none", issues)
			}
			if len(passed) != 1 || passed[0].ID != "host-check" {
				t.Errorf("passed = %v, want single host-check", passed)
			}
		})
	}
}

func TestRunFileWithoutListenIgnored(t *testing.T) {
	proj := fixture(t, map[string]string{
		"util.js": "const baseURL = 'http://localhost:3000'\n",
	})

	issues, _ := Run(proj, types.Framework{Kind: types.FrameworkExpress})
	if len(issues) != 0 {
		t.Errorf("issues = %v, localhost outside a listen file must not fire", issues)
	}
}

func TestRunPythonBinding(t *testing.T) {
	cases := []struct {
		name     string
		content  string
		issues   int
		severity types.Severity
	}{
		{"localhost run", "app.run(host=\"localhost\", port=5000)\n", 1, types.SeverityError},
		{"unspecified run", "app.run(port=5000)\n", 1, types.SeverityWarning},
		{"universal run", "app.run(host=\"0.0.0.0\", port=5000)\n", 0, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			proj := fixture(t, map[string]string{"app.py": tc.content})

			issues, _ := Run(proj, types.Framework{Kind: types.FrameworkFlask})

			if len(issues) != tc.issues {
				t.Fatalf("issues = %v, want %d", issues, tc.issues)
			}
			if tc.issues == 1 && issues[0].Severity != tc.severity {
				t.Errorf("Severity = %q, want %q", issues[0].Severity, tc.severity)
			}
		})
	}
}

func TestRunNextHostFlag(t *testing.T) {
	cases := []struct {
		name   string
		script string
		want   int
	}{
		{"no hostname flag", "next start -p $PORT", 1},
		{"short flag", "next start -H 0.0.0.0 -p $PORT", 0},
		{"long flag", "next start --hostname 0.0.0.0 -p $PORT", 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			proj := fixture(t, map[string]string{
				"package.json": `{"dependencies": {"next": "14.0.0"}, "scripts": {"start": "` + tc.script + `"}}`,
			})

			issues, _ := Run(proj, types.Framework{Kind: types.FrameworkNextJS})

			if len(issues) != tc.want {
				t.Fatalf("issues = %v, want %d", issues, tc.want)
			}
			if tc.want == 1 && issues[0].ID != "nextjs-host-flag" {
				t.Errorf("ID = %q, want nextjs-host-flag", issues[0].ID)
			}
		})
	}
}
