package detect

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

func TestDetectPrecedence(t *testing.T) {
	cases := []struct {
		name  string
		files map[string]string
		want  types.FrameworkKind
	}{
		{
			name: "next dependency wins over express",
			files: map[string]string{
				"package.json": `{"dependencies": {"next": "14.0.0", "express": "^4.18.0"}}`,
			},
			want: types.FrameworkNextJS,
		},
		{
			name: "next config without dependency",
			files: map[string]string{
				"package.json":   `{"dependencies": {"express": "^4.18.0"}}`,
				"next.config.js": "module.exports = {}",
			},
			want: types.FrameworkNextJS,
		},
		{
			name: "nest wins over express",
			files: map[string]string{
				"package.json": `{"dependencies": {"@nestjs/core": "^10.0.0", "express": "^4.18.0"}}`,
			},
			want: types.FrameworkNestJS,
		},
		{
			name: "plain express",
			files: map[string]string{
				"package.json": `{"dependencies": {"express": "^4.18.0"}}`,
			},
			want: types.FrameworkExpress,
		},
		{
			name: "node manifest wins over requirements",
			files: map[string]string{
				"package.json":     `{"dependencies": {"express": "^4.18.0"}}`,
				"requirements.txt": "Django==5.0\n",
			},
			want: types.FrameworkExpress,
		},
		{
			name: "django before flask",
			files: map[string]string{
				"requirements.txt": "Django==5.0\nFlask==3.0\n",
			},
			want: types.FrameworkDjango,
		},
		{
			name: "flask before fastapi",
			files: map[string]string{
				"requirements.txt": "flask==3.0\nfastapi==0.110\n",
			},
			want: types.FrameworkFlask,
		},
		{
			name: "fastapi",
			files: map[string]string{
				"requirements.txt": "fastapi==0.110\nuvicorn==0.29\n",
			},
			want: types.FrameworkFastAPI,
		},
		{
			name: "manifest without known framework falls through to python",
			files: map[string]string{
				"package.json":     `{"dependencies": {"lodash": "^4.17.0"}}`,
				"requirements.txt": "flask==3.0\n",
			},
			want: types.FrameworkFlask,
		},
		{
			name: "malformed manifest falls through to python",
			files: map[string]string{
				"package.json":     `{"dependencies": {`,
				"requirements.txt": "Django==5.0\n",
			},
			want: types.FrameworkDjango,
		},
		{
			name:  "empty project",
			files: map[string]string{},
			want:  types.FrameworkUnknown,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			framework := Detect(fixture(t, tc.files))
			if framework.Kind != tc.want {
				t.Errorf("Detect().Kind = %q, want %q", framework.Kind, tc.want)
			}
		})
	}
}

func TestDetectExpressEntryPoint(t *testing.T) {
	cases := []struct {
		name  string
		files map[string]string
		want  string
	}{
		{
			name: "conventional candidate",
			files: map[string]string{
				"package.json": `{"dependencies": {"express": "^4.18.0"}}`,
				"server.js":    "x",
				"src/index.js": "x",
			},
			want: "server.js",
		},
		{
			name: "manifest main when no candidate exists",
			files: map[string]string{
				"package.json": `{"main": "lib/boot.js", "dependencies": {"express": "^4.18.0"}}`,
				"lib/boot.js":  "x",
			},
			want: "lib/boot.js",
		},
		{
			name: "named fallback search",
			files: map[string]string{
				"package.json":  `{"dependencies": {"express": "^4.18.0"}}`,
				"lib/server.js": "x",
			},
			want: "lib/server.js",
		},
		{
			name: "no entry found",
			files: map[string]string{
				"package.json": `{"dependencies": {"express": "^4.18.0"}}`,
			},
			want: "",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			framework := Detect(fixture(t, tc.files))
			if framework.EntryPoint != tc.want {
				t.Errorf("EntryPoint = %q, want %q", framework.EntryPoint, tc.want)
			}
		})
	}
}

func TestDetectDjangoEntryPoint(t *testing.T) {
	framework := Detect(fixture(t, map[string]string{
		"requirements.txt": "Django==5.0\n",
		"manage.py":        "#!/usr/bin/env python\n",
	}))

	if framework.EntryPoint != "manage.py" {
		t.Errorf("EntryPoint = %q, want manage.py", framework.EntryPoint)
	}
}

func TestDetectVersionCarriedFromManifest(t *testing.T) {
	framework := Detect(fixture(t, map[string]string{
		"package.json": `{"dependencies": {"express": "^4.18.0"}}`,
	}))

	if framework.Version != "^4.18.0" {
		t.Errorf("Version = %q, want ^4.18.0", framework.Version)
	}
}
