// Package project is the file access layer for a scanned project tree.
// All reads are best-effort: a missing or unreadable file is reported as
// absence, never as a scan failure. The file system is treated as a
// read-only oracle for the duration of one scan.
package project

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/farcloser/primordium/fault"
)

const (
	// DefaultMaxFiles bounds how many files a single enumeration returns.
	// True positives beyond the cap are silently missed; this is a
	// deliberate precision/performance trade-off on large trees.
	DefaultMaxFiles = 30

	// maxDepth bounds recursion below the project root.
	maxDepth = 6

	manifestFile     = "package.json"
	requirementsFile = "requirements.txt"
	procFile         = "Procfile"
)

// ignoredDirs are build, dependency, and virtual-env directories that never
// contain deployable source worth scanning.
//
//nolint:gochecknoglobals // configuration data, effectively const
var ignoredDirs = map[string]struct{}{
	"node_modules": {},
	".git":         {},
	"dist":         {},
	"build":        {},
	".next":        {},
	"out":          {},
	"coverage":     {},
	"vendor":       {},
	"venv":         {},
	".venv":        {},
	"env":          {},
	"__pycache__":  {},
	".tox":         {},
	"staticfiles":  {},
	"migrations":   {},
}

// Options configures project enumeration.
type Options struct {
	MaxFiles   int      // per-enumeration file cap (default DefaultMaxFiles)
	IgnoreDirs []string // extra directory names to skip
}

// DefaultOptions returns the standard enumeration limits.
func DefaultOptions() Options {
	return Options{MaxFiles: DefaultMaxFiles}
}

// Project is a read-only handle on a project root.
type Project struct {
	root     string
	maxFiles int
	ignore   map[string]struct{}
}

// New opens a project rooted at the given directory.
func New(root string, opts Options) *Project {
	if opts.MaxFiles <= 0 {
		opts.MaxFiles = DefaultMaxFiles
	}

	ignore := make(map[string]struct{}, len(ignoredDirs)+len(opts.IgnoreDirs))
	for name := range ignoredDirs {
		ignore[name] = struct{}{}
	}

	for _, name := range opts.IgnoreDirs {
		if name = strings.TrimSpace(name); name != "" {
			ignore[name] = struct{}{}
		}
	}

	return &Project{
		root:     root,
		maxFiles: opts.MaxFiles,
		ignore:   ignore,
	}
}

// Root returns the project root path.
func (p *Project) Root() string {
	return p.root
}

// Exists reports whether a file exists at the given slash-separated
// project-relative path.
func (p *Project) Exists(rel string) bool {
	info, err := os.Stat(filepath.Join(p.root, filepath.FromSlash(rel)))

	return err == nil && !info.IsDir()
}

// Read returns the content of a project-relative file.
func (p *Project) Read(rel string) (string, error) {
	data, err := os.ReadFile(filepath.Join(p.root, filepath.FromSlash(rel))) //nolint:gosec // scanning user-specified project trees is the point
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", fault.ErrReadFailure, rel, err)
	}

	return string(data), nil
}

// SourceFiles enumerates project-relative paths of files carrying one of the
// given extensions (with leading dot), in lexical walk order, skipping
// ignored and overly deep directories, capped at MaxFiles. Traversal errors
// are swallowed; the caller gets whatever was collected up to that point.
func (p *Project) SourceFiles(exts ...string) []string {
	wanted := make(map[string]struct{}, len(exts))
	for _, ext := range exts {
		wanted[ext] = struct{}{}
	}

	var files []string

	_ = filepath.WalkDir(p.root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			if entry != nil && entry.IsDir() {
				return filepath.SkipDir
			}

			return nil //nolint:nilerr // partial enumeration is acceptable
		}

		rel, relErr := filepath.Rel(p.root, path)
		if relErr != nil {
			return nil //nolint:nilerr // partial enumeration is acceptable
		}

		if entry.IsDir() {
			if rel == "." {
				return nil
			}

			if _, skip := p.ignore[entry.Name()]; skip {
				return filepath.SkipDir
			}

			if strings.Count(rel, string(filepath.Separator)) >= maxDepth {
				return filepath.SkipDir
			}

			return nil
		}

		if _, ok := wanted[filepath.Ext(entry.Name())]; !ok {
			return nil
		}

		files = append(files, filepath.ToSlash(rel))
		if len(files) >= p.maxFiles {
			return filepath.SkipAll
		}

		return nil
	})

	return files
}

// FindNamed locates the first file (lexical walk order) whose base name
// without extension is one of names and whose extension is one of exts.
// Used as the last-resort entry-point and settings lookup.
func (p *Project) FindNamed(names []string, exts []string) (string, bool) {
	nameSet := make(map[string]struct{}, len(names))
	for _, name := range names {
		nameSet[name] = struct{}{}
	}

	for _, rel := range p.SourceFiles(exts...) {
		base := filepath.Base(rel)
		stem := strings.TrimSuffix(base, filepath.Ext(base))

		if _, ok := nameSet[stem]; ok {
			return rel, true
		}
	}

	return "", false
}

// Requirements returns the Python dependency list, lowercased for
// case-insensitive substring matching. The second return is false when the
// file is absent or unreadable.
func (p *Project) Requirements() (string, bool) {
	content, err := p.Read(requirementsFile)
	if err != nil {
		return "", false
	}

	return strings.ToLower(content), true
}

// HasRequirements reports whether a Python dependency list exists.
func (p *Project) HasRequirements() bool {
	return p.Exists(requirementsFile)
}

// Procfile returns the process-declaration file content, if present.
func (p *Project) Procfile() (string, bool) {
	content, err := p.Read(procFile)
	if err != nil {
		return "", false
	}

	return content, true
}

// HasProcfile reports whether a process-declaration file exists.
func (p *Project) HasProcfile() bool {
	return p.Exists(procFile)
}

// LineNumber converts a byte offset into content to a 1-based line number.
func LineNumber(content string, offset int) int {
	if offset > len(content) {
		offset = len(content)
	}

	return strings.Count(content[:offset], "\n") + 1
}
