package project

import "encoding/json"

// Manifest is the parsed Node package descriptor. Only the fields the checks
// consume are mapped.
type Manifest struct {
	Name            string            `json:"name"`
	Version         string            `json:"version"`
	Main            string            `json:"main"`
	Scripts         map[string]string `json:"scripts"`
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
}

// Manifest parses package.json. Malformed JSON is treated the same as an
// absent manifest: the Node-framework sub-logic of a check simply skips.
func (p *Project) Manifest() (*Manifest, bool) {
	content, err := p.Read(manifestFile)
	if err != nil {
		return nil, false
	}

	var manifest Manifest
	if err := json.Unmarshal([]byte(content), &manifest); err != nil {
		return nil, false
	}

	return &manifest, true
}

// HasManifest reports whether a package manifest exists.
func (p *Project) HasManifest() bool {
	return p.Exists(manifestFile)
}

// Dependency looks a package up across dependencies and devDependencies.
func (m *Manifest) Dependency(name string) (string, bool) {
	if version, ok := m.Dependencies[name]; ok {
		return version, true
	}

	if version, ok := m.DevDependencies[name]; ok {
		return version, true
	}

	return "", false
}

// Script returns the named script, or "" when undeclared.
func (m *Manifest) Script(name string) string {
	return m.Scripts[name]
}
