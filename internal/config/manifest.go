// Package config loads the package manifest (ace.toml) an Ace package
// root carries: its name, source roots, and dependency list. File
// discovery and manifest loading are driver/CLI concerns, kept separate
// from the core compilation pipeline.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

const manifestFileName = "ace.toml"

// Manifest is the decoded contents of an ace.toml package manifest.
type Manifest struct {
	Package PackageSection `toml:"package"`
	Run     RunSection     `toml:"run"`
	Deps    map[string]Dependency `toml:"deps"`
}

// PackageSection is the `[package]` table.
type PackageSection struct {
	Name    string   `toml:"name"`
	Sources []string `toml:"sources"`
}

// RunSection is the `[run]` table, naming an entry file. It is parsed and
// kept on the manifest; no acec subcommand reads it (`acec build` compiles
// every discovered source, and there is no `run` subcommand).
type RunSection struct {
	Main string `toml:"main"`
}

// Dependency is one `[deps.<name>]` entry.
type Dependency struct {
	Source string `toml:"source"`
	URL    string `toml:"url"`
	Rev    string `toml:"rev"`
}

// FindManifest walks upward from startDir looking for ace.toml.
func FindManifest(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, manifestFileName)
		if _, statErr := os.Stat(candidate); statErr == nil {
			return candidate, true, nil
		} else if !errors.Is(statErr, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, statErr)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load decodes the manifest at path and validates the fields every
// subcommand depends on being present.
func Load(path string) (*Manifest, error) {
	var m Manifest
	meta, err := toml.DecodeFile(path, &m)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("package") {
		return nil, fmt.Errorf("%s: missing [package]", path)
	}
	if !meta.IsDefined("package", "name") || strings.TrimSpace(m.Package.Name) == "" {
		return nil, fmt.Errorf("%s: missing [package].name", path)
	}
	for name, dep := range m.Deps {
		if strings.TrimSpace(dep.Source) == "" {
			return nil, fmt.Errorf("%s: dependency %q missing source", path, name)
		}
		if strings.TrimSpace(dep.URL) == "" {
			return nil, fmt.Errorf("%s: dependency %q missing url", path, name)
		}
	}
	return &m, nil
}

// SourceRoots returns the directories the manifest declares as source
// roots, relative to the manifest's own directory, defaulting to the
// manifest's directory itself when [package].sources is empty.
func (m *Manifest) SourceRoots(manifestPath string) []string {
	root := filepath.Dir(manifestPath)
	if len(m.Package.Sources) == 0 {
		return []string{root}
	}
	out := make([]string, len(m.Package.Sources))
	for i, s := range m.Package.Sources {
		out[i] = filepath.Join(root, filepath.FromSlash(s))
	}
	return out
}

// CollectSources walks every source root collecting .ace files for a
// package compile.
func CollectSources(roots []string) ([]string, error) {
	var out []string
	for _, root := range roots {
		err := filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			if strings.HasSuffix(p, ".ace") {
				out = append(out, p)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}
