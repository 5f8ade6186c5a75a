package orchestrator

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"testweaver/pkg/logging"
)

// suiteFile is the on-disk document shape: one file holds many suites.
type suiteFile struct {
	Suites []Suite `yaml:"suites"`
}

// LoadSuites reads suite definitions from a YAML file or from every
// .yaml/.yml file under a directory. Every loaded suite is validated;
// an invalid suite fails the whole load so broken definitions cannot
// silently drop out of a run.
func LoadSuites(path string) ([]Suite, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to access suite path %s: %w", path, err)
	}

	var files []string
	if info.IsDir() {
		err := filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			ext := strings.ToLower(filepath.Ext(p))
			if ext == ".yaml" || ext == ".yml" {
				files = append(files, p)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to walk suite directory %s: %w", path, err)
		}
	} else {
		files = []string{path}
	}

	var suites []Suite
	seen := make(map[string]string)
	for _, file := range files {
		loaded, err := loadSuiteFile(file)
		if err != nil {
			return nil, err
		}
		for _, suite := range loaded {
			if previous, dup := seen[suite.Name]; dup {
				return nil, fmt.Errorf("duplicate suite name %q in %s (first defined in %s)", suite.Name, file, previous)
			}
			seen[suite.Name] = file
			suites = append(suites, suite)
		}
	}

	logging.Debug("Orchestrator", "Loaded %d suite(s) from %s", len(suites), path)
	return suites, nil
}

func loadSuiteFile(path string) ([]Suite, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read suite file %s: %w", path, err)
	}

	var doc suiteFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse suite file %s: %w", path, err)
	}

	for _, suite := range doc.Suites {
		if err := suite.Validate(); err != nil {
			return nil, fmt.Errorf("invalid suite in %s: %w", path, err)
		}
	}
	return doc.Suites, nil
}

// FilterSuites keeps suites matching the selection. An empty name list
// and empty tag keep everything; names and tag combine as AND.
func FilterSuites(suites []Suite, names []string, tag string) []Suite {
	wanted := make(map[string]bool, len(names))
	for _, name := range names {
		wanted[name] = true
	}

	var filtered []Suite
	for _, suite := range suites {
		if len(wanted) > 0 && !wanted[suite.Name] {
			continue
		}
		if tag != "" && !suite.HasTag(tag) {
			continue
		}
		filtered = append(filtered, suite)
	}
	return filtered
}
