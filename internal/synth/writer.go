package synth

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"testweaver/internal/trace"
	"testweaver/pkg/logging"
)

// Generator writes rendered specs and their project boilerplate into an
// output directory laid out as a runnable Playwright project.
type Generator struct {
	// OutputDir is the project root the generator writes under
	OutputDir string
}

// NewGenerator creates a generator rooted at dir.
func NewGenerator(dir string) *Generator {
	return &Generator{OutputDir: dir}
}

// Output lists the files a Write call touched.
type Output struct {
	// SpecPath is the generated spec file, always written
	SpecPath string
	// Created lists boilerplate files created on this call; files that
	// already existed are left alone and not listed
	Created []string
}

// Write renders the trace and writes the spec plus any missing project
// boilerplate. Spec files are overwritten on every call; boilerplate
// files are only created when absent so local edits survive regeneration.
func (g *Generator) Write(tr *trace.Trace, opts RenderOptions) (*Output, error) {
	script, err := Render(tr, opts)
	if err != nil {
		return nil, err
	}

	name := opts.TestName
	if name == "" {
		name = tr.TicketKey
	}
	if name == "" {
		name = tr.RunID
	}

	testsDir := filepath.Join(g.OutputDir, "tests")
	if err := os.MkdirAll(testsDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create tests directory: %w", err)
	}

	specPath := filepath.Join(testsDir, slugify(name)+".spec.ts")
	if err := os.WriteFile(specPath, []byte(script), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write spec: %w", err)
	}

	output := &Output{SpecPath: specPath}
	for file, content := range boilerplate {
		path := filepath.Join(g.OutputDir, file)
		created, err := writeIfAbsent(path, content)
		if err != nil {
			return nil, err
		}
		if created {
			output.Created = append(output.Created, path)
		}
	}

	sort.Strings(output.Created)
	logging.Info("Synth", "Wrote %s (%d boilerplate file(s) created)", specPath, len(output.Created))
	return output, nil
}

// writeIfAbsent creates path with content unless it already exists.
func writeIfAbsent(path string, content string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return false, fmt.Errorf("failed to write %s: %w", path, err)
	}
	return true, nil
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// slugify turns a test name into a safe file stem.
func slugify(name string) string {
	slug := slugPattern.ReplaceAllString(strings.ToLower(name), "_")
	slug = strings.Trim(slug, "_")
	if slug == "" {
		slug = "generated"
	}
	return slug
}

// boilerplate is the minimal runnable Playwright project surrounding the
// generated specs.
var boilerplate = map[string]string{
	"playwright.config.ts": `import { defineConfig } from '@playwright/test';

export default defineConfig({
  testDir: './tests',
  timeout: 60000,
  expect: {
    timeout: 10000,
  },
  use: {
    headless: true,
    screenshot: 'only-on-failure',
  },
  reporter: [['html', { open: 'never' }]],
});
`,
	"package.json": `{
  "name": "generated-playwright-tests",
  "version": "1.0.0",
  "private": true,
  "scripts": {
    "test": "playwright test",
    "test:headed": "playwright test --headed",
    "report": "playwright show-report"
  },
  "devDependencies": {
    "@playwright/test": "^1.44.0"
  }
}
`,
	"README.md": `# Generated Playwright Tests

Specs in tests/ are generated from executed ticket runs. Edit the config
or package files freely; regeneration only rewrites the spec files.

## Running

    npm install
    npx playwright install
    npm test
`,
}
