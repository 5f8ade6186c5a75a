package synth

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteCreatesSpecAndBoilerplate(t *testing.T) {
	dir := t.TempDir()
	generator := NewGenerator(dir)

	output, err := generator.Write(sampleTrace(), RenderOptions{Now: fixedClock})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "tests", "proj_7.spec.ts"), output.SpecPath)
	assert.FileExists(t, output.SpecPath)
	assert.FileExists(t, filepath.Join(dir, "playwright.config.ts"))
	assert.FileExists(t, filepath.Join(dir, "package.json"))
	assert.FileExists(t, filepath.Join(dir, "README.md"))
	assert.Len(t, output.Created, 3)
}

func TestWritePreservesExistingBoilerplate(t *testing.T) {
	dir := t.TempDir()
	generator := NewGenerator(dir)

	custom := []byte("// locally customized config\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "playwright.config.ts"), custom, 0o644))

	output, err := generator.Write(sampleTrace(), RenderOptions{Now: fixedClock})
	require.NoError(t, err)

	content, err := os.ReadFile(filepath.Join(dir, "playwright.config.ts"))
	require.NoError(t, err)
	assert.Equal(t, custom, content)
	assert.Len(t, output.Created, 2)
}

func TestWriteOverwritesSpec(t *testing.T) {
	dir := t.TempDir()
	generator := NewGenerator(dir)

	_, err := generator.Write(sampleTrace(), RenderOptions{Now: fixedClock})
	require.NoError(t, err)

	// second run of the same ticket replaces the spec in place
	output, err := generator.Write(sampleTrace(), RenderOptions{Now: fixedClock})
	require.NoError(t, err)
	assert.Empty(t, output.Created)

	content, err := os.ReadFile(output.SpecPath)
	require.NoError(t, err)
	assert.Contains(t, string(content), "await page.goto('https://example.com/login', { waitUntil: 'networkidle' });")
}
