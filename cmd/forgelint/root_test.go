package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeProfile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func runLint(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestForgelint_CleanProfile(t *testing.T) {
	t.Parallel()

	path := writeProfile(t, "clean.yaml", `
bindings:
  - abstract: pkg.Repo
    concrete: "*pkg.SqlRepo"
`)
	out, err := runLint(t, path)
	require.NoError(t, err)
	assert.Contains(t, out, "ok")
}

func TestForgelint_ReportsIssues(t *testing.T) {
	t.Parallel()

	path := writeProfile(t, "dirty.yaml", `
bindings:
  - abstract: pkg.Repo
    concrete: ""
`)
	out, err := runLint(t, path)
	require.Error(t, err)
	assert.Contains(t, out, "bindings[0].concrete: empty")
}

func TestForgelint_ParseErrorReported(t *testing.T) {
	t.Parallel()

	path := writeProfile(t, "broken.yaml", "bindings: {not: [valid")
	_, err := runLint(t, path)
	require.Error(t, err)
}

func TestForgelint_JSONOutput(t *testing.T) {
	t.Parallel()

	path := writeProfile(t, "clean.yaml", `
bindings:
  - abstract: pkg.Repo
    concrete: "*pkg.SqlRepo"
`)
	out, err := runLint(t, "--format", "json", path)
	require.NoError(t, err)

	var reports []fileReport
	require.NoError(t, json.Unmarshal([]byte(out), &reports))
	require.Len(t, reports, 1)
	assert.Empty(t, reports[0].Issues)
}

func TestForgelint_InvalidFormatRejected(t *testing.T) {
	t.Parallel()

	_, err := runLint(t, "--format", "xml", "whatever.yaml")
	require.Error(t, err)
}

func TestForgelint_RequiresArgs(t *testing.T) {
	t.Parallel()

	_, err := runLint(t)
	require.Error(t, err)
}
