package validation_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/folkgraph/validation"
)

func writeScript(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "fake-shacl")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o755))
	return path
}

func writeTurtle(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("@prefix ex: <http://example.org/> .\n"), 0o644))
	return path
}

func reportOpts(dir string) validation.Options {
	return validation.Options{
		ReportTTL:  filepath.Join(dir, "report.ttl"),
		ReportText: filepath.Join(dir, "report.txt"),
	}
}

func TestGateConforms(t *testing.T) {
	dir := t.TempDir()
	data := writeTurtle(t, dir, "corpus.ttl")
	shapes := writeTurtle(t, dir, "shapes.ttl")
	engine := writeScript(t, dir, "#!/bin/sh\necho '@prefix sh: <http://www.w3.org/ns/shacl#> .'\nexit 0\n")

	g := validation.NewGate([]string{engine}, nil)
	out, err := g.Run(context.Background(), data, shapes, reportOpts(filepath.Join(dir, "reports")))
	require.NoError(t, err)

	assert.True(t, out.Conforms)
	assert.Equal(t, validation.ExitConforms, out.ExitCode)

	ttl, err := os.ReadFile(out.ReportTTL)
	require.NoError(t, err)
	assert.Contains(t, string(ttl), "ns/shacl#")

	txt, err := os.ReadFile(out.ReportText)
	require.NoError(t, err)
	s := string(txt)
	assert.True(t, strings.HasPrefix(s, "Conforms: true\n"))
	assert.Contains(t, s, "Data: "+data)
	assert.Contains(t, s, "Shapes: "+shapes)
	assert.Contains(t, s, "Engine: "+engine)
	assert.Contains(t, s, "ns/shacl#")
}

func TestGateViolations(t *testing.T) {
	dir := t.TempDir()
	data := writeTurtle(t, dir, "corpus.ttl")
	shapes := writeTurtle(t, dir, "shapes.ttl")
	engine := writeScript(t, dir, "#!/bin/sh\necho 'sh:conforms false'\nexit 1\n")

	g := validation.NewGate([]string{engine}, nil)
	out, err := g.Run(context.Background(), data, shapes, reportOpts(dir))
	require.NoError(t, err)

	assert.False(t, out.Conforms)
	assert.Equal(t, validation.ExitViolations, out.ExitCode)

	txt, err := os.ReadFile(out.ReportText)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(txt), "Conforms: false\n"))
}

func TestGatePassesEngineArgv(t *testing.T) {
	dir := t.TempDir()
	data := writeTurtle(t, dir, "corpus.ttl")
	shapes := writeTurtle(t, dir, "shapes.ttl")
	engine := writeScript(t, dir, `echo "$@"`+"\nexit 0\n")

	// A multi-token engine keeps its leading arguments ahead of the
	// format flags.
	g := validation.NewGate([]string{"/bin/sh", engine}, nil)
	out, err := g.Run(context.Background(), data, shapes, reportOpts(dir))
	require.NoError(t, err)

	ttl, err := os.ReadFile(out.ReportTTL)
	require.NoError(t, err)
	want := strings.Join([]string{"-s", shapes, "-sf", "turtle", "-df", "turtle", "-f", "turtle", data}, " ")
	assert.Equal(t, want, strings.TrimSpace(string(ttl)))
}

func TestGateEngineFailure(t *testing.T) {
	dir := t.TempDir()
	data := writeTurtle(t, dir, "corpus.ttl")
	shapes := writeTurtle(t, dir, "shapes.ttl")
	engine := writeScript(t, dir, "#!/bin/sh\necho 'shapes graph failed to parse' >&2\nexit 2\n")

	g := validation.NewGate([]string{engine}, nil)
	out, err := g.Run(context.Background(), data, shapes, reportOpts(dir))
	require.Error(t, err)

	assert.Nil(t, out)
	assert.ErrorIs(t, err, validation.ErrEngine)
	assert.ErrorContains(t, err, "shapes graph failed to parse")
	assert.NoFileExists(t, filepath.Join(dir, "report.ttl"))
}

func TestGateMissingEngineBinary(t *testing.T) {
	dir := t.TempDir()
	data := writeTurtle(t, dir, "corpus.ttl")
	shapes := writeTurtle(t, dir, "shapes.ttl")

	g := validation.NewGate([]string{filepath.Join(dir, "no-such-engine")}, nil)
	_, err := g.Run(context.Background(), data, shapes, reportOpts(dir))
	assert.ErrorIs(t, err, validation.ErrEngine)
}

func TestGateMissingInputs(t *testing.T) {
	dir := t.TempDir()
	shapes := writeTurtle(t, dir, "shapes.ttl")
	engine := writeScript(t, dir, "#!/bin/sh\nexit 0\n")

	g := validation.NewGate([]string{engine}, nil)
	_, err := g.Run(context.Background(), filepath.Join(dir, "missing.ttl"), shapes, reportOpts(dir))
	assert.ErrorContains(t, err, "data graph")

	data := writeTurtle(t, dir, "corpus.ttl")
	_, err = g.Run(context.Background(), data, filepath.Join(dir, "missing-shapes.ttl"), reportOpts(dir))
	assert.ErrorContains(t, err, "shapes graph")
}
