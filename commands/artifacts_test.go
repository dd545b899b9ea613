package commands

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/folkgraph/config"
	"github.com/c360studio/folkgraph/export"
	"github.com/c360studio/folkgraph/graph"
	"github.com/c360studio/folkgraph/vocabulary/folk"
)

func testApp() *app {
	return &app{
		cfg:    config.DefaultConfig(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestResolve(t *testing.T) {
	assert.Equal(t, "a", resolve("a", "b"))
	assert.Equal(t, "b", resolve("", "b"))
	assert.Equal(t, "", resolve("", ""))
}

func TestRequireInputMessage(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "absent.csv")
	err := requireInput("canonical table", missing,
		"data/processed/corpus_canonical.csv", "--csv or env CORPUS_CANONICAL_CSV")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "canonical table not found at")
	assert.Contains(t, err.Error(), "data/processed/corpus_canonical.csv")
	assert.Contains(t, err.Error(), "--csv or env CORPUS_CANONICAL_CSV")
}

func TestRequireInputExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "t.csv")
	require.NoError(t, os.WriteFile(path, []byte("a\n"), 0644))
	assert.NoError(t, requireInput("canonical table", path, "def", "--csv"))
}

func TestWriteArtifactsTwin(t *testing.T) {
	dir := t.TempDir()
	a := testApp()

	g := graph.New()
	v := graph.IRI("https://folkgraph.c360.dev/data/rdf/volume/ERA_Vene_5")
	g.Add(v, folk.PredType, graph.IRI(folk.ClassBibliographicResource))
	g.Add(v, folk.PredIdentifier, graph.PlainLiteral("ERA_Vene_5"))

	ttl := filepath.Join(dir, "out", "volumes.ttl")
	require.NoError(t, a.writeArtifacts(g, ttl))

	f, err := os.Open(ttl)
	require.NoError(t, err)
	defer f.Close()
	parsed, err := export.Parse(f)
	require.NoError(t, err)
	assert.True(t, parsed.Equal(g), "Turtle artifact should round-trip")

	twin, err := os.Open(filepath.Join(dir, "out", "volumes.jsonld"))
	require.NoError(t, err)
	defer twin.Close()
	fromJSON, err := export.ParseJSONLD(twin)
	require.NoError(t, err)
	assert.True(t, fromJSON.Equal(g), "JSON-LD twin should carry the same triples")
}

func TestWriteArtifactsExternalContext(t *testing.T) {
	dir := t.TempDir()
	ctxPath := filepath.Join(dir, "context.jsonld")
	require.NoError(t, os.WriteFile(ctxPath,
		[]byte(`{"@context": {"dcterms": "http://purl.org/dc/terms/"}}`), 0644))

	a := testApp()
	a.cfg.Paths.Context = ctxPath

	g := graph.New()
	g.Add(graph.IRI("https://folkgraph.c360.dev/data/rdf/volume/V1"),
		folk.PredIdentifier, graph.PlainLiteral("V1"))

	ttl := filepath.Join(dir, "volumes.ttl")
	require.NoError(t, a.writeArtifacts(g, ttl))

	data, err := os.ReadFile(filepath.Join(dir, "volumes.jsonld"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"dcterms:identifier"`,
		"compaction should follow the configured context")
}
