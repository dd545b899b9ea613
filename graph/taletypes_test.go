package graph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/folkgraph/graph"
	"github.com/c360studio/folkgraph/tabular"
	"github.com/c360studio/folkgraph/vocabulary/folk"
)

func referenceTable(rows ...tabular.Row) *tabular.Table {
	return &tabular.Table{
		Path:    "atu_reference.csv",
		Columns: []string{"atu_code", "title", "description"},
		Rows:    rows,
	}
}

func TestBuildTaleTypesCatalogueOrder(t *testing.T) {
	table := referenceTable(
		tabular.Row{"atu_code": "1060*", "title": "Squeezing the (Supposed) Stone"},
		tabular.Row{"atu_code": "510A", "title": "Cinderella"},
		tabular.Row{"atu_code": "300", "title": "The Dragon-Slayer"},
		tabular.Row{"atu_code": "1060", "title": "Squeezing the Stone"},
		tabular.Row{"atu_code": "510", "title": "Cinderella and Peau d'Ane"},
	)

	b := graph.NewBuilder(nil)
	g, err := b.BuildTaleTypes(table)
	require.NoError(t, err)

	concepts := g.SubjectsOfType(graph.IRI(folk.ClassTaleType))
	base := "https://folkgraph.c360.dev/rdf/taleType/atu/"
	want := []graph.IRI{
		graph.IRI(base + "300"),
		graph.IRI(base + "510"),
		graph.IRI(base + "510A"),
		graph.IRI(base + "1060"),
		graph.IRI(base + "1060-star"),
	}
	assert.Equal(t, want, concepts)
}

func TestBuildTaleTypesConceptShape(t *testing.T) {
	table := referenceTable(
		tabular.Row{"atu_code": "510a", "title": "Cinderella", "description": "The persecuted heroine."},
		tabular.Row{"atu_code": "1060*", "title": ""},
	)

	b := graph.NewBuilder(nil)
	g, err := b.BuildTaleTypes(table)
	require.NoError(t, err)

	scheme := graph.ATUSchemeIRI
	assert.True(t, g.Has(scheme, folk.PredType, graph.IRI(folk.ClassConceptScheme)))
	assert.True(t, g.Has(scheme, folk.PredPrefLabel, graph.LangLiteral(graph.SchemeLabelEN, "en")))

	cinderella := graph.IRI("https://folkgraph.c360.dev/rdf/taleType/atu/510A")
	assert.True(t, g.Has(cinderella, folk.PredType, graph.IRI(folk.ClassSkosConcept)))
	assert.True(t, g.Has(cinderella, folk.PredInScheme, scheme))
	assert.True(t, g.Has(cinderella, folk.PredNotation, graph.PlainLiteral("510A")))
	assert.True(t, g.Has(cinderella, folk.PredPrefLabel, graph.LangLiteral("ATU 510A Cinderella", "en")))
	assert.True(t, g.Has(cinderella, folk.PredDefinition, graph.LangLiteral("The persecuted heroine.", "en")))
	assert.True(t, g.Has(cinderella, folk.PredSource,
		graph.IRI("https://folkgraph.c360.dev/rdf/biblio/ffc_284_2011")))

	// The star marker survives in the notation but not in the IRI, and
	// types from 1000 up cite the second catalogue volume.
	starred := graph.IRI("https://folkgraph.c360.dev/rdf/taleType/atu/1060-star")
	assert.True(t, g.Has(starred, folk.PredNotation, graph.PlainLiteral("1060*")))
	assert.True(t, g.Has(starred, folk.PredPrefLabel, graph.LangLiteral("ATU 1060*", "en")))
	assert.True(t, g.Has(starred, folk.PredSource,
		graph.IRI("https://folkgraph.c360.dev/rdf/biblio/ffc_285_2011")))
	assert.Empty(t, g.ObjectsOf(starred, folk.PredDefinition))
}

func TestBuildTaleTypesDeduplicatesCodes(t *testing.T) {
	table := referenceTable(
		tabular.Row{"atu_code": "510A", "title": "Cinderella"},
		tabular.Row{"atu_code": "510 a", "title": "Duplicate spelling"},
		tabular.Row{"atu_code": "<NA>"},
		tabular.Row{"atu_code": ""},
	)

	b := graph.NewBuilder(nil)
	g, err := b.BuildTaleTypes(table)
	require.NoError(t, err)

	concepts := g.SubjectsOfType(graph.IRI(folk.ClassTaleType))
	require.Len(t, concepts, 1)
	assert.True(t, g.Has(concepts[0], folk.PredPrefLabel, graph.LangLiteral("ATU 510A Cinderella", "en")))
}

func TestBuildTaleTypesRequiresCodeColumn(t *testing.T) {
	table := &tabular.Table{Columns: []string{"title"}}

	b := graph.NewBuilder(nil)
	_, err := b.BuildTaleTypes(table)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required column: atu_code")
}
