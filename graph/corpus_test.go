package graph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/folkgraph/graph"
	"github.com/c360studio/folkgraph/tabular"
	"github.com/c360studio/folkgraph/vocabulary/folk"
)

func corpusRow(overrides tabular.Row) tabular.Row {
	row := tabular.Row{
		"tale_id":                  "kp_013",
		"volume_id":                "ERA_Vene_5",
		"collection":               "ERA Vene",
		"source_ref":               "ERA, Vene 5, 123/4 (7)",
		"description":              "Сказка о падчерице",
		"access_rights":            "public",
		"rights":                   "CC BY 4.0",
		"recording_date":           "1948-05-01",
		"place":                    "Tartu",
		"atu_codes":                "['510A', '480']",
		"narrator_person_id":       "p_101",
		"narrator_label_en":        "Gromova, Olga",
		"narrator_name_raw":        "Громова Ольга",
		"narrator_birth_year":      "b. 1885",
		"narrator_age":             "63 years",
		"collector_person_ids_str": "p_001",
		"collectors_norm":          "['Petrov, Ivan']",
	}
	for k, v := range overrides {
		row[k] = v
	}
	return row
}

func corpusTable(rows ...tabular.Row) *tabular.Table {
	return &tabular.Table{
		Path: "canonical.csv",
		Columns: []string{
			"tale_id", "volume_id", "collection", "source_ref", "description",
			"access_rights", "rights", "recording_date", "place", "atu_codes",
			"narrator_person_id", "narrator_label_en", "narrator_name_raw",
			"narrator_birth_year", "narrator_age",
			"collector_person_ids_str", "collectors_norm",
		},
		Rows: rows,
	}
}

func TestBuildCorpusTaleShape(t *testing.T) {
	b := graph.NewBuilder(nil)
	g, err := b.BuildCorpus(corpusTable(corpusRow(nil)), graph.Options{}, graph.DatasetInfo{})
	require.NoError(t, err)

	tale := graph.IRI("https://folkgraph.c360.dev/rdf/tale/kp_013")
	require.Equal(t, []graph.IRI{tale}, g.SubjectsOfType(graph.IRI(folk.ClassTale)))

	assert.True(t, g.Has(tale, folk.PredType, graph.IRI(folk.ClassLinguisticObject)))
	assert.True(t, g.Has(tale, folk.PredIdentifier, graph.PlainLiteral("kp_013")))
	assert.True(t, g.Has(tale, folk.PredIsPartOf, volV1))
	assert.True(t, g.Has(tale, folk.PredDescription, graph.LangLiteral("Сказка о падчерице", "ru")))
	assert.True(t, g.Has(tale, folk.PredAccessRights, graph.PlainLiteral("public")))
	assert.True(t, g.Has(tale, folk.PredRights, graph.PlainLiteral("CC BY 4.0")))
	assert.True(t, g.Has(tale, folk.PredBibliographicCitation, graph.PlainLiteral("ERA, Vene 5, 123/4 (7)")))
	assert.True(t, g.Has(tale, folk.PredCreated, graph.TypedLiteral("1948-05-01", graph.XSDDate)))

	assert.True(t, g.Has(tale, folk.PredSpatial, graph.IRI("https://folkgraph.c360.dev/rdf/place/tartu")))
	assert.True(t, g.Has(tale, folk.PropPlaceLabel, graph.LangLiteral("Tartu", "et")))

	assert.True(t, g.Has(tale, folk.PredSubject, graph.IRI("https://folkgraph.c360.dev/rdf/taleType/atu/510A")))
	assert.True(t, g.Has(tale, folk.PredSubject, graph.IRI("https://folkgraph.c360.dev/rdf/taleType/atu/480")))
	assert.True(t, g.Has(tale, folk.PredContributor, graph.IRI("https://folkgraph.c360.dev/rdf/person/p-101")))
}

func TestBuildCorpusRequiresColumns(t *testing.T) {
	table := &tabular.Table{
		Columns: []string{"tale_id"},
		Rows:    []tabular.Row{{"tale_id": "kp_013"}},
	}
	b := graph.NewBuilder(nil)
	_, err := b.BuildCorpus(table, graph.Options{}, graph.DatasetInfo{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required column: volume_id")
}

func TestBuildCorpusDropsMalformedDates(t *testing.T) {
	table := corpusTable(
		corpusRow(tabular.Row{"tale_id": "t1", "recording_date": "1948-05-01"}),
		corpusRow(tabular.Row{"tale_id": "t2", "recording_date": "1948"}),
		corpusRow(tabular.Row{"tale_id": "t3", "recording_date": "1948-13-01"}),
		corpusRow(tabular.Row{"tale_id": "t4", "recording_date": "<NA>"}),
	)

	b := graph.NewBuilder(nil)
	g, err := b.BuildCorpus(table, graph.Options{}, graph.DatasetInfo{})
	require.NoError(t, err)

	base := "https://folkgraph.c360.dev/rdf/tale/"
	assert.True(t, g.Has(graph.IRI(base+"t1"), folk.PredCreated, graph.TypedLiteral("1948-05-01", graph.XSDDate)))
	for _, tid := range []string{"t2", "t3", "t4"} {
		assert.Empty(t, g.ObjectsOf(graph.IRI(base+tid), folk.PredCreated), tid)
	}
}

func TestBuildCorpusDeduplicatesTalesFirstRowWins(t *testing.T) {
	table := corpusTable(
		corpusRow(tabular.Row{"description": "first"}),
		corpusRow(tabular.Row{"description": "second"}),
	)

	b := graph.NewBuilder(nil)
	g, err := b.BuildCorpus(table, graph.Options{}, graph.DatasetInfo{})
	require.NoError(t, err)

	tale := graph.IRI("https://folkgraph.c360.dev/rdf/tale/kp_013")
	require.Len(t, g.SubjectsOfType(graph.IRI(folk.ClassTale)), 1)
	descs := g.ObjectsOf(tale, folk.PredDescription)
	require.Len(t, descs, 1)
	assert.Equal(t, graph.LangLiteral("first", "et"), descs[0])
}

func TestBuildCorpusAgentMerging(t *testing.T) {
	table := corpusTable(
		corpusRow(tabular.Row{
			"tale_id":           "t1",
			"narrator_label_en": "Gromova, Olga",
			"narrator_name_raw": "",
		}),
		corpusRow(tabular.Row{
			"tale_id":           "t2",
			"narrator_label_en": "Ignored, Later",
			"narrator_name_raw": "Громова Ольга",
		}),
	)

	b := graph.NewBuilder(nil)
	g, err := b.BuildCorpus(table, graph.Options{}, graph.DatasetInfo{})
	require.NoError(t, err)

	narrator := graph.IRI("https://folkgraph.c360.dev/rdf/person/p-101")
	assert.True(t, g.Has(narrator, folk.PredType, graph.IRI(folk.ClassProvAgent)))
	assert.True(t, g.Has(narrator, folk.PredType, graph.IRI(folk.ClassPerson)))
	assert.True(t, g.Has(narrator, folk.PredType, graph.IRI(folk.ClassFoafPerson)))
	assert.True(t, g.Has(narrator, folk.PredType, graph.IRI(folk.ClassNarrator)))

	// First row wins per metadata field; later rows only fill gaps.
	assert.True(t, g.Has(narrator, folk.PredLabel, graph.LangLiteral("Gromova, Olga", "en")))
	assert.False(t, g.Has(narrator, folk.PredLabel, graph.LangLiteral("Ignored, Later", "en")))
	assert.True(t, g.Has(narrator, folk.PredLabel, graph.LangLiteral("Громова Ольга", "ru")))

	assert.True(t, g.Has(narrator, folk.PropBirthYear, graph.TypedLiteral("1885", graph.XSDGYear)))
	assert.True(t, g.Has(narrator, folk.PropAge, graph.TypedLiteral("63", graph.XSDInteger)))

	collector := graph.IRI("https://folkgraph.c360.dev/rdf/person/p-001")
	assert.True(t, g.Has(collector, folk.PredType, graph.IRI(folk.ClassCollector)))
	assert.True(t, g.Has(collector, folk.PredLabel, graph.LangLiteral("Petrov, Ivan", "et")))
}

func TestBuildCorpusCollectorLabelPairing(t *testing.T) {
	zip := corpusRow(tabular.Row{
		"tale_id":                  "t1",
		"collector_person_ids_str": "['p_001', 'p_002']",
		"collectors_norm":          "['Petrov, Ivan', 'Smirnova, Anna']",
	})
	cross := corpusRow(tabular.Row{
		"tale_id":                  "t2",
		"collector_person_ids_str": "['p_003', 'p_004']",
		"collectors_norm":          "['Shared Label']",
	})

	b := graph.NewBuilder(nil)
	g, err := b.BuildCorpus(corpusTable(zip, cross), graph.Options{}, graph.DatasetInfo{})
	require.NoError(t, err)

	base := "https://folkgraph.c360.dev/rdf/person/"
	assert.True(t, g.Has(graph.IRI(base+"p-001"), folk.PredLabel, graph.LangLiteral("Petrov, Ivan", "et")))
	assert.False(t, g.Has(graph.IRI(base+"p-001"), folk.PredLabel, graph.LangLiteral("Smirnova, Anna", "et")))
	assert.True(t, g.Has(graph.IRI(base+"p-002"), folk.PredLabel, graph.LangLiteral("Smirnova, Anna", "et")))

	// Mismatched counts attach every label to every id.
	assert.True(t, g.Has(graph.IRI(base+"p-003"), folk.PredLabel, graph.LangLiteral("Shared Label", "et")))
	assert.True(t, g.Has(graph.IRI(base+"p-004"), folk.PredLabel, graph.LangLiteral("Shared Label", "et")))
}

func TestBuildCorpusAgentFallbackLabel(t *testing.T) {
	table := corpusTable(corpusRow(tabular.Row{
		"narrator_person_id":  "",
		"narrator_label_en":   "",
		"narrator_name_raw":   "",
		"narrator_birth_year": "",
		"narrator_age":        "",
		"collectors_norm":     "",
	}))

	b := graph.NewBuilder(nil)
	g, err := b.BuildCorpus(table, graph.Options{}, graph.DatasetInfo{})
	require.NoError(t, err)

	collector := graph.IRI("https://folkgraph.c360.dev/rdf/person/p-001")
	labels := g.ObjectsOf(collector, folk.PredLabel)
	require.Len(t, labels, 1)
	assert.Equal(t, graph.PlainLiteral("p_001"), labels[0])
}

func TestBuildCorpusDatasetMembership(t *testing.T) {
	table := corpusTable(
		corpusRow(tabular.Row{"tale_id": "t1"}),
		corpusRow(tabular.Row{"tale_id": "t2"}),
	)

	b := graph.NewBuilder(nil)
	g, err := b.BuildCorpus(table, graph.Options{}, graph.DatasetInfo{
		DerivedFrom: []string{"https://kivike.kirmus.ee/collection/era-vene"},
	})
	require.NoError(t, err)

	datasets := g.SubjectsOfType(graph.IRI(folk.ClassDataset))
	require.Len(t, datasets, 1)
	ds := datasets[0]
	assert.Equal(t, graph.IRI("https://folkgraph.c360.dev/rdf/dataset/corpus/v1"), ds)

	assert.True(t, g.Has(graph.IRI("https://folkgraph.c360.dev/rdf/tale/t1"), folk.PredIsPartOf, ds))
	assert.True(t, g.Has(graph.IRI("https://folkgraph.c360.dev/rdf/tale/t2"), folk.PredIsPartOf, ds))
	assert.True(t, g.Has(ds, folk.PredWasDerivedFrom, graph.IRI("https://kivike.kirmus.ee/collection/era-vene")))

	dists := g.ObjectsOf(ds, folk.PredDistribution)
	assert.NotEmpty(t, dists)
}
