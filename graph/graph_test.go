package graph_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/c360studio/folkgraph/graph"
	"github.com/c360studio/folkgraph/vocabulary/folk"
)

func TestAddSuppressesDuplicates(t *testing.T) {
	g := graph.New()
	s := graph.IRI("https://folkgraph.c360.dev/rdf/tale/t1")

	g.Add(s, folk.PredIdentifier, graph.PlainLiteral("t1"))
	g.Add(s, folk.PredIdentifier, graph.PlainLiteral("t1"))
	g.Add(s, folk.PredIdentifier, graph.PlainLiteral("t2"))

	assert.Equal(t, 2, g.Len())
	assert.True(t, g.Has(s, folk.PredIdentifier, graph.PlainLiteral("t1")))
	assert.True(t, g.Has(s, folk.PredIdentifier, graph.PlainLiteral("t2")))
}

func TestLiteralVariantsAreDistinct(t *testing.T) {
	g := graph.New()
	s := graph.IRI("https://folkgraph.c360.dev/rdf/tale/t1")

	g.Add(s, folk.PredLabel, graph.PlainLiteral("Сказка"))
	g.Add(s, folk.PredLabel, graph.LangLiteral("Сказка", "ru"))
	g.Add(s, folk.PredLabel, graph.TypedLiteral("Сказка", graph.XSDString))

	assert.Equal(t, 3, g.Len())
}

func TestAddValueTyping(t *testing.T) {
	g := graph.New()
	s := graph.IRI("https://folkgraph.c360.dev/rdf/tale/t1")

	g.AddValue(s, folk.PropAge, 62)
	g.AddValue(s, folk.PropConfidenceScore, 0.62)
	g.AddValue(s, folk.PredLabel, "plain")
	g.AddValue(s, folk.PredSeeAlso, graph.IRI("https://example.org/x"))
	g.AddValue(s, folk.PredCreated, time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC))

	assert.True(t, g.Has(s, folk.PropAge, graph.TypedLiteral("62", graph.XSDInteger)))
	assert.True(t, g.Has(s, folk.PropConfidenceScore, graph.TypedLiteral("0.62", graph.XSDDecimal)))
	assert.True(t, g.Has(s, folk.PredLabel, graph.PlainLiteral("plain")))
	assert.True(t, g.Has(s, folk.PredSeeAlso, graph.IRI("https://example.org/x")))
	assert.True(t, g.Has(s, folk.PredCreated, graph.TypedLiteral("2024-05-01T10:30:00Z", graph.XSDDateTime)))
}

func TestTriplesKeepInsertionOrder(t *testing.T) {
	g := graph.New()
	a := graph.IRI("https://folkgraph.c360.dev/rdf/tale/a")
	b := graph.IRI("https://folkgraph.c360.dev/rdf/tale/b")

	g.Add(b, folk.PredIdentifier, graph.PlainLiteral("b"))
	g.Add(a, folk.PredIdentifier, graph.PlainLiteral("a"))
	g.Add(b, folk.PredLabel, graph.PlainLiteral("B"))

	triples := g.Triples()
	assert.Equal(t, b, triples[0].Subject)
	assert.Equal(t, a, triples[1].Subject)
	assert.Equal(t, []graph.IRI{b, a}, g.Subjects())
}

func TestSubjectsOfTypeAndObjectsOf(t *testing.T) {
	g := graph.New()
	t1 := graph.IRI("https://folkgraph.c360.dev/rdf/tale/t1")
	t2 := graph.IRI("https://folkgraph.c360.dev/rdf/tale/t2")
	v1 := graph.IRI("https://folkgraph.c360.dev/rdf/volume/v1")

	g.Add(t1, folk.PredType, graph.IRI(folk.ClassTale))
	g.Add(t2, folk.PredType, graph.IRI(folk.ClassTale))
	g.Add(v1, folk.PredType, graph.IRI(folk.ClassBibliographicResource))
	g.Add(t1, folk.PredIsPartOf, v1)

	assert.Equal(t, []graph.IRI{t1, t2}, g.SubjectsOfType(graph.IRI(folk.ClassTale)))
	assert.Equal(t, []graph.Term{v1}, g.ObjectsOf(t1, folk.PredIsPartOf))
	assert.True(t, g.HasPredicate(t1, folk.PredSource, folk.PredIsPartOf))
	assert.False(t, g.HasPredicate(t2, folk.PredIsPartOf))
}

func TestMergeAndEqual(t *testing.T) {
	s := graph.IRI("https://folkgraph.c360.dev/rdf/tale/t1")

	a := graph.New()
	a.Add(s, folk.PredIdentifier, graph.PlainLiteral("t1"))

	b := graph.New()
	b.Add(s, folk.PredIdentifier, graph.PlainLiteral("t1"))
	b.Add(s, folk.PredLabel, graph.PlainLiteral("T one"))

	assert.False(t, a.Equal(b))

	a.Merge(b)
	assert.Equal(t, 2, a.Len())
	assert.True(t, a.Equal(b))

	// Merging again changes nothing.
	a.Merge(b)
	assert.Equal(t, 2, a.Len())
}
