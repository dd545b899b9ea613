// Package graph holds the in-memory triple model and the builders that
// turn normalized corpus tables into entity graphs.
package graph

import (
	"fmt"
	"time"

	"github.com/c360studio/folkgraph/vocabulary/folk"
)

// Term is an RDF object position value: either an IRI or a Literal.
type Term interface {
	term()
}

// IRI is an absolute resource identifier.
type IRI string

func (IRI) term() {}

// Literal is an RDF literal with an optional language tag or datatype IRI.
// A literal carries at most one of Lang and Datatype.
type Literal struct {
	Value    string
	Lang     string
	Datatype string
}

func (Literal) term() {}

// XSD datatype IRIs used by the builders.
const (
	XSDString   = folk.NSXsd + "string"
	XSDInteger  = folk.NSXsd + "integer"
	XSDDecimal  = folk.NSXsd + "decimal"
	XSDBoolean  = folk.NSXsd + "boolean"
	XSDDate     = folk.NSXsd + "date"
	XSDDateTime = folk.NSXsd + "dateTime"
	XSDGYear    = folk.NSXsd + "gYear"
)

// PlainLiteral returns an untyped, untagged literal.
func PlainLiteral(value string) Literal {
	return Literal{Value: value}
}

// LangLiteral returns a language-tagged literal.
func LangLiteral(value, lang string) Literal {
	return Literal{Value: value, Lang: lang}
}

// TypedLiteral returns a literal with an explicit datatype IRI.
func TypedLiteral(value, datatype string) Literal {
	return Literal{Value: value, Datatype: datatype}
}

// Triple is one subject/predicate/object statement.
type Triple struct {
	Subject   IRI
	Predicate IRI
	Object    Term
}

// Graph is an insert-ordered, duplicate-suppressing triple set. Adding a
// triple that is already present is a no-op, which makes repeated builds
// over the same input idempotent.
type Graph struct {
	triples []Triple
	seen    map[Triple]struct{}
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{seen: make(map[Triple]struct{})}
}

// Add inserts the triple unless it is already present.
func (g *Graph) Add(s, p IRI, o Term) {
	t := Triple{Subject: s, Predicate: p, Object: o}
	if _, ok := g.seen[t]; ok {
		return
	}
	g.seen[t] = struct{}{}
	g.triples = append(g.triples, t)
}

// AddValue inserts a triple converting a plain Go value to the matching
// typed literal. IRIs and Literals pass through unchanged.
func (g *Graph) AddValue(s, p IRI, v any) {
	switch o := v.(type) {
	case IRI:
		g.Add(s, p, o)
	case Literal:
		g.Add(s, p, o)
	case string:
		g.Add(s, p, PlainLiteral(o))
	case int:
		g.Add(s, p, TypedLiteral(fmt.Sprintf("%d", o), XSDInteger))
	case int64:
		g.Add(s, p, TypedLiteral(fmt.Sprintf("%d", o), XSDInteger))
	case float64:
		g.Add(s, p, TypedLiteral(fmt.Sprintf("%g", o), XSDDecimal))
	case bool:
		g.Add(s, p, TypedLiteral(fmt.Sprintf("%t", o), XSDBoolean))
	case time.Time:
		g.Add(s, p, TypedLiteral(o.UTC().Format(time.RFC3339), XSDDateTime))
	default:
		g.Add(s, p, PlainLiteral(fmt.Sprintf("%v", o)))
	}
}

// Has reports whether the exact triple is present.
func (g *Graph) Has(s, p IRI, o Term) bool {
	_, ok := g.seen[Triple{Subject: s, Predicate: p, Object: o}]
	return ok
}

// HasPredicate reports whether the subject carries at least one of the
// given predicates, regardless of object.
func (g *Graph) HasPredicate(s IRI, preds ...IRI) bool {
	for _, t := range g.triples {
		if t.Subject != s {
			continue
		}
		for _, p := range preds {
			if t.Predicate == p {
				return true
			}
		}
	}
	return false
}

// Len returns the number of distinct triples.
func (g *Graph) Len() int {
	return len(g.triples)
}

// Triples returns the statements in insertion order. The returned slice is
// shared with the graph and must not be modified.
func (g *Graph) Triples() []Triple {
	return g.triples
}

// Subjects returns the distinct subjects in first-appearance order.
func (g *Graph) Subjects() []IRI {
	var out []IRI
	seen := make(map[IRI]struct{})
	for _, t := range g.triples {
		if _, ok := seen[t.Subject]; ok {
			continue
		}
		seen[t.Subject] = struct{}{}
		out = append(out, t.Subject)
	}
	return out
}

// SubjectsOfType returns the distinct subjects declared rdf:type class,
// in first-appearance order.
func (g *Graph) SubjectsOfType(class IRI) []IRI {
	var out []IRI
	seen := make(map[IRI]struct{})
	for _, t := range g.triples {
		if t.Predicate != folk.PredType {
			continue
		}
		if o, ok := t.Object.(IRI); !ok || o != class {
			continue
		}
		if _, ok := seen[t.Subject]; ok {
			continue
		}
		seen[t.Subject] = struct{}{}
		out = append(out, t.Subject)
	}
	return out
}

// TypesOf returns the rdf:type IRIs of the subject in insertion order.
func (g *Graph) TypesOf(s IRI) []IRI {
	var out []IRI
	for _, t := range g.triples {
		if t.Subject != s || t.Predicate != folk.PredType {
			continue
		}
		if o, ok := t.Object.(IRI); ok {
			out = append(out, o)
		}
	}
	return out
}

// ObjectsOf returns the objects of all (s, p, *) statements in insertion
// order.
func (g *Graph) ObjectsOf(s, p IRI) []Term {
	var out []Term
	for _, t := range g.triples {
		if t.Subject == s && t.Predicate == p {
			out = append(out, t.Object)
		}
	}
	return out
}

// Merge adds every triple of other into g, keeping g's insertion order
// first. Duplicates are suppressed as usual.
func (g *Graph) Merge(other *Graph) {
	if other == nil {
		return
	}
	for _, t := range other.triples {
		g.Add(t.Subject, t.Predicate, t.Object)
	}
}

// Equal reports set equality of the two graphs, ignoring insertion order.
func (g *Graph) Equal(other *Graph) bool {
	if other == nil || len(g.triples) != len(other.triples) {
		return false
	}
	for t := range g.seen {
		if _, ok := other.seen[t]; !ok {
			return false
		}
	}
	return true
}
