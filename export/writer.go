// Package export serializes entity graphs to Turtle, N-Triples and
// JSON-LD, and reads the emitted Turtle dialect back.
package export

import (
	"fmt"
	"sort"
	"strings"

	"github.com/c360studio/folkgraph/graph"
	"github.com/c360studio/folkgraph/vocabulary/folk"
)

// Writer serializes one graph under the fixed project prefix table.
type Writer struct {
	g        *graph.Graph
	prefixes map[string]string
	context  map[string]any
}

// NewWriter creates a writer for the graph.
func NewWriter(g *graph.Graph) *Writer {
	return &Writer{g: g, prefixes: defaultPrefixes()}
}

// defaultPrefixes returns the namespace prefixes bound by every export.
func defaultPrefixes() map[string]string {
	return map[string]string{
		"rdf":      folk.NSRdf,
		"rdfs":     folk.NSRdfs,
		"xsd":      folk.NSXsd,
		"skos":     folk.NSSkos,
		"dcterms":  folk.NSDcterms,
		"dcmitype": folk.NSDcmitype,
		"prov":     folk.NSProv,
		"foaf":     folk.NSFoaf,
		"crm":      folk.NSCrm,
		"dcat":     folk.NSDcat,
		"rft":      folk.Namespace,
	}
}

// sortedPrefixes returns prefix names in stable order.
func (w *Writer) sortedPrefixes() []string {
	names := make([]string, 0, len(w.prefixes))
	for p := range w.prefixes {
		names = append(names, p)
	}
	sort.Strings(names)
	return names
}

// prefixed shortens an IRI to prefix:local when a bound namespace matches
// and the local part is a safe prefixed name. Longest namespace wins.
func (w *Writer) prefixed(iri string) (string, bool) {
	best := ""
	bestNS := ""
	for p, ns := range w.prefixes {
		if strings.HasPrefix(iri, ns) && len(ns) > len(bestNS) {
			best, bestNS = p, ns
		}
	}
	if bestNS == "" {
		return "", false
	}
	local := iri[len(bestNS):]
	if !safeLocalName(local) {
		return "", false
	}
	return best + ":" + local, true
}

// safeLocalName keeps the prefixed-name grammar conservative: entity IRIs
// with path separators or encoded bytes render as full IRIs instead.
func safeLocalName(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '_' || r == '-':
		default:
			return false
		}
	}
	return true
}

// Turtle renders the graph grouped by subject with ; and , continuation.
func (w *Writer) Turtle() []byte {
	var sb strings.Builder

	for _, p := range w.sortedPrefixes() {
		fmt.Fprintf(&sb, "@prefix %s: <%s> .\n", p, w.prefixes[p])
	}
	sb.WriteString("\n")

	for _, subj := range w.g.Subjects() {
		sb.WriteString(w.turtleTerm(subj))

		preds, objects := w.predicateGroups(subj)
		for i, pred := range preds {
			if i == 0 {
				sb.WriteString(" ")
			} else {
				sb.WriteString(" ;\n    ")
			}
			sb.WriteString(w.turtlePredicate(pred))
			sb.WriteString(" ")
			for j, o := range objects[i] {
				if j > 0 {
					sb.WriteString(", ")
				}
				sb.WriteString(w.turtleObject(o))
			}
		}
		sb.WriteString(" .\n\n")
	}
	return []byte(sb.String())
}

// predicateGroups collects the subject's predicates in insertion order
// with their objects, so repeated predicates join with commas.
func (w *Writer) predicateGroups(subj graph.IRI) ([]graph.IRI, [][]graph.Term) {
	var preds []graph.IRI
	var objects [][]graph.Term
	index := make(map[graph.IRI]int)
	for _, t := range w.g.Triples() {
		if t.Subject != subj {
			continue
		}
		i, ok := index[t.Predicate]
		if !ok {
			i = len(preds)
			index[t.Predicate] = i
			preds = append(preds, t.Predicate)
			objects = append(objects, nil)
		}
		objects[i] = append(objects[i], t.Object)
	}
	return preds, objects
}

func (w *Writer) turtleTerm(iri graph.IRI) string {
	if name, ok := w.prefixed(string(iri)); ok {
		return name
	}
	return "<" + string(iri) + ">"
}

func (w *Writer) turtlePredicate(p graph.IRI) string {
	if string(p) == folk.PredType {
		return "a"
	}
	return w.turtleTerm(p)
}

func (w *Writer) turtleObject(o graph.Term) string {
	switch t := o.(type) {
	case graph.IRI:
		return w.turtleTerm(t)
	case graph.Literal:
		s := `"` + escapeLiteral(t.Value) + `"`
		switch {
		case t.Lang != "":
			return s + "@" + t.Lang
		case t.Datatype != "":
			return s + "^^" + w.turtleTerm(graph.IRI(t.Datatype))
		}
		return s
	}
	return ""
}

// NTriples renders one full-IRI statement per line.
func (w *Writer) NTriples() []byte {
	var sb strings.Builder
	for _, t := range w.g.Triples() {
		sb.WriteString("<" + string(t.Subject) + "> ")
		sb.WriteString("<" + string(t.Predicate) + "> ")
		switch o := t.Object.(type) {
		case graph.IRI:
			sb.WriteString("<" + string(o) + ">")
		case graph.Literal:
			sb.WriteString(`"` + escapeLiteral(o.Value) + `"`)
			switch {
			case o.Lang != "":
				sb.WriteString("@" + o.Lang)
			case o.Datatype != "":
				sb.WriteString("^^<" + o.Datatype + ">")
			}
		}
		sb.WriteString(" .\n")
	}
	return []byte(sb.String())
}

// escapeLiteral escapes the characters Turtle and N-Triples require
// inside a quoted literal.
func escapeLiteral(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		switch r {
		case '\\':
			sb.WriteString(`\\`)
		case '"':
			sb.WriteString(`\"`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
