package export

import (
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"

	"github.com/c360studio/folkgraph/graph"
	"github.com/c360studio/folkgraph/vocabulary/folk"
)

// Shape selects the JSON-LD document layout.
type Shape string

const (
	// ShapeAuto emits a single node object when the graph has one
	// subject, otherwise a @graph document.
	ShapeAuto Shape = "auto"

	// ShapeGraph always emits the {"@context", "@graph"} wrapper.
	ShapeGraph Shape = "graph"
)

// contextIDTerms are the terms the fixed context coerces to IRIs.
var contextIDTerms = []string{
	"dcterms:source", "dcterms:isPartOf", "dcterms:hasPart", "dcterms:creator",
	"dcterms:contributor", "dcterms:subject", "dcterms:spatial", "dcterms:license",
	"rdfs:seeAlso", "skos:inScheme", "foaf:page",
	"prov:used", "prov:generated", "prov:wasAssociatedWith", "prov:wasDerivedFrom",
	"dcat:distribution", "dcat:accessURL", "dcat:downloadURL", "dcat:theme",
	"rft:hasCandidate", "rft:predictedTaleType", "rft:primaryATU", "rft:modelPrimaryATU",
	"rft:finalATU", "rft:coTaleType", "rft:forTale", "rft:usedModel",
}

// contextTypedTerms fix the datatype of the value terms whose type never
// varies across exports.
var contextTypedTerms = map[string]string{
	"rft:rank":             "xsd:integer",
	"rft:age":              "xsd:integer",
	"rft:confidenceScore":  "xsd:decimal",
	"rft:deltaTop12":       "xsd:decimal",
	"rft:birthYear":        "xsd:gYear",
	"rft:trainedAt":        "xsd:dateTime",
	"rft:finalSavedAt":     "xsd:dateTime",
	"prov:generatedAtTime": "xsd:dateTime",
	"dcterms:created":      "xsd:date",
	"dcterms:issued":       "xsd:gYear",
}

// Context returns the fixed JSON-LD context every export embeds: the
// project prefix table plus the term coercions above. Callers get a
// fresh copy.
func Context() map[string]any {
	ctx := map[string]any{"@version": 1.1}
	for p, ns := range defaultPrefixes() {
		ctx[p] = ns
	}
	for _, term := range contextIDTerms {
		ctx[term] = map[string]any{"@type": "@id"}
	}
	for term, dt := range contextTypedTerms {
		ctx[term] = map[string]any{"@type": dt}
	}
	return ctx
}

// SetContext replaces the embedded context with an external context
// document. Prefix bindings in the document take over IRI compaction, so
// a context that drops a prefix widens the emitted IRIs accordingly.
func (w *Writer) SetContext(ctx map[string]any) {
	if ctx == nil {
		return
	}
	w.context = ctx
	if prefixes, _ := contextTables(ctx); len(prefixes) > 0 {
		w.prefixes = prefixes
	}
}

func (w *Writer) docContext() map[string]any {
	if w.context != nil {
		return w.context
	}
	return Context()
}

// contextTables derives the prefix and coercion lookups from a context
// document. Keys without a colon bind prefixes; keys with one coerce a
// term to "@id" or a datatype.
func contextTables(ctx map[string]any) (prefixes map[string]string, coercions map[string]string) {
	prefixes = make(map[string]string)
	coercions = make(map[string]string)
	for k, v := range ctx {
		if strings.HasPrefix(k, "@") {
			continue
		}
		if !strings.Contains(k, ":") {
			if ns, ok := v.(string); ok {
				prefixes[k] = ns
			}
			continue
		}
		if m, ok := v.(map[string]any); ok {
			if t, ok := m["@type"].(string); ok {
				coercions[k] = t
			}
		}
	}
	return prefixes, coercions
}

// jsonNumberRe admits the literal lexical forms that can travel as native
// JSON numbers without changing their spelling.
var jsonNumberRe = regexp.MustCompile(`^-?(0|[1-9][0-9]*)(\.[0-9]+)?$`)

// JSONLD renders the graph as a JSON-LD document. The fixed project
// context applies unless SetContext installed another one.
func (w *Writer) JSONLD(shape Shape) ([]byte, error) {
	coercions := w.coercions()
	nodes := make([]map[string]any, 0)
	for _, subj := range w.g.Subjects() {
		nodes = append(nodes, w.jsonldNode(subj, coercions))
	}

	var doc any
	switch shape {
	case ShapeGraph:
		doc = map[string]any{"@context": w.docContext(), "@graph": nodes}
	case ShapeAuto, "":
		if len(nodes) == 1 {
			node := nodes[0]
			node["@context"] = w.docContext()
			doc = node
		} else {
			doc = map[string]any{"@context": w.docContext(), "@graph": nodes}
		}
	default:
		return nil, fmt.Errorf("unsupported JSON-LD shape: %s", shape)
	}

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling JSON-LD: %w", err)
	}
	return out, nil
}

func (w *Writer) coercions() map[string]string {
	_, coercions := contextTables(w.docContext())
	return coercions
}

func (w *Writer) jsonldNode(subj graph.IRI, coercions map[string]string) map[string]any {
	node := map[string]any{"@id": string(subj)}

	preds, objects := w.predicateGroups(subj)
	for i, pred := range preds {
		if string(pred) == folk.PredType {
			types := make([]any, 0, len(objects[i]))
			for _, o := range objects[i] {
				if iri, ok := o.(graph.IRI); ok {
					types = append(types, w.compactIRI(iri))
				}
			}
			node["@type"] = oneOrList(types)
			continue
		}

		key := w.compactIRI(pred)
		coercion := coercions[key]
		vals := make([]any, 0, len(objects[i]))
		for _, o := range objects[i] {
			vals = append(vals, w.jsonldValue(coercion, o))
		}
		node[key] = oneOrList(vals)
	}
	return node
}

func (w *Writer) compactIRI(iri graph.IRI) string {
	if name, ok := w.prefixed(string(iri)); ok {
		return name
	}
	return string(iri)
}

func (w *Writer) jsonldValue(coercion string, t graph.Term) any {
	switch o := t.(type) {
	case graph.IRI:
		return map[string]any{"@id": string(o)}
	case graph.Literal:
		switch {
		case o.Lang != "":
			return map[string]any{"@value": o.Value, "@language": o.Lang}
		case o.Datatype != "":
			compact := w.compactIRI(graph.IRI(o.Datatype))
			if coercion == compact {
				// The context already types this term.
				switch o.Datatype {
				case graph.XSDInteger, graph.XSDDecimal:
					if jsonNumberRe.MatchString(o.Value) {
						return json.RawMessage(o.Value)
					}
				case graph.XSDBoolean:
					if o.Value == "true" || o.Value == "false" {
						return json.RawMessage(o.Value)
					}
				default:
					return o.Value
				}
			}
			return map[string]any{"@value": o.Value, "@type": compact}
		case coercion != "":
			// Coerced term with an untyped literal: keep the value
			// object so the string is not read as an IRI or number.
			return map[string]any{"@value": o.Value}
		}
		return o.Value
	}
	return nil
}

func oneOrList(vals []any) any {
	if len(vals) == 1 {
		return vals[0]
	}
	return vals
}

// ParseJSONLD reads a document in the emitted JSON-LD dialect back into a
// graph. The embedded context drives prefix expansion and type coercion;
// a document without one falls back to the fixed context.
func ParseJSONLD(r io.Reader) (*graph.Graph, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var doc map[string]any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding JSON-LD: %w", err)
	}

	ctx := Context()
	if embedded, ok := doc["@context"].(map[string]any); ok {
		ctx = embedded
	}
	prefixes, coercions := contextTables(ctx)

	var nodes []any
	if gr, ok := doc["@graph"]; ok {
		nodes, ok = gr.([]any)
		if !ok {
			return nil, fmt.Errorf("@graph is not an array")
		}
	} else {
		nodes = []any{any(doc)}
	}

	g := graph.New()
	for _, n := range nodes {
		node, ok := n.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("graph node is not an object")
		}
		if err := parseNode(g, node, prefixes, coercions); err != nil {
			return nil, err
		}
	}
	return g, nil
}

func parseNode(g *graph.Graph, node map[string]any, prefixes, coercions map[string]string) error {
	id, ok := node["@id"].(string)
	if !ok || id == "" {
		return fmt.Errorf("node missing @id")
	}
	subj := graph.IRI(expandIRI(id, prefixes))

	keys := make([]string, 0, len(node))
	for k := range node {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		switch key {
		case "@id", "@context", "@version":
			continue
		case "@type":
			for _, v := range asList(node[key]) {
				t, ok := v.(string)
				if !ok {
					return fmt.Errorf("non-string @type on %s", id)
				}
				g.Add(subj, folk.PredType, graph.IRI(expandIRI(t, prefixes)))
			}
			continue
		}
		if strings.HasPrefix(key, "@") {
			return fmt.Errorf("unsupported keyword %q on %s", key, id)
		}

		pred, err := expandKey(key, prefixes)
		if err != nil {
			return err
		}
		for _, v := range asList(node[key]) {
			term, err := parseValue(v, coercions[key], prefixes)
			if err != nil {
				return fmt.Errorf("value of %s on %s: %w", key, id, err)
			}
			g.Add(subj, graph.IRI(pred), term)
		}
	}
	return nil
}

func parseValue(v any, coercion string, prefixes map[string]string) (graph.Term, error) {
	switch val := v.(type) {
	case map[string]any:
		if id, ok := val["@id"].(string); ok {
			return graph.IRI(expandIRI(id, prefixes)), nil
		}
		raw, ok := val["@value"]
		if !ok {
			return nil, fmt.Errorf("object without @id or @value")
		}
		value, err := lexicalOf(raw)
		if err != nil {
			return nil, err
		}
		if lang, ok := val["@language"].(string); ok {
			return graph.LangLiteral(value, lang), nil
		}
		if dt, ok := val["@type"].(string); ok {
			return graph.TypedLiteral(value, expandIRI(dt, prefixes)), nil
		}
		return graph.PlainLiteral(value), nil
	case string:
		switch coercion {
		case "@id":
			return graph.IRI(expandIRI(val, prefixes)), nil
		case "":
			return graph.PlainLiteral(val), nil
		}
		return graph.TypedLiteral(val, expandIRI(coercion, prefixes)), nil
	case json.Number:
		lex := val.String()
		if coercion != "" && coercion != "@id" {
			return graph.TypedLiteral(lex, expandIRI(coercion, prefixes)), nil
		}
		if strings.ContainsAny(lex, ".eE") {
			return graph.TypedLiteral(lex, graph.XSDDecimal), nil
		}
		return graph.TypedLiteral(lex, graph.XSDInteger), nil
	case bool:
		if val {
			return graph.TypedLiteral("true", graph.XSDBoolean), nil
		}
		return graph.TypedLiteral("false", graph.XSDBoolean), nil
	}
	return nil, fmt.Errorf("unsupported value %T", v)
}

// lexicalOf renders a raw @value as its literal lexical form.
func lexicalOf(raw any) (string, error) {
	switch v := raw.(type) {
	case string:
		return v, nil
	case json.Number:
		return v.String(), nil
	case bool:
		if v {
			return "true", nil
		}
		return "false", nil
	}
	return "", fmt.Errorf("unsupported @value %T", raw)
}

// expandIRI resolves a possibly prefixed name against the context.
// Absolute IRIs pass through.
func expandIRI(s string, prefixes map[string]string) string {
	if strings.Contains(s, "://") {
		return s
	}
	p, local, ok := strings.Cut(s, ":")
	if !ok {
		return s
	}
	if ns, bound := prefixes[p]; bound {
		return ns + local
	}
	return s
}

func expandKey(key string, prefixes map[string]string) (string, error) {
	expanded := expandIRI(key, prefixes)
	if !strings.Contains(expanded, "://") {
		return "", fmt.Errorf("unknown term %q", key)
	}
	return expanded, nil
}

func asList(v any) []any {
	if list, ok := v.([]any); ok {
		return list
	}
	return []any{v}
}
