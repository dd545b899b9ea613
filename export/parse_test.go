package export_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/c360studio/folkgraph/export"
	"github.com/c360studio/folkgraph/graph"
	"github.com/c360studio/folkgraph/vocabulary/folk"
)

func TestParseTurtleRoundTrip(t *testing.T) {
	g := sampleGraph()
	ttl := export.NewWriter(g).Turtle()

	parsed, err := export.Parse(bytes.NewReader(ttl))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if !g.Equal(parsed) {
		t.Fatalf("round trip lost triples: %d in, %d out", g.Len(), parsed.Len())
	}

	// Serializing the parsed graph again reproduces the bytes.
	again := export.NewWriter(parsed).Turtle()
	if !bytes.Equal(ttl, again) {
		t.Error("reserializing a parsed graph should be stable")
	}
}

func TestParseTurtleHandwritten(t *testing.T) {
	src := `# volumes export
PREFIX dcterms: <http://purl.org/dc/terms/>
@prefix rft: <https://folkgraph.c360.dev/ontology/#> .

<https://folkgraph.c360.dev/rdf/volume/V1> a dcterms:BibliographicResource ;
    dcterms:identifier "V1", "vol-1" ;  # two spellings
    rft:placeLabel "Setomaa"@et .
`
	g, err := export.Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	vol := graph.IRI("https://folkgraph.c360.dev/rdf/volume/V1")
	if !g.Has(vol, folk.PredType, graph.IRI(folk.ClassBibliographicResource)) {
		t.Error("the a shorthand should expand to rdf:type")
	}
	if !g.Has(vol, folk.PredIdentifier, graph.PlainLiteral("vol-1")) {
		t.Error("comma-separated objects should all be kept")
	}
	if !g.Has(vol, graph.IRI(folk.PropPlaceLabel), graph.LangLiteral("Setomaa", "et")) {
		t.Error("language tag lost")
	}
	if g.Len() != 4 {
		t.Errorf("expected 4 triples, got %d", g.Len())
	}
}

func TestParseTurtleErrors(t *testing.T) {
	cases := []struct {
		name string
		src  string
		want string
	}{
		{
			name: "unknown prefix",
			src:  "\n\n<https://x.test/s> dcterms:title \"x\" .\n",
			want: `line 3: unknown prefix "dcterms"`,
		},
		{
			name: "unterminated string",
			src:  "<https://x.test/s> <https://x.test/p> \"never closed .\n",
			want: "line 1: unterminated string",
		},
		{
			name: "unsupported escape",
			src:  "<https://x.test/s> <https://x.test/p> \"bad \\u0041\" .\n",
			want: `unsupported escape \u`,
		},
		{
			name: "missing terminator",
			src:  "<https://x.test/s> <https://x.test/p> \"x\"\n",
			want: "expected ';' or '.'",
		},
		{
			name: "blank node",
			src:  "_:b0 <https://x.test/p> \"x\" .\n",
			want: "blank nodes are not supported",
		},
		{
			name: "unsupported directive",
			src:  "@base <https://x.test/> .\n",
			want: "unsupported directive @base",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := export.Parse(strings.NewReader(tc.src))
			if err == nil {
				t.Fatal("expected a parse error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("error %q should mention %q", err, tc.want)
			}
		})
	}
}
