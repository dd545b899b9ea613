package graph

import (
	"regexp"
	"strings"

	"github.com/c360studio/folkgraph/identity"
	"github.com/c360studio/folkgraph/tabular"
	"github.com/c360studio/folkgraph/vocabulary/folk"
)

// volumeLabelRe captures the archive series ("ERA, Vene") and the volume
// number out of a full source reference like "ERA, Vene 5, 123/4 (7)".
var volumeLabelRe = regexp.MustCompile(`^\s*([^,]+,\s*[^,]+)\s*,\s*(\d+)\s*(?:,.*)?$`)

// VolumeLabel derives a short display label from a source reference,
// keeping the series and volume number and dropping page details.
// Falls back to the first two comma-separated parts, then to the whole
// cleaned string.
func VolumeLabel(sourceRef string) string {
	s := identity.CleanWS(sourceRef)
	if s == "" {
		return ""
	}
	if m := volumeLabelRe.FindStringSubmatch(s); m != nil {
		return identity.CleanWS(m[1]) + " " + identity.CleanWS(m[2])
	}
	var parts []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) >= 2 {
		return parts[0] + ", " + parts[1]
	}
	return s
}

// BuildVolumes builds the volume and collection graph from the canonical
// table. Rows missing a volume id or collection are skipped. Volume
// attributes come from the first row per volume id; creator edges
// accumulate across every row of that volume, each person exactly once.
// The optional mapping table attaches external catalogue page links and
// archive PIDs to volumes already in the graph.
func (b *Builder) BuildVolumes(t *tabular.Table, mapping *tabular.Table, opts Options) (*Graph, error) {
	if err := t.Require("volume_id", "collection"); err != nil {
		return nil, err
	}
	t = opts.Apply(t, "volume_id")

	g := New()
	built := b.addContainers(g, t)

	if mapping != nil {
		for _, row := range mapping.Rows {
			vid := row.Get("volume_id")
			volIRI, ok := built[vid]
			if !ok {
				continue
			}
			if u := row.Get("kivike_url"); u != "" {
				g.Add(volIRI, folk.PredFoafPage, IRI(u))
			}
			if pid := row.Get("kivike_pid"); pid != "" {
				g.Add(volIRI, folk.PredSource, PlainLiteral(pid))
			}
		}
	}
	return g, nil
}

// addContainers runs the container pass shared by the volumes and corpus
// builds. Returns the volumes built, keyed by raw volume id.
func (b *Builder) addContainers(g *Graph, t *tabular.Table) map[string]IRI {
	built := make(map[string]IRI)
	for _, row := range t.Rows {
		vid := row.Get("volume_id")
		coll := row.Get("collection")
		if vid == "" || coll == "" {
			continue
		}
		volIRI, ok := b.mintIRI(identity.KindVolume, vid)
		if !ok {
			continue
		}

		if _, done := built[vid]; !done {
			built[vid] = volIRI
			g.Add(volIRI, folk.PredType, IRI(folk.ClassBibliographicResource))
			g.Add(volIRI, folk.PredIdentifier, PlainLiteral(vid))
			if lbl := VolumeLabel(row.Get("source_ref")); lbl != "" {
				g.Add(volIRI, folk.PredLabel, PlainLiteral(lbl))
			}
			if collIRI, ok := b.mintIRI(identity.KindCollection, coll); ok {
				g.Add(volIRI, folk.PredIsPartOf, collIRI)
				g.Add(collIRI, folk.PredType, IRI(folk.ClassCollection))
				g.Add(collIRI, folk.PredLabel, LangLiteral(coll, "et"))
			}
		}

		// Creator links only; agent nodes come from the corpus build.
		for _, pid := range collectorIDs(row) {
			if pIRI, ok := b.mintIRI(identity.KindPerson, pid); ok {
				g.Add(volIRI, folk.PredCreator, pIRI)
			}
		}
	}
	return built
}
