// Package quality computes the coverage and completeness log for a
// built graph: which tales carry which descriptive properties, how
// volumes document their sources, and a few datatype sanity checks.
// The analyzer only reads the graph; it never blocks or repairs a
// build.
package quality

import (
	"encoding/json"
	"math"
	"time"

	"github.com/c360studio/folkgraph/graph"
	"github.com/c360studio/folkgraph/vocabulary/folk"
)

// Metric is one count with its share of the entity total.
type Metric struct {
	Count   int     `json:"count"`
	Percent float64 `json:"percent"`
}

// Inputs records where the analyzed graph came from.
type Inputs struct {
	TTL string `json:"ttl,omitempty"`
}

// Size holds graph-level totals.
type Size struct {
	Triples int `json:"triples"`
}

// Entities counts the typed entities and referenced resources.
type Entities struct {
	Tales                 int `json:"tales"`
	Volumes               int `json:"volumes"`
	Collections           int `json:"collections"`
	ATUConceptsReferenced int `json:"atu_concepts_referenced"`
	PersonsReferenced     int `json:"persons_referenced"`
}

// Coverage counts tales carrying each tracked descriptive property.
type Coverage struct {
	TalesWithIsPartOfVolume      Metric `json:"tales_with_isPartOf_volume"`
	TalesWithATUSubject          Metric `json:"tales_with_atu_subject"`
	TalesWithCreated             Metric `json:"tales_with_created"`
	TalesWithAccessRights        Metric `json:"tales_with_accessRights"`
	TalesWithRights              Metric `json:"tales_with_rights"`
	TalesWithContributorNarrator Metric `json:"tales_with_contributor_narrator"`
	TalesWithSpatial             Metric `json:"tales_with_spatial"`
	CollectionsWithLabelLangtag  Metric `json:"collections_with_label_langtag"`
}

// Completeness applies the documented direct-or-derived rules.
type Completeness struct {
	TalesWithRights   Metric `json:"tales_with_rights"`
	TalesWithSource   Metric `json:"tales_with_source"`
	TalesWithPlace    Metric `json:"tales_with_place"`
	TalesWithDate     Metric `json:"tales_with_date"`
	VolumesWithSource Metric `json:"volumes_with_source"`
}

// VolumeSourceBreakdown splits volume source completeness by predicate.
type VolumeSourceBreakdown struct {
	VolumesWithFoafPage    Metric `json:"volumes_with_foaf_page"`
	VolumesWithDctSource   Metric `json:"volumes_with_dct_source"`
	VolumesWithRdfsSeeAlso Metric `json:"volumes_with_rdfs_seeAlso"`
}

// Sanity flags datatype problems that SHACL would also catch.
type Sanity struct {
	TalesCreatedWrongDatatype int `json:"tales_created_wrong_datatype"`
}

// Notes documents the derivation rules verbatim so a reader of the log
// never has to guess what a metric means.
type Notes struct {
	TalesWithSourceDefinition   string `json:"tales_with_source_definition"`
	VolumesWithSourceDefinition string `json:"volumes_with_source_definition"`
	FoafPageIRIUsed             string `json:"foaf_page_iri_used"`
}

// Report is the quality log for one analyzed graph.
type Report struct {
	GeneratedAtTime       string                `json:"generatedAtTime"`
	Inputs                Inputs                `json:"inputs"`
	Size                  Size                  `json:"size"`
	Entities              Entities              `json:"entities"`
	Coverage              Coverage              `json:"coverage"`
	Completeness          Completeness          `json:"completeness"`
	VolumeSourceBreakdown VolumeSourceBreakdown `json:"volume_source_breakdown"`
	Sanity                Sanity                `json:"sanity"`
	Notes                 Notes                 `json:"notes"`
}

// JSON renders the report with two-space indentation and a trailing
// newline.
func (r *Report) JSON() ([]byte, error) {
	out, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(out, '\n'), nil
}

// Analyze computes the quality log for one graph. The caller fills
// Report.Inputs; everything else derives from the triples.
func Analyze(g *graph.Graph) *Report {
	tales := iriSet(g.SubjectsOfType(graph.IRI(folk.ClassLinguisticObject)))
	volumes := iriSet(g.SubjectsOfType(graph.IRI(folk.ClassBibliographicResource)))
	collections := iriSet(g.SubjectsOfType(graph.IRI(folk.ClassCollection)))

	// One pass over the statements collects everything the metrics
	// need: which subjects carry which predicate, which of those
	// carry an IRI object, and the referenced concept and person sets.
	carriers := make(map[graph.IRI]map[graph.IRI]bool)
	iriCarriers := make(map[graph.IRI]map[graph.IRI]bool)
	atuRefs := make(map[graph.IRI]bool)
	personRefs := make(map[graph.IRI]bool)
	partOf := make(map[graph.IRI][]graph.IRI)
	taggedLabel := make(map[graph.IRI]bool)
	badCreated := 0

	for _, t := range g.Triples() {
		mark(carriers, t.Predicate, t.Subject)
		obj, objIsIRI := t.Object.(graph.IRI)
		if objIsIRI {
			mark(iriCarriers, t.Predicate, t.Subject)
		}

		switch t.Predicate {
		case folk.PredSubject:
			if objIsIRI {
				atuRefs[obj] = true
			}
		case folk.PredCreator, folk.PredContributor:
			if objIsIRI {
				personRefs[obj] = true
			}
		case folk.PredIsPartOf:
			if objIsIRI {
				partOf[t.Subject] = append(partOf[t.Subject], obj)
			}
		case folk.PredCreated:
			if tales[t.Subject] {
				if lit, ok := t.Object.(graph.Literal); !ok || lit.Datatype != graph.XSDDate {
					badCreated++
				}
			}
		case folk.PredLabel:
			if lit, ok := t.Object.(graph.Literal); ok && lit.Lang != "" {
				taggedLabel[t.Subject] = true
			}
		}
	}

	countIn := func(set map[graph.IRI]bool, index map[graph.IRI]map[graph.IRI]bool, preds ...graph.IRI) int {
		n := 0
		for s := range set {
			for _, p := range preds {
				if index[p][s] {
					n++
					break
				}
			}
		}
		return n
	}

	collLang := 0
	for c := range collections {
		if taggedLabel[c] {
			collLang++
		}
	}

	// Tale source is direct-or-derived: a direct citation wins, else
	// any containing volume with a documented source stands in.
	volSourcePreds := []graph.IRI{folk.PredFoafPage, folk.PredSource, folk.PredSeeAlso}
	hasAny := func(s graph.IRI, preds []graph.IRI) bool {
		for _, p := range preds {
			if carriers[p][s] {
				return true
			}
		}
		return false
	}
	talesSource := 0
	for t := range tales {
		if hasAny(t, []graph.IRI{folk.PredSource, folk.PredBibliographicCitation}) {
			talesSource++
			continue
		}
		for _, v := range partOf[t] {
			if hasAny(v, volSourcePreds) {
				talesSource++
				break
			}
		}
	}

	nTales, nVolumes, nColls := len(tales), len(volumes), len(collections)
	metric := func(count, total int) Metric {
		return Metric{Count: count, Percent: pct(count, total)}
	}

	return &Report{
		GeneratedAtTime: time.Now().UTC().Format(time.RFC3339),
		Size:            Size{Triples: g.Len()},
		Entities: Entities{
			Tales:                 nTales,
			Volumes:               nVolumes,
			Collections:           nColls,
			ATUConceptsReferenced: len(atuRefs),
			PersonsReferenced:     len(personRefs),
		},
		Coverage: Coverage{
			TalesWithIsPartOfVolume:      metric(countIn(tales, carriers, folk.PredIsPartOf), nTales),
			TalesWithATUSubject:          metric(countIn(tales, iriCarriers, folk.PredSubject), nTales),
			TalesWithCreated:             metric(countIn(tales, carriers, folk.PredCreated), nTales),
			TalesWithAccessRights:        metric(countIn(tales, carriers, folk.PredAccessRights), nTales),
			TalesWithRights:              metric(countIn(tales, carriers, folk.PredRights), nTales),
			TalesWithContributorNarrator: metric(countIn(tales, iriCarriers, folk.PredContributor), nTales),
			TalesWithSpatial:             metric(countIn(tales, carriers, folk.PredSpatial), nTales),
			CollectionsWithLabelLangtag:  metric(collLang, nColls),
		},
		Completeness: Completeness{
			TalesWithRights:   metric(countIn(tales, carriers, folk.PredAccessRights, folk.PredRights), nTales),
			TalesWithSource:   metric(talesSource, nTales),
			TalesWithPlace:    metric(countIn(tales, carriers, folk.PredSpatial), nTales),
			TalesWithDate:     metric(countIn(tales, carriers, folk.PredCreated), nTales),
			VolumesWithSource: metric(countIn(volumes, carriers, volSourcePreds...), nVolumes),
		},
		VolumeSourceBreakdown: VolumeSourceBreakdown{
			VolumesWithFoafPage:    metric(countIn(volumes, carriers, folk.PredFoafPage), nVolumes),
			VolumesWithDctSource:   metric(countIn(volumes, carriers, folk.PredSource), nVolumes),
			VolumesWithRdfsSeeAlso: metric(countIn(volumes, carriers, folk.PredSeeAlso), nVolumes),
		},
		Sanity: Sanity{TalesCreatedWrongDatatype: badCreated},
		Notes: Notes{
			TalesWithSourceDefinition: "direct: tale has dcterms:source OR dcterms:bibliographicCitation; " +
				"fallback: tale dcterms:isPartOf volume AND volume has foaf:page OR dcterms:source OR rdfs:seeAlso",
			VolumesWithSourceDefinition: "volume has foaf:page OR dcterms:source OR rdfs:seeAlso",
			FoafPageIRIUsed:             folk.PredFoafPage,
		},
	}
}

func iriSet(in []graph.IRI) map[graph.IRI]bool {
	set := make(map[graph.IRI]bool, len(in))
	for _, s := range in {
		set[s] = true
	}
	return set
}

func mark(index map[graph.IRI]map[graph.IRI]bool, pred, subj graph.IRI) {
	m := index[pred]
	if m == nil {
		m = make(map[graph.IRI]bool)
		index[pred] = m
	}
	m[subj] = true
}

// pct is the share of part in whole as a percentage rounded to two
// decimals, zero when the total is zero.
func pct(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	v := float64(part) / float64(whole) * 100
	return math.Round(v*100) / 100
}
