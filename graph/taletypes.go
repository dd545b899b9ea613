package graph

import (
	"sort"

	"github.com/c360studio/folkgraph/identity"
	"github.com/c360studio/folkgraph/tabular"
	"github.com/c360studio/folkgraph/vocabulary/folk"
)

// ATUSchemeIRI identifies the tale type concept scheme.
const ATUSchemeIRI IRI = folk.Namespace + "ATU_Scheme"

// SchemeLabelEN is the English title of the printed catalogue the scheme
// mirrors.
const SchemeLabelEN = "THE TYPES OF INTERNATIONAL FOLKTALES Based on the System of Antti Aarne and Stith Thompson"

// BuildTaleTypes builds the SKOS vocabulary of classification codes from
// the reference table. Codes deduplicate first-wins and are emitted in
// catalogue order: numeric type, letter suffix, star count. Each concept
// cites the catalogue volume its numeric range belongs to.
func (b *Builder) BuildTaleTypes(t *tabular.Table) (*Graph, error) {
	if err := t.Require("atu_code"); err != nil {
		return nil, err
	}

	type entry struct {
		title string
		desc  string
	}
	entries := make(map[string]entry)
	var codes []string
	for _, row := range t.Rows {
		code := identity.Notation(row.Get("atu_code"))
		if code == "" {
			continue
		}
		if _, ok := entries[code]; ok {
			continue
		}
		entries[code] = entry{title: row.Get("title"), desc: row.Get("description")}
		codes = append(codes, code)
	}

	sort.SliceStable(codes, func(i, j int) bool {
		ni, si, ki := identity.CodeSortKey(codes[i])
		nj, sj, kj := identity.CodeSortKey(codes[j])
		if ni != nj {
			return ni < nj
		}
		if si != sj {
			return si < sj
		}
		return ki < kj
	})

	g := New()
	g.Add(ATUSchemeIRI, folk.PredType, IRI(folk.ClassConceptScheme))
	g.Add(ATUSchemeIRI, folk.PredPrefLabel, LangLiteral(SchemeLabelEN, "en"))
	g.Add(ATUSchemeIRI, folk.PredSource, biblioIRI(biblioSetID))

	for _, code := range codes {
		concept, ok := b.mintIRI(identity.KindConcept, code)
		if !ok {
			continue
		}
		e := entries[code]

		g.Add(concept, folk.PredType, IRI(folk.ClassSkosConcept))
		g.Add(concept, folk.PredType, IRI(folk.ClassTaleType))
		g.Add(concept, folk.PredInScheme, ATUSchemeIRI)
		g.Add(concept, folk.PredNotation, PlainLiteral(code))
		g.Add(concept, folk.PredSource, sourceForCode(code))

		pref := "ATU " + code
		if e.title != "" {
			pref += " " + e.title
		}
		g.Add(concept, folk.PredPrefLabel, LangLiteral(pref, "en"))
		if e.desc != "" {
			g.Add(concept, folk.PredDefinition, LangLiteral(e.desc, "en"))
		}
	}
	return g, nil
}

// sourceForCode picks the catalogue volume for a code: types below 1000
// are in the first volume, the rest in the second.
func sourceForCode(code string) IRI {
	if identity.NumericPrefix(code) >= 1000 {
		return biblioIRI(biblioVol2ID)
	}
	return biblioIRI(biblioVol1ID)
}
