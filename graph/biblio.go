package graph

import (
	"github.com/c360studio/folkgraph/vocabulary/folk"
)

// Local ids of the catalogue authority records. The set record covers the
// three-volume Uther catalogue as a whole.
const (
	biblioSetID  = "ffc_284-286_2011_uther"
	biblioVol1ID = "ffc_284_2011"
	biblioVol2ID = "ffc_285_2011"
	biblioVol3ID = "ffc_286_2011"
)

// biblioIRI builds a biblio entity IRI from a path-safe local id.
func biblioIRI(id string) IRI {
	return IRI(folk.EntityNamespace + folk.SegmentBiblio + "/" + id)
}

type biblioPart struct {
	id      string
	label   string
	oclc    string
	seeAlso []string
}

var biblioParts = []biblioPart{
	{
		id:    biblioVol1ID,
		label: "FFC 284 (2011): Animal Tales, Tales of Magic, Religious Tales, and Realistic Tales",
		oclc:  "974404961",
		seeAlso: []string{
			"https://edition.fi/kalevalaseura/catalog/book/763",
			"https://search.worldcat.org/it/title/974404961",
		},
	},
	{
		id:    biblioVol2ID,
		label: "FFC 285 (2011): Tales of the Stupid Ogre, Anecdotes and Jokes, and Formula Tales",
		oclc:  "974406311",
		seeAlso: []string{
			"https://edition.fi/kalevalaseura/catalog/book/765",
			"https://search.worldcat.org/it/title/974406311",
		},
	},
	{
		id:    biblioVol3ID,
		label: "FFC 286 (2011): Appendices",
		oclc:  "974415887",
		seeAlso: []string{
			"https://edition.fi/kalevalaseura/catalog/book/769",
			"https://search.worldcat.org/it/title/974415887",
		},
	},
}

const (
	biblioSetLabel = "FFC 284–286 (2011): The Types of International Folktales – A Classification and Bibliography"

	biblioSetCitation = "Folklore Fellows’ Communications (FFC) 284–286. " +
		"Sastamala: Vammalan Kirjapaino Oy, 2011. First published in 2004."

	biblioSetPage = "https://edition.fi/kalevalaseura/catalog/view/763/715/2750-1"
)

// BuildBiblio emits the authority records for the ATU catalogue: the
// three-volume set plus each volume with its OCLC identifier and
// catalogue pages. The record set is fixed; it never depends on input
// tables.
func (b *Builder) BuildBiblio() *Graph {
	g := New()

	set := biblioIRI(biblioSetID)
	g.Add(set, folk.PredType, IRI(folk.ClassBibliographicResource))
	g.Add(set, folk.PredType, IRI(folk.ClassProvEntity))
	g.Add(set, folk.PredLabel, LangLiteral(biblioSetLabel, "en"))
	g.Add(set, folk.PredBibliographicCitation, LangLiteral(biblioSetCitation, "en"))
	g.Add(set, folk.PredSeeAlso, IRI(biblioSetPage))

	for _, part := range biblioParts {
		p := biblioIRI(part.id)
		g.Add(p, folk.PredType, IRI(folk.ClassBibliographicResource))
		g.Add(p, folk.PredType, IRI(folk.ClassProvEntity))
		g.Add(p, folk.PredLabel, LangLiteral(part.label, "en"))
		g.Add(p, folk.PredIsPartOf, set)
		g.Add(set, folk.PredHasPart, p)
		for _, u := range part.seeAlso {
			g.Add(p, folk.PredSeeAlso, IRI(u))
		}
		if part.oclc != "" {
			g.Add(p, folk.PredIdentifier, PlainLiteral("OCLC:"+part.oclc))
		}
	}
	return g
}
