package graph

import (
	"strings"

	"github.com/c360studio/folkgraph/identity"
	"github.com/c360studio/folkgraph/vocabulary/folk"
)

// Authority IRIs referenced by the dataset description.
const (
	accessRightPublic = "http://publications.europa.eu/resource/authority/access-right/PUBLIC"
	themeCulture      = "https://publications.europa.eu/resource/authority/data-theme/CULT"
	licenseCCBY       = "https://creativecommons.org/licenses/by/4.0/"
	spatialEstonia    = "http://www.wikidata.org/entity/Q191"
	spatialRussia     = "http://www.wikidata.org/entity/Q159"
)

// Distribution describes one downloadable rendition of the dataset.
type Distribution struct {
	ID          string
	Title       string
	MediaType   string
	AccessURL   string
	DownloadURL string
}

// DatasetInfo configures the dataset node of a corpus build. Zero-value
// fields fall back to the project defaults.
type DatasetInfo struct {
	// ID is the dataset path under the dataset segment, e.g. "corpus/v1".
	ID string

	Title       string
	Description string

	// IssuedYear is emitted as xsd:gYear when set.
	IssuedYear string

	// DerivedFrom lists archive URLs for prov:wasDerivedFrom.
	DerivedFrom []string

	Distributions []Distribution
}

const defaultArchiveURL = "https://kivike.kirmus.ee/"

// DefaultDatasetInfo returns the corpus/v1 description with the standard
// serialization artifacts as distributions.
func DefaultDatasetInfo() DatasetInfo {
	const site = "https://folkgraph.c360.dev/data"
	ttl := func(id, title, stem string) Distribution {
		return Distribution{
			ID:          id,
			Title:       title,
			MediaType:   "text/turtle",
			AccessURL:   site + "/serialization/" + stem + ".ttl",
			DownloadURL: site + "/serialization/" + stem + ".ttl",
		}
	}
	return DatasetInfo{
		ID:    "corpus/v1",
		Title: "Folktale corpus v1",
		Description: "A curated corpus of Russian-language folktales from the " +
			"Estonian Folklore Archives, modeled as a knowledge graph with " +
			"linked agents, bibliographic volumes and collections, and ATU " +
			"tale type concepts.",
		DerivedFrom: []string{defaultArchiveURL},
		Distributions: []Distribution{
			ttl("corpus-ttl", "Corpus graph (Turtle)", "corpus"),
			ttl("volumes-ttl", "Volumes graph (Turtle)", "volumes"),
			ttl("taletypes-ttl", "Tale type concepts graph (Turtle)", "taletypes"),
			ttl("biblio-ttl", "Bibliographic sources graph (Turtle)", "biblio_sources"),
			{
				ID:        "canonical-csv",
				Title:     "Canonical table (CSV)",
				MediaType: "text/csv",
				AccessURL: site + "/processed/corpus_canonical.csv",
			},
		},
	}
}

// withDefaults fills unset fields from DefaultDatasetInfo.
func (ds DatasetInfo) withDefaults() DatasetInfo {
	def := DefaultDatasetInfo()
	if ds.ID == "" {
		ds.ID = def.ID
	}
	if ds.Title == "" {
		ds.Title = def.Title
	}
	if ds.Description == "" {
		ds.Description = def.Description
	}
	if len(ds.DerivedFrom) == 0 {
		ds.DerivedFrom = def.DerivedFrom
	}
	if len(ds.Distributions) == 0 {
		ds.Distributions = def.Distributions
	}
	return ds
}

// BuildDataset emits the dcat:Dataset node for one corpus build plus a
// dcterms:isPartOf membership edge for every tale. Exactly one dataset
// node exists per build.
func (b *Builder) BuildDataset(tales []IRI, ds DatasetInfo) (*Graph, error) {
	ds = ds.withDefaults()

	// The dataset id carries a real path separator ("corpus/v1"), so each
	// segment is minted independently.
	id, err := identity.MintParts(identity.KindDataset, strings.Split(ds.ID, "/")...)
	if err != nil {
		return nil, err
	}
	dsIRI := IRI(id)

	g := New()
	g.Add(dsIRI, folk.PredType, IRI(folk.ClassDataset))
	g.Add(dsIRI, folk.PredTitle, LangLiteral(ds.Title, "en"))
	g.Add(dsIRI, folk.PredDescription, LangLiteral(ds.Description, "en"))
	g.Add(dsIRI, folk.PredLicense, IRI(licenseCCBY))
	g.Add(dsIRI, folk.PredAccessRights, IRI(accessRightPublic))
	if y := identity.CleanWS(ds.IssuedYear); y != "" {
		g.Add(dsIRI, folk.PredIssued, TypedLiteral(y, XSDGYear))
	}

	g.Add(dsIRI, folk.PredKeyword, LangLiteral("folktale", "en"))
	g.Add(dsIRI, folk.PredKeyword, LangLiteral("fairytale", "en"))
	g.Add(dsIRI, folk.PredKeyword, LangLiteral("ATU types", "en"))
	g.Add(dsIRI, folk.PredKeyword, LangLiteral("сказка", "ru"))
	g.Add(dsIRI, folk.PredTheme, IRI(themeCulture))

	g.Add(dsIRI, folk.PredLanguage, PlainLiteral("en"))
	g.Add(dsIRI, folk.PredLanguage, PlainLiteral("ru"))
	g.Add(dsIRI, folk.PredLanguage, PlainLiteral("et"))
	g.Add(dsIRI, folk.PredSpatial, IRI(spatialEstonia))
	g.Add(dsIRI, folk.PredSpatial, IRI(spatialRussia))

	for _, u := range ds.DerivedFrom {
		if u = identity.CleanWS(u); u != "" {
			g.Add(dsIRI, folk.PredWasDerivedFrom, IRI(u))
		}
	}

	for _, dist := range ds.Distributions {
		slug := identity.Slugify(dist.ID)
		distIRI := IRI(string(dsIRI) + "/distribution/" + slug)
		g.Add(dsIRI, folk.PredDistribution, distIRI)
		g.Add(distIRI, folk.PredType, IRI(folk.ClassDistribution))
		g.Add(distIRI, folk.PredTitle, LangLiteral(dist.Title, "en"))
		g.Add(distIRI, folk.PredFormat, PlainLiteral(dist.MediaType))
		if dist.AccessURL != "" {
			g.Add(distIRI, folk.PredAccessURL, IRI(dist.AccessURL))
		}
		if dist.DownloadURL != "" {
			g.Add(distIRI, folk.PredDownloadURL, IRI(dist.DownloadURL))
		}
	}

	for _, tale := range tales {
		g.Add(tale, folk.PredIsPartOf, dsIRI)
	}
	return g, nil
}
