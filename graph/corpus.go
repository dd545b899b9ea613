package graph

import (
	"regexp"
	"sort"
	"time"

	"github.com/c360studio/folkgraph/identity"
	"github.com/c360studio/folkgraph/tabular"
	"github.com/c360studio/folkgraph/vocabulary/folk"
)

var (
	strictDateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	yearRe       = regexp.MustCompile(`\b(\d{4})\b`)
	intRe        = regexp.MustCompile(`\b(\d+)\b`)
)

// BuildCorpus builds the full corpus graph in fixed order: containers
// first, then tale records, then agents, then the dataset description
// with its membership edges. Tales deduplicate by id with the first row
// winning; agent labels accumulate as a set across rows.
func (b *Builder) BuildCorpus(t *tabular.Table, opts Options, ds DatasetInfo) (*Graph, error) {
	if err := t.Require("tale_id", "volume_id"); err != nil {
		return nil, err
	}
	t = opts.Apply(t, "tale_id")

	g := New()
	b.addContainers(g, t)
	tales := b.addTales(g, t)
	b.addAgents(g, t)

	dsGraph, err := b.BuildDataset(tales, ds)
	if err != nil {
		return nil, err
	}
	g.Merge(dsGraph)
	return g, nil
}

// addTales emits one node per distinct tale id and returns the tale IRIs
// in first-appearance order.
func (b *Builder) addTales(g *Graph, t *tabular.Table) []IRI {
	var tales []IRI
	seen := make(map[string]bool)
	for _, row := range t.Rows {
		tid := row.Get("tale_id")
		if tid == "" || seen[tid] {
			continue
		}
		seen[tid] = true
		taleIRI, ok := b.mintIRI(identity.KindTale, tid)
		if !ok {
			continue
		}
		tales = append(tales, taleIRI)

		g.Add(taleIRI, folk.PredType, IRI(folk.ClassLinguisticObject))
		g.Add(taleIRI, folk.PredType, IRI(folk.ClassTale))
		g.Add(taleIRI, folk.PredIdentifier, PlainLiteral(tid))

		if vid := row.Get("volume_id"); vid != "" {
			if volIRI, ok := b.mintIRI(identity.KindVolume, vid); ok {
				g.Add(taleIRI, folk.PredIsPartOf, volIRI)
			}
		}
		if lit, ok := langLit(row.Get("description")); ok {
			g.Add(taleIRI, folk.PredDescription, lit)
		}
		if v := row.Get("access_rights"); v != "" && !identity.IsMissingToken(v) {
			g.Add(taleIRI, folk.PredAccessRights, PlainLiteral(v))
		}
		if v := row.Get("rights"); v != "" && !identity.IsMissingToken(v) {
			g.Add(taleIRI, folk.PredRights, PlainLiteral(v))
		}
		if v := row.Get("source_ref"); v != "" {
			g.Add(taleIRI, folk.PredBibliographicCitation, PlainLiteral(v))
		}
		b.addRecordingDate(g, taleIRI, tid, row.Get("recording_date"))

		if place := row.Get("place"); place != "" && !identity.IsMissingToken(place) {
			if plIRI, ok := b.mintIRI(identity.KindPlace, place); ok {
				g.Add(taleIRI, folk.PredSpatial, plIRI)
			}
			if lit, ok := langLit(place); ok {
				g.Add(taleIRI, folk.PropPlaceLabel, lit)
			}
		}
		for _, code := range tabular.ParseList(row.Get("atu_codes")) {
			if cIRI, ok := b.mintIRI(identity.KindConcept, code); ok {
				g.Add(taleIRI, folk.PredSubject, cIRI)
			}
		}
		for _, nid := range tabular.ParseList(row.Get("narrator_person_id")) {
			if pIRI, ok := b.mintIRI(identity.KindPerson, nid); ok {
				g.Add(taleIRI, folk.PredContributor, pIRI)
			}
		}
	}
	return tales
}

// addRecordingDate validates the strict YYYY-MM-DD shape plus the
// calendar. Malformed dates are dropped with a warning, never fatal.
func (b *Builder) addRecordingDate(g *Graph, taleIRI IRI, tid, raw string) {
	v := identity.CleanWS(raw)
	if v == "" || identity.IsMissingToken(v) {
		return
	}
	if !strictDateRe.MatchString(v) {
		b.logger.Warn("dropping malformed recording date", "tale", tid, "value", v)
		return
	}
	if _, err := time.Parse("2006-01-02", v); err != nil {
		b.logger.Warn("dropping malformed recording date", "tale", tid, "value", v)
		return
	}
	g.Add(taleIRI, folk.PredCreated, TypedLiteral(v, XSDDate))
}

// narratorMeta carries the per-narrator columns of the canonical table.
// The first row that supplies a field wins; later rows only fill gaps.
type narratorMeta struct {
	labelEN   string
	birthYear string
	age       string
	noteRaw   string
	nameRaw   string
}

func (m *narratorMeta) fillFrom(r tabular.Row) {
	if m.labelEN == "" {
		m.labelEN = r.Get("narrator_label_en")
	}
	if m.birthYear == "" {
		m.birthYear = r.Get("narrator_birth_year")
	}
	if m.age == "" {
		m.age = r.Get("narrator_age")
	}
	if m.noteRaw == "" {
		m.noteRaw = r.Get("narrator_note_raw")
	}
	if m.nameRaw == "" {
		m.nameRaw = r.Get("narrator_name_raw")
	}
}

// addAgents merges narrators and collectors by person id across all rows.
// Role classes are facts, not partitions: one person can hold both.
func (b *Builder) addAgents(g *Graph, t *tabular.Table) {
	narrators := make(map[string]*narratorMeta)
	collectors := make(map[string]map[string]struct{})

	for _, row := range t.Rows {
		for _, nid := range tabular.ParseList(row.Get("narrator_person_id")) {
			m, ok := narrators[nid]
			if !ok {
				m = &narratorMeta{}
				narrators[nid] = m
			}
			m.fillFrom(row)
		}

		cids := collectorIDs(row)
		labels := tabular.ParseList(row.Get("collectors_norm"))
		for _, cid := range cids {
			if collectors[cid] == nil {
				collectors[cid] = make(map[string]struct{})
			}
		}
		if len(cids) == 0 || len(labels) == 0 {
			continue
		}
		if len(cids) == len(labels) {
			for i, cid := range cids {
				collectors[cid][labels[i]] = struct{}{}
			}
		} else {
			// Ambiguous pairing: attach every label to every id rather
			// than guess an alignment.
			for _, cid := range cids {
				for _, lab := range labels {
					collectors[cid][lab] = struct{}{}
				}
			}
		}
	}

	ids := make([]string, 0, len(narrators)+len(collectors))
	seen := make(map[string]bool)
	for pid := range narrators {
		if !seen[pid] {
			seen[pid] = true
			ids = append(ids, pid)
		}
	}
	for pid := range collectors {
		if !seen[pid] {
			seen[pid] = true
			ids = append(ids, pid)
		}
	}
	sort.Strings(ids)

	for _, pid := range ids {
		pIRI, ok := b.mintIRI(identity.KindPerson, pid)
		if !ok {
			continue
		}
		g.Add(pIRI, folk.PredType, IRI(folk.ClassProvAgent))
		g.Add(pIRI, folk.PredType, IRI(folk.ClassPerson))
		g.Add(pIRI, folk.PredType, IRI(folk.ClassFoafPerson))
		if _, isNarr := narrators[pid]; isNarr {
			g.Add(pIRI, folk.PredType, IRI(folk.ClassNarrator))
		}
		if _, isColl := collectors[pid]; isColl {
			g.Add(pIRI, folk.PredType, IRI(folk.ClassCollector))
		}

		if m := narrators[pid]; m != nil {
			if v := identity.CleanWS(m.labelEN); v != "" {
				g.Add(pIRI, folk.PredLabel, LangLiteral(v, "en"))
			}
			if lit, ok := langLit(m.nameRaw); ok {
				g.Add(pIRI, folk.PredLabel, lit)
			}
			if lit, ok := langLit(m.noteRaw); ok {
				g.Add(pIRI, folk.PredComment, lit)
			}
			if y := yearRe.FindString(m.birthYear); y != "" {
				g.Add(pIRI, folk.PropBirthYear, TypedLiteral(y, XSDGYear))
			}
			if n := intRe.FindString(m.age); n != "" {
				g.Add(pIRI, folk.PropAge, TypedLiteral(n, XSDInteger))
			}
		}

		labs := make([]string, 0, len(collectors[pid]))
		for lab := range collectors[pid] {
			labs = append(labs, lab)
		}
		sort.Strings(labs)
		for _, lab := range labs {
			if lit, ok := langLit(lab); ok {
				g.Add(pIRI, folk.PredLabel, lit)
			}
		}

		// Every agent keeps at least one label for display.
		if !g.HasPredicate(pIRI, folk.PredLabel) {
			g.Add(pIRI, folk.PredLabel, PlainLiteral(pid))
		}
	}
}
