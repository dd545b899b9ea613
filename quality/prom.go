package quality

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type namedMetric struct {
	name string
	m    Metric
}

func (c Coverage) list() []namedMetric {
	return []namedMetric{
		{"tales_with_isPartOf_volume", c.TalesWithIsPartOfVolume},
		{"tales_with_atu_subject", c.TalesWithATUSubject},
		{"tales_with_created", c.TalesWithCreated},
		{"tales_with_accessRights", c.TalesWithAccessRights},
		{"tales_with_rights", c.TalesWithRights},
		{"tales_with_contributor_narrator", c.TalesWithContributorNarrator},
		{"tales_with_spatial", c.TalesWithSpatial},
		{"collections_with_label_langtag", c.CollectionsWithLabelLangtag},
	}
}

func (c Completeness) list() []namedMetric {
	return []namedMetric{
		{"tales_with_rights", c.TalesWithRights},
		{"tales_with_source", c.TalesWithSource},
		{"tales_with_place", c.TalesWithPlace},
		{"tales_with_date", c.TalesWithDate},
		{"volumes_with_source", c.VolumesWithSource},
	}
}

// WriteTextfile renders the report as Prometheus gauges in the node
// exporter textfile format. Each call writes a fresh registry so the
// file always reflects exactly one analyzed graph.
func WriteTextfile(r *Report, path string) error {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	factory.NewGauge(prometheus.GaugeOpts{
		Name: "folkgraph_triples_total",
		Help: "Unique triples in the analyzed graph.",
	}).Set(float64(r.Size.Triples))

	entities := factory.NewGaugeVec(prometheus.GaugeOpts{
		Name: "folkgraph_entities",
		Help: "Typed entities and referenced resources in the analyzed graph.",
	}, []string{"type"})
	entities.WithLabelValues("tales").Set(float64(r.Entities.Tales))
	entities.WithLabelValues("volumes").Set(float64(r.Entities.Volumes))
	entities.WithLabelValues("collections").Set(float64(r.Entities.Collections))
	entities.WithLabelValues("atu_concepts_referenced").Set(float64(r.Entities.ATUConceptsReferenced))
	entities.WithLabelValues("persons_referenced").Set(float64(r.Entities.PersonsReferenced))

	coverage := factory.NewGaugeVec(prometheus.GaugeOpts{
		Name: "folkgraph_coverage_percent",
		Help: "Share of entities carrying each tracked property.",
	}, []string{"metric"})
	for _, nm := range r.Coverage.list() {
		coverage.WithLabelValues(nm.name).Set(nm.m.Percent)
	}

	completeness := factory.NewGaugeVec(prometheus.GaugeOpts{
		Name: "folkgraph_completeness_percent",
		Help: "Share of entities satisfying each derived completeness rule.",
	}, []string{"metric"})
	for _, nm := range r.Completeness.list() {
		completeness.WithLabelValues(nm.name).Set(nm.m.Percent)
	}

	return prometheus.WriteToTextfile(path, reg)
}
