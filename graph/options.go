package graph

import (
	"github.com/c360studio/folkgraph/identity"
	"github.com/c360studio/folkgraph/tabular"
)

// Options narrows the input table before a build. Filtering always happens
// on rows, never by deleting nodes from a finished graph.
type Options struct {
	// Collection keeps only rows whose collection column matches exactly
	// after whitespace cleanup. Empty means no collection filter.
	Collection string

	// IDs keeps only rows whose id column value is in the list.
	// Empty means no id filter.
	IDs []string

	// Limit caps the number of rows after the other filters.
	// Zero or negative means no cap.
	Limit int
}

// Apply returns the filtered table. idColumn names the column the IDs
// filter matches against.
func (o Options) Apply(t *tabular.Table, idColumn string) *tabular.Table {
	out := t
	if want := identity.CleanWS(o.Collection); want != "" {
		out = out.Filter(func(r tabular.Row) bool {
			return r.Get("collection") == want
		})
	}
	if len(o.IDs) > 0 {
		keep := make(map[string]struct{}, len(o.IDs))
		for _, id := range o.IDs {
			if v := identity.CleanWS(id); v != "" {
				keep[v] = struct{}{}
			}
		}
		out = out.Filter(func(r tabular.Row) bool {
			_, ok := keep[r.Get(idColumn)]
			return ok
		})
	}
	return out.Limit(o.Limit)
}
