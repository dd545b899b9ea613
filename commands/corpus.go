package commands

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/c360studio/folkgraph/config"
	"github.com/c360studio/folkgraph/graph"
	"github.com/c360studio/folkgraph/tabular"
)

func (a *app) corpusCmd() *cobra.Command {
	var (
		csvPath    string
		outPath    string
		ids        []string
		collection string
		limit      int
	)

	cmd := &cobra.Command{
		Use:   "corpus",
		Short: "Build the full corpus graph",
		Long: `Build the complete corpus graph from the canonical table: volumes
and collections, every tale with its descriptive properties, the
narrators and collectors, and the dataset description that ties the
build together.

Examples:
  folkgraph corpus
  folkgraph corpus --ids kp_013,kp_057
  folkgraph corpus --collection "ERA, Vene" --out rdf/serialization/corpus.ttl`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(); err != nil {
				return err
			}
			def := config.DefaultConfig()

			in := resolve(csvPath, a.cfg.Paths.CanonicalCSV)
			if err := requireInput("canonical table", in, def.Paths.CanonicalCSV, "--csv or env CORPUS_CANONICAL_CSV"); err != nil {
				return err
			}
			t, err := tabular.Load(in)
			if err != nil {
				return err
			}

			ds := graph.DefaultDatasetInfo()
			if a.cfg.Dataset.DerivedFrom != "" {
				ds.DerivedFrom = []string{a.cfg.Dataset.DerivedFrom}
			}

			b := graph.NewBuilder(a.logger)
			g, err := b.BuildCorpus(t, graph.Options{
				Collection: collection,
				IDs:        ids,
				Limit:      limit,
			}, ds)
			if err != nil {
				return err
			}

			out := resolve(outPath, os.Getenv("CORPUS_CORPUS_TTL"),
				filepath.Join(a.cfg.Paths.OutDir, "corpus.ttl"))
			return a.writeArtifacts(g, out)
		},
	}

	cmd.Flags().StringVar(&csvPath, "csv", "", "Canonical corpus table (default from config)")
	cmd.Flags().StringVar(&outPath, "out", "", "Output Turtle path")
	cmd.Flags().StringSliceVar(&ids, "ids", nil, "Build only these tale ids")
	cmd.Flags().StringVar(&collection, "collection", "", "Build only this collection")
	cmd.Flags().IntVar(&limit, "limit", 0, "Cap the number of input rows")

	return cmd
}
