package commands

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/c360studio/folkgraph/config"
	"github.com/c360studio/folkgraph/graph"
	"github.com/c360studio/folkgraph/tabular"
)

func (a *app) volumesCmd() *cobra.Command {
	var (
		csvPath    string
		mapPath    string
		outPath    string
		volumeIDs  []string
		collection string
		limit      int
	)

	cmd := &cobra.Command{
		Use:   "volumes",
		Short: "Build the volume and collection graph",
		Long: `Build the bibliographic graph of archive volumes and their
collections from the canonical corpus table. The optional mapping table
attaches external catalogue page links and archive PIDs.

Examples:
  folkgraph volumes
  folkgraph volumes --collection "ERA, Vene" --limit 10
  folkgraph volumes --csv data/processed/corpus_canonical.csv --out rdf/serialization/volumes.ttl`,
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

			var mapping *tabular.Table
			mapIn := resolve(mapPath, a.cfg.Paths.MappingCSV)
			if _, statErr := os.Stat(mapIn); statErr == nil {
				mapping, err = refTables.Get(mapIn)
				if err != nil {
					return err
				}
			} else {
				a.logger.Warn("Mapping table missing, volumes get no archive links",
					"path", mapIn)
			}

			b := graph.NewBuilder(a.logger)
			g, err := b.BuildVolumes(t, mapping, graph.Options{
				Collection: collection,
				IDs:        volumeIDs,
				Limit:      limit,
			})
			if err != nil {
				return err
			}

			out := resolve(outPath, os.Getenv("CORPUS_VOLUMES_TTL"),
				filepath.Join(a.cfg.Paths.OutDir, "volumes.ttl"))
			return a.writeArtifacts(g, out)
		},
	}

	cmd.Flags().StringVar(&csvPath, "csv", "", "Canonical corpus table (default from config)")
	cmd.Flags().StringVar(&mapPath, "mapping", "", "Volume mapping table with archive links")
	cmd.Flags().StringVar(&outPath, "out", "", "Output Turtle path")
	cmd.Flags().StringSliceVar(&volumeIDs, "volume-ids", nil, "Build only these volume ids")
	cmd.Flags().StringVar(&collection, "collection", "", "Build only this collection")
	cmd.Flags().IntVar(&limit, "limit", 0, "Cap the number of input rows")

	return cmd
}
