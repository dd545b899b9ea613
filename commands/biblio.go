package commands

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/c360studio/folkgraph/graph"
)

func (a *app) biblioCmd() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "biblio",
		Short: "Build the bibliographic sources graph",
		Long: `Build the graph of catalogue records the tale type concepts cite:
the printed ATU catalogue volumes and the set they form.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(); err != nil {
				return err
			}

			b := graph.NewBuilder(a.logger)
			g := b.BuildBiblio()

			out := resolve(outPath, filepath.Join(a.cfg.Paths.OutDir, "biblio_sources.ttl"))
			return a.writeArtifacts(g, out)
		},
	}

	cmd.Flags().StringVar(&outPath, "out", "", "Output Turtle path")

	return cmd
}
