package commands

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/c360studio/folkgraph/config"
	"github.com/c360studio/folkgraph/graph"
)

func (a *app) taletypesCmd() *cobra.Command {
	var (
		csvPath string
		outPath string
	)

	cmd := &cobra.Command{
		Use:   "taletypes",
		Short: "Build the SKOS vocabulary of tale type concepts",
		Long: `Build the ATU tale type concept scheme from the reference table.
Each code becomes a skos:Concept in catalogue order, citing the
catalogue volume its numeric range belongs to.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(); err != nil {
				return err
			}
			def := config.DefaultConfig()

			in := resolve(csvPath, a.cfg.Paths.ATUReference)
			if err := requireInput("tale type reference table", in, def.Paths.ATUReference, "--csv or env ATU_REFERENCE_CSV"); err != nil {
				return err
			}
			t, err := refTables.Get(in)
			if err != nil {
				return err
			}

			b := graph.NewBuilder(a.logger)
			g, err := b.BuildTaleTypes(t)
			if err != nil {
				return err
			}

			out := resolve(outPath, filepath.Join(a.cfg.Paths.OutDir, "taletypes.ttl"))
			return a.writeArtifacts(g, out)
		},
	}

	cmd.Flags().StringVar(&csvPath, "csv", "", "Tale type reference table (default from config)")
	cmd.Flags().StringVar(&outPath, "out", "", "Output Turtle path")

	return cmd
}
