package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/c360studio/folkgraph/validation"
)

func (a *app) validateCmd() *cobra.Command {
	var (
		dataPath   string
		shapesPath string
		reportTTL  string
		reportText string
		engine     []string
	)

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate an artifact against SHACL shapes",
		Long: `Validate a built Turtle artifact against a SHACL shapes graph
through the configured external engine. The engine's machine report and
a headed text report are always written.

Exit codes: 0 when the artifact conforms, 1 on violations, 2 when the
engine itself fails.

Examples:
  folkgraph validate --data rdf/serialization/corpus.ttl --shapes rdf/shapes.ttl
  folkgraph validate --data corpus.ttl --shapes shapes.ttl --engine python3,-m,pyshacl`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(); err != nil {
				return err
			}
			if dataPath == "" {
				return fmt.Errorf("--data is required")
			}
			if shapesPath == "" {
				return fmt.Errorf("--shapes is required")
			}

			eng := engine
			if len(eng) == 0 {
				eng = a.cfg.Validator.Engine
			}
			gate := validation.NewGate(eng, a.logger)
			outcome, err := gate.Run(cmd.Context(), dataPath, shapesPath, validation.Options{
				ReportTTL:  reportTTL,
				ReportText: reportText,
			})
			if err != nil {
				return err
			}
			if !outcome.Conforms {
				return fmt.Errorf("validation found violations, see %s", outcome.ReportText)
			}
			a.logger.Info("Artifact conforms", "data", dataPath, "shapes", shapesPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&dataPath, "data", "", "Turtle artifact to validate")
	cmd.Flags().StringVar(&shapesPath, "shapes", "", "SHACL shapes graph (Turtle)")
	cmd.Flags().StringVar(&reportTTL, "report", "", `Machine report path (default "report.ttl")`)
	cmd.Flags().StringVar(&reportText, "report-text", "", `Text report path (default "report.txt")`)
	cmd.Flags().StringSliceVar(&engine, "engine", nil, "Engine argv (default from config)")

	return cmd
}
