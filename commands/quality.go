package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/c360studio/folkgraph/config"
	"github.com/c360studio/folkgraph/export"
	"github.com/c360studio/folkgraph/graph"
	"github.com/c360studio/folkgraph/quality"
)

func (a *app) qualityCmd() *cobra.Command {
	var (
		ttls    []string
		outPath string
		promOut string
	)

	cmd := &cobra.Command{
		Use:   "quality",
		Short: "Write the coverage quality log for built artifacts",
		Long: `Analyze built Turtle artifacts and write the quality log: entity
counts, property coverage per tale and volume, and datatype sanity
checks. Several inputs merge into one analyzed graph.

The log never blocks a build; it only reports.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(); err != nil {
				return err
			}
			def := config.DefaultConfig()

			inputs := ttls
			if len(inputs) == 0 {
				inputs = []string{filepath.Join(a.cfg.Paths.OutDir, "corpus.ttl")}
			}

			g := graph.New()
			for _, in := range inputs {
				if err := requireInput("graph artifact", in,
					filepath.Join(def.Paths.OutDir, "corpus.ttl"), "--ttl"); err != nil {
					return err
				}
				f, err := os.Open(in)
				if err != nil {
					return err
				}
				parsed, err := export.Parse(f)
				f.Close()
				if err != nil {
					return fmt.Errorf("parsing %s: %w", in, err)
				}
				g.Merge(parsed)
			}

			r := quality.Analyze(g)
			r.Inputs.TTL = strings.Join(inputs, ", ")

			data, err := r.JSON()
			if err != nil {
				return err
			}
			out := resolve(outPath, "quality_log.json")
			if err := os.MkdirAll(filepath.Dir(out), 0755); err != nil {
				return fmt.Errorf("creating output dir: %w", err)
			}
			if err := os.WriteFile(out, data, 0644); err != nil {
				return fmt.Errorf("writing %s: %w", out, err)
			}
			a.logger.Info("Wrote quality log",
				"path", out,
				"triples", r.Size.Triples,
				"tales", r.Entities.Tales,
				"volumes", r.Entities.Volumes)

			// The textfile export is best effort; the log above is the
			// primary output.
			if promOut != "" {
				if err := quality.WriteTextfile(r, promOut); err != nil {
					a.logger.Warn("Prometheus textfile export failed", "path", promOut, "error", err)
				} else {
					a.logger.Info("Wrote quality metrics", "path", promOut)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&ttls, "ttl", nil, "Turtle artifacts to analyze (default: the built corpus)")
	cmd.Flags().StringVar(&outPath, "out", "", `Quality log path (default "quality_log.json")`)
	cmd.Flags().StringVar(&promOut, "prom-out", "", "Also write the metrics as a Prometheus textfile")

	return cmd
}
