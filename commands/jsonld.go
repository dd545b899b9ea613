package commands

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/c360studio/folkgraph/export"
)

func (a *app) jsonldCmd() *cobra.Command {
	var (
		ttl         []string
		ttlDir      string
		glob        string
		ttlList     string
		out         string
		outDir      string
		contextFile string
		watch       bool
	)

	cmd := &cobra.Command{
		Use:   "jsonld",
		Short: "Convert Turtle artifacts to JSON-LD",
		Long: `Convert Turtle artifacts to JSON-LD documents. Inputs come from
explicit files, a directory scanned with a glob, or a manifest file;
each output sits next to its input unless --out or --out-dir redirect
it.

Examples:
  folkgraph jsonld --ttl rdf/serialization/corpus.ttl
  folkgraph jsonld --ttl-dir rdf/serialization --glob "*.ttl" --out-dir web/data
  folkgraph jsonld --ttl-dir rdf/serialization --watch`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(); err != nil {
				return err
			}

			opts := export.BatchOptions{
				TTL:         ttl,
				TTLDir:      ttlDir,
				Glob:        glob,
				TTLList:     ttlList,
				Out:         out,
				OutDir:      outDir,
				ContextFile: resolve(contextFile, a.cfg.Paths.Context),
			}
			conv := export.NewConverter(a.logger)

			if watch {
				ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
				defer stop()
				return conv.Watch(ctx, opts)
			}

			written, err := conv.Run(opts)
			if err != nil {
				return err
			}
			a.logger.Info("Conversion finished", "files", len(written))
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&ttl, "ttl", nil, "Turtle input files")
	cmd.Flags().StringVar(&ttlDir, "ttl-dir", "", "Directory scanned for Turtle inputs")
	cmd.Flags().StringVar(&glob, "glob", "", `Glob applied inside --ttl-dir (default "*.ttl")`)
	cmd.Flags().StringVar(&ttlList, "ttl-list", "", "Manifest file with one Turtle path per line")
	cmd.Flags().StringVar(&out, "out", "", "Output path (single input only)")
	cmd.Flags().StringVar(&outDir, "out-dir", "", "Directory receiving every output")
	cmd.Flags().StringVar(&contextFile, "context", "", "External JSON-LD context document (default from config)")
	cmd.Flags().BoolVar(&watch, "watch", false, "Keep converting as inputs change")

	return cmd
}
