package commands

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/c360studio/folkgraph/config"
	"github.com/c360studio/folkgraph/identity"
	"github.com/c360studio/folkgraph/tabular"
)

// mappingHeader is the column set of the volume mapping table. The
// archive columns start empty; a curator fills them in by hand.
var mappingHeader = []string{"volume_id", "collection", "kivike_pid", "kivike_url", "notes"}

func (a *app) mappingTemplateCmd() *cobra.Command {
	var (
		csvPath    string
		outPath    string
		collection string
	)

	cmd := &cobra.Command{
		Use:   "mapping-template",
		Short: "Write an empty volume mapping table",
		Long: `Write the mapping table skeleton for archive links: one row per
volume in the canonical table, with empty kivike_pid, kivike_url and
notes columns to fill in by hand. The volumes command picks the table
up on its next run.`,
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

			rows, err := mappingRows(t, collection)
			if err != nil {
				return err
			}

			out := resolve(outPath, a.cfg.Paths.MappingCSV)
			if err := writeMappingTemplate(out, rows); err != nil {
				return err
			}
			a.logger.Info("Wrote mapping template", "path", out, "volumes", len(rows))
			return nil
		},
	}

	cmd.Flags().StringVar(&csvPath, "csv", "", "Canonical corpus table (default from config)")
	cmd.Flags().StringVar(&outPath, "out", "", "Output mapping table path (default from config)")
	cmd.Flags().StringVar(&collection, "collection", "", "Template only this collection")

	return cmd
}

// mappingRows extracts the unique volumes of the canonical table in
// (collection, volume id) order. The first row per volume wins, so a
// volume listed under two collections keeps its first one.
func mappingRows(t *tabular.Table, collection string) ([][2]string, error) {
	if err := t.Require("volume_id", "collection"); err != nil {
		return nil, err
	}

	want := identity.CleanWS(collection)
	seen := make(map[string]bool)
	var rows [][2]string
	for _, row := range t.Rows {
		vid := row.Get("volume_id")
		coll := row.Get("collection")
		if vid == "" || coll == "" {
			continue
		}
		if want != "" && coll != want {
			continue
		}
		if seen[vid] {
			continue
		}
		seen[vid] = true
		rows = append(rows, [2]string{vid, coll})
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i][1] != rows[j][1] {
			return rows[i][1] < rows[j][1]
		}
		return rows[i][0] < rows[j][0]
	})
	return rows, nil
}

// writeMappingTemplate writes the semicolon-delimited mapping skeleton,
// the same delimiter the volumes command loads it with.
func writeMappingTemplate(path string, rows [][2]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	w.Comma = ';'
	if err := w.Write(mappingHeader); err != nil {
		return err
	}
	for _, r := range rows {
		if err := w.Write([]string{r[0], r[1], "", "", ""}); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}
