package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/c360studio/folkgraph/export"
	"github.com/c360studio/folkgraph/graph"
	"github.com/c360studio/folkgraph/tabular"
)

// refTables caches the semicolon reference tables (the ATU catalogue,
// the volume mapping) across commands in one process. Edits on disk
// invalidate by mtime.
var refTables = tabular.NewCache(func(path string) (*tabular.Table, error) {
	return tabular.LoadDelimited(path, ';')
})

// resolve returns the first non-empty value, so flags override env
// overrides override config.
func resolve(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// requireInput stats one input file. A missing file becomes the
// standard fatal message naming the compiled-in default and how to
// point the command elsewhere.
func requireInput(item, path, def, override string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%s not found at %s (default %s; override via %s)", item, path, def, override)
		}
		return fmt.Errorf("%s: %w", item, err)
	}
	return nil
}

// writeArtifacts serializes one graph as Turtle plus the JSON-LD twin
// next to it. The configured external context, when set, replaces the
// embedded one for the JSON-LD rendition.
func (a *app) writeArtifacts(g *graph.Graph, ttlPath string) error {
	w := export.NewWriter(g)
	if a.cfg.Paths.Context != "" {
		ctx, err := export.LoadContext(a.cfg.Paths.Context)
		if err != nil {
			return err
		}
		w.SetContext(ctx)
	}

	if err := os.MkdirAll(filepath.Dir(ttlPath), 0755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}
	if err := os.WriteFile(ttlPath, w.Turtle(), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", ttlPath, err)
	}

	jsonldPath := export.OutputPath(ttlPath)
	doc, err := w.JSONLD(export.ShapeGraph)
	if err != nil {
		return err
	}
	if err := os.WriteFile(jsonldPath, append(doc, '\n'), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", jsonldPath, err)
	}

	a.logger.Info("Wrote graph artifacts",
		"triples", g.Len(),
		"ttl", ttlPath,
		"jsonld", jsonldPath)
	return nil
}
