package export

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"
)

// watchDebounce is how long changes accumulate before reconversion.
const watchDebounce = 500 * time.Millisecond

// BatchOptions selects the Turtle inputs of a conversion run.
type BatchOptions struct {
	// TTL lists explicit Turtle files.
	TTL []string

	// TTLDir is scanned with Glob when set.
	TTLDir string

	// Glob is the pattern applied inside TTLDir. Defaults to "*.ttl".
	Glob string

	// TTLList is a manifest file with one Turtle path per line.
	// Blank lines and # comments are skipped.
	TTLList string

	// Out overrides the output path. Valid only for a single input;
	// by default each output sits next to its input with the .jsonld
	// extension.
	Out string

	// OutDir redirects every output into one directory, keeping the
	// derived file name. Mutually exclusive with Out.
	OutDir string

	// Shape selects the JSON-LD document layout.
	Shape Shape

	// ContextFile replaces the embedded JSON-LD context with a context
	// document read from this path. Accepts a bare context object or a
	// {"@context": {...}} wrapper.
	ContextFile string
}

func (o BatchOptions) glob() string {
	if o.Glob == "" {
		return "*.ttl"
	}
	return o.Glob
}

// outputFor resolves the output path of one input under the Out and
// OutDir overrides.
func (o BatchOptions) outputFor(in string) string {
	if o.Out != "" {
		return o.Out
	}
	derived := OutputPath(in)
	if o.OutDir != "" {
		return filepath.Join(o.OutDir, filepath.Base(derived))
	}
	return derived
}

// validate rejects option combinations that would misroute outputs.
func (o BatchOptions) validate(inputs []string) error {
	if o.Out != "" && o.OutDir != "" {
		return fmt.Errorf("--out and --out-dir are mutually exclusive")
	}
	if o.Out != "" && len(inputs) > 1 {
		return fmt.Errorf("--out needs a single input, got %d", len(inputs))
	}
	return nil
}

// Converter turns Turtle exports into JSON-LD documents.
type Converter struct {
	logger *slog.Logger
}

// NewConverter creates a converter. A nil logger falls back to the
// default logger.
func NewConverter(logger *slog.Logger) *Converter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Converter{logger: logger}
}

// CollectInputs resolves the configured sources to an ordered list of
// Turtle files: explicit files first, then directory matches, then
// manifest entries. Duplicates keep their first position.
func (c *Converter) CollectInputs(opts BatchOptions) ([]string, error) {
	var inputs []string
	seen := make(map[string]bool)
	add := func(p string) {
		p = filepath.Clean(p)
		if !seen[p] {
			seen[p] = true
			inputs = append(inputs, p)
		}
	}

	for _, p := range opts.TTL {
		add(p)
	}

	if opts.TTLDir != "" {
		matches, err := doublestar.FilepathGlob(filepath.Join(opts.TTLDir, opts.glob()))
		if err != nil {
			return nil, fmt.Errorf("glob %q in %s: %w", opts.glob(), opts.TTLDir, err)
		}
		sort.Strings(matches)
		for _, m := range matches {
			add(m)
		}
	}

	if opts.TTLList != "" {
		data, err := os.ReadFile(opts.TTLList)
		if err != nil {
			return nil, fmt.Errorf("reading list file: %w", err)
		}
		for _, line := range strings.Split(string(data), "\n") {
			line = strings.TrimSpace(line)
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			add(line)
		}
	}

	if len(inputs) == 0 {
		return nil, fmt.Errorf("no input files: provide --ttl, --ttl-dir or --ttl-list")
	}
	return inputs, nil
}

// OutputPath returns the JSON-LD path for a Turtle input.
func OutputPath(in string) string {
	return strings.TrimSuffix(in, filepath.Ext(in)) + ".jsonld"
}

// ConvertFile converts one Turtle file and returns the path written.
// An empty out derives the path from the input.
func (c *Converter) ConvertFile(in, out string, shape Shape) (string, error) {
	return c.convert(in, out, shape, nil)
}

func (c *Converter) convert(in, out string, shape Shape, docCtx map[string]any) (string, error) {
	f, err := os.Open(in)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", in, err)
	}
	g, err := Parse(f)
	f.Close()
	if err != nil {
		return "", fmt.Errorf("parsing %s: %w", in, err)
	}

	w := NewWriter(g)
	w.SetContext(docCtx)
	doc, err := w.JSONLD(shape)
	if err != nil {
		return "", fmt.Errorf("converting %s: %w", in, err)
	}

	if out == "" {
		out = OutputPath(in)
	}
	if err := os.WriteFile(out, append(doc, '\n'), 0644); err != nil {
		return "", fmt.Errorf("writing %s: %w", out, err)
	}
	return out, nil
}

// LoadContext reads an external JSON-LD context document. Both a bare
// context object and a {"@context": ...} wrapper are accepted; an empty
// path means the embedded context.
func LoadContext(path string) (map[string]any, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading context file: %w", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing context file %s: %w", path, err)
	}
	if inner, ok := doc["@context"].(map[string]any); ok {
		return inner, nil
	}
	return doc, nil
}

// Run converts every collected input once.
func (c *Converter) Run(opts BatchOptions) ([]string, error) {
	inputs, err := c.CollectInputs(opts)
	if err != nil {
		return nil, err
	}
	if err := opts.validate(inputs); err != nil {
		return nil, err
	}
	docCtx, err := LoadContext(opts.ContextFile)
	if err != nil {
		return nil, err
	}
	if opts.OutDir != "" {
		if err := os.MkdirAll(opts.OutDir, 0755); err != nil {
			return nil, fmt.Errorf("creating output dir: %w", err)
		}
	}

	written := make([]string, 0, len(inputs))
	for _, in := range inputs {
		out, err := c.convert(in, opts.outputFor(in), opts.Shape, docCtx)
		if err != nil {
			return written, err
		}
		c.logger.Info("Converted Turtle to JSON-LD", "in", in, "out", out)
		written = append(written, out)
	}
	return written, nil
}

// Watch converts every input, then reconverts files as they change
// until the context ends. New files appearing in TTLDir that match the
// glob join the watch set.
func (c *Converter) Watch(ctx context.Context, opts BatchOptions) error {
	inputs, err := c.CollectInputs(opts)
	if err != nil {
		return err
	}
	if err := opts.validate(inputs); err != nil {
		return err
	}
	docCtx, err := LoadContext(opts.ContextFile)
	if err != nil {
		return err
	}
	if opts.OutDir != "" {
		if err := os.MkdirAll(opts.OutDir, 0755); err != nil {
			return fmt.Errorf("creating output dir: %w", err)
		}
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	defer watcher.Close()

	watched := make(map[string]bool)
	dirs := make(map[string]bool)
	for _, in := range inputs {
		watched[in] = true
		dirs[filepath.Dir(in)] = true
	}
	if opts.TTLDir != "" {
		dirs[filepath.Clean(opts.TTLDir)] = true
	}
	for d := range dirs {
		if err := watcher.Add(d); err != nil {
			return fmt.Errorf("watching %s: %w", d, err)
		}
	}

	// Convert everything once up front so the outputs exist.
	hashes := make(map[string]string)
	for _, in := range inputs {
		out, err := c.convert(in, opts.outputFor(in), opts.Shape, docCtx)
		if err != nil {
			return err
		}
		hashes[in] = fileHash(in)
		c.logger.Info("Converted Turtle to JSON-LD", "in", in, "out", out)
	}

	pending := make(map[string]bool)
	ticker := time.NewTicker(watchDebounce)
	defer ticker.Stop()

	c.logger.Info("Watching Turtle inputs", "files", len(inputs), "dirs", len(dirs))
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			name := filepath.Clean(event.Name)
			if watched[name] {
				pending[name] = true
				continue
			}
			if opts.TTLDir != "" && event.Has(fsnotify.Create) {
				rel, err := filepath.Rel(opts.TTLDir, name)
				if err == nil {
					if ok, _ := doublestar.PathMatch(opts.glob(), rel); ok {
						watched[name] = true
						pending[name] = true
					}
				}
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			c.logger.Error("Watcher error", "error", err)

		case <-ticker.C:
			for in := range pending {
				delete(pending, in)
				h := fileHash(in)
				if h != "" && h == hashes[in] {
					continue
				}
				hashes[in] = h
				out, err := c.convert(in, opts.outputFor(in), opts.Shape, docCtx)
				if err != nil {
					c.logger.Warn("Conversion failed", "in", in, "error", err)
					continue
				}
				c.logger.Info("Converted Turtle to JSON-LD", "in", in, "out", out)
			}
		}
	}
}

// fileHash returns the content hash of a file, or "" when unreadable.
func fileHash(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
