// Package validation gates graph artifacts behind an external SHACL
// engine. The gate shells out to the engine, captures the validation
// report, and maps the verdict onto CI-friendly exit codes. Report
// contents are never interpreted beyond the conformance signal.
package validation

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// Exit codes reported by the validate command.
const (
	ExitConforms   = 0
	ExitViolations = 1
	ExitEngine     = 2
)

// ErrEngine marks failures of the engine itself, as opposed to a clean
// run that found violations. Callers map it to ExitEngine.
var ErrEngine = errors.New("validation engine failed")

// DefaultEngine invokes the pySHACL command line client from PATH.
var DefaultEngine = []string{"pyshacl"}

// Gate runs one SHACL engine. The engine argv may carry leading
// arguments, for example {"python3", "-m", "pyshacl"}.
type Gate struct {
	engine []string
	logger *slog.Logger
}

// NewGate creates a gate. An empty engine falls back to DefaultEngine,
// a nil logger to slog.Default.
func NewGate(engine []string, logger *slog.Logger) *Gate {
	if len(engine) == 0 {
		engine = DefaultEngine
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Gate{engine: engine, logger: logger}
}

// Options control where the gate writes its reports.
type Options struct {
	// ReportTTL and ReportText are the output paths for the machine
	// and the human report. Empty values default to report.ttl and
	// report.txt in the current directory. Parent directories are
	// created.
	ReportTTL  string
	ReportText string
}

// Outcome is the result of one validation run.
type Outcome struct {
	Conforms   bool
	ExitCode   int
	ReportTTL  string
	ReportText string
}

// Run validates dataPath against shapesPath, both Turtle. The engine's
// machine report is written to report.ttl and a headed text report to
// report.txt. Exit code 0 from the engine means conforms, 1 means
// violations; anything else, or a failure to start, returns ErrEngine.
func (g *Gate) Run(ctx context.Context, dataPath, shapesPath string, opts Options) (*Outcome, error) {
	if _, err := os.Stat(dataPath); err != nil {
		return nil, fmt.Errorf("data graph: %w", err)
	}
	if _, err := os.Stat(shapesPath); err != nil {
		return nil, fmt.Errorf("shapes graph: %w", err)
	}

	args := append(append([]string{}, g.engine[1:]...),
		"-s", shapesPath,
		"-sf", "turtle",
		"-df", "turtle",
		"-f", "turtle",
		dataPath,
	)
	cmd := exec.CommandContext(ctx, g.engine[0], args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	g.logger.Debug("running SHACL engine", "engine", strings.Join(g.engine, " "), "data", dataPath, "shapes", shapesPath)
	start := time.Now()
	runErr := cmd.Run()
	duration := time.Since(start)

	exitCode := 0
	if runErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(runErr, &exitErr) {
			return nil, fmt.Errorf("%w: %v", ErrEngine, runErr)
		}
		exitCode = exitErr.ExitCode()
	}
	if exitCode != ExitConforms && exitCode != ExitViolations {
		return nil, fmt.Errorf("%w: exit %d: %s", ErrEngine, exitCode, strings.TrimSpace(stderr.String()))
	}
	conforms := exitCode == ExitConforms

	out := &Outcome{
		Conforms:   conforms,
		ExitCode:   exitCode,
		ReportTTL:  opts.ReportTTL,
		ReportText: opts.ReportText,
	}
	if out.ReportTTL == "" {
		out.ReportTTL = "report.ttl"
	}
	if out.ReportText == "" {
		out.ReportText = "report.txt"
	}
	for _, p := range []string{out.ReportTTL, out.ReportText} {
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			return nil, fmt.Errorf("create report dir: %w", err)
		}
	}
	if err := os.WriteFile(out.ReportTTL, stdout.Bytes(), 0o644); err != nil {
		return nil, fmt.Errorf("write %s: %w", out.ReportTTL, err)
	}
	if err := os.WriteFile(out.ReportText, g.textReport(conforms, dataPath, shapesPath, &stdout, &stderr), 0o644); err != nil {
		return nil, fmt.Errorf("write %s: %w", out.ReportText, err)
	}

	g.logger.Info("SHACL validation finished",
		"conforms", conforms,
		"exit_code", exitCode,
		"duration", duration.Round(time.Millisecond).String(),
		"report", out.ReportTTL)
	return out, nil
}

// textReport builds the human-readable report: a fixed header block
// followed by whatever the engine printed.
func (g *Gate) textReport(conforms bool, dataPath, shapesPath string, stdout, stderr *bytes.Buffer) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "Conforms: %t\n", conforms)
	fmt.Fprintf(&b, "Data: %s\n", dataPath)
	fmt.Fprintf(&b, "Shapes: %s\n", shapesPath)
	fmt.Fprintf(&b, "Engine: %s\n", strings.Join(g.engine, " "))
	fmt.Fprintf(&b, "Generated: %s\n\n", time.Now().UTC().Format(time.RFC3339))
	b.Write(stdout.Bytes())
	if stderr.Len() > 0 {
		if stdout.Len() > 0 {
			b.WriteByte('\n')
		}
		b.Write(stderr.Bytes())
	}
	return []byte(b.String())
}
