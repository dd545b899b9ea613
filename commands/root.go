// Package commands assembles the folkgraph command line: the graph
// build commands, the provenance workflow, JSON-LD conversion, the
// quality log and the SHACL validation gate. Every command resolves
// configuration the same way and logs through one slog handler on
// stderr, leaving stdout to the artifacts.
package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/c360studio/folkgraph/config"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "folkgraph"
)

// app carries what every subcommand shares: the persistent flag values
// and, once setup ran, the resolved configuration and logger.
type app struct {
	configPath string
	logLevel   string

	cfg    *config.Config
	logger *slog.Logger
}

// Root builds the folkgraph command tree.
func Root() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "folkgraph",
		Short: "Folktale corpus knowledge graph builder",
		Long: `Folkgraph turns a normalized folktale corpus table into an RDF
knowledge graph: tales, volumes, collections, agents and ATU tale type
concepts, serialized as Turtle with a JSON-LD twin next to it.

It also records classification runs with full provenance, converts
Turtle artifacts to JSON-LD, writes the coverage quality log and gates
artifacts through an external SHACL engine.`,
	}

	cmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	cmd.AddCommand(
		a.volumesCmd(),
		a.corpusCmd(),
		a.taletypesCmd(),
		a.biblioCmd(),
		a.mappingTemplateCmd(),
		a.provenanceCmd(),
		a.jsonldCmd(),
		a.qualityCmd(),
		a.validateCmd(),
	)

	// Version command
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s version %s (build: %s)\n", appName, Version, BuildTime)
		},
	})

	return cmd
}

// setup loads configuration and installs the logger. Runs at the top of
// every RunE rather than in a PersistentPreRun so that version stays
// config-free.
func (a *app) setup() error {
	bootstrap := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	cfg, err := config.NewLoader(bootstrap).LoadPath(a.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if a.logLevel != "" {
		cfg.LogLevel = a.logLevel
	}
	level, err := config.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	a.cfg = cfg
	a.logger = logger
	return nil
}
