package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/c360studio/folkgraph/identity"
	"github.com/c360studio/folkgraph/provenance"
	"github.com/c360studio/folkgraph/store"
)

// defaultModelTag names the classifier release when the prediction file
// carries no training SHA of its own.
const defaultModelTag = "atu-clf-v0.1.0"

func (a *app) provenanceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "provenance",
		Short: "Record and review classification runs",
	}
	cmd.AddCommand(a.provenanceExportCmd())
	cmd.AddCommand(a.provenanceReviewCmd())
	return cmd
}

// predictionFile is the classifier output the export command reads:
// ranked labels with scores plus the training metadata block.
type predictionFile struct {
	TopLabels []string       `json:"top_labels"`
	TopScores []float64      `json:"top_scores"`
	Meta      predictionMeta `json:"meta"`
}

type predictionMeta struct {
	ModelName    string `json:"model_name"`
	ModelVersion string `json:"model_version"`
	TrainedAt    string `json:"trained_at"`
	GeneratedAt  string `json:"generated_at"`
	Task         string `json:"task"`
	TextCols     string `json:"text_cols"`
	Note         string `json:"note"`
	InferredAt   string `json:"inferred_at"`
}

func (a *app) provenanceExportCmd() *cobra.Command {
	var (
		candPath string
		textPath string
		taleID   string
		outDir   string
		save     bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export one classification run with full provenance",
		Long: `Export one classification run: read the classifier's ranked
candidates, apply the configured decision policy, and write the run
payload plus its provenance graph as Turtle and JSON-LD.

The input text is hashed into the run identity and never embedded in
any artifact.

Examples:
  folkgraph provenance export --candidates pred.json --text tale.txt --tale kp_013
  folkgraph provenance export --candidates pred.json --tale kp_013 --save`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(); err != nil {
				return err
			}
			if candPath == "" {
				return fmt.Errorf("--candidates is required")
			}
			if identity.CleanWS(taleID) == "" {
				return fmt.Errorf("--tale is required")
			}

			pred, err := readPrediction(candPath)
			if err != nil {
				return err
			}

			text := ""
			if textPath != "" {
				data, err := os.ReadFile(textPath)
				if err != nil {
					return fmt.Errorf("reading text file: %w", err)
				}
				text = string(data)
			} else {
				a.logger.Warn("No input text given, run is recorded with an empty text hash", "tale", taleID)
			}

			policy := a.cfg.Policy.ToPolicy()
			createdAt := time.Now().UTC()
			if pred.Meta.InferredAt != "" {
				ts, err := time.Parse(time.RFC3339, pred.Meta.InferredAt)
				if err != nil {
					a.logger.Warn("Unparseable inferred_at, using current time",
						"value", pred.Meta.InferredAt, "error", err)
				} else {
					createdAt = ts
				}
			}

			run, err := provenance.NewRun(taleID, text, createdAt, policy)
			if err != nil {
				return err
			}

			labels := a.taleTypeLabels()
			d := provenance.Decide(pred.candidates(labels), policy)
			res, err := provenance.NewResult(policy.ID, d)
			if err != nil {
				return err
			}
			model := pred.model()
			payload := provenance.NewPayload(run, model, res)

			dir := resolve(outDir, a.cfg.Paths.OutDir)
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("creating output dir: %w", err)
			}
			stem := run.TaleID + "_" + strings.ReplaceAll(run.ID, ":", "-")

			data, err := json.MarshalIndent(payload, "", "  ")
			if err != nil {
				return err
			}
			payloadPath := filepath.Join(dir, stem+".payload.json")
			if err := os.WriteFile(payloadPath, append(data, '\n'), 0644); err != nil {
				return fmt.Errorf("writing %s: %w", payloadPath, err)
			}

			g, err := provenance.Export(run, model, res, nil)
			if err != nil {
				return err
			}
			if err := a.writeArtifacts(g, filepath.Join(dir, stem+".ttl")); err != nil {
				return err
			}
			a.logger.Info("Exported classification run",
				"tale", run.TaleID,
				"run", run.ID,
				"status", res.Status,
				"primary_atu", res.PrimaryCode,
				"payload", payloadPath)

			if save {
				rec, err := store.New(a.cfg.Paths.RunsDir, a.logger).Save(payload)
				if err != nil {
					return err
				}
				a.logger.Info("Run recorded in store", "record", rec.RecordID, "tale", run.TaleID)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&candPath, "candidates", "", "Classifier prediction JSON (top_labels, top_scores, meta)")
	cmd.Flags().StringVar(&textPath, "text", "", "Input text file, hashed into the run identity")
	cmd.Flags().StringVar(&taleID, "tale", "", "Tale identifier the run classifies")
	cmd.Flags().StringVar(&outDir, "out-dir", "", "Output directory for the run artifacts")
	cmd.Flags().BoolVar(&save, "save", false, "Also record the run in the run store")

	return cmd
}

func (a *app) provenanceReviewCmd() *cobra.Command {
	var (
		taleID string
		runID  string
		atu    string
		note   string
		agent  string
	)

	cmd := &cobra.Command{
		Use:   "review",
		Short: "Record an expert override on a stored run",
		Long: `Record an expert override: the final decision of a stored run
moves to the given ATU code while the model's original answer stays
auditable. Without --run the latest run of the tale is reviewed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.setup(); err != nil {
				return err
			}
			if identity.CleanWS(taleID) == "" {
				return fmt.Errorf("--tale is required")
			}
			if identity.CleanWS(atu) == "" {
				return fmt.Errorf("--atu is required")
			}

			st := store.New(a.cfg.Paths.RunsDir, a.logger)
			if runID == "" {
				rec, err := st.Latest(taleID)
				if err != nil {
					return err
				}
				runID = rec.Payload.Meta.RunID
			}

			rec, err := st.ApplyReview(taleID, runID, provenance.Review{
				Agent: agent,
				Code:  atu,
				Note:  note,
			})
			if err != nil {
				return err
			}
			a.logger.Info("Review recorded",
				"tale", taleID,
				"run", runID,
				"agent", agent,
				"final_atu", rec.Payload.Meta.FinalATU)
			return nil
		},
	}

	cmd.Flags().StringVar(&taleID, "tale", "", "Tale identifier")
	cmd.Flags().StringVar(&runID, "run", "", "Run identifier (default: the tale's latest run)")
	cmd.Flags().StringVar(&atu, "atu", "", "Final ATU code chosen by the expert")
	cmd.Flags().StringVar(&note, "note", "", "Expert note")
	cmd.Flags().StringVar(&agent, "agent", "expert_1", "Reviewing expert")

	return cmd
}

// readPrediction loads one classifier prediction file.
func readPrediction(path string) (*predictionFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading prediction file: %w", err)
	}
	var pred predictionFile
	if err := json.Unmarshal(data, &pred); err != nil {
		return nil, fmt.Errorf("parsing prediction file %s: %w", path, err)
	}
	return &pred, nil
}

// candidates pairs the ranked labels with their scores. Labels without
// a code after normalization drop out; the decision step re-sorts and
// ranks whatever remains.
func (p *predictionFile) candidates(labels map[string]string) []provenance.Candidate {
	n := len(p.TopLabels)
	if len(p.TopScores) < n {
		n = len(p.TopScores)
	}
	cands := make([]provenance.Candidate, 0, n)
	for i := 0; i < n; i++ {
		code := candidateCode(p.TopLabels[i])
		if code == "" {
			continue
		}
		cands = append(cands, provenance.Candidate{
			Code:  code,
			Label: labels[code],
			Score: p.TopScores[i],
		})
	}
	return cands
}

// model maps the prediction metadata onto the model description.
// trained_at falls back to generated_at, mirroring how classifier
// snapshots carry their training time.
func (p *predictionFile) model() provenance.Model {
	name := identity.CleanWS(p.Meta.ModelName)
	if name == "" {
		name = "MagicTagger ATU classifier"
	}
	m := provenance.Model{
		Name:       name,
		SHA:        identity.CleanWS(p.Meta.ModelVersion),
		VersionTag: defaultModelTag,
		Task:       p.Meta.Task,
		TextCols:   p.Meta.TextCols,
		Note:       p.Meta.Note,
	}
	trained := p.Meta.TrainedAt
	if trained == "" {
		trained = p.Meta.GeneratedAt
	}
	if trained != "" {
		if ts, err := time.Parse(time.RFC3339, trained); err == nil {
			m.TrainedAt = ts
		}
	}
	return m
}

// candidateCode reduces a classifier label to the bare catalogue code:
// "ATU-510A", "atu_510a" and "510 a" all become "510A".
func candidateCode(label string) string {
	code := identity.Notation(label)
	if strings.HasPrefix(code, "ATU") {
		code = strings.TrimLeft(code[len("ATU"):], "-_")
	}
	return code
}

// taleTypeLabels loads the catalogue titles for candidate enrichment.
// An unavailable reference table only costs the labels, never the run.
func (a *app) taleTypeLabels() map[string]string {
	t, err := refTables.Get(a.cfg.Paths.ATUReference)
	if err != nil {
		a.logger.Warn("Tale type reference unavailable, candidate labels stay empty",
			"path", a.cfg.Paths.ATUReference, "error", err)
		return nil
	}
	labels := make(map[string]string, t.Len())
	for _, row := range t.Rows {
		code := identity.Notation(row.Get("atu_code"))
		if code == "" {
			continue
		}
		if _, ok := labels[code]; !ok {
			labels[code] = row.Get("title")
		}
	}
	return labels
}
