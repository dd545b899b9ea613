package provenance

import (
	"time"

	"github.com/c360studio/folkgraph/identity"
)

// Payload is the JSON export object for one classification call, the
// shape the run store persists and the JSON-LD exporter reads.
type Payload struct {
	ID         string             `json:"id"`
	Meta       PayloadMeta        `json:"meta"`
	Candidates []PayloadCandidate `json:"candidates"`
}

// PayloadMeta carries the run identity, the decision summary and the
// model provenance of one classification call.
type PayloadMeta struct {
	RunID         string   `json:"run_id"`
	TaleID        string   `json:"tale_id"`
	CreatedAt     string   `json:"created_at"`
	Status        string   `json:"status"`
	Warnings      []string `json:"warnings"`
	SourceVersion string   `json:"source_version"`

	PolicyID        string   `json:"policy_id"`
	TaleStatus      string   `json:"tale_status"`
	PrimaryATU      string   `json:"primary_atu"`
	ModelPrimaryATU string   `json:"model_primary_atu"`
	CoTypes         []string `json:"co_types"`
	DeltaTop12      float64  `json:"delta_top12"`
	ConfidenceBand  string   `json:"confidence_band"`

	FinalDecisionSource string `json:"final_decision_source"`
	FinalATU            string `json:"final_atu"`
	FinalExpertNote     string `json:"final_expert_note,omitempty"`
	FinalSavedAt        string `json:"final_saved_at,omitempty"`

	Task         string `json:"task,omitempty"`
	TextCols     string `json:"text_cols,omitempty"`
	Note         string `json:"note,omitempty"`
	TrainedAt    string `json:"trained_at,omitempty"`
	ModelName    string `json:"model_name"`
	ModelSHA     string `json:"model_sha,omitempty"`
	ModelVersion string `json:"model_version"`
}

// PayloadCandidate is one ranked suggestion in the export payload.
type PayloadCandidate struct {
	Rank           int     `json:"rank"`
	ATUCode        string  `json:"atu_code"`
	Label          string  `json:"label,omitempty"`
	Score          float64 `json:"score"`
	ATUParent      string  `json:"atu_parent,omitempty"`
	ConfidenceBand string  `json:"confidence_band"`
}

// NewPayload assembles the export payload for one run. Warnings and
// co-types always marshal as arrays, never null; zero timestamps render
// as absent fields rather than epoch values.
func NewPayload(run Run, model Model, res *Result) Payload {
	meta := PayloadMeta{
		RunID:         run.ID,
		TaleID:        run.TaleID,
		CreatedAt:     run.CreatedAt.UTC().Format(time.RFC3339),
		Status:        "done",
		Warnings:      append([]string{}, run.Warnings...),
		SourceVersion: run.SourceVersion,

		PolicyID:        res.PolicyID,
		TaleStatus:      res.Status,
		PrimaryATU:      res.PrimaryCode,
		ModelPrimaryATU: res.ModelPrimary,
		CoTypes:         append([]string{}, res.CoTypes...),
		DeltaTop12:      res.DeltaTop12,
		ConfidenceBand:  res.Band,

		FinalDecisionSource: res.FinalSource,
		FinalATU:            res.FinalCode,
		FinalExpertNote:     res.FinalNote,

		Task:         model.Task,
		TextCols:     model.TextCols,
		Note:         model.Note,
		ModelName:    model.Name,
		ModelSHA:     model.SHA,
		ModelVersion: model.VersionTag,
	}
	if !res.FinalSavedAt.IsZero() {
		meta.FinalSavedAt = res.FinalSavedAt.UTC().Format(time.RFC3339)
	}
	if !model.TrainedAt.IsZero() {
		meta.TrainedAt = model.TrainedAt.UTC().Format(time.RFC3339)
	}

	cands := make([]PayloadCandidate, 0, len(res.Candidates))
	for _, c := range res.Candidates {
		cands = append(cands, PayloadCandidate{
			Rank:           c.Rank,
			ATUCode:        c.Code,
			Label:          c.Label,
			Score:          c.Score,
			ATUParent:      identity.AtuParent(c.Code),
			ConfidenceBand: c.Band,
		})
	}
	return Payload{ID: run.TaleID, Meta: meta, Candidates: cands}
}

// ApplyReview mirrors ApplyReview onto an already flattened payload,
// with the same semantics: model_primary_atu stays untouched and a
// review without a code is ignored.
func (p *Payload) ApplyReview(rev Review) {
	code := identity.CleanWS(rev.Code)
	if code == "" {
		return
	}
	p.Meta.PrimaryATU = code
	p.Meta.FinalATU = code
	p.Meta.FinalDecisionSource = SourceExpert
	p.Meta.FinalExpertNote = identity.CleanWS(rev.Note)
	p.Meta.FinalSavedAt = rev.SavedAt.UTC().Truncate(time.Second).Format(time.RFC3339)
	p.Meta.TaleStatus = StatusByExpert
}
