// Package provenance builds the per-classification provenance trail: one
// run activity, the model and content-hashed input snapshot it used, the
// ranked result, and an optional expert override. Each call produces a
// self-contained subgraph, independent of the batch corpus build but
// minted under the same entity namespace.
//
// Input text is never embedded in any export, only its content hash, so
// re-runs over identical text produce byte-identical snapshot identifiers.
package provenance

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/c360studio/folkgraph/identity"
)

// Confidence band values of the binary decision policy.
const (
	BandHigh = "high"
	BandElse = "else"
)

// Workflow status values a result can carry.
const (
	StatusAccept   = "accept"
	StatusReview   = "review"
	StatusByExpert = "by expert"
)

// Final decision sources.
const (
	SourceModel  = "model"
	SourceExpert = "expert"
)

// Warning codes attached to a run.
const (
	WarnNoText    = "NO_TEXT"
	WarnShortText = "SHORT_TEXT"
)

// Candidate is one ranked classification suggestion. Ranks are 1-based
// and match the candidate's position in its result's ordered list.
type Candidate struct {
	Rank  int
	Code  string
	Label string
	Score float64
	Band  string
}

// Result is the ranked output of one classification run plus the
// decision summary derived from it. ModelPrimary always preserves what
// the model originally produced; an expert override only ever moves the
// Final fields and PrimaryCode.
type Result struct {
	Candidates []Candidate
	PolicyID   string

	PrimaryCode  string
	ModelPrimary string
	Band         string
	DeltaTop12   float64
	CoTypes      []string
	Status       string

	FinalCode    string
	FinalSource  string
	FinalNote    string
	FinalSavedAt time.Time
}

// NewResult assembles a result from a decision under the named policy.
// Candidate ranks must be exactly 1..k; a duplicate or gapped rank is a
// construction error, never silently repaired.
func NewResult(policyID string, d Decision) (*Result, error) {
	for i, c := range d.Candidates {
		if c.Rank != i+1 {
			return nil, fmt.Errorf("candidate ranks must be exactly 1..%d, got rank %d at position %d",
				len(d.Candidates), c.Rank, i+1)
		}
	}
	return &Result{
		Candidates:   d.Candidates,
		PolicyID:     policyID,
		PrimaryCode:  d.PrimaryCode,
		ModelPrimary: d.PrimaryCode,
		Band:         d.Band,
		DeltaTop12:   d.DeltaTop12,
		CoTypes:      d.CoTypes,
		Status:       d.Status,
		FinalCode:    d.PrimaryCode,
		FinalSource:  SourceModel,
	}, nil
}

// Run identifies one classification invocation. CreatedAt is truncated
// to whole seconds in UTC so that the run id and every timestamp in the
// export agree to the second.
type Run struct {
	ID            string
	TaleID        string
	CreatedAt     time.Time
	SourceVersion string
	Warnings      []string
}

// NewRun derives the run identity for one tale and input text. The
// source version hashes the whitespace-normalized text; the run id
// appends a short digest of (tale id, source version, timestamp) so
// concurrent runs over the same input stay distinguishable.
func NewRun(taleID, text string, createdAt time.Time, policy Policy) (Run, error) {
	taleID = identity.CleanWS(taleID)
	if taleID == "" {
		return Run{}, fmt.Errorf("tale id must not be empty")
	}
	created := createdAt.UTC().Truncate(time.Second)
	stamp := created.Format(time.RFC3339)
	src := SourceVersion(text)

	seed := sha256.Sum256([]byte(taleID + "|" + src + "|" + stamp))
	short := hex.EncodeToString(seed[:3])

	return Run{
		ID:            "cls_" + stamp + "_" + short,
		TaleID:        taleID,
		CreatedAt:     created,
		SourceVersion: src,
		Warnings:      TextWarnings(text, policy.ShortTextLen),
	}, nil
}

// SourceVersion returns the content identifier of one input text:
// "sha256:" plus the hex digest of the whitespace-normalized text.
func SourceVersion(text string) string {
	sum := sha256.Sum256([]byte(identity.CleanWS(text)))
	return "sha256:" + hex.EncodeToString(sum[:])
}

// Model describes the classifier artifact a run used.
type Model struct {
	Name       string
	SHA        string
	VersionTag string
	TrainedAt  time.Time
	Task       string
	TextCols   string
	Note       string
}

// Identity returns the stable model key: the training SHA when present,
// else the version tag.
func (m Model) Identity() string {
	if m.SHA != "" {
		return m.SHA
	}
	if m.VersionTag != "" {
		return m.VersionTag
	}
	return "unknown"
}

// Review is one expert override of a model decision.
type Review struct {
	Agent   string
	Code    string
	Note    string
	SavedAt time.Time
}

// ApplyReview records an expert override on the result: the final fields
// and the effective primary code move to the reviewer's choice and the
// status becomes "by expert". ModelPrimary is left untouched so the
// model's original answer stays auditable. A review without a code is
// ignored.
func ApplyReview(res *Result, rev Review) {
	code := identity.CleanWS(rev.Code)
	if code == "" {
		return
	}
	res.PrimaryCode = code
	res.FinalCode = code
	res.FinalSource = SourceExpert
	res.FinalNote = identity.CleanWS(rev.Note)
	res.FinalSavedAt = rev.SavedAt.UTC().Truncate(time.Second)
	res.Status = StatusByExpert
}
