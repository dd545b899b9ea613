package provenance_test

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/folkgraph/provenance"
)

var runCreatedAt = time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC)

func TestNewRunIdentity(t *testing.T) {
	run, err := provenance.NewRun("kp_013", "Жил-был старик.", runCreatedAt, testPolicy())
	require.NoError(t, err)

	assert.Equal(t, "kp_013", run.TaleID)
	assert.Equal(t, runCreatedAt, run.CreatedAt)
	assert.Regexp(t, regexp.MustCompile(`^cls_2024-05-01T10:30:00Z_[0-9a-f]{6}$`), run.ID)
	assert.Regexp(t, regexp.MustCompile(`^sha256:[0-9a-f]{64}$`), run.SourceVersion)
	assert.Equal(t, []string{"SHORT_TEXT"}, run.Warnings)
}

func TestNewRunDeterminism(t *testing.T) {
	a, err := provenance.NewRun("kp_013", "Жил-был  старик.\n", runCreatedAt, testPolicy())
	require.NoError(t, err)
	b, err := provenance.NewRun("kp_013", "  Жил-был старик.", runCreatedAt, testPolicy())
	require.NoError(t, err)

	// Whitespace differences normalize away, so hash and id agree.
	assert.Equal(t, a.SourceVersion, b.SourceVersion)
	assert.Equal(t, a.ID, b.ID)

	c, err := provenance.NewRun("kp_014", "Жил-был старик.", runCreatedAt, testPolicy())
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, c.ID)
}

func TestNewRunTruncatesToSeconds(t *testing.T) {
	run, err := provenance.NewRun("kp_013", "text", runCreatedAt.Add(250*time.Millisecond), testPolicy())
	require.NoError(t, err)
	assert.Equal(t, runCreatedAt, run.CreatedAt)
}

func TestNewRunRequiresTaleID(t *testing.T) {
	_, err := provenance.NewRun("   ", "text", runCreatedAt, testPolicy())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tale id must not be empty")
}

func TestSourceVersionNormalizesWhitespace(t *testing.T) {
	assert.Equal(t,
		provenance.SourceVersion("a\t b\n\nc"),
		provenance.SourceVersion(" a b c "))
	assert.NotEqual(t,
		provenance.SourceVersion("a b c"),
		provenance.SourceVersion("a bc"))
}

func TestNewResultDefaults(t *testing.T) {
	d := provenance.Decide([]provenance.Candidate{
		{Code: "510A", Score: 0.62},
		{Code: "480", Score: 0.21},
	}, testPolicy())

	res, err := provenance.NewResult("high_else", d)
	require.NoError(t, err)

	assert.Equal(t, "high_else", res.PolicyID)
	assert.Equal(t, "510A", res.PrimaryCode)
	assert.Equal(t, "510A", res.ModelPrimary)
	assert.Equal(t, "510A", res.FinalCode)
	assert.Equal(t, provenance.SourceModel, res.FinalSource)
	assert.Empty(t, res.FinalNote)
	assert.True(t, res.FinalSavedAt.IsZero())
}

func TestNewResultRejectsBadRanks(t *testing.T) {
	gapped := provenance.Decision{Candidates: []provenance.Candidate{
		{Rank: 1, Code: "510A", Score: 0.62},
		{Rank: 3, Code: "480", Score: 0.21},
	}}
	_, err := provenance.NewResult("high_else", gapped)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "got rank 3 at position 2")

	swapped := provenance.Decision{Candidates: []provenance.Candidate{
		{Rank: 2, Code: "510A", Score: 0.62},
		{Rank: 1, Code: "480", Score: 0.21},
	}}
	_, err = provenance.NewResult("high_else", swapped)
	require.Error(t, err)

	dup := provenance.Decision{Candidates: []provenance.Candidate{
		{Rank: 1, Code: "510A", Score: 0.62},
		{Rank: 1, Code: "480", Score: 0.21},
	}}
	_, err = provenance.NewResult("high_else", dup)
	require.Error(t, err)
}

func TestModelIdentity(t *testing.T) {
	m := provenance.Model{SHA: "a16b3a1", VersionTag: "atu-clf-v0.1.0"}
	assert.Equal(t, "a16b3a1", m.Identity())

	m.SHA = ""
	assert.Equal(t, "atu-clf-v0.1.0", m.Identity())

	assert.Equal(t, "unknown", provenance.Model{}.Identity())
}

func TestApplyReview(t *testing.T) {
	d := provenance.Decide([]provenance.Candidate{
		{Code: "510A", Score: 0.62},
		{Code: "480", Score: 0.21},
	}, testPolicy())
	res, err := provenance.NewResult("high_else", d)
	require.NoError(t, err)

	saved := time.Date(2024, 5, 2, 8, 0, 0, 0, time.UTC)
	provenance.ApplyReview(res, provenance.Review{
		Agent:   "expert_1",
		Code:    "480",
		Note:    "Kind and unkind girls, not Cinderella.",
		SavedAt: saved,
	})

	assert.Equal(t, "480", res.PrimaryCode)
	assert.Equal(t, "480", res.FinalCode)
	assert.Equal(t, provenance.SourceExpert, res.FinalSource)
	assert.Equal(t, "Kind and unkind girls, not Cinderella.", res.FinalNote)
	assert.Equal(t, saved, res.FinalSavedAt)
	assert.Equal(t, provenance.StatusByExpert, res.Status)

	// The model's original answer stays auditable.
	assert.Equal(t, "510A", res.ModelPrimary)
}

func TestApplyReviewIgnoresEmptyCode(t *testing.T) {
	d := provenance.Decide([]provenance.Candidate{{Code: "510A", Score: 0.62}}, testPolicy())
	res, err := provenance.NewResult("high_else", d)
	require.NoError(t, err)
	before := *res

	provenance.ApplyReview(res, provenance.Review{Agent: "expert_1", Code: "  "})
	assert.Equal(t, before, *res)
}
