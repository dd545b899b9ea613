package provenance_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360studio/folkgraph/provenance"
)

// testPolicy mirrors the operational default thresholds.
func testPolicy() provenance.Policy {
	return provenance.Policy{
		ID:             "high_else",
		MinScore1:      0.38,
		MinDelta:       0.14,
		CoTypeGap:      0.10,
		CoTypeMinScore: 0.55,
		MaxCoTypes:     2,
		ShortTextLen:   400,
	}
}

func TestDecideHighBand(t *testing.T) {
	pol := testPolicy()
	pol.MinScore1 = 0.60
	pol.MinDelta = 0.15

	d := provenance.Decide([]provenance.Candidate{
		{Code: "510A", Score: 0.62},
		{Code: "480", Score: 0.21},
	}, pol)

	assert.Equal(t, provenance.BandHigh, d.Band)
	assert.Equal(t, provenance.StatusAccept, d.Status)
	assert.Equal(t, "510A", d.PrimaryCode)
	assert.InDelta(t, 0.41, d.DeltaTop12, 1e-9)

	require.Len(t, d.Candidates, 2)
	assert.Equal(t, provenance.BandHigh, d.Candidates[0].Band)
	assert.Equal(t, provenance.BandElse, d.Candidates[1].Band)
}

func TestDecideElseBandOnLowScore(t *testing.T) {
	d := provenance.Decide([]provenance.Candidate{
		{Code: "510A", Score: 0.35},
		{Code: "480", Score: 0.10},
	}, testPolicy())

	assert.Equal(t, provenance.BandElse, d.Band)
	assert.Equal(t, provenance.StatusReview, d.Status)
	assert.Equal(t, "510A", d.PrimaryCode)
}

func TestDecideElseBandOnSmallDelta(t *testing.T) {
	d := provenance.Decide([]provenance.Candidate{
		{Code: "510A", Score: 0.62},
		{Code: "480", Score: 0.55},
	}, testPolicy())

	assert.Equal(t, provenance.BandElse, d.Band)
	assert.Equal(t, provenance.StatusReview, d.Status)
}

func TestDecideNormalizesCandidates(t *testing.T) {
	d := provenance.Decide([]provenance.Candidate{
		{Code: "  ", Score: 0.90},
		{Code: "480", Score: 1.7},
		{Code: "510A", Score: -0.3},
	}, testPolicy())

	require.Len(t, d.Candidates, 2)
	assert.Equal(t, provenance.Candidate{Rank: 1, Code: "480", Score: 1, Band: "high"}, d.Candidates[0])
	assert.Equal(t, provenance.Candidate{Rank: 2, Code: "510A", Score: 0, Band: "else"}, d.Candidates[1])
	assert.Equal(t, "480", d.PrimaryCode)
}

func TestDecideCoTypes(t *testing.T) {
	d := provenance.Decide([]provenance.Candidate{
		{Code: "510A", Score: 0.62},
		{Code: "480", Score: 0.58},
		{Code: "327A", Score: 0.56},
		{Code: "400", Score: 0.555},
	}, testPolicy())

	// 400 also qualifies but MaxCoTypes caps the proposal at two.
	assert.Equal(t, []string{"480", "327A"}, d.CoTypes)
}

func TestDecideCoTypesRespectMinScore(t *testing.T) {
	d := provenance.Decide([]provenance.Candidate{
		{Code: "510A", Score: 0.62},
		{Code: "480", Score: 0.54},
	}, testPolicy())

	assert.Empty(t, d.CoTypes)
}

func TestDecideEmptyCandidates(t *testing.T) {
	d := provenance.Decide(nil, testPolicy())

	assert.Empty(t, d.Candidates)
	assert.Equal(t, "", d.PrimaryCode)
	assert.Equal(t, provenance.BandElse, d.Band)
	assert.Equal(t, provenance.StatusReview, d.Status)
	assert.Zero(t, d.DeltaTop12)
	assert.Empty(t, d.CoTypes)
}

func TestTextWarnings(t *testing.T) {
	assert.Equal(t, []string{"NO_TEXT"}, provenance.TextWarnings("", 400))
	assert.Equal(t, []string{"NO_TEXT"}, provenance.TextWarnings("   \n\t", 400))
	assert.Equal(t, []string{"SHORT_TEXT"}, provenance.TextWarnings("Жил-был старик.", 400))
	assert.Nil(t, provenance.TextWarnings(strings.Repeat("ж", 400), 400))

	// Rune count, not byte count: 399 Cyrillic runes are short even
	// though they span well over 400 bytes.
	assert.Equal(t, []string{"SHORT_TEXT"}, provenance.TextWarnings(strings.Repeat("ж", 399), 400))
}
