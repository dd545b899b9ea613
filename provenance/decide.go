package provenance

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// Policy carries the decision thresholds for one classification call.
// Every threshold comes from the caller, normally config; this package
// defines none of its own.
type Policy struct {
	ID             string
	MinScore1      float64
	MinDelta       float64
	CoTypeGap      float64
	CoTypeMinScore float64
	MaxCoTypes     int
	ShortTextLen   int
}

// Decision is the outcome of applying one policy to a candidate list.
// Candidates are normalized, sorted by score descending and ranked 1..k.
type Decision struct {
	Candidates  []Candidate
	PrimaryCode string
	Band        string
	DeltaTop12  float64
	CoTypes     []string
	Status      string
}

// Decide normalizes the candidates and applies the binary high/else
// policy: the band is high when the top score reaches policy.MinScore1
// and its gap to the runner-up reaches policy.MinDelta, else "else".
// Status follows the band, accept for high and review otherwise. An
// empty candidate list decides to review with no primary.
func Decide(cands []Candidate, policy Policy) Decision {
	norm := normalize(cands)
	delta := deltaTop12(norm)

	band := BandElse
	status := StatusReview
	primary := ""
	if len(norm) > 0 {
		primary = norm[0].Code
		if norm[0].Score >= policy.MinScore1 && delta >= policy.MinDelta {
			band = BandHigh
			status = StatusAccept
		}
		norm[0].Band = band
	}

	return Decision{
		Candidates:  norm,
		PrimaryCode: primary,
		Band:        band,
		DeltaTop12:  delta,
		CoTypes:     coTypes(norm, policy),
		Status:      status,
	}
}

// normalize clips scores to [0,1], drops candidates with empty codes and
// sorts by score descending, reassigning ranks 1..k. The sort is stable
// so equal scores keep their input order.
func normalize(cands []Candidate) []Candidate {
	norm := make([]Candidate, 0, len(cands))
	for _, c := range cands {
		code := strings.TrimSpace(c.Code)
		if code == "" {
			continue
		}
		c.Code = code
		c.Score = clip01(c.Score)
		c.Band = BandElse
		norm = append(norm, c)
	}
	sort.SliceStable(norm, func(i, j int) bool { return norm[i].Score > norm[j].Score })
	for i := range norm {
		norm[i].Rank = i + 1
	}
	return norm
}

// deltaTop12 is the separation of the two best scores, zero when fewer
// than two candidates remain.
func deltaTop12(sorted []Candidate) float64 {
	if len(sorted) < 2 {
		return 0
	}
	return clip01(sorted[0].Score - sorted[1].Score)
}

// coTypes proposes runner-up codes close enough to the winner to count
// as additional types: within policy.CoTypeGap of the top score and at
// least policy.CoTypeMinScore on their own, at most policy.MaxCoTypes.
func coTypes(sorted []Candidate, policy Policy) []string {
	if len(sorted) < 2 {
		return nil
	}
	top := sorted[0]
	var co []string
	for _, c := range sorted[1:] {
		if len(co) >= policy.MaxCoTypes {
			break
		}
		if top.Score-c.Score <= policy.CoTypeGap && c.Score >= policy.CoTypeMinScore {
			co = append(co, c.Code)
		}
	}
	return co
}

func clip01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

// TextWarnings returns the data-quality warnings for one input text:
// WarnNoText when the text is empty after trimming, WarnShortText when
// it runs under shortLen runes.
func TextWarnings(text string, shortLen int) []string {
	trimmed := strings.TrimSpace(text)
	switch {
	case trimmed == "":
		return []string{WarnNoText}
	case utf8.RuneCountInString(trimmed) < shortLen:
		return []string{WarnShortText}
	}
	return nil
}
