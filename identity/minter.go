// Package identity mints stable entity IRIs from raw tabular field values.
//
// Minting is deterministic and idempotent: equivalent raw spellings (case,
// whitespace, Cyrillic lookalikes, a documented uncertainty marker) always
// produce byte-identical identifiers, within one process and across runs.
package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/c360studio/folkgraph/vocabulary/folk"
)

// Kind selects the namespace segment and normalization rules for an
// identifier.
type Kind string

const (
	KindTale       Kind = "tale"
	KindVolume     Kind = "volume"
	KindCollection Kind = "collection"
	KindPerson     Kind = "person"
	KindPlace      Kind = "place"
	KindConcept    Kind = "concept"
	KindRun        Kind = "run"
	KindModel      Kind = "model"
	KindResult     Kind = "result"
	KindInputText  Kind = "inputText"
	KindBiblio     Kind = "biblio"
	KindDataset    Kind = "dataset"
)

// Policy controls how the '*' uncertainty marker on classification codes
// is folded into an identifier.
type Policy string

const (
	// PolicyHyphen replaces '*' with the stable word "-star". Readable,
	// the default everywhere.
	PolicyHyphen Policy = "hyphen"

	// PolicyPercent leaves '*' in place so that percent-encoding renders
	// it as %2A.
	PolicyPercent Policy = "percent"
)

var (
	wsRun       = regexp.MustCompile(`\s+`)
	slugBad     = regexp.MustCompile(`[^a-z0-9-]`)
	hyphenRun   = regexp.MustCompile(`-{2,}`)
	atuParentRe = regexp.MustCompile(`^\s*(?:ATU[_\s-]*)?(\d{1,4})`)
	numPrefixRe = regexp.MustCompile(`^(\d+)`)
)

// segments maps each kind onto its entity path segment.
var segments = map[Kind]string{
	KindTale:       folk.SegmentTale,
	KindVolume:     folk.SegmentVolume,
	KindCollection: folk.SegmentCollection,
	KindPerson:     folk.SegmentPerson,
	KindPlace:      folk.SegmentPlace,
	KindConcept:    folk.SegmentTaleType,
	KindRun:        folk.SegmentEvent,
	KindModel:      folk.SegmentModel,
	KindResult:     folk.SegmentResult,
	KindInputText:  folk.SegmentInputText,
	KindBiblio:     folk.SegmentBiblio,
	KindDataset:    folk.SegmentDataset,
}

// Mint returns the full IRI for one entity under the default marker policy.
func Mint(kind Kind, raw string) (string, error) {
	return MintWithPolicy(kind, raw, PolicyHyphen)
}

// MintWithPolicy mints an IRI with an explicit marker policy.
// Empty or whitespace-only input is rejected; an empty identifier is
// never minted.
func MintWithPolicy(kind Kind, raw string, policy Policy) (string, error) {
	local, err := localName(kind, raw, policy)
	if err != nil {
		return "", err
	}
	return folk.EntityNamespace + segments[kind] + "/" + local, nil
}

// MintParts mints an IRI whose local name has several path segments, each
// normalized and encoded independently (classification events and results
// are keyed by tale id plus timestamp slug).
func MintParts(kind Kind, parts ...string) (string, error) {
	if len(parts) == 0 {
		return "", &ValidationError{Field: string(kind), Message: "must not be empty"}
	}
	encoded := make([]string, 0, len(parts))
	for _, p := range parts {
		local, err := localName(kind, p, PolicyHyphen)
		if err != nil {
			return "", err
		}
		encoded = append(encoded, local)
	}
	return folk.EntityNamespace + segments[kind] + "/" + strings.Join(encoded, "/"), nil
}

// localName runs the per-kind normalization pipeline and percent-encodes
// the result as a single path segment.
func localName(kind Kind, raw string, policy Policy) (string, error) {
	s := CleanWS(raw)
	if s == "" {
		return "", &ValidationError{Field: string(kind), Message: "must not be empty"}
	}

	switch kind {
	case KindConcept:
		s = NormalizeCode(s, policy)
	case KindCollection, KindPerson, KindPlace:
		s = Slugify(s)
	}
	return encodePathSegment(s), nil
}

// CleanWS collapses all whitespace runs to single spaces and trims.
func CleanWS(s string) string {
	return strings.TrimSpace(wsRun.ReplaceAllString(s, " "))
}

// NormalizeCode normalizes an ATU classification code for minting:
// Cyrillic lookalikes folded to Latin, internal whitespace removed,
// uppercased, and the '*' marker handled per policy. Total and
// idempotent; "480a", "480 A" and "480А" all normalize to "480A".
func NormalizeCode(code string, policy Policy) string {
	s := Transliterate(code)
	s = strings.ToUpper(wsRun.ReplaceAllString(s, ""))
	if policy == PolicyHyphen {
		s = strings.ReplaceAll(s, "*", "-star")
	}
	return s
}

// Notation normalizes a code for display contexts (skos:notation) where
// the '*' marker stays verbatim.
func Notation(code string) string {
	s := CleanWS(code)
	if s == "" || IsMissingToken(s) {
		return ""
	}
	return strings.ToUpper(strings.ReplaceAll(Transliterate(s), " ", ""))
}

// IsMissingToken reports whether a cleaned cell value is one of the
// recognized "missing" sentinels.
func IsMissingToken(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "<na>", "na", "nan", "none":
		return true
	}
	return false
}

// Slugify folds a free-text value into the slug alphabet: lowercase,
// spaces and underscores become hyphens, everything outside [a-z0-9-] is
// dropped, hyphen runs collapse. A value that slugs away entirely becomes
// "unknown".
func Slugify(s string) string {
	slug := strings.ToLower(CleanWS(s))
	slug = strings.ReplaceAll(slug, " ", "-")
	slug = strings.ReplaceAll(slug, "_", "-")
	slug = slugBad.ReplaceAllString(slug, "-")
	slug = hyphenRun.ReplaceAllString(slug, "-")
	slug = strings.Trim(slug, "-")
	if slug == "" {
		return "unknown"
	}
	return slug
}

// AtuParent extracts the leading numeric tale type from a code or label,
// tolerating an "ATU" prefix ("ATU 510A" -> "510", "1060*" -> "1060").
// Returns "" when no numeric type is present.
func AtuParent(s string) string {
	m := atuParentRe.FindStringSubmatch(s)
	if m == nil {
		return ""
	}
	return m[1]
}

// NumericPrefix returns the numeric part of a normalized code, ignoring
// letter suffixes and trailing stars. Codes without a numeric part sort
// after all numbered ones.
func NumericPrefix(code string) int {
	base := strings.TrimRight(Notation(code), "*")
	m := numPrefixRe.FindStringSubmatch(base)
	if m == nil {
		return 1 << 30
	}
	n := 0
	for _, d := range m[1] {
		n = n*10 + int(d-'0')
	}
	return n
}

// CodeSortKey decomposes a code for catalogue ordering: numeric type,
// letter suffix, then star count ("1060" before "1060*").
func CodeSortKey(code string) (int, string, int) {
	c := Notation(code)
	base := strings.TrimRight(c, "*")
	stars := len(c) - len(base)
	m := numPrefixRe.FindStringSubmatch(base)
	if m == nil {
		return 1 << 30, base, stars
	}
	n := 0
	for _, d := range m[1] {
		n = n*10 + int(d-'0')
	}
	return n, base[len(m[1]):], stars
}

// TimestampSlug renders a UTC timestamp as a path-safe slug: RFC 3339
// with colons replaced by hyphens ("2024-05-01T10-30-00Z").
func TimestampSlug(t time.Time) string {
	s := t.UTC().Format(time.RFC3339)
	return strings.ReplaceAll(s, ":", "-")
}

const unreserved = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-._~"

const upperhex = "0123456789ABCDEF"

// encodePathSegment percent-encodes one path segment, keeping only the
// RFC 3986 unreserved set.
func encodePathSegment(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if strings.IndexByte(unreserved, c) >= 0 {
			sb.WriteByte(c)
			continue
		}
		sb.WriteByte('%')
		sb.WriteByte(upperhex[c>>4])
		sb.WriteByte(upperhex[c&0x0f])
	}
	return sb.String()
}
