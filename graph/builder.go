package graph

import (
	"log/slog"
	"regexp"

	"github.com/c360studio/folkgraph/identity"
	"github.com/c360studio/folkgraph/tabular"
)

// Builder constructs entity graphs from normalized corpus tables. All
// builds are deterministic: the same table and options produce the same
// triple set.
type Builder struct {
	logger *slog.Logger
	policy identity.Policy
}

// NewBuilder creates a builder. A nil logger falls back to slog.Default.
func NewBuilder(logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{logger: logger, policy: identity.PolicyHyphen}
}

// SetPolicy selects the marker substitution policy used when minting
// classification code IRIs.
func (b *Builder) SetPolicy(p identity.Policy) {
	b.policy = p
}

var cyrillicRe = regexp.MustCompile(`\p{Cyrillic}`)

// guessLang tags Cyrillic text Russian and everything else Estonian. The
// corpus carries no per-cell language metadata, so this heuristic is the
// best available signal.
func guessLang(s string) string {
	if s == "" {
		return ""
	}
	if cyrillicRe.MatchString(s) {
		return "ru"
	}
	return "et"
}

// langLit builds a language-tagged literal from a raw cell value, or
// returns false when the value is empty after cleanup.
func langLit(raw string) (Literal, bool) {
	s := identity.CleanWS(raw)
	if s == "" {
		return Literal{}, false
	}
	return LangLiteral(s, guessLang(s)), true
}

// collectorIDs extracts collector person ids from a row. Ids come from
// collector_person_ids with collector_person_ids_str as the fallback;
// labels never mint ids because the person authority is separate.
func collectorIDs(r tabular.Row) []string {
	ids := tabular.ParseList(r.Get("collector_person_ids"))
	if len(ids) == 0 {
		ids = tabular.ParseList(r.Get("collector_person_ids_str"))
	}
	return ids
}

// mintIRI mints an entity IRI, logging and skipping values the minter
// rejects. Callers pre-check required ids, so a miss here only drops an
// optional edge.
func (b *Builder) mintIRI(kind identity.Kind, raw string) (IRI, bool) {
	id, err := identity.MintWithPolicy(kind, raw, b.policy)
	if err != nil {
		b.logger.Warn("skipping unmintable value", "kind", string(kind), "value", raw)
		return "", false
	}
	return IRI(id), true
}
