package tabular

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/c360studio/folkgraph/identity"
)

var (
	splitRe = regexp.MustCompile(`[;,|]\s*|\s{2,}`)
	// quoted elements of a bracketed literal list, single or double quotes
	literalItemRe = regexp.MustCompile(`'([^']*)'|"([^"]*)"`)
)

// ParseList parses a list-encoded cell into an ordered string list.
// Strategies in fixed precedence: JSON array, bracketed quoted-literal
// list ("['a', 'b']"), then splitting on the common separators
// (";", ",", "|", or runs of two and more spaces). Blank cells and
// missing sentinels parse to an empty list, never an error.
func ParseList(cell string) []string {
	s := identity.CleanWS(cell)
	if s == "" || identity.IsMissingToken(s) {
		return []string{}
	}

	if items, ok := parseJSONList(s); ok {
		return items
	}
	if items, ok := parseLiteralList(s); ok {
		return items
	}

	parts := splitRe.Split(s, -1)
	items := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := identity.CleanWS(p); v != "" {
			items = append(items, v)
		}
	}
	return items
}

// parseJSONList accepts a JSON array of strings, or a bare JSON string.
func parseJSONList(s string) ([]string, bool) {
	switch {
	case strings.HasPrefix(s, "["):
		var arr []any
		if err := json.Unmarshal([]byte(s), &arr); err != nil {
			return nil, false
		}
		items := make([]string, 0, len(arr))
		for _, v := range arr {
			var str string
			switch x := v.(type) {
			case string:
				str = x
			case float64:
				str = strconv.FormatFloat(x, 'f', -1, 64)
			default:
				return nil, false
			}
			if cleaned := identity.CleanWS(str); cleaned != "" {
				items = append(items, cleaned)
			}
		}
		return items, true
	case strings.HasPrefix(s, `"`):
		var str string
		if err := json.Unmarshal([]byte(s), &str); err != nil {
			return nil, false
		}
		if cleaned := identity.CleanWS(str); cleaned != "" {
			return []string{cleaned}, true
		}
		return []string{}, true
	}
	return nil, false
}

// parseLiteralList accepts the single-quoted list literal form exported
// by tabular tooling: ['a', 'b']. Only quoted elements are taken; a
// bracketed cell without any quoted element falls through to splitting.
func parseLiteralList(s string) ([]string, bool) {
	if !strings.HasPrefix(s, "[") || !strings.HasSuffix(s, "]") {
		return nil, false
	}
	inner := strings.TrimSpace(s[1 : len(s)-1])
	if inner == "" {
		return []string{}, true
	}
	matches := literalItemRe.FindAllStringSubmatch(inner, -1)
	if len(matches) == 0 {
		return nil, false
	}
	items := make([]string, 0, len(matches))
	for _, m := range matches {
		v := m[1]
		if v == "" {
			v = m[2]
		}
		if cleaned := identity.CleanWS(v); cleaned != "" {
			items = append(items, cleaned)
		}
	}
	return items, true
}
