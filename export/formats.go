package export

import (
	"fmt"
	"sort"
	"strings"
)

// Format specifies the output serialization format.
type Format string

const (
	// FormatTurtle produces Turtle (.ttl) output.
	FormatTurtle Format = "turtle"

	// FormatNTriples produces N-Triples (.nt) output.
	FormatNTriples Format = "ntriples"

	// FormatJSONLD produces JSON-LD (.jsonld) output.
	FormatJSONLD Format = "jsonld"
)

// FormatInfo provides metadata about an export format.
type FormatInfo struct {
	// Name is the format identifier.
	Name Format

	// MIMEType is the standard MIME type.
	MIMEType string

	// Extension is the file extension (with dot).
	Extension string

	// Description describes the format.
	Description string
}

// FormatRegistry contains metadata for all supported formats.
var FormatRegistry = map[Format]FormatInfo{
	FormatTurtle: {
		Name:        FormatTurtle,
		MIMEType:    "text/turtle",
		Extension:   ".ttl",
		Description: "Turtle - Terse RDF Triple Language",
	},
	FormatNTriples: {
		Name:        FormatNTriples,
		MIMEType:    "application/n-triples",
		Extension:   ".nt",
		Description: "N-Triples - Line-based RDF format",
	},
	FormatJSONLD: {
		Name:        FormatJSONLD,
		MIMEType:    "application/ld+json",
		Extension:   ".jsonld",
		Description: "JSON-LD - JSON for Linked Data",
	},
}

// formatAliases maps the short names accepted on the command line onto
// canonical formats.
var formatAliases = map[string]Format{
	"turtle":    FormatTurtle,
	"ttl":       FormatTurtle,
	"ntriples":  FormatNTriples,
	"n-triples": FormatNTriples,
	"nt":        FormatNTriples,
	"jsonld":    FormatJSONLD,
	"json-ld":   FormatJSONLD,
}

// ParseFormat resolves a format name or alias.
func ParseFormat(name string) (Format, error) {
	if f, ok := formatAliases[strings.ToLower(strings.TrimSpace(name))]; ok {
		return f, nil
	}
	return "", fmt.Errorf("unsupported format: %s", name)
}

// GetFormatInfo returns metadata for a format.
func GetFormatInfo(format Format) (FormatInfo, bool) {
	info, ok := FormatRegistry[format]
	return info, ok
}

// Formats returns the supported formats in stable order.
func Formats() []Format {
	names := make([]Format, 0, len(FormatRegistry))
	for f := range FormatRegistry {
		names = append(names, f)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })
	return names
}

// Export serializes the graph to the requested format.
func (w *Writer) Export(format Format) ([]byte, error) {
	switch format {
	case FormatTurtle:
		return w.Turtle(), nil
	case FormatNTriples:
		return w.NTriples(), nil
	case FormatJSONLD:
		return w.JSONLD(ShapeGraph)
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}
