package tabular

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// delimiterCandidates is the fixed candidate set for sniffing, in
// preference order.
var delimiterCandidates = []rune{',', ';', '\t', '|'}

const sniffSize = 4096

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Load reads one tabular file: delimiter sniffed, encoding resolved
// through the fallback chain, first row taken as the header.
func Load(path string) (*Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read table %s: %w", path, err)
	}
	return Parse(raw, path)
}

// LoadDelimited is Load with a caller-fixed delimiter, for side files with
// a known format (the semicolon-delimited mapping and reference tables).
func LoadDelimited(path string, delim rune) (*Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read table %s: %w", path, err)
	}
	text := DecodeBytes(raw)
	return parseWithDelimiter(text, path, delim)
}

// Parse decodes and parses raw bytes into a table.
func Parse(raw []byte, path string) (*Table, error) {
	text := DecodeBytes(raw)
	delim := DetectDelimiter(text)
	return parseWithDelimiter(text, path, delim)
}

func parseWithDelimiter(text, path string, delim rune) (*Table, error) {
	r := csv.NewReader(strings.NewReader(text))
	r.Comma = delim
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("parse table %s: empty file", path)
	}
	if err != nil {
		return nil, fmt.Errorf("parse table %s: %w", path, err)
	}

	cols := make([]string, len(header))
	for i, h := range header {
		cols[i] = strings.TrimSpace(h)
	}

	t := &Table{Path: path, Columns: cols}
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Ragged or broken line: recover, keep the rest of the file.
			continue
		}
		if allEmpty(record) {
			continue
		}
		row := make(Row, len(cols))
		for i, c := range cols {
			if i < len(record) {
				row[c] = record[i]
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t, nil
}

func allEmpty(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// DecodeBytes resolves the file encoding: UTF-8 with BOM strip, plain
// UTF-8, then cp1251, cp1252 and latin-1, finally a lossy UTF-8 decode
// with replacement runes. Never fails on encoding alone.
func DecodeBytes(raw []byte) string {
	if bytes.HasPrefix(raw, utf8BOM) {
		raw = raw[len(utf8BOM):]
	}
	if utf8.Valid(raw) {
		return string(raw)
	}

	for _, cm := range []*charmap.Charmap{charmap.Windows1251, charmap.Windows1252, charmap.ISO8859_1} {
		decoded, err := cm.NewDecoder().Bytes(raw)
		if err != nil {
			continue
		}
		// A replacement rune means the byte had no mapping in this
		// charmap; try the next one. Latin-1 maps every byte, so the
		// chain always terminates.
		if !bytes.ContainsRune(decoded, utf8.RuneError) {
			return string(decoded)
		}
	}

	// Last resort: keep what is valid, replace the rest.
	return strings.ToValidUTF8(string(raw), string(utf8.RuneError))
}

// DetectDelimiter samples the head of the decoded text and scores each
// candidate by consistency: a delimiter that splits every sampled line
// into the same column count wins. Inconclusive samples fall back to the
// most frequent candidate in the header line.
func DetectDelimiter(text string) rune {
	sample := text
	if len(sample) > sniffSize {
		sample = sample[:sniffSize]
	}
	lines := sampleLines(sample)
	if len(lines) == 0 {
		return delimiterCandidates[0]
	}

	best := rune(0)
	bestCols := 1
	for _, cand := range delimiterCandidates {
		cols, consistent := columnCount(lines, cand)
		if consistent && cols > bestCols {
			best = cand
			bestCols = cols
		}
	}
	if best != 0 {
		return best
	}

	// Fall back to whichever candidate the header mentions most.
	header := lines[0]
	best = delimiterCandidates[0]
	bestCount := -1
	for _, cand := range delimiterCandidates {
		if n := strings.Count(header, string(cand)); n > bestCount {
			best = cand
			bestCount = n
		}
	}
	return best
}

// sampleLines keeps non-empty lines, dropping the final line in case the
// sample cut it mid-record.
func sampleLines(sample string) []string {
	all := strings.Split(sample, "\n")
	if len(all) > 1 {
		all = all[:len(all)-1]
	}
	var lines []string
	for _, ln := range all {
		ln = strings.TrimRight(ln, "\r")
		if strings.TrimSpace(ln) != "" {
			lines = append(lines, ln)
		}
		if len(lines) == 10 {
			break
		}
	}
	return lines
}

// columnCount splits every sampled line with the candidate and reports
// the shared column count, or false when the lines disagree. Quoted
// fields are not considered at sniffing stage; consistency over several
// lines makes accidental matches unlikely.
func columnCount(lines []string, delim rune) (int, bool) {
	count := strings.Count(lines[0], string(delim)) + 1
	if count < 2 {
		return 1, false
	}
	for _, ln := range lines[1:] {
		if strings.Count(ln, string(delim))+1 != count {
			return count, false
		}
	}
	return count, true
}
