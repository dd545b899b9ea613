package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/c360studio/folkgraph/graph"
	"github.com/c360studio/folkgraph/vocabulary/folk"
)

// Parse reads the Turtle dialect the writer emits back into a
// graph: prefix directives, IRIs, prefixed names, the "a" shorthand and
// quoted literals with language tags or datatypes. Blank nodes and
// multi-line strings are not part of the dialect.
func Parse(r io.Reader) (*graph.Graph, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading turtle: %w", err)
	}
	p := &ttlParser{src: string(data), line: 1, prefixes: make(map[string]string)}
	g := graph.New()
	for {
		p.skipSpace()
		if p.eof() {
			return g, nil
		}
		if p.peek() == '@' {
			if err := p.directive(); err != nil {
				return nil, err
			}
			continue
		}
		if p.peekWord() == "PREFIX" {
			p.word()
			if err := p.prefixBinding(false); err != nil {
				return nil, err
			}
			continue
		}
		if err := p.statement(g); err != nil {
			return nil, err
		}
	}
}

type ttlParser struct {
	src      string
	pos      int
	line     int
	prefixes map[string]string
}

func (p *ttlParser) errf(format string, args ...any) error {
	return p.errAtf(p.line, format, args...)
}

func (p *ttlParser) errAtf(line int, format string, args ...any) error {
	return fmt.Errorf("line %d: %s", line, fmt.Sprintf(format, args...))
}

func (p *ttlParser) eof() bool { return p.pos >= len(p.src) }

func (p *ttlParser) peek() byte {
	if p.eof() {
		return 0
	}
	return p.src[p.pos]
}

func (p *ttlParser) next() byte {
	c := p.src[p.pos]
	p.pos++
	if c == '\n' {
		p.line++
	}
	return c
}

func (p *ttlParser) skipSpace() {
	for !p.eof() {
		switch p.peek() {
		case ' ', '\t', '\r', '\n':
			p.next()
		case '#':
			for !p.eof() && p.peek() != '\n' {
				p.next()
			}
		default:
			return
		}
	}
}

func isWordByte(c byte) bool {
	return c == '_' || c == '-' || c == ':' ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// word consumes a run of name bytes. Words never span lines.
func (p *ttlParser) word() string {
	start := p.pos
	for !p.eof() && isWordByte(p.src[p.pos]) {
		p.pos++
	}
	return p.src[start:p.pos]
}

func (p *ttlParser) peekWord() string {
	save := p.pos
	w := p.word()
	p.pos = save
	return w
}

func (p *ttlParser) directive() error {
	p.next()
	switch w := p.word(); w {
	case "prefix":
		return p.prefixBinding(true)
	default:
		return p.errf("unsupported directive @%s", w)
	}
}

func (p *ttlParser) prefixBinding(requireDot bool) error {
	p.skipSpace()
	name := p.word()
	if !strings.HasSuffix(name, ":") {
		return p.errf("malformed prefix name %q", name)
	}
	name = strings.TrimSuffix(name, ":")
	p.skipSpace()
	if p.peek() != '<' {
		return p.errf("expected namespace IRI after prefix %q", name)
	}
	ns, err := p.readIRI()
	if err != nil {
		return err
	}
	p.prefixes[name] = ns
	p.skipSpace()
	if p.peek() == '.' {
		p.next()
	} else if requireDot {
		return p.errf("expected '.' after @prefix")
	}
	return nil
}

func (p *ttlParser) statement(g *graph.Graph) error {
	subj, err := p.iriTerm("subject")
	if err != nil {
		return err
	}
	for {
		p.skipSpace()
		pred, err := p.predicate()
		if err != nil {
			return err
		}
		for {
			p.skipSpace()
			obj, err := p.object()
			if err != nil {
				return err
			}
			g.Add(subj, pred, obj)
			p.skipSpace()
			if p.peek() != ',' {
				break
			}
			p.next()
		}
		switch p.peek() {
		case ';':
			p.next()
			p.skipSpace()
			if p.peek() == '.' {
				p.next()
				return nil
			}
		case '.':
			p.next()
			return nil
		default:
			return p.errf("expected ';' or '.' after object")
		}
	}
}

// iriTerm reads an IRI reference or prefixed name.
func (p *ttlParser) iriTerm(role string) (graph.IRI, error) {
	if p.peek() == '<' {
		iri, err := p.readIRI()
		return graph.IRI(iri), err
	}
	if w := p.word(); strings.Contains(w, ":") {
		return p.expand(w)
	}
	return "", p.errf("expected %s IRI", role)
}

func (p *ttlParser) predicate() (graph.IRI, error) {
	if p.peek() == '<' {
		iri, err := p.readIRI()
		return graph.IRI(iri), err
	}
	switch w := p.word(); {
	case w == "a":
		return folk.PredType, nil
	case strings.Contains(w, ":"):
		return p.expand(w)
	default:
		return "", p.errf("expected predicate, got %q", w)
	}
}

func (p *ttlParser) object() (graph.Term, error) {
	switch {
	case p.peek() == '<':
		iri, err := p.readIRI()
		return graph.IRI(iri), err
	case p.peek() == '"':
		return p.literal()
	default:
		if w := p.word(); strings.Contains(w, ":") {
			return p.expand(w)
		}
		return nil, p.errf("expected object term")
	}
}

func (p *ttlParser) literal() (graph.Term, error) {
	value, err := p.readString()
	if err != nil {
		return nil, err
	}
	switch {
	case p.peek() == '@':
		p.next()
		lang := p.word()
		if lang == "" {
			return nil, p.errf("empty language tag")
		}
		return graph.LangLiteral(value, lang), nil
	case strings.HasPrefix(p.src[p.pos:], "^^"):
		p.next()
		p.next()
		dt, err := p.iriTerm("datatype")
		if err != nil {
			return nil, err
		}
		return graph.TypedLiteral(value, string(dt)), nil
	}
	return graph.PlainLiteral(value), nil
}

func (p *ttlParser) readIRI() (string, error) {
	startLine := p.line
	p.next()
	start := p.pos
	for !p.eof() {
		c := p.peek()
		if c == '>' {
			iri := p.src[start:p.pos]
			p.next()
			return iri, nil
		}
		if c == '\n' {
			break
		}
		p.next()
	}
	return "", p.errAtf(startLine, "unterminated IRI reference")
}

func (p *ttlParser) readString() (string, error) {
	startLine := p.line
	p.next()
	var sb strings.Builder
	for !p.eof() {
		c := p.next()
		switch c {
		case '"':
			return sb.String(), nil
		case '\n':
			return "", p.errAtf(startLine, "unterminated string")
		case '\\':
			if p.eof() {
				return "", p.errAtf(startLine, "unterminated string")
			}
			switch e := p.next(); e {
			case '\\':
				sb.WriteByte('\\')
			case '"':
				sb.WriteByte('"')
			case 'n':
				sb.WriteByte('\n')
			case 'r':
				sb.WriteByte('\r')
			case 't':
				sb.WriteByte('\t')
			default:
				return "", p.errf("unsupported escape \\%c", e)
			}
		default:
			sb.WriteByte(c)
		}
	}
	return "", p.errAtf(startLine, "unterminated string")
}

func (p *ttlParser) expand(pname string) (graph.IRI, error) {
	prefix, local, _ := strings.Cut(pname, ":")
	if prefix == "_" {
		return "", p.errf("blank nodes are not supported")
	}
	ns, ok := p.prefixes[prefix]
	if !ok {
		return "", p.errf("unknown prefix %q", prefix)
	}
	return graph.IRI(ns + local), nil
}
