package selector

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/hashicorp/hcl/v2"
)

var osExpected = []string{`"global"`, `"windows"`, `"linux"`, `"darwin"`}

// Parse turns selector text into Selectors. Every "|"-separated alternative is
// parsed on its own so that independent mistakes are all reported; the error
// is then of type Errors.
func Parse(src string) (Selectors, error) {
	p := &parser{src: src}
	var (
		out  Selectors
		errs Errors
	)

	for {
		alt, err := p.alternative()
		if err != nil {
			errs = append(errs, err)
			p.recover()
		} else {
			out = append(out, alt)
			p.skipSpace()
		}

		if p.eof() {
			break
		}
		if p.peek() == '|' {
			p.pos++
			continue
		}
		if err == nil {
			errs = append(errs, p.errorf([]string{`"|"`, "end of input"}))
			p.recover()
			if p.eof() {
				break
			}
			p.pos++
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}
	if err := validate(src, out); err != nil {
		return nil, Errors{err}
	}
	return out, nil
}

func validate(src string, sel Selectors) *SyntaxError {
	if len(sel) < 2 {
		return nil
	}
	for _, alt := range sel {
		if alt.OS == Global {
			return &SyntaxError{
				Source: src,
				Range:  rangeOf(src, 0, len(src)),
				Reason: "global cannot be combined with an operating system",
			}
		}
	}
	return nil
}

type parser struct {
	src string
	pos int
}

func (p *parser) eof() bool { return p.pos >= len(p.src) }

func (p *parser) peek() byte {
	if p.eof() {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) skipSpace() {
	for !p.eof() {
		switch p.src[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

// recover moves to the next "|" that is not inside a string literal.
func (p *parser) recover() {
	inString := false
	for !p.eof() {
		c := p.src[p.pos]
		switch {
		case inString && c == '\\':
			p.pos++
		case c == '"':
			inString = !inString
		case !inString && c == '|':
			return
		}
		p.pos++
	}
	p.pos = len(p.src)
}

func (p *parser) errorf(expected []string) *SyntaxError {
	found := ""
	end := p.pos
	if !p.eof() {
		r, size := utf8.DecodeRuneInString(p.src[p.pos:])
		found = strconv.QuoteRune(r)
		end += size
	}
	return &SyntaxError{
		Source:   p.src,
		Range:    rangeOf(p.src, p.pos, end),
		Expected: expected,
		Found:    found,
	}
}

func (p *parser) alternative() (Alternative, *SyntaxError) {
	p.skipSpace()
	start := p.pos
	name := p.ident()
	if name == "" {
		return Alternative{}, p.errorf(osExpected)
	}
	os, ok := ParseOS(name)
	if !ok {
		return Alternative{}, &SyntaxError{
			Source:   p.src,
			Range:    rangeOf(p.src, start, p.pos),
			Expected: osExpected,
			Found:    strconv.Quote(name),
		}
	}

	alt := Alternative{OS: os}
	for {
		p.skipSpace()
		if p.peek() != '[' {
			return alt, nil
		}
		p.pos++
		preds, err := p.block()
		if err != nil {
			return Alternative{}, err
		}
		alt.Predicates = append(alt.Predicates, preds...)
	}
}

// block parses the inside of an attribute block after its "[".
func (p *parser) block() ([]Predicate, *SyntaxError) {
	p.skipSpace()
	if p.peek() == ']' {
		p.pos++
		return nil, nil
	}

	var preds []Predicate
	for {
		pred, err := p.predicate()
		if err != nil {
			return nil, err
		}
		preds = append(preds, pred)

		p.skipSpace()
		switch p.peek() {
		case ',':
			p.pos++
		case ']':
			p.pos++
			return preds, nil
		default:
			return nil, p.errorf([]string{`","`, `"]"`})
		}
	}
}

func (p *parser) predicate() (Predicate, *SyntaxError) {
	p.skipSpace()
	key, err := p.path()
	if err != nil {
		return Predicate{}, err
	}
	p.skipSpace()
	op, err := p.operator()
	if err != nil {
		return Predicate{}, err
	}
	p.skipSpace()
	value, err := p.str()
	if err != nil {
		return Predicate{}, err
	}
	return Predicate{Key: key, Op: op, Value: value}, nil
}

func (p *parser) path() (string, *SyntaxError) {
	var segs []string
	for {
		seg := p.ident()
		if seg == "" {
			return "", p.errorf([]string{"attribute name"})
		}
		segs = append(segs, seg)
		if p.peek() != '.' {
			return strings.Join(segs, "."), nil
		}
		p.pos++
	}
}

func (p *parser) ident() string {
	start := p.pos
	for !p.eof() {
		c := p.src[p.pos]
		alpha := c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
		digit := c >= '0' && c <= '9'
		if !alpha && !(digit && p.pos > start) {
			break
		}
		p.pos++
	}
	return p.src[start:p.pos]
}

func (p *parser) operator() (Operator, *SyntaxError) {
	if p.peek() == '=' {
		p.pos++
		return Eq, nil
	}
	if p.pos+1 < len(p.src) && p.src[p.pos+1] == '=' {
		for op, sym := range operatorSymbols {
			if sym[0] == p.src[p.pos] && len(sym) == 2 {
				p.pos += 2
				return op, nil
			}
		}
	}
	return Eq, p.errorf([]string{`"="`, `"^="`, `"$="`, `"*="`, `"!="`})
}

func (p *parser) str() (string, *SyntaxError) {
	if p.peek() != '"' {
		return "", p.errorf([]string{"quoted string"})
	}
	p.pos++

	var b strings.Builder
	for {
		if p.eof() {
			return "", p.errorf([]string{`"\""`})
		}
		c := p.src[p.pos]
		switch {
		case c == '"':
			p.pos++
			return b.String(), nil
		case c == '\\':
			if err := p.escape(&b); err != nil {
				return "", err
			}
		default:
			r, size := utf8.DecodeRuneInString(p.src[p.pos:])
			b.WriteRune(r)
			p.pos += size
		}
	}
}

func (p *parser) escape(b *strings.Builder) *SyntaxError {
	p.pos++
	if p.eof() {
		return p.errorf([]string{"escape character"})
	}
	c := p.src[p.pos]
	p.pos++
	switch c {
	case '\\', '/', '"':
		b.WriteByte(c)
	case 'b':
		b.WriteByte('\b')
	case 'f':
		b.WriteByte('\f')
	case 'n':
		b.WriteByte('\n')
	case 'r':
		b.WriteByte('\r')
	case 't':
		b.WriteByte('\t')
	case 'u':
		if p.pos+4 > len(p.src) {
			p.pos = len(p.src)
			return p.errorf([]string{"four hex digits"})
		}
		code, err := strconv.ParseUint(p.src[p.pos:p.pos+4], 16, 32)
		if err != nil {
			return p.errorf([]string{"four hex digits"})
		}
		p.pos += 4
		r := rune(code)
		if !utf8.ValidRune(r) {
			r = utf8.RuneError
		}
		b.WriteRune(r)
	default:
		p.pos--
		return p.errorf([]string{`"\\"`, `"/"`, `"\""`, `"b"`, `"f"`, `"n"`, `"r"`, `"t"`, `"u"`})
	}
	return nil
}

func rangeOf(src string, start, end int) hcl.Range {
	return hcl.Range{
		Filename: SourceName,
		Start:    posOf(src, start),
		End:      posOf(src, end),
	}
}

func posOf(src string, offset int) hcl.Pos {
	if offset > len(src) {
		offset = len(src)
	}
	line, col := 1, 1
	for _, r := range src[:offset] {
		if r == '\n' {
			line++
			col = 1
			continue
		}
		col++
	}
	return hcl.Pos{Line: line, Column: col, Byte: offset}
}
