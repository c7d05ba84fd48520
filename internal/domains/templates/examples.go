package templates

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
	"unicode/utf8"
)

var (
	ErrEmptyExample     = errors.New("example is empty")
	ErrNotAList         = errors.New("example is not a list")
	ErrUnsupportedValue = errors.New("unsupported example value")
)

// SyntaxError reports malformed example text.
type SyntaxError struct {
	Offset int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("example syntax error at offset %d: %s", e.Offset, e.Msg)
}

// ParseExamples parses a list literal such as ['Alice', "4821", 3] into its
// values rendered as text. Tuples are accepted as lists, a list holding a
// single nested list is unwrapped, and None becomes "". Dictionaries and
// deeper nesting are rejected with ErrUnsupportedValue.
func ParseExamples(s string) ([]string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, ErrEmptyExample
	}

	p := &literalParser{src: s}
	v, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if !p.eof() {
		return nil, p.errorf("unexpected %q after literal", p.peek())
	}

	list, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: got a single value", ErrNotAList)
	}

	if len(list) == 1 {
		if inner, ok := list[0].([]any); ok {
			list = inner
		}
	}

	values := make([]string, len(list))
	for i, item := range list {
		text, ok := item.(string)
		if !ok {
			return nil, fmt.Errorf("%w: nested list at position %d", ErrUnsupportedValue, i)
		}
		values[i] = text
	}
	return values, nil
}

// maxDepth is the deepest sequence nesting ParseExamples can return.
const maxDepth = 2

// literalParser reads scalars as strings and sequences as []any.
type literalParser struct {
	src   string
	pos   int
	depth int
}

func (p *literalParser) eof() bool {
	return p.pos >= len(p.src)
}

func (p *literalParser) peek() byte {
	return p.src[p.pos]
}

func (p *literalParser) errorf(format string, args ...any) error {
	return &SyntaxError{Offset: p.pos, Msg: fmt.Sprintf(format, args...)}
}

func (p *literalParser) skipSpace() {
	for !p.eof() {
		switch p.peek() {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

func (p *literalParser) parseValue() (any, error) {
	p.skipSpace()
	if p.eof() {
		return nil, p.errorf("unexpected end of input")
	}

	c := p.peek()
	switch {
	case c == '[':
		return p.parseSequence(']')
	case c == '(':
		return p.parseSequence(')')
	case c == '{':
		return nil, fmt.Errorf("%w: dictionary at offset %d", ErrUnsupportedValue, p.pos)
	case c == '\'' || c == '"':
		return p.parseStrings(false)
	case (c == 'r' || c == 'R') && p.quoteAt(p.pos+1):
		p.pos++
		return p.parseStrings(true)
	case (c == 'u' || c == 'U') && p.quoteAt(p.pos+1):
		p.pos++
		return p.parseStrings(false)
	case c == '-' || c == '+' || c == '.' || isDigit(c):
		return p.parseNumber()
	case isIdentStart(c):
		return p.parseKeyword()
	default:
		return nil, p.errorf("unexpected character %q", c)
	}
}

func (p *literalParser) quoteAt(i int) bool {
	return i < len(p.src) && (p.src[i] == '\'' || p.src[i] == '"')
}

func (p *literalParser) parseSequence(closer byte) (any, error) {
	if p.depth >= maxDepth {
		return nil, fmt.Errorf("%w: nesting deeper than %d at offset %d", ErrUnsupportedValue, maxDepth, p.pos)
	}
	p.depth++
	defer func() { p.depth-- }()

	p.pos++ // opening bracket
	items := []any{}
	commas := 0

	for {
		p.skipSpace()
		if p.eof() {
			return nil, p.errorf("unexpected end of input, expected %q", closer)
		}
		if p.peek() == closer {
			p.pos++
			break
		}

		item, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		items = append(items, item)

		p.skipSpace()
		if p.eof() {
			return nil, p.errorf("unexpected end of input, expected %q", closer)
		}
		switch p.peek() {
		case ',':
			p.pos++
			commas++
		case closer:
		default:
			return nil, p.errorf("expected ',' or %q, got %q", closer, p.peek())
		}
	}

	// (x) without a comma is a parenthesized value, not a tuple.
	if closer == ')' && len(items) == 1 && commas == 0 {
		return items[0], nil
	}
	return items, nil
}

// parseStrings reads one string literal plus any adjacent literals, which
// are concatenated.
func (p *literalParser) parseStrings(raw bool) (any, error) {
	var sb strings.Builder
	for {
		s, err := p.parseString(raw)
		if err != nil {
			return nil, err
		}
		sb.WriteString(s)

		p.skipSpace()
		if p.eof() || !p.quoteAt(p.pos) {
			return sb.String(), nil
		}
		raw = false
	}
}

func (p *literalParser) parseString(raw bool) (string, error) {
	quote := p.peek()
	start := p.pos
	p.pos++

	var sb strings.Builder
	for {
		if p.eof() {
			return "", &SyntaxError{Offset: start, Msg: "unterminated string"}
		}
		c := p.peek()
		switch {
		case c == quote:
			p.pos++
			return sb.String(), nil
		case c == '\\' && raw:
			sb.WriteByte(c)
			p.pos++
			if !p.eof() {
				sb.WriteByte(p.peek())
				p.pos++
			}
		case c == '\\':
			if err := p.parseEscape(&sb); err != nil {
				return "", err
			}
		default:
			r, size := utf8.DecodeRuneInString(p.src[p.pos:])
			sb.WriteRune(r)
			p.pos += size
		}
	}
}

func (p *literalParser) parseEscape(sb *strings.Builder) error {
	p.pos++ // backslash
	if p.eof() {
		return p.errorf("unterminated escape sequence")
	}

	c := p.peek()
	p.pos++
	switch c {
	case '\n':
	case '\\', '\'', '"':
		sb.WriteByte(c)
	case 'n':
		sb.WriteByte('\n')
	case 't':
		sb.WriteByte('\t')
	case 'r':
		sb.WriteByte('\r')
	case 'b':
		sb.WriteByte('\b')
	case 'f':
		sb.WriteByte('\f')
	case 'v':
		sb.WriteByte('\v')
	case 'a':
		sb.WriteByte('\a')
	case 'x':
		return p.parseCodePoint(sb, 2)
	case 'u':
		return p.parseCodePoint(sb, 4)
	case 'U':
		return p.parseCodePoint(sb, 8)
	case '0', '1', '2', '3', '4', '5', '6', '7':
		end := p.pos
		for end < len(p.src) && end < p.pos+2 && p.src[end] >= '0' && p.src[end] <= '7' {
			end++
		}
		n, _ := strconv.ParseUint(string(c)+p.src[p.pos:end], 8, 32)
		p.pos = end
		sb.WriteRune(rune(n))
	default:
		sb.WriteByte('\\')
		sb.WriteByte(c)
	}
	return nil
}

func (p *literalParser) parseCodePoint(sb *strings.Builder, digits int) error {
	if p.pos+digits > len(p.src) {
		return p.errorf("truncated escape sequence")
	}
	n, err := strconv.ParseUint(p.src[p.pos:p.pos+digits], 16, 32)
	if err != nil || n > utf8.MaxRune {
		return p.errorf("invalid escape sequence %q", p.src[p.pos:p.pos+digits])
	}
	p.pos += digits
	sb.WriteRune(rune(n))
	return nil
}

func (p *literalParser) parseNumber() (any, error) {
	start := p.pos
	if c := p.peek(); c == '-' || c == '+' {
		p.pos++
	}
	for !p.eof() {
		c := p.peek()
		exponentSign := (c == '-' || c == '+') && p.pos > start && (p.src[p.pos-1] == 'e' || p.src[p.pos-1] == 'E')
		if isDigit(c) || c == '.' || c == '_' || isLetter(c) || exponentSign {
			p.pos++
			continue
		}
		break
	}

	text := p.src[start:p.pos]
	if v, ok := parseInteger(text); ok {
		return v, nil
	}
	if v, ok := parseFloat(text); ok {
		return v, nil
	}
	return nil, &SyntaxError{Offset: start, Msg: fmt.Sprintf("invalid number %q", text)}
}

// parseInteger accepts decimal, 0x, 0o and 0b literals of any size and
// returns them in decimal.
func parseInteger(text string) (string, bool) {
	digits := strings.TrimLeft(text, "+-")
	if len(digits) > 1 && digits[0] == '0' && isDigit(digits[1]) && strings.Trim(digits, "0_") != "" {
		return "", false
	}
	n, ok := new(big.Int).SetString(text, 0)
	if !ok {
		return "", false
	}
	return n.String(), true
}

// parseFloat returns a decimal float literal in its shortest form, always
// with a fraction or an exponent.
func parseFloat(text string) (string, bool) {
	if !strings.ContainsAny(text, ".eE") {
		return "", false
	}
	if strings.ContainsFunc(text, func(r rune) bool {
		return !strings.ContainsRune("0123456789._eE+-", r)
	}) {
		return "", false
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(text, "_", ""), 64)
	if err != nil || math.IsInf(f, 0) {
		return "", false
	}

	if abs := math.Abs(f); abs >= 1e16 || (abs != 0 && abs < 1e-4) {
		return strconv.FormatFloat(f, 'e', -1, 64), true
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s, true
}

func (p *literalParser) parseKeyword() (any, error) {
	start := p.pos
	for !p.eof() && (isIdentStart(p.peek()) || isDigit(p.peek())) {
		p.pos++
	}

	switch word := p.src[start:p.pos]; word {
	case "True", "False":
		return word, nil
	case "None":
		return "", nil
	default:
		return nil, &SyntaxError{Offset: start, Msg: fmt.Sprintf("unexpected name %q", word)}
	}
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentStart(c byte) bool {
	return isLetter(c) || c == '_'
}
