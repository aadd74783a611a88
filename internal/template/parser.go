package template

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// parser is a recursive-descent parser over a template source string.
// It scans left to right with an explicit byte position; the first error
// aborts with no partial template.
type parser struct {
	input string
	pos   int
}

// Parse converts a template source string into a Template. {{ and }} are
// escape sequences for literal braces; {name?}, {name=default} and
// {name|op|op...} are variable expressions.
func Parse(source string) (*Template, error) {
	p := &parser{input: source}
	return p.parseTemplate()
}

func (p *parser) parseTemplate() (*Template, error) {
	var parts []Part
	var literal strings.Builder

	flush := func() {
		if literal.Len() > 0 {
			parts = append(parts, &Literal{Text: literal.String()})
			literal.Reset()
		}
	}

	for p.pos < len(p.input) {
		switch p.peek() {
		case '{':
			if p.peekAhead(1) == '{' {
				p.pos += 2
				literal.WriteByte('{')
				continue
			}
			flush()
			v, err := p.parseVariable()
			if err != nil {
				return nil, err
			}
			parts = append(parts, v)
		case '}':
			if p.peekAhead(1) == '}' {
				p.pos += 2
				literal.WriteByte('}')
				continue
			}
			return nil, newParseErrorf(p.pos, "unexpected closing brace")
		default:
			r, err := p.consume()
			if err != nil {
				return nil, err
			}
			literal.WriteRune(r)
		}
	}
	flush()

	return &Template{Parts: parts}, nil
}

func (p *parser) parseVariable() (*Variable, error) {
	if err := p.expect('{'); err != nil {
		return nil, err
	}
	p.skipWhitespace()

	name, err := p.parseVariableName()
	if err != nil {
		return nil, err
	}
	p.skipWhitespace()

	v := &Variable{Name: name}

	// At most one modifier: ? (optional) or = default.
	switch p.peek() {
	case '?':
		v.Optional = true
		p.pos++
		p.skipWhitespace()
	case '=':
		p.pos++
		p.skipWhitespace()
		v.Default = p.parseDefaultValue()
		v.HasDefault = true
		p.skipWhitespace()
	}

	pipelines, err := p.parsePipelines()
	if err != nil {
		return nil, err
	}
	v.Pipelines = pipelines

	p.skipWhitespace()
	if err := p.expect('}'); err != nil {
		return nil, err
	}
	return v, nil
}

func (p *parser) parseVariableName() (string, error) {
	var name strings.Builder

	for p.pos < len(p.input) {
		r := p.peek()
		switch {
		case isNameRune(r):
			name.WriteRune(r)
			p.pos += utf8.RuneLen(r)
		case r == '?' || r == '=' || r == '|' || r == '}' || unicode.IsSpace(r):
			if name.Len() == 0 {
				return "query", nil
			}
			return name.String(), nil
		default:
			return "", newParseErrorf(p.pos, "invalid character '%c' in variable name", r)
		}
	}

	// Bare {} maps to the reserved query variable.
	if name.Len() == 0 {
		return "query", nil
	}
	return name.String(), nil
}

// parseDefaultValue reads default text up to the closing brace or the first
// pipeline separator, trimming surrounding whitespace.
func (p *parser) parseDefaultValue() string {
	var value strings.Builder
	for p.pos < len(p.input) {
		r := p.peek()
		if r == '}' || r == '|' {
			break
		}
		value.WriteRune(r)
		p.pos += utf8.RuneLen(r)
	}
	return strings.TrimSpace(value.String())
}

func (p *parser) parsePipelines() ([]PipelineOp, error) {
	var pipelines []PipelineOp
	for p.peek() == '|' {
		p.pos++
		p.skipWhitespace()

		op, err := p.parsePipelineOp()
		if err != nil {
			return nil, err
		}
		pipelines = append(pipelines, op)
		p.skipWhitespace()
	}
	return pipelines, nil
}

func (p *parser) parsePipelineOp() (PipelineOp, error) {
	negated := false
	if p.peek() == '!' {
		negated = true
		p.pos++
	}

	name, err := p.parseIdentifier()
	if err != nil {
		return PipelineOp{}, err
	}

	switch name {
	case "encode":
		if negated {
			return PipelineOp{Kind: PipeNoEncode}, nil
		}
		return PipelineOp{Kind: PipeEncode}, nil
	case "trim":
		if negated {
			return PipelineOp{}, newParseErrorf(p.pos, "cannot negate 'trim' operation")
		}
		return PipelineOp{Kind: PipeTrim}, nil
	case "options":
		if negated {
			return PipelineOp{}, newParseErrorf(p.pos, "cannot negate 'options' operation")
		}
		return p.parseOptionsArgs()
	case "map":
		if negated {
			return PipelineOp{}, newParseErrorf(p.pos, "cannot negate 'map' operation")
		}
		return p.parseMapArgs()
	default:
		return PipelineOp{}, newParseErrorf(p.pos, "unknown pipeline operation: %s", name)
	}
}

// parseOptionsArgs parses options[v1,v2,...] with an optional trailing
// [strict] modifier.
func (p *parser) parseOptionsArgs() (PipelineOp, error) {
	p.skipWhitespace()
	if p.peek() != '[' {
		return PipelineOp{}, newParseErrorf(p.pos, "expected '[' after 'options'")
	}
	p.pos++

	var values []string
	var current strings.Builder

	flush := func() {
		if current.Len() > 0 {
			values = append(values, strings.TrimSpace(current.String()))
			current.Reset()
		}
	}

loop:
	for {
		p.skipWhitespace()
		switch p.peek() {
		case ']':
			flush()
			p.pos++
			break loop
		case ',':
			flush()
			p.pos++
		case 0:
			return PipelineOp{}, newParseErrorf(p.pos, "unexpected end of input in options list")
		default:
			r, err := p.consume()
			if err != nil {
				return PipelineOp{}, err
			}
			current.WriteRune(r)
		}
	}

	// Optional [strict] modifier.
	p.skipWhitespace()
	strict := false
	if p.peek() == '[' {
		p.pos++
		modifier, err := p.parseIdentifier()
		if err != nil {
			return PipelineOp{}, err
		}
		p.skipWhitespace()
		if err := p.expect(']'); err != nil {
			return PipelineOp{}, err
		}
		strict = modifier == "strict"
	}

	return PipelineOp{Kind: PipeOptions, Values: values, Strict: strict}, nil
}

// parseMapArgs parses map[k1:v1,k2:v2,...]. Only the first colon of a pair
// splits key from value, so values may themselves contain colons.
func (p *parser) parseMapArgs() (PipelineOp, error) {
	p.skipWhitespace()
	if p.peek() != '[' {
		return PipelineOp{}, newParseErrorf(p.pos, "expected '[' after 'map'")
	}
	p.pos++

	var mappings []Mapping
	var current strings.Builder

	flush := func() error {
		if current.Len() == 0 {
			return nil
		}
		pair := current.String()
		current.Reset()
		key, value, ok := strings.Cut(pair, ":")
		if !ok {
			return newParseErrorf(p.pos, "invalid map syntax: expected 'key:value' but got '%s'", pair)
		}
		mappings = append(mappings, Mapping{
			Key:   strings.TrimSpace(key),
			Value: strings.TrimSpace(value),
		})
		return nil
	}

loop:
	for {
		switch p.peek() {
		case ']':
			if err := flush(); err != nil {
				return PipelineOp{}, err
			}
			p.pos++
			break loop
		case ',':
			if err := flush(); err != nil {
				return PipelineOp{}, err
			}
			p.pos++
		case 0:
			return PipelineOp{}, newParseErrorf(p.pos, "unexpected end of input in map list")
		default:
			r, err := p.consume()
			if err != nil {
				return PipelineOp{}, err
			}
			current.WriteRune(r)
		}
	}

	if len(mappings) == 0 {
		return PipelineOp{}, newParseErrorf(p.pos, "map operation requires at least one mapping")
	}

	seen := make(map[string]struct{}, len(mappings))
	for _, m := range mappings {
		if _, dup := seen[m.Key]; dup {
			return PipelineOp{}, newParseErrorf(p.pos, "duplicate key '%s' in map operation", m.Key)
		}
		seen[m.Key] = struct{}{}
	}

	return PipelineOp{Kind: PipeMap, Mappings: mappings}, nil
}

func (p *parser) parseIdentifier() (string, error) {
	var ident strings.Builder
	for p.pos < len(p.input) {
		r := p.peek()
		if !isNameRune(r) {
			break
		}
		ident.WriteRune(r)
		p.pos += utf8.RuneLen(r)
	}
	if ident.Len() == 0 {
		return "", newParseErrorf(p.pos, "expected identifier")
	}
	return ident.String(), nil
}

// Helper methods

// peek returns the rune at the current position, or 0 at end of input.
func (p *parser) peek() rune {
	if p.pos >= len(p.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(p.input[p.pos:])
	return r
}

// peekAhead returns the rune at the given rune offset from the current
// position, or 0 past end of input.
func (p *parser) peekAhead(offset int) rune {
	pos := p.pos
	for i := 0; i < offset; i++ {
		if pos >= len(p.input) {
			return 0
		}
		_, size := utf8.DecodeRuneInString(p.input[pos:])
		pos += size
	}
	if pos >= len(p.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(p.input[pos:])
	return r
}

func (p *parser) consume() (rune, error) {
	if p.pos >= len(p.input) {
		return 0, newParseErrorf(p.pos, "unexpected end of input")
	}
	r, size := utf8.DecodeRuneInString(p.input[p.pos:])
	p.pos += size
	return r, nil
}

func (p *parser) expect(expected rune) error {
	switch r := p.peek(); r {
	case expected:
		p.pos += utf8.RuneLen(r)
		return nil
	case 0:
		return newParseErrorf(p.pos, "expected '%c' but found end of input", expected)
	default:
		return newParseErrorf(p.pos, "expected '%c' but found '%c'", expected, r)
	}
}

func (p *parser) skipWhitespace() {
	for p.pos < len(p.input) {
		r, size := utf8.DecodeRuneInString(p.input[p.pos:])
		if !unicode.IsSpace(r) {
			break
		}
		p.pos += size
	}
}

func isNameRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
