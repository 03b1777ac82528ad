package grok

import (
	"context"
	"sort"
	"strconv"

	"github.com/grokline/grokline-go/internal/engine"
)

// capture is the compiled form of one engine group. Structural groups have
// an empty field.
type capture struct {
	field string
	typ   Type
}

// Pattern is a compiled grok expression. It is immutable and safe for
// concurrent use by multiple goroutines.
type Pattern struct {
	expr     string
	source   string
	engine   Engine
	re       engine.Regexp
	captures []capture // captures[i] describes engine group i+1
	fields   []string
	types    map[string]Type
	policy   ConversionPolicy
}

func newPattern(expr, source string, e Engine, re engine.Regexp, captures []capture, policy ConversionPolicy) *Pattern {
	p := &Pattern{
		expr:     expr,
		source:   source,
		engine:   e,
		re:       re,
		captures: captures,
		types:    make(map[string]Type),
		policy:   policy,
	}
	for _, c := range captures {
		if c.field == "" {
			continue
		}
		if _, seen := p.types[c.field]; !seen {
			p.fields = append(p.fields, c.field)
		}
		p.types[c.field] = c.typ
	}
	sort.Strings(p.fields)
	return p
}

// Match runs the pattern against text and returns the result. The match is
// the leftmost one; it is anchored only if the expression anchors itself.
func (p *Pattern) Match(text string) *MatchResult {
	return &MatchResult{
		pattern: p,
		text:    text,
		loc:     p.re.FindStringSubmatchIndex(text),
	}
}

// MatchString reports whether text contains a match.
func (p *Pattern) MatchString(text string) bool {
	return p.re.MatchString(text)
}

// Parse is shorthand for p.Match(text).Capture().
func (p *Pattern) Parse(text string) (map[string]any, error) {
	return p.Match(text).Capture()
}

// ParseLine implements Parser.
func (p *Pattern) ParseLine(_ context.Context, line string) (Result, error) {
	m := p.Match(line)
	if !m.Matched() {
		return Result{}, nil
	}
	fields, err := m.Capture()
	if err != nil {
		return Result{}, err
	}
	return Result{Fields: fields, Matched: true, Patterns: []string{p.expr}}, nil
}

// Fields returns the distinct field names the pattern can produce, sorted.
func (p *Pattern) Fields() []string {
	return append([]string(nil), p.fields...)
}

// FieldTypes returns the declared type of every field. When a field is
// declared more than once, the last declaration wins.
func (p *Pattern) FieldTypes() map[string]Type {
	m := make(map[string]Type, len(p.types))
	for k, v := range p.types {
		m[k] = v
	}
	return m
}

// Expression returns the grok expression the pattern was compiled from.
func (p *Pattern) Expression() string { return p.expr }

// Source returns the regular expression handed to the engine. Field groups
// carry synthetic names of the form g<N>.
func (p *Pattern) Source() string { return p.source }

// Engine returns the engine the pattern runs on.
func (p *Pattern) Engine() Engine { return p.engine }

// ConversionPolicy returns the policy applied to typed fields.
func (p *Pattern) ConversionPolicy() ConversionPolicy { return p.policy }

// String returns the grok expression.
func (p *Pattern) String() string { return p.expr }

func quote(s string) string {
	if strconv.CanBackquote(s) {
		return "`" + s + "`"
	}
	return strconv.Quote(s)
}
