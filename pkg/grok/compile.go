package grok

import (
	"fmt"

	"github.com/grokline/grokline-go/internal/alias"
	"github.com/grokline/grokline-go/internal/engine"
	"github.com/grokline/grokline-go/internal/resolver"
)

// Compile resolves every reference in expr against the store and compiles
// the result into a Pattern.
//
// Errors:
//   - *UnknownPatternError, *CyclicPatternError, *SyntaxError, *DepthError
//     when references cannot be resolved
//   - ErrUnknownType when a reference declares an unsupported type tag
//   - *PatternCompileError when the engine rejects the resolved regex
//
// The store is read once at the start; later registrations do not affect
// the returned Pattern.
func (s *Store) Compile(expr string, opts ...CompileOption) (*Pattern, error) {
	cfg := applyCompileOptions(opts)
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	logger := cfg.logger
	if logger == nil {
		logger = s.logger
	}

	resolved, err := resolver.Resolve(expr, s.snapshot())
	if err != nil {
		return nil, err
	}

	table, err := alias.Assign(resolved)
	if err != nil {
		return nil, err
	}

	captures := make([]capture, len(table.Captures))
	for i, c := range table.Captures {
		t, err := ParseType(c.Type)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", c.Field, err)
		}
		captures[i] = capture{field: c.Field, typ: t}
	}

	re, err := engine.Compile(cfg.engine, table.Source)
	if err != nil {
		return nil, &PatternCompileError{
			Expression: expr,
			Source:     table.Source,
			Engine:     cfg.engine,
			Err:        err,
		}
	}
	if err := table.Verify(re.NumSubexp(), re.SubexpNames()); err != nil {
		return nil, err
	}

	p := newPattern(expr, table.Source, cfg.engine, re, captures, cfg.policy)
	logger.Debug("pattern compiled",
		"expression", expr,
		"engine", cfg.engine.String(),
		"groups", len(captures),
		"fields", len(p.fields))
	return p, nil
}

// Compile is shorthand for s.Compile(expr, opts...).
func Compile(s *Store, expr string, opts ...CompileOption) (*Pattern, error) {
	return s.Compile(expr, opts...)
}

// MustCompile is like Compile but panics if the expression cannot be
// compiled. It simplifies initialization of global patterns.
func MustCompile(s *Store, expr string, opts ...CompileOption) *Pattern {
	p, err := s.Compile(expr, opts...)
	if err != nil {
		panic(`grok: Compile(` + quote(expr) + `): ` + err.Error())
	}
	return p
}
