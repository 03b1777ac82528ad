package grok

import (
	"context"
	"errors"
)

// Result is the outcome of parsing one line with a Parser.
type Result struct {
	// Fields holds the extracted values. It is nil when nothing matched.
	Fields map[string]any

	// Matched indicates whether any pattern matched the line.
	Matched bool

	// Patterns lists the expressions that matched, in evaluation order.
	Patterns []string
}

// Parser is implemented by *Pattern and *Chain.
type Parser interface {
	// ParseLine parses a single line.
	// Returns Result with Matched=true if the line was recognized.
	// Returns an error only for failures such as a typed field that does
	// not convert, never for an unrecognized line.
	ParseLine(ctx context.Context, line string) (Result, error)
}

// ParserFunc is an adapter to allow ordinary functions to be used as Parsers.
type ParserFunc func(ctx context.Context, line string) (Result, error)

// ParseLine implements the Parser interface.
func (f ParserFunc) ParseLine(ctx context.Context, line string) (Result, error) {
	return f(ctx, line)
}

// ChainMode specifies how a Chain runs its parsers.
type ChainMode int

const (
	// ChainFirst stops at the first parser that matches (default).
	ChainFirst ChainMode = iota

	// ChainAll runs every parser and merges the fields of all matches.
	// Later parsers overwrite fields set by earlier ones.
	ChainAll

	// ChainContinueOnError behaves like ChainAll but skips parsers that
	// return errors. Errors are collected and returned together at the end.
	ChainContinueOnError
)

var chainModeNames = [...]string{
	ChainFirst:           "first",
	ChainAll:             "all",
	ChainContinueOnError: "continue-on-error",
}

func (m ChainMode) String() string {
	if m < 0 || int(m) >= len(chainModeNames) {
		return "ChainMode(?)"
	}
	return chainModeNames[m]
}

// Chain tries several parsers against each line, typically patterns for the
// different line formats found in one log.
type Chain struct {
	Mode    ChainMode
	Parsers []Parser
}

// NewChain returns a chain over the given patterns.
func NewChain(mode ChainMode, patterns ...*Pattern) *Chain {
	c := &Chain{Mode: mode, Parsers: make([]Parser, 0, len(patterns))}
	for _, p := range patterns {
		if p != nil {
			c.Parsers = append(c.Parsers, p)
		}
	}
	return c
}

// ParseLine implements the Parser interface.
//
// Context Cancellation:
// The context is checked before each parser. On cancellation ParseLine
// returns the fields collected so far together with the context error.
func (c *Chain) ParseLine(ctx context.Context, line string) (Result, error) {
	var out Result
	var errs []error

	for _, p := range c.Parsers {
		if err := ctx.Err(); err != nil {
			return out, err
		}

		if p == nil {
			continue
		}

		result, err := p.ParseLine(ctx, line)
		if err != nil {
			if c.Mode == ChainContinueOnError {
				errs = append(errs, err)
				continue
			}
			return Result{}, err
		}
		if !result.Matched {
			continue
		}

		out.Matched = true
		out.Patterns = append(out.Patterns, result.Patterns...)
		if c.Mode == ChainFirst {
			out.Fields = result.Fields
			return out, nil
		}
		if out.Fields == nil {
			out.Fields = make(map[string]any, len(result.Fields))
		}
		for k, v := range result.Fields {
			out.Fields[k] = v
		}
	}

	if len(errs) > 0 {
		return out, errors.Join(errs...)
	}
	return out, nil
}
