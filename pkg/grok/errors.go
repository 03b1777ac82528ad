package grok

import (
	"errors"
	"fmt"

	"github.com/grokline/grokline-go/internal/alias"
	"github.com/grokline/grokline-go/internal/resolver"
)

// Resolution errors. They are produced while expanding references and
// returned unchanged by Compile; use errors.As to inspect them.
type (
	UnknownPatternError = resolver.UnknownPatternError
	CyclicPatternError  = resolver.CyclicPatternError
	SyntaxError         = resolver.SyntaxError
	DepthError          = resolver.DepthError
)

// Sentinel errors.
var (
	// ErrInvalidName is returned when registering a definition whose name is
	// empty or contains characters other than [A-Za-z0-9_].
	ErrInvalidName = errors.New("invalid pattern name")

	// ErrUnknownSet is returned by RegisterSet for a name that is not a
	// bundled catalog.
	ErrUnknownSet = errors.New("unknown pattern set")

	// ErrUnknownType is returned when a reference carries a type tag outside
	// the supported vocabulary.
	ErrUnknownType = errors.New("unknown type")

	// ErrSiteMismatch reports an internal inconsistency between the capture
	// table and the compiled expression. Seeing it is a bug.
	ErrSiteMismatch = alias.ErrSiteMismatch
)

// PatternCompileError is returned when the regex engine rejects the resolved
// expression. Err is the engine's diagnostic, unmodified.
type PatternCompileError struct {
	Expression string // grok expression as given to Compile
	Source     string // resolved regex handed to the engine
	Engine     Engine
	Err        error
}

func (e *PatternCompileError) Error() string {
	return fmt.Sprintf("compile %q with %s: %v", e.Expression, e.Engine, e.Err)
}

// Unwrap returns the engine error.
func (e *PatternCompileError) Unwrap() error {
	return e.Err
}

// TypeConversionError is returned when a captured value does not parse as
// the type its reference declares.
type TypeConversionError struct {
	Field string
	Raw   string
	Type  Type
	Err   error
}

func (e *TypeConversionError) Error() string {
	return fmt.Sprintf("field %q: cannot convert %q to %s: %v", e.Field, e.Raw, e.Type, e.Err)
}

// Unwrap returns the underlying strconv error.
func (e *TypeConversionError) Unwrap() error {
	return e.Err
}
