package resolver

import (
	"fmt"
	"strings"
)

// UnknownPatternError is returned when a reference names a pattern that has
// no registered definition.
type UnknownPatternError struct {
	Name string
	Path []string // patterns being expanded when the reference was found
}

func (e *UnknownPatternError) Error() string {
	if len(e.Path) == 0 {
		return fmt.Sprintf("unknown pattern %q", e.Name)
	}
	return fmt.Sprintf("unknown pattern %q (referenced via %s)", e.Name, strings.Join(e.Path, " -> "))
}

// CyclicPatternError is returned when a pattern refers back to itself,
// directly or through other patterns. Path ends with the repeated name.
type CyclicPatternError struct {
	Path []string
}

func (e *CyclicPatternError) Error() string {
	return "cyclic pattern reference: " + strings.Join(e.Path, " -> ")
}

// SyntaxError describes a malformed %{...} token.
type SyntaxError struct {
	Pattern string // owning pattern name, empty for the top-level expression
	Offset  int    // byte offset of the token within the template
	Message string
}

func (e *SyntaxError) Error() string {
	if e.Pattern != "" {
		return fmt.Sprintf("pattern %q: invalid reference at offset %d: %s", e.Pattern, e.Offset, e.Message)
	}
	return fmt.Sprintf("invalid reference at offset %d: %s", e.Offset, e.Message)
}

// DepthError is returned when references nest deeper than MaxDepth.
type DepthError struct {
	Path []string
	Max  int
}

func (e *DepthError) Error() string {
	return fmt.Sprintf("pattern references nested deeper than %d (at %s)", e.Max, e.Path[len(e.Path)-1])
}
