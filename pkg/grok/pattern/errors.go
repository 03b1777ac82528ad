package pattern

import "fmt"

// ValidationError represents a file-level validation error, such as an
// unsupported version or an empty pattern list.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
}

// PatternError represents an error in one pattern definition.
type PatternError struct {
	Index   int    // 0-based index of the pattern in the file
	Line    int    // 1-based line number for the definition format, 0 for YAML
	Name    string // pattern name (may be empty if the name is missing)
	Field   string
	Message string
	Cause   error
}

func (e *PatternError) Error() string {
	switch {
	case e.Name != "":
		return fmt.Sprintf("pattern %q: %s: %s", e.Name, e.Field, e.Message)
	case e.Line > 0:
		return fmt.Sprintf("line %d: %s: %s", e.Line, e.Field, e.Message)
	default:
		return fmt.Sprintf("pattern[%d]: %s: %s", e.Index, e.Field, e.Message)
	}
}

// Unwrap returns the underlying cause of the error.
func (e *PatternError) Unwrap() error {
	return e.Cause
}
