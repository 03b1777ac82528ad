package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
)

// validFormats lists all valid output formats.
var validFormats = map[string]bool{
	"jsonl":  true,
	"pretty": true,
}

// Record is one processed input line.
type Record struct {
	Source   string         `json:"source"`
	Line     int            `json:"line"`
	Matched  bool           `json:"matched"`
	Fields   map[string]any `json:"fields,omitempty"`
	Patterns []string       `json:"patterns,omitempty"`
	Raw      string         `json:"raw,omitempty"`
}

// OutputRecord writes a record in the specified format to the writer.
func OutputRecord(format string, rec Record, out io.Writer) error {
	switch format {
	case "jsonl":
		return OutputJSON(rec, out)
	case "pretty":
		return OutputPretty(rec, out)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// OutputJSON writes a record as JSON Lines format.
func OutputJSON(rec Record, out io.Writer) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}

// OutputPretty writes a record in human-readable format.
func OutputPretty(rec Record, out io.Writer) error {
	loc := fmt.Sprintf("%s:%d", rec.Source, rec.Line)

	var err error
	switch {
	case !rec.Matched:
		_, err = fmt.Fprintf(out, "[%s] ! %s\n", loc, quoteIfNeeded(rec.Raw))
	case len(rec.Fields) > 0:
		_, err = fmt.Fprintf(out, "[%s] * %s\n", loc, formatFields(rec.Fields))
	default:
		_, err = fmt.Fprintf(out, "[%s] *\n", loc)
	}
	return err
}

// formatFields formats a map as sorted key=value pairs.
func formatFields(fields map[string]any) string {
	if len(fields) == 0 {
		return ""
	}

	// Sort keys for deterministic output
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(fields))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%s", quoteIfNeeded(k), formatValue(fields[k])))
	}
	return strings.Join(parts, " ")
}

// formatValue prints converted values bare and strings quoted when needed.
func formatValue(v any) string {
	if s, ok := v.(string); ok {
		return quoteIfNeeded(s)
	}
	return fmt.Sprint(v)
}

// quoteIfNeeded quotes a value if it contains special characters or control characters.
// Returns the value unchanged if no quoting is needed.
func quoteIfNeeded(v string) string {
	if v == "" {
		return `""`
	}

	// Check for characters that require quoting
	needsQuote := false
	for _, c := range v {
		// Quote if: space, equals, quote, backslash, or any control character (< 0x20 or DEL 0x7F)
		if c == ' ' || c == '=' || c == '"' || c == '\\' || c < 0x20 || c == 0x7F {
			needsQuote = true
			break
		}
	}
	if !needsQuote {
		return v
	}

	// Escape special characters
	var sb strings.Builder
	sb.WriteByte('"')
	for _, c := range v {
		switch {
		case c == '\\':
			sb.WriteString(`\\`)
		case c == '"':
			sb.WriteString(`\"`)
		case c == '\n':
			sb.WriteString(`\n`)
		case c == '\r':
			sb.WriteString(`\r`)
		case c == '\t':
			sb.WriteString(`\t`)
		case c < 0x20 || c == 0x7F:
			// Other control characters (including DEL): escape as \xNN
			sb.WriteString(fmt.Sprintf(`\x%02x`, c))
		default:
			sb.WriteRune(c)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}
