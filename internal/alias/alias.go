// Package alias rewrites the capturing groups of a resolved expression into
// engine-safe group names and records which semantic field each group
// carries.
//
// Field names are never used as group names: they may contain dots or
// brackets and may repeat. Every field capture is renamed to "g<N>", where N
// is the group's engine index, and the mapping back to the field lives in
// the Table.
package alias

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/grokline/grokline-go/internal/resolver"
)

// ErrSiteMismatch indicates that the capture table and the expression text
// disagree. It always points at a bug, never at user input.
var ErrSiteMismatch = errors.New("capture table out of step with expression")

// Capture describes one capturing group of the final expression.
type Capture struct {
	Group int    // 1-based engine group index
	Alias string // engine group name, empty for unnamed groups
	Field string // semantic field name, empty for structural groups
	Type  string // raw type tag
}

// Table is a rewritten expression plus one Capture per capturing group, in
// engine order (Captures[i].Group == i+1).
type Table struct {
	Source   string
	Captures []Capture
}

// Name returns the engine group name used for group.
func Name(group int) string {
	return "g" + strconv.Itoa(group)
}

// Assign walks expr and numbers capturing groups the way RE2-family engines
// do: left to right by opening parenthesis, so an enclosing group precedes
// the groups nested in it. Non-capturing, flag and lookaround groups do not
// take a slot.
func Assign(expr *resolver.Expression) (*Table, error) {
	sites := make(map[int]resolver.Site, len(expr.Sites))
	for _, s := range expr.Sites {
		sites[s.ID] = s
	}
	seen := make(map[int]struct{}, len(sites))

	src := expr.Source
	var sb strings.Builder
	sb.Grow(len(src) + 4*len(sites))

	var captures []Capture
	inClass := false

	for i := 0; i < len(src); {
		c := src[i]
		switch {
		case c == '\\':
			n := skipEscape(src, i)
			sb.WriteString(src[i:n])
			i = n

		case inClass:
			if c == '[' && strings.HasPrefix(src[i:], "[:") {
				if end := strings.Index(src[i+2:], ":]"); end >= 0 {
					n := i + 2 + end + 2
					sb.WriteString(src[i:n])
					i = n
					continue
				}
			}
			if c == ']' {
				inClass = false
			}
			sb.WriteByte(c)
			i++

		case c == '[':
			inClass = true
			n := i + 1
			if n < len(src) && src[n] == '^' {
				n++
			}
			// A ']' right after the opening bracket is a literal.
			if n < len(src) && src[n] == ']' {
				n++
			}
			sb.WriteString(src[i:n])
			i = n

		case c == '(':
			g := parseOpener(src[i:])
			switch g.kind {
			case groupUnnamed:
				captures = append(captures, Capture{Group: len(captures) + 1})
				sb.WriteByte('(')
			case groupNamed:
				group := len(captures) + 1
				capture := Capture{Group: group, Alias: Name(group), Field: g.name}
				if id, ok := resolver.ParseSiteGroupName(g.name); ok {
					site, known := sites[id]
					if !known {
						return nil, fmt.Errorf("%w: unknown site %d", ErrSiteMismatch, id)
					}
					if _, dup := seen[id]; dup {
						return nil, fmt.Errorf("%w: site %d appears twice", ErrSiteMismatch, id)
					}
					seen[id] = struct{}{}
					capture.Field = site.Field
					capture.Type = site.Type
				}
				captures = append(captures, capture)
				sb.WriteString("(?P<")
				sb.WriteString(capture.Alias)
				sb.WriteByte('>')
			default:
				sb.WriteString(src[i : i+g.length])
			}
			i += g.length

		default:
			sb.WriteByte(c)
			i++
		}
	}

	if len(seen) != len(sites) {
		return nil, fmt.Errorf("%w: %d of %d sites found", ErrSiteMismatch, len(seen), len(sites))
	}

	return &Table{Source: sb.String(), Captures: captures}, nil
}

// Verify checks the table against the group layout reported by a compiled
// engine regexp.
func (t *Table) Verify(numSubexp int, subexpNames []string) error {
	if numSubexp != len(t.Captures) {
		return fmt.Errorf("%w: engine reports %d groups, table has %d", ErrSiteMismatch, numSubexp, len(t.Captures))
	}
	if len(subexpNames) != numSubexp+1 {
		return fmt.Errorf("%w: engine reports %d group names for %d groups", ErrSiteMismatch, len(subexpNames)-1, numSubexp)
	}
	for _, c := range t.Captures {
		if subexpNames[c.Group] != c.Alias {
			return fmt.Errorf("%w: group %d is %q, want %q", ErrSiteMismatch, c.Group, subexpNames[c.Group], c.Alias)
		}
	}
	return nil
}

// skipEscape returns the offset just past the escape sequence at src[i].
// \Q...\E spans are copied whole since parentheses inside them are literal.
func skipEscape(src string, i int) int {
	if strings.HasPrefix(src[i:], `\Q`) {
		end := strings.Index(src[i+2:], `\E`)
		if end < 0 {
			return len(src)
		}
		return i + 2 + end + 2
	}
	return min(i+2, len(src))
}

type groupKind int

const (
	groupUnnamed groupKind = iota
	groupNamed
	groupOther // non-capturing, flags, lookaround, backreference
)

type opener struct {
	kind   groupKind
	name   string
	length int // bytes of the opener consumed, including the name
}

// parseOpener classifies the group opening at s[0] == '('.
func parseOpener(s string) opener {
	if len(s) < 2 || s[1] != '?' {
		return opener{kind: groupUnnamed, length: 1}
	}

	rest := s[2:]
	switch {
	case strings.HasPrefix(rest, "P<"):
		if name, ok := delimited(rest[2:], '>'); ok {
			return opener{kind: groupNamed, name: name, length: 2 + 2 + len(name) + 1}
		}
	case strings.HasPrefix(rest, "<") && !strings.HasPrefix(rest, "<=") && !strings.HasPrefix(rest, "<!"):
		if name, ok := delimited(rest[1:], '>'); ok {
			return opener{kind: groupNamed, name: name, length: 2 + 1 + len(name) + 1}
		}
	case strings.HasPrefix(rest, "'"):
		if name, ok := delimited(rest[1:], '\''); ok {
			return opener{kind: groupNamed, name: name, length: 2 + 1 + len(name) + 1}
		}
	}

	// Anything else after "(?" is copied as-is and the remainder of the
	// construct is scanned as ordinary text. A malformed named group falls
	// through here too and is left for the engine to reject.
	return opener{kind: groupOther, length: 2}
}

func delimited(s string, end byte) (string, bool) {
	idx := strings.IndexByte(s, end)
	if idx <= 0 {
		return "", false
	}
	name := s[:idx]
	if strings.ContainsAny(name, "()") {
		return "", false
	}
	return name, true
}
