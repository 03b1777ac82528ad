package resolver

import (
	"strconv"
	"strings"
)

// Reference is one %{...} token found in a template.
type Reference struct {
	Name  string
	Field string
	Type  string

	Start int // offset of '%'
	End   int // offset just past '}'
}

// Scan returns the references in template in order of appearance.
//
// Grammar:
//
//	%{NAME}
//	%{NAME:field}
//	%{NAME:field:type}
//
// NAME and type are runs of [A-Za-z0-9_]. field is any non-empty run of
// characters other than ':', '{' and '}', which allows dotted and bracketed
// names such as "source.port" or "[http][verb]".
func Scan(template string) ([]Reference, error) {
	var refs []Reference

	pos := 0
	for {
		idx := strings.Index(template[pos:], "%{")
		if idx < 0 {
			return refs, nil
		}
		start := pos + idx
		bodyStart := start + 2

		closeIdx := strings.IndexByte(template[bodyStart:], '}')
		if closeIdx < 0 {
			return nil, &SyntaxError{Offset: start, Message: "unterminated reference"}
		}
		body := template[bodyStart : bodyStart+closeIdx]
		if strings.IndexByte(body, '{') >= 0 {
			return nil, &SyntaxError{Offset: start, Message: "unexpected '{' inside reference"}
		}

		ref, msg := parseReference(body)
		if msg != "" {
			return nil, &SyntaxError{Offset: start, Message: msg}
		}
		ref.Start = start
		ref.End = bodyStart + closeIdx + 1
		refs = append(refs, ref)

		pos = ref.End
	}
}

func parseReference(body string) (Reference, string) {
	parts := strings.Split(body, ":")
	if len(parts) > 3 {
		return Reference{}, "too many ':' separators in %{" + body + "}"
	}

	ref := Reference{Name: parts[0]}
	if ref.Name == "" {
		return Reference{}, "empty pattern name"
	}
	if !isName(ref.Name) {
		return Reference{}, "invalid pattern name " + strconv.Quote(ref.Name)
	}

	if len(parts) > 1 {
		ref.Field = parts[1]
		if ref.Field == "" {
			return Reference{}, "empty field name in %{" + body + "}"
		}
	}
	if len(parts) > 2 {
		ref.Type = parts[2]
		if ref.Type == "" || !isName(ref.Type) {
			return Reference{}, "invalid type " + strconv.Quote(ref.Type) + " in %{" + body + "}"
		}
	}
	return ref, ""
}

// IsName reports whether s is a valid pattern name.
func IsName(s string) bool {
	return s != "" && isName(s)
}

func isName(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '_':
		default:
			return false
		}
	}
	return true
}
