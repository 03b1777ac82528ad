package grok

// MatchResult is the outcome of one Pattern.Match call. It keeps the match
// offsets and builds field maps on demand. A MatchResult is not safe for
// concurrent use.
type MatchResult struct {
	pattern *Pattern
	text    string
	loc     []int // submatch index pairs, nil when there is no match

	fields map[string]any
	err    error
	done   bool
}

// Matched reports whether the pattern matched.
func (m *MatchResult) Matched() bool {
	return m.loc != nil
}

// Capture returns field name -> value for the match.
//
// Without a match the map is empty and the error nil. Fields whose groups
// did not take part in the match are absent. Typed fields are converted
// according to the pattern's ConversionPolicy; untyped fields are the raw
// substring. When a field name is captured more than once, the last
// participating occurrence wins (see CaptureAll for every occurrence).
//
// The map is built once and the same map is returned by later calls.
func (m *MatchResult) Capture() (map[string]any, error) {
	if m.done {
		return m.fields, m.err
	}
	m.done = true

	m.fields = make(map[string]any)
	if m.loc == nil {
		return m.fields, nil
	}

	for i, c := range m.pattern.captures {
		raw, ok := m.group(i, c)
		if !ok {
			continue
		}
		v, keep, err := m.convert(c, raw)
		if err != nil {
			m.fields, m.err = nil, err
			return nil, err
		}
		if keep {
			m.fields[c.field] = v
		}
	}
	return m.fields, nil
}

// CaptureStrings returns the raw captured text of every participating
// field, with the same presence and duplicate rules as Capture.
func (m *MatchResult) CaptureStrings() map[string]string {
	out := make(map[string]string)
	if m.loc == nil {
		return out
	}
	for i, c := range m.pattern.captures {
		if raw, ok := m.group(i, c); ok {
			out[c.field] = raw
		}
	}
	return out
}

// CaptureAll returns every participating occurrence of each field in match
// order. Conversion follows the pattern's ConversionPolicy; a dropped
// occurrence is left out of its slice.
func (m *MatchResult) CaptureAll() (map[string][]any, error) {
	out := make(map[string][]any)
	if m.loc == nil {
		return out, nil
	}
	for i, c := range m.pattern.captures {
		raw, ok := m.group(i, c)
		if !ok {
			continue
		}
		v, keep, err := m.convert(c, raw)
		if err != nil {
			return nil, err
		}
		if keep {
			out[c.field] = append(out[c.field], v)
		}
	}
	return out, nil
}

// group returns the text of field capture i, or false for structural
// groups and groups that did not participate.
func (m *MatchResult) group(i int, c capture) (string, bool) {
	if c.field == "" {
		return "", false
	}
	start, end := m.loc[2*(i+1)], m.loc[2*(i+1)+1]
	if start < 0 {
		return "", false
	}
	return m.text[start:end], true
}

// convert applies the capture's type. keep is false when the policy drops
// the value.
func (m *MatchResult) convert(c capture, raw string) (v any, keep bool, err error) {
	if c.typ == TypeString {
		return raw, true, nil
	}
	v, cerr := c.typ.Convert(raw)
	if cerr == nil {
		return v, true, nil
	}
	switch m.pattern.policy {
	case ConvertKeepRaw:
		return raw, true, nil
	case ConvertDrop:
		return nil, false, nil
	default:
		return nil, false, &TypeConversionError{Field: c.field, Raw: raw, Type: c.typ, Err: cerr}
	}
}
