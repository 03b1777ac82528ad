package grok

import (
	"strings"
	"testing"
)

// FuzzPattern_Match runs a bundled pattern against arbitrary input to ensure
// matching never panics and captured values are substrings of the input.
func FuzzPattern_Match(f *testing.F) {
	s, err := NewDefaultStore()
	if err != nil {
		f.Fatalf("Failed to create store: %v", err)
	}
	p, err := s.Compile(`%{COMMONAPACHELOG}`)
	if err != nil {
		f.Fatalf("Failed to compile: %v", err)
	}

	f.Add(`192.168.1.1 - john [10/Oct/2023:13:55:36 -0700] "GET /index.html HTTP/1.1" 200 1234`)
	f.Add(`192.168.1.1 - - [10/Oct/2023:13:55:36 -0700] "GET /test HTTP/1.1" 404 -`)
	f.Add(`::1 - - [01/Jan/2024:00:00:00 +0000] "garbage" 500 -`)
	f.Add("")
	f.Add(string([]byte{0xff, 0xfe, 0xfd}))
	f.Add(string(make([]byte, 2048)))

	fields := map[string]bool{}
	for _, name := range p.Fields() {
		fields[name] = true
	}

	f.Fuzz(func(t *testing.T, line string) {
		m := p.Match(line)
		got, err := m.Capture()
		if err != nil {
			t.Fatalf("Capture returned error for untyped pattern: %v", err)
		}
		if !m.Matched() && len(got) > 0 {
			t.Fatalf("no match but %d fields", len(got))
		}
		for k, v := range got {
			if !fields[k] {
				t.Errorf("unexpected field %q", k)
			}
			if !strings.Contains(line, v.(string)) {
				t.Errorf("field %q value %q is not part of the input", k, v)
			}
		}
	})
}

// FuzzStore_Compile compiles arbitrary expressions to ensure resolution and
// alias assignment never panic and never leak internal group names.
func FuzzStore_Compile(f *testing.F) {
	s := NewStore()
	_ = s.RegisterMap("fuzz", map[string]string{
		"WORD":  `\b\w+\b`,
		"INT":   `[+-]?[0-9]+`,
		"PAIR":  `%{WORD:key}=%{INT:value:int}`,
		"NAMED": `(?<inner.name>x)(y)`,
		"LOOP":  `%{LOOP}`,
	})

	f.Add(`%{PAIR}`)
	f.Add(`%{WORD:a.b} %{INT:[c][d]:int}`)
	f.Add(`(?P<x>a)(?:b)(c)[(]\Q(\E%{NAMED:n}`)
	f.Add(`%{LOOP}`)
	f.Add(`%{WORD:`)
	f.Add(`%{WORD:w:nope}`)
	f.Add(`[[:alpha:]]%{INT}(?i)`)

	f.Fuzz(func(t *testing.T, expr string) {
		p, err := s.Compile(expr)
		if err != nil {
			return
		}
		if !strings.Contains(expr, "\x00") && strings.Contains(p.Source(), "\x00") {
			t.Fatalf("site marker leaked into %q", p.Source())
		}
		for _, name := range p.Fields() {
			if name == "" {
				t.Fatal("empty field name")
			}
		}
		_, _ = p.Parse("k=1 xy abc")
	})
}
