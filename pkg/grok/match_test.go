package grok_test

import (
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grokline/grokline-go/pkg/grok"
)

func typedStore(t *testing.T) *grok.Store {
	return newStore(t, map[string]string{
		"INT":    `[+-]?[0-9]+`,
		"NUMBER": `[+-]?[0-9]+(?:\.[0-9]+)?`,
		"WORD":   `\b\w+\b`,
		"BOOL":   `(?i:true|false|yes)`,
		"ANY":    `\S+`,
	})
}

func TestMatch_NoMatch(t *testing.T) {
	s := typedStore(t)
	p := mustCompile(t, s, `^%{INT:n}$`)

	m := p.Match("abc")
	assert.False(t, m.Matched())

	fields, err := m.Capture()
	require.NoError(t, err)
	assert.NotNil(t, fields)
	assert.Empty(t, fields)

	assert.Empty(t, m.CaptureStrings())
	all, err := m.CaptureAll()
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestMatch_Unanchored(t *testing.T) {
	s := typedStore(t)
	p := mustCompile(t, s, `%{INT:n}`)

	fields, err := p.Parse("abc 12 34")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"n": "12"}, fields)
}

func TestMatch_OptionalFieldAbsent(t *testing.T) {
	s := typedStore(t)
	p := mustCompile(t, s, `%{WORD:verb}(?: %{INT:code})?$`)

	fields, err := p.Parse("GET")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"verb": "GET"}, fields)
	assert.NotContains(t, fields, "code")

	fields, err = p.Parse("GET 200")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"verb": "GET", "code": "200"}, fields)
}

func TestMatch_EmptyParticipatingGroup(t *testing.T) {
	s := newStore(t, map[string]string{"MAYBE": `[a-z]*`})
	p := mustCompile(t, s, `<%{MAYBE:m}>`)

	fields, err := p.Parse("<>")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"m": ""}, fields)
}

func TestMatch_Types(t *testing.T) {
	s := typedStore(t)
	p := mustCompile(t, s, `%{INT:i:integer} %{NUMBER:f:float} %{BOOL:b:boolean} %{WORD:s:string} %{INT:l:long}`)

	fields, err := p.Parse("-42 3.25 TRUE hello 9000000000")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"i": int64(-42),
		"f": 3.25,
		"b": true,
		"s": "hello",
		"l": int64(9000000000),
	}, fields)
}

func TestMatch_StrictConversionError(t *testing.T) {
	s := typedStore(t)
	p := mustCompile(t, s, `%{ANY:n:int}`)

	_, err := p.Parse("abc")
	require.Error(t, err)

	var convErr *grok.TypeConversionError
	require.True(t, errors.As(err, &convErr))
	assert.Equal(t, "n", convErr.Field)
	assert.Equal(t, "abc", convErr.Raw)
	assert.Equal(t, grok.TypeInt, convErr.Type)
	assert.ErrorIs(t, err, strconv.ErrSyntax)
	assert.Contains(t, err.Error(), `"abc"`)
}

func TestMatch_StrictConversionErrorIsMemoized(t *testing.T) {
	s := typedStore(t)
	m := mustCompile(t, s, `%{ANY:n:int}`).Match("abc")

	_, err1 := m.Capture()
	_, err2 := m.Capture()
	require.Error(t, err1)
	assert.Same(t, err1, err2)
}

func TestMatch_ConversionPolicies(t *testing.T) {
	s := typedStore(t)

	tests := []struct {
		name   string
		policy grok.ConversionPolicy
		want   map[string]any
	}{
		{"keep raw", grok.ConvertKeepRaw, map[string]any{"n": "abc", "w": "ok"}},
		{"drop", grok.ConvertDrop, map[string]any{"w": "ok"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := mustCompile(t, s, `%{ANY:n:int} %{WORD:w}`, grok.WithConversionPolicy(tt.policy))
			fields, err := p.Parse("abc ok")
			require.NoError(t, err)
			assert.Equal(t, tt.want, fields)
		})
	}
}

func TestMatch_IntOverflow(t *testing.T) {
	s := typedStore(t)
	p := mustCompile(t, s, `%{INT:n:int}`)

	_, err := p.Parse("99999999999999999999")
	assert.ErrorIs(t, err, strconv.ErrRange)
}

func TestMatch_DuplicateFieldLastWins(t *testing.T) {
	s := typedStore(t)
	p := mustCompile(t, s, `%{WORD:w} %{WORD:w} %{WORD:w}`)
	assert.Equal(t, []string{"w"}, p.Fields())

	m := p.Match("a b c")
	fields, err := m.Capture()
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"w": "c"}, fields)

	all, err := m.CaptureAll()
	require.NoError(t, err)
	assert.Equal(t, map[string][]any{"w": {"a", "b", "c"}}, all)

	assert.Equal(t, map[string]string{"w": "c"}, m.CaptureStrings())
}

func TestMatch_DuplicateFieldNonParticipating(t *testing.T) {
	s := typedStore(t)
	p := mustCompile(t, s, `^(?:%{INT:v:int}|%{WORD:v})$`)

	fields, err := p.Parse("12")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"v": int64(12)}, fields)

	fields, err = p.Parse("abc")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"v": "abc"}, fields)

	// The last declaration decides the reported type.
	assert.Equal(t, grok.TypeString, p.FieldTypes()["v"])
}

func TestMatch_DuplicateFieldLaterOptionalMissing(t *testing.T) {
	s := typedStore(t)
	p := mustCompile(t, s, `%{WORD:w}(?:=%{INT:w})?`)

	fields, err := p.Parse("key")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"w": "key"}, fields)

	fields, err = p.Parse("key=5")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"w": "5"}, fields)
}

func TestMatch_CaptureAllPolicies(t *testing.T) {
	s := typedStore(t)

	p := mustCompile(t, s, `%{ANY:n:int} %{ANY:n:int}`, grok.WithConversionPolicy(grok.ConvertDrop))
	all, err := p.Match("1 x").CaptureAll()
	require.NoError(t, err)
	assert.Equal(t, map[string][]any{"n": {int64(1)}}, all)

	p = mustCompile(t, s, `%{ANY:n:int} %{ANY:n:int}`)
	_, err = p.Match("1 x").CaptureAll()
	var convErr *grok.TypeConversionError
	require.True(t, errors.As(err, &convErr))
	assert.Equal(t, "x", convErr.Raw)
}

func TestMatch_StructuralGroupsHidden(t *testing.T) {
	s := typedStore(t)
	p := mustCompile(t, s, `(\w+)=(%{INT:n})`)

	m := p.Match("k=1")
	fields, err := m.Capture()
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"n": "1"}, fields)
	assert.Equal(t, map[string]string{"n": "1"}, m.CaptureStrings())
}

func TestMatch_CaptureIsMemoized(t *testing.T) {
	s := typedStore(t)
	m := mustCompile(t, s, `%{INT:n:int}`).Match("7")

	a, err := m.Capture()
	require.NoError(t, err)
	a["extra"] = true

	b, err := m.Capture()
	require.NoError(t, err)
	assert.Equal(t, true, b["extra"])
}

func TestMatch_CaptureStringsSkipsConversion(t *testing.T) {
	s := typedStore(t)
	m := mustCompile(t, s, `%{ANY:n:int}`).Match("abc")
	assert.Equal(t, map[string]string{"n": "abc"}, m.CaptureStrings())
}

func TestMatch_TypedSubCapturesInsideNamedReference(t *testing.T) {
	s := newStore(t, map[string]string{
		"INT":  `[0-9]+`,
		"PAIR": `%{INT:left:int}/%{INT:right:int}`,
	})
	p := mustCompile(t, s, `ratio %{PAIR:ratio}`)

	fields, err := p.Parse("ratio 3/4")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"ratio": "3/4", "left": int64(3), "right": int64(4)}, fields)
}

func TestPattern_ConcurrentMatch(t *testing.T) {
	s := newDefaultStore(t)
	p := mustCompile(t, s, `%{COMMONAPACHELOG}`)

	done := make(chan struct{})
	for i := 0; i < 8; i++ {
		go func(i int) {
			defer func() { done <- struct{}{} }()
			for j := 0; j < 100; j++ {
				line := commonLogLine
				if (i+j)%2 == 1 {
					line = commonLogDash
				}
				fields, err := p.Parse(line)
				if !assert.NoError(t, err) {
					return
				}
				_, hasBytes := fields["bytes"]
				assert.Equal(t, line == commonLogLine, hasBytes)
			}
		}(i)
	}
	for i := 0; i < 8; i++ {
		<-done
	}
}
