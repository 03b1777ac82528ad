package resolver_test

import (
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grokline/grokline-go/internal/resolver"
)

func lookupMap(m map[string]string) resolver.Lookup {
	return func(name string) (string, bool) {
		t, ok := m[name]
		return t, ok
	}
}

func site(id int) string {
	return "(?P<" + resolver.SiteGroupName(id) + ">"
}

func TestResolve_PlainText(t *testing.T) {
	expr, err := resolver.Resolve(`a(b)c`, lookupMap(nil))
	require.NoError(t, err)
	assert.Equal(t, `a(b)c`, expr.Source)
	assert.Empty(t, expr.Sites)
}

func TestResolve_Unfielded(t *testing.T) {
	expr, err := resolver.Resolve(`x%{A}y`, lookupMap(map[string]string{"A": `a|b`}))
	require.NoError(t, err)
	assert.Equal(t, `x(?:a|b)y`, expr.Source)
	assert.Empty(t, expr.Sites)
}

func TestResolve_Fielded(t *testing.T) {
	expr, err := resolver.Resolve(`%{A:first} %{A:second.name:int}`, lookupMap(map[string]string{"A": `a+`}))
	require.NoError(t, err)
	assert.Equal(t, site(0)+`a+) `+site(1)+`a+)`, expr.Source)

	want := []resolver.Site{
		{ID: 0, Field: "first"},
		{ID: 1, Field: "second.name", Type: "int"},
	}
	if diff := cmp.Diff(want, expr.Sites); diff != "" {
		t.Errorf("sites mismatch (-want +got):\n%s", diff)
	}
}

func TestResolve_NestedSitesInOrder(t *testing.T) {
	defs := map[string]string{
		"TIME": `%{H:hour}:%{M:minute}`,
		"H":    `[0-9]{2}`,
		"M":    `[0-9]{2}`,
	}
	expr, err := resolver.Resolve(`%{TIME:time} %{TIME}`, lookupMap(defs))
	require.NoError(t, err)

	want := []resolver.Site{
		{ID: 0, Field: "time"},
		{ID: 1, Field: "hour"},
		{ID: 2, Field: "minute"},
		{ID: 3, Field: "hour"},
		{ID: 4, Field: "minute"},
	}
	if diff := cmp.Diff(want, expr.Sites); diff != "" {
		t.Errorf("sites mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t,
		site(0)+site(1)+`[0-9]{2}):`+site(2)+`[0-9]{2})) (?:`+site(3)+`[0-9]{2}):`+site(4)+`[0-9]{2}))`,
		expr.Source)
}

func TestResolve_Unknown(t *testing.T) {
	_, err := resolver.Resolve(`%{A}`, lookupMap(map[string]string{"A": `%{B}`}))

	var unk *resolver.UnknownPatternError
	require.True(t, errors.As(err, &unk))
	assert.Equal(t, "B", unk.Name)
	assert.Equal(t, []string{"A"}, unk.Path)
	assert.Equal(t, `unknown pattern "B" (referenced via A)`, err.Error())
}

func TestResolve_Cycle(t *testing.T) {
	tests := []struct {
		name string
		defs map[string]string
		expr string
		path []string
	}{
		{"self", map[string]string{"A": `%{A}`}, `%{A}`, []string{"A", "A"}},
		{"two", map[string]string{"A": `%{B:b}`, "B": `%{A}`}, `%{A}`, []string{"A", "B", "A"}},
		{"deep entry", map[string]string{"A": `%{B}`, "B": `%{C}`, "C": `%{B}`}, `x%{A}`, []string{"A", "B", "C", "B"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := resolver.Resolve(tt.expr, lookupMap(tt.defs))
			var cyc *resolver.CyclicPatternError
			require.True(t, errors.As(err, &cyc), "got %v", err)
			if diff := cmp.Diff(tt.path, cyc.Path); diff != "" {
				t.Errorf("path mismatch (-want +got):\n%s", diff)
			}
			assert.Contains(t, err.Error(), strings.Join(tt.path, " -> "))
		})
	}
}

func TestResolve_DiamondIsNotCycle(t *testing.T) {
	defs := map[string]string{
		"TOP":   `%{LEFT}%{RIGHT}`,
		"LEFT":  `%{BASE:l}`,
		"RIGHT": `%{BASE:r}`,
		"BASE":  `z`,
	}
	expr, err := resolver.Resolve(`%{TOP}`, lookupMap(defs))
	require.NoError(t, err)
	assert.Len(t, expr.Sites, 2)
}

func TestResolve_Depth(t *testing.T) {
	// A self-reference is a cycle, not a depth problem.
	_, err := resolver.Resolve(`%{N}`, lookupMap(map[string]string{"N": `%{N}`}))
	var cyc *resolver.CyclicPatternError
	require.True(t, errors.As(err, &cyc))

	// Distinct names nested past the limit: Pn refers to Pn+1.
	deep := func(name string) (string, bool) {
		n, err := strconv.Atoi(strings.TrimPrefix(name, "P"))
		if err != nil {
			return "", false
		}
		return "%{P" + strconv.Itoa(n+1) + "}", true
	}
	_, err = resolver.Resolve(`%{P0}`, deep)
	var depth *resolver.DepthError
	require.True(t, errors.As(err, &depth))
	assert.Equal(t, resolver.MaxDepth, depth.Max)
	assert.Len(t, depth.Path, resolver.MaxDepth+1)
	assert.Contains(t, err.Error(), "nested deeper than 256")
}

func TestResolve_SyntaxErrorOwner(t *testing.T) {
	_, err := resolver.Resolve(`ok %{A}`, lookupMap(map[string]string{"A": `ab%{B:}`}))

	var syn *resolver.SyntaxError
	require.True(t, errors.As(err, &syn))
	assert.Equal(t, "A", syn.Pattern)
	assert.Equal(t, 2, syn.Offset)
	assert.Contains(t, err.Error(), `pattern "A"`)
}

func TestResolve_NilLookup(t *testing.T) {
	_, err := resolver.Resolve(`x`, nil)
	assert.Error(t, err)
}

func TestSiteGroupName(t *testing.T) {
	name := resolver.SiteGroupName(12)
	id, ok := resolver.ParseSiteGroupName(name)
	assert.True(t, ok)
	assert.Equal(t, 12, id)

	for _, s := range []string{"12", "g12", "\x00", "\x00x", ""} {
		_, ok := resolver.ParseSiteGroupName(s)
		assert.False(t, ok, "%q", s)
	}
}
