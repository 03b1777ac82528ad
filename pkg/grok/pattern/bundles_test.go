package pattern_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grokline/grokline-go/pkg/grok/pattern"
)

func TestBundles(t *testing.T) {
	names := pattern.Bundles()
	assert.Equal(t, []string{
		"grok-patterns", "aws", "haproxy", "httpd", "java", "linux-syslog", "redis",
	}, names)
}

func TestBundle_AllParse(t *testing.T) {
	for _, name := range pattern.Bundles() {
		t.Run(name, func(t *testing.T) {
			pf, err := pattern.Bundle(name)
			require.NoError(t, err)
			assert.Equal(t, name, pf.Set)
			assert.NotEmpty(t, pf.Patterns)
		})
	}
}

func TestBundle_NoLookaround(t *testing.T) {
	for _, name := range pattern.Bundles() {
		pf, err := pattern.Bundle(name)
		require.NoError(t, err)
		for _, p := range pf.Patterns {
			for _, bad := range []string{"(?=", "(?!", "(?<=", "(?<!", "(?>"} {
				assert.False(t, strings.Contains(p.Regex, bad), "%s/%s contains %s", name, p.Name, bad)
			}
		}
	}
}

func TestBundle_NamesUniqueAcrossBundles(t *testing.T) {
	owner := map[string]string{}
	for _, name := range pattern.Bundles() {
		pf, err := pattern.Bundle(name)
		require.NoError(t, err)
		for _, p := range pf.Patterns {
			prev, dup := owner[p.Name]
			assert.False(t, dup, "%s defined in both %s and %s", p.Name, prev, name)
			owner[p.Name] = name
		}
	}
}

func TestBundle_Base(t *testing.T) {
	pf, err := pattern.Bundle(pattern.DefaultBundle)
	require.NoError(t, err)

	m := pf.Map()
	for _, name := range []string{"IPORHOST", "NUMBER", "WORD", "GREEDYDATA", "HTTPDATE", "TIMESTAMP_ISO8601", "SYSLOGBASE"} {
		assert.Contains(t, m, name)
	}
}

func TestBundle_ReturnsFreshCopy(t *testing.T) {
	a, err := pattern.Bundle("redis")
	require.NoError(t, err)
	a.Patterns[0].Regex = "changed"

	b, err := pattern.Bundle("redis")
	require.NoError(t, err)
	assert.NotEqual(t, "changed", b.Patterns[0].Regex)
}

func TestBundle_Unknown(t *testing.T) {
	for _, name := range []string{"", "nope", "../loader", "bundles/httpd"} {
		_, err := pattern.Bundle(name)
		require.Error(t, err, name)
		var unk *pattern.UnknownBundleError
		require.True(t, errors.As(err, &unk), name)
		assert.Equal(t, name, unk.Name)
	}
}
