package grok_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/grokline/grokline-go/pkg/grok"
)

const (
	commonLogLine  = `192.168.1.1 - john [10/Oct/2023:13:55:36 -0700] "GET /index.html HTTP/1.1" 200 1234`
	commonLogDash  = `192.168.1.1 - - [10/Oct/2023:13:55:36 -0700] "GET /test HTTP/1.1" 404 -`
	combinedLogRef = `"http://example.com/start"`
	combinedLogUA  = `"Mozilla/5.0 (X11; Linux x86_64)"`
)

func newDefaultStore(t testing.TB) *grok.Store {
	t.Helper()
	s, err := grok.NewDefaultStore()
	require.NoError(t, err)
	return s
}

func newStore(t testing.TB, defs map[string]string) *grok.Store {
	t.Helper()
	s := grok.NewStore()
	require.NoError(t, s.RegisterMap("test", defs))
	return s
}

func mustCompile(t testing.TB, s *grok.Store, expr string, opts ...grok.CompileOption) *grok.Pattern {
	t.Helper()
	p, err := s.Compile(expr, opts...)
	require.NoError(t, err)
	return p
}
