// Package engine adapts the regular expression engines a compiled pattern
// can run on to one small interface.
package engine

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/coregx/coregex"
	"github.com/wasilibs/go-re2"
)

// Regexp is the subset of the regexp.Regexp API the matcher relies on.
// Implementations must be safe for concurrent use.
type Regexp interface {
	FindStringSubmatchIndex(s string) []int
	MatchString(s string) bool
	NumSubexp() int
	SubexpNames() []string
}

// Kind selects an engine.
type Kind int

const (
	// Stdlib is the Go standard library regexp package (RE2 syntax).
	Stdlib Kind = iota
	// Coregex is github.com/coregx/coregex, a drop-in RE2-syntax engine
	// with literal prefilters.
	Coregex
	// RE2 is the C++ RE2 library via github.com/wasilibs/go-re2.
	RE2
)

var kindNames = [...]string{
	Stdlib:  "regexp",
	Coregex: "coregex",
	RE2:     "re2",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Kinds returns every supported engine name.
func Kinds() []string {
	return append([]string(nil), kindNames[:]...)
}

// ParseKind returns the engine registered under name.
func ParseKind(name string) (Kind, error) {
	for k, n := range kindNames {
		if strings.EqualFold(n, name) {
			return Kind(k), nil
		}
	}
	return 0, fmt.Errorf("unknown engine %q (supported: %s)", name, strings.Join(kindNames[:], ", "))
}

// Compile compiles source with the selected engine. Errors are the engine's
// own diagnostics, unmodified.
func Compile(kind Kind, source string) (Regexp, error) {
	switch kind {
	case Stdlib:
		re, err := regexp.Compile(source)
		if err != nil {
			return nil, err
		}
		return re, nil
	case Coregex:
		re, err := coregex.Compile(source)
		if err != nil {
			return nil, err
		}
		return coregexRegexp{re}, nil
	case RE2:
		re, err := re2.Compile(source)
		if err != nil {
			return nil, err
		}
		return re, nil
	default:
		return nil, fmt.Errorf("unknown engine %v", kind)
	}
}

// coregexRegexp adapts coregex, whose NumSubexp counts group 0.
type coregexRegexp struct {
	*coregex.Regexp
}

// NumSubexp returns the number of capturing groups, excluding group 0.
func (r coregexRegexp) NumSubexp() int {
	return len(r.SubexpNames()) - 1
}
