// Package testfilter selects tests by regex patterns given on the command line.
//
// A test is identified by a path of names, such as {"template", "videos"}. A pattern is a
// slash-separated list of regexes that is matched against that path component by component, so
// "template/video" selects every template function whose name contains "video".
package testfilter

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/Media-Manager/mediamanager-test-harness/framework/helpers"
)

// TestID is the path of names identifying a test.
type TestID []string

func (id TestID) String() string { return strings.Join(id, "/") }

// RegexFilters selects the tests that match at least one MustMatch pattern, if there are any,
// and no MustNotMatch pattern.
type RegexFilters struct {
	MustMatch    TestIDPatternList
	MustNotMatch TestIDPatternList
}

// Match reports whether a test should run.
func (r RegexFilters) Match(id TestID) bool {
	return (!r.MustMatch.IsDefined() || r.MustMatch.AnyMatch(id, true)) &&
		!r.MustNotMatch.AnyMatch(id, false)
}

// IsDefined is true if there are any patterns at all.
func (r RegexFilters) IsDefined() bool {
	return r.MustMatch.IsDefined() || r.MustNotMatch.IsDefined()
}

// TestIDPattern is a parsed pattern, one regex per path component.
type TestIDPattern []*regexp.Regexp

// Match compares the pattern with id. If the pattern is longer than id, it matches only when
// includeParents is true and every component of id matches; this lets a "-run" pattern for a
// specific test also select the groups containing it.
func (p TestIDPattern) Match(id TestID, includeParents bool) bool {
	n := len(p)
	if n > len(id) {
		if !includeParents {
			return false
		}
		n = len(id)
	}
	for i := 0; i < n; i++ {
		if !p[i].MatchString(id[i]) {
			return false
		}
	}
	return true
}

func (p TestIDPattern) String() string {
	ss := make([]string, 0, len(p))
	for _, c := range p {
		ss = append(ss, c.String())
	}
	return strings.Join(ss, "/")
}

// ParseTestIDPattern parses a slash-separated list of regexes.
func ParseTestIDPattern(s string) (TestIDPattern, error) {
	parts := strings.Split(s, "/")
	ret := make(TestIDPattern, 0, len(parts))
	for _, part := range parts {
		rx, err := regexp.Compile(part)
		if err != nil {
			return nil, fmt.Errorf("invalid regex %q: %w", part, err)
		}
		ret = append(ret, rx)
	}
	return ret, nil
}

// TestIDPatternList is a flag.Value that collects every occurrence of a repeated flag.
type TestIDPatternList []TestIDPattern

func (l TestIDPatternList) String() string {
	ss := make([]string, 0, len(l))
	for _, p := range l {
		ss = append(ss, `"`+p.String()+`"`)
	}
	return strings.Join(ss, " or ")
}

// Set is called by the command line parser
func (l *TestIDPatternList) Set(value string) error {
	p, err := ParseTestIDPattern(value)
	if err != nil {
		return err
	}
	*l = append(*l, p)
	return nil
}

func (l TestIDPatternList) IsDefined() bool {
	return len(l) != 0
}

func (l TestIDPatternList) AnyMatch(id TestID, includeParents bool) bool {
	for _, p := range l {
		if p.Match(id, includeParents) {
			return true
		}
	}
	return false
}

// PrintFilterDescription explains to w which tests the filters will skip. It prints nothing if
// there are no filters.
func PrintFilterDescription(w io.Writer, filters RegexFilters) {
	if !filters.IsDefined() {
		return
	}
	helpers.MustFprintln(w, "Some tests will be skipped based on the filter criteria for this run:")
	if filters.MustMatch.IsDefined() {
		helpers.MustFprintf(w, "  skip any not matching %s\n", filters.MustMatch)
	}
	if filters.MustNotMatch.IsDefined() {
		helpers.MustFprintf(w, "  skip any matching %s\n", filters.MustNotMatch)
	}
	helpers.MustFprintln(w)
}
