package apitests

import (
	"github.com/Media-Manager/mediamanager-test-harness/framework/helpers"
	"github.com/Media-Manager/mediamanager-test-harness/framework/testfilter"
	"github.com/Media-Manager/mediamanager-test-harness/mockmm"
)

// CheckResult is the outcome of one test run by Check.
type CheckResult struct {
	ID      testfilter.TestID
	Skipped bool
	Err     error
}

// Check runs a test table outside of "go test", for instance from a command-line tool. Tests
// whose ID, {kind, name}, is rejected by filters are reported as skipped.
func Check(set APISet, tests []APITest, defaults helpers.Deps, filters testfilter.RegexFilters) []CheckResult {
	results := make([]CheckResult, 0, len(tests))
	for _, test := range tests {
		id := testfilter.TestID{string(set.Kind), test.Name}
		if !filters.Match(id) {
			results = append(results, CheckResult{ID: id, Skipped: true})
			continue
		}
		var recorder helpers.TestRecorder
		RunAPITest(&recorder, set, test, defaults)
		results = append(results, CheckResult{ID: id, Err: recorder.Err()})
	}
	return results
}

// CheckAll runs TestsForAllRoutes for every API kind, getting the client functions for each kind
// from clientFn.
func CheckAll(
	clientFn func(mockmm.APIKind) APISet,
	defaults helpers.Deps,
	filters testfilter.RegexFilters,
) []CheckResult {
	var results []CheckResult
	for _, kind := range mockmm.AllAPIKinds() {
		results = append(results, Check(clientFn(kind), TestsForAllRoutes(kind), defaults, filters)...)
	}
	return results
}

// Failed returns the results that have an error.
func Failed(results []CheckResult) []CheckResult {
	var ret []CheckResult
	for _, r := range results {
		if r.Err != nil {
			ret = append(ret, r)
		}
	}
	return ret
}
