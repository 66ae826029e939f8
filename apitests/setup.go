package apitests

import (
	"strconv"
	"testing"

	"github.com/Media-Manager/mediamanager-test-harness/framework/helpers"
	"github.com/Media-Manager/mediamanager-test-harness/mockmm"

	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
)

// OnCompleteArg is the argument name under which the completion callback is passed. The value
// is a func(ldvalue.Value).
const OnCompleteArg = "onComplete"

// APITest is one row of a test table: the name of an API function, and arguments that replace
// the defaults for that call.
type APITest struct {
	Name string
	Args helpers.Deps
}

// APISet is the set of API functions of one kind that a client provides, keyed by function name.
type APISet struct {
	Kind      mockmm.APIKind
	Functions map[string]helpers.Injectable
}

// DefaultArgs returns the arguments that make a call match the mock API created with vars.
func DefaultArgs(vars mockmm.MockVars) helpers.Deps {
	args := helpers.Deps{}
	for name, value := range vars.PathVars() {
		args[name] = value
	}
	if perPage, ok := vars.Filters.Get(mockmm.FilterPerPage); ok {
		args[mockmm.FilterPerPage] = perPage
	}
	return args
}

// TestsForAllRoutes returns a test table with one test, using only default arguments, for every
// mock API function of the given kind.
func TestsForAllRoutes(kind mockmm.APIKind) []APITest {
	names := mockmm.RouteNames(kind)
	ret := make([]APITest, 0, len(names))
	for _, name := range names {
		ret = append(ret, APITest{Name: name})
	}
	return ret
}

// TestName returns the name of the subtest that SetupAPITests creates for a function.
func TestName(kind mockmm.APIKind, name string) string {
	return "#mediamanager.external." + string(kind) + "." + name
}

// SetupAPITests runs each test in the table as a subtest of t.
func SetupAPITests(t *testing.T, set APISet, tests []APITest, defaults helpers.Deps) {
	for i, test := range tests {
		name := TestName(set.Kind, test.Name)
		if test.Name == "" {
			name = TestName(set.Kind, "#"+strconv.Itoa(i))
		}
		test := test
		t.Run(name, func(t *testing.T) {
			t.Run("Should execute onComplete without error", func(t *testing.T) {
				RunAPITest(t, set, test, defaults)
			})
		})
	}
}

// RunAPITest performs a single test from a table. It fails t if the function does not exist,
// returns an error, or never calls onComplete.
func RunAPITest(t helpers.TestContext, set APISet, test APITest, defaults helpers.Deps) {
	t.Helper()
	fn, ok := set.Functions[test.Name]
	if !ok {
		t.Errorf("client has no %s function named %q", set.Kind, test.Name)
		t.FailNow()
		return
	}

	completed := false
	args := defaults.With(test.Args).With(helpers.Deps{
		OnCompleteArg: func(ldvalue.Value) { completed = true },
	})
	if err := helpers.Inject(fn, args); err != nil {
		t.Errorf("%s returned error: %s", TestName(set.Kind, test.Name), err)
		t.FailNow()
		return
	}
	if !completed {
		t.Errorf("%s did not call %s", TestName(set.Kind, test.Name), OnCompleteArg)
	}
}
