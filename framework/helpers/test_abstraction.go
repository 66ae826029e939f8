package helpers

import (
	"errors"
	"fmt"
	"strings"
)

// TestContext is a minimal interface for types like *testing.T representing a test that can
// fail. Functions can use this to avoid a specific dependency on the testing package.
type TestContext interface {
	Errorf(msgFormat string, msgArgs ...interface{})
	FailNow()
	Helper()
}

// TestRecorder is a TestContext that only records what happened, for testing test helpers.
//
// If PanicOnTerminate is true, FailNow panics with the TestRecorder itself, so the caller can
// verify that a helper stopped early by using assert.Panics.
type TestRecorder struct {
	Errors           []string
	Terminated       bool
	PanicOnTerminate bool
}

// Errorf records an error message.
func (r *TestRecorder) Errorf(msgFormat string, msgArgs ...interface{}) {
	r.Errors = append(r.Errors, fmt.Sprintf(msgFormat, msgArgs...))
}

// FailNow records that the test was terminated.
func (r *TestRecorder) FailNow() {
	r.Terminated = true
	if r.PanicOnTerminate {
		panic(r)
	}
}

// Helper does nothing.
func (r *TestRecorder) Helper() {}

// Err returns all of the recorded error messages combined into one error, or nil if there were
// none.
func (r *TestRecorder) Err() error {
	if len(r.Errors) == 0 {
		return nil
	}
	return errors.New(strings.Join(r.Errors, ", "))
}
