// Package framework contains the low-level infrastructure of the test harness that does not
// know anything about the media manager API. The base package holds shared types such as
// Logger; the subpackages are:
//
//   - harness: an HTTP listener that hosts any number of mock endpoints.
//   - helpers: small generic utilities for test code, including injection of arguments by
//     parameter name.
//   - opt: an optional value type.
//   - testfilter: regex filters for selecting tests from the command line.
//
// Domain-specific code (the mock API in mockmm, the table-driven tests in apitests) provides
// the HTTP handlers and test logic on top of these.
package framework
