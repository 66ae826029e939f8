// Package apitests runs table-driven tests of a media manager API client against the mock API.
//
// A client library is described to this package as an APISet: one Injectable per API function,
// each declaring the names of the arguments it takes. SetupAPITests calls every function listed
// in a test table with named arguments, adding an "onComplete" callback, and checks that the
// callback ran. MockClient is an APISet that talks to a mockmm.Service directly; it is the
// reference for what a real client adapter looks like.
package apitests
