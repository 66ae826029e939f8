// Package mockmm is a mock of the media manager API, for testing clients of that API.
//
// A Service knows a fixed set of API routes, each identified by an APIKind and a function name
// and answering with a canned JSON response. Clients can be pointed at it in two ways: by calling
// Service.Request directly, in place of the client's own request function, or over HTTP, since
// Service is also an http.Handler. Either way, a request matches a route if the URLs are the
// same once the mock filters and the request's own parameters have been merged into both.
package mockmm
