package mockmm

// RouteNotFoundError is returned by Service.Request when no route matches the request URL.
type RouteNotFoundError struct {
	// URL is the request URL after the filters and request parameters were merged into it.
	URL string
}

func (e *RouteNotFoundError) Error() string {
	return "mock request: api not found for " + e.URL
}
