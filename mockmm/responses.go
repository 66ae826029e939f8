package mockmm

import (
	"fmt"

	"github.com/Media-Manager/mediamanager-test-harness/data"

	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
)

// Responses holds canned response bodies by API kind and function name.
//
// In a JSON or YAML file it looks like this:
//
//	template:
//	  videos: {"items": [], "total": 0}
//	playlist:
//	  audio: {"title": "x"}
type Responses map[APIKind]map[string]ldvalue.Value

// Get returns the response for a route, if there is one.
func (r Responses) Get(kind APIKind, name string) (ldvalue.Value, bool) {
	value, ok := r[kind][name]
	return value, ok
}

// Set adds or replaces the response for a route.
func (r Responses) Set(kind APIKind, name string, value ldvalue.Value) {
	if r[kind] == nil {
		r[kind] = make(map[string]ldvalue.Value)
	}
	r[kind][name] = value
}

// Validate returns an error if any entry does not correspond to a known route.
func (r Responses) Validate() error {
	for kind, byName := range r {
		for name := range byName {
			if !isKnownRoute(kind, name) {
				return fmt.Errorf("no mock API route %q of kind %q", name, kind)
			}
		}
	}
	return nil
}

// LoadResponses parses canned responses from JSON or YAML, and checks that every entry names a
// known route.
func LoadResponses(fileData []byte) (Responses, error) {
	ret := make(Responses)
	if err := data.ParseJSONOrYAML(fileData, &ret); err != nil {
		return nil, fmt.Errorf("malformed canned responses: %w", err)
	}
	if err := ret.Validate(); err != nil {
		return nil, err
	}
	return ret, nil
}

// DefaultResponses returns the canned responses that a Service uses unless told otherwise.
func DefaultResponses() (Responses, error) {
	fileData, err := data.LoadDataFile(data.ResponsesFile)
	if err != nil {
		return nil, err
	}
	return LoadResponses(fileData)
}
