package apitests

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/Media-Manager/mediamanager-test-harness/framework/helpers"
	"github.com/Media-Manager/mediamanager-test-harness/mockmm"
	"github.com/Media-Manager/mediamanager-test-harness/query"

	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
)

// requestFunc performs one API call: path is relative to the API base URL.
type requestFunc func(path string, params map[string]string, onComplete func(ldvalue.Value)) error

// MockClient returns an APISet whose functions call s.Request directly.
//
// Each function takes the identifiers named in its route pattern, then perPage and onComplete,
// so the signature of the template "video" function is "video(template, video, perPage,
// onComplete)". An empty perPage leaves the mock filter in place.
func MockClient(s *mockmm.Service, kind mockmm.APIKind) APISet {
	return makeClientSet(s.Routes(), kind,
		func(path string, params map[string]string, onComplete func(ldvalue.Value)) error {
			return s.Request(s.BaseURL()+path, params, onComplete)
		})
}

// HTTPClient returns an APISet with the same functions as MockClient, but each call is a GET
// request to baseURL, which is normally the URL of a mockmm.Service mounted on a harness
// endpoint. filters are added to every request the way a real client adds its global filters.
// A nil httpClient means http.DefaultClient.
func HTTPClient(baseURL string, filters query.Params, kind mockmm.APIKind, httpClient *http.Client) APISet {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	baseURL = strings.TrimSuffix(baseURL, "/")
	// Patterns do not depend on the identifiers, so empty vars are enough here.
	routes := mockmm.MakeRoutes(mockmm.MockVars{})
	return makeClientSet(routes, kind,
		func(path string, params map[string]string, onComplete func(ldvalue.Value)) error {
			url := query.MergeParams(baseURL+path, filters.Merge(query.ParamsFromMap(params)))
			resp, err := httpClient.Get(url)
			if err != nil {
				return err
			}
			defer resp.Body.Close() //nolint:errcheck
			body, err := io.ReadAll(resp.Body)
			if err != nil {
				return err
			}
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("GET %s returned status %d: %s", url, resp.StatusCode, string(body))
			}
			value := ldvalue.Parse(body)
			if value.IsNull() && strings.TrimSpace(string(body)) != "null" {
				return fmt.Errorf("GET %s returned malformed JSON: %s", url, string(body))
			}
			if onComplete != nil {
				onComplete(value)
			}
			return nil
		})
}

func makeClientSet(routes []mockmm.Route, kind mockmm.APIKind, do requestFunc) APISet {
	set := APISet{Kind: kind, Functions: make(map[string]helpers.Injectable)}
	for _, route := range routes {
		if route.Kind != kind {
			continue
		}
		placeholders := route.Placeholders()
		params := append(helpers.CopyOf(placeholders), mockmm.FilterPerPage, OnCompleteArg)
		signature := route.Name + "(" + strings.Join(params, ", ") + ")"
		set.Functions[route.Name] = helpers.NewInjectable(signature,
			makeClientFunc(route.Pattern, placeholders, do))
	}
	return set
}

func makeClientFunc(pattern string, placeholders []string, do requestFunc) func(args ...interface{}) error {
	return func(args ...interface{}) error {
		pathVars := make(map[string]string, len(placeholders))
		for i, name := range placeholders {
			value := argString(args[i])
			if value == "" {
				return fmt.Errorf("missing argument %q", name)
			}
			pathVars[name] = value
		}

		params := map[string]string{}
		if perPage := argString(args[len(placeholders)]); perPage != "" {
			params[mockmm.FilterPerPage] = perPage
		}

		var onComplete func(ldvalue.Value)
		switch fn := args[len(placeholders)+1].(type) {
		case nil:
		case func(ldvalue.Value):
			onComplete = fn
		default:
			return fmt.Errorf("%s must be a func(ldvalue.Value), not %T", OnCompleteArg, fn)
		}

		return do(mockmm.TemplateReplace(pattern, pathVars), params, onComplete)
	}
}

func argString(arg interface{}) string {
	switch v := arg.(type) {
	case nil:
		return ""
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}
