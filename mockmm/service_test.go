package mockmm

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/Media-Manager/mediamanager-test-harness/query"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
	"github.com/launchdarkly/go-sdk-common/v3/ldlogtest"
	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
	"github.com/launchdarkly/go-test-helpers/v2/httphelpers"
	m "github.com/launchdarkly/go-test-helpers/v2/matchers"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testShortname = "demo"

func makeTestVars() MockVars {
	var filters query.Params
	filters.Set(FilterPerPage, "25")
	filters.Set(FilterAdvancedTags, "genre=jazz;year=1959")
	return MockVars{Template: "tmpl1", Video: "vid1", Audio: "aud1", Playlist: "pl1", Filters: filters}
}

func makeTestService(t *testing.T, options ...ServiceOption) (*Service, *ldlogtest.MockLog) {
	mockLog := ldlogtest.NewMockLog()
	mockLog.Loggers.SetMinLevel(ldlog.Debug)
	s, err := NewService(testShortname, makeTestVars(), mockLog.Loggers.ForLevel(ldlog.Debug), options...)
	require.NoError(t, err)
	return s, mockLog
}

func TestServiceBaseURL(t *testing.T) {
	t.Run("default template", func(t *testing.T) {
		s, _ := makeTestService(t)
		assert.Equal(t, "https://demo.mediamanager.io/api/v1", s.BaseURL())
		assert.Equal(t, testShortname, s.Shortname())
	})

	t.Run("custom template", func(t *testing.T) {
		s, _ := makeTestService(t, BaseURLTemplate("http://api.local/{shortname}/"))
		assert.Equal(t, "http://api.local/demo", s.BaseURL())
	})

	t.Run("absolute base URL wins", func(t *testing.T) {
		s, _ := makeTestService(t, BaseURLTemplate("http://ignored/{shortname}"), BaseURL("http://localhost:8111/endpoints/1"))
		assert.Equal(t, "http://localhost:8111/endpoints/1", s.BaseURL())
	})
}

func TestServiceRequestMatchesEveryRoute(t *testing.T) {
	s, mockLog := makeTestService(t)
	defer mockLog.DumpIfTestFailed(t)

	for _, r := range s.Routes() {
		t.Run(r.ID(), func(t *testing.T) {
			called := false
			err := s.Request(s.RouteURL(r), nil, func(response ldvalue.Value) {
				called = true
				assert.Equal(t, `{}`, response.JSONString())
			})
			require.NoError(t, err)
			assert.True(t, called)
		})
	}
	assert.True(t, mockLog.HasMessageMatch(ldlog.Debug, "matched template.videos"))
}

func TestServiceRequestWithParams(t *testing.T) {
	s, _ := makeTestService(t)
	url := s.BaseURL() + "/template/tmpl1/videos"

	for _, params := range []struct {
		desc   string
		url    string
		params map[string]string
	}{
		{"params passed separately", url, map[string]string{"page": "2", "q": "blue note"}},
		{"params already in URL", url + "?page=2", map[string]string{"page": "2"}},
		{"filter overridden", url, map[string]string{FilterPerPage: "5"}},
		{"filter removed", url, map[string]string{FilterAdvancedTags: ""}},
		{"URL has filters already", query.MergeParams(url, makeTestVars().Filters), nil},
	} {
		t.Run(params.desc, func(t *testing.T) {
			called := false
			require.NoError(t, s.Request(params.url, params.params, func(ldvalue.Value) { called = true }))
			assert.True(t, called)
		})
	}
}

func TestServiceRequestNotFound(t *testing.T) {
	s, mockLog := makeTestService(t)

	for _, url := range []string{
		s.BaseURL() + "/template/wrong-template/videos",
		s.BaseURL() + "/template/tmpl1/unknown",
		"http://other-host/template/tmpl1/videos",
		s.BaseURL() + "/template/tmpl1/videos?extra=1",
	} {
		t.Run(url, func(t *testing.T) {
			called := false
			err := s.Request(url, nil, func(ldvalue.Value) { called = true })
			require.Error(t, err)
			assert.False(t, called)

			var notFound *RouteNotFoundError
			require.True(t, errors.As(err, &notFound))
			assert.Equal(t, query.MergeParams(url, makeTestVars().Filters), notFound.URL)
			assert.Equal(t, "mock request: api not found for "+notFound.URL, err.Error())
		})
	}
	assert.True(t, mockLog.HasMessageMatch(ldlog.Debug, "No mock API route"))
}

func TestServiceRequestWithNilCallback(t *testing.T) {
	s, _ := makeTestService(t)
	assert.NoError(t, s.Request(s.BaseURL()+"/playlist/pl1/audios", nil, nil))
}

func TestServiceResponses(t *testing.T) {
	responses := make(Responses)
	responses.Set(PlaylistAPI, "audio", ldvalue.ObjectBuild().Set("title", ldvalue.String("So What")).Build())
	s, _ := makeTestService(t, WithResponses(responses))

	var got ldvalue.Value
	require.NoError(t, s.Request(s.BaseURL()+"/playlist/pl1/audio/aud1", nil, func(v ldvalue.Value) { got = v }))
	m.In(t).Assert(got, m.JSONStrEqual(`{"title":"So What"}`))

	require.NoError(t, s.Request(s.BaseURL()+"/playlist/pl1/audios", nil, func(v ldvalue.Value) { got = v }))
	assert.Equal(t, `{}`, got.JSONString())

	assert.True(t, s.SetResponse(PlaylistAPI, "audios", ldvalue.ArrayOf(ldvalue.Int(1))))
	require.NoError(t, s.Request(s.BaseURL()+"/playlist/pl1/audios", nil, func(v ldvalue.Value) { got = v }))
	assert.Equal(t, `[1]`, got.JSONString())

	assert.False(t, s.SetResponse(PlaylistAPI, "nope", ldvalue.Null()))
}

func TestServiceRejectsUnknownResponses(t *testing.T) {
	responses := make(Responses)
	responses.Set(TemplateAPI, "nope", ldvalue.Null())
	_, err := NewService(testShortname, makeTestVars(), nil, WithResponses(responses))
	assert.Error(t, err)
}

func doHTTPRequest(t *testing.T, method, url string) (*http.Response, string) {
	req, err := http.NewRequest(method, url, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, string(body)
}

func TestServiceHTTP(t *testing.T) {
	responses := make(Responses)
	responses.Set(TemplateAPI, "video", ldvalue.ObjectBuild().Set("id", ldvalue.String("vid1")).Build())

	s, mockLog := makeTestService(t, WithResponses(responses))
	defer mockLog.DumpIfTestFailed(t)

	httphelpers.WithServer(s, func(server *httptest.Server) {
		t.Run("matching request", func(t *testing.T) {
			resp, body := doHTTPRequest(t, "GET", server.URL+"/template/tmpl1/video/vid1?page=3")
			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
			assert.Len(t, resp.Header.Get(RequestIDHeader), 36)
			m.In(t).Assert(body, m.JSONStrEqual(`{"id":"vid1"}`))
		})

		t.Run("search is not taken for a video ID", func(t *testing.T) {
			resp, body := doHTTPRequest(t, "GET", server.URL+"/template/tmpl1/video/search")
			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, `{}`, body)
		})

		t.Run("unknown identifier", func(t *testing.T) {
			resp, body := doHTTPRequest(t, "GET", server.URL+"/template/tmpl1/video/other")
			assert.Equal(t, http.StatusNotFound, resp.StatusCode)
			assert.True(t, strings.HasPrefix(body, "mock request: api not found for "+s.BaseURL()+"/template/tmpl1/video/other?"))
		})

		t.Run("unknown path", func(t *testing.T) {
			resp, _ := doHTTPRequest(t, "GET", server.URL+"/nothing/here")
			assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		})

		t.Run("wrong method", func(t *testing.T) {
			resp, _ := doHTTPRequest(t, "POST", server.URL+"/template/tmpl1/videos")
			assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
		})

		t.Run("route listing", func(t *testing.T) {
			resp, body := doHTTPRequest(t, "GET", server.URL+RoutesListPath)
			require.Equal(t, http.StatusOK, resp.StatusCode)

			listing := ldvalue.Parse([]byte(body))
			require.Equal(t, 11, listing.Count())
			found := false
			for i := 0; i < listing.Count(); i++ {
				entry := listing.GetByIndex(i)
				if entry.GetByKey("kind").StringValue() == "template" && entry.GetByKey("name").StringValue() == "video" {
					found = true
					assert.Equal(t, "/template/tmpl1/video/vid1", entry.GetByKey("path").StringValue())
					assert.Equal(t, s.BaseURL()+"/template/tmpl1/video/vid1", entry.GetByKey("url").StringValue())
					assert.Equal(t, `{"id":"vid1"}`, entry.GetByKey("response").JSONString())
				}
			}
			assert.True(t, found)
		})
	})
}

func TestServiceSetResponseDuringRequests(t *testing.T) {
	s, _ := makeTestService(t)
	videoURL := s.BaseURL() + "/template/tmpl1/videos"
	const iterations = 200
	require.True(t, s.SetResponse(TemplateAPI, "videos", ldvalue.Int(-1)))

	var wg sync.WaitGroup
	wg.Add(4)
	go func() {
		defer wg.Done()
		for i := 0; i < iterations; i++ {
			assert.True(t, s.SetResponse(TemplateAPI, "videos", ldvalue.Int(i)))
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < iterations; i++ {
			assert.NoError(t, s.Request(videoURL, map[string]string{"page": "1"}, func(v ldvalue.Value) {
				assert.Equal(t, ldvalue.NumberType, v.Type())
			}))
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < iterations; i++ {
			rec := httptest.NewRecorder()
			s.ServeHTTP(rec, httptest.NewRequest("GET", "/template/tmpl1/videos", nil))
			assert.Equal(t, http.StatusOK, rec.Code)
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < iterations; i++ {
			rec := httptest.NewRecorder()
			s.ServeHTTP(rec, httptest.NewRequest("GET", RoutesListPath, nil))
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.NotEmpty(t, s.Routes())
		}
	}()
	wg.Wait()

	var got ldvalue.Value
	require.NoError(t, s.Request(videoURL, nil, func(v ldvalue.Value) { got = v }))
	assert.Equal(t, ldvalue.Int(iterations-1), got)
}
