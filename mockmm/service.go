package mockmm

import (
	"errors"
	"net/http"
	"strings"
	"sync"

	"github.com/Media-Manager/mediamanager-test-harness/framework"
	"github.com/Media-Manager/mediamanager-test-harness/framework/helpers"
	"github.com/Media-Manager/mediamanager-test-harness/framework/opt"
	"github.com/Media-Manager/mediamanager-test-harness/query"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
)

// RoutesListPath is the path, relative to the service root, at which the route table is listed.
const RoutesListPath = "/_routes"

// RequestIDHeader is set on every successful HTTP response to a unique value.
const RequestIDHeader = "X-Request-Id"

// Service is the mock media manager API.
type Service struct {
	shortname       string
	baseURLTemplate string
	baseURL         string
	vars            MockVars
	routes          []Route
	responses       Responses
	handler         http.Handler
	debugLogger     framework.Logger
	lock            sync.RWMutex
}

// ServiceOption is an optional parameter for NewService.
type ServiceOption helpers.ConfigOption[Service]

type serviceOptionBaseURLTemplate string

func (o serviceOptionBaseURLTemplate) Configure(s *Service) error {
	s.baseURLTemplate = string(o)
	return nil
}

// BaseURLTemplate sets the template for the API base URL; "{shortname}" is replaced with the
// client shortname. The default is DefaultBaseURLTemplate.
func BaseURLTemplate(template string) ServiceOption {
	return serviceOptionBaseURLTemplate(template)
}

type serviceOptionBaseURL string

func (o serviceOptionBaseURL) Configure(s *Service) error {
	s.baseURL = strings.TrimSuffix(string(o), "/")
	return nil
}

// BaseURL sets the absolute API base URL, overriding BaseURLTemplate. Use this when the service
// is reached over HTTP, so that the URLs it matches are the URLs the client really requests.
func BaseURL(baseURL string) ServiceOption {
	return serviceOptionBaseURL(baseURL)
}

type serviceOptionResponses Responses

func (o serviceOptionResponses) Configure(s *Service) error {
	if err := Responses(o).Validate(); err != nil {
		return err
	}
	for kind, byName := range o {
		for name, value := range byName {
			s.responses.Set(kind, name, value)
		}
	}
	return nil
}

// WithResponses replaces the default canned responses for the routes it names. Routes it does
// not name keep their defaults.
func WithResponses(responses Responses) ServiceOption {
	return serviceOptionResponses(responses)
}

// NewService creates a mock API for the given client shortname. A nil debugLogger discards
// log output.
func NewService(
	shortname string,
	vars MockVars,
	debugLogger framework.Logger,
	options ...ServiceOption,
) (*Service, error) {
	if debugLogger == nil {
		debugLogger = framework.NullLogger()
	}
	defaults, err := DefaultResponses()
	if err != nil {
		return nil, err
	}
	s := &Service{
		shortname:       shortname,
		baseURLTemplate: DefaultBaseURLTemplate,
		vars:            vars,
		responses:       defaults,
		debugLogger:     debugLogger,
	}
	if err := helpers.ApplyOptions(s, options...); err != nil {
		return nil, err
	}
	if s.baseURL == "" {
		s.baseURL = strings.TrimSuffix(
			TemplateReplace(s.baseURLTemplate, map[string]string{"shortname": shortname}), "/")
	}

	s.routes = MakeRoutes(vars)
	for i, r := range s.routes {
		if value, ok := s.responses.Get(r.Kind, r.Name); ok {
			s.routes[i].Response = value
		}
	}

	router := mux.NewRouter()
	router.HandleFunc(RoutesListPath, s.serveRoutesList).Methods("GET")
	router.HandleFunc(OpenAPIPath, s.serveOpenAPI).Methods("GET")
	for _, r := range s.routes {
		router.HandleFunc(r.Pattern, s.serveAPIRequest).Methods("GET")
	}
	s.handler = router

	return s, nil
}

// Shortname returns the client shortname.
func (s *Service) Shortname() string { return s.shortname }

// BaseURL returns the API base URL that route URLs are built from.
func (s *Service) BaseURL() string { return s.baseURL }

// Vars returns the identifiers and filters the service was created with.
func (s *Service) Vars() MockVars { return s.vars }

// Routes returns a snapshot of the route table.
func (s *Service) Routes() []Route {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return helpers.CopyOf(s.routes)
}

// RouteURL returns the absolute URL of a route, without any query string.
func (s *Service) RouteURL(r Route) string { return s.baseURL + r.Path }

// SetResponse changes the canned response of a route. It returns false if there is no such
// route.
func (s *Service) SetResponse(kind APIKind, name string, response ldvalue.Value) bool {
	s.lock.Lock()
	defer s.lock.Unlock()
	for i, r := range s.routes {
		if r.Kind == kind && r.Name == name {
			s.routes[i].Response = response
			return true
		}
	}
	return false
}

// Request stands in for a client's request function.
//
// The mock filters, extended by params, are merged into rawURL to give the request URL. Each
// route's URL gets the same treatment, and the route whose result is equal to the request URL,
// as defined by query.Equal, is the match; if several match, the last one in the table wins.
// onComplete, if not nil, receives the matched route's response. If nothing matches, Request
// returns a *RouteNotFoundError.
func (s *Service) Request(rawURL string, params map[string]string, onComplete func(ldvalue.Value)) error {
	effectiveParams := s.vars.Filters.Merge(query.ParamsFromMap(params))
	requestURL := query.MergeParams(rawURL, effectiveParams)

	route := s.findRoute(requestURL, effectiveParams)
	if !route.IsDefined() {
		s.debugLogger.Printf("No mock API route for %s", requestURL)
		return &RouteNotFoundError{URL: requestURL}
	}
	s.debugLogger.Printf("Request to %s matched %s", requestURL, route.Value().ID())
	if onComplete != nil {
		onComplete(route.Value().Response)
	}
	return nil
}

func (s *Service) findRoute(requestURL string, params query.Params) opt.Maybe[Route] {
	s.lock.RLock()
	defer s.lock.RUnlock()
	found := opt.None[Route]()
	for _, r := range s.routes {
		if query.Equal(query.MergeParams(s.RouteURL(r), params), requestURL) {
			found = opt.Some(r)
		}
	}
	return found
}

func (s *Service) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func (s *Service) serveAPIRequest(w http.ResponseWriter, r *http.Request) {
	// The request's own query parameters play the part of the params argument of Request.
	params := query.Parse(r.URL.RawQuery).Map()
	err := s.Request(s.baseURL+r.URL.Path, params, func(response ldvalue.Value) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set(RequestIDHeader, uuid.NewString())
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(response.JSONString()))
	})
	var notFound *RouteNotFoundError
	if errors.As(err, &notFound) {
		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(notFound.Error()))
	}
}

func (s *Service) serveRoutesList(w http.ResponseWriter, r *http.Request) {
	writer := jwriter.NewWriter()
	arr := writer.Array()
	for _, route := range s.Routes() {
		obj := arr.Object()
		obj.Name("kind").String(string(route.Kind))
		obj.Name("name").String(route.Name)
		obj.Name("path").String(route.Path)
		obj.Name("url").String(s.RouteURL(route))
		route.Response.WriteToJSONWriter(obj.Name("response"))
		obj.End()
	}
	arr.End()
	if err := writer.Error(); err != nil {
		s.debugLogger.Printf("Failed to serialize route table: %s", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(writer.Bytes())
}
