package mockmm

import (
	"context"
	"fmt"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
)

// OpenAPIPath is the path, relative to the service root, at which OpenAPIDocument is served.
const OpenAPIPath = "/_openapi.json"

const openAPIVersion = "3.0.3"

// OpenAPIDocument describes the route table as an OpenAPI 3 document in JSON.
//
// Each route is a GET operation whose ID is the route ID. Path parameters only accept the mock
// identifiers, and the canned response is given as the example of the 200 response.
func (s *Service) OpenAPIDocument() []byte {
	routes := s.Routes()
	writer := jwriter.NewWriter()
	doc := writer.Object()
	doc.Name("openapi").String(openAPIVersion)

	info := doc.Name("info").Object()
	info.Name("title").String("Mock media manager API for " + s.shortname)
	info.Name("version").String("1")
	info.End()

	servers := doc.Name("servers").Array()
	server := servers.Object()
	server.Name("url").String(s.baseURL)
	server.End()
	servers.End()

	pathVars := s.vars.PathVars()
	paths := doc.Name("paths").Object()
	for _, route := range routes {
		item := paths.Name(route.Pattern).Object()
		op := item.Name("get").Object()
		op.Name("operationId").String(route.ID())
		op.Name("summary").String(fmt.Sprintf("%s function %q", route.Kind, route.Name))

		params := op.Name("parameters").Array()
		for _, name := range route.Placeholders() {
			param := params.Object()
			param.Name("name").String(name)
			param.Name("in").String("path")
			param.Name("required").Bool(true)
			schema := param.Name("schema").Object()
			schema.Name("type").String("string")
			enum := schema.Name("enum").Array()
			enum.String(pathVars[name])
			enum.End()
			schema.End()
			param.End()
		}
		for _, key := range s.vars.Filters.Keys() {
			param := params.Object()
			param.Name("name").String(key)
			param.Name("in").String("query")
			schema := param.Name("schema").Object()
			schema.Name("type").String("string")
			schema.End()
			param.End()
		}
		params.End()

		responses := op.Name("responses").Object()
		ok := responses.Name("200").Object()
		ok.Name("description").String("canned response")
		content := ok.Name("content").Object()
		mediaType := content.Name("application/json").Object()
		route.Response.WriteToJSONWriter(mediaType.Name("example"))
		mediaType.End()
		content.End()
		ok.End()
		notFound := responses.Name("404").Object()
		notFound.Name("description").String("no route matches the request")
		notFound.End()
		responses.End()

		op.End()
		item.End()
	}
	paths.End()
	doc.End()
	return writer.Bytes()
}

// OpenAPI parses OpenAPIDocument and checks that it is a valid OpenAPI document.
func (s *Service) OpenAPI(ctx context.Context) (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(s.OpenAPIDocument())
	if err != nil {
		return nil, fmt.Errorf("failed to load generated OpenAPI document: %w", err)
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("invalid generated OpenAPI document: %w", err)
	}
	return doc, nil
}

func (s *Service) serveOpenAPI(w http.ResponseWriter, r *http.Request) {
	if _, err := s.OpenAPI(r.Context()); err != nil {
		s.debugLogger.Printf("%s", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(s.OpenAPIDocument())
}
