package mockmm

import (
	"regexp"

	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
)

var placeholderRegex = regexp.MustCompile(`\{(\w+)\}`)

// APIKind is the group of API functions a route belongs to.
type APIKind string

const (
	TemplateAPI APIKind = "template"
	PlaylistAPI APIKind = "playlist"
)

// AllAPIKinds returns every APIKind.
func AllAPIKinds() []APIKind { return []APIKind{TemplateAPI, PlaylistAPI} }

// Route is one endpoint of the mock API.
type Route struct {
	Kind APIKind
	Name string
	// Pattern is the path relative to the API base URL, with "{template}", "{video}",
	// "{audio}" and "{playlist}" placeholders.
	Pattern string
	// Path is Pattern with the placeholders filled in from MockVars.
	Path     string
	Response ldvalue.Value
}

// ID returns "kind.name", which is unique within a route table.
func (r Route) ID() string { return string(r.Kind) + "." + r.Name }

// Placeholders returns the names of the placeholders in Pattern, in order.
func (r Route) Placeholders() []string {
	var ret []string
	for _, match := range placeholderRegex.FindAllStringSubmatch(r.Pattern, -1) {
		ret = append(ret, match[1])
	}
	return ret
}

type routeDef struct {
	kind    APIKind
	name    string
	pattern string
}

// Order matters for HTTP routing: "video/search" must be registered before "video/{video}".
var routeDefs = []routeDef{ //nolint:gochecknoglobals
	{TemplateAPI, "mostViewedVideos", "/template/{template}/videos/mostviewed"},
	{TemplateAPI, "latestVideos", "/template/{template}/videos/latest"},
	{TemplateAPI, "searchVideos", "/template/{template}/video/search"},
	{TemplateAPI, "video", "/template/{template}/video/{video}"},
	{TemplateAPI, "videos", "/template/{template}/videos"},
	{TemplateAPI, "audios", "/template/{template}/audios"},
	{TemplateAPI, "recommendedVideos", "/template/{template}/videos/recommend/{video}"},
	{PlaylistAPI, "videos", "/playlist/{playlist}/videos"},
	{PlaylistAPI, "audios", "/playlist/{playlist}/audios"},
	{PlaylistAPI, "audio", "/playlist/{playlist}/audio/{audio}"},
	{PlaylistAPI, "video", "/playlist/{playlist}/video/{video}"},
}

// MakeRoutes builds the mock route table for the given identifiers. Every route starts out
// with an empty JSON object as its response.
func MakeRoutes(vars MockVars) []Route {
	pathVars := vars.PathVars()
	ret := make([]Route, 0, len(routeDefs))
	for _, d := range routeDefs {
		ret = append(ret, Route{
			Kind:     d.kind,
			Name:     d.name,
			Pattern:  d.pattern,
			Path:     TemplateReplace(d.pattern, pathVars),
			Response: ldvalue.ObjectBuild().Build(),
		})
	}
	return ret
}

// RouteNames returns the function names of all routes of one kind, in table order.
func RouteNames(kind APIKind) []string {
	var ret []string
	for _, d := range routeDefs {
		if d.kind == kind {
			ret = append(ret, d.name)
		}
	}
	return ret
}

func isKnownRoute(kind APIKind, name string) bool {
	for _, d := range routeDefs {
		if d.kind == kind && d.name == name {
			return true
		}
	}
	return false
}
