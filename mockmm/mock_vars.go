package mockmm

import (
	"strconv"
	"strings"

	"github.com/Media-Manager/mediamanager-test-harness/query"
	"github.com/Media-Manager/mediamanager-test-harness/random"
)

// DefaultBaseURLTemplate is the API base URL used when no other is configured. "{shortname}" is
// replaced with the client shortname.
const DefaultBaseURLTemplate = "https://{shortname}.mediamanager.io/api/v1"

// Names of the filter parameters that every mock request carries.
const (
	FilterPerPage      = "perPage"
	FilterAdvancedTags = "advanced_tags"
)

// MockVars are the identifiers that the mock API recognizes, plus the filters that are added to
// every request. A client under test must use the same identifiers for its requests to match.
type MockVars struct {
	Template string
	Video    string
	Audio    string
	Playlist string
	Filters  query.Params
}

// NewMockVars generates a random set of MockVars.
func NewMockVars(g *random.Generator) MockVars {
	var filters query.Params
	filters.Set(FilterPerPage, strconv.Itoa(g.Number(0)))
	filters.Set(FilterAdvancedTags, g.AdvancedTags())
	return MockVars{
		Template: g.String(),
		Video:    g.String(),
		Audio:    g.String(),
		Playlist: g.String(),
		Filters:  filters,
	}
}

// PathVars returns the identifiers keyed by the placeholder names used in route patterns.
func (v MockVars) PathVars() map[string]string {
	return map[string]string{
		"template": v.Template,
		"video":    v.Video,
		"audio":    v.Audio,
		"playlist": v.Playlist,
	}
}

// TemplateReplace replaces each "{name}" in template with vars[name]. Placeholders with no
// entry in vars are left alone.
func TemplateReplace(template string, vars map[string]string) string {
	if len(vars) == 0 || !strings.Contains(template, "{") {
		return template
	}
	pairs := make([]string, 0, len(vars)*2)
	for name, value := range vars {
		pairs = append(pairs, "{"+name+"}", value)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}
