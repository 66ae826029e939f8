package helpers

import (
	"fmt"
	"regexp"
	"strings"
)

var signatureParamsRegex = regexp.MustCompile(`^[^(]*\(([^)]*)\)`)

// Deps is a set of named values that can be passed to an Injectable.
type Deps map[string]interface{}

// With returns a copy of d with every value from other added, replacing any existing values of
// the same name.
func (d Deps) With(other Deps) Deps {
	ret := make(Deps, len(d)+len(other))
	for k, v := range d {
		ret[k] = v
	}
	for k, v := range other {
		ret[k] = v
	}
	return ret
}

// Injectable is a function whose arguments are supplied by name rather than by position.
//
// Go does not keep parameter names at runtime, so they are declared along with the function:
//
//	fn := helpers.NewInjectable("videos(template, onComplete, perPage)",
//	    func(args ...interface{}) error { ... })
//
// Inject then calls fn with args[0] = deps["template"], args[1] = deps["onComplete"], and so on.
type Injectable struct {
	params []string
	fn     func(args ...interface{}) error
}

// NewInjectable creates an Injectable. The signature is either a parenthesized parameter list
// with an optional name in front, like "videos(template, onComplete)", or just the
// comma-separated names.
func NewInjectable(signature string, fn func(args ...interface{}) error) Injectable {
	return Injectable{params: ParseParamNames(signature), fn: fn}
}

// Params returns the parameter names in the order the function receives them.
func (i Injectable) Params() []string { return CopyOf(i.params) }

// ParseParamNames extracts the ordered parameter names from a signature string. Surrounding
// whitespace is trimmed and empty names are dropped, so "f()" and "" both have no parameters.
func ParseParamNames(signature string) []string {
	list := signature
	if match := signatureParamsRegex.FindStringSubmatch(signature); match != nil {
		list = match[1]
	}
	var names []string
	for _, name := range strings.Split(list, ",") {
		if name = strings.TrimSpace(name); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// Inject calls fn, passing the value from deps for each of its parameter names in order. A name
// that is not in deps is passed as nil.
func Inject(fn Injectable, deps Deps) error {
	if fn.fn == nil {
		return fmt.Errorf("cannot inject into nil function with parameters %v", fn.params)
	}
	args := make([]interface{}, 0, len(fn.params))
	for _, name := range fn.params {
		args = append(args, deps[name])
	}
	return fn.fn(args...)
}
