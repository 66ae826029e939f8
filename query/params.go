package query

import (
	"net/url"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Params is an ordered set of GET parameters. Keys are unique; iteration and encoding follow
// insertion order, and setting a key that already exists keeps its original position.
//
// The zero value is an empty Params ready to use. Params behaves as a value: a copy made by
// assignment is independent of the original, even if either one is changed later with Set.
type Params struct {
	keys   []string
	values map[string]string
}

// ParamsFromMap creates a Params from a plain map. Since Go maps are unordered, the keys are
// added in sorted order so that the result, and its encoding, is the same for equal maps.
func ParamsFromMap(m map[string]string) Params {
	keys := maps.Keys(m)
	slices.Sort(keys)
	var p Params
	for _, k := range keys {
		p.set(k, m[k])
	}
	return p
}

// Set adds or replaces a parameter. The receiver gets new storage first, so any other Params
// that was copied from it by assignment is unaffected.
func (p *Params) Set(key, value string) {
	*p = p.Clone()
	p.set(key, value)
}

// set writes to storage that only the receiver refers to.
func (p *Params) set(key, value string) {
	if p.values == nil {
		p.values = make(map[string]string)
	}
	if _, ok := p.values[key]; !ok {
		p.keys = append(p.keys, key)
	}
	p.values[key] = value
}

// Get returns the value of a parameter and whether it was present.
func (p Params) Get(key string) (string, bool) {
	value, ok := p.values[key]
	return value, ok
}

// Len returns the number of parameters.
func (p Params) Len() int { return len(p.keys) }

// Keys returns the parameter names in order.
func (p Params) Keys() []string {
	return append([]string(nil), p.keys...)
}

// Map returns the parameters as a plain map.
func (p Params) Map() map[string]string {
	ret := make(map[string]string, len(p.keys))
	for _, k := range p.keys {
		ret[k] = p.values[k]
	}
	return ret
}

// Clone returns an independent copy.
func (p Params) Clone() Params {
	var ret Params
	for _, k := range p.keys {
		ret.set(k, p.values[k])
	}
	return ret
}

// Merge returns a copy of p overwritten by other. Keys that exist in both keep their position
// in p but take the value from other; keys only in other are appended in other's order.
func (p Params) Merge(other Params) Params {
	ret := p.Clone()
	for _, k := range other.keys {
		ret.set(k, other.values[k])
	}
	return ret
}

// WithoutEmpty returns a copy of p without the parameters whose value is an empty string.
func (p Params) WithoutEmpty() Params {
	var ret Params
	for _, k := range p.keys {
		if v := p.values[k]; v != "" {
			ret.set(k, v)
		}
	}
	return ret
}

// Encode serializes the parameters as a query string without the leading "?". Keys and values
// are escaped with url.QueryEscape; a parameter with an empty value is written as "key=".
func (p Params) Encode() string {
	if len(p.keys) == 0 {
		return ""
	}
	var b strings.Builder
	for i, k := range p.keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(k))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.values[k]))
	}
	return b.String()
}

// String returns the same thing as Encode.
func (p Params) String() string { return p.Encode() }
