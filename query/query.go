// Package query merges GET parameters into URLs.
//
// The functions here never fail. Input is treated as a best-effort string: stray "="
// characters, bad escapes and empty segments are tolerated rather than reported, because
// callers routinely pass randomly generated test data.
package query

import (
	"net/url"
	"strings"

	"golang.org/x/exp/maps"
)

// Parse parses a query string, without a leading "?", into Params.
//
// Pairs are separated by "&" and split on the first "="; a pair with no "=" maps to an empty
// value, and a pair such as "=v" has the empty key. Empty segments are skipped. If a key occurs
// more than once, the last value wins but the key keeps its first position.
//
// Percent escapes are decoded where they are valid. Where they are not, the raw text is kept
// as a literal, so after encoding it comes out escaped: "a=%zz" is written back as "a=%25zz".
// That output decodes to the same literal again, which keeps merging idempotent.
func Parse(paramString string) Params {
	var p Params
	if paramString == "" {
		return p
	}
	for _, pair := range strings.Split(paramString, "&") {
		if pair == "" {
			continue
		}
		key, value, _ := strings.Cut(pair, "=")
		p.set(unescape(key), unescape(value))
	}
	return p
}

// Split divides a URL at its first "?" into the prefix and the raw query string. If there is
// no "?", rawQuery is empty.
func Split(rawURL string) (prefix, rawQuery string) {
	prefix, rawQuery, _ = strings.Cut(rawURL, "?")
	return prefix, rawQuery
}

// MergeParams adds newParams to the query string of rawURL.
//
// Existing parameters are kept unless newParams has the same key, in which case the new value
// wins. Parameters whose resulting value is empty are removed entirely, and if none remain the
// "?" is dropped too. The part of rawURL before the first "?" is returned unchanged.
//
// Merging the same parameters twice gives the same result as merging them once.
func MergeParams(rawURL string, newParams Params) string {
	prefix, rawQuery := Split(rawURL)
	merged := Parse(rawQuery).Merge(newParams).WithoutEmpty()
	if merged.Len() == 0 {
		return prefix
	}
	return prefix + "?" + merged.Encode()
}

// Merge is the same as MergeParams but takes a plain map. New keys that were not already in
// the URL are appended in sorted order.
func Merge(rawURL string, newParams map[string]string) string {
	return MergeParams(rawURL, ParamsFromMap(newParams))
}

// Equal reports whether two URLs have the same prefix and the same set of query parameters,
// regardless of the order the parameters appear in.
func Equal(a, b string) bool {
	prefixA, queryA := Split(a)
	prefixB, queryB := Split(b)
	if prefixA != prefixB {
		return false
	}
	return maps.Equal(Parse(queryA).Map(), Parse(queryB).Map())
}

func unescape(s string) string {
	if decoded, err := url.QueryUnescape(s); err == nil {
		return decoded
	}
	return s
}
