package query

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	for _, params := range []struct {
		desc     string
		input    string
		expected map[string]string
		keys     []string
	}{
		{"empty string", "", map[string]string{}, nil},
		{"single pair", "a=1", map[string]string{"a": "1"}, []string{"a"}},
		{"several pairs", "b=2&a=1&c=3", map[string]string{"a": "1", "b": "2", "c": "3"}, []string{"b", "a", "c"}},
		{"missing value", "a&b=", map[string]string{"a": "", "b": ""}, []string{"a", "b"}},
		{"extra equals sign stays in value", "tags=x=1;y=2", map[string]string{"tags": "x=1;y=2"}, []string{"tags"}},
		{"empty segments skipped", "&&a=1&", map[string]string{"a": "1"}, []string{"a"}},
		{"empty key kept", "=1&a=2", map[string]string{"": "1", "a": "2"}, []string{"", "a"}},
		{"escapes decoded", "name=a%20b&q=x+y", map[string]string{"name": "a b", "q": "x y"}, []string{"name", "q"}},
		{"bad escape kept raw", "a=%zz", map[string]string{"a": "%zz"}, []string{"a"}},
		{"repeated key keeps first position", "a=1&b=2&a=3", map[string]string{"a": "3", "b": "2"}, []string{"a", "b"}},
	} {
		t.Run(params.desc, func(t *testing.T) {
			p := Parse(params.input)
			assert.Equal(t, params.expected, p.Map())
			assert.Equal(t, params.keys, p.Keys())
		})
	}
}

func TestSplit(t *testing.T) {
	prefix, rawQuery := Split("http://x/y?a=1?b=2")
	assert.Equal(t, "http://x/y", prefix)
	assert.Equal(t, "a=1?b=2", rawQuery)

	prefix, rawQuery = Split("http://x/y")
	assert.Equal(t, "http://x/y", prefix)
	assert.Equal(t, "", rawQuery)
}

func TestMergeAddsParamsToURLWithoutQuery(t *testing.T) {
	newParams := map[string]string{"perPage": "5", "advanced_tags": "a=b;c=d"}
	result := Merge("http://example.com/template/1/videos", newParams)
	assert.Equal(t, "http://example.com/template/1/videos?"+ParamsFromMap(newParams).Encode(), result)
	assert.Equal(t, "http://example.com/template/1/videos?advanced_tags=a%3Db%3Bc%3Dd&perPage=5", result)
}

func TestMergeOverridesCollidingKeys(t *testing.T) {
	assert.Equal(t, "a?x=2", Merge("a?x=1", map[string]string{"x": "2"}))
}

func TestMergePreservesNonCollidingKeys(t *testing.T) {
	result := Merge("a?x=1", map[string]string{"y": "2"})
	assert.Equal(t, "a?x=1&y=2", result)

	_, rawQuery := Split(result)
	assert.Contains(t, strings.Split(rawQuery, "&"), "x=1")
	assert.Contains(t, strings.Split(rawQuery, "&"), "y=2")
}

func TestMergeKeepsOldOrder(t *testing.T) {
	assert.Equal(t, "a?z=1&y=9&x=3&w=4",
		Merge("a?z=1&y=2&x=3", map[string]string{"y": "9", "w": "4"}))
}

func TestMergeKeepsEmptyKey(t *testing.T) {
	assert.Equal(t, "a?=1&x=2&y=3", Merge("a?=1&x=2", map[string]string{"y": "3"}))
	assert.Equal(t, "a?=2&x=2", Merge("a?=1&x=2", map[string]string{"": "2"}))
	assert.Equal(t, "a?x=2", Merge("a?=1&x=2", map[string]string{"": ""}))
}

func TestMergeReescapesBadEscapes(t *testing.T) {
	once := Merge("a?a=%zz", map[string]string{"y": "3"})
	assert.Equal(t, "a?a=%25zz&y=3", once)
	assert.Equal(t, once, Merge(once, map[string]string{"y": "3"}))
}

func TestMergeDropsEmptyValues(t *testing.T) {
	t.Run("all new values empty", func(t *testing.T) {
		assert.Equal(t, "http://x/y", Merge("http://x/y", map[string]string{"a": "", "b": ""}))
	})

	t.Run("new empty value removes old parameter", func(t *testing.T) {
		assert.Equal(t, "a?y=2", Merge("a?x=1&y=2", map[string]string{"x": ""}))
	})

	t.Run("old valueless parameter removed", func(t *testing.T) {
		assert.Equal(t, "a?y=2", Merge("a?x&y=2", nil))
	})

	t.Run("question mark dropped when nothing is left", func(t *testing.T) {
		assert.Equal(t, "a", Merge("a?x=1", map[string]string{"x": ""}))
		assert.Equal(t, "a", Merge("a?", nil))
	})
}

func TestMergeLeavesPrefixUntouched(t *testing.T) {
	for _, u := range []string{
		"http://x/y",
		"  http://x/y with spaces  ",
		"http://x/y?a=1",
		"http://x/y#frag?a=1",
		"?a=1",
		"",
	} {
		t.Run(u, func(t *testing.T) {
			expectedPrefix, _ := Split(u)
			result := Merge(u, map[string]string{"b": "2"})
			resultPrefix, _ := Split(result)
			assert.Equal(t, expectedPrefix, resultPrefix)
		})
	}
}

func TestMergeIsIdempotent(t *testing.T) {
	for _, params := range []struct {
		url       string
		newParams map[string]string
	}{
		{"http://x/y", map[string]string{"a": "1"}},
		{"http://x/y?a=1&b=2", map[string]string{"b": "3", "c": "4"}},
		{"http://x/y?a=%zz&b=x+y", map[string]string{"c": "with space"}},
		{"http://x/y?tags=p=q", map[string]string{"perPage": "10", "tags": "r=s;t=u"}},
		{"http://x/y?a=1", map[string]string{"a": ""}},
		{"http://x/y", map[string]string{"": "v"}},
		{"http://x/y?=1&x=2", map[string]string{"y": "3"}},
	} {
		t.Run(params.url, func(t *testing.T) {
			once := Merge(params.url, params.newParams)
			twice := Merge(once, params.newParams)
			assert.Equal(t, once, twice)
		})
	}
}

func TestMergeDoesNotModifyParams(t *testing.T) {
	p := ParamsFromMap(map[string]string{"a": "1"})
	_ = MergeParams("u?a=2&b=3", p)
	require.Equal(t, 1, p.Len())
	value, _ := p.Get("a")
	assert.Equal(t, "1", value)
}

func TestEqual(t *testing.T) {
	for _, params := range []struct {
		a, b  string
		equal bool
	}{
		{"http://x/y", "http://x/y", true},
		{"http://x/y?a=1&b=2", "http://x/y?b=2&a=1", true},
		{"http://x/y?a=with%20space", "http://x/y?a=with+space", true},
		{"http://x/y?a=1", "http://x/y?a=2", false},
		{"http://x/y?a=1", "http://x/y?a=1&b=2", false},
		{"http://x/y?a=1", "http://x/z?a=1", false},
		{"http://x/y?", "http://x/y", true},
	} {
		t.Run(params.a+" "+params.b, func(t *testing.T) {
			assert.Equal(t, params.equal, Equal(params.a, params.b))
			assert.Equal(t, params.equal, Equal(params.b, params.a))
		})
	}
}
