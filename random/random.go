// Package random generates arbitrary test data: strings, numbers, booleans, and JSON arrays
// and objects built from those, plus query strings and advanced-tag lists in the formats the
// media manager API accepts.
//
// Nothing here is suitable for anything security-related.
package random

import (
	"crypto/md5" //nolint:gosec // used for producing opaque strings, not for security
	"encoding/hex"
	"math/rand"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
	"golang.org/x/exp/slices"
)

// Kind identifies a type of random data.
type Kind string

const (
	KindString       Kind = "string"
	KindNumber       Kind = "number"
	KindBool         Kind = "bool"
	KindArray        Kind = "array"
	KindObject       Kind = "object"
	KindQuery        Kind = "query"
	KindAdvancedTags Kind = "advancedTags"
)

// maxCollectionSize is the exclusive upper bound on the length of generated arrays, objects,
// query strings and tag lists.
const maxCollectionSize = 10

const defaultNumberRange = 100

// AllKinds returns every Kind, in a fixed order.
func AllKinds() []Kind {
	return []Kind{KindString, KindNumber, KindBool, KindArray, KindObject, KindQuery, KindAdvancedTags}
}

// NonScalarKinds returns the kinds that are built out of other random values. Omitting these
// from Type gives a kind that can be used as a leaf value.
func NonScalarKinds() []Kind {
	return []Kind{KindArray, KindObject, KindQuery, KindAdvancedTags}
}

// Generator produces random test data. It is safe for concurrent use.
type Generator struct {
	rnd  *rand.Rand
	lock sync.Mutex
}

// New creates a Generator with a fixed seed, so that the same sequence of calls produces the
// same data.
func New(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))} //nolint:gosec
}

// NewGenerator creates a Generator seeded from the current time.
func NewGenerator() *Generator {
	return New(time.Now().UnixNano())
}

func (g *Generator) intn(n int) int {
	g.lock.Lock()
	defer g.lock.Unlock()
	return g.rnd.Intn(n)
}

// String returns a random 32-character lowercase hex string.
func (g *Generator) String() string {
	g.lock.Lock()
	seed := g.rnd.Int63()
	g.lock.Unlock()
	sum := md5.Sum([]byte(strconv.FormatInt(seed, 10))) //nolint:gosec
	return hex.EncodeToString(sum[:])
}

// Number returns a random integer from 0 up to but not including n. If n is zero or negative,
// the range is 0 to 99.
func (g *Generator) Number(n int) int {
	if n <= 0 {
		n = defaultNumberRange
	}
	return g.intn(n)
}

// Bool returns a random boolean.
func (g *Generator) Bool() bool {
	return g.intn(2) == 1
}

// Type returns a randomly chosen Kind that is not in omit. If every kind is omitted, it
// returns KindString.
func (g *Generator) Type(omit ...Kind) Kind {
	candidates := make([]Kind, 0, len(AllKinds()))
	for _, k := range AllKinds() {
		if !slices.Contains(omit, k) {
			candidates = append(candidates, k)
		}
	}
	if len(candidates) == 0 {
		return KindString
	}
	return candidates[g.intn(len(candidates))]
}

// ScalarType returns a random kind that is not built from other values.
func (g *Generator) ScalarType() Kind {
	return g.Type(NonScalarKinds()...)
}

// Value returns a random value of the given kind. Query strings and tag lists are returned as
// JSON strings.
func (g *Generator) Value(kind Kind) ldvalue.Value {
	switch kind {
	case KindNumber:
		return ldvalue.Int(g.Number(0))
	case KindBool:
		return ldvalue.Bool(g.Bool())
	case KindArray:
		return g.Array("")
	case KindObject:
		return g.Object()
	case KindQuery:
		return ldvalue.String(g.Query())
	case KindAdvancedTags:
		return ldvalue.String(g.AdvancedTags())
	default:
		return ldvalue.String(g.String())
	}
}

// Array returns a JSON array of up to 9 random items of the given kind. If kind is empty, each
// item gets its own random scalar kind.
func (g *Generator) Array(kind Kind) ldvalue.Value {
	n := g.Number(maxCollectionSize)
	builder := ldvalue.ArrayBuildWithCapacity(n)
	for i := 0; i < n; i++ {
		itemKind := kind
		if itemKind == "" {
			itemKind = g.ScalarType()
		}
		builder.Add(g.Value(itemKind))
	}
	return builder.Build()
}

// Object returns a JSON object with up to 9 random string keys, each with a random scalar value.
func (g *Generator) Object() ldvalue.Value {
	n := g.Number(maxCollectionSize)
	builder := ldvalue.ObjectBuildWithCapacity(n)
	for i := 0; i < n; i++ {
		builder.Set(g.String(), g.Value(g.ScalarType()))
	}
	return builder.Build()
}

// Query returns a query string, without a leading "?", of up to 9 parameters with random string
// names and random scalar values.
func (g *Generator) Query() string {
	n := g.Number(maxCollectionSize)
	pairs := make([]string, 0, n)
	for i := 0; i < n; i++ {
		pairs = append(pairs, g.String()+"="+scalarText(g.Value(g.ScalarType())))
	}
	return strings.Join(pairs, "&")
}

// AdvancedTags returns up to 9 random "name=value" tag filters separated by semicolons.
func (g *Generator) AdvancedTags() string {
	n := g.Number(maxCollectionSize)
	tags := make([]string, 0, n)
	for i := 0; i < n; i++ {
		tags = append(tags, g.String()+"="+g.String())
	}
	return strings.Join(tags, ";")
}

func scalarText(v ldvalue.Value) string {
	if v.Type() == ldvalue.StringType {
		return v.StringValue()
	}
	return v.JSONString()
}
