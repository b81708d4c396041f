// Package keys builds cache keys and invalidation tags from query
// parameters. Keys are canonical: two requests that differ only in parameter
// order, value order, or parameter-name case hash to the same key.
package keys

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"
)

const (
	keyPrefix = "sia:resp:"
	tagPrefix = "sia:coll:"

	// TagAll marks responses whose result set is not constrained to any
	// collection. A change in any collection may affect them, so every
	// invalidation purges this tag too.
	TagAll = "sia:coll:*"
)

// ResponseKey returns the cache key for a normalized query. Parameter names
// are folded to upper case, names and per-name values are sorted, and the
// canonical form is hashed.
func ResponseKey(params url.Values) string {
	type pair struct {
		name   string
		values []string
	}

	pairs := make([]pair, 0, len(params))
	for name, values := range params {
		vs := make([]string, len(values))
		copy(vs, values)
		sort.Strings(vs)
		pairs = append(pairs, pair{name: strings.ToUpper(name), values: vs})
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].name < pairs[j].name })

	var b strings.Builder
	for _, p := range pairs {
		for _, v := range p.values {
			b.WriteString(p.name)
			b.WriteByte('=')
			b.WriteString(v)
			b.WriteByte('\n')
		}
	}

	return fmt.Sprintf("%s%016x", keyPrefix, xxhash.Sum64String(b.String()))
}

// CollectionTag returns the invalidation tag for one collection name.
func CollectionTag(collection string) string {
	return tagPrefix + sanitizeTag(collection)
}

// Tags returns the tag set for a response constrained to the given
// collections. An empty list means the response spans the whole catalog and
// gets the catch-all tag.
func Tags(collections []string) []string {
	if len(collections) == 0 {
		return []string{TagAll}
	}
	tags := make([]string, 0, len(collections))
	for _, c := range collections {
		tags = append(tags, CollectionTag(c))
	}
	return tags
}

func sanitizeTag(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	var prev rune
	for _, r := range s {
		out := rune(0)
		switch {
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			out = '_'
		case isAlphaNum(r) || r == '_' || r == '-' || r == '.' || r == '/':
			out = r
		default:
			out = '-'
		}
		if (out == '_' || out == '-') && out == prev {
			continue
		}
		b.WriteRune(out)
		prev = out
	}
	return b.String()
}

func isAlphaNum(r rune) bool {
	return (r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9')
}
