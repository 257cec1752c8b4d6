// Package pgtext renders Go values into PostgreSQL text-literal encodings.
//
// The scan pipeline stores item tags in a text[] column and passes the column
// value as a single parameter, so the array itself must be rendered in the
// array-literal grammar ({"a","b"}) before it reaches the driver.
package pgtext

import "strings"

// NormalizeTags converts the untrusted "tags" field of an item record into a
// canonical ordered string slice. Clients send tags as absent, as an object
// (the game serializes empty Lua tables ambiguously), or as an array of mixed
// types. The mapping is total:
//
//	absent (nil)        -> empty
//	object              -> empty (unusable shape, silently discarded)
//	array               -> string elements only, original order
//	[]string            -> passed through
//
// Any other scalar shape is unusable and yields an empty slice.
func NormalizeTags(raw interface{}) []string {
	switch v := raw.(type) {
	case nil:
		return []string{}
	case []string:
		return v
	case []interface{}:
		tags := make([]string, 0, len(v))
		for _, el := range v {
			if s, ok := el.(string); ok {
				tags = append(tags, s)
			}
		}
		return tags
	default:
		// Objects decode as map[string]interface{}; scalars are equally
		// unusable as tag collections.
		return []string{}
	}
}

// EncodeArray renders tags as a postgres array literal. Every element is
// double-quoted, with backslashes and embedded quotes escaped so adversarial
// tag strings cannot break out of the literal. NUL bytes are dropped because
// postgres text values cannot contain them.
func EncodeArray(tags []string) string {
	if len(tags) == 0 {
		return "{}"
	}

	var b strings.Builder
	b.WriteByte('{')
	for i, tag := range tags {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		for _, r := range tag {
			switch r {
			case '\\', '"':
				b.WriteByte('\\')
				b.WriteRune(r)
			case 0:
				// skip
			default:
				b.WriteRune(r)
			}
		}
		b.WriteByte('"')
	}
	b.WriteByte('}')
	return b.String()
}
