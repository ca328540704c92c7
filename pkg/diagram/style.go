package diagram

import (
	"maps"
	"regexp"
	"slices"
	"strings"
)

// StyleMap maps CSS-like property names to values.
type StyleMap map[string]string

// Merge copies the keys of other that s does not have yet and returns the
// result. Existing keys are never overwritten. A nil s is allocated on
// demand.
func (s StyleMap) Merge(other StyleMap) StyleMap {
	if len(other) == 0 {
		return s
	}
	if s == nil {
		s = make(StyleMap, len(other))
	}
	for k, v := range other {
		if _, ok := s[k]; !ok {
			s[k] = v
		}
	}
	return s
}

// Get returns the value of key, or "" if absent.
func (s StyleMap) Get(key string) string { return s[key] }

// Clone returns a shallow copy of s. The copy of a nil map is an empty map.
func (s StyleMap) Clone() StyleMap {
	out := make(StyleMap, len(s))
	maps.Copy(out, s)
	return out
}

// String renders s as sorted "key: value;" declarations.
func (s StyleMap) String() string {
	var b strings.Builder
	for i, k := range slices.Sorted(maps.Keys(s)) {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(k)
		b.WriteString(": ")
		b.WriteString(s[k])
		b.WriteByte(';')
	}
	return b.String()
}

var declPattern = regexp.MustCompile(`^\s*([^;]+):\s*([^:]+);`)

// ExtractStyle parses leading "key: value;" declarations from text.
// Parsing stops silently at the first remainder that is not a declaration;
// values are kept verbatim, including trailing spaces.
//
//	ExtractStyle("fill: red; stroke:black;") // {"fill": "red", "stroke": "black"}
//	ExtractStyle("fill=red")                 // {}
func ExtractStyle(text string) StyleMap {
	style := StyleMap{}
	for rest := text; rest != ""; {
		m := declPattern.FindStringSubmatch(rest)
		if m == nil {
			break
		}
		style[m[1]] = m[2]
		rest = rest[len(m[0]):]
	}
	return style
}
