package markdown

import "github.com/yuin/goldmark/util"

// decode resolves backslash escapes and entity references in raw inline
// source. An escaped character is taken literally, so "\&amp;" stays
// "&amp;" while "&amp;" becomes "&".
func decode(raw []byte) string {
	out := make([]byte, 0, len(raw))
	start := 0
	for i := 0; i < len(raw)-1; i++ {
		if raw[i] == '\\' && util.IsPunct(raw[i+1]) {
			out = append(out, resolveRefs(raw[start:i])...)
			out = append(out, raw[i+1])
			i++
			start = i + 1
		}
	}
	out = append(out, resolveRefs(raw[start:])...)
	return string(out)
}

func resolveRefs(b []byte) []byte {
	return util.ResolveEntityNames(util.ResolveNumericReferences(b))
}
