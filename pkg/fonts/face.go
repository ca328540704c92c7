package fonts

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Face describes one loadable font.
type Face struct {
	Family string `json:"font-family"`
	Style  string `json:"font-style"`
	Weight int    `json:"font-weight"`

	// PostScriptName is informational.
	PostScriptName string `json:"postscriptName,omitempty"`
	// Src is a file path, or "embedded:<name>" for built-in fonts.
	Src string `json:"src"`
	// Index selects the font inside a collection (.ttc/.otc).
	Index int `json:"index,omitempty"`
}

// Key identifies the font data behind the face.
func (f Face) Key() string {
	return fmt.Sprintf("%s#%d", f.Src, f.Index)
}

// String renders the face as "Family Style (weight)".
func (f Face) String() string {
	return fmt.Sprintf("%s %s (%d)", f.Family, f.Style, f.Weight)
}

// Query selects faces. Empty Family or Style and zero Weight match anything.
type Query struct {
	Family string `json:"font-family"`
	Style  string `json:"font-style"`
	Weight int    `json:"font-weight"`
}

// Matches reports whether f satisfies q.
func (q Query) Matches(f Face) bool {
	if q.Family != "" && q.Family != f.Family {
		return false
	}
	if q.Style != "" && q.Style != f.Style {
		return false
	}
	if q.Weight != 0 && q.Weight != f.Weight {
		return false
	}
	return true
}

// String renders the query as JSON, e.g.
// {"font-family":"Osaka","font-style":"Regular","font-weight":400}.
func (q Query) String() string {
	data, _ := json.Marshal(q)
	return string(data)
}

var weightKeywords = []struct {
	keyword string
	weight  int
}{
	// Compound names first so that "semibold" is not read as "bold".
	{"extralight", 200},
	{"ultralight", 200},
	{"semibold", 600},
	{"demibold", 600},
	{"extrabold", 800},
	{"ultrabold", 800},
	{"hairline", 100},
	{"thin", 100},
	{"light", 300},
	{"medium", 500},
	{"bold", 700},
	{"heavy", 800},
	{"black", 900},
}

// WeightFromStyle derives a CSS weight from a subfamily name such as
// "Bold Italic" or "W6". Unrecognized names map to 400.
func WeightFromStyle(style string) int {
	s := strings.ToLower(style)
	s = strings.NewReplacer(" ", "", "-", "", "_", "").Replace(s)

	// Japanese foundries use W1..W9.
	if len(s) >= 2 && s[0] == 'w' && s[1] >= '1' && s[1] <= '9' && (len(s) == 2 || s[2] < '0' || s[2] > '9') {
		return int(s[1]-'0') * 100
	}
	for _, kw := range weightKeywords {
		if strings.Contains(s, kw.keyword) {
			return kw.weight
		}
	}
	return 400
}
