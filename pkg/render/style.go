package render

import (
	"strconv"
	"strings"

	"github.com/matzehuels/md2ifdam/pkg/diagram"
	"github.com/matzehuels/md2ifdam/pkg/svg"
)

// Defaults is an ordered list of default style declarations.
type Defaults []svg.Attr

// defaults builds Defaults from name/value pairs.
func defaults(kv ...string) Defaults {
	d := make(Defaults, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		d = append(d, svg.Attr{Name: kv[i], Value: kv[i+1]})
	}
	return d
}

var (
	textDefaults  = defaults("font-size", "12", "font-fill", "black", "font-stroke", "none")
	rectDefaults  = defaults("fill", "white", "stroke", "black", "stroke-width", "1", "stroke-dasharray", "none")
	lineDefaults  = defaults("stroke", "black", "stroke-width", "1", "stroke-dasharray", "none")
	labelDefaults = defaults("fill", "white")
	labelText     = defaults("font-size", "9")
)

// cssNames maps pseudo properties to the SVG property they set.
var cssNames = map[string]string{
	"font-fill":   "fill",
	"font-stroke": "stroke",
}

func cssName(name string) string {
	if out, ok := cssNames[name]; ok {
		return out
	}
	return name
}

// ApplyStyles resolves style against the default lists and writes the
// result onto el.
//
// Earlier defaults win over later ones and style wins over all of them.
// Only properties named by some default are written, in the order they are
// first declared. The returned map is the full resolved style, including
// keys of style that were not written.
func ApplyStyles(el *svg.Element, style diagram.StyleMap, lists ...Defaults) diagram.StyleMap {
	var order []svg.Attr
	seen := make(map[string]bool)
	for _, list := range lists {
		for _, d := range list {
			if !seen[d.Name] {
				seen[d.Name] = true
				order = append(order, d)
			}
		}
	}

	applying := style.Clone()
	for _, d := range order {
		if _, ok := applying[d.Name]; !ok {
			applying[d.Name] = d.Value
		}
		el.Style(cssName(d.Name), applying[d.Name])
	}
	return applying
}

// intValue converts a style value the way a bitwise "| 0" does: numeric
// strings truncate toward zero, anything else is 0.
func intValue(s string) int {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return int(f)
}

// leadingInt parses the integer prefix of s, as in "12px" -> 12.
func leadingInt(s string) (int, bool) {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	return n, err == nil
}
