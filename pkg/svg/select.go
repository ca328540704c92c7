package svg

import (
	"fmt"
	"strings"
)

// compound is one step of a selector: tag.class1.class2#id.
type compound struct {
	tag     string
	id      string
	classes []string
}

func (c compound) matches(e *Element) bool {
	if c.tag != "" && c.tag != "*" && c.tag != e.Tag {
		return false
	}
	if c.id != "" && e.ID() != c.id {
		return false
	}
	for _, cl := range c.classes {
		if !e.HasClass(cl) {
			return false
		}
	}
	return true
}

// parseSelector splits a descendant chain into compounds.
func parseSelector(sel string) ([]compound, error) {
	fields := strings.Fields(sel)
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty selector")
	}
	chain := make([]compound, 0, len(fields))
	for _, f := range fields {
		var c compound
		rest := f
		if i := strings.IndexAny(rest, ".#"); i != 0 {
			if i < 0 {
				i = len(rest)
			}
			c.tag, rest = rest[:i], rest[i:]
		}
		for rest != "" {
			kind := rest[0]
			rest = rest[1:]
			j := strings.IndexAny(rest, ".#")
			if j < 0 {
				j = len(rest)
			}
			name := rest[:j]
			rest = rest[j:]
			if name == "" {
				return nil, fmt.Errorf("invalid selector %q", sel)
			}
			if kind == '.' {
				c.classes = append(c.classes, name)
			} else {
				c.id = name
			}
		}
		chain = append(chain, c)
	}
	return chain, nil
}

// SelectAll returns the descendants of e matching sel in document order.
// e itself is never part of the result.
func (e *Element) SelectAll(sel string) ([]*Element, error) {
	chain, err := parseSelector(sel)
	if err != nil {
		return nil, err
	}
	var out []*Element
	for _, c := range e.children {
		c.Walk(func(d *Element) bool {
			if matchChain(d, e, chain) {
				out = append(out, d)
			}
			return true
		})
	}
	return out, nil
}

// Select returns the first descendant matching sel, or nil.
func (e *Element) Select(sel string) *Element {
	all, err := e.SelectAll(sel)
	if err != nil || len(all) == 0 {
		return nil
	}
	return all[0]
}

// matchChain reports whether d matches the last compound and its ancestors
// below scope match the rest of the chain in order.
func matchChain(d, scope *Element, chain []compound) bool {
	last := len(chain) - 1
	if !chain[last].matches(d) {
		return false
	}
	i := last - 1
	for a := d.parent; i >= 0 && a != nil && a != scope; a = a.parent {
		if chain[i].matches(a) {
			i--
		}
	}
	return i < 0
}
