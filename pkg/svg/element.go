package svg

import (
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// Attr is a name/value pair.
type Attr struct {
	Name  string
	Value string
}

// Element is a node of the scene graph.
type Element struct {
	Tag  string
	Text string
	// Datum is the value bound to the element by its creator.
	Datum any

	attrs    []Attr
	styles   []Attr
	classes  []string
	children []*Element
	parent   *Element
}

// New creates a detached element.
func New(tag string) *Element {
	return &Element{Tag: tag}
}

// Append creates a child element at the end and returns it.
func (e *Element) Append(tag string) *Element {
	c := New(tag)
	e.AppendChild(c)
	return c
}

// Prepend creates a child element at the start and returns it.
func (e *Element) Prepend(tag string) *Element {
	c := New(tag)
	c.parent = e
	e.children = slices.Insert(e.children, 0, c)
	return c
}

// AppendChild attaches c as the last child, detaching it from its previous
// parent.
func (e *Element) AppendChild(c *Element) {
	c.Remove()
	c.parent = e
	e.children = append(e.children, c)
}

// Remove detaches e from its parent.
func (e *Element) Remove() {
	if e.parent == nil {
		return
	}
	p := e.parent
	p.children = slices.DeleteFunc(p.children, func(c *Element) bool { return c == e })
	e.parent = nil
}

// Parent returns the parent element, or nil.
func (e *Element) Parent() *Element { return e.parent }

// Children returns the child elements.
func (e *Element) Children() []*Element { return e.children }

// Attr sets an attribute, keeping the position of an existing one.
// The special names "class" and "style" are stored as attributes verbatim.
func (e *Element) Attr(name, value string) *Element {
	e.attrs = set(e.attrs, name, value)
	return e
}

// AttrFloat sets a numeric attribute in its shortest decimal form.
func (e *Element) AttrFloat(name string, v float64) *Element {
	return e.Attr(name, FormatFloat(v))
}

// Attrf sets a formatted attribute.
func (e *Element) Attrf(name, format string, args ...any) *Element {
	return e.Attr(name, fmt.Sprintf(format, args...))
}

// GetAttr returns the value of an attribute.
func (e *Element) GetAttr(name string) (string, bool) {
	return get(e.attrs, name)
}

// AttrValue returns the value of an attribute, or "" if unset.
func (e *Element) AttrValue(name string) string {
	v, _ := get(e.attrs, name)
	return v
}

// Attrs returns the attributes in insertion order.
func (e *Element) Attrs() []Attr { return e.attrs }

// Style sets an inline style declaration.
func (e *Element) Style(name, value string) *Element {
	e.styles = set(e.styles, name, value)
	return e
}

// GetStyle returns an inline style value, or "" if unset.
func (e *Element) GetStyle(name string) string {
	v, _ := get(e.styles, name)
	return v
}

// Styles returns the inline style declarations in insertion order.
func (e *Element) Styles() []Attr { return e.styles }

// Class adds class names that are not present yet.
func (e *Element) Class(names ...string) *Element {
	for _, n := range names {
		for _, c := range strings.Fields(n) {
			if !slices.Contains(e.classes, c) {
				e.classes = append(e.classes, c)
			}
		}
	}
	return e
}

// HasClass reports whether e carries class name.
func (e *Element) HasClass(name string) bool {
	return slices.Contains(e.classes, name)
}

// Classes returns the class names in insertion order.
func (e *Element) Classes() []string { return e.classes }

// SetText replaces the text content.
func (e *Element) SetText(s string) *Element {
	e.Text = s
	return e
}

// ID returns the id attribute.
func (e *Element) ID() string { return e.AttrValue("id") }

// Walk calls fn for e and its descendants in document order until fn
// returns false.
func (e *Element) Walk(fn func(*Element) bool) bool {
	if !fn(e) {
		return false
	}
	for _, c := range e.children {
		if !c.Walk(fn) {
			return false
		}
	}
	return true
}

// FormatFloat formats v in its shortest decimal form, e.g. 10, 12.5, -3.25.
func FormatFloat(v float64) string {
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func set(list []Attr, name, value string) []Attr {
	for i := range list {
		if list[i].Name == name {
			list[i].Value = value
			return list
		}
	}
	return append(list, Attr{Name: name, Value: value})
}

func get(list []Attr, name string) (string, bool) {
	for _, a := range list {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}
