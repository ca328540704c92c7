package svg

import (
	"io"
	"strings"
)

// Namespace is the SVG XML namespace.
const Namespace = "http://www.w3.org/2000/svg"

// Prolog is the XML declaration written before the root element.
const Prolog = `<?xml version="1.0" encoding="UTF-8" standalone="no"?>` + "\n"

// Document is an SVG document with a single svg root.
type Document struct {
	Root *Element
}

// NewDocument creates <svg version="1.1" xmlns="..."><defs/></svg>.
func NewDocument() *Document {
	root := New("svg").Attr("version", "1.1").Attr("xmlns", Namespace)
	root.Append("defs")
	return &Document{Root: root}
}

// Defs returns the first defs element of the document, creating one as the
// first child of the root if missing.
func (d *Document) Defs() *Element {
	if defs := d.Root.Select("defs"); defs != nil {
		return defs
	}
	return d.Root.Prepend("defs")
}

// SelectAll matches sel against the root and its descendants.
func (d *Document) SelectAll(sel string) ([]*Element, error) {
	chain, err := parseSelector(sel)
	if err != nil {
		return nil, err
	}
	var out []*Element
	d.Root.Walk(func(e *Element) bool {
		if matchChain(e, nil, chain) {
			out = append(out, e)
		}
		return true
	})
	return out, nil
}

// WriteTo writes the XML prolog followed by the root element.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, Prolog)
	if err != nil {
		return int64(n), err
	}
	m, err := d.Root.WriteTo(w)
	return int64(n) + m, err
}

// String returns the serialized document.
func (d *Document) String() string {
	var b strings.Builder
	_, _ = d.WriteTo(&b)
	return b.String()
}
