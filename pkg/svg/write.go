package svg

import (
	"bufio"
	"bytes"
	"encoding/xml"
	"io"
	"strings"
)

// WriteTo serializes e and its descendants as compact XML.
func (e *Element) WriteTo(w io.Writer) (int64, error) {
	cw := &countWriter{w: bufio.NewWriter(w)}
	e.write(cw)
	if cw.err == nil {
		cw.err = cw.w.(*bufio.Writer).Flush()
	}
	return cw.n, cw.err
}

// String returns the serialized element.
func (e *Element) String() string {
	var buf bytes.Buffer
	_, _ = e.WriteTo(&buf)
	return buf.String()
}

func (e *Element) write(w *countWriter) {
	w.str("<")
	w.str(e.Tag)
	for _, a := range e.attrs {
		w.attr(a.Name, a.Value)
	}
	if len(e.classes) > 0 {
		w.attr("class", strings.Join(e.classes, " "))
	}
	if len(e.styles) > 0 {
		var b strings.Builder
		for i, s := range e.styles {
			if i > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(s.Name)
			b.WriteString(": ")
			b.WriteString(s.Value)
			b.WriteByte(';')
		}
		w.attr("style", b.String())
	}
	if e.Text == "" && len(e.children) == 0 {
		w.str("/>")
		return
	}
	w.str(">")
	w.escape(e.Text)
	for _, c := range e.children {
		c.write(w)
	}
	w.str("</")
	w.str(e.Tag)
	w.str(">")
}

type countWriter struct {
	w   io.Writer
	n   int64
	err error
}

func (c *countWriter) Write(p []byte) (int, error) {
	if c.err != nil {
		return 0, c.err
	}
	n, err := c.w.Write(p)
	c.n += int64(n)
	c.err = err
	return n, err
}

func (c *countWriter) str(s string) {
	_, _ = io.WriteString(c, s)
}

func (c *countWriter) escape(s string) {
	if c.err == nil && s != "" {
		c.err = xml.EscapeText(c, []byte(s))
	}
}

func (c *countWriter) attr(name, value string) {
	c.str(" ")
	c.str(name)
	c.str(`="`)
	c.escape(value)
	c.str(`"`)
}
