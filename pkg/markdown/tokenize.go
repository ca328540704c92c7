package markdown

import (
	"strings"

	"github.com/yuin/goldmark"
	gast "github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

// engine is safe for concurrent use; parser state lives in a per-call context.
var engine = goldmark.New(goldmark.WithExtensions(extension.Footnote))

// Tokenize parses source and returns its flat token stream.
// It never fails: malformed markdown degrades to paragraphs and text.
func Tokenize(source []byte) []Token {
	doc := engine.Parser().Parse(text.NewReader(source))
	t := &tokenizer{
		source: source,
		labels: footnoteLabels(doc),
	}
	t.blocks(doc, 0)
	return t.tokens
}

// footnoteLabels maps footnote indexes (as carried by FootnoteLink) back to
// the label written in the source.
func footnoteLabels(doc gast.Node) map[int]string {
	labels := make(map[int]string)
	_ = gast.Walk(doc, func(n gast.Node, entering bool) (gast.WalkStatus, error) {
		if fn, ok := n.(*extast.Footnote); ok && entering {
			labels[fn.Index] = decode(fn.Ref)
		}
		return gast.WalkContinue, nil
	})
	return labels
}

type tokenizer struct {
	source []byte
	labels map[int]string
	tokens []Token
}

func (t *tokenizer) emit(tok Token) {
	t.tokens = append(t.tokens, tok)
}

func (t *tokenizer) blocks(parent gast.Node, level int) {
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		t.block(n, level)
	}
}

// container emits an open/close pair around the children of n.
func (t *tokenizer) container(n gast.Node, open, close, markup string, meta *Meta, level int) {
	t.emit(Token{Type: open, Markup: markup, Level: level, Meta: meta})
	t.blocks(n, level+1)
	t.emit(Token{Type: close, Markup: markup, Level: level, Meta: meta})
}

func (t *tokenizer) block(n gast.Node, level int) {
	switch n := n.(type) {
	case *gast.Heading:
		markup := strings.Repeat("#", n.Level)
		t.emit(Token{Type: TypeHeadingOpen, Markup: markup, Level: level})
		t.inline(n, level+1)
		t.emit(Token{Type: TypeHeadingClose, Markup: markup, Level: level})

	case *gast.Paragraph, *gast.TextBlock:
		t.emit(Token{Type: TypeParagraphOpen, Level: level})
		t.inline(n, level+1)
		t.emit(Token{Type: TypeParagraphClose, Level: level})

	case *gast.List:
		if n.IsOrdered() {
			t.container(n, TypeOrderedListOpen, TypeOrderedListClose, string(n.Marker), nil, level)
		} else {
			t.container(n, TypeBulletListOpen, TypeBulletListClose, string(n.Marker), nil, level)
		}

	case *gast.ListItem:
		t.container(n, TypeListItemOpen, TypeListItemClose, "", nil, level)

	case *gast.Blockquote:
		t.container(n, TypeBlockquoteOpen, TypeBlockquoteClose, ">", nil, level)

	case *gast.ThematicBreak:
		t.emit(Token{Type: TypeHR, Markup: "---", Level: level})

	case *gast.FencedCodeBlock:
		tok := Token{Type: TypeFence, Markup: "```", Content: t.lines(n.Lines()), Level: level}
		if lang := n.Language(t.source); len(lang) > 0 {
			tok.Attrs = [][]string{{"lang", string(lang)}}
		}
		t.emit(tok)

	case *gast.CodeBlock:
		t.emit(Token{Type: TypeCodeBlock, Content: t.lines(n.Lines()), Level: level})

	case *gast.HTMLBlock:
		content := t.lines(n.Lines())
		if n.HasClosure() {
			content += string(n.ClosureLine.Value(t.source))
		}
		t.emit(Token{Type: TypeHTMLBlock, Content: content, Level: level})

	case *extast.FootnoteList:
		t.container(n, TypeFootnoteBlockOpen, TypeFootnoteBlockClose, "", nil, level)

	case *extast.Footnote:
		t.container(n, TypeFootnoteOpen, TypeFootnoteClose, "", &Meta{Label: decode(n.Ref)}, level)

	default:
		t.blocks(n, level)
	}
}

func (t *tokenizer) lines(lines *text.Segments) string {
	var b strings.Builder
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(t.source))
	}
	return b.String()
}

// inline emits the inline token for a leaf block.
func (t *tokenizer) inline(block gast.Node, level int) {
	w := &inlineWriter{source: t.source, labels: t.labels}
	w.walk(block)
	w.flush()
	t.emit(Token{
		Type:     TypeInline,
		Content:  strings.TrimSpace(t.lines(block.Lines())),
		Level:    level,
		Children: w.children,
	})
}

// inlineWriter flattens inline AST nodes into child tokens, joining adjacent
// text fragments the way markdown-it's text_join rule does. Source text is
// held in raw until the next literal or token so that escapes split across
// text nodes still decode.
type inlineWriter struct {
	source   []byte
	labels   map[int]string
	children []Token
	raw      []byte
	text     strings.Builder
}

// literal appends already decoded text.
func (w *inlineWriter) literal(s []byte) {
	w.decodeRaw()
	w.text.Write(s)
}

func (w *inlineWriter) decodeRaw() {
	if len(w.raw) == 0 {
		return
	}
	w.text.WriteString(decode(w.raw))
	w.raw = w.raw[:0]
}

func (w *inlineWriter) flush() {
	w.decodeRaw()
	if w.text.Len() == 0 {
		return
	}
	w.children = append(w.children, Token{Type: TypeText, Content: w.text.String()})
	w.text.Reset()
}

func (w *inlineWriter) push(tok Token) {
	w.flush()
	w.children = append(w.children, tok)
}

func (w *inlineWriter) walk(parent gast.Node) {
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		switch n := n.(type) {
		case *gast.Text:
			w.raw = append(w.raw, n.Segment.Value(w.source)...)
			switch {
			case n.HardLineBreak():
				w.push(Token{Type: TypeHardbreak})
			case n.SoftLineBreak():
				w.push(Token{Type: TypeSoftbreak})
			}

		case *gast.String:
			w.literal(n.Value)

		case *gast.Emphasis:
			open, close, markup := TypeEmOpen, TypeEmClose, "*"
			if n.Level >= 2 {
				open, close, markup = TypeStrongOpen, TypeStrongClose, "**"
			}
			w.push(Token{Type: open, Markup: markup})
			w.walk(n)
			w.push(Token{Type: close, Markup: markup})

		case *gast.Link:
			w.push(Token{Type: TypeLinkOpen, Attrs: [][]string{{"href", decode(n.Destination)}}})
			w.walk(n)
			w.push(Token{Type: TypeLinkClose})

		case *gast.AutoLink:
			w.push(Token{Type: TypeLinkOpen, Markup: "autolink", Attrs: [][]string{{"href", string(n.URL(w.source))}}})
			w.literal(n.Label(w.source))
			w.push(Token{Type: TypeLinkClose, Markup: "autolink"})

		case *gast.Image:
			w.push(Token{
				Type:    TypeImage,
				Content: decode([]byte(plainText(n, w.source))),
				Attrs:   [][]string{{"src", decode(n.Destination)}},
			})

		case *gast.CodeSpan:
			w.push(Token{Type: TypeCodeInline, Markup: "`", Content: plainText(n, w.source)})

		case *gast.RawHTML:
			var b strings.Builder
			for i := 0; i < n.Segments.Len(); i++ {
				seg := n.Segments.At(i)
				b.Write(seg.Value(w.source))
			}
			w.push(Token{Type: TypeHTMLInline, Content: b.String()})

		case *extast.FootnoteLink:
			w.push(Token{Type: TypeFootnoteRef, Meta: &Meta{Label: w.labels[n.Index]}})

		case *extast.FootnoteBacklink:
			// markdown-it places the backlink outside the inline content

		default:
			w.walk(n)
		}
	}
}

// plainText concatenates the literal text below n.
func plainText(n gast.Node, source []byte) string {
	var b strings.Builder
	_ = gast.Walk(n, func(c gast.Node, entering bool) (gast.WalkStatus, error) {
		if !entering {
			return gast.WalkContinue, nil
		}
		switch c := c.(type) {
		case *gast.Text:
			b.Write(c.Segment.Value(source))
		case *gast.String:
			b.Write(c.Value)
		}
		return gast.WalkContinue, nil
	})
	return b.String()
}
