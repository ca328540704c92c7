package markdown

import (
	"fmt"
	"strings"
)

// Token types emitted by [Tokenize]. The vocabulary mirrors markdown-it so
// that downstream consumers can be written against a flat, ordered stream.
const (
	TypeHeadingOpen        = "heading_open"
	TypeHeadingClose       = "heading_close"
	TypeParagraphOpen      = "paragraph_open"
	TypeParagraphClose     = "paragraph_close"
	TypeInline             = "inline"
	TypeBulletListOpen     = "bullet_list_open"
	TypeBulletListClose    = "bullet_list_close"
	TypeOrderedListOpen    = "ordered_list_open"
	TypeOrderedListClose   = "ordered_list_close"
	TypeListItemOpen       = "list_item_open"
	TypeListItemClose      = "list_item_close"
	TypeBlockquoteOpen     = "blockquote_open"
	TypeBlockquoteClose    = "blockquote_close"
	TypeHR                 = "hr"
	TypeFence              = "fence"
	TypeCodeBlock          = "code_block"
	TypeHTMLBlock          = "html_block"
	TypeFootnoteBlockOpen  = "footnote_block_open"
	TypeFootnoteBlockClose = "footnote_block_close"
	TypeFootnoteOpen       = "footnote_open"
	TypeFootnoteClose      = "footnote_close"

	// Inline children.
	TypeText        = "text"
	TypeSoftbreak   = "softbreak"
	TypeHardbreak   = "hardbreak"
	TypeLinkOpen    = "link_open"
	TypeLinkClose   = "link_close"
	TypeEmOpen      = "em_open"
	TypeEmClose     = "em_close"
	TypeStrongOpen  = "strong_open"
	TypeStrongClose = "strong_close"
	TypeCodeInline  = "code_inline"
	TypeImage       = "image"
	TypeHTMLInline  = "html_inline"
	TypeFootnoteRef = "footnote_ref"
)

// Meta carries token metadata. Only footnote tokens set it.
type Meta struct {
	Label string `json:"label"`
}

// Token is one entry of the flat token stream.
//
// Block tokens appear at the top level; inline content is carried in the
// Children of an "inline" token. Level is the markdown-it nesting level:
// every *_open token takes the current level and increments it for its
// content, and the matching *_close token returns to it.
type Token struct {
	Type     string     `json:"type"`
	Markup   string     `json:"markup,omitempty"`
	Content  string     `json:"content,omitempty"`
	Level    int        `json:"level"`
	Children []Token    `json:"children,omitempty"`
	Meta     *Meta      `json:"meta,omitempty"`
	Attrs    [][]string `json:"attrs,omitempty"`
}

// Attr returns the value of the named attribute, or "" if absent.
func (t Token) Attr(name string) string {
	for _, a := range t.Attrs {
		if len(a) == 2 && a[0] == name {
			return a[1]
		}
	}
	return ""
}

// Label returns the footnote label carried in Meta, or "".
func (t Token) Label() string {
	if t.Meta == nil {
		return ""
	}
	return t.Meta.Label
}

// String renders the token in a compact debug form, e.g. `inline(3) "text"`.
func (t Token) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s(%d)", t.Type, t.Level)
	if t.Markup != "" {
		fmt.Fprintf(&b, " %s", t.Markup)
	}
	if t.Content != "" {
		fmt.Fprintf(&b, " %q", t.Content)
	}
	if t.Meta != nil {
		fmt.Fprintf(&b, " [^%s]", t.Meta.Label)
	}
	return b.String()
}
