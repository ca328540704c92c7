// Package markdown turns markdown source into a flat, ordered token stream.
//
// # Overview
//
// Parsing is delegated to [github.com/yuin/goldmark] with its footnote
// extension enabled. The resulting AST is flattened into [Token] records
// using the markdown-it vocabulary (heading_open, inline, list_item_open,
// footnote_open, ...), so consumers can drive a simple left-to-right state
// machine instead of walking a tree.
//
// # Usage
//
//	tokens := markdown.Tokenize([]byte("## Login[^l]\n\n[^l]: fill: red;\n"))
//	for _, tok := range tokens {
//	    fmt.Println(tok)
//	}
//
// # Levels
//
// Token levels follow markdown-it nesting. A paragraph at the top of the
// document has level 0 and its inline token level 1; a paragraph inside a
// first-level bullet item has level 2 and its inline level 3.
//
// # Footnotes
//
// Footnote references become "footnote_ref" children carrying the label of
// the definition in [Meta]. Definitions are emitted at the end of the stream
// between footnote_block_open and footnote_block_close, one footnote_open /
// footnote_close pair per referenced definition. Definitions that are never
// referenced are dropped.
package markdown
