package diagram

import (
	"reflect"
	"testing"

	"github.com/matzehuels/md2ifdam/pkg/markdown"
)

func tok(typ string, level int) markdown.Token {
	return markdown.Token{Type: typ, Level: level}
}

func headingTokens(markup string, children ...markdown.Token) []markdown.Token {
	return []markdown.Token{
		{Type: markdown.TypeHeadingOpen, Markup: markup},
		inline(1, children...),
		{Type: markdown.TypeHeadingClose, Markup: markup},
	}
}

func TestParseTokens_Node(t *testing.T) {
	g := New(DefaultConfig())
	ParseTokens(g, headingTokens("##", text("SCREEN1"), footnoteRef("sc1")))

	n, ok := g.Node("SCREEN1")
	if !ok {
		t.Fatal("node SCREEN1 not created")
	}
	if n.Kind != KindScreen || n.Ref != "sc1" {
		t.Errorf("Kind=%s Ref=%q, want screen/sc1", n.Kind, n.Ref)
	}
}

func TestParseTokens_HR(t *testing.T) {
	g := New(DefaultConfig())
	tokens := append(headingTokens("##", text("SCREEN1")), tok(markdown.TypeHR, 0))
	ParseTokens(g, tokens)

	n, _ := g.Node("SCREEN1")
	want := NodeItem{Type: ItemHR, Depth: 0, Text: ""}
	if len(n.Items) != 2 || n.Items[1] != want {
		t.Errorf("Items = %+v, want hr at index 1", n.Items)
	}
}

func TestParseTokens_Brace(t *testing.T) {
	g := New(DefaultConfig())
	tokens := append(headingTokens("##", text("SCREEN1")),
		tok(markdown.TypeBulletListOpen, 0),
		tok(markdown.TypeListItemOpen, 1),
		tok(markdown.TypeParagraphOpen, 2),
		inline(3, text("@ brace")),
		tok(markdown.TypeParagraphClose, 2),
		tok(markdown.TypeBulletListOpen, 2),
		tok(markdown.TypeListItemOpen, 3),
		tok(markdown.TypeParagraphOpen, 4),
		inline(5, text("item")),
		tok(markdown.TypeParagraphClose, 4),
		tok(markdown.TypeListItemClose, 3),
		tok(markdown.TypeBulletListClose, 2),
		tok(markdown.TypeListItemClose, 1),
		tok(markdown.TypeBulletListClose, 0),
	)
	ParseTokens(g, tokens)

	n, _ := g.Node("SCREEN1")
	want := []NodeItem{
		{Type: ItemText, Depth: 0, Text: "SCREEN1"},
		{Type: ItemText, Depth: 1, Text: "@ brace {"},
		{Type: ItemText, Depth: 2, Text: "item"},
		{Type: ItemText, Depth: 0, Text: "}", Close: true},
	}
	if !reflect.DeepEqual(n.Items, want) {
		t.Errorf("Items = %+v, want %+v", n.Items, want)
	}
}

func TestParseTokens_BraceFlagOverwritten(t *testing.T) {
	g := New(DefaultConfig())
	tokens := append(headingTokens("##", text("S")),
		tok(markdown.TypeListItemOpen, 1),
		inline(3, text("@ first")),
		inline(3, text("plain")),
		tok(markdown.TypeListItemClose, 1),
	)
	ParseTokens(g, tokens)

	n, _ := g.Node("S")
	for _, item := range n.Items {
		if item.Close {
			t.Errorf("a later plain inline should clear the brace flag, got %+v", n.Items)
		}
	}
}

func TestParseTokens_Footnote(t *testing.T) {
	g := New(DefaultConfig())
	tokens := append(headingTokens("##", text("SCREEN1"), footnoteRef("sc1")),
		tok(markdown.TypeFootnoteBlockOpen, 0),
		markdown.Token{Type: markdown.TypeFootnoteOpen, Meta: &markdown.Meta{Label: "sc1"}},
		tok(markdown.TypeParagraphOpen, 1),
		inline(2, text("fill: red;")),
		tok(markdown.TypeParagraphClose, 1),
		tok(markdown.TypeFootnoteClose, 0),
		tok(markdown.TypeFootnoteBlockClose, 0),
	)
	ParseTokens(g, tokens)

	n, _ := g.Node("SCREEN1")
	if !reflect.DeepEqual(n.Style, StyleMap{"fill": "red"}) {
		t.Errorf("Style = %v, want fill red", n.Style)
	}
	if len(n.Items) != 1 {
		t.Errorf("footnote body must not add items, got %+v", n.Items)
	}
}

func TestParseTokens_DeepHeadingOrphansContent(t *testing.T) {
	g := New(DefaultConfig())
	var tokens []markdown.Token
	tokens = append(tokens, headingTokens("##", text("A"))...)
	tokens = append(tokens, headingTokens("####", text("Deep"))...)
	tokens = append(tokens, inline(1, text("dropped")))
	tokens = append(tokens, headingTokens("###", text("B"))...)
	tokens = append(tokens, inline(1, text("kept")))
	ParseTokens(g, tokens)

	if got := g.NodeIDs(); !reflect.DeepEqual(got, []string{"A", "B"}) {
		t.Fatalf("NodeIDs = %v, want [A B]", got)
	}
	a, _ := g.Node("A")
	if len(a.Items) != 1 {
		t.Errorf("A.Items = %+v, want only the heading item", a.Items)
	}
	b, _ := g.Node("B")
	if len(b.Items) != 2 || b.Items[1].Text != "kept" {
		t.Errorf("B.Items = %+v", b.Items)
	}
}

func TestParseTokens_ContentBeforeHeadingDropped(t *testing.T) {
	g := New(DefaultConfig())
	ParseTokens(g, []markdown.Token{inline(1, text("intro"), linkOpen("X")), tok(markdown.TypeHR, 0)})
	if g.NodeCount() != 0 || g.EdgeCount() != 0 {
		t.Errorf("got %d nodes, %d edges; want none", g.NodeCount(), g.EdgeCount())
	}
}

const endToEnd = `# App

## Login[^lg]

[Go home](Home)

## Home

[Back](Login)

[^lg]: fill: red; stroke: blue;
`

func TestParseMarkdown_EndToEnd(t *testing.T) {
	g := ParseMarkdown([]byte(endToEnd), DefaultConfig())

	if g.NodeCount() != 3 {
		t.Errorf("NodeCount = %d, want 3 (%v)", g.NodeCount(), g.NodeIDs())
	}
	if g.EdgeCount() != 2 {
		t.Errorf("EdgeCount = %d, want 2", g.EdgeCount())
	}

	login, ok := g.Node("Login")
	if !ok {
		t.Fatal("no Login node")
	}
	want := StyleMap{"fill": "red", "stroke": "blue"}
	if !reflect.DeepEqual(login.Style, want) {
		t.Errorf("Login style = %v, want %v", login.Style, want)
	}

	home, _ := g.Node("Home")
	if home.Placeholder() || home.Kind != KindScreen {
		t.Errorf("Home kind = %s, want screen", home.Kind)
	}
	if _, ok := g.Edge(EdgeKey("Login", "Home", "Go home")); !ok {
		t.Error("missing edge Login -> Home")
	}
	if _, ok := g.Edge(EdgeKey("Home", "Login", "Back")); !ok {
		t.Error("missing edge Home -> Login")
	}
	if got, want := g.SortedKinds(), []NodeKind{KindDiagram, KindScreen}; !reflect.DeepEqual(got, want) {
		t.Errorf("SortedKinds = %v, want %v", got, want)
	}
}

func TestParseMarkdown_BraceBlock(t *testing.T) {
	src := "## Form\n\n- @ fields\n  - name\n  - mail\n"
	g := ParseMarkdown([]byte(src), DefaultConfig())
	n, _ := g.Node("Form")

	var texts []string
	for _, item := range n.Items {
		texts = append(texts, item.Text)
	}
	want := []string{"Form", "@ fields {", "name", "mail", "}"}
	if !reflect.DeepEqual(texts, want) {
		t.Errorf("texts = %q, want %q", texts, want)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"default", DefaultConfig(), false},
		{"negative margin", Config{MarginX: -1}, true},
		{"negative sep", Config{RankSep: -5}, true},
		{"bad rankdir", Config{RankDir: "XY"}, true},
		{"empty rankdir", Config{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseMarkdown_DecodesEscapesAndEntities(t *testing.T) {
	src := "## R&amp;D \\*beta\\*\n\nfish &lt;3 chips\n\n[go](snake_case)\n\n## snake\\_case\n"
	g := ParseMarkdown([]byte(src), DefaultConfig())

	rd, ok := g.Node("R&D *beta*")
	if !ok {
		t.Fatalf("NodeIDs = %q, want decoded heading id", g.NodeIDs())
	}
	if len(rd.Items) < 2 || rd.Items[1].Text != "fish <3 chips" {
		t.Errorf("Items = %+v, want decoded body text", rd.Items)
	}

	target, ok := g.Node("snake_case")
	if !ok {
		t.Fatalf("NodeIDs = %q, want snake_case", g.NodeIDs())
	}
	if target.Placeholder() {
		t.Error("heading snake\\_case should upgrade the link placeholder")
	}
	if g.NodeCount() != 2 || g.EdgeCount() != 1 {
		t.Errorf("nodes=%d edges=%d, want 2 and 1", g.NodeCount(), g.EdgeCount())
	}
}

func TestParseMarkdown_BlockquoteDepth(t *testing.T) {
	g := ParseMarkdown([]byte("## Note\n\n> quoted\n\n- item\n"), DefaultConfig())
	n, ok := g.Node("Note")
	if !ok {
		t.Fatal("no Note node")
	}
	want := []NodeItem{
		{Type: ItemText, Depth: 0, Text: "Note"},
		{Type: ItemText, Depth: 0, Text: "quoted"},
		{Type: ItemText, Depth: 1, Text: "item"},
	}
	if !reflect.DeepEqual(n.Items, want) {
		t.Errorf("Items = %+v, want %+v", n.Items, want)
	}
}
