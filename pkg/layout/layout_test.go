package layout

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/md2ifdam/pkg/diagram"
	"github.com/matzehuels/md2ifdam/pkg/errors"
)

func sized(cfg diagram.Config) *diagram.Graph {
	g := diagram.New(cfg)
	g.SetNode(&diagram.Node{ID: "Login", Kind: diagram.KindScreen, Width: 144, Height: 72})
	g.SetNode(&diagram.Node{ID: "Home", Kind: diagram.KindScreen, Width: 72, Height: 36})
	e := g.SetEdge("Login", "Home", "Submit", "")
	e.Width, e.Height = 36, 18
	g.SetEdge("Login", "Home", "", "")
	return g
}

func TestToDOT(t *testing.T) {
	dot, err := ToDOT(sized(diagram.DefaultConfig()))
	if err != nil {
		t.Fatalf("ToDOT: %v", err)
	}
	for _, want := range []string{
		"rankdir=TB;",
		"nodesep=0.6944;",
		"ranksep=0.3472;",
		"n0 [width=2.0000, height=1.0000];",
		"n1 [width=1.0000, height=0.5000];",
		"l0 [width=0.5000, height=0.2500];",
		"n0 -> l0;\n  l0 -> n1;",
		"  n0 -> n1;\n",
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %q:\n%s", want, dot)
		}
	}
	if strings.Contains(dot, "Login") {
		t.Error("DOT should not contain node IDs")
	}
}

func TestToDOT_NoLabelsKeepsRankSep(t *testing.T) {
	g := diagram.New(diagram.DefaultConfig())
	g.SetEdge("a", "b", "", "")
	dot, err := ToDOT(g)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(dot, "ranksep=0.6944;") {
		t.Errorf("ranksep should not be halved:\n%s", dot)
	}
}

const samplePlain = `graph 1 3 2.5
node n0 1.5 2 2 1 "" solid box black lightgrey
node n1 1.5 0.5 1 0.5 "a label" solid box black lightgrey
node l0 1 1.25 0.5 0.25 "" solid box black lightgrey
edge n0 l0 4 1.2 1.5 1.1 1.45 1.05 1.4 1 1.375 solid black
edge l0 n1 4 1 1.125 1 1 1.5 0.9 1.5 0.75 solid black
edge n0 n1 4 2 1.5 2 1.2 1.8 1 1.6 0.75 solid black
stop
`

func TestParsePlain(t *testing.T) {
	p, err := ParsePlain(strings.NewReader(samplePlain))
	if err != nil {
		t.Fatalf("ParsePlain: %v", err)
	}
	if p.Width != 3 || p.Height != 2.5 {
		t.Errorf("size = %vx%v, want 3x2.5", p.Width, p.Height)
	}
	if len(p.Nodes) != 3 {
		t.Fatalf("nodes = %d, want 3", len(p.Nodes))
	}
	if got := p.Nodes["n1"]; got != (PlainNode{X: 1.5, Y: 0.5, Width: 1, Height: 0.5}) {
		t.Errorf("n1 = %+v", got)
	}
	if len(p.Edges) != 3 {
		t.Fatalf("edges = %d, want 3", len(p.Edges))
	}
	if e := p.Edges[1]; e.Tail != "l0" || e.Head != "n1" || len(e.Points) != 4 {
		t.Errorf("edge = %+v", e)
	}
}

func TestParsePlain_Errors(t *testing.T) {
	tests := []struct {
		name, input string
	}{
		{"short graph", "graph 1 2\n"},
		{"bad number", "node n0 x 1 1 1\n"},
		{"short node", "node n0 1\n"},
		{"missing points", "edge a b 3 1 1\n"},
		{"unterminated quote", `node n0 1 1 1 1 "abc` + "\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParsePlain(strings.NewReader(tt.input)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestFields(t *testing.T) {
	got, err := fields(`node n0 1 "two words" "esc\"aped" ""`)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"node", "n0", "1", "two words", `esc"aped`, ""}
	if len(got) != len(want) {
		t.Fatalf("fields = %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("field %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestApply(t *testing.T) {
	g := sized(diagram.Config{MarginX: 10, MarginY: 20, RankDir: "TB"})
	_, nm, err := toDOT(g)
	if err != nil {
		t.Fatal(err)
	}
	p, err := ParsePlain(strings.NewReader(samplePlain))
	if err != nil {
		t.Fatal(err)
	}
	if err := apply(g, nm, p); err != nil {
		t.Fatalf("apply: %v", err)
	}

	if g.Width != 3*72+20 || g.Height != 2.5*72+40 {
		t.Errorf("canvas = %vx%v", g.Width, g.Height)
	}
	login, _ := g.Node("Login")
	if login.X != 1.5*72+10 || login.Y != 0.5*72+20 {
		t.Errorf("Login center = (%v, %v)", login.X, login.Y)
	}

	labelled := g.Edges()[0]
	if labelled.X != 72+10 || labelled.Y != 1.25*72+20 {
		t.Errorf("label center = (%v, %v)", labelled.X, labelled.Y)
	}
	if len(labelled.Points) != 9 {
		t.Fatalf("labelled points = %d, want 4+1+4", len(labelled.Points))
	}
	if labelled.Points[4] != (diagram.Point{X: labelled.X, Y: labelled.Y}) {
		t.Errorf("middle point = %+v, want label center", labelled.Points[4])
	}

	plain := g.Edges()[1]
	if len(plain.Points) != 4 {
		t.Errorf("plain points = %d, want 4", len(plain.Points))
	}
	if plain.Points[0] != (diagram.Point{X: 2*72 + 10, Y: 1*72 + 20}) {
		t.Errorf("first point = %+v", plain.Points[0])
	}
}

func TestApply_MissingEdge(t *testing.T) {
	g := sized(diagram.DefaultConfig())
	_, nm, _ := toDOT(g)
	p, _ := ParsePlain(strings.NewReader(samplePlain))
	p.Edges = p.Edges[:2]
	if err := apply(g, nm, p); err == nil {
		t.Error("expected error for an unrouted edge")
	}
}

func TestGraphviz_Layout(t *testing.T) {
	if testing.Short() {
		t.Skip("graphviz layout in short mode")
	}
	g := sized(diagram.DefaultConfig())
	g.SetEdge("Login", "Login", "", "")

	if err := NewGraphviz(nil).Layout(context.Background(), g); err != nil {
		t.Fatalf("Layout: %v", err)
	}

	login, _ := g.Node("Login")
	home, _ := g.Node("Home")
	if login.Y >= home.Y {
		t.Errorf("Login (y=%v) should rank above Home (y=%v)", login.Y, home.Y)
	}
	for _, n := range g.Nodes() {
		if n.X-n.Width/2 < g.Config.MarginX-0.5 || n.X+n.Width/2 > g.Width-g.Config.MarginX+0.5 {
			t.Errorf("node %s outside canvas: x=%v w=%v canvas=%v", n.ID, n.X, n.Width, g.Width)
		}
	}
	for _, e := range g.Edges() {
		if len(e.Points) < 2 {
			t.Errorf("edge %s has %d points", e.Key, len(e.Points))
		}
	}
	if g.Width <= 2*g.Config.MarginX || g.Height <= 2*g.Config.MarginY {
		t.Errorf("canvas %vx%v too small", g.Width, g.Height)
	}
}

func TestGraphviz_Empty(t *testing.T) {
	g := diagram.New(diagram.DefaultConfig())
	if err := NewGraphviz(nil).Layout(context.Background(), g); err != nil {
		t.Fatal(err)
	}
	if g.Width != 60 || g.Height != 60 {
		t.Errorf("canvas = %vx%v, want 60x60", g.Width, g.Height)
	}
}

func TestFunc(t *testing.T) {
	called := false
	var l Layouter = Func(func(context.Context, *diagram.Graph) error {
		called = true
		return errors.New(errors.ErrCodeLayout, "boom")
	})
	err := l.Layout(context.Background(), diagram.New(diagram.DefaultConfig()))
	if !called || !errors.Is(err, errors.ErrCodeLayout) {
		t.Errorf("Func.Layout: called=%v err=%v", called, err)
	}
}

func TestName(t *testing.T) {
	if got := Name(NewGraphviz(nil)); got != "graphviz" {
		t.Errorf("Name(Graphviz) = %q", got)
	}
	if got := Name(Func(nil)); got != "custom" {
		t.Errorf("Name(Func) = %q", got)
	}
}
