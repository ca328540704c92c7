package layout

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/md2ifdam/pkg/diagram"
	"github.com/matzehuels/md2ifdam/pkg/errors"
)

// formatPlain is the Graphviz text output listing node and edge geometry.
const formatPlain graphviz.Format = "plain"

// Graphviz lays graphs out with the Graphviz "dot" engine.
type Graphviz struct {
	logger *log.Logger
}

// NewGraphviz creates a Graphviz layouter. A nil logger uses log.Default().
func NewGraphviz(logger *log.Logger) *Graphviz {
	if logger == nil {
		logger = log.Default()
	}
	return &Graphviz{logger: logger}
}

// Name returns "graphviz".
func (l *Graphviz) Name() string { return "graphviz" }

// Layout implements [Layouter]. Failures are reported as LAYOUT_FAILED.
func (l *Graphviz) Layout(ctx context.Context, g *diagram.Graph) error {
	if g.NodeCount() == 0 {
		g.Width = 2 * g.Config.MarginX
		g.Height = 2 * g.Config.MarginY
		return nil
	}

	start := time.Now()
	dot, nm, err := toDOT(g)
	if err != nil {
		return errors.Wrap(errors.ErrCodeLayout, err, "build DOT")
	}

	l.logger.Debug("running dot", "nodes", g.NodeIDs())
	plain, err := RenderPlain(ctx, dot)
	if err != nil {
		return errors.Wrap(errors.ErrCodeLayout, err, "graphviz")
	}
	p, err := ParsePlain(bytes.NewReader(plain))
	if err != nil {
		return errors.Wrap(errors.ErrCodeLayout, err, "parse layout")
	}
	if err := apply(g, nm, p); err != nil {
		return errors.Wrap(errors.ErrCodeLayout, err, "apply layout")
	}

	l.logger.Debug("layout done",
		"nodes", g.NodeCount(), "edges", g.EdgeCount(),
		"width", g.Width, "height", g.Height, "took", time.Since(start))
	return nil
}

// RenderPlain lays out a DOT graph and returns the Graphviz "plain" output.
func RenderPlain(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	graph, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer graph.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, graph, formatPlain, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
