package layout

import (
	"context"

	"github.com/matzehuels/md2ifdam/pkg/diagram"
)

// Layouter positions the nodes and edges of a graph in place.
//
// Implementations read Node.Width/Height and, for labelled edges,
// Edge.Width/Height. They set Node.X/Y and Edge.X/Y to centers, fill
// Edge.Points and set Graph.Width/Height to the canvas size including the
// configured margins.
type Layouter interface {
	Layout(ctx context.Context, g *diagram.Graph) error
}

// Func adapts a function to the Layouter interface.
type Func func(ctx context.Context, g *diagram.Graph) error

// Layout calls f.
func (f Func) Layout(ctx context.Context, g *diagram.Graph) error { return f(ctx, g) }

// Name returns the engine name of l for logs and hooks: the result of a
// Name method when l has one, else "custom".
func Name(l Layouter) string {
	if n, ok := l.(interface{ Name() string }); ok {
		return n.Name()
	}
	return "custom"
}
