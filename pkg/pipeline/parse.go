package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/md2ifdam/pkg/diagram"
	"github.com/matzehuels/md2ifdam/pkg/errors"
	"github.com/matzehuels/md2ifdam/pkg/observability"
)

// Parse builds the diagram graph of a markdown source.
func Parse(ctx context.Context, source []byte, opts Options) (*diagram.Graph, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "parse %s", opts.Name)
	}

	hooks := observability.Pipeline()
	hooks.OnParseStart(ctx, opts.Name)
	start := time.Now()

	g := diagram.ParseMarkdown(source, opts.Layout)

	hooks.OnParseComplete(ctx, opts.Name, g.NodeCount(), time.Since(start), nil)
	opts.Logger.Debug("parsed markdown",
		"source", opts.Name,
		"nodes", g.NodeCount(),
		"edges", g.EdgeCount(),
		"kinds", g.SortedKinds())
	return g, nil
}
