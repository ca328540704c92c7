package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/md2ifdam/pkg/diagram"
	"github.com/matzehuels/md2ifdam/pkg/observability"
	"github.com/matzehuels/md2ifdam/pkg/render"
	"github.com/matzehuels/md2ifdam/pkg/svg"
)

// Draw renders g into a new SVG document with the session s and sizes the
// canvas to the layout.
func Draw(ctx context.Context, s *render.Session, g *diagram.Graph, opts Options) (*svg.Document, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	doc := svg.NewDocument()
	if err := s.Render(ctx, doc, opts.Selector, g); err != nil {
		return nil, err
	}
	doc.Root.
		AttrFloat("width", g.Width).
		AttrFloat("height", g.Height).
		Style("background", DefaultBackground)
	return doc, nil
}

// Encode serializes the document and graph in every requested format.
func Encode(ctx context.Context, doc *svg.Document, g *diagram.Graph, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, opts.Formats)
	start := time.Now()
	artifacts, err := encode(ctx, doc, g, opts)
	hooks.OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	return artifacts, err
}

func encode(ctx context.Context, doc *svg.Document, g *diagram.Graph, opts Options) (map[string][]byte, error) {
	var buf bytes.Buffer
	if _, err := doc.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("write svg: %w", err)
	}
	svgData := buf.Bytes()

	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		var (
			data []byte
			err  error
		)
		switch format {
		case FormatSVG:
			data = svgData
		case FormatPNG:
			data, err = render.ToPNG(ctx, svgData, opts.Scale)
		case FormatPDF:
			data, err = render.ToPDF(ctx, svgData)
		case FormatJSON:
			var out bytes.Buffer
			err = diagram.WriteJSON(g, &out)
			data = out.Bytes()
		default:
			err = ValidateFormat(format)
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", format, err)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}
