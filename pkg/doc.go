// Package pkg provides the libraries behind md2ifdam, which draws IFDAM
// screen-flow diagrams from markdown.
//
// # Overview
//
// An IFDAM document is plain markdown: headings declare diagrams, screens
// and operations, links declare transitions between them and footnotes
// attach CSS-like styles. The pkg directory is organized into three areas:
//
//  1. Model - [markdown] tokens and the [diagram] graph built from them
//  2. Drawing - [fonts], [svg], [layout] and [render]
//  3. Orchestration - [pipeline], backed by [cache], [errors] and
//     [observability]
//
// # Architecture
//
// The data flow of one compile:
//
//	markdown source
//	       ↓
//	  [markdown] package (goldmark → ordered token stream)
//	       ↓
//	  [diagram] package (nodes, items, edges, styles)
//	       ↓
//	  [render] package (node and label shapes, measured with [fonts])
//	       ↓
//	  [layout] package (Graphviz positions and edge routes)
//	       ↓
//	  [render] package (translate shapes, draw edge curves)
//	       ↓
//	  SVG/PNG/PDF/JSON output
//
// # Quick Start
//
//	source, _ := os.ReadFile("login.md")
//	result, err := pipeline.Compile(ctx, source, pipeline.Options{
//	    Formats: []string{pipeline.FormatSVG},
//	})
//	if err != nil {
//	    return err
//	}
//	os.WriteFile("login.svg", result.Artifacts[pipeline.FormatSVG], 0o644)
//
// Rendering resolves fonts by the font-family, font-style and font-weight
// style properties. The library default base font is Osaka Regular 400; pass
// [render.WithBaseFont] to use another face, for example the embedded Go
// fonts:
//
//	runner := pipeline.NewRunner(nil, logger,
//	    render.WithBaseFont(fonts.Query{Family: "Go", Style: "Regular", Weight: 400}))
//
// # Testing
//
//	go test ./pkg/...                    # All tests
//	go test -short ./pkg/...             # Skip Graphviz-backed tests
//	go test -tags integration ./pkg/...  # Include redis integration tests
//
// [markdown]: https://pkg.go.dev/github.com/matzehuels/md2ifdam/pkg/markdown
// [diagram]: https://pkg.go.dev/github.com/matzehuels/md2ifdam/pkg/diagram
// [fonts]: https://pkg.go.dev/github.com/matzehuels/md2ifdam/pkg/fonts
// [svg]: https://pkg.go.dev/github.com/matzehuels/md2ifdam/pkg/svg
// [layout]: https://pkg.go.dev/github.com/matzehuels/md2ifdam/pkg/layout
// [render]: https://pkg.go.dev/github.com/matzehuels/md2ifdam/pkg/render
// [render.WithBaseFont]: https://pkg.go.dev/github.com/matzehuels/md2ifdam/pkg/render#WithBaseFont
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/md2ifdam/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/md2ifdam/pkg/cache
// [errors]: https://pkg.go.dev/github.com/matzehuels/md2ifdam/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/md2ifdam/pkg/observability
package pkg
