// Package pipeline provides the markdown to diagram pipeline for md2ifdam.
//
// This package implements the complete parse → render → encode pipeline
// used by the CLI and the render service. By centralizing this logic, both
// entry points produce byte-identical output for the same source.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Parse: Tokenize the markdown and build the diagram graph
//  2. Render: Build the shapes, lay the graph out and draw the edges into
//     a fresh SVG document sized to the layout
//  3. Encode: Serialize the document (SVG, PNG, PDF) or the graph (JSON)
//
// # Usage
//
// Compile a source with the default Graphviz layout and embedded fonts:
//
//	result, err := pipeline.Compile(ctx, source, pipeline.Options{Formats: []string{"svg"}})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Create a Runner to share fonts and a cache between compilations:
//
//	runner := pipeline.NewRunner(cache, logger, render.WithFonts(loader))
//	result, err := runner.Execute(ctx, source, opts)
package pipeline

import (
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/md2ifdam/pkg/diagram"
	"github.com/matzehuels/md2ifdam/pkg/errors"
	"github.com/matzehuels/md2ifdam/pkg/svg"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Service
// =============================================================================

const (
	// DefaultSelector is the container the diagram is drawn into.
	DefaultSelector = "svg"

	// DefaultScale is the PNG scale factor.
	DefaultScale = 2.0

	// DefaultBackground is the canvas background color.
	DefaultBackground = "white"
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
)

// ValidFormats lists the supported output formats in display order.
var ValidFormats = []string{FormatSVG, FormatPNG, FormatPDF, FormatJSON}

// ContentTypes maps formats to their MIME type.
var ContentTypes = map[string]string{
	FormatSVG:  "image/svg+xml",
	FormatPNG:  "image/png",
	FormatPDF:  "application/pdf",
	FormatJSON: "application/json",
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one compilation.
// This struct supports JSON serialization for service requests.
type Options struct {
	// Name identifies the source in logs and hooks (e.g. a file name).
	Name string `json:"name,omitempty"`

	// Layout holds margins and separations. The zero value selects
	// [diagram.DefaultConfig].
	Layout diagram.Config `json:"layout"`

	// Formats lists the artifacts to produce.
	Formats []string `json:"formats,omitempty"`

	// Scale is the PNG scale factor.
	Scale float64 `json:"scale,omitempty"`

	// Refresh bypasses the artifact cache.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Selector string      `json:"-"`
	Logger   *log.Logger `json:"-"`

	// Progress, if set, is called as each stage of an uncached run begins.
	Progress func(Stage) `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Graph is the parsed and laid out graph. It is nil when every
	// artifact came from the cache.
	Graph *diagram.Graph

	// Document is the rendered SVG document, nil on a cache hit.
	Document *svg.Document

	// SourceHash is the content hash of the markdown source.
	SourceHash string

	// Artifacts contains encoded outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheHit reports whether all artifacts came from the cache.
	CacheHit bool

	// CacheStatus is CacheStatusHit, CacheStatusMiss, or CacheStatusOff
	// when the runner has no artifact cache.
	CacheStatus string
}

// Stage is a step of [Runner.Execute], named as it is shown to users.
type Stage string

const (
	StageParse  Stage = "parsing markdown"
	StageDraw   Stage = "laying out diagram"
	StageEncode Stage = "encoding"
)

func (o *Options) report(stage Stage) {
	if o.Progress != nil {
		o.Progress(stage)
	}
}

// Artifact cache outcomes reported in [Result.CacheStatus].
const (
	CacheStatusHit  = "hit"
	CacheStatusMiss = "miss"
	CacheStatusOff  = "off"
)

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount  int
	EdgeCount  int
	Width      float64
	Height     float64
	ParseTime  time.Duration
	RenderTime time.Duration
	EncodeTime time.Duration
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !slices.Contains(ValidFormats, format) {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, png, pdf, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks all fields and applies defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	o.SetDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if err := o.Layout.Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "layout")
	}
	if o.Scale < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "scale must not be negative (got %v)", o.Scale)
	}
	o.validated = true
	return nil
}

// SetDefaults fills unset fields.
func (o *Options) SetDefaults() {
	if o.Layout == (diagram.Config{}) {
		o.Layout = diagram.DefaultConfig()
	}
	if o.Layout.RankDir == "" {
		o.Layout.RankDir = diagram.DefaultConfig().RankDir
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Scale == 0 {
		o.Scale = DefaultScale
	}
	if o.Selector == "" {
		o.Selector = DefaultSelector
	}
	if o.Name == "" {
		o.Name = "<stdin>"
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}
