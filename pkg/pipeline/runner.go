package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/md2ifdam/pkg/cache"
	"github.com/matzehuels/md2ifdam/pkg/observability"
	"github.com/matzehuels/md2ifdam/pkg/render"
)

// DefaultArtifactTTL is how long encoded artifacts stay cached.
const DefaultArtifactTTL = time.Hour

// artifactKeyType prefixes artifact cache keys and labels cache hook events.
const artifactKeyType = "artifact"

// Runner encapsulates pipeline execution with caching.
// Both CLI and service use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the render session, cache and logger -
// it doesn't store pipeline results. Multiple goroutines can safely use the
// same Runner with different options.
type Runner struct {
	Session *render.Session
	Cache   cache.Cache
	TTL     time.Duration
	Logger  *log.Logger
}

// NewRunner creates a runner with the given cache and render options.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, logger *log.Logger, opts ...render.Option) *Runner {
	if c == nil {
		c = cache.NewNullCache("no artifact cache")
	}
	if logger == nil {
		logger = log.Default()
	}
	opts = append([]render.Option{render.WithLogger(logger)}, opts...)
	return &Runner{
		Session: render.NewSession(opts...),
		Cache:   c,
		TTL:     DefaultArtifactTTL,
		Logger:  logger,
	}
}

// Compile runs the pipeline once with a fresh runner and no cache.
func Compile(ctx context.Context, source []byte, opts Options) (*Result, error) {
	return NewRunner(nil, opts.Logger).Execute(ctx, source, opts)
}

// Execute runs the complete parse → render → encode pipeline with caching.
func (r *Runner) Execute(ctx context.Context, source []byte, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{SourceHash: cache.Hash(source), CacheStatus: CacheStatusMiss}

	reason, off := cache.Disabled(r.Cache)
	switch {
	case off:
		result.CacheStatus = CacheStatusOff
		opts.Logger.Debug("artifact cache off", "reason", reason)
	case !opts.Refresh:
		if artifacts, ok := r.cached(ctx, result.SourceHash, opts); ok {
			result.Artifacts = artifacts
			result.CacheHit = true
			result.CacheStatus = CacheStatusHit
			opts.Logger.Info("artifacts from cache", "source", opts.Name, "formats", opts.Formats)
			return result, nil
		}
	}

	opts.report(StageParse)
	parseStart := time.Now()
	g, err := Parse(ctx, source, opts)
	if err != nil {
		return nil, err
	}
	result.Graph = g
	result.Stats.ParseTime = time.Since(parseStart)
	result.Stats.NodeCount = g.NodeCount()
	result.Stats.EdgeCount = g.EdgeCount()

	opts.Logger.Info("parsed markdown",
		"source", opts.Name,
		"nodes", g.NodeCount(),
		"edges", g.EdgeCount(),
		"duration", result.Stats.ParseTime)

	opts.report(StageDraw)
	renderStart := time.Now()
	doc, err := Draw(ctx, r.Session, g, opts)
	if err != nil {
		return nil, err
	}
	result.Document = doc
	result.Stats.RenderTime = time.Since(renderStart)
	result.Stats.Width, result.Stats.Height = g.Width, g.Height

	opts.Logger.Info("rendered diagram",
		"width", g.Width,
		"height", g.Height,
		"duration", result.Stats.RenderTime)

	opts.report(StageEncode)
	encodeStart := time.Now()
	artifacts, err := Encode(ctx, doc, g, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.EncodeTime = time.Since(encodeStart)

	opts.Logger.Info("encoded outputs",
		"formats", opts.Formats,
		"duration", result.Stats.EncodeTime)

	if !off {
		r.store(ctx, result.SourceHash, opts, artifacts)
	}
	return result, nil
}

// ArtifactKey returns the cache key of one artifact. It covers everything
// that changes the output: source, layout, base font, format and scale.
func (r *Runner) ArtifactKey(sourceHash string, opts Options, format string) string {
	return cache.Key(artifactKeyType, sourceHash, opts.Layout, r.Session.BaseFont(), format, opts.Scale)
}

// cached returns the artifacts of every requested format, or false if any
// is missing.
func (r *Runner) cached(ctx context.Context, sourceHash string, opts Options) (map[string][]byte, bool) {
	artifacts := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		data, hit, err := r.Cache.Get(ctx, r.ArtifactKey(sourceHash, opts, format))
		if err != nil {
			r.Logger.Warn("artifact cache unavailable", "error", err)
		}
		if !hit {
			observability.Cache().OnCacheMiss(ctx, artifactKeyType)
			return nil, false
		}
		artifacts[format] = data
	}
	observability.Cache().OnCacheHit(ctx, artifactKeyType)
	return artifacts, true
}

func (r *Runner) store(ctx context.Context, sourceHash string, opts Options, artifacts map[string][]byte) {
	for format, data := range artifacts {
		if err := r.Cache.Set(ctx, r.ArtifactKey(sourceHash, opts, format), data, r.TTL); err != nil {
			r.Logger.Warn("artifact not cached", "format", format, "error", err)
			continue
		}
		observability.Cache().OnCacheSet(ctx, artifactKeyType, len(data))
	}
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		if err := r.Cache.Close(); err != nil {
			return fmt.Errorf("close cache: %w", err)
		}
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
