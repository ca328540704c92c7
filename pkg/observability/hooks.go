// Package observability lets md2ifdam report what it is doing without
// depending on a metrics or tracing backend.
//
// Three hook sets cover the moving parts of a render:
//
//   - [PipelineHooks]: a markdown source being parsed into a diagram graph,
//     the graph being laid out by an engine such as Graphviz dot, and the
//     SVG document being encoded to svg, png, pdf or json.
//   - [CacheHooks]: lookups and writes of cached artifacts ("artifact") and
//     of the discovered font index ("fonts").
//   - [HTTPHooks]: requests to the render service started by "md2ifdam
//     serve".
//
// All hooks default to no-ops. A program registers its own at startup, before
// the first render; [LogHooks] is the implementation the CLI installs for
// --verbose:
//
//	hooks := observability.NewLogHooks(logger)
//	observability.SetPipelineHooks(hooks)
//	observability.SetCacheHooks(hooks)
//
// The pipeline reports a parse like this:
//
//	observability.Pipeline().OnParseStart(ctx, "login.md")
//	g := diagram.ParseMarkdown(source, cfg)
//	observability.Pipeline().OnParseComplete(ctx, "login.md", g.NodeCount(), time.Since(start), nil)
package observability

import (
	"context"
	"sync"
	"time"
)

// PipelineHooks receives the stages of one render.
type PipelineHooks interface {
	// OnParseStart is called before source (a file or request name) is
	// tokenized.
	OnParseStart(ctx context.Context, source string)
	// OnParseComplete reports how many nodes the graph builder produced.
	OnParseComplete(ctx context.Context, source string, nodeCount int, duration time.Duration, err error)

	// OnLayoutStart is called before the named engine positions the sized
	// node and edge label shapes.
	OnLayoutStart(ctx context.Context, engine string, nodeCount int)
	OnLayoutComplete(ctx context.Context, engine string, duration time.Duration, err error)

	// OnRenderStart is called before the document is encoded to formats.
	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
}

// CacheHooks receives artifact and font index cache traffic. keyType is
// "artifact" or "fonts". Caches that are turned off report nothing.
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	// OnCacheSet reports the encoded size in bytes.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// HTTPHooks receives render service traffic.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, path string)
	OnResponse(ctx context.Context, method, path string, statusCode int, duration time.Duration)
	// OnError reports a request that ended in a coded error response.
	OnError(ctx context.Context, method, path string, err error)
}

// NoopPipelineHooks ignores pipeline events.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnParseStart(context.Context, string)                               {}
func (NoopPipelineHooks) OnParseComplete(context.Context, string, int, time.Duration, error) {}
func (NoopPipelineHooks) OnLayoutStart(context.Context, string, int)                         {}
func (NoopPipelineHooks) OnLayoutComplete(context.Context, string, time.Duration, error)     {}
func (NoopPipelineHooks) OnRenderStart(context.Context, []string)                            {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, []string, time.Duration, error)   {}

// NoopCacheHooks ignores cache events.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks ignores render service events.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, error)                 {}

// registry holds the installed hooks. Renders read it concurrently, so
// every access goes through mu.
var registry = struct {
	mu       sync.RWMutex
	pipeline PipelineHooks
	cache    CacheHooks
	http     HTTPHooks
}{
	pipeline: NoopPipelineHooks{},
	cache:    NoopCacheHooks{},
	http:     NoopHTTPHooks{},
}

func install[T any](slot *T, h T) {
	if any(h) == nil {
		return
	}
	registry.mu.Lock()
	defer registry.mu.Unlock()
	*slot = h
}

func current[T any](slot *T) T {
	registry.mu.RLock()
	defer registry.mu.RUnlock()
	return *slot
}

// SetPipelineHooks installs h. A nil h is ignored.
func SetPipelineHooks(h PipelineHooks) { install(&registry.pipeline, h) }

// SetCacheHooks installs h. A nil h is ignored.
func SetCacheHooks(h CacheHooks) { install(&registry.cache, h) }

// SetHTTPHooks installs h. A nil h is ignored.
func SetHTTPHooks(h HTTPHooks) { install(&registry.http, h) }

// SetAll installs h for every hook set it implements and reports how many
// it covered.
func SetAll(h any) int {
	n := 0
	if p, ok := h.(PipelineHooks); ok {
		SetPipelineHooks(p)
		n++
	}
	if c, ok := h.(CacheHooks); ok {
		SetCacheHooks(c)
		n++
	}
	if x, ok := h.(HTTPHooks); ok {
		SetHTTPHooks(x)
		n++
	}
	return n
}

// Pipeline returns the installed pipeline hooks.
func Pipeline() PipelineHooks { return current(&registry.pipeline) }

// Cache returns the installed cache hooks.
func Cache() CacheHooks { return current(&registry.cache) }

// HTTP returns the installed render service hooks.
func HTTP() HTTPHooks { return current(&registry.http) }

// Reset restores the no-op hooks. Tests that install hooks defer it.
func Reset() {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	registry.pipeline = NoopPipelineHooks{}
	registry.cache = NoopCacheHooks{}
	registry.http = NoopHTTPHooks{}
}
