package cli

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/md2ifdam/pkg/cache"
	"github.com/matzehuels/md2ifdam/pkg/diagram"
	"github.com/matzehuels/md2ifdam/pkg/errors"
	"github.com/matzehuels/md2ifdam/pkg/fonts"
	"github.com/matzehuels/md2ifdam/pkg/layout"
	"github.com/matzehuels/md2ifdam/pkg/observability"
	"github.com/matzehuels/md2ifdam/pkg/pipeline"
	"github.com/matzehuels/md2ifdam/pkg/render"
)

const loginDoc = `# App

## Login

[Submit](Home)

## Home
`

// rowLayout places nodes left to right and routes edges straight.
func rowLayout(_ context.Context, g *diagram.Graph) error {
	x := g.Config.MarginX
	for _, n := range g.Nodes() {
		n.X, n.Y = x+n.Width/2, g.Config.MarginY+n.Height/2
		x += n.Width + 20
	}
	for _, e := range g.Edges() {
		from, _ := g.Node(e.From)
		to, _ := g.Node(e.To)
		e.X, e.Y = (from.X+to.X)/2, from.Y
		e.Points = []diagram.Point{{X: from.X, Y: from.Y}, {X: to.X, Y: to.Y}}
	}
	g.Width, g.Height = x+g.Config.MarginX, 300
	return nil
}

func newTestRouter(c cache.Cache, base fonts.Query) http.Handler {
	logger := log.New(io.Discard)
	runner := pipeline.NewRunner(c, logger,
		render.WithBaseFont(base),
		render.WithLayouter(layout.Func(rowLayout)),
	)
	cfg := DefaultConfig()
	cfg.Serve.MaxBody = 1024
	return newRouter(runner, cfg, logger)
}

func newTestServer(t *testing.T, c cache.Cache, base fonts.Query) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(newTestRouter(c, base))
	t.Cleanup(srv.Close)
	return srv
}

var goRegular = fonts.Query{Family: "Go", Style: "Regular", Weight: 400}

func post(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "text/markdown", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestServeHealthz(t *testing.T) {
	srv := newTestServer(t, nil, goRegular)

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || string(body) != "ok\n" {
		t.Errorf("healthz = %d %q", resp.StatusCode, body)
	}
}

func TestServeRender(t *testing.T) {
	srv := newTestServer(t, nil, goRegular)

	tests := []struct {
		name        string
		query       string
		contentType string
		prefix      string
	}{
		{"default svg", "", "image/svg+xml", `<?xml version="1.0"`},
		{"svg", "?format=svg", "image/svg+xml", `<?xml version="1.0"`},
		{"json", "?format=json", "application/json", "{"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, srv.URL+"/render"+tt.query, loginDoc)
			body, _ := io.ReadAll(resp.Body)
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("status = %d: %s", resp.StatusCode, body)
			}
			if ct := resp.Header.Get("Content-Type"); ct != tt.contentType {
				t.Errorf("Content-Type = %q, want %q", ct, tt.contentType)
			}
			if !strings.HasPrefix(string(body), tt.prefix) {
				t.Errorf("body starts with %q", string(body[:min(len(body), 40)]))
			}
			if resp.Header.Get("X-Source-Hash") != cache.Hash([]byte(loginDoc)) {
				t.Error("X-Source-Hash mismatch")
			}
		})
	}
}

func TestServeRenderCache(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	srv := newTestServer(t, fc, goRegular)

	if got := post(t, srv.URL+"/render", loginDoc).Header.Get("X-Cache"); got != "miss" {
		t.Errorf("first X-Cache = %q", got)
	}
	if got := post(t, srv.URL+"/render", loginDoc).Header.Get("X-Cache"); got != "hit" {
		t.Errorf("second X-Cache = %q", got)
	}
	if got := post(t, srv.URL+"/render?refresh=true", loginDoc).Header.Get("X-Cache"); got != "miss" {
		t.Errorf("refresh X-Cache = %q", got)
	}
}

func TestServeRenderCacheOff(t *testing.T) {
	srv := newTestServer(t, cache.NewNullCache("caching disabled"), goRegular)
	for range 2 {
		if got := post(t, srv.URL+"/render", loginDoc).Header.Get("X-Cache"); got != "off" {
			t.Errorf("X-Cache = %q, want off", got)
		}
	}
}

func TestServeRenderErrors(t *testing.T) {
	tests := []struct {
		name   string
		base   fonts.Query
		query  string
		body   string
		status int
		code   string
	}{
		{"bad format", goRegular, "?format=gif", loginDoc, http.StatusBadRequest, "INVALID_FORMAT"},
		{"body too large", goRegular, "", strings.Repeat("x", 2048), http.StatusRequestEntityTooLarge, "INVALID_INPUT"},
		{"missing font", fonts.Query{Family: "No Such Font"}, "", loginDoc, http.StatusUnprocessableEntity, "FONT_NOT_FOUND"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newTestServer(t, nil, tt.base)
			resp := post(t, srv.URL+"/render"+tt.query, tt.body)
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			var e errorResponse
			if err := json.NewDecoder(resp.Body).Decode(&e); err != nil {
				t.Fatalf("decode error body: %v", err)
			}
			if e.Code != tt.code || e.Message == "" {
				t.Errorf("error = %+v, want code %s", e, tt.code)
			}
		})
	}
}

func TestServeFonts(t *testing.T) {
	srv := newTestServer(t, nil, goRegular)

	resp, err := http.Get(srv.URL + "/fonts")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var faces []fonts.Face
	if err := json.NewDecoder(resp.Body).Decode(&faces); err != nil {
		t.Fatal(err)
	}
	if len(faces) != len(fonts.EmbeddedFaces()) {
		t.Errorf("faces = %d, want the embedded set", len(faces))
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		code errors.Code
		want int
	}{
		{"INVALID_SELECTOR", http.StatusBadRequest},
		{"FONT_NOT_FOUND", http.StatusUnprocessableEntity},
		{"UNSUPPORTED", http.StatusNotImplemented},
		{"LAYOUT_FAILED", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(errors.New(tt.code, "failed")); got != tt.want {
			t.Errorf("statusFor(%s) = %d, want %d", tt.code, got, tt.want)
		}
	}
}

type recordingHTTPHooks struct {
	observability.NoopHTTPHooks
	statuses []int
	errs     int
}

func (h *recordingHTTPHooks) OnResponse(_ context.Context, _, _ string, status int, _ time.Duration) {
	h.statuses = append(h.statuses, status)
}

func (h *recordingHTTPHooks) OnError(context.Context, string, string, error) { h.errs++ }

func TestServeHooks(t *testing.T) {
	hooks := &recordingHTTPHooks{}
	observability.SetHTTPHooks(hooks)
	defer observability.Reset()

	router := newTestRouter(nil, goRegular)
	for _, target := range []string{"/render", "/render?format=gif"} {
		req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(loginDoc))
		router.ServeHTTP(httptest.NewRecorder(), req)
	}

	if len(hooks.statuses) != 2 || hooks.statuses[0] != http.StatusOK || hooks.statuses[1] != http.StatusBadRequest {
		t.Errorf("statuses = %v", hooks.statuses)
	}
	if hooks.errs != 1 {
		t.Errorf("errors = %d, want 1", hooks.errs)
	}
}
