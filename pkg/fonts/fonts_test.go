package fonts

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/font/gofont/goregular"

	"github.com/matzehuels/md2ifdam/pkg/cache"
)

var goRegular = Query{Family: "Go", Style: "Regular", Weight: 400}

func TestWeightFromStyle(t *testing.T) {
	tests := []struct {
		style string
		want  int
	}{
		{"Regular", 400},
		{"Italic", 400},
		{"Thin", 100},
		{"ExtraLight", 200},
		{"Light Italic", 300},
		{"Medium", 500},
		{"SemiBold", 600},
		{"Demi Bold", 600},
		{"Bold", 700},
		{"Bold Italic", 700},
		{"Extra-Bold", 800},
		{"Heavy", 800},
		{"Black", 900},
		{"W3", 300},
		{"W6", 600},
		{"", 400},
	}
	for _, tt := range tests {
		t.Run(tt.style, func(t *testing.T) {
			if got := WeightFromStyle(tt.style); got != tt.want {
				t.Errorf("WeightFromStyle(%q) = %d, want %d", tt.style, got, tt.want)
			}
		})
	}
}

func TestQueryMatches(t *testing.T) {
	face := Face{Family: "Osaka", Style: "Regular", Weight: 400}
	tests := []struct {
		name string
		q    Query
		want bool
	}{
		{"exact", Query{"Osaka", "Regular", 400}, true},
		{"wildcard all", Query{}, true},
		{"wildcard style and weight", Query{Family: "Osaka"}, true},
		{"other family", Query{Family: "Go"}, false},
		{"other style", Query{Family: "Osaka", Style: "Bold"}, false},
		{"other weight", Query{Weight: 700}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.q.Matches(face); got != tt.want {
				t.Errorf("Matches = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestQueryString(t *testing.T) {
	want := `{"font-family":"Osaka","font-style":"Regular","font-weight":400}`
	if got := (Query{"Osaka", "Regular", 400}).String(); got != want {
		t.Errorf("String() = %s, want %s", got, want)
	}
}

func TestEmbeddedFaces(t *testing.T) {
	cat := NewCatalog(nil)

	regular := cat.Find(goRegular)
	if len(regular) != 1 {
		t.Fatalf("Find(Go Regular 400) = %v, want one face", regular)
	}
	if regular[0].Src != "embedded:goregular" {
		t.Errorf("Src = %q", regular[0].Src)
	}

	if got := cat.Find(Query{Family: "Go", Weight: 700}); len(got) != 2 {
		t.Errorf("Go 700 faces = %v, want Bold and Bold Italic", got)
	}
	if got := len(cat.Find(Query{Family: "Go"})); got != 4 {
		t.Errorf("Go family has %d faces, want 4", got)
	}
}

func TestCatalogLocalShadowsEmbedded(t *testing.T) {
	local := Face{Family: "Go", Style: "Regular", Weight: 400, Src: "/fonts/go.ttf"}
	cat := NewCatalog([]Face{local})

	if got := cat.Find(goRegular)[0]; got != local {
		t.Errorf("first match = %v, want the local face", got)
	}
	if fams := cat.Families(); fams[0] != "Go" {
		t.Errorf("Families = %v", fams)
	}
}

func TestLoader_Metrics(t *testing.T) {
	l := NewLoader(nil, nil)
	f, err := l.Open(goRegular)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	if f.UnitsPerEm() != 2048 {
		t.Errorf("UnitsPerEm = %d, want 2048", f.UnitsPerEm())
	}
	if f.Ascent() != 1935 || f.Descent() != -432 || f.LineGap() != 0 {
		t.Errorf("ascent/descent/lineGap = %d/%d/%d, want 1935/-432/0",
			f.Ascent(), f.Descent(), f.LineGap())
	}

	adv := f.Advances("Hello")
	want := []int{1479, 1139, 548, 548, 1139}
	if len(adv) != len(want) {
		t.Fatalf("Advances = %v, want %v", adv, want)
	}
	for i := range want {
		if adv[i] != want[i] {
			t.Errorf("Advances[%d] = %d, want %d", i, adv[i], want[i])
		}
	}
}

func TestTextHeightWidth(t *testing.T) {
	f, err := NewLoader(nil, nil).Open(goRegular)
	if err != nil {
		t.Fatal(err)
	}

	if got := TextHeight(f, 12); got != 13 {
		t.Errorf("TextHeight(12) = %d, want 13", got)
	}
	tests := []struct {
		text string
		size float64
		want int
	}{
		{"Hello", 12, 29},
		{"Login", 9, 23},
		{"-", 12, 8},
		{"", 12, 0},
	}
	for _, tt := range tests {
		if got := TextWidth(f, tt.size, tt.text); got != tt.want {
			t.Errorf("TextWidth(%v, %q) = %d, want %d", tt.size, tt.text, got, tt.want)
		}
	}
}

func TestTextMeasureDeterministic(t *testing.T) {
	f, _ := NewLoader(nil, nil).Open(goRegular)
	for range 3 {
		if TextWidth(f, 12, "Checkout") != 51 || TextHeight(f, 12) != 13 {
			t.Fatal("measurements changed between calls")
		}
	}
}

type fakeMetrics struct{ upem, ascent, descent, lineGap int }

func (m fakeMetrics) UnitsPerEm() int          { return m.upem }
func (m fakeMetrics) Ascent() int              { return m.ascent }
func (m fakeMetrics) Descent() int             { return m.descent }
func (m fakeMetrics) LineGap() int             { return m.lineGap }
func (m fakeMetrics) Advances(s string) []int { return make([]int, len([]rune(s))) }

func TestTextHeight_LineGap(t *testing.T) {
	// Taller than the em square: the line gap is ignored.
	osaka := fakeMetrics{upem: 256, ascent: 256, descent: -64, lineGap: 43}
	if got := TextHeight(osaka, 12); got != 15 {
		t.Errorf("TextHeight = %d, want 15", got)
	}

	// Fits the em square: the line gap is added.
	compact := fakeMetrics{upem: 1000, ascent: 700, descent: -200, lineGap: 100}
	if got := TextHeight(compact, 10); got != 10 {
		t.Errorf("TextHeight = %d, want 10", got)
	}
	compact.descent = -300
	if got := TextHeight(compact, 10); got != 11 {
		t.Errorf("TextHeight = %d, want 11", got)
	}
}

func TestLoader_CachesFonts(t *testing.T) {
	l := NewLoader(nil, nil)
	a, _ := l.Open(goRegular)
	b, _ := l.Open(Query{Family: "Go", Style: "Regular"})
	if a != b {
		t.Error("same face should return the cached font")
	}
	if l.Loaded() != 1 {
		t.Errorf("Loaded = %d, want 1", l.Loaded())
	}
}

func TestLoader_NotFound(t *testing.T) {
	_, err := NewLoader(nil, nil).Open(Query{Family: "No Such Font"})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestFacesFromData_Invalid(t *testing.T) {
	if _, err := FacesFromData("bad.ttf", []byte("not a font")); err == nil {
		t.Error("expected error for invalid data")
	}
}

func TestIndexStore(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	path := filepath.Join(dir, "Custom-Regular.ttf")
	if err := os.WriteFile(path, goregular.TTF, 0644); err != nil {
		t.Fatal(err)
	}

	c, err := cache.NewFileCache(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatal(err)
	}
	store := NewIndexStore(c, DefaultIndexTTL, nil)

	cat, err := store.Load(ctx, dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !hasSrc(cat, path) {
		t.Fatalf("catalog misses %s", path)
	}

	// The second load is served from the stored index.
	key := cache.Key(indexKeyType, stamps(ListFiles(dir)))
	if _, hit, _ := c.Get(ctx, key); !hit {
		t.Error("index was not cached")
	}
	again, err := store.Load(ctx, dir)
	if err != nil || !hasSrc(again, path) {
		t.Errorf("cached Load = %v, %v", again, err)
	}
}

func TestIndexStore_CacheOff(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Custom-Regular.ttf")
	if err := os.WriteFile(path, goregular.TTF, 0644); err != nil {
		t.Fatal(err)
	}

	nc := cache.NewNullCache("caching disabled")
	cat, err := NewIndexStore(nc, DefaultIndexTTL, nil).Load(context.Background(), dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !hasSrc(cat, path) {
		t.Errorf("catalog misses %s", path)
	}
	if n := nc.Lookups(); n != 0 {
		t.Errorf("Lookups = %d, want 0", n)
	}
}

func hasSrc(c *Catalog, src string) bool {
	for _, f := range c.Faces() {
		if f.Src == src {
			return true
		}
	}
	return false
}
