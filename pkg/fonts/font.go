package fonts

import (
	"fmt"
	"math"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// Metrics is the font capability text measurement needs. All values are in
// font units.
type Metrics interface {
	UnitsPerEm() int
	Ascent() int
	Descent() int
	LineGap() int
	Advances(text string) []int
}

// Font is a parsed font with its vertical metrics cached. It is safe for
// concurrent use.
type Font struct {
	face Face
	sf   *sfnt.Font
	ppem fixed.Int26_6

	upem    int
	ascent  int
	descent int
	lineGap int

	mu  sync.Mutex
	buf sfnt.Buffer
}

// Parse parses font data for face. Collections are indexed by face.Index.
func Parse(face Face, data []byte) (*Font, error) {
	coll, err := sfnt.ParseCollection(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", face.Src, err)
	}
	if face.Index < 0 || face.Index >= coll.NumFonts() {
		return nil, fmt.Errorf("parse %s: font index %d out of range", face.Src, face.Index)
	}
	sf, err := coll.Font(face.Index)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", face.Src, err)
	}

	f := &Font{face: face, sf: sf, upem: int(sf.UnitsPerEm())}
	// One pixel per font unit makes every scaled value an exact unit count.
	f.ppem = fixed.I(f.upem)

	m, err := sf.Metrics(&f.buf, f.ppem, font.HintingNone)
	if err != nil {
		return nil, fmt.Errorf("metrics %s: %w", face.Src, err)
	}
	f.ascent = m.Ascent.Round()
	f.descent = -m.Descent.Round()
	f.lineGap = m.Height.Round() - f.ascent + f.descent
	return f, nil
}

// Face returns the face the font was loaded for.
func (f *Font) Face() Face { return f.face }

// UnitsPerEm returns the size of the em square.
func (f *Font) UnitsPerEm() int { return f.upem }

// Ascent returns the distance from the baseline to the top of the line.
func (f *Font) Ascent() int { return f.ascent }

// Descent returns the distance from the baseline to the bottom of the line.
// It is negative for every usual font.
func (f *Font) Descent() int { return f.descent }

// LineGap returns the recommended extra spacing between lines.
func (f *Font) LineGap() int { return f.lineGap }

// Advances returns the horizontal advance of every rune in text. Pair
// kerning is added to the advance of the first glyph of each pair. Runes
// missing from the font measure as the notdef glyph.
func (f *Font) Advances(text string) []int {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]int, 0, len(text))
	var prev sfnt.GlyphIndex
	for i, r := range []rune(text) {
		g, err := f.sf.GlyphIndex(&f.buf, r)
		if err != nil {
			g = 0
		}
		if i > 0 {
			// ErrNotFound means no kerning for the pair.
			if k, err := f.sf.Kern(&f.buf, prev, g, f.ppem, font.HintingNone); err == nil {
				out[i-1] += k.Round()
			}
		}
		adv, err := f.sf.GlyphAdvance(&f.buf, g, f.ppem, font.HintingNone)
		if err != nil {
			adv = 0
		}
		out = append(out, adv.Round())
		prev = g
	}
	return out
}

// TextHeight returns the line height of m at size pixels:
// (ascent - descent), plus the line gap when that does not exceed the em
// square, scaled and floored.
func TextHeight(m Metrics, size float64) int {
	h := m.Ascent() - m.Descent()
	if h <= m.UnitsPerEm() {
		h += m.LineGap()
	}
	return int(math.Floor(float64(h) / float64(m.UnitsPerEm()) * size))
}

// TextWidth returns the advance width of text at size pixels, rounded up.
func TextWidth(m Metrics, size float64, text string) int {
	total := 0
	for _, a := range m.Advances(text) {
		total += a
	}
	return int(math.Ceil(float64(total) / float64(m.UnitsPerEm()) * size))
}
