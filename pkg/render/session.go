package render

import (
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/md2ifdam/pkg/fonts"
	"github.com/matzehuels/md2ifdam/pkg/layout"
)

// OsakaRegular is the base font every text falls back to.
var OsakaRegular = fonts.Query{Family: "Osaka", Style: "Regular", Weight: 400}

// Session holds the state shared by the shapes of a render: the font cache,
// the fallback font and the layout engine. A Session is safe for concurrent
// use when its Layouter is.
type Session struct {
	// ID correlates log lines of one session.
	ID string

	fonts    *fonts.Loader
	baseFont fonts.Query
	layouter layout.Layouter
	logger   *log.Logger
}

// Option configures a Session.
type Option func(*Session)

// WithFonts sets the font loader. The default loader knows only the
// embedded Go fonts.
func WithFonts(l *fonts.Loader) Option {
	return func(s *Session) { s.fonts = l }
}

// WithBaseFont replaces the Osaka Regular fallback.
func WithBaseFont(q fonts.Query) Option {
	return func(s *Session) { s.baseFont = q }
}

// WithLayouter sets the layout engine (default Graphviz).
func WithLayouter(l layout.Layouter) Option {
	return func(s *Session) { s.layouter = l }
}

// WithLogger sets the logger (default log.Default()).
func WithLogger(l *log.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// NewSession creates a render session.
func NewSession(opts ...Option) *Session {
	s := &Session{ID: uuid.NewString(), baseFont: OsakaRegular}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	s.logger = s.logger.With("session", s.ID[:8])
	if s.fonts == nil {
		s.fonts = fonts.NewLoader(nil, s.logger)
	}
	if s.layouter == nil {
		s.layouter = layout.NewGraphviz(s.logger)
	}
	return s
}

// Fonts returns the session's font loader.
func (s *Session) Fonts() *fonts.Loader { return s.fonts }

// BaseFont returns the fallback font query.
func (s *Session) BaseFont() fonts.Query { return s.baseFont }

// baseDefaults renders the base font as style defaults.
func (s *Session) baseDefaults() Defaults {
	return defaults(
		"font-family", s.baseFont.Family,
		"font-style", s.baseFont.Style,
		"font-weight", strconv.Itoa(s.baseFont.Weight),
	)
}
