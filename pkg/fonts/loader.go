package fonts

import (
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/charmbracelet/log"
)

// ErrNotFound is returned when no face matches a query.
var ErrNotFound = errors.New("font not found")

// Loader opens faces of a catalog and caches the parsed fonts by source.
// It is safe for concurrent use.
type Loader struct {
	catalog *Catalog
	logger  *log.Logger

	mu    sync.Mutex
	fonts map[string]*Font
}

// NewLoader creates a loader over catalog. A nil catalog holds only the
// embedded faces.
func NewLoader(catalog *Catalog, logger *log.Logger) *Loader {
	if catalog == nil {
		catalog = NewCatalog(nil)
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Loader{catalog: catalog, logger: logger, fonts: make(map[string]*Font)}
}

// Catalog returns the catalog the loader resolves queries against.
func (l *Loader) Catalog() *Catalog { return l.catalog }

// Open loads the first face matching q. It returns an error wrapping
// [ErrNotFound] when nothing matches.
func (l *Loader) Open(q Query) (*Font, error) {
	faces := l.catalog.Find(q)
	if len(faces) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, q)
	}
	return l.OpenFace(faces[0])
}

// OpenFace loads face, reusing a font already opened from the same source.
func (l *Loader) OpenFace(face Face) (*Font, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	key := face.Key()
	if f, ok := l.fonts[key]; ok {
		return f, nil
	}

	data, err := l.read(face.Src)
	if err != nil {
		return nil, err
	}
	f, err := Parse(face, data)
	if err != nil {
		return nil, err
	}
	l.fonts[key] = f
	l.logger.Debug("font loaded", "src", face.Src, "face", face.String())
	return f, nil
}

// Loaded returns the number of fonts opened so far.
func (l *Loader) Loaded() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.fonts)
}

func (l *Loader) read(src string) ([]byte, error) {
	if IsEmbedded(src) {
		data, ok := embeddedData[src]
		if !ok {
			return nil, fmt.Errorf("%w: unknown embedded font %s", ErrNotFound, src)
		}
		return data, nil
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return nil, fmt.Errorf("read font: %w", err)
	}
	return data, nil
}
