package fonts

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/md2ifdam/pkg/cache"
	"github.com/matzehuels/md2ifdam/pkg/observability"
)

// DefaultIndexTTL is how long a discovered font index stays valid.
const DefaultIndexTTL = 24 * time.Hour

// indexKeyType prefixes index cache keys and labels cache hook events.
const indexKeyType = "fonts"

// IndexStore persists the local font index in a cache. Entries are keyed by
// the path, size and modification time of every font file, so installing
// or removing a font invalidates the index.
type IndexStore struct {
	cache  cache.Cache
	ttl    time.Duration
	logger *log.Logger
}

// NewIndexStore creates an index store. A nil cache disables persistence.
func NewIndexStore(c cache.Cache, ttl time.Duration, logger *log.Logger) *IndexStore {
	if c == nil {
		c = cache.NewNullCache("no font index cache")
	}
	if logger == nil {
		logger = log.Default()
	}
	return &IndexStore{cache: c, ttl: ttl, logger: logger}
}

type fileStamp struct {
	Path    string `json:"path"`
	Size    int64  `json:"size"`
	ModTime int64  `json:"mtime"`
}

func stamps(files []string) []fileStamp {
	out := make([]fileStamp, 0, len(files))
	for _, path := range files {
		st := fileStamp{Path: path}
		if info, err := os.Stat(path); err == nil {
			st.Size = info.Size()
			st.ModTime = info.ModTime().UnixNano()
		}
		out = append(out, st)
	}
	return out
}

// Load returns the catalog for the platform font directories plus dirs,
// reading the index from the cache when it is still current.
func (s *IndexStore) Load(ctx context.Context, dirs ...string) (*Catalog, error) {
	files := ListFiles(dirs...)
	if reason, off := cache.Disabled(s.cache); off {
		s.logger.Debug("font index cache off", "reason", reason)
		faces, err := Discover(ctx, files, s.logger)
		if err != nil {
			return nil, err
		}
		return NewCatalog(faces), nil
	}
	key := cache.Key(indexKeyType, stamps(files))

	data, hit, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Warn("font index cache unavailable", "error", err)
	}
	if hit {
		var faces []Face
		if err := json.Unmarshal(data, &faces); err == nil {
			observability.Cache().OnCacheHit(ctx, indexKeyType)
			s.logger.Debug("font index from cache", "faces", len(faces))
			return NewCatalog(faces), nil
		}
		s.logger.Debug("discarding corrupt font index")
	}
	observability.Cache().OnCacheMiss(ctx, indexKeyType)

	start := time.Now()
	faces, err := Discover(ctx, files, s.logger)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("font index built", "files", len(files), "faces", len(faces), "took", time.Since(start))

	if data, err := json.Marshal(faces); err == nil {
		if err := s.cache.Set(ctx, key, data, s.ttl); err != nil {
			s.logger.Warn("font index not cached", "error", err)
		} else {
			observability.Cache().OnCacheSet(ctx, indexKeyType, len(data))
		}
	}
	return NewCatalog(faces), nil
}
