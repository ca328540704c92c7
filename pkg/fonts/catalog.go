package fonts

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/flopp/go-findfont"
	"golang.org/x/image/font/sfnt"
)

// Catalog is an ordered, read-only list of faces.
type Catalog struct {
	faces []Face
}

// NewCatalog builds a catalog of local faces followed by the embedded
// faces, so a local font shadows a built-in one with the same name.
func NewCatalog(local []Face) *Catalog {
	faces := make([]Face, 0, len(local)+len(EmbeddedFaces()))
	faces = append(faces, local...)
	faces = append(faces, EmbeddedFaces()...)
	return &Catalog{faces: faces}
}

// Faces returns all faces in catalog order.
func (c *Catalog) Faces() []Face { return c.faces }

// Len returns the number of faces.
func (c *Catalog) Len() int { return len(c.faces) }

// Find returns the faces matching q in catalog order.
func (c *Catalog) Find(q Query) []Face {
	var out []Face
	for _, f := range c.faces {
		if q.Matches(f) {
			out = append(out, f)
		}
	}
	return out
}

// Families returns the distinct family names in lexical order.
func (c *Catalog) Families() []string {
	seen := make(map[string]bool)
	var out []string
	for _, f := range c.faces {
		if !seen[f.Family] {
			seen[f.Family] = true
			out = append(out, f.Family)
		}
	}
	slices.Sort(out)
	return out
}

// ListFiles returns the font files of the platform font directories and of
// dirs, sorted and without duplicates.
func ListFiles(dirs ...string) []string {
	files := findfont.List()
	for _, dir := range dirs {
		_ = filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
			if err == nil && !d.IsDir() && isFontFile(path) {
				files = append(files, path)
			}
			return nil
		})
	}
	slices.Sort(files)
	return slices.Compact(files)
}

func isFontFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".ttf", ".otf", ".ttc", ".otc":
		return true
	}
	return false
}

// Discover reads the faces of every file. Unreadable files are logged at
// debug level and skipped. It stops early when ctx is cancelled.
func Discover(ctx context.Context, files []string, logger *log.Logger) ([]Face, error) {
	if logger == nil {
		logger = log.Default()
	}
	var faces []Face
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return faces, err
		}
		found, err := ReadFaces(path)
		if err != nil {
			logger.Debug("skipping font", "path", path, "error", err)
			continue
		}
		faces = append(faces, found...)
	}
	return faces, nil
}

// ReadFaces reads the faces contained in a font file.
func ReadFaces(path string) ([]Face, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return FacesFromData(path, data)
}

// FacesFromData describes every font of a TrueType/OpenType file or
// collection. Typographic family names are preferred over legacy ones.
func FacesFromData(src string, data []byte) ([]Face, error) {
	coll, err := sfnt.ParseCollection(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", src, err)
	}
	var buf sfnt.Buffer
	faces := make([]Face, 0, coll.NumFonts())
	for i := 0; i < coll.NumFonts(); i++ {
		f, err := coll.Font(i)
		if err != nil {
			return nil, fmt.Errorf("parse %s[%d]: %w", src, i, err)
		}
		family := name(f, &buf, sfnt.NameIDTypographicFamily, sfnt.NameIDFamily)
		style := name(f, &buf, sfnt.NameIDTypographicSubfamily, sfnt.NameIDSubfamily)
		if family == "" {
			continue
		}
		faces = append(faces, Face{
			Family:         family,
			Style:          style,
			Weight:         WeightFromStyle(style),
			PostScriptName: name(f, &buf, sfnt.NameIDPostScript),
			Src:            src,
			Index:          i,
		})
	}
	return faces, nil
}

// name returns the first non-empty name table entry among ids.
func name(f *sfnt.Font, buf *sfnt.Buffer, ids ...sfnt.NameID) string {
	for _, id := range ids {
		if s, err := f.Name(buf, id); err == nil && s != "" {
			return s
		}
	}
	return ""
}
