package fonts

import (
	"strings"
	"sync"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/goregular"
)

const embeddedPrefix = "embedded:"

// embeddedData holds the built-in Go fonts keyed by Src.
var embeddedData = map[string][]byte{
	embeddedPrefix + "goregular":    goregular.TTF,
	embeddedPrefix + "gobold":       gobold.TTF,
	embeddedPrefix + "goitalic":     goitalic.TTF,
	embeddedPrefix + "gobolditalic": gobolditalic.TTF,
	embeddedPrefix + "gomedium":     gomedium.TTF,
	embeddedPrefix + "gomono":       gomono.TTF,
	embeddedPrefix + "gomonobold":   gomonobold.TTF,
}

// embeddedOrder fixes the registration order of embedded faces.
var embeddedOrder = []string{
	"goregular", "gobold", "goitalic", "gobolditalic", "gomedium", "gomono", "gomonobold",
}

var (
	embeddedFaces     []Face
	embeddedFacesOnce sync.Once
)

// EmbeddedFaces returns the faces of the built-in Go fonts: family "Go"
// (Regular, Bold, Italic, Bold Italic), "Go Medium" and "Go Mono".
// The result is computed once.
func EmbeddedFaces() []Face {
	embeddedFacesOnce.Do(func() {
		for _, name := range embeddedOrder {
			src := embeddedPrefix + name
			faces, err := FacesFromData(src, embeddedData[src])
			if err != nil {
				continue
			}
			embeddedFaces = append(embeddedFaces, faces...)
		}
	})
	return embeddedFaces
}

// IsEmbedded reports whether src names a built-in font.
func IsEmbedded(src string) bool {
	return strings.HasPrefix(src, embeddedPrefix)
}
