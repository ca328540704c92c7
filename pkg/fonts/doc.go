// Package fonts resolves font faces and measures text with their metrics.
//
// # Faces and Queries
//
// A [Face] describes one font: family, style (the subfamily name, e.g.
// "Regular" or "Bold Italic"), numeric weight and where to load it from.
// A [Query] selects faces; empty strings and a zero weight are wildcards:
//
//	cat.Find(fonts.Query{Family: "Osaka"})                          // every Osaka face
//	cat.Find(fonts.Query{Family: "Go", Style: "Regular", Weight: 400}) // exactly one
//
// # Catalog
//
// [Discover] walks the platform font directories (via go-findfont) plus any
// extra directories and reads the name table of every TrueType/OpenType
// file. The Go fonts from golang.org/x/image are always available as
// embedded faces, so measurement works on hosts without system fonts.
// Discovery is slow on large font collections; [IndexStore] persists the
// result in a [cache.Cache] keyed by the list of font files.
//
// # Loading and Metrics
//
// A [Loader] opens faces on demand and keeps them for its lifetime. It is
// meant to be owned by one render session rather than shared globally.
//
//	l := fonts.NewLoader(cat, logger)
//	f, err := l.Open(fonts.Query{Family: "Go", Style: "Regular", Weight: 400})
//	h := fonts.TextHeight(f, 12)
//	w := fonts.TextWidth(f, 12, "Login")
//
// Metrics are reported in font units: [Font.Descent] is negative (below the
// baseline) and [Font.Advances] returns one advance per rune with pair
// kerning applied.
package fonts
