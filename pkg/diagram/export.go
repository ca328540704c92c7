package diagram

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

type graphJSON struct {
	Config Config     `json:"config"`
	Width  float64    `json:"width,omitempty"`
	Height float64    `json:"height,omitempty"`
	Nodes  []nodeJSON `json:"nodes"`
	Edges  []edgeJSON `json:"edges"`
}

type nodeJSON struct {
	ID     string     `json:"id"`
	Label  string     `json:"label,omitempty"`
	Ref    string     `json:"ref,omitempty"`
	Kind   NodeKind   `json:"kind"`
	Items  []NodeItem `json:"items,omitempty"`
	Style  StyleMap   `json:"style,omitempty"`
	Width  float64    `json:"width,omitempty"`
	Height float64    `json:"height,omitempty"`
	X      float64    `json:"x,omitempty"`
	Y      float64    `json:"y,omitempty"`
}

type edgeJSON struct {
	Key    string   `json:"key"`
	From   string   `json:"from"`
	To     string   `json:"to"`
	Label  string   `json:"label,omitempty"`
	Ref    string   `json:"ref,omitempty"`
	Style  StyleMap `json:"style,omitempty"`
	Width  float64  `json:"width,omitempty"`
	Height float64  `json:"height,omitempty"`
	X      float64  `json:"x,omitempty"`
	Y      float64  `json:"y,omitempty"`
	Points []Point  `json:"points,omitempty"`
}

// MarshalJSON encodes the full model: nodes with items and styles, edges
// and, after rendering, sizes, positions and edge points.
func (g *Graph) MarshalJSON() ([]byte, error) {
	out := graphJSON{
		Config: g.Config,
		Width:  g.Width,
		Height: g.Height,
		Nodes:  make([]nodeJSON, len(g.nodes)),
		Edges:  make([]edgeJSON, len(g.edges)),
	}
	for i, n := range g.nodes {
		out.Nodes[i] = nodeJSON{
			ID: n.ID, Label: n.Label, Ref: n.Ref, Kind: n.Kind,
			Items: n.Items, Style: n.Style,
			Width: n.Width, Height: n.Height, X: n.X, Y: n.Y,
		}
	}
	for i, e := range g.edges {
		out.Edges[i] = edgeJSON{
			Key: e.Key, From: e.From, To: e.To, Label: e.Label, Ref: e.Ref, Style: e.Style,
			Width: e.Width, Height: e.Height, X: e.X, Y: e.Y, Points: e.Points,
		}
	}
	return json.Marshal(out)
}

// WriteJSON encodes g as indented JSON and writes it to w.
func WriteJSON(g *Graph, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(g); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes g to a JSON file at path.
func ExportJSON(g *Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(g, f)
}
