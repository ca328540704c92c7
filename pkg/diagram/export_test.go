package diagram

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestWriteJSON(t *testing.T) {
	g := ParseMarkdown([]byte(endToEnd), DefaultConfig())
	g.Edges()[0].Points = []Point{{X: 1, Y: 2}, {X: 3, Y: 4}}

	var buf bytes.Buffer
	if err := WriteJSON(g, &buf); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}

	var out struct {
		Config Config `json:"config"`
		Nodes  []struct {
			ID    string            `json:"id"`
			Kind  string            `json:"kind"`
			Style map[string]string `json:"style"`
		} `json:"nodes"`
		Edges []struct {
			From   string  `json:"from"`
			To     string  `json:"to"`
			Points []Point `json:"points"`
		} `json:"edges"`
	}
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(out.Nodes) != 3 || len(out.Edges) != 2 {
		t.Fatalf("got %d nodes, %d edges", len(out.Nodes), len(out.Edges))
	}
	if out.Nodes[1].Kind != "screen" || out.Nodes[1].Style["fill"] != "red" {
		t.Errorf("node[1] = %+v", out.Nodes[1])
	}
	if len(out.Edges[0].Points) != 2 {
		t.Errorf("edge points = %v", out.Edges[0].Points)
	}
	if out.Config.MarginX != 30 {
		t.Errorf("config margin_x = %v, want 30", out.Config.MarginX)
	}
}

func TestExportJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graph.json")
	if err := ExportJSON(New(DefaultConfig()), path); err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(data, []byte(`"nodes": []`)) {
		t.Errorf("empty graph should export an empty node list:\n%s", data)
	}
}
