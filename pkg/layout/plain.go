package layout

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Plain is a parsed Graphviz "plain" layout. All values are in inches with
// the origin at the bottom left.
type Plain struct {
	Width, Height float64
	Nodes         map[string]PlainNode
	Edges         []PlainEdge
}

// PlainNode is the center and size of one node.
type PlainNode struct {
	X, Y          float64
	Width, Height float64
}

// PlainEdge is one routed edge. Points are the B-spline control points from
// tail to head.
type PlainEdge struct {
	Tail, Head string
	Points     [][2]float64
}

// ParsePlain reads the Graphviz "plain" output format:
//
//	graph scale width height
//	node name x y width height label style shape color fillcolor
//	edge tail head n x1 y1 ... xn yn [label xl yl] style color
//	stop
func ParsePlain(r io.Reader) (*Plain, error) {
	p := &Plain{Nodes: make(map[string]PlainNode)}
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
	line := 0
	for sc.Scan() {
		line++
		f, err := fields(sc.Text())
		if err != nil {
			return nil, fmt.Errorf("plain line %d: %w", line, err)
		}
		if len(f) == 0 {
			continue
		}
		switch f[0] {
		case "graph":
			v, err := floats(f, 1, 3)
			if err != nil {
				return nil, fmt.Errorf("plain line %d: %w", line, err)
			}
			p.Width, p.Height = v[1], v[2]
		case "node":
			if len(f) < 6 {
				return nil, fmt.Errorf("plain line %d: short node record", line)
			}
			v, err := floats(f, 2, 4)
			if err != nil {
				return nil, fmt.Errorf("plain line %d: %w", line, err)
			}
			p.Nodes[f[1]] = PlainNode{X: v[0], Y: v[1], Width: v[2], Height: v[3]}
		case "edge":
			if len(f) < 4 {
				return nil, fmt.Errorf("plain line %d: short edge record", line)
			}
			n, err := strconv.Atoi(f[3])
			if err != nil {
				return nil, fmt.Errorf("plain line %d: point count: %w", line, err)
			}
			v, err := floats(f, 4, 2*n)
			if err != nil {
				return nil, fmt.Errorf("plain line %d: %w", line, err)
			}
			e := PlainEdge{Tail: f[1], Head: f[2], Points: make([][2]float64, n)}
			for i := range n {
				e.Points[i] = [2]float64{v[2*i], v[2*i+1]}
			}
			p.Edges = append(p.Edges, e)
		case "stop":
			return p, nil
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read plain: %w", err)
	}
	return p, nil
}

// fields splits a plain record on whitespace. Double-quoted tokens may
// contain spaces and backslash escapes.
func fields(s string) ([]string, error) {
	var out []string
	for i := 0; i < len(s); {
		switch {
		case s[i] == ' ' || s[i] == '\t' || s[i] == '\r':
			i++
		case s[i] == '"':
			var b strings.Builder
			j := i + 1
			for ; j < len(s) && s[j] != '"'; j++ {
				if s[j] == '\\' && j+1 < len(s) {
					j++
				}
				b.WriteByte(s[j])
			}
			if j >= len(s) {
				return nil, fmt.Errorf("unterminated quote")
			}
			out = append(out, b.String())
			i = j + 1
		default:
			j := i
			for j < len(s) && s[j] != ' ' && s[j] != '\t' && s[j] != '\r' {
				j++
			}
			out = append(out, s[i:j])
			i = j
		}
	}
	return out, nil
}

func floats(f []string, from, n int) ([]float64, error) {
	if len(f) < from+n {
		return nil, fmt.Errorf("want %d numbers after %q, have %d", n, f[0], len(f)-from)
	}
	out := make([]float64, n)
	for i := range n {
		v, err := strconv.ParseFloat(f[from+i], 64)
		if err != nil {
			return nil, fmt.Errorf("parse %q: %w", f[from+i], err)
		}
		out[i] = v
	}
	return out, nil
}
