package render

import (
	"encoding/json"
	stderrors "errors"

	"github.com/matzehuels/md2ifdam/pkg/diagram"
	"github.com/matzehuels/md2ifdam/pkg/errors"
	"github.com/matzehuels/md2ifdam/pkg/fonts"
	"github.com/matzehuels/md2ifdam/pkg/svg"
)

// defaultFontSize applies when a font-size value has no integer prefix.
const defaultFontSize = 12

// Box is the bounding box of a shape relative to its parent group.
type Box struct {
	X, Y          float64
	Width, Height float64
}

// AppendText appends item as a left-aligned text line to parent with its
// top edge at y and returns the measured box.
//
// The style cascade is style, then defaults, then the session base font,
// then font-size 12 with black fill and no stroke. The line is indented by
// (depth+1) x margin; nested open items get a "-" bullet one indent to the
// left, outside the measured width. AppendText fails with FONT_NOT_FOUND
// when neither the resolved font nor the base font can be opened.
func (s *Session) AppendText(parent *svg.Element, y float64, item diagram.NodeItem, style diagram.StyleMap, defaults Defaults) (Box, error) {
	text := parent.Append("text").
		SetText(item.Text).
		Attr("dominant-baseline", "text-before-edge")
	applying := ApplyStyles(text, style, defaults, s.baseDefaults(), textDefaults)

	indent := item.Depth + 1
	if item.Depth < 0 {
		indent = 0
	}
	margin := intValue(applying.Get("margin"))
	x := float64(indent * margin)
	text.AttrFloat("x", x).AttrFloat("y", y)

	if !item.Close && margin > 0 && item.Depth > 0 {
		text.Append("tspan").
			SetText("-").
			AttrFloat("x", float64((indent-1)*margin)).
			AttrFloat("y", y)
	}

	font, err := s.openFont(applying)
	if err != nil {
		return Box{}, err
	}
	size, ok := leadingInt(applying.Get("font-size"))
	if !ok {
		size = defaultFontSize
	}
	return Box{
		X:      x,
		Y:      y,
		Width:  float64(fonts.TextWidth(font, float64(size), item.Text)),
		Height: float64(fonts.TextHeight(font, float64(size))),
	}, nil
}

// openFont resolves the font of a resolved style, falling back to the base
// font.
func (s *Session) openFont(applying diagram.StyleMap) (*fonts.Font, error) {
	weight, _ := leadingInt(applying.Get("font-weight"))
	q := fonts.Query{
		Family: applying.Get("font-family"),
		Style:  applying.Get("font-style"),
		Weight: weight,
	}
	font, err := s.fonts.Open(q)
	if err == nil {
		return font, nil
	}
	if !stderrors.Is(err, fonts.ErrNotFound) {
		s.logger.Warn("font unusable, trying base font", "query", q.String(), "err", err)
	}
	font, baseErr := s.fonts.Open(s.baseFont)
	if baseErr == nil {
		return font, nil
	}
	setting, _ := json.Marshal(applying)
	return nil, errors.Wrap(errors.ErrCodeFontNotFound, baseErr, "font not found. Setting is %s", setting)
}
