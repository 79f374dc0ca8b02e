package svgfont

import (
	"fmt"
	"strings"

	"github.com/npillmayer/tyse-svg/core/option"
)

// GlyphID identifies a glyph within a glyph table. IDs are assigned
// sequentially, starting with 1. Zero denotes "no glyph".
type GlyphID uint32

// ArabicForm is the contextual form of an Arabic letter.
type ArabicForm uint8

// Arabic joining forms. FormNone is used for glyphs without a declared form
// and for characters which do not take part in Arabic joining.
const (
	FormNone ArabicForm = iota
	FormIsolated
	FormInitial
	FormMedial
	FormFinal
)

func (f ArabicForm) String() string {
	switch f {
	case FormIsolated:
		return "isolated"
	case FormInitial:
		return "initial"
	case FormMedial:
		return "medial"
	case FormFinal:
		return "terminal"
	}
	return "none"
}

// ParseArabicForm parses the value of an 'arabic-form' attribute.
// Unknown values map to FormNone.
func ParseArabicForm(s string) ArabicForm {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "isolated":
		return FormIsolated
	case "initial":
		return FormInitial
	case "medial":
		return FormMedial
	case "terminal", "final":
		return FormFinal
	}
	return FormNone
}

// Orientation restricts a glyph to a writing mode.
type Orientation uint8

// A glyph may be used in horizontal text, in vertical text, or in both.
const (
	OrientBoth Orientation = iota
	OrientHorizontal
	OrientVertical
)

func (o Orientation) String() string {
	switch o {
	case OrientHorizontal:
		return "h"
	case OrientVertical:
		return "v"
	}
	return "both"
}

// Glyph is a glyph as declared in an SVG font.
//
// Metric attributes are optional: a value of None means that the value is
// inherited from the font (see Inherit).
// All metrics are in font design units.
type Glyph struct {
	ID             GlyphID
	Name           string // value of 'glyph-name', may be empty
	Unicode        string // value of 'unicode', may span more than one character
	HorizAdvX      option.Float32T
	VertAdvY       option.Float32T
	HorizOriginX   option.Float32T
	HorizOriginY   option.Float32T
	VertOriginX    option.Float32T
	VertOriginY    option.Float32T
	IsLigaturePart bool // placeholder for a character which appears only inside a ligature
	Form           ArabicForm
	Orientation    Orientation
	Languages      []string
	PathData       string // outline in SVG path syntax, y-axis pointing upwards
}

// NewGlyph creates a glyph with a name and a unicode key. All metrics are
// unset, i.e. inherited from the font.
func NewGlyph(name, unicode string) Glyph {
	return Glyph{
		Name:         name,
		Unicode:      unicode,
		HorizAdvX:    option.Float32(),
		VertAdvY:     option.Float32(),
		HorizOriginX: option.Float32(),
		HorizOriginY: option.Float32(),
		VertOriginX:  option.Float32(),
		VertOriginY:  option.Float32(),
	}
}

// IsValid returns false for the zero glyph.
func (g Glyph) IsValid() bool {
	return g.ID != 0
}

// Inherit returns a copy of g with every unset metric attribute replaced by
// the font's default.
func (g Glyph) Inherit(m FontMetrics) Glyph {
	g.HorizAdvX = option.SomeFloat32(g.HorizAdvX.OrElse(m.HorizAdvX))
	g.VertAdvY = option.SomeFloat32(g.VertAdvY.OrElse(m.VertAdvY))
	g.HorizOriginX = option.SomeFloat32(g.HorizOriginX.OrElse(m.HorizOriginX))
	g.HorizOriginY = option.SomeFloat32(g.HorizOriginY.OrElse(m.HorizOriginY))
	g.VertOriginX = option.SomeFloat32(g.VertOriginX.OrElse(m.VertOriginX))
	g.VertOriginY = option.SomeFloat32(g.VertOriginY.OrElse(m.VertOriginY))
	return g
}

// Advance returns the advance of g in design units, either horizontally or
// vertically. Unset values are taken as 0, so callers should use it on
// glyphs with inherited attributes only.
func (g Glyph) Advance(vertical bool) float32 {
	if vertical {
		return g.VertAdvY.OrElse(0)
	}
	return g.HorizAdvX.OrElse(0)
}

func (g Glyph) String() string {
	if g.Name != "" {
		return fmt.Sprintf("<glyph #%d %q>", g.ID, g.Name)
	}
	return fmt.Sprintf("<glyph #%d %+q>", g.ID, g.Unicode)
}
