package glyphing

import (
	"fmt"
	"io"

	"golang.org/x/text/language"
)

// Direction is the direction to typeset text in.
type Direction int

// Direction to typeset text in.
const (
	LeftToRight Direction = iota
	RightToLeft           = 1
	TopToBottom           = 2
	BottomToTop           = 3
)

func (d Direction) String() string {
	switch d {
	case LeftToRight:
		return "LeftToRight"
	case RightToLeft:
		return "RightToLeft"
	case TopToBottom:
		return "TopToBottom"
	case BottomToTop:
		return "BottomToTop"
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

// IsVertical is true for top-to-bottom and bottom-to-top.
func (d Direction) IsVertical() bool {
	return d == TopToBottom || d == BottomToTop
}

// GlyphIndex identifies a glyph within a font. Index 0 is used for glyphs
// which are not taken from the font, but delegated to a fallback font.
type GlyphIndex uint32

// A ShapedGlyph is a glyph as the result of shaping. Advances and offsets
// are in user space units, i.e. already scaled to the font size.
type ShapedGlyph struct {
	ClusterID int        // position of code-point(s) for this glyph in original string
	Length    int        // number of code-points represented by this glyph
	XAdvance  float32    // advance after glyph has been set
	YAdvance  float32    //
	XOffset   float32    // position of anchor dot for glyph
	YOffset   float32    //
	GID       GlyphIndex // glyph index within font
	CodePoint rune       // code-point of first rune to produce this glyph
	Fallback  bool       // glyph has to be set from a fallback font
}

func (g ShapedGlyph) String() string {
	if g.Fallback {
		return fmt.Sprintf("(fallback %#U, advance=%g)", g.CodePoint, g.XAdvance)
	}
	return fmt.Sprintf("(GID=%d, advance=%g)", g.GID, g.XAdvance)
}

// A Shaper creates a sequence of glyphs from a sequence of
// Unicode code-points. Glyphs are taken from a font, given in a specific point-size.
//
// Clients may provide additional information in Params, as well as
// textual context ([2][]rune).
//
type Shaper interface {
	Shape(io.RuneReader, []ShapedGlyph, [][]rune, Params) (GlyphSequence, error)
}

// Params collects shaping parameters.
type Params struct {
	Size      float32         // font size in user space units; 0 means "shaper default"
	Direction Direction       // writing direction
	Script    language.Script // 4-letter ISO 15924 script identifier
	Language  language.Tag    // BCP 47 language tag
}

// GlyphSequence contains a sequence of shaped glyphs.
type GlyphSequence struct {
	Glyphs  []ShapedGlyph // resulting sequence of glyphs
	W, H, D float32       // width, height, depth of bounding box
}

func (seq GlyphSequence) BoundingBox() (w float32, h float32, d float32) {
	return seq.W, seq.H, seq.D
}
