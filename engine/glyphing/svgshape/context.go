package svgshape

import (
	"fmt"
	"sync"

	"github.com/npillmayer/tyse-svg/core/dimen"
	"github.com/npillmayer/tyse-svg/core/font/svgfont"
	xfont "golang.org/x/image/font"
)

// GraphicsContext is where glyphs are painted. Implementations decide how
// to paint glyph outlines; this package decides which glyphs to paint and
// where.
type GraphicsContext interface {
	// FillGlyph paints the outline of an SVG font glyph, positioned as given
	// by p. The glyph's metrics are inherited from the font.
	FillGlyph(g svgfont.Glyph, p Placement)
	// FillRune paints a character with a system font face. at is the
	// baseline origin of the character.
	FillRune(face xfont.Face, ch rune, at dimen.Point)
}

// Placement is the position of a glyph of a laid out run.
type Placement struct {
	Glyph   svgfont.Glyph // invalid for characters delegated to a system font
	System  bool          // character is delegated to a system font
	Char    rune          // first character represented by the glyph
	Start   int           // position of the character(s) in the run
	Length  int           // number of characters represented
	At      dimen.Point   // glyph origin in user space
	Advance float32       // advance in user space units, along the writing direction
	Scale   float32       // design units to user space
	Upright bool          // vertical text: glyph stays upright
}

func (p Placement) String() string {
	if p.System {
		return fmt.Sprintf("[%#U sys @%v +%g]", p.Char, p.At, p.Advance)
	}
	return fmt.Sprintf("[%v @%v +%g]", p.Glyph, p.At, p.Advance)
}

// Recorder is a GraphicsContext which records all paint calls.
type Recorder struct {
	mx    sync.Mutex
	Calls []RecordedCall
}

// RecordedCall is a paint call received by a Recorder.
type RecordedCall struct {
	GlyphName string // empty for system font characters
	GlyphID   svgfont.GlyphID
	Char      rune
	At        dimen.Point
	System    bool
}

// FillGlyph is part of interface GraphicsContext.
func (rec *Recorder) FillGlyph(g svgfont.Glyph, p Placement) {
	rec.mx.Lock()
	defer rec.mx.Unlock()
	rec.Calls = append(rec.Calls, RecordedCall{
		GlyphName: g.Name,
		GlyphID:   g.ID,
		Char:      p.Char,
		At:        p.At,
	})
}

// FillRune is part of interface GraphicsContext.
func (rec *Recorder) FillRune(face xfont.Face, ch rune, at dimen.Point) {
	rec.mx.Lock()
	defer rec.mx.Unlock()
	rec.Calls = append(rec.Calls, RecordedCall{
		Char:   ch,
		At:     at,
		System: true,
	})
}

var _ GraphicsContext = &Recorder{}
