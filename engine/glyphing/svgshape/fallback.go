package svgshape

import (
	"github.com/npillmayer/tyse-svg/core/font/svgfont"
)

// FallbackKind tells how a character without a glyph is to be handled.
type FallbackKind uint8

const (
	UseDeclaredMissingGlyph FallbackKind = iota // use the font's <missing-glyph>
	DelegateToSystemFont                        // measure and draw with a system font
)

// FallbackAction is the resolution of a character without a compatible glyph.
type FallbackAction struct {
	Kind  FallbackKind
	Glyph svgfont.Glyph // for UseDeclaredMissingGlyph, with inherited metrics
	Char  rune
}

// ResolveMissing decides how to render character ch, for which font f has
// no compatible glyph. If the font declares a missing-glyph, the first one
// in document order is used, otherwise ch is delegated to a system font.
func ResolveMissing(f *svgfont.Font, ch rune) FallbackAction {
	if g, ok := f.MissingGlyph(); ok {
		return FallbackAction{
			Kind:  UseDeclaredMissingGlyph,
			Glyph: g.Inherit(f.Metrics()),
			Char:  ch,
		}
	}
	return FallbackAction{Kind: DelegateToSystemFont, Char: ch}
}
