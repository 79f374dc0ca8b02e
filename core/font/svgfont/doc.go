/*
Package svgfont holds fonts described in SVG markup.

An SVG font declares its glyphs, kerning pairs and metrics as markup
elements (<font>, <font-face>, <glyph>, <missing-glyph>, <hkern>, <vkern>).
Package svgfont reads these declarations into a Font, which owns two kinds
of lookup structures:

■ a GlyphTable, mapping unicode keys to candidate glyphs (ligature keys
spanning more than one character included), glyph names to glyphs, and
glyph IDs to glyphs;

■ two KerningTables, one for horizontal and one for vertical writing mode.

Tables are built lazily by Font.EnsureBuilt. Changing the declarations of a
font invalidates its tables; accessing an invalidated table is a
programming error and will panic.

Selecting the glyph for a given position in a text run is not done here,
but in package svgshape.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package svgfont

import "github.com/npillmayer/schuko/tracing"

// tracer writes to trace with key 'tyse.svgfont'
func tracer() tracing.Trace {
	return tracing.Select("tyse.svgfont")
}
