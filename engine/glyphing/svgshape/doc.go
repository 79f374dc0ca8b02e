/*
Package svgshape selects and places glyphs of SVG fonts for runs of text.

A TextRun is walked from start to end. At each position the longest unicode
key registered in the font's glyph table is tried first, then shorter ones,
and the first candidate glyph compatible with the run's context (writing
mode, language and Arabic joining form) is emitted. Positions without a
compatible glyph are resolved by the font's declared <missing-glyph> or,
if there is none, are delegated to a system font.

Measuring a run sums up the advances of all glyphs. Drawing a run
additionally applies kerning between consecutive glyphs of the SVG font.

	sh := svgshape.NewShaper(font, 16, nil)
	run := svgshape.NewTextRun("AVATAR", false, svgshape.RunContext{})
	w := sh.MeasureRun(run)
	sh.DrawRun(canvas, run, dimen.Point{X: 10, Y: 40})

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package svgshape

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'tyse.glyphs'.
func tracer() tracing.Trace {
	return tracing.Select("tyse.glyphs")
}
