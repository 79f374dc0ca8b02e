package svgshape

import (
	"github.com/npillmayer/tyse-svg/core/font/svgfont"
)

// EmissionKind tells if a glyph has been found for a position of a run.
type EmissionKind uint8

const (
	GlyphFound   EmissionKind = iota // glyph from the font's glyph table
	GlyphMissing                     // no compatible glyph, fallback required
)

// Emission is the result of one step of a walk.
type Emission struct {
	Kind    EmissionKind
	Glyph   svgfont.Glyph // for GlyphFound, with inherited metrics
	Start   int           // position in the run
	Length  int           // number of characters consumed
	Char    rune          // first character, as used for lookup
	Kerning float32       // adjustment to the previous glyph in design units, if kerning is on
}

// WalkState is the state of a walk.
type WalkState uint8

// States of a walk.
const (
	Scanning WalkState = iota
	MatchedLigature
	Fallback
	Done
)

func (s WalkState) String() string {
	switch s {
	case Scanning:
		return "Scanning"
	case MatchedLigature:
		return "MatchedLigature"
	case Fallback:
		return "Fallback"
	}
	return "Done"
}

// walkerState is created fresh for every walk.
type walkerState struct {
	index       int
	advance     float32 // sum of design unit advances of found glyphs
	lastName    string  // name of the previous glyph found, for kerning
	lastUnicode string  // unicode key of the previous glyph found
	state       WalkState
}

// Walker walks runs of text and selects glyphs of an SVG font.
type Walker struct {
	font    *svgfont.Font
	Kerning bool // compute kerning between consecutive glyphs
}

// NewWalker creates a walker for font f. Kerning is off.
func NewWalker(f *svgfont.Font) *Walker {
	return &Walker{font: f}
}

// Walk selects glyphs for the characters [from…to) of run and calls emit
// for every glyph, in logical order. If emit returns false, the walk is
// stopped.
//
// Every step consumes at least one character; positions are never
// visited twice. For runs with an AltGlyphSubstitution, every named glyph
// found in the font is emitted, each spanning the whole range. If none of
// the names can be found, glyphs are selected from the text.
func (w *Walker) Walk(run TextRun, from, to int, emit func(Emission) bool) {
	if from < 0 {
		from = 0
	}
	if to > run.Len() {
		to = run.Len()
	}
	if from >= to {
		return
	}
	glyphs := w.font.Glyphs()
	metrics := w.font.Metrics()
	if alt, ok := run.ctx.Substitution.(AltGlyphSubstitution); ok {
		if w.walkAltGlyphs(glyphs, metrics, alt, run, from, to, emit) {
			return
		}
		tracer().Debugf("none of alt-glyphs %v found, using text", alt.Names)
	}
	kern := w.font.HKern()
	if run.ctx.Vertical {
		kern = w.font.VKern()
	}
	st := &walkerState{index: from, state: Scanning}
	for st.state != Done {
		if st.index >= to {
			st.state = Done
			break
		}
		e, ok := w.step(glyphs, run, st, to)
		if ok {
			e.Glyph = e.Glyph.Inherit(metrics)
			if w.Kerning && st.lastName+st.lastUnicode != "" {
				e.Kerning = kern.AdjustmentFor(st.lastUnicode, st.lastName, e.Glyph.Unicode, e.Glyph.Name)
			}
			st.advance += e.Kerning + e.Glyph.Advance(run.ctx.Vertical)
			st.lastName, st.lastUnicode = e.Glyph.Name, e.Glyph.Unicode
		} else {
			st.state = Fallback
			e = Emission{Kind: GlyphMissing, Start: st.index, Length: 1, Char: run.lookup[st.index]}
			st.lastName, st.lastUnicode = "", ""
		}
		st.index += e.Length
		if !emit(e) {
			st.state = Done
			break
		}
		st.state = Scanning
	}
	tracer().Debugf("walked [%d…%d) up to %d, glyph advances = %g du", from, to, st.index, st.advance)
}

// step tries the keys matching at st.index, longest first, and returns the
// first compatible candidate.
func (w *Walker) step(glyphs *svgfont.GlyphTable, run TextRun, st *walkerState, to int) (Emission, bool) {
	vertical, lang := run.ctx.Vertical, run.ctx.Language
	for _, m := range glyphs.Matches(run.lookup[:to], st.index) {
		for _, g := range m.Candidates {
			if !IsCompatible(g, vertical, lang, run.forms, st.index, st.index+m.Length) {
				continue
			}
			if m.Length > 1 {
				st.state = MatchedLigature
			}
			return Emission{
				Kind:   GlyphFound,
				Glyph:  g,
				Start:  st.index,
				Length: m.Length,
				Char:   run.lookup[st.index],
			}, true
		}
	}
	return Emission{}, false
}

func (w *Walker) walkAltGlyphs(glyphs *svgfont.GlyphTable, metrics svgfont.FontMetrics,
	alt AltGlyphSubstitution, run TextRun, from, to int, emit func(Emission) bool) bool {
	//
	var found []svgfont.Glyph
	for _, name := range alt.Names {
		if g, ok := glyphs.LookupByName(name); ok {
			found = append(found, g)
		}
	}
	if len(found) == 0 {
		return false
	}
	for _, g := range found {
		e := Emission{
			Kind:   GlyphFound,
			Glyph:  g.Inherit(metrics),
			Start:  from,
			Length: to - from,
			Char:   run.lookup[from],
		}
		if !emit(e) {
			break
		}
	}
	return true
}
