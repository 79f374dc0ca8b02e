package svgshape

import (
	"io"

	"github.com/npillmayer/tyse-svg/core"
	"github.com/npillmayer/tyse-svg/core/dimen"
	"github.com/npillmayer/tyse-svg/core/font/svgfont"
	"github.com/npillmayer/tyse-svg/engine/glyphing"
	"github.com/npillmayer/uax/uax11"
	"golang.org/x/text/language"
)

// Shaper measures and draws runs of text with an SVG font at a given size.
// Sizes are in user space units.
type Shaper struct {
	font   *svgfont.Font
	size   float32
	system SystemFont
}

// NewShaper creates a shaper for font f at a given size. Characters f does
// not define are delegated to system. If system is nil, Go Sans will be
// used.
func NewShaper(f *svgfont.Font, size float32, system SystemFont) *Shaper {
	if size <= 0 {
		size = 16
	}
	if system == nil {
		tc, err := systemFontCase(size)
		if err != nil {
			tracer().Errorf("cannot prepare system font: %v", err)
		}
		system = NewSystemFallback(tc)
	}
	return &Shaper{font: f, size: size, system: system}
}

// WithSize returns a shaper for the same font at a different size.
func (s *Shaper) WithSize(size float32) *Shaper {
	if size <= 0 || size == s.size {
		return s
	}
	sys := s.system
	if sf, ok := sys.(*systemFallback); ok {
		sys = sf.resized(size)
	}
	return &Shaper{font: s.font, size: size, system: sys}
}

// Size returns the font size of the shaper.
func (s *Shaper) Size() float32 {
	return s.size
}

// Font returns the SVG font of the shaper.
func (s *Shaper) Font() *svgfont.Font {
	return s.font
}

func (s *Shaper) scale() float32 {
	return s.font.Metrics().Scale(s.size)
}

// Measurement is the result of measuring a range of a run.
type Measurement struct {
	Advance       float32 // in user space units
	CharsConsumed int
	GlyphName     string // name of the last glyph found in the font
}

// MeasureRun returns the advance of a run, in user space units. For
// vertical runs this is the vertical advance. Kerning is not applied.
func (s *Shaper) MeasureRun(run TextRun) float32 {
	return s.MeasureRange(run, 0, run.Len()).Advance
}

// MeasureRange measures the characters [from…to) of a run. Kerning is not
// applied.
func (s *Shaper) MeasureRange(run TextRun, from, to int) Measurement {
	var m Measurement
	scale := s.scale()
	w := NewWalker(s.font)
	start := from
	if start < 0 {
		start = 0
	}
	w.Walk(run, from, to, func(e Emission) bool {
		p := s.place(e, scale, run.ctx.Vertical)
		m.Advance += p.Advance
		// alt-glyphs each span the whole range
		if n := e.Start + e.Length - start; n > m.CharsConsumed {
			m.CharsConsumed = n
		}
		if e.Kind == GlyphFound {
			m.GlyphName = e.Glyph.Name
		}
		return true
	})
	return m
}

// Layout computes the placement of every glyph of a run, with kerning
// applied between consecutive glyphs found in the font. Placements are in
// logical order.
//
// Horizontal runs start at origin and advance to the right; right-to-left
// runs are placed such that the run occupies the same extent, with the
// first character at the right edge. Vertical runs advance downwards.
func (s *Shaper) Layout(run TextRun, origin dimen.Point) []Placement {
	scale := s.scale()
	vertical := run.ctx.Vertical
	w := NewWalker(s.font)
	w.Kerning = true
	var places []Placement
	pens := make([]float32, 0, run.Len())
	pen := float32(0)
	w.Walk(run, 0, run.Len(), func(e Emission) bool {
		p := s.place(e, scale, vertical)
		pen += e.Kerning * scale
		pens = append(pens, pen)
		pen += p.Advance
		places = append(places, p)
		return true
	})
	total := pen
	for i := range places {
		switch {
		case vertical:
			places[i].At = origin.Shift(dimen.Point{Y: pens[i]})
		case run.rtl:
			places[i].At = origin.Shift(dimen.Point{X: total - (pens[i] + places[i].Advance)})
		default:
			places[i].At = origin.Shift(dimen.Point{X: pens[i]})
		}
	}
	return places
}

// place computes everything of a placement except its position.
func (s *Shaper) place(e Emission, scale float32, vertical bool) Placement {
	p := Placement{
		Char:   e.Char,
		Start:  e.Start,
		Length: e.Length,
		Scale:  scale,
	}
	switch e.Kind {
	case GlyphFound:
		p.Glyph = e.Glyph
		p.Advance = e.Glyph.Advance(vertical) * scale
	case GlyphMissing:
		action := ResolveMissing(s.font, e.Char)
		if action.Kind == UseDeclaredMissingGlyph {
			p.Glyph = action.Glyph
			p.Advance = action.Glyph.Advance(vertical) * scale
		} else {
			p.System = true
			if vertical {
				p.Advance = s.system.LineHeight()
			} else {
				p.Advance = s.system.Measure(e.Char)
			}
		}
	}
	if vertical {
		p.Upright = uax11.Width([]byte(string(e.Char)), uax11.LatinContext) == 2
	}
	return p
}

// DrawRun paints a run onto gc, starting at origin.
func (s *Shaper) DrawRun(gc GraphicsContext, run TextRun, origin dimen.Point) {
	for _, p := range s.Layout(run, origin) {
		if p.System {
			s.system.Draw(gc, p.Char, p.At)
			continue
		}
		gc.FillGlyph(p.Glyph, p)
	}
}

// GlyphFor returns the glyph with a given ID, with inherited metrics.
func (s *Shaper) GlyphFor(id svgfont.GlyphID) (svgfont.Glyph, bool) {
	g, ok := s.font.Glyphs().LookupByID(id)
	if !ok {
		return svgfont.Glyph{}, false
	}
	return g.Inherit(s.font.Metrics()), true
}

// AdvanceFor returns the horizontal and vertical advance of a glyph, in user
// space units. For unknown IDs, both are 0.
func (s *Shaper) AdvanceFor(id svgfont.GlyphID) (h, v float32) {
	g, ok := s.GlyphFor(id)
	if !ok {
		return 0, 0
	}
	scale := s.scale()
	return g.Advance(false) * scale, g.Advance(true) * scale
}

// OffsetForPosition returns the character position closest to offset x
// (along the writing direction) within a run laid out at the origin.
func (s *Shaper) OffsetForPosition(run TextRun, x float32) int {
	places := s.Layout(run, dimen.Origin)
	for _, p := range places {
		left := p.At.X
		if run.ctx.Vertical {
			left = p.At.Y
		}
		right := left + p.Advance
		if x < left || x >= right {
			continue
		}
		before := x < left+p.Advance/2
		if run.rtl {
			before = !before
		}
		if before {
			return p.Start
		}
		return p.Start + p.Length
	}
	if (x < 0) != run.rtl {
		return 0
	}
	return run.Len()
}

// Shape is part of interface glyphing.Shaper. It lays out the text read
// from text and returns a glyph sequence. Glyphs delegated to the system
// font are flagged as fallback glyphs and have GID 0.
func (s *Shaper) Shape(text io.RuneReader, buf []glyphing.ShapedGlyph, ctx [][]rune,
	params glyphing.Params) (glyphing.GlyphSequence, error) {
	//
	if text == nil {
		return glyphing.GlyphSequence{}, nil
	}
	var runes []rune
	for {
		r, _, err := text.ReadRune()
		if err == io.EOF {
			break
		} else if err != nil {
			return glyphing.GlyphSequence{}, core.WrapError(err, core.EINVALID, "cannot read text to shape")
		}
		runes = append(runes, r)
	}
	sh := s.WithSize(params.Size)
	rc := RunContext{Vertical: params.Direction.IsVertical()}
	if params.Language != language.Und {
		rc.Language = params.Language.String()
	}
	run := NewTextRun(string(runes), params.Direction == glyphing.RightToLeft, rc)
	seq := glyphing.GlyphSequence{Glyphs: buf[:0]}
	if seq.Glyphs == nil {
		seq.Glyphs = make([]glyphing.ShapedGlyph, 0, run.Len())
	}
	for _, p := range sh.Layout(run, dimen.Origin) {
		g := glyphing.ShapedGlyph{
			ClusterID: p.Start,
			Length:    p.Length,
			XOffset:   p.At.X,
			YOffset:   p.At.Y,
			GID:       glyphing.GlyphIndex(p.Glyph.ID),
			CodePoint: p.Char,
			Fallback:  p.System,
		}
		end := p.At.X + p.Advance
		if rc.Vertical {
			g.YAdvance = p.Advance
			end = p.At.Y + p.Advance
		} else {
			g.XAdvance = p.Advance
		}
		seq.Glyphs = append(seq.Glyphs, g)
		if end > seq.W { // W is the kerned extent of the run
			seq.W = end
		}
	}
	m := sh.font.Metrics()
	seq.H = m.Ascent * sh.scale()
	seq.D = m.Descent * sh.scale()
	return seq, nil
}

var _ glyphing.Shaper = &Shaper{}
