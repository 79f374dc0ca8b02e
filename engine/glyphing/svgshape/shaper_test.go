package svgshape

import (
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/tyse-svg/core/dimen"
	"github.com/npillmayer/tyse-svg/core/font/svgfont"
	"github.com/npillmayer/tyse-svg/core/option"
	"github.com/npillmayer/tyse-svg/engine/glyphing"
	"github.com/stretchr/testify/suite"
	"golang.org/x/text/language"
)

// fixedSystem is a system font where every character has the same width.
type fixedSystem float32

func (fs fixedSystem) Measure(ch rune) float32 {
	return float32(fs)
}

func (fs fixedSystem) LineHeight() float32 {
	return 2 * float32(fs)
}

func (fs fixedSystem) Draw(gc GraphicsContext, ch rune, origin dimen.Point) {
	gc.FillRune(nil, ch, origin)
}

func glyph(name, unicode string, adv float32) svgfont.Glyph {
	g := svgfont.NewGlyph(name, unicode)
	g.HorizAdvX = option.SomeFloat32(adv)
	return g
}

func kernGlyphs(g1, g2 string, adj float32) svgfont.KerningPair {
	p := svgfont.KerningPair{
		Side1:      svgfont.NewKerningSide(),
		Side2:      svgfont.NewKerningSide(),
		Adjustment: adj,
	}
	p.Side1.Glyphs.Add(g1)
	p.Side2.Glyphs.Add(g2)
	return p
}

// newFont creates a font with 1000 units per em, to be used at size 1000,
// i.e. design units equal user space units.
func newFont(glyphs ...svgfont.Glyph) *svgfont.Font {
	f := svgfont.NewFont("test")
	decl := svgfont.NewMetricsDecl()
	decl.UnitsPerEm = option.SomeFloat32(1000)
	f.SetMetrics(decl)
	for _, g := range glyphs {
		f.AddGlyph(g)
	}
	return f
}

type ShaperSuite struct {
	suite.Suite
	teardown func()
	font     *svgfont.Font
	shaper   *Shaper
}

func TestShaperSuite(t *testing.T) {
	suite.Run(t, new(ShaperSuite))
}

func (s *ShaperSuite) SetupTest() {
	s.teardown = gotestingadapter.QuickConfig(s.T(), "tyse.glyphs")
	s.font = newFont(glyph("A", "A", 10), glyph("B", "B", 12))
	s.font.AddHKern(kernGlyphs("A", "B", -2))
	s.shaper = NewShaper(s.font, 1000, fixedSystem(7))
}

func (s *ShaperSuite) TearDownTest() {
	s.teardown()
}

func (s *ShaperSuite) TestKerningInDrawModeOnly() {
	run := NewTextRun("AB", false, RunContext{})
	places := s.shaper.Layout(run, dimen.Origin)
	s.Require().Len(places, 2)
	s.Equal(float32(0), places[0].At.X)
	s.Equal(float32(8), places[1].At.X)
	s.Equal(float32(20), places[1].At.X+places[1].Advance, "drawn extent includes kerning")
	s.Equal(float32(22), s.shaper.MeasureRun(run), "measurement sums declared advances")
}

func (s *ShaperSuite) TestDrawRun() {
	rec := &Recorder{}
	run := NewTextRun("AB?", false, RunContext{})
	s.shaper.DrawRun(rec, run, dimen.Point{X: 100, Y: 50})
	s.Require().Len(rec.Calls, 3)
	s.Equal("A", rec.Calls[0].GlyphName)
	s.Equal(dimen.Point{X: 100, Y: 50}, rec.Calls[0].At)
	s.Equal(dimen.Point{X: 108, Y: 50}, rec.Calls[1].At)
	s.True(rec.Calls[2].System)
	s.Equal('?', rec.Calls[2].Char)
	s.Equal(dimen.Point{X: 120, Y: 50}, rec.Calls[2].At)
}

func (s *ShaperSuite) TestMeasureIsIdempotent() {
	run := NewTextRun("ABBA x", false, RunContext{})
	first := s.shaper.MeasureRun(run)
	s.Equal(first, s.shaper.MeasureRun(run))
	s.Equal(float32(10+12+12+10+7+7), first)
}

func (s *ShaperSuite) TestMeasureRange() {
	run := NewTextRun("ABAB", false, RunContext{})
	m := s.shaper.MeasureRange(run, 1, 3)
	s.Equal(float32(22), m.Advance)
	s.Equal(2, m.CharsConsumed)
	s.Equal("A", m.GlyphName)
	s.Equal(Measurement{}, s.shaper.MeasureRange(run, 3, 3))
}

func (s *ShaperSuite) TestMeasureAltGlyphRange() {
	ctx := RunContext{Substitution: AltGlyphSubstitution{Names: []string{"A", "B"}}}
	run := NewTextRun("abc", false, ctx)
	m := s.shaper.MeasureRange(run, 0, run.Len())
	s.Equal(float32(22), m.Advance)
	s.Equal(3, m.CharsConsumed, "alt-glyphs together consume the run once")
	s.Equal("B", m.GlyphName)
	m = s.shaper.MeasureRange(run, 1, run.Len())
	s.Equal(2, m.CharsConsumed)
}

func (s *ShaperSuite) TestEmptyRun() {
	run := NewTextRun("", false, RunContext{})
	s.Equal(float32(0), s.shaper.MeasureRun(run))
	s.Empty(s.shaper.Layout(run, dimen.Origin))
	rec := &Recorder{}
	s.shaper.DrawRun(rec, run, dimen.Origin)
	s.Empty(rec.Calls)
}

func (s *ShaperSuite) TestRightToLeftPlacement() {
	run := NewTextRun("AB", true, RunContext{})
	places := s.shaper.Layout(run, dimen.Origin)
	s.Require().Len(places, 2)
	s.Equal(float32(10), places[0].At.X, "first character at the right edge")
	s.Equal(float32(0), places[1].At.X)
}

func (s *ShaperSuite) TestGlyphAndAdvanceFor() {
	a, ok := s.font.Glyphs().LookupByName("A")
	s.Require().True(ok)
	g, ok := s.shaper.GlyphFor(a.ID)
	s.True(ok)
	s.False(g.VertAdvY.IsNone(), "glyph should have inherited metrics")
	h, v := s.shaper.AdvanceFor(a.ID)
	s.Equal(float32(10), h)
	s.Equal(float32(1000), v)
	h, v = s.shaper.AdvanceFor(999)
	s.Equal(float32(0), h+v)
	h, _ = s.shaper.WithSize(500).AdvanceFor(a.ID)
	s.Equal(float32(5), h)
}

func (s *ShaperSuite) TestOffsetForPosition() {
	run := NewTextRun("AB", false, RunContext{})
	s.Equal(0, s.shaper.OffsetForPosition(run, 3))
	s.Equal(1, s.shaper.OffsetForPosition(run, 7))
	s.Equal(2, s.shaper.OffsetForPosition(run, 15))
	s.Equal(0, s.shaper.OffsetForPosition(run, -1))
	s.Equal(2, s.shaper.OffsetForPosition(run, 100))
}

func (s *ShaperSuite) TestShapeInterface() {
	var sh glyphing.Shaper = s.shaper
	seq, err := sh.Shape(strings.NewReader("AB!"), nil, nil, glyphing.Params{
		Direction: glyphing.LeftToRight,
		Language:  language.English,
	})
	s.Require().NoError(err)
	s.Require().Len(seq.Glyphs, 3)
	s.NotZero(seq.Glyphs[0].GID)
	s.Equal(float32(8), seq.Glyphs[1].XOffset)
	s.True(seq.Glyphs[2].Fallback)
	s.Equal(glyphing.GlyphIndex(0), seq.Glyphs[2].GID)
	s.Equal(float32(10-2+12+7), seq.W)
	s.Equal(float32(800), seq.H)
}

func (s *ShaperSuite) TestShapedExtentIncludesKerning() {
	for _, dir := range []glyphing.Direction{glyphing.LeftToRight, glyphing.RightToLeft} {
		seq, err := s.shaper.Shape(strings.NewReader("AB"), nil, nil, glyphing.Params{Direction: dir})
		s.Require().NoError(err)
		s.Require().Len(seq.Glyphs, 2)
		w, _, _ := seq.BoundingBox()
		s.Equal(float32(20), w, "direction %v", dir)
		last := seq.Glyphs[1]
		if dir == glyphing.LeftToRight {
			s.Equal(seq.W, last.XOffset+last.XAdvance)
		}
	}
}

// ---------------------------------------------------------------------------

func TestDeclaredMissingGlyph(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tyse.glyphs")
	defer teardown()
	//
	f := newFont(glyph("A", "A", 10))
	f.AddMissingGlyph(glyph("", "", 5))
	sh := NewShaper(f, 1000, fixedSystem(7))
	run := NewTextRun("Z", false, RunContext{})
	places := sh.Layout(run, dimen.Origin)
	if len(places) != 1 {
		t.Fatalf("expected 1 placement, have %d", len(places))
	}
	if places[0].System {
		t.Errorf("expected declared missing glyph, not delegation to system font")
	}
	if places[0].Advance != 5 {
		t.Errorf("expected advance 5, have %g", places[0].Advance)
	}
	if a := ResolveMissing(f, 'Z'); a.Kind != UseDeclaredMissingGlyph {
		t.Errorf("expected ResolveMissing to use declared missing glyph")
	}
	if a := ResolveMissing(newFont(), 'Z'); a.Kind != DelegateToSystemFont || a.Char != 'Z' {
		t.Errorf("expected ResolveMissing to delegate to system font")
	}
}

func TestVerticalExclusivity(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tyse.glyphs")
	defer teardown()
	//
	x := glyph("x.vert", "x", 10)
	x.Orientation = svgfont.OrientVertical
	x.VertAdvY = option.SomeFloat32(20)
	f := newFont(x)
	sh := NewShaper(f, 1000, fixedSystem(7))
	//
	rec := &Recorder{}
	sh.DrawRun(rec, NewTextRun("x", false, RunContext{}), dimen.Origin)
	if len(rec.Calls) != 1 || !rec.Calls[0].System {
		t.Errorf("expected vertical-only glyph to be rejected in horizontal text, have %v", rec.Calls)
	}
	//
	run := NewTextRun("xx", false, RunContext{Vertical: true})
	places := sh.Layout(run, dimen.Point{X: 5, Y: 5})
	if len(places) != 2 || places[0].System || places[1].System {
		t.Fatalf("expected 2 glyphs from the font in vertical text, have %v", places)
	}
	if places[1].At != (dimen.Point{X: 5, Y: 25}) {
		t.Errorf("expected second glyph at (5,25), is %v", places[1].At)
	}
	if sh.MeasureRun(run) != 40 {
		t.Errorf("expected vertical advance of 40, have %g", sh.MeasureRun(run))
	}
}

func TestUprightInVerticalText(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tyse.glyphs")
	defer teardown()
	//
	sh := NewShaper(newFont(glyph("ka", "カ", 1000), glyph("a", "a", 500)), 1000, fixedSystem(7))
	places := sh.Layout(NewTextRun("カa", false, RunContext{Vertical: true}), dimen.Origin)
	if len(places) != 2 {
		t.Fatalf("expected 2 placements, have %d", len(places))
	}
	if !places[0].Upright || places[1].Upright {
		t.Errorf("expected wide character upright and latin character rotated")
	}
}

func TestSystemFontInVerticalText(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tyse.glyphs")
	defer teardown()
	//
	sh := NewShaper(newFont(glyph("a", "a", 500)), 1000, fixedSystem(7))
	run := NewTextRun("?a", false, RunContext{Vertical: true})
	places := sh.Layout(run, dimen.Origin)
	if len(places) != 2 || !places[0].System {
		t.Fatalf("expected system placement followed by a glyph, have %v", places)
	}
	if places[0].Advance != 14 {
		t.Errorf("expected system character to advance by line height 14, have %g", places[0].Advance)
	}
	if places[1].At.Y != 14 {
		t.Errorf("expected glyph below system character at y=14, is %v", places[1].At)
	}
	if w := sh.MeasureRun(NewTextRun("?", false, RunContext{})); w != 7 {
		t.Errorf("expected horizontal system advance of 7, have %g", w)
	}
}

func TestDefaultSystemFont(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tyse.glyphs")
	defer teardown()
	//
	sh := NewShaper(newFont(), 12, nil)
	w := sh.MeasureRun(NewTextRun("M", false, RunContext{}))
	if w <= 0 || w > 24 {
		t.Errorf("expected a plausible width of 'M' from Go Sans at 12px, have %g", w)
	}
	sh2 := sh.WithSize(24)
	if w2 := sh2.MeasureRun(NewTextRun("M", false, RunContext{})); w2 <= w {
		t.Errorf("expected 'M' at 24px to be wider than at 12px, have %g <= %g", w2, w)
	}
}
