package svgshape

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/tyse-svg/core/dimen"
	"github.com/npillmayer/tyse-svg/core/font/svgfont"
	"github.com/stretchr/testify/assert"
)

func collect(w *Walker, run TextRun) []Emission {
	var es []Emission
	w.Walk(run, 0, run.Len(), func(e Emission) bool {
		es = append(es, e)
		return true
	})
	return es
}

func TestWalkPrefersLigature(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tyse.glyphs")
	defer teardown()
	//
	f := newFont(glyph("f", "f", 300), glyph("i", "i", 250), glyph("fi", "fi", 550))
	es := collect(NewWalker(f), NewTextRun("fi", false, RunContext{}))
	if assert.Len(t, es, 1) {
		assert.Equal(t, "fi", es[0].Glyph.Name)
		assert.Equal(t, 2, es[0].Length)
	}
	es = collect(NewWalker(f), NewTextRun("iff", false, RunContext{}))
	if assert.Len(t, es, 3) {
		assert.Equal(t, []int{0, 1, 2}, []int{es[0].Start, es[1].Start, es[2].Start})
	}
}

func TestWalkLigaturePartIsNotRendered(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tyse.glyphs")
	defer teardown()
	//
	f := newFont(glyph("fi", "fi", 550))
	assert.True(t, f.Glyphs().Contains("f"), "table should report placeholder as present")
	es := collect(NewWalker(f), NewTextRun("f", false, RunContext{}))
	if assert.Len(t, es, 1) {
		assert.Equal(t, GlyphMissing, es[0].Kind)
		assert.Equal(t, 'f', es[0].Char)
	}
	rec := &Recorder{}
	NewShaper(f, 1000, fixedSystem(7)).DrawRun(rec, NewTextRun("f", false, RunContext{}), dimen.Origin)
	if assert.Len(t, rec.Calls, 1) {
		assert.True(t, rec.Calls[0].System, "placeholder should be delegated like a missing character")
	}
}

func TestWalkFallsBackToShorterKey(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tyse.glyphs")
	defer teardown()
	//
	lig := glyph("f_i.ja", "fi", 550)
	lig.Languages = []string{"ja"}
	f := newFont(glyph("f", "f", 300), glyph("i", "i", 250), lig)
	es := collect(NewWalker(f), NewTextRun("fi", false, RunContext{Language: "en"}))
	assert.Len(t, es, 2, "ligature restricted to Japanese must not be used for English")
	es = collect(NewWalker(f), NewTextRun("fi", false, RunContext{Language: "ja-JP"}))
	assert.Len(t, es, 1)
}

func TestWalkStopsOnRequest(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tyse.glyphs")
	defer teardown()
	//
	f := newFont(glyph("A", "A", 10))
	n := 0
	NewWalker(f).Walk(NewTextRun("AAAA", false, RunContext{}), 0, 4, func(e Emission) bool {
		n++
		return n < 2
	})
	assert.Equal(t, 2, n)
}

func TestWalkKerning(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tyse.glyphs")
	defer teardown()
	//
	f := newFont(glyph("A", "A", 10), glyph("V", "V", 10))
	f.AddHKern(kernGlyphs("A", "V", -3))
	f.AddHKern(kernGlyphs("A", "V", -4))
	f.AddVKern(kernGlyphs("A", "V", -9))
	w := NewWalker(f)
	es := collect(w, NewTextRun("AVA?V", false, RunContext{}))
	for _, e := range es {
		assert.Equal(t, float32(0), e.Kerning, "kerning should be off by default")
	}
	w.Kerning = true
	es = collect(w, NewTextRun("AVA?V", false, RunContext{}))
	if assert.Len(t, es, 5) {
		assert.Equal(t, float32(-4), es[1].Kerning, "last registered pair should win")
		assert.Equal(t, float32(0), es[2].Kerning)
		assert.Equal(t, float32(0), es[4].Kerning, "no kerning across a missing glyph")
	}
	es = collect(w, NewTextRun("AV", false, RunContext{Vertical: true}))
	if assert.Len(t, es, 2) {
		assert.Equal(t, float32(-9), es[1].Kerning, "vertical text should use vkern")
	}
}

func TestWalkAltGlyphs(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tyse.glyphs")
	defer teardown()
	//
	f := newFont(glyph("A", "A", 10), glyph("swash", "", 30))
	ctx := RunContext{Substitution: AltGlyphSubstitution{Names: []string{"nope", "swash", "A"}}}
	es := collect(NewWalker(f), NewTextRun("AAA", false, ctx))
	if assert.Len(t, es, 2) {
		assert.Equal(t, "swash", es[0].Glyph.Name)
		assert.Equal(t, 0, es[0].Start)
		assert.Equal(t, 3, es[0].Length)
		assert.Equal(t, "A", es[1].Glyph.Name)
	}
	ctx = RunContext{Substitution: AltGlyphSubstitution{Names: []string{"nope"}}}
	es = collect(NewWalker(f), NewTextRun("AAA", false, ctx))
	assert.Len(t, es, 3, "unresolvable alt-glyphs should fall back to the text")
}

func TestWalkArabicForms(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tyse.glyphs")
	defer teardown()
	//
	var glyphs []svgfont.Glyph
	for _, form := range []svgfont.ArabicForm{svgfont.FormIsolated, svgfont.FormInitial,
		svgfont.FormMedial, svgfont.FormFinal} {
		g := glyph("beh."+form.String(), "ب", 400)
		g.Form = form
		glyphs = append(glyphs, g)
	}
	f := newFont(glyphs...)
	es := collect(NewWalker(f), NewTextRun("ببب", true, RunContext{}))
	if assert.Len(t, es, 3) {
		assert.Equal(t, "beh.initial", es[0].Glyph.Name)
		assert.Equal(t, "beh.medial", es[1].Glyph.Name)
		assert.Equal(t, "beh.terminal", es[2].Glyph.Name)
	}
	es = collect(NewWalker(f), NewTextRun("ب", true, RunContext{}))
	if assert.Len(t, es, 1) {
		assert.Equal(t, "beh.isolated", es[0].Glyph.Name)
	}
}
