package svgshape

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/tyse-svg/core/font/svgfont"
	"github.com/stretchr/testify/assert"
)

func TestCompatibleOrientation(t *testing.T) {
	g := glyph("a", "a", 1)
	g.ID = 1
	assert.True(t, IsCompatible(g, false, "", nil, 0, 1))
	assert.True(t, IsCompatible(g, true, "", nil, 0, 1))
	g.Orientation = svgfont.OrientHorizontal
	assert.True(t, IsCompatible(g, false, "", nil, 0, 1))
	assert.False(t, IsCompatible(g, true, "", nil, 0, 1))
	g.Orientation = svgfont.OrientVertical
	assert.False(t, IsCompatible(g, false, "", nil, 0, 1))
	assert.True(t, IsCompatible(g, true, "", nil, 0, 1))
}

func TestCompatibleLanguage(t *testing.T) {
	g := glyph("a", "a", 1)
	g.ID = 1
	g.Languages = []string{"en", "sr-Latn"}
	assert.True(t, IsCompatible(g, false, "en", nil, 0, 1))
	assert.True(t, IsCompatible(g, false, "EN", nil, 0, 1))
	assert.True(t, IsCompatible(g, false, "en-US", nil, 0, 1))
	assert.True(t, IsCompatible(g, false, "sr-latn", nil, 0, 1))
	assert.False(t, IsCompatible(g, false, "de", nil, 0, 1))
	assert.False(t, IsCompatible(g, false, "", nil, 0, 1), "constrained glyph needs a language")
}

func TestCompatibleArabicForm(t *testing.T) {
	g := glyph("beh", "ب", 1)
	g.ID = 1
	g.Form = svgfont.FormInitial
	forms := []svgfont.ArabicForm{svgfont.FormInitial, svgfont.FormFinal}
	assert.True(t, IsCompatible(g, false, "", forms, 0, 1))
	assert.False(t, IsCompatible(g, false, "", forms, 1, 2))
	assert.True(t, IsCompatible(g, false, "", []svgfont.ArabicForm{svgfont.FormNone}, 0, 1))
	assert.True(t, IsCompatible(g, false, "", nil, 0, 1))
}

func TestPlaceholderNeverCompatible(t *testing.T) {
	g := glyph("", "f", 1)
	g.ID = 1
	g.IsLigaturePart = true
	assert.False(t, IsCompatible(g, false, "", nil, 0, 1))
	assert.False(t, IsCompatible(svgfont.Glyph{}, false, "", nil, 0, 1), "zero glyph is invalid")
}

func TestArabicForms(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tyse.glyphs")
	defer teardown()
	//
	I, M, F, S, N := svgfont.FormInitial, svgfont.FormMedial, svgfont.FormFinal,
		svgfont.FormIsolated, svgfont.FormNone
	for _, tc := range []struct {
		text  string
		rtl   bool
		forms []svgfont.ArabicForm
	}{
		{"بيت", true, []svgfont.ArabicForm{I, M, F}},
		{"باب", true, []svgfont.ArabicForm{I, F, S}},
		{"\u0628\u064e\u062a", true, []svgfont.ArabicForm{I, N, F}}, // fatha is transparent
		{"ب ب", true, []svgfont.ArabicForm{S, N, S}},
		{"بيت", false, []svgfont.ArabicForm{F, M, I}},
		{"abc", true, []svgfont.ArabicForm{N, N, N}},
		{"\u0628\u200c\u0628", true, []svgfont.ArabicForm{S, N, S}}, // ZWNJ breaks joining
		{"\u0628\u0640", true, []svgfont.ArabicForm{I, F}},             // tatweel joins
		{"\u0750\u0750\u0759", true, []svgfont.ArabicForm{I, M, F}},  // Arabic Supplement
		{"\u08A0\u08AA\u08A0", true, []svgfont.ArabicForm{I, F, S}},  // Arabic Extended-A
	} {
		assert.Equal(t, tc.forms, ArabicForms([]rune(tc.text), tc.rtl), "text %+q, rtl=%v", tc.text, tc.rtl)
	}
}

func TestRunNormalization(t *testing.T) {
	run := NewTextRun("a\tb c\n", false, RunContext{})
	assert.Equal(t, "a b c ", run.String())
	assert.Equal(t, 6, run.Len())
	_, plain := run.Context().Substitution.(Plain)
	assert.True(t, plain, "default substitution should be plain")
	rtl := NewTextRun("(a<", true, RunContext{})
	assert.Equal(t, []rune(")a>"), rtl.lookup)
	assert.Equal(t, '(', rtl.At(0), "text itself stays unmirrored")
}
