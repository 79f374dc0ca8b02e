package svgshape

import (
	"github.com/npillmayer/tyse-svg/core/font/svgfont"
	"golang.org/x/text/unicode/bidi"
)

// Substitution tells the walker whether glyphs of a run are selected from
// the text or are given explicitly by name. It is either Plain or
// AltGlyphSubstitution.
type Substitution interface {
	isSubstitution()
}

// Plain selects glyphs from the characters of a run.
type Plain struct{}

// AltGlyphSubstitution replaces the whole run by glyphs with given names
// (as requested by an SVG <altGlyph> element).
type AltGlyphSubstitution struct {
	Names []string
}

func (Plain) isSubstitution()                {}
func (AltGlyphSubstitution) isSubstitution() {}

// RunContext is what the layout engine knows about the surroundings of a
// run of text.
type RunContext struct {
	Vertical     bool         // vertical writing mode
	Language     string       // BCP 47 language tag, may be empty
	Substitution Substitution // nil is Plain
}

// TextRun is an immutable run of text. Text is stored in logical order.
type TextRun struct {
	text   []rune               // spaces normalized
	lookup []rune               // text as used for glyph lookup (mirrored for RTL)
	forms  []svgfont.ArabicForm // one per rune
	rtl    bool
	ctx    RunContext
}

// NewTextRun creates a text run. White space characters TAB, LF, CR and
// NO-BREAK SPACE are replaced by SPACE.
func NewTextRun(s string, rtl bool, ctx RunContext) TextRun {
	if ctx.Substitution == nil {
		ctx.Substitution = Plain{}
	}
	run := TextRun{
		text: normalizeSpaces([]rune(s)),
		rtl:  rtl,
		ctx:  ctx,
	}
	run.lookup = run.text
	if rtl {
		run.lookup = mirrored(run.text)
	}
	run.forms = ArabicForms(run.text, rtl)
	return run
}

// Len returns the number of characters of the run.
func (run TextRun) Len() int {
	return len(run.text)
}

// String returns the (normalized) text of the run.
func (run TextRun) String() string {
	return string(run.text)
}

// RTL is true for right-to-left runs.
func (run TextRun) RTL() bool {
	return run.rtl
}

// Context returns the run's context.
func (run TextRun) Context() RunContext {
	return run.ctx
}

// At returns the character at position i.
func (run TextRun) At(i int) rune {
	return run.text[i]
}

func normalizeSpaces(text []rune) []rune {
	for i, r := range text {
		switch r {
		case '\t', '\n', '\r', '\u00a0':
			text[i] = ' '
		}
	}
	return text
}

var extraMirrors = map[rune]rune{
	'<': '>', '>': '<',
	'«': '»', '»': '«',
	'‹': '›', '›': '‹',
	'≤': '≥', '≥': '≤',
}

// mirrored returns a copy of text with mirrorable characters replaced by
// their mirror images. Paired brackets are taken from the Unicode bidi
// tables.
func mirrored(text []rune) []rune {
	m := make([]rune, len(text))
	for i, r := range text {
		m[i] = mirror(r)
	}
	return m
}

func mirror(r rune) rune {
	if mr, ok := extraMirrors[r]; ok {
		return mr
	}
	props, _ := bidi.LookupRune(r)
	if !props.IsBracket() {
		return r
	}
	// ReverseString maps paired brackets to their counterpart
	return []rune(bidi.ReverseString(string(r)))[0]
}
