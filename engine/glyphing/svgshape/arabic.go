package svgshape

import (
	"unicode"

	"github.com/npillmayer/tyse-svg/core/font/svgfont"
)

// joiningType is the Arabic joining behaviour of a character.
type joiningType uint8

const (
	jtU joiningType = iota // non-joining
	jtL                    // left-joining
	jtR                    // right-joining
	jtD                    // dual-joining
	jtC                    // join-causing
	jtT                    // transparent
)

type joiningRange struct {
	first, last rune
	jt          joiningType
}

// joiningRanges covers the joining characters of the Arabic, Arabic
// Supplement and Arabic Extended-A blocks, sorted. Marks are handled by
// general category.
var joiningRanges = []joiningRange{
	{0x0620, 0x0620, jtD},
	{0x0622, 0x0625, jtR},
	{0x0626, 0x0626, jtD},
	{0x0627, 0x0627, jtR},
	{0x0628, 0x0628, jtD},
	{0x0629, 0x0629, jtR},
	{0x062A, 0x062E, jtD},
	{0x062F, 0x0632, jtR},
	{0x0633, 0x063F, jtD},
	{0x0640, 0x0640, jtC},
	{0x0641, 0x0647, jtD},
	{0x0648, 0x0648, jtR},
	{0x0649, 0x064A, jtD},
	{0x066E, 0x066F, jtD},
	{0x0671, 0x0673, jtR},
	{0x0675, 0x0677, jtR},
	{0x0678, 0x0687, jtD},
	{0x0688, 0x0699, jtR},
	{0x069A, 0x06BF, jtD},
	{0x06C0, 0x06C0, jtR},
	{0x06C1, 0x06C2, jtD},
	{0x06C3, 0x06CB, jtR},
	{0x06CC, 0x06CC, jtD},
	{0x06CD, 0x06CD, jtR},
	{0x06CE, 0x06CE, jtD},
	{0x06CF, 0x06CF, jtR},
	{0x06D0, 0x06D1, jtD},
	{0x06D2, 0x06D3, jtR},
	{0x06D5, 0x06D5, jtR},
	{0x06DD, 0x06DD, jtU}, // end of ayah
	{0x06EE, 0x06EF, jtR},
	{0x06FA, 0x06FC, jtD},
	{0x06FF, 0x06FF, jtD},
	{0x0750, 0x0758, jtD},
	{0x0759, 0x075B, jtR},
	{0x075C, 0x076A, jtD},
	{0x076B, 0x076C, jtR},
	{0x076D, 0x0770, jtD},
	{0x0771, 0x0771, jtR},
	{0x0772, 0x0772, jtD},
	{0x0773, 0x0774, jtR},
	{0x0775, 0x0777, jtD},
	{0x0778, 0x0779, jtR},
	{0x077A, 0x077F, jtD},
	{0x08A0, 0x08A9, jtD},
	{0x08AA, 0x08AC, jtR},
	{0x08AE, 0x08AE, jtR},
	{0x08AF, 0x08B0, jtD},
	{0x08B1, 0x08B2, jtR},
	{0x08B3, 0x08B8, jtD},
	{0x08B9, 0x08B9, jtR},
	{0x08BA, 0x08C8, jtD},
	{0x08E2, 0x08E2, jtU}, // disputed end of ayah
}

func joiningTypeOf(r rune) joiningType {
	switch r {
	case 0x200C: // ZWNJ
		return jtU
	case 0x200D: // ZWJ
		return jtC
	}
	if r >= joiningRanges[0].first && r <= joiningRanges[len(joiningRanges)-1].last {
		lo, hi := 0, len(joiningRanges)-1
		for lo <= hi {
			mid := (lo + hi) / 2
			jr := joiningRanges[mid]
			switch {
			case r < jr.first:
				hi = mid - 1
			case r > jr.last:
				lo = mid + 1
			default:
				return jr.jt
			}
		}
	}
	if unicode.In(r, unicode.Mn, unicode.Me, unicode.Cf) {
		return jtT
	}
	return jtU
}

type joiningAction uint8

const (
	actNone joiningAction = iota
	actIsol
	actFina
	actMedi
	actInit
)

type joiningStep struct {
	prev, curr joiningAction
	next       uint8
}

// joiningStates is the state machine for Arabic joining. Rows are states,
// columns are joining types U, L, R, D (C joins like D).
//
//   0: previous character does not join
//   1: previous character is right-joining or isolated
//   2: previous character may join to the left and is isolated so far
//   3: previous character is dual-joining in final form
var joiningStates = [4][4]joiningStep{
	{{actNone, actNone, 0}, {actNone, actIsol, 2}, {actNone, actIsol, 1}, {actNone, actIsol, 2}},
	{{actNone, actNone, 0}, {actNone, actIsol, 2}, {actNone, actIsol, 1}, {actNone, actIsol, 2}},
	{{actNone, actNone, 0}, {actNone, actIsol, 2}, {actInit, actFina, 1}, {actInit, actFina, 3}},
	{{actNone, actNone, 0}, {actNone, actIsol, 2}, {actMedi, actFina, 1}, {actMedi, actFina, 3}},
}

func column(jt joiningType) int {
	switch jt {
	case jtL:
		return 1
	case jtR:
		return 2
	case jtD, jtC:
		return 3
	}
	return 0
}

// ArabicForms computes the joining form of every character of a run.
// Characters which do not take part in joining get FormNone. If text does
// not contain Arabic letters at all, every entry is FormNone.
//
// Right-to-left runs are in logical order. Left-to-right runs containing
// Arabic are taken to be in visual order and are analysed from their end.
func ArabicForms(text []rune, rtl bool) []svgfont.ArabicForm {
	forms := make([]svgfont.ArabicForm, len(text))
	if !containsArabic(text) {
		return forms
	}
	actions := make([]joiningAction, len(text))
	state, prev := uint8(0), -1
	for k := 0; k < len(text); k++ {
		i := k
		if !rtl {
			i = len(text) - 1 - k
		}
		jt := joiningTypeOf(text[i])
		if jt == jtT {
			continue
		}
		step := joiningStates[state][column(jt)]
		if prev >= 0 && step.prev != actNone {
			actions[prev] = step.prev
		}
		actions[i] = step.curr
		state, prev = step.next, i
	}
	for i, a := range actions {
		switch a {
		case actIsol:
			forms[i] = svgfont.FormIsolated
		case actFina:
			forms[i] = svgfont.FormFinal
		case actMedi:
			forms[i] = svgfont.FormMedial
		case actInit:
			forms[i] = svgfont.FormInitial
		}
	}
	return forms
}

func containsArabic(text []rune) bool {
	for _, r := range text {
		if unicode.Is(unicode.Arabic, r) {
			return true
		}
	}
	return false
}
