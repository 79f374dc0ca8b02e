package svgshape

import (
	"strings"

	"github.com/npillmayer/tyse-svg/core/font/svgfont"
	"golang.org/x/text/language"
)

// IsCompatible decides if glyph g may be used for the characters
// [start…end) of a run.
//
// A glyph restricted to a writing mode is compatible with text in this
// mode only. A glyph restricted to languages requires the run's language
// to be one of them, either exactly or by its primary subtag ("en-US" is
// accepted by a glyph for "en"). A glyph with an Arabic form requires the
// run's form at start to be either the same or FormNone.
// Ligature-part placeholders are never compatible.
func IsCompatible(g svgfont.Glyph, vertical bool, lang string, forms []svgfont.ArabicForm,
	start, end int) bool {
	//
	if g.IsLigaturePart || !g.IsValid() {
		return false
	}
	switch g.Orientation {
	case svgfont.OrientHorizontal:
		if vertical {
			return false
		}
	case svgfont.OrientVertical:
		if !vertical {
			return false
		}
	}
	if len(g.Languages) > 0 && !matchesLanguage(g.Languages, lang) {
		return false
	}
	if g.Form != svgfont.FormNone && start < end && start < len(forms) {
		if f := forms[start]; f != svgfont.FormNone && f != g.Form {
			return false
		}
	}
	return true
}

func matchesLanguage(accepted []string, lang string) bool {
	lang = strings.TrimSpace(lang)
	if lang == "" {
		return false
	}
	primary := primarySubtag(lang)
	for _, a := range accepted {
		if strings.EqualFold(a, lang) || strings.EqualFold(a, primary) {
			return true
		}
	}
	return false
}

func primarySubtag(lang string) string {
	if tag, err := language.Parse(lang); err == nil {
		if base, conf := tag.Base(); conf != language.No {
			return base.String()
		}
	}
	if i := strings.IndexAny(lang, "-_"); i > 0 {
		return lang[:i]
	}
	return lang
}
