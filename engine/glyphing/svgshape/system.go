package svgshape

import (
	"github.com/npillmayer/tyse-svg/core/dimen"
	"github.com/npillmayer/tyse-svg/core/font"
)

// SystemFont measures and draws characters an SVG font does not define.
type SystemFont interface {
	Measure(ch rune) float32 // advance in user space units
	LineHeight() float32     // advance in vertical text
	Draw(gc GraphicsContext, ch rune, origin dimen.Point)
}

type systemFallback struct {
	tc *font.TypeCase
}

// NewSystemFallback creates a SystemFont from an OpenType typecase.
// If tc is nil, Go Sans at 16px is used.
func NewSystemFallback(tc *font.TypeCase) SystemFont {
	if tc == nil {
		var err error
		if tc, err = font.FallbackFont().PrepareCase(16); err != nil {
			panic(err) // Go Sans is packaged with x/image
		}
	}
	return &systemFallback{tc: tc}
}

func (sf *systemFallback) Measure(ch rune) float32 {
	return sf.tc.GlyphAdvance(ch)
}

func (sf *systemFallback) LineHeight() float32 {
	return sf.tc.LineHeight()
}

func (sf *systemFallback) Draw(gc GraphicsContext, ch rune, origin dimen.Point) {
	gc.FillRune(sf.tc.Face(), ch, origin)
}

// resized returns a fallback of the same font at a different size.
func (sf *systemFallback) resized(size float32) SystemFont {
	tc, err := sf.tc.ScalableFontParent().PrepareCase(size)
	if err != nil {
		tracer().Errorf("cannot resize system font: %v", err)
		return sf
	}
	return &systemFallback{tc: tc}
}

func systemFontCase(size float32) (*font.TypeCase, error) {
	return font.FallbackFont().PrepareCase(size)
}
