/*
Package font is for typeface and font handling of binary (OpenType) fonts.

Text in this module is set primarily with SVG fonts (see package svgfont).
Characters an SVG font does not define are delegated to a "system" font,
which is a binary font handled by this package.

We stick to the following definitions:

* A "scalable font" is a font, i.e. a variant of a typeface with a
certain weight, slant, etc.  An example is "Helvetica regular".

* A "typecase" is a scaled font, i.e. a font in a certain size.
The name is reminiscend on the wooden boxes of typesetters in the aera of
metal type. An example is "Helvetica regular 11pt".

Please note that Go (Golang) does use the terms "font" and "face"
differently–actually more or less in an opposite manner.

----------------------------------------------------------------------

BSD License

Copyright (c) 2017-21, Norbert Pillmayer

All rights reserved.

Redistribution and use in source and binary forms, with or without
modification, are permitted provided that the following conditions
are met:

1. Redistributions of source code must retain the above copyright
notice, this list of conditions and the following disclaimer.

2. Redistributions in binary form must reproduce the above copyright
notice, this list of conditions and the following disclaimer in the
documentation and/or other materials provided with the distribution.

3. Neither the name of this software nor the names of its contributors
may be used to endorse or promote products derived from this software
without specific prior written permission.

THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS
"AS IS" AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT
LIMITED TO, THE IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR
A PARTICULAR PURPOSE ARE DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT
HOLDER OR CONTRIBUTORS BE LIABLE FOR ANY DIRECT, INDIRECT, INCIDENTAL,
SPECIAL, EXEMPLARY, OR CONSEQUENTIAL DAMAGES (INCLUDING, BUT NOT
LIMITED TO, PROCUREMENT OF SUBSTITUTE GOODS OR SERVICES; LOSS OF USE,
DATA, OR PROFITS; OR BUSINESS INTERRUPTION) HOWEVER CAUSED AND ON ANY
THEORY OF LIABILITY, WHETHER IN CONTRACT, STRICT LIABILITY, OR TORT
(INCLUDING NEGLIGENCE OR OTHERWISE) ARISING IN ANY WAY OUT OF THE USE
OF THIS SOFTWARE, EVEN IF ADVISED OF THE POSSIBILITY OF SUCH DAMAGE. */
package font

import (
	"os"
	"sync"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/tyse-svg/core"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// tracer writes to trace with key 'tyse.font'
func tracer() tracing.Trace {
	return tracing.Select("tyse.font")
}

// ScalableFont is an OpenType font which may be scaled to a TypeCase.
type ScalableFont struct {
	Fontname string
	Filepath string     // file path
	Binary   []byte     // raw data
	SFNT     *sfnt.Font // the font's container
}

// TypeCase is a ScalableFont at a given size.
// Sizes are given in user space units (px), which we equate with points.
type TypeCase struct {
	scalableFontParent *ScalableFont
	face               xfont.Face // Go uses 'face' and 'font' in an inverse manner
	size               float32
	mx                 sync.Mutex // x/image faces are not safe for concurrent use
}

// LoadOpenTypeFont loads a font from a file.
func LoadOpenTypeFont(fontfile string) (*ScalableFont, error) {
	bytez, err := os.ReadFile(fontfile)
	if err != nil {
		return nil, core.WrapError(err, core.EMISSING, "cannot read font file %s", fontfile)
	}
	f, err := ParseOpenTypeFont(bytez)
	if err != nil {
		return nil, err
	}
	f.Filepath = fontfile
	return f, nil
}

// ParseOpenTypeFont parses the binary data of an OpenType font.
func ParseOpenTypeFont(fbytes []byte) (f *ScalableFont, err error) {
	f = &ScalableFont{Binary: fbytes}
	f.SFNT, err = sfnt.Parse(f.Binary)
	if err != nil {
		return nil, core.WrapError(err, core.EINVALID, "cannot parse OpenType font")
	}
	f.Fontname, _ = f.SFNT.Name(nil, sfnt.NameIDFull)
	return
}

// PrepareCase creates a typecase of a given size.
// Sizes outside of [1…1000] are replaced by a size of 16.
func (sf *ScalableFont) PrepareCase(size float32) (*TypeCase, error) {
	if size < 1 || size > 1000 {
		tracer().Errorf("font size must be 1 <= size <= 1000, is %g (set to 16)", size)
		size = 16
	}
	options := &opentype.FaceOptions{
		Size:    float64(size),
		DPI:     72, // 1pt = 1 user space unit
		Hinting: xfont.HintingNone,
	}
	f, err := opentype.NewFace(sf.SFNT, options)
	if err != nil {
		return nil, core.WrapError(err, core.EINVALID, "cannot create face for %s", sf.Fontname)
	}
	return &TypeCase{
		scalableFontParent: sf,
		face:               f,
		size:               size,
	}, nil
}

// ScalableFontParent returns the font this typecase has been created from.
func (tc *TypeCase) ScalableFontParent() *ScalableFont {
	return tc.scalableFontParent
}

// Size returns the size of the typecase in user space units.
func (tc *TypeCase) Size() float32 {
	return tc.size
}

// Face returns the Go font face of this typecase.
func (tc *TypeCase) Face() xfont.Face {
	return tc.face
}

// HasGlyph is a predicate: does the font define a glyph for r?
func (tc *TypeCase) HasGlyph(r rune) bool {
	var buf sfnt.Buffer
	gid, err := tc.scalableFontParent.SFNT.GlyphIndex(&buf, r)
	return err == nil && gid != 0
}

// GlyphAdvance returns the advance width of r in user space units.
// For runes without a glyph, the advance of the font's .notdef glyph is
// returned.
func (tc *TypeCase) GlyphAdvance(r rune) float32 {
	tc.mx.Lock()
	defer tc.mx.Unlock()
	adv, ok := tc.face.GlyphAdvance(r)
	if !ok {
		tracer().Debugf("font %s has no glyph for %#U", tc.scalableFontParent.Fontname, r)
	}
	return fixedToFloat(adv)
}

// Ascent returns the ascent of the typecase in user space units.
func (tc *TypeCase) Ascent() float32 {
	tc.mx.Lock()
	defer tc.mx.Unlock()
	return fixedToFloat(tc.face.Metrics().Ascent)
}

// LineHeight returns ascent plus descent in user space units.
func (tc *TypeCase) LineHeight() float32 {
	tc.mx.Lock()
	defer tc.mx.Unlock()
	m := tc.face.Metrics()
	return fixedToFloat(m.Ascent + m.Descent)
}

func fixedToFloat(x fixed.Int26_6) float32 {
	return float32(x) / 64
}

// --- Fallback font ---------------------------------------------------------

// FallbackFont returns a font to be used if everything else failes. It is
// always present. Currently we use Go Sans.
func FallbackFont() *ScalableFont {
	fallbackFontLoading.Do(func() {
		fallbackFont = loadFallbackFont()
	})
	return fallbackFont
}

var fallbackFontLoading sync.Once

// fallbackFont is a font that is used if everything else failes.
var fallbackFont *ScalableFont

func loadFallbackFont() *ScalableFont {
	var err error
	gofont := &ScalableFont{
		Fontname: "Go Sans",
		Filepath: "internal",
		Binary:   goregular.TTF,
	}
	gofont.SFNT, err = sfnt.Parse(gofont.Binary)
	if err != nil {
		panic("cannot load default font") // this cannot happen
	}
	return gofont
}
