package fontregistry

import (
	"fmt"
	"path"
	"regexp"
	"strings"
	"sync"

	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/tyse-svg/core"
	"github.com/npillmayer/tyse-svg/core/font"
	"github.com/npillmayer/tyse-svg/core/font/svgfont"
	xfont "golang.org/x/image/font"
)

// Registry is a type for holding information about loaded fonts.
// It holds SVG fonts, together with scalable system fonts and their
// typecases, which serve as fallback for characters missing from SVG fonts.
type Registry struct {
	sync.Mutex
	svgfonts  map[string]*svgfont.Font
	fonts     map[string]*font.ScalableFont
	typecases map[string]*font.TypeCase
}

var globalFontRegistry *Registry

var globalRegistryCreation sync.Once

// GlobalRegistry is an application-wide singleton to hold information about
// loaded fonts and typecases.
func GlobalRegistry() *Registry {
	globalRegistryCreation.Do(func() {
		globalFontRegistry = NewRegistry()
	})
	return globalFontRegistry
}

func NewRegistry() *Registry {
	fr := &Registry{
		svgfonts:  make(map[string]*svgfont.Font),
		fonts:     make(map[string]*font.ScalableFont),
		typecases: make(map[string]*font.TypeCase),
	}
	return fr
}

// StoreSVGFont pushes an SVG font into the registry if it isn't contained yet.
// The font is stored under its normalized name, derived from its family
// (or its identifier), style and weight. The key is returned.
//
// If the key is already associated with a font, that font will not be overridden.
func (fr *Registry) StoreSVGFont(f *svgfont.Font) string {
	if f == nil {
		tracer().Errorf("registry cannot store null font")
		return ""
	}
	m := f.Metrics()
	key := NormalizeFontname(f.Name(), m.Style, m.Weight)
	fr.Lock()
	defer fr.Unlock()
	if _, ok := fr.svgfonts[key]; !ok {
		tracer().Debugf("registry stores SVG font %s as %s", f.ID(), key)
		fr.svgfonts[key] = f
	}
	return key
}

// SVGFont returns the SVG font stored under key `normalizedName`.
func (fr *Registry) SVGFont(normalizedName string) (*svgfont.Font, error) {
	fr.Lock()
	defer fr.Unlock()
	if f, ok := fr.svgfonts[normalizedName]; ok {
		return f, nil
	}
	return nil, core.Error(core.EMISSING, "SVG font %s not found in registry", normalizedName)
}

// StoreFont pushes a scalable font into the registry if it isn't contained yet.
//
// The font will be stored using the normalized font name as a key. If this
// key is already associated with a font, that font will not be overridden.
func (fr *Registry) StoreFont(normalizedName string, f *font.ScalableFont) {
	if f == nil {
		tracer().Errorf("registry cannot store null font")
		return
	}
	fr.Lock()
	defer fr.Unlock()
	if _, ok := fr.fonts[normalizedName]; !ok {
		tracer().Debugf("registry stores font %s as %s", f.Fontname, normalizedName)
		fr.fonts[normalizedName] = f
	}
}

// TypeCase returns a concrete typecase with a given font and size.
// If a suitable typecase has already been cached, TypeCase will return the cached
// typecase. If a suitable font has previously been stored under key
// `normalizedName`, a typecase will be derived from this font.
//
// If no typecase can be produced, TypeCase will derive one from the
// fallback font and return it, together with an error.
func (fr *Registry) TypeCase(normalizedName string, size float32) (*font.TypeCase, error) {
	tracer().Debugf("registry searches for font %s at %.2f", normalizedName, size)
	tname := appendSize(normalizedName, size)
	fr.Lock()
	defer fr.Unlock()
	if t, ok := fr.typecases[tname]; ok {
		tracer().Infof("registry found font %s", tname)
		return t, nil
	}
	if f, ok := fr.fonts[normalizedName]; ok {
		t, err := f.PrepareCase(size)
		if err != nil {
			return nil, err
		}
		tracer().Infof("font registry has font %s, caches at %.2f", normalizedName, size)
		fr.typecases[tname] = t
		return t, nil
	}
	tracer().Infof("registry does not contain font %s", normalizedName)
	err := core.Error(core.EMISSING, "font %s not found in registry", normalizedName)
	//
	// store typecase from fallback font, if not present yet, and return it
	fname := "fallback"
	tname = appendSize(fname, size)
	if t, ok := fr.typecases[tname]; ok {
		return t, err
	}
	f := font.FallbackFont()
	t, e := f.PrepareCase(size)
	if e != nil {
		return nil, e
	}
	tracer().Infof("font registry caches fallback font at %.2f", size)
	fr.fonts[fname] = f
	fr.typecases[tname] = t
	return t, err
}

// LogFontList is a helper function to dump the list of known fonts and typecases
// in a registry to the trace-file (log-level Info).
func (fr *Registry) LogFontList() {
	level := tracer().GetTraceLevel()
	tracer().SetTraceLevel(tracing.LevelInfo)
	fr.Lock()
	defer fr.Unlock()
	tracer().Infof("--- registered fonts ---")
	for k, v := range fr.svgfonts {
		tracer().Infof("SVG font [%s] = %v", k, v.ID())
	}
	for k, v := range fr.fonts {
		tracer().Infof("font [%s] = %v", k, v.Fontname)
	}
	for k, v := range fr.typecases {
		tracer().Infof("typecase [%s] = %v", k, v.ScalableFontParent().Fontname)
	}
	tracer().Infof("------------------------")
	tracer().SetTraceLevel(level)
}

// NormalizeFontname creates a registry key from a font name, a style and
// a weight, e.g. "Bitstream Cyberbit.svg", italic → "bitstream_cyberbit-italic".
func NormalizeFontname(fname string, style xfont.Style, weight xfont.Weight) string {
	fname = strings.TrimSpace(fname)
	fname = strings.ReplaceAll(fname, " ", "_")
	if dot := strings.LastIndex(fname, "."); dot > 0 {
		fname = fname[:dot]
	}
	fname = strings.ToLower(fname)
	switch style {
	case xfont.StyleItalic, xfont.StyleOblique:
		fname += "-italic"
	}
	switch weight {
	case xfont.WeightLight, xfont.WeightExtraLight, xfont.WeightThin:
		fname += "-light"
	case xfont.WeightBold, xfont.WeightExtraBold, xfont.WeightSemiBold, xfont.WeightBlack:
		fname += "-bold"
	}
	return fname
}

func appendSize(fname string, size float32) string {
	fname = fmt.Sprintf("%s-%.2f", fname, size)
	return fname
}

// GuessStyleAndWeight trys to guess a font's style and weight from the
// font's file name.
func GuessStyleAndWeight(fontfilename string) (xfont.Style, xfont.Weight) {
	fontfilename = path.Base(fontfilename)
	ext := path.Ext(fontfilename)
	fontfilename = strings.ToLower(fontfilename[:len(fontfilename)-len(ext)])
	s := strings.Split(fontfilename, "-")
	if len(s) > 1 {
		switch s[len(s)-1] {
		case "light", "xlight":
			return xfont.StyleNormal, xfont.WeightLight
		case "normal", "medium", "regular", "r":
			return xfont.StyleNormal, xfont.WeightNormal
		case "bold", "b":
			return xfont.StyleNormal, xfont.WeightBold
		case "xbold", "black":
			return xfont.StyleNormal, xfont.WeightExtraBold
		}
	}
	style, weight := xfont.StyleNormal, xfont.WeightNormal
	if strings.Contains(fontfilename, "italic") {
		style = xfont.StyleItalic
	}
	if strings.Contains(fontfilename, "light") {
		weight = xfont.WeightLight
	}
	if strings.Contains(fontfilename, "bold") {
		weight = xfont.WeightBold
	}
	return style, weight
}

// Matches returns true if a font's filename contains pattern and indicators
// for a given style and weight.
func Matches(fontfilename, pattern string, style xfont.Style, weight xfont.Weight) bool {
	basename := path.Base(fontfilename)
	basename = basename[:len(basename)-len(path.Ext(basename))]
	basename = strings.ToLower(basename)
	tracer().Debugf("basename of font = %s", basename)
	if !strings.Contains(basename, strings.ToLower(pattern)) {
		return false
	}
	s, w := GuessStyleAndWeight(basename)
	return s == style && w == weight
}

// MatchConfidence is a type for expressing the confidence level of font matching.
type MatchConfidence int

const (
	NoConfidence      MatchConfidence = 0
	LowConfidence     MatchConfidence = 2
	HighConfidence    MatchConfidence = 3
	PerfectConfidence MatchConfidence = 4
)

// ClosestMatch scans the SVG fonts of a registry and returns the closest
// match for a family name pattern, a style and a weight.
// If no font matches, returns `NoConfidence`.
func (fr *Registry) ClosestMatch(pattern string, style xfont.Style,
	weight xfont.Weight) (match *svgfont.Font, confidence MatchConfidence) {
	//
	r, err := regexp.Compile(strings.ToLower(pattern))
	if err != nil {
		tracer().Errorf("invalid font name pattern")
		return
	}
	fr.Lock()
	defer fr.Unlock()
	for _, f := range fr.svgfonts {
		if !r.MatchString(strings.ToLower(f.Name())) {
			continue
		}
		m := f.Metrics()
		s := MatchStyle(m.Style, style)
		w := MatchWeight(m.Weight, weight)
		if c := (s + w) / 2; c > confidence {
			confidence, match = c, f
		}
	}
	return
}

// MatchStyle tells how well a font's style serves a requested style.
func MatchStyle(have, want xfont.Style) MatchConfidence {
	if have == want {
		return PerfectConfidence
	}
	if have != xfont.StyleNormal && want != xfont.StyleNormal {
		return HighConfidence // italic for oblique or vice versa
	}
	return LowConfidence
}

// MatchWeight tells how well a font's weight serves a requested weight.
// Weights are CSS font-weight steps of 100.
func MatchWeight(have, want xfont.Weight) MatchConfidence {
	d := have - want
	if d < 0 {
		d = -d
	}
	switch d {
	case 0:
		return PerfectConfidence
	case 1:
		return HighConfidence
	case 2, 3:
		return LowConfidence
	}
	return NoConfidence
}
