package resources

import (
	"context"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/flopp/go-findfont"
	"github.com/npillmayer/schuko"
	"github.com/npillmayer/tyse-svg/core"
	"github.com/npillmayer/tyse-svg/core/font"
	"github.com/npillmayer/tyse-svg/core/font/fontregistry"
	"github.com/npillmayer/tyse-svg/core/font/svgfont"
	xfont "golang.org/x/image/font"
)

type resourceType int

// resource types
const (
	unknownResourceType resourceType = iota
	fontResourceType
	svgFontResourceType
)

// Configuration keys
const (
	// SVGFontPathKey names a list of directories to search for SVG font
	// files, separated by the OS-specific path list separator.
	SVGFontPathKey = "svgfont-path"
	// FallbackFontKey names the system font for characters missing from
	// SVG fonts.
	FallbackFontKey = "fallback-font"
)

// NotFound returns an application error for a missing resource.
func NotFound(res string, rtype resourceType) error {
	e := fmt.Errorf("resouce missing: %v", res)
	var s string
	switch rtype {
	case fontResourceType:
		s = fmt.Sprintf("font not found: %s", res)
	case svgFontResourceType:
		s = fmt.Sprintf("SVG font not found: %s", res)
	default:
		s = fmt.Sprintf("resource not found: %s", res)
	}
	return core.WrapError(e, core.EMISSING, s)
}

//go:embed packaged/fonts/*.svg
var packaged embed.FS

// --- SVG fonts -------------------------------------------------------------

type svgFontPlusErr struct {
	font *svgfont.Font
	err  error
}

// SVGFontPromise is returned by ResolveSVGFont. Calling SVGFont will block
// until the font has been loaded.
type SVGFontPromise interface {
	SVGFont() (*svgfont.Font, error)
	SVGFontWithContext(ctx context.Context) (*svgfont.Font, error)
}

type svgFontLoader struct {
	await func(ctx context.Context) (*svgfont.Font, error)
}

func (loader svgFontLoader) SVGFont() (*svgfont.Font, error) {
	return loader.await(context.Background())
}

func (loader svgFontLoader) SVGFontWithContext(ctx context.Context) (*svgfont.Font, error) {
	return loader.await(ctx)
}

// ResolveSVGFont resolves an SVG font by name. name may be a font family name,
// the name of a font file (with or without extension) or a path to an SVG
// file. Fonts are searched for
//
//   - in the global font registry
//   - as packaged fonts, embedded into the application
//   - in the directories configured under SVGFontPathKey
//   - in the file system, if name is a path
//
// Fonts found outside the registry are stored in the registry.
// conf may be nil.
func ResolveSVGFont(conf schuko.Configuration, name string, style xfont.Style,
	weight xfont.Weight) SVGFontPromise {
	//
	var r svgFontPlusErr
	done := make(chan struct{}) // closed once r is set
	go func() {
		defer close(done)
		f, err := findSVGFont(conf, name, style, weight)
		if err == nil && f != nil {
			fontregistry.GlobalRegistry().StoreSVGFont(f)
		}
		r = svgFontPlusErr{font: f, err: err}
	}()
	return svgFontLoader{
		await: func(ctx context.Context) (*svgfont.Font, error) {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-done:
				return r.font, r.err
			}
		},
	}
}

func findSVGFont(conf schuko.Configuration, name string, style xfont.Style,
	weight xfont.Weight) (*svgfont.Font, error) {
	//
	key := fontregistry.NormalizeFontname(name, style, weight)
	if f, err := fontregistry.GlobalRegistry().SVGFont(key); err == nil {
		tracer().Debugf("SVG font %s found in registry", key)
		return f, nil
	}
	base := fontregistry.NormalizeFontname(filepath.Base(name), xfont.StyleNormal, xfont.WeightNormal)
	fonts, _ := packaged.ReadDir("packaged/fonts")
	for _, entry := range fonts {
		if fontregistry.NormalizeFontname(entry.Name(), xfont.StyleNormal, xfont.WeightNormal) == base {
			tracer().Debugf("found font as embedded font file %s", entry.Name())
			file, err := packaged.Open("packaged/fonts/" + entry.Name())
			if err != nil {
				return nil, core.WrapError(err, core.EMISSING, "cannot open packaged font %s", entry.Name())
			}
			defer file.Close()
			return svgfont.Parse(file, "")
		}
	}
	for _, dir := range searchPath(conf) {
		if fpath, ok := findInDir(dir, name, style, weight); ok {
			return loadSVGFontFile(fpath)
		}
	}
	if strings.HasSuffix(strings.ToLower(name), ".svg") {
		if _, err := os.Stat(name); err == nil {
			return loadSVGFontFile(name)
		}
	}
	// settle for a registered font of the same family
	f, c := fontregistry.GlobalRegistry().ClosestMatch(regexp.QuoteMeta(name), style, weight)
	if f != nil && c >= fontregistry.HighConfidence {
		tracer().Infof("using SVG font %s for %s (confidence %d)", f.Name(), key, c)
		return f, nil
	}
	return nil, NotFound(name, svgFontResourceType)
}

func searchPath(conf schuko.Configuration) []string {
	if conf == nil {
		return nil
	}
	p := conf.GetString(SVGFontPathKey)
	if p == "" {
		return nil
	}
	return filepath.SplitList(p)
}

// findInDir looks for a file named name or name.svg in dir. Failing that,
// it scans dir for an SVG file whose name contains name and indicates
// style and weight, e.g. "Gentium-Bold.svg".
func findInDir(dir, name string, style xfont.Style, weight xfont.Weight) (string, bool) {
	candidates := []string{name}
	if filepath.Ext(name) == "" {
		candidates = append(candidates, name+".svg")
	}
	for _, c := range candidates {
		fpath := filepath.Join(dir, c)
		if fi, err := os.Stat(fpath); err == nil && !fi.IsDir() {
			tracer().Debugf("found SVG font file %s", fpath)
			return fpath, true
		}
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", false
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".svg") {
			continue
		}
		if fontregistry.Matches(entry.Name(), name, style, weight) {
			tracer().Debugf("SVG font file %s matches %s", entry.Name(), name)
			return filepath.Join(dir, entry.Name()), true
		}
	}
	return "", false
}

func loadSVGFontFile(fpath string) (*svgfont.Font, error) {
	file, err := os.Open(fpath)
	if err != nil {
		return nil, core.WrapError(err, core.EMISSING, "cannot open SVG font %s", fpath)
	}
	defer file.Close()
	return svgfont.Parse(file, "")
}

// --- System fonts ----------------------------------------------------------

type fontPlusErr struct {
	font *font.TypeCase
	err  error
}

// TypeCasePromise is returned by ResolveTypeCase. Calling TypeCase will block
// until the font has been loaded.
type TypeCasePromise interface {
	TypeCase() (*font.TypeCase, error)
}

type fontLoader struct {
	await func(ctx context.Context) (*font.TypeCase, error)
}

func (loader fontLoader) TypeCase() (*font.TypeCase, error) {
	return loader.await(context.Background())
}

// ResolveTypeCase resolves a system font type case with a given size. It is
// used for characters which an SVG font cannot render. If name is empty, the
// font configured under FallbackFontKey is used.
//
// If no font can be found, the typecase of the packaged fallback font is
// returned, together with an error.
func ResolveTypeCase(conf schuko.Configuration, name string, size float32) TypeCasePromise {
	if name == "" && conf != nil {
		name = conf.GetString(FallbackFontKey)
	}
	var r fontPlusErr
	done := make(chan struct{})
	go func() {
		defer close(done)
		registry := fontregistry.GlobalRegistry()
		style, weight := fontregistry.GuessStyleAndWeight(name)
		key := fontregistry.NormalizeFontname(name, style, weight)
		if name != "" {
			if fpath, err := findfont.Find(name); err == nil && fpath != "" {
				tracer().Debugf("%s is a system font", name)
				if f, err := font.LoadOpenTypeFont(fpath); err == nil {
					registry.StoreFont(key, f)
				} else {
					tracer().Errorf("cannot load system font %s: %v", fpath, err)
				}
			}
		}
		t, err := registry.TypeCase(key, size)
		r = fontPlusErr{font: t, err: err}
	}()
	return fontLoader{
		await: func(ctx context.Context) (*font.TypeCase, error) {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-done:
				return r.font, r.err
			}
		},
	}
}
