package svgfont

import (
	"io"
	"strconv"
	"strings"

	"github.com/andybalholm/cascadia"
	"github.com/aymerick/douceur/parser"
	"github.com/npillmayer/tyse-svg/core"
	"github.com/npillmayer/tyse-svg/core/dimen"
	"github.com/npillmayer/tyse-svg/core/option"
	xfont "golang.org/x/image/font"
	"golang.org/x/net/html"
)

var (
	selFont         = cascadia.MustCompile("font")
	selFontFace     = cascadia.MustCompile("font-face")
	selMissingGlyph = cascadia.MustCompile("missing-glyph")
	selGlyph        = cascadia.MustCompile("glyph")
	selHKern        = cascadia.MustCompile("hkern")
	selVKern        = cascadia.MustCompile("vkern")
)

// Parse reads an SVG document and returns the font with identifier id.
// If id is empty, the first font of the document is returned.
//
// Markup is read with an HTML5 parser, which handles both stand-alone SVG
// documents and SVG embedded in HTML. Character references in attributes
// (e.g., unicode="&#xFB01;") are resolved by the parser.
func Parse(r io.Reader, id string) (*Font, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, core.WrapError(err, core.EINVALID, "cannot parse SVG markup")
	}
	fonts := selFont.MatchAll(doc)
	if len(fonts) == 0 {
		return nil, core.Error(core.EINVALID, "document does not contain a <font> element")
	}
	var fontNode *html.Node
	for _, n := range fonts {
		if id == "" || attr(n, "id") == id {
			fontNode = n
			break
		}
	}
	if fontNode == nil {
		return nil, core.Error(core.EMISSING, "document does not contain font %q", id)
	}
	tracer().Debugf("loading SVG font %q", attr(fontNode, "id"))
	return readFont(fontNode)
}

func readFont(n *html.Node) (*Font, error) {
	f := NewFont(attr(n, "id"))
	p := attrParser{elem: "font"}
	decl := NewMetricsDecl()
	decl.HorizAdvX = p.number(n, "horiz-adv-x")
	decl.HorizOriginX = p.number(n, "horiz-origin-x")
	decl.HorizOriginY = p.number(n, "horiz-origin-y")
	decl.VertOriginX = p.number(n, "vert-origin-x")
	decl.VertOriginY = p.number(n, "vert-origin-y")
	decl.VertAdvY = p.number(n, "vert-adv-y")
	if ff := selFontFace.MatchFirst(n); ff != nil {
		p.elem = "font-face"
		props, err := faceProperties(ff)
		if err != nil {
			return nil, err
		}
		decl.Family = strings.Trim(strings.TrimSpace(props["font-family"]), `"'`)
		decl.Style = parseStyle(props["font-style"])
		decl.Weight = parseWeight(props["font-weight"])
		decl.UnitsPerEm = p.number(ff, "units-per-em")
		decl.Ascent = p.number(ff, "ascent")
		decl.Descent = p.number(ff, "descent")
	}
	if p.err != nil {
		return nil, p.err
	}
	f.SetMetrics(decl)
	p.elem = "missing-glyph"
	for _, mg := range selMissingGlyph.MatchAll(n) {
		f.AddMissingGlyph(p.glyph(mg))
	}
	p.elem = "glyph"
	for _, g := range selGlyph.MatchAll(n) {
		f.AddGlyph(p.glyph(g))
	}
	p.elem = "hkern"
	for _, k := range selHKern.MatchAll(n) {
		f.AddHKern(p.kerningPair(k))
	}
	p.elem = "vkern"
	for _, k := range selVKern.MatchAll(n) {
		f.AddVKern(p.kerningPair(k))
	}
	if p.err != nil {
		return nil, p.err
	}
	return f, nil
}

// faceProperties collects the font description of a <font-face> element.
// Declarations in a style attribute override presentation attributes.
func faceProperties(ff *html.Node) (map[string]string, error) {
	props := make(map[string]string, 3)
	for _, key := range []string{"font-family", "font-style", "font-weight"} {
		props[key] = attr(ff, key)
	}
	style := attr(ff, "style")
	if strings.TrimSpace(style) == "" {
		return props, nil
	}
	decls, err := parser.ParseDeclarations(style)
	if err != nil {
		return nil, core.WrapError(err, core.EINVALID, "style attribute of <font-face>")
	}
	for _, d := range decls {
		if _, ok := props[d.Property]; ok {
			props[d.Property] = d.Value
		}
	}
	return props, nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasAttr(n *html.Node, key string) bool {
	for _, a := range n.Attr {
		if a.Key == key {
			return true
		}
	}
	return false
}

// attrParser remembers the first error encountered, so that a sequence of
// attributes may be read without checking for errors after each one.
type attrParser struct {
	elem string
	err  error
}

func (p *attrParser) number(n *html.Node, key string) option.Float32T {
	if !hasAttr(n, key) {
		return option.Float32()
	}
	d, err := dimen.ParseDU(attr(n, key))
	if err != nil {
		if p.err == nil {
			p.err = core.WrapError(err, core.EINVALID, "attribute %s of <%s>", key, p.elem)
		}
		return option.Float32()
	}
	return option.SomeFloat32(float32(d))
}

func (p *attrParser) glyph(n *html.Node) Glyph {
	g := NewGlyph(strings.TrimSpace(attr(n, "glyph-name")), attr(n, "unicode"))
	g.HorizAdvX = p.number(n, "horiz-adv-x")
	g.VertAdvY = p.number(n, "vert-adv-y")
	g.VertOriginX = p.number(n, "vert-origin-x")
	g.VertOriginY = p.number(n, "vert-origin-y")
	g.Form = ParseArabicForm(attr(n, "arabic-form"))
	switch strings.TrimSpace(attr(n, "orientation")) {
	case "h":
		g.Orientation = OrientHorizontal
	case "v":
		g.Orientation = OrientVertical
	}
	g.Languages = splitList(attr(n, "lang"))
	g.PathData = attr(n, "d")
	return g
}

func (p *attrParser) kerningPair(n *html.Node) KerningPair {
	pair := KerningPair{
		Side1: NewKerningSide(),
		Side2: NewKerningSide(),
	}
	p.unicodes(&pair.Side1, attr(n, "u1"))
	p.unicodes(&pair.Side2, attr(n, "u2"))
	for _, g := range splitList(attr(n, "g1")) {
		pair.Side1.Glyphs.Add(g)
	}
	for _, g := range splitList(attr(n, "g2")) {
		pair.Side2.Glyphs.Add(g)
	}
	// SVG's k decreases the spacing, we store an additive adjustment
	pair.Adjustment = -p.number(n, "k").OrElse(0)
	return pair
}

func (p *attrParser) unicodes(side *KerningSide, list string) {
	for _, u := range splitList(list) {
		if len(u) > 2 && (strings.HasPrefix(u, "U+") || strings.HasPrefix(u, "u+")) {
			ur, err := ParseUnicodeRange(u)
			if err != nil {
				if p.err == nil {
					p.err = core.WrapError(err, core.EINVALID, "unicode range in <%s>", p.elem)
				}
				continue
			}
			side.Ranges = append(side.Ranges, ur)
			continue
		}
		side.Unicodes.Add(u)
	}
}

// ParseUnicodeRange parses a CSS unicode range: a single code point
// ("U+0041"), an interval ("U+0041-005A") or a wildcard range ("U+4??").
func ParseUnicodeRange(s string) (UnicodeRange, error) {
	s = strings.TrimSpace(s)
	if len(s) < 3 || !strings.EqualFold(s[:2], "U+") {
		return UnicodeRange{}, core.Error(core.EINVALID, "not a unicode range: %q", s)
	}
	s = s[2:]
	if strings.Contains(s, "?") {
		lo, err := strconv.ParseUint(strings.ReplaceAll(s, "?", "0"), 16, 32)
		if err != nil {
			return UnicodeRange{}, err
		}
		hi, err := strconv.ParseUint(strings.ReplaceAll(s, "?", "F"), 16, 32)
		if err != nil {
			return UnicodeRange{}, err
		}
		return UnicodeRange{First: rune(lo), Last: rune(hi)}, nil
	}
	first, last := s, s
	if i := strings.IndexByte(s, '-'); i > 0 {
		first, last = s[:i], s[i+1:]
	}
	lo, err := strconv.ParseUint(first, 16, 32)
	if err != nil {
		return UnicodeRange{}, err
	}
	hi, err := strconv.ParseUint(last, 16, 32)
	if err != nil {
		return UnicodeRange{}, err
	}
	if hi < lo {
		return UnicodeRange{}, core.Error(core.EINVALID, "empty unicode range U+%s", s)
	}
	return UnicodeRange{First: rune(lo), Last: rune(hi)}, nil
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var l []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			l = append(l, item)
		}
	}
	return l
}

func parseStyle(s string) xfont.Style {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "italic":
		return xfont.StyleItalic
	case "oblique":
		return xfont.StyleOblique
	}
	return xfont.StyleNormal
}

// parseWeight maps CSS font weights to x/image/font weights.
func parseWeight(s string) xfont.Weight {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "", "normal", "all":
		return xfont.WeightNormal
	case "bold":
		return xfont.WeightBold
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 100 || n > 900 {
		tracer().Infof("cannot interpret font-weight %q, using normal", s)
		return xfont.WeightNormal
	}
	return xfont.Weight(n/100 - 4)
}
