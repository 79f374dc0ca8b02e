package svgfont

import (
	"sync"
)

// Font is an SVG font. It owns the declarations read from markup and the
// lookup tables derived from them.
//
// Tables are built on first access (or by calling EnsureBuilt). Every
// change of the declarations invalidates the tables as a whole; tables
// obtained before the change will panic on use, and the next access builds
// fresh ones.
type Font struct {
	id          string
	mx          sync.Mutex
	decl        MetricsDecl
	glyphDefs   []Glyph
	missingDefs []Glyph
	hkernDefs   []KerningPair
	vkernDefs   []KerningPair
	built       bool
	metrics     FontMetrics
	glyphs      *GlyphTable
	hkern       *KerningTable
	vkern       *KerningTable
	missing     GlyphID
}

// NewFont creates an empty font with identifier id (the 'id' attribute of
// the <font> element, if any). Metrics are defaults until SetMetrics is
// called.
func NewFont(id string) *Font {
	return &Font{
		id:   id,
		decl: NewMetricsDecl(),
	}
}

// ID returns the identifier of the font.
func (f *Font) ID() string {
	return f.id
}

// Name returns the font family, if declared, or the font's identifier.
func (f *Font) Name() string {
	f.mx.Lock()
	defer f.mx.Unlock()
	if f.decl.Family != "" {
		return f.decl.Family
	}
	return f.id
}

// invalidate must be called with f.mx held.
func (f *Font) invalidate() {
	if !f.built {
		return
	}
	tracer().Debugf("font %q changed, invalidating tables", f.id)
	f.glyphs.invalidate()
	f.hkern.invalidate()
	f.vkern.invalidate()
	f.built = false
}

// SetMetrics sets the font-wide metrics declarations.
func (f *Font) SetMetrics(d MetricsDecl) {
	f.mx.Lock()
	defer f.mx.Unlock()
	f.decl = d
	f.invalidate()
}

// AddGlyph adds a glyph declaration.
func (f *Font) AddGlyph(g Glyph) {
	f.mx.Lock()
	defer f.mx.Unlock()
	f.glyphDefs = append(f.glyphDefs, g)
	f.invalidate()
}

// AddMissingGlyph adds a <missing-glyph> declaration. Only the first one in
// document order will be used.
func (f *Font) AddMissingGlyph(g Glyph) {
	f.mx.Lock()
	defer f.mx.Unlock()
	g.Name, g.Unicode = "", ""
	f.missingDefs = append(f.missingDefs, g)
	f.invalidate()
}

// AddHKern adds a horizontal kerning pair.
func (f *Font) AddHKern(p KerningPair) {
	f.mx.Lock()
	defer f.mx.Unlock()
	f.hkernDefs = append(f.hkernDefs, p)
	f.invalidate()
}

// AddVKern adds a vertical kerning pair.
func (f *Font) AddVKern(p KerningPair) {
	f.mx.Lock()
	defer f.mx.Unlock()
	f.vkernDefs = append(f.vkernDefs, p)
	f.invalidate()
}

// EnsureBuilt builds the lookup tables of f, if not already done.
// It is safe to call EnsureBuilt from more than one goroutine.
func (f *Font) EnsureBuilt() {
	f.mx.Lock()
	defer f.mx.Unlock()
	f.build()
}

func (f *Font) build() {
	if f.built {
		return
	}
	f.metrics = f.decl.Resolve()
	f.glyphs = NewGlyphTable()
	for _, g := range f.glyphDefs {
		f.glyphs.Insert(g)
	}
	f.missing = 0
	if len(f.missingDefs) > 0 {
		f.missing = f.glyphs.register(f.missingDefs[0])
	}
	f.hkern = NewKerningTable()
	for _, p := range f.hkernDefs {
		f.hkern.Insert(p)
	}
	f.vkern = NewKerningTable()
	for _, p := range f.vkernDefs {
		f.vkern.Insert(p)
	}
	f.built = true
	tracer().Debugf("font %q built: %d glyphs, %d hkern, %d vkern", f.id,
		f.glyphs.Len(), f.hkern.Len(), f.vkern.Len())
}

// Glyphs returns the glyph table of f.
func (f *Font) Glyphs() *GlyphTable {
	f.mx.Lock()
	defer f.mx.Unlock()
	f.build()
	return f.glyphs
}

// HKern returns the horizontal kerning table of f.
func (f *Font) HKern() *KerningTable {
	f.mx.Lock()
	defer f.mx.Unlock()
	f.build()
	return f.hkern
}

// VKern returns the vertical kerning table of f.
func (f *Font) VKern() *KerningTable {
	f.mx.Lock()
	defer f.mx.Unlock()
	f.build()
	return f.vkern
}

// MissingGlyph returns the first declared <missing-glyph>, if any.
func (f *Font) MissingGlyph() (Glyph, bool) {
	f.mx.Lock()
	defer f.mx.Unlock()
	f.build()
	if f.missing == 0 {
		return Glyph{}, false
	}
	return f.glyphs.LookupByID(f.missing)
}

// Metrics returns the resolved font-wide metrics.
func (f *Font) Metrics() FontMetrics {
	f.mx.Lock()
	defer f.mx.Unlock()
	f.build()
	return f.metrics
}
