package svgfont

import (
	"github.com/npillmayer/tyse-svg/core/option"
	xfont "golang.org/x/image/font"
)

// FontMetrics holds the font-wide metrics of an SVG font, with all defaults
// resolved. Values are in design units.
type FontMetrics struct {
	Family       string
	Style        xfont.Style
	Weight       xfont.Weight
	UnitsPerEm   float32
	Ascent       float32
	Descent      float32
	HorizOriginX float32
	HorizOriginY float32
	HorizAdvX    float32
	VertOriginX  float32
	VertOriginY  float32
	VertAdvY     float32
}

// Scale returns the factor to convert design units to user space units at a
// given font size.
func (m FontMetrics) Scale(size float32) float32 {
	if m.UnitsPerEm <= 0 {
		return size / 1000
	}
	return size / m.UnitsPerEm
}

// MetricsDecl holds font-wide metrics as declared by markup attributes of
// <font> and <font-face>. Attributes not present are None.
type MetricsDecl struct {
	Family       string
	Style        xfont.Style
	Weight       xfont.Weight
	UnitsPerEm   option.Float32T
	Ascent       option.Float32T
	Descent      option.Float32T
	HorizOriginX option.Float32T
	HorizOriginY option.Float32T
	HorizAdvX    option.Float32T
	VertOriginX  option.Float32T
	VertOriginY  option.Float32T
	VertAdvY     option.Float32T
}

// NewMetricsDecl returns a declaration with every metric unset.
func NewMetricsDecl() MetricsDecl {
	return MetricsDecl{
		UnitsPerEm:   option.Float32(),
		Ascent:       option.Float32(),
		Descent:      option.Float32(),
		HorizOriginX: option.Float32(),
		HorizOriginY: option.Float32(),
		HorizAdvX:    option.Float32(),
		VertOriginX:  option.Float32(),
		VertOriginY:  option.Float32(),
		VertAdvY:     option.Float32(),
	}
}

// Resolve applies the SVG defaults to unset attributes.
func (d MetricsDecl) Resolve() FontMetrics {
	m := FontMetrics{
		Family: d.Family,
		Style:  d.Style,
		Weight: d.Weight,
	}
	m.UnitsPerEm = d.UnitsPerEm.OrElse(1000)
	if m.UnitsPerEm <= 0 {
		m.UnitsPerEm = 1000
	}
	if d.VertOriginY.IsNone() {
		m.Ascent = d.Ascent.OrElse(0.8 * m.UnitsPerEm)
		m.Descent = d.Descent.OrElse(0.2 * m.UnitsPerEm)
	} else {
		m.Ascent = d.Ascent.OrElse(m.UnitsPerEm - d.VertOriginY.Unwrap())
		m.Descent = d.Descent.OrElse(d.VertOriginY.Unwrap())
	}
	m.HorizOriginX = d.HorizOriginX.OrElse(0)
	m.HorizOriginY = d.HorizOriginY.OrElse(0)
	m.HorizAdvX = d.HorizAdvX.OrElse(0)
	m.VertOriginX = d.VertOriginX.OrElse(m.HorizAdvX / 2)
	m.VertOriginY = d.VertOriginY.OrElse(m.Ascent)
	m.VertAdvY = d.VertAdvY.OrElse(m.UnitsPerEm)
	return m
}
