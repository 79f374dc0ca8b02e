package raster

import (
	"image"
	"image/color"
	"image/draw"

	"github.com/npillmayer/arithm"
	"github.com/npillmayer/tyse-svg/core/dimen"
	"github.com/npillmayer/tyse-svg/core/font/svgfont"
	"github.com/npillmayer/tyse-svg/engine/glyphing/svgshape"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
	"golang.org/x/image/vector"
)

// Canvas is a raster image to paint glyphs onto.
// It implements svgshape.GraphicsContext.
type Canvas struct {
	img   *image.RGBA
	Color color.Color // paint color, black by default
}

// NewCanvas creates a white canvas of w × h pixels.
func NewCanvas(w, h int) *Canvas {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)
	return &Canvas{img: img, Color: color.Black}
}

// Image returns the canvas' image.
func (c *Canvas) Image() *image.RGBA {
	return c.img
}

// FillGlyph is part of interface svgshape.GraphicsContext.
// The glyph's outline is placed with its origin at p.At.
func (c *Canvas) FillGlyph(g svgfont.Glyph, p svgshape.Placement) {
	if g.PathData == "" {
		return
	}
	contours, err := ParsePathData(g.PathData)
	if err != nil {
		tracer().Errorf("cannot paint %v: %v", g, err)
		return
	}
	ox, oy := g.HorizOriginX.OrElse(0), g.HorizOriginY.OrElse(0)
	if p.Upright {
		ox, oy = g.VertOriginX.OrElse(0), g.VertOriginY.OrElse(0)
	}
	// glyph space has its y-axis pointing upwards
	transform := func(z arithm.Pair) (float32, float32) {
		x, y := float32(real(z.C())), float32(imag(z.C()))
		return p.At.X + (x-ox)*p.Scale, p.At.Y - (y-oy)*p.Scale
	}
	c.fill(contours, transform)
}

func (c *Canvas) fill(contours []DrawableContour, transform func(arithm.Pair) (float32, float32)) {
	b := c.img.Bounds()
	z := vector.NewRasterizer(b.Dx(), b.Dy())
	z.DrawOp = draw.Over
	for _, contour := range contours {
		z.MoveTo(transform(contour.Start()))
		for i := 0; i < contour.N(); i++ {
			knot, c1, c2 := contour.ToNextKnot()
			if isStraight(c1) {
				z.LineTo(transform(knot))
				continue
			}
			x1, y1 := transform(c1)
			x2, y2 := transform(c2)
			x, y := transform(knot)
			z.CubeTo(x1, y1, x2, y2, x, y)
		}
		z.ClosePath()
	}
	z.Draw(c.img, b, image.NewUniform(c.Color), image.Point{})
}

// FillRune is part of interface svgshape.GraphicsContext.
func (c *Canvas) FillRune(face xfont.Face, ch rune, at dimen.Point) {
	if face == nil {
		tracer().Infof("no face to paint %#U", ch)
		return
	}
	d := xfont.Drawer{
		Dst:  c.img,
		Src:  image.NewUniform(c.Color),
		Face: face,
		Dot: fixed.Point26_6{
			X: fixed.Int26_6(at.X * 64),
			Y: fixed.Int26_6(at.Y * 64),
		},
	}
	d.DrawString(string(ch))
}

var _ svgshape.GraphicsContext = &Canvas{}
