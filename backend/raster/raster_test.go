package raster

import (
	"image"
	"image/color"
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/npillmayer/tyse-svg/core"
	"github.com/npillmayer/tyse-svg/core/dimen"
	"github.com/npillmayer/tyse-svg/core/font"
	"github.com/npillmayer/tyse-svg/core/font/svgfont"
	"github.com/npillmayer/tyse-svg/engine/glyphing/svgshape"
)

func TestParsePathData(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tyse.raster")
	defer teardown()
	//
	cs, err := ParsePathData("M0 0 L10 0 L10 10 Z")
	if err != nil {
		t.Fatal(err)
	}
	if len(cs) != 1 || cs[0].N() != 2 || !cs[0].IsCycle() {
		t.Errorf("expected 1 closed contour with 2 knots, have %d", len(cs))
	}
	cs, err = ParsePathData("M0,0h10v10h-10z m20 0 l5 5")
	if err != nil {
		t.Fatal(err)
	}
	if len(cs) != 2 || cs[0].N() != 3 || cs[1].N() != 1 {
		t.Fatalf("expected 2 contours, have %d", len(cs))
	}
	if start := cs[1].Start(); real(start.C()) != 20 || imag(start.C()) != 0 {
		t.Errorf("expected relative moveto to start at (20,0), is %v", start.C())
	}
	cs, err = ParsePathData("M0 0 10 0 10 10")
	if err != nil || cs[0].N() != 2 {
		t.Errorf("expected implicit lineto after moveto")
	}
	cs, err = ParsePathData("M-1.5-2.5e1Q5 10 10 0")
	if err != nil {
		t.Fatal(err)
	}
	start := cs[0].Start()
	if real(start.C()) != -1.5 || imag(start.C()) != -25 {
		t.Errorf("expected start at (-1.5,-25), is %v", start.C())
	}
	if _, c1, _ := cs[0].ToNextKnot(); isStraight(c1) {
		t.Errorf("expected quadratic curve to become a cubic curve")
	}
}

func TestParsePathDataErrors(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tyse.raster")
	defer teardown()
	//
	for _, d := range []string{"10 10", "L10 10", "M0 0 L10", "M0 0 X5 5", "M0 0 Z 5 5"} {
		if _, err := ParsePathData(d); core.Code(err) != core.EINVALID {
			t.Errorf("expected EINVALID for %q, have %v", d, err)
		}
	}
	if cs, err := ParsePathData(""); err != nil || len(cs) != 0 {
		t.Errorf("expected empty path data to yield no contours")
	}
}

func isInk(c color.Color) bool {
	r, g, b, _ := c.RGBA()
	return r < 0x8000 && g < 0x8000 && b < 0x8000
}

func countInk(img *image.RGBA) int {
	n := 0
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if isInk(img.At(x, y)) {
				n++
			}
		}
	}
	return n
}

func TestFillGlyph(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tyse.raster")
	defer teardown()
	//
	canvas := NewCanvas(50, 50)
	g := svgfont.NewGlyph("box", "")
	g.PathData = "M0 0 L1000 0 L1000 1000 L0 1000 Z"
	canvas.FillGlyph(g, svgshape.Placement{At: dimen.Point{X: 10, Y: 40}, Scale: 0.02})
	if !isInk(canvas.Image().At(20, 30)) {
		t.Errorf("expected pixel (20,30) to be painted")
	}
	if isInk(canvas.Image().At(35, 30)) || isInk(canvas.Image().At(20, 15)) {
		t.Errorf("expected pixels outside of the glyph box to stay white")
	}
}

func TestDrawRunOntoCanvas(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "tyse.raster")
	defer teardown()
	//
	f, err := svgfont.Parse(strings.NewReader(`<svg><font id="box" horiz-adv-x="1000">
	  <font-face units-per-em="1000" />
	  <glyph unicode="#" d="M100 0 L900 0 L900 700 L100 700 Z" />
	</font></svg>`), "box")
	if err != nil {
		t.Fatal(err)
	}
	tc, err := font.FallbackFont().PrepareCase(20)
	if err != nil {
		t.Fatal(err)
	}
	shaper := svgshape.NewShaper(f, 20, svgshape.NewSystemFallback(tc))
	canvas := NewCanvas(100, 40)
	run := svgshape.NewTextRun("#W", false, svgshape.RunContext{})
	shaper.DrawRun(canvas, run, dimen.Point{X: 5, Y: 30})
	if !isInk(canvas.Image().At(15, 25)) {
		t.Errorf("expected SVG glyph box to be painted at (15,25)")
	}
	n := countInk(canvas.Image())
	if n <= 16*14 {
		t.Errorf("expected system font glyph to add ink, have %d ink pixels", n)
	}
}
