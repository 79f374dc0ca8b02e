package raster

import (
	"math"
	"math/cmplx"
	"strconv"

	"github.com/npillmayer/arithm"
	"github.com/npillmayer/tyse-svg/core"
)

// DrawableContour is a contour of knots, connected either by straight
// lines or by cubic Bézier curves.
type DrawableContour interface {
	IsCycle() bool
	Start() arithm.Pair
	// ToNextKnot returns the next knot and the control points of the curve
	// leading to it. For straight lines the control points are NaN.
	ToNextKnot() (arithm.Pair, arithm.Pair, arithm.Pair)
	// N is the number of knots following the start knot.
	N() int
}

type segment struct {
	to, c1, c2 complex128
	curve      bool
}

// contour is an immutable contour parsed from path data, with an iteration
// cursor.
type contour struct {
	start   complex128
	segs    []segment
	cycle   bool
	current int
}

func (c *contour) IsCycle() bool {
	return c.cycle
}

func (c *contour) N() int {
	return len(c.segs)
}

func (c *contour) Start() arithm.Pair {
	c.current = 0
	return pair(c.start)
}

func (c *contour) ToNextKnot() (arithm.Pair, arithm.Pair, arithm.Pair) {
	if c.current >= len(c.segs) {
		tracer().Debugf("contour has no more knots")
		return arithm.Origin, arithm.Origin, arithm.Origin
	}
	s := c.segs[c.current]
	c.current++
	if !s.curve {
		nan := arithm.P(math.NaN(), math.NaN())
		return pair(s.to), nan, nan
	}
	return pair(s.to), pair(s.c1), pair(s.c2)
}

func pair(z complex128) arithm.Pair {
	return arithm.P(real(z), imag(z))
}

// isStraight is true if a control point returned by ToNextKnot marks a
// straight line.
func isStraight(c arithm.Pair) bool {
	return cmplx.IsNaN(c.C())
}

// ParsePathData parses SVG path data (the 'd' attribute of glyphs) into
// contours. Every subpath yields a contour. Elliptical arcs are replaced by
// straight lines to their end point.
func ParsePathData(d string) ([]DrawableContour, error) {
	sc := &pathScanner{s: d}
	var contours []DrawableContour
	var c *contour
	var cmd byte
	var cur, start, lastCtrl complex128
	var lastCmd byte
	for {
		sc.skipSeparators()
		if sc.done() {
			break
		}
		if ch, ok := sc.command(); ok {
			cmd = ch
		} else if cmd == 0 {
			return nil, core.Error(core.EINVALID, "path data must start with a command: %q", d)
		} else if cmd == 'Z' || cmd == 'z' {
			return nil, core.Error(core.EINVALID, "closepath does not take arguments: %q", d)
		}
		rel := cmd >= 'a'
		at := func(z complex128) complex128 {
			if rel {
				return cur + z
			}
			return z
		}
		upper := cmd &^ 0x20
		if c == nil && upper != 'M' {
			return nil, core.Error(core.EINVALID, "path data must start with moveto: %q", d)
		}
		if c != nil && c.cycle && upper != 'M' && upper != 'Z' {
			c = &contour{start: cur}
			contours = append(contours, c)
		}
		switch upper {
		case 'M':
			p, err := sc.point()
			if err != nil {
				return nil, err
			}
			cur = at(p)
			start = cur
			c = &contour{start: cur}
			contours = append(contours, c)
			// coordinates following a moveto are implicit lineto commands
			cmd = 'L' | (cmd & 0x20)
		case 'L':
			p, err := sc.point()
			if err != nil {
				return nil, err
			}
			cur = at(p)
			c.segs = append(c.segs, segment{to: cur})
		case 'H':
			x, err := sc.number()
			if err != nil {
				return nil, err
			}
			if rel {
				x += real(cur)
			}
			cur = complex(x, imag(cur))
			c.segs = append(c.segs, segment{to: cur})
		case 'V':
			y, err := sc.number()
			if err != nil {
				return nil, err
			}
			if rel {
				y += imag(cur)
			}
			cur = complex(real(cur), y)
			c.segs = append(c.segs, segment{to: cur})
		case 'C', 'S':
			var c1 complex128
			if upper == 'C' {
				p, err := sc.point()
				if err != nil {
					return nil, err
				}
				c1 = at(p)
			} else {
				c1 = reflect(cur, lastCtrl, lastCmd, 'C', 'S')
			}
			p2, err := sc.point()
			if err != nil {
				return nil, err
			}
			p, err := sc.point()
			if err != nil {
				return nil, err
			}
			c2, to := at(p2), at(p)
			c.segs = append(c.segs, segment{to: to, c1: c1, c2: c2, curve: true})
			cur, lastCtrl = to, c2
		case 'Q', 'T':
			var q complex128
			if upper == 'Q' {
				p, err := sc.point()
				if err != nil {
					return nil, err
				}
				q = at(p)
			} else {
				q = reflect(cur, lastCtrl, lastCmd, 'Q', 'T')
			}
			p, err := sc.point()
			if err != nil {
				return nil, err
			}
			to := at(p)
			// degree elevation of the quadratic curve
			c1 := cur + (q-cur)*2/3
			c2 := to + (q-to)*2/3
			c.segs = append(c.segs, segment{to: to, c1: c1, c2: c2, curve: true})
			cur, lastCtrl = to, q
		case 'A':
			for i := 0; i < 3; i++ {
				if _, err := sc.number(); err != nil {
					return nil, err
				}
			}
			if _, err := sc.flag(); err != nil {
				return nil, err
			}
			if _, err := sc.flag(); err != nil {
				return nil, err
			}
			p, err := sc.point()
			if err != nil {
				return nil, err
			}
			cur = at(p)
			c.segs = append(c.segs, segment{to: cur})
		case 'Z':
			c.cycle = true
			cur = start
		default:
			return nil, core.Error(core.EINVALID, "unknown path command %q", string(cmd))
		}
		lastCmd = upper
	}
	return contours, nil
}

// reflect returns the reflection of the previous control point for smooth
// curve commands.
func reflect(cur, lastCtrl complex128, lastCmd, a, b byte) complex128 {
	if lastCmd == a || lastCmd == b {
		return 2*cur - lastCtrl
	}
	return cur
}

// --- Scanner ---------------------------------------------------------------

type pathScanner struct {
	s   string
	pos int
}

func (sc *pathScanner) done() bool {
	return sc.pos >= len(sc.s)
}

func (sc *pathScanner) skipSeparators() {
	for !sc.done() {
		switch sc.s[sc.pos] {
		case ' ', '\t', '\n', '\r', '\f', ',':
			sc.pos++
		default:
			return
		}
	}
}

func (sc *pathScanner) command() (byte, bool) {
	ch := sc.s[sc.pos]
	if (ch >= 'a' && ch <= 'z' && ch != 'e') || (ch >= 'A' && ch <= 'Z' && ch != 'E') {
		sc.pos++
		return ch, true
	}
	return 0, false
}

func (sc *pathScanner) number() (float64, error) {
	sc.skipSeparators()
	from := sc.pos
	if !sc.done() && (sc.s[sc.pos] == '+' || sc.s[sc.pos] == '-') {
		sc.pos++
	}
	digits, dot := 0, false
	for !sc.done() {
		ch := sc.s[sc.pos]
		if ch >= '0' && ch <= '9' {
			digits++
		} else if ch == '.' && !dot {
			dot = true
		} else {
			break
		}
		sc.pos++
	}
	if digits > 0 && !sc.done() && (sc.s[sc.pos] == 'e' || sc.s[sc.pos] == 'E') {
		p := sc.pos + 1
		if p < len(sc.s) && (sc.s[p] == '+' || sc.s[p] == '-') {
			p++
		}
		if p < len(sc.s) && sc.s[p] >= '0' && sc.s[p] <= '9' {
			for p < len(sc.s) && sc.s[p] >= '0' && sc.s[p] <= '9' {
				p++
			}
			sc.pos = p
		}
	}
	if digits == 0 {
		return 0, core.Error(core.EINVALID, "number expected in path data at position %d", from)
	}
	x, err := strconv.ParseFloat(sc.s[from:sc.pos], 64)
	if err != nil {
		return 0, core.WrapError(err, core.EINVALID, "malformed number in path data at position %d", from)
	}
	return x, nil
}

func (sc *pathScanner) point() (complex128, error) {
	x, err := sc.number()
	if err != nil {
		return 0, err
	}
	y, err := sc.number()
	if err != nil {
		return 0, err
	}
	return complex(x, y), nil
}

// flag reads an arc flag, which may be written without separators.
func (sc *pathScanner) flag() (bool, error) {
	sc.skipSeparators()
	if sc.done() || (sc.s[sc.pos] != '0' && sc.s[sc.pos] != '1') {
		return false, core.Error(core.EINVALID, "arc flag expected in path data at position %d", sc.pos)
	}
	sc.pos++
	return sc.s[sc.pos-1] == '1', nil
}
