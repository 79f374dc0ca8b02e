package svgfont

import (
	"fmt"
	"strings"

	"github.com/emirpasic/gods/lists/arraylist"
	"github.com/emirpasic/gods/sets/hashset"
	"github.com/npillmayer/tyse-svg/core"
)

// UnicodeRange is an inclusive range of code points.
type UnicodeRange struct {
	First, Last rune
}

// Contains is a predicate: is r within the range?
func (ur UnicodeRange) Contains(r rune) bool {
	return r >= ur.First && r <= ur.Last
}

func (ur UnicodeRange) String() string {
	if ur.First == ur.Last {
		return fmt.Sprintf("U+%04X", ur.First)
	}
	return fmt.Sprintf("U+%04X-%04X", ur.First, ur.Last)
}

// KerningSide is one side of a kerning pair. It matches a glyph if the
// glyph's name is in Glyphs, its unicode key is in Unicodes, or the first
// character of its key is in one of Ranges.
type KerningSide struct {
	Glyphs   *hashset.Set // of string
	Unicodes *hashset.Set // of string
	Ranges   []UnicodeRange
}

// NewKerningSide creates an empty kerning side.
func NewKerningSide() KerningSide {
	return KerningSide{
		Glyphs:   hashset.New(),
		Unicodes: hashset.New(),
	}
}

// IsEmpty is true if the side cannot match anything.
func (ks KerningSide) IsEmpty() bool {
	return isEmptySet(ks.Glyphs) && isEmptySet(ks.Unicodes) && len(ks.Ranges) == 0
}

func isEmptySet(s *hashset.Set) bool {
	return s == nil || s.Empty()
}

func inSet(s *hashset.Set, x string) bool {
	return s != nil && x != "" && s.Contains(x)
}

func (ks KerningSide) inRange(u string) bool {
	if u == "" {
		return false
	}
	r := []rune(u)[0]
	for _, ur := range ks.Ranges {
		if ur.Contains(r) {
			return true
		}
	}
	return false
}

func (ks KerningSide) matches(u, g string) bool {
	return inSet(ks.Glyphs, g) || inSet(ks.Unicodes, u) || ks.inRange(u)
}

func (ks KerningSide) String() string {
	var b strings.Builder
	b.WriteString("{")
	if !isEmptySet(ks.Glyphs) {
		fmt.Fprintf(&b, "g=%v ", ks.Glyphs.Values())
	}
	if !isEmptySet(ks.Unicodes) {
		fmt.Fprintf(&b, "u=%q ", ks.Unicodes.Values())
	}
	if len(ks.Ranges) > 0 {
		fmt.Fprintf(&b, "r=%v", ks.Ranges)
	}
	b.WriteString("}")
	return b.String()
}

// KerningPair adjusts the spacing between two glyphs. Adjustment is in
// design units and is added to the advance of the first glyph, i.e.
// negative values move the second glyph closer to the first one.
type KerningPair struct {
	Side1, Side2 KerningSide
	Adjustment   float32
}

// KerningTable holds the kerning pairs of a font for one writing mode.
// Pairs are indexed by the glyph names and unicode strings of their first
// side; pairs with a unicode range on their first side are kept in an
// additional list. All lists are in registration order.
type KerningTable struct {
	byGlyph   map[string]*arraylist.List
	byUnicode map[string]*arraylist.List
	ranged    *arraylist.List
	count     int
	stale     bool
}

// NewKerningTable creates an empty kerning table.
func NewKerningTable() *KerningTable {
	return &KerningTable{
		byGlyph:   make(map[string]*arraylist.List),
		byUnicode: make(map[string]*arraylist.List),
		ranged:    arraylist.New(),
	}
}

func (kt *KerningTable) assertFresh() {
	if kt.stale {
		panic(core.Error(core.ESTALE, "kerning table has been invalidated by a change of its font"))
	}
}

func (kt *KerningTable) invalidate() {
	kt.stale = true
}

// Insert adds a kerning pair. Pairs with an empty side are ignored.
func (kt *KerningTable) Insert(p KerningPair) {
	kt.assertFresh()
	if p.Side1.IsEmpty() || p.Side2.IsEmpty() {
		tracer().Debugf("kerning pair with empty side ignored")
		return
	}
	if p.Side1.Glyphs != nil {
		for _, g := range p.Side1.Glyphs.Values() {
			appendTo(kt.byGlyph, g.(string), p)
		}
	}
	if p.Side1.Unicodes != nil {
		for _, u := range p.Side1.Unicodes.Values() {
			appendTo(kt.byUnicode, u.(string), p)
		}
	}
	if len(p.Side1.Ranges) > 0 {
		kt.ranged.Add(p)
	}
	kt.count++
}

func appendTo(index map[string]*arraylist.List, key string, p KerningPair) {
	l, ok := index[key]
	if !ok {
		l = arraylist.New()
		index[key] = l
	}
	l.Add(p)
}

// AdjustmentFor returns the kerning adjustment between a first glyph (with
// unicode key u1 and name g1) and a second glyph (u2, g2), in design units.
//
// If the first glyph's name is indexed, only the pairs listed for that name
// are consulted. Otherwise pairs indexed by the first glyph's unicode key
// are tried, and finally pairs with unicode ranges. Within each index, the
// pair registered last wins. If no pair matches, 0 is returned.
func (kt *KerningTable) AdjustmentFor(u1, g1, u2, g2 string) float32 {
	kt.assertFresh()
	if kt.count == 0 {
		return 0
	}
	second := func(p KerningPair) bool {
		return p.Side2.matches(u2, g2)
	}
	if l, ok := kt.byGlyph[g1]; ok && g1 != "" {
		adj, _ := scanBackwards(l, second)
		return adj
	}
	if u1 == "" {
		return 0
	}
	if adj, ok := scanBackwards(kt.byUnicode[u1], second); ok {
		return adj
	}
	if adj, ok := scanBackwards(kt.ranged, func(p KerningPair) bool {
		return p.Side1.inRange(u1) && second(p)
	}); ok {
		return adj
	}
	return 0
}

func scanBackwards(l *arraylist.List, pred func(KerningPair) bool) (float32, bool) {
	if l == nil {
		return 0, false
	}
	it := l.Iterator()
	for it.End(); it.Prev(); {
		p := it.Value().(KerningPair)
		if pred(p) {
			return p.Adjustment, true
		}
	}
	return 0, false
}

// Len returns the number of pairs in the table.
func (kt *KerningTable) Len() int {
	kt.assertFresh()
	return kt.count
}

// IsEmpty is true if no pair has been inserted.
func (kt *KerningTable) IsEmpty() bool {
	return kt.Len() == 0
}
