package svgfont

import (
	"github.com/derekparker/trie"
	"github.com/npillmayer/tyse-svg/core"
)

// GlyphTable maps unicode keys, glyph names and glyph IDs to glyphs.
//
// A unicode key may hold more than one candidate glyph (e.g., variants for
// different Arabic forms or languages); candidates are kept in insertion
// order. Keys are stored in a trie, which lets us stop probing for longer
// keys as soon as no key with a given prefix exists.
//
// A GlyphTable is not safe for concurrent modification. After it has been
// built, concurrent lookups are fine.
type GlyphTable struct {
	keys   *trie.Trie         // unicode key → *keyEntry
	byName map[string]GlyphID // first glyph registered for a name
	glyphs []Glyph            // glyphs[id-1]
	stale  bool
}

type keyEntry struct {
	candidates []GlyphID
}

// Match is a unicode key found in a text, together with the glyphs
// registered for it.
type Match struct {
	Length     int     // length of the key in runes
	Candidates []Glyph // in insertion order
}

// NewGlyphTable creates an empty glyph table.
func NewGlyphTable() *GlyphTable {
	return &GlyphTable{
		keys:   trie.New(),
		byName: make(map[string]GlyphID),
	}
}

func (t *GlyphTable) assertFresh() {
	if t.stale {
		panic(core.Error(core.ESTALE, "glyph table has been invalidated by a change of its font"))
	}
}

func (t *GlyphTable) invalidate() {
	t.stale = true
}

// Insert registers a glyph under its name and its unicode key, and returns
// the ID assigned to it. The glyph's ID field is ignored.
//
// A glyph with neither name nor unicode key cannot be found and is not
// inserted; Insert returns 0 in this case. If more than one glyph is
// inserted with the same name, the first one wins.
//
// For keys longer than one character, every character of the key which
// is not yet present in the table gets a ligature-part placeholder. The
// placeholder makes the character count as present, but it is never used
// for rendering.
func (t *GlyphTable) Insert(g Glyph) GlyphID {
	t.assertFresh()
	if g.Name == "" && g.Unicode == "" {
		tracer().Debugf("glyph without name and unicode ignored")
		return 0
	}
	id := t.register(g)
	if g.Name != "" {
		if _, ok := t.byName[g.Name]; !ok {
			t.byName[g.Name] = id
		} else {
			tracer().Debugf("duplicate glyph name %q, keeping first glyph", g.Name)
		}
	}
	if g.Unicode == "" {
		return id
	}
	t.addKey(g.Unicode, id)
	if runes := []rune(g.Unicode); len(runes) > 1 {
		for _, r := range runes {
			part := string(r)
			if t.contains(part) {
				continue
			}
			ph := NewGlyph("", part)
			ph.IsLigaturePart = true
			t.addKey(part, t.register(ph))
		}
	}
	return id
}

// register assigns an ID to g without making it reachable by name or key.
func (t *GlyphTable) register(g Glyph) GlyphID {
	g.ID = GlyphID(len(t.glyphs) + 1)
	t.glyphs = append(t.glyphs, g)
	return g.ID
}

func (t *GlyphTable) addKey(key string, id GlyphID) {
	if node, ok := t.keys.Find(key); ok {
		entry := node.Meta().(*keyEntry)
		entry.candidates = append(entry.candidates, id)
		return
	}
	t.keys.Add(key, &keyEntry{candidates: []GlyphID{id}})
}

func (t *GlyphTable) contains(key string) bool {
	_, ok := t.keys.Find(key)
	return ok
}

// Contains returns true if key has been registered, either by a glyph or by
// a ligature-part placeholder.
func (t *GlyphTable) Contains(key string) bool {
	t.assertFresh()
	return t.contains(key)
}

// Matches returns every registered key which is a prefix of text[start:],
// longest key first.
func (t *GlyphTable) Matches(text []rune, start int) []Match {
	t.assertFresh()
	if start < 0 || start >= len(text) {
		return nil
	}
	var matches []Match
	for l := 1; start+l <= len(text); l++ {
		key := string(text[start : start+l])
		if !t.keys.HasKeysWithPrefix(key) {
			break
		}
		node, ok := t.keys.Find(key)
		if !ok {
			continue
		}
		entry := node.Meta().(*keyEntry)
		m := Match{Length: l, Candidates: make([]Glyph, len(entry.candidates))}
		for i, id := range entry.candidates {
			m.Candidates[i] = t.glyphs[id-1]
		}
		matches = append(matches, m)
	}
	for i, j := 0, len(matches)-1; i < j; i, j = i+1, j-1 {
		matches[i], matches[j] = matches[j], matches[i]
	}
	return matches
}

// LookupLongestMatch returns the longest registered key which is a prefix
// of text[start:].
func (t *GlyphTable) LookupLongestMatch(text []rune, start int) (Match, bool) {
	matches := t.Matches(text, start)
	if len(matches) == 0 {
		return Match{}, false
	}
	return matches[0], true
}

// LookupByName returns the first glyph registered under name.
func (t *GlyphTable) LookupByName(name string) (Glyph, bool) {
	t.assertFresh()
	id, ok := t.byName[name]
	if !ok {
		return Glyph{}, false
	}
	return t.glyphs[id-1], true
}

// LookupByID returns the glyph with a given ID.
func (t *GlyphTable) LookupByID(id GlyphID) (Glyph, bool) {
	t.assertFresh()
	if id == 0 || int(id) > len(t.glyphs) {
		return Glyph{}, false
	}
	return t.glyphs[id-1], true
}

// Len returns the number of glyphs in the table, placeholders included.
func (t *GlyphTable) Len() int {
	t.assertFresh()
	return len(t.glyphs)
}
