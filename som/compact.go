package som

import (
	"maps"

	"github.com/RoaringBitmap/roaring/v2"
)

// MnemonicEntry maps an original label to its short code.
type MnemonicEntry struct {
	Label string `json:"label"`
	Code  string `json:"code"`
}

// Mnemonics is the ordered label→code table produced by CompactLabels.
type Mnemonics struct {
	entries []MnemonicEntry
	byLabel map[string]string
	byCode  map[string]string
}

// NewMnemonics builds a table from entries in first-seen order.
func NewMnemonics(entries []MnemonicEntry) Mnemonics {
	m := Mnemonics{
		entries: make([]MnemonicEntry, 0, len(entries)),
		byLabel: make(map[string]string, len(entries)),
		byCode:  make(map[string]string, len(entries)),
	}
	for _, e := range entries {
		if _, ok := m.byLabel[e.Label]; ok {
			continue
		}
		m.entries = append(m.entries, e)
		m.byLabel[e.Label] = e.Code
		m.byCode[e.Code] = e.Label
	}
	return m
}

// Code returns the code assigned to label.
func (m Mnemonics) Code(label string) (string, bool) {
	c, ok := m.byLabel[label]
	return c, ok
}

// Label returns the original label behind code.
func (m Mnemonics) Label(code string) (string, bool) {
	l, ok := m.byCode[code]
	return l, ok
}

// Len returns the number of distinct labels.
func (m Mnemonics) Len() int { return len(m.entries) }

// Entries returns the table in first-seen order.
func (m Mnemonics) Entries() []MnemonicEntry {
	return append([]MnemonicEntry(nil), m.entries...)
}

// Map returns the table as label→code.
func (m Mnemonics) Map() map[string]string {
	return maps.Clone(m.byLabel)
}

// HistogramEntry is the number of neurons carrying a code.
type HistogramEntry struct {
	Code  string `json:"code"`
	Count int    `json:"count"`
}

// Histogram counts neurons per mnemonic code.
type Histogram struct {
	entries []HistogramEntry
	counts  map[string]int
}

// NewHistogram builds a histogram from entries in code order.
func NewHistogram(entries []HistogramEntry) Histogram {
	h := Histogram{
		entries: append([]HistogramEntry(nil), entries...),
		counts:  make(map[string]int, len(entries)),
	}
	for _, e := range entries {
		h.counts[e.Code] += e.Count
	}
	return h
}

// Count returns the number of neurons carrying code.
func (h Histogram) Count(code string) int { return h.counts[code] }

// Total returns the number of neurons counted.
func (h Histogram) Total() int {
	total := 0
	for _, e := range h.entries {
		total += e.Count
	}
	return total
}

// Entries returns the counts in code order.
func (h Histogram) Entries() []HistogramEntry {
	return append([]HistogramEntry(nil), h.entries...)
}

// Map returns the histogram as code→count.
func (h Histogram) Map() map[string]int {
	return maps.Clone(h.counts)
}

// MnemonicCode returns the code of the i-th distinct label:
// a, b, ..., z, aa, ab, ...
func MnemonicCode(i int) string {
	var buf []byte
	for i++; i > 0; i = (i - 1) / 26 {
		buf = append([]byte{byte('a' + (i-1)%26)}, buf...)
	}
	return string(buf)
}

// CompactLabels rewrites every neuron label to a short code assigned in
// first-seen (row-major) order and counts the neurons per code.
func CompactLabels(g *Grid) (Mnemonics, Histogram) {
	var (
		order   []string
		members = make(map[string]*roaring.Bitmap)
	)
	for i, label := range g.labels {
		bm, ok := members[label]
		if !ok {
			bm = roaring.New()
			members[label] = bm
			order = append(order, label)
		}
		bm.Add(uint32(i))
	}

	entries := make([]MnemonicEntry, len(order))
	counts := make([]HistogramEntry, len(order))
	for i, label := range order {
		code := MnemonicCode(i)
		entries[i] = MnemonicEntry{Label: label, Code: code}
		counts[i] = HistogramEntry{Code: code, Count: int(members[label].GetCardinality())}

		it := members[label].Iterator()
		for it.HasNext() {
			g.labels[it.Next()] = code
		}
	}
	return NewMnemonics(entries), NewHistogram(counts)
}
