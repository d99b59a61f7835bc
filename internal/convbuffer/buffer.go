// Package convbuffer implements a bounded multiset of (event_timestamp,
// value) pairs accumulated per id and rendered into the bracketed list
// cells the Lift game's partner branch consumes, grounded on fbpcs's
// LiftIdSpineMultiConversionInput.
package convbuffer

import (
	"sort"
	"strconv"
	"strings"
)

// Kind selects whether Render emits the values list alongside the
// timestamps list.
type Kind int

const (
	Valueless Kind = iota
	WithValue
)

type pair struct {
	ts  uint64
	val uint64
}

// Buffer accumulates up to capacity (event_timestamp, value) pairs for one
// id. Updates past capacity are silently dropped, matching the reference's
// "already have required number of elements" no-op.
type Buffer struct {
	capacity int
	pairs    []pair
}

// New returns an empty Buffer with the given capacity (multi_conversion_limit).
func New(capacity int) *Buffer {
	return &Buffer{capacity: capacity}
}

// NewWithFirst returns a Buffer seeded with one (eventTimestamp, value)
// pair, for the first conversion observed for an id.
func NewWithFirst(capacity int, eventTimestamp, value uint64) *Buffer {
	b := New(capacity)
	b.pairs = append(b.pairs, pair{eventTimestamp, value})
	return b
}

// Update appends one more pair, in order, unless the buffer has already
// reached capacity.
func (b *Buffer) Update(eventTimestamp, value uint64) {
	if len(b.pairs) >= b.capacity {
		return
	}
	b.pairs = append(b.pairs, pair{eventTimestamp, value})
}

// Render pads the buffer with (0, 0) entries up to capacity, sorts
// ascending by event_timestamp (ties broken by insertion order, matching
// std::multimap's stable ordering of equal keys), and returns the
// bracketed timestamps list, followed by the bracketed values list when
// kind is WithValue.
func (b *Buffer) Render(kind Kind) string {
	padded := make([]pair, len(b.pairs), b.capacity)
	copy(padded, b.pairs)
	for len(padded) < b.capacity {
		padded = append(padded, pair{0, 0})
	}
	sort.SliceStable(padded, func(i, j int) bool { return padded[i].ts < padded[j].ts })

	ts := make([]string, len(padded))
	vals := make([]string, len(padded))
	for i, p := range padded {
		ts[i] = strconv.FormatUint(p.ts, 10)
		vals[i] = strconv.FormatUint(p.val, 10)
	}

	var out strings.Builder
	out.WriteByte('[')
	out.WriteString(strings.Join(ts, ","))
	out.WriteByte(']')
	if kind == WithValue {
		out.WriteByte(',')
		out.WriteByte('[')
		out.WriteString(strings.Join(vals, ","))
		out.WriteByte(']')
	}
	return out.String()
}
