package model

import (
	"sort"
	"time"
)

// Table is an ordered, immutable collection of records sharing Schema.
// Derivations return new tables; nothing is modified in place.
type Table struct {
	records []Record
	width   int
}

// NewTable wraps records read from a source with width physical columns.
// Fields at positions >= width are treated as missing columns.
func NewTable(records []Record, width int) *Table {
	if width > FieldCount {
		width = FieldCount
	}
	if width < 0 {
		width = 0
	}
	return &Table{records: records, width: width}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.records)
}

// Empty reports whether the table has no rows.
func (t *Table) Empty() bool { return t.Len() == 0 }

// Width returns the number of schema fields carried by the source.
func (t *Table) Width() int {
	if t == nil {
		return 0
	}
	return t.width
}

// HasField reports whether the source carried a column for f.
func (t *Table) HasField(f Field) bool {
	return f.Valid() && int(f) < t.Width()
}

// Record returns row i.
func (t *Table) Record(i int) Record { return t.records[i] }

// Records returns a copy of the rows.
func (t *Table) Records() []Record {
	if t == nil {
		return nil
	}
	out := make([]Record, len(t.records))
	copy(out, t.records)
	return out
}

// Each calls fn for every row in order.
func (t *Table) Each(fn func(Record)) {
	if t == nil {
		return
	}
	for _, r := range t.records {
		fn(r)
	}
}

// Subset returns a new table with the rows for which keep returns true.
func (t *Table) Subset(keep func(Record) bool) *Table {
	out := make([]Record, 0, t.Len())
	t.Each(func(r Record) {
		if keep(r) {
			out = append(out, r)
		}
	})
	return &Table{records: out, width: t.Width()}
}

// Distinct returns the sorted distinct present values of a text field.
func (t *Table) Distinct(f Field) []string {
	if !t.HasField(f) {
		return nil
	}
	seen := make(map[string]struct{})
	t.Each(func(r Record) {
		if v, ok := r.Text(f); ok {
			seen[v] = struct{}{}
		}
	})
	out := make([]string, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// DateBounds returns the earliest and latest present dates.
func (t *Table) DateBounds() (min, max time.Time, ok bool) {
	t.Each(func(r Record) {
		d, present := r.Date()
		if !present {
			return
		}
		if !ok || d.Before(min) {
			min = d
		}
		if !ok || d.After(max) {
			max = d
		}
		ok = true
	})
	return min, max, ok
}
