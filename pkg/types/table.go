package types

import (
	"encoding/json"
	"maps"
	"sort"
)

// Row is one schema-less record. Values are scalars (string, number, bool,
// nil) or nested maps and slices.
type Row map[string]any

// Table is a named, ordered sequence of rows. Order is insertion order
// unless a query sorts.
type Table []Row

// Snapshot is the full database: every table keyed by name. It is the unit
// of persistence.
type Snapshot map[string]Table

// Well-known columns managed by the mutation engine.
const (
	ColumnID        = "id"
	ColumnCreatedAt = "created_at"
	ColumnUpdatedAt = "updated_at"
)

// ID returns the row's id column as a string, or "" when absent.
func (r Row) ID() string {
	id, _ := r[ColumnID].(string)
	return id
}

// Clone returns a deep copy of the row. Nested maps and slices are copied so
// the clone can be mutated freely.
func (r Row) Clone() Row {
	if r == nil {
		return nil
	}
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = CloneValue(v)
	}
	return out
}

// Columns returns the row's column names in sorted order.
func (r Row) Columns() []string {
	cols := make([]string, 0, len(r))
	for k := range r {
		cols = append(cols, k)
	}
	sort.Strings(cols)
	return cols
}

// Clone returns a deep copy of the table.
func (t Table) Clone() Table {
	if t == nil {
		return nil
	}
	out := make(Table, len(t))
	for i, r := range t {
		out[i] = r.Clone()
	}
	return out
}

// Table returns the named table. Unknown tables read as an empty sequence.
func (s Snapshot) Table(name string) Table {
	if s == nil {
		return Table{}
	}
	t, ok := s[name]
	if !ok || t == nil {
		return Table{}
	}
	return t
}

// Clone returns a deep copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	out := make(Snapshot, len(s))
	for name, t := range s {
		out[name] = t.Clone()
	}
	return out
}

// TableNames returns the names of the tables present in the snapshot, sorted.
func (s Snapshot) TableNames() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// MarshalJSON writes a nil table as an empty array so persisted snapshots
// never contain null tables.
func (t Table) MarshalJSON() ([]byte, error) {
	if t == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]Row(t))
}

// CloneValue deep-copies a row value. Scalars are returned as is.
func CloneValue(v any) any {
	switch x := v.(type) {
	case Row:
		return x.Clone()
	case map[string]any:
		return map[string]any(Row(x).Clone())
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = CloneValue(e)
		}
		return out
	case []string:
		out := make([]string, len(x))
		copy(out, x)
		return out
	case []Row:
		out := make([]Row, len(x))
		for i, e := range x {
			out[i] = e.Clone()
		}
		return out
	case map[string]string:
		return maps.Clone(x)
	default:
		return v
	}
}
