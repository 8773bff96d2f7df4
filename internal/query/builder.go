package query

import (
	"sort"

	"github.com/mesh-intelligence/localbase/pkg/types"
)

// mode is what Execute does with the builder.
type mode int

const (
	modeSelect mode = iota
	modeInsert
	modeUpdate
	modeUpsert
	modeDelete
)

// order is one registered Order call.
type order struct {
	column    string
	ascending bool
}

// OrderOption adjusts an Order call.
type OrderOption func(*order)

// Ascending sets the sort direction. Orders are ascending by default.
func Ascending(asc bool) OrderOption {
	return func(o *order) { o.ascending = asc }
}

// Builder is a chainable query against one table. Builders are not safe for
// concurrent use; build one per query.
type Builder struct {
	engine *Engine
	table  string

	sel      selection
	filters  []Predicate
	orders   []order
	limit    int
	hasLimit bool
	from, to int
	hasRange bool
	single   bool
	maybe    bool
	count    bool

	mode    mode
	rows    []types.Row
	partial types.Row

	err *types.Error
}

// fail records the first builder error; Execute reports it.
func (b *Builder) fail(err *types.Error) *Builder {
	if b.err == nil {
		b.err = err
	}
	return b
}

// Select sets the projection: a comma-separated column list, "*" for every
// column, and relationship markers such as "department:departments(name)".
func (b *Builder) Select(columns ...string) *Builder {
	spec := "*"
	if len(columns) > 0 {
		spec = columns[0]
		for _, c := range columns[1:] {
			spec += "," + c
		}
	}
	b.sel = parseSelect(spec)
	return b
}

func (b *Builder) where(column string, op Operator, value any) *Builder {
	if column == "" {
		return b.fail(types.NewError(types.CodeInvalidRequest, "%s", types.ErrInvalidColumn.Error()))
	}
	b.filters = append(b.filters, newCondition(column, op, value))
	return b
}

// Eq keeps rows whose column equals value.
func (b *Builder) Eq(column string, value any) *Builder { return b.where(column, OpEq, value) }

// Neq keeps rows whose column does not equal value.
func (b *Builder) Neq(column string, value any) *Builder { return b.where(column, OpNeq, value) }

// Gt keeps rows whose column is greater than value.
func (b *Builder) Gt(column string, value any) *Builder { return b.where(column, OpGt, value) }

// Gte keeps rows whose column is greater than or equal to value.
func (b *Builder) Gte(column string, value any) *Builder { return b.where(column, OpGte, value) }

// Lt keeps rows whose column is less than value.
func (b *Builder) Lt(column string, value any) *Builder { return b.where(column, OpLt, value) }

// Lte keeps rows whose column is less than or equal to value.
func (b *Builder) Lte(column string, value any) *Builder { return b.where(column, OpLte, value) }

// In keeps rows whose column deep-equals one of values. values may be any
// slice; a non-slice is a single candidate.
func (b *Builder) In(column string, values any) *Builder { return b.where(column, OpIn, values) }

// Is keeps rows whose column is identical to value (nil, true or false).
func (b *Builder) Is(column string, value any) *Builder { return b.where(column, OpIs, value) }

// Like keeps rows whose column matches pattern, with % as wildcard.
func (b *Builder) Like(column, pattern string) *Builder { return b.where(column, OpLike, pattern) }

// ILike is Like, case-insensitive.
func (b *Builder) ILike(column, pattern string) *Builder { return b.where(column, OpILike, pattern) }

// Or keeps rows matching any of the comma-separated "column.op.value"
// conditions in expr. Only eq, like and ilike are understood; other
// operators never match.
func (b *Builder) Or(expr string) *Builder {
	b.filters = append(b.filters, parseOr(expr))
	return b
}

// Match adds an Eq filter for every entry of query.
func (b *Builder) Match(query map[string]any) *Builder {
	cols := make([]string, 0, len(query))
	for col := range query {
		cols = append(cols, col)
	}
	sort.Strings(cols)
	for _, col := range cols {
		b.Eq(col, query[col])
	}
	return b
}

// Filter adds a predicate built outside the fluent methods.
func (b *Builder) Filter(p Predicate) *Builder {
	if p != nil {
		b.filters = append(b.filters, p)
	}
	return b
}

// Order re-sorts the result by column, stably. Each call fully re-sorts the
// rows in registration order, so the last call is the dominant key and
// earlier calls only break its ties.
func (b *Builder) Order(column string, opts ...OrderOption) *Builder {
	o := order{column: column, ascending: true}
	for _, opt := range opts {
		opt(&o)
	}
	b.orders = append(b.orders, o)
	return b
}

// Limit keeps at most n rows after sorting. Negative n is ignored.
func (b *Builder) Limit(n int) *Builder {
	if n >= 0 {
		b.limit, b.hasLimit = n, true
	}
	return b
}

// Range keeps rows from offset from to offset to, both inclusive, after
// sorting and before Limit.
func (b *Builder) Range(from, to int) *Builder {
	if from < 0 || to < from {
		return b.fail(types.NewError(types.CodeInvalidRequest, "invalid range %d-%d", from, to))
	}
	b.from, b.to, b.hasRange = from, to, true
	return b
}

// Single requires exactly one row and unwraps it.
func (b *Builder) Single() *Builder {
	b.single, b.maybe = true, false
	return b
}

// MaybeSingle allows zero or one row; zero rows resolves to {nil, nil}.
func (b *Builder) MaybeSingle() *Builder {
	b.single, b.maybe = false, true
	return b
}

// Count reports the number of rows matching the filters, before Range and
// Limit, in Result.Count.
func (b *Builder) Count() *Builder {
	b.count = true
	return b
}

// Insert switches the builder to insert rows.
func (b *Builder) Insert(rows ...types.Row) *Builder {
	b.mode, b.rows = modeInsert, rows
	return b
}

// Upsert switches the builder to insert rows, merging into existing rows
// that share an id.
func (b *Builder) Upsert(rows ...types.Row) *Builder {
	b.mode, b.rows = modeUpsert, rows
	return b
}

// Update switches the builder to merge partial into every row matching the
// filters.
func (b *Builder) Update(partial types.Row) *Builder {
	b.mode, b.partial = modeUpdate, partial
	return b
}

// Delete switches the builder to remove every row matching the filters.
func (b *Builder) Delete() *Builder {
	b.mode = modeDelete
	return b
}
