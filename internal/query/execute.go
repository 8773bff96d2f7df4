package query

import (
	"fmt"
	"sort"

	"github.com/mesh-intelligence/localbase/pkg/types"
)

// Row-count error text, as the networked client reports it. The hint tells
// the two violations apart.
const (
	rowCountMessage = "JSON object requested, multiple (or no) rows returned"
	hintExactlyOne  = "Exactly one row was required"
	hintAtMostOne   = "At most one row was required"
)

// Execute runs the builder and returns its result. It completes
// synchronously and never panics: internal failures come back as an Error.
func (b *Builder) Execute() (res types.Result) {
	defer func() {
		if r := recover(); r != nil {
			b.engine.log.Error().Interface("panic", r).Str("table", b.table).Msg("query failed")
			res = types.Fail(&types.Error{
				Code:    types.CodeInternal,
				Message: fmt.Sprint(r),
			})
		}
	}()

	if b.err != nil {
		return types.Fail(b.err)
	}

	switch b.mode {
	case modeInsert:
		return b.engine.insert(b)
	case modeUpsert:
		return b.engine.upsert(b)
	case modeUpdate:
		return b.engine.update(b)
	case modeDelete:
		return b.engine.delete(b)
	default:
		return b.engine.selectRows(b)
	}
}

// Async runs the builder and returns a channel that already holds the
// result. It exists for callers written against a deferred client; the
// channel never blocks and is closed after the one result.
func (b *Builder) Async() <-chan types.Result {
	ch := make(chan types.Result, 1)
	ch <- b.Execute()
	close(ch)
	return ch
}

// selectRows runs the read pipeline: filter, order, range, limit, project,
// resolve relations, coerce.
func (e *Engine) selectRows(b *Builder) types.Result {
	snap, err := e.load()
	if err != nil {
		return types.Fail(err)
	}
	rows := b.filter(snap.Table(b.table))
	total := len(rows)

	b.sort(rows)
	rows = b.window(rows)

	res := b.coerce(b.shape(snap, rows))
	if b.count {
		res.Count = &total
	}
	return res
}

// filter returns the rows satisfying every registered predicate.
func (b *Builder) filter(table types.Table) []types.Row {
	out := make([]types.Row, 0, len(table))
	for _, row := range table {
		if matchAll(row, b.filters) {
			out = append(out, row)
		}
	}
	return out
}

// sort applies each Order in registration order as a full stable sort.
func (b *Builder) sort(rows []types.Row) {
	for _, o := range b.orders {
		sort.SliceStable(rows, func(i, j int) bool {
			c := sortCompare(rows[i][o.column], rows[j][o.column])
			if o.ascending {
				return c < 0
			}
			return c > 0
		})
	}
}

// window applies Range then Limit.
func (b *Builder) window(rows []types.Row) []types.Row {
	if b.hasRange {
		if b.from >= len(rows) {
			rows = rows[:0]
		} else {
			end := b.to + 1
			if end > len(rows) {
				end = len(rows)
			}
			rows = rows[b.from:end]
		}
	}
	if b.hasLimit && b.limit < len(rows) {
		rows = rows[:b.limit]
	}
	return rows
}

// shape projects rows and attaches resolved relations. The result is never
// nil so an empty read still carries non-nil data.
func (b *Builder) shape(snap types.Snapshot, rows []types.Row) []types.Row {
	out := make([]types.Row, len(rows))
	for i, row := range rows {
		projected := b.sel.project(row)
		b.engine.relations.resolve(snap, b.table, row, projected, b.sel.relations)
		out[i] = projected
	}
	return out
}

// coerce applies Single/MaybeSingle cardinality rules.
func (b *Builder) coerce(rows []types.Row) types.Result {
	if !b.single && !b.maybe {
		return types.Result{Data: rows}
	}
	switch {
	case len(rows) == 1:
		return types.Result{Data: rows[0]}
	case len(rows) == 0 && b.maybe:
		return types.Result{}
	default:
		hint := hintAtMostOne
		if len(rows) == 0 {
			hint = hintExactlyOne
		}
		return types.Fail(&types.Error{
			Code:    types.CodeRowCount,
			Message: rowCountMessage,
			Details: fmt.Sprintf("The result contains %d rows", len(rows)),
			Hint:    hint,
		})
	}
}
