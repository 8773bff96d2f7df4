package query

import (
	"github.com/mesh-intelligence/localbase/pkg/types"
)

// insert appends b.rows to the table, assigning ids and timestamps the
// caller left out, and persists the snapshot. One inserted row is returned
// unwrapped. An id already present in the table or earlier in the batch
// rejects the whole batch.
func (e *Engine) insert(b *Builder) types.Result {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(b.rows) == 0 {
		return types.Result{Data: []types.Row{}}
	}

	snap, err := e.load()
	if err != nil {
		return types.Fail(err)
	}
	table := snap.Table(b.table)
	taken := indexIDs(table)
	now := e.timestamp()
	inserted := make([]types.Row, 0, len(b.rows))
	for _, in := range b.rows {
		row := e.prepare(in, now)
		if err := e.schema.checkRow(b.table, row); err != nil {
			return types.Fail(err)
		}
		if err := taken.claim(b.table, row[types.ColumnID]); err != nil {
			return types.Fail(err)
		}
		inserted = append(inserted, row)
	}

	snap[b.table] = append(table, inserted...)
	if err := e.persist(snap); err != nil {
		return types.Fail(err)
	}
	e.log.Debug().Str("table", b.table).Int("rows", len(inserted)).Msg("rows inserted")

	return b.mutationResult(snap, inserted, len(b.rows) == 1)
}

// upsert merges each row into the existing row with the same id, or
// inserts it when no such row exists. A batch may touch each id once.
func (e *Engine) upsert(b *Builder) types.Result {
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(b.rows) == 0 {
		return types.Result{Data: []types.Row{}}
	}

	snap, err := e.load()
	if err != nil {
		return types.Fail(err)
	}
	table := snap.Table(b.table)
	taken := indexIDs(table)
	seen := idIndex{}
	now := e.timestamp()
	written := make([]types.Row, 0, len(b.rows))
	for _, in := range b.rows {
		idx := indexByID(table, in[types.ColumnID])
		var row types.Row
		if idx < 0 {
			row = e.prepare(in, now)
			if err := taken.claim(b.table, row[types.ColumnID]); err != nil {
				return types.Fail(err)
			}
		} else {
			row = table[idx].Clone()
			for k, v := range in {
				row[k] = types.CloneValue(v)
			}
			row[types.ColumnUpdatedAt] = now
		}
		if err := seen.claim(b.table, row[types.ColumnID]); err != nil {
			return types.Fail(err)
		}
		if err := e.schema.checkRow(b.table, row); err != nil {
			return types.Fail(err)
		}
		if idx < 0 {
			table = append(table, row)
		} else {
			table[idx] = row
		}
		written = append(written, row)
	}

	snap[b.table] = table
	if err := e.persist(snap); err != nil {
		return types.Fail(err)
	}
	e.log.Debug().Str("table", b.table).Int("rows", len(written)).Msg("rows upserted")

	return b.mutationResult(snap, written, len(b.rows) == 1)
}

// update merges b.partial into every matching row and refreshes updated_at.
// Zero matches is a silent no-op: {nil, nil} and nothing is written. When
// the partial sets id, the resulting table must still hold unique ids.
func (e *Engine) update(b *Builder) types.Result {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.schema.checkPartial(b.table, b.partial); err != nil {
		return types.Fail(err)
	}

	snap, err := e.load()
	if err != nil {
		return types.Fail(err)
	}
	table := snap.Table(b.table)
	now := e.timestamp()
	var updated []types.Row
	for i, row := range table {
		if !matchAll(row, b.filters) {
			continue
		}
		merged := row.Clone()
		for k, v := range b.partial {
			merged[k] = types.CloneValue(v)
		}
		merged[types.ColumnUpdatedAt] = now
		table[i] = merged
		updated = append(updated, merged)
	}
	if len(updated) == 0 {
		return types.Result{}
	}
	if _, setsID := b.partial[types.ColumnID]; setsID {
		ids := idIndex{}
		for _, row := range table {
			if err := ids.claim(b.table, row[types.ColumnID]); err != nil {
				return types.Fail(err)
			}
		}
	}

	snap[b.table] = table
	if err := e.persist(snap); err != nil {
		return types.Fail(err)
	}
	e.log.Debug().Str("table", b.table).Int("rows", len(updated)).Msg("rows updated")

	return b.mutationResult(snap, updated, false)
}

// delete removes the rows matching the filters. Removal is by id
// membership: once the matching ids are known, every row carrying one of
// them goes. Zero matches is a silent no-op.
func (e *Engine) delete(b *Builder) types.Result {
	e.mu.Lock()
	defer e.mu.Unlock()

	snap, err := e.load()
	if err != nil {
		return types.Fail(err)
	}
	table := snap.Table(b.table)

	matched := make(map[int]bool)
	ids := make(map[string]bool)
	for i, row := range table {
		if !matchAll(row, b.filters) {
			continue
		}
		matched[i] = true
		if id, ok := canonicalString(row[types.ColumnID]); ok {
			ids[id] = true
		}
	}
	if len(matched) == 0 {
		return types.Result{}
	}

	kept := make(types.Table, 0, len(table)-len(matched))
	var removed []types.Row
	for i, row := range table {
		id, hasID := canonicalString(row[types.ColumnID])
		if matched[i] || (hasID && ids[id]) {
			removed = append(removed, row)
			continue
		}
		kept = append(kept, row)
	}

	snap[b.table] = kept
	if err := e.persist(snap); err != nil {
		return types.Fail(err)
	}
	e.log.Debug().Str("table", b.table).Int("rows", len(removed)).Msg("rows deleted")

	return b.mutationResult(snap, removed, false)
}

// prepare copies in and fills id, created_at and updated_at when absent.
// A caller-supplied id is never replaced.
func (e *Engine) prepare(in types.Row, now string) types.Row {
	row := in.Clone()
	if row == nil {
		row = types.Row{}
	}
	if id, ok := row[types.ColumnID]; !ok || id == nil || id == "" {
		row[types.ColumnID] = e.newID()
	}
	if row[types.ColumnCreatedAt] == nil {
		row[types.ColumnCreatedAt] = now
	}
	if row[types.ColumnUpdatedAt] == nil {
		row[types.ColumnUpdatedAt] = now
	}
	return row
}

// persist writes the snapshot, reshaping a storage failure into an Error.
func (e *Engine) persist(snap types.Snapshot) *types.Error {
	if err := e.src.Write(snap); err != nil {
		return &types.Error{Code: types.CodePersistence, Message: err.Error()}
	}
	return nil
}

// mutationResult shapes affected rows like a read would. Single/MaybeSingle
// apply when requested; otherwise unwrap returns one row bare.
func (b *Builder) mutationResult(snap types.Snapshot, rows []types.Row, unwrap bool) types.Result {
	shaped := b.shape(snap, rows)
	if b.single || b.maybe {
		return b.coerce(shaped)
	}
	if unwrap && len(shaped) == 1 {
		return types.Result{Data: shaped[0]}
	}
	return types.Result{Data: shaped}
}

// indexByID returns the index of the row whose id equals id, or -1.
func indexByID(table types.Table, id any) int {
	if id == nil || id == "" {
		return -1
	}
	for i, row := range table {
		if equal(row[types.ColumnID], id) {
			return i
		}
	}
	return -1
}
