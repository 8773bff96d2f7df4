package query

import (
	"github.com/mesh-intelligence/localbase/pkg/types"
)

// Schema lists the required columns per table. It is checked only at the
// mutation boundary; reads never validate rows.
type Schema map[string][]string

// DefaultSchema returns the dashboard's required columns.
func DefaultSchema() Schema {
	return Schema{
		types.TableDepartments:   {"name"},
		types.TableRoles:         {"name"},
		types.TableProfiles:      {"email"},
		types.TableProjects:      {"name"},
		types.TableTasks:         {"title"},
		types.TableActivities:    {"title"},
		types.TableNotifications: {"message"},
	}
}

// checkRow rejects a row that lacks a required column or holds nil there.
func (s Schema) checkRow(table string, row types.Row) *types.Error {
	for _, col := range s[table] {
		if row[col] == nil {
			return notNull(table, col)
		}
	}
	return nil
}

// checkPartial rejects an update that sets a required column to nil.
func (s Schema) checkPartial(table string, partial types.Row) *types.Error {
	for _, col := range s[table] {
		if v, ok := partial[col]; ok && v == nil {
			return notNull(table, col)
		}
	}
	return nil
}

func notNull(table, col string) *types.Error {
	return &types.Error{
		Code:    types.CodeNotNull,
		Message: `null value in column "` + col + `" of relation "` + table + `" violates not-null constraint`,
	}
}

// idIndex holds the ids taken in one table, keyed by canonical string so
// that it agrees with delete's id membership.
type idIndex map[string]bool

func indexIDs(table types.Table) idIndex {
	ix := make(idIndex, len(table))
	for _, row := range table {
		if key, ok := canonicalString(row[types.ColumnID]); ok {
			ix[key] = true
		}
	}
	return ix
}

// claim records id, or returns a unique violation when it is already taken.
// A nil id claims nothing.
func (ix idIndex) claim(table string, id any) *types.Error {
	key, ok := canonicalString(id)
	if !ok {
		return nil
	}
	if ix[key] {
		return duplicateKey(table, key)
	}
	ix[key] = true
	return nil
}

func duplicateKey(table, id string) *types.Error {
	return &types.Error{
		Code:    types.CodeUnique,
		Message: `duplicate key value violates unique constraint "` + table + `_pkey"`,
		Details: "Key (id)=(" + id + ") already exists.",
	}
}
