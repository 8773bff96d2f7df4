package query

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/localbase/internal/store"
	"github.com/mesh-intelligence/localbase/pkg/types"
)

var fixedNow = time.Date(2026, 2, 14, 12, 30, 0, 0, time.UTC)

// setupEngine returns an Engine over an in-memory store holding seed data,
// with a fixed clock and sequential ids.
func setupEngine(t *testing.T) (*Engine, *store.Store) {
	t.Helper()
	st := store.New(store.NewMemoryKV())
	t.Cleanup(func() { st.Close() })

	var n int
	e := NewEngine(st,
		WithClock(func() time.Time { return fixedNow }),
		WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("gen-%d", n)
		}),
	)
	return e, st
}

// load returns the store's snapshot and fails the test on a medium error.
func load(t *testing.T, st *store.Store) types.Snapshot {
	t.Helper()
	snap, err := st.Load()
	require.NoError(t, err)
	return snap
}

// ids returns the id column of every row in res, in order.
func ids(t *testing.T, res types.Result) []string {
	t.Helper()
	require.Nil(t, res.Error)
	out := []string{}
	for _, row := range res.Rows() {
		out = append(out, row.ID())
	}
	return out
}
