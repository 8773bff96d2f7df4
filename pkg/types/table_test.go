package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRowClone(t *testing.T) {
	orig := Row{
		"id":   "r-1",
		"tags": []any{"a", Row{"deep": true}},
		"meta": map[string]any{"n": 1.0},
	}
	c := orig.Clone()
	assert.Equal(t, orig, c)

	c["tags"].([]any)[1].(Row)["deep"] = false
	c["meta"].(map[string]any)["n"] = 2.0
	c["id"] = "r-2"

	assert.Equal(t, true, orig["tags"].([]any)[1].(Row)["deep"])
	assert.Equal(t, 1.0, orig["meta"].(map[string]any)["n"])
	assert.Equal(t, "r-1", orig.ID())
}

func TestRowID(t *testing.T) {
	assert.Equal(t, "x", Row{"id": "x"}.ID())
	assert.Equal(t, "", Row{"id": 7}.ID())
	assert.Equal(t, "", Row{}.ID())
}

func TestRowColumns(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, Row{"c": 1, "a": 2, "b": 3}.Columns())
}

func TestSnapshotTable(t *testing.T) {
	snap := Snapshot{"tasks": Table{{"id": "t-1"}}, "empty": nil}
	assert.Len(t, snap.Table("tasks"), 1)
	assert.Equal(t, Table{}, snap.Table("unknown"))
	assert.Equal(t, Table{}, snap.Table("empty"))
	assert.Equal(t, Table{}, Snapshot(nil).Table("tasks"))
	assert.Equal(t, []string{"empty", "tasks"}, snap.TableNames())
}

func TestSnapshotClone(t *testing.T) {
	snap := Snapshot{"tasks": Table{{"id": "t-1", "title": "a"}}}
	c := snap.Clone()
	c["tasks"][0]["title"] = "b"
	c["tasks"] = append(c["tasks"], Row{"id": "t-2"})

	assert.Equal(t, "a", snap["tasks"][0]["title"])
	assert.Len(t, snap["tasks"], 1)
}

func TestSnapshotJSON(t *testing.T) {
	snap := Snapshot{"tasks": nil, "roles": Table{{"id": "r-1", "name": "admin"}}}
	data, err := json.Marshal(snap)
	require.NoError(t, err)
	assert.JSONEq(t, `{"tasks":[],"roles":[{"id":"r-1","name":"admin"}]}`, string(data))

	var back Snapshot
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, Table{}, back["tasks"])
	assert.Equal(t, "admin", back["roles"][0]["name"])
}

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, s)
	require.NoError(t, err)
	return ts
}
