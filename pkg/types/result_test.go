package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResultRows(t *testing.T) {
	tests := []struct {
		name string
		data any
		want []Row
	}{
		{"sequence", []Row{{"id": "a"}, {"id": "b"}}, []Row{{"id": "a"}, {"id": "b"}}},
		{"table", Table{{"id": "a"}}, []Row{{"id": "a"}}},
		{"single row", Row{"id": "a"}, []Row{{"id": "a"}}},
		{"nil", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Result{Data: tt.data}.Rows())
		})
	}
}

func TestResultDecode(t *testing.T) {
	res := Result{Data: []Row{{
		"id": "task-4", "title": "Set up monitoring", "priority": 3.0,
		"assignee_id": nil, "project": Row{"name": "Infrastructure"}, "extra": "ignored",
	}}}

	var tasks []Task
	require.NoError(t, res.Decode(&tasks))
	require.Len(t, tasks, 1)
	assert.Equal(t, "task-4", tasks[0].ID)
	assert.Equal(t, 3.0, tasks[0].Priority)
	assert.Nil(t, tasks[0].AssigneeID)
	assert.Equal(t, "Infrastructure", tasks[0].Project["name"])

	failed := Fail(NewError(CodeRowCount, "JSON object requested, multiple (or no) rows returned"))
	var task Task
	err := failed.Decode(&task)
	require.Error(t, err)
	assert.Equal(t, "JSON object requested, multiple (or no) rows returned", err.Error())
	assert.False(t, failed.OK())
}

func TestErrorString(t *testing.T) {
	assert.Equal(t, "boom", (&Error{Message: "boom"}).Error())
	assert.Equal(t, "boom: 3 rows", (&Error{Message: "boom", Details: "3 rows"}).Error())
	assert.Equal(t, "missing x", NewError(CodeNotNull, "missing %s", "x").Message)
}

func TestSessionExpired(t *testing.T) {
	var nilSession *Session
	now := mustTime(t, "2026-02-01T10:00:00Z")
	assert.True(t, nilSession.Expired(now))
	assert.False(t, (&Session{ExpiresAt: now.Add(1)}).Expired(now))
	assert.True(t, (&Session{ExpiresAt: now}).Expired(now))
}
