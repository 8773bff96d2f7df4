package localbase

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/localbase/internal/auth"
	"github.com/mesh-intelligence/localbase/internal/bucket"
	"github.com/mesh-intelligence/localbase/pkg/types"
)

// setupClient opens a Client on the given backend in a temp dir.
func setupClient(t *testing.T, backend string, opts ...Option) *Client {
	t.Helper()
	c, err := New(types.Config{Backend: backend, DataDir: t.TempDir()}, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestNew_InvalidConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     types.Config
		wantErr error
	}{
		{"empty backend", types.Config{}, types.ErrBackendEmpty},
		{"unknown backend", types.Config{Backend: "redis"}, types.ErrBackendUnknown},
		{"file without dir", types.Config{Backend: types.BackendFile}, types.ErrDataDirEmpty},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.cfg)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestClient_Dashboard(t *testing.T) {
	backends := []string{types.BackendFile, types.BackendSQLite, types.BackendMemory}

	for _, backend := range backends {
		t.Run(backend, func(t *testing.T) {
			var n int
			c := setupClient(t, backend,
				WithClock(func() time.Time { return time.Date(2026, 2, 14, 9, 0, 0, 0, time.UTC) }),
				WithIDGenerator(func() string { n++; return fmt.Sprintf("id-%d", n) }),
			)

			var events []types.AuthEvent
			sub := c.Auth().OnAuthStateChange(func(ev types.AuthEvent, _ *types.Session) {
				events = append(events, ev)
			})
			defer sub.Unsubscribe()

			signIn := c.Auth().SignInWithPassword(auth.Credentials{Email: "ada@localbase.dev"})
			require.Nil(t, signIn.Error)

			created := c.From(types.TableTasks).
				Insert(types.Row{"title": "Quarterly review", "status": "open", "priority": 1, "project_id": "proj-api"}).
				Select("*, project:projects(name)").
				Single().
				Execute()
			require.Nil(t, created.Error)
			var task types.Task
			require.NoError(t, created.Decode(&task))
			assert.Equal(t, "id-1", task.ID)
			assert.Equal(t, "2026-02-14T09:00:00Z", task.CreatedAt)
			assert.Equal(t, "Public API", task.Project["name"])

			open := c.From(types.TableTasks).Eq("status", "open").Order("priority").Limit(2).Execute()
			require.Nil(t, open.Error)
			var tasks []types.Task
			require.NoError(t, open.Decode(&tasks))
			require.Len(t, tasks, 2)
			assert.Equal(t, "task-3", tasks[0].ID)
			assert.Equal(t, "id-1", tasks[1].ID)

			assert.Equal(t, int64(1), c.Writes())
			require.Nil(t, c.Auth().SignOut().Error)
			assert.Equal(t, []types.AuthEvent{types.EventInitialSession, types.EventSignedIn, types.EventSignedOut}, events)

			url := c.Storage().From("avatars").GetPublicURL("ada.png")
			assert.Equal(t, bucket.PublicURLData{PublicURL: types.DefaultPublicURLBase + "/storage/v1/object/public/avatars/ada.png"}, url.Data)
		})
	}
}

func TestClient_DurableAcrossClients(t *testing.T) {
	for _, backend := range []string{types.BackendFile, types.BackendSQLite} {
		t.Run(backend, func(t *testing.T) {
			cfg := types.Config{Backend: backend, DataDir: t.TempDir()}

			first, err := New(cfg)
			require.NoError(t, err)
			require.Nil(t, first.From(types.TableDepartments).Insert(types.Row{"id": "dept-legal", "name": "Legal"}).Execute().Error)
			require.Nil(t, first.Auth().SignInWithPassword(auth.Credentials{Email: "linus@localbase.dev"}).Error)
			require.NoError(t, first.Close())

			second, err := New(cfg)
			require.NoError(t, err)
			t.Cleanup(func() { second.Close() })

			res := second.From(types.TableDepartments).Eq("id", "dept-legal").MaybeSingle().Execute()
			require.Nil(t, res.Error)
			assert.NotNil(t, res.Data)
			require.NotNil(t, second.Auth().Session())
			assert.Equal(t, "prof-linus", second.Auth().Session().User.ID)
		})
	}
}

func TestClient_Reset(t *testing.T) {
	c := setupClient(t, types.BackendFile)
	require.Nil(t, c.From(types.TableScores).Delete().Eq("id", "score-1").Execute().Error)
	require.Nil(t, c.Auth().SignInWithPassword(auth.Credentials{Email: "grace@localbase.dev"}).Error)

	require.NoError(t, c.Reset())
	snap, err := c.Snapshot()
	require.NoError(t, err)
	assert.Len(t, snap[types.TableScores], 2)
	assert.Nil(t, c.Auth().Session())
}

func TestClient_BootstrapSession(t *testing.T) {
	c, err := New(types.Config{Backend: types.BackendMemory, BootstrapSession: true, DefaultEmail: "ops@example.com"})
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })

	sess := c.Auth().Session()
	require.NotNil(t, sess)
	assert.Equal(t, "ops@example.com", sess.User.Email)
}

func TestClient_WithSeed(t *testing.T) {
	c := setupClient(t, types.BackendMemory, WithSeed(func() types.Snapshot {
		return types.Snapshot{"widgets": types.Table{{"id": "w-1"}}}
	}))
	res := c.From("widgets").Execute()
	assert.Len(t, res.Rows(), 1)
	assert.Empty(t, c.From(types.TableTasks).Execute().Rows())
}

func TestClient_CloseIsIdempotent(t *testing.T) {
	c, err := New(types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()})
	require.NoError(t, err)
	assert.NoError(t, c.Close())
	assert.NoError(t, c.Close())

	res := c.From(types.TableTasks).Insert(types.Row{"title": "after close"}).Execute()
	require.NotNil(t, res.Error)
	assert.Equal(t, types.CodePersistence, res.Error.Code)

	res = c.From(types.TableTasks).Execute()
	assert.Nil(t, res.Data)
	require.NotNil(t, res.Error)
	assert.Equal(t, types.CodePersistence, res.Error.Code)

	_, err = c.Snapshot()
	assert.ErrorIs(t, err, types.ErrStoreClosed)
}
