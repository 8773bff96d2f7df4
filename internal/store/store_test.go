package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/localbase/pkg/types"
)

// backends lists every KV medium with a constructor rooted in dir.
var backends = []struct {
	name string
	open func(t *testing.T, dir string) KV
}{
	{"file", func(t *testing.T, dir string) KV {
		kv, err := OpenFileKV(dir)
		require.NoError(t, err)
		return kv
	}},
	{"sqlite", func(t *testing.T, dir string) KV {
		kv, err := OpenSQLiteKV(dir)
		require.NoError(t, err)
		return kv
	}},
	{"memory", func(t *testing.T, _ string) KV {
		return NewMemoryKV()
	}},
}

// load returns s.Load and fails the test on a medium error.
func load(t *testing.T, s *Store) types.Snapshot {
	t.Helper()
	snap, err := s.Load()
	require.NoError(t, err)
	return snap
}

// setupStore opens a Store on the named backend in a temp dir.
func setupStore(t *testing.T, open func(t *testing.T, dir string) KV) *Store {
	t.Helper()
	s := New(open(t, t.TempDir()))
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore(t *testing.T) {
	tests := []struct {
		name  string
		check func(t *testing.T, s *Store)
	}{
		{
			name: "empty medium reads seed data without writing",
			check: func(t *testing.T, s *Store) {
				snap := load(t, s)
				assert.Equal(t, Seed(), snap)
				assert.Equal(t, int64(0), s.Writes())

				_, ok, err := s.kv.Get(KeySnapshot)
				require.NoError(t, err)
				assert.False(t, ok)
			},
		},
		{
			name: "write then read round trips",
			check: func(t *testing.T, s *Store) {
				snap := Seed()
				snap[types.TableTasks] = append(snap[types.TableTasks], types.Row{
					"id": "task-new", "title": "Ship it", "priority": 2.0,
					"tags": []any{"a", "b"}, "meta": map[string]any{"x": true}, "assignee_id": nil,
				})
				require.NoError(t, s.Write(snap))
				assert.Equal(t, int64(1), s.Writes())
				assert.Equal(t, snap, load(t, s))
			},
		},
		{
			name: "seed round trips unchanged",
			check: func(t *testing.T, s *Store) {
				require.NoError(t, s.Write(Seed()))
				assert.Equal(t, Seed(), load(t, s))
			},
		},
		{
			name: "corrupt snapshot falls back to seed",
			check: func(t *testing.T, s *Store) {
				require.NoError(t, s.kv.Set(KeySnapshot, []byte("{not json")))
				assert.Equal(t, Seed(), load(t, s))
			},
		},
		{
			name: "null snapshot falls back to seed",
			check: func(t *testing.T, s *Store) {
				require.NoError(t, s.kv.Set(KeySnapshot, []byte("null")))
				assert.Equal(t, Seed(), load(t, s))
			},
		},
		{
			name: "session is independent of the snapshot",
			check: func(t *testing.T, s *Store) {
				_, ok := s.ReadSession()
				assert.False(t, ok)

				sess := &types.Session{
					AccessToken: "tok",
					TokenType:   "bearer",
					ExpiresIn:   3600,
					ExpiresAt:   time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
					User:        types.User{ID: "prof-ada", Email: "ada@localbase.dev", Role: "admin"},
				}
				require.NoError(t, s.WriteSession(sess))
				got, ok := s.ReadSession()
				require.True(t, ok)
				assert.Equal(t, sess, got)
				assert.Equal(t, int64(0), s.Writes())

				require.NoError(t, s.ClearSession())
				_, ok = s.ReadSession()
				assert.False(t, ok)
			},
		},
		{
			name: "corrupt session reads as signed out",
			check: func(t *testing.T, s *Store) {
				require.NoError(t, s.kv.Set(KeySession, []byte("garbage")))
				_, ok := s.ReadSession()
				assert.False(t, ok)
			},
		},
		{
			name: "writing a nil session clears it",
			check: func(t *testing.T, s *Store) {
				require.NoError(t, s.WriteSession(&types.Session{AccessToken: "tok"}))
				require.NoError(t, s.WriteSession(nil))
				_, ok := s.ReadSession()
				assert.False(t, ok)
			},
		},
		{
			name: "reset removes both keys",
			check: func(t *testing.T, s *Store) {
				snap := Seed()
				snap[types.TableScores] = types.Table{}
				require.NoError(t, s.Write(snap))
				require.NoError(t, s.WriteSession(&types.Session{AccessToken: "tok"}))

				require.NoError(t, s.Reset())
				assert.Equal(t, Seed(), load(t, s))
				_, ok := s.ReadSession()
				assert.False(t, ok)
			},
		},
		{
			name: "clearing an absent session is not an error",
			check: func(t *testing.T, s *Store) {
				assert.NoError(t, s.ClearSession())
				assert.NoError(t, s.Reset())
			},
		},
	}

	for _, b := range backends {
		for _, tt := range tests {
			t.Run(b.name+"/"+tt.name, func(t *testing.T) {
				tt.check(t, setupStore(t, b.open))
			})
		}
	}
}

func TestStore_Closed(t *testing.T) {
	for _, b := range backends {
		t.Run(b.name, func(t *testing.T) {
			s := New(b.open(t, t.TempDir()))
			require.NoError(t, s.Close())
			assert.NoError(t, s.Close())

			assert.ErrorIs(t, s.Write(Seed()), types.ErrStoreClosed)
			snap, err := s.Load()
			assert.ErrorIs(t, err, types.ErrStoreClosed)
			assert.Nil(t, snap)
			assert.ErrorIs(t, s.ClearSession(), types.ErrStoreClosed)
		})
	}
}

func TestStore_PersistsAcrossReopen(t *testing.T) {
	for _, b := range backends[:2] {
		t.Run(b.name, func(t *testing.T) {
			dir := t.TempDir()
			first := New(b.open(t, dir))
			snap := Seed()
			snap[types.TableDepartments] = snap[types.TableDepartments][:1]
			require.NoError(t, first.Write(snap))
			require.NoError(t, first.WriteSession(&types.Session{AccessToken: "tok"}))
			require.NoError(t, first.Close())

			second := New(b.open(t, dir))
			t.Cleanup(func() { second.Close() })
			assert.Len(t, load(t, second)[types.TableDepartments], 1)
			sess, ok := second.ReadSession()
			require.True(t, ok)
			assert.Equal(t, "tok", sess.AccessToken)
		})
	}
}

// flakyKV fails the next Get calls with errIO, then delegates.
type flakyKV struct {
	KV
	failures int
}

var errIO = errors.New("input/output error")

func (f *flakyKV) Get(key string) ([]byte, bool, error) {
	if f.failures > 0 {
		f.failures--
		return nil, false, errIO
	}
	return f.KV.Get(key)
}

func TestStore_LoadMediumFailure(t *testing.T) {
	kv := &flakyKV{KV: NewMemoryKV()}
	s := New(kv)
	snap := Seed()
	snap[types.TableNotifications] = types.Table{{"id": "n1"}, {"id": "n2"}}
	require.NoError(t, s.Write(snap))

	kv.failures = 1
	got, err := s.Load()
	assert.ErrorIs(t, err, errIO)
	assert.Nil(t, got)

	assert.Equal(t, snap, load(t, s))
}

func TestFileKV_Layout(t *testing.T) {
	dir := t.TempDir()
	kv, err := OpenFileKV(dir)
	require.NoError(t, err)
	s := New(kv)
	require.NoError(t, s.Write(Seed()))

	_, err = os.Stat(filepath.Join(dir, KeySnapshot+".json"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, KeySession+".json"))
	assert.True(t, os.IsNotExist(err))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestSQLiteKV_CreatesDatabase(t *testing.T) {
	dir := t.TempDir()
	kv, err := OpenSQLiteKV(dir)
	require.NoError(t, err)
	t.Cleanup(func() { kv.Close() })

	_, err = os.Stat(filepath.Join(dir, SQLiteFileName))
	assert.NoError(t, err)
}

func TestOpenKV(t *testing.T) {
	tests := []struct {
		name    string
		cfg     types.Config
		wantErr error
	}{
		{name: "file", cfg: types.Config{Backend: types.BackendFile, DataDir: t.TempDir()}},
		{name: "sqlite", cfg: types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()}},
		{name: "memory", cfg: types.Config{Backend: types.BackendMemory}},
		{name: "empty backend", cfg: types.Config{}, wantErr: types.ErrBackendEmpty},
		{name: "unknown backend", cfg: types.Config{Backend: "postgres"}, wantErr: types.ErrBackendUnknown},
		{name: "file without dir", cfg: types.Config{Backend: types.BackendFile}, wantErr: types.ErrDataDirEmpty},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv, err := OpenKV(tt.cfg)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NoError(t, kv.Close())
		})
	}
}

func TestSeed_FreshCopies(t *testing.T) {
	a := Seed()
	a[types.TableTasks][0]["title"] = "changed"
	b := Seed()
	assert.NotEqual(t, "changed", b[types.TableTasks][0]["title"])

	for _, name := range types.StandardTableNames {
		_, ok := b[name]
		assert.True(t, ok, "seed has table %s", name)
	}
	assert.Len(t, b[types.TableTasks], 6)
	assert.Empty(t, b[types.TableTaskHistory])
}
