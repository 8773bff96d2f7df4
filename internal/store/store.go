package store

import (
	"encoding/json"
	"fmt"
	"sync/atomic"

	"github.com/rs/zerolog"

	"github.com/mesh-intelligence/localbase/pkg/types"
)

// Store reads and writes the full database snapshot and the current session.
type Store struct {
	kv     KV
	log    zerolog.Logger
	seed   func() types.Snapshot
	writes atomic.Int64
}

// Option configures a Store.
type Option func(*Store)

// WithLogger routes store warnings (seed fallback, undecodable session) to l.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Store) { s.log = l }
}

// WithSeed replaces the default seed dataset.
func WithSeed(seed func() types.Snapshot) Option {
	return func(s *Store) { s.seed = seed }
}

// New returns a Store over kv.
func New(kv KV, opts ...Option) *Store {
	s := &Store{
		kv:   kv,
		log:  zerolog.Nop(),
		seed: Seed,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// OpenKV opens the medium named by cfg.Backend.
func OpenKV(cfg types.Config) (KV, error) {
	switch cfg.Backend {
	case types.BackendFile:
		return OpenFileKV(cfg.DataDir)
	case types.BackendSQLite:
		return OpenSQLiteKV(cfg.DataDir)
	case types.BackendMemory:
		return NewMemoryKV(), nil
	case "":
		return nil, types.ErrBackendEmpty
	default:
		return nil, fmt.Errorf("%w: %q", types.ErrBackendUnknown, cfg.Backend)
	}
}

// Load returns the persisted snapshot, or a fresh copy of the seed dataset
// when none is stored or the stored one does not decode. Corruption is
// logged and healed on the next write. A failure of the medium itself,
// including a closed store, is returned as an error and never reads as seed
// data. Load never writes.
func (s *Store) Load() (types.Snapshot, error) {
	data, ok, err := s.kv.Get(KeySnapshot)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}
	if !ok {
		return s.seed(), nil
	}

	var snap types.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		s.log.Warn().Err(err).Msg("snapshot corrupt, using seed data")
		return s.seed(), nil
	}
	if snap == nil {
		return s.seed(), nil
	}
	return snap, nil
}

// Write replaces the persisted snapshot wholesale.
func (s *Store) Write(snap types.Snapshot) error {
	if snap == nil {
		snap = types.Snapshot{}
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	if err := s.kv.Set(KeySnapshot, data); err != nil {
		s.log.Error().Err(err).Msg("snapshot write failed")
		return fmt.Errorf("writing snapshot: %w", err)
	}
	s.writes.Add(1)
	return nil
}

// Writes returns how many snapshot writes this Store has performed.
func (s *Store) Writes() int64 {
	return s.writes.Load()
}

// ReadSession returns the persisted session. An absent or undecodable
// session reads as signed out.
func (s *Store) ReadSession() (*types.Session, bool) {
	data, ok, err := s.kv.Get(KeySession)
	if err != nil {
		s.log.Warn().Err(err).Msg("session unreadable")
		return nil, false
	}
	if !ok {
		return nil, false
	}

	var sess types.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		s.log.Warn().Err(err).Msg("session corrupt, treating as signed out")
		return nil, false
	}
	return &sess, true
}

// WriteSession persists sess as the current session.
func (s *Store) WriteSession(sess *types.Session) error {
	if sess == nil {
		return s.ClearSession()
	}
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}
	if err := s.kv.Set(KeySession, data); err != nil {
		return fmt.Errorf("writing session: %w", err)
	}
	return nil
}

// ClearSession removes the persisted session.
func (s *Store) ClearSession() error {
	if err := s.kv.Delete(KeySession); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}
	return nil
}

// Reset deletes both durable keys. The next Load returns seed data.
func (s *Store) Reset() error {
	if err := s.kv.Delete(KeySnapshot); err != nil {
		return fmt.Errorf("clearing snapshot: %w", err)
	}
	return s.ClearSession()
}

// Close releases the underlying medium.
func (s *Store) Close() error {
	return s.kv.Close()
}
