// Package localbase provides the public client: an in-process substitute
// for a remote database client, backed by durable local storage.
//
// Example:
//
//	client, err := localbase.New(types.Config{
//	    Backend: types.BackendFile,
//	    DataDir: ".localbase",
//	})
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	res := client.From("tasks").
//	    Select("*", "project:projects(name)").
//	    Eq("status", "open").
//	    Order("priority").
//	    Execute()
package localbase

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/mesh-intelligence/localbase/internal/auth"
	"github.com/mesh-intelligence/localbase/internal/bucket"
	"github.com/mesh-intelligence/localbase/internal/query"
	"github.com/mesh-intelligence/localbase/internal/store"
	"github.com/mesh-intelligence/localbase/pkg/types"
)

// Client wires the snapshot store, query engine, auth service and storage
// stub over one backend.
type Client struct {
	cfg     types.Config
	store   *store.Store
	engine  *query.Engine
	auth    *auth.Service
	storage *bucket.Storage

	closeOnce sync.Once
	closeErr  error
}

type options struct {
	log   zerolog.Logger
	now   func() time.Time
	newID func() string
	seed  func() types.Snapshot
}

// Option configures a Client.
type Option func(*options)

// WithLogger routes library logs to l. The default discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithClock sets the time source for row timestamps and sessions.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithIDGenerator sets the id source for inserted rows.
func WithIDGenerator(newID func() string) Option {
	return func(o *options) { o.newID = newID }
}

// WithSeed replaces the dataset served before the first write.
func WithSeed(seed func() types.Snapshot) Option {
	return func(o *options) { o.seed = seed }
}

// New validates cfg, opens its backend and returns a ready Client.
func New(cfg types.Config, opts ...Option) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	cfg = cfg.WithDefaults()

	o := options{log: zerolog.Nop(), now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	kv, err := store.OpenKV(cfg)
	if err != nil {
		return nil, fmt.Errorf("opening %s backend: %w", cfg.Backend, err)
	}

	storeOpts := []store.Option{store.WithLogger(o.log)}
	if o.seed != nil {
		storeOpts = append(storeOpts, store.WithSeed(o.seed))
	}
	st := store.New(kv, storeOpts...)

	engineOpts := []query.Option{query.WithLogger(o.log), query.WithClock(o.now)}
	if o.newID != nil {
		engineOpts = append(engineOpts, query.WithIDGenerator(o.newID))
	}

	svc, err := auth.NewService(st, cfg, auth.WithLogger(o.log), auth.WithClock(o.now))
	if err != nil {
		st.Close()
		return nil, err
	}

	o.log.Debug().Str("backend", cfg.Backend).Str("data_dir", cfg.DataDir).Msg("client ready")
	return &Client{
		cfg:     cfg,
		store:   st,
		engine:  query.NewEngine(st, engineOpts...),
		auth:    svc,
		storage: bucket.New(cfg.PublicURLBase, o.log),
	}, nil
}

// From starts a query against table.
func (c *Client) From(table string) *query.Builder {
	return c.engine.From(table)
}

// Auth returns the session registry.
func (c *Client) Auth() *auth.Service {
	return c.auth
}

// Storage returns the storage stub.
func (c *Client) Storage() *bucket.Storage {
	return c.storage
}

// Relations returns the relationship registry used by Select.
func (c *Client) Relations() *query.Registry {
	return c.engine.Relations()
}

// Config returns the effective configuration, defaults applied.
func (c *Client) Config() types.Config {
	return c.cfg
}

// Snapshot returns a copy of the current database state.
func (c *Client) Snapshot() (types.Snapshot, error) {
	snap, err := c.store.Load()
	if err != nil {
		return nil, err
	}
	return snap.Clone(), nil
}

// Writes returns how many snapshot writes this client has performed.
func (c *Client) Writes() int64 {
	return c.store.Writes()
}

// Reset deletes the persisted snapshot and session. The next read serves
// seed data and the client is signed out. Listeners are not notified.
func (c *Client) Reset() error {
	return c.store.Reset()
}

// Close releases the backend. Calling Close more than once returns the
// first result.
func (c *Client) Close() error {
	c.closeOnce.Do(func() {
		c.closeErr = c.store.Close()
	})
	return c.closeErr
}
