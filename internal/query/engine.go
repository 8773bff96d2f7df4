// Package query implements the fluent query builder, the relationship
// resolver and the mutation engine over a snapshot source.
//
// A Builder is created per table with Engine.From, configured by chaining
// filter, order, range, limit and select calls, and run with Execute (or
// Async). Every run resolves to a types.Result; nothing panics across the
// package boundary.
package query

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mesh-intelligence/localbase/pkg/types"
)

// Source supplies and persists full snapshots. Load falls back to seed
// data only when nothing valid is stored; a failing medium is an error.
// internal/store.Store satisfies it.
type Source interface {
	Load() (types.Snapshot, error)
	Write(types.Snapshot) error
}

// Engine executes builders against a Source.
type Engine struct {
	src       Source
	relations *Registry
	schema    Schema
	now       func() time.Time
	newID     func() string
	log       zerolog.Logger

	// mu serializes read-modify-write cycles of mutations in this process.
	mu sync.Mutex
}

// Option configures an Engine.
type Option func(*Engine)

// WithRegistry replaces the default relationship registry.
func WithRegistry(r *Registry) Option {
	return func(e *Engine) { e.relations = r }
}

// WithSchema replaces the default required-column schema.
func WithSchema(s Schema) Option {
	return func(e *Engine) { e.schema = s }
}

// WithClock sets the time source for created_at/updated_at.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// WithIDGenerator sets the id source for inserted rows.
func WithIDGenerator(newID func() string) Option {
	return func(e *Engine) { e.newID = newID }
}

// WithLogger sets the engine logger. The default discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// NewEngine returns an Engine over src with the dashboard registry and
// schema, the wall clock, and UUID v7 ids.
func NewEngine(src Source, opts ...Option) *Engine {
	e := &Engine{
		src:       src,
		relations: DefaultRegistry(),
		schema:    DefaultSchema(),
		now:       time.Now,
		newID:     newUUID,
		log:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Relations returns the engine's relationship registry.
func (e *Engine) Relations() *Registry {
	return e.relations
}

// From starts a query against table.
func (e *Engine) From(table string) *Builder {
	b := &Builder{engine: e, table: table, sel: selection{all: true}}
	if table == "" {
		b.fail(types.NewError(types.CodeInvalidRequest, "%s", types.ErrInvalidTable.Error()))
	}
	return b
}

// load reads the current snapshot and reshapes a medium failure into an
// Error.
func (e *Engine) load() (types.Snapshot, *types.Error) {
	snap, err := e.src.Load()
	if err != nil {
		e.log.Error().Err(err).Msg("snapshot load failed")
		return nil, &types.Error{Code: types.CodePersistence, Message: err.Error()}
	}
	return snap, nil
}

// timestamp returns the engine clock in the persisted timestamp format.
func (e *Engine) timestamp() string {
	return e.now().UTC().Format(time.RFC3339Nano)
}

// newUUID generates a UUID v7 string, falling back to v4.
func newUUID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}
