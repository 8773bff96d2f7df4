// Package store persists the localbase database snapshot and the current
// session as two independent durable keys on a key/value medium.
//
// Every read decodes a full snapshot and every write replaces it wholesale.
// There is no locking across processes: concurrent writers race and the
// last write wins.
package store

// Durable keys. The snapshot and the session are stored independently so a
// sign-out never rewrites the database.
const (
	KeySnapshot = "localbase.snapshot"
	KeySession  = "localbase.session"
)

// KV is the durable medium behind a Store. Get reports ok=false for an
// absent key; Delete of an absent key is not an error.
type KV interface {
	Get(key string) (value []byte, ok bool, err error)
	Set(key string, value []byte) error
	Delete(key string) error
	Close() error
}
