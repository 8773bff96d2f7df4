package types

import "errors"

// Store and client lifecycle errors.
var (
	ErrStoreClosed   = errors.New("store is closed")
	ErrInvalidTable  = errors.New("table name must not be empty")
	ErrInvalidColumn = errors.New("column name must not be empty")
)
