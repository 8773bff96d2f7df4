package types

import (
	"encoding/json"
	"fmt"
)

// Error is the uniform failure shape carried inside a Result. It never
// escapes as a panic; callers inspect Result.Error.
type Error struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
	Hint    string `json:"hint,omitempty"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Details == "" {
		return e.Message
	}
	return e.Message + ": " + e.Details
}

// Error codes surfaced by the emulator.
const (
	CodeRowCount       = "PGRST116" // Single/MaybeSingle cardinality violated.
	CodeNotNull        = "23502"    // Required column missing on a mutation.
	CodeUnique         = "23505"    // Mutation would duplicate a row id.
	CodeInvalidRequest = "PGRST100" // Malformed query input.
	CodeInternal       = "XX000"    // Recovered internal failure.
	CodeAuth           = "invalid_credentials"
	CodePersistence    = "58030" // Snapshot could not be read or written.
)

// NewError builds an Error with a message and optional code.
func NewError(code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Result is the {data, error} pair every public operation resolves with.
// On success Data is non-nil and Error nil; on failure Data is nil and Error
// non-nil. Both are nil for a MaybeSingle that found nothing and for
// mutations that matched no rows: check Data, not only Error, to detect a
// no-op.
type Result struct {
	Data  any    `json:"data"`
	Error *Error `json:"error"`
	Count *int   `json:"count,omitempty"`
}

// Fail returns a Result carrying only err.
func Fail(err *Error) Result {
	return Result{Error: err}
}

// OK reports whether the result carries no error.
func (r Result) OK() bool {
	return r.Error == nil
}

// Row returns Data as a single row. The second value is false when Data is
// not a single row.
func (r Result) Row() (Row, bool) {
	row, ok := r.Data.(Row)
	return row, ok
}

// Rows returns Data as a row sequence. A single-row Data is returned as a
// one-element slice; nil Data returns nil.
func (r Result) Rows() []Row {
	switch d := r.Data.(type) {
	case []Row:
		return d
	case Table:
		return []Row(d)
	case Row:
		return []Row{d}
	default:
		return nil
	}
}

// Decode converts Data into v (a pointer to a typed view struct or slice)
// through a JSON round trip. A result with an error returns that error.
func (r Result) Decode(v any) error {
	if r.Error != nil {
		return r.Error
	}
	data, err := json.Marshal(r.Data)
	if err != nil {
		return fmt.Errorf("encoding result data: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decoding result data: %w", err)
	}
	return nil
}
