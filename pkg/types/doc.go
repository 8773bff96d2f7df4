// Package types defines the row, table and snapshot model, the session and
// result shapes, configuration, and the standard errors shared by every
// localbase component.
//
// Rows are schema-less: a Row is a map from column name to a scalar or a
// nested structured value. Typed views (Task, Project, ...) exist for call
// sites that want stronger guarantees and are filled with Result.Decode.
package types
