// Package store persists lint results in SQLite: a content-addressed cache
// of structured reports and a history of lint runs.
package store
