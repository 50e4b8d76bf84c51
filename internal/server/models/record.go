// Package models defines the records persisted by the sync pass and read back
// by the leaderboard.
package models

import (
	"maps"
	"slices"
)

// Record is one table row keyed by column name. Values are string, int64 or
// nil (SQL NULL).
type Record map[string]any

// Columns returns the record keys in sorted order.
func (r Record) Columns() []string {
	return slices.Sorted(maps.Keys(r))
}

// String returns the text held under key, or "" when it is absent or not text.
func (r Record) String(key string) string {
	switch v := r[key].(type) {
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return ""
	}
}
