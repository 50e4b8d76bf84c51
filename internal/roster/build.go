package roster

import (
	"math"

	"github.com/dmitrijs2005/karmaboard/internal/server/models"
	"github.com/dmitrijs2005/karmaboard/internal/table"
)

// Students normalizes and filters every roster row.
func Students(t table.Table) []models.Record {
	out := make([]models.Record, 0, len(t.Rows))
	for _, row := range t.Rows {
		out = append(out, Filter(NormalizeRow(t.Cols, row)))
	}
	return out
}

// History builds one karma entry per student, in roster order.
func History(students []models.Record) []models.KarmaHistoryEntry {
	out := make([]models.KarmaHistoryEntry, len(students))
	for i, s := range students {
		karma, _ := s[models.FieldKarma].(int64)
		out[i] = models.KarmaHistoryEntry{
			StudentID: s[models.FieldUserID],
			Karma:     karma,
		}
	}
	return out
}

// Snapshot reads the campus summary. total_karma is stored as karma.
func Snapshot(campus map[string]any) models.CampusSnapshot {
	return models.CampusSnapshot{
		Rank:          scalar(campus["rank"]),
		Karma:         scalar(campus["total_karma"]),
		TotalMembers:  scalar(campus["total_members"]),
		ActiveMembers: scalar(campus["active_members"]),
	}
}

// scalar turns whole JSON numbers into int64 so they bind to integer columns.
func scalar(v any) any {
	if f, ok := v.(float64); ok && f == math.Trunc(f) && math.Abs(f) < 1<<53 {
		return int64(f)
	}
	return v
}
