// Package roster reshapes upstream student and campus payloads into the
// records persisted by a sync pass.
package roster

import (
	"math"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/karmaboard/internal/server/models"
	"github.com/dmitrijs2005/karmaboard/internal/table"
)

var renames = map[string]string{
	"full_name": models.FieldFullName,
	"join_date": models.FieldJointDate,
}

// Normalize maps source field names to column names and coerces values:
// karma and rank become int64 (0 when unparseable), everything else is
// trimmed text with "" stored as nil. It never fails.
func Normalize(fields map[string]string) models.Record {
	out := make(models.Record, len(fields))
	for k, v := range fields {
		setField(out, k, v, true)
	}
	return out
}

// NormalizeRow is Normalize over a parsed row. Headers without a cell in row
// are treated as absent.
func NormalizeRow(headers []string, row table.Row) models.Record {
	out := make(models.Record, len(headers))
	for i, h := range headers {
		cell := row.Cell(i)
		setField(out, h, cell.String(), !cell.IsAbsent())
	}
	return out
}

func setField(out models.Record, header, raw string, present bool) {
	name := header
	if to, ok := renames[header]; ok {
		name = to
	}

	switch name {
	case models.FieldKarma, models.FieldRank:
		out[name] = parseInt(raw)
	default:
		s := strings.TrimSpace(raw)
		if !present || s == "" {
			out[name] = nil
			return
		}
		out[name] = s
	}
}

// parseInt accepts integers and finite decimals (truncated toward zero).
func parseInt(raw string) int64 {
	s := strings.TrimSpace(raw)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) >= math.MaxInt64 {
		return 0
	}
	return int64(f)
}

// Filter keeps only the columns of the students table.
func Filter(r models.Record) models.Record {
	out := make(models.Record, len(models.StudentFields))
	for _, k := range models.StudentFields {
		if v, ok := r[k]; ok {
			out[k] = v
		}
	}
	return out
}
