package table

import (
	"cmp"
	"slices"
)

// DefaultRankColumn is the position that holds karma in leaderboard rows.
const DefaultRankColumn = 3

// RankBy returns a copy of rows sorted by the numeric value at column col,
// highest first. Absent or non-numeric cells (and rows too short to have the
// column) sort as 0. Ties keep their input order. rows is not modified.
func RankBy(rows []Row, col int) []Row {
	out := slices.Clone(rows)
	slices.SortStableFunc(out, func(a, b Row) int {
		return cmp.Compare(b.Cell(col).NumberOrZero(), a.Cell(col).NumberOrZero())
	})
	return out
}
