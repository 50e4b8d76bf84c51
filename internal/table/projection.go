package table

import (
	"strconv"
	"strings"

	"golang.org/x/text/cases"
)

// noMatch marks a selector that resolves to no column.
const noMatch = -1

// Projection is the result of Project. Indices is nil when the input was
// returned unchanged. Dropped lists selectors that matched no column, in the
// order they appeared.
type Projection struct {
	Table
	Indices []int
	Dropped []string
}

// Identity reports whether the projection left the table untouched.
func (p Projection) Identity() bool { return p.Indices == nil }

// Project narrows t to the columns named by spec, a comma-separated list of
// 1-based positions or case-insensitive column names. Repeated selectors keep
// their first position. Unknown names and out-of-range positions are dropped.
// An empty spec, or one where nothing resolves, returns t unchanged rather
// than an empty table.
func Project(t Table, spec string) Projection {
	tokens := splitSpec(spec)
	if len(tokens) == 0 {
		return Projection{Table: t}
	}

	fold := cases.Fold()
	byName := make(map[string]int, len(t.Cols))
	for i, c := range t.Cols {
		byName[fold.String(strings.TrimSpace(c))] = i
	}

	var (
		indices []int
		dropped []string
		seen    = make(map[int]struct{}, len(tokens))
	)
	for _, tok := range tokens {
		idx := resolve(tok, byName, fold)
		if idx < 0 || idx >= len(t.Cols) {
			dropped = append(dropped, tok)
			continue
		}
		if _, dup := seen[idx]; dup {
			continue
		}
		seen[idx] = struct{}{}
		indices = append(indices, idx)
	}

	if len(indices) == 0 {
		return Projection{Table: t, Dropped: dropped}
	}

	cols := make([]string, len(indices))
	for j, i := range indices {
		cols[j] = t.Cols[i]
		if cols[j] == "" {
			cols[j] = "Col " + strconv.Itoa(i+1)
		}
	}

	rows := make([]Row, len(t.Rows))
	for r, row := range t.Rows {
		out := make(Row, len(indices))
		for j, i := range indices {
			out[j] = row.Cell(i)
		}
		rows[r] = out
	}

	return Projection{
		Table:   Table{Cols: cols, Rows: rows},
		Indices: indices,
		Dropped: dropped,
	}
}

func splitSpec(spec string) []string {
	var tokens []string
	for _, s := range strings.Split(spec, ",") {
		if s = strings.TrimSpace(s); s != "" {
			tokens = append(tokens, s)
		}
	}
	return tokens
}

func resolve(tok string, byName map[string]int, fold cases.Caser) int {
	if isDigits(tok) {
		n, err := strconv.Atoi(tok)
		if err != nil {
			return noMatch
		}
		return n - 1
	}
	if i, ok := byName[fold.String(tok)]; ok {
		return i
	}
	return noMatch
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}
