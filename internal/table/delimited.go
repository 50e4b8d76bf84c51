package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/karmaboard/internal/common"
)

const utf8BOM = "\uFEFF"

// ParseDelimited reads delimited text whose first line is the header. The
// text is split into lines first and every line is split on its own, so a
// stray quote never swallows the lines after it. Quoted cells within a line
// are honored. Header labels are trimmed; data cells are kept verbatim as
// text. Rows shorter than the header are padded with absent cells, longer
// ones are cut to the header width. Empty lines are skipped. comma defaults
// to ','.
//
// It fails with common.ErrMalformedInput when fewer than two lines are present
// or when the header carries no labels.
func ParseDelimited(text string, comma rune) (Table, error) {
	if comma == 0 {
		comma = ','
	}

	var (
		cols []string
		rows []Row
	)
	for n, line := range strings.Split(strings.TrimSpace(text), "\n") {
		line = strings.TrimSuffix(line, "\r")
		if line == "" {
			continue
		}

		rec, err := splitLine(line, comma)
		if err != nil {
			return Table{}, fmt.Errorf("%w: line %d: %v", common.ErrMalformedInput, n+1, err)
		}

		if cols == nil {
			cols, err = headerCols(rec)
			if err != nil {
				return Table{}, err
			}
			continue
		}

		row := make(Row, len(cols))
		for i := range cols {
			if i < len(rec) {
				row[i] = Text(rec[i])
			}
		}
		rows = append(rows, row)
	}

	if cols == nil {
		return Table{}, fmt.Errorf("%w: delimited text is empty", common.ErrMalformedInput)
	}
	if len(rows) == 0 {
		return Table{}, fmt.Errorf("%w: expected a header and at least one data line", common.ErrMalformedInput)
	}

	return Table{Cols: cols, Rows: rows}, nil
}

// splitLine splits a single line. An unterminated quote runs to the end of
// the line only.
func splitLine(line string, comma rune) ([]string, error) {
	r := csv.NewReader(strings.NewReader(line))
	r.Comma = comma
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	rec, err := r.Read()
	if errors.Is(err, io.EOF) {
		return []string{""}, nil
	}
	return rec, err
}

func headerCols(header []string) ([]string, error) {
	cols := make([]string, len(header))
	blank := true
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, utf8BOM)
		}
		cols[i] = strings.TrimSpace(h)
		if cols[i] != "" {
			blank = false
		}
	}
	if blank {
		return nil, fmt.Errorf("%w: header line is empty", common.ErrMalformedInput)
	}
	return cols, nil
}
