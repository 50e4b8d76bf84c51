package table

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/dmitrijs2005/karmaboard/internal/common"
)

// gvizPayload is the part of a published-spreadsheet table response we read.
// The source carries no usable column names, so only the count of cols matters.
type gvizPayload struct {
	Table *struct {
		Cols []json.RawMessage `json:"cols"`
		Rows []struct {
			C []*gvizCell `json:"c"`
		} `json:"rows"`
	} `json:"table"`
}

type gvizCell struct {
	V any     `json:"v"`
	F *string `json:"f"`
}

// ParseEmbeddedJSON extracts the single JSON object wrapped inside text (the
// span from the first '{' to the last '}') and reads it as a spreadsheet
// table. Columns are labelled "Col 1", "Col 2", ...; each cell takes its
// formatted value, then its raw value, then absent.
func ParseEmbeddedJSON(text string) (Table, error) {
	start := strings.IndexByte(text, '{')
	end := strings.LastIndexByte(text, '}')
	if start < 0 || end < start {
		return Table{}, fmt.Errorf("%w: no JSON object found", common.ErrMalformedInput)
	}

	var p gvizPayload
	if err := json.Unmarshal([]byte(text[start:end+1]), &p); err != nil {
		return Table{}, fmt.Errorf("%w: %v", common.ErrMalformedInput, err)
	}

	t := Table{Cols: []string{}, Rows: []Row{}}
	if p.Table == nil {
		return t, nil
	}

	t.Cols = make([]string, len(p.Table.Cols))
	for i := range t.Cols {
		t.Cols[i] = "Col " + strconv.Itoa(i+1)
	}

	t.Rows = make([]Row, 0, len(p.Table.Rows))
	for _, r := range p.Table.Rows {
		row := make(Row, len(r.C))
		for i, c := range r.C {
			switch {
			case c == nil:
				row[i] = Null
			case c.F != nil:
				row[i] = Text(*c.F)
			default:
				row[i] = ValueOf(c.V)
			}
		}
		t.Rows = append(t.Rows, row)
	}

	return t, nil
}
