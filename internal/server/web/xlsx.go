package web

import (
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/dmitrijs2005/karmaboard/internal/table"
)

const (
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	xlsxSheet       = "Leaderboard"
)

// writeXLSX writes t as a single-sheet workbook with a Rank column first.
func writeXLSX(w io.Writer, t table.Table) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", xlsxSheet); err != nil {
		return err
	}

	header := make([]any, 0, len(t.Cols)+1)
	header = append(header, "Rank")
	for _, c := range t.Cols {
		header = append(header, c)
	}
	if err := f.SetSheetRow(xlsxSheet, "A1", &header); err != nil {
		return err
	}

	for i, row := range t.Rows {
		cells := make([]any, 0, len(t.Cols)+1)
		cells = append(cells, i+1)
		for j := range t.Cols {
			cells = append(cells, cellValue(row.Cell(j)))
		}
		addr, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(xlsxSheet, addr, &cells); err != nil {
			return err
		}
	}

	return f.Write(w)
}

func cellValue(v table.Value) any {
	switch v.Kind() {
	case table.KindNumber:
		f, _ := v.Float()
		return f
	case table.KindText:
		return v.String()
	default:
		return nil
	}
}
