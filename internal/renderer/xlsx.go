package renderer

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/mcncl/jsontab/internal/models"
	"github.com/xuri/excelize/v2"
)

// WriteXLSX writes the table as a single-sheet workbook at path. Numeric
// cells keep their numeric type so spreadsheet consumers can sort and
// sum them; nulls become empty cells.
func WriteXLSX(path string, table *models.Table) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)

	header := make([]interface{}, len(table.Columns))
	for i, c := range table.Columns {
		header[i] = c
	}
	if err := setRow(f, sheet, 1, header); err != nil {
		return err
	}

	for i := range table.Rows {
		if err := setRow(f, sheet, i+2, xlsxRow(table, i)); err != nil {
			return err
		}
	}

	return f.SaveAs(path)
}

func setRow(f *excelize.File, sheet string, rowNum int, cells []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &cells)
}

// xlsxRow converts one table row into excelize cell values in column
// order. Absent and null cells stay empty.
func xlsxRow(table *models.Table, i int) []interface{} {
	row := table.Rows[i]
	cells := make([]interface{}, len(table.Columns))
	for c, name := range table.Columns {
		value, ok := row[name]
		if !ok || value == nil {
			cells[c] = nil
			continue
		}
		switch v := value.(type) {
		case json.Number:
			cells[c] = numberCell(v)
		case bool, string:
			cells[c] = v
		default:
			cells[c] = models.CellString(value)
		}
	}
	return cells
}

// numberCell picks the richest cell type that keeps the value exact:
// int64, then float64 for decimal or scientific forms, falling back to
// the source text for integers too large for int64.
func numberCell(v json.Number) interface{} {
	s := string(v)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	if strings.ContainsAny(s, ".eE") {
		if fl, err := strconv.ParseFloat(s, 64); err == nil {
			return fl
		}
	}
	return s
}
