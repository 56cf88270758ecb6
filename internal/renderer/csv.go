package renderer

import (
	"encoding/csv"
	"io"

	"github.com/mcncl/jsontab/internal/models"
)

// WriteCSV serializes the table as UTF-8 CSV: one header row of column
// names, then one record per row, quoted as needed. No index column is
// added.
func WriteCSV(w io.Writer, table *models.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(table.Columns); err != nil {
		return err
	}
	for i := range table.Rows {
		if err := cw.Write(table.RowStrings(i)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
