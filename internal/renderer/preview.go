package renderer

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/mcncl/jsontab/internal/models"
)

// maxColWidth caps a preview column; longer cells are truncated with an
// ellipsis so serialized JSON cells do not flood the terminal.
const maxColWidth = 50

// previewEscaper keeps each rendered row on one terminal line. Cells may
// legitimately contain LF and TAB after sanitizing.
var previewEscaper = strings.NewReplacer("\n", `\n`, "\t", `\t`)

// WritePreview renders the first limit rows as an aligned text table:
// header, dashed separator, rows. A negative limit renders every row.
// Column widths are display widths, so wide runes still line up.
func WritePreview(w io.Writer, table *models.Table, limit int) error {
	count := len(table.Rows)
	if limit >= 0 && limit < count {
		count = limit
	}

	rows := make([][]string, count)
	for i := 0; i < count; i++ {
		rows[i] = make([]string, len(table.Columns))
		for c, cell := range table.RowStrings(i) {
			rows[i][c] = previewEscaper.Replace(cell)
		}
	}

	widths := previewWidths(table.Columns, rows)

	if err := writePreviewRow(w, table.Columns, widths); err != nil {
		return err
	}
	if err := writePreviewSep(w, widths); err != nil {
		return err
	}
	for _, row := range rows {
		if err := writePreviewRow(w, row, widths); err != nil {
			return err
		}
	}
	return nil
}

func previewWidths(header []string, rows [][]string) []int {
	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if w := runewidth.StringWidth(cell); i < len(widths) && w > widths[i] {
				widths[i] = w
			}
		}
	}
	for i := range widths {
		if widths[i] > maxColWidth {
			widths[i] = maxColWidth
		}
	}
	return widths
}

func writePreviewSep(w io.Writer, widths []int) error {
	parts := make([]string, len(widths))
	for i, width := range widths {
		parts[i] = strings.Repeat("-", width)
	}
	_, err := fmt.Fprintln(w, strings.Join(parts, "  "))
	return err
}

func writePreviewRow(w io.Writer, cells []string, widths []int) error {
	parts := make([]string, len(widths))
	for i, width := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		parts[i] = previewCell(cell, width)
	}
	line := strings.TrimRight(strings.Join(parts, "  "), " ")
	_, err := fmt.Fprintln(w, line)
	return err
}

func previewCell(s string, width int) string {
	if runewidth.StringWidth(s) > width {
		if width <= 3 {
			return runewidth.Truncate(s, width, "")
		}
		return runewidth.Truncate(s, width, "...")
	}
	return runewidth.FillRight(s, width)
}
