package parser

import (
	"fmt"
	"sort"

	"github.com/360EntSecGroup-Skylar/excelize"
	"github.com/pkg/errors"
)

// ParseSpreadsheet loads the first worksheet of an Excel workbook. The first
// row is the header row; the remaining rows are data.
func ParseSpreadsheet(path string) (*Table, error) {
	xlsx, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open spreadsheet %s", path)
	}

	sheet := firstSheet(xlsx.GetSheetMap())
	if sheet == "" {
		return nil, fmt.Errorf("%s: workbook has no worksheets: %w", path, ErrEmptyTable)
	}

	rows, err := xlsx.Rows(sheet)
	if err != nil {
		return nil, errors.Wrapf(err, "read worksheet %s in %s", sheet, path)
	}

	// First row is the header row; everything after it is a sample row.
	if !rows.Next() {
		return nil, fmt.Errorf("%s: no header row found: %w", path, ErrEmptyTable)
	}
	builder := newTableBuilder(path, rows.Columns())

	for rows.Next() {
		builder.add(rows.Columns())
	}

	return builder.finish()
}

// firstSheet returns the worksheet with the lowest index.
func firstSheet(sheets map[int]string) string {
	if len(sheets) == 0 {
		return ""
	}
	indexes := make([]int, 0, len(sheets))
	for i := range sheets {
		indexes = append(indexes, i)
	}
	sort.Ints(indexes)
	return sheets[indexes[0]]
}
