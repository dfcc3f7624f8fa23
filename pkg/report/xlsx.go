package report

import (
	"strconv"

	"github.com/360EntSecGroup-Skylar/excelize"
	"github.com/pkg/errors"

	"github.com/HNHalstead/gisaid-script/pkg/submission"
)

// SubmissionSheet is the worksheet name of the GISAID batch-upload template.
const SubmissionSheet = "Submissions"

// WriteWorkbook writes a submission table to a single-sheet workbook. The
// label row, when the table has one, follows the header row.
func WriteWorkbook(path string, t *submission.Table) error {
	xlsx := excelize.NewFile()
	xlsx.SetSheetName("Sheet1", SubmissionSheet)

	row := 1
	writeRow(xlsx, row, t.Columns)
	if len(t.Labels) > 0 {
		row++
		writeRow(xlsx, row, t.Labels)
	}
	for _, r := range t.Rows {
		row++
		writeRow(xlsx, row, r)
	}

	if err := xlsx.SaveAs(path); err != nil {
		return errors.Wrapf(err, "save workbook %s", path)
	}
	return nil
}

func writeRow(xlsx *excelize.File, row int, values []string) {
	for col, v := range values {
		xlsx.SetCellValue(SubmissionSheet, excelize.ToAlphaString(col)+strconv.Itoa(row), v)
	}
}
