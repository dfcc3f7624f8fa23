package report

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"

	"github.com/HNHalstead/gisaid-script/pkg/engine"
	"github.com/HNHalstead/gisaid-script/pkg/submission"
)

// Output file names inside the output directory.
const (
	MergedFile     = "merged_df.tsv"
	VariantsFile   = "vocs_vois_table.tsv"
	ExclusionsFile = "exclusions.json"
	GISAIDWorkbook = "gisaid_metadata.xlsx"
)

// TableFiles maps each submission table name to its CSV file.
var TableFiles = map[string]string{
	"PHA4GE":    "pha4ge_metadata.csv",
	"GISAID":    "gisaid_metadata.csv",
	"BioSample": "biosample_metadata.csv",
	"GenBank":   "genbank_metadata.csv",
}

// WriteDelimited writes a header row and data rows to path using comma as
// the field separator.
func WriteDelimited(path string, comma rune, header []string, rows [][]string) error {
	fh, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", filepath.Base(path), err)
	}

	w := csv.NewWriter(fh)
	w.Comma = comma
	if err := w.Write(header); err != nil {
		fh.Close()
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	if err := w.WriteAll(rows); err != nil {
		fh.Close()
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return fh.Close()
}

// WriteTable writes a submission table as CSV with its machine header row.
func WriteTable(path string, t *submission.Table) error {
	return WriteDelimited(path, ',', t.Columns, t.Rows)
}

// WriteMerged writes every merged record, excluded or not, as TSV in the
// merge column order.
func WriteMerged(path string, m *engine.MergeResult) error {
	rows := make([][]string, 0, len(m.Records))
	for _, r := range m.Records {
		row := make([]string, len(m.Columns))
		for i, c := range m.Columns {
			row[i] = r.Get(c)
		}
		rows = append(rows, row)
	}
	return WriteDelimited(path, '\t', m.Columns, rows)
}

// WriteVariants writes the watch-list hits as TSV. Nothing is written when
// there are no hits; the result reports whether the file was created.
func WriteVariants(path string, matches []engine.VariantMatch) (bool, error) {
	if len(matches) == 0 {
		return false, nil
	}
	rows := make([][]string, 0, len(matches))
	for _, v := range matches {
		rows = append(rows, []string{v.Accession, v.List, v.Clade, v.Lineage})
	}
	header := []string{"wa_no", "list", "clade", "lineage"}
	if err := WriteDelimited(path, '\t', header, rows); err != nil {
		return false, err
	}
	return true, nil
}
