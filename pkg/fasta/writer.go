package fasta

import (
	"bufio"
	"io"
)

// LineWidth is the number of residues per sequence line in written files.
const LineWidth = 60

// WriteRecords writes records as FASTA. Headers are ">ID" or ">ID Description"
// and sequence lines wrap at LineWidth. Records with no sequence are skipped.
func WriteRecords(w io.Writer, records []Record) error {
	bw := bufio.NewWriter(w)
	for _, rec := range records {
		if len(rec.Seq) == 0 {
			continue
		}
		bw.WriteByte('>')
		bw.WriteString(rec.ID)
		if rec.Description != "" {
			bw.WriteByte(' ')
			bw.WriteString(rec.Description)
		}
		bw.WriteByte('\n')

		for start := 0; start < len(rec.Seq); start += LineWidth {
			end := min(start+LineWidth, len(rec.Seq))
			bw.Write(rec.Seq[start:end])
			if err := bw.WriteByte('\n'); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}
