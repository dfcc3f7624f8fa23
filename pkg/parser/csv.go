package parser

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
)

// StreamParseWithWarnings parses delimited bytes into a Table and keeps any
// warnings. It handles mismatched column counts (pad/truncate), empty files,
// and rows the csv reader rejects.
func StreamParseWithWarnings(source string, data []byte, comma rune) (*Table, error) {
	decoded, _, err := DetectAndDecode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: encoding detection failed: %w", source, err)
	}

	reader := csv.NewReader(bytes.NewReader(decoded))
	reader.Comma = comma
	// Allow variable number of fields per record; the builder pads/truncates.
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	headers, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%s: no header row found: %w", source, ErrEmptyTable)
		}
		return nil, fmt.Errorf("%s: failed to read header row: %w", source, err)
	}

	builder := newTableBuilder(source, headers)
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			builder.rowNum++
			builder.warn(builder.rowNum, "parse error: %v", err)
			continue
		}
		builder.add(row)
	}

	return builder.finish()
}
