package parser

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyTable is returned when an input has no header row or no data rows.
var ErrEmptyTable = errors.New("table is empty")

// ParseWarning represents a non-fatal issue encountered while reading a table.
type ParseWarning struct {
	Source  string `json:"source"`
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// Table is an untyped tabular dataset loaded from one or more input files.
// Empty cells are stored as empty strings and treated as null downstream.
type Table struct {
	Source   string
	Headers  []string
	Rows     []map[string]string
	Warnings []ParseWarning
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// HasColumn reports whether the table carries the given header.
func (t *Table) HasColumn(name string) bool {
	for _, h := range t.Headers {
		if h == name {
			return true
		}
	}
	return false
}

// Column returns the values of one column in row order.
func (t *Table) Column(name string) []string {
	out := make([]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		out = append(out, row[name])
	}
	return out
}

// RenameFirstColumn renames the first header, carrying the row values along.
// Sequencing workflow exports name their first column after the entity type,
// so loaders rename it to a canonical name right after reading.
func (t *Table) RenameFirstColumn(name string) {
	if len(t.Headers) == 0 || t.Headers[0] == name {
		return
	}
	old := t.Headers[0]
	t.Headers[0] = name
	for _, row := range t.Rows {
		row[name] = row[old]
		delete(row, old)
	}
}

// Concat stacks tables of the same source type. Headers are unioned in
// first-seen order; rows missing a column read as empty.
func Concat(tables ...*Table) *Table {
	out := &Table{}
	seen := make(map[string]bool)
	var sources []string

	for _, t := range tables {
		if t == nil {
			continue
		}
		sources = append(sources, t.Source)
		for _, h := range t.Headers {
			if !seen[h] {
				seen[h] = true
				out.Headers = append(out.Headers, h)
			}
		}
		out.Rows = append(out.Rows, t.Rows...)
		out.Warnings = append(out.Warnings, t.Warnings...)
	}
	out.Source = strings.Join(sources, ",")
	return out
}

// tableBuilder turns raw string records into a Table, padding or truncating
// rows whose width does not match the header.
type tableBuilder struct {
	table  *Table
	rowNum int
}

func newTableBuilder(source string, headers []string) *tableBuilder {
	return &tableBuilder{
		table: &Table{
			Source:  source,
			Headers: uniqueHeaders(headers),
		},
	}
}

func (b *tableBuilder) warn(row int, format string, args ...any) {
	b.table.Warnings = append(b.table.Warnings, ParseWarning{
		Source:  b.table.Source,
		Row:     row,
		Message: fmt.Sprintf(format, args...),
	})
}

func (b *tableBuilder) add(row []string) {
	b.rowNum++
	headerCount := len(b.table.Headers)

	if isBlankRow(row) {
		return
	}

	if len(row) != headerCount {
		if len(row) < headerCount {
			b.warn(b.rowNum, "row has %d columns, expected %d; padding with empty values", len(row), headerCount)
			padded := make([]string, headerCount)
			copy(padded, row)
			row = padded
		} else {
			b.warn(b.rowNum, "row has %d columns, expected %d; truncating extra columns", len(row), headerCount)
			row = row[:headerCount]
		}
	}

	record := make(map[string]string, headerCount)
	for i, h := range b.table.Headers {
		record[h] = strings.TrimSpace(row[i])
	}
	b.table.Rows = append(b.table.Rows, record)
}

func (b *tableBuilder) finish() (*Table, error) {
	if len(b.table.Rows) == 0 {
		return nil, fmt.Errorf("%s: file contains no data rows: %w", b.table.Source, ErrEmptyTable)
	}
	return b.table, nil
}

// uniqueHeaders trims headers and disambiguates repeats as name.1, name.2, ...
func uniqueHeaders(headers []string) []string {
	out := make([]string, len(headers))
	counts := make(map[string]int, len(headers))
	for i, h := range headers {
		h = trimSpace(h)
		if n := counts[h]; n > 0 {
			out[i] = fmt.Sprintf("%s.%d", h, n)
		} else {
			out[i] = h
		}
		counts[h]++
	}
	return out
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// trimSpace trims leading/trailing whitespace and stray BOM runes.
func trimSpace(s string) string {
	return strings.Trim(s, " \t\r\n\ufeff")
}
