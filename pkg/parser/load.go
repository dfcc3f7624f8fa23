package parser

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

// SampleNameColumn is the canonical name given to the first column of every
// sequencing workflow table.
const SampleNameColumn = "sample_name"

// Format identifies how an input file is parsed.
type Format int

const (
	FormatSpreadsheet Format = iota
	FormatCSV
	FormatTSV
)

func (f Format) String() string {
	switch f {
	case FormatCSV:
		return "csv"
	case FormatTSV:
		return "tsv"
	default:
		return "spreadsheet"
	}
}

// extensionFormats maps lower-cased file extensions to parsers. Anything not
// listed is handed to the spreadsheet reader.
var extensionFormats = map[string]Format{
	".csv":  FormatCSV,
	".tsv":  FormatTSV,
	".txt":  FormatTSV,
	".xls":  FormatSpreadsheet,
	".xlsx": FormatSpreadsheet,
}

// DetectFormat picks a parser from the file extension.
func DetectFormat(path string) Format {
	if f, ok := extensionFormats[strings.ToLower(filepath.Ext(path))]; ok {
		return f
	}
	return FormatSpreadsheet
}

// LoadTable reads a single input file.
func LoadTable(path string) (*Table, error) {
	format := DetectFormat(path)
	if format == FormatSpreadsheet {
		return ParseSpreadsheet(path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}

	comma := ','
	if format == FormatTSV {
		comma = '\t'
	}
	return StreamParseWithWarnings(path, data, comma)
}

// LoadTables reads and concatenates sibling files of one source type. Every
// file is attempted; all load failures are reported together.
func LoadTables(paths []string) (*Table, error) {
	return loadTables(paths, nil)
}

// LoadSequencingTables is LoadTables for sequencing workflow exports: the
// first column of each file is renamed to SampleNameColumn before stacking.
func LoadSequencingTables(paths []string) (*Table, error) {
	return loadTables(paths, func(t *Table) {
		t.RenameFirstColumn(SampleNameColumn)
	})
}

func loadTables(paths []string, prepare func(*Table)) (*Table, error) {
	var (
		tables   []*Table
		savedErr *multierror.Error
	)

	for _, path := range paths {
		t, err := LoadTable(path)
		if err != nil {
			savedErr = multierror.Append(savedErr, err)
			continue
		}
		if prepare != nil {
			prepare(t)
		}
		tables = append(tables, t)
	}

	if err := savedErr.ErrorOrNil(); err != nil {
		return nil, err
	}
	return Concat(tables...), nil
}
