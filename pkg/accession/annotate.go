package accession

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/HNHalstead/gisaid-script/pkg/parser"
	"github.com/HNHalstead/gisaid-script/pkg/report"
	"github.com/HNHalstead/gisaid-script/pkg/schema"
)

// Column names of the GISAID results export and the NCBI BioSample
// attribute table.
const (
	ColVirusName     = "Virus name"
	ColIsolate       = "Isolate"
	ColAccession     = "Accession"
	ColNCBIAccession = "NCBI Accession"
	OutputFile       = "results_with_ncbi.csv"
)

// ErrMissingColumn is returned when an input table lacks a join column.
var ErrMissingColumn = errors.New("missing column")

// Stats summarizes one annotation run.
type Stats struct {
	Results    int `json:"results"`
	Annotated  int `json:"annotated"`
	Unresolved int `json:"unresolved"`
	Duplicates int `json:"duplicates"`
}

// Annotated is the results table with the NCBI accession column appended.
type Annotated struct {
	Headers []string
	Rows    [][]string
	Stats   Stats
}

// Index maps the sample identifier of each NCBI isolate name to its
// BioSample accession. The first accession seen for an identifier is kept.
func Index(ncbi *parser.Table) (map[string]string, int, error) {
	for _, col := range []string{ColIsolate, ColAccession} {
		if !ncbi.HasColumn(col) {
			return nil, 0, fmt.Errorf("%w: %q in NCBI table %s", ErrMissingColumn, col, ncbi.Source)
		}
	}

	index := make(map[string]string, ncbi.Len())
	duplicates := 0
	for _, row := range ncbi.Rows {
		id, ok := schema.IDFromIsolate(row[ColIsolate])
		if !ok {
			continue
		}
		if _, seen := index[id]; seen {
			duplicates++
			continue
		}
		index[id] = row[ColAccession]
	}
	return index, duplicates, nil
}

// Annotate left-joins the NCBI accessions onto the results rows by the
// sample identifier embedded in the virus name and the isolate name. Rows
// without a match get an empty accession.
func Annotate(results, ncbi *parser.Table) (*Annotated, error) {
	if !results.HasColumn(ColVirusName) {
		return nil, fmt.Errorf("%w: %q in results table %s", ErrMissingColumn, ColVirusName, results.Source)
	}
	index, duplicates, err := Index(ncbi)
	if err != nil {
		return nil, err
	}

	headers := make([]string, 0, len(results.Headers)+1)
	for _, h := range results.Headers {
		if h != ColNCBIAccession {
			headers = append(headers, h)
		}
	}
	headers = append(headers, ColNCBIAccession)

	out := &Annotated{
		Headers: headers,
		Rows:    make([][]string, 0, results.Len()),
		Stats:   Stats{Results: results.Len(), Duplicates: duplicates},
	}
	for _, row := range results.Rows {
		acc := ""
		if id, ok := schema.IDFromVirusName(row[ColVirusName]); ok {
			acc = index[id]
		}
		if acc == "" {
			out.Stats.Unresolved++
		} else {
			out.Stats.Annotated++
		}

		line := make([]string, len(headers))
		for i, h := range headers[:len(headers)-1] {
			line[i] = row[h]
		}
		line[len(headers)-1] = acc
		out.Rows = append(out.Rows, line)
	}
	return out, nil
}

// Run loads the results table and the NCBI tables, annotates and writes
// results_with_ncbi.csv into outDir. It returns the written path.
func Run(log *slog.Logger, resultsPath string, ncbiPaths []string, outDir string) (string, Stats, error) {
	results, err := parser.LoadTable(resultsPath)
	if err != nil {
		return "", Stats{}, fmt.Errorf("load results table: %w", err)
	}
	ncbi, err := parser.LoadTables(ncbiPaths)
	if err != nil {
		return "", Stats{}, fmt.Errorf("load NCBI tables: %w", err)
	}
	log.Info("annotate: inputs loaded", "results", resultsPath, "results_rows", results.Len(), "ncbi_files", len(ncbiPaths), "ncbi_rows", ncbi.Len())

	annotated, err := Annotate(results, ncbi)
	if err != nil {
		return "", Stats{}, err
	}
	if annotated.Stats.Duplicates > 0 {
		log.Warn("annotate: isolates listed more than once; first accession kept", "count", annotated.Stats.Duplicates)
	}
	if annotated.Stats.Unresolved > 0 {
		log.Warn("annotate: results without an NCBI accession", "count", annotated.Stats.Unresolved)
	}

	path := filepath.Join(outDir, OutputFile)
	if err := report.WriteDelimited(path, ',', annotated.Headers, annotated.Rows); err != nil {
		return "", Stats{}, err
	}
	log.Info("annotate: updated results written", "path", path, "annotated", annotated.Stats.Annotated)
	return path, annotated.Stats, nil
}
