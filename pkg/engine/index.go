package engine

import (
	"github.com/HNHalstead/gisaid-script/pkg/parser"
	"github.com/HNHalstead/gisaid-script/pkg/schema"
)

// DashboardIndex provides lookup of dashboard rows by specimen id. Headers
// are normalized with schema.NormalizeHeader; the source table is untouched.
type DashboardIndex struct {
	Headers      []string                       `json:"headers"`
	BySpecimenID map[string]map[string]string   `json:"bySpecimenId"`
	Duplicates   map[string][]map[string]string `json:"duplicates"`
	Stats        IndexStats                     `json:"stats"`
}

// IndexStats contains aggregate statistics about the dashboard index.
type IndexStats struct {
	TotalRows       int `json:"totalRows"`
	UniqueSpecimens int `json:"uniqueSpecimens"`
	DuplicateRows   int `json:"duplicateRows"`
	MissingID       int `json:"missingId"`
}

// BuildDashboardIndex indexes dashboard rows by their normalized specimenid
// column. The first row for an id wins; later rows are kept in Duplicates so
// the merger can report them.
func BuildDashboardIndex(table *parser.Table) *DashboardIndex {
	index := &DashboardIndex{
		BySpecimenID: make(map[string]map[string]string, table.Len()),
		Duplicates:   make(map[string][]map[string]string),
	}

	// Normalizing can make two headers collide; the first one keeps the name.
	rename := make(map[string]string, len(table.Headers))
	seen := make(map[string]bool, len(table.Headers))
	for _, h := range table.Headers {
		n := schema.NormalizeHeader(h)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		rename[h] = n
		index.Headers = append(index.Headers, n)
	}

	for _, raw := range table.Rows {
		row := make(map[string]string, len(rename))
		for orig, n := range rename {
			row[n] = raw[orig]
		}

		id := row[schema.ColSpecimenID]
		if id == "" {
			index.Stats.MissingID++
			continue
		}

		if _, exists := index.BySpecimenID[id]; exists {
			index.Duplicates[id] = append(index.Duplicates[id], row)
			index.Stats.DuplicateRows++
			continue
		}
		index.BySpecimenID[id] = row
	}

	index.Stats.TotalRows = table.Len()
	index.Stats.UniqueSpecimens = len(index.BySpecimenID)

	return index
}
