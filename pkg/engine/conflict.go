package engine

import (
	"sort"
	"strings"
)

// ResolutionFirstWins marks a conflict resolved in favor of the first
// dashboard row for a specimen.
const ResolutionFirstWins = "first_wins"

// FieldConflict represents a disagreement between two dashboard rows that
// share a specimen id.
type FieldConflict struct {
	Accession    string `json:"accession"`
	Field        string `json:"field"`
	KeptValue    string `json:"keptValue"`
	DroppedValue string `json:"droppedValue"`
	Resolution   string `json:"resolution"`
}

// DetectConflicts compares a kept dashboard row against a duplicate and
// returns one conflict per field whose values differ (case-insensitive).
// Fields empty on either side are not conflicts.
func DetectConflicts(accession string, kept, dropped map[string]string) []FieldConflict {
	var fields []string
	for f := range dropped {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	var conflicts []FieldConflict
	for _, f := range fields {
		k, d := kept[f], dropped[f]
		if k == "" || d == "" || strings.EqualFold(k, d) {
			continue
		}
		conflicts = append(conflicts, FieldConflict{
			Accession:    accession,
			Field:        f,
			KeptValue:    k,
			DroppedValue: d,
			Resolution:   ResolutionFirstWins,
		})
	}
	return conflicts
}
