package engine

import (
	"sort"

	"github.com/HNHalstead/gisaid-script/pkg/parser"
	"github.com/HNHalstead/gisaid-script/pkg/schema"
)

// MergeResult contains the outcome of joining the sequencing table onto the
// dashboard index.
type MergeResult struct {
	Records        []*schema.UnifiedRecord `json:"records"`
	Columns        []string                `json:"columns"`
	Omitted        []OmittedRow            `json:"omitted"`
	Conflicts      []FieldConflict         `json:"conflicts"`
	MissingColumns []string                `json:"missingColumns,omitempty"`
	Stats          MergeStats              `json:"stats"`
}

// OmittedRow is a sequencing row dropped because no accession token could be
// derived from its sample name.
type OmittedRow struct {
	Row        int    `json:"row"`
	SampleName string `json:"sampleName"`
}

// MergeStats contains aggregate statistics about the merge.
type MergeStats struct {
	TotalProcessed int        `json:"totalProcessed"`
	Matched        int        `json:"matched"`
	Unmatched      int        `json:"unmatched"`
	Omitted        int        `json:"omitted"`
	Dashboard      IndexStats `json:"dashboard"`
}

// MergeTables left-joins sequencing rows onto dashboard rows:
//  1. Derive the accession token from sample_name; rows without one are omitted
//  2. Normalize dashboard headers and index rows by specimenid
//  3. Join token == specimenid; unmatched rows keep empty dashboard fields
//  4. Derive sample_id from the seq_id virus name
//
// Dashboard columns whose names collide with sequencing columns are kept with
// a "_dashboard" suffix. Neither input table is modified.
func MergeTables(sequencing, dashboard *parser.Table, cols schema.ColumnMap) *MergeResult {
	index := BuildDashboardIndex(dashboard)
	result := &MergeResult{
		Records:   make([]*schema.UnifiedRecord, 0, sequencing.Len()),
		Omitted:   make([]OmittedRow, 0),
		Conflicts: make([]FieldConflict, 0),
	}

	seqColumns := make(map[string]bool, len(sequencing.Headers))
	for _, h := range sequencing.Headers {
		seqColumns[h] = true
	}
	for _, l := range schema.Logicals {
		if c := cols.Column(l); c != "" && !seqColumns[c] {
			result.MissingColumns = append(result.MissingColumns, c)
		}
	}

	// Dashboard columns as they appear in the merged row.
	dashColumns := make(map[string]string, len(index.Headers))
	for _, h := range index.Headers {
		out := h
		if seqColumns[h] || h == schema.ColAccession || h == schema.ColSampleID {
			out = h + schema.DashboardSuffix
		}
		dashColumns[h] = out
	}
	result.Columns = mergedColumns(sequencing.Headers, index.Headers, dashColumns)

	conflicted := make(map[string]bool)

	for i, seqRow := range sequencing.Rows {
		result.Stats.TotalProcessed++

		sampleName := seqRow[schema.ColSampleName]
		token, ok := schema.AccessionToken(sampleName)
		if !ok {
			result.Omitted = append(result.Omitted, OmittedRow{Row: i + 1, SampleName: sampleName})
			result.Stats.Omitted++
			continue
		}

		row := make(map[string]string, len(result.Columns))
		for k, v := range seqRow {
			row[k] = v
		}

		dashRow, matched := index.BySpecimenID[token]
		for h, out := range dashColumns {
			if matched {
				row[out] = dashRow[h]
			} else {
				row[out] = ""
			}
		}
		row[schema.ColAccession] = token

		if matched {
			result.Stats.Matched++
			if dups := index.Duplicates[token]; len(dups) > 0 && !conflicted[token] {
				conflicted[token] = true
				for _, dup := range dups {
					result.Conflicts = append(result.Conflicts, DetectConflicts(token, dashRow, dup)...)
				}
			}
		} else {
			result.Stats.Unmatched++
		}

		sampleID, _ := schema.IDFromVirusName(row[schema.ColVirusName])
		row[schema.ColSampleID] = sampleID

		result.Records = append(result.Records, schema.NewUnifiedRecord(row, matched))
	}

	sort.SliceStable(result.Conflicts, func(i, j int) bool {
		return result.Conflicts[i].Accession < result.Conflicts[j].Accession
	})
	result.Stats.Dashboard = index.Stats

	return result
}

// mergedColumns orders the merged table: sequencing columns, the accession,
// dashboard columns, then the derived sample_id.
func mergedColumns(seqHeaders, dashHeaders []string, dashColumns map[string]string) []string {
	out := make([]string, 0, len(seqHeaders)+len(dashHeaders)+2)
	seen := make(map[string]bool)
	add := func(c string) {
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}

	for _, h := range seqHeaders {
		if h != schema.ColSampleID {
			add(h)
		}
	}
	add(schema.ColAccession)
	for _, h := range dashHeaders {
		add(dashColumns[h])
	}
	add(schema.ColSampleID)
	return out
}
