package submission

import (
	"strconv"

	"github.com/HNHalstead/gisaid-script/pkg/schema"
)

// Table is one schema's output: fixed columns and one row per submitted
// record. Labels, when set, is a second human-readable header row.
type Table struct {
	Name    string     `json:"name"`
	Columns []string   `json:"columns"`
	Labels  []string   `json:"labels,omitempty"`
	Rows    [][]string `json:"rows"`
	// Accessions lists the record behind each row.
	Accessions []string `json:"accessions"`
	// Dropped lists accessions removed by the drop reason code.
	Dropped []string `json:"dropped"`
}

// field is one output column and how to derive it.
type field struct {
	name   string
	label  string
	derive func(r *schema.UnifiedRecord) string
}

func constant(v string) func(*schema.UnifiedRecord) string {
	return func(*schema.UnifiedRecord) string { return v }
}

// build applies fields to every submittable record.
func build(name string, fields []field, records []*schema.UnifiedRecord) *Table {
	t := &Table{
		Name:       name,
		Columns:    make([]string, 0, len(fields)),
		Rows:       make([][]string, 0, len(records)),
		Accessions: make([]string, 0, len(records)),
		Dropped:    make([]string, 0),
	}

	withLabels := false
	for _, f := range fields {
		t.Columns = append(t.Columns, f.name)
		if f.label != "" {
			withLabels = true
		}
	}
	if withLabels {
		for _, f := range fields {
			t.Labels = append(t.Labels, f.label)
		}
	}

	kept, dropped := Submittable(records)
	t.Dropped = append(t.Dropped, dropped...)

	for _, r := range kept {
		row := make([]string, len(fields))
		for i, f := range fields {
			row[i] = f.derive(r)
		}
		t.Rows = append(t.Rows, row)
		t.Accessions = append(t.Accessions, r.Accession)
	}
	return t
}

// Submittable splits records into those that may be submitted and the
// accessions whose reason code marks them for dropping.
func Submittable(records []*schema.UnifiedRecord) ([]*schema.UnifiedRecord, []string) {
	kept := make([]*schema.UnifiedRecord, 0, len(records))
	var dropped []string
	for _, r := range records {
		if schema.IsDropReason(r.Reason) {
			dropped = append(dropped, r.Accession)
			continue
		}
		kept = append(kept, r)
	}
	return kept, dropped
}

// Column returns the values of one column in row order.
func (t *Table) Column(name string) []string {
	idx := -1
	for i, c := range t.Columns {
		if c == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}
	out := make([]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		out = append(out, row[idx])
	}
	return out
}

// Shared derivations.

func location(r *schema.UnifiedRecord) string {
	return schema.NormalizeCounty(r.County)
}

func collectionDate(r *schema.UnifiedRecord) string {
	return schema.FormatDate(r.CollectedDate)
}

func purpose(r *schema.UnifiedRecord) string {
	return schema.NormalizeReason(r.Reason)
}

func instrument(r *schema.UnifiedRecord) string {
	return schema.Instrument(r.SampleName)
}

func labAddress(r *schema.UnifiedRecord) string {
	return schema.LabAddressOrDefault(r.SubmittingLab)
}

func assemblerVersion(cols schema.ColumnMap) func(*schema.UnifiedRecord) string {
	return func(r *schema.UnifiedRecord) string {
		return schema.ConsensusVersion(r.Value(cols, schema.AssemblerVersion))
	}
}

func depth(r *schema.UnifiedRecord) string {
	return schema.FormatDepth(r.Get(schema.ColMeanCoverage))
}

// ictvIsolate is the NCBI isolate name: SARS-CoV-2/Human/USA/<id>/<year>.
func ictvIsolate(p Profile) func(*schema.UnifiedRecord) string {
	return func(r *schema.UnifiedRecord) string {
		year := schema.CollectionYear(r.CollectedDate, p.clock().Now())
		return "SARS-CoV-2/Human/USA/" + r.SampleID + "/" + strconv.Itoa(year)
	}
}
