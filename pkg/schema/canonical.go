package schema

// Column names shared across the merged table. Sequencing-workflow columns
// keep their physical names; dashboard columns are normalized with
// NormalizeHeader before they are looked up.
const (
	ColSampleName     = "sample_name"
	ColAccession      = "wa_no"
	ColSpecimenID     = "specimenid"
	ColVirusName      = "seq_id"
	ColSampleID       = "sample_id"
	ColCollectedDate  = "collected_date"
	ColSubmittingLab  = "submittinglab"
	ColCounty         = "county"
	ColReason         = "reason"
	ColMeanCoverage   = "assembly_mean_coverage"
	DashboardSuffix   = "_dashboard"
	accessionTokenLen = 9
)

// UnifiedRecord is one sequencing sample enriched with its dashboard row.
// Fields holds the full merged row so logical columns and diagnostics can be
// looked up by name; the typed fields are the ones every schema consumes.
type UnifiedRecord struct {
	Accession     string            `json:"accession"`
	SampleName    string            `json:"sampleName"`
	VirusName     string            `json:"virusName"`
	SampleID      string            `json:"sampleId"`
	CollectedDate string            `json:"collectedDate"`
	SubmittingLab string            `json:"submittingLab"`
	County        string            `json:"county"`
	Reason        string            `json:"reason"`
	Matched       bool              `json:"matched"`
	Fields        map[string]string `json:"fields"`
}

// NewUnifiedRecord builds a record from a merged row. The row is copied.
func NewUnifiedRecord(row map[string]string, matched bool) *UnifiedRecord {
	fields := make(map[string]string, len(row))
	for k, v := range row {
		fields[k] = v
	}
	return &UnifiedRecord{
		Accession:     fields[ColAccession],
		SampleName:    fields[ColSampleName],
		VirusName:     fields[ColVirusName],
		SampleID:      fields[ColSampleID],
		CollectedDate: fields[ColCollectedDate],
		SubmittingLab: fields[ColSubmittingLab],
		County:        fields[ColCounty],
		Reason:        fields[ColReason],
		Matched:       matched,
		Fields:        fields,
	}
}

// Get returns the merged value of a physical column, or "" when absent.
func (r *UnifiedRecord) Get(column string) string {
	if r == nil || r.Fields == nil {
		return ""
	}
	return r.Fields[column]
}

// Value returns the merged value behind a logical field.
func (r *UnifiedRecord) Value(cols ColumnMap, field Logical) string {
	return r.Get(cols.Column(field))
}
