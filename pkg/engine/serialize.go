package engine

import (
	"encoding/json"
	"fmt"
	"time"
)

// ExclusionReport is the machine-readable account of one run: every stage,
// every excluded accession and every sequencing row that could not be
// tracked at all.
type ExclusionReport struct {
	RunID       string          `json:"runId"`
	GeneratedAt time.Time       `json:"generatedAt"`
	Merge       MergeStats      `json:"merge"`
	Omitted     []OmittedRow    `json:"omitted"`
	Conflicts   []FieldConflict `json:"conflicts"`
	Stages      []StageReport   `json:"stages"`
	Exclusions  Exclusions      `json:"exclusions"`
	Dropped     []string        `json:"dropped"`
}

// SerializeExclusionReport renders the report as indented JSON.
func SerializeExclusionReport(report *ExclusionReport) ([]byte, error) {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize exclusion report: %w", err)
	}
	return append(data, '\n'), nil
}

// DeserializeExclusionReport reads a report written by SerializeExclusionReport.
func DeserializeExclusionReport(data []byte) (*ExclusionReport, error) {
	var report ExclusionReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("failed to deserialize exclusion report: %w", err)
	}
	return &report, nil
}
