package engine

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/HNHalstead/gisaid-script/pkg/schema"
)

// DefaultCoverageThreshold is the minimum breadth of coverage, in percent,
// a genome needs to pass QC.
const DefaultCoverageThreshold = 60

// DefaultRequiredFields are the merged columns every record must carry.
var DefaultRequiredFields = []string{schema.ColCollectedDate, schema.ColSampleID}

// Gate is one exclusion stage. Evaluate sees only records that no earlier
// stage excluded and reports the ones it rejects. Returning an error aborts
// the run; per-record problems are exclusions, not errors.
type Gate interface {
	Stage() Stage
	Evaluate(ctx context.Context, records []*schema.UnifiedRecord) (GateResult, error)
}

// GateResult is what one gate decided.
type GateResult struct {
	Exclusions []Exclusion
	// Notes are operator hints that accompany the exclusions.
	Notes []string
}

// skipper is implemented by gates that can be disabled by configuration.
type skipper interface {
	Skipped() bool
}

// StageReport summarizes one gate for diagnostics and exclusions.json.
type StageReport struct {
	Stage     Stage       `json:"stage"`
	Skipped   bool        `json:"skipped"`
	Evaluated int         `json:"evaluated"`
	Excluded  []Exclusion `json:"excluded"`
	Notes     []string    `json:"notes,omitempty"`
}

// Accessions lists the accessions this stage excluded.
func (r StageReport) Accessions() []string {
	out := make([]string, 0, len(r.Excluded))
	for _, ex := range r.Excluded {
		out = append(out, ex.Accession)
	}
	return out
}

// RunGates applies gates in order, threading the exclusion set through them.
// Each gate receives only records not yet excluded; its exclusions are folded
// into a new set before the next gate runs. One aggregated warning is logged
// per stage that excluded anything.
func RunGates(ctx context.Context, log *slog.Logger, records []*schema.UnifiedRecord, excl Exclusions, gates ...Gate) (Exclusions, []StageReport, error) {
	reports := make([]StageReport, 0, len(gates))

	for _, gate := range gates {
		if err := ctx.Err(); err != nil {
			return excl, reports, err
		}

		report := StageReport{Stage: gate.Stage(), Excluded: make([]Exclusion, 0)}
		if s, ok := gate.(skipper); ok && s.Skipped() {
			report.Skipped = true
			log.Info("gates: stage skipped", "stage", gate.Stage())
			reports = append(reports, report)
			continue
		}

		candidates := excl.Surviving(records)
		report.Evaluated = len(candidates)

		res, err := gate.Evaluate(ctx, candidates)
		if err != nil {
			return excl, reports, fmt.Errorf("%s stage: %w", gate.Stage(), err)
		}

		// Only accept exclusions for records this gate was shown.
		shown := make(map[string]bool, len(candidates))
		for _, r := range candidates {
			shown[r.Accession] = true
		}
		for _, ex := range res.Exclusions {
			if !shown[ex.Accession] {
				continue
			}
			shown[ex.Accession] = false
			ex.Stage = gate.Stage()
			report.Excluded = append(report.Excluded, ex)
		}

		excl = excl.With(report.Excluded...)
		report.Notes = res.Notes

		if len(report.Excluded) > 0 {
			log.Warn("gates: records excluded from outputs",
				"stage", report.Stage,
				"count", len(report.Excluded),
				"accessions", strings.Join(report.Accessions(), ", "))
			for _, ex := range report.Excluded {
				log.Debug("gates: exclusion", "stage", ex.Stage, "accession", ex.Accession, "reason", ex.Reason)
			}
		}
		for _, note := range report.Notes {
			log.Warn("gates: "+note, "stage", report.Stage)
		}

		reports = append(reports, report)
	}

	return excl, reports, nil
}

// MissingFieldsGate excludes records with an empty required field.
type MissingFieldsGate struct {
	Fields []string
}

func (g MissingFieldsGate) Stage() Stage { return StageMissingFields }

func (g MissingFieldsGate) Evaluate(_ context.Context, records []*schema.UnifiedRecord) (GateResult, error) {
	fields := g.Fields
	if len(fields) == 0 {
		fields = DefaultRequiredFields
	}

	var res GateResult
	for _, r := range records {
		var missing []string
		for _, f := range fields {
			if strings.TrimSpace(r.Get(f)) == "" {
				missing = append(missing, f)
			}
		}
		if len(missing) > 0 {
			res.Exclusions = append(res.Exclusions, Exclusion{
				Accession: r.Accession,
				Reason:    "missing required field(s): " + strings.Join(missing, ", "),
			})
		}
	}
	return res, nil
}

// QCGate excludes records whose breadth of coverage is below Threshold,
// which is DefaultCoverageThreshold when zero. Records with no numeric
// coverage pass.
type QCGate struct {
	Columns   schema.ColumnMap
	Threshold float64
	Disabled  bool
	Logger    *slog.Logger
}

func (g QCGate) Stage() Stage { return StageQC }

func (g QCGate) Skipped() bool { return g.Disabled }

func (g QCGate) Evaluate(_ context.Context, records []*schema.UnifiedRecord) (GateResult, error) {
	var res GateResult
	if g.Disabled {
		return res, nil
	}

	threshold := g.Threshold
	if threshold <= 0 {
		threshold = DefaultCoverageThreshold
	}
	column := g.Columns.Column(schema.Coverage)

	for _, r := range records {
		raw := r.Get(column)
		cov, ok := schema.ParseNumber(raw)
		if !ok {
			if g.Logger != nil {
				g.Logger.Debug("qc: coverage not numeric, not evaluated", "accession", r.Accession, "column", column, "value", raw)
			}
			continue
		}
		if cov < threshold {
			res.Exclusions = append(res.Exclusions, Exclusion{
				Accession: r.Accession,
				Reason:    fmt.Sprintf("%s %.2f below minimum %.0f", column, cov, threshold),
			})
		}
	}
	return res, nil
}
