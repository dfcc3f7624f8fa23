package report

import (
	"log/slog"
	"sort"

	"github.com/HNHalstead/gisaid-script/pkg/engine"
)

// Status is the final disposition of one tracked record.
type Status string

const (
	StatusSubmitted Status = "submitted"
	StatusExcluded  Status = "excluded"
	StatusDropped   Status = "dropped"
)

// RecordOutcome is one row of the run summary: a tracked record with its
// disposition and any watch-list hits.
type RecordOutcome struct {
	Accession  string       `json:"accession"`
	SampleName string       `json:"sampleName"`
	VirusName  string       `json:"virusName"`
	Matched    bool         `json:"matched"`
	Status     Status       `json:"status"`
	Stage      engine.Stage `json:"stage,omitempty"`
	Reason     string       `json:"reason,omitempty"`
	Variants   []string     `json:"variants,omitempty"`
}

// StageSummary counts exclusions per gate.
type StageSummary struct {
	MissingFields int `json:"missingFields"`
	QC            int `json:"qc"`
	Assets        int `json:"assets"`
	Sequence      int `json:"sequence"`
}

// VariantSummary counts watch-list hits per list.
type VariantSummary struct {
	VOC int `json:"voc"`
	VOI int `json:"voi"`
}

// Summary is the compiled outcome of one run.
type Summary struct {
	RunID          string          `json:"runId"`
	Outcomes       []RecordOutcome `json:"outcomes"`
	TotalRecords   int             `json:"totalRecords"`
	TotalUnmatched int             `json:"totalUnmatched"`
	TotalOmitted   int             `json:"totalOmitted"`
	TotalSubmitted int             `json:"totalSubmitted"`
	TotalExcluded  int             `json:"totalExcluded"`
	TotalDropped   int             `json:"totalDropped"`
	ByStage        StageSummary    `json:"byStage"`
	Variants       VariantSummary  `json:"variants"`
}

// Compile folds the merge result, the accumulated exclusions, the accessions
// removed by the drop reason and the watch-list hits into one outcome per
// tracked record. Outcomes are ordered by accession.
func Compile(runID string, merge *engine.MergeResult, excl engine.Exclusions, dropped []string, variants []engine.VariantMatch) *Summary {
	s := &Summary{
		RunID:        runID,
		Outcomes:     make([]RecordOutcome, 0, len(merge.Records)),
		TotalRecords: len(merge.Records),
		TotalOmitted: len(merge.Omitted),
	}

	droppedSet := make(map[string]bool, len(dropped))
	for _, acc := range dropped {
		droppedSet[acc] = true
	}

	hits := make(map[string][]string)
	for _, v := range variants {
		hits[v.Accession] = append(hits[v.Accession], v.List)
		switch v.List {
		case engine.ListVOC:
			s.Variants.VOC++
		case engine.ListVOI:
			s.Variants.VOI++
		}
	}

	for _, r := range merge.Records {
		out := RecordOutcome{
			Accession:  r.Accession,
			SampleName: r.SampleName,
			VirusName:  r.VirusName,
			Matched:    r.Matched,
			Status:     StatusSubmitted,
			Variants:   hits[r.Accession],
		}
		if !r.Matched {
			s.TotalUnmatched++
		}

		if e, ok := excl.Get(r.Accession); ok {
			out.Status = StatusExcluded
			out.Stage = e.Stage
			out.Reason = e.Reason
			s.TotalExcluded++
			updateStageSummary(&s.ByStage, e.Stage)
		} else if droppedSet[r.Accession] {
			out.Status = StatusDropped
			s.TotalDropped++
		} else {
			s.TotalSubmitted++
		}
		s.Outcomes = append(s.Outcomes, out)
	}

	sort.SliceStable(s.Outcomes, func(i, j int) bool {
		return s.Outcomes[i].Accession < s.Outcomes[j].Accession
	})
	return s
}

// updateStageSummary increments the counter of the stage that excluded a record.
func updateStageSummary(summary *StageSummary, stage engine.Stage) {
	switch stage {
	case engine.StageMissingFields:
		summary.MissingFields++
	case engine.StageQC:
		summary.QC++
	case engine.StageAssets:
		summary.Assets++
	case engine.StageSequence:
		summary.Sequence++
	}
}

// Log writes the run totals at info level and each watch-list hit at warn.
func (s *Summary) Log(log *slog.Logger) {
	log.Info("report: run complete",
		"run_id", s.RunID,
		"records", s.TotalRecords,
		"submitted", s.TotalSubmitted,
		"excluded", s.TotalExcluded,
		"dropped", s.TotalDropped,
		"omitted", s.TotalOmitted,
		"unmatched", s.TotalUnmatched,
	)
	if s.TotalExcluded > 0 {
		log.Info("report: exclusions by stage",
			"missing_fields", s.ByStage.MissingFields,
			"qc", s.ByStage.QC,
			"assets", s.ByStage.Assets,
			"sequence", s.ByStage.Sequence,
		)
	}
	for _, o := range s.Outcomes {
		for _, list := range o.Variants {
			log.Warn("report: watch-list variant found", "list", list, "accession", o.Accession, "virus_name", o.VirusName)
		}
	}
}
