package pipeline

import (
	"log/slog"

	"github.com/HNHalstead/gisaid-script/pkg/engine"
	"github.com/HNHalstead/gisaid-script/pkg/parser"
	"github.com/HNHalstead/gisaid-script/pkg/schema"
)

func logWarnings(log *slog.Logger, tables ...*parser.Table) {
	for _, t := range tables {
		for _, w := range t.Warnings {
			log.Warn("parser: "+w.Message, "source", w.Source, "row", w.Row)
		}
	}
}

func logMerge(log *slog.Logger, m *engine.MergeResult) {
	log.Info("merge: complete",
		"processed", m.Stats.TotalProcessed,
		"matched", m.Stats.Matched,
		"unmatched", m.Stats.Unmatched,
		"omitted", m.Stats.Omitted,
		"dashboard_rows", m.Stats.Dashboard.TotalRows,
	)
	for _, o := range m.Omitted {
		log.Warn("merge: no accession in sample name; row not tracked", "row", o.Row, "sample_name", o.SampleName)
	}
	for _, c := range m.Conflicts {
		log.Warn("merge: duplicate dashboard rows disagree; first row kept",
			"accession", c.Accession, "field", c.Field, "kept", c.KeptValue, "dropped", c.DroppedValue)
	}
	for _, r := range m.Records {
		if !r.Matched {
			log.Warn("merge: no dashboard row for accession", "accession", r.Accession)
		}
	}
}

// logNearMisses points out counties and labs that fall back to defaults but
// closely resemble a known name.
func logNearMisses(log *slog.Logger, records []*schema.UnifiedRecord) {
	counties := make(map[string]bool)
	labs := make(map[string]bool)

	for _, r := range records {
		if c := r.County; c != "" && !counties[c] {
			counties[c] = true
			if _, ok := schema.CountyName(c); !ok {
				if s, ok := schema.SuggestCounty(c); ok {
					log.Warn("schema: unrecognized county", "county", c, "did_you_mean", s)
				}
			}
		}
		if l := r.SubmittingLab; l != "" && !labs[l] {
			labs[l] = true
			if _, ok := schema.LabAddress(l); !ok {
				if s, ok := schema.SuggestLab(l); ok {
					log.Warn("schema: unrecognized lab; default address used", "lab", l, "did_you_mean", s)
				}
			}
		}
	}
}
