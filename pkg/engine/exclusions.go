package engine

import (
	"encoding/json"

	"github.com/HNHalstead/gisaid-script/pkg/schema"
)

// Stage names one quality gate.
type Stage string

const (
	StageMissingFields Stage = "missing_fields"
	StageQC            Stage = "qc"
	StageAssets        Stage = "assets"
	StageSequence      Stage = "sequence"
)

// Exclusion records why a record was removed from the outputs.
type Exclusion struct {
	Accession string `json:"accession"`
	Stage     Stage  `json:"stage"`
	Reason    string `json:"reason"`
}

// Exclusions is the run's exclusion set. It is a value: With returns a new
// set and never modifies the receiver. The first exclusion recorded for an
// accession is kept; entries are never removed.
type Exclusions struct {
	byAccession map[string]Exclusion
	order       []string
}

// NewExclusions returns an empty exclusion set.
func NewExclusions() Exclusions {
	return Exclusions{}
}

// With returns a copy of e extended by add. Accessions already present keep
// their original stage and reason.
func (e Exclusions) With(add ...Exclusion) Exclusions {
	out := Exclusions{
		byAccession: make(map[string]Exclusion, len(e.byAccession)+len(add)),
		order:       make([]string, len(e.order), len(e.order)+len(add)),
	}
	copy(out.order, e.order)
	for k, v := range e.byAccession {
		out.byAccession[k] = v
	}

	for _, ex := range add {
		if ex.Accession == "" {
			continue
		}
		if _, exists := out.byAccession[ex.Accession]; exists {
			continue
		}
		out.byAccession[ex.Accession] = ex
		out.order = append(out.order, ex.Accession)
	}
	return out
}

// Has reports whether accession is excluded.
func (e Exclusions) Has(accession string) bool {
	_, ok := e.byAccession[accession]
	return ok
}

// Get returns the exclusion for accession.
func (e Exclusions) Get(accession string) (Exclusion, bool) {
	ex, ok := e.byAccession[accession]
	return ex, ok
}

// Len returns the number of excluded accessions.
func (e Exclusions) Len() int {
	return len(e.order)
}

// List returns every exclusion in the order it was recorded.
func (e Exclusions) List() []Exclusion {
	out := make([]Exclusion, 0, len(e.order))
	for _, acc := range e.order {
		out = append(out, e.byAccession[acc])
	}
	return out
}

// ByStage returns the exclusions recorded by one stage.
func (e Exclusions) ByStage(stage Stage) []Exclusion {
	var out []Exclusion
	for _, acc := range e.order {
		if ex := e.byAccession[acc]; ex.Stage == stage {
			out = append(out, ex)
		}
	}
	return out
}

// Surviving returns the records not in the set, preserving order.
func (e Exclusions) Surviving(records []*schema.UnifiedRecord) []*schema.UnifiedRecord {
	out := make([]*schema.UnifiedRecord, 0, len(records))
	for _, r := range records {
		if !e.Has(r.Accession) {
			out = append(out, r)
		}
	}
	return out
}

// MarshalJSON encodes the set as its ordered list.
func (e Exclusions) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.List())
}

// UnmarshalJSON rebuilds the set from its ordered list.
func (e *Exclusions) UnmarshalJSON(data []byte) error {
	var list []Exclusion
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	*e = NewExclusions().With(list...)
	return nil
}
