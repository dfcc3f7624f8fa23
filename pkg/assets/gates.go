package assets

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/time/rate"

	"github.com/HNHalstead/gisaid-script/pkg/engine"
	"github.com/HNHalstead/gisaid-script/pkg/fasta"
	"github.com/HNHalstead/gisaid-script/pkg/schema"
)

// DownloadGate fetches each record's consensus assembly into AssemblyDir
// and excludes records whose retrieval failed.
type DownloadGate struct {
	Fetcher     Fetcher
	Columns     schema.ColumnMap
	AssemblyDir string
	// Skip leaves the assemblies already on disk alone and excludes nothing.
	Skip bool
	// Limiter paces fetches; nil means unpaced.
	Limiter *rate.Limiter
	Logger  *slog.Logger
}

func (g DownloadGate) Stage() engine.Stage { return engine.StageAssets }

func (g DownloadGate) Skipped() bool { return g.Skip }

func (g DownloadGate) Evaluate(ctx context.Context, records []*schema.UnifiedRecord) (engine.GateResult, error) {
	var res engine.GateResult
	if g.Skip {
		return res, nil
	}
	if err := os.MkdirAll(g.AssemblyDir, 0o755); err != nil {
		return res, fmt.Errorf("create assembly dir: %w", err)
	}

	column := g.Columns.Column(schema.Sequence)
	var denied, failed int

	for _, r := range records {
		url := r.Get(column)
		if url == "" {
			// Nothing to fetch; the sequence stage reports the undefined path.
			continue
		}
		if g.Limiter != nil {
			if err := g.Limiter.Wait(ctx); err != nil {
				return res, err
			}
		}
		if err := ctx.Err(); err != nil {
			return res, err
		}

		fr := g.Fetcher.Fetch(ctx, url, g.AssemblyDir)
		kind := Classify(fr)
		if g.Logger != nil {
			g.Logger.Debug("assets: fetched", "accession", r.Accession, "url", url, "result", kind.String())
		}
		if kind == FailureNone {
			continue
		}

		switch kind {
		case FailureAccessDenied:
			denied++
		case FailureCommand:
			failed++
		}
		res.Exclusions = append(res.Exclusions, engine.Exclusion{
			Accession: r.Accession,
			Reason:    fmt.Sprintf("%s: %s", kind, fr.Summary()),
		})
	}

	if denied > 0 {
		res.Notes = append(res.Notes, fmt.Sprintf(
			"%d sample(s) could not be accessed; configure object-store credentials (e.g. 'gsutil config') before re-running", denied))
	}
	if failed > 0 {
		res.Notes = append(res.Notes, fmt.Sprintf(
			"%d sample(s) failed to copy; check the formatting of the '%s' column in the sequencing tables for the samples listed above", failed, column))
	}
	return res, nil
}

// SequenceGate parses the first FASTA record of each downloaded assembly and
// excludes records with no usable sequence. Parsed records are kept for the
// consolidated FASTA output.
type SequenceGate struct {
	Columns     schema.ColumnMap
	AssemblyDir string

	sequences map[string]fasta.Record
}

func (g *SequenceGate) Stage() engine.Stage { return engine.StageSequence }

func (g *SequenceGate) Evaluate(ctx context.Context, records []*schema.UnifiedRecord) (engine.GateResult, error) {
	var res engine.GateResult
	g.sequences = make(map[string]fasta.Record, len(records))
	column := g.Columns.Column(schema.Sequence)

	for _, r := range records {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		path, ok := ConsensusPath(g.AssemblyDir, r.Get(column))
		if !ok {
			res.Exclusions = append(res.Exclusions, engine.Exclusion{
				Accession: r.Accession,
				Reason:    fmt.Sprintf("no consensus file: '%s' is empty", column),
			})
			continue
		}

		rec, err := fasta.FirstRecord(path)
		if err != nil {
			res.Exclusions = append(res.Exclusions, engine.Exclusion{
				Accession: r.Accession,
				Reason:    err.Error(),
			})
			continue
		}
		g.sequences[r.Accession] = rec
	}
	return res, nil
}

// Sequences returns the parsed record for each accession that passed.
func (g *SequenceGate) Sequences() map[string]fasta.Record {
	return g.sequences
}
