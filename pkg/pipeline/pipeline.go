package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"golang.org/x/time/rate"

	"github.com/HNHalstead/gisaid-script/pkg/assets"
	"github.com/HNHalstead/gisaid-script/pkg/config"
	"github.com/HNHalstead/gisaid-script/pkg/engine"
	"github.com/HNHalstead/gisaid-script/pkg/fasta"
	"github.com/HNHalstead/gisaid-script/pkg/parser"
	"github.com/HNHalstead/gisaid-script/pkg/report"
	"github.com/HNHalstead/gisaid-script/pkg/retry"
	"github.com/HNHalstead/gisaid-script/pkg/schema"
	"github.com/HNHalstead/gisaid-script/pkg/submission"
)

// Options configures one prepare run. Fetcher and Clock default to the
// scheme router and the wall clock.
type Options struct {
	Config  config.Config
	Fetcher assets.Fetcher
	Clock   clockwork.Clock
	Logger  *slog.Logger
}

// Result describes what a run produced.
type Result struct {
	RunID      string
	Merge      *engine.MergeResult
	Exclusions engine.Exclusions
	Stages     []engine.StageReport
	Variants   []engine.VariantMatch
	Tables     []*submission.Table
	Summary    *report.Summary
	Outputs    []string
}

// Run loads the inputs, links them, runs the gates and writes every output
// into the configured output directory. cfg must already be resolved.
func Run(ctx context.Context, opts Options) (*Result, error) {
	cfg := opts.Config
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	clock := opts.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	fetcher := opts.Fetcher
	if fetcher == nil {
		fetcher = assets.NewRouter(cfg.Gsutil, assets.NewS3Fetcher(retry.DefaultConfig()))
	}

	cols, err := schema.ResolveColumns(cfg.Workflow)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(cfg.OutDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	res := &Result{RunID: uuid.NewString()}
	log = log.With("run_id", res.RunID)
	log.Info("pipeline: starting", "workflow", cols.Workflow, "sequencing", cfg.Terra, "dashboard", cfg.Dashboard, "outdir", cfg.OutDir)

	sequencing, err := parser.LoadSequencingTables(cfg.Terra)
	if err != nil {
		return nil, fmt.Errorf("load sequencing tables: %w", err)
	}
	dashboard, err := parser.LoadTables(cfg.Dashboard)
	if err != nil {
		return nil, fmt.Errorf("load dashboard tables: %w", err)
	}
	logWarnings(log, sequencing, dashboard)

	// Merge
	res.Merge = engine.MergeTables(sequencing, dashboard, cols)
	if len(res.Merge.MissingColumns) > 0 {
		return nil, fmt.Errorf("%w: %s (workflow %s)",
			schema.ErrMissingColumns, strings.Join(res.Merge.MissingColumns, ", "), cols.Workflow)
	}
	logMerge(log, res.Merge)
	logNearMisses(log, res.Merge.Records)

	mergedPath := filepath.Join(cfg.OutDir, report.MergedFile)
	if err := report.WriteMerged(mergedPath, res.Merge); err != nil {
		return nil, err
	}
	res.Outputs = append(res.Outputs, mergedPath)

	// Gates
	var limiter *rate.Limiter
	if cfg.FetchRate > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.FetchRate), 1)
	}
	sequences := &assets.SequenceGate{Columns: cols, AssemblyDir: cfg.AssemblyDir()}
	res.Exclusions, res.Stages, err = engine.RunGates(ctx, log, res.Merge.Records, engine.NewExclusions(),
		engine.MissingFieldsGate{Fields: engine.DefaultRequiredFields},
		engine.QCGate{Columns: cols, Disabled: cfg.NoAutoQC, Logger: log},
		assets.DownloadGate{
			Fetcher:     fetcher,
			Columns:     cols,
			AssemblyDir: cfg.AssemblyDir(),
			Skip:        cfg.SkipDownload,
			Limiter:     limiter,
			Logger:      log,
		},
		sequences,
	)
	if err != nil {
		return nil, err
	}
	surviving := res.Exclusions.Surviving(res.Merge.Records)

	// Variants
	watch, err := engine.LoadWatchList(cfg.VOCs)
	if err != nil {
		return nil, err
	}
	res.Variants = engine.FindVariants(watch, res.Merge.Records, cols)
	variantsPath := filepath.Join(cfg.OutDir, report.VariantsFile)
	wrote, err := report.WriteVariants(variantsPath, res.Variants)
	if err != nil {
		return nil, err
	}
	if wrote {
		res.Outputs = append(res.Outputs, variantsPath)
	}

	// Submissions
	profile, err := buildProfile(cfg, clock)
	if err != nil {
		return nil, err
	}
	for _, transform := range submission.All() {
		t := transform(surviving, cols, profile)
		path := filepath.Join(cfg.OutDir, report.TableFiles[t.Name])
		if err := report.WriteTable(path, t); err != nil {
			return nil, err
		}
		res.Outputs = append(res.Outputs, path)
		log.Info("pipeline: metadata written", "schema", t.Name, "rows", len(t.Rows), "path", path)

		if t.Name == "GISAID" {
			xlsxPath := filepath.Join(cfg.OutDir, report.GISAIDWorkbook)
			if err := report.WriteWorkbook(xlsxPath, t); err != nil {
				return nil, err
			}
			res.Outputs = append(res.Outputs, xlsxPath)
		}
		res.Tables = append(res.Tables, t)
	}

	var dropped []string
	if len(res.Tables) > 0 {
		dropped = res.Tables[0].Dropped
	}
	if len(dropped) > 0 {
		log.Warn("pipeline: records dropped by reason code", "count", len(dropped), "accessions", dropped)
	}

	fastaPath := filepath.Join(cfg.OutDir, profile.FASTAFilename)
	if err := writeSequences(fastaPath, res.Tables[0].Accessions, surviving, sequences.Sequences()); err != nil {
		return nil, err
	}
	res.Outputs = append(res.Outputs, fastaPath)

	exclPath := filepath.Join(cfg.OutDir, report.ExclusionsFile)
	data, err := engine.SerializeExclusionReport(&engine.ExclusionReport{
		RunID:       res.RunID,
		GeneratedAt: clock.Now().UTC(),
		Merge:       res.Merge.Stats,
		Omitted:     res.Merge.Omitted,
		Conflicts:   res.Merge.Conflicts,
		Stages:      res.Stages,
		Exclusions:  res.Exclusions,
		Dropped:     dropped,
	})
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(exclPath, data, 0o644); err != nil {
		return nil, fmt.Errorf("write %s: %w", report.ExclusionsFile, err)
	}
	res.Outputs = append(res.Outputs, exclPath)

	res.Summary = report.Compile(res.RunID, res.Merge, res.Exclusions, dropped, res.Variants)
	res.Summary.Log(log)
	return res, nil
}

func buildProfile(cfg config.Config, clock clockwork.Clock) (submission.Profile, error) {
	profile := submission.DefaultProfile(cfg.Submitter)
	profile.Clock = clock
	if cfg.AuthorList != "" {
		authors, err := submission.LoadAuthors(cfg.AuthorList)
		if err != nil {
			return profile, err
		}
		profile.Authors = authors
	}
	return profile, nil
}

// writeSequences writes the parsed assembly of every submitted accession,
// renamed to its virus name and sorted by it.
func writeSequences(path string, submitted []string, records []*schema.UnifiedRecord, parsed map[string]fasta.Record) error {
	byAccession := make(map[string]*schema.UnifiedRecord, len(records))
	for _, r := range records {
		byAccession[r.Accession] = r
	}

	out := make([]fasta.Record, 0, len(submitted))
	for _, acc := range submitted {
		rec, ok := parsed[acc]
		r := byAccession[acc]
		if !ok || r == nil {
			continue
		}
		rec.ID = r.VirusName
		rec.Description = ""
		out = append(out, rec)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	fh, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", filepath.Base(path), err)
	}
	if err := fasta.WriteRecords(fh, out); err != nil {
		fh.Close()
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return fh.Close()
}
