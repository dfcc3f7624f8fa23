package assets

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/require"

	"github.com/HNHalstead/gisaid-script/pkg/engine"
	"github.com/HNHalstead/gisaid-script/pkg/retry"
	"github.com/HNHalstead/gisaid-script/pkg/schema"
)

func titanColumns(t *testing.T) schema.ColumnMap {
	t.Helper()
	cols, err := schema.ResolveColumns("titan")
	require.NoError(t, err)
	return cols
}

func record(accession, url string) *schema.UnifiedRecord {
	return schema.NewUnifiedRecord(map[string]string{
		schema.ColAccession: accession,
		"assembly_fasta":    url,
	}, true)
}

// fakeFetcher writes a FASTA file for URLs it knows and replays canned
// failures for the rest.
type fakeFetcher struct {
	files    map[string]string
	failures map[string]Result
	calls    []string
}

func (f *fakeFetcher) Fetch(_ context.Context, url, destDir string) Result {
	f.calls = append(f.calls, url)
	if r, ok := f.failures[url]; ok {
		return r
	}
	if body, ok := f.files[url]; ok {
		if err := os.WriteFile(filepath.Join(destDir, filepath.Base(url)), []byte(body), 0o644); err != nil {
			return Result{Err: err}
		}
	}
	return Result{}
}

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		res  Result
		want FailureKind
	}{
		{"ok", Result{Stdout: "Copying..."}, FailureNone},
		{"access denied exception", Result{Stderr: "AccessDeniedException: 403 user lacks storage.objects.get"}, FailureAccessDenied},
		{"access denied text", Result{Stderr: "ERROR: Access Denied"}, FailureAccessDenied},
		{"command exception", Result{Stderr: "CommandException: No URLs matched"}, FailureCommand},
		{"command error text", Result{Stderr: "command error: bad flag"}, FailureCommand},
		{"tool missing", Result{Err: errors.New("exec: \"gsutil\": executable file not found")}, FailureCommand},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Classify(tt.res))
		})
	}
}

func TestConsensusPath(t *testing.T) {
	t.Parallel()

	dir := filepath.Join("out", "assemblies")
	tests := []struct {
		url  string
		want string
		ok   bool
	}{
		{"gs://bucket/run/call-consensus/WA0000001.consensus.fasta", filepath.Join(dir, "WA0000001.consensus.fasta"), true},
		{"gs://bucket/run/cacheCopy/WA0000002.fa", filepath.Join(dir, "WA0000002.fa"), true},
		{"s3://bucket/other/WA0000003.fasta", filepath.Join(dir, "WA0000003.fasta"), true},
		{"", "", false},
		{"  ", "", false},
	}
	for _, tt := range tests {
		got, ok := ConsensusPath(dir, tt.url)
		require.Equal(t, tt.ok, ok, tt.url)
		require.Equal(t, tt.want, got, tt.url)
	}
}

func TestDownloadAndSequenceGates(t *testing.T) {
	t.Parallel()
	cols := titanColumns(t)
	dir := filepath.Join(t.TempDir(), "assemblies")
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	fetcher := &fakeFetcher{
		files: map[string]string{
			"gs://b/call-consensus/A.fasta": ">A\nACGT\n",
			"gs://b/call-consensus/D.fasta": "not fasta\n",
		},
		failures: map[string]Result{
			"gs://b/call-consensus/B.fasta": {Stderr: "AccessDeniedException: 403 denied\n", Err: errors.New("exit status 1")},
			"gs://b/call-consensus/C.fasta": {Stderr: "CommandException: No URLs matched\n", Err: errors.New("exit status 1")},
		},
	}
	recs := []*schema.UnifiedRecord{
		record("A", "gs://b/call-consensus/A.fasta"),
		record("B", "gs://b/call-consensus/B.fasta"),
		record("C", "gs://b/call-consensus/C.fasta"),
		record("D", "gs://b/call-consensus/D.fasta"),
		record("E", ""),
	}

	seqGate := &SequenceGate{Columns: cols, AssemblyDir: dir}
	excl, reports, err := engine.RunGates(context.Background(), log, recs, engine.NewExclusions(),
		DownloadGate{Fetcher: fetcher, Columns: cols, AssemblyDir: dir, Logger: log},
		seqGate,
	)
	require.NoError(t, err)

	require.Equal(t, []string{"B", "C"}, reports[0].Accessions())
	require.Contains(t, reports[0].Excluded[0].Reason, "access denied")
	require.Contains(t, reports[0].Excluded[1].Reason, "command failure")
	require.Len(t, reports[0].Notes, 2)
	require.Contains(t, reports[0].Notes[0], "credentials")
	require.Contains(t, reports[0].Notes[1], "assembly_fasta")

	require.Equal(t, []string{"D", "E"}, reports[1].Accessions())
	require.Equal(t, 3, reports[1].Evaluated)
	require.Equal(t, 4, excl.Len())

	seqs := seqGate.Sequences()
	require.Len(t, seqs, 1)
	require.Equal(t, "ACGT", string(seqs["A"].Seq))
	require.NotContains(t, fetcher.calls, "", "records without a URL are not fetched")
}

func TestDownloadGateSkip(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{}
	gate := DownloadGate{Fetcher: fetcher, Columns: titanColumns(t), AssemblyDir: t.TempDir(), Skip: true}
	res, err := gate.Evaluate(context.Background(), []*schema.UnifiedRecord{record("A", "gs://b/A.fasta")})
	require.NoError(t, err)
	require.Empty(t, res.Exclusions)
	require.Empty(t, fetcher.calls)
	require.True(t, gate.Skipped())
}

type fakeGetter struct {
	body string
	err  error
	keys []string
}

func (g *fakeGetter) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	g.keys = append(g.keys, *in.Bucket+"/"+*in.Key)
	if g.err != nil {
		return nil, g.err
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(g.body))}, nil
}

func TestS3Fetcher(t *testing.T) {
	t.Parallel()
	cfg := retry.Config{MaxAttempts: 2, BaseBackoff: time.Millisecond, MaxBackoff: time.Millisecond}

	t.Run("downloads object", func(t *testing.T) {
		dir := t.TempDir()
		getter := &fakeGetter{body: ">A\nACGT\n"}
		f := &S3Fetcher{Retry: cfg, client: getter}

		res := f.Fetch(context.Background(), "s3://bucket/run/call-consensus/A.fasta", dir)
		require.NoError(t, res.Err)
		require.Equal(t, FailureNone, Classify(res))
		require.Equal(t, []string{"bucket/run/call-consensus/A.fasta"}, getter.keys)

		data, err := os.ReadFile(filepath.Join(dir, "A.fasta"))
		require.NoError(t, err)
		require.Equal(t, ">A\nACGT\n", string(data))
	})

	t.Run("access denied", func(t *testing.T) {
		getter := &fakeGetter{err: &smithy.GenericAPIError{Code: "AccessDenied", Message: "Access Denied"}}
		f := &S3Fetcher{Retry: cfg, client: getter}
		res := f.Fetch(context.Background(), "s3://bucket/A.fasta", t.TempDir())
		require.Equal(t, FailureAccessDenied, Classify(res))
		require.Len(t, getter.keys, 1, "access denied is not retried")
	})

	t.Run("missing key", func(t *testing.T) {
		getter := &fakeGetter{err: &smithy.GenericAPIError{Code: "NoSuchKey", Message: "not found"}}
		f := &S3Fetcher{Retry: cfg, client: getter}
		res := f.Fetch(context.Background(), "s3://bucket/A.fasta", t.TempDir())
		require.Equal(t, FailureCommand, Classify(res))
	})

	t.Run("malformed url", func(t *testing.T) {
		f := &S3Fetcher{Retry: cfg, client: &fakeGetter{}}
		res := f.Fetch(context.Background(), "s3://bucket-only", t.TempDir())
		require.Equal(t, FailureCommand, Classify(res))
	})
}

func TestRouter(t *testing.T) {
	t.Parallel()

	s3f, def := &fakeFetcher{}, &fakeFetcher{}
	r := Router{Schemes: map[string]Fetcher{"s3": s3f}, Default: def}

	r.Fetch(context.Background(), "S3://bucket/key", "")
	r.Fetch(context.Background(), "gs://bucket/key", "")
	require.Equal(t, []string{"S3://bucket/key"}, s3f.calls)
	require.Equal(t, []string{"gs://bucket/key"}, def.calls)

	res := Router{}.Fetch(context.Background(), "gs://x/y", "")
	require.Equal(t, FailureCommand, Classify(res))
}
