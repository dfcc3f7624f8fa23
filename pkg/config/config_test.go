package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/HNHalstead/gisaid-script/pkg/schema"
)

func touch(t *testing.T, dir string, names ...string) {
	t.Helper()
	for _, n := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, n), []byte("x\n"), 0o644))
	}
}

func TestResolveDiscoversInputs(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	touch(t, dir, "run2_terra.tsv", "run1_terra.tsv", "dashboard_export.csv", "notes.txt")

	cfg := Config{Submitter: "jdoe", InDir: dir, Workflow: "TITAN"}
	require.NoError(t, cfg.Resolve())

	require.Equal(t, []string{filepath.Join(dir, "run1_terra.tsv"), filepath.Join(dir, "run2_terra.tsv")}, cfg.Terra)
	require.Equal(t, []string{filepath.Join(dir, "dashboard_export.csv")}, cfg.Dashboard)
	require.Equal(t, dir, cfg.OutDir)
	require.Equal(t, DefaultGsutil, cfg.Gsutil)
	require.Equal(t, filepath.Join(dir, AssemblySubdir), cfg.AssemblyDir())
	require.Equal(t, filepath.Join(dir, LogFile), cfg.LogPath())
}

func TestResolveErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		cfg   Config
		files []string
		want  error
	}{
		{
			name:  "missing dashboard",
			cfg:   Config{Submitter: "jdoe", Workflow: "titan"},
			files: []string{"x_terra.csv"},
			want:  ErrMissingInput,
		},
		{
			name: "missing terra",
			cfg:  Config{Submitter: "jdoe", Workflow: "lang"},
			want: ErrMissingInput,
		},
		{
			name: "unknown workflow",
			cfg:  Config{Submitter: "jdoe", Workflow: "other"},
			want: schema.ErrUnknownWorkflow,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			touch(t, dir, tt.files...)
			cfg := tt.cfg
			cfg.InDir = dir
			require.ErrorIs(t, cfg.Resolve(), tt.want)
		})
	}

	noSubmitter := Config{Workflow: "titan"}
	require.Error(t, noSubmitter.Resolve())
}

func TestResolveKeepsExplicitInputs(t *testing.T) {
	t.Parallel()
	cfg := Config{
		Submitter: "jdoe",
		InDir:     t.TempDir(),
		OutDir:    "out",
		Workflow:  "titan",
		Terra:     []string{"a.tsv"},
		Dashboard: []string{"b.csv"},
	}
	require.NoError(t, cfg.Resolve())
	require.Equal(t, []string{"a.tsv"}, cfg.Terra)
	require.Equal(t, "out", cfg.OutDir)
}

func TestViperLayering(t *testing.T) {
	dir := t.TempDir()
	cfgFile := filepath.Join(dir, "gisaid.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("workflow: lang\ngsutil: /opt/gsutil\nfetch-rate: 2.5\n"), 0o644))
	t.Setenv("GISAID_GSUTIL", "/env/gsutil")

	fs := pflag.NewFlagSet("prepare", pflag.ContinueOnError)
	BindFlags(fs)
	require.NoError(t, fs.Parse([]string{"--config", cfgFile, "-t", "a.tsv", "-t", "b.tsv", "--skip-download"}))

	v, err := NewViper(fs)
	require.NoError(t, err)
	cfg := FromViper(v, "jdoe")

	require.Equal(t, "lang", cfg.Workflow, "config file")
	require.Equal(t, "/env/gsutil", cfg.Gsutil, "environment over config file")
	require.Equal(t, 2.5, cfg.FetchRate)
	require.Nil(t, fs.Lookup("coverage-threshold"), "coverage threshold is not configurable")
	require.Equal(t, []string{"a.tsv", "b.tsv"}, cfg.Terra, "explicit flags")
	require.True(t, cfg.SkipDownload)
	require.Equal(t, "jdoe", cfg.Submitter)
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("GISAID_TEST_ENV_VALUE=from-file\n"), 0o644))
	t.Setenv("GISAID_TEST_ENV_VALUE", "")
	require.NoError(t, os.Unsetenv("GISAID_TEST_ENV_VALUE"))

	require.NoError(t, LoadEnvFile(path))
	require.Equal(t, "from-file", os.Getenv("GISAID_TEST_ENV_VALUE"))

	require.NoError(t, LoadEnvFile(filepath.Join(dir, "missing.env")))
	require.NoError(t, LoadEnvFile(""))
}

func TestAnnotateResolve(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	touch(t, dir, "gisaid_results.csv", "BioSample_1.csv", "BioSample_2.csv")

	cfg := AnnotateConfig{InDir: dir}
	require.NoError(t, cfg.Resolve())
	require.Equal(t, filepath.Join(dir, "gisaid_results.csv"), cfg.Results)
	require.Len(t, cfg.NCBI, 2)

	touch(t, dir, "other_results.csv")
	ambiguous := AnnotateConfig{InDir: dir}
	require.ErrorIs(t, ambiguous.Resolve(), ErrMissingInput)

	empty := AnnotateConfig{InDir: t.TempDir(), Results: "r.csv"}
	require.ErrorIs(t, empty.Resolve(), ErrMissingInput)
}
