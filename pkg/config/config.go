package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/HNHalstead/gisaid-script/pkg/schema"
)

// ErrMissingInput is returned when a required input table was neither given
// nor found in the input directory.
var ErrMissingInput = errors.New("missing required input")

// EnvPrefix prefixes every environment override, e.g. GISAID_OUTDIR.
const EnvPrefix = "GISAID"

// Flag names shared by the prepare command and viper keys.
const (
	KeyInDir        = "indir"
	KeyOutDir       = "outdir"
	KeyTerra        = "terra"
	KeyDashboard    = "dashboard"
	KeyVOCs         = "vocs"
	KeyWorkflow     = "workflow"
	KeyGsutil       = "gsutil"
	KeySkipDownload = "skip-download"
	KeyNoAutoQC     = "no-auto-qc"
	KeyAuthorList   = "author-list"
	KeyFetchRate    = "fetch-rate"
	KeyConfig       = "config"
	KeyEnvFile      = "env-file"
	KeyVerbose      = "verbose"
)

// Default values.
const (
	DefaultWorkflow   = "titan"
	DefaultGsutil     = "gsutil"
	DefaultEnvFile    = ".env"
	AssemblySubdir    = "assemblies"
	LogFile           = "gisaid_script_logs.txt"
	sequencingPattern = "*terra*"
	dashboardPattern  = "*dashboard*"
)

// Config holds everything a prepare run needs.
type Config struct {
	Submitter    string
	InDir        string
	OutDir       string
	Terra        []string
	Dashboard    []string
	VOCs         string
	Workflow     string
	Gsutil       string
	SkipDownload bool
	NoAutoQC     bool
	AuthorList   string
	// FetchRate caps asset fetches per second; 0 leaves them unpaced.
	FetchRate float64
	Verbose   bool
}

// BindFlags registers the prepare flags on fs.
func BindFlags(fs *pflag.FlagSet) {
	fs.StringP(KeyInDir, "i", ".", "Directory containing the input tables (searched for *terra* and *dashboard* files)")
	fs.StringP(KeyOutDir, "o", "", "Directory outputs are written to (default: --indir)")
	fs.StringSliceP(KeyTerra, "t", nil, "Sequencing workflow results table; repeat for several tables")
	fs.StringSliceP(KeyDashboard, "d", nil, "Dashboard metadata table; repeat for several tables")
	fs.StringP(KeyVOCs, "v", "", "Two-column VOC/VOI watch-list table")
	fs.StringP(KeyWorkflow, "w", DefaultWorkflow, "Workflow that produced the sequencing table: titan or lang")
	fs.StringP(KeyGsutil, "g", DefaultGsutil, "Path to the object-store copy tool")
	fs.BoolP(KeySkipDownload, "s", false, "Skip downloading assemblies; expects them under <outdir>/assemblies")
	fs.Bool(KeyNoAutoQC, false, "Disable the coverage QC gate")
	fs.String(KeyAuthorList, "", "File with semicolon-separated author names on its first line")
	fs.Float64(KeyFetchRate, 0, "Maximum assembly downloads per second (0 = unlimited)")
	fs.String(KeyConfig, "", "Optional config file (yaml, toml or json)")
	fs.String(KeyEnvFile, DefaultEnvFile, "Optional .env file loaded before reading GISAID_* variables")
	fs.Bool(KeyVerbose, false, "Enable debug logging")
}

// LoadEnvFile loads KEY=VALUE pairs from path into the environment without
// overriding variables that are already set. A missing file is not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

// NewViper layers flags, GISAID_* environment variables and the optional
// config file. Explicit flags win over the environment, which wins over the
// config file.
func NewViper(fs *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(fs); err != nil {
		return nil, fmt.Errorf("bind flags: %w", err)
	}

	if path := v.GetString(KeyConfig); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}
	return v, nil
}

// FromViper reads a Config from v. The submitter comes from the command line.
func FromViper(v *viper.Viper, submitter string) Config {
	return Config{
		Submitter:    submitter,
		InDir:        v.GetString(KeyInDir),
		OutDir:       v.GetString(KeyOutDir),
		Terra:        v.GetStringSlice(KeyTerra),
		Dashboard:    v.GetStringSlice(KeyDashboard),
		VOCs:         v.GetString(KeyVOCs),
		Workflow:     v.GetString(KeyWorkflow),
		Gsutil:       v.GetString(KeyGsutil),
		SkipDownload: v.GetBool(KeySkipDownload),
		NoAutoQC:     v.GetBool(KeyNoAutoQC),
		AuthorList:   v.GetString(KeyAuthorList),
		FetchRate:    v.GetFloat64(KeyFetchRate),
		Verbose:      v.GetBool(KeyVerbose),
	}
}

// Resolve fills defaults, discovers input tables missing from the flags and
// validates the result.
func (c *Config) Resolve() error {
	if strings.TrimSpace(c.Submitter) == "" {
		return errors.New("a GISAID submitter id is required")
	}
	if _, err := schema.ParseWorkflow(c.Workflow); err != nil {
		return err
	}
	if c.InDir == "" {
		c.InDir = "."
	}
	if c.OutDir == "" {
		c.OutDir = c.InDir
	}
	if c.Gsutil == "" {
		c.Gsutil = DefaultGsutil
	}
	if c.FetchRate < 0 {
		return fmt.Errorf("fetch rate must not be negative, got %v", c.FetchRate)
	}

	var err error
	if c.Terra, err = discover(c.Terra, c.InDir, sequencingPattern, KeyTerra); err != nil {
		return err
	}
	if c.Dashboard, err = discover(c.Dashboard, c.InDir, dashboardPattern, KeyDashboard); err != nil {
		return err
	}
	return nil
}

// AssemblyDir is where consensus assemblies are downloaded to.
func (c Config) AssemblyDir() string {
	return filepath.Join(c.OutDir, AssemblySubdir)
}

// LogPath is the run log inside the output directory.
func (c Config) LogPath() string {
	return filepath.Join(c.OutDir, LogFile)
}

// discover returns given unchanged when non-empty, else the files in dir
// matching pattern.
func discover(given []string, dir, pattern, flag string) ([]string, error) {
	if len(given) > 0 {
		return given, nil
	}
	matches, err := Glob(dir, pattern)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: %s; pass --%s or place a file with '%s' in its name in %s",
			ErrMissingInput, flag, flag, strings.Trim(pattern, "*"), dir)
	}
	return matches, nil
}

// Glob returns the regular files in dir matching pattern, sorted.
func Glob(dir, pattern string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, fmt.Errorf("search %s for %s: %w", dir, pattern, err)
	}
	files := matches[:0]
	for _, m := range matches {
		if info, err := os.Stat(m); err == nil && info.Mode().IsRegular() {
			files = append(files, m)
		}
	}
	sort.Strings(files)
	return files, nil
}
