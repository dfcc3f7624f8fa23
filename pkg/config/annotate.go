package config

import (
	"fmt"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Annotate flag names and discovery defaults.
const (
	KeyResults         = "results"
	KeyNCBI            = "ncbi"
	DefaultNCBIPattern = "*BioSample*.csv"
	resultsPattern     = "*results*.csv"
)

// AnnotateConfig holds the inputs of the accession annotator.
type AnnotateConfig struct {
	InDir   string
	Results string
	NCBI    []string
	OutDir  string
	Verbose bool

	ncbiPattern string
}

// BindAnnotateFlags registers the annotate flags on fs.
func BindAnnotateFlags(fs *pflag.FlagSet) {
	fs.StringP(KeyInDir, "i", ".", "Directory containing the results and NCBI tables")
	fs.StringP(KeyResults, "r", "", "GISAID results table (default: the single *results*.csv in --indir)")
	fs.StringP(KeyNCBI, "n", DefaultNCBIPattern, "Glob, relative to --indir, matching NCBI BioSample attribute tables")
	fs.StringP(KeyOutDir, "o", ".", "Directory the annotated table is written to")
	fs.String(KeyEnvFile, DefaultEnvFile, "Optional .env file loaded before reading GISAID_* variables")
	fs.Bool(KeyVerbose, false, "Enable debug logging")
}

// AnnotateFromViper reads an AnnotateConfig from v.
func AnnotateFromViper(v *viper.Viper) AnnotateConfig {
	return AnnotateConfig{
		InDir:       v.GetString(KeyInDir),
		Results:     v.GetString(KeyResults),
		OutDir:      v.GetString(KeyOutDir),
		Verbose:     v.GetBool(KeyVerbose),
		ncbiPattern: v.GetString(KeyNCBI),
	}
}

// Resolve locates the results table and the NCBI tables.
func (c *AnnotateConfig) Resolve() error {
	if c.InDir == "" {
		c.InDir = "."
	}
	if c.OutDir == "" {
		c.OutDir = "."
	}
	if c.ncbiPattern == "" {
		c.ncbiPattern = DefaultNCBIPattern
	}

	if c.Results == "" {
		matches, err := Glob(c.InDir, resultsPattern)
		if err != nil {
			return err
		}
		if len(matches) != 1 {
			return fmt.Errorf("%w: expected exactly one %s in %s, found %d",
				ErrMissingInput, resultsPattern, c.InDir, len(matches))
		}
		c.Results = matches[0]
	}

	if len(c.NCBI) == 0 {
		matches, err := Glob(c.InDir, c.ncbiPattern)
		if err != nil {
			return err
		}
		if len(matches) == 0 {
			return fmt.Errorf("%w: no files matching %s in %s", ErrMissingInput, c.ncbiPattern, c.InDir)
		}
		c.NCBI = matches
	}
	return nil
}
