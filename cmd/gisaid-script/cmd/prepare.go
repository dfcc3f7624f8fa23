package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/HNHalstead/gisaid-script/pkg/config"
	"github.com/HNHalstead/gisaid-script/pkg/logger"
	"github.com/HNHalstead/gisaid-script/pkg/pipeline"
)

// prepareCmd represents the prepare command
var prepareCmd = &cobra.Command{
	Use:   "prepare SUBMITTER",
	Short: "Builds submission metadata and a consolidated FASTA for one sequencing run.",
	Long: `The prepare command merges the sequencing workflow tables with the dashboard
metadata, excludes samples with missing fields, low coverage or unavailable
assemblies, and writes PHA4GE, GISAID, BioSample and GenBank metadata.
SUBMITTER is the GISAID submitter id. Every flag can also be set with a
GISAID_-prefixed environment variable, e.g. GISAID_OUTDIR.`,
	Args: cobra.ExactArgs(1),
	RunE: cliCmdPrepare,
}

func init() {
	rootCmd.AddCommand(prepareCmd)
	config.BindFlags(prepareCmd.Flags())
}

func cliCmdPrepare(cmd *cobra.Command, args []string) error {
	envFile, err := cmd.Flags().GetString(config.KeyEnvFile)
	if err != nil {
		return err
	}
	if err := config.LoadEnvFile(envFile); err != nil {
		return err
	}

	v, err := config.NewViper(cmd.Flags())
	if err != nil {
		return err
	}
	cfg := config.FromViper(v, args[0])
	if err := cfg.Resolve(); err != nil {
		return err
	}

	if err := os.MkdirAll(cfg.OutDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	logFile, err := os.OpenFile(cfg.LogPath(), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open run log: %w", err)
	}
	defer logFile.Close()
	log := logger.NewRun(cmd.ErrOrStderr(), logFile, cfg.Verbose)

	res, err := pipeline.Run(cmd.Context(), pipeline.Options{Config: cfg, Logger: log})
	if err != nil {
		log.Error("prepare: run failed", "error", err)
		return err
	}
	for _, path := range res.Outputs {
		fmt.Fprintln(cmd.OutOrStdout(), path)
	}
	return nil
}
