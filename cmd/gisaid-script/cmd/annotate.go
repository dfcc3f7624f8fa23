package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/HNHalstead/gisaid-script/pkg/accession"
	"github.com/HNHalstead/gisaid-script/pkg/config"
	"github.com/HNHalstead/gisaid-script/pkg/logger"
)

// annotateCmd represents the annotate command
var annotateCmd = &cobra.Command{
	Use:   "annotate",
	Short: "Adds NCBI BioSample accessions to a GISAID results table.",
	Long: `The annotate command joins a GISAID results export with one or more NCBI
BioSample attribute tables on the sample identifier and writes
results_with_ncbi.csv with an added "NCBI Accession" column.`,
	Args: cobra.NoArgs,
	RunE: cliCmdAnnotate,
}

func init() {
	rootCmd.AddCommand(annotateCmd)
	config.BindAnnotateFlags(annotateCmd.Flags())
}

func cliCmdAnnotate(cmd *cobra.Command, args []string) error {
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
	cfg := config.AnnotateFromViper(v)
	if err := cfg.Resolve(); err != nil {
		return err
	}

	log := logger.New(cmd.ErrOrStderr(), cfg.Verbose, false)
	path, _, err := accession.Run(log, cfg.Results, cfg.NCBI, cfg.OutDir)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), path)
	return nil
}
