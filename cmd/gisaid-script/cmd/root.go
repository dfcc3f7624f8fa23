package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "gisaid-script",
	Short: "Prepares SARS-CoV-2 sequencing results for public repository submission.",
	Long: `gisaid-script links sequencing workflow results to dashboard metadata, filters
samples that fail quality gates and writes submission metadata for PHA4GE, GISAID,
NCBI BioSample and GenBank along with a consolidated FASTA file.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command until it finishes or the process is
// interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}
