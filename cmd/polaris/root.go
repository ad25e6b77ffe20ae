package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "polaris",
	Short: "Polaris - loan decision engine",
	Long: `Polaris is a loan decision engine that combines a hard eligibility
rule gate with an ensemble of ML approval models.

It evaluates loan applications in stages:
  - Rule gate over age, income, credit score, and debt burden
  - Weighted consensus across configured model endpoints
  - Risk categorization from the consensus probability
  - Loan terms priced per risk category with affordability checks

Applications the models cannot agree on, or that no model can score,
are routed to manual review rather than decided automatically.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
