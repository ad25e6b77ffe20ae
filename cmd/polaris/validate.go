package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"crednova/polaris/pkg/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a configuration file",
	Long: `Load and validate a configuration file without starting the server.

Exits non-zero if the configuration fails validation.

Examples:
  polaris validate --config config.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
		if err != nil {
			return err
		}
		fmt.Printf("configuration valid: %d model endpoints, storage backend %q\n",
			len(cfg.Models.Endpoints), cfg.Storage.Backend)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
