package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"crednova/polaris/pkg/config"
	"crednova/polaris/pkg/decision"
	"crednova/polaris/pkg/decision/engine"
	"crednova/polaris/pkg/predictions"
	"crednova/polaris/pkg/telemetry/logging"
)

var decideFlags struct {
	input   string
	offline bool
	timeout time.Duration
}

var decideCmd = &cobra.Command{
	Use:   "decide",
	Short: "Evaluate a single application",
	Long: `Evaluate one loan application from a JSON file and print the decision.

By default the configured model endpoints are queried. With --offline no
models are contacted; applications that pass the rule gate are routed to
manual review.

Examples:
  # Evaluate against the configured models
  polaris decide --input application.json

  # Rule gate only, no model calls
  polaris decide --input application.json --offline`,
	RunE: runDecide,
}

func init() {
	rootCmd.AddCommand(decideCmd)

	decideCmd.Flags().StringVarP(&decideFlags.input, "input", "i", "", "application JSON file (required)")
	decideCmd.Flags().BoolVar(&decideFlags.offline, "offline", false, "skip model calls")
	decideCmd.Flags().DurationVar(&decideFlags.timeout, "timeout", 30*time.Second, "overall evaluation timeout")
	decideCmd.MarkFlagRequired("input")
}

func runDecide(cmd *cobra.Command, args []string) error {
	d, err := evaluateApplication(cmd.Context())
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))

	// Exit only after evaluateApplication has released its resources.
	if d.Status == decision.StatusRejected {
		os.Exit(1)
	}
	return nil
}

func evaluateApplication(parent context.Context) (*decision.Decision, error) {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}
	logger, err := logging.New(cfg.Telemetry.Logging, os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("failed to configure logging: %w", err)
	}

	data, err := os.ReadFile(decideFlags.input)
	if err != nil {
		return nil, fmt.Errorf("failed to read application: %w", err)
	}
	var app decision.Application
	if err := json.Unmarshal(data, &app); err != nil {
		return nil, fmt.Errorf("failed to parse application: %w", err)
	}
	if err := app.Validate(); err != nil {
		return nil, err
	}

	var provider predictions.Provider
	if decideFlags.offline {
		provider = predictions.Degraded{}
	} else {
		ensemble := predictions.NewEnsemble(cfg.Models, logger, nil)
		defer ensemble.Close()
		provider = ensemble
	}

	orch, err := engine.New(cfg.Engine, provider, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to build decision engine: %w", err)
	}

	ctx, cancel := context.WithTimeout(parent, decideFlags.timeout)
	defer cancel()

	d, err := orch.Decide(ctx, app)
	if err != nil {
		return nil, fmt.Errorf("evaluation failed: %w", err)
	}
	return d, nil
}
