package config

import (
	"errors"
	"fmt"

	"github.com/robfig/cron/v3"
)

// ErrInvalidConfig is the sentinel wrapped by all configuration validation
// failures. Validation failures are fatal at startup and are never seen
// per-request.
var ErrInvalidConfig = errors.New("invalid configuration")

// Validate checks the full configuration for consistency. It is called
// after defaults and environment overrides are applied; any error aborts
// process initialization.
func Validate(cfg *Config) error {
	if err := validateServer(&cfg.Server); err != nil {
		return err
	}
	if err := validateEngine(&cfg.Engine); err != nil {
		return err
	}
	if err := validateModels(&cfg.Models); err != nil {
		return err
	}
	if err := validateStorage(&cfg.Storage); err != nil {
		return err
	}
	return validateTelemetry(&cfg.Telemetry)
}

func validateServer(c *ServerConfig) error {
	if c.ListenAddress == "" {
		return fmt.Errorf("%w: server listen address is required", ErrInvalidConfig)
	}
	if c.ReadTimeout <= 0 || c.WriteTimeout <= 0 || c.ShutdownTimeout <= 0 {
		return fmt.Errorf("%w: server timeouts must be positive", ErrInvalidConfig)
	}
	return nil
}

func validateEngine(c *EngineConfig) error {
	r := &c.Rules
	if r.MinAge < 0 || r.MaxAge <= r.MinAge {
		return fmt.Errorf("%w: age range [%d, %d] is not a valid interval", ErrInvalidConfig, r.MinAge, r.MaxAge)
	}
	if r.MinSalary <= 0 {
		return fmt.Errorf("%w: min_salary must be positive", ErrInvalidConfig)
	}
	if r.MinCreditScore < 300 || r.MinCreditScore > 850 {
		return fmt.Errorf("%w: min_credit_score %d outside [300, 850]", ErrInvalidConfig, r.MinCreditScore)
	}
	if r.MaxDTI <= 0 || r.MaxDTI > 1 {
		return fmt.Errorf("%w: max_dti %.3f outside (0, 1]", ErrInvalidConfig, r.MaxDTI)
	}
	if r.EstimatedLoanPayment < 0 {
		return fmt.Errorf("%w: estimated_loan_payment must be non-negative", ErrInvalidConfig)
	}
	if r.EstimateRate <= 0 || r.EstimateTenureMonths <= 0 {
		return fmt.Errorf("%w: DTI estimate rate and tenure must be positive", ErrInvalidConfig)
	}
	if r.MinLoanAmount <= 0 || r.MaxLoanAmount <= r.MinLoanAmount {
		return fmt.Errorf("%w: loan amount range [%.2f, %.2f] is not a valid interval",
			ErrInvalidConfig, r.MinLoanAmount, r.MaxLoanAmount)
	}
	if r.IncomeMismatchTolerance <= 0 || r.IncomeMismatchTolerance >= 1 {
		return fmt.Errorf("%w: income_mismatch_tolerance %.3f outside (0, 1)", ErrInvalidConfig, r.IncomeMismatchTolerance)
	}
	if r.MinEmploymentYears < 0 {
		return fmt.Errorf("%w: min_employment_years must be non-negative", ErrInvalidConfig)
	}

	cs := &c.Consensus
	if cs.VoteThreshold < 0 || cs.VoteThreshold > 1 {
		return fmt.Errorf("%w: vote_threshold %.3f outside [0, 1]", ErrInvalidConfig, cs.VoteThreshold)
	}
	if cs.DisagreementThreshold < 0 || cs.DisagreementThreshold > 1 {
		return fmt.Errorf("%w: disagreement_threshold %.3f outside [0, 1]", ErrInvalidConfig, cs.DisagreementThreshold)
	}

	rk := &c.Risk
	if rk.LowRiskThreshold < 0 || rk.LowRiskThreshold > 1 {
		return fmt.Errorf("%w: low_risk_threshold %.3f outside [0, 1]", ErrInvalidConfig, rk.LowRiskThreshold)
	}
	if rk.HighRiskCutoff < 0 || rk.HighRiskCutoff > 1 {
		return fmt.Errorf("%w: high_risk_cutoff %.3f outside [0, 1]", ErrInvalidConfig, rk.HighRiskCutoff)
	}
	if rk.HighRiskCutoff >= rk.LowRiskThreshold {
		return fmt.Errorf("%w: high_risk_cutoff %.3f must be below low_risk_threshold %.3f",
			ErrInvalidConfig, rk.HighRiskCutoff, rk.LowRiskThreshold)
	}

	t := &c.Terms
	for _, band := range []struct {
		name string
		b    TermsBand
	}{
		{"low", t.Low},
		{"medium", t.Medium},
		{"high", t.High},
	} {
		if band.b.RateMin <= 0 || band.b.RateMax < band.b.RateMin {
			return fmt.Errorf("%w: terms band %q rate range [%.2f, %.2f] is not a valid interval",
				ErrInvalidConfig, band.name, band.b.RateMin, band.b.RateMax)
		}
		if band.b.AmountFactor <= 0 || band.b.AmountFactor > 1 {
			return fmt.Errorf("%w: terms band %q amount_factor %.3f outside (0, 1]",
				ErrInvalidConfig, band.name, band.b.AmountFactor)
		}
		if band.b.MaxTenureYears < t.MinTenureYears {
			return fmt.Errorf("%w: terms band %q max_tenure_years %d below min_tenure_years %d",
				ErrInvalidConfig, band.name, band.b.MaxTenureYears, t.MinTenureYears)
		}
	}
	if t.MinTenureYears <= 0 {
		return fmt.Errorf("%w: min_tenure_years must be positive", ErrInvalidConfig)
	}
	if t.AmountFloor <= 0 {
		return fmt.Errorf("%w: amount_floor must be positive", ErrInvalidConfig)
	}
	if t.ReductionStep <= 0 || t.ReductionStep >= 1 {
		return fmt.Errorf("%w: reduction_step %.3f outside (0, 1)", ErrInvalidConfig, t.ReductionStep)
	}
	return nil
}

func validateModels(c *ModelsConfig) error {
	if c.Timeout <= 0 {
		return fmt.Errorf("%w: model timeout must be positive", ErrInvalidConfig)
	}
	seen := make(map[string]bool, len(c.Endpoints))
	for i, ep := range c.Endpoints {
		if ep.Name == "" {
			return fmt.Errorf("%w: model endpoint %d has no name", ErrInvalidConfig, i)
		}
		if ep.URL == "" {
			return fmt.Errorf("%w: model endpoint %q has no url", ErrInvalidConfig, ep.Name)
		}
		if ep.Weight < 0 {
			return fmt.Errorf("%w: model endpoint %q has negative weight", ErrInvalidConfig, ep.Name)
		}
		if seen[ep.Name] {
			return fmt.Errorf("%w: duplicate model endpoint name %q", ErrInvalidConfig, ep.Name)
		}
		seen[ep.Name] = true
	}
	if c.Cache.Enabled && c.Cache.Address == "" {
		return fmt.Errorf("%w: cache enabled but no address configured", ErrInvalidConfig)
	}
	return nil
}

func validateStorage(c *StorageConfig) error {
	switch c.Backend {
	case "sqlite", "memory":
	default:
		return fmt.Errorf("%w: unknown storage backend %q", ErrInvalidConfig, c.Backend)
	}
	if c.Backend == "sqlite" && c.Path == "" {
		return fmt.Errorf("%w: sqlite backend requires a path", ErrInvalidConfig)
	}
	if c.Retention.Days < 0 || c.Retention.MaxRecords < 0 {
		return fmt.Errorf("%w: retention limits must be non-negative", ErrInvalidConfig)
	}
	if c.Retention.PruneSchedule != "" {
		if _, err := cron.ParseStandard(c.Retention.PruneSchedule); err != nil {
			return fmt.Errorf("%w: invalid prune schedule %q: %v", ErrInvalidConfig, c.Retention.PruneSchedule, err)
		}
	}
	return nil
}

func validateTelemetry(c *TelemetryConfig) error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: unknown log level %q", ErrInvalidConfig, c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("%w: unknown log format %q", ErrInvalidConfig, c.Logging.Format)
	}
	if c.Tracing.SampleRatio < 0 || c.Tracing.SampleRatio > 1 {
		return fmt.Errorf("%w: tracing sample_ratio %.3f outside [0, 1]", ErrInvalidConfig, c.Tracing.SampleRatio)
	}
	if c.Tracing.Enabled && c.Tracing.Endpoint == "" {
		return fmt.Errorf("%w: tracing enabled but no endpoint configured", ErrInvalidConfig)
	}
	return nil
}
