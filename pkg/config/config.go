package config

import "time"

// Config is the root configuration structure for Polaris. It contains all
// sections for the HTTP API server, the decision engine thresholds, the
// prediction model endpoints, decision storage, and telemetry.
type Config struct {
	// Server contains HTTP API server configuration including listen
	// address and timeouts.
	Server ServerConfig `yaml:"server"`

	// Engine contains the decision engine thresholds: rule gates, consensus
	// policy, risk bands, and per-category loan terms.
	Engine EngineConfig `yaml:"engine"`

	// Models contains the prediction model endpoints, the per-model fetch
	// timeout, and the optional prediction cache.
	Models ModelsConfig `yaml:"models"`

	// Storage contains decision record persistence and retention settings.
	Storage StorageConfig `yaml:"storage"`

	// Telemetry contains observability configuration: logging, metrics,
	// and distributed tracing.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ServerConfig contains configuration for the HTTP API server.
type ServerConfig struct {
	// ListenAddress is the address and port to listen on.
	// Default: "127.0.0.1:8080"
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout is the maximum duration for reading the entire request.
	// Default: 15s
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out response writes.
	// Default: 15s
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the keep-alive idle timeout.
	// Default: 60s
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown.
	// Default: 15s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// EngineConfig groups the decision engine threshold sections.
type EngineConfig struct {
	// Rules contains the hard eligibility gate thresholds.
	Rules RulesConfig `yaml:"rules"`

	// Consensus contains the ensemble aggregation policy.
	Consensus ConsensusConfig `yaml:"consensus"`

	// Risk contains the risk tier probability bands.
	Risk RiskConfig `yaml:"risk"`

	// Terms contains the per-category loan terms parameters.
	Terms TermsConfig `yaml:"terms"`
}

// RulesConfig contains the hard eligibility thresholds evaluated by the
// rule engine. Every check is evaluated on every application; failing any
// one of them rejects the application outright.
type RulesConfig struct {
	// MinAge is the minimum applicant age. Default: 18
	MinAge int `yaml:"min_age"`

	// MaxAge is the maximum applicant age. Default: 100
	MaxAge int `yaml:"max_age"`

	// MinSalary is the minimum annual salary. Default: 30000
	MinSalary float64 `yaml:"min_salary"`

	// MinCreditScore is the minimum credit score. Default: 600
	MinCreditScore int `yaml:"min_credit_score"`

	// MaxDTI is the maximum debt-to-income ratio, in (0, 1].
	// Default: 0.4
	MaxDTI float64 `yaml:"max_dti"`

	// EstimatedLoanPayment is the assumed monthly payment per existing
	// loan when estimating the applicant's current obligations.
	// Default: 500
	EstimatedLoanPayment float64 `yaml:"estimated_loan_payment"`

	// EstimateRate is the annual interest rate (percent) used to amortize
	// the requested amount for the pre-approval DTI screen, before actual
	// terms are known. Default: 5.0
	EstimateRate float64 `yaml:"estimate_rate"`

	// EstimateTenureMonths is the tenure used for the pre-approval DTI
	// screen. Default: 360
	EstimateTenureMonths int `yaml:"estimate_tenure_months"`

	// MinLoanAmount is the smallest acceptable requested amount.
	// Default: 1000
	MinLoanAmount float64 `yaml:"min_loan_amount"`

	// MaxLoanAmount is the largest acceptable requested amount.
	// Default: 2000000
	MaxLoanAmount float64 `yaml:"max_loan_amount"`

	// IncomeMismatchTolerance is the maximum relative difference allowed
	// between the stated monthly income and annual salary / 12.
	// Default: 0.2
	IncomeMismatchTolerance float64 `yaml:"income_mismatch_tolerance"`

	// MinEmploymentYears is the minimum continuous employment history.
	// Set to 0 to disable the check. Default: 0.5
	MinEmploymentYears float64 `yaml:"min_employment_years"`
}

// ConsensusConfig contains the ensemble aggregation policy.
type ConsensusConfig struct {
	// VoteThreshold is the probability at or above which a model's binary
	// vote counts as approve. Default: 0.5
	VoteThreshold float64 `yaml:"vote_threshold"`

	// DisagreementThreshold is the maximum dispersion (spread between the
	// most and least confident model) tolerated before the application is
	// routed to manual review. Default: 0.35
	DisagreementThreshold float64 `yaml:"disagreement_threshold"`
}

// RiskConfig contains the consensus probability bands that map to risk
// tiers. Bands are closed on the lower bound and open on the upper bound,
// so boundary values resolve to the safer (lower) category.
type RiskConfig struct {
	// LowRiskThreshold is the consensus probability at or above which the
	// application is low risk. Default: 0.8
	LowRiskThreshold float64 `yaml:"low_risk_threshold"`

	// HighRiskCutoff is the consensus probability below which the
	// application is high risk. Default: 0.4
	HighRiskCutoff float64 `yaml:"high_risk_cutoff"`
}

// TermsBand contains the loan terms parameters for one risk category.
type TermsBand struct {
	// RateMin is the lowest annual interest rate (percent) in the band.
	RateMin float64 `yaml:"rate_min"`

	// RateMax is the highest annual interest rate (percent) in the band.
	RateMax float64 `yaml:"rate_max"`

	// AmountFactor is the fraction of the requested amount that may be
	// approved, in (0, 1].
	AmountFactor float64 `yaml:"amount_factor"`

	// MaxTenureYears is the longest tenure offered, in whole years.
	MaxTenureYears int `yaml:"max_tenure_years"`
}

// TermsConfig contains the loan terms parameters for all risk categories.
type TermsConfig struct {
	// Low is the low-risk band. Default: 8.5-10%, 100% of requested, 30y.
	Low TermsBand `yaml:"low"`

	// Medium is the medium-risk band. Default: 10-13.5%, 85%, 20y.
	Medium TermsBand `yaml:"medium"`

	// High is the high-risk band. Default: 13.5-18%, 60%, 12y.
	High TermsBand `yaml:"high"`

	// MinTenureYears is the shortest standard tenure, in whole years.
	// Default: 12
	MinTenureYears int `yaml:"min_tenure_years"`

	// AmountFloor is the smallest principal attempted when reducing the
	// approved amount to meet affordability. Default: 1000
	AmountFloor float64 `yaml:"amount_floor"`

	// ReductionStep is the fraction of the initial approved amount
	// subtracted per reduction iteration, in (0, 1). Default: 0.05
	ReductionStep float64 `yaml:"reduction_step"`
}

// ModelEndpoint describes one prediction model served by the external
// model-serving collaborator.
type ModelEndpoint struct {
	// Name identifies the model, unique across endpoints.
	Name string `yaml:"name"`

	// URL is the prediction endpoint. The application is POSTed as JSON.
	URL string `yaml:"url"`

	// Weight is the model's voting weight in the ensemble. Zero means
	// equal voting (1.0).
	Weight float64 `yaml:"weight"`
}

// ModelsConfig contains the prediction provider configuration.
type ModelsConfig struct {
	// Endpoints lists the model-serving endpoints queried per decision.
	Endpoints []ModelEndpoint `yaml:"endpoints"`

	// Timeout is the per-model fetch timeout. A model that does not
	// respond in time is dropped from the ensemble for that request.
	// Default: 2s
	Timeout time.Duration `yaml:"timeout"`

	// Cache configures the optional redis prediction cache.
	Cache CacheConfig `yaml:"cache"`
}

// CacheConfig contains the redis prediction cache settings. Caching is a
// best-effort optimization: cache failures fall through to the live
// provider and are never fatal.
type CacheConfig struct {
	// Enabled controls whether the prediction cache is used.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Address is the redis server address ("host:port").
	// Default: "127.0.0.1:6379"
	Address string `yaml:"address"`

	// TTL is how long cached predictions stay valid. Default: 5m
	TTL time.Duration `yaml:"ttl"`

	// KeyPrefix namespaces cache keys. Default: "polaris:predictions:"
	KeyPrefix string `yaml:"key_prefix"`
}

// StorageConfig contains decision record persistence settings.
type StorageConfig struct {
	// Backend selects the storage backend: "sqlite" or "memory".
	// Default: "sqlite"
	Backend string `yaml:"backend"`

	// Path is the SQLite database file path.
	// Default: "data/decisions.db"
	Path string `yaml:"path"`

	// Retention configures automatic pruning of old decision records.
	Retention RetentionConfig `yaml:"retention"`
}

// RetentionConfig controls automatic pruning of stored decision records.
type RetentionConfig struct {
	// Days is how long decision records are kept. Zero disables
	// age-based pruning. Default: 365
	Days int `yaml:"days"`

	// MaxRecords caps the number of stored records; the oldest are pruned
	// first. Zero disables the cap. Default: 0
	MaxRecords int `yaml:"max_records"`

	// PruneSchedule is a cron expression for the pruning job. Empty
	// disables scheduled pruning. Default: "0 3 * * *"
	PruneSchedule string `yaml:"prune_schedule"`
}

// TelemetryConfig contains observability configuration.
type TelemetryConfig struct {
	// Logging configures structured logging.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics configures Prometheus metrics.
	Metrics MetricsConfig `yaml:"metrics"`

	// Tracing configures OpenTelemetry tracing.
	Tracing TracingConfig `yaml:"tracing"`
}

// LoggingConfig contains structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	// Default: "info"
	Level string `yaml:"level"`

	// Format is the output format: "json" or "text". Default: "json"
	Format string `yaml:"format"`

	// AddSource includes file:line in log records. Default: false
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig contains Prometheus metrics settings.
type MetricsConfig struct {
	// Enabled controls whether metrics are collected and exposed.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Namespace is the metric name prefix. Default: "polaris"
	Namespace string `yaml:"namespace"`
}

// TracingConfig contains OpenTelemetry tracing settings.
type TracingConfig struct {
	// Enabled controls whether spans are exported. Default: false
	Enabled bool `yaml:"enabled"`

	// Endpoint is the OTLP gRPC collector endpoint.
	// Default: "127.0.0.1:4317"
	Endpoint string `yaml:"endpoint"`

	// ServiceName is the reported service name. Default: "polaris"
	ServiceName string `yaml:"service_name"`

	// SampleRatio is the fraction of decisions traced, in [0, 1].
	// Default: 1.0
	SampleRatio float64 `yaml:"sample_ratio"`
}
