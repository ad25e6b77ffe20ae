package config

import "time"

// DefaultConfig returns the documented default configuration. LoadConfig
// decodes the file on top of this value, so keys absent from the file keep
// their defaults while explicitly configured values win, including zero
// values such as min_employment_years: 0 or metrics.enabled: false.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			ListenAddress:   "127.0.0.1:8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 15 * time.Second,
		},
		Engine: EngineConfig{
			Rules: RulesConfig{
				MinAge:                  18,
				MaxAge:                  100,
				MinSalary:               30000,
				MinCreditScore:          600,
				MaxDTI:                  0.4,
				EstimatedLoanPayment:    500,
				EstimateRate:            5.0,
				EstimateTenureMonths:    360,
				MinLoanAmount:           1000,
				MaxLoanAmount:           2000000,
				IncomeMismatchTolerance: 0.2,
				MinEmploymentYears:      0.5,
			},
			Consensus: ConsensusConfig{
				VoteThreshold:         0.5,
				DisagreementThreshold: 0.35,
			},
			Risk: RiskConfig{
				LowRiskThreshold: 0.8,
				HighRiskCutoff:   0.4,
			},
			Terms: TermsConfig{
				Low:            TermsBand{RateMin: 8.5, RateMax: 10.0, AmountFactor: 1.0, MaxTenureYears: 30},
				Medium:         TermsBand{RateMin: 10.0, RateMax: 13.5, AmountFactor: 0.85, MaxTenureYears: 20},
				High:           TermsBand{RateMin: 13.5, RateMax: 18.0, AmountFactor: 0.60, MaxTenureYears: 12},
				MinTenureYears: 12,
				AmountFloor:    1000,
				ReductionStep:  0.05,
			},
		},
		Models: ModelsConfig{
			Timeout: 2 * time.Second,
			Cache: CacheConfig{
				Address:   "127.0.0.1:6379",
				TTL:       5 * time.Minute,
				KeyPrefix: "polaris:predictions:",
			},
		},
		Storage: StorageConfig{
			Backend: "sqlite",
			Path:    "data/decisions.db",
			Retention: RetentionConfig{
				Days:          365,
				PruneSchedule: "0 3 * * *",
			},
		},
		Telemetry: TelemetryConfig{
			Logging: LoggingConfig{
				Level:  "info",
				Format: "json",
			},
			Metrics: MetricsConfig{
				Enabled:   true,
				Namespace: "polaris",
			},
			Tracing: TracingConfig{
				Endpoint:    "127.0.0.1:4317",
				ServiceName: "polaris",
				SampleRatio: 1.0,
			},
		},
	}
}
