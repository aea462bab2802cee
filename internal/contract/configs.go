package contract

import (
	"fmt"
	"strings"
	"time"

	"github.com/factorscope/factorscope/schema"
)

// Default values for configuration.
const (
	DefaultLookbackDays  = 30
	DefaultResultLimit   = 25
	MaxResultLimit       = 1000
	DefaultPrecision     = 3
	DefaultMinRecords    = 3
	DefaultSpikeFactor   = 1.3
	DefaultAnomalyStd    = 2.0
	DefaultLowThreshold  = 0.3
	DefaultHighThreshold = 0.7
)

// DefaultRollingWindow is the trailing window for feature statistics.
var DefaultRollingWindow = 24 * time.Hour

// DefaultFaultSentinel is the time-since-last-fault value reported when a
// machine has no recorded fault before the as-of time. A large positive
// duration keeps "never failed" distinguishable from "just failed" without
// poisoning the feature scale the model was fit on.
var DefaultFaultSentinel = 30 * 24 * time.Hour

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// Config holds the runtime configuration for the analysis.
// This struct remains the "final, validated" config.
type Config struct {
	DBBackend schema.DatabaseBackend
	DBConnect string

	MachineID string
	Line      string
	StartTime time.Time
	EndTime   time.Time

	ResultLimit int
	Precision   int
	Output      schema.OutputMode
	OutputFile  string
	Detail      bool
	Explain     bool

	ModelPath     string
	RollingWindow time.Duration
	MinRecords    int
	FaultSentinel time.Duration
	Thresholds    schema.BandThresholds
	SpikeFactor   float64
	AnomalyStd    float64

	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // Please use env var as this is plaintext

	UseColors bool // Enable colored band labels in table output
	Width     int  // Terminal width override (0 = auto-detect)
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// --- Fields from rootCmd.PersistentFlags() ---
	DBBackend      string `mapstructure:"db-backend"`
	DBConnect      string `mapstructure:"db-connect"`
	Machine        string `mapstructure:"machine"`
	Line           string `mapstructure:"line"`
	Start          string `mapstructure:"start"`
	End            string `mapstructure:"end"`
	Limit          int    `mapstructure:"limit"`
	Precision      int    `mapstructure:"precision"`
	Output         string `mapstructure:"output"`
	OutputFile     string `mapstructure:"output-file"`
	Detail         bool   `mapstructure:"detail"`
	Explain        bool   `mapstructure:"explain"`
	CacheBackend   string `mapstructure:"cache-backend"`
	CacheDBConnect string `mapstructure:"cache-db-connect"`
	Color          string `mapstructure:"color"`
	Width          int    `mapstructure:"width"`

	// --- Fields from risk/features flags and config file ---
	ModelPath     string `mapstructure:"model-path"`
	Window        string `mapstructure:"window"`
	MinRecords    int    `mapstructure:"min-records"`
	FaultSentinel string `mapstructure:"fault-sentinel"`
	SpikeFactor   float64 `mapstructure:"spike-factor"`
	AnomalyStd    float64 `mapstructure:"anomaly-std"`

	// --- Risk band thresholds from config file ---
	Bands BandsRawInput `mapstructure:"bands"`
}

// BandsRawInput holds risk band threshold definitions from the YAML config file.
type BandsRawInput struct {
	Low  *float64 `mapstructure:"low"`
	High *float64 `mapstructure:"high"`
}

// ProfileConfig holds profiling configuration.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// ProcessProfilingConfig enables profiling when a file prefix is set.
func ProcessProfilingConfig(profile *ProfileConfig, prefix string) error {
	profile.Prefix = strings.TrimSpace(prefix)
	profile.Enabled = profile.Prefix != ""
	return nil
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// ProcessAndValidate performs all complex parsing and validation on the raw
// inputs and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processTimeRange(cfg, input); err != nil {
		return err
	}
	if err := processFeatureOptions(cfg, input); err != nil {
		return err
	}
	if err := processBandThresholds(cfg, input); err != nil {
		return err
	}
	return nil
}

// validateSimpleInputs checks scalar options and copies them into cfg.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	backend := schema.DatabaseBackend(strings.ToLower(input.DBBackend))
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok || backend == schema.NoneBackend {
		return fmt.Errorf("invalid db-backend %q: must be sqlite, mysql or postgresql", input.DBBackend)
	}
	cfg.DBBackend = backend
	cfg.DBConnect = input.DBConnect
	if err := ValidateDatabaseConnectionString(backend, input.DBConnect); err != nil {
		return err
	}

	cacheBackend := schema.DatabaseBackend(strings.ToLower(input.CacheBackend))
	if _, ok := schema.ValidDatabaseBackends[cacheBackend]; !ok {
		return fmt.Errorf("invalid cache-backend %q: must be sqlite, mysql, postgresql or none", input.CacheBackend)
	}
	cfg.CacheBackend = cacheBackend
	cfg.CacheDBConnect = input.CacheDBConnect

	output := schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[output]; !ok {
		return fmt.Errorf("invalid output %q: must be text, csv, json or parquet", input.Output)
	}
	cfg.Output = output
	cfg.OutputFile = input.OutputFile

	if input.Limit <= 0 || input.Limit > MaxResultLimit {
		return fmt.Errorf("limit must be between 1 and %d", MaxResultLimit)
	}
	cfg.ResultLimit = input.Limit

	cfg.Precision = input.Precision
	if cfg.Precision < 1 {
		cfg.Precision = 1
	}
	if cfg.Precision > 6 {
		cfg.Precision = 6
	}

	cfg.MachineID = input.Machine
	cfg.Line = input.Line
	cfg.Detail = input.Detail
	cfg.Explain = input.Explain
	cfg.ModelPath = input.ModelPath
	cfg.Width = input.Width
	cfg.UseColors = parseBoolish(input.Color, true)
	return nil
}

// processTimeRange parses the start/end options into the analysis window.
func processTimeRange(cfg *Config, input *ConfigRawInput) error {
	cfg.EndTime = time.Now().UTC()
	if input.End != "" {
		t, err := time.Parse(DateTimeFormat, input.End)
		if err != nil {
			return fmt.Errorf("invalid end date %q: %w", input.End, err)
		}
		cfg.EndTime = t
	}

	cfg.StartTime = cfg.EndTime.AddDate(0, 0, -DefaultLookbackDays)
	if input.Start != "" {
		t, err := time.Parse(DateTimeFormat, input.Start)
		if err != nil {
			return fmt.Errorf("invalid start date %q: %w", input.Start, err)
		}
		cfg.StartTime = t
	}

	if !cfg.StartTime.Before(cfg.EndTime) {
		return fmt.Errorf("start time %s must be before end time %s",
			cfg.StartTime.Format(DateTimeFormat), cfg.EndTime.Format(DateTimeFormat))
	}
	return nil
}

// processFeatureOptions parses rolling-window and history options.
func processFeatureOptions(cfg *Config, input *ConfigRawInput) error {
	cfg.RollingWindow = DefaultRollingWindow
	if input.Window != "" {
		d, err := time.ParseDuration(input.Window)
		if err != nil || d <= 0 {
			return fmt.Errorf("invalid window %q: must be a positive Go duration like 24h", input.Window)
		}
		cfg.RollingWindow = d
	}

	cfg.MinRecords = input.MinRecords
	if cfg.MinRecords <= 0 {
		cfg.MinRecords = DefaultMinRecords
	}

	cfg.FaultSentinel = DefaultFaultSentinel
	if input.FaultSentinel != "" {
		d, err := time.ParseDuration(input.FaultSentinel)
		if err != nil || d <= 0 {
			return fmt.Errorf("invalid fault-sentinel %q: must be a positive Go duration like 720h", input.FaultSentinel)
		}
		cfg.FaultSentinel = d
	}

	cfg.SpikeFactor = input.SpikeFactor
	if cfg.SpikeFactor <= 1.0 {
		cfg.SpikeFactor = DefaultSpikeFactor
	}

	cfg.AnomalyStd = input.AnomalyStd
	if cfg.AnomalyStd <= 0 {
		cfg.AnomalyStd = DefaultAnomalyStd
	}
	return nil
}

// processBandThresholds merges configured band thresholds over the defaults.
func processBandThresholds(cfg *Config, input *ConfigRawInput) error {
	cfg.Thresholds = schema.BandThresholds{Low: DefaultLowThreshold, High: DefaultHighThreshold}
	if input.Bands.Low != nil {
		cfg.Thresholds.Low = *input.Bands.Low
	}
	if input.Bands.High != nil {
		cfg.Thresholds.High = *input.Bands.High
	}
	if !cfg.Thresholds.Valid() {
		return fmt.Errorf("invalid band thresholds low=%.3f high=%.3f: need 0 <= low < high <= 1",
			cfg.Thresholds.Low, cfg.Thresholds.High)
	}
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection
// strings for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("invalid MySQL connection string; expected format user:password@tcp(host:port)/dbname")
		}
		return nil
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "=") && !strings.HasPrefix(connStr, "postgres://") {
			return fmt.Errorf("invalid PostgreSQL connection string; expected DSN or postgres:// URL")
		}
		return nil
	default:
		return fmt.Errorf("unsupported database backend: %s", backend)
	}
}

// parseBoolish interprets yes/no style flag values with a default.
func parseBoolish(value string, fallback bool) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "yes", "true", "1", "on":
		return true
	case "no", "false", "0", "off":
		return false
	default:
		return fallback
	}
}
