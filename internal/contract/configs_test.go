package contract

import (
	"testing"
	"time"

	"github.com/factorscope/factorscope/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validInput() *ConfigRawInput {
	return &ConfigRawInput{
		DBBackend:    "sqlite",
		CacheBackend: "none",
		Output:       "text",
		Limit:        25,
		Precision:    3,
		SpikeFactor:  1.3,
	}
}

// TestProcessAndValidateDefaults tests the fully defaulted happy path.
func TestProcessAndValidateDefaults(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, validInput()))

	assert.Equal(t, schema.SQLiteBackend, cfg.DBBackend)
	assert.Equal(t, schema.NoneBackend, cfg.CacheBackend)
	assert.Equal(t, schema.TextOut, cfg.Output)
	assert.Equal(t, 25, cfg.ResultLimit)
	assert.Equal(t, 3, cfg.Precision)
	assert.Equal(t, DefaultRollingWindow, cfg.RollingWindow)
	assert.Equal(t, DefaultMinRecords, cfg.MinRecords)
	assert.Equal(t, DefaultFaultSentinel, cfg.FaultSentinel)
	assert.Equal(t, DefaultSpikeFactor, cfg.SpikeFactor)
	assert.Equal(t, schema.BandThresholds{Low: DefaultLowThreshold, High: DefaultHighThreshold}, cfg.Thresholds)
	assert.True(t, cfg.UseColors)

	// Default window is the trailing lookback ending now
	assert.WithinDuration(t, time.Now().UTC(), cfg.EndTime, time.Minute)
	assert.WithinDuration(t, cfg.EndTime.AddDate(0, 0, -DefaultLookbackDays), cfg.StartTime, time.Second)
}

// TestProcessAndValidateTimeRange tests explicit start/end parsing.
func TestProcessAndValidateTimeRange(t *testing.T) {
	input := validInput()
	input.Start = "2026-01-01T00:00:00Z"
	input.End = "2026-02-01T00:00:00Z"

	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, input))
	assert.Equal(t, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), cfg.StartTime)
	assert.Equal(t, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), cfg.EndTime)

	input.Start = "2026-03-01T00:00:00Z" // after end
	assert.Error(t, ProcessAndValidate(&Config{}, input))

	input.Start = "not-a-date"
	assert.Error(t, ProcessAndValidate(&Config{}, input))
}

// TestProcessAndValidateRejections tests invalid scalar inputs.
func TestProcessAndValidateRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ConfigRawInput)
	}{
		{name: "bad backend", mutate: func(i *ConfigRawInput) { i.DBBackend = "oracle" }},
		{name: "none data backend", mutate: func(i *ConfigRawInput) { i.DBBackend = "none" }},
		{name: "bad cache backend", mutate: func(i *ConfigRawInput) { i.CacheBackend = "redis" }},
		{name: "bad output", mutate: func(i *ConfigRawInput) { i.Output = "xml" }},
		{name: "zero limit", mutate: func(i *ConfigRawInput) { i.Limit = 0 }},
		{name: "huge limit", mutate: func(i *ConfigRawInput) { i.Limit = MaxResultLimit + 1 }},
		{name: "bad window", mutate: func(i *ConfigRawInput) { i.Window = "yesterday" }},
		{name: "negative window", mutate: func(i *ConfigRawInput) { i.Window = "-24h" }},
		{name: "bad fault sentinel", mutate: func(i *ConfigRawInput) { i.FaultSentinel = "soon" }},
		{name: "mysql without connect", mutate: func(i *ConfigRawInput) { i.DBBackend = "mysql" }},
		{name: "mysql bad dsn", mutate: func(i *ConfigRawInput) { i.DBBackend = "mysql"; i.DBConnect = "localhost" }},
		{name: "postgres without connect", mutate: func(i *ConfigRawInput) { i.DBBackend = "postgresql" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput()
			tt.mutate(input)
			assert.Error(t, ProcessAndValidate(&Config{}, input))
		})
	}
}

// TestProcessAndValidatePrecisionClamp tests precision bounds.
func TestProcessAndValidatePrecisionClamp(t *testing.T) {
	input := validInput()
	input.Precision = 0
	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, input))
	assert.Equal(t, 1, cfg.Precision)

	input.Precision = 12
	require.NoError(t, ProcessAndValidate(cfg, input))
	assert.Equal(t, 6, cfg.Precision)
}

// TestProcessAndValidateBands tests band threshold merging over defaults.
func TestProcessAndValidateBands(t *testing.T) {
	low, high := 0.2, 0.8
	input := validInput()
	input.Bands = BandsRawInput{Low: &low, High: &high}

	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, input))
	assert.Equal(t, schema.BandThresholds{Low: 0.2, High: 0.8}, cfg.Thresholds)

	bad := 0.9
	input.Bands = BandsRawInput{Low: &bad} // low above default high
	assert.Error(t, ProcessAndValidate(&Config{}, input))
}

// TestValidateDatabaseConnectionString tests DSN shape checks per backend.
func TestValidateDatabaseConnectionString(t *testing.T) {
	assert.NoError(t, ValidateDatabaseConnectionString(schema.SQLiteBackend, ""))
	assert.NoError(t, ValidateDatabaseConnectionString(schema.NoneBackend, ""))
	assert.NoError(t, ValidateDatabaseConnectionString(schema.MySQLBackend, "user:pw@tcp(localhost:3306)/factory"))
	assert.NoError(t, ValidateDatabaseConnectionString(schema.PostgreSQLBackend, "host=localhost dbname=factory"))
	assert.NoError(t, ValidateDatabaseConnectionString(schema.PostgreSQLBackend, "postgres://localhost/factory"))

	assert.Error(t, ValidateDatabaseConnectionString(schema.MySQLBackend, ""))
	assert.Error(t, ValidateDatabaseConnectionString(schema.MySQLBackend, "localhost"))
	assert.Error(t, ValidateDatabaseConnectionString(schema.PostgreSQLBackend, "localhost"))
	assert.Error(t, ValidateDatabaseConnectionString("oracle", "x"))
}

// TestParseBoolish tests yes/no style parsing with fallback.
func TestParseBoolish(t *testing.T) {
	assert.True(t, parseBoolish("yes", false))
	assert.True(t, parseBoolish("TRUE", false))
	assert.True(t, parseBoolish("1", false))
	assert.False(t, parseBoolish("no", true))
	assert.False(t, parseBoolish("off", true))
	assert.True(t, parseBoolish("", true))
	assert.False(t, parseBoolish("maybe", false))
}

// TestConfigClone tests deep copy independence for scalar fields.
func TestConfigClone(t *testing.T) {
	cfg := &Config{MachineID: "M1", ResultLimit: 5}
	clone := cfg.Clone()
	clone.MachineID = "M2"
	assert.Equal(t, "M1", cfg.MachineID)
	assert.Equal(t, 5, clone.ResultLimit)
}

// TestProcessProfilingConfig tests prefix-driven enablement.
func TestProcessProfilingConfig(t *testing.T) {
	var profile ProfileConfig
	require.NoError(t, ProcessProfilingConfig(&profile, "  /tmp/prof  "))
	assert.True(t, profile.Enabled)
	assert.Equal(t, "/tmp/prof", profile.Prefix)

	require.NoError(t, ProcessProfilingConfig(&profile, ""))
	assert.False(t, profile.Enabled)
}
