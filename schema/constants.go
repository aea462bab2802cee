package schema

// Custom string types for type safety.
type (
	// MachineState represents the operational state reported in an event record.
	MachineState string

	// OutputMode represents the format of the output.
	OutputMode string

	// RiskBand represents the discretized failure-probability category.
	RiskBand string

	// DatabaseBackend represents the database backend for storage and caching.
	DatabaseBackend string

	// FeatureName represents a named model input feature.
	FeatureName string

	// StepStatus represents the progress of one production order step.
	StepStatus string

	// OrderStatus represents the rolled-up progress of a whole order.
	OrderStatus string
)

// All machine states reported by the shop floor.
const (
	StateRun   MachineState = "RUN"
	StateDown  MachineState = "DOWN"
	StateIdle  MachineState = "IDLE"
	StateSetup MachineState = "SETUP"
)

// ReasonBreakdown is the downtime reason code for unplanned machine failures.
// It drives the time-since-last-fault feature.
const ReasonBreakdown = "BREAKDOWN"

// All order step statuses reported by the planning system.
const (
	StepNotStarted StepStatus = "NOT_STARTED"
	StepInProgress StepStatus = "IN_PROGRESS"
	StepCompleted  StepStatus = "COMPLETED"
)

// Rolled-up order statuses. An order with no steps reports OrderUnknown.
const (
	OrderNotStarted OrderStatus = "NOT_STARTED"
	OrderInProgress OrderStatus = "IN_PROGRESS"
	OrderCompleted  OrderStatus = "COMPLETED"
	OrderUnknown    OrderStatus = "UNKNOWN"
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All risk bands, from least to most urgent.
const (
	LowBand    RiskBand = "low"
	MediumBand RiskBand = "medium"
	HighBand   RiskBand = "high"
)

// All database backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// Model feature names. The order of AllFeatureNames is the canonical vector
// order for parquet export and table columns; scoring itself is name-keyed.
const (
	FeatureAvgCycleTime       FeatureName = "avg_cycle_time_s"
	FeatureStdCycleTime       FeatureName = "std_cycle_time_s"
	FeatureScrapRate          FeatureName = "scrap_rate"
	FeatureDowntimeRatio      FeatureName = "downtime_ratio"
	FeatureDownEvents         FeatureName = "down_events"
	FeatureAvgPowerKW         FeatureName = "avg_kw"
	FeatureStdPowerKW         FeatureName = "std_kw"
	FeatureKWhPerGood         FeatureName = "kwh_per_good"
	FeatureTimeSinceLastFault FeatureName = "hours_since_last_fault"
	FeatureRuntimeHours       FeatureName = "runtime_hours"
)

// AllFeatureNames lists every feature the builder produces, in canonical order.
var AllFeatureNames = []FeatureName{
	FeatureAvgCycleTime,
	FeatureStdCycleTime,
	FeatureScrapRate,
	FeatureDowntimeRatio,
	FeatureDownEvents,
	FeatureAvgPowerKW,
	FeatureStdPowerKW,
	FeatureKWhPerGood,
	FeatureTimeSinceLastFault,
	FeatureRuntimeHours,
}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid database backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidMachineStates lists all machine states the loaders accept.
var ValidMachineStates = map[MachineState]struct{}{
	StateRun:   {},
	StateDown:  {},
	StateIdle:  {},
	StateSetup: {},
}

// ValidStepStatuses lists all order step statuses the loaders accept.
var ValidStepStatuses = map[StepStatus]struct{}{
	StepNotStarted: {},
	StepInProgress: {},
	StepCompleted:  {},
}
