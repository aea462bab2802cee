package schema

import "time"

// KPIRow holds the OEE components for one machine on one date.
// All four ratios are in [0,1] and OEE is always the product of the other
// three, never set independently.
type KPIRow struct {
	MachineID string    `json:"machine_id"`
	Date      time.Time `json:"date"` // Midnight UTC of the production date

	Availability float64 `json:"availability"`
	Performance  float64 `json:"performance"`
	Quality      float64 `json:"quality"`
	OEE          float64 `json:"oee"`

	PlannedTime float64 `json:"planned_time_s"` // Sum of all event durations for the day
	RunTime     float64 `json:"run_time_s"`     // Sum of RUN event durations
	TotalCount  int     `json:"total_count"`
	GoodCount   int     `json:"good_count"`
	ScrapCount  int     `json:"scrap_count"`

	// QualityFlagged marks rows where the quality denominator was zero and the
	// documented sentinel (1.0) was substituted. Downstream consumers must not
	// present flagged quality as a measured value.
	QualityFlagged bool `json:"quality_flagged"`
}

// DowntimeBucket is one downtime-reason aggregate in Pareto order.
// Rank starts at 1 and CumPct is a running sum ending at 1.0.
type DowntimeBucket struct {
	ReasonCode string  `json:"reason_code"`
	Downtime   float64 `json:"downtime_s"` // Total downtime seconds for the reason
	Rank       int     `json:"rank"`
	Pct        float64 `json:"pct"`
	CumPct     float64 `json:"cum_pct"`
}

// EnergyRow holds daily energy KPIs for one machine.
type EnergyRow struct {
	MachineID string    `json:"machine_id"`
	Date      time.Time `json:"date"`

	KWh    float64 `json:"kwh"`
	PeakKW float64 `json:"peak_kw"`
	AvgKW  float64 `json:"avg_kw"`

	// KWhPerGood is energy consumed per good unit produced. When no good units
	// were produced it is 0 with KWhPerGoodFlagged set, never NaN.
	KWhPerGood        float64 `json:"kwh_per_good"`
	KWhPerGoodFlagged bool    `json:"kwh_per_good_flagged"`
	GoodCount         int     `json:"good_count"`

	// SpikeAlert marks days where peak demand exceeded the configured multiple
	// of the machine's trailing average peak.
	SpikeAlert bool `json:"spike_alert"`
}

// FeatureRow is one model input vector for a machine at a given instant.
// Every statistic uses only records with timestamps at or before AsOfTime.
type FeatureRow struct {
	MachineID string    `json:"machine_id"`
	AsOfTime  time.Time `json:"as_of_time"`

	AvgCycleTime  float64 `json:"avg_cycle_time_s"`
	StdCycleTime  float64 `json:"std_cycle_time_s"`
	ScrapRate     float64 `json:"scrap_rate"`
	DowntimeRatio float64 `json:"downtime_ratio"`
	DownEvents    float64 `json:"down_events"`
	AvgPowerKW    float64 `json:"avg_kw"`
	StdPowerKW    float64 `json:"std_kw"`
	KWhPerGood    float64 `json:"kwh_per_good"`

	// TimeSinceLastFault is hours since the most recent BREAKDOWN event at or
	// before AsOfTime. When no prior fault exists it holds the configured
	// sentinel (a large positive value), never zero or a negative number.
	TimeSinceLastFault float64 `json:"hours_since_last_fault"`

	// RuntimeHours is the cumulative RUN time up to AsOfTime, in hours.
	RuntimeHours float64 `json:"runtime_hours"`
}

// Vector returns the feature row as a name-keyed map for model scoring.
func (f *FeatureRow) Vector() map[FeatureName]float64 {
	return map[FeatureName]float64{
		FeatureAvgCycleTime:       f.AvgCycleTime,
		FeatureStdCycleTime:       f.StdCycleTime,
		FeatureScrapRate:          f.ScrapRate,
		FeatureDowntimeRatio:      f.DowntimeRatio,
		FeatureDownEvents:         f.DownEvents,
		FeatureAvgPowerKW:         f.AvgPowerKW,
		FeatureStdPowerKW:         f.StdPowerKW,
		FeatureKWhPerGood:         f.KWhPerGood,
		FeatureTimeSinceLastFault: f.TimeSinceLastFault,
		FeatureRuntimeHours:       f.RuntimeHours,
	}
}

// RiskScore is the scored failure probability for a machine at an instant.
type RiskScore struct {
	MachineID    string    `json:"machine_id"`
	AsOfTime     time.Time `json:"as_of_time"`
	Probability  float64   `json:"probability"` // Always in [0,1]
	Band         RiskBand  `json:"band"`
	ModelVersion string    `json:"model_version"`
}

// HealthReport combines KPI and energy stability into a 0-100 machine health
// score with per-component contributions for explain-style output.
type HealthReport struct {
	MachineID   string             `json:"machine_id"`
	HealthScore float64            `json:"health_score"` // 0-100
	Band        RiskBand           `json:"band"`
	Breakdown   map[string]float64 `json:"breakdown"` // Component contributions summing to HealthScore

	// Sustainability is a 0-100 composite of OEE, energy stability and scrap
	// performance, weighted 40/30/30.
	Sustainability float64 `json:"sustainability_score"`
}

// ScheduleRow is the schedule-risk assessment for one production order.
// DaysOverdue is 0 for orders that are not past due.
type ScheduleRow struct {
	OrderID    string    `json:"order_id"`
	SKU        string    `json:"sku"`
	PlannedQty int       `json:"planned_qty"`
	Priority   int       `json:"priority"`
	StartTime  time.Time `json:"start_ts"`
	DueTime    time.Time `json:"due_ts"`

	Status      OrderStatus `json:"status"`
	DueRisk     bool        `json:"due_risk"` // Past due and not completed
	DaysOverdue float64     `json:"days_overdue"`
	Severity    RiskBand    `json:"severity"`
}

// EnergyAnomaly flags a machine whose total consumption sits unusually far
// from the fleet mean. ZScore is standard deviations from that mean.
type EnergyAnomaly struct {
	MachineID string  `json:"machine_id"`
	TotalKWh  float64 `json:"total_kwh"`
	ZScore    float64 `json:"z_score"`
	Anomaly   bool    `json:"is_anomaly"`
}

// CacheStatus holds status information about a cache store backend.
type CacheStatus struct {
	Backend         DatabaseBackend `json:"backend"`
	Connected       bool            `json:"connected"`
	TotalEntries    int64           `json:"total_entries"`
	LastEntryTime   time.Time       `json:"last_entry_time"`
	OldestEntryTime time.Time       `json:"oldest_entry_time"`
	TableSizeBytes  int64           `json:"table_size_bytes"`

	// EntriesByKind counts cached entries per analysis kind (oee, pareto, ...).
	EntriesByKind map[string]int64 `json:"entries_by_kind,omitempty"`
}
