// Package outwriter has output and writer logic.
package outwriter

import (
	"time"

	"github.com/factorscope/factorscope/internal/contract"
	"github.com/factorscope/factorscope/schema"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteKPI prints daily OEE rows using the configured output format.
func (ow *OutWriter) WriteKPI(rows []schema.KPIRow, cfg *contract.Config, duration time.Duration) error {
	return PrintKPIRows(rows, cfg, duration)
}

// WritePareto prints downtime Pareto buckets using the configured output format.
func (ow *OutWriter) WritePareto(buckets []schema.DowntimeBucket, cfg *contract.Config, duration time.Duration) error {
	return PrintParetoBuckets(buckets, cfg, duration)
}

// WriteEnergy prints daily energy rows using the configured output format.
func (ow *OutWriter) WriteEnergy(rows []schema.EnergyRow, cfg *contract.Config, duration time.Duration) error {
	return PrintEnergyRows(rows, cfg, duration)
}

// WriteFeatures prints model input rows using the configured output format.
func (ow *OutWriter) WriteFeatures(rows []schema.FeatureRow, cfg *contract.Config, duration time.Duration) error {
	return PrintFeatureRows(rows, cfg, duration)
}

// WriteRisk prints machine risk scores using the configured output format.
func (ow *OutWriter) WriteRisk(scores []schema.RiskScore, cfg *contract.Config, duration time.Duration) error {
	return PrintRiskScores(scores, cfg, duration)
}

// WriteHealth prints machine health reports using the configured output format.
func (ow *OutWriter) WriteHealth(reports []schema.HealthReport, cfg *contract.Config, duration time.Duration) error {
	return PrintHealthReports(reports, cfg, duration)
}

// WriteSchedule prints order schedule-risk rows using the configured output format.
func (ow *OutWriter) WriteSchedule(rows []schema.ScheduleRow, cfg *contract.Config, duration time.Duration) error {
	return PrintScheduleRows(rows, cfg, duration)
}

// WriteAnomalies prints fleet energy anomaly rows using the configured output format.
func (ow *OutWriter) WriteAnomalies(rows []schema.EnergyAnomaly, cfg *contract.Config, duration time.Duration) error {
	return PrintEnergyAnomalies(rows, cfg, duration)
}
