// Package parquet provides data structures and functions for exporting
// analysis results to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/factorscope/factorscope/schema"
	"github.com/parquet-go/parquet-go"
)

// KPIRecord is the Parquet projection of one daily OEE row.
type KPIRecord struct {
	MachineID string    `parquet:"machine_id,snappy"`
	Date      time.Time `parquet:"date,snappy"`

	Availability float64 `parquet:"availability,snappy"`
	Performance  float64 `parquet:"performance,snappy"`
	Quality      float64 `parquet:"quality,snappy"`
	OEE          float64 `parquet:"oee,snappy"`

	PlannedTimeS float64 `parquet:"planned_time_s,snappy"`
	RunTimeS     float64 `parquet:"run_time_s,snappy"`
	TotalCount   int32   `parquet:"total_count,snappy"`
	GoodCount    int32   `parquet:"good_count,snappy"`
	ScrapCount   int32   `parquet:"scrap_count,snappy"`

	// QualityFlagged marks sentinel quality values, so downstream notebooks
	// can exclude them from aggregates.
	QualityFlagged bool `parquet:"quality_flagged,snappy"`
}

// EnergyRecord is the Parquet projection of one daily energy row.
type EnergyRecord struct {
	MachineID string    `parquet:"machine_id,snappy"`
	Date      time.Time `parquet:"date,snappy"`

	KWh    float64 `parquet:"kwh,snappy"`
	PeakKW float64 `parquet:"peak_kw,snappy"`
	AvgKW  float64 `parquet:"avg_kw,snappy"`

	KWhPerGood        float64 `parquet:"kwh_per_good,snappy"`
	KWhPerGoodFlagged bool    `parquet:"kwh_per_good_flagged,snappy"`
	GoodCount         int32   `parquet:"good_count,snappy"`
	SpikeAlert        bool    `parquet:"spike_alert,snappy"`
}

// FeatureRecord is the Parquet projection of one model input row. Column
// names match the canonical feature names the model is fit on.
type FeatureRecord struct {
	MachineID string    `parquet:"machine_id,snappy"`
	AsOfTime  time.Time `parquet:"as_of_time,snappy"`

	AvgCycleTimeS       float64 `parquet:"avg_cycle_time_s,snappy"`
	StdCycleTimeS       float64 `parquet:"std_cycle_time_s,snappy"`
	ScrapRate           float64 `parquet:"scrap_rate,snappy"`
	DowntimeRatio       float64 `parquet:"downtime_ratio,snappy"`
	DownEvents          float64 `parquet:"down_events,snappy"`
	AvgKW               float64 `parquet:"avg_kw,snappy"`
	StdKW               float64 `parquet:"std_kw,snappy"`
	KWhPerGood          float64 `parquet:"kwh_per_good,snappy"`
	HoursSinceLastFault float64 `parquet:"hours_since_last_fault,snappy"`
	RuntimeHours        float64 `parquet:"runtime_hours,snappy"`
}

// RiskRecord is the Parquet projection of one scored machine.
type RiskRecord struct {
	MachineID    string    `parquet:"machine_id,snappy"`
	AsOfTime     time.Time `parquet:"as_of_time,snappy"`
	Probability  float64   `parquet:"probability,snappy"`
	Band         string    `parquet:"band,snappy"`
	ModelVersion string    `parquet:"model_version,snappy"`
}

// ConvertKPIRows converts KPI rows to their Parquet representation.
func ConvertKPIRows(rows []schema.KPIRow) []KPIRecord {
	records := make([]KPIRecord, len(rows))
	for i, r := range rows {
		records[i] = KPIRecord{
			MachineID:      r.MachineID,
			Date:           r.Date,
			Availability:   r.Availability,
			Performance:    r.Performance,
			Quality:        r.Quality,
			OEE:            r.OEE,
			PlannedTimeS:   r.PlannedTime,
			RunTimeS:       r.RunTime,
			TotalCount:     int32(r.TotalCount),
			GoodCount:      int32(r.GoodCount),
			ScrapCount:     int32(r.ScrapCount),
			QualityFlagged: r.QualityFlagged,
		}
	}
	return records
}

// ConvertEnergyRows converts energy rows to their Parquet representation.
func ConvertEnergyRows(rows []schema.EnergyRow) []EnergyRecord {
	records := make([]EnergyRecord, len(rows))
	for i, r := range rows {
		records[i] = EnergyRecord{
			MachineID:         r.MachineID,
			Date:              r.Date,
			KWh:               r.KWh,
			PeakKW:            r.PeakKW,
			AvgKW:             r.AvgKW,
			KWhPerGood:        r.KWhPerGood,
			KWhPerGoodFlagged: r.KWhPerGoodFlagged,
			GoodCount:         int32(r.GoodCount),
			SpikeAlert:        r.SpikeAlert,
		}
	}
	return records
}

// ConvertFeatureRows converts feature rows to their Parquet representation.
func ConvertFeatureRows(rows []schema.FeatureRow) []FeatureRecord {
	records := make([]FeatureRecord, len(rows))
	for i, r := range rows {
		records[i] = FeatureRecord{
			MachineID:           r.MachineID,
			AsOfTime:            r.AsOfTime,
			AvgCycleTimeS:       r.AvgCycleTime,
			StdCycleTimeS:       r.StdCycleTime,
			ScrapRate:           r.ScrapRate,
			DowntimeRatio:       r.DowntimeRatio,
			DownEvents:          r.DownEvents,
			AvgKW:               r.AvgPowerKW,
			StdKW:               r.StdPowerKW,
			KWhPerGood:          r.KWhPerGood,
			HoursSinceLastFault: r.TimeSinceLastFault,
			RuntimeHours:        r.RuntimeHours,
		}
	}
	return records
}

// ConvertRiskScores converts risk scores to their Parquet representation.
func ConvertRiskScores(scores []schema.RiskScore) []RiskRecord {
	records := make([]RiskRecord, len(scores))
	for i, s := range scores {
		records[i] = RiskRecord{
			MachineID:    s.MachineID,
			AsOfTime:     s.AsOfTime,
			Probability:  s.Probability,
			Band:         string(s.Band),
			ModelVersion: s.ModelVersion,
		}
	}
	return records
}

// WriteKPIRows writes KPI records to a Parquet file.
func WriteKPIRows(records []KPIRecord, outputPath string) error {
	return writeParquet(records, outputPath)
}

// WriteEnergyRows writes energy records to a Parquet file.
func WriteEnergyRows(records []EnergyRecord, outputPath string) error {
	return writeParquet(records, outputPath)
}

// WriteFeatureRows writes feature records to a Parquet file.
func WriteFeatureRows(records []FeatureRecord, outputPath string) error {
	return writeParquet(records, outputPath)
}

// WriteRiskScores writes risk records to a Parquet file.
func WriteRiskScores(records []RiskRecord, outputPath string) error {
	return writeParquet(records, outputPath)
}

// writeParquet writes records to a Parquet file using struct schema inference.
func writeParquet[T any](records []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)

	if _, err := writer.Write(records); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	// Close flushes the footer; its error matters.
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}
