package core

import (
	"sort"

	"github.com/factorscope/factorscope/schema"
)

// sortScores orders risk scores by probability descending; ties fall back to
// machine ID ascending for deterministic output.
func sortScores(scores []schema.RiskScore) {
	sort.Slice(scores, func(i, j int) bool {
		if scores[i].Probability != scores[j].Probability {
			return scores[i].Probability > scores[j].Probability
		}
		return scores[i].MachineID < scores[j].MachineID
	})
}

// LimitKPIRows returns at most limit KPI rows.
func LimitKPIRows(rows []schema.KPIRow, limit int) []schema.KPIRow {
	if len(rows) > limit {
		return rows[:limit]
	}
	return rows
}

// LimitBuckets returns at most limit downtime buckets. Buckets are already in
// Pareto order, so truncation keeps the largest contributors.
func LimitBuckets(buckets []schema.DowntimeBucket, limit int) []schema.DowntimeBucket {
	if len(buckets) > limit {
		return buckets[:limit]
	}
	return buckets
}

// LimitEnergyRows returns at most limit energy rows.
func LimitEnergyRows(rows []schema.EnergyRow, limit int) []schema.EnergyRow {
	if len(rows) > limit {
		return rows[:limit]
	}
	return rows
}

// LimitFeatureRows returns at most limit feature rows.
func LimitFeatureRows(rows []schema.FeatureRow, limit int) []schema.FeatureRow {
	if len(rows) > limit {
		return rows[:limit]
	}
	return rows
}

// LimitHealthReports returns at most limit health reports. Reports are sorted
// worst first, so truncation keeps the machines needing attention.
func LimitHealthReports(reports []schema.HealthReport, limit int) []schema.HealthReport {
	if len(reports) > limit {
		return reports[:limit]
	}
	return reports
}

// LimitScores returns at most limit risk scores.
func LimitScores(scores []schema.RiskScore, limit int) []schema.RiskScore {
	if len(scores) > limit {
		return scores[:limit]
	}
	return scores
}

// LimitScheduleRows returns at most limit schedule rows. Rows are sorted by
// due time ascending, so truncation keeps the most pressing orders.
func LimitScheduleRows(rows []schema.ScheduleRow, limit int) []schema.ScheduleRow {
	if len(rows) > limit {
		return rows[:limit]
	}
	return rows
}

// LimitEnergyAnomalies returns at most limit anomaly rows.
func LimitEnergyAnomalies(rows []schema.EnergyAnomaly, limit int) []schema.EnergyAnomaly {
	if len(rows) > limit {
		return rows[:limit]
	}
	return rows
}
