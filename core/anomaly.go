package core

import (
	"math"
	"sort"

	"github.com/factorscope/factorscope/internal/contract"
	"github.com/factorscope/factorscope/schema"
)

// DetectEnergyAnomalies sums consumption per machine and scores each total
// against the fleet distribution. A machine is anomalous when its z-score
// exceeds the threshold in either direction; a fleet with zero spread flags
// nothing. Results come back sorted by |z| descending, so the most unusual
// machines rank first.
func DetectEnergyAnomalies(energy []schema.EnergyRecord, threshold float64) []schema.EnergyAnomaly {
	if threshold <= 0 {
		threshold = contract.DefaultAnomalyStd
	}

	totals := make(map[string]float64)
	for _, e := range energy {
		totals[e.MachineID] += e.IntervalKWh
	}
	if len(totals) == 0 {
		return nil
	}

	var mean float64
	for _, kwh := range totals {
		mean += kwh
	}
	mean /= float64(len(totals))

	var variance float64
	for _, kwh := range totals {
		variance += (kwh - mean) * (kwh - mean)
	}
	std := math.Sqrt(variance / float64(len(totals)))

	anomalies := make([]schema.EnergyAnomaly, 0, len(totals))
	for machineID, kwh := range totals {
		a := schema.EnergyAnomaly{MachineID: machineID, TotalKWh: kwh}
		if std > 0 {
			a.ZScore = (kwh - mean) / std
			a.Anomaly = math.Abs(a.ZScore) > threshold
		}
		anomalies = append(anomalies, a)
	}

	sort.SliceStable(anomalies, func(i, j int) bool {
		zi, zj := math.Abs(anomalies[i].ZScore), math.Abs(anomalies[j].ZScore)
		if zi != zj {
			return zi > zj
		}
		return anomalies[i].MachineID < anomalies[j].MachineID
	})
	return anomalies
}
