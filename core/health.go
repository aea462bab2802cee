package core

import (
	"sort"

	"github.com/factorscope/factorscope/schema"
)

// Health score component weights, chosen to sum to 100.
const (
	healthOEEWeight       = 40.0
	healthUptimeWeight    = 30.0
	healthQualityWeight   = 20.0
	healthStabilityWeight = 10.0
)

// Health bands on the 0-100 score.
const (
	healthLowRiskFloor    = 80.0
	healthMediumRiskFloor = 60.0
)

// Sustainability score component weights, summing to 1.
const (
	sustainOEEWeight    = 0.4
	sustainEnergyWeight = 0.3
	sustainScrapWeight  = 0.3
)

// ComputeHealth condenses a machine's KPI and energy history into a 0-100
// health score with per-component contributions. Machines without KPI rows
// are omitted: a score computed from nothing would be a misleadingly precise
// number.
func ComputeHealth(kpis []schema.KPIRow, energyRows []schema.EnergyRow) []schema.HealthReport {
	type kpiAcc struct {
		oee, avail, quality float64
		good, scrap         int
		n                   int
	}
	kpiByMachine := make(map[string]*kpiAcc)
	for _, row := range kpis {
		acc := kpiByMachine[row.MachineID]
		if acc == nil {
			acc = &kpiAcc{}
			kpiByMachine[row.MachineID] = acc
		}
		acc.oee += row.OEE
		acc.avail += row.Availability
		acc.quality += row.Quality
		acc.good += row.GoodCount
		acc.scrap += row.ScrapCount
		acc.n++
	}

	peaksByMachine := make(map[string][]float64)
	for _, row := range energyRows {
		peaksByMachine[row.MachineID] = append(peaksByMachine[row.MachineID], row.PeakKW)
	}

	reports := make([]schema.HealthReport, 0, len(kpiByMachine))
	for machineID, acc := range kpiByMachine {
		n := float64(acc.n)
		oee := acc.oee / n
		avail := acc.avail / n
		quality := acc.quality / n
		stability := energyStability(peaksByMachine[machineID])

		breakdown := map[string]float64{
			"oee":              oee * healthOEEWeight,
			"availability":     avail * healthUptimeWeight,
			"quality":          quality * healthQualityWeight,
			"energy_stability": stability * healthStabilityWeight,
		}
		var score float64
		for _, v := range breakdown {
			score += v
		}

		reports = append(reports, schema.HealthReport{
			MachineID:      machineID,
			HealthScore:    score,
			Band:           healthBand(score),
			Breakdown:      breakdown,
			Sustainability: sustainabilityScore(oee, stability, acc.good, acc.scrap),
		})
	}

	sort.Slice(reports, func(i, j int) bool {
		if reports[i].HealthScore != reports[j].HealthScore {
			return reports[i].HealthScore < reports[j].HealthScore
		}
		return reports[i].MachineID < reports[j].MachineID
	})
	return reports
}

// energyStability maps the coefficient of variation of daily peak demand to
// [0,1]: steady consumption scores 1, erratic consumption decays toward 0.
func energyStability(peaks []float64) float64 {
	m := mean(peaks)
	if m == 0 {
		return 1
	}
	cv := stddev(peaks) / m
	return clamp01(1 - cv)
}

// sustainabilityScore combines OEE, energy stability and scrap performance
// into a 0-100 composite. A machine with no counted units scores its scrap
// component as perfect rather than undefined.
func sustainabilityScore(oee, stability float64, good, scrap int) float64 {
	scrapRate := 0.0
	if total := good + scrap; total > 0 {
		scrapRate = float64(scrap) / float64(total)
	}
	score := oee*sustainOEEWeight + stability*sustainEnergyWeight + (1-scrapRate)*sustainScrapWeight
	return clamp01(score) * 100
}

// healthBand maps a health score to a risk band: healthier machines carry
// lower risk, so the mapping runs inverse to the score.
func healthBand(score float64) schema.RiskBand {
	switch {
	case score >= healthLowRiskFloor:
		return schema.LowBand
	case score >= healthMediumRiskFloor:
		return schema.MediumBand
	default:
		return schema.HighBand
	}
}
