package core

import (
	"sort"

	"github.com/factorscope/factorscope/schema"
)

// DailyEnergy derives per-machine daily energy KPIs from meter readings and
// production counts. kWh-per-good-unit rows with no good units carry a
// flagged zero, never NaN. Days whose peak demand exceeds spikeFactor times
// the machine's trailing average peak are marked as spike alerts.
func DailyEnergy(energy []schema.EnergyRecord, production []schema.ProductionRecord, spikeFactor float64) []schema.EnergyRow {
	type energyAgg struct {
		kwh, peak, kwSum float64
		obs              int
	}
	byDay := make(map[dayKey]*energyAgg)
	for _, e := range energy {
		k := dayKey{e.MachineID, schema.DateOf(e.Timestamp)}
		agg := byDay[k]
		if agg == nil {
			agg = &energyAgg{}
			byDay[k] = agg
		}
		agg.kwh += e.IntervalKWh
		agg.kwSum += e.PowerKW
		agg.obs++
		if e.PowerKW > agg.peak {
			agg.peak = e.PowerKW
		}
	}
	if len(byDay) == 0 {
		return nil
	}

	goodByDay := make(map[dayKey]int)
	for _, p := range production {
		goodByDay[dayKey{p.MachineID, schema.DateOf(p.Timestamp)}] += p.GoodCount
	}

	rows := make([]schema.EnergyRow, 0, len(byDay))
	for k, agg := range byDay {
		row := schema.EnergyRow{
			MachineID: k.machineID,
			Date:      k.date,
			KWh:       agg.kwh,
			PeakKW:    agg.peak,
			AvgKW:     agg.kwSum / float64(agg.obs),
			GoodCount: goodByDay[k],
		}
		if row.GoodCount > 0 {
			row.KWhPerGood = row.KWh / float64(row.GoodCount)
		} else {
			row.KWhPerGoodFlagged = true
		}
		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].MachineID != rows[j].MachineID {
			return rows[i].MachineID < rows[j].MachineID
		}
		return rows[i].Date.Before(rows[j].Date)
	})

	markSpikes(rows, spikeFactor)
	return rows
}

// markSpikes flags days whose peak exceeds the trailing average peak of the
// same machine's earlier days by the configured factor. The first day of a
// machine has no baseline and is never flagged.
func markSpikes(rows []schema.EnergyRow, spikeFactor float64) {
	if spikeFactor <= 0 {
		return
	}
	var machine string
	var peakSum float64
	var peakObs int
	for i := range rows {
		if rows[i].MachineID != machine {
			machine = rows[i].MachineID
			peakSum, peakObs = 0, 0
		}
		if peakObs > 0 && rows[i].PeakKW > spikeFactor*(peakSum/float64(peakObs)) {
			rows[i].SpikeAlert = true
		}
		peakSum += rows[i].PeakKW
		peakObs++
	}
}
