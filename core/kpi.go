package core

import (
	"sort"
	"time"

	"github.com/factorscope/factorscope/schema"
)

// dayKey groups records into per-machine production days.
type dayKey struct {
	machineID string
	date      time.Time
}

// ComputeOEE derives one KPI row per (machine, date) from production counts
// and state events. Availability, performance, quality and OEE are all in
// [0,1] and OEE is exactly the product of the other three.
//
// A zero quality denominator (no units at all) substitutes quality = 1.0 and
// sets QualityFlagged so downstream consumers never see a NaN and never
// mistake the sentinel for a measurement. The same policy applies whether the
// empty denominator comes from a single record or a whole date range.
func ComputeOEE(production []schema.ProductionRecord, events []schema.EventRecord) []schema.KPIRow {
	type prodAgg struct {
		good, scrap    int
		idealCycleSum  float64
		idealCycleObs  int
	}
	prodByDay := make(map[dayKey]*prodAgg)
	for _, p := range production {
		k := dayKey{p.MachineID, schema.DateOf(p.Timestamp)}
		agg := prodByDay[k]
		if agg == nil {
			agg = &prodAgg{}
			prodByDay[k] = agg
		}
		agg.good += p.GoodCount
		agg.scrap += p.ScrapCount
		agg.idealCycleSum += p.IdealCycleTime
		agg.idealCycleObs++
	}

	type timeAgg struct {
		planned, run float64
	}
	timeByDay := make(map[dayKey]*timeAgg)
	for _, e := range events {
		k := dayKey{e.MachineID, schema.DateOf(e.Timestamp)}
		agg := timeByDay[k]
		if agg == nil {
			agg = &timeAgg{}
			timeByDay[k] = agg
		}
		agg.planned += e.Duration
		if e.State == schema.StateRun {
			agg.run += e.Duration
		}
	}

	rows := make([]schema.KPIRow, 0, len(prodByDay))
	for k, p := range prodByDay {
		row := schema.KPIRow{
			MachineID:  k.machineID,
			Date:       k.date,
			GoodCount:  p.good,
			ScrapCount: p.scrap,
			TotalCount: p.good + p.scrap,
		}
		if t := timeByDay[k]; t != nil {
			row.PlannedTime = t.planned
			row.RunTime = t.run
		}

		if row.PlannedTime > 0 {
			row.Availability = clamp01(row.RunTime / row.PlannedTime)
		}

		idealCycle := 0.0
		if p.idealCycleObs > 0 {
			idealCycle = p.idealCycleSum / float64(p.idealCycleObs)
		}
		if row.RunTime > 0 {
			row.Performance = clamp01(idealCycle * float64(row.TotalCount) / row.RunTime)
		}

		if row.TotalCount > 0 {
			row.Quality = float64(row.GoodCount) / float64(row.TotalCount)
		} else {
			// Zero denominator: documented sentinel, flagged, never NaN.
			row.Quality = 1.0
			row.QualityFlagged = true
		}

		row.OEE = row.Availability * row.Performance * row.Quality
		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].MachineID != rows[j].MachineID {
			return rows[i].MachineID < rows[j].MachineID
		}
		return rows[i].Date.Before(rows[j].Date)
	})
	return rows
}
