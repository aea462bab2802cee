package core

import (
	"time"

	"github.com/factorscope/factorscope/schema"
)

// FeatureOptions configures the feature builder.
type FeatureOptions struct {
	// Window is the trailing duration rolling statistics are computed over.
	Window time.Duration

	// MinRecords is the minimum number of event records that must precede the
	// as-of time; fewer records fail with ErrInsufficientHistory.
	MinRecords int

	// FaultSentinel is the time-since-last-fault reported when no fault
	// precedes the as-of time. It must be a large positive duration so "never
	// failed" stays distinguishable from "just failed".
	FaultSentinel time.Duration
}

// BuildFeatureRow derives one model input row for a machine at asOf.
//
// The no-look-ahead invariant is strict: only records with timestamps at or
// before asOf enter any statistic, so a row built for a past instant is
// identical to the row that would have been built live at that instant.
func BuildFeatureRow(
	machineID string,
	events []schema.EventRecord,
	production []schema.ProductionRecord,
	energy []schema.EnergyRecord,
	asOf time.Time,
	opts FeatureOptions,
) (schema.FeatureRow, error) {
	row := schema.FeatureRow{MachineID: machineID, AsOfTime: asOf}

	var past []schema.EventRecord
	for _, e := range events {
		if e.MachineID == machineID && !e.Timestamp.After(asOf) {
			past = append(past, e)
		}
	}
	if len(past) < opts.MinRecords {
		return row, schema.InsufficientHistoryError(machineID, len(past), opts.MinRecords)
	}

	windowStart := asOf.Add(-opts.Window)

	// Event-derived features: downtime ratio and fault count in the window,
	// cumulative runtime and last-fault recency over the full past.
	var windowTotal, windowDown float64
	var downEvents int
	var runSeconds float64
	var lastFault time.Time
	for _, e := range past {
		if e.State == schema.StateRun {
			runSeconds += e.Duration
		}
		if e.State == schema.StateDown && e.ReasonCode == schema.ReasonBreakdown && e.Timestamp.After(lastFault) {
			lastFault = e.Timestamp
		}
		if e.Timestamp.Before(windowStart) {
			continue
		}
		windowTotal += e.Duration
		if e.State == schema.StateDown {
			windowDown += e.Duration
			downEvents++
		}
	}
	if windowTotal > 0 {
		row.DowntimeRatio = windowDown / windowTotal
	}
	row.DownEvents = float64(downEvents)
	row.RuntimeHours = runSeconds / 3600.0

	if lastFault.IsZero() {
		row.TimeSinceLastFault = opts.FaultSentinel.Hours()
	} else {
		row.TimeSinceLastFault = asOf.Sub(lastFault).Hours()
	}

	// Production-derived features over the window.
	var cycleTimes []float64
	var good, scrap int
	for _, p := range production {
		if p.MachineID != machineID || p.Timestamp.After(asOf) || p.Timestamp.Before(windowStart) {
			continue
		}
		cycleTimes = append(cycleTimes, p.CycleTime)
		good += p.GoodCount
		scrap += p.ScrapCount
	}
	row.AvgCycleTime = mean(cycleTimes)
	row.StdCycleTime = stddev(cycleTimes)
	if total := good + scrap; total > 0 {
		row.ScrapRate = float64(scrap) / float64(total)
	}

	// Energy-derived features over the window.
	var kws []float64
	var kwh float64
	for _, e := range energy {
		if e.MachineID != machineID || e.Timestamp.After(asOf) || e.Timestamp.Before(windowStart) {
			continue
		}
		kws = append(kws, e.PowerKW)
		kwh += e.IntervalKWh
	}
	row.AvgPowerKW = mean(kws)
	row.StdPowerKW = stddev(kws)
	if good > 0 {
		row.KWhPerGood = kwh / float64(good)
	}

	return row, nil
}

// BuildFeatureRows builds one row per machine at asOf. Machines with
// insufficient history are skipped; any other failure aborts.
func BuildFeatureRows(
	machines []schema.Machine,
	events []schema.EventRecord,
	production []schema.ProductionRecord,
	energy []schema.EnergyRecord,
	asOf time.Time,
	opts FeatureOptions,
) ([]schema.FeatureRow, error) {
	rows := make([]schema.FeatureRow, 0, len(machines))
	for _, m := range machines {
		row, err := BuildFeatureRow(m.MachineID, events, production, energy, asOf, opts)
		if err != nil {
			if schema.IsInsufficientHistory(err) {
				continue
			}
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}
