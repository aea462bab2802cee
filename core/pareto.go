package core

import (
	"sort"

	"github.com/factorscope/factorscope/schema"
)

// DowntimePareto aggregates DOWN events into reason buckets in Pareto order:
// total downtime descending, ties broken by reason code ascending so the
// ordering is deterministic. Ranks start at 1 and the cumulative percentage
// column is non-decreasing, ending at 1.0 within floating tolerance.
func DowntimePareto(events []schema.EventRecord) []schema.DowntimeBucket {
	byReason := make(map[string]float64)
	for _, e := range events {
		if e.State != schema.StateDown {
			continue
		}
		byReason[e.ReasonCode] += e.Duration
	}
	if len(byReason) == 0 {
		return nil
	}

	buckets := make([]schema.DowntimeBucket, 0, len(byReason))
	var total float64
	for reason, downtime := range byReason {
		buckets = append(buckets, schema.DowntimeBucket{ReasonCode: reason, Downtime: downtime})
		total += downtime
	}

	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].Downtime != buckets[j].Downtime {
			return buckets[i].Downtime > buckets[j].Downtime
		}
		return buckets[i].ReasonCode < buckets[j].ReasonCode
	})

	var running float64
	for i := range buckets {
		buckets[i].Rank = i + 1
		if total > 0 {
			buckets[i].Pct = buckets[i].Downtime / total
			running += buckets[i].Downtime
			buckets[i].CumPct = running / total
		}
	}
	return buckets
}
