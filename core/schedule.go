package core

import (
	"sort"
	"time"

	"github.com/factorscope/factorscope/schema"
)

// overdueSevereDays is how many days past due an order can sit before its
// schedule risk escalates from medium to high.
const overdueSevereDays = 1.0

// ComputeSchedule rolls routing steps up to per-order status and flags orders
// past their due time. Order status follows the steps: all completed means
// completed, any in progress means in progress, otherwise not started. An
// order with no routing steps reports unknown and still carries due risk.
// Rows come back sorted by due time ascending, so the most pressing orders
// rank first.
func ComputeSchedule(orders []schema.OrderRecord, steps []schema.OrderStepRecord, now time.Time) []schema.ScheduleRow {
	stepsByOrder := make(map[string][]schema.OrderStepRecord, len(orders))
	for _, s := range steps {
		stepsByOrder[s.OrderID] = append(stepsByOrder[s.OrderID], s)
	}

	rows := make([]schema.ScheduleRow, 0, len(orders))
	for _, o := range orders {
		status := rollupStatus(stepsByOrder[o.OrderID])

		row := schema.ScheduleRow{
			OrderID:    o.OrderID,
			SKU:        o.SKU,
			PlannedQty: o.PlannedQty,
			Priority:   o.Priority,
			StartTime:  o.StartTime,
			DueTime:    o.DueTime,
			Status:     status,
			Severity:   schema.LowBand,
		}

		if o.DueTime.Before(now) && status != schema.OrderCompleted {
			row.DueRisk = true
			row.DaysOverdue = now.Sub(o.DueTime).Hours() / 24
			if row.DaysOverdue > overdueSevereDays {
				row.Severity = schema.HighBand
			} else {
				row.Severity = schema.MediumBand
			}
		}
		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		if !rows[i].DueTime.Equal(rows[j].DueTime) {
			return rows[i].DueTime.Before(rows[j].DueTime)
		}
		return rows[i].OrderID < rows[j].OrderID
	})
	return rows
}

// rollupStatus derives the order-level status from its steps.
func rollupStatus(steps []schema.OrderStepRecord) schema.OrderStatus {
	if len(steps) == 0 {
		return schema.OrderUnknown
	}

	completed := 0
	inProgress := false
	for _, s := range steps {
		switch s.Status {
		case schema.StepCompleted:
			completed++
		case schema.StepInProgress:
			inProgress = true
		}
	}

	switch {
	case completed == len(steps):
		return schema.OrderCompleted
	case inProgress:
		return schema.OrderInProgress
	default:
		return schema.OrderNotStarted
	}
}
