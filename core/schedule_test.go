package core

import (
	"testing"
	"time"

	"github.com/factorscope/factorscope/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestComputeSchedule tests due-risk flagging and due-date ordering.
func TestComputeSchedule(t *testing.T) {
	now := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	orders := []schema.OrderRecord{
		{OrderID: "O-004", SKU: "WIDGET", DueTime: time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)},
		{OrderID: "O-001", SKU: "WIDGET", DueTime: time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)},
		{OrderID: "O-003", SKU: "GADGET", DueTime: time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC)},
		{OrderID: "O-002", SKU: "GADGET", DueTime: time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC)},
	}
	steps := []schema.OrderStepRecord{
		{OrderID: "O-001", StepNo: 1, Status: schema.StepCompleted},
		{OrderID: "O-001", StepNo: 2, Status: schema.StepCompleted},
		{OrderID: "O-002", StepNo: 1, Status: schema.StepCompleted},
		{OrderID: "O-002", StepNo: 2, Status: schema.StepInProgress},
		{OrderID: "O-003", StepNo: 1, Status: schema.StepNotStarted},
		{OrderID: "O-004", StepNo: 1, Status: schema.StepNotStarted},
	}

	rows := ComputeSchedule(orders, steps, now)
	require.Len(t, rows, 4)

	// Soonest due first
	assert.Equal(t, "O-001", rows[0].OrderID)
	assert.Equal(t, "O-003", rows[1].OrderID)
	assert.Equal(t, "O-002", rows[2].OrderID)
	assert.Equal(t, "O-004", rows[3].OrderID)

	// Completed past-due order carries no risk
	assert.Equal(t, schema.OrderCompleted, rows[0].Status)
	assert.False(t, rows[0].DueRisk)
	assert.Equal(t, schema.LowBand, rows[0].Severity)

	// Three days overdue and untouched escalates to high
	assert.Equal(t, schema.OrderNotStarted, rows[1].Status)
	assert.True(t, rows[1].DueRisk)
	assert.InDelta(t, 3.0, rows[1].DaysOverdue, 0.001)
	assert.Equal(t, schema.HighBand, rows[1].Severity)

	// Half a day overdue stays medium
	assert.Equal(t, schema.OrderInProgress, rows[2].Status)
	assert.True(t, rows[2].DueRisk)
	assert.InDelta(t, 0.5, rows[2].DaysOverdue, 0.001)
	assert.Equal(t, schema.MediumBand, rows[2].Severity)

	// Future due date carries no risk
	assert.False(t, rows[3].DueRisk)
	assert.Zero(t, rows[3].DaysOverdue)
}

// TestComputeScheduleSeverityBoundary tests that exactly one day overdue is
// still medium.
func TestComputeScheduleSeverityBoundary(t *testing.T) {
	now := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	orders := []schema.OrderRecord{
		{OrderID: "O-010", DueTime: now.Add(-24 * time.Hour)},
	}
	steps := []schema.OrderStepRecord{
		{OrderID: "O-010", StepNo: 1, Status: schema.StepInProgress},
	}

	rows := ComputeSchedule(orders, steps, now)
	require.Len(t, rows, 1)
	assert.InDelta(t, 1.0, rows[0].DaysOverdue, 1e-9)
	assert.Equal(t, schema.MediumBand, rows[0].Severity)
}

// TestComputeScheduleWithoutSteps tests that a stepless order reports unknown
// status but still flags due risk.
func TestComputeScheduleWithoutSteps(t *testing.T) {
	now := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	orders := []schema.OrderRecord{
		{OrderID: "O-020", DueTime: now.Add(-48 * time.Hour)},
	}

	rows := ComputeSchedule(orders, nil, now)
	require.Len(t, rows, 1)
	assert.Equal(t, schema.OrderUnknown, rows[0].Status)
	assert.True(t, rows[0].DueRisk)
	assert.Equal(t, schema.HighBand, rows[0].Severity)
}

// TestRollupStatus tests the step-to-order status mapping.
func TestRollupStatus(t *testing.T) {
	tests := []struct {
		name     string
		statuses []schema.StepStatus
		expected schema.OrderStatus
	}{
		{name: "all completed", statuses: []schema.StepStatus{schema.StepCompleted, schema.StepCompleted}, expected: schema.OrderCompleted},
		{name: "one in progress", statuses: []schema.StepStatus{schema.StepCompleted, schema.StepInProgress}, expected: schema.OrderInProgress},
		{name: "none started", statuses: []schema.StepStatus{schema.StepNotStarted, schema.StepNotStarted}, expected: schema.OrderNotStarted},
		{name: "partially completed but idle", statuses: []schema.StepStatus{schema.StepCompleted, schema.StepNotStarted}, expected: schema.OrderNotStarted},
		{name: "no steps", statuses: nil, expected: schema.OrderUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			steps := make([]schema.OrderStepRecord, 0, len(tt.statuses))
			for i, s := range tt.statuses {
				steps = append(steps, schema.OrderStepRecord{OrderID: "O", StepNo: i + 1, Status: s})
			}
			assert.Equal(t, tt.expected, rollupStatus(steps))
		})
	}
}
