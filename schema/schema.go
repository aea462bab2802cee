// Package schema has configs, models and global variables for all parts of factorscope.
package schema

import "time"

// Machine represents a production machine registered in the plant database.
// Ideal cycle time and rated power come from the machine master data and are
// treated as constants for KPI purposes.
type Machine struct {
	MachineID      string  // Unique machine identifier, e.g. "LineA-M3"
	Line           string  // Production line the machine belongs to
	IdealCycleTime float64 // Ideal seconds per produced unit
	RatedPowerKW   float64 // Nameplate power draw in kW
}

// ProductionRecord is one production count report from a machine.
// Records are immutable once written; all KPI values derive from them.
type ProductionRecord struct {
	Timestamp      time.Time // When the counts were reported
	MachineID      string    // Machine that produced the units
	GoodCount      int       // Units that passed quality checks
	ScrapCount     int       // Units rejected or scrapped
	CycleTime      float64   // Observed seconds per unit in this interval
	IdealCycleTime float64   // Ideal seconds per unit for the running SKU
}

// TotalCount returns good plus scrap units for the record.
func (p ProductionRecord) TotalCount() int {
	return p.GoodCount + p.ScrapCount
}

// EventRecord is one machine state interval (run, downtime, idle, setup).
// Duration is in seconds. ReasonCode is only meaningful for DOWN events.
type EventRecord struct {
	Timestamp  time.Time    // Start of the state interval
	MachineID  string       // Machine the event belongs to
	State      MachineState // RUN, DOWN, IDLE or SETUP
	Duration   float64      // Interval length in seconds
	ReasonCode string       // Downtime reason, e.g. "BREAKDOWN", "CHANGEOVER"
}

// EnergyRecord is one energy meter reading interval for a machine.
type EnergyRecord struct {
	Timestamp   time.Time // Start of the metering interval
	MachineID   string    // Metered machine
	IntervalKWh float64   // Energy consumed during the interval
	PowerKW     float64   // Average power draw during the interval
}

// OrderRecord is one production order from the planning system.
type OrderRecord struct {
	OrderID    string    // Unique order identifier, e.g. "ORD-1042"
	SKU        string    // Product being made
	PlannedQty int       // Total units the order calls for
	StartTime  time.Time // Planned production start
	DueTime    time.Time // Committed completion time
	Priority   int       // Lower number means more urgent
}

// OrderStepRecord is one routing step of a production order on a machine.
// Zero actual times mean the step has not started or finished yet.
type OrderStepRecord struct {
	OrderID      string
	StepNo       int
	MachineID    string
	Status       StepStatus
	PlannedStart time.Time
	PlannedEnd   time.Time
	ActualStart  time.Time // Zero when the step has not started
	ActualEnd    time.Time // Zero when the step has not finished
	QtyCompleted int
}

// QueryFilter narrows record loading to a machine/line and time range.
// Zero times mean no bound on that side.
type QueryFilter struct {
	MachineID string    // Exact machine match; empty = all machines
	Line      string    // Production line match; empty = all lines
	StartTime time.Time // Inclusive lower bound on record timestamps
	EndTime   time.Time // Exclusive upper bound on record timestamps
}
