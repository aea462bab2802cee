package factorydb

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/factorscope/factorscope/schema"
)

// Timestamps are stored as RFC3339 UTC text in every backend, so string
// comparison in WHERE clauses matches chronological order.
const timestampLayout = time.RFC3339

// LoadMachines returns the machine master data, ordered by line then machine ID.
func (s *Store) LoadMachines(ctx context.Context) ([]schema.Machine, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT * FROM machines ORDER BY line, machine_id")
	if err != nil {
		return nil, fmt.Errorf("failed to query machines: %w", err)
	}
	defer func() { _ = rows.Close() }()

	sc, err := newRowScanner(rows, "machines", "machine_id", "line", "ideal_cycle_time_s", "rated_power_kw")
	if err != nil {
		return nil, err
	}

	var machines []schema.Machine
	for rows.Next() {
		if err := sc.scan(rows); err != nil {
			return nil, fmt.Errorf("failed to scan machine row: %w", err)
		}
		machines = append(machines, schema.Machine{
			MachineID:      sc.str("machine_id"),
			Line:           sc.str("line"),
			IdealCycleTime: sc.f64("ideal_cycle_time_s"),
			RatedPowerKW:   sc.f64("rated_power_kw"),
		})
	}
	return machines, rows.Err()
}

// LoadProduction returns production count records matching the filter.
func (s *Store) LoadProduction(ctx context.Context, filter schema.QueryFilter) ([]schema.ProductionRecord, error) {
	query, args := s.buildQuery("production", filter)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query production: %w", err)
	}
	defer func() { _ = rows.Close() }()

	sc, err := newRowScanner(rows, "production",
		"ts", "machine_id", "good_count", "scrap_count", "cycle_time_s", "ideal_cycle_time_s")
	if err != nil {
		return nil, err
	}

	var records []schema.ProductionRecord
	for rows.Next() {
		if err := sc.scan(rows); err != nil {
			return nil, fmt.Errorf("failed to scan production row: %w", err)
		}
		ts, err := sc.ts("ts")
		if err != nil {
			return nil, err
		}
		records = append(records, schema.ProductionRecord{
			Timestamp:      ts,
			MachineID:      sc.str("machine_id"),
			GoodCount:      sc.i("good_count"),
			ScrapCount:     sc.i("scrap_count"),
			CycleTime:      sc.f64("cycle_time_s"),
			IdealCycleTime: sc.f64("ideal_cycle_time_s"),
		})
	}
	return records, rows.Err()
}

// LoadEvents returns machine state events matching the filter.
func (s *Store) LoadEvents(ctx context.Context, filter schema.QueryFilter) ([]schema.EventRecord, error) {
	query, args := s.buildQuery("events", filter)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer func() { _ = rows.Close() }()

	sc, err := newRowScanner(rows, "events", "ts", "machine_id", "state", "duration_s", "reason_code")
	if err != nil {
		return nil, err
	}

	var records []schema.EventRecord
	for rows.Next() {
		if err := sc.scan(rows); err != nil {
			return nil, fmt.Errorf("failed to scan event row: %w", err)
		}
		ts, err := sc.ts("ts")
		if err != nil {
			return nil, err
		}
		state := schema.MachineState(sc.str("state"))
		if _, ok := schema.ValidMachineStates[state]; !ok {
			return nil, fmt.Errorf("%w: events row has unknown state %q", schema.ErrSchemaMismatch, state)
		}
		records = append(records, schema.EventRecord{
			Timestamp:  ts,
			MachineID:  sc.str("machine_id"),
			State:      state,
			Duration:   sc.f64("duration_s"),
			ReasonCode: sc.str("reason_code"),
		})
	}
	return records, rows.Err()
}

// LoadEnergy returns energy meter records matching the filter.
func (s *Store) LoadEnergy(ctx context.Context, filter schema.QueryFilter) ([]schema.EnergyRecord, error) {
	query, args := s.buildQuery("energy", filter)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query energy: %w", err)
	}
	defer func() { _ = rows.Close() }()

	sc, err := newRowScanner(rows, "energy", "ts", "machine_id", "kwh_interval", "kw")
	if err != nil {
		return nil, err
	}

	var records []schema.EnergyRecord
	for rows.Next() {
		if err := sc.scan(rows); err != nil {
			return nil, fmt.Errorf("failed to scan energy row: %w", err)
		}
		ts, err := sc.ts("ts")
		if err != nil {
			return nil, err
		}
		records = append(records, schema.EnergyRecord{
			Timestamp:   ts,
			MachineID:   sc.str("machine_id"),
			IntervalKWh: sc.f64("kwh_interval"),
			PowerKW:     sc.f64("kw"),
		})
	}
	return records, rows.Err()
}

// LoadOrders returns all production orders, ordered by due time.
func (s *Store) LoadOrders(ctx context.Context) ([]schema.OrderRecord, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT * FROM orders ORDER BY due_ts, order_id")
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer func() { _ = rows.Close() }()

	sc, err := newRowScanner(rows, "orders",
		"order_id", "sku", "planned_qty", "start_ts", "due_ts", "priority")
	if err != nil {
		return nil, err
	}

	var orders []schema.OrderRecord
	for rows.Next() {
		if err := sc.scan(rows); err != nil {
			return nil, fmt.Errorf("failed to scan order row: %w", err)
		}
		start, err := sc.ts("start_ts")
		if err != nil {
			return nil, err
		}
		due, err := sc.ts("due_ts")
		if err != nil {
			return nil, err
		}
		orders = append(orders, schema.OrderRecord{
			OrderID:    sc.str("order_id"),
			SKU:        sc.str("sku"),
			PlannedQty: sc.i("planned_qty"),
			StartTime:  start,
			DueTime:    due,
			Priority:   sc.i("priority"),
		})
	}
	return orders, rows.Err()
}

// LoadOrderSteps returns all order routing steps, ordered by order then step
// number. Actual start/end times are NULL until the step runs and come back
// as zero times.
func (s *Store) LoadOrderSteps(ctx context.Context) ([]schema.OrderStepRecord, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT * FROM order_steps ORDER BY order_id, step_no")
	if err != nil {
		return nil, fmt.Errorf("failed to query order_steps: %w", err)
	}
	defer func() { _ = rows.Close() }()

	sc, err := newRowScanner(rows, "order_steps",
		"order_id", "step_no", "machine_id", "status",
		"planned_start_ts", "planned_end_ts", "actual_start_ts", "actual_end_ts", "qty_completed")
	if err != nil {
		return nil, err
	}

	var steps []schema.OrderStepRecord
	for rows.Next() {
		if err := sc.scan(rows); err != nil {
			return nil, fmt.Errorf("failed to scan order step row: %w", err)
		}
		plannedStart, err := sc.ts("planned_start_ts")
		if err != nil {
			return nil, err
		}
		plannedEnd, err := sc.ts("planned_end_ts")
		if err != nil {
			return nil, err
		}
		actualStart, err := sc.tsOrZero("actual_start_ts")
		if err != nil {
			return nil, err
		}
		actualEnd, err := sc.tsOrZero("actual_end_ts")
		if err != nil {
			return nil, err
		}
		status := schema.StepStatus(sc.str("status"))
		if _, ok := schema.ValidStepStatuses[status]; !ok {
			return nil, fmt.Errorf("%w: order_steps row has unknown status %q", schema.ErrSchemaMismatch, status)
		}
		steps = append(steps, schema.OrderStepRecord{
			OrderID:      sc.str("order_id"),
			StepNo:       sc.i("step_no"),
			MachineID:    sc.str("machine_id"),
			Status:       status,
			PlannedStart: plannedStart,
			PlannedEnd:   plannedEnd,
			ActualStart:  actualStart,
			ActualEnd:    actualEnd,
			QtyCompleted: sc.i("qty_completed"),
		})
	}
	return steps, rows.Err()
}

// buildQuery assembles a SELECT * with the filter's WHERE clauses. Columns are
// resolved by name at scan time, so SELECT * carries no ordering assumption.
func (s *Store) buildQuery(table string, filter schema.QueryFilter) (string, []any) {
	var clauses []string
	var args []any

	if filter.MachineID != "" {
		clauses = append(clauses, "machine_id = ?")
		args = append(args, filter.MachineID)
	}
	if filter.Line != "" {
		clauses = append(clauses, "machine_id IN (SELECT machine_id FROM machines WHERE line = ?)")
		args = append(args, filter.Line)
	}
	if !filter.StartTime.IsZero() {
		clauses = append(clauses, "ts >= ?")
		args = append(args, filter.StartTime.UTC().Format(timestampLayout))
	}
	if !filter.EndTime.IsZero() {
		clauses = append(clauses, "ts < ?")
		args = append(args, filter.EndTime.UTC().Format(timestampLayout))
	}

	query := "SELECT * FROM " + table
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY machine_id, ts"
	return s.rebind(query), args
}

// rebind converts ? placeholders to the $n form PostgreSQL expects.
func (s *Store) rebind(query string) string {
	if s.backend != schema.PostgreSQLBackend {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// rowScanner scans rows by column name so the core never depends on column
// order. Construction fails with ErrSchemaMismatch when a required column is
// absent from the result set.
type rowScanner struct {
	index map[string]int
	vals  []any
	ptrs  []any
}

func newRowScanner(rows *sql.Rows, table string, required ...string) (*rowScanner, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns for %s: %w", table, err)
	}

	index := make(map[string]int, len(cols))
	for i, c := range cols {
		index[strings.ToLower(c)] = i
	}
	for _, r := range required {
		if _, ok := index[r]; !ok {
			return nil, schema.MissingColumnError(table, r)
		}
	}

	vals := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	return &rowScanner{index: index, vals: vals, ptrs: ptrs}, nil
}

func (sc *rowScanner) scan(rows *sql.Rows) error {
	return rows.Scan(sc.ptrs...)
}

// str returns the named column as a string, tolerating []byte from drivers.
func (sc *rowScanner) str(name string) string {
	switch v := sc.vals[sc.index[name]].(type) {
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return ""
	}
}

// f64 returns the named column as a float64, coercing driver-native types.
func (sc *rowScanner) f64(name string) float64 {
	switch v := sc.vals[sc.index[name]].(type) {
	case float64:
		return v
	case int64:
		return float64(v)
	case []byte:
		f, _ := strconv.ParseFloat(string(v), 64)
		return f
	case string:
		f, _ := strconv.ParseFloat(v, 64)
		return f
	default:
		return 0
	}
}

// i returns the named column as an int, coercing driver-native types.
func (sc *rowScanner) i(name string) int {
	switch v := sc.vals[sc.index[name]].(type) {
	case int64:
		return int(v)
	case float64:
		return int(v)
	case []byte:
		n, _ := strconv.Atoi(string(v))
		return n
	case string:
		n, _ := strconv.Atoi(v)
		return n
	default:
		return 0
	}
}

// ts parses the named column as an RFC3339 timestamp. Drivers that return
// native time values pass through unchanged.
func (sc *rowScanner) ts(name string) (time.Time, error) {
	switch v := sc.vals[sc.index[name]].(type) {
	case time.Time:
		return v.UTC(), nil
	case string:
		return parseTimestamp(v)
	case []byte:
		return parseTimestamp(string(v))
	default:
		return time.Time{}, fmt.Errorf("%w: column %q holds %T, expected a timestamp", schema.ErrSchemaMismatch, name, v)
	}
}

// tsOrZero parses the named column as a timestamp, mapping NULL to the zero
// time.
func (sc *rowScanner) tsOrZero(name string) (time.Time, error) {
	if sc.vals[sc.index[name]] == nil {
		return time.Time{}, nil
	}
	return sc.ts(name)
}

func parseTimestamp(raw string) (time.Time, error) {
	if t, err := time.Parse(timestampLayout, raw); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse("2006-01-02 15:04:05", raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", raw, err)
	}
	return t.UTC(), nil
}
