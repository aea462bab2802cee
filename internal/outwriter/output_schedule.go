package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/factorscope/factorscope/internal/contract"
	"github.com/factorscope/factorscope/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintScheduleRows outputs order schedule-risk rows, dispatching based on the output format configured.
func PrintScheduleRows(rows []schema.ScheduleRow, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, rows)
		}, "Wrote JSON")
	case schema.CSVOut:
		header := []string{"order_id", "sku", "planned_qty", "priority", "start_ts", "due_ts", "status", "due_risk", "days_overdue", "severity"}
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
				return writeScheduleCSVRows(cw, rows, fmtFloat)
			})
		}, "Wrote CSV")
	case schema.ParquetOut:
		return fmt.Errorf("parquet output is not supported for schedule; use csv or json")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeScheduleTable(rows, cfg, fmtFloat, duration, w)
		}, "Wrote table")
	}
}

// writeScheduleTable generates and writes the human-readable table.
// Rows arrive due-date first, so the most pressing orders lead.
func writeScheduleTable(rows []schema.ScheduleRow, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)
	table.Header([]string{"Order", "SKU", "Due", "Status", "Overdue (d)", "Severity"})
	table.Configure(func(tc *tablewriter.Config) {
		tc.Row.Alignment.Global = tw.AlignRight
	})

	maxID := getMaxTableIDWidth(cfg)
	atRisk := 0
	var data [][]string
	for _, r := range rows {
		if r.DueRisk {
			atRisk++
		}
		data = append(data, []string{
			truncateID(r.OrderID, maxID),
			r.SKU,
			r.DueTime.Format(dateFormat),
			string(r.Status),
			fmtFloat(r.DaysOverdue),
			bandLabel(r.Severity, cfg),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Showing %d orders (%d at schedule risk). Analysis completed in %v.\n",
		len(rows), atRisk, duration); err != nil {
		return err
	}
	return nil
}

// writeScheduleCSVRows writes the schedule rows in CSV format.
func writeScheduleCSVRows(w *csv.Writer, rows []schema.ScheduleRow, fmtFloat func(float64) string) error {
	for _, r := range rows {
		rec := []string{
			r.OrderID,
			r.SKU,
			strconv.Itoa(r.PlannedQty),
			strconv.Itoa(r.Priority),
			r.StartTime.Format(contract.DateTimeFormat),
			r.DueTime.Format(contract.DateTimeFormat),
			string(r.Status),
			strconv.FormatBool(r.DueRisk),
			fmtFloat(r.DaysOverdue),
			contract.GetPlainBandLabel(r.Severity),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}
