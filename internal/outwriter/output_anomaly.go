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

// PrintEnergyAnomalies outputs fleet energy anomaly rows, dispatching based on the output format configured.
func PrintEnergyAnomalies(rows []schema.EnergyAnomaly, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, rows)
		}, "Wrote JSON")
	case schema.CSVOut:
		header := []string{"rank", "machine_id", "total_kwh", "z_score", "is_anomaly"}
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
				return writeAnomalyCSVRows(cw, rows, fmtFloat)
			})
		}, "Wrote CSV")
	case schema.ParquetOut:
		return fmt.Errorf("parquet output is not supported for anomalies; use csv or json")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeAnomalyTable(rows, cfg, fmtFloat, duration, w)
		}, "Wrote table")
	}
}

// writeAnomalyTable generates and writes the human-readable table.
// Rows arrive most unusual first.
func writeAnomalyTable(rows []schema.EnergyAnomaly, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)
	table.Header([]string{"Rank", "Machine", "Total kWh", "Z-Score", "Anomaly"})
	table.Configure(func(tc *tablewriter.Config) {
		tc.Row.Alignment.Global = tw.AlignRight
	})

	maxID := getMaxTableIDWidth(cfg)
	flagged := 0
	var data [][]string
	for i, r := range rows {
		if r.Anomaly {
			flagged++
		}
		data = append(data, []string{
			strconv.Itoa(i + 1),
			truncateID(r.MachineID, maxID),
			fmtFloat(r.TotalKWh),
			fmtFloat(r.ZScore),
			strconv.FormatBool(r.Anomaly),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Showing %d machines (%d anomalous). Analysis completed in %v.\n",
		len(rows), flagged, duration); err != nil {
		return err
	}
	return nil
}

// writeAnomalyCSVRows writes the anomaly rows in CSV format.
func writeAnomalyCSVRows(w *csv.Writer, rows []schema.EnergyAnomaly, fmtFloat func(float64) string) error {
	for i, r := range rows {
		rec := []string{
			strconv.Itoa(i + 1),
			r.MachineID,
			fmtFloat(r.TotalKWh),
			fmtFloat(r.ZScore),
			strconv.FormatBool(r.Anomaly),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}
