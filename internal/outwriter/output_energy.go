package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/factorscope/factorscope/internal/contract"
	"github.com/factorscope/factorscope/internal/parquet"
	"github.com/factorscope/factorscope/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintEnergyRows outputs daily energy rows, dispatching based on the output format configured.
func PrintEnergyRows(rows []schema.EnergyRow, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, rows)
		}, "Wrote JSON")
	case schema.CSVOut:
		header := []string{"machine_id", "date", "kwh", "peak_kw", "avg_kw", "kwh_per_good", "kwh_per_good_flagged", "good_count", "spike_alert"}
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
				return writeEnergyCSVRows(cw, rows, fmtFloat, intFmt)
			})
		}, "Wrote CSV")
	case schema.ParquetOut:
		if cfg.OutputFile == "" {
			return fmt.Errorf("--output-file is required for parquet output")
		}
		return parquet.WriteEnergyRows(parquet.ConvertEnergyRows(rows), cfg.OutputFile)
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeEnergyTable(rows, cfg, fmtFloat, duration, w)
		}, "Wrote table")
	}
}

// writeEnergyTable generates and writes the human-readable table.
func writeEnergyTable(rows []schema.EnergyRow, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)

	headers := []string{"Machine", "Date", "kWh", "Peak kW", "kWh/Good", "Spike"}
	if cfg.Detail {
		headers = append(headers, "Avg kW", "Good")
	}
	table.Header(headers)
	table.Configure(func(tc *tablewriter.Config) {
		tc.Row.Alignment.Global = tw.AlignRight
	})

	maxID := getMaxTableIDWidth(cfg)
	spikes := 0
	flagged := false
	var data [][]string
	for _, r := range rows {
		spike := ""
		if r.SpikeAlert {
			spike = "SPIKE"
			spikes++
		}
		if r.KWhPerGoodFlagged {
			flagged = true
		}
		row := []string{
			truncateID(r.MachineID, maxID),
			r.Date.Format(dateFormat),
			fmtFloat(r.KWh),
			fmtFloat(r.PeakKW),
			flagMarker(fmtFloat(r.KWhPerGood), r.KWhPerGoodFlagged),
			spike,
		}
		if cfg.Detail {
			row = append(row, fmtFloat(r.AvgKW), strconv.Itoa(r.GoodCount))
		}
		data = append(data, row)
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if flagged {
		if _, err := fmt.Fprintln(writer, "* no good units produced that day"); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(writer, "Showing %d machine-days (%d spike alerts). Analysis completed in %v.\n",
		len(rows), spikes, duration); err != nil {
		return err
	}
	return nil
}

// writeEnergyCSVRows writes the energy rows in CSV format.
func writeEnergyCSVRows(w *csv.Writer, rows []schema.EnergyRow, fmtFloat func(float64) string, intFmt string) error {
	for _, r := range rows {
		rec := []string{
			r.MachineID,
			r.Date.Format(dateFormat),
			fmtFloat(r.KWh),
			fmtFloat(r.PeakKW),
			fmtFloat(r.AvgKW),
			fmtFloat(r.KWhPerGood),
			strconv.FormatBool(r.KWhPerGoodFlagged),
			fmt.Sprintf(intFmt, r.GoodCount),
			strconv.FormatBool(r.SpikeAlert),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}
