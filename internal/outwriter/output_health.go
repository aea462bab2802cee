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

// PrintHealthReports outputs machine health reports, dispatching based on the output format configured.
func PrintHealthReports(reports []schema.HealthReport, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, reports)
		}, "Wrote JSON")
	case schema.CSVOut:
		header := []string{"rank", "machine_id", "health_score", "band", "sustainability_score"}
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
				return writeHealthCSVRows(cw, reports, fmtFloat)
			})
		}, "Wrote CSV")
	case schema.ParquetOut:
		return fmt.Errorf("parquet output is not supported for health; use csv or json")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeHealthTable(reports, cfg, fmtFloat, duration, w)
		}, "Wrote table")
	}
}

// writeHealthTable generates and writes the human-readable table.
// Reports arrive worst first, so rank 1 is the machine needing attention.
func writeHealthTable(reports []schema.HealthReport, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)

	headers := []string{"Rank", "Machine", "Health", "Band", "Sustain"}
	if cfg.Explain {
		headers = append(headers, "Drivers")
	}
	table.Header(headers)
	table.Configure(func(tc *tablewriter.Config) {
		tc.Row.Alignment.Global = tw.AlignRight
	})

	maxID := getMaxTableIDWidth(cfg)
	var data [][]string
	for i, r := range reports {
		row := []string{
			strconv.Itoa(i + 1),
			truncateID(r.MachineID, maxID),
			fmtFloat(r.HealthScore),
			bandLabel(r.Band, cfg),
			fmtFloat(r.Sustainability),
		}
		if cfg.Explain {
			row = append(row, formatTopBreakdown(r.Breakdown))
		}
		data = append(data, row)
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Showing %d machines, worst first. Analysis completed in %v.\n",
		len(reports), duration); err != nil {
		return err
	}
	return nil
}

// writeHealthCSVRows writes the health reports in CSV format.
func writeHealthCSVRows(w *csv.Writer, reports []schema.HealthReport, fmtFloat func(float64) string) error {
	for i, r := range reports {
		rec := []string{
			strconv.Itoa(i + 1),
			r.MachineID,
			fmtFloat(r.HealthScore),
			contract.GetPlainBandLabel(r.Band),
			fmtFloat(r.Sustainability),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}
