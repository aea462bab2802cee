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

// dateFormat is the display format for daily KPI dates.
const dateFormat = "2006-01-02"

// PrintKPIRows outputs daily OEE rows, dispatching based on the output format configured.
func PrintKPIRows(rows []schema.KPIRow, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, rows)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, kpiCSVHeader(cfg), func(cw *csv.Writer) error {
				return writeKPICSVRows(cw, rows, cfg, fmtFloat, intFmt)
			})
		}, "Wrote CSV")
	case schema.ParquetOut:
		if cfg.OutputFile == "" {
			return fmt.Errorf("--output-file is required for parquet output")
		}
		return parquet.WriteKPIRows(parquet.ConvertKPIRows(rows), cfg.OutputFile)
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeKPITable(rows, cfg, fmtFloat, intFmt, duration, w)
		}, "Wrote table")
	}
}

// writeKPITable generates and writes the human-readable table.
func writeKPITable(rows []schema.KPIRow, cfg *contract.Config, fmtFloat func(float64) string, intFmt string, duration time.Duration, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)

	headers := []string{"Machine", "Date", "Avail", "Perf", "Quality", "OEE"}
	if cfg.Detail {
		headers = append(headers, "Planned(s)", "Run(s)", "Total", "Good", "Scrap")
	}
	table.Header(headers)

	table.Configure(func(tc *tablewriter.Config) {
		tc.Row.Alignment.Global = tw.AlignRight
	})

	maxID := getMaxTableIDWidth(cfg)
	flagged := false
	var data [][]string
	for _, r := range rows {
		if r.QualityFlagged {
			flagged = true
		}
		row := []string{
			truncateID(r.MachineID, maxID),
			r.Date.Format(dateFormat),
			fmtFloat(r.Availability),
			fmtFloat(r.Performance),
			flagMarker(fmtFloat(r.Quality), r.QualityFlagged),
			fmtFloat(r.OEE),
		}
		if cfg.Detail {
			row = append(
				row,
				fmtFloat(r.PlannedTime),
				fmtFloat(r.RunTime),
				fmt.Sprintf(intFmt, r.TotalCount),
				fmt.Sprintf(intFmt, r.GoodCount),
				fmt.Sprintf(intFmt, r.ScrapCount),
			)
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
		if _, err := fmt.Fprintln(writer, "* quality sentinel: no units counted that day"); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(writer, "Showing %d machine-days. Analysis completed in %v. Cache backend: %s\n",
		len(rows), duration, cfg.CacheBackend); err != nil {
		return err
	}
	return nil
}

// kpiCSVHeader returns the CSV header, with detail columns when configured.
func kpiCSVHeader(cfg *contract.Config) []string {
	header := []string{"machine_id", "date", "availability", "performance", "quality", "oee", "quality_flagged"}
	if cfg.Detail {
		header = append(header, "planned_time_s", "run_time_s", "total_count", "good_count", "scrap_count")
	}
	return header
}

// writeKPICSVRows writes the OEE rows in CSV format.
func writeKPICSVRows(w *csv.Writer, rows []schema.KPIRow, cfg *contract.Config, fmtFloat func(float64) string, intFmt string) error {
	for _, r := range rows {
		rec := []string{
			r.MachineID,
			r.Date.Format(dateFormat),
			fmtFloat(r.Availability),
			fmtFloat(r.Performance),
			fmtFloat(r.Quality),
			fmtFloat(r.OEE),
			strconv.FormatBool(r.QualityFlagged),
		}
		if cfg.Detail {
			rec = append(
				rec,
				fmtFloat(r.PlannedTime),
				fmtFloat(r.RunTime),
				fmt.Sprintf(intFmt, r.TotalCount),
				fmt.Sprintf(intFmt, r.GoodCount),
				fmt.Sprintf(intFmt, r.ScrapCount),
			)
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}
