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

// PrintParetoBuckets outputs the downtime Pareto table, dispatching based on
// the output format configured.
func PrintParetoBuckets(buckets []schema.DowntimeBucket, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, buckets)
		}, "Wrote JSON")
	case schema.CSVOut:
		header := []string{"rank", "reason_code", "downtime_s", "pct", "cum_pct"}
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
				return writeParetoCSVRows(cw, buckets, fmtFloat)
			})
		}, "Wrote CSV")
	case schema.ParquetOut:
		return fmt.Errorf("parquet output is not supported for pareto; use csv or json")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeParetoTable(buckets, cfg, fmtFloat, duration, w)
		}, "Wrote table")
	}
}

// writeParetoTable generates and writes the human-readable table.
func writeParetoTable(buckets []schema.DowntimeBucket, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)
	table.Header([]string{"Rank", "Reason", "Downtime(s)", "Pct", "CumPct"})
	table.Configure(func(tc *tablewriter.Config) {
		tc.Row.Alignment.Global = tw.AlignRight
	})

	maxID := getMaxTableIDWidth(cfg)
	var total float64
	var data [][]string
	for _, b := range buckets {
		total += b.Downtime
		data = append(data, []string{
			strconv.Itoa(b.Rank),
			truncateID(b.ReasonCode, maxID),
			fmtFloat(b.Downtime),
			fmtFloat(b.Pct * 100),
			fmtFloat(b.CumPct * 100),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Showing %d downtime reasons (total downtime: %ss). Analysis completed in %v.\n",
		len(buckets), fmtFloat(total), duration); err != nil {
		return err
	}
	return nil
}

// writeParetoCSVRows writes the Pareto buckets in CSV format. Percentages stay
// as [0,1] fractions in structured output.
func writeParetoCSVRows(w *csv.Writer, buckets []schema.DowntimeBucket, fmtFloat func(float64) string) error {
	for _, b := range buckets {
		rec := []string{
			strconv.Itoa(b.Rank),
			b.ReasonCode,
			fmtFloat(b.Downtime),
			fmtFloat(b.Pct),
			fmtFloat(b.CumPct),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}
