package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/factorscope/factorscope/internal/contract"
	"github.com/factorscope/factorscope/internal/parquet"
	"github.com/factorscope/factorscope/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintFeatureRows outputs model input rows, dispatching based on the output format configured.
// Parquet is the natural export format here since the rows feed model training.
func PrintFeatureRows(rows []schema.FeatureRow, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, rows)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, featureCSVHeader(), func(cw *csv.Writer) error {
				return writeFeatureCSVRows(cw, rows, fmtFloat)
			})
		}, "Wrote CSV")
	case schema.ParquetOut:
		if cfg.OutputFile == "" {
			return fmt.Errorf("--output-file is required for parquet output")
		}
		return parquet.WriteFeatureRows(parquet.ConvertFeatureRows(rows), cfg.OutputFile)
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeFeatureTable(rows, cfg, fmtFloat, duration, w)
		}, "Wrote table")
	}
}

// featureCSVHeader lists the identity columns followed by the feature names in
// canonical order. The column order matches Vector() so exported files line up
// with the model's fit order.
func featureCSVHeader() []string {
	header := []string{"machine_id", "as_of_time"}
	for _, name := range schema.AllFeatureNames {
		header = append(header, string(name))
	}
	return header
}

// writeFeatureTable generates and writes the human-readable table.
func writeFeatureTable(rows []schema.FeatureRow, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)

	headers := []string{"Machine", "AvgCycle", "ScrapRate", "DownRatio", "kWh/Good", "LastFault(h)"}
	if cfg.Detail {
		headers = append(headers, "StdCycle", "DownEvents", "AvgKW", "StdKW", "Runtime(h)")
	}
	table.Header(headers)
	table.Configure(func(tc *tablewriter.Config) {
		tc.Row.Alignment.Global = tw.AlignRight
	})

	maxID := getMaxTableIDWidth(cfg)
	var data [][]string
	for _, r := range rows {
		row := []string{
			truncateID(r.MachineID, maxID),
			fmtFloat(r.AvgCycleTime),
			fmtFloat(r.ScrapRate),
			fmtFloat(r.DowntimeRatio),
			fmtFloat(r.KWhPerGood),
			fmtFloat(r.TimeSinceLastFault),
		}
		if cfg.Detail {
			row = append(
				row,
				fmtFloat(r.StdCycleTime),
				fmtFloat(r.DownEvents),
				fmtFloat(r.AvgPowerKW),
				fmtFloat(r.StdPowerKW),
				fmtFloat(r.RuntimeHours),
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

	asOf := ""
	if len(rows) > 0 {
		asOf = rows[0].AsOfTime.Format(contract.DateTimeFormat)
	}
	if _, err := fmt.Fprintf(writer, "Showing %d machines as of %s. Analysis completed in %v.\n",
		len(rows), asOf, duration); err != nil {
		return err
	}
	return nil
}

// writeFeatureCSVRows writes the feature rows in CSV format.
func writeFeatureCSVRows(w *csv.Writer, rows []schema.FeatureRow, fmtFloat func(float64) string) error {
	for _, r := range rows {
		rec := []string{r.MachineID, r.AsOfTime.Format(contract.DateTimeFormat)}
		vector := r.Vector()
		for _, name := range schema.AllFeatureNames {
			rec = append(rec, fmtFloat(vector[name]))
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}
