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

// PrintRiskScores outputs machine risk scores, dispatching based on the output format configured.
func PrintRiskScores(scores []schema.RiskScore, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeRiskJSON(w, scores)
		}, "Wrote JSON")
	case schema.CSVOut:
		header := []string{"rank", "machine_id", "probability", "band", "model_version", "as_of_time"}
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
				return writeRiskCSVRows(cw, scores, fmtFloat)
			})
		}, "Wrote CSV")
	case schema.ParquetOut:
		if cfg.OutputFile == "" {
			return fmt.Errorf("--output-file is required for parquet output")
		}
		return parquet.WriteRiskScores(parquet.ConvertRiskScores(scores), cfg.OutputFile)
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeRiskTable(scores, cfg, fmtFloat, duration, w)
		}, "Wrote table")
	}
}

// writeRiskTable generates and writes the human-readable table.
func writeRiskTable(scores []schema.RiskScore, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)
	table.Header([]string{"Rank", "Machine", "Probability", "Band"})
	table.Configure(func(tc *tablewriter.Config) {
		tc.Row.Alignment.Global = tw.AlignRight
	})

	maxID := getMaxTableIDWidth(cfg)
	high := 0
	var data [][]string
	for i, s := range scores {
		if s.Band == schema.HighBand {
			high++
		}
		data = append(data, []string{
			strconv.Itoa(i + 1),
			truncateID(s.MachineID, maxID),
			fmtFloat(s.Probability),
			bandLabel(s.Band, cfg),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	modelVersion := ""
	if len(scores) > 0 {
		modelVersion = scores[0].ModelVersion
	}
	if _, err := fmt.Fprintf(writer, "Showing %d machines (%d high risk, model %s). Analysis completed in %v.\n",
		len(scores), high, modelVersion, duration); err != nil {
		return err
	}
	return nil
}

// writeRiskJSON writes the risk scores in JSON format with rank added.
func writeRiskJSON(w io.Writer, scores []schema.RiskScore) error {
	type JSONRiskScore struct {
		Rank int `json:"rank"`
		schema.RiskScore
	}

	output := make([]JSONRiskScore, len(scores))
	for i, s := range scores {
		output[i] = JSONRiskScore{Rank: i + 1, RiskScore: s}
	}
	return writeJSON(w, output)
}

// writeRiskCSVRows writes the risk scores in CSV format.
func writeRiskCSVRows(w *csv.Writer, scores []schema.RiskScore, fmtFloat func(float64) string) error {
	for i, s := range scores {
		rec := []string{
			strconv.Itoa(i + 1),
			s.MachineID,
			fmtFloat(s.Probability),
			contract.GetPlainBandLabel(s.Band),
			s.ModelVersion,
			s.AsOfTime.Format(contract.DateTimeFormat),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}
