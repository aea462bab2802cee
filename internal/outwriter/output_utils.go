package outwriter

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strings"

	"github.com/factorscope/factorscope/internal/contract"
	"github.com/factorscope/factorscope/schema"
	"golang.org/x/term"
)

// writeWithFile handles the common pattern of opening a file, writing to it, and cleaning up.
// It accepts a writer function that takes an io.Writer and returns an error.
func writeWithFile(outputFile string, writer func(io.Writer) error, successMsg string) error {
	file, err := contract.SelectOutputFile(outputFile)
	if err != nil {
		return err
	}
	// Only close if it's not stdout
	if file != os.Stdout {
		defer func() { _ = file.Close() }()
	}

	if err := writer(file); err != nil {
		return err
	}

	if file != os.Stdout {
		fmt.Fprintf(os.Stderr, "%s to %s\n", successMsg, outputFile)
	}
	return nil
}

// writeJSON is a generic JSON encoder that handles indentation consistently.
func writeJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// writeCSVWithHeader handles the common pattern of creating a CSV writer,
// writing a header, and writing data rows.
func writeCSVWithHeader(w io.Writer, header []string, writeRows func(*csv.Writer) error) error {
	csvWriter := csv.NewWriter(w)
	defer csvWriter.Flush()

	if err := csvWriter.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	if err := writeRows(csvWriter); err != nil {
		return err
	}

	return nil
}

// createFormatters creates the common formatter closures used across multiple output types.
func createFormatters(precision int) (fmtFloat func(float64) string, intFmt string) {
	numFmt := "%.*f"
	intFmt = "%d"
	fmtFloat = func(v float64) string {
		return fmt.Sprintf(numFmt, precision, v)
	}
	return fmtFloat, intFmt
}

// bandLabel formats a risk band for the given config. Colors apply only to
// table output on a terminal; structured formats always get the plain label.
func bandLabel(band schema.RiskBand, cfg *contract.Config) string {
	if cfg.Output == schema.TextOut && cfg.UseColors {
		return contract.GetColorBandLabel(band)
	}
	return contract.GetPlainBandLabel(band)
}

// flagMarker appends an asterisk to a formatted value that carries a
// sentinel-substitution flag, so flagged values are never mistaken for
// measured ones in table or CSV output.
func flagMarker(formatted string, flagged bool) string {
	if flagged {
		return formatted + "*"
	}
	return formatted
}

// getMaxTableIDWidth calculates the maximum width for machine or reason
// identifiers in table output based on terminal width and table configuration.
func getMaxTableIDWidth(cfg *contract.Config) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 { // Not set by override
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			// Fallback to conservative default if terminal size can't be detected
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}

	// Reserve space for the numeric columns with table formatting
	baseWidth := 45

	if cfg.Detail {
		baseWidth += 40
	}
	if cfg.Explain {
		baseWidth += 30
	}

	available := termWidth - baseWidth
	if available < 10 {
		return 10
	}
	if available > 40 {
		return 40
	}
	return available
}

// truncateID shortens an identifier to maxWidth with a leading ellipsis.
func truncateID(id string, maxWidth int) string {
	if len(id) <= maxWidth {
		return id
	}
	if maxWidth <= 3 {
		return id[:maxWidth]
	}
	return "..." + id[len(id)-(maxWidth-3):]
}

// formatTopBreakdown lists the health components in descending order of
// contribution, for explain-style output.
func formatTopBreakdown(breakdown map[string]float64) string {
	type component struct {
		name  string
		value float64
	}
	components := make([]component, 0, len(breakdown))
	for k, v := range breakdown {
		components = append(components, component{name: k, value: v})
	}
	if len(components) == 0 {
		return "Not applicable"
	}
	sort.Slice(components, func(i, j int) bool {
		if math.Abs(components[i].value) != math.Abs(components[j].value) {
			return math.Abs(components[i].value) > math.Abs(components[j].value)
		}
		return components[i].name < components[j].name
	})

	parts := make([]string, 0, len(components))
	for _, c := range components {
		parts = append(parts, c.name)
	}
	return strings.Join(parts, " > ")
}
