package contract

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/factorscope/factorscope/schema"
	"github.com/fatih/color"
)

// Color variables for console output.
var (
	HighColor   = color.New(color.FgRed, color.Bold) // highColor represents standard danger.
	MediumColor = color.New(color.FgYellow)          // mediumColor represents standard caution, not bold.
	LowColor    = color.New(color.FgCyan)            // lowColor represents informational / low-priority signal.
)

// GetPlainBandLabel returns a plain text label for a risk band. This is the
// core logic used for CSV, JSON, and table printing.
func GetPlainBandLabel(band schema.RiskBand) string {
	switch band {
	case schema.HighBand:
		return "High"
	case schema.MediumBand:
		return "Medium"
	default:
		return "Low"
	}
}

// GetColorBandLabel returns a colored text label for console output (table).
// It uses GetPlainBandLabel to determine the string, and then applies the
// appropriate color.
func GetColorBandLabel(band schema.RiskBand) string {
	text := GetPlainBandLabel(band)

	switch band {
	case schema.HighBand:
		return HighColor.Sprint(text)
	case schema.MediumBand:
		return MediumColor.Sprint(text)
	default:
		return LowColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on
// the provided file path. It falls back to os.Stdout when no path is given.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogAnalysisHeader prints the analysis scope and time range.
func LogAnalysisHeader(cfg *Config, kind string) {
	scope := "all machines"
	if cfg.MachineID != "" {
		scope = "machine " + cfg.MachineID
	} else if cfg.Line != "" {
		scope = "line " + cfg.Line
	}
	fmt.Printf("Analysis: %s (%s, backend: %s)\n", kind, scope, cfg.DBBackend)
	fmt.Printf("Range: %s -> %s\n", cfg.StartTime.Format(DateTimeFormat), cfg.EndTime.Format(DateTimeFormat))
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetCacheDBFilePath returns the path to the SQLite DB file for cache storage.
func GetCacheDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".factorscope_cache.db"
	}
	return filepath.Join(homeDir, ".factorscope_cache.db")
}

// GetDefaultFactoryDBPath returns the default SQLite path for factory data.
func GetDefaultFactoryDBPath() string {
	return filepath.Join("data", "factory.db")
}
