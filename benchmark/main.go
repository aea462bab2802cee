// Package main provides a performance benchmarking tool for the factorscope CLI.
// It seeds synthetic telemetry databases of increasing size, measures execution
// times across the analysis commands, running each test multiple times, treating
// the first successful cached run as cold and averaging the rest as warm, and
// generates CSV output for performance analysis and documentation.
//
// Prerequisites:
// - factorscope binary installed and available in PATH
//
// Usage: go run benchmark/main.go [work-dir]
//
//	work-dir: Directory where the synthetic databases are created
package main

import (
	"database/sql"
	"encoding/csv"
	"fmt"
	"math/rand"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// BenchmarkResult holds the result of a benchmark run (no-cache average, cold run and average of warm runs).
type BenchmarkResult struct {
	Dataset     string
	Command     string
	NoCacheTime string
	ColdTime    string
	WarmTime    string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	WorkDir     string
	Timeout     time.Duration
	NoCacheRuns int
	CacheRuns   int
	Datasets    map[string]DatasetShape
}

// DatasetShape controls how much synthetic telemetry a dataset gets.
type DatasetShape struct {
	Machines int
	Days     int
}

func main() {
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [work-dir]\n", os.Args[0])
		os.Exit(1)
	}
	workDir := os.Args[1]

	config := BenchmarkConfig{
		WorkDir:     workDir,
		Timeout:     5 * time.Minute,
		NoCacheRuns: 3,
		CacheRuns:   4,
		Datasets: map[string]DatasetShape{
			"small":  {Machines: 5, Days: 30},
			"medium": {Machines: 40, Days: 90},
			"large":  {Machines: 200, Days: 365},
		},
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	// Clear the result cache so cold runs are actually cold
	fmt.Printf("Clearing cache...\n")
	clearCmd := exec.Command("factorscope", "cache", "clear")
	if output, err := clearCmd.CombinedOutput(); err != nil {
		fmt.Printf("Warning: failed to clear cache: %v\nOutput: %s\n", err, string(output))
	} else {
		fmt.Printf("Cache cleared successfully\n")
	}

	dbPaths, err := seedDatasets(config)
	if err != nil {
		fmt.Printf("Failed to seed datasets: %v\n", err)
		os.Exit(1)
	}

	results := runBenchmarks(config, dbPaths)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// checkPrerequisites verifies that the factorscope binary and work directory exist
func checkPrerequisites(config BenchmarkConfig) error {
	if _, err := exec.LookPath("factorscope"); err != nil {
		return fmt.Errorf("factorscope binary not found in PATH")
	}

	if err := os.MkdirAll(config.WorkDir, 0o755); err != nil {
		return fmt.Errorf("cannot create work directory %s: %w", config.WorkDir, err)
	}

	return nil
}

// seedDatasets creates one SQLite telemetry database per configured dataset shape.
func seedDatasets(config BenchmarkConfig) (map[string]string, error) {
	paths := make(map[string]string)

	for name, shape := range config.Datasets {
		dbPath := filepath.Join(config.WorkDir, fmt.Sprintf("factory_%s.db", name))
		fmt.Printf("Seeding %s dataset (%d machines x %d days) at %s\n", name, shape.Machines, shape.Days, dbPath)

		// Reuse an existing seed so repeat runs skip the expensive insert phase
		if _, err := os.Stat(dbPath); err == nil {
			paths[name] = dbPath
			continue
		}

		if err := seedDatabase(dbPath, shape); err != nil {
			return nil, fmt.Errorf("seeding %s: %w", name, err)
		}
		paths[name] = dbPath
	}

	return paths, nil
}

// seedDatabase runs the schema migration via the CLI and fills the tables
// with deterministic pseudo-random production, event and energy records.
func seedDatabase(dbPath string, shape DatasetShape) error {
	migrateCmd := exec.Command("factorscope", "migrate", "--db-connect", dbPath)
	if output, err := migrateCmd.CombinedOutput(); err != nil {
		return fmt.Errorf("migrate failed: %v\nOutput: %s", err, string(output))
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close database %s: %v\n", dbPath, closeErr)
		}
	}()

	tx, err := db.Begin()
	if err != nil {
		return err
	}

	rng := rand.New(rand.NewSource(42))
	reasons := []string{"BREAKDOWN", "CHANGEOVER", "STARVED", "JAM", "MAINTENANCE"}
	end := time.Now().UTC().Truncate(24 * time.Hour)

	for m := range shape.Machines {
		machineID := fmt.Sprintf("M-%03d", m+1)
		line := fmt.Sprintf("L%d", m%4+1)
		idealCycle := 1.5 + rng.Float64()
		if _, err := tx.Exec(
			`INSERT INTO machines (machine_id, line, ideal_cycle_time_s, rated_power_kw) VALUES (?, ?, ?, ?)`,
			machineID, line, idealCycle, 10+rng.Float64()*40,
		); err != nil {
			_ = tx.Rollback()
			return err
		}

		for d := range shape.Days {
			day := end.AddDate(0, 0, -d)

			// Hourly production and energy intervals plus a few state events per day
			for h := range 24 {
				ts := day.Add(time.Duration(h) * time.Hour).Format(time.RFC3339)

				if _, err := tx.Exec(
					`INSERT INTO production (ts, machine_id, good_count, scrap_count, cycle_time_s, ideal_cycle_time_s) VALUES (?, ?, ?, ?, ?, ?)`,
					ts, machineID, 100+rng.Intn(400), rng.Intn(20), idealCycle*(1+rng.Float64()*0.4), idealCycle,
				); err != nil {
					_ = tx.Rollback()
					return err
				}

				if _, err := tx.Exec(
					`INSERT INTO energy (ts, machine_id, kwh_interval, kw) VALUES (?, ?, ?, ?)`,
					ts, machineID, 5+rng.Float64()*20, 10+rng.Float64()*30,
				); err != nil {
					_ = tx.Rollback()
					return err
				}

				state := "RUN"
				reason := ""
				if rng.Float64() < 0.1 {
					state = "DOWN"
					reason = reasons[rng.Intn(len(reasons))]
				}
				if _, err := tx.Exec(
					`INSERT INTO events (ts, machine_id, state, duration_s, reason_code) VALUES (?, ?, ?, ?, ?)`,
					ts, machineID, state, float64(300+rng.Intn(3300)), reason,
				); err != nil {
					_ = tx.Rollback()
					return err
				}
			}
		}
	}

	return tx.Commit()
}

// runBenchmarks executes all benchmark tests across configured datasets
func runBenchmarks(config BenchmarkConfig, dbPaths map[string]string) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d datasets, %v timeout, no-cache: %d runs, cache: %d runs\n",
		len(config.Datasets), config.Timeout, config.NoCacheRuns, config.CacheRuns)

	commands := []string{"oee", "pareto", "energy", "features"}

	for _, name := range []string{"small", "medium", "large"} {
		dbPath, ok := dbPaths[name]
		if !ok {
			continue
		}
		fmt.Printf("Benchmarking %s\n", name)

		for _, command := range commands {
			result := runBenchmarkSuite(config, name, dbPath, command)
			results = append(results, result)
		}
	}

	return results
}

// runBenchmarkSuite runs both no-cache and cache benchmarks for a command
func runBenchmarkSuite(config BenchmarkConfig, dataset, dbPath, command string) BenchmarkResult {
	fmt.Printf("Running %s analysis on %s\n", command, dataset)

	runPhase := func(cacheBackend string, numRuns int, phaseName string) (coldTime float64, avgTime string) {
		fmt.Printf("  %s phase (%d runs)\n", phaseName, numRuns)
		cold, times := runBenchmark(config, dbPath, command, cacheBackend, numRuns)
		if len(times) == 0 {
			avgTime = "TIMEOUT"
		} else {
			var sum float64
			for _, t := range times {
				sum += t
			}
			avg := sum / float64(len(times))
			avgTime = fmt.Sprintf("%.3fs", avg)
		}
		return cold, avgTime
	}

	// Phase 1: No-cache runs
	_, noCacheAvg := runPhase("none", config.NoCacheRuns, "No-cache")

	// Phase 2: Cache runs
	coldTime, warmAvg := runPhase("sqlite", config.CacheRuns, "Cache")

	coldTimeStr := "TIMEOUT"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}

	fmt.Printf("  No-cache average: %s, Cold time: %s, Warm average: %s\n", noCacheAvg, coldTimeStr, warmAvg)

	return BenchmarkResult{
		Dataset:     dataset,
		Command:     command,
		NoCacheTime: noCacheAvg,
		ColdTime:    coldTimeStr,
		WarmTime:    warmAvg,
	}
}

// runBenchmark executes a factorscope command multiple times with the specified
// cache backend and returns cold time and warm times
func runBenchmark(config BenchmarkConfig, dbPath, command, cacheBackend string, numRuns int) (coldTime float64, warmTimes []float64) {
	args := []string{command, dbPath, "--cache-backend", cacheBackend}

	var times []float64
	for run := 1; run <= numRuns; run++ {
		start := time.Now()

		cmd := exec.Command("factorscope", args...)

		done := make(chan bool)
		var output []byte
		var cmdErr error

		go func() {
			output, cmdErr = cmd.CombinedOutput()
			done <- true
		}()

		select {
		case <-done:
			if cmdErr == nil && isSuccess(output) {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			// Timeout - don't add to times
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// isSuccess checks if command output indicates successful completion
func isSuccess(output []byte) bool {
	return strings.Contains(string(output), "Analysis completed in")
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/factorscope_benchmark_%s.csv", timestamp)

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"dataset", "cmd", "no_cache_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, result := range results {
		if err := writer.Write([]string{result.Dataset, result.Command, result.NoCacheTime, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")

	for _, command := range []string{"oee", "pareto", "energy", "features"} {
		fmt.Printf("%s analysis:\n", command)
		for _, result := range results {
			if result.Command == command {
				fmt.Printf("  %-8s: No-cache: %s, Cold: %s, Warm: %s\n", result.Dataset, result.NoCacheTime, result.ColdTime, result.WarmTime)
			}
		}
	}

	fmt.Printf("Benchmark script completed successfully\n")
}
