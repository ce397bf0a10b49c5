// Package main provides a performance benchmarking tool for the crashspot CLI.
// It loads a collisions export into a fresh SQLite store, cleans it and then
// times every report command, running each one multiple times, treating the
// first successful run as cold and averaging the rest as warm, and writes
// CSV output for performance analysis and documentation.
//
// Prerequisites:
// - crashspot binary installed and available in PATH
// - A copy of the NYC Motor Vehicle Collisions - Crashes CSV export
//
// Usage: go run benchmark/main.go [crashes-csv]
//
//	crashes-csv: Path to the collisions export
package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// BenchmarkResult holds the result of a benchmark run (load time, cold run and average of warm runs).
type BenchmarkResult struct {
	Command  string
	ColdTime string
	WarmTime string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	CSVPath  string
	DBPath   string
	Timeout  time.Duration
	Runs     int
	Commands [][]string
}

func main() {
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [crashes-csv]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		CSVPath: os.Args[1],
		DBPath:  filepath.Join(os.TempDir(), fmt.Sprintf("crashspot_benchmark_%d.db", time.Now().Unix())),
		Timeout: 5 * time.Minute,
		Runs:    4,
		Commands: [][]string{
			{"weekday"},
			{"hour"},
			{"topdays", "--year", "2020", "--limit", "12"},
			{"window", "--length", "100"},
			{"window", "--length", "100", "--semantics", "entries"},
			{"dayparts"},
			{"zipcodes"},
		},
	}
	defer func() { _ = os.Remove(config.DBPath) }()

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	var results []BenchmarkResult
	for _, step := range [][]string{{"load", config.CSVPath}, {"clean"}} {
		fmt.Printf("Running %s...\n", step[0])
		elapsed, err := runOnce(config, step)
		if err != nil {
			fmt.Printf("Failed to %s: %v\n", step[0], err)
			os.Exit(1)
		}
		results = append(results, BenchmarkResult{Command: step[0], ColdTime: fmt.Sprintf("%.3fs", elapsed), WarmTime: "-"})
	}

	results = append(results, runBenchmarks(config)...)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// checkPrerequisites verifies that the crashspot binary and the input file exist
func checkPrerequisites(config BenchmarkConfig) error {
	if _, err := exec.LookPath("crashspot"); err != nil {
		return fmt.Errorf("crashspot binary not found in PATH")
	}
	if _, err := os.Stat(config.CSVPath); os.IsNotExist(err) {
		return fmt.Errorf("collisions file not found at %s", config.CSVPath)
	}
	return nil
}

// runBenchmarks times every report command against the cleaned store
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d commands, %v timeout, %d runs each\n",
		len(config.Commands), config.Timeout, config.Runs)

	for _, args := range config.Commands {
		name := strings.Join(args, " ")
		fmt.Printf("Running %s\n", name)

		var times []float64
		for range config.Runs {
			if elapsed, err := runOnce(config, args); err == nil {
				times = append(times, elapsed)
			}
		}

		result := BenchmarkResult{Command: name, ColdTime: "TIMEOUT", WarmTime: "TIMEOUT"}
		if len(times) > 0 {
			result.ColdTime = fmt.Sprintf("%.3fs", times[0])
		}
		if len(times) > 1 {
			var sum float64
			for _, t := range times[1:] {
				sum += t
			}
			result.WarmTime = fmt.Sprintf("%.3fs", sum/float64(len(times)-1))
		}

		fmt.Printf("  Cold time: %s, Warm average: %s\n", result.ColdTime, result.WarmTime)
		results = append(results, result)
	}

	return results
}

// runOnce executes one crashspot command against the benchmark store and returns its duration in seconds
func runOnce(config BenchmarkConfig, args []string) (float64, error) {
	cmd := exec.Command("crashspot", args...)
	cmd.Env = append(os.Environ(),
		"CRASHSPOT_BACKEND=sqlite",
		"CRASHSPOT_DB_CONNECT="+config.DBPath,
		"CRASHSPOT_EMOJI=no",
	)

	start := time.Now()
	done := make(chan error, 1)
	go func() {
		_, err := cmd.CombinedOutput()
		done <- err
	}()

	select {
	case err := <-done:
		if err != nil {
			return 0, err
		}
		return time.Since(start).Seconds(), nil
	case <-time.After(config.Timeout):
		_ = cmd.Process.Kill()
		return 0, fmt.Errorf("timed out after %v", config.Timeout)
	}
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/crashspot_benchmark_%s.csv", timestamp)

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

	if err := writer.Write([]string{"cmd", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, result := range results {
		if err := writer.Write([]string{result.Command, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, result := range results {
		fmt.Printf("  %-40s: Cold: %s, Warm: %s\n", result.Command, result.ColdTime, result.WarmTime)
	}
}
