// Package main provides a performance benchmarking tool for the seisread CLI.
// It generates synthetic logs of several sizes, runs every output mode against
// each of them multiple times, treats the first successful run as cold and
// averages the rest as warm, then writes the timings to a CSV file.
//
// Prerequisites:
// - seisread binary installed and available in PATH
//
// Usage: go run benchmark/main.go [work-dir]
//
//	work-dir: Directory where synthetic logs are generated
package main

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"math/rand/v2"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/huangsam/seisread/core"
	"github.com/huangsam/seisread/schema"
)

// BenchmarkResult holds the cold time and the average of warm runs for one case.
type BenchmarkResult struct {
	Records  int
	Mode     string
	ColdTime string
	WarmTime string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	WorkDir string
	Timeout time.Duration
	Runs    int
	Sizes   []int
	Modes   map[string][]string
	Order   []string
}

func main() {
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [work-dir]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		WorkDir: os.Args[1],
		Timeout: 2 * time.Minute,
		Runs:    4,
		Sizes:   []int{10_000, 100_000, 1_000_000},
		Modes: map[string][]string{
			"text":       nil,
			"comma":      {"-c", "-f"},
			"stats-only": {"-s"},
			"csv":        {"--output", "csv", "--output-file", "bench.csv"},
			"json":       {"--output", "json", "--output-file", "bench.jsonl"},
			"parquet":    {"--output", "parquet", "--output-file", "bench.parquet"},
			"history":    {"-s", "--runs-backend", "sqlite", "--runs-db-connect", "bench_runs.db"},
		},
		Order: []string{"text", "comma", "stats-only", "csv", "json", "parquet", "history"},
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	results, err := runBenchmarks(config)
	if err != nil {
		fmt.Printf("Benchmark failed: %v\n", err)
		os.Exit(1)
	}

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(config, results)
}

// checkPrerequisites verifies that the seisread binary and work dir exist
func checkPrerequisites(config BenchmarkConfig) error {
	if _, err := exec.LookPath("seisread"); err != nil {
		return fmt.Errorf("seisread binary not found in PATH")
	}
	info, err := os.Stat(config.WorkDir)
	if err != nil {
		return fmt.Errorf("work dir %s: %w", config.WorkDir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("work dir %s is not a directory", config.WorkDir)
	}
	return nil
}

// generateLog writes n random records to a dated log in dir.
func generateLog(dir string, n int) (string, error) {
	path := filepath.Join(dir, fmt.Sprintf("2024-03-01.bench-%d.bin", n))
	file, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer func() { _ = file.Close() }()

	w := bufio.NewWriter(file)
	rng := rand.New(rand.NewPCG(uint64(n), 42))
	for i := range n {
		rec := schema.RawRecord{
			ElapsedMillis: uint32(i * 10),
			XRaw:          int16(rng.IntN(2001) - 1000),
			YRaw:          int16(rng.IntN(2001) - 1000),
			ZRaw:          int16(rng.IntN(2001) - 1000),
		}
		if _, err := w.Write(core.EncodeRecord(rec)); err != nil {
			return "", err
		}
	}
	if err := w.Flush(); err != nil {
		return "", err
	}
	return path, nil
}

// runBenchmarks executes every mode against every generated log
func runBenchmarks(config BenchmarkConfig) ([]BenchmarkResult, error) {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d sizes, %d modes, %v timeout, %d runs\n",
		len(config.Sizes), len(config.Order), config.Timeout, config.Runs)

	for _, size := range config.Sizes {
		logPath, err := generateLog(config.WorkDir, size)
		if err != nil {
			return nil, fmt.Errorf("failed to generate %d records: %w", size, err)
		}
		fmt.Printf("Benchmarking %s (%d records)\n", filepath.Base(logPath), size)

		for _, mode := range config.Order {
			results = append(results, runBenchmarkSuite(config, logPath, size, mode))
		}
	}

	return results, nil
}

// runBenchmarkSuite runs one mode several times and condenses the timings
func runBenchmarkSuite(config BenchmarkConfig, logPath string, size int, mode string) BenchmarkResult {
	args := append(append([]string{}, config.Modes[mode]...), logPath)
	cold, warm := runBenchmark(config, args)

	coldTime := "TIMEOUT"
	if cold > 0 {
		coldTime = fmt.Sprintf("%.3fs", cold)
	}
	warmTime := "TIMEOUT"
	if len(warm) > 0 {
		var sum float64
		for _, t := range warm {
			sum += t
		}
		warmTime = fmt.Sprintf("%.3fs", sum/float64(len(warm)))
	}

	fmt.Printf("  %-10s cold: %s, warm average: %s\n", mode, coldTime, warmTime)
	return BenchmarkResult{Records: size, Mode: mode, ColdTime: coldTime, WarmTime: warmTime}
}

// runBenchmark executes seisread several times and returns cold time and warm times
func runBenchmark(config BenchmarkConfig, args []string) (coldTime float64, warmTimes []float64) {
	var times []float64
	for run := 1; run <= config.Runs; run++ {
		start := time.Now()

		cmd := exec.Command("seisread", args...)
		cmd.Dir = config.WorkDir
		cmd.Stdout = nil // rows are discarded, only timing matters

		done := make(chan error, 1)
		if err := cmd.Start(); err != nil {
			continue
		}
		go func() { done <- cmd.Wait() }()

		select {
		case err := <-done:
			if err == nil {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			_ = cmd.Process.Kill()
			<-done
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/seisread_benchmark_%s.csv", timestamp)

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

	if err := writer.Write([]string{"records", "mode", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, result := range results {
		if err := writer.Write([]string{fmt.Sprint(result.Records), result.Mode, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results grouped by mode
func printSummary(config BenchmarkConfig, results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, mode := range config.Order {
		fmt.Printf("%s:\n", mode)
		for _, result := range results {
			if result.Mode == mode {
				fmt.Printf("  %9d records: Cold: %s, Warm: %s\n", result.Records, result.ColdTime, result.WarmTime)
			}
		}
	}
}
