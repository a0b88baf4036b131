package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/punchamoorthee/ledgerreplay/internal/ledger"
	"github.com/punchamoorthee/ledgerreplay/internal/workload"
)

// Config holds the benchmark settings
var (
	cfg  workload.Config
	runs int
)

func init() {
	flag.IntVar(&cfg.Clients, "clients", 1000, "Number of distinct clients")
	flag.IntVar(&cfg.Count, "count", 1_000_000, "Transactions per run")
	flag.Int64Var(&cfg.Seed, "seed", 1, "Random seed")
	flag.StringVar(&cfg.Kind, "workload", workload.Uniform, "Workload type: uniform | hotspot")
	flag.Float64Var(&cfg.DisputeRate, "dispute-rate", 0.05, "Share of deposits that get disputed")
	flag.IntVar(&runs, "runs", 5, "Number of replays of the same workload")
}

func main() {
	flag.Parse()

	if runs < 1 || cfg.Count < 1 {
		fmt.Fprintln(os.Stderr, "runs and count must be positive")
		os.Exit(2)
	}

	records, err := workload.Generate(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	var (
		elapsed  time.Duration
		rejected int
	)
	for i := 0; i < runs; i++ {
		e := ledger.New()
		start := time.Now()
		e.ApplyAll(records)
		elapsed += time.Since(start)
		rejected = e.Stats().Rejected
	}

	total := len(records) * runs
	results := map[string]interface{}{
		"workload":       cfg.Kind,
		"records":        len(records),
		"runs":           runs,
		"duration_sec":   elapsed.Seconds(),
		"throughput_tps": float64(total) / elapsed.Seconds(),
		"rejected":       rejected,
		"reject_rate":    float64(rejected) / float64(len(records)) * 100,
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.Encode(results)

	// Also save to file
	filename := fmt.Sprintf("results_%s.json", cfg.Kind)
	file, err := os.Create(filename)
	if err != nil {
		return
	}
	defer file.Close()
	json.NewEncoder(file).Encode(results)
}
