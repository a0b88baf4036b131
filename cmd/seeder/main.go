package main

import (
	"bufio"
	"flag"
	"os"

	"github.com/punchamoorthee/ledgerreplay/internal/logging"
	"github.com/punchamoorthee/ledgerreplay/internal/workload"
	"go.uber.org/zap"
)

func main() {
	var (
		out string
		cfg workload.Config
	)
	flag.StringVar(&out, "out", "transactions.csv", "output path, - for stdout")
	flag.IntVar(&cfg.Clients, "clients", 1000, "number of distinct clients")
	flag.IntVar(&cfg.Count, "count", 100000, "number of transactions")
	flag.Int64Var(&cfg.Seed, "seed", 1, "random seed")
	flag.StringVar(&cfg.Kind, "workload", workload.Uniform, "workload type: uniform | hotspot")
	flag.Float64Var(&cfg.DisputeRate, "dispute-rate", 0.05, "share of deposits that get disputed")
	flag.Parse()

	logger, err := logging.New(logging.Config{Environment: logging.EnvironmentDevelopment, Level: os.Getenv("LOG_LEVEL")})
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	logger.Info("generating transactions",
		zap.Int("count", cfg.Count),
		zap.Int("clients", cfg.Clients),
		zap.String("workload", cfg.Kind),
	)

	records, err := workload.Generate(cfg)
	if err != nil {
		logger.Fatal("invalid workload", zap.Error(err))
	}

	f := os.Stdout
	if out != "-" {
		f, err = os.Create(out)
		if err != nil {
			logger.Fatal("unable to create output", zap.Error(err))
		}
		defer f.Close()
	}

	w := bufio.NewWriter(f)
	if err := workload.WriteCSV(w, records); err != nil {
		logger.Fatal("write failed", zap.Error(err))
	}
	if err := w.Flush(); err != nil {
		logger.Fatal("write failed", zap.Error(err))
	}

	logger.Info("transactions written", zap.String("out", out), zap.Int("records", len(records)))
}
