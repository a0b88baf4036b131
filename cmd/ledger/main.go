package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/punchamoorthee/ledgerreplay/internal/config"
	"github.com/punchamoorthee/ledgerreplay/internal/logging"
	"github.com/punchamoorthee/ledgerreplay/internal/metrics"
	"github.com/punchamoorthee/ledgerreplay/internal/report"
	"github.com/punchamoorthee/ledgerreplay/internal/service"
	"github.com/punchamoorthee/ledgerreplay/internal/store"
	"go.uber.org/zap"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, err := config.Load(args, os.Getenv, stderr)
	if err != nil {
		if !errors.Is(err, config.ErrUsage) {
			fmt.Fprintln(stderr, err)
		}
		return 2
	}

	logger, err := logging.New(logging.Config{Environment: logging.Environment(cfg.Env), Level: cfg.LogLevel})
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := replay(ctx, cfg, logger, stdin, stdout); err != nil {
		logger.Error("ledger run failed", zap.Error(err))
		return 1
	}
	return 0
}

func replay(ctx context.Context, cfg *config.Config, logger *zap.Logger, stdin io.Reader, stdout io.Writer) error {
	var src io.Reader = stdin
	if cfg.InputPath != "-" {
		f, err := os.Open(cfg.InputPath)
		if err != nil {
			return fmt.Errorf("open input: %w", err)
		}
		defer f.Close()
		src = f
	}

	recorder := metrics.New()

	var exporter service.Exporter
	if cfg.DBSource != "" {
		exp, err := store.NewExporter(ctx, cfg.DBSource)
		if err != nil {
			return err
		}
		defer exp.Close()
		if err := exp.EnsureSchema(ctx); err != nil {
			return err
		}
		exporter = exp
	}

	svc := service.NewReplayService(logger, recorder, exporter)
	res, err := svc.Run(ctx, src)
	if err != nil {
		return err
	}

	if err := writeFile(cfg.OutputPath, stdout, func(w io.Writer) error {
		return report.WriteSnapshot(w, res.Accounts)
	}); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}

	if cfg.RejectionsPath != "" {
		if err := writeFile(cfg.RejectionsPath, stdout, func(w io.Writer) error {
			return report.WriteRejections(w, res.Rejections)
		}); err != nil {
			return fmt.Errorf("write rejections: %w", err)
		}
	}

	if cfg.MetricsPath != "" {
		if err := recorder.WriteTextfile(cfg.MetricsPath); err != nil {
			return err
		}
	}
	return nil
}

// writeFile runs write against path, or against stdout when path is "-".
func writeFile(path string, stdout io.Writer, write func(io.Writer) error) error {
	if path == "-" {
		return write(stdout)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
