package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/punchamoorthee/ledgerreplay/internal/domain"
	"github.com/punchamoorthee/ledgerreplay/internal/ingest"
	"github.com/punchamoorthee/ledgerreplay/internal/ledger"
	"github.com/punchamoorthee/ledgerreplay/internal/store"
	"go.uber.org/zap"
)

// Recorder is the metrics sink for a replay.
type Recorder interface {
	ledger.Recorder
	ObserveSnapshot(accounts []domain.AccountSnapshot, elapsed time.Duration)
}

// Exporter receives a finished run.
type Exporter interface {
	Export(ctx context.Context, run store.Run) error
}

// Result is the outcome of a complete replay.
type Result struct {
	RunID      uuid.UUID
	Records    int
	Accepted   int
	Accounts   []domain.AccountSnapshot
	Rejections []ledger.Rejection
	Elapsed    time.Duration
}

type ReplayService struct {
	logger   *zap.Logger
	recorder Recorder
	exporter Exporter
}

// NewReplayService wires the optional collaborators of a replay.
// A nil recorder or exporter disables that concern.
func NewReplayService(logger *zap.Logger, recorder Recorder, exporter Exporter) *ReplayService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReplayService{logger: logger, recorder: recorder, exporter: exporter}
}

// Run replays every record of src against a fresh ledger. A malformed or
// unreadable input, or a cancelled ctx, aborts the run and yields no result.
func (s *ReplayService) Run(ctx context.Context, src io.Reader) (*Result, error) {
	start := time.Now()
	runID := uuid.New()
	logger := s.logger.With(zap.Stringer("run_id", runID))

	opts := []ledger.Option{ledger.WithLogger(logger)}
	if s.recorder != nil {
		opts = append(opts, ledger.WithRecorder(s.recorder))
	}
	engine := ledger.New(opts...)

	reader := ingest.NewReader(src)
	records := 0
	for {
		if err := ctx.Err(); err != nil {
			logger.Warn("replay cancelled, run aborted", zap.Int("records", records), zap.Error(err))
			return nil, fmt.Errorf("replay cancelled: %w", err)
		}

		rec, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			logger.Error("input rejected, run aborted", zap.Int("records", records), zap.Error(err))
			return nil, fmt.Errorf("ingest: %w", err)
		}
		records++
		_ = engine.Apply(rec)
	}

	stats := engine.Stats()
	res := &Result{
		RunID:      runID,
		Records:    records,
		Accepted:   stats.Accepted,
		Accounts:   engine.Snapshot(),
		Rejections: engine.Rejections(),
		Elapsed:    time.Since(start),
	}

	if s.recorder != nil {
		s.recorder.ObserveSnapshot(res.Accounts, res.Elapsed)
	}

	logger.Info("replay finished",
		zap.Int("records", res.Records),
		zap.Int("accepted", stats.Accepted),
		zap.Int("rejected", stats.Rejected),
		zap.Int("accounts", len(res.Accounts)),
		zap.Duration("elapsed", res.Elapsed),
	)

	if s.exporter != nil {
		run := store.Run{
			ID:         res.RunID,
			Records:    res.Records,
			Accepted:   res.Accepted,
			FinishedAt: time.Now().UTC(),
			Accounts:   res.Accounts,
			Rejections: res.Rejections,
		}
		if err := s.exporter.Export(ctx, run); err != nil {
			return nil, fmt.Errorf("export run %s: %w", runID, err)
		}
		logger.Info("run exported")
	}

	return res, nil
}
