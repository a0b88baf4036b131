package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/punchamoorthee/ledgerreplay/internal/domain"
	"github.com/punchamoorthee/ledgerreplay/internal/ledger"
	"github.com/shopspring/decimal"
)

const schema = `
CREATE TABLE IF NOT EXISTS ledger_runs (
	run_id      UUID PRIMARY KEY,
	records     INTEGER NOT NULL,
	accepted    INTEGER NOT NULL,
	rejected    INTEGER NOT NULL,
	finished_at TIMESTAMPTZ NOT NULL
);
CREATE TABLE IF NOT EXISTS ledger_accounts (
	run_id    UUID NOT NULL REFERENCES ledger_runs (run_id),
	client_id INTEGER NOT NULL,
	available NUMERIC(24, 4) NOT NULL,
	held      NUMERIC(24, 4) NOT NULL,
	total     NUMERIC(24, 4) NOT NULL,
	locked    BOOLEAN NOT NULL,
	PRIMARY KEY (run_id, client_id)
);
CREATE TABLE IF NOT EXISTS ledger_rejections (
	run_id    UUID NOT NULL REFERENCES ledger_runs (run_id),
	position  INTEGER NOT NULL,
	kind      TEXT NOT NULL,
	client_id INTEGER NOT NULL,
	tx_id     BIGINT NOT NULL,
	amount    NUMERIC(24, 4),
	reason    TEXT NOT NULL,
	PRIMARY KEY (run_id, position)
);`

var (
	accountColumns   = []string{"run_id", "client_id", "available", "held", "total", "locked"}
	rejectionColumns = []string{"run_id", "position", "kind", "client_id", "tx_id", "amount", "reason"}
)

// Run is a finished replay as it is exported.
type Run struct {
	ID         uuid.UUID
	Records    int
	Accepted   int
	FinishedAt time.Time
	Accounts   []domain.AccountSnapshot
	Rejections []ledger.Rejection
}

// DB is the subset of *pgxpool.Pool used by the exporter.
type DB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Close()
}

// Exporter copies finished runs into PostgreSQL. It never reads them back.
type Exporter struct {
	db DB
}

// NewExporter connects to the database described by connString.
func NewExporter(ctx context.Context, connString string) (*Exporter, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database config: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	return NewExporterWithDB(pool), nil
}

// NewExporterWithDB wraps an existing pool.
func NewExporterWithDB(db DB) *Exporter {
	return &Exporter{db: db}
}

func (e *Exporter) Close() {
	e.db.Close()
}

// EnsureSchema creates the export tables if they are missing.
func (e *Exporter) EnsureSchema(ctx context.Context) error {
	tx, err := e.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("tx begin failed: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create schema failed: %w", err)
	}
	return tx.Commit(ctx)
}

// Export writes the run header, its accounts and its rejections in a single
// transaction. Nothing is written if any step fails.
func (e *Exporter) Export(ctx context.Context, run Run) error {
	tx, err := e.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("tx begin failed: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		"INSERT INTO ledger_runs (run_id, records, accepted, rejected, finished_at) VALUES ($1, $2, $3, $4, $5)",
		run.ID, run.Records, run.Accepted, len(run.Rejections), run.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("run insert failed: %w", err)
	}

	if _, err := tx.CopyFrom(ctx, pgx.Identifier{"ledger_accounts"}, accountColumns, pgx.CopyFromRows(accountRows(run))); err != nil {
		return fmt.Errorf("account copy failed: %w", err)
	}

	if _, err := tx.CopyFrom(ctx, pgx.Identifier{"ledger_rejections"}, rejectionColumns, pgx.CopyFromRows(rejectionRows(run))); err != nil {
		return fmt.Errorf("rejection copy failed: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("tx commit failed: %w", err)
	}
	return nil
}

func accountRows(run Run) [][]any {
	rows := make([][]any, 0, len(run.Accounts))
	for _, a := range run.Accounts {
		rows = append(rows, []any{
			run.ID,
			int32(a.Client),
			numeric(a.Available),
			numeric(a.Held),
			numeric(a.Total),
			a.Locked,
		})
	}
	return rows
}

func rejectionRows(run Run) [][]any {
	rows := make([][]any, 0, len(run.Rejections))
	for i, r := range run.Rejections {
		var amount any
		if r.Record.HasAmount() {
			amount = numeric(r.Record.Amount)
		}
		rows = append(rows, []any{
			run.ID,
			int32(i + 1),
			r.Record.Kind.String(),
			int32(r.Record.Client),
			int64(r.Record.Tx),
			amount,
			ledger.ReasonCode(r.Reason),
		})
	}
	return rows
}

// numeric converts an amount to the exported NUMERIC(24, 4) precision.
func numeric(d decimal.Decimal) pgtype.Numeric {
	d = d.Round(4)
	return pgtype.Numeric{Int: d.Coefficient(), Exp: d.Exponent(), Valid: true}
}
