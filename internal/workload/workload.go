// Package workload generates synthetic transaction streams for load tests
// and fixtures.
package workload

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"math/rand"
	"strconv"

	"github.com/punchamoorthee/ledgerreplay/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	Uniform = "uniform"
	Hotspot = "hotspot"
)

// Config describes a stream. Client ids run from 1 to Clients.
type Config struct {
	Clients     int
	Count       int
	Seed        int64
	Kind        string  // Uniform or Hotspot
	DisputeRate float64 // share of deposits that are later disputed
}

func (c Config) validate() error {
	if c.Clients < 1 || c.Clients > math.MaxUint16 {
		return fmt.Errorf("clients must be between 1 and %d, got %d", math.MaxUint16, c.Clients)
	}
	if c.Count < 0 {
		return fmt.Errorf("count must not be negative, got %d", c.Count)
	}
	if c.Kind != Uniform && c.Kind != Hotspot {
		return fmt.Errorf("workload must be %s or %s, got %q", Uniform, Hotspot, c.Kind)
	}
	if c.DisputeRate < 0 || c.DisputeRate > 1 {
		return fmt.Errorf("dispute rate must be within [0, 1], got %v", c.DisputeRate)
	}
	return nil
}

type generator struct {
	cfg    Config
	rng    *rand.Rand
	nextTx domain.TxID
	// deposits that may still be disputed, and disputes still open
	deposits []domain.Record
	open     []domain.Record
}

// Generate returns cfg.Count well-formed records. Disputes, resolves and
// chargebacks only reference deposits generated earlier in the stream, so
// most records are accepted; withdrawals may still bounce on funds.
func Generate(cfg Config) ([]domain.Record, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	g := &generator{cfg: cfg, rng: rand.New(rand.NewSource(cfg.Seed)), nextTx: 1}
	out := make([]domain.Record, 0, cfg.Count)
	for len(out) < cfg.Count {
		out = append(out, g.next())
	}
	return out, nil
}

func (g *generator) client() domain.ClientID {
	// Hotspot: 90% of traffic goes to clients 1 and 2
	if g.cfg.Kind == Hotspot && g.cfg.Clients > 1 && g.rng.Float32() < 0.90 {
		return domain.ClientID(1 + g.rng.Intn(2))
	}
	return domain.ClientID(1 + g.rng.Intn(g.cfg.Clients))
}

func (g *generator) amount() decimal.Decimal {
	return decimal.New(g.rng.Int63n(1_000_000), -4)
}

func (g *generator) next() domain.Record {
	if len(g.open) > 0 && g.rng.Float64() < 0.5 {
		i := g.rng.Intn(len(g.open))
		rec := g.open[i]
		g.open = append(g.open[:i], g.open[i+1:]...)
		kind := domain.Resolve
		if g.rng.Float64() < 0.2 {
			kind = domain.Chargeback
		}
		return domain.Record{Kind: kind, Client: rec.Client, Tx: rec.Tx}
	}

	if len(g.deposits) > 0 && g.rng.Float64() < g.cfg.DisputeRate {
		i := g.rng.Intn(len(g.deposits))
		rec := g.deposits[i]
		g.deposits = append(g.deposits[:i], g.deposits[i+1:]...)
		g.open = append(g.open, rec)
		return domain.Record{Kind: domain.Dispute, Client: rec.Client, Tx: rec.Tx}
	}

	rec := domain.Record{Kind: domain.Deposit, Client: g.client(), Tx: g.nextTx, Amount: g.amount()}
	g.nextTx++
	if g.rng.Float64() < 0.3 {
		rec.Kind = domain.Withdrawal
		return rec
	}
	g.deposits = append(g.deposits, rec)
	return rec
}

// WriteCSV writes records in the input format read by the ledger command.
func WriteCSV(w io.Writer, records []domain.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"type", "client", "tx", "amount"}); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{
			r.Kind.String(),
			strconv.FormatUint(uint64(r.Client), 10),
			strconv.FormatUint(uint64(r.Tx), 10),
		}
		if r.HasAmount() {
			row = append(row, r.Amount.String())
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
