// Package report renders the final account snapshot and the rejection log.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/punchamoorthee/ledgerreplay/internal/domain"
	"github.com/punchamoorthee/ledgerreplay/internal/ledger"
)

// Precision is the number of fractional digits printed for amounts.
const Precision = 4

var (
	snapshotHeader  = []string{"client", "available", "held", "total", "locked"}
	rejectionHeader = []string{"type", "client", "tx", "amount", "reason"}
)

// WriteSnapshot writes one row per account.
func WriteSnapshot(w io.Writer, accounts []domain.AccountSnapshot) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(snapshotHeader); err != nil {
		return fmt.Errorf("write snapshot header: %w", err)
	}
	for _, a := range accounts {
		row := []string{
			strconv.FormatUint(uint64(a.Client), 10),
			a.Available.StringFixed(Precision),
			a.Held.StringFixed(Precision),
			a.Total.StringFixed(Precision),
			strconv.FormatBool(a.Locked),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write account %d: %w", a.Client, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteRejections writes the rejection log in input order. The amount column
// is empty for kinds that carry no amount.
func WriteRejections(w io.Writer, rejections []ledger.Rejection) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(rejectionHeader); err != nil {
		return fmt.Errorf("write rejection header: %w", err)
	}
	for _, r := range rejections {
		amount := ""
		if r.Record.HasAmount() {
			amount = r.Record.Amount.StringFixed(Precision)
		}
		row := []string{
			r.Record.Kind.String(),
			strconv.FormatUint(uint64(r.Record.Client), 10),
			strconv.FormatUint(uint64(r.Record.Tx), 10),
			amount,
			ledger.ReasonCode(r.Reason),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write rejection for tx %d: %w", r.Record.Tx, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
