// Package ledger replays transaction records against client accounts,
// enforcing balance rules and the dispute lifecycle.
//
// An Engine is owned by a single caller and is not safe for concurrent use:
// records are applied strictly one at a time, in input order.
package ledger

import (
	"fmt"
	"sort"

	"github.com/punchamoorthee/ledgerreplay/internal/domain"
	"go.uber.org/zap"
)

// DisputeStatus tracks a disputed deposit. Pending moves to Resolved or
// ChargedBack; both of those are terminal.
type DisputeStatus uint8

const (
	Pending DisputeStatus = iota + 1
	Resolved
	ChargedBack
)

func (s DisputeStatus) String() string {
	switch s {
	case Pending:
		return "pending"
	case Resolved:
		return "resolved"
	case ChargedBack:
		return "charged_back"
	default:
		return fmt.Sprintf("status(%d)", uint8(s))
	}
}

// Rejection is one entry of the rejection log.
type Rejection struct {
	Record domain.Record
	Reason error
}

// Recorder observes the outcome of every applied record.
type Recorder interface {
	Accepted(kind domain.Kind)
	Rejected(kind domain.Kind, reason string)
}

type nopRecorder struct{}

func (nopRecorder) Accepted(domain.Kind)         {}
func (nopRecorder) Rejected(domain.Kind, string) {}

// Stats counts applied records by outcome.
type Stats struct {
	Accepted int
	Rejected int
}

// Engine owns all ledger state for one run.
type Engine struct {
	accounts    map[domain.ClientID]*Account
	deposits    map[domain.TxID]domain.Record
	withdrawals map[domain.TxID]domain.Record
	disputes    map[domain.TxID]DisputeStatus
	rejections  []Rejection
	accepted    int

	logger   *zap.Logger
	recorder Recorder
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used to report rejections at debug level.
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithRecorder sets the observer notified of every outcome.
func WithRecorder(r Recorder) Option {
	return func(e *Engine) {
		if r != nil {
			e.recorder = r
		}
	}
}

// New returns an empty Engine.
func New(opts ...Option) *Engine {
	e := &Engine{
		accounts:    make(map[domain.ClientID]*Account),
		deposits:    make(map[domain.TxID]domain.Record),
		withdrawals: make(map[domain.TxID]domain.Record),
		disputes:    make(map[domain.TxID]DisputeStatus),
		logger:      zap.NewNop(),
		recorder:    nopRecorder{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Apply processes one record. It returns nil when the record was accepted,
// or the rejection reason after appending the record to the rejection log.
// A rejected record never changes balances.
func (e *Engine) Apply(rec domain.Record) error {
	if !rec.Kind.Valid() {
		// Records come from domain.Parse, so this only guards hand-built values.
		panic(fmt.Sprintf("ledger: unhandled kind %v", rec.Kind))
	}
	acct := e.account(rec.Client)

	var err error
	switch rec.Kind {
	case domain.Deposit:
		err = e.deposit(acct, rec)
	case domain.Withdrawal:
		err = e.withdraw(acct, rec)
	case domain.Dispute:
		err = e.dispute(acct, rec)
	case domain.Resolve:
		err = e.settle(acct, rec, Resolved)
	case domain.Chargeback:
		err = e.settle(acct, rec, ChargedBack)
	}

	if err != nil {
		e.reject(rec, err)
		return err
	}

	e.accepted++
	e.recorder.Accepted(rec.Kind)
	return nil
}

// ApplyAll applies records in order and returns how many were accepted.
func (e *Engine) ApplyAll(records []domain.Record) int {
	n := 0
	for _, rec := range records {
		if e.Apply(rec) == nil {
			n++
		}
	}
	return n
}

func (e *Engine) deposit(acct *Account, rec domain.Record) error {
	if acct.locked {
		return ErrAccountLocked
	}
	if _, ok := e.deposits[rec.Tx]; ok {
		return ErrDuplicateTransactionID
	}

	acct.deposit(rec.Amount)
	e.deposits[rec.Tx] = rec
	return nil
}

func (e *Engine) withdraw(acct *Account, rec domain.Record) error {
	if acct.locked {
		return ErrAccountLocked
	}
	if _, ok := e.withdrawals[rec.Tx]; ok {
		return ErrDuplicateTransactionID
	}
	if !acct.withdraw(rec.Amount) {
		return ErrInsufficientFunds
	}

	e.withdrawals[rec.Tx] = rec
	return nil
}

func (e *Engine) dispute(acct *Account, rec domain.Record) error {
	if acct.locked {
		return ErrAccountLocked
	}
	if _, ok := e.disputes[rec.Tx]; ok {
		return ErrDuplicateTransactionID
	}
	dep, ok := e.deposits[rec.Tx]
	if !ok {
		return ErrDepositNotFound
	}
	if dep.Client != rec.Client {
		return ErrClientMismatch
	}

	acct.hold(dep.Amount)
	e.disputes[rec.Tx] = Pending
	return nil
}

// settle closes a pending dispute as either Resolved or ChargedBack.
func (e *Engine) settle(acct *Account, rec domain.Record, outcome DisputeStatus) error {
	if acct.locked {
		return ErrAccountLocked
	}
	status, ok := e.disputes[rec.Tx]
	if !ok {
		return ErrDisputeNotFound
	}
	dep, ok := e.deposits[rec.Tx]
	if !ok {
		return ErrDepositNotFound
	}
	if dep.Client != rec.Client {
		return ErrClientMismatch
	}
	if status != Pending {
		return ErrDisputeNotPending
	}

	if outcome == ChargedBack {
		acct.chargeback(dep.Amount)
	} else {
		acct.release(dep.Amount)
	}
	e.disputes[rec.Tx] = outcome
	return nil
}

func (e *Engine) reject(rec domain.Record, reason error) {
	e.rejections = append(e.rejections, Rejection{Record: rec, Reason: reason})

	code := ReasonCode(reason)
	e.recorder.Rejected(rec.Kind, code)
	e.logger.Debug("transaction rejected",
		zap.Stringer("kind", rec.Kind),
		zap.Uint16("client", uint16(rec.Client)),
		zap.Uint32("tx", uint32(rec.Tx)),
		zap.String("reason", code),
	)
}

// account returns the client's account, creating it on first reference.
func (e *Engine) account(client domain.ClientID) *Account {
	acct, ok := e.accounts[client]
	if !ok {
		acct = &Account{}
		e.accounts[client] = acct
	}
	return acct
}

// Account returns the current state of one client account.
func (e *Engine) Account(client domain.ClientID) (domain.AccountSnapshot, bool) {
	acct, ok := e.accounts[client]
	if !ok {
		return domain.AccountSnapshot{}, false
	}
	return acct.snapshot(client), true
}

// Snapshot returns every account, ordered by client id.
func (e *Engine) Snapshot() []domain.AccountSnapshot {
	out := make([]domain.AccountSnapshot, 0, len(e.accounts))
	for client, acct := range e.accounts {
		out = append(out, acct.snapshot(client))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Client < out[j].Client })
	return out
}

// Rejections returns a copy of the rejection log in input order.
func (e *Engine) Rejections() []Rejection {
	out := make([]Rejection, len(e.rejections))
	copy(out, e.rejections)
	return out
}

// DisputeStatus reports the dispute state of a deposit, if it was ever disputed.
func (e *Engine) DisputeStatus(tx domain.TxID) (DisputeStatus, bool) {
	s, ok := e.disputes[tx]
	return s, ok
}

// Stats returns the number of accepted and rejected records so far.
func (e *Engine) Stats() Stats {
	return Stats{Accepted: e.accepted, Rejected: len(e.rejections)}
}
