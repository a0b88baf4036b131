package ledger

import "errors"

// Business rejections. A rejected transaction leaves the ledger untouched and
// is appended to the rejection log; processing then moves on.
var (
	ErrAccountLocked          = errors.New("account locked")
	ErrDuplicateTransactionID = errors.New("duplicate transaction id")
	ErrInsufficientFunds      = errors.New("insufficient funds")
	ErrDepositNotFound        = errors.New("referenced deposit not found")
	ErrClientMismatch         = errors.New("client id does not match deposit")
	ErrDisputeNotFound        = errors.New("dispute not found")
	ErrDisputeNotPending      = errors.New("dispute not pending")
)

// ReasonCode returns the stable code used for a rejection in reports, logs
// and metric labels.
func ReasonCode(err error) string {
	switch {
	case errors.Is(err, ErrAccountLocked):
		return "account_locked"
	case errors.Is(err, ErrDuplicateTransactionID):
		return "duplicate_transaction_id"
	case errors.Is(err, ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, ErrDepositNotFound):
		return "referenced_deposit_not_found"
	case errors.Is(err, ErrClientMismatch):
		return "client_mismatch"
	case errors.Is(err, ErrDisputeNotFound):
		return "dispute_not_found"
	case errors.Is(err, ErrDisputeNotPending):
		return "dispute_not_pending"
	default:
		return "unknown"
	}
}
