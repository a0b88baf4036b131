package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Kind identifies one of the five transaction types found in the input stream.
type Kind uint8

const (
	Deposit Kind = iota + 1
	Withdrawal
	Dispute
	Resolve
	Chargeback
)

var kindNames = map[Kind]string{
	Deposit:    "deposit",
	Withdrawal: "withdrawal",
	Dispute:    "dispute",
	Resolve:    "resolve",
	Chargeback: "chargeback",
}

// String returns the keyword used for the kind in input files.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Valid reports whether k is one of the five known kinds.
func (k Kind) Valid() bool {
	_, ok := kindNames[k]
	return ok
}

// HasAmount reports whether records of this kind carry an amount field.
func (k Kind) HasAmount() bool {
	return k == Deposit || k == Withdrawal
}

// fieldCount is the number of CSV fields a record of this kind must have.
func (k Kind) fieldCount() int {
	if k.HasAmount() {
		return 4
	}
	return 3
}

// ClientID identifies an account.
type ClientID uint16

// TxID identifies a deposit or withdrawal. Disputes, resolves and
// chargebacks reuse the id of the deposit they refer to.
type TxID uint32

// Record is one parsed input event.
// Amount is zero and meaningless unless Kind.HasAmount() is true.
type Record struct {
	Kind   Kind            `json:"type"`
	Client ClientID        `json:"client"`
	Tx     TxID            `json:"tx"`
	Amount decimal.Decimal `json:"amount"`
}

// HasAmount reports whether the record carries an amount.
func (r Record) HasAmount() bool {
	return r.Kind.HasAmount()
}

// AccountSnapshot is the reported state of one client account.
// Total always equals Available + Held.
type AccountSnapshot struct {
	Client    ClientID        `json:"client"`
	Available decimal.Decimal `json:"available"`
	Held      decimal.Decimal `json:"held"`
	Total     decimal.Decimal `json:"total"`
	Locked    bool            `json:"locked"`
}
