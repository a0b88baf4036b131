package ledger

import (
	"github.com/punchamoorthee/ledgerreplay/internal/domain"
	"github.com/shopspring/decimal"
)

// Account holds the balances of one client.
// Every mutator keeps total == available + held.
type Account struct {
	available decimal.Decimal
	held      decimal.Decimal
	total     decimal.Decimal
	locked    bool
}

func (a *Account) deposit(amount decimal.Decimal) {
	a.available = a.available.Add(amount)
	a.total = a.total.Add(amount)
}

// withdraw reports false and leaves the account unchanged when funds are short.
func (a *Account) withdraw(amount decimal.Decimal) bool {
	if amount.GreaterThan(a.available) {
		return false
	}
	a.available = a.available.Sub(amount)
	a.total = a.total.Sub(amount)
	return true
}

func (a *Account) hold(amount decimal.Decimal) {
	a.available = a.available.Sub(amount)
	a.held = a.held.Add(amount)
}

func (a *Account) release(amount decimal.Decimal) {
	a.available = a.available.Add(amount)
	a.held = a.held.Sub(amount)
}

func (a *Account) chargeback(amount decimal.Decimal) {
	a.held = a.held.Sub(amount)
	a.total = a.total.Sub(amount)
	a.locked = true
}

func (a *Account) snapshot(client domain.ClientID) domain.AccountSnapshot {
	return domain.AccountSnapshot{
		Client:    client,
		Available: a.available,
		Held:      a.held,
		Total:     a.total,
		Locked:    a.locked,
	}
}
