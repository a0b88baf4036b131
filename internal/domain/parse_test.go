package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name   string
		fields []string
		want   Record
	}{
		{
			name:   "deposit",
			fields: []string{"deposit", "1", "1", "1.5"},
			want:   Record{Kind: Deposit, Client: 1, Tx: 1, Amount: decimal.RequireFromString("1.5")},
		},
		{
			name:   "withdrawal with padding",
			fields: []string{"withdrawal", " 2", " 7 ", " 0.0001"},
			want:   Record{Kind: Withdrawal, Client: 2, Tx: 7, Amount: decimal.RequireFromString("0.0001")},
		},
		{
			name:   "zero amount",
			fields: []string{"deposit", "3", "4", "0"},
			want:   Record{Kind: Deposit, Client: 3, Tx: 4, Amount: decimal.Zero},
		},
		{
			name:   "exponent notation",
			fields: []string{"deposit", "1", "2", "1e9"},
			want:   Record{Kind: Deposit, Client: 1, Tx: 2, Amount: decimal.RequireFromString("1000000000")},
		},
		{
			name:   "widest accepted amount",
			fields: []string{"deposit", "1", "3", "99999999999999999999.0000000000000000000000000001"},
			want:   Record{Kind: Deposit, Client: 1, Tx: 3, Amount: decimal.RequireFromString("99999999999999999999.0000000000000000000000000001")},
		},
		{
			name:   "dispute",
			fields: []string{"dispute", "1", "1"},
			want:   Record{Kind: Dispute, Client: 1, Tx: 1},
		},
		{
			name:   "resolve",
			fields: []string{"resolve", "65535", "4294967295"},
			want:   Record{Kind: Resolve, Client: 65535, Tx: 4294967295},
		},
		{
			name:   "chargeback",
			fields: []string{"chargeback", "9", "10"},
			want:   Record{Kind: Chargeback, Client: 9, Tx: 10},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.fields)
			require.NoError(t, err)
			assert.Equal(t, tt.want.Kind, got.Kind)
			assert.Equal(t, tt.want.Client, got.Client)
			assert.Equal(t, tt.want.Tx, got.Tx)
			assert.True(t, tt.want.Amount.Equal(got.Amount), "amount %s != %s", got.Amount, tt.want.Amount)
		})
	}
}

func TestParseMalformed(t *testing.T) {
	tests := map[string][]string{
		"empty row":                {},
		"deposit missing amount":   {"deposit", "1", "1"},
		"deposit extra field":      {"deposit", "1", "1", "1.0", "x"},
		"dispute with amount":      {"dispute", "1", "1", "1.0"},
		"resolve short":            {"resolve", "1"},
		"negative client":          {"deposit", "-1", "1", "1.0"},
		"client out of range":      {"deposit", "65536", "1", "1.0"},
		"tx out of range":          {"deposit", "1", "4294967296", "1.0"},
		"tx not a number":          {"chargeback", "1", "abc"},
		"amount not a number":      {"withdrawal", "1", "1", "ten"},
		"negative amount":          {"deposit", "1", "1", "-0.5"},
		"empty amount":             {"deposit", "1", "1", ""},
		"trailing empty on claim":  {"dispute", "1", "1", ""},
		"too many integer digits":  {"deposit", "1", "1", "100000000000000000000"},
		"exponent too large":       {"deposit", "1", "1", "1e21"},
		"huge exponent":            {"deposit", "1", "1", "1e50000000"},
		"max int32 exponent":       {"deposit", "1", "1", "1e2000000000"},
		"too many fraction digits": {"withdrawal", "1", "1", "0.00000000000000000000000000001"},
		"tiny exponent":            {"deposit", "1", "1", "1e-50000000"},
	}

	for name, fields := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(fields)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformedRecord)
			assert.NotErrorIs(t, err, ErrUnknownKind)
		})
	}
}

func TestParseUnknownKind(t *testing.T) {
	for _, kw := range []string{"Deposit", "DEPOSIT", "transfer", ""} {
		_, err := Parse([]string{kw, "1", "1", "1.0"})
		require.Error(t, err, kw)
		assert.ErrorIs(t, err, ErrUnknownKind, kw)

		var perr *ParseError
		require.ErrorAs(t, err, &perr)
		assert.Equal(t, []string{kw, "1", "1", "1.0"}, perr.Fields)
	}
}

func TestKindString(t *testing.T) {
	for k, name := range kindNames {
		got, err := ParseKind(name)
		require.NoError(t, err)
		assert.Equal(t, k, got)
		assert.Equal(t, name, k.String())
	}
	assert.Equal(t, "kind(42)", Kind(42).String())
	assert.False(t, Kind(42).Valid())
	assert.False(t, Kind(0).Valid())
	assert.True(t, Resolve.Valid())
	assert.True(t, Deposit.HasAmount())
	assert.True(t, Withdrawal.HasAmount())
	assert.False(t, Chargeback.HasAmount())
}
