package ingest

import (
	"io"
	"strings"
	"testing"

	"github.com/punchamoorthee/ledgerreplay/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadAll(t *testing.T) {
	input := `type,client,tx,amount
deposit, 1, 1, 1.0
deposit,2,2,2.0

withdrawal, 1, 4, 1.5
dispute, 1, 1
resolve,1,1
chargeback,2,2
`
	records, err := ReadAll(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 6)

	kinds := make([]domain.Kind, len(records))
	for i, r := range records {
		kinds[i] = r.Kind
	}
	assert.Equal(t, []domain.Kind{
		domain.Deposit, domain.Deposit, domain.Withdrawal,
		domain.Dispute, domain.Resolve, domain.Chargeback,
	}, kinds)
	assert.Equal(t, "1.5", records[2].Amount.String())
	assert.Equal(t, domain.ClientID(1), records[2].Client)
	assert.Equal(t, domain.TxID(4), records[2].Tx)
}

func TestHeaderOnly(t *testing.T) {
	records, err := ReadAll(strings.NewReader("type,client,tx,amount\n"))
	require.NoError(t, err)
	assert.Empty(t, records)

	records, err = ReadAll(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestFirstRowAlwaysDropped(t *testing.T) {
	records, err := ReadAll(strings.NewReader("deposit,1,1,1.0\ndeposit,1,2,2.0\n"))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, domain.TxID(2), records[0].Tx)
}

func TestMalformedAbortsRun(t *testing.T) {
	input := "type,client,tx,amount\ndeposit,1,1,1.0\ndeposit,1,2\ndeposit,1,3,1.0\n"

	records, err := ReadAll(strings.NewReader(input))
	require.Error(t, err)
	assert.Nil(t, records)
	assert.ErrorIs(t, err, domain.ErrMalformedRecord)
	assert.Contains(t, err.Error(), "line 3")
}

func TestUnknownKind(t *testing.T) {
	_, err := ReadAll(strings.NewReader("type,client,tx,amount\nrefund,1,1,1.0\n"))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnknownKind)
}

func TestNextStreams(t *testing.T) {
	r := NewReader(strings.NewReader("type,client,tx,amount\ndeposit,7,1,3\n"))

	rec, err := r.Next()
	require.NoError(t, err)
	assert.Equal(t, domain.ClientID(7), rec.Client)

	_, err = r.Next()
	assert.ErrorIs(t, err, io.EOF)
}

func TestBrokenQuoting(t *testing.T) {
	_, err := ReadAll(strings.NewReader("type,client,tx,amount\n\"deposit,1,1,1.0\n"))
	require.Error(t, err)
}
