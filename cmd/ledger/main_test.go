package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const transactions = `type, client, tx, amount
deposit, 2, 3, 2.0
deposit, 1, 1, 10.0
deposit, 1, 2, 5.0
withdrawal, 1, 4, 20.0
dispute, 1, 1
chargeback, 1, 1
deposit, 1, 5, 1.0
dispute, 2, 1
`

func quietEnv(t *testing.T) {
	t.Helper()
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("DB_SOURCE", "")
	t.Setenv("ENVIRONMENT", "development")
}

func writeInput(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "transactions.csv")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestRunWritesSnapshot(t *testing.T) {
	quietEnv(t)
	in := writeInput(t, transactions)

	var stdout, stderr bytes.Buffer
	code := run([]string{in}, strings.NewReader(""), &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	want := "client,available,held,total,locked\n" +
		"1,5.0000,0.0000,5.0000,true\n" +
		"2,2.0000,0.0000,2.0000,false\n"
	assert.Equal(t, want, stdout.String())
}

func TestRunWritesSideOutputs(t *testing.T) {
	quietEnv(t)
	dir := t.TempDir()
	in := writeInput(t, transactions)
	out := filepath.Join(dir, "accounts.csv")
	rej := filepath.Join(dir, "rejections.csv")
	prom := filepath.Join(dir, "ledger.prom")

	var stdout, stderr bytes.Buffer
	code := run([]string{"-o", out, "-rejections", rej, "-metrics", prom, in}, strings.NewReader(""), &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())
	assert.Empty(t, stdout.String())

	accounts, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(accounts), "1,5.0000,0.0000,5.0000,true")

	rejections, err := os.ReadFile(rej)
	require.NoError(t, err)
	assert.Equal(t, "type,client,tx,amount,reason\n"+
		"withdrawal,1,4,20.0000,insufficient_funds\n"+
		"deposit,1,5,1.0000,account_locked\n"+
		"dispute,2,1,,client_mismatch\n", string(rejections))

	metrics, err := os.ReadFile(prom)
	require.NoError(t, err)
	assert.Contains(t, string(metrics), `ledger_rejections_total{reason="account_locked"} 1`)
	assert.Contains(t, string(metrics), "ledger_locked_accounts 1")
}

func TestRunReadsStdin(t *testing.T) {
	quietEnv(t)

	var stdout, stderr bytes.Buffer
	code := run([]string{"-"}, strings.NewReader("type,client,tx,amount\ndeposit,1,1,1\n"), &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())
	assert.Contains(t, stdout.String(), "1,1.0000,0.0000,1.0000,false")
}

func TestRunMalformedInputWritesNothing(t *testing.T) {
	quietEnv(t)
	in := writeInput(t, "type,client,tx,amount\ndeposit,1,1,1\ndeposit,1,x,1\n")

	var stdout, stderr bytes.Buffer
	code := run([]string{in}, strings.NewReader(""), &stdout, &stderr)
	assert.Equal(t, 1, code)
	assert.Empty(t, stdout.String())
}

func TestRunUsage(t *testing.T) {
	var stdout, stderr bytes.Buffer
	assert.Equal(t, 2, run(nil, strings.NewReader(""), &stdout, &stderr))
	assert.Contains(t, stderr.String(), "usage")

	in := filepath.Join(t.TempDir(), "missing.csv")
	quietEnv(t)
	assert.Equal(t, 1, run([]string{in}, strings.NewReader(""), &stdout, &stderr))
}

func TestRunRejectsSharedStdout(t *testing.T) {
	quietEnv(t)
	in := writeInput(t, transactions)

	var stdout, stderr bytes.Buffer
	code := run([]string{"-rejections", "-", in}, strings.NewReader(""), &stdout, &stderr)
	assert.Equal(t, 2, code)
	assert.Empty(t, stdout.String())
	assert.Contains(t, stderr.String(), "cannot both write to stdout")
}
