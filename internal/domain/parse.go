package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	// ErrMalformedRecord covers wrong field counts and unparsable numeric fields.
	ErrMalformedRecord = errors.New("malformed record")
	// ErrUnknownKind is returned for a kind keyword outside the five known ones.
	ErrUnknownKind = errors.New("unknown transaction kind")
)

// Bounds on amount magnitude and precision. Exponent notation is accepted, so
// without them a short field such as 1e50000000 expands to millions of digits.
const (
	maxIntegerDigits  = 20
	maxFractionDigits = 28
)

// ParseError describes why a row of fields could not become a Record.
type ParseError struct {
	Fields []string
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%v: %s (%s)", e.Err, e.Reason, strings.Join(e.Fields, ","))
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func malformed(fields []string, format string, args ...any) error {
	return &ParseError{Fields: fields, Reason: fmt.Sprintf(format, args...), Err: ErrMalformedRecord}
}

// ParseKind maps an input keyword to its Kind. Matching is case-sensitive.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Parse builds a Record from the fields of one input row. The first field is
// the kind keyword. Surrounding whitespace is ignored on every field.
func Parse(fields []string) (Record, error) {
	if len(fields) == 0 {
		return Record{}, malformed(fields, "empty row")
	}

	trimmed := make([]string, len(fields))
	for i, f := range fields {
		trimmed[i] = strings.TrimSpace(f)
	}

	kind, err := ParseKind(trimmed[0])
	if err != nil {
		return Record{}, &ParseError{Fields: fields, Reason: "unknown kind " + strconv.Quote(trimmed[0]), Err: ErrUnknownKind}
	}

	if want := kind.fieldCount(); len(trimmed) != want {
		return Record{}, malformed(fields, "%s needs %d fields, got %d", kind, want, len(trimmed))
	}

	client, err := strconv.ParseUint(trimmed[1], 10, 16)
	if err != nil {
		return Record{}, malformed(fields, "client id %q", trimmed[1])
	}

	tx, err := strconv.ParseUint(trimmed[2], 10, 32)
	if err != nil {
		return Record{}, malformed(fields, "tx id %q", trimmed[2])
	}

	rec := Record{Kind: kind, Client: ClientID(client), Tx: TxID(tx)}
	if !kind.HasAmount() {
		return rec, nil
	}

	amount, err := decimal.NewFromString(trimmed[3])
	if err != nil {
		return Record{}, malformed(fields, "amount %q", trimmed[3])
	}
	if amount.IsNegative() {
		return Record{}, malformed(fields, "negative amount %s", trimmed[3])
	}
	if err := checkAmountRange(amount); err != nil {
		return Record{}, malformed(fields, "amount %q: %v", trimmed[3], err)
	}
	rec.Amount = amount

	return rec, nil
}

// checkAmountRange inspects only the exponent before counting digits, so an
// out-of-range value is never expanded.
func checkAmountRange(d decimal.Decimal) error {
	exp := d.Exponent()
	if exp < -maxFractionDigits {
		return fmt.Errorf("more than %d fractional digits", maxFractionDigits)
	}
	if exp > maxIntegerDigits || int(exp)+d.NumDigits() > maxIntegerDigits {
		return fmt.Errorf("more than %d integer digits", maxIntegerDigits)
	}
	return nil
}
