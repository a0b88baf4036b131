// Package ingest turns a delimited transaction file into domain records.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/punchamoorthee/ledgerreplay/internal/domain"
)

// Reader yields records from a CSV stream whose first row is a label row.
type Reader struct {
	csv        *csv.Reader
	headerDone bool
}

func NewReader(r io.Reader) *Reader {
	cr := csv.NewReader(r)
	// Field counts differ per kind; domain.Parse validates them.
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	return &Reader{csv: cr}
}

// Next returns the next record, or io.EOF once the input is exhausted.
// Any other error is a hard input failure.
func (r *Reader) Next() (domain.Record, error) {
	if !r.headerDone {
		r.headerDone = true
		if _, err := r.csv.Read(); err != nil {
			if errors.Is(err, io.EOF) {
				return domain.Record{}, io.EOF
			}
			return domain.Record{}, fmt.Errorf("read header: %w", err)
		}
	}

	fields, err := r.csv.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return domain.Record{}, io.EOF
		}
		return domain.Record{}, fmt.Errorf("read record: %w", err)
	}

	rec, err := domain.Parse(fields)
	if err != nil {
		line, _ := r.csv.FieldPos(0)
		return domain.Record{}, fmt.Errorf("line %d: %w", line, err)
	}
	return rec, nil
}

// ReadAll reads every record. It fails on the first malformed row and then
// returns no records at all.
func ReadAll(r io.Reader) ([]domain.Record, error) {
	reader := NewReader(r)
	var out []domain.Record
	for {
		rec, err := reader.Next()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
}
