// Package ingest reads NYC taxi trip CSV files row by row.
//
// Every row yields a Result: either a parsed record or a *ParseError the
// caller counts and moves past. Only I/O failures stop a scan.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
)

// ErrShortRow is wrapped by ParseError when a row lacks a required column
var ErrShortRow = errors.New("row has too few columns")

// ParseError describes why a single row was skipped
type ParseError struct {
	Line   int
	Column int
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Column < 0 {
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("line %d, column %d (%q): %v", e.Line, e.Column, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Result is the outcome of one data row
type Result[T any] struct {
	Record T
	Err    *ParseError
}

// OK reports whether the row parsed
func (r Result[T]) OK() bool {
	return r.Err == nil
}

// RowParser converts the fields of one CSV row; line is 1-based in the file
type RowParser[T any] func(fields []string, line int) (T, error)

// Reader yields one Result per data row. The header row is consumed on creation.
type Reader[T any] struct {
	csv   *csv.Reader
	parse RowParser[T]
	done  bool
}

// NewReader wraps r and skips its header row. An empty input yields no rows.
func NewReader[T any](r io.Reader, parse RowParser[T]) (*Reader[T], error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.ReuseRecord = true

	reader := &Reader[T]{csv: cr, parse: parse}
	if _, err := cr.Read(); err != nil {
		if err == io.EOF {
			reader.done = true
			return reader, nil
		}
		var pe *csv.ParseError
		if !errors.As(err, &pe) {
			return nil, fmt.Errorf("failed to read header: %w", err)
		}
	}
	return reader, nil
}

// Next returns the next row's Result, io.EOF at the end of input, or a read error
func (r *Reader[T]) Next() (Result[T], error) {
	var res Result[T]
	if r.done {
		return res, io.EOF
	}

	fields, err := r.csv.Read()
	if err == io.EOF {
		r.done = true
		return res, io.EOF
	}
	if err != nil {
		var pe *csv.ParseError
		if errors.As(err, &pe) {
			res.Err = &ParseError{Line: pe.Line, Column: -1, Err: pe.Err}
			return res, nil
		}
		return res, err
	}

	line, _ := r.csv.FieldPos(0)
	record, err := r.parse(fields, line)
	if err != nil {
		var pe *ParseError
		if !errors.As(err, &pe) {
			pe = &ParseError{Line: line, Column: -1, Err: err}
		}
		res.Err = pe
		return res, nil
	}
	res.Record = record
	return res, nil
}

// ScanStats counts rows seen by a scan
type ScanStats struct {
	Rows    int // data rows read, header excluded
	Skipped int // rows that failed to parse
	Matched int // rows the caller kept
}

// Processed returns the number of rows that parsed
func (s ScanStats) Processed() int {
	return s.Rows - s.Skipped
}

// Add accumulates another file's counts
func (s *ScanStats) Add(other ScanStats) {
	s.Rows += other.Rows
	s.Skipped += other.Skipped
	s.Matched += other.Matched
}

// OpenFile opens a CSV file for scanning. The caller closes it.
func OpenFile(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	return f, nil
}
