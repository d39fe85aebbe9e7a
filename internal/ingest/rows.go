package ingest

import (
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/jengzang/taxi-analysis/internal/models"
)

// Trip data columns
const (
	ColPickupDatetime  = 5
	ColPickupLongitude = 10
	ColPickupLatitude  = 11
)

// Trip fare columns
const (
	ColPaymentType = 4
	ColTipAmount   = 8
	ColFareAmount  = 10
)

// PickupTimeLayout is the trip data timestamp format
const PickupTimeLayout = "2006-01-02 15:04:05"

// ParsePickupRow extracts the pickup coordinate and time-of-day from a trip data row
func ParsePickupRow(fields []string, line int) (models.PickupRecord, error) {
	rec := models.PickupRecord{Line: line}
	if len(fields) <= ColPickupLatitude {
		return rec, &ParseError{Line: line, Column: ColPickupLatitude, Err: ErrShortRow}
	}

	lon, err := parseFloat(fields, ColPickupLongitude, line)
	if err != nil {
		return rec, err
	}
	lat, err := parseFloat(fields, ColPickupLatitude, line)
	if err != nil {
		return rec, err
	}

	raw := strings.TrimSpace(fields[ColPickupDatetime])
	ts, err := time.Parse(PickupTimeLayout, raw)
	if err != nil {
		return rec, &ParseError{Line: line, Column: ColPickupDatetime, Value: raw, Err: err}
	}

	rec.Lat = lat
	rec.Lon = lon
	rec.TimeOfDay = float64(ts.Hour()*3600 + ts.Minute()*60 + ts.Second())
	return rec, nil
}

// ParseFareRow extracts payment type, tip and fare from a trip fare row
func ParseFareRow(fields []string, line int) (models.FareRecord, error) {
	rec := models.FareRecord{Line: line}
	if len(fields) <= ColFareAmount {
		return rec, &ParseError{Line: line, Column: ColFareAmount, Err: ErrShortRow}
	}

	fare, err := parseFloat(fields, ColFareAmount, line)
	if err != nil {
		return rec, err
	}
	tip, err := parseFloat(fields, ColTipAmount, line)
	if err != nil {
		return rec, err
	}

	rec.Fare = fare
	rec.Tip = tip
	rec.PaymentType = strings.TrimSpace(fields[ColPaymentType])
	return rec, nil
}

// NewPickupReader reads trip data rows
func NewPickupReader(r io.Reader) (*Reader[models.PickupRecord], error) {
	return NewReader(r, ParsePickupRow)
}

// NewFareReader reads trip fare rows
func NewFareReader(r io.Reader) (*Reader[models.FareRecord], error) {
	return NewReader(r, ParseFareRow)
}

func parseFloat(fields []string, col, line int) (float64, error) {
	raw := strings.TrimSpace(fields[col])
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, &ParseError{Line: line, Column: col, Value: raw, Err: err}
	}
	return v, nil
}
