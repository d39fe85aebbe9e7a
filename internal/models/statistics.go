package models

// TipStatistics summarises tip/fare ratios for one payment type
type TipStatistics struct {
	PaymentType string  `json:"payment_type" db:"payment_type"` // CSH, CRD
	Count       int     `json:"count" db:"count"`
	Mean        float64 `json:"mean" db:"mean"`
	StdDev      float64 `json:"std_dev" db:"std_dev"` // Population standard deviation
	Min         float64 `json:"min" db:"min"`
	Max         float64 `json:"max" db:"max"`
	Median      float64 `json:"median" db:"median"`
	P90         float64 `json:"p90" db:"p90"`
}

// Empty reports whether no rows contributed to the statistics
func (s TipStatistics) Empty() bool {
	return s.Count == 0
}
