package models

// PickupRecord is the part of a trip data row the departure analysis needs
type PickupRecord struct {
	Line      int     `json:"line"`
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
	TimeOfDay float64 `json:"time_of_day"` // Seconds since local midnight, [0, 86400)
}

// FareRecord is the part of a trip fare row the tip analysis needs
type FareRecord struct {
	Line        int     `json:"line"`
	PaymentType string  `json:"payment_type"`
	Fare        float64 `json:"fare"`
	Tip         float64 `json:"tip"`
}

// PaymentType constants
const (
	PaymentCash   = "CSH"
	PaymentCredit = "CRD"
)

// PaymentTypes lists the payment types reported by the tip analysis, in report order
var PaymentTypes = []string{PaymentCash, PaymentCredit}

// PaymentLabel returns a human readable name for a payment type code
func PaymentLabel(code string) string {
	switch code {
	case PaymentCash:
		return "CASH"
	case PaymentCredit:
		return "CREDIT CARD"
	default:
		return code
	}
}
