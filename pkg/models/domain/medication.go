package domain

import "time"

// UnknownPayer is used for facts whose payer id has no match in the payer dimension.
const UnknownPayer = "Other / Unknown"

// MedicationFact is one medication order joined with its payer name
type MedicationFact struct {
	PatientID      string
	PayerID        string
	PayerName      string
	EncounterID    string
	StartedAt      time.Time
	MedicationCode string
	MedicationName string
	BaseCost       float64
	PayerCoverage  float64
	TotalCost      float64
	Dispenses      float64
}

// OutOfPocket is the part of the total cost not covered by the payer
func (f MedicationFact) OutOfPocket() float64 {
	return f.TotalCost - f.PayerCoverage
}

type DateBounds struct {
	Min time.Time
	Max time.Time
}

// Filters are the user selections a snapshot is computed for
type Filters struct {
	Start  time.Time
	End    time.Time
	Payers []string
}
