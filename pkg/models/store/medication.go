package store

import "database/sql"

// MedicationRow is one scanned row of the fact query. Numeric columns may be NULL in the warehouse.
type MedicationRow struct {
	PatientID      sql.NullString
	PayerID        sql.NullString
	PayerName      sql.NullString
	EncounterID    sql.NullString
	StartedAt      sql.NullTime
	MedicationCode sql.NullString
	MedicationName sql.NullString
	BaseCost       sql.NullFloat64
	PayerCoverage  sql.NullFloat64
	TotalCost      sql.NullFloat64
	Dispenses      sql.NullFloat64
}

type DateBounds struct {
	Min sql.NullTime
	Max sql.NullTime
}

func (b DateBounds) Valid() bool {
	return b.Min.Valid && b.Max.Valid && !b.Max.Time.Before(b.Min.Time)
}
