package store

import "time"

// ReportRecord is a row of the reports table. Payers are kept as a JSON array.
type ReportRecord struct {
	ID         string
	CreatedAt  time.Time
	StartDate  string
	EndDate    string
	Payers     string
	ReportType string
	Location   string
}
