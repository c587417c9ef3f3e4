package domain

import (
	"strings"
	"time"
)

// ReportType is the label picked by the user, e.g. "Medication Coverage Summary"
type ReportType string

const (
	ReportTypeSummary    ReportType = "Medication Coverage Summary"
	ReportTypeExecutive  ReportType = "Leadership (Executive TL;DR)"
	ReportTypeOperations ReportType = "Operations Drilldown"
)

// IsOperations reports whether the label asks for the operations drilldown narrative
func (t ReportType) IsOperations() bool {
	return strings.Contains(string(t), "Operations")
}

// ReportFileName is the name every generated report is written and offered under
const ReportFileName = "Medication_Coverage_AI_Report.pdf"

// ReportRecord describes a delivered report
type ReportRecord struct {
	ID         string
	CreatedAt  time.Time
	StartDate  string
	EndDate    string
	Payers     []string
	ReportType ReportType
	Location   string
}
