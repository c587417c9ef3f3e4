package api

import "time"

type KPIs struct {
	TotalRx     int     `json:"total_rx"`
	TotalCost   float64 `json:"total_cost"`
	PayerPaid   float64 `json:"payer_paid"`
	PatientPaid float64 `json:"patient_paid"`
	CoveragePct float64 `json:"coverage_pct"`
}

type PayerCoverage struct {
	PayerName     string  `json:"payer_name"`
	TotalCost     float64 `json:"total_cost"`
	PayerCoverage float64 `json:"payer_coverage"`
	CoveragePct   float64 `json:"coverage_pct"`
}

type Medication struct {
	Code     string  `json:"medication_code"`
	Name     string  `json:"medication_name"`
	TotalOOP float64 `json:"total_oop"`
	TotalRx  float64 `json:"total_rx"`
}

type ReviewRow struct {
	PayerName      string  `json:"payer_name"`
	MedicationCode string  `json:"medication_code"`
	MedicationName string  `json:"medication_name"`
	Prescriptions  float64 `json:"prescriptions"`
	TotalCost      float64 `json:"total_cost"`
	PayerPaid      float64 `json:"payer_paid"`
	PatientPaid    float64 `json:"patient_paid"`
	CoveragePct    float64 `json:"coverage_pct"`
}

type Dashboard struct {
	StartDate         string          `json:"start_date"`
	EndDate           string          `json:"end_date"`
	Payers            []string        `json:"payers"`
	KPIs              KPIs            `json:"kpis"`
	PayerCoverage     []PayerCoverage `json:"payer_coverage"`
	TopOOPMedications []Medication    `json:"top_oop_medications"`
	CoverageReview    []ReviewRow     `json:"coverage_review"`
}

type DateBounds struct {
	Min string `json:"min"`
	Max string `json:"max"`
}

type ReportRequest struct {
	StartDate     string   `json:"start_date"`
	EndDate       string   `json:"end_date"`
	Payers        []string `json:"payers"`
	ReportType    string   `json:"report_type"`
	MaxReviewRows *int     `json:"max_review_rows,omitempty"`
}

type Report struct {
	ID          string    `json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	StartDate   string    `json:"start_date"`
	EndDate     string    `json:"end_date"`
	Payers      []string  `json:"payers"`
	ReportType  string    `json:"report_type"`
	DownloadURL string    `json:"download_url"`
}

type Error struct {
	Error string `json:"error"`
}
