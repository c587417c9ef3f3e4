package domain

// DateLayout is how dates are rendered in payloads and report headers
const DateLayout = "2006-01-02"

// Payload is the only data the narrative generator is allowed to see
type Payload struct {
	Meta                 MetaInfo           `json:"meta"`
	KPIs                 PayloadKPIs        `json:"kpis"`
	PayerCoverageSummary []PayloadPayer     `json:"payer_coverage_summary"`
	TopOOPMeds           []PayloadMed       `json:"top_oop_meds"`
	CoverageReviewSample []PayloadReviewRow `json:"coverage_review_sample"`
}

type MetaInfo struct {
	StartDate      string     `json:"start_date"`
	EndDate        string     `json:"end_date"`
	SelectedPayers []string   `json:"selected_payers"`
	ReportType     ReportType `json:"report_type"`
}

type PayloadKPIs struct {
	TotalRx     int     `json:"total_rx"`
	TotalCost   float64 `json:"total_cost"`
	PayerPaid   float64 `json:"payer_paid"`
	PatientPaid float64 `json:"patient_paid"`
	CoveragePct float64 `json:"coverage_pct"`
}

type PayloadPayer struct {
	PayerName     string  `json:"PAYER_NAME"`
	TotalCost     float64 `json:"TOTAL_COST"`
	PayerCoverage float64 `json:"PAYER_COVERAGE"`
	CoveragePct   float64 `json:"COVERAGE_PCT"`
}

type PayloadMed struct {
	MedicationCode string  `json:"MEDICATION_CODE"`
	MedicationName string  `json:"MEDICATION_NAME"`
	TotalOOP       float64 `json:"TOTAL_OOP"`
	TotalRx        float64 `json:"TOTAL_RX"`
}

type PayloadReviewRow struct {
	PayerName      string  `json:"PAYER_NAME"`
	MedicationCode string  `json:"MEDICATION_CODE"`
	MedicationName string  `json:"MEDICATION_NAME"`
	Prescriptions  float64 `json:"PRESCRIPTIONS"`
	TotalCost      float64 `json:"TOTAL_COST"`
	PayerPaid      float64 `json:"PAYER_PAID"`
	PatientPaid    float64 `json:"PATIENT_PAID"`
	CoveragePct    float64 `json:"COVERAGE_PCT"`
}
