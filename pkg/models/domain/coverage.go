package domain

type KPISet struct {
	TotalRx     int
	TotalCost   float64
	PayerPaid   float64
	PatientPaid float64
	CoveragePct float64
}

type PayerAggregate struct {
	PayerName     string
	TotalCost     float64
	PayerCoverage float64
	CoveragePct   float64
}

type MedicationAggregate struct {
	Code     string
	Name     string
	TotalOOP float64
	TotalRx  float64
}

// ReviewRow is a payer x medication cell of the coverage review table
type ReviewRow struct {
	PayerName      string
	MedicationCode string
	MedicationName string
	Prescriptions  float64
	TotalCost      float64
	PayerPaid      float64
	PatientPaid    float64
	CoveragePct    float64
}

// Snapshot is everything the dashboard shows for one set of filters
type Snapshot struct {
	Filters     Filters
	KPIs        KPISet
	Payers      []PayerAggregate
	Medications []MedicationAggregate
	Review      []ReviewRow
}
