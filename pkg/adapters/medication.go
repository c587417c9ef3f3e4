package adapters

import (
	"strings"

	"github.com/de-tools/medcov/pkg/models/domain"
	"github.com/de-tools/medcov/pkg/models/store"
)

// MapStoreMedicationRowToDomainFact fills missing numerics with 0 and unknown payers with the fallback name
func MapStoreMedicationRowToDomainFact(row store.MedicationRow) domain.MedicationFact {
	payer := strings.TrimSpace(row.PayerName.String)
	if payer == "" {
		payer = domain.UnknownPayer
	}

	return domain.MedicationFact{
		PatientID:      row.PatientID.String,
		PayerID:        row.PayerID.String,
		PayerName:      payer,
		EncounterID:    row.EncounterID.String,
		StartedAt:      row.StartedAt.Time,
		MedicationCode: strings.TrimSpace(row.MedicationCode.String),
		MedicationName: strings.TrimSpace(row.MedicationName.String),
		BaseCost:       row.BaseCost.Float64,
		PayerCoverage:  row.PayerCoverage.Float64,
		TotalCost:      row.TotalCost.Float64,
		Dispenses:      row.Dispenses.Float64,
	}
}

func MapStoreDateBoundsToDomain(b store.DateBounds) domain.DateBounds {
	return domain.DateBounds{
		Min: b.Min.Time,
		Max: b.Max.Time,
	}
}
