package adapters

import (
	"slices"

	"github.com/de-tools/medcov/pkg/models/api"
	"github.com/de-tools/medcov/pkg/models/domain"
)

func MapDomainSnapshotToAPI(s *domain.Snapshot) api.Dashboard {
	out := api.Dashboard{
		StartDate: s.Filters.Start.Format(domain.DateLayout),
		EndDate:   s.Filters.End.Format(domain.DateLayout),
		Payers:    slices.Clone(s.Filters.Payers),
		KPIs: api.KPIs{
			TotalRx:     s.KPIs.TotalRx,
			TotalCost:   s.KPIs.TotalCost,
			PayerPaid:   s.KPIs.PayerPaid,
			PatientPaid: s.KPIs.PatientPaid,
			CoveragePct: s.KPIs.CoveragePct,
		},
		PayerCoverage:     make([]api.PayerCoverage, 0, len(s.Payers)),
		TopOOPMedications: make([]api.Medication, 0, len(s.Medications)),
		CoverageReview:    make([]api.ReviewRow, 0, len(s.Review)),
	}

	for _, p := range s.Payers {
		out.PayerCoverage = append(out.PayerCoverage, api.PayerCoverage{
			PayerName:     p.PayerName,
			TotalCost:     p.TotalCost,
			PayerCoverage: p.PayerCoverage,
			CoveragePct:   p.CoveragePct,
		})
	}
	for _, m := range s.Medications {
		out.TopOOPMedications = append(out.TopOOPMedications, api.Medication{
			Code:     m.Code,
			Name:     m.Name,
			TotalOOP: m.TotalOOP,
			TotalRx:  m.TotalRx,
		})
	}
	for _, r := range s.Review {
		out.CoverageReview = append(out.CoverageReview, api.ReviewRow{
			PayerName:      r.PayerName,
			MedicationCode: r.MedicationCode,
			MedicationName: r.MedicationName,
			Prescriptions:  r.Prescriptions,
			TotalCost:      r.TotalCost,
			PayerPaid:      r.PayerPaid,
			PatientPaid:    r.PatientPaid,
			CoveragePct:    r.CoveragePct,
		})
	}
	return out
}

func MapDomainDateBoundsToAPI(b domain.DateBounds) api.DateBounds {
	return api.DateBounds{
		Min: b.Min.Format(domain.DateLayout),
		Max: b.Max.Format(domain.DateLayout),
	}
}
