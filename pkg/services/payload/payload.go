package payload

import (
	"cmp"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/de-tools/medcov/pkg/models/domain"
)

// Options tune how much of the review table is handed to the generator
type Options struct {
	// MaxReviewRows caps the review sample. Nil sends every row.
	MaxReviewRows *int
}

// WithMaxReviewRows returns options capping the review sample at n rows
func WithMaxReviewRows(n int) Options {
	return Options{MaxReviewRows: &n}
}

// Pack builds the generator payload. Inputs are copied, never reordered in place.
func Pack(
	meta domain.MetaInfo,
	kpis domain.KPISet,
	payers []domain.PayerAggregate,
	meds []domain.MedicationAggregate,
	review []domain.ReviewRow,
	opts Options,
) domain.Payload {
	payerSummary := make([]domain.PayloadPayer, 0, len(payers))
	for _, p := range payers {
		payerSummary = append(payerSummary, domain.PayloadPayer{
			PayerName:     p.PayerName,
			TotalCost:     p.TotalCost,
			PayerCoverage: p.PayerCoverage,
			CoveragePct:   p.CoveragePct,
		})
	}
	// worst covered payers first
	slices.SortStableFunc(payerSummary, func(a, b domain.PayloadPayer) int {
		return cmp.Compare(a.CoveragePct, b.CoveragePct)
	})

	topMeds := make([]domain.PayloadMed, 0, len(meds))
	for _, m := range meds {
		topMeds = append(topMeds, domain.PayloadMed{
			MedicationCode: m.Code,
			MedicationName: m.Name,
			TotalOOP:       m.TotalOOP,
			TotalRx:        m.TotalRx,
		})
	}

	sample := make([]domain.PayloadReviewRow, 0, len(review))
	for _, r := range review {
		sample = append(sample, domain.PayloadReviewRow{
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
	// worst coverage and highest patient burden first
	slices.SortStableFunc(sample, func(a, b domain.PayloadReviewRow) int {
		if c := cmp.Compare(a.CoveragePct, b.CoveragePct); c != 0 {
			return c
		}
		return cmp.Compare(b.PatientPaid, a.PatientPaid)
	})

	if opts.MaxReviewRows != nil {
		limit := max(*opts.MaxReviewRows, 0)
		if len(sample) > limit {
			sample = sample[:limit]
		}
	}

	return domain.Payload{
		Meta: domain.MetaInfo{
			StartDate:      meta.StartDate,
			EndDate:        meta.EndDate,
			SelectedPayers: slices.Clone(meta.SelectedPayers),
			ReportType:     meta.ReportType,
		},
		KPIs: domain.PayloadKPIs{
			TotalRx:     kpis.TotalRx,
			TotalCost:   kpis.TotalCost,
			PayerPaid:   kpis.PayerPaid,
			PatientPaid: kpis.PatientPaid,
			CoveragePct: kpis.CoveragePct,
		},
		PayerCoverageSummary: payerSummary,
		TopOOPMeds:           topMeds,
		CoverageReviewSample: sample,
	}
}

// Encode renders the payload as indented JSON, the form embedded in prompts
func Encode(p domain.Payload) ([]byte, error) {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode payload: %w", err)
	}
	return data, nil
}

func Decode(data []byte) (domain.Payload, error) {
	var p domain.Payload
	if err := json.Unmarshal(data, &p); err != nil {
		return domain.Payload{}, fmt.Errorf("failed to decode payload: %w", err)
	}
	return p, nil
}
