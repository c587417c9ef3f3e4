package aggregate

import (
	"cmp"
	"math"
	"slices"
	"strings"

	"github.com/de-tools/medcov/pkg/models/domain"
)

// TopN is how many medications the out-of-pocket ranking keeps. The ranking
// scopes every drilldown structure built after it.
const TopN = 10

// KPIs sums the facts into the headline numbers
func KPIs(facts []domain.MedicationFact) domain.KPISet {
	kpis := domain.KPISet{TotalRx: len(facts)}
	for _, f := range facts {
		kpis.TotalCost += f.TotalCost
		kpis.PayerPaid += f.PayerCoverage
		kpis.PatientPaid += f.OutOfPocket()
	}
	kpis.CoveragePct = CoveragePct(kpis.PayerPaid, kpis.TotalCost)
	return kpis
}

// PayerCoverage groups facts by payer name. Groups keep the order in which
// payers are first seen.
func PayerCoverage(facts []domain.MedicationFact) []domain.PayerAggregate {
	index := make(map[string]int)
	var out []domain.PayerAggregate

	for _, f := range facts {
		i, ok := index[f.PayerName]
		if !ok {
			i = len(out)
			index[f.PayerName] = i
			out = append(out, domain.PayerAggregate{PayerName: f.PayerName})
		}
		out[i].TotalCost += f.TotalCost
		out[i].PayerCoverage += f.PayerCoverage
	}

	for i := range out {
		out[i].CoveragePct = CoveragePct(out[i].PayerCoverage, out[i].TotalCost)
	}
	return out
}

type medKey struct {
	code string
	name string
}

// TopOOPMedications ranks medications by patient out-of-pocket cost and keeps
// the first n. Ties keep the order in which medications are first seen.
func TopOOPMedications(facts []domain.MedicationFact, n int) []domain.MedicationAggregate {
	index := make(map[medKey]int)
	var out []domain.MedicationAggregate

	for _, f := range facts {
		key := medKey{code: f.MedicationCode, name: f.MedicationName}
		i, ok := index[key]
		if !ok {
			i = len(out)
			index[key] = i
			out = append(out, domain.MedicationAggregate{Code: f.MedicationCode, Name: f.MedicationName})
		}
		out[i].TotalOOP += f.OutOfPocket()
		out[i].TotalRx += f.Dispenses
	}

	slices.SortStableFunc(out, func(a, b domain.MedicationAggregate) int {
		return cmp.Compare(b.TotalOOP, a.TotalOOP)
	})

	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

type reviewKey struct {
	payer string
	code  string
	name  string
}

// CoverageReview builds the payer x medication table restricted to the
// medications in top. Rows follow the rank of their medication in top and,
// within one medication, descend by total cost.
func CoverageReview(facts []domain.MedicationFact, top []domain.MedicationAggregate) []domain.ReviewRow {
	rank := make(map[medKey]int, len(top))
	for i, m := range top {
		key := medKey{code: m.Code, name: m.Name}
		if _, ok := rank[key]; !ok {
			rank[key] = i
		}
	}

	index := make(map[reviewKey]int)
	var out []domain.ReviewRow

	for _, f := range facts {
		if _, ok := rank[medKey{code: f.MedicationCode, name: f.MedicationName}]; !ok {
			continue
		}
		key := reviewKey{payer: f.PayerName, code: f.MedicationCode, name: f.MedicationName}
		i, ok := index[key]
		if !ok {
			i = len(out)
			index[key] = i
			out = append(out, domain.ReviewRow{
				PayerName:      f.PayerName,
				MedicationCode: f.MedicationCode,
				MedicationName: f.MedicationName,
			})
		}
		out[i].Prescriptions += f.Dispenses
		out[i].TotalCost += f.TotalCost
		out[i].PayerPaid += f.PayerCoverage
		out[i].PatientPaid += f.OutOfPocket()
	}

	for i := range out {
		out[i].CoveragePct = round2(CoveragePct(out[i].PayerPaid, out[i].TotalCost))
	}

	slices.SortStableFunc(out, func(a, b domain.ReviewRow) int {
		ra := rank[medKey{code: a.MedicationCode, name: a.MedicationName}]
		rb := rank[medKey{code: b.MedicationCode, name: b.MedicationName}]
		if c := cmp.Compare(ra, rb); c != 0 {
			return c
		}
		return cmp.Compare(b.TotalCost, a.TotalCost)
	})
	return out
}

// FilterPayers keeps the facts whose payer is one of the selected names
func FilterPayers(facts []domain.MedicationFact, payers []string) []domain.MedicationFact {
	selected := make(map[string]struct{}, len(payers))
	for _, p := range payers {
		selected[strings.TrimSpace(p)] = struct{}{}
	}

	out := make([]domain.MedicationFact, 0, len(facts))
	for _, f := range facts {
		if _, ok := selected[strings.TrimSpace(f.PayerName)]; ok {
			out = append(out, f)
		}
	}
	return out
}

// CoveragePct returns paid as a percentage of total, or 0 when the ratio is
// undefined.
func CoveragePct(paid, total float64) float64 {
	if total == 0 {
		return 0
	}
	pct := paid / total * 100
	if math.IsNaN(pct) || math.IsInf(pct, 0) {
		return 0
	}
	return pct
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
