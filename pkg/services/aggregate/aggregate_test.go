package aggregate

import (
	"fmt"
	"math"
	"testing"

	"github.com/de-tools/medcov/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fact(payer, code, name string, total, covered, dispenses float64) domain.MedicationFact {
	return domain.MedicationFact{
		PayerName:      payer,
		MedicationCode: code,
		MedicationName: name,
		TotalCost:      total,
		PayerCoverage:  covered,
		Dispenses:      dispenses,
	}
}

func TestKPIs(t *testing.T) {
	t.Run("sums facts", func(t *testing.T) {
		kpis := KPIs([]domain.MedicationFact{
			fact("Medicare", "1", "A", 600, 500, 1),
			fact("Medicaid", "2", "B", 400, 300, 2),
		})

		assert.Equal(t, 2, kpis.TotalRx)
		assert.InDelta(t, 1000.0, kpis.TotalCost, 1e-9)
		assert.InDelta(t, 800.0, kpis.PayerPaid, 1e-9)
		assert.InDelta(t, 200.0, kpis.PatientPaid, 1e-9)
		assert.InDelta(t, 80.0, kpis.CoveragePct, 1e-9)
	})

	t.Run("empty input", func(t *testing.T) {
		kpis := KPIs(nil)
		assert.Equal(t, domain.KPISet{}, kpis)
	})
}

func TestPayerCoverage(t *testing.T) {
	t.Run("zero total cost yields zero coverage", func(t *testing.T) {
		out := PayerCoverage([]domain.MedicationFact{
			fact("Humana", "1", "A", 0, 500, 1),
		})

		require.Len(t, out, 1)
		assert.Equal(t, 0.0, out[0].CoveragePct)
		assert.False(t, math.IsNaN(out[0].CoveragePct))
		assert.Equal(t, 500.0, out[0].PayerCoverage)
	})

	t.Run("groups in first seen order", func(t *testing.T) {
		out := PayerCoverage([]domain.MedicationFact{
			fact("Medicare", "1", "A", 100, 50, 1),
			fact("Medicaid", "1", "A", 100, 90, 1),
			fact("Medicare", "2", "B", 100, 100, 1),
		})

		require.Len(t, out, 2)
		assert.Equal(t, "Medicare", out[0].PayerName)
		assert.Equal(t, 200.0, out[0].TotalCost)
		assert.Equal(t, 75.0, out[0].CoveragePct)
		assert.Equal(t, "Medicaid", out[1].PayerName)
		assert.Equal(t, 90.0, out[1].CoveragePct)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, PayerCoverage(nil))
	})
}

func TestTopOOPMedications(t *testing.T) {
	t.Run("bounded and sorted descending", func(t *testing.T) {
		var facts []domain.MedicationFact
		for i := 0; i < 15; i++ {
			facts = append(facts, fact("Medicare", fmt.Sprint(i), fmt.Sprintf("Med %d", i), float64(100+i), 100, 1))
		}

		out := TopOOPMedications(facts, TopN)

		require.Len(t, out, TopN)
		for i := 1; i < len(out); i++ {
			assert.GreaterOrEqual(t, out[i-1].TotalOOP, out[i].TotalOOP)
		}
		assert.Equal(t, "14", out[0].Code)
		assert.Equal(t, 14.0, out[0].TotalOOP)
	})

	t.Run("ties keep first seen order", func(t *testing.T) {
		out := TopOOPMedications([]domain.MedicationFact{
			fact("Medicare", "b", "B", 10, 0, 1),
			fact("Medicare", "a", "A", 10, 0, 1),
			fact("Medicare", "c", "C", 20, 0, 1),
		}, TopN)

		require.Len(t, out, 3)
		assert.Equal(t, []string{"c", "b", "a"}, []string{out[0].Code, out[1].Code, out[2].Code})
	})

	t.Run("same code different name stays separate", func(t *testing.T) {
		out := TopOOPMedications([]domain.MedicationFact{
			fact("Medicare", "1", "A", 10, 0, 2),
			fact("Medicare", "1", "A2", 5, 0, 3),
			fact("Medicare", "1", "A", 10, 0, 1),
		}, TopN)

		require.Len(t, out, 2)
		assert.Equal(t, 20.0, out[0].TotalOOP)
		assert.Equal(t, 3.0, out[0].TotalRx)
	})
}

func TestCoverageReview(t *testing.T) {
	facts := []domain.MedicationFact{
		fact("Medicare", "1", "A", 100, 90, 1),
		fact("Medicaid", "1", "A", 300, 30, 2),
		fact("Medicare", "2", "B", 500, 0, 1),
		fact("Medicare", "3", "C", 10, 10, 1),
		fact("Humana", "2", "B", 0, 0, 1),
	}
	top := TopOOPMedications(facts, 2)
	require.Len(t, top, 2)

	out := CoverageReview(facts, top)

	t.Run("only top medications", func(t *testing.T) {
		allowed := map[string]bool{}
		for _, m := range top {
			allowed[m.Code+"|"+m.Name] = true
		}
		for _, r := range out {
			assert.True(t, allowed[r.MedicationCode+"|"+r.MedicationName], "unexpected medication %s", r.MedicationCode)
		}
		assert.Len(t, out, 4)
	})

	t.Run("ordered by medication rank then total cost", func(t *testing.T) {
		// B has 500 OOP, A has 280
		assert.Equal(t, "2", out[0].MedicationCode)
		assert.Equal(t, "Medicare", out[0].PayerName)
		assert.Equal(t, "2", out[1].MedicationCode)
		assert.Equal(t, "Humana", out[1].PayerName)
		assert.Equal(t, "1", out[2].MedicationCode)
		assert.Equal(t, "Medicaid", out[2].PayerName)
		assert.Equal(t, "1", out[3].MedicationCode)
		assert.Equal(t, "Medicare", out[3].PayerName)
	})

	t.Run("coverage rounded and zero safe", func(t *testing.T) {
		assert.Equal(t, 0.0, out[1].CoveragePct)
		assert.Equal(t, 10.0, out[2].CoveragePct)
		assert.Equal(t, 270.0, out[2].PatientPaid)
		assert.Equal(t, 2.0, out[2].Prescriptions)
	})

	t.Run("empty top", func(t *testing.T) {
		assert.Empty(t, CoverageReview(facts, nil))
	})
}

func TestFilterPayers(t *testing.T) {
	facts := []domain.MedicationFact{
		fact("Medicare", "1", "A", 1, 1, 1),
		fact(" Medicaid ", "1", "A", 1, 1, 1),
		fact(domain.UnknownPayer, "1", "A", 1, 1, 1),
	}

	out := FilterPayers(facts, []string{"Medicaid", "Medicare"})
	assert.Len(t, out, 2)

	assert.Empty(t, FilterPayers(facts, nil))
}

func TestCoveragePct(t *testing.T) {
	tests := []struct {
		name  string
		paid  float64
		total float64
		want  float64
	}{
		{"regular", 800, 1000, 80},
		{"zero total", 500, 0, 0},
		{"zero both", 0, 0, 0},
		{"infinite total", 1, math.Inf(1), 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CoveragePct(tc.paid, tc.total))
		})
	}
}
