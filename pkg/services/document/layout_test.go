package document

import (
	"fmt"
	"testing"

	"github.com/de-tools/medcov/pkg/models/domain"
	"github.com/de-tools/medcov/pkg/services/charts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func input(t *testing.T, chartPaths map[string]string) Input {
	t.Helper()
	return Input{
		Meta: domain.MetaInfo{
			StartDate:      "2024-01-01",
			EndDate:        "2024-12-31",
			SelectedPayers: []string{"Medicare", "Medicaid"},
			ReportType:     domain.ReportTypeSummary,
		},
		KPIs: domain.KPISet{TotalRx: 100, TotalCost: 1000, PayerPaid: 800, PatientPaid: 200, CoveragePct: 80},
		Review: []domain.ReviewRow{
			{PayerName: "Medicare", MedicationCode: "310965", MedicationName: "Ibuprofen 200 MG", Prescriptions: 12, TotalCost: 1234.5, PayerPaid: 1000, PatientPaid: 234.5, CoveragePct: 81.0},
		},
		Narrative: "TL;DR:\n- first point\n\nSome paragraph.",
		Charts:    chartPaths,
	}
}

func fakeCharts() map[string]string {
	return map[string]string{
		charts.SplitChart:    "split.png",
		charts.CoverageChart: "cov.png",
		charts.OOPChart:      "oop.png",
	}
}

func TestKPICards(t *testing.T) {
	cards := KPICards(domain.KPISet{TotalRx: 100, TotalCost: 1000.0, PayerPaid: 800.0, CoveragePct: 80.0})

	assert.Equal(t, []Card{
		{Label: "Total Rx", Value: "100"},
		{Label: "Total Cost", Value: "$1,000.00"},
		{Label: "Payer Paid", Value: "$800.00"},
		{Label: "Coverage", Value: "80.0%"},
	}, cards)
}

func TestReviewTable(t *testing.T) {
	t.Run("formats money and percent", func(t *testing.T) {
		table := ReviewTable(input(t, nil).Review, MaxTableRows)

		assert.Equal(t, reviewColumns, table.Header)
		require.Len(t, table.Rows, 1)
		assert.Equal(t, []string{"Medicare", "310965", "Ibuprofen 200 MG", "12", "$1,234.50", "$1,000.00", "$234.50", "81.00%"}, table.Rows[0])
	})

	t.Run("caps rows", func(t *testing.T) {
		var rows []domain.ReviewRow
		for i := 0; i < 40; i++ {
			rows = append(rows, domain.ReviewRow{PayerName: fmt.Sprint(i)})
		}
		table := ReviewTable(rows, MaxTableRows)
		assert.Len(t, table.Rows, MaxTableRows)
		assert.Equal(t, "0", table.Rows[0][0])
	})
}

func TestLayout(t *testing.T) {
	doc, err := Layout(input(t, fakeCharts()))
	require.NoError(t, err)

	t.Run("header and footer", func(t *testing.T) {
		assert.Equal(t, HeaderTitle, doc.Header)
		assert.Equal(t, "Date Range: 2024-01-01 to 2024-12-31  |  Report: Medication Coverage Summary", doc.Subtitle)
		assert.Equal(t, FooterCaption, doc.Footer)
	})

	t.Run("exactly one page break", func(t *testing.T) {
		breaks := 0
		for _, e := range doc.Elements {
			if e.Kind == ElementPageBreak {
				breaks++
			}
		}
		assert.Equal(t, 1, breaks)
	})

	t.Run("page one then page two", func(t *testing.T) {
		var images []string
		var titles []string
		for _, e := range doc.Elements {
			switch e.Kind {
			case ElementImage:
				images = append(images, e.Image)
			case ElementTitle:
				titles = append(titles, e.Text)
			}
		}
		assert.Equal(t, []string{"split.png", "cov.png", "oop.png"}, images)
		assert.Equal(t, []string{"2-Page Report", "Drilldown"}, titles)
	})

	t.Run("narrative blocks follow the summary heading", func(t *testing.T) {
		idx := -1
		for i, e := range doc.Elements {
			if e.Kind == ElementHeading && e.Text == "Narrative Summary" {
				idx = i
			}
		}
		require.GreaterOrEqual(t, idx, 0)
		require.Greater(t, len(doc.Elements), idx+4)

		assert.Equal(t, Element{Kind: ElementHeading, Text: "TL;DR:"}, doc.Elements[idx+1])
		assert.Equal(t, Element{Kind: ElementBullet, Text: "first point"}, doc.Elements[idx+2])
		assert.Equal(t, Element{Kind: ElementBody, Text: "Some paragraph."}, doc.Elements[idx+3])
		assert.Equal(t, ElementPageBreak, doc.Elements[idx+4].Kind)
	})

	t.Run("payers reviewed", func(t *testing.T) {
		assert.Equal(t, "Medicare, Medicaid", doc.Elements[1].Text)
	})

	t.Run("empty selections", func(t *testing.T) {
		in := input(t, fakeCharts())
		in.Meta.SelectedPayers = nil
		in.Meta.ReportType = ""

		doc, err := Layout(in)
		require.NoError(t, err)
		assert.Equal(t, "None selected", doc.Elements[1].Text)
		assert.Contains(t, doc.Subtitle, "Report: N/A")
	})

	t.Run("missing chart", func(t *testing.T) {
		paths := fakeCharts()
		delete(paths, charts.OOPChart)

		_, err := Layout(input(t, paths))
		assert.Error(t, err)
	})
}
