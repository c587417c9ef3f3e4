package charts

import (
	"cmp"
	"slices"
	"strings"

	"github.com/de-tools/medcov/pkg/models/domain"
)

type Kind int

const (
	KindBar Kind = iota
	KindPie
)

// Point is one bar or slice. An empty Color falls back to the theme palette.
type Point struct {
	Label string
	Value float64
	Color string
}

// Chart is a library independent chart definition shared by the dashboard
// surfaces and the PDF report
type Chart struct {
	Name   string
	Title  string
	Kind   Kind
	XLabel string
	YLabel string
	// Percent formats the value axis as percentages
	Percent bool
	Points  []Point
}

const (
	SplitChart    = "split"
	CoverageChart = "cov"
	OOPChart      = "oop"
)

// PaymentSplit compares what payers covered with what patients paid
func PaymentSplit(kpis domain.KPISet) Chart {
	return Chart{
		Name:  SplitChart,
		Title: "Payer vs Patient Payment Split",
		Kind:  KindPie,
		Points: []Point{
			{Label: "Payer Paid", Value: kpis.PayerPaid, Color: "#4CF3C1"},
			{Label: "Patient Paid", Value: kpis.PatientPaid, Color: "#FF9B49"},
		},
	}
}

// CoverageByPayer shows payers from worst to best coverage
func CoverageByPayer(payers []domain.PayerAggregate) Chart {
	sorted := slices.Clone(payers)
	slices.SortStableFunc(sorted, func(a, b domain.PayerAggregate) int {
		return cmp.Compare(a.CoveragePct, b.CoveragePct)
	})

	points := make([]Point, 0, len(sorted))
	for _, p := range sorted {
		points = append(points, Point{
			Label: p.PayerName,
			Value: p.CoveragePct,
			Color: PayerColor(p.PayerName),
		})
	}

	return Chart{
		Name:    CoverageChart,
		Title:   "Medication Coverage Rate by Payer",
		Kind:    KindBar,
		XLabel:  "Payer",
		YLabel:  "Coverage %",
		Percent: true,
		Points:  points,
	}
}

// TopOOPMedications keeps the ranking order of meds on a categorical axis of codes
func TopOOPMedications(meds []domain.MedicationAggregate) Chart {
	points := make([]Point, 0, len(meds))
	for _, m := range meds {
		points = append(points, Point{
			Label: strings.TrimSpace(m.Code),
			Value: m.TotalOOP,
			Color: "#8653F4",
		})
	}

	return Chart{
		Name:   OOPChart,
		Title:  "Top Medications by Patient Out-of-Pocket Cost",
		Kind:   KindBar,
		XLabel: "Medication Code",
		YLabel: "Out-of-Pocket ($)",
		Points: points,
	}
}

// ForSnapshot returns the three dashboard charts in display order
func ForSnapshot(s *domain.Snapshot) []Chart {
	return []Chart{
		PaymentSplit(s.KPIs),
		CoverageByPayer(s.Payers),
		TopOOPMedications(s.Medications),
	}
}
