package document

import (
	"fmt"
	"strings"

	"github.com/de-tools/medcov/pkg/models/domain"
	"github.com/de-tools/medcov/pkg/services/charts"
)

const (
	HeaderTitle   = "Medication Coverage & Payer Analytics"
	FooterCaption = "Generated from dashboard aggregates (selected filters)."
	DocumentTitle = "Medication Coverage AI Report"

	// MaxTableRows caps the review table on the drilldown page
	MaxTableRows = 16

	inch = 72.0
)

const closingNote = "This report is generated from dashboard aggregates for the selected date range and payers. " +
	"For deeper analysis, drill into patient-level encounters and plan-level formulary/prior-auth rules."

type ElementKind int

const (
	ElementTitle ElementKind = iota
	ElementMuted
	ElementHeading
	ElementBody
	ElementBullet
	ElementSpacer
	ElementImage
	ElementCards
	ElementTable
	ElementPageBreak
)

// Element is one flowable of the document. Only the fields of its kind are set.
type Element struct {
	Kind   ElementKind
	Text   string
	Label  string // bold prefix for muted lines
	Space  float64
	Image  string
	Width  float64
	Height float64
	Cards  []Card
	Table  *Table
}

type Card struct {
	Label string
	Value string
}

type Table struct {
	Header []string
	Rows   [][]string
}

// Document is the fully computed report, independent of the PDF library
type Document struct {
	Title    string
	Header   string
	Subtitle string
	Footer   string
	Elements []Element
}

// Input is everything the layout needs for one report
type Input struct {
	Meta      domain.MetaInfo
	KPIs      domain.KPISet
	Review    []domain.ReviewRow
	Narrative string
	// Charts maps chart names to exported image paths
	Charts map[string]string
}

// KPICards formats the four headline numbers
func KPICards(k domain.KPISet) []Card {
	return []Card{
		{Label: "Total Rx", Value: Count(k.TotalRx)},
		{Label: "Total Cost", Value: Money(k.TotalCost)},
		{Label: "Payer Paid", Value: Money(k.PayerPaid)},
		{Label: "Coverage", Value: KPIPercent(k.CoveragePct)},
	}
}

var reviewColumns = []string{
	"PAYER_NAME",
	"MEDICATION_CODE",
	"MEDICATION_NAME",
	"PRESCRIPTIONS",
	"TOTAL_COST",
	"PAYER_PAID",
	"PATIENT_PAID",
	"COVERAGE_PCT",
}

// ReviewTable formats at most maxRows review rows
func ReviewTable(rows []domain.ReviewRow, maxRows int) *Table {
	if maxRows >= 0 && len(rows) > maxRows {
		rows = rows[:maxRows]
	}

	t := &Table{Header: append([]string(nil), reviewColumns...)}
	for _, r := range rows {
		t.Rows = append(t.Rows, []string{
			r.PayerName,
			r.MedicationCode,
			r.MedicationName,
			Quantity(r.Prescriptions),
			Money(r.TotalCost),
			Money(r.PayerPaid),
			Money(r.PatientPaid),
			Percent(r.CoveragePct),
		})
	}
	return t
}

// Layout computes both pages of the report
func Layout(in Input) (Document, error) {
	for _, name := range []string{charts.SplitChart, charts.CoverageChart, charts.OOPChart} {
		if in.Charts[name] == "" {
			return Document{}, fmt.Errorf("missing %s chart image", name)
		}
	}

	reportType := string(in.Meta.ReportType)
	if reportType == "" {
		reportType = "N/A"
	}
	payers := strings.Join(in.Meta.SelectedPayers, ", ")
	if payers == "" {
		payers = "None selected"
	}

	doc := Document{
		Title:    DocumentTitle,
		Header:   HeaderTitle,
		Subtitle: fmt.Sprintf("Date Range: %s to %s  |  Report: %s", in.Meta.StartDate, in.Meta.EndDate, reportType),
		Footer:   FooterCaption,
	}

	add := func(e ...Element) {
		doc.Elements = append(doc.Elements, e...)
	}
	spacer := func(h float64) Element {
		return Element{Kind: ElementSpacer, Space: h}
	}

	// page 1
	add(
		Element{Kind: ElementTitle, Text: "2-Page Report"},
		Element{Kind: ElementMuted, Label: "Payers Reviewed:", Text: payers},
		spacer(10),
		Element{Kind: ElementCards, Cards: KPICards(in.KPIs)},
		spacer(12),
		Element{Kind: ElementHeading, Text: "Key Charts"},
		Element{Kind: ElementBody, Text: "Payer vs Patient Payment Split"},
		spacer(6),
		Element{Kind: ElementImage, Image: in.Charts[charts.SplitChart], Width: 7 * inch, Height: 2.7 * inch},
		spacer(10),
		Element{Kind: ElementBody, Text: "Coverage Rate by Payer"},
		spacer(6),
		Element{Kind: ElementImage, Image: in.Charts[charts.CoverageChart], Width: 7 * inch, Height: 2.7 * inch},
		spacer(10),
		Element{Kind: ElementHeading, Text: "Narrative Summary"},
	)
	for _, b := range ClassifyNarrative(in.Narrative) {
		switch b.Kind {
		case BlockSubheading:
			add(Element{Kind: ElementHeading, Text: b.Text})
		case BlockBullet:
			add(Element{Kind: ElementBullet, Text: b.Text})
		default:
			add(Element{Kind: ElementBody, Text: b.Text})
		}
	}

	add(Element{Kind: ElementPageBreak})

	// page 2
	add(
		Element{Kind: ElementTitle, Text: "Drilldown"},
		Element{Kind: ElementMuted, Text: "Top out-of-pocket drivers + payer-medication coverage review."},
		spacer(10),
		Element{Kind: ElementHeading, Text: "Top Medications by Patient Out-of-Pocket Cost"},
		spacer(6),
		Element{Kind: ElementImage, Image: in.Charts[charts.OOPChart], Width: 7 * inch, Height: 3 * inch},
		spacer(10),
		Element{Kind: ElementHeading, Text: "Payer-Medication Coverage Review (Top Meds)"},
		Element{Kind: ElementTable, Table: ReviewTable(in.Review, MaxTableRows)},
		spacer(10),
		Element{Kind: ElementHeading, Text: "Notes"},
		Element{Kind: ElementBody, Text: closingNote},
	)

	return doc, nil
}
