package export

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"
	"unicode/utf8"

	"github.com/de-tools/medcov/pkg/models/domain"
	"github.com/de-tools/medcov/pkg/services/document"
)

type TableConfig struct {
	// MaxCellWidth truncates longer cells, zero disables truncation
	MaxCellWidth int
}

func DefaultTableConfig() TableConfig {
	return TableConfig{
		MaxCellWidth: 40,
	}
}

type table struct {
	Title  string
	Header []string
	Rows   [][]string
	Widths []int
}

type view struct {
	Start  string
	End    string
	Payers string
	KPIs   []document.Card
	Tables []table
}

type Reporter struct {
	writer io.Writer
	config TableConfig
}

func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{
		writer: writer,
		config: DefaultTableConfig(),
	}
}

const dashboardTemplate = `
Medication Coverage & Payer Analytics
Date Range: {{.Start}} to {{.End}}
Payers: {{.Payers}}

{{range .KPIs}}{{.Label}}: {{.Value}}
{{end}}{{range $t := .Tables}}
=== {{$t.Title}} ===
{{separator $t.Widths}}
{{formatRow $t.Widths $t.Header}}
{{separator $t.Widths}}
{{range $t.Rows}}{{formatRow $t.Widths .}}
{{end}}{{separator $t.Widths}}
{{end}}`

// Handle prints the KPIs and the three dashboard tables of s
func (c *Reporter) Handle(s *domain.Snapshot) error {
	if s == nil {
		return fmt.Errorf("snapshot is nil")
	}

	v := view{
		Start:  s.Filters.Start.Format(domain.DateLayout),
		End:    s.Filters.End.Format(domain.DateLayout),
		Payers: strings.Join(s.Filters.Payers, ", "),
		KPIs: append(document.KPICards(s.KPIs),
			document.Card{Label: "Patient Paid", Value: document.Money(s.KPIs.PatientPaid)}),
		Tables: []table{
			c.payerTable(s.Payers),
			c.medicationTable(s.Medications),
			c.reviewTable(s.Review),
		},
	}

	funcMap := template.FuncMap{
		"formatRow": c.formatRow,
		"separator": separator,
	}

	t, err := template.New("dashboard").Funcs(funcMap).Parse(dashboardTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}
	return t.Execute(c.writer, v)
}

func (c *Reporter) payerTable(payers []domain.PayerAggregate) table {
	t := table{
		Title:  "Coverage Rate by Payer",
		Header: []string{"Payer", "Total Cost", "Payer Coverage", "Coverage %"},
	}
	for _, p := range payers {
		t.Rows = append(t.Rows, []string{
			p.PayerName,
			document.Money(p.TotalCost),
			document.Money(p.PayerCoverage),
			document.Percent(p.CoveragePct),
		})
	}
	return c.sized(t)
}

func (c *Reporter) medicationTable(meds []domain.MedicationAggregate) table {
	t := table{
		Title:  "Top Medications by Patient Out-of-Pocket Cost",
		Header: []string{"Code", "Medication", "Patient OOP", "Prescriptions"},
	}
	for _, m := range meds {
		t.Rows = append(t.Rows, []string{
			m.Code,
			m.Name,
			document.Money(m.TotalOOP),
			document.Quantity(m.TotalRx),
		})
	}
	return c.sized(t)
}

func (c *Reporter) reviewTable(rows []domain.ReviewRow) table {
	t := document.ReviewTable(rows, -1)
	return c.sized(table{
		Title:  "Payer-Medication Coverage Review",
		Header: t.Header,
		Rows:   t.Rows,
	})
}

func (c *Reporter) sized(t table) table {
	t.Widths = make([]int, len(t.Header))
	for i, h := range t.Header {
		t.Widths[i] = c.cellWidth(h)
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			if w := c.cellWidth(cell); w > t.Widths[i] {
				t.Widths[i] = w
			}
		}
	}
	return t
}

func (c *Reporter) cellWidth(s string) int {
	n := utf8.RuneCountInString(s)
	if c.config.MaxCellWidth > 0 && n > c.config.MaxCellWidth {
		return c.config.MaxCellWidth
	}
	return n
}

func (c *Reporter) truncate(s string) string {
	if c.config.MaxCellWidth <= 0 || utf8.RuneCountInString(s) <= c.config.MaxCellWidth {
		return s
	}
	r := []rune(s)
	return string(r[:c.config.MaxCellWidth-1]) + "…"
}

func (c *Reporter) formatRow(widths []int, cells []string) string {
	var b strings.Builder
	b.WriteString("|")
	for i, w := range widths {
		cell := ""
		if i < len(cells) {
			cell = c.truncate(cells[i])
		}
		pad := w - utf8.RuneCountInString(cell)
		if pad < 0 {
			pad = 0
		}
		b.WriteString(" ")
		b.WriteString(cell)
		b.WriteString(strings.Repeat(" ", pad))
		b.WriteString(" |")
	}
	return b.String()
}

func separator(widths []int) string {
	var b strings.Builder
	b.WriteString("+")
	for _, w := range widths {
		b.WriteString(strings.Repeat("-", w+2))
		b.WriteString("+")
	}
	return b.String()
}
