package workbook

import (
	"fmt"
	"io"

	"github.com/de-tools/medcov/pkg/models/domain"
	"github.com/xuri/excelize/v2"
)

const (
	KPISheet        = "KPIs"
	PayerSheet      = "Payer Coverage"
	MedicationSheet = "Top OOP Medications"
	ReviewSheet     = "Coverage Review"

	FileName = "Medication_Coverage_Aggregates.xlsx"
)

type sheet struct {
	name   string
	header []any
	rows   [][]any
}

// Build lays the snapshot out as one sheet per aggregate
func Build(s *domain.Snapshot) (*excelize.File, error) {
	sheets := []sheet{
		{
			name:   KPISheet,
			header: []any{"Metric", "Value"},
			rows: [][]any{
				{"Start Date", s.Filters.Start.Format(domain.DateLayout)},
				{"End Date", s.Filters.End.Format(domain.DateLayout)},
				{"Total Rx", s.KPIs.TotalRx},
				{"Total Cost", s.KPIs.TotalCost},
				{"Payer Paid", s.KPIs.PayerPaid},
				{"Patient Paid", s.KPIs.PatientPaid},
				{"Coverage %", s.KPIs.CoveragePct},
			},
		},
		{name: PayerSheet, header: []any{"PAYER_NAME", "TOTAL_COST", "PAYER_COVERAGE", "COVERAGE_PCT"}},
		{name: MedicationSheet, header: []any{"MEDICATION_CODE", "MEDICATION_NAME", "TOTAL_OOP", "TOTAL_RX"}},
		{
			name: ReviewSheet,
			header: []any{"PAYER_NAME", "MEDICATION_CODE", "MEDICATION_NAME", "PRESCRIPTIONS",
				"TOTAL_COST", "PAYER_PAID", "PATIENT_PAID", "COVERAGE_PCT"},
		},
	}
	for _, p := range s.Payers {
		sheets[1].rows = append(sheets[1].rows, []any{p.PayerName, p.TotalCost, p.PayerCoverage, p.CoveragePct})
	}
	for _, m := range s.Medications {
		sheets[2].rows = append(sheets[2].rows, []any{m.Code, m.Name, m.TotalOOP, m.TotalRx})
	}
	for _, r := range s.Review {
		sheets[3].rows = append(sheets[3].rows, []any{
			r.PayerName, r.MedicationCode, r.MedicationName, r.Prescriptions,
			r.TotalCost, r.PayerPaid, r.PatientPaid, r.CoveragePct,
		})
	}

	f := excelize.NewFile()
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}

	for i, sh := range sheets {
		if i == 0 {
			err = f.SetSheetName("Sheet1", sh.name)
		} else {
			_, err = f.NewSheet(sh.name)
		}
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("failed to create sheet %s: %w", sh.name, err)
		}
		if err := writeSheet(f, sh, bold); err != nil {
			f.Close()
			return nil, err
		}
	}
	f.SetActiveSheet(0)
	return f, nil
}

func writeSheet(f *excelize.File, sh sheet, headerStyle int) error {
	if err := f.SetSheetRow(sh.name, "A1", &sh.header); err != nil {
		return fmt.Errorf("failed to write %s header: %w", sh.name, err)
	}
	last, err := excelize.CoordinatesToCellName(len(sh.header), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sh.name, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("failed to style %s header: %w", sh.name, err)
	}

	for i, row := range sh.rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sh.name, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sh.name, i+1, err)
		}
	}
	return nil
}

// Write streams the workbook for s to w
func Write(w io.Writer, s *domain.Snapshot) error {
	f, err := Build(s)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// Save writes the workbook for s to path
func Save(path string, s *domain.Snapshot) error {
	f, err := Build(s)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}
