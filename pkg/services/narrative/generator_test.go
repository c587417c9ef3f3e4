package narrative

import (
	"context"
	"errors"
	"testing"

	"github.com/de-tools/medcov/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockCompleter struct {
	mock.Mock
}

func (m *mockCompleter) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	args := m.Called(ctx, req)
	return args.String(0), args.Error(1)
}

func samplePayload() domain.Payload {
	return domain.Payload{
		Meta: domain.MetaInfo{
			StartDate:      "2024-01-01",
			EndDate:        "2024-06-30",
			SelectedPayers: []string{"Medicare"},
			ReportType:     domain.ReportTypeSummary,
		},
		KPIs: domain.PayloadKPIs{TotalRx: 100, TotalCost: 1000, PayerPaid: 800, CoveragePct: 80},
		PayerCoverageSummary: []domain.PayloadPayer{
			{PayerName: "Medicare", TotalCost: 1000, PayerCoverage: 800, CoveragePct: 80},
		},
		TopOOPMeds: []domain.PayloadMed{
			{MedicationCode: "310965", MedicationName: "Ibuprofen 200 MG", TotalOOP: 200, TotalRx: 100},
		},
		CoverageReviewSample: []domain.PayloadReviewRow{},
	}
}

func TestUserPrompt(t *testing.T) {
	p := samplePayload()

	t.Run("operations variant", func(t *testing.T) {
		prompt, err := UserPrompt(domain.ReportTypeOperations, p)
		require.NoError(t, err)

		assert.Contains(t, prompt, "Operations Drilldown")
		assert.Contains(t, prompt, "Action Checklist (7 bullets)")
		assert.Contains(t, prompt, "PAYER: <name>")
		assert.Contains(t, prompt, `"PAYER_NAME": "Medicare"`)
		assert.Contains(t, prompt, Fallback)
	})

	t.Run("executive is the fallback variant", func(t *testing.T) {
		for _, rt := range []domain.ReportType{domain.ReportTypeSummary, domain.ReportTypeExecutive, ""} {
			prompt, err := UserPrompt(rt, p)
			require.NoError(t, err)

			assert.Contains(t, prompt, "Executive Summary")
			assert.Contains(t, prompt, "Recommended Actions (5 bullets)")
			assert.NotContains(t, prompt, "Action Checklist")
		}
	})

	t.Run("embeds every section", func(t *testing.T) {
		prompt, err := UserPrompt(domain.ReportTypeSummary, p)
		require.NoError(t, err)

		for _, section := range []string{"meta", "kpis", "payer_coverage_summary", "top_oop_meds", "coverage_review_sample"} {
			assert.Contains(t, prompt, `"`+section+`"`)
		}
	})
}

func TestSystemPrompt(t *testing.T) {
	assert.Contains(t, SystemPrompt, "Do NOT invent numbers")
	assert.Contains(t, SystemPrompt, Fallback)
}

func TestGenerator_Generate(t *testing.T) {
	ctx := context.Background()
	settings := Settings{Model: "gpt-4.1-mini", Temperature: DefaultTemperature}

	t.Run("returns raw text", func(t *testing.T) {
		completer := new(mockCompleter)
		completer.On("Complete", ctx, mock.MatchedBy(func(req CompletionRequest) bool {
			return req.System == SystemPrompt &&
				req.Model == "gpt-4.1-mini" &&
				req.Temperature == float32(0.2) &&
				req.User != ""
		})).Return("TL;DR:\n- first point", nil).Once()

		text, err := NewGenerator(completer, settings).Generate(ctx, domain.ReportTypeSummary, samplePayload())

		require.NoError(t, err)
		assert.Equal(t, "TL;DR:\n- first point", text)
		completer.AssertExpectations(t)
	})

	t.Run("wraps failures without retry", func(t *testing.T) {
		completer := new(mockCompleter)
		completer.On("Complete", ctx, mock.Anything).Return("", errors.New("quota exceeded")).Once()

		_, err := NewGenerator(completer, settings).Generate(ctx, domain.ReportTypeSummary, samplePayload())

		require.Error(t, err)
		assert.ErrorIs(t, err, ErrGeneration)
		assert.Contains(t, err.Error(), "quota exceeded")
		completer.AssertNumberOfCalls(t, "Complete", 1)
	})

	t.Run("blank reply is a generation failure", func(t *testing.T) {
		for _, reply := range []string{"", "  \n\t\n"} {
			completer := new(mockCompleter)
			completer.On("Complete", ctx, mock.Anything).Return(reply, nil).Once()

			_, err := NewGenerator(completer, settings).Generate(ctx, domain.ReportTypeSummary, samplePayload())

			assert.ErrorIs(t, err, ErrGeneration)
			completer.AssertNumberOfCalls(t, "Complete", 1)
		}
	})
}
