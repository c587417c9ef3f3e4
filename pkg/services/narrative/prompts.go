package narrative

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/de-tools/medcov/pkg/models/domain"
	"github.com/de-tools/medcov/pkg/services/payload"
)

// Fallback is the phrase the model must use for anything the payload lacks
const Fallback = "Not available in dashboard output"

var SystemPrompt = strings.TrimSpace(`
You are a healthcare analytics reporting assistant.
You must be accurate and grounded ONLY in the provided JSON data.

Hard rules:
- Do NOT invent numbers, payer names, medication names, or facts.
- If a detail is missing in JSON, say: "` + Fallback + `".
- Keep language concise, professional, and report-like.
- Do not mention prompts, tooling, or that you are an AI.
`)

const operationsTmpl = `
Generate content for a TWO-PAGE PDF report titled:
"Medication Coverage & Payer Analytics - Operations Drilldown"

Use ONLY the JSON below.

Output format (exact headings):
1) TL;DR (5 bullets)
2) What Stands Out (5 bullets)
3) Payer-Specific Flags (one mini-section per payer present in JSON):
   - PAYER: <name>
     - Issue Summary (2 bullets)
     - High-Risk Medications (up to 3 meds: include code + name)
4) Action Checklist (7 bullets)

Constraints:
- High-Risk Medications must be chosen ONLY from coverage_review_sample/top_oop_meds.
- If payer not present, say "{{.Fallback}}".
- Keep it actionable for payer analytics, contracting, pharmacy ops.

JSON:
{{.JSON}}
`

const executiveTmpl = `
Generate content for a TWO-PAGE PDF report titled:
"Medication Coverage & Payer Analytics - Executive Summary"

Use ONLY the JSON below.

Output format (exact headings):
1) TL;DR (5 bullets)
2) KPI Snapshot (1 short paragraph - include date range + payers reviewed)
3) Biggest Coverage Gaps (3 bullets)
4) Top Patient Burden Drivers (3 bullets)
5) Recommended Actions (5 bullets)

Constraints:
- Bullets must be short and specific.
- Use payer/med names EXACTLY as in JSON.
- Focus on cost/coverage analytics and operational actions.
- If information is missing, say "{{.Fallback}}".

JSON:
{{.JSON}}
`

var (
	operationsPrompt = template.Must(template.New("operations").Parse(operationsTmpl))
	executivePrompt  = template.Must(template.New("executive").Parse(executiveTmpl))
)

// UserPrompt renders the report type specific instruction around the payload
func UserPrompt(reportType domain.ReportType, p domain.Payload) (string, error) {
	data, err := payload.Encode(p)
	if err != nil {
		return "", err
	}

	tmpl := executivePrompt
	if reportType.IsOperations() {
		tmpl = operationsPrompt
	}

	var sb strings.Builder
	err = tmpl.Execute(&sb, struct {
		Fallback string
		JSON     string
	}{
		Fallback: Fallback,
		JSON:     string(data),
	})
	if err != nil {
		return "", fmt.Errorf("failed to render %s prompt: %w", tmpl.Name(), err)
	}
	return strings.TrimSpace(sb.String()), nil
}
