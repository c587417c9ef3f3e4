package report

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/de-tools/medcov/pkg/models/domain"
	"github.com/de-tools/medcov/pkg/services/charts"
	"github.com/de-tools/medcov/pkg/services/dashboard"
	"github.com/de-tools/medcov/pkg/services/document"
	"github.com/de-tools/medcov/pkg/services/narrative"
	"github.com/de-tools/medcov/pkg/services/payload"
	"github.com/de-tools/medcov/pkg/store/artifacts"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

var ErrMissingAPIKey = errors.New("OPENAI_API_KEY is not set, add it to your .env file")

var chartTitles = map[string]string{
	charts.SplitChart:    "Payer vs Patient Payment Split",
	charts.CoverageChart: "Coverage Rate by Payer",
	charts.OOPChart:      "Top Medications by Patient Out-of-Pocket Cost",
}

type Narrator interface {
	Generate(ctx context.Context, reportType domain.ReportType, p domain.Payload) (string, error)
}

type ChartExporter interface {
	Export(dir string, cs ...charts.Chart) (map[string]string, error)
}

type Renderer interface {
	Render(doc document.Document, path string) (int, error)
}

// History records delivered reports. A failed record does not fail the delivered report.
type History interface {
	Add(ctx context.Context, record domain.ReportRecord) error
}

type Dependencies struct {
	APIKey   string
	Narrator Narrator
	Charts   ChartExporter
	Theme    charts.Theme
	Renderer Renderer
	Sink     artifacts.Sink
	// History is optional
	History History
}

// Request is one report attempt over an already computed dashboard snapshot
type Request struct {
	Snapshot   *domain.Snapshot
	ReportType domain.ReportType
	// MaxReviewRows caps the review rows handed to the generator. Nil sends all rows.
	MaxReviewRows *int
}

type Artifact struct {
	Record    domain.ReportRecord
	Pages     int
	Narrative string
}

type Service struct {
	deps Dependencies
	now  func() time.Time
}

func NewService(deps Dependencies) *Service {
	return &Service{deps: deps, now: time.Now}
}

// Ready reports whether a narrative can be requested at all. Callers check it before computing a snapshot.
func (s *Service) Ready() error {
	if strings.TrimSpace(s.deps.APIKey) == "" {
		return ErrMissingAPIKey
	}
	return nil
}

// Generate runs the whole report pipeline. Nothing is delivered unless every step succeeds.
func (s *Service) Generate(ctx context.Context, req Request) (*Artifact, error) {
	logger := zerolog.Ctx(ctx)

	if err := s.Ready(); err != nil {
		return nil, err
	}
	snap := req.Snapshot
	if snap == nil || snap.KPIs.TotalRx == 0 {
		return nil, dashboard.ErrNoData
	}

	meta := domain.MetaInfo{
		StartDate:      snap.Filters.Start.Format(domain.DateLayout),
		EndDate:        snap.Filters.End.Format(domain.DateLayout),
		SelectedPayers: slices.Clone(snap.Filters.Payers),
		ReportType:     req.ReportType,
	}

	opts := payload.Options{MaxReviewRows: req.MaxReviewRows}
	p := payload.Pack(meta, snap.KPIs, snap.Payers, snap.Medications, snap.Review, opts)

	text, err := s.deps.Narrator.Generate(ctx, req.ReportType, p)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: narrative is empty", narrative.ErrGeneration)
	}

	dir, err := os.MkdirTemp("", "medcov-report-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create working directory: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(dir); err != nil {
			logger.Warn().Err(err).Str("dir", dir).Msg("failed to remove working directory")
		}
	}()

	styled := make([]charts.Chart, 0, 3)
	for _, c := range charts.ForSnapshot(snap) {
		styled = append(styled, s.deps.Theme.Apply(c, chartTitles[c.Name]))
	}
	images, err := s.deps.Charts.Export(dir, styled...)
	if err != nil {
		return nil, err
	}

	doc, err := document.Layout(document.Input{
		Meta:      meta,
		KPIs:      snap.KPIs,
		Review:    snap.Review,
		Narrative: text,
		Charts:    images,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to lay out report: %w", err)
	}

	local := filepath.Join(dir, domain.ReportFileName)
	pages, err := s.deps.Renderer.Render(doc, local)
	if err != nil {
		return nil, fmt.Errorf("failed to render report: %w", err)
	}

	record := domain.ReportRecord{
		ID:         uuid.NewString(),
		CreatedAt:  s.now().UTC(),
		StartDate:  meta.StartDate,
		EndDate:    meta.EndDate,
		Payers:     meta.SelectedPayers,
		ReportType: req.ReportType,
	}
	location, err := s.deps.Sink.Deliver(ctx, local, path.Join(record.ID, domain.ReportFileName))
	if err != nil {
		return nil, fmt.Errorf("failed to deliver report: %w", err)
	}
	record.Location = location

	if s.deps.History != nil {
		if err := s.deps.History.Add(ctx, record); err != nil {
			logger.Warn().Err(err).Str("id", record.ID).Msg("failed to record report history")
		}
	}

	logger.Info().
		Str("id", record.ID).
		Str("location", location).
		Int("pages", pages).
		Msg("report delivered")

	return &Artifact{Record: record, Pages: pages, Narrative: text}, nil
}
