package dashboard

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/de-tools/medcov/pkg/models/domain"
	"github.com/de-tools/medcov/pkg/services/aggregate"
	"github.com/de-tools/medcov/pkg/store/medications"
	"github.com/rs/zerolog"
)

var (
	ErrNoPayers = errors.New("select at least one payer to see results")
	ErrNoData   = errors.New("no data for the selected filters")
)

// DefaultPayers are offered (and preselected) by every surface
var DefaultPayers = []string{
	"Medicaid",
	"Medicare",
	"Blue Cross Blue Shield",
	"Dual Eligible",
}

type Service struct {
	store medications.Store
}

func NewService(store medications.Store) *Service {
	return &Service{store: store}
}

func (s *Service) DateBounds(ctx context.Context) (domain.DateBounds, error) {
	return s.store.DateBounds(ctx)
}

// Resolve fills a zero start or end with the warehouse bounds and normalizes the payer list
func (s *Service) Resolve(ctx context.Context, filters domain.Filters) (domain.Filters, error) {
	payers := normalizePayers(filters.Payers)
	if len(payers) == 0 {
		return domain.Filters{}, ErrNoPayers
	}
	out := domain.Filters{Start: filters.Start, End: filters.End, Payers: payers}

	if out.Start.IsZero() || out.End.IsZero() {
		bounds, err := s.store.DateBounds(ctx)
		if err != nil {
			return domain.Filters{}, err
		}
		if out.Start.IsZero() {
			out.Start = truncateDay(bounds.Min)
		}
		if out.End.IsZero() {
			out.End = truncateDay(bounds.Max)
		}
	}
	if out.End.Before(out.Start) {
		return domain.Filters{}, fmt.Errorf("end date %s is before start date %s",
			out.End.Format(domain.DateLayout), out.Start.Format(domain.DateLayout))
	}
	return out, nil
}

// Snapshot computes KPIs and the three aggregates for filters
func (s *Service) Snapshot(ctx context.Context, filters domain.Filters) (*domain.Snapshot, error) {
	logger := zerolog.Ctx(ctx)

	resolved, err := s.Resolve(ctx, filters)
	if err != nil {
		return nil, err
	}

	facts, err := s.store.ListFacts(ctx, resolved.Start, resolved.End)
	if err != nil {
		return nil, fmt.Errorf("failed to load medication facts: %w", err)
	}
	if len(facts) == 0 {
		return nil, fmt.Errorf("%w: no medications between %s and %s", ErrNoData,
			resolved.Start.Format(domain.DateLayout), resolved.End.Format(domain.DateLayout))
	}

	facts = aggregate.FilterPayers(facts, resolved.Payers)
	if len(facts) == 0 {
		return nil, fmt.Errorf("%w: no medications after applying payer filter", ErrNoData)
	}

	top := aggregate.TopOOPMedications(facts, aggregate.TopN)
	snapshot := &domain.Snapshot{
		Filters:     resolved,
		KPIs:        aggregate.KPIs(facts),
		Payers:      aggregate.PayerCoverage(facts),
		Medications: top,
		Review:      aggregate.CoverageReview(facts, top),
	}

	logger.Info().
		Str("start", resolved.Start.Format(domain.DateLayout)).
		Str("end", resolved.End.Format(domain.DateLayout)).
		Strs("payers", resolved.Payers).
		Int("total_rx", snapshot.KPIs.TotalRx).
		Msg("computed dashboard snapshot")

	return snapshot, nil
}

func normalizePayers(payers []string) []string {
	out := make([]string, 0, len(payers))
	for _, p := range payers {
		p = strings.TrimSpace(p)
		if p != "" && !slices.Contains(out, p) {
			out = append(out, p)
		}
	}
	return out
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
