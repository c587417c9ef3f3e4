package medications

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/de-tools/medcov/pkg/adapters"
	"github.com/de-tools/medcov/pkg/models/domain"
	"github.com/de-tools/medcov/pkg/models/store"
	"github.com/de-tools/medcov/pkg/store/warehouse"
	"github.com/rs/zerolog"
)

var ErrEmptyWarehouse = errors.New("no medication facts in warehouse")

const dateBoundsQuery = `
	SELECT
		MIN(MED_START_TS) AS MIN_DATE,
		MAX(MED_START_TS) AS MAX_DATE
	FROM PUBLIC.FACT_MEDICATIONS`

const factsQuery = `
	SELECT
		CAST(f.PATIENT_ID AS VARCHAR),
		CAST(f.PAYER_ID AS VARCHAR),
		TRIM(COALESCE(p.PAYER_NAME, 'Other / Unknown')),
		CAST(f.ENCOUNTER_ID AS VARCHAR),
		f.MED_START_TS,
		CAST(f.MEDICATION_CODE AS VARCHAR),
		f.MEDICATION_NAME,
		f.BASE_COST,
		f.PAYER_COVERAGE,
		f.TOTAL_COST,
		f.DISPENSES
	FROM PUBLIC.FACT_MEDICATIONS f
	LEFT JOIN PUBLIC.DIM_PAYERS p ON CAST(f.PAYER_ID AS VARCHAR) = CAST(p.PAYER_ID AS VARCHAR)
	WHERE CAST(f.MED_START_TS AS DATE) BETWEEN CAST(%s AS DATE) AND CAST(%s AS DATE)`

// Store reads medication facts from the warehouse
type Store interface {
	DateBounds(ctx context.Context) (domain.DateBounds, error)
	ListFacts(ctx context.Context, start, end time.Time) ([]domain.MedicationFact, error)
}

type medicationStore struct {
	db     *sql.DB
	driver string
}

// NewStore wraps an open warehouse connection. driver picks the bind parameter syntax.
func NewStore(db *sql.DB, driver string) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &medicationStore{db: db, driver: driver}, nil
}

func (s *medicationStore) DateBounds(ctx context.Context) (domain.DateBounds, error) {
	var b store.DateBounds
	if err := s.db.QueryRowContext(ctx, dateBoundsQuery).Scan(&b.Min, &b.Max); err != nil {
		return domain.DateBounds{}, fmt.Errorf("date bounds query failed: %w", err)
	}
	if !b.Valid() {
		return domain.DateBounds{}, ErrEmptyWarehouse
	}
	return adapters.MapStoreDateBoundsToDomain(b), nil
}

func (s *medicationStore) ListFacts(ctx context.Context, start, end time.Time) ([]domain.MedicationFact, error) {
	logger := zerolog.Ctx(ctx)
	query := fmt.Sprintf(factsQuery, warehouse.Placeholder(s.driver, 1), warehouse.Placeholder(s.driver, 2))

	began := time.Now()
	rows, err := s.db.QueryContext(ctx, query, start.Format(domain.DateLayout), end.Format(domain.DateLayout))
	if err != nil {
		return nil, fmt.Errorf("medication facts query failed: %w", err)
	}
	defer rows.Close()

	var facts []domain.MedicationFact
	for rows.Next() {
		var r store.MedicationRow
		err := rows.Scan(
			&r.PatientID,
			&r.PayerID,
			&r.PayerName,
			&r.EncounterID,
			&r.StartedAt,
			&r.MedicationCode,
			&r.MedicationName,
			&r.BaseCost,
			&r.PayerCoverage,
			&r.TotalCost,
			&r.Dispenses,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan medication fact: %w", err)
		}
		facts = append(facts, adapters.MapStoreMedicationRowToDomainFact(r))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read medication facts: %w", err)
	}

	logger.Debug().
		Int("rows", len(facts)).
		Dur("elapsed", time.Since(began)).
		Msg("loaded medication facts")
	return facts, nil
}
