package reports

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/de-tools/medcov/pkg/adapters"
	"github.com/de-tools/medcov/pkg/models/domain"
	"github.com/de-tools/medcov/pkg/models/store"
	"github.com/de-tools/medcov/pkg/store/duckdb"
)

var (
	ErrNotFound  = errors.New("report not found")
	ErrDuplicate = errors.New("report already recorded")
)

// Store keeps the history of delivered reports
type Store interface {
	Add(ctx context.Context, record domain.ReportRecord) error
	Get(ctx context.Context, id string) (*domain.ReportRecord, error)
	Latest(ctx context.Context) (*domain.ReportRecord, error)
}

type reportStore struct {
	db *sql.DB
}

func NewStore(db *sql.DB) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &reportStore{
		db: db,
	}, nil
}

func (s *reportStore) Add(ctx context.Context, record domain.ReportRecord) error {
	row, err := adapters.MapDomainReportToStoreRecord(record)
	if err != nil {
		return err
	}

	return duckdb.InTransaction(ctx, s.db, func(ctx context.Context) error {
		conn := duckdb.ConnFrom(ctx, s.db)

		var n int
		if err := conn.QueryRowContext(ctx, `SELECT count(*) FROM reports WHERE id = ?`, row.ID).Scan(&n); err != nil {
			return fmt.Errorf("lookup report: %w", err)
		}
		if n > 0 {
			return fmt.Errorf("%w: %s", ErrDuplicate, row.ID)
		}

		_, err := conn.ExecContext(ctx, `
			INSERT INTO reports (id, created_at, start_date, end_date, payers, report_type, location)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			row.ID,
			row.CreatedAt,
			row.StartDate,
			row.EndDate,
			row.Payers,
			row.ReportType,
			row.Location,
		)
		if err != nil {
			return fmt.Errorf("insert report: %w", err)
		}
		return nil
	})
}

const selectReport = `
	SELECT id, created_at, start_date, end_date, payers, report_type, location
	FROM reports`

func (s *reportStore) Get(ctx context.Context, id string) (*domain.ReportRecord, error) {
	return s.scan(duckdb.ConnFrom(ctx, s.db).QueryRowContext(ctx, selectReport+` WHERE id = ?`, id))
}

func (s *reportStore) Latest(ctx context.Context) (*domain.ReportRecord, error) {
	return s.scan(duckdb.ConnFrom(ctx, s.db).QueryRowContext(ctx, selectReport+` ORDER BY created_at DESC LIMIT 1`))
}

func (s *reportStore) scan(row *sql.Row) (*domain.ReportRecord, error) {
	var r store.ReportRecord
	err := row.Scan(&r.ID, &r.CreatedAt, &r.StartDate, &r.EndDate, &r.Payers, &r.ReportType, &r.Location)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan report: %w", err)
	}

	record, err := adapters.MapStoreRecordToDomainReport(r)
	if err != nil {
		return nil, err
	}
	return &record, nil
}
