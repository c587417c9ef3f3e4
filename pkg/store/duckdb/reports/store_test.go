package reports

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/de-tools/medcov/pkg/models/domain"
	"github.com/de-tools/medcov/pkg/store/duckdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	db    *sql.DB
	store Store
}

func setupFixture(t *testing.T) *fixture {
	db, err := duckdb.NewDB(duckdb.Settings{DbPath: ":memory:"})
	require.NoError(t, err)

	store, err := NewStore(db)
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Close()
	})

	return &fixture{
		db:    db,
		store: store,
	}
}

func record(id string, created time.Time) domain.ReportRecord {
	return domain.ReportRecord{
		ID:         id,
		CreatedAt:  created,
		StartDate:  "2024-01-01",
		EndDate:    "2024-06-30",
		Payers:     []string{"Medicare", "Medicaid"},
		ReportType: domain.ReportTypeSummary,
		Location:   "/reports/" + id + "/" + domain.ReportFileName,
	}
}

func TestReportStore(t *testing.T) {
	ctx := context.Background()

	t.Run("latest on empty history", func(t *testing.T) {
		f := setupFixture(t)

		_, err := f.store.Latest(ctx)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("add get and latest", func(t *testing.T) {
		f := setupFixture(t)
		older := record("r-1", time.Date(2024, 7, 1, 9, 0, 0, 0, time.UTC))
		newer := record("r-2", time.Date(2024, 7, 2, 9, 0, 0, 0, time.UTC))
		newer.ReportType = domain.ReportTypeOperations

		require.NoError(t, f.store.Add(ctx, newer))
		require.NoError(t, f.store.Add(ctx, older))

		got, err := f.store.Get(ctx, "r-1")
		require.NoError(t, err)
		assert.Equal(t, older.ID, got.ID)
		assert.Equal(t, older.Payers, got.Payers)
		assert.Equal(t, older.Location, got.Location)
		assert.True(t, older.CreatedAt.Equal(got.CreatedAt))

		latest, err := f.store.Latest(ctx)
		require.NoError(t, err)
		assert.Equal(t, "r-2", latest.ID)
		assert.Equal(t, domain.ReportTypeOperations, latest.ReportType)
	})

	t.Run("unknown id", func(t *testing.T) {
		f := setupFixture(t)

		_, err := f.store.Get(ctx, "missing")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("duplicate id", func(t *testing.T) {
		f := setupFixture(t)
		r := record("dup", time.Now().UTC())

		require.NoError(t, f.store.Add(ctx, r))
		assert.ErrorIs(t, f.store.Add(ctx, r), ErrDuplicate)

		got, err := f.store.Get(ctx, "dup")
		require.NoError(t, err)
		assert.Equal(t, r.Location, got.Location)
	})

	t.Run("inside a transaction", func(t *testing.T) {
		f := setupFixture(t)
		tx, err := f.db.BeginTx(ctx, nil)
		require.NoError(t, err)

		txCtx := duckdb.WithTransaction(ctx, tx)
		require.NoError(t, f.store.Add(txCtx, record("tx-1", time.Now().UTC())))
		require.NoError(t, tx.Rollback())

		_, err = f.store.Get(ctx, "tx-1")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("InTransaction commits", func(t *testing.T) {
		f := setupFixture(t)
		err := duckdb.InTransaction(ctx, f.db, func(ctx context.Context) error {
			return f.store.Add(ctx, record("tx-2", time.Now().UTC()))
		})
		require.NoError(t, err)

		got, err := f.store.Get(ctx, "tx-2")
		require.NoError(t, err)
		assert.Equal(t, "tx-2", got.ID)
	})

	t.Run("InTransaction rolls back on error", func(t *testing.T) {
		f := setupFixture(t)
		err := duckdb.InTransaction(ctx, f.db, func(ctx context.Context) error {
			if err := f.store.Add(ctx, record("tx-3", time.Now().UTC())); err != nil {
				return err
			}
			return assert.AnError
		})
		assert.ErrorIs(t, err, assert.AnError)

		_, err = f.store.Get(ctx, "tx-3")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("InTransaction joins an outer transaction", func(t *testing.T) {
		f := setupFixture(t)
		tx, err := f.db.BeginTx(ctx, nil)
		require.NoError(t, err)

		txCtx := duckdb.WithTransaction(ctx, tx)
		err = duckdb.InTransaction(txCtx, f.db, func(ctx context.Context) error {
			assert.Same(t, tx, duckdb.GetTransaction(ctx))
			return f.store.Add(ctx, record("tx-4", time.Now().UTC()))
		})
		require.NoError(t, err)

		_, err = f.store.Get(txCtx, "tx-4")
		require.NoError(t, err)
		require.NoError(t, tx.Rollback())

		_, err = f.store.Get(ctx, "tx-4")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("nil db", func(t *testing.T) {
		_, err := NewStore(nil)
		assert.Error(t, err)
	})
}
