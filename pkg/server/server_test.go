package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	handlers "github.com/de-tools/medcov/pkg/handlers/dashboard"
	"github.com/de-tools/medcov/pkg/models/api"
	"github.com/de-tools/medcov/pkg/models/domain"
	"github.com/de-tools/medcov/pkg/server/middleware"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockSnapshots struct {
	mock.Mock
}

func (m *mockSnapshots) DateBounds(ctx context.Context) (domain.DateBounds, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.DateBounds), args.Error(1)
}

func (m *mockSnapshots) Snapshot(ctx context.Context, filters domain.Filters) (*domain.Snapshot, error) {
	args := m.Called(ctx, filters)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Snapshot), args.Error(1)
}

func TestWebAPI_Endpoints(t *testing.T) {
	logger := zerolog.New(zerolog.NewTestWriter(t))

	snapshots := new(mockSnapshots)
	snapshots.On("DateBounds", mock.Anything).Return(domain.DateBounds{
		Min: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		Max: time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
	}, nil)

	webAPI := NewWebAPI(logger, Config{
		Addr:         ":8080",
		Dependencies: handlers.Dependencies{Dashboard: snapshots},
	})

	t.Run("bounds under api prefix", func(t *testing.T) {
		rec := httptest.NewRecorder()
		webAPI.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/bounds", nil))

		require.Equal(t, http.StatusOK, rec.Code)
		assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))

		var body api.DateBounds
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Equal(t, "2020-01-01", body.Min)
	})

	t.Run("health", func(t *testing.T) {
		rec := httptest.NewRecorder()
		webAPI.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("unknown route", func(t *testing.T) {
		rec := httptest.NewRecorder()
		webAPI.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/claims", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("panics are recovered", func(t *testing.T) {
		// a nil history makes the handler panic
		rec := httptest.NewRecorder()
		webAPI.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/reports/latest", nil))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}
