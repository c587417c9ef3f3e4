package dashboard

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/de-tools/medcov/pkg/adapters"
	"github.com/de-tools/medcov/pkg/models/api"
	"github.com/de-tools/medcov/pkg/models/domain"
	"github.com/de-tools/medcov/pkg/services/charts"
	"github.com/de-tools/medcov/pkg/services/dashboard"
	"github.com/de-tools/medcov/pkg/services/narrative"
	"github.com/de-tools/medcov/pkg/services/report"
	"github.com/de-tools/medcov/pkg/store/duckdb/reports"
	"github.com/de-tools/medcov/pkg/store/medications"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

type SnapshotService interface {
	DateBounds(ctx context.Context) (domain.DateBounds, error)
	Snapshot(ctx context.Context, filters domain.Filters) (*domain.Snapshot, error)
}

type ReportService interface {
	Ready() error
	Generate(ctx context.Context, req report.Request) (*report.Artifact, error)
}

type ChartRenderer interface {
	Render(w io.Writer, c charts.Chart) error
}

type History interface {
	Get(ctx context.Context, id string) (*domain.ReportRecord, error)
	Latest(ctx context.Context) (*domain.ReportRecord, error)
}

type Artifacts interface {
	Open(ctx context.Context, location string) (io.ReadCloser, error)
}

type Dependencies struct {
	Dashboard SnapshotService
	Reports   ReportService
	Charts    ChartRenderer
	Theme     charts.Theme
	History   History
	Artifacts Artifacts
	// MaxReviewRows is used when a report request does not set its own cap
	MaxReviewRows *int
}

type Handler struct {
	deps Dependencies
}

func NewHandler(deps Dependencies) *Handler {
	return &Handler{deps: deps}
}

var (
	errBadRequest = errors.New("bad request")
	errNotFound   = errors.New("not found")
)

var chartNames = []string{charts.SplitChart, charts.CoverageChart, charts.OOPChart}

// Routes registers the dashboard and report endpoints on r
func (h *Handler) Routes(r chi.Router) {
	r.Get("/bounds", h.GetBounds)
	r.Get("/dashboard", h.GetDashboard)
	r.Get("/charts/{name}.png", h.GetChart)
	r.Post("/reports", h.CreateReport)
	r.Get("/reports/latest", h.GetLatestReport)
	r.Get("/reports/{id}/download", h.DownloadReport)
}

func (h *Handler) GetBounds(w http.ResponseWriter, r *http.Request) {
	bounds, err := h.deps.Dashboard.DateBounds(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, adapters.MapDomainDateBoundsToAPI(bounds))
}

func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	snap, err := h.snapshotFromQuery(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, adapters.MapDomainSnapshotToAPI(snap))
}

func (h *Handler) GetChart(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if !slices.Contains(chartNames, name) {
		writeError(w, r, fmt.Errorf("%w: unknown chart %q", errNotFound, name))
		return
	}

	snap, err := h.snapshotFromQuery(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	for _, c := range charts.ForSnapshot(snap) {
		if c.Name != name {
			continue
		}
		var buf bytes.Buffer
		if err := h.deps.Charts.Render(&buf, h.deps.Theme.Apply(c, "")); err != nil {
			writeError(w, r, err)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		if _, err := buf.WriteTo(w); err != nil {
			zerolog.Ctx(r.Context()).Error().Err(err).Str("chart", name).Msg("failed to write chart")
		}
		return
	}
}

func (h *Handler) CreateReport(w http.ResponseWriter, r *http.Request) {
	var body api.ReportRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, r, fmt.Errorf("%w: invalid JSON body: %v", errBadRequest, err))
		return
	}

	filters, err := parseFilters(body.StartDate, body.EndDate, body.Payers, body.Payers != nil)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.deps.Reports.Ready(); err != nil {
		writeError(w, r, err)
		return
	}
	snap, err := h.deps.Dashboard.Snapshot(r.Context(), filters)
	if err != nil {
		writeError(w, r, err)
		return
	}

	reportType := domain.ReportType(strings.TrimSpace(body.ReportType))
	if reportType == "" {
		reportType = domain.ReportTypeSummary
	}
	maxRows := body.MaxReviewRows
	if maxRows == nil {
		maxRows = h.deps.MaxReviewRows
	}

	art, err := h.deps.Reports.Generate(r.Context(), report.Request{
		Snapshot:      snap,
		ReportType:    reportType,
		MaxReviewRows: maxRows,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, adapters.MapDomainReportToAPI(art.Record, downloadURL(art.Record.ID)))
}

func (h *Handler) GetLatestReport(w http.ResponseWriter, r *http.Request) {
	rec, err := h.deps.History.Latest(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, adapters.MapDomainReportToAPI(*rec, downloadURL(rec.ID)))
}

func (h *Handler) DownloadReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	rec, err := h.deps.History.Get(ctx, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	body, err := h.deps.Artifacts.Open(ctx, rec.Location)
	if err != nil {
		writeError(w, r, err)
		return
	}
	defer body.Close()

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, domain.ReportFileName))
	if _, err := io.Copy(w, body); err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("id", id).Msg("failed to stream report")
	}
}

func downloadURL(id string) string {
	return "/api/v1/reports/" + id + "/download"
}

func (h *Handler) snapshotFromQuery(r *http.Request) (*domain.Snapshot, error) {
	q := r.URL.Query()

	var payers []string
	_, explicit := q["payers"]
	for _, v := range q["payers"] {
		payers = append(payers, strings.Split(v, ",")...)
	}

	filters, err := parseFilters(q.Get("start"), q.Get("end"), payers, explicit)
	if err != nil {
		return nil, err
	}
	return h.deps.Dashboard.Snapshot(r.Context(), filters)
}

// parseFilters keeps zero dates for the service to default. Omitted payers select the default list.
func parseFilters(start, end string, payers []string, explicit bool) (domain.Filters, error) {
	var f domain.Filters
	var err error

	if start != "" {
		if f.Start, err = time.Parse(domain.DateLayout, start); err != nil {
			return f, fmt.Errorf("%w: start must be YYYY-MM-DD", errBadRequest)
		}
	}
	if end != "" {
		if f.End, err = time.Parse(domain.DateLayout, end); err != nil {
			return f, fmt.Errorf("%w: end must be YYYY-MM-DD", errBadRequest)
		}
	}

	f.Payers = payers
	if !explicit {
		f.Payers = dashboard.DefaultPayers
	}
	return f, nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, errBadRequest), errors.Is(err, dashboard.ErrNoPayers):
		return http.StatusBadRequest
	case errors.Is(err, dashboard.ErrNoData), errors.Is(err, medications.ErrEmptyWarehouse),
		errors.Is(err, reports.ErrNotFound), errors.Is(err, errNotFound):
		return http.StatusNotFound
	case errors.Is(err, report.ErrMissingAPIKey):
		return http.StatusUnprocessableEntity
	case errors.Is(err, narrative.ErrGeneration):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	logger := zerolog.Ctx(r.Context())
	if status >= http.StatusInternalServerError {
		logger.Error().Err(err).Int("status", status).Msg("request failed")
	} else {
		logger.Warn().Err(err).Int("status", status).Msg("request rejected")
	}
	writeJSON(w, r, status, api.Error{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to encode response")
	}
}
