package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/de-tools/medcov/pkg/services/charts"
	"github.com/de-tools/medcov/pkg/services/config"
	"github.com/de-tools/medcov/pkg/services/dashboard"
	"github.com/de-tools/medcov/pkg/services/document"
	"github.com/de-tools/medcov/pkg/services/narrative"
	"github.com/de-tools/medcov/pkg/services/report"
	"github.com/de-tools/medcov/pkg/store/artifacts"
	"github.com/de-tools/medcov/pkg/store/duckdb"
	"github.com/de-tools/medcov/pkg/store/duckdb/reports"
	"github.com/de-tools/medcov/pkg/store/medications"
	"github.com/de-tools/medcov/pkg/store/warehouse"
	"github.com/rs/zerolog"
)

// App holds the services shared by the command line and the web server
type App struct {
	Config    *config.Config
	Dashboard *dashboard.Service
	Reports   *report.Service
	Charts    *charts.Exporter
	Theme     charts.Theme
	History   reports.Store
	Artifacts artifacts.Sink

	dbs []*sql.DB
}

// New connects to the warehouse and the report history and assembles the services.
// The caller owns the returned App and must Close it.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := zerolog.Ctx(ctx)
	a := &App{Config: cfg, Theme: charts.DefaultTheme()}

	settings, err := cfg.WarehouseSettings()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve warehouse settings: %w", err)
	}
	warehouseDB, err := warehouse.Open(ctx, settings)
	if err != nil {
		return nil, err
	}
	a.dbs = append(a.dbs, warehouseDB)
	logger.Info().Str("driver", settings.Driver).Msg("connected to warehouse")

	medStore, err := medications.NewStore(warehouseDB, settings.Driver)
	if err != nil {
		return nil, a.fail(err)
	}
	a.Dashboard = dashboard.NewService(medStore)

	historyDB, err := duckdb.NewDB(duckdb.Settings{DbPath: cfg.HistoryDBPath})
	if err != nil {
		return nil, a.fail(fmt.Errorf("failed to open report history: %w", err))
	}
	a.dbs = append(a.dbs, historyDB)

	a.History, err = reports.NewStore(historyDB)
	if err != nil {
		return nil, a.fail(err)
	}

	a.Artifacts, err = newSink(ctx, cfg)
	if err != nil {
		return nil, a.fail(err)
	}

	a.Charts, err = charts.NewExporter(a.Theme, cfg.ChartFontPath)
	if err != nil {
		return nil, a.fail(err)
	}

	generator := narrative.NewGenerator(
		narrative.NewOpenAICompleter(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL),
		narrative.Settings{
			Model:       cfg.OpenAIModel,
			Temperature: float32(cfg.AITemperature),
		},
	)

	a.Reports = report.NewService(report.Dependencies{
		APIKey:   cfg.OpenAIAPIKey,
		Narrator: generator,
		Charts:   a.Charts,
		Theme:    a.Theme,
		Renderer: document.NewRenderer(document.DefaultPalette()),
		Sink:     a.Artifacts,
		History:  a.History,
	})

	return a, nil
}

func newSink(ctx context.Context, cfg *config.Config) (artifacts.Sink, error) {
	if cfg.ReportS3Bucket != "" {
		zerolog.Ctx(ctx).Info().Str("bucket", cfg.ReportS3Bucket).Msg("delivering reports to s3")
		return artifacts.NewS3Sink(ctx, cfg.ReportS3Bucket, cfg.ReportS3Prefix)
	}
	return artifacts.NewLocalSink(cfg.ReportOutputDir)
}

func (a *App) fail(err error) error {
	if closeErr := a.Close(); closeErr != nil {
		return errors.Join(err, closeErr)
	}
	return err
}

// Close releases the database connections
func (a *App) Close() error {
	var errs []error
	for _, db := range a.dbs {
		if err := db.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.dbs = nil
	return errors.Join(errs...)
}
