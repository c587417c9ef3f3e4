package main

import (
	"fmt"
	"os"

	handlers "github.com/de-tools/medcov/pkg/handlers/dashboard"
	"github.com/de-tools/medcov/pkg/runtime/app"
	"github.com/de-tools/medcov/pkg/server"
	"github.com/de-tools/medcov/pkg/services/config"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var envPath string

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the web server for the medication coverage dashboard",
		RunE:  runServer,
	}

	rootCmd.Flags().StringVarP(&envPath, "env", "e", ".env",
		"Path to the .env file with warehouse and OpenAI settings")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, _ []string) error {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	ctx := logger.WithContext(cmd.Context())

	cfg, err := config.Load(envPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	a, err := app.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := a.Close(); err != nil {
			logger.Error().Err(err).Msg("failed to close connections")
		}
	}()

	if cfg.OpenAIAPIKey == "" {
		logger.Warn().Msg("OPENAI_API_KEY is not set, report generation is disabled")
	}

	api := server.NewWebAPI(logger, server.Config{
		Addr: cfg.Addr(),
		Dependencies: handlers.Dependencies{
			Dashboard:     a.Dashboard,
			Reports:       a.Reports,
			Charts:        a.Charts,
			Theme:         a.Theme,
			History:       a.History,
			Artifacts:     a.Artifacts,
			MaxReviewRows: cfg.ReviewRowCap(),
		},
	})

	return api.Start()
}
