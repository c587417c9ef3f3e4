package main

import (
	"context"
	"fmt"
	"os"

	"github.com/de-tools/medcov/pkg/runtime/app"
	"github.com/de-tools/medcov/pkg/runtime/terminal"
	"github.com/de-tools/medcov/pkg/runtime/terminal/commands"
	"github.com/de-tools/medcov/pkg/services/config"
	"github.com/rs/zerolog"
)

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	ctx := logger.WithContext(context.Background())

	cli := terminal.NewCLI(terminal.Options{
		Loader: load,
		Output: os.Stdout,
	})

	if err := cli.Execute(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func load(ctx context.Context) (*commands.Services, error) {
	cfg, err := config.Load(".env")
	if err != nil {
		return nil, err
	}

	a, err := app.New(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return &commands.Services{
		Dashboard:     a.Dashboard,
		Reports:       a.Reports,
		MaxReviewRows: cfg.ReviewRowCap(),
		Close:         a.Close,
	}, nil
}
