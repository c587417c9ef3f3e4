package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/de-tools/medcov/pkg/models/domain"
	"github.com/de-tools/medcov/pkg/services/dashboard"
	"github.com/de-tools/medcov/pkg/services/report"
	"github.com/spf13/cobra"
)

type SnapshotService interface {
	DateBounds(ctx context.Context) (domain.DateBounds, error)
	Snapshot(ctx context.Context, filters domain.Filters) (*domain.Snapshot, error)
}

type ReportService interface {
	Ready() error
	Generate(ctx context.Context, req report.Request) (*report.Artifact, error)
}

// Services are opened per command so that commands which fail flag parsing never touch the warehouse
type Services struct {
	Dashboard     SnapshotService
	Reports       ReportService
	MaxReviewRows *int
	Close         func() error
}

type Loader func(ctx context.Context) (*Services, error)

func (l Loader) open(ctx context.Context) (*Services, func(), error) {
	s, err := l(ctx)
	if err != nil {
		return nil, nil, err
	}
	return s, func() {
		if s.Close != nil {
			_ = s.Close()
		}
	}, nil
}

// filterFlags are shared by every command that computes a snapshot
type filterFlags struct {
	start  string
	end    string
	payers []string
}

func (f *filterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.start, "start", "", "Start date (YYYY-MM-DD), defaults to the earliest medication")
	cmd.Flags().StringVar(&f.end, "end", "", "End date (YYYY-MM-DD), defaults to the latest medication")
	cmd.Flags().StringSliceVar(&f.payers, "payer", dashboard.DefaultPayers, "Payer to include, repeatable")
}

func (f *filterFlags) filters() (domain.Filters, error) {
	out := domain.Filters{Payers: f.payers}

	var err error
	if out.Start, err = parseDate("start", f.start); err != nil {
		return domain.Filters{}, err
	}
	if out.End, err = parseDate("end", f.end); err != nil {
		return domain.Filters{}, err
	}
	return out, nil
}

func parseDate(name, value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(domain.DateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --%s %q, expected YYYY-MM-DD", name, value)
	}
	return t, nil
}
