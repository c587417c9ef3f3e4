package commands

import (
	"github.com/de-tools/medcov/pkg/runtime/terminal/export"
	"github.com/spf13/cobra"
)

type DashboardCmd struct {
	filterFlags
	loader Loader
}

func NewDashboardCmd(loader Loader) *cobra.Command {
	dc := &DashboardCmd{loader: loader}
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Print KPIs and coverage tables for a date range and payer selection",
		Args:  cobra.NoArgs,
		RunE:  dc.run,
	}
	dc.register(cmd)
	return cmd
}

func (dc *DashboardCmd) run(cmd *cobra.Command, _ []string) error {
	filters, err := dc.filters()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	svc, closeFn, err := dc.loader.open(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	snap, err := svc.Dashboard.Snapshot(ctx, filters)
	if err != nil {
		return err
	}
	return export.NewReporter(cmd.OutOrStdout()).Handle(snap)
}
