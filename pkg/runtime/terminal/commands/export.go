package commands

import (
	"fmt"

	"github.com/de-tools/medcov/pkg/services/workbook"
	"github.com/spf13/cobra"
)

type ExportCmd struct {
	filterFlags
	output string
	loader Loader
}

func NewExportCmd(loader Loader) *cobra.Command {
	ec := &ExportCmd{loader: loader}
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the dashboard aggregates to an Excel workbook",
		Args:  cobra.NoArgs,
		RunE:  ec.run,
	}
	ec.register(cmd)
	cmd.Flags().StringVarP(&ec.output, "output", "o", workbook.FileName, "Path of the workbook to write")

	return cmd
}

func (ec *ExportCmd) run(cmd *cobra.Command, _ []string) error {
	filters, err := ec.filters()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	svc, closeFn, err := ec.loader.open(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	snap, err := svc.Dashboard.Snapshot(ctx, filters)
	if err != nil {
		return err
	}
	if err := workbook.Save(ec.output, snap); err != nil {
		return err
	}

	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Aggregates written to %s\n", ec.output)
	return err
}
