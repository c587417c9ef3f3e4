package commands

import (
	"fmt"

	"github.com/de-tools/medcov/pkg/models/domain"
	"github.com/spf13/cobra"
)

type BoundsCmd struct {
	loader Loader
}

func NewBoundsCmd(loader Loader) *cobra.Command {
	bc := &BoundsCmd{loader: loader}
	return &cobra.Command{
		Use:   "bounds",
		Short: "Print the date range covered by the medication facts",
		Args:  cobra.NoArgs,
		RunE:  bc.run,
	}
}

func (bc *BoundsCmd) run(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	svc, closeFn, err := bc.loader.open(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	bounds, err := svc.Dashboard.DateBounds(ctx)
	if err != nil {
		return fmt.Errorf("failed to read date bounds: %w", err)
	}

	_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s to %s\n",
		bounds.Min.Format(domain.DateLayout), bounds.Max.Format(domain.DateLayout))
	return err
}
