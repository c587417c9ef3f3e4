package commands

import (
	"fmt"
	"slices"
	"strings"

	"github.com/de-tools/medcov/pkg/models/domain"
	"github.com/de-tools/medcov/pkg/services/report"
	"github.com/spf13/cobra"
)

var reportTypes = []domain.ReportType{
	domain.ReportTypeSummary,
	domain.ReportTypeExecutive,
	domain.ReportTypeOperations,
}

type ReportCmd struct {
	filterFlags
	reportType    string
	maxReviewRows int
	loader        Loader
}

func NewReportCmd(loader Loader) *cobra.Command {
	rc := &ReportCmd{loader: loader}
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Generate the AI narrated PDF report",
		Args:  cobra.NoArgs,
		RunE:  rc.run,
	}
	rc.register(cmd)

	names := make([]string, 0, len(reportTypes))
	for _, t := range reportTypes {
		names = append(names, fmt.Sprintf("%q", t))
	}
	cmd.Flags().StringVar(&rc.reportType, "type", string(domain.ReportTypeSummary),
		"Report type, one of "+strings.Join(names, ", "))
	cmd.Flags().IntVar(&rc.maxReviewRows, "max-review-rows", -1,
		"Review rows sent to the model, negative uses MAX_REVIEW_ROWS")

	return cmd
}

func (rc *ReportCmd) run(cmd *cobra.Command, _ []string) error {
	reportType := domain.ReportType(rc.reportType)
	if !slices.Contains(reportTypes, reportType) {
		return fmt.Errorf("unsupported report type %q", rc.reportType)
	}
	filters, err := rc.filters()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	svc, closeFn, err := rc.loader.open(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	if err := svc.Reports.Ready(); err != nil {
		return err
	}
	snap, err := svc.Dashboard.Snapshot(ctx, filters)
	if err != nil {
		return err
	}

	limit := svc.MaxReviewRows
	if rc.maxReviewRows >= 0 {
		n := rc.maxReviewRows
		limit = &n
	}

	artifact, err := svc.Reports.Generate(ctx, report.Request{
		Snapshot:      snap,
		ReportType:    reportType,
		MaxReviewRows: limit,
	})
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Report %s (%d pages) saved to %s\n",
		artifact.Record.ID, artifact.Pages, artifact.Record.Location)
	return err
}
