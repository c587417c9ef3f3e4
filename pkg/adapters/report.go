package adapters

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/de-tools/medcov/pkg/models/api"
	"github.com/de-tools/medcov/pkg/models/domain"
	"github.com/de-tools/medcov/pkg/models/store"
)

func MapDomainReportToStoreRecord(r domain.ReportRecord) (store.ReportRecord, error) {
	payers := r.Payers
	if payers == nil {
		payers = []string{}
	}
	encoded, err := json.Marshal(payers)
	if err != nil {
		return store.ReportRecord{}, fmt.Errorf("marshal payers: %w", err)
	}

	return store.ReportRecord{
		ID:         r.ID,
		CreatedAt:  r.CreatedAt,
		StartDate:  r.StartDate,
		EndDate:    r.EndDate,
		Payers:     string(encoded),
		ReportType: string(r.ReportType),
		Location:   r.Location,
	}, nil
}

func MapStoreRecordToDomainReport(r store.ReportRecord) (domain.ReportRecord, error) {
	var payers []string
	if r.Payers != "" {
		if err := json.Unmarshal([]byte(r.Payers), &payers); err != nil {
			return domain.ReportRecord{}, fmt.Errorf("unmarshal payers: %w", err)
		}
	}

	return domain.ReportRecord{
		ID:         r.ID,
		CreatedAt:  r.CreatedAt,
		StartDate:  r.StartDate,
		EndDate:    r.EndDate,
		Payers:     payers,
		ReportType: domain.ReportType(r.ReportType),
		Location:   r.Location,
	}, nil
}

func MapDomainReportToAPI(r domain.ReportRecord, downloadURL string) api.Report {
	return api.Report{
		ID:          r.ID,
		CreatedAt:   r.CreatedAt,
		StartDate:   r.StartDate,
		EndDate:     r.EndDate,
		Payers:      slices.Clone(r.Payers),
		ReportType:  string(r.ReportType),
		DownloadURL: downloadURL,
	}
}
