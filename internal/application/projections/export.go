package projections

import (
	"context"

	"repairshop/internal/domain/export"
)

// ExportResult carries every appointment flattened for the spreadsheet.
type ExportResult struct {
	Rows []export.Row
}

// ExportDeps holds dependencies for Export.
type ExportDeps struct {
	AppointmentStore AppointmentStore
}

// QueryExport returns all appointments, cancelled ones included, ordered by id.
// PRE: none
// POST: One row per stored appointment
func QueryExport(ctx context.Context, deps ExportDeps) (ExportResult, error) {
	list, err := deps.AppointmentStore.ListAll(ctx)
	if err != nil {
		return ExportResult{}, err
	}
	return ExportResult{Rows: export.Rows(list)}, nil
}
