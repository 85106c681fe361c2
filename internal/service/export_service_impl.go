package service

import (
	"context"
	"fmt"
	"io"

	"github.com/alexanderramin/poap/internal/domain"
	"github.com/alexanderramin/poap/internal/export"
	"github.com/alexanderramin/poap/internal/repository"
)

type exportService struct {
	horizon      domain.Horizon
	allocations  repository.AllocationRepo
	deliverables repository.DeliverableRepo
	observer     UseCaseObserver
}

func NewExportService(
	horizon domain.Horizon,
	allocations repository.AllocationRepo,
	deliverables repository.DeliverableRepo,
	observers ...UseCaseObserver,
) ExportService {
	return &exportService{
		horizon:      horizon,
		allocations:  allocations,
		deliverables: deliverables,
		observer:     useCaseObserverOrNoop(observers),
	}
}

func (s *exportService) Write(ctx context.Context, w io.Writer, format export.Format) (rows int, err error) {
	fields := map[string]any{"format": string(format)}
	defer observe(ctx, s.observer, "export", fields, &err)()

	table, err := s.allocations.LoadTable(ctx, s.horizon.Months)
	if err != nil {
		return 0, fmt.Errorf("loading table for export: %w", err)
	}
	switch format {
	case export.FormatCSV:
		err = export.WriteCSV(w, table)
	case export.FormatJSON:
		var notes *domain.DeliverableSet
		notes, err = s.deliverables.LoadSet(ctx, s.horizon.Months)
		if err != nil {
			return 0, fmt.Errorf("loading deliverables for export: %w", err)
		}
		err = export.WriteJSON(w, table, notes)
	default:
		err = fmt.Errorf("unknown export format %q", format)
	}
	if err != nil {
		return 0, err
	}
	fields["rows"] = len(table.Rows)
	return len(table.Rows), nil
}
