package cache

import (
	"context"
	"time"

	"github.com/jhoicas/pos-admin/internal/application/dto"
	"github.com/jhoicas/pos-admin/internal/application/ports"
)

var _ ports.SummaryCache = NoopSummaryCache{}

// NoopSummaryCache caché deshabilitada: siempre falla (miss) y no guarda nada.
type NoopSummaryCache struct{}

func (NoopSummaryCache) Generation(_ context.Context) (int64, error) {
	return 0, nil
}

func (NoopSummaryCache) Get(_ context.Context, _ int64, _ string) (*dto.DashboardSummaryDTO, bool, error) {
	return nil, false, nil
}

func (NoopSummaryCache) Set(_ context.Context, _ int64, _ string, _ *dto.DashboardSummaryDTO, _ time.Duration) error {
	return nil
}

func (NoopSummaryCache) Invalidate(_ context.Context) error {
	return nil
}
