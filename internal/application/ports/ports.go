// Package ports define los puertos de salida de la capa de aplicación que no son persistencia
// (caché del dashboard y métricas). Los adaptadores viven en internal/infrastructure.
package ports

import (
	"context"
	"time"

	"github.com/jhoicas/pos-admin/internal/application/dto"
)

// SummaryCache caché del resumen del dashboard, indexado por (from, to, groupBy).
// Una implementación sin backend (Noop) siempre devuelve miss.
//
// Get y Set reciben la generación leída con Generation antes de consultar las ventas: un Set
// con una generación ya invalidada queda guardado donde nadie lo vuelve a leer.
type SummaryCache interface {
	Generation(ctx context.Context) (int64, error)
	Get(ctx context.Context, gen int64, key string) (*dto.DashboardSummaryDTO, bool, error)
	Set(ctx context.Context, gen int64, key string, summary *dto.DashboardSummaryDTO, ttl time.Duration) error
	// Invalidate descarta todos los resúmenes (se llama tras escribir ventas).
	Invalidate(ctx context.Context) error
}

// Recorder recibe eventos de negocio para métricas.
type Recorder interface {
	DocumentCreated(kind string)
	DashboardCache(hit bool)
}

// NopRecorder descarta los eventos (tests y binarios sin métricas).
type NopRecorder struct{}

func (NopRecorder) DocumentCreated(string) {}
func (NopRecorder) DashboardCache(bool)     {}
