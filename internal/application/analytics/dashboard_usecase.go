// Package analytics contiene el motor de agregación del dashboard de ventas y su caso de uso.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/jhoicas/pos-admin/internal/application/dto"
	"github.com/jhoicas/pos-admin/internal/application/ports"
	"github.com/jhoicas/pos-admin/internal/domain"
	"github.com/jhoicas/pos-admin/internal/domain/repository"
)

// DashboardUseCase genera el resumen de KPIs y series de un rango de fechas.
//
// Fuente de datos: TransactionRepository.ListInRange (read-only). El resultado se cachea por
// (from, to, groupBy) si hay caché configurada; las escrituras de ventas la invalidan.
type DashboardUseCase struct {
	transactions repository.TransactionRepository
	cache        ports.SummaryCache
	cacheTTL     time.Duration
	recorder     ports.Recorder
}

// NewDashboardUseCase construye el caso de uso. cache puede ser nil.
func NewDashboardUseCase(
	transactions repository.TransactionRepository,
	cache ports.SummaryCache,
	cacheTTL time.Duration,
	recorder ports.Recorder,
) *DashboardUseCase {
	if recorder == nil {
		recorder = ports.NopRecorder{}
	}
	return &DashboardUseCase{transactions: transactions, cache: cache, cacheTTL: cacheTTL, recorder: recorder}
}

// GetSummary valida el rango, consulta las ventas [from, to] en orden ascendente y las agrega.
//
// from y to aceptan RFC 3339 o YYYY-MM-DD; un to sin hora cubre el día completo.
// groupBy vacío equivale a daily. Un rango con from posterior a to da un resumen vacío.
func (uc *DashboardUseCase) GetSummary(ctx context.Context, q dto.DashboardQuery) (*dto.DashboardSummaryDTO, error) {
	if q.From == "" {
		return nil, domain.NewValidationError("from", "es obligatorio")
	}
	if q.To == "" {
		return nil, domain.NewValidationError("to", "es obligatorio")
	}
	from, err := dto.ParseDate(q.From, false)
	if err != nil {
		return nil, domain.NewValidationError("from", "fecha inválida")
	}
	to, err := dto.ParseDate(q.To, true)
	if err != nil {
		return nil, domain.NewValidationError("to", "fecha inválida")
	}
	if q.GroupBy == "" {
		q.GroupBy = string(GroupDaily)
	}
	groupBy, ok := ParseGroupBy(q.GroupBy)
	if !ok {
		return nil, domain.NewValidationError("groupBy", "debe ser daily, monthly o yearly")
	}

	key := cacheKey(from, to, groupBy)
	// La generación se lee una sola vez, antes de consultar las ventas.
	useCache := uc.cache != nil
	var gen int64
	if useCache {
		if gen, err = uc.cache.Generation(ctx); err != nil {
			log.Warn().Err(err).Msg("leer generación de la caché del dashboard")
			useCache = false
		}
	}
	if useCache {
		cached, hit, err := uc.cache.Get(ctx, gen, key)
		if err != nil {
			log.Warn().Err(err).Str("key", key).Msg("leer caché del dashboard")
		}
		uc.recorder.DashboardCache(hit)
		if hit {
			return cached, nil
		}
	}

	list, err := uc.transactions.ListInRange(ctx, from, to)
	if err != nil {
		return nil, fmt.Errorf("dashboard: ventas del rango: %w", err)
	}
	summary := Summarize(list, groupBy)

	if useCache {
		if err := uc.cache.Set(ctx, gen, key, &summary, uc.cacheTTL); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("guardar caché del dashboard")
		}
	}
	return &summary, nil
}

func cacheKey(from, to time.Time, groupBy GroupBy) string {
	return fmt.Sprintf("%s|%s|%s", from.Format(time.RFC3339Nano), to.Format(time.RFC3339Nano), groupBy)
}
