package http

import (
	"github.com/gofiber/fiber/v2"

	appanalytics "github.com/jhoicas/pos-admin/internal/application/analytics"
	"github.com/jhoicas/pos-admin/internal/application/dto"
)

// DashboardHandler maneja los endpoints del módulo de Dashboard.
type DashboardHandler struct {
	uc *appanalytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *appanalytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// GetSummary godoc
// @Summary      Resumen de ventas del rango
// @Description  KPIs (ingresos, ventas, ticket promedio, devoluciones, medio de pago principal) y series
//               por periodo y por medio de pago. Las ventas VOIDED no cuentan.
// @Tags         dashboard
// @Produce      json
// @Param        from     query  string  true   "Inicio (RFC 3339 o YYYY-MM-DD)"
// @Param        to       query  string  true   "Fin (RFC 3339 o YYYY-MM-DD; sin hora cubre el día completo)"
// @Param        groupBy  query  string  false  "daily | monthly | yearly (default daily)"
// @Success      200  {object}  dto.DashboardSummaryDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/dashboard/summary [get]
func (h *DashboardHandler) GetSummary(c *fiber.Ctx) error {
	var q dto.DashboardQuery
	if err := c.QueryParser(&q); err != nil {
		return badQuery(c)
	}
	if err := validateStruct(q); err != nil {
		return writeError(c, err)
	}
	summary, err := h.uc.GetSummary(c.UserContext(), q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(summary)
}
