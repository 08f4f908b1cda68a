package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/pos-admin/internal/application/dto"
	"github.com/jhoicas/pos-admin/internal/application/sales"
)

// TransactionHandler CRUD y exportación de ventas POS.
type TransactionHandler struct {
	uc *sales.TransactionUseCase
}

// NewTransactionHandler construye el handler.
func NewTransactionHandler(uc *sales.TransactionUseCase) *TransactionHandler {
	return &TransactionHandler{uc: uc}
}

// List godoc
// @Summary      Listar ventas
// @Tags         transactions
// @Produce      json
// @Param        page           query  int     false  "Página (default 1)"
// @Param        limit          query  int     false  "Tamaño de página (default 20)"
// @Param        from           query  string  false  "Desde (RFC 3339 o YYYY-MM-DD)"
// @Param        to             query  string  false  "Hasta (RFC 3339 o YYYY-MM-DD)"
// @Param        search         query  string  false  "Número de recibo o monto bruto mínimo"
// @Param        status         query  string  false  "COMPLETED | REFUNDED | VOIDED"
// @Param        paymentMethod  query  string  false  "CASH | CARD | E_WALLET | OTHER"
// @Success      200  {object}  dto.PageResponse[dto.TransactionResponse]
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/transactions [get]
func (h *TransactionHandler) List(c *fiber.Ctx) error {
	q := dto.TransactionListQuery{PageRequest: dto.PageRequest{Page: 1, Limit: dto.DefaultLimit}}
	if err := c.QueryParser(&q); err != nil {
		return badQuery(c)
	}
	if err := validateStruct(q); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.List(c.UserContext(), q)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Export godoc
// @Summary      Exportar ventas a CSV
// @Description  Mismos filtros que el listado, sin paginar. Incluye las ventas anuladas.
// @Tags         transactions
// @Produce      text/csv
// @Param        from           query  string  false  "Desde"
// @Param        to             query  string  false  "Hasta"
// @Param        search         query  string  false  "Número de recibo o monto bruto mínimo"
// @Param        status         query  string  false  "Estado"
// @Param        paymentMethod  query  string  false  "Medio de pago"
// @Param        charset        query  string  false  "utf-8 (default) | windows-1252"
// @Success      200  {string}  string  "CSV"
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/transactions/export [get]
func (h *TransactionHandler) Export(c *fiber.Ctx) error {
	var q dto.TransactionFilterQuery
	if err := c.QueryParser(&q); err != nil {
		return badQuery(c)
	}
	if err := validateStruct(q); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Export(c.UserContext(), q, c.Query("charset"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, out.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%s`, out.Filename))
	return c.Send(out.Content)
}

// GetByID godoc
// @Summary      Detalle de una venta
// @Tags         transactions
// @Produce      json
// @Param        id   path  string  true  "ID"
// @Success      200  {object}  dto.TransactionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/transactions/{id} [get]
func (h *TransactionHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Registrar venta
// @Description  Neto = suma de líneas, impuesto 8 %, bruto = neto + impuesto. Asigna R-######.
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TransactionRequest  true  "Venta"
// @Success      201  {object}  dto.TransactionResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/transactions [post]
func (h *TransactionHandler) Create(c *fiber.Ctx) error {
	var in dto.TransactionRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := validateStruct(in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Reemplazar venta
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID"
// @Param        body  body  dto.TransactionRequest  true  "Venta"
// @Success      200  {object}  dto.TransactionResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/transactions/{id} [put]
func (h *TransactionHandler) Update(c *fiber.Ctx) error {
	var in dto.TransactionRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := validateStruct(in); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar venta
// @Tags         transactions
// @Param        id   path  string  true  "ID"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/transactions/{id} [delete]
func (h *TransactionHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
