package dto

import (
	"math"

	"github.com/jhoicas/pos-admin/internal/domain"
)

const (
	// DefaultLimit tamaño de página cuando la petición no indica limit.
	DefaultLimit = 20
	// MaxLimit tamaño de página máximo.
	MaxLimit = 100
	// maxOffset cota de (page-1)*limit; por encima no hay registros que devolver y el producto
	// podría desbordar.
	maxOffset = math.MaxInt32
)

// PageRequest paginación para listados (page >= 1, 1 <= limit <= MaxLimit).
type PageRequest struct {
	Page  int `query:"page" validate:"min=1"`
	Limit int `query:"limit" validate:"min=1,max=100"`
}

// Offset registros a saltar: (page-1) * limit.
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Check valida page >= 1, 1 <= limit <= MaxLimit y que el offset resultante no desborde.
func (p PageRequest) Check() error {
	if p.Page < 1 {
		return domain.NewValidationError("page", "debe ser un entero >= 1")
	}
	if p.Limit < 1 {
		return domain.NewValidationError("limit", "debe ser un entero >= 1")
	}
	if p.Limit > MaxLimit {
		return domain.NewValidationError("limit", "no puede ser mayor que 100")
	}
	if p.Page-1 > maxOffset/p.Limit {
		return domain.NewValidationError("page", "fuera de rango")
	}
	return nil
}

// Pagination metadatos de página en respuestas.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// NewPagination calcula totalPages = ceil(total/limit).
func NewPagination(p PageRequest, total int) Pagination {
	totalPages := 0
	if p.Limit > 0 {
		totalPages = (total + p.Limit - 1) / p.Limit
	}
	return Pagination{Page: p.Page, Limit: p.Limit, Total: total, TotalPages: totalPages}
}

// PageResponse listado paginado: {data, pagination}.
type PageResponse[T any] struct {
	Data       []T        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}
