package repository

import (
	"context"

	"github.com/jhoicas/pos-admin/internal/domain/entity"
)

// InvoiceRepository define el puerto de persistencia para Invoice y sus líneas.
type InvoiceRepository interface {
	// Create persiste la cabecera y todas las líneas.
	Create(ctx context.Context, invoice *entity.Invoice) error
	// Update reemplaza la cabecera editable y recrea todas las líneas (borrar todo + insertar).
	// Devuelve domain.ErrNotFound si la factura no existe.
	Update(ctx context.Context, invoice *entity.Invoice) error
	// Delete elimina la factura y sus líneas. No toca los recibos que la referencian.
	// Devuelve domain.ErrNotFound si no existe.
	Delete(ctx context.Context, id string) error
	// GetByID devuelve nil, nil si no existe.
	GetByID(ctx context.Context, id string) (*entity.Invoice, error)
	// List ordena por fecha de emisión descendente e incluye las líneas.
	List(ctx context.Context, filter InvoiceFilter, page Page) ([]*entity.Invoice, error)
	Count(ctx context.Context, filter InvoiceFilter) (int, error)
	// LastNumber devuelve el número de la última factura creada (por created_at) o "" si no hay.
	LastNumber(ctx context.Context) (string, error)
}
