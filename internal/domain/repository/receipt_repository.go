package repository

import (
	"context"

	"github.com/jhoicas/pos-admin/internal/domain/entity"
)

// ReceiptRepository puerto de persistencia para recibos.
// Las lecturas resuelven RelatedInvoice con un LEFT JOIN (nil si la factura ya no existe).
type ReceiptRepository interface {
	Create(ctx context.Context, receipt *entity.Receipt) error
	// Update devuelve domain.ErrNotFound si el recibo no existe.
	Update(ctx context.Context, receipt *entity.Receipt) error
	// Delete devuelve domain.ErrNotFound si no existe.
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*entity.Receipt, error)
	// List ordena por fecha descendente.
	List(ctx context.Context, filter ReceiptFilter, page Page) ([]*entity.Receipt, error)
	Count(ctx context.Context, filter ReceiptFilter) (int, error)
	// ListByInvoice recibos que referencian la factura (para el detalle de factura).
	ListByInvoice(ctx context.Context, invoiceID string) ([]*entity.Receipt, error)
	LastNumber(ctx context.Context) (string, error)
}
