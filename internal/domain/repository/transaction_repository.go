package repository

import (
	"context"
	"time"

	"github.com/jhoicas/pos-admin/internal/domain/entity"
)

// TransactionRepository puerto de persistencia para ventas POS.
type TransactionRepository interface {
	Create(ctx context.Context, txn *entity.Transaction) error
	// Update devuelve domain.ErrNotFound si la venta no existe.
	Update(ctx context.Context, txn *entity.Transaction) error
	// Delete devuelve domain.ErrNotFound si no existe.
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*entity.Transaction, error)
	// List ordena por fecha descendente e incluye las líneas.
	List(ctx context.Context, filter TransactionFilter, page Page) ([]*entity.Transaction, error)
	Count(ctx context.Context, filter TransactionFilter) (int, error)
	// ListAll igual que List sin paginar y sin líneas (exportación CSV).
	ListAll(ctx context.Context, filter TransactionFilter) ([]*entity.Transaction, error)
	// ListInRange ventas con fecha en [from, to], orden ascendente, con líneas (dashboard).
	ListInRange(ctx context.Context, from, to time.Time) ([]*entity.Transaction, error)
	LastNumber(ctx context.Context) (string, error)
}
