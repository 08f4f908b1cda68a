// Package sales contiene los casos de uso de ventas POS: CRUD y exportación CSV.
package sales

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/pos-admin/internal/application/dto"
	"github.com/jhoicas/pos-admin/internal/application/numbering"
	"github.com/jhoicas/pos-admin/internal/application/ports"
	"github.com/jhoicas/pos-admin/internal/domain"
	"github.com/jhoicas/pos-admin/internal/domain/entity"
	"github.com/jhoicas/pos-admin/internal/domain/pricing"
	"github.com/jhoicas/pos-admin/internal/domain/repository"
	"github.com/jhoicas/pos-admin/internal/domain/sequence"
)

// TransactionUseCase CRUD de ventas. Cada escritura invalida la caché del dashboard.
type TransactionUseCase struct {
	txRunner     repository.TxRunner
	transactions repository.TransactionRepository
	cache        ports.SummaryCache
	recorder     ports.Recorder
	taxRate      decimal.Decimal
}

// NewTransactionUseCase construye el caso de uso. cache y recorder pueden ser nil.
func NewTransactionUseCase(
	txRunner repository.TxRunner,
	transactions repository.TransactionRepository,
	cache ports.SummaryCache,
	recorder ports.Recorder,
	taxRate decimal.Decimal,
) *TransactionUseCase {
	if recorder == nil {
		recorder = ports.NopRecorder{}
	}
	return &TransactionUseCase{
		txRunner:     txRunner,
		transactions: transactions,
		cache:        cache,
		recorder:     recorder,
		taxRate:      taxRate,
	}
}

// List devuelve una página de ventas ordenada por fecha descendente.
func (uc *TransactionUseCase) List(ctx context.Context, q dto.TransactionListQuery) (*dto.PageResponse[dto.TransactionResponse], error) {
	if err := q.PageRequest.Check(); err != nil {
		return nil, err
	}
	filter, err := transactionFilter(q.TransactionFilterQuery)
	if err != nil {
		return nil, err
	}

	var (
		list  []*entity.Transaction
		total int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		list, err = uc.transactions.List(gctx, filter, repository.Page{Limit: q.Limit, Offset: q.Offset()})
		return err
	})
	g.Go(func() error {
		var err error
		total, err = uc.transactions.Count(gctx, filter)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &dto.PageResponse[dto.TransactionResponse]{
		Data:       make([]dto.TransactionResponse, 0, len(list)),
		Pagination: dto.NewPagination(q.PageRequest, total),
	}
	for _, t := range list {
		out.Data = append(out.Data, toTransactionResponse(t))
	}
	return out, nil
}

// Get devuelve la venta con sus líneas.
func (uc *TransactionUseCase) Get(ctx context.Context, id string) (*dto.TransactionResponse, error) {
	t, err := uc.transactions.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.ErrNotFound
	}
	resp := toTransactionResponse(t)
	return &resp, nil
}

// Create calcula neto, impuesto y bruto, asigna R-###### y persiste venta y líneas.
func (uc *TransactionUseCase) Create(ctx context.Context, in dto.TransactionRequest) (*dto.TransactionResponse, error) {
	t, err := uc.fromRequest(in)
	if err != nil {
		return nil, err
	}
	if t.Status == "" {
		t.Status = entity.TransactionStatusCompleted
	}
	now := time.Now().UTC()
	if t.DateTime.IsZero() {
		t.DateTime = now
	}
	t.ID = uuid.New().String()
	t.CreatedAt = now
	t.UpdatedAt = now
	assignTransactionItemIDs(t)

	err = uc.txRunner.RunInTx(ctx, func(repos repository.Repositories) error {
		number, err := numbering.Next(ctx, repos, sequence.KindTransaction)
		if err != nil {
			return err
		}
		t.ReceiptNumber = number
		return repos.Transactions.Create(ctx, t)
	})
	if err != nil {
		return nil, err
	}
	uc.recorder.DocumentCreated(string(sequence.KindTransaction))
	uc.invalidate(ctx)

	resp := toTransactionResponse(t)
	return &resp, nil
}

// Update reemplaza la venta completa (líneas recreadas, importes recalculados).
// Sin dateTime o status se conservan los actuales.
func (uc *TransactionUseCase) Update(ctx context.Context, id string, in dto.TransactionRequest) (*dto.TransactionResponse, error) {
	t, err := uc.fromRequest(in)
	if err != nil {
		return nil, err
	}
	err = uc.txRunner.RunInTx(ctx, func(repos repository.Repositories) error {
		current, err := repos.Transactions.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if current == nil {
			return domain.ErrNotFound
		}
		t.ID = current.ID
		t.ReceiptNumber = current.ReceiptNumber
		t.CreatedAt = current.CreatedAt
		t.UpdatedAt = time.Now().UTC()
		if t.DateTime.IsZero() {
			t.DateTime = current.DateTime
		}
		if t.Status == "" {
			t.Status = current.Status
		}
		assignTransactionItemIDs(t)
		return repos.Transactions.Update(ctx, t)
	})
	if err != nil {
		return nil, err
	}
	uc.invalidate(ctx)

	resp := toTransactionResponse(t)
	return &resp, nil
}

// Delete elimina la venta y sus líneas.
func (uc *TransactionUseCase) Delete(ctx context.Context, id string) error {
	if err := uc.transactions.Delete(ctx, id); err != nil {
		return err
	}
	uc.invalidate(ctx)
	return nil
}

// invalidate descarta los resúmenes cacheados. Un fallo de la caché no revierte la venta:
// los resúmenes expiran solos por TTL.
func (uc *TransactionUseCase) invalidate(ctx context.Context) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.Invalidate(ctx); err != nil {
		log.Warn().Err(err).Msg("invalidar caché del dashboard")
	}
}

func (uc *TransactionUseCase) fromRequest(in dto.TransactionRequest) (*entity.Transaction, error) {
	t := &entity.Transaction{}
	if strings.TrimSpace(in.DateTime) != "" {
		at, err := dto.ParseDate(in.DateTime, false)
		if err != nil {
			return nil, domain.NewValidationError("dateTime", "fecha inválida")
		}
		t.DateTime = at
	}
	t.PaymentMethod = entity.PaymentMethod(in.PaymentMethod)
	if !t.PaymentMethod.Valid() {
		return nil, domain.NewValidationError("paymentMethod", "medio de pago desconocido")
	}
	if in.Status != "" {
		t.Status = entity.TransactionStatus(in.Status)
		if !t.Status.Valid() {
			return nil, domain.NewValidationError("status", "estado de venta desconocido")
		}
	}
	if len(in.Items) == 0 {
		return nil, domain.NewValidationError("items", "la venta necesita al menos una línea")
	}

	lines := make([]pricing.Line, 0, len(in.Items))
	for i, it := range in.Items {
		switch {
		case strings.TrimSpace(it.ProductName) == "":
			return nil, domain.NewValidationError(itemField(i, "productName"), "es obligatorio")
		case it.Quantity <= 0:
			return nil, domain.NewValidationError(itemField(i, "quantity"), "debe ser un entero positivo")
		case it.UnitPrice.IsNegative():
			return nil, domain.NewValidationError(itemField(i, "unitPrice"), "no puede ser negativo")
		case it.LineTotal != nil && it.LineTotal.IsNegative():
			return nil, domain.NewValidationError(itemField(i, "lineTotal"), "no puede ser negativo")
		}
		lines = append(lines, pricing.Line{Quantity: it.Quantity, UnitPrice: it.UnitPrice, Supplied: it.LineTotal})
	}
	totals := pricing.Compute(lines, uc.taxRate)
	t.NetAmount = totals.Subtotal
	t.TaxAmount = totals.Tax
	t.GrossAmount = totals.Total

	t.Items = make([]entity.TransactionItem, len(in.Items))
	for i, it := range in.Items {
		t.Items[i] = entity.TransactionItem{
			ProductName: strings.TrimSpace(it.ProductName),
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			LineTotal:   totals.LineTotals[i],
		}
	}
	return t, nil
}

func assignTransactionItemIDs(t *entity.Transaction) {
	for i := range t.Items {
		t.Items[i].ID = uuid.New().String()
		t.Items[i].TransactionID = t.ID
		t.Items[i].Position = i + 1
	}
}

func itemField(i int, name string) string {
	return "items[" + strconv.Itoa(i) + "]." + name
}

func toTransactionResponse(t *entity.Transaction) dto.TransactionResponse {
	items := make([]dto.TransactionItemResponse, 0, len(t.Items))
	for _, it := range t.Items {
		items = append(items, dto.TransactionItemResponse{
			ID:          it.ID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			LineTotal:   it.LineTotal,
		})
	}
	return dto.TransactionResponse{
		ID:            t.ID,
		DateTime:      t.DateTime,
		GrossAmount:   t.GrossAmount,
		NetAmount:     t.NetAmount,
		TaxAmount:     t.TaxAmount,
		PaymentMethod: string(t.PaymentMethod),
		Status:        string(t.Status),
		ReceiptNumber: t.ReceiptNumber,
		Items:         items,
		CreatedAt:     t.CreatedAt,
	}
}

// transactionFilter traduce los parámetros de consulta. Una búsqueda numérica también
// coincide con ventas de bruto >= al valor.
func transactionFilter(q dto.TransactionFilterQuery) (repository.TransactionFilter, error) {
	var f repository.TransactionFilter
	if q.From != "" {
		from, err := dto.ParseDate(q.From, false)
		if err != nil {
			return f, domain.NewValidationError("from", "fecha inválida")
		}
		f.From = &from
	}
	if q.To != "" {
		to, err := dto.ParseDate(q.To, true)
		if err != nil {
			return f, domain.NewValidationError("to", "fecha inválida")
		}
		f.To = &to
	}
	if q.Status != "" {
		f.Status = entity.TransactionStatus(q.Status)
		if !f.Status.Valid() {
			return f, domain.NewValidationError("status", "estado de venta desconocido")
		}
	}
	if q.PaymentMethod != "" {
		f.PaymentMethod = entity.PaymentMethod(q.PaymentMethod)
		if !f.PaymentMethod.Valid() {
			return f, domain.NewValidationError("paymentMethod", "medio de pago desconocido")
		}
	}
	f.Search = strings.TrimSpace(q.Search)
	if f.Search != "" {
		if v, err := decimal.NewFromString(f.Search); err == nil {
			f.MinGross = &v
		}
	}
	return f, nil
}
