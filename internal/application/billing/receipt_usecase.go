package billing

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
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

// ReceiptUseCase CRUD de recibos de pago.
type ReceiptUseCase struct {
	txRunner repository.TxRunner
	receipts repository.ReceiptRepository
	recorder ports.Recorder
}

// NewReceiptUseCase construye el caso de uso.
func NewReceiptUseCase(txRunner repository.TxRunner, receipts repository.ReceiptRepository, recorder ports.Recorder) *ReceiptUseCase {
	if recorder == nil {
		recorder = ports.NopRecorder{}
	}
	return &ReceiptUseCase{txRunner: txRunner, receipts: receipts, recorder: recorder}
}

// List devuelve una página de recibos ordenada por fecha descendente.
func (uc *ReceiptUseCase) List(ctx context.Context, q dto.ReceiptListQuery) (*dto.PageResponse[dto.ReceiptResponse], error) {
	if err := q.PageRequest.Check(); err != nil {
		return nil, err
	}
	filter, err := receiptFilter(q)
	if err != nil {
		return nil, err
	}

	var (
		list  []*entity.Receipt
		total int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		list, err = uc.receipts.List(gctx, filter, repository.Page{Limit: q.Limit, Offset: q.Offset()})
		return err
	})
	g.Go(func() error {
		var err error
		total, err = uc.receipts.Count(gctx, filter)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &dto.PageResponse[dto.ReceiptResponse]{
		Data:       make([]dto.ReceiptResponse, 0, len(list)),
		Pagination: dto.NewPagination(q.PageRequest, total),
	}
	for _, r := range list {
		out.Data = append(out.Data, toReceiptResponse(r))
	}
	return out, nil
}

// Get devuelve el recibo con su factura relacionada resuelta (o null).
func (uc *ReceiptUseCase) Get(ctx context.Context, id string) (*dto.ReceiptResponse, error) {
	r, err := uc.receipts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, domain.ErrNotFound
	}
	resp := toReceiptResponse(r)
	return &resp, nil
}

// Create asigna RCP-##### y persiste el recibo.
func (uc *ReceiptUseCase) Create(ctx context.Context, in dto.ReceiptRequest) (*dto.ReceiptResponse, error) {
	r, err := receiptFromRequest(in)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	r.ID = uuid.New().String()
	r.CreatedAt = now
	r.UpdatedAt = now

	var saved *entity.Receipt
	err = uc.txRunner.RunInTx(ctx, func(repos repository.Repositories) error {
		number, err := numbering.Next(ctx, repos, sequence.KindReceipt)
		if err != nil {
			return err
		}
		r.ReceiptNumber = number
		if err := repos.Receipts.Create(ctx, r); err != nil {
			return err
		}
		saved, err = repos.Receipts.GetByID(ctx, r.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.recorder.DocumentCreated(string(sequence.KindReceipt))

	if saved == nil {
		saved = r
	}
	resp := toReceiptResponse(saved)
	return &resp, nil
}

// Update reemplaza los campos editables; número y fecha de creación se conservan.
func (uc *ReceiptUseCase) Update(ctx context.Context, id string, in dto.ReceiptRequest) (*dto.ReceiptResponse, error) {
	r, err := receiptFromRequest(in)
	if err != nil {
		return nil, err
	}
	var saved *entity.Receipt
	err = uc.txRunner.RunInTx(ctx, func(repos repository.Repositories) error {
		current, err := repos.Receipts.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if current == nil {
			return domain.ErrNotFound
		}
		r.ID = current.ID
		r.ReceiptNumber = current.ReceiptNumber
		r.CreatedAt = current.CreatedAt
		r.UpdatedAt = time.Now().UTC()
		if err := repos.Receipts.Update(ctx, r); err != nil {
			return err
		}
		saved, err = repos.Receipts.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	if saved == nil {
		saved = r
	}
	resp := toReceiptResponse(saved)
	return &resp, nil
}

// Delete elimina el recibo.
func (uc *ReceiptUseCase) Delete(ctx context.Context, id string) error {
	return uc.receipts.Delete(ctx, id)
}

func receiptFromRequest(in dto.ReceiptRequest) (*entity.Receipt, error) {
	at, err := dto.ParseDate(in.DateTime, false)
	if err != nil {
		return nil, domain.NewValidationError("dateTime", "fecha inválida")
	}
	if in.Amount.IsNegative() {
		return nil, domain.NewValidationError("amount", "no puede ser negativo")
	}
	method := entity.PaymentMethod(in.PaymentMethod)
	if !method.Valid() {
		return nil, domain.NewValidationError("paymentMethod", "medio de pago desconocido")
	}
	source := entity.ReceiptSource(in.Source)
	if !source.Valid() {
		return nil, domain.NewValidationError("source", "origen desconocido")
	}
	return &entity.Receipt{
		DateTime:         at,
		Amount:           pricing.Round2(in.Amount),
		PaymentMethod:    method,
		Source:           source,
		RelatedInvoiceID: strings.TrimSpace(in.RelatedInvoiceID),
		Notes:            in.Notes,
	}, nil
}

func receiptFilter(q dto.ReceiptListQuery) (repository.ReceiptFilter, error) {
	var f repository.ReceiptFilter
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
	if q.Source != "" {
		source := entity.ReceiptSource(q.Source)
		if !source.Valid() {
			return f, domain.NewValidationError("source", "origen desconocido")
		}
		f.Source = source
	}
	f.Search = strings.TrimSpace(q.Search)
	if f.Search != "" {
		if amount, err := decimal.NewFromString(f.Search); err == nil {
			f.MinAmount = &amount
		}
	}
	return f, nil
}
