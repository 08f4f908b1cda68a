package billing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
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

// InvoiceUseCase CRUD de facturas: numeración, totales y duplicado.
type InvoiceUseCase struct {
	txRunner repository.TxRunner
	invoices repository.InvoiceRepository
	receipts repository.ReceiptRepository
	recorder ports.Recorder
	cfg      Config
}

// NewInvoiceUseCase construye el caso de uso.
func NewInvoiceUseCase(
	txRunner repository.TxRunner,
	invoices repository.InvoiceRepository,
	receipts repository.ReceiptRepository,
	recorder ports.Recorder,
	cfg Config,
) *InvoiceUseCase {
	if recorder == nil {
		recorder = ports.NopRecorder{}
	}
	return &InvoiceUseCase{txRunner: txRunner, invoices: invoices, receipts: receipts, recorder: recorder, cfg: cfg}
}

// List devuelve una página de facturas (fecha de emisión descendente) y el total que cumple el filtro.
// Lista y conteo se consultan en paralelo.
func (uc *InvoiceUseCase) List(ctx context.Context, q dto.InvoiceListQuery) (*dto.PageResponse[dto.InvoiceResponse], error) {
	if err := q.PageRequest.Check(); err != nil {
		return nil, err
	}
	filter := repository.InvoiceFilter{Search: strings.TrimSpace(q.Search)}
	if q.Status != "" && q.Status != "ALL" {
		status := entity.InvoiceStatus(q.Status)
		if !status.Valid() {
			return nil, domain.NewValidationError("status", "estado de factura desconocido")
		}
		filter.Status = status
	}

	var (
		list  []*entity.Invoice
		total int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		list, err = uc.invoices.List(gctx, filter, repository.Page{Limit: q.Limit, Offset: q.Offset()})
		return err
	})
	g.Go(func() error {
		var err error
		total, err = uc.invoices.Count(gctx, filter)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &dto.PageResponse[dto.InvoiceResponse]{
		Data:       make([]dto.InvoiceResponse, 0, len(list)),
		Pagination: dto.NewPagination(q.PageRequest, total),
	}
	for _, inv := range list {
		out.Data = append(out.Data, toInvoiceResponse(inv, nil))
	}
	return out, nil
}

// Get devuelve la factura con sus líneas y los recibos que la referencian.
func (uc *InvoiceUseCase) Get(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	inv, err := uc.invoices.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	receipts, err := uc.receipts.ListByInvoice(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toInvoiceResponse(inv, receipts)
	return &resp, nil
}

// Create valida la petición, calcula totales, asigna INV-#### y persiste cabecera y líneas
// en una sola transacción.
func (uc *InvoiceUseCase) Create(ctx context.Context, in dto.InvoiceRequest) (*dto.InvoiceResponse, error) {
	inv, err := uc.fromRequest(in)
	if err != nil {
		return nil, err
	}
	if inv.Status == "" {
		inv.Status = entity.InvoiceStatusDraft
	}
	now := time.Now().UTC()
	inv.ID = uuid.New().String()
	inv.CreatedAt = now
	inv.UpdatedAt = now
	assignInvoiceItemIDs(inv)

	err = uc.txRunner.RunInTx(ctx, func(repos repository.Repositories) error {
		number, err := numbering.Next(ctx, repos, sequence.KindInvoice)
		if err != nil {
			return err
		}
		inv.InvoiceNumber = number
		return repos.Invoices.Create(ctx, inv)
	})
	if err != nil {
		return nil, err
	}
	uc.recorder.DocumentCreated(string(sequence.KindInvoice))

	resp := toInvoiceResponse(inv, nil)
	return &resp, nil
}

// Update reemplaza la factura completa: las líneas se borran y se recrean y los totales se recalculan.
// Número y fecha de creación se conservan; sin status se mantiene el actual.
func (uc *InvoiceUseCase) Update(ctx context.Context, id string, in dto.InvoiceRequest) (*dto.InvoiceResponse, error) {
	inv, err := uc.fromRequest(in)
	if err != nil {
		return nil, err
	}
	err = uc.txRunner.RunInTx(ctx, func(repos repository.Repositories) error {
		current, err := repos.Invoices.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if current == nil {
			return domain.ErrNotFound
		}
		inv.ID = current.ID
		inv.InvoiceNumber = current.InvoiceNumber
		inv.CreatedAt = current.CreatedAt
		inv.UpdatedAt = time.Now().UTC()
		if inv.Status == "" {
			inv.Status = current.Status
		}
		assignInvoiceItemIDs(inv)
		return repos.Invoices.Update(ctx, inv)
	})
	if err != nil {
		return nil, err
	}
	resp := toInvoiceResponse(inv, nil)
	return &resp, nil
}

// Delete elimina la factura y sus líneas. Los recibos relacionados conservan la referencia.
func (uc *InvoiceUseCase) Delete(ctx context.Context, id string) error {
	return uc.invoices.Delete(ctx, id)
}

// Duplicate copia cliente, líneas, importes y notas en una factura nueva en DRAFT,
// emitida hoy y con vencimiento a cfg.DueDays días.
func (uc *InvoiceUseCase) Duplicate(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	var dup *entity.Invoice
	err := uc.txRunner.RunInTx(ctx, func(repos repository.Repositories) error {
		src, err := repos.Invoices.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if src == nil {
			return domain.ErrNotFound
		}
		now := time.Now().UTC()
		dup = &entity.Invoice{
			ID:              uuid.New().String(),
			IssueDate:       now,
			DueDate:         now.AddDate(0, 0, uc.cfg.DueDays),
			Status:          entity.InvoiceStatusDraft,
			CustomerName:    src.CustomerName,
			CustomerEmail:   src.CustomerEmail,
			CustomerAddress: src.CustomerAddress,
			Subtotal:        src.Subtotal,
			Tax:             src.Tax,
			Total:           src.Total,
			Notes:           src.Notes,
			Items:           make([]entity.InvoiceItem, len(src.Items)),
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		copy(dup.Items, src.Items)
		assignInvoiceItemIDs(dup)

		number, err := numbering.Next(ctx, repos, sequence.KindInvoice)
		if err != nil {
			return err
		}
		dup.InvoiceNumber = number
		return repos.Invoices.Create(ctx, dup)
	})
	if err != nil {
		return nil, err
	}
	uc.recorder.DocumentCreated(string(sequence.KindInvoice))

	resp := toInvoiceResponse(dup, nil)
	return &resp, nil
}

// fromRequest valida la petición y arma la entidad con totales calculados (sin ID ni número).
func (uc *InvoiceUseCase) fromRequest(in dto.InvoiceRequest) (*entity.Invoice, error) {
	issue, err := dto.ParseDate(in.IssueDate, false)
	if err != nil {
		return nil, domain.NewValidationError("issueDate", "fecha inválida")
	}
	due, err := dto.ParseDate(in.DueDate, false)
	if err != nil {
		return nil, domain.NewValidationError("dueDate", "fecha inválida")
	}
	if strings.TrimSpace(in.CustomerName) == "" {
		return nil, domain.NewValidationError("customerName", "es obligatorio")
	}
	if strings.TrimSpace(in.CustomerEmail) == "" {
		return nil, domain.NewValidationError("customerEmail", "es obligatorio")
	}
	status := entity.InvoiceStatus(in.Status)
	if status != "" && !status.Valid() {
		return nil, domain.NewValidationError("status", fmt.Sprintf("estado %q desconocido", in.Status))
	}
	rate := uc.cfg.InvoiceTaxRate
	if in.TaxRate != nil {
		if in.TaxRate.IsNegative() {
			return nil, domain.NewValidationError("taxRate", "no puede ser negativo")
		}
		rate = *in.TaxRate
	}
	lines, err := invoiceLines(in.Items)
	if err != nil {
		return nil, err
	}
	totals := pricing.Compute(lines, rate)

	inv := &entity.Invoice{
		IssueDate:       issue,
		DueDate:         due,
		Status:          status,
		CustomerName:    strings.TrimSpace(in.CustomerName),
		CustomerEmail:   strings.TrimSpace(in.CustomerEmail),
		CustomerAddress: strings.TrimSpace(in.CustomerAddress),
		Subtotal:        totals.Subtotal,
		Tax:             totals.Tax,
		Total:           totals.Total,
		Notes:           in.Notes,
		Items:           make([]entity.InvoiceItem, len(in.Items)),
	}
	for i, it := range in.Items {
		inv.Items[i] = entity.InvoiceItem{
			Description: strings.TrimSpace(it.Description),
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			LineTotal:   totals.LineTotals[i],
		}
	}
	return inv, nil
}

// assignInvoiceItemIDs da IDs nuevos a las líneas y fija su posición y factura.
func assignInvoiceItemIDs(inv *entity.Invoice) {
	for i := range inv.Items {
		inv.Items[i].ID = uuid.New().String()
		inv.Items[i].InvoiceID = inv.ID
		inv.Items[i].Position = i + 1
	}
}
