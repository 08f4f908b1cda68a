package billing

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/jhoicas/pos-admin/internal/domain"
	"github.com/jhoicas/pos-admin/internal/domain/entity"
	"github.com/jhoicas/pos-admin/internal/domain/repository"
)

// DocumentUseCase genera las representaciones descargables de una factura (PDF y XML).
type DocumentUseCase struct {
	invoiceRepo repository.InvoiceRepository
	generator   InvoicePDFGenerator
	xmlBuilder  InvoiceXMLBuilder
	issuer      string
}

// NewDocumentUseCase construye el caso de uso inyectando sus dependencias.
func NewDocumentUseCase(
	invoiceRepo repository.InvoiceRepository,
	generator InvoicePDFGenerator,
	xmlBuilder InvoiceXMLBuilder,
	cfg Config,
) *DocumentUseCase {
	return &DocumentUseCase{
		invoiceRepo: invoiceRepo,
		generator:   generator,
		xmlBuilder:  xmlBuilder,
		issuer:      cfg.CompanyName,
	}
}

// XMLDocument documento XML canónico y su huella.
type XMLDocument struct {
	Content  []byte
	Filename string
	ETag     string // SHA-256 hex del contenido canónico, entre comillas
}

// DownloadInvoicePDF devuelve los bytes del PDF y el nombre de archivo sugerido.
// domain.ErrNotFound si la factura no existe.
func (uc *DocumentUseCase) DownloadInvoicePDF(ctx context.Context, invoiceID string) (pdfBytes []byte, filename string, err error) {
	inv, err := uc.load(ctx, invoiceID)
	if err != nil {
		return nil, "", err
	}
	pdfBytes, err = uc.generator.GenerateInvoicePDF(ctx, uc.issuer, inv)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}
	return pdfBytes, fmt.Sprintf("%s.pdf", inv.InvoiceNumber), nil
}

// DownloadInvoiceXML devuelve el XML canónico de la factura. Dos llamadas sobre la misma factura
// sin cambios producen los mismos bytes y el mismo ETag.
func (uc *DocumentUseCase) DownloadInvoiceXML(ctx context.Context, invoiceID string) (*XMLDocument, error) {
	inv, err := uc.load(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	content, err := uc.xmlBuilder.BuildInvoiceXML(uc.issuer, inv)
	if err != nil {
		return nil, fmt.Errorf("xml: construcción fallida: %w", err)
	}
	sum := sha256.Sum256(content)
	return &XMLDocument{
		Content:  content,
		Filename: fmt.Sprintf("%s.xml", inv.InvoiceNumber),
		ETag:     `"` + hex.EncodeToString(sum[:]) + `"`,
	}, nil
}

func (uc *DocumentUseCase) load(ctx context.Context, invoiceID string) (*entity.Invoice, error) {
	inv, err := uc.invoiceRepo.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("obtener factura: %w", err)
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	return inv, nil
}
