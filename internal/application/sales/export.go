package sales

import (
	"context"
	"strings"

	"golang.org/x/text/encoding/charmap"

	"github.com/jhoicas/pos-admin/internal/application/dto"
	"github.com/jhoicas/pos-admin/internal/domain"
	"github.com/jhoicas/pos-admin/internal/domain/entity"
)

// csvHeader columnas de la exportación, en orden.
const csvHeader = "Date/Time,Receipt Number,Gross Amount,Net Amount,Tax Amount,Payment Method,Status"

// isoMillis mismo formato que Date.toISOString: UTC con milisegundos.
const isoMillis = "2006-01-02T15:04:05.000Z07:00"

// Charsets admitidos por ?charset=.
const (
	CharsetUTF8        = "utf-8"
	CharsetWindows1252 = "windows-1252"
)

// CSVExport resultado de la exportación.
type CSVExport struct {
	Content     []byte
	ContentType string
	Filename    string
}

// Export genera el CSV de las ventas que cumplen el filtro, sin paginar y con las anuladas (VOIDED)
// incluidas. Las filas se unen con comas sin comillas ni escapes: ningún campo puede contener comas.
func (uc *TransactionUseCase) Export(ctx context.Context, q dto.TransactionFilterQuery, charset string) (*CSVExport, error) {
	charset = strings.ToLower(strings.TrimSpace(charset))
	if charset == "" {
		charset = CharsetUTF8
	}
	if charset != CharsetUTF8 && charset != CharsetWindows1252 {
		return nil, domain.NewValidationError("charset", "solo se admite utf-8 o windows-1252")
	}
	filter, err := transactionFilter(q)
	if err != nil {
		return nil, err
	}
	list, err := uc.transactions.ListAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	body := FormatCSV(list)
	content := []byte(body)
	if charset == CharsetWindows1252 {
		encoded, err := charmap.Windows1252.NewEncoder().String(body)
		if err != nil {
			return nil, domain.NewValidationError("charset", "el contenido no es representable en windows-1252")
		}
		content = []byte(encoded)
	}
	return &CSVExport{
		Content:     content,
		ContentType: "text/csv; charset=" + charset,
		Filename:    "transactions.csv",
	}, nil
}

// FormatCSV arma el texto: cabecera y una fila por venta, separadas por "\n".
func FormatCSV(list []*entity.Transaction) string {
	rows := make([]string, 0, len(list)+1)
	rows = append(rows, csvHeader)
	for _, t := range list {
		rows = append(rows, strings.Join([]string{
			t.DateTime.UTC().Format(isoMillis),
			t.ReceiptNumber,
			t.GrossAmount.StringFixed(2),
			t.NetAmount.StringFixed(2),
			t.TaxAmount.StringFixed(2),
			string(t.PaymentMethod),
			string(t.Status),
		}, ","))
	}
	return strings.Join(rows, "\n")
}

