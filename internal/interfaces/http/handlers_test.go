package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appanalytics "github.com/jhoicas/pos-admin/internal/application/analytics"
	"github.com/jhoicas/pos-admin/internal/application/billing"
	"github.com/jhoicas/pos-admin/internal/application/dto"
	"github.com/jhoicas/pos-admin/internal/application/sales"
	"github.com/jhoicas/pos-admin/internal/domain/pricing"
	"github.com/jhoicas/pos-admin/internal/infrastructure/cache"
	"github.com/jhoicas/pos-admin/internal/infrastructure/memory"
	"github.com/jhoicas/pos-admin/internal/infrastructure/metrics"
	"github.com/jhoicas/pos-admin/internal/infrastructure/pdf"
	"github.com/jhoicas/pos-admin/internal/infrastructure/ubl"
	apphttp "github.com/jhoicas/pos-admin/internal/interfaces/http"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

// buildTestApp arma la app completa sobre el store en memoria.
func buildTestApp(t *testing.T) *fiber.App {
	t.Helper()
	store := memory.New()
	repos := store.Repositories()
	reg := metrics.New(prometheus.Labels{"env": "test"})
	cfg := billing.DefaultConfig()

	deps := apphttp.RouterDeps{
		DashboardUC:   appanalytics.NewDashboardUseCase(repos.Transactions, cache.NoopSummaryCache{}, time.Minute, reg),
		TransactionUC: sales.NewTransactionUseCase(store, repos.Transactions, cache.NoopSummaryCache{}, reg, pricing.TransactionTaxRate),
		InvoiceUC:     billing.NewInvoiceUseCase(store, repos.Invoices, repos.Receipts, reg, cfg),
		DocumentUC:    billing.NewDocumentUseCase(repos.Invoices, pdf.NewMarotoPDFGenerator(), ubl.NewInvoiceXMLBuilder(), cfg),
		ReceiptUC:     billing.NewReceiptUseCase(store, repos.Receipts, reg),
	}
	return apphttp.NewServer(apphttp.ServerOptions{
		AppName: "pos-admin-test",
		Logger:  zerolog.Nop(),
		Metrics: reg,
	}, deps)
}

func do(t *testing.T, app *fiber.App, method, target string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func invoiceBody() map[string]any {
	return map[string]any{
		"issueDate":     "2024-03-01",
		"dueDate":       "2024-03-31",
		"customerName":  "Acme Corp",
		"customerEmail": "billing@acme.test",
		"items": []map[string]any{
			{"description": "Consultoría", "quantity": 3, "unitPrice": 12.345},
			{"description": "Soporte", "quantity": 1, "unitPrice": 8.5},
		},
	}
}

func saleBody(at, method string, price float64) map[string]any {
	return map[string]any{
		"dateTime":      at,
		"paymentMethod": method,
		"items":         []map[string]any{{"productName": "Café", "quantity": 1, "unitPrice": price}},
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestHealth(t *testing.T) {
	app := buildTestApp(t)
	for _, path := range []string{"/health", "/api/health"} {
		resp := do(t, app, "GET", path, nil)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode, path)
		body := decode[map[string]any](t, resp)
		assert.Equal(t, "ok", body["status"], path)
		assert.NotEmpty(t, body["timestamp"], path)
	}
}

func TestInvoices_CRUD(t *testing.T) {
	app := buildTestApp(t)

	resp := do(t, app, "POST", "/api/invoices", invoiceBody())
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	created := decode[dto.InvoiceResponse](t, resp)
	assert.Equal(t, "INV-0001", created.InvoiceNumber)
	assert.Equal(t, "DRAFT", created.Status)
	assert.True(t, created.Total.Equal(decimal.RequireFromString("50.09")), created.Total.String())

	resp = do(t, app, "GET", "/api/invoices/"+created.ID, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	got := decode[dto.InvoiceResponse](t, resp)
	assert.Len(t, got.Items, 2)

	update := invoiceBody()
	update["status"] = "SENT"
	update["items"] = []map[string]any{{"description": "Único", "quantity": 2, "unitPrice": 10}}
	resp = do(t, app, "PUT", "/api/invoices/"+created.ID, update)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	updated := decode[dto.InvoiceResponse](t, resp)
	assert.Equal(t, "INV-0001", updated.InvoiceNumber)
	assert.Equal(t, "SENT", updated.Status)
	assert.True(t, updated.Total.Equal(decimal.RequireFromString("22.00")))

	resp = do(t, app, "GET", "/api/invoices?status=SENT&search=acme", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	page := decode[dto.PageResponse[dto.InvoiceResponse]](t, resp)
	assert.Equal(t, 1, page.Pagination.Total)
	assert.Equal(t, 20, page.Pagination.Limit)

	resp = do(t, app, "DELETE", "/api/invoices/"+created.ID, nil)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	resp = do(t, app, "GET", "/api/invoices/"+created.ID, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	errBody := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "NOT_FOUND", errBody.Code)
}

func TestInvoices_Validation(t *testing.T) {
	app := buildTestApp(t)

	body := invoiceBody()
	body["customerEmail"] = "no-es-email"
	resp := do(t, app, "POST", "/api/invoices", body)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	errBody := decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "VALIDATION", errBody.Code)
	assert.Equal(t, "customerEmail", errBody.Field)

	body = invoiceBody()
	body["items"] = []map[string]any{{"description": "X", "quantity": 0, "unitPrice": 1}}
	resp = do(t, app, "POST", "/api/invoices", body)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	errBody = decode[dto.ErrorResponse](t, resp)
	assert.Equal(t, "items[0].quantity", errBody.Field)

	req := httptest.NewRequest("POST", "/api/invoices", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	r, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, r.StatusCode)

	for _, q := range []string{"page=0", "limit=-1", "page=abc", "status=UNKNOWN"} {
		resp = do(t, app, "GET", "/api/invoices?"+q, nil)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode, q)
	}
}

func TestListados_PaginacionFueraDeRango(t *testing.T) {
	app := buildTestApp(t)
	do(t, app, "POST", "/api/transactions", saleBody("2024-05-01T12:00:00Z", "CASH", 10))

	for _, base := range []string{"/api/transactions", "/api/invoices", "/api/receipts"} {
		for _, q := range []string{
			"page=1000000000&limit=10000000000",
			"page=1000000000&limit=100",
			"page=1&limit=101",
		} {
			resp := do(t, app, "GET", base+"?"+q, nil)
			require.Equal(t, fiber.StatusBadRequest, resp.StatusCode, base+"?"+q)
			body := decode[dto.ErrorResponse](t, resp)
			assert.Equal(t, "VALIDATION", body.Code, base+"?"+q)
		}
	}

	// El servidor sigue respondiendo tras las peticiones anteriores.
	resp := do(t, app, "GET", "/api/transactions?page=1&limit=100", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	page := decode[dto.PageResponse[dto.TransactionResponse]](t, resp)
	assert.Len(t, page.Data, 1)
}

func TestInvoices_DuplicateAndDocuments(t *testing.T) {
	app := buildTestApp(t)
	created := decode[dto.InvoiceResponse](t, do(t, app, "POST", "/api/invoices", invoiceBody()))

	resp := do(t, app, "POST", "/api/invoices/"+created.ID+"/duplicate", nil)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	dup := decode[dto.InvoiceResponse](t, resp)
	assert.Equal(t, "INV-0002", dup.InvoiceNumber)
	assert.True(t, dup.Total.Equal(created.Total))

	resp = do(t, app, "GET", "/api/invoices/"+created.ID+"/pdf", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	raw, _ := io.ReadAll(resp.Body)
	assert.True(t, bytes.HasPrefix(raw, []byte("%PDF")))

	resp = do(t, app, "GET", "/api/invoices/"+created.ID+"/xml", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	etag := resp.Header.Get("ETag")
	assert.Len(t, etag, 66)
	xmlBody, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(xmlBody), "INV-0001")

	req := httptest.NewRequest("GET", "/api/invoices/"+created.ID+"/xml", nil)
	req.Header.Set("If-None-Match", etag)
	r, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotModified, r.StatusCode)

	assert.Equal(t, fiber.StatusNotFound, do(t, app, "GET", "/api/invoices/nope/pdf", nil).StatusCode)
	assert.Equal(t, fiber.StatusNotFound, do(t, app, "POST", "/api/invoices/nope/duplicate", nil).StatusCode)
}

func TestReceipts_WeakInvoiceReference(t *testing.T) {
	app := buildTestApp(t)
	inv := decode[dto.InvoiceResponse](t, do(t, app, "POST", "/api/invoices", invoiceBody()))

	resp := do(t, app, "POST", "/api/receipts", map[string]any{
		"dateTime":         "2024-03-05T10:00:00Z",
		"amount":           50.09,
		"paymentMethod":    "CARD",
		"source":           "POS",
		"relatedInvoiceId": inv.ID,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	rcp := decode[dto.ReceiptResponse](t, resp)
	assert.Equal(t, "RCP-00001", rcp.ReceiptNumber)
	require.NotNil(t, rcp.RelatedInvoice)
	assert.Equal(t, "INV-0001", rcp.RelatedInvoice.InvoiceNumber)

	require.Equal(t, fiber.StatusNoContent, do(t, app, "DELETE", "/api/invoices/"+inv.ID, nil).StatusCode)

	resp = do(t, app, "GET", "/api/receipts/"+rcp.ID, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	raw, _ := io.ReadAll(resp.Body)
	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Nil(t, body["relatedInvoice"])
	assert.Equal(t, inv.ID, body["relatedInvoiceId"])

	resp = do(t, app, "GET", "/api/receipts?source=POS&from=2024-03-01&to=2024-03-05", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	page := decode[dto.PageResponse[dto.ReceiptResponse]](t, resp)
	assert.Equal(t, 1, page.Pagination.Total)

	resp = do(t, app, "POST", "/api/receipts", map[string]any{
		"dateTime": "2024-03-05T10:00:00Z", "amount": 1, "paymentMethod": "BITCOIN", "source": "POS",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestTransactions_CRUDAndExport(t *testing.T) {
	app := buildTestApp(t)

	resp := do(t, app, "POST", "/api/transactions", saleBody("2024-05-01T12:00:00Z", "CASH", 10))
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	first := decode[dto.TransactionResponse](t, resp)
	assert.Equal(t, "R-000001", first.ReceiptNumber)
	assert.True(t, first.TaxAmount.Equal(decimal.RequireFromString("0.80")))
	assert.True(t, first.GrossAmount.Equal(decimal.RequireFromString("10.80")))

	second := decode[dto.TransactionResponse](t, do(t, app, "POST", "/api/transactions", saleBody("2024-05-02T12:00:00Z", "CARD", 20)))

	resp = do(t, app, "POST", "/api/transactions", map[string]any{"paymentMethod": "CASH", "items": []any{}})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	resp = do(t, app, "GET", "/api/transactions?paymentMethod=CARD", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	page := decode[dto.PageResponse[dto.TransactionResponse]](t, resp)
	require.Len(t, page.Data, 1)
	assert.Equal(t, second.ID, page.Data[0].ID)

	resp = do(t, app, "GET", "/api/transactions/export", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/csv; charset=utf-8", resp.Header.Get("Content-Type"))
	assert.Equal(t, "attachment; filename=transactions.csv", resp.Header.Get("Content-Disposition"))
	csv, _ := io.ReadAll(resp.Body)
	lines := strings.Split(string(csv), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Date/Time,Receipt Number,Gross Amount,Net Amount,Tax Amount,Payment Method,Status", lines[0])
	assert.Equal(t, "2024-05-02T12:00:00.000Z,R-000002,21.60,20.00,1.60,CARD,COMPLETED", lines[1])

	resp = do(t, app, "GET", "/api/transactions/export?charset=windows-1252", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/csv; charset=windows-1252", resp.Header.Get("Content-Type"))
	assert.Equal(t, fiber.StatusBadRequest, do(t, app, "GET", "/api/transactions/export?charset=latin9", nil).StatusCode)

	assert.Equal(t, fiber.StatusNoContent, do(t, app, "DELETE", "/api/transactions/"+first.ID, nil).StatusCode)
	assert.Equal(t, fiber.StatusNotFound, do(t, app, "GET", "/api/transactions/"+first.ID, nil).StatusCode)
}

func TestDashboardSummary(t *testing.T) {
	app := buildTestApp(t)
	do(t, app, "POST", "/api/transactions", saleBody("2024-05-01T12:00:00Z", "CASH", 10))
	do(t, app, "POST", "/api/transactions", saleBody("2024-05-01T18:00:00Z", "CARD", 20))
	refund := saleBody("2024-06-03T09:00:00Z", "CARD", 5)
	refund["status"] = "REFUNDED"
	do(t, app, "POST", "/api/transactions", refund)

	resp := do(t, app, "GET", "/api/dashboard/summary?from=2024-05-01&to=2024-06-30&groupBy=monthly", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	summary := decode[dto.DashboardSummaryDTO](t, resp)
	assert.Equal(t, 2, summary.KPIs.NumberOfTransactions)
	assert.True(t, summary.KPIs.TotalRevenue.Equal(decimal.RequireFromString("32.40")), summary.KPIs.TotalRevenue.String())
	assert.Equal(t, 1, summary.KPIs.NumberOfRefunds)
	assert.Equal(t, "CASH", summary.KPIs.TopPaymentMethod)
	require.Len(t, summary.Charts.RevenueOverTime, 1)
	assert.Equal(t, "2024-05", summary.Charts.RevenueOverTime[0].Period)

	assert.Equal(t, fiber.StatusBadRequest, do(t, app, "GET", "/api/dashboard/summary?from=2024-05-01", nil).StatusCode)
	resp = do(t, app, "GET", "/api/dashboard/summary?from=2024-06-01&to=2024-05-01", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	empty := decode[dto.DashboardSummaryDTO](t, resp)
	assert.Zero(t, empty.KPIs.NumberOfTransactions)
	assert.Equal(t, "N/A", empty.KPIs.TopPaymentMethod)
	assert.Equal(t, fiber.StatusBadRequest, do(t, app, "GET", "/api/dashboard/summary?from=2024-05-01&to=2024-06-01&groupBy=weekly", nil).StatusCode)
}

func TestMetricsEndpointAndUnknownRoute(t *testing.T) {
	app := buildTestApp(t)
	do(t, app, "POST", "/api/invoices", invoiceBody())

	resp := do(t, app, "GET", "/api/nothing-here", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", decode[dto.ErrorResponse](t, resp).Code)

	resp = do(t, app, "GET", "/metrics", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	raw, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(raw), `posadmin_documents_created_total{env="test",kind="invoice"} 1`)
	assert.Contains(t, string(raw), "posadmin_http_requests_total")
}
