package billing

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/pos-admin/internal/application/dto"
	"github.com/jhoicas/pos-admin/internal/application/ports"
	"github.com/jhoicas/pos-admin/internal/infrastructure/memory"
)

const concurrentCreates = 50

func TestInvoiceCreate_ConcurrenteNumerosUnicos(t *testing.T) {
	s := memory.New()
	repos := s.Repositories()
	uc := NewInvoiceUseCase(s, repos.Invoices, repos.Receipts, ports.NopRecorder{}, DefaultConfig())

	numbers := make([]string, concurrentCreates)
	var g errgroup.Group
	for i := range numbers {
		g.Go(func() error {
			got, err := uc.Create(context.Background(), sampleInvoice())
			if err != nil {
				return err
			}
			numbers[i] = got.InvoiceNumber
			return nil
		})
	}
	require.NoError(t, g.Wait())

	seen := map[string]bool{}
	for _, n := range numbers {
		assert.False(t, seen[n], "número repetido %s", n)
		seen[n] = true
	}
	for i := 1; i <= concurrentCreates; i++ {
		assert.True(t, seen[fmt.Sprintf("INV-%04d", i)], "falta INV-%04d", i)
	}
}

func TestReceiptCreate_ConcurrenteNumerosUnicos(t *testing.T) {
	s := memory.New()
	uc := NewReceiptUseCase(s, s.Repositories().Receipts, ports.NopRecorder{})

	numbers := make([]string, concurrentCreates)
	var g errgroup.Group
	for i := range numbers {
		g.Go(func() error {
			got, err := uc.Create(context.Background(), dto.ReceiptRequest{
				DateTime:      "2024-04-02T10:00:00Z",
				Amount:        dec("10.00"),
				PaymentMethod: "CASH",
				Source:        "POS",
			})
			if err != nil {
				return err
			}
			numbers[i] = got.ReceiptNumber
			return nil
		})
	}
	require.NoError(t, g.Wait())

	seen := map[string]bool{}
	for _, n := range numbers {
		assert.False(t, seen[n], "número repetido %s", n)
		seen[n] = true
	}
	assert.True(t, seen[fmt.Sprintf("RCP-%05d", concurrentCreates)])
	assert.Len(t, seen, concurrentCreates)
}
