package sequence_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-admin/internal/domain"
	"github.com/jhoicas/pos-admin/internal/domain/sequence"
)

func TestNext_ContinuaElUltimoConsecutivo(t *testing.T) {
	next, err := sequence.Next(sequence.KindInvoice, "INV-0007")
	require.NoError(t, err)
	assert.Equal(t, "INV-0008", next)
}

func TestNext_SinRegistrosEmpiezaEnUno(t *testing.T) {
	cases := map[sequence.Kind]string{
		sequence.KindInvoice:     "INV-0001",
		sequence.KindTransaction: "R-000001",
		sequence.KindReceipt:     "RCP-00001",
	}
	for kind, want := range cases {
		got, err := sequence.Next(kind, "")
		require.NoError(t, err)
		assert.Equal(t, want, got, "tipo %s", kind)
	}
}

func TestNext_DesbordaElAnchoSinTruncar(t *testing.T) {
	next, err := sequence.Next(sequence.KindInvoice, "INV-9999")
	require.NoError(t, err)
	assert.Equal(t, "INV-10000", next)
}

func TestParseSuffix_UsaElUltimoGuion(t *testing.T) {
	n, err := sequence.ParseSuffix(sequence.KindReceipt, "RCP-2024-00042")
	require.NoError(t, err)
	assert.Equal(t, int64(42), n)
}

func TestParseSuffix_MalFormado(t *testing.T) {
	for _, id := range []string{"INV", "INV-", "INV-00A1", "INV-+12", "INV- 12"} {
		_, err := sequence.ParseSuffix(sequence.KindInvoice, id)
		require.Error(t, err, id)

		var mse *domain.MalformedSequenceError
		assert.True(t, errors.As(err, &mse), id)
		assert.ErrorIs(t, err, domain.ErrMalformedSequence)
		assert.Equal(t, id, mse.Value)
	}
}

func TestNext_PropagaErrorDeConsecutivo(t *testing.T) {
	_, err := sequence.Next(sequence.KindTransaction, "R-abc")
	assert.ErrorIs(t, err, domain.ErrMalformedSequence)
}
