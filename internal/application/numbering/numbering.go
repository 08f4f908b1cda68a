// Package numbering asigna consecutivos de documentos usando el contador atómico del store.
package numbering

import (
	"context"
	"fmt"

	"github.com/jhoicas/pos-admin/internal/domain/repository"
	"github.com/jhoicas/pos-admin/internal/domain/sequence"
)

// Next devuelve el siguiente identificador de kind. Debe llamarse con los repositorios de la
// transacción que inserta el documento: el incremento bloquea la fila del contador hasta el commit.
//
// Si el contador aún no existe se siembra con el sufijo del último documento creado, de modo que
// una base con datos previos continúa su numeración. Un sufijo ilegible devuelve
// *domain.MalformedSequenceError.
func Next(ctx context.Context, repos repository.Repositories, kind sequence.Kind) (string, error) {
	n, found, err := repos.Sequences.Increment(ctx, kind)
	if err != nil {
		return "", err
	}
	if !found {
		last, err := lastNumber(ctx, repos, kind)
		if err != nil {
			return "", err
		}
		var start int64
		if last != "" {
			if start, err = sequence.ParseSuffix(kind, last); err != nil {
				return "", err
			}
		}
		if err := repos.Sequences.Seed(ctx, kind, start); err != nil {
			return "", err
		}
		if n, found, err = repos.Sequences.Increment(ctx, kind); err != nil {
			return "", err
		}
		if !found {
			return "", fmt.Errorf("numbering: contador %s no disponible tras sembrarlo", kind)
		}
	}
	return sequence.Format(kind, n), nil
}

// Reset fija los contadores al sufijo del último documento de cada tipo (tras cargar datos).
func Reset(ctx context.Context, repos repository.Repositories) error {
	for _, kind := range sequence.Kinds() {
		last, err := lastNumber(ctx, repos, kind)
		if err != nil {
			return err
		}
		var n int64
		if last != "" {
			if n, err = sequence.ParseSuffix(kind, last); err != nil {
				return err
			}
		}
		if err := repos.Sequences.Set(ctx, kind, n); err != nil {
			return err
		}
	}
	return nil
}

func lastNumber(ctx context.Context, repos repository.Repositories, kind sequence.Kind) (string, error) {
	switch kind {
	case sequence.KindInvoice:
		return repos.Invoices.LastNumber(ctx)
	case sequence.KindTransaction:
		return repos.Transactions.LastNumber(ctx)
	case sequence.KindReceipt:
		return repos.Receipts.LastNumber(ctx)
	}
	return "", fmt.Errorf("numbering: tipo desconocido %q", kind)
}
