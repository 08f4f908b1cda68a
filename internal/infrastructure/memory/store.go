// Package memory implementa los repositorios sobre mapas en memoria protegidos por un RWMutex.
// Se usa con STORE_DRIVER=memory (desarrollo sin base de datos) y en los tests de casos de uso
// y handlers. Respeta los mismos contratos que internal/infrastructure/postgres.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/jhoicas/pos-admin/internal/domain/entity"
	"github.com/jhoicas/pos-admin/internal/domain/repository"
	"github.com/jhoicas/pos-admin/internal/domain/sequence"
)

// state conjunto de datos. Las entidades guardadas nunca se mutan en sitio: cada escritura
// reemplaza el puntero por una copia, así clonar los mapas basta para aislar una transacción.
type state struct {
	invoices     map[string]*entity.Invoice
	receipts     map[string]*entity.Receipt
	transactions map[string]*entity.Transaction
	sequences    map[sequence.Kind]int64
}

func newState() *state {
	return &state{
		invoices:     map[string]*entity.Invoice{},
		receipts:     map[string]*entity.Receipt{},
		transactions: map[string]*entity.Transaction{},
		sequences:    map[sequence.Kind]int64{},
	}
}

func (s *state) clone() *state {
	c := newState()
	for k, v := range s.invoices {
		c.invoices[k] = v
	}
	for k, v := range s.receipts {
		c.receipts[k] = v
	}
	for k, v := range s.transactions {
		c.transactions[k] = v
	}
	for k, v := range s.sequences {
		c.sequences[k] = v
	}
	return c
}

// Store almacén en memoria.
type Store struct {
	mu sync.RWMutex
	st *state
}

// New crea un almacén vacío.
func New() *Store {
	return &Store{st: newState()}
}

// Repositories devuelve repositorios que bloquean el almacén en cada operación.
func (s *Store) Repositories() repository.Repositories {
	return reposFor(accessor{s: s})
}

// RunInTx ejecuta fn sobre una copia del estado con el almacén bloqueado en escritura.
// Si fn devuelve nil la copia reemplaza al estado; si no, se descarta (rollback).
func (s *Store) RunInTx(ctx context.Context, fn func(repos repository.Repositories) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	work := s.st.clone()
	if err := fn(reposFor(accessor{tx: work})); err != nil {
		return err
	}
	s.st = work
	return nil
}

// Reset vacía el almacén.
func (s *Store) Reset() {
	s.mu.Lock()
	s.st = newState()
	s.mu.Unlock()
}

var _ repository.TxRunner = (*Store)(nil)

func reposFor(a accessor) repository.Repositories {
	return repository.Repositories{
		Invoices:     &InvoiceRepo{a: a},
		Receipts:     &ReceiptRepo{a: a},
		Transactions: &TransactionRepo{a: a},
		Sequences:    &SequenceRepo{a: a},
	}
}

// accessor da acceso al estado: dentro de RunInTx el lock ya está tomado.
type accessor struct {
	s  *Store
	tx *state
}

func (a accessor) read() (*state, func()) {
	if a.tx != nil {
		return a.tx, func() {}
	}
	a.s.mu.RLock()
	return a.s.st, a.s.mu.RUnlock
}

func (a accessor) write() (*state, func()) {
	if a.tx != nil {
		return a.tx, func() {}
	}
	a.s.mu.Lock()
	return a.s.st, a.s.mu.Unlock
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func paginate[T any](list []T, page repository.Page) []T {
	if page.Offset < 0 || page.Offset >= len(list) {
		return []T{}
	}
	end := len(list)
	if page.Limit > 0 && page.Offset+page.Limit < end {
		end = page.Offset + page.Limit
	}
	return list[page.Offset:end]
}

// lastBy devuelve el número del registro creado más recientemente.
func lastBy[T any](list []T, created func(T) int64, number func(T) string) string {
	if len(list) == 0 {
		return ""
	}
	sort.SliceStable(list, func(i, j int) bool {
		ci, cj := created(list[i]), created(list[j])
		if ci != cj {
			return ci > cj
		}
		return number(list[i]) > number(list[j])
	})
	return number(list[0])
}
