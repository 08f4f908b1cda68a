// Package sequence formatea y continúa los consecutivos legibles (INV-0001, R-000001, RCP-00001).
//
// Es lógica pura: la atomicidad del incremento la garantiza el repositorio de secuencias
// dentro de la misma transacción que crea el documento.
package sequence

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jhoicas/pos-admin/internal/domain"
)

// Kind tipo de documento numerado.
type Kind string

const (
	KindInvoice     Kind = "invoice"
	KindTransaction Kind = "transaction"
	KindReceipt     Kind = "receipt"
)

type format struct {
	prefix string
	width  int
}

var formats = map[Kind]format{
	KindInvoice:     {prefix: "INV", width: 4},
	KindTransaction: {prefix: "R", width: 6},
	KindReceipt:     {prefix: "RCP", width: 5},
}

// Kinds devuelve los tipos conocidos en orden estable.
func Kinds() []Kind {
	return []Kind{KindInvoice, KindTransaction, KindReceipt}
}

// Format construye el identificador del tipo con el valor n, rellenado con ceros.
func Format(kind Kind, n int64) string {
	f, ok := formats[kind]
	if !ok {
		panic(fmt.Sprintf("sequence: tipo desconocido %q", kind))
	}
	return fmt.Sprintf("%s-%0*d", f.prefix, f.width, n)
}

// ParseSuffix devuelve el entero que sigue al último '-' de id.
// Falla con *domain.MalformedSequenceError si no hay '-' o el sufijo no es un entero no negativo.
func ParseSuffix(kind Kind, id string) (int64, error) {
	i := strings.LastIndex(id, "-")
	if i < 0 || i == len(id)-1 {
		return 0, &domain.MalformedSequenceError{Kind: string(kind), Value: id}
	}
	suffix := id[i+1:]
	for _, r := range suffix {
		if r < '0' || r > '9' {
			return 0, &domain.MalformedSequenceError{Kind: string(kind), Value: id}
		}
	}
	n, err := strconv.ParseInt(suffix, 10, 64)
	if err != nil {
		return 0, &domain.MalformedSequenceError{Kind: string(kind), Value: id}
	}
	return n, nil
}

// Next devuelve el identificador que sigue a last. Con last vacío (sin registros previos) empieza en 1.
func Next(kind Kind, last string) (string, error) {
	if last == "" {
		return Format(kind, 1), nil
	}
	n, err := ParseSuffix(kind, last)
	if err != nil {
		return "", err
	}
	return Format(kind, n+1), nil
}
