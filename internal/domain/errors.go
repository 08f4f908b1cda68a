package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrMalformedSequence = errors.New("consecutivo mal formado")
)

// ValidationError describe un campo inválido de la petición. errors.Is(err, ErrInvalidInput) es true.
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError construye el error para el campo indicado.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// MalformedSequenceError se devuelve cuando el último identificador emitido no termina en un entero.
// No se debe silenciar: significa que la tabla contiene números que el generador no puede continuar.
type MalformedSequenceError struct {
	Kind  string
	Value string
}

func (e *MalformedSequenceError) Error() string {
	return fmt.Sprintf("consecutivo %s mal formado: %q", e.Kind, e.Value)
}

func (e *MalformedSequenceError) Unwrap() error { return ErrMalformedSequence }

// StoreError envuelve un fallo de persistencia. La capa HTTP lo traduce a 500 con mensaje genérico.
type StoreError struct {
	Op  string
	Err error
}

// NewStoreError envuelve err; devuelve nil si err es nil.
func NewStoreError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, Err: err}
}

func (e *StoreError) Error() string { return e.Op + ": " + e.Err.Error() }

func (e *StoreError) Unwrap() error { return e.Err }
