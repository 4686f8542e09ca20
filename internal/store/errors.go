package store

import (
	"errors"
	"fmt"
)

// Sentinel errors for outcomes the API layer maps to distinct responses.
var (
	// ErrNoEncontrado is returned when the referenced entity does not exist.
	// It is also what the loser of a concurrent confirm/complete race sees:
	// by the time its guarded update runs, the pending assignment is gone.
	ErrNoEncontrado = errors.New("no encontrado")

	// ErrConflicto covers duplicate unique values and deletes blocked by an
	// existing relation.
	ErrConflicto = errors.New("conflicto")

	// ErrProhibido is returned when the actor is not allowed to perform the
	// operation on the target (e.g. confirming someone else's assignment).
	ErrProhibido = errors.New("operacion no permitida")

	// ErrSinCambios is returned by update operations when the patch does not
	// change anything. Callers report it as "nothing to update", not a failure.
	ErrSinCambios = errors.New("sin cambios")
)

// ValidationError reports a malformed or missing field, detected before any
// store access.
type ValidationError struct {
	Campo  string
	Motivo string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("campo %q: %s", e.Campo, e.Motivo)
}

func validacion(campo, motivo string) error {
	return &ValidationError{Campo: campo, Motivo: motivo}
}

// PreconditionError reports a domain rule violated by the current entity
// state. The entity exists but is in the wrong state for the operation.
type PreconditionError struct {
	Regla string
}

func (e *PreconditionError) Error() string {
	return e.Regla
}

func precondicion(format string, args ...any) error {
	return &PreconditionError{Regla: fmt.Sprintf(format, args...)}
}
