// internal/core/ports/source.go
package ports

import (
	"context"
	"fmt"

	"subhound/internal/core/domain"
	"subhound/internal/platform/errors"
)

// Source es el port primario para todos los métodos de descubrimiento.
// Cualquier adapter (DNS, crt.sh, APIs pasivas) debe implementar esta interfaz.
type Source interface {
	// Method retorna el método que implementa el adapter
	Method() domain.Method

	// Discover devuelve los hostnames candidatos para d. El resultado puede
	// contener duplicados o hosts ajenos; el orquestador vuelve a filtrar.
	// Un fallo se reporta como *SourceError, nunca como panic.
	Discover(ctx context.Context, d domain.Domain) ([]string, error)

	// Close libera recursos utilizados por la fuente (conexiones, goroutines)
	Close() error
}

// SourceError es el error tipado de un adapter: red, timeout, status
// no exitoso o respuesta mal formada. El orquestador lo convierte en una
// lista vacía para ese método.
type SourceError struct {
	Method domain.Method
	Err    error
}

// NewSourceError clasifica err y lo asocia a m.
func NewSourceError(m domain.Method, err error) *SourceError {
	return &SourceError{Method: m, Err: errors.Classify(err)}
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Method, e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

// Reason devuelve la categoría corta del fallo (timeout, rate_limit, ...).
func (e *SourceError) Reason() string {
	return errors.Reason(e.Err)
}
