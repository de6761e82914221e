// internal/platform/limiter/limiter.go
package limiter

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

// DefaultLimit es el número de operaciones en vuelo por defecto.
const DefaultLimit = 50

// Limiter acota cuántas operaciones pueden estar en vuelo a la vez.
// Acquire bloquea hasta que hay un slot libre o el contexto se cancela.
type Limiter struct {
	sem      *semaphore.Weighted
	capacity int64
	inflight atomic.Int64
	peak     atomic.Int64
}

// New crea un limiter con capacidad n. Valores <= 0 usan DefaultLimit.
func New(n int) *Limiter {
	if n <= 0 {
		n = DefaultLimit
	}
	return &Limiter{
		sem:      semaphore.NewWeighted(int64(n)),
		capacity: int64(n),
	}
}

// Acquire reserva un slot. Cada Acquire exitoso debe ir seguido de Release.
func (l *Limiter) Acquire(ctx context.Context) error {
	if err := l.sem.Acquire(ctx, 1); err != nil {
		return err
	}

	cur := l.inflight.Add(1)
	for {
		p := l.peak.Load()
		if cur <= p || l.peak.CompareAndSwap(p, cur) {
			break
		}
	}
	return nil
}

// Release libera un slot previamente reservado.
func (l *Limiter) Release() {
	l.inflight.Add(-1)
	l.sem.Release(1)
}

// Do ejecuta fn dentro de un slot.
func (l *Limiter) Do(ctx context.Context, fn func() error) error {
	if err := l.Acquire(ctx); err != nil {
		return err
	}
	defer l.Release()
	return fn()
}

// Cap devuelve la capacidad configurada.
func (l *Limiter) Cap() int {
	return int(l.capacity)
}

// InFlight devuelve las operaciones actualmente en curso.
func (l *Limiter) InFlight() int {
	return int(l.inflight.Load())
}

// Peak devuelve el máximo de operaciones simultáneas observado.
func (l *Limiter) Peak() int {
	return int(l.peak.Load())
}
