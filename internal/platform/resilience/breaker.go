// internal/platform/resilience/breaker.go
package resilience

import (
	"sync"
	"time"
)

// State representa el estado del circuit breaker.
type State int

const (
	StateClosed   State = iota // operación normal
	StateOpen                  // upstream caído, se rechazan llamadas
	StateHalfOpen              // probando si el upstream se recuperó
)

const (
	DefaultThreshold   = 5
	DefaultCooldown    = 60 * time.Second
	DefaultHalfOpenMax = 1
)

// BreakerConfig configura un Breaker. Los valores <= 0 toman el default.
type BreakerConfig struct {
	// Threshold fallos consecutivos que abren el circuito
	Threshold int

	// Cooldown tiempo en abierto antes de pasar a half-open
	Cooldown time.Duration

	// HalfOpenMax llamadas de prueba permitidas en half-open
	HalfOpenMax int
}

// Breaker corta las llamadas a un upstream que falla de forma repetida.
// Solo guarda salud del upstream, nunca resultados.
type Breaker struct {
	mu          sync.Mutex
	state       State
	failures    int
	probes      int
	successes   int
	openedAt    time.Time
	threshold   int
	cooldown    time.Duration
	halfOpenMax int
	now         func() time.Time
}

// NewBreaker crea un breaker en estado cerrado.
func NewBreaker(cfg BreakerConfig) *Breaker {
	if cfg.Threshold <= 0 {
		cfg.Threshold = DefaultThreshold
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = DefaultCooldown
	}
	if cfg.HalfOpenMax <= 0 {
		cfg.HalfOpenMax = DefaultHalfOpenMax
	}

	return &Breaker{
		state:       StateClosed,
		threshold:   cfg.Threshold,
		cooldown:    cfg.Cooldown,
		halfOpenMax: cfg.HalfOpenMax,
		now:         time.Now,
	}
}

// Allow reporta si una llamada puede pasar. En half-open reserva uno de los
// cupos de prueba; el resultado debe informarse con Success o Failure.
func (b *Breaker) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateClosed:
		return true

	case StateOpen:
		if b.now().Sub(b.openedAt) < b.cooldown {
			return false
		}
		b.state = StateHalfOpen
		b.probes = 0
		b.successes = 0
		fallthrough

	case StateHalfOpen:
		if b.probes >= b.halfOpenMax {
			return false
		}
		b.probes++
		return true
	}

	return false
}

// Success registra una llamada exitosa.
func (b *Breaker) Success() {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateClosed:
		b.failures = 0
	case StateHalfOpen:
		b.successes++
		if b.successes >= b.halfOpenMax {
			b.state = StateClosed
			b.failures = 0
		}
	}
}

// Failure registra una llamada fallida.
func (b *Breaker) Failure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateClosed:
		b.failures++
		if b.failures >= b.threshold {
			b.trip()
		}
	case StateHalfOpen:
		b.trip()
	}
}

// Abandon devuelve el cupo de prueba de una llamada que no llegó a concluir.
func (b *Breaker) Abandon() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state == StateHalfOpen && b.probes > 0 {
		b.probes--
	}
}

func (b *Breaker) trip() {
	b.state = StateOpen
	b.openedAt = b.now()
	b.failures = 0
}

// State retorna el estado actual.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Reset vuelve a cerrado.
func (b *Breaker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state = StateClosed
	b.failures = 0
	b.probes = 0
	b.successes = 0
}

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}
