// internal/sources/wordlist/wordlist.go
package wordlist

import (
	"context"
	"fmt"
	"time"

	"subhound/internal/core/domain"
	"subhound/internal/platform/limiter"
	"subhound/internal/platform/logx"
	"subhound/internal/platform/metrics"
	"subhound/internal/platform/resolver"
)

// Config configura el adapter de wordlist.
type Config struct {
	// Workers probes DNS simultáneos. Default: limiter.DefaultLimit
	Workers int

	// ProbeTimeout timeout de cada probe. Default: 2s
	ProbeTimeout time.Duration

	// Labels reemplaza la wordlist incorporada si no es nil
	Labels []string

	// Extra labels adicionales a la wordlist base
	Extra []string
}

// Wordlist resuelve {label}.{domain} para cada label de la lista.
// Cualquier fallo de un probe (NXDOMAIN, timeout, error de red, panic)
// significa "no presente" y nunca se propaga.
type Wordlist struct {
	labels   []string
	workers  int
	timeout  time.Duration
	resolver resolver.Resolver
	metrics  metrics.Recorder
	logger   logx.Logger
}

// New crea el adapter del método dns.
func New(cfg Config, r resolver.Resolver, rec metrics.Recorder, logger logx.Logger) *Wordlist {
	if cfg.Workers <= 0 {
		cfg.Workers = limiter.DefaultLimit
	}
	if cfg.ProbeTimeout <= 0 {
		cfg.ProbeTimeout = resolver.DefaultTimeout
	}
	if rec == nil {
		rec = metrics.Nop{}
	}

	base := builtin
	if cfg.Labels != nil {
		base = cfg.Labels
	}

	return &Wordlist{
		labels:   merge(base, cfg.Extra),
		workers:  cfg.Workers,
		timeout:  cfg.ProbeTimeout,
		resolver: r,
		metrics:  rec,
		logger:   logger.With("source", domain.MethodDNS.String()),
	}
}

// Method implementa ports.Source.
func (w *Wordlist) Method() domain.Method {
	return domain.MethodDNS
}

// Labels devuelve los labels que se probarán.
func (w *Wordlist) Labels() []string {
	return w.labels
}

// Discover implementa ports.Source. Nunca devuelve error: si ctx se cancela
// devuelve lo encontrado hasta ese momento.
func (w *Wordlist) Discover(ctx context.Context, d domain.Domain) ([]string, error) {
	found := domain.NewSubdomainSet(d)
	lim := limiter.New(w.workers)
	done := make(chan struct{}, len(w.labels))

	started := 0
	for _, label := range w.labels {
		// Acquire antes de lanzar la goroutine: acota también las goroutines vivas.
		if err := lim.Acquire(ctx); err != nil {
			break
		}
		started++

		go func(host string) {
			defer func() { done <- struct{}{} }()
			defer lim.Release()

			if w.probe(ctx, host) {
				found.Add(host)
			}
		}(d.Join(label))
	}

	for i := 0; i < started; i++ {
		<-done
	}

	w.logger.Debug("wordlist probes finished",
		"domain", d.String(),
		"probes", started,
		"resolved", found.Len(),
		"peak_inflight", lim.Peak(),
	)

	return found.Sorted(), nil
}

// probe resuelve host con timeout propio. Un panic del resolver cuenta como fallo.
func (w *Wordlist) probe(ctx context.Context, host string) (ok bool) {
	outcome := metrics.ProbeError
	w.metrics.ProbeStarted()
	defer func() {
		if r := recover(); r != nil {
			w.logger.Warn("dns probe panicked", "host", host, "panic", fmt.Sprint(r))
			ok = false
			outcome = metrics.ProbeError
		}
		w.metrics.ProbeFinished(outcome)
	}()

	probeCtx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	exists, err := w.resolver.Exists(probeCtx, host)
	switch {
	case err != nil:
		w.logger.Debug("dns probe failed", "host", host, "error", err.Error())
		return false
	case exists:
		outcome = metrics.ProbeResolved
		return true
	default:
		outcome = metrics.ProbeMissing
		return false
	}
}

// Close implementa ports.Source.
func (w *Wordlist) Close() error {
	return nil
}
