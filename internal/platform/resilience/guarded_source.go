// internal/platform/resilience/guarded_source.go
package resilience

import (
	"context"

	"subhound/internal/core/domain"
	"subhound/internal/core/ports"
	"subhound/internal/platform/errors"
	"subhound/internal/platform/logx"
)

// GuardedSource envuelve un ports.Source con un Breaker: mientras el circuito
// está abierto, Discover falla de inmediato sin tocar el upstream.
type GuardedSource struct {
	source  ports.Source
	breaker *Breaker
	logger  logx.Logger
}

// Guard envuelve src con un breaker nuevo.
func Guard(src ports.Source, cfg BreakerConfig, logger logx.Logger) *GuardedSource {
	if logger == nil {
		logger = logx.New()
	}
	return &GuardedSource{
		source:  src,
		breaker: NewBreaker(cfg),
		logger:  logger.With("source", src.Method().String(), "component", "breaker"),
	}
}

func (g *GuardedSource) Method() domain.Method {
	return g.source.Method()
}

// Discover delega en el source si el breaker lo permite. Una cancelación del
// contexto del llamador no cuenta como fallo del upstream.
func (g *GuardedSource) Discover(ctx context.Context, d domain.Domain) ([]string, error) {
	if !g.breaker.Allow() {
		g.logger.Warn("circuit open, skipping source")
		return nil, ports.NewSourceError(g.source.Method(), errors.Wrap(errors.ErrServiceUnavailable, "circuit open"))
	}

	names, err := g.source.Discover(ctx, d)
	switch {
	case err == nil:
		g.breaker.Success()
	case ctx.Err() != nil:
		g.breaker.Abandon()
	default:
		before := g.breaker.State()
		g.breaker.Failure()
		if after := g.breaker.State(); after == StateOpen && before != StateOpen {
			g.logger.Warn("circuit opened", "error", err.Error())
		}
	}

	return names, err
}

// Breaker expone el breaker (monitoring y tests).
func (g *GuardedSource) Breaker() *Breaker {
	return g.breaker
}

func (g *GuardedSource) Close() error {
	return g.source.Close()
}
