// internal/core/usecases/orchestrator.go
package usecases

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"subhound/internal/core/domain"
	"subhound/internal/core/ports"
	"subhound/internal/platform/errors"
	"subhound/internal/platform/logx"
	"subhound/internal/platform/metrics"
)

// Orchestrator ejecuta los métodos pedidos de forma concurrente y une sus
// resultados. Un método que falla aporta una lista vacía y nunca aborta la
// ejecución.
type Orchestrator struct {
	sources map[domain.Method]ports.Source
	logger  logx.Logger
	metrics metrics.Recorder
	timeout time.Duration
	newID   func() string
}

// OrchestratorOptions configura el orchestrator.
type OrchestratorOptions struct {
	Sources map[domain.Method]ports.Source
	Logger  logx.Logger
	Metrics metrics.Recorder

	// Timeout máximo de una ejecución completa (0 = sin límite)
	Timeout time.Duration

	// NewID genera el identificador de cada ejecución. Default: UUID v4
	NewID func() string
}

// NewOrchestrator crea una nueva instancia del orchestrator.
func NewOrchestrator(opts OrchestratorOptions) *Orchestrator {
	if opts.Logger == nil {
		opts.Logger = logx.New()
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.Nop{}
	}
	if opts.NewID == nil {
		opts.NewID = func() string { return uuid.New().String() }
	}
	if opts.Sources == nil {
		opts.Sources = map[domain.Method]ports.Source{}
	}

	return &Orchestrator{
		sources: opts.Sources,
		logger:  opts.Logger.With("component", "orchestrator"),
		metrics: opts.Metrics,
		timeout: opts.Timeout,
		newID:   opts.NewID,
	}
}

// Discover valida la entrada cruda y ejecuta Run. Dominio o métodos inválidos
// devuelven errors.ErrInvalidInput antes de despachar ningún adapter.
func (o *Orchestrator) Discover(ctx context.Context, rawDomain string, rawMethods []string) (*domain.DiscoveryReport, error) {
	d, err := domain.Parse(rawDomain)
	if err != nil {
		return nil, err
	}

	methods, err := domain.ParseMethods(rawMethods)
	if err != nil {
		return nil, err
	}

	return o.Run(ctx, d, methods)
}

// Run despacha un adapter por método y espera a todos. La latencia total es
// la del adapter más lento, no la suma.
func (o *Orchestrator) Run(ctx context.Context, d domain.Domain, methods []domain.Method) (*domain.DiscoveryReport, error) {
	if d.IsZero() {
		return nil, errors.InvalidInput("domain cannot be empty")
	}
	if len(methods) == 0 {
		methods = domain.DefaultMethods()
	}

	selected := make([]ports.Source, len(methods))
	for i, m := range methods {
		src, ok := o.sources[m]
		if !ok || src == nil {
			return nil, errors.Internal("no adapter configured for method %q", m)
		}
		selected[i] = src
	}

	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	start := time.Now()
	id := o.newID()
	logger := o.logger.With("run_id", id, "domain", d.String())

	if d.IsPublicSuffix() {
		logger.Warn("target is a public suffix, results belong to unrelated registrants")
	}

	o.metrics.RunStarted()
	logger.Info("starting discovery", "methods", domain.MethodNames(methods))

	results := make([]domain.MethodResult, len(selected))
	var wg sync.WaitGroup
	for i, src := range selected {
		wg.Add(1)
		go func(i int, m domain.Method, s ports.Source) {
			defer wg.Done()
			results[i] = o.executeSource(ctx, logger, m, s, d)
		}(i, methods[i], src)
	}
	wg.Wait()

	report := domain.NewDiscoveryReport(id, d, methods, results)
	report.Finalize(start)

	logger.Info("discovery completed",
		"total_found", report.TotalFound,
		"duration_ms", report.Duration.Milliseconds(),
	)

	return report, nil
}

// executeSource ejecuta un adapter aislando errores y panics.
func (o *Orchestrator) executeSource(
	ctx context.Context,
	logger logx.Logger,
	m domain.Method,
	source ports.Source,
	d domain.Domain,
) (res domain.MethodResult) {
	start := time.Now()
	res = domain.MethodResult{Method: m, Subdomains: []string{}}

	defer func() {
		if r := recover(); r != nil {
			logger.Warn("source panicked", "method", m.String(), "panic", fmt.Sprint(r))
			o.metrics.SourceFailed(m.String(), "panic")
			res = domain.MethodResult{Method: m, Subdomains: []string{}, Failed: true}
		}
		res.Duration = time.Since(start)
		o.metrics.ObserveSource(m.String(), res.Duration, len(res.Subdomains))
	}()

	logger.Info(fmt.Sprintf("running %s discovery", m))

	names, err := source.Discover(ctx, d)
	if err != nil {
		srcErr := asSourceError(m, err)
		logger.Warn("source failed", "method", m.String(), "reason", srcErr.Reason(), "error", srcErr.Error())
		o.metrics.SourceFailed(m.String(), srcErr.Reason())
		res.Failed = true
		return res
	}

	// Los adapters ya filtran; se vuelve a filtrar para no confiar en ellos.
	set := domain.NewSubdomainSet(d)
	set.AddAll(names)
	res.Subdomains = set.Sorted()

	logger.Info(fmt.Sprintf("%s found %d subdomains", m, len(res.Subdomains)))
	return res
}

// asSourceError normaliza cualquier error de adapter a *ports.SourceError.
func asSourceError(m domain.Method, err error) *ports.SourceError {
	var srcErr *ports.SourceError
	if errors.As(err, &srcErr) {
		return srcErr
	}
	return ports.NewSourceError(m, err)
}

// Methods devuelve los métodos con adapter configurado, en orden de catálogo.
func (o *Orchestrator) Methods() []domain.Method {
	out := make([]domain.Method, 0, len(o.sources))
	for _, m := range domain.AllMethods {
		if _, ok := o.sources[m]; ok {
			out = append(out, m)
		}
	}
	return out
}

// Close libera los adapters.
func (o *Orchestrator) Close() error {
	var first error
	for _, s := range o.sources {
		if err := s.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
