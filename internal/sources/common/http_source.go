// internal/sources/common/http_source.go
package common

import (
	"context"
	"net/http"
	"time"

	"subhound/internal/core/domain"
	"subhound/internal/core/ports"
	"subhound/internal/platform/httpclient"
	"subhound/internal/platform/logx"
)

// HTTPConfig es la configuración compartida por las fuentes HTTP.
type HTTPConfig struct {
	// BaseURL endpoint de la API (configurable para tests y mirrors)
	BaseURL string

	// Timeout total de Discover, incluidas todas sus peticiones
	Timeout time.Duration

	UserAgent string
	Retries   int
	RateLimit float64

	// Transport opcional (proxy)
	Transport http.RoundTripper
}

// HTTPSource agrupa lo que toda fuente HTTP necesita: cliente, timeout y logger.
type HTTPSource struct {
	method  domain.Method
	baseURL string
	timeout time.Duration
	client  *httpclient.Client
	logger  logx.Logger
}

// NewHTTPSource construye la base de una fuente HTTP. defaultURL y
// defaultTimeout se usan cuando cfg no los define.
func NewHTTPSource(m domain.Method, cfg HTTPConfig, defaultURL string, defaultTimeout time.Duration, logger logx.Logger) HTTPSource {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	client := httpclient.New(httpclient.Config{
		Timeout:    cfg.Timeout,
		MaxRetries: cfg.Retries,
		UserAgent:  cfg.UserAgent,
		RateLimit:  cfg.RateLimit,
		Transport:  cfg.Transport,
	}, logger)

	return HTTPSource{
		method:  m,
		baseURL: cfg.BaseURL,
		timeout: cfg.Timeout,
		client:  client,
		logger:  logger.With("source", m.String()),
	}
}

// Method implementa ports.Source.
func (s *HTTPSource) Method() domain.Method {
	return s.method
}

// BaseURL devuelve el endpoint configurado.
func (s *HTTPSource) BaseURL() string {
	return s.baseURL
}

// Timeout devuelve el timeout total configurado.
func (s *HTTPSource) Timeout() time.Duration {
	return s.timeout
}

// Client devuelve el cliente HTTP de la fuente.
func (s *HTTPSource) Client() *httpclient.Client {
	return s.client
}

// Logger devuelve el logger con scope de la fuente.
func (s *HTTPSource) Logger() logx.Logger {
	return s.logger
}

// WithTimeout acota ctx al timeout de la fuente.
func (s *HTTPSource) WithTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.timeout)
}

// Fail envuelve err como SourceError de esta fuente.
func (s *HTTPSource) Fail(err error) error {
	return ports.NewSourceError(s.method, err)
}

// Collect normaliza y filtra hosts para d.
func Collect(d domain.Domain, hosts []string) []string {
	set := domain.NewSubdomainSet(d)
	set.AddAll(hosts)
	return set.Sorted()
}

// Close implementa ports.Source. http.Client no requiere Close explícito.
func (s *HTTPSource) Close() error {
	return nil
}
