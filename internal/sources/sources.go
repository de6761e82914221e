// internal/sources/sources.go
package sources

import (
	"net/http"
	"net/url"

	"subhound/internal/core/domain"
	"subhound/internal/core/ports"
	"subhound/internal/platform/config"
	"subhound/internal/platform/errors"
	"subhound/internal/platform/logx"
	"subhound/internal/platform/metrics"
	"subhound/internal/platform/resilience"
	"subhound/internal/platform/resolver"
	"subhound/internal/sources/common"
	"subhound/internal/sources/crtsh"
	"subhound/internal/sources/hackertarget"
	"subhound/internal/sources/threatcrowd"
	"subhound/internal/sources/virustotal"
	"subhound/internal/sources/wordlist"
)

// Deps agrupa las dependencias compartidas por los adapters.
type Deps struct {
	Config   config.Config
	Resolver resolver.Resolver
	Metrics  metrics.Recorder
	Logger   logx.Logger
}

// New construye el adapter de m. El conjunto de métodos es cerrado: un método
// sin adapter es un error interno. Las fuentes HTTP quedan detrás de un
// circuit breaker si está habilitado.
func New(m domain.Method, deps Deps) (ports.Source, error) {
	src, err := build(m, deps)
	if err != nil {
		return nil, err
	}

	rc := deps.Config.Resilience
	if m == domain.MethodDNS || !rc.CircuitBreakerEnabled {
		return src, nil
	}
	return resilience.Guard(src, resilience.BreakerConfig{
		Threshold: rc.CircuitBreakerThreshold,
		Cooldown:  rc.CircuitBreakerCooldown,
	}, deps.Logger), nil
}

func build(m domain.Method, deps Deps) (ports.Source, error) {
	cfg := deps.Config

	switch m {
	case domain.MethodDNS:
		extra, err := extraLabels(cfg.DNS.Wordlist)
		if err != nil {
			return nil, err
		}
		r := deps.Resolver
		if r == nil {
			r = resolver.New(resolver.Config{Servers: cfg.DNS.Resolvers, Timeout: cfg.DNS.ProbeTimeout})
		}
		return wordlist.New(wordlist.Config{
			Workers:      cfg.DNS.Workers,
			ProbeTimeout: cfg.DNS.ProbeTimeout,
			Extra:        extra,
		}, r, deps.Metrics, deps.Logger), nil

	case domain.MethodCRT:
		return crtsh.New(httpConfig(cfg, config.SourceCRT), deps.Logger), nil

	case domain.MethodHackerTarget:
		return hackertarget.New(httpConfig(cfg, config.SourceHackerTarget), deps.Logger), nil

	case domain.MethodThreatCrowd:
		return threatcrowd.New(httpConfig(cfg, config.SourceThreatCrowd), deps.Logger), nil

	case domain.MethodVirusTotal:
		key := cfg.SourceSettings(config.SourceVirusTotal).APIKey
		return virustotal.New(httpConfig(cfg, config.SourceVirusTotal), key, deps.Logger), nil

	default:
		return nil, errors.Internal("no adapter configured for method %q", m)
	}
}

// Build construye un adapter por cada método del catálogo.
func Build(deps Deps) (map[domain.Method]ports.Source, error) {
	out := make(map[domain.Method]ports.Source, len(domain.AllMethods))
	for _, m := range domain.AllMethods {
		src, err := New(m, deps)
		if err != nil {
			CloseAll(out)
			return nil, err
		}
		out[m] = src
	}
	return out, nil
}

// CloseAll cierra todos los adapters, ignorando errores.
func CloseAll(srcs map[domain.Method]ports.Source) {
	for _, s := range srcs {
		_ = s.Close()
	}
}

func httpConfig(cfg config.Config, name string) common.HTTPConfig {
	s := cfg.SourceSettings(name)
	return common.HTTPConfig{
		BaseURL:   s.BaseURL,
		Timeout:   s.Timeout,
		UserAgent: cfg.Source.UserAgent,
		Retries:   s.Retries,
		RateLimit: s.RateLimit,
		Transport: proxyTransport(cfg.Network.ProxyURL),
	}
}

// proxyTransport devuelve nil (transport por defecto) si no hay proxy válido.
func proxyTransport(raw string) http.RoundTripper {
	if raw == "" {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return nil
	}
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.Proxy = http.ProxyURL(u)
	return t
}

func extraLabels(path string) ([]string, error) {
	if path == "" {
		return nil, nil
	}
	return wordlist.LoadFile(path)
}
