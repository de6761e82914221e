// internal/platform/resolver/resolver.go
package resolver

import (
	"context"
	"net"
	"time"

	"github.com/miekg/dns"

	"subhound/internal/platform/errors"
)

// DefaultTimeout es el tiempo máximo por consulta individual.
const DefaultTimeout = 2 * time.Second

// fallbackServers se usan cuando /etc/resolv.conf no está disponible.
var fallbackServers = []string{
	"8.8.8.8:53",
	"8.8.4.4:53",
	"1.1.1.1:53",
	"1.0.0.1:53",
}

// Resolver decide si un hostname existe en DNS.
type Resolver interface {
	// Exists devuelve true si el host tiene al menos un registro A, AAAA o CNAME.
	// NXDOMAIN o una respuesta vacía devuelven (false, nil).
	Exists(ctx context.Context, host string) (bool, error)
}

// Config configura el DNSResolver.
type Config struct {
	// Servers lista de servidores host:port. Vacío = resolv.conf del sistema.
	Servers []string

	// Timeout por consulta. Default: DefaultTimeout
	Timeout time.Duration
}

// DNSResolver implementa Resolver hablando DNS directamente con miekg/dns.
type DNSResolver struct {
	servers []string
	client  *dns.Client
}

// New crea un DNSResolver.
func New(cfg Config) *DNSResolver {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	servers := cfg.Servers
	if len(servers) == 0 {
		servers = SystemServers()
	}

	return &DNSResolver{
		servers: servers,
		client: &dns.Client{
			Net:     "udp",
			Timeout: cfg.Timeout,
		},
	}
}

// SystemServers lee los nameservers de /etc/resolv.conf y cae a resolvers
// públicos si el archivo no existe o está vacío.
func SystemServers() []string {
	cc, err := dns.ClientConfigFromFile("/etc/resolv.conf")
	if err != nil || len(cc.Servers) == 0 {
		return append([]string(nil), fallbackServers...)
	}

	servers := make([]string, 0, len(cc.Servers))
	for _, s := range cc.Servers {
		servers = append(servers, net.JoinHostPort(s, cc.Port))
	}
	return servers
}

// Servers devuelve los servidores configurados.
func (r *DNSResolver) Servers() []string {
	return r.servers
}

// Exists consulta A y, si no hay respuesta positiva, AAAA.
func (r *DNSResolver) Exists(ctx context.Context, host string) (bool, error) {
	for _, qtype := range []uint16{dns.TypeA, dns.TypeAAAA} {
		resp, err := r.exchange(ctx, host, qtype)
		if err != nil {
			return false, err
		}
		if resp.Rcode == dns.RcodeNameError {
			return false, nil
		}
		if resp.Rcode != dns.RcodeSuccess {
			continue
		}
		if hasAddress(resp) {
			return true, nil
		}
	}
	return false, nil
}

// exchange prueba cada servidor hasta obtener una respuesta.
func (r *DNSResolver) exchange(ctx context.Context, host string, qtype uint16) (*dns.Msg, error) {
	msg := new(dns.Msg)
	msg.SetQuestion(dns.Fqdn(host), qtype)
	msg.RecursionDesired = true

	var lastErr error
	for _, server := range r.servers {
		if err := ctx.Err(); err != nil {
			return nil, errors.Classify(err)
		}

		resp, _, err := r.client.ExchangeContext(ctx, msg, server)
		if err == nil && resp != nil {
			return resp, nil
		}
		lastErr = err
	}

	if lastErr == nil {
		lastErr = errors.New("no response from any DNS server")
	}
	return nil, errors.Classify(lastErr)
}

func hasAddress(resp *dns.Msg) bool {
	for _, rr := range resp.Answer {
		switch rr.(type) {
		case *dns.A, *dns.AAAA, *dns.CNAME:
			return true
		}
	}
	return false
}
