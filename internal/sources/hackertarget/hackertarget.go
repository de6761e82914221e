// internal/sources/hackertarget/hackertarget.go
package hackertarget

import (
	"bufio"
	"bytes"
	"context"
	"net/url"
	"strings"
	"time"

	"subhound/internal/core/domain"
	"subhound/internal/platform/errors"
	"subhound/internal/platform/logx"
	"subhound/internal/sources/common"
)

const (
	// DefaultURL endpoint hostsearch de HackerTarget
	DefaultURL = "https://api.hackertarget.com/hostsearch/"

	// DefaultTimeout timeout por request de la API
	DefaultTimeout = 15 * time.Second
)

// HackerTarget consulta la API hostsearch, que devuelve una línea "host,ip"
// por cada registro conocido del dominio.
type HackerTarget struct {
	common.HTTPSource
}

// New crea una nueva instancia de la fuente HackerTarget.
func New(cfg common.HTTPConfig, logger logx.Logger) *HackerTarget {
	return &HackerTarget{
		HTTPSource: common.NewHTTPSource(domain.MethodHackerTarget, cfg, DefaultURL, DefaultTimeout, logger),
	}
}

// Discover implementa ports.Source.
func (h *HackerTarget) Discover(ctx context.Context, d domain.Domain) ([]string, error) {
	ctx, cancel := h.WithTimeout(ctx)
	defer cancel()

	u := h.BaseURL() + "?q=" + url.QueryEscape(d.String())
	body, err := h.Client().Fetch(ctx, u, nil)
	if err != nil {
		return nil, h.Fail(err)
	}

	hosts, err := parseHostSearch(body)
	if err != nil {
		return nil, h.Fail(err)
	}

	return common.Collect(d, hosts), nil
}

// parseHostSearch extrae la columna host. La API responde con texto plano
// también en los errores; la cuota agotada se reporta como rate limit y
// cualquier otra línea sin coma se ignora.
func parseHostSearch(body []byte) ([]string, error) {
	text := string(bytes.TrimSpace(body))
	if strings.HasPrefix(text, "API count exceeded") {
		return nil, errors.Wrap(errors.ErrRateLimit, text)
	}

	var hosts []string
	scanner := bufio.NewScanner(strings.NewReader(text))
	for scanner.Scan() {
		host, _, ok := strings.Cut(scanner.Text(), ",")
		if !ok {
			continue
		}
		if host = strings.TrimSpace(host); host != "" {
			hosts = append(hosts, host)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrapf(errors.ErrInvalidResponse, "read hostsearch response: %v", err)
	}
	return hosts, nil
}
