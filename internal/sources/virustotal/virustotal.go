// internal/sources/virustotal/virustotal.go
package virustotal

import (
	"bytes"
	"context"
	"encoding/json"
	"net/url"
	"time"

	"subhound/internal/core/domain"
	"subhound/internal/platform/errors"
	"subhound/internal/platform/logx"
	"subhound/internal/sources/common"
)

const (
	// DefaultURL endpoint del domain report v2 de VirusTotal
	DefaultURL = "https://www.virustotal.com/vtapi/v2/domain/report"

	// DefaultTimeout timeout por request de la API
	DefaultTimeout = 15 * time.Second
)

// VirusTotal consulta el domain report v2 de VirusTotal. Requiere API key.
type VirusTotal struct {
	common.HTTPSource
	apiKey string
}

// New crea una nueva instancia de la fuente VirusTotal.
func New(cfg common.HTTPConfig, apiKey string, logger logx.Logger) *VirusTotal {
	return &VirusTotal{
		HTTPSource: common.NewHTTPSource(domain.MethodVirusTotal, cfg, DefaultURL, DefaultTimeout, logger),
		apiKey:     apiKey,
	}
}

// Discover implementa ports.Source. Sin API key falla sin hacer la petición.
func (v *VirusTotal) Discover(ctx context.Context, d domain.Domain) ([]string, error) {
	if v.apiKey == "" {
		return nil, v.Fail(errors.Wrap(errors.ErrUnauthorized, "virustotal api key not configured"))
	}

	ctx, cancel := v.WithTimeout(ctx)
	defer cancel()

	params := url.Values{}
	params.Set("apikey", v.apiKey)
	params.Set("domain", d.String())

	body, err := v.Client().FetchJSON(ctx, v.BaseURL()+"?"+params.Encode())
	if err != nil {
		return nil, v.Fail(err)
	}

	// La API v2 responde 204 sin body cuando se agota la cuota.
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, v.Fail(errors.Wrap(errors.ErrRateLimit, "empty virustotal response"))
	}

	var report domainReport
	if err := json.Unmarshal(body, &report); err != nil {
		return nil, v.Fail(errors.Wrapf(errors.ErrInvalidResponse, "decode virustotal report: %v", err))
	}

	return common.Collect(d, report.Subdomains), nil
}

type domainReport struct {
	Subdomains []string `json:"subdomains"`
}
