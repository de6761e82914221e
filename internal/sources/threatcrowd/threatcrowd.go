// internal/sources/threatcrowd/threatcrowd.go
package threatcrowd

import (
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
	// DefaultURL endpoint del reporte de dominio de ThreatCrowd
	DefaultURL = "https://www.threatcrowd.org/searchApi/v2/domain/report/"

	// DefaultTimeout timeout por request de la API
	DefaultTimeout = 15 * time.Second
)

// ThreatCrowd consulta el reporte de dominio de ThreatCrowd.
type ThreatCrowd struct {
	common.HTTPSource
}

// New crea una nueva instancia de la fuente ThreatCrowd.
func New(cfg common.HTTPConfig, logger logx.Logger) *ThreatCrowd {
	return &ThreatCrowd{
		HTTPSource: common.NewHTTPSource(domain.MethodThreatCrowd, cfg, DefaultURL, DefaultTimeout, logger),
	}
}

// Discover implementa ports.Source.
func (tc *ThreatCrowd) Discover(ctx context.Context, d domain.Domain) ([]string, error) {
	ctx, cancel := tc.WithTimeout(ctx)
	defer cancel()

	u := tc.BaseURL() + "?domain=" + url.QueryEscape(d.String())
	body, err := tc.Client().FetchJSON(ctx, u)
	if err != nil {
		return nil, tc.Fail(err)
	}

	var report domainReport
	if err := json.Unmarshal(body, &report); err != nil {
		return nil, tc.Fail(errors.Wrapf(errors.ErrInvalidResponse, "decode threatcrowd report: %v", err))
	}

	return common.Collect(d, report.Subdomains), nil
}

// domainReport contiene solo los campos usados del reporte.
type domainReport struct {
	Subdomains []string `json:"subdomains"`
}
