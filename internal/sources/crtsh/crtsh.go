// internal/sources/crtsh/crtsh.go
package crtsh

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"time"

	"subhound/internal/core/domain"
	"subhound/internal/platform/errors"
	"subhound/internal/platform/logx"
	"subhound/internal/sources/common"
)

const (
	// DefaultURL endpoint público de crt.sh
	DefaultURL = "https://crt.sh"

	// DefaultTimeout crt.sh es lento con dominios grandes
	DefaultTimeout = 30 * time.Second
)

// CRT consulta los logs de Certificate Transparency indexados por crt.sh
// y extrae los nombres presentes en los certificados emitidos.
type CRT struct {
	common.HTTPSource
}

// New crea una nueva instancia de la fuente crt.sh.
func New(cfg common.HTTPConfig, logger logx.Logger) *CRT {
	return &CRT{
		HTTPSource: common.NewHTTPSource(domain.MethodCRT, cfg, DefaultURL, DefaultTimeout, logger),
	}
}

// Discover implementa ports.Source. Consulta dos variantes (%.domain y domain),
// cada una con su propio timeout; una variante que falla o expira no aporta
// nada y no impide la siguiente.
func (c *CRT) Discover(ctx context.Context, d domain.Domain) ([]string, error) {
	set := domain.NewSubdomainSet(d)
	var lastErr error
	failed := 0

	variants := c.queries(d)
	for _, q := range variants {
		if ctx.Err() != nil {
			lastErr = ctx.Err()
			failed++
			continue
		}

		vctx, cancel := c.WithTimeout(ctx)
		names, err := c.fetch(vctx, q)
		cancel()
		if err != nil {
			c.Logger().Debug("crt.sh variant failed", "query", q, "error", err.Error())
			lastErr = err
			failed++
			continue
		}
		set.AddAll(names)
	}

	if failed == len(variants) {
		return nil, c.Fail(lastErr)
	}

	c.Logger().Debug("crt.sh query completed", "domain", d.String(), "subdomains", set.Len())
	return set.Sorted(), nil
}

// queries devuelve las URLs de las dos variantes de búsqueda.
func (c *CRT) queries(d domain.Domain) []string {
	return []string{
		fmt.Sprintf("%s/?q=%s&output=json", strings.TrimSuffix(c.BaseURL(), "/"), url.QueryEscape("%."+d.String())),
		fmt.Sprintf("%s/?q=%s&output=json", strings.TrimSuffix(c.BaseURL(), "/"), url.QueryEscape(d.String())),
	}
}

// fetch ejecuta una variante y devuelve los nombres crudos de todos los certificados.
func (c *CRT) fetch(ctx context.Context, u string) ([]string, error) {
	body, err := c.Client().FetchJSON(ctx, u)
	if err != nil {
		return nil, err
	}
	return parseRecords(body)
}

// parseRecords decodifica la respuesta JSON de crt.sh. Un body vacío equivale a
// cero registros; cualquier otra cosa que no sea un array JSON es inválida.
func parseRecords(body []byte) ([]string, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return nil, nil
	}

	var records []certRecord
	if err := json.Unmarshal(body, &records); err != nil {
		// crt.sh devuelve HTML cuando está saturado
		return nil, errors.Wrapf(errors.ErrInvalidResponse, "decode crt.sh response: %v", err)
	}

	var names []string
	for _, r := range records {
		// name_value puede contener múltiples dominios separados por \n
		for _, host := range strings.Split(r.NameValue, "\n") {
			if host = strings.TrimSpace(host); host != "" {
				names = append(names, host)
			}
		}
	}
	return names, nil
}

// certRecord representa un registro de certificado de crt.sh.
type certRecord struct {
	IssuerName   string `json:"issuer_name"`
	NameValue    string `json:"name_value"`
	NotAfter     string `json:"not_after"`
	NotBefore    string `json:"not_before"`
	SerialNumber string `json:"serial_number"`
}
