// internal/platform/validator/validator.go
package validator

import (
	"net"
	"regexp"
	"strings"
)

const (
	// MaxDomainLength es la longitud máxima de un nombre DNS completo.
	MaxDomainLength = 253

	// MaxLabelLength es la longitud máxima de cada label.
	MaxLabelLength = 63
)

var (
	labelRegex   = regexp.MustCompile(`^[a-zA-Z0-9]([a-zA-Z0-9\-]{0,61}[a-zA-Z0-9])?$`)
	charsetRegex = regexp.MustCompile(`^[a-zA-Z0-9.\-]+$`)
)

// Domain validators

// IsDomain verifica si un string es un nombre DNS sintácticamente válido:
// labels de 1-63 caracteres alfanuméricos o guiones, sin guion al inicio o
// al final, separados por puntos, sin punto inicial/final y sin wildcard.
// Las direcciones IP literales no se aceptan.
func IsDomain(domain string) bool {
	if len(domain) == 0 || len(domain) > MaxDomainLength {
		return false
	}

	if !charsetRegex.MatchString(domain) {
		return false
	}

	for _, label := range strings.Split(domain, ".") {
		if !IsLabel(label) {
			return false
		}
	}

	if net.ParseIP(domain) != nil {
		return false
	}

	return true
}

// IsLabel verifica un único label DNS.
func IsLabel(label string) bool {
	if len(label) == 0 || len(label) > MaxLabelLength {
		return false
	}
	return labelRegex.MatchString(label)
}

// IsSubdomain verifica si subdomain es un subdominio estricto de baseDomain.
func IsSubdomain(subdomain, baseDomain string) bool {
	subdomain = strings.ToLower(strings.TrimSpace(subdomain))
	baseDomain = strings.ToLower(strings.TrimSpace(baseDomain))

	if subdomain == baseDomain || baseDomain == "" {
		return false
	}

	return strings.HasSuffix(subdomain, "."+baseDomain)
}

// NormalizeDomain normaliza un dominio a su forma canónica (trim + lowercase).
// No elimina prefijos: "www.example.com" sigue siendo un host distinto de "example.com".
func NormalizeDomain(domain string) string {
	return strings.ToLower(strings.TrimSpace(domain))
}

// NormalizeHost limpia un hostname devuelto por una fuente externa:
// trim, lowercase y sin punto final (forma FQDN absoluta de DNS).
func NormalizeHost(host string) string {
	host = NormalizeDomain(host)
	return strings.TrimSuffix(host, ".")
}

// Generic validators

// IsEmpty verifica si un string está vacío o solo contiene espacios.
func IsEmpty(s string) bool {
	return len(strings.TrimSpace(s)) == 0
}
