// internal/core/domain/target.go
package domain

import (
	"strings"

	"golang.org/x/net/publicsuffix"

	"subhound/internal/platform/errors"
	"subhound/internal/platform/validator"
)

// Domain es un nombre DNS validado y en minúsculas. Solo se construye con Parse,
// por lo que un Domain distinto del valor cero siempre cumple la sintaxis.
type Domain struct {
	name string
}

// Parse valida raw y devuelve el Domain normalizado.
// Los errores envuelven errors.ErrInvalidInput.
func Parse(raw string) (Domain, error) {
	name := validator.NormalizeDomain(raw)

	if name == "" {
		return Domain{}, errors.InvalidInput("domain cannot be empty")
	}
	if !validator.IsDomain(name) {
		return Domain{}, errors.InvalidInput("invalid domain format %q", raw)
	}

	return Domain{name: name}, nil
}

// MustParse es Parse para constantes en tests; hace panic si raw no es válido.
func MustParse(raw string) Domain {
	d, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return d
}

// String devuelve el nombre normalizado.
func (d Domain) String() string {
	return d.name
}

// IsZero reporta si d no fue construido con Parse.
func (d Domain) IsZero() bool {
	return d.name == ""
}

// Join construye el FQDN label.domain.
func (d Domain) Join(label string) string {
	return label + "." + d.name
}

// Accepts reporta si host es un subdominio aceptable de d: termina en ".d",
// no contiene wildcard y no es d mismo. host debe venir ya normalizado.
func (d Domain) Accepts(host string) bool {
	if d.IsZero() || host == "" || host == d.name {
		return false
	}
	if strings.Contains(host, "*") {
		return false
	}
	if strings.Count(host, ".") < 1 {
		return false
	}
	return strings.HasSuffix(host, "."+d.name)
}

// IsPublicSuffix reporta si d es en sí mismo un sufijo público (p.ej. "co.uk"),
// en cuyo caso los resultados pertenecen a terceros no relacionados.
func (d Domain) IsPublicSuffix() bool {
	if d.IsZero() {
		return false
	}
	suffix, _ := publicsuffix.PublicSuffix(d.name)
	return suffix == d.name
}

// Apex devuelve el dominio registrable (eTLD+1) que contiene a d.
func (d Domain) Apex() (string, error) {
	apex, err := publicsuffix.EffectiveTLDPlusOne(d.name)
	if err != nil {
		return "", errors.Wrapf(errors.ErrInvalidInput, "no registrable domain for %s", d.name)
	}
	return apex, nil
}
