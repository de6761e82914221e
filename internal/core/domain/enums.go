// internal/core/domain/enums.go
package domain

import (
	"strings"

	"subhound/internal/platform/errors"
)

// Method identifica un método de descubrimiento (un source adapter).
// El conjunto es cerrado y se conoce en tiempo de compilación.
type Method string

const (
	// MethodDNS resuelve una wordlist de labels comunes contra el dominio
	MethodDNS Method = "dns"

	// MethodCRT consulta logs de Certificate Transparency vía crt.sh
	MethodCRT Method = "crt"

	// MethodHackerTarget consulta la API hostsearch de HackerTarget
	MethodHackerTarget Method = "hackertarget"

	// MethodThreatCrowd consulta la API de dominios de ThreatCrowd
	MethodThreatCrowd Method = "threatcrowd"

	// MethodVirusTotal consulta el domain report de VirusTotal
	MethodVirusTotal Method = "virustotal"
)

// AllMethods lista el catálogo completo en orden estable.
var AllMethods = []Method{
	MethodDNS,
	MethodCRT,
	MethodHackerTarget,
	MethodThreatCrowd,
	MethodVirusTotal,
}

// DefaultMethods es el par rápido y sin dependencias externas de credenciales.
func DefaultMethods() []Method {
	return []Method{MethodDNS, MethodCRT}
}

// IsValid verifica si el método pertenece al catálogo.
func (m Method) IsValid() bool {
	switch m {
	case MethodDNS, MethodCRT, MethodHackerTarget, MethodThreatCrowd, MethodVirusTotal:
		return true
	default:
		return false
	}
}

// String retorna la representación string del método.
func (m Method) String() string {
	return string(m)
}

// ParseMethods convierte nombres de métodos en Methods.
// Una lista vacía devuelve DefaultMethods; los duplicados se colapsan
// conservando la primera aparición; un nombre desconocido es ErrInvalidInput.
func ParseMethods(names []string) ([]Method, error) {
	if len(names) == 0 {
		return DefaultMethods(), nil
	}

	seen := make(map[Method]bool, len(names))
	methods := make([]Method, 0, len(names))

	for _, name := range names {
		m := Method(strings.ToLower(strings.TrimSpace(name)))
		if !m.IsValid() {
			return nil, errors.InvalidInput("invalid method: %s. Valid methods: %s", name, strings.Join(MethodNames(AllMethods), ", "))
		}
		if seen[m] {
			continue
		}
		seen[m] = true
		methods = append(methods, m)
	}

	return methods, nil
}

// MethodNames convierte una lista de Methods en strings.
func MethodNames(methods []Method) []string {
	names := make([]string, len(methods))
	for i, m := range methods {
		names[i] = string(m)
	}
	return names
}

// SourceType clasifica fuentes por su tipo de implementación.
type SourceType string

const (
	// SourceTypeAPI fuentes que consumen APIs HTTP/REST
	SourceTypeAPI SourceType = "api"

	// SourceTypeBuiltin fuentes implementadas nativamente en Go (p.ej. resolución DNS)
	SourceTypeBuiltin SourceType = "builtin"
)

// MethodInfo es metadata estática de un método para endpoints de introspección.
type MethodInfo struct {
	Method       Method     `json:"method"`
	Description  string     `json:"description"`
	Type         SourceType `json:"type"`
	RequiresAuth bool       `json:"requires_auth"`
}

var catalog = map[Method]MethodInfo{
	MethodDNS: {
		Method:      MethodDNS,
		Description: "DNS enumeration using common subdomain wordlist (fast, reliable)",
		Type:        SourceTypeBuiltin,
	},
	MethodCRT: {
		Method:      MethodCRT,
		Description: "Certificate Transparency logs via crt.sh (most comprehensive)",
		Type:        SourceTypeAPI,
	},
	MethodHackerTarget: {
		Method:      MethodHackerTarget,
		Description: "HackerTarget API (good coverage, free)",
		Type:        SourceTypeAPI,
	},
	MethodThreatCrowd: {
		Method:      MethodThreatCrowd,
		Description: "ThreatCrowd API (threat intelligence data)",
		Type:        SourceTypeAPI,
	},
	MethodVirusTotal: {
		Method:       MethodVirusTotal,
		Description:  "VirusTotal API (security-focused results; requires an API key, returns nothing without one)",
		Type:         SourceTypeAPI,
		RequiresAuth: true,
	},
}

// Catalog devuelve la metadata de todos los métodos en el orden de AllMethods.
func Catalog() []MethodInfo {
	out := make([]MethodInfo, 0, len(AllMethods))
	for _, m := range AllMethods {
		out = append(out, catalog[m])
	}
	return out
}

// Info devuelve la metadata de un método.
func (m Method) Info() (MethodInfo, bool) {
	info, ok := catalog[m]
	return info, ok
}

// Recommendations agrupa combinaciones sugeridas de métodos.
func Recommendations() map[string][]Method {
	return map[string][]Method{
		"fast":          DefaultMethods(),
		"comprehensive": {MethodDNS, MethodCRT, MethodHackerTarget, MethodThreatCrowd},
		"best_single":   {MethodCRT},
	}
}
