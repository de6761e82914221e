// internal/core/domain/scan_result.go
package domain

import (
	"time"
)

// MethodResult asocia un método con los subdominios que produjo, ordenados y
// sin duplicados. Un método que falló o expiró tiene Subdomains vacío.
type MethodResult struct {
	Method     Method
	Subdomains []string

	// Failed indica que el adapter reportó un SourceError; no se serializa.
	Failed bool

	// Duration tiempo que tardó el adapter
	Duration time.Duration
}

// DiscoveryReport es el único artefacto visible de una ejecución.
// Se construye de nuevo en cada request y nunca se persiste.
type DiscoveryReport struct {
	// ID identificador de la ejecución (para correlación de logs)
	ID string `json:"-"`

	Domain          string              `json:"domain"`
	Subdomains      []string            `json:"subdomains"`
	TotalFound      int                 `json:"total_found"`
	MethodsUsed     []string            `json:"methods_used"`
	ResultsByMethod map[string][]string `json:"results_by_method"`

	// StartTime / Duration metadata de la ejecución; no forman parte del contrato JSON.
	StartTime time.Time     `json:"-"`
	Duration  time.Duration `json:"-"`

	results []MethodResult
}

// NewDiscoveryReport construye el reporte a partir de los resultados por método.
// La unión es la unión de todos los MethodResult, ordenada y deduplicada.
func NewDiscoveryReport(id string, d Domain, methods []Method, results []MethodResult) *DiscoveryReport {
	union := NewSubdomainSet(d)
	byMethod := make(map[string][]string, len(methods))

	// Todos los métodos pedidos aparecen aunque no tengan resultado.
	for _, m := range methods {
		byMethod[string(m)] = []string{}
	}

	for _, r := range results {
		subs := r.Subdomains
		if subs == nil {
			subs = []string{}
		}
		byMethod[string(r.Method)] = subs
		union.AddAll(subs)
	}

	subdomains := union.Sorted()

	return &DiscoveryReport{
		ID:              id,
		Domain:          d.String(),
		Subdomains:      subdomains,
		TotalFound:      len(subdomains),
		MethodsUsed:     MethodNames(methods),
		ResultsByMethod: byMethod,
		results:         results,
	}
}

// Results devuelve los MethodResult en el orden de despacho.
func (r *DiscoveryReport) Results() []MethodResult {
	return r.results
}

// Finalize registra la duración total de la ejecución.
func (r *DiscoveryReport) Finalize(start time.Time) {
	r.StartTime = start
	r.Duration = time.Since(start)
}
