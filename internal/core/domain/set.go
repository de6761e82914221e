// internal/core/domain/set.go
package domain

import (
	"sort"

	mapset "github.com/deckarep/golang-set/v2"

	"subhound/internal/platform/validator"
)

// SubdomainSet acumula hostnames aceptados por un Domain.
// Es seguro para inserciones concurrentes: ningún Add se pierde y el
// contenido final no depende del orden de llegada.
type SubdomainSet struct {
	domain Domain
	set    mapset.Set[string]
}

// NewSubdomainSet crea un set vacío ligado a d.
func NewSubdomainSet(d Domain) *SubdomainSet {
	return &SubdomainSet{
		domain: d,
		set:    mapset.NewSet[string](),
	}
}

// Add normaliza host y lo inserta si d lo acepta. Devuelve true si se insertó
// un valor nuevo.
func (s *SubdomainSet) Add(host string) bool {
	host = validator.NormalizeHost(host)
	if !s.domain.Accepts(host) {
		return false
	}
	return s.set.Add(host)
}

// AddAll inserta cada host y devuelve cuántos fueron nuevos.
func (s *SubdomainSet) AddAll(hosts []string) int {
	added := 0
	for _, h := range hosts {
		if s.Add(h) {
			added++
		}
	}
	return added
}

// Merge une other dentro de s.
func (s *SubdomainSet) Merge(other *SubdomainSet) {
	if other == nil {
		return
	}
	s.AddAll(other.set.ToSlice())
}

// Len devuelve el número de subdominios distintos.
func (s *SubdomainSet) Len() int {
	return s.set.Cardinality()
}

// Contains reporta si host (ya normalizado) está en el set.
func (s *SubdomainSet) Contains(host string) bool {
	return s.set.Contains(host)
}

// Sorted devuelve los subdominios en orden lexicográfico. Nunca devuelve nil.
func (s *SubdomainSet) Sorted() []string {
	out := s.set.ToSlice()
	if out == nil {
		out = []string{}
	}
	sort.Strings(out)
	return out
}
