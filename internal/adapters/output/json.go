// internal/adapters/output/json.go
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"subhound/internal/core/domain"
)

// sanitizeDomainName convierte un nombre de dominio en un nombre de carpeta válido.
// Ejemplo: "example.com" -> "example_com"
func sanitizeDomainName(domain string) string {
	sanitized := strings.ReplaceAll(domain, ".", "_")
	sanitized = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_' || r == '-' {
			return r
		}
		return '_'
	}, sanitized)
	return sanitized
}

// WriteJSON codifica el reporte en w con las cinco claves del contrato.
func WriteJSON(w io.Writer, report *domain.DiscoveryReport, pretty bool) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// OutputJSON escribe el reporte en dir/<dominio>/subhound_<dominio>_<timestamp>.json
// y devuelve la ruta del archivo creado.
func OutputJSON(dir string, report *domain.DiscoveryReport) (string, error) {
	if dir == "" {
		dir = "."
	}

	fullDir := filepath.Join(dir, sanitizeDomainName(report.Domain))
	if err := os.MkdirAll(fullDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	stamp := report.StartTime
	if stamp.IsZero() {
		stamp = time.Now()
	}
	filename := fmt.Sprintf("subhound_%s_%s.json", report.Domain, stamp.Format("20060102_150405"))
	path := filepath.Join(fullDir, filename)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	if err := WriteJSON(f, report, true); err != nil {
		return "", err
	}

	return path, nil
}

// OutputJSONStdout exporta el reporte a stdout.
func OutputJSONStdout(report *domain.DiscoveryReport, pretty bool) error {
	return WriteJSON(os.Stdout, report, pretty)
}
