// internal/adapters/output/table.go
package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/pterm/pterm"

	"subhound/internal/core/domain"
)

// WriteTable imprime un resumen legible del reporte en w.
func WriteTable(w io.Writer, report *domain.DiscoveryReport) error {
	fmt.Fprintf(w, "\n=== SubHound Discovery Results ===\n")
	fmt.Fprintf(w, "Domain:      %s\n", report.Domain)
	fmt.Fprintf(w, "Methods:     %s\n", strings.Join(report.MethodsUsed, ", "))
	if report.Duration > 0 {
		fmt.Fprintf(w, "Duration:    %s\n", report.Duration.Round(time.Millisecond))
	}
	fmt.Fprintf(w, "Total found: %d\n\n", report.TotalFound)

	// Resumen por método, en orden de despacho
	data := pterm.TableData{{"METHOD", "FOUND", "STATUS"}}
	for _, r := range report.Results() {
		status := "ok"
		if r.Failed {
			status = "failed"
		}
		data = append(data, []string{r.Method.String(), fmt.Sprintf("%d", len(r.Subdomains)), status})
	}
	if len(data) == 1 {
		for _, m := range report.MethodsUsed {
			data = append(data, []string{m, fmt.Sprintf("%d", len(report.ResultsByMethod[m])), "ok"})
		}
	}

	table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}
	fmt.Fprintln(w, table)

	if report.TotalFound == 0 {
		fmt.Fprintln(w, "\nNo subdomains discovered.")
		fmt.Fprintln(w)
		return nil
	}

	fmt.Fprintln(w, "\nSubdomains:")
	for _, s := range report.Subdomains {
		fmt.Fprintf(w, "  %s\n", s)
	}
	fmt.Fprintln(w)

	return nil
}

// OutputTable imprime el reporte en stdout.
func OutputTable(report *domain.DiscoveryReport) error {
	return WriteTable(os.Stdout, report)
}
