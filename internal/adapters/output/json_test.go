// internal/adapters/output/json_test.go
package output

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"subhound/internal/core/domain"
)

func newTestReport(t *testing.T) *domain.DiscoveryReport {
	t.Helper()
	d := domain.MustParse("example.com")
	methods := []domain.Method{domain.MethodDNS, domain.MethodCRT}
	results := []domain.MethodResult{
		{Method: domain.MethodDNS, Subdomains: []string{"www.example.com"}},
		{Method: domain.MethodCRT, Subdomains: []string{"api.example.com", "www.example.com"}},
	}
	report := domain.NewDiscoveryReport("run-1", d, methods, results)
	report.Finalize(time.Now())
	return report
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, newTestReport(t), false); err != nil {
		t.Fatalf("WriteJSON() failed: %v", err)
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("failed to decode JSON: %v", err)
	}

	if len(decoded) != 5 {
		t.Errorf("expected 5 keys, got %d: %v", len(decoded), decoded)
	}
	if decoded["domain"] != "example.com" {
		t.Errorf("domain: expected example.com, got %v", decoded["domain"])
	}
	if decoded["total_found"] != float64(2) {
		t.Errorf("total_found: expected 2, got %v", decoded["total_found"])
	}
	if strings.Contains(buf.String(), "run-1") {
		t.Error("run id must not be serialized")
	}
	if strings.Contains(buf.String(), "\n  ") {
		t.Error("compact output should not be indented")
	}
}

func TestOutputJSON(t *testing.T) {
	tmpDir := t.TempDir()

	path, err := OutputJSON(tmpDir, newTestReport(t))
	if err != nil {
		t.Fatalf("OutputJSON() failed: %v", err)
	}

	domainDir := filepath.Join(tmpDir, "example_com")
	if filepath.Dir(path) != domainDir {
		t.Errorf("file should live in %q, got %q", domainDir, path)
	}

	filename := filepath.Base(path)
	if !strings.HasPrefix(filename, "subhound_example.com_") {
		t.Errorf("filename should start with 'subhound_example.com_', got %q", filename)
	}
	if !strings.HasSuffix(filename, ".json") {
		t.Errorf("filename should end with '.json', got %q", filename)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read output file: %v", err)
	}

	var decoded domain.DiscoveryReport
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("failed to decode JSON: %v", err)
	}
	if decoded.Domain != "example.com" {
		t.Errorf("Domain: expected %q, got %q", "example.com", decoded.Domain)
	}
	if len(decoded.Subdomains) != 2 {
		t.Errorf("Subdomains: expected 2, got %d", len(decoded.Subdomains))
	}
	if !strings.Contains(string(data), "\n  ") {
		t.Error("JSON file should be pretty-printed with indentation")
	}
}

func TestOutputJSON_CreatesDirectory(t *testing.T) {
	outputDir := filepath.Join(t.TempDir(), "nested", "output", "dir")

	if _, err := OutputJSON(outputDir, newTestReport(t)); err != nil {
		t.Fatalf("OutputJSON() failed to create nested directory: %v", err)
	}

	files, err := os.ReadDir(filepath.Join(outputDir, "example_com"))
	if err != nil {
		t.Fatalf("failed to read output dir: %v", err)
	}
	if len(files) != 1 {
		t.Errorf("expected 1 file, got %d", len(files))
	}
}

func TestOutputJSON_InvalidDirectory(t *testing.T) {
	invalidPath := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(invalidPath, []byte("test"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	if _, err := OutputJSON(filepath.Join(invalidPath, "subdir"), newTestReport(t)); err == nil {
		t.Error("OutputJSON() should fail with invalid directory path")
	}
}

func TestOutputJSON_TimestampFormat(t *testing.T) {
	path, err := OutputJSON(t.TempDir(), newTestReport(t))
	if err != nil {
		t.Fatalf("OutputJSON() failed: %v", err)
	}

	// subhound_example.com_20060102_150405.json
	name := strings.TrimSuffix(filepath.Base(path), ".json")
	stamp := strings.TrimPrefix(name, "subhound_example.com_")
	if _, err := time.Parse("20060102_150405", stamp); err != nil {
		t.Errorf("timestamp format is invalid: %q, error: %v", stamp, err)
	}
}

func TestSanitizeDomainName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"example.com", "example_com"},
		{"sub.example.co.uk", "sub_example_co_uk"},
		{"xn--bcher-kva.example", "xn--bcher-kva_example"},
		{"weird/name", "weird_name"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := sanitizeDomainName(tt.input); got != tt.expected {
				t.Errorf("sanitizeDomainName(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}
