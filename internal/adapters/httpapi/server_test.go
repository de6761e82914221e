// internal/adapters/httpapi/server_test.go
package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"subhound/internal/core/domain"
	"subhound/internal/platform/errors"
	"subhound/internal/platform/logx"
	"subhound/internal/testutil"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stubDiscoverer devuelve un reporte fijo o un error.
type stubDiscoverer struct {
	err     error
	panics  bool
	gotDom  string
	gotMeth []string
}

func (s *stubDiscoverer) Discover(_ context.Context, rawDomain string, rawMethods []string) (*domain.DiscoveryReport, error) {
	s.gotDom = rawDomain
	s.gotMeth = rawMethods
	if s.panics {
		panic("boom")
	}
	if s.err != nil {
		return nil, s.err
	}

	d, err := domain.Parse(rawDomain)
	if err != nil {
		return nil, err
	}
	methods, err := domain.ParseMethods(rawMethods)
	if err != nil {
		return nil, err
	}
	results := []domain.MethodResult{{Method: methods[0], Subdomains: []string{d.Join("www")}}}
	return domain.NewDiscoveryReport("run-42", d, methods, results), nil
}

func newTestServer(disc Discoverer, metrics http.Handler) *Server {
	return New(Options{
		Discoverer: disc,
		Logger:     logx.NewSilent(),
		Version:    "1.2.3",
		Metrics:    metrics,
	})
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON body %q: %v", rec.Body.String(), err)
	}
	return out
}

func TestRoot(t *testing.T) {
	rec := do(t, newTestServer(&stubDiscoverer{}, nil), http.MethodGet, "/", "")
	testutil.AssertEqual(t, rec.Code, http.StatusOK, "status")

	body := decode(t, rec)
	testutil.AssertEqual(t, body["version"], "1.2.3", "version")
	testutil.AssertLen(t, toStrings(body["available_methods"]), len(domain.AllMethods), "methods listed")

	endpoints, ok := body["endpoints"].(map[string]interface{})
	testutil.AssertTrue(t, ok, "endpoints object")
	testutil.AssertEqual(t, endpoints["discover"], "/discover", "discover endpoint")
}

func TestMethods(t *testing.T) {
	rec := do(t, newTestServer(&stubDiscoverer{}, nil), http.MethodGet, "/methods", "")
	testutil.AssertEqual(t, rec.Code, http.StatusOK, "status")

	body := decode(t, rec)
	available := body["available_methods"].(map[string]interface{})
	testutil.AssertEqual(t, len(available), 5, "five methods")
	testutil.AssertContains(t, available["crt"], "Certificate Transparency", "crt description")
	testutil.AssertContains(t, available["virustotal"], "requires an API key", "virustotal key requirement")

	recs := body["recommendations"].(map[string]interface{})
	testutil.AssertDeepEqual(t, toStrings(recs["fast"]), []string{"dns", "crt"}, "fast")
	testutil.AssertDeepEqual(t, toStrings(recs["best_single"]), []string{"crt"}, "best single")
}

func TestHealth(t *testing.T) {
	rec := do(t, newTestServer(&stubDiscoverer{}, nil), http.MethodGet, "/health", "")
	testutil.AssertEqual(t, rec.Code, http.StatusOK, "status")
	body := decode(t, rec)
	testutil.AssertEqual(t, body["status"], "healthy", "healthy")
	testutil.AssertEqual(t, body["service"], ServiceName, "service name")
}

func TestDiscover_OK(t *testing.T) {
	disc := &stubDiscoverer{}
	rec := do(t, newTestServer(disc, nil), http.MethodPost, "/discover", `{"domain":"Example.com","methods":["dns"]}`)

	testutil.AssertEqual(t, rec.Code, http.StatusOK, "status")
	testutil.AssertEqual(t, rec.Header().Get(DiscoveryIDHeader), "run-42", "discovery id header")
	testutil.AssertEqual(t, disc.gotDom, "Example.com", "raw domain forwarded")
	testutil.AssertDeepEqual(t, disc.gotMeth, []string{"dns"}, "methods forwarded")

	body := decode(t, rec)
	testutil.AssertEqual(t, len(body), 5, "exactly five keys")
	testutil.AssertEqual(t, body["domain"], "example.com", "domain")
	testutil.AssertEqual(t, body["total_found"], float64(1), "total")
	testutil.AssertDeepEqual(t, toStrings(body["subdomains"]), []string{"www.example.com"}, "subdomains")
}

func TestDiscover_MethodsOmitted(t *testing.T) {
	disc := &stubDiscoverer{}
	rec := do(t, newTestServer(disc, nil), http.MethodPost, "/discover", `{"domain":"example.com"}`)

	testutil.AssertEqual(t, rec.Code, http.StatusOK, "status")
	testutil.AssertTrue(t, disc.gotMeth == nil, "absent methods forwarded as nil")
	testutil.AssertDeepEqual(t, toStrings(decode(t, rec)["methods_used"]), []string{"dns", "crt"}, "defaults used")
}

func TestDiscover_InvalidInput(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed domain", `{"domain":"not_a_domain!"}`},
		{"unknown method", `{"domain":"example.com","methods":["bogus"]}`},
		{"broken json", `{"domain":`},
	}

	s := newTestServer(&stubDiscoverer{}, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodPost, "/discover", tt.body)
			testutil.AssertEqual(t, rec.Code, http.StatusBadRequest, "status")
			_, ok := decode(t, rec)["detail"]
			testutil.AssertTrue(t, ok, "detail present")
		})
	}
}

func TestDiscover_InternalError(t *testing.T) {
	disc := &stubDiscoverer{err: errors.Internal("no adapter configured for method %q", "dns")}
	rec := do(t, newTestServer(disc, nil), http.MethodPost, "/discover", `{"domain":"example.com"}`)

	testutil.AssertEqual(t, rec.Code, http.StatusInternalServerError, "status")
	testutil.AssertEqual(t, decode(t, rec)["detail"], "internal server error", "generic body")
	testutil.AssertFalse(t, strings.Contains(rec.Body.String(), "adapter"), "internals not leaked")
}

func TestDiscover_PanicRecovered(t *testing.T) {
	rec := do(t, newTestServer(&stubDiscoverer{panics: true}, nil), http.MethodPost, "/discover", `{"domain":"example.com"}`)

	testutil.AssertEqual(t, rec.Code, http.StatusInternalServerError, "status")
	testutil.AssertEqual(t, decode(t, rec)["detail"], "internal server error", "generic body")
}

func TestMetricsRoute(t *testing.T) {
	metrics := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("subhound_discovery_runs_total 0\n"))
	})

	rec := do(t, newTestServer(&stubDiscoverer{}, metrics), http.MethodGet, "/metrics", "")
	testutil.AssertEqual(t, rec.Code, http.StatusOK, "status")
	testutil.AssertContains(t, rec.Body.String(), "subhound_discovery_runs_total", "metrics body")

	rec = do(t, newTestServer(&stubDiscoverer{}, nil), http.MethodGet, "/metrics", "")
	testutil.AssertEqual(t, rec.Code, http.StatusNotFound, "no metrics route without handler")
}

func toStrings(v interface{}) []string {
	items, _ := v.([]interface{})
	out := make([]string, 0, len(items))
	for _, it := range items {
		s, _ := it.(string)
		out = append(out, s)
	}
	return out
}
