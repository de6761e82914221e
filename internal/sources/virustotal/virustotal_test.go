// internal/sources/virustotal/virustotal_test.go
package virustotal

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"subhound/internal/core/domain"
	"subhound/internal/core/ports"
	"subhound/internal/platform/errors"
	"subhound/internal/platform/logx"
	"subhound/internal/sources/common"
	"subhound/internal/testutil"
)

func TestVirusTotal_Discover(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		testutil.AssertEqual(t, r.URL.Query().Get("apikey"), "k", "api key parameter")
		testutil.AssertEqual(t, r.URL.Query().Get("domain"), "example.com", "domain parameter")
		_, _ = w.Write([]byte(`{"response_code":1,"subdomains":["www.example.com","other.org","example.com","api.example.com"]}`))
	}))
	defer server.Close()

	v := New(common.HTTPConfig{BaseURL: server.URL}, "k", logx.NewSilent())

	got, err := v.Discover(context.Background(), domain.MustParse("example.com"))
	testutil.AssertNoError(t, err, "discover")
	testutil.AssertDeepEqual(t, got, []string{"api.example.com", "www.example.com"}, "only subdomains of the target")
}

func TestVirusTotal_NoAPIKey(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer server.Close()

	v := New(common.HTTPConfig{BaseURL: server.URL}, "", logx.NewSilent())

	got, err := v.Discover(context.Background(), domain.MustParse("example.com"))
	testutil.AssertTrue(t, got == nil, "no results")

	var srcErr *ports.SourceError
	testutil.AssertTrue(t, errors.As(err, &srcErr), "should be a SourceError")
	testutil.AssertEqual(t, srcErr.Reason(), "unauthorized", "reason")
	testutil.AssertEqual(t, calls.Load(), int32(0), "no request without a key")
}

func TestVirusTotal_QuotaExceeded(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	v := New(common.HTTPConfig{BaseURL: server.URL}, "k", logx.NewSilent())

	_, err := v.Discover(context.Background(), domain.MustParse("example.com"))
	testutil.AssertTrue(t, errors.Is(err, errors.ErrRateLimit), "204 means quota exceeded")
}

func TestVirusTotal_Forbidden(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	v := New(common.HTTPConfig{BaseURL: server.URL}, "bad", logx.NewSilent())

	_, err := v.Discover(context.Background(), domain.MustParse("example.com"))
	testutil.AssertTrue(t, errors.Is(err, errors.ErrUnauthorized), "invalid key")
}
