// internal/core/domain/scan_result_test.go
package domain

import (
	"encoding/json"
	"sort"
	"testing"
	"time"

	"subhound/internal/testutil"
)

func TestNewDiscoveryReport_UnionProperty(t *testing.T) {
	d := MustParse("example.com")
	methods := []Method{MethodDNS, MethodCRT, MethodHackerTarget}
	results := []MethodResult{
		{Method: MethodDNS, Subdomains: []string{"mail.example.com", "www.example.com"}},
		{Method: MethodCRT, Subdomains: []string{"api.example.com", "www.example.com"}},
		{Method: MethodHackerTarget, Subdomains: nil, Failed: true},
	}

	report := NewDiscoveryReport("run-1", d, methods, results)

	union := map[string]bool{}
	for _, subs := range report.ResultsByMethod {
		for _, s := range subs {
			union[s] = true
		}
	}
	want := make([]string, 0, len(union))
	for s := range union {
		want = append(want, s)
	}
	sort.Strings(want)

	testutil.AssertDeepEqual(t, report.Subdomains, want, "subdomains == sorted(union(results_by_method))")
	testutil.AssertEqual(t, report.TotalFound, 3, "total")
	testutil.AssertDeepEqual(t, report.MethodsUsed, []string{"dns", "crt", "hackertarget"}, "methods used")
	testutil.AssertDeepEqual(t, report.ResultsByMethod["hackertarget"], []string{}, "failed method is an empty list")
	testutil.AssertEqual(t, len(report.Results()), 3, "results kept")
}

func TestNewDiscoveryReport_MissingResultIsEmpty(t *testing.T) {
	report := NewDiscoveryReport("run-2", MustParse("example.com"), []Method{MethodDNS, MethodCRT}, nil)

	testutil.AssertDeepEqual(t, report.ResultsByMethod["dns"], []string{}, "dns empty")
	testutil.AssertDeepEqual(t, report.ResultsByMethod["crt"], []string{}, "crt empty")
	testutil.AssertDeepEqual(t, report.Subdomains, []string{}, "no subdomains")
}

func TestDiscoveryReport_JSONShape(t *testing.T) {
	report := NewDiscoveryReport("run-3", MustParse("example.com"), []Method{MethodDNS},
		[]MethodResult{{Method: MethodDNS, Subdomains: []string{"www.example.com"}}})
	report.Finalize(time.Now())

	data, err := json.Marshal(report)
	testutil.AssertNoError(t, err, "marshal")

	var decoded map[string]interface{}
	testutil.AssertNoError(t, json.Unmarshal(data, &decoded), "unmarshal")

	for _, key := range []string{"domain", "subdomains", "total_found", "methods_used", "results_by_method"} {
		_, ok := decoded[key]
		testutil.AssertTrue(t, ok, "json key "+key)
	}
	testutil.AssertEqual(t, len(decoded), 5, "no extra keys")
}
