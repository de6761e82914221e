// internal/platform/config/help.go
package config

import (
	"fmt"
	"io"
	"runtime"
)

const helpText = `
subhound - Concurrent multi-source subdomain discovery

USAGE:
  subhound -t <domain> [options]
  subhound --serve [--listen :8000]

IMPORTANT:
  Use double dash (--) for long flag names: --target, --methods, --workers
  Use single dash (-) for short flags: -t, -m, -w

CORE OPTIONS:
  -t, --target string        Target domain (e.g., example.com)
  -m, --methods strings      Discovery methods, comma separated (default: dns,crt)
                             Available: dns, crt, hackertarget, threatcrowd, virustotal
  -T, --timeout int          Per-run timeout in seconds, 0=no timeout (default: 90)
  -c, --config string        YAML configuration file

DNS OPTIONS:
  -w, --workers int          Concurrent DNS probes (default: 50)
  --dns.timeout duration     Per-probe timeout (default: 2s)
  --dns.resolvers strings    Resolvers as host:port (default: system resolv.conf)
  --dns.wordlist string      Extra labels file, one per line, # comments

SOURCE OPTIONS:
  --src.crt.timeout duration           crt.sh timeout (default: 30s)
  --src.hackertarget.timeout duration  HackerTarget timeout (default: 15s)
  --src.threatcrowd.timeout duration   ThreatCrowd timeout (default: 15s)
  --src.virustotal.timeout duration    VirusTotal timeout (default: 15s)
  --src.virustotal.key string          VirusTotal API key (required for virustotal)
  --user-agent string                  User-Agent for HTTP sources

SERVICE OPTIONS:
  -s, --serve                Run the HTTP service instead of a one-shot discovery
  -l, --listen string        Listen address (default: ":8000")

OUTPUT OPTIONS:
  -o, --out string           Directory where the JSON report is written (optional)
  -j, --json                 Print the report as JSON instead of a table
  -q, --quiet                No banner or table output

NETWORK OPTIONS:
  -p, --proxy string         HTTP(S) proxy URL for outbound requests (optional)
  --circuit-breaker          Skip HTTP sources that keep failing across requests (default: false)

LOGGING:
  --log-level string         debug, info, warn, error (default: info)
  --log-format string        text, json (default: text)

INFO:
  -v, --version              Print version information and exit
  -h, --help                 Show this help message

EXAMPLES:
  Default methods (dns + crt):
    subhound -t example.com

  Comprehensive passive run:
    subhound -t example.com -m dns,crt,hackertarget,threatcrowd

  JSON report to stdout and disk:
    subhound -t example.com -j -o reports

  HTTP service:
    subhound --serve --listen :8080

ENVIRONMENT VARIABLES:
  Most flags can be set via environment variables with SUBHOUND_ prefix:
  SUBHOUND_TARGET                   Target domain
  SUBHOUND_METHODS=dns,crt          Discovery methods
  SUBHOUND_TIMEOUT=60               Timeout in seconds
  SUBHOUND_DNS_WORKERS=100          Concurrent DNS probes
  SUBHOUND_DNS_TIMEOUT=2s           Per-probe timeout
  SUBHOUND_DNS_RESOLVERS=1.1.1.1:53 Resolvers
  SUBHOUND_SERVE=true               Run the HTTP service
  SUBHOUND_ADDR=:8000               Listen address
  SUBHOUND_OUTPUT_DIR=/path         Output directory
  SUBHOUND_PROXY_URL=http://...     Proxy URL
  SUBHOUND_CIRCUIT_BREAKER=true     Enable the source circuit breaker
  SUBHOUND_CB_THRESHOLD=5           Consecutive failures that open it
  SUBHOUND_CB_COOLDOWN=60s          Time open before a probe call
  SUBHOUND_LOG_LEVEL=debug          Log level

  Source-specific (replace CRT with source name):
  SUBHOUND_SOURCES_CRT_TIMEOUT=45s
  SUBHOUND_SOURCES_CRT_RETRIES=1
  SUBHOUND_SOURCES_CRT_RATELIMIT=2
  SUBHOUND_SOURCES_CRT_URL=https://crt.sh
  SUBHOUND_SOURCES_VIRUSTOTAL_APIKEY=...

  Note: CLI flags override environment variables, which override the config file.
`

// PrintHelp writes the help message to w.
func PrintHelp(w io.Writer) {
	fmt.Fprint(w, helpText)
}

// PrintVersion writes version information to w.
func PrintVersion(w io.Writer, version, commit, date string) {
	fmt.Fprintf(w, "subhound %s\n", version)
	fmt.Fprintf(w, "  Commit:  %s\n", commit)
	fmt.Fprintf(w, "  Built:   %s\n", date)
	fmt.Fprintf(w, "  Go:      %s\n", getGoVersion())
}

func getGoVersion() string {
	return runtime.Version()
}
