// internal/platform/config/config.go
package config

import (
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"subhound/internal/platform/errors"
)

// Nombres de las fuentes HTTP configurables (coinciden con los métodos).
const (
	SourceCRT          = "crt"
	SourceHackerTarget = "hackertarget"
	SourceThreatCrowd  = "threatcrowd"
	SourceVirusTotal   = "virustotal"
)

type Config struct {
	Core       CoreConfig       `yaml:"core" json:"core"`
	DNS        DNSConfig        `yaml:"dns" json:"dns"`
	Source     SourceConfig     `yaml:"sources" json:"sources"`
	Server     ServerConfig     `yaml:"server" json:"server"`
	Output     OutputConfig     `yaml:"output" json:"output"`
	Network    NetworkConfig    `yaml:"network" json:"network"`
	Resilience ResilienceConfig `yaml:"resilience" json:"resilience"`
	Log        LogConfig        `yaml:"log" json:"log"`

	// Flags de una sola ejecución; no vienen del archivo.
	File         string `yaml:"-" json:"-"`
	PrintVersion bool   `yaml:"-" json:"-"`
	PrintHelp    bool   `yaml:"-" json:"-"`
}

type CoreConfig struct {
	Target   string   `yaml:"target" json:"target"`
	Methods  []string `yaml:"methods" json:"methods"`
	TimeoutS int      `yaml:"timeout" json:"timeout"` // segundos por ejecución (0 = sin timeout)
}

type DNSConfig struct {
	Workers      int           `yaml:"workers" json:"workers"`
	ProbeTimeout time.Duration `yaml:"probe_timeout" json:"probe_timeout"`
	Resolvers    []string      `yaml:"resolvers" json:"resolvers"`
	Wordlist     string        `yaml:"wordlist" json:"wordlist"`
}

type SourceConfig struct {
	UserAgent string `yaml:"user_agent" json:"user_agent"`

	// Sources: configuración por fuente HTTP.
	// Key = nombre del método (crt, hackertarget, threatcrowd, virustotal)
	Sources map[string]SourceSettings `yaml:"providers" json:"providers"`
}

type SourceSettings struct {
	Timeout   time.Duration `yaml:"timeout" json:"timeout"`
	Retries   int           `yaml:"retries" json:"retries"`
	RateLimit float64       `yaml:"rate_limit" json:"rate_limit"`
	BaseURL   string        `yaml:"url" json:"url"`
	APIKey    string        `yaml:"api_key" json:"api_key,omitempty"`
}

type ServerConfig struct {
	Serve bool   `yaml:"serve" json:"serve"`
	Addr  string `yaml:"addr" json:"addr"`
}

type OutputConfig struct {
	Dir   string `yaml:"dir" json:"dir"`
	JSON  bool   `yaml:"json" json:"json"`
	Quiet bool   `yaml:"quiet" json:"quiet"`
}

type NetworkConfig struct {
	ProxyURL string `yaml:"proxy" json:"proxy"`
}

// ResilienceConfig controla el circuit breaker de las fuentes HTTP.
// Deshabilitado por defecto: su estado sobrevive entre requests.
type ResilienceConfig struct {
	CircuitBreakerEnabled   bool          `yaml:"circuit_breaker" json:"circuit_breaker"`
	CircuitBreakerThreshold int           `yaml:"threshold" json:"threshold"`
	CircuitBreakerCooldown  time.Duration `yaml:"cooldown" json:"cooldown"`
}

type LogConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
}

// DefaultSources retorna la configuración por defecto de cada fuente HTTP.
func DefaultSources() map[string]SourceSettings {
	return map[string]SourceSettings{
		SourceCRT: {
			Timeout: 30 * time.Second,
			BaseURL: "https://crt.sh",
		},
		SourceHackerTarget: {
			Timeout: 15 * time.Second,
			BaseURL: "https://api.hackertarget.com/hostsearch/",
		},
		SourceThreatCrowd: {
			Timeout: 15 * time.Second,
			BaseURL: "https://www.threatcrowd.org/searchApi/v2/domain/report/",
		},
		SourceVirusTotal: {
			Timeout: 15 * time.Second,
			BaseURL: "https://www.virustotal.com/vtapi/v2/domain/report",
		},
	}
}

// DefaultConfig retorna una configuración por defecto.
func DefaultConfig() Config {
	return Config{
		Core: CoreConfig{
			Methods:  nil,
			TimeoutS: 90,
		},
		DNS: DNSConfig{
			Workers:      50,
			ProbeTimeout: 2 * time.Second,
		},
		Source: SourceConfig{
			Sources: DefaultSources(),
		},
		Server: ServerConfig{
			Addr: ":8000",
		},
		Resilience: ResilienceConfig{
			CircuitBreakerEnabled:   false,
			CircuitBreakerThreshold: 5,
			CircuitBreakerCooldown:  60 * time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load inicializa la configuración desde os.Args.
func Load() (Config, error) {
	return LoadArgs(os.Args[1:])
}

// LoadArgs aplica las capas en orden: defaults -> archivo YAML -> ENV -> flags.
func LoadArgs(args []string) (Config, error) {
	cfg := DefaultConfig()

	file := findConfigFile(args)
	if file != "" {
		if err := loadFromFile(&cfg, file); err != nil {
			return cfg, err
		}
		cfg.File = file
	}

	loadFromEnv(&cfg)

	if err := loadFromFlags(&cfg, args); err != nil {
		return cfg, err
	}

	normalize(&cfg)

	return cfg, nil
}

// findConfigFile resuelve la ruta del archivo antes de parsear el resto de flags.
func findConfigFile(args []string) string {
	fs := pflag.NewFlagSet("config", pflag.ContinueOnError)
	fs.ParseErrorsWhitelist = pflag.ParseErrorsWhitelist{UnknownFlags: true}
	fs.Usage = func() {}
	fs.SetOutput(io.Discard)

	path := fs.StringP("config", "c", getenv("SUBHOUND_CONFIG", ""), "")
	_ = fs.Parse(args)
	return *path
}

// loadFromFile carga configuración YAML sobre los valores actuales.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errors.Wrapf(errors.ErrInvalidInput, "read config file %s: %v", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return errors.Wrapf(errors.ErrInvalidInput, "parse config file %s: %v", path, err)
	}
	return nil
}

// loadFromEnv carga configuración desde variables de entorno.
func loadFromEnv(cfg *Config) {
	if v := getenv("SUBHOUND_TARGET", ""); v != "" {
		cfg.Core.Target = v
	}
	if v := getenv("SUBHOUND_METHODS", ""); v != "" {
		cfg.Core.Methods = splitList(v)
	}
	if v := getenv("SUBHOUND_TIMEOUT", ""); v != "" {
		cfg.Core.TimeoutS = parseInt(v, cfg.Core.TimeoutS)
	}

	// DNS
	if v := getenv("SUBHOUND_DNS_WORKERS", ""); v != "" {
		cfg.DNS.Workers = parseInt(v, cfg.DNS.Workers)
	}
	if v := getenv("SUBHOUND_DNS_TIMEOUT", ""); v != "" {
		cfg.DNS.ProbeTimeout = parseDuration(v, cfg.DNS.ProbeTimeout)
	}
	if v := getenv("SUBHOUND_DNS_RESOLVERS", ""); v != "" {
		cfg.DNS.Resolvers = splitList(v)
	}
	if v := getenv("SUBHOUND_DNS_WORDLIST", ""); v != "" {
		cfg.DNS.Wordlist = v
	}

	// Sources
	// Formato: SUBHOUND_SOURCES_CRT_TIMEOUT=30s
	//          SUBHOUND_SOURCES_VIRUSTOTAL_APIKEY=...
	if v := getenv("SUBHOUND_USER_AGENT", ""); v != "" {
		cfg.Source.UserAgent = v
	}
	for name := range cfg.Source.Sources {
		prefix := fmt.Sprintf("SUBHOUND_SOURCES_%s_", strings.ToUpper(name))

		s := cfg.Source.Sources[name]

		if v := getenv(prefix+"TIMEOUT", ""); v != "" {
			s.Timeout = parseDuration(v, s.Timeout)
		}
		if v := getenv(prefix+"RETRIES", ""); v != "" {
			s.Retries = parseInt(v, s.Retries)
		}
		if v := getenv(prefix+"RATELIMIT", ""); v != "" {
			s.RateLimit = parseFloat(v, s.RateLimit)
		}
		if v := getenv(prefix+"URL", ""); v != "" {
			s.BaseURL = v
		}
		if v := getenv(prefix+"APIKEY", ""); v != "" {
			s.APIKey = v
		}

		cfg.Source.Sources[name] = s
	}

	// Server
	if v := getenv("SUBHOUND_SERVE", ""); v != "" {
		cfg.Server.Serve = parseBool(v)
	}
	if v := getenv("SUBHOUND_ADDR", ""); v != "" {
		cfg.Server.Addr = v
	}

	// Output
	if v := getenv("SUBHOUND_OUTPUT_DIR", ""); v != "" {
		cfg.Output.Dir = v
	}
	if v := getenv("SUBHOUND_OUTPUT_JSON", ""); v != "" {
		cfg.Output.JSON = parseBool(v)
	}
	if v := getenv("SUBHOUND_QUIET", ""); v != "" {
		cfg.Output.Quiet = parseBool(v)
	}

	if v := getenv("SUBHOUND_PROXY_URL", ""); v != "" {
		cfg.Network.ProxyURL = v
	}

	// Resilience
	if v := getenv("SUBHOUND_CIRCUIT_BREAKER", ""); v != "" {
		cfg.Resilience.CircuitBreakerEnabled = parseBool(v)
	}
	if v := getenv("SUBHOUND_CB_THRESHOLD", ""); v != "" {
		cfg.Resilience.CircuitBreakerThreshold = parseInt(v, cfg.Resilience.CircuitBreakerThreshold)
	}
	if v := getenv("SUBHOUND_CB_COOLDOWN", ""); v != "" {
		cfg.Resilience.CircuitBreakerCooldown = parseDuration(v, cfg.Resilience.CircuitBreakerCooldown)
	}

	// Log
	if v := getenv("SUBHOUND_LOG_LEVEL", ""); v != "" {
		cfg.Log.Level = v
	}
	if v := getenv("SUBHOUND_LOG_FORMAT", ""); v != "" {
		cfg.Log.Format = v
	}
}

// loadFromFlags parsea flags de CLI (tienen prioridad sobre ENV y archivo).
func loadFromFlags(cfg *Config, args []string) error {
	fs := pflag.NewFlagSet("subhound", pflag.ContinueOnError)
	fs.Usage = func() {}
	fs.SetOutput(io.Discard)

	fs.StringVarP(&cfg.File, "config", "c", cfg.File, "Archivo de configuración YAML")

	fs.StringVarP(&cfg.Core.Target, "target", "t", cfg.Core.Target, "Dominio objetivo (e.g., example.com)")
	fs.StringSliceVarP(&cfg.Core.Methods, "methods", "m", cfg.Core.Methods, "Métodos de descubrimiento (dns,crt,...)")
	fs.IntVarP(&cfg.Core.TimeoutS, "timeout", "T", cfg.Core.TimeoutS, "Timeout por ejecución en segundos (0 = sin timeout)")

	fs.IntVarP(&cfg.DNS.Workers, "workers", "w", cfg.DNS.Workers, "Probes DNS concurrentes")
	fs.DurationVar(&cfg.DNS.ProbeTimeout, "dns.timeout", cfg.DNS.ProbeTimeout, "Timeout por probe DNS")
	fs.StringSliceVar(&cfg.DNS.Resolvers, "dns.resolvers", cfg.DNS.Resolvers, "Resolvers DNS host:port")
	fs.StringVar(&cfg.DNS.Wordlist, "dns.wordlist", cfg.DNS.Wordlist, "Archivo con labels adicionales")

	fs.StringVar(&cfg.Source.UserAgent, "user-agent", cfg.Source.UserAgent, "User-Agent para fuentes HTTP")

	// Solo timeout y api key via flags, el resto via ENV o archivo.
	timeouts := make(map[string]*time.Duration, len(cfg.Source.Sources))
	for name, s := range cfg.Source.Sources {
		d := s.Timeout
		timeouts[name] = &d
		fs.DurationVar(timeouts[name], fmt.Sprintf("src.%s.timeout", name), d,
			fmt.Sprintf("Timeout de la fuente %s", name))
	}
	vtKey := cfg.Source.Sources[SourceVirusTotal].APIKey
	fs.StringVar(&vtKey, "src.virustotal.key", vtKey, "API key de VirusTotal")

	fs.BoolVarP(&cfg.Server.Serve, "serve", "s", cfg.Server.Serve, "Ejecutar como servicio HTTP")
	fs.StringVarP(&cfg.Server.Addr, "listen", "l", cfg.Server.Addr, "Dirección de escucha del servicio")

	fs.StringVarP(&cfg.Output.Dir, "out", "o", cfg.Output.Dir, "Directorio donde guardar el reporte JSON")
	fs.BoolVarP(&cfg.Output.JSON, "json", "j", cfg.Output.JSON, "Imprimir el reporte como JSON")
	fs.BoolVarP(&cfg.Output.Quiet, "quiet", "q", cfg.Output.Quiet, "Sin tabla ni banner")

	fs.StringVarP(&cfg.Network.ProxyURL, "proxy", "p", cfg.Network.ProxyURL, "Proxy HTTP(S) para peticiones salientes (opcional)")

	fs.BoolVar(&cfg.Resilience.CircuitBreakerEnabled, "circuit-breaker", cfg.Resilience.CircuitBreakerEnabled, "Cortar fuentes HTTP que fallan repetidamente")

	fs.StringVar(&cfg.Log.Level, "log-level", cfg.Log.Level, "Nivel de log (debug, info, warn, error)")
	fs.StringVar(&cfg.Log.Format, "log-format", cfg.Log.Format, "Formato de log (text, json)")

	fs.BoolVarP(&cfg.PrintVersion, "version", "v", false, "Imprimir versión y salir")
	fs.BoolVarP(&cfg.PrintHelp, "help", "h", false, "Mostrar ayuda")

	if err := fs.Parse(args); err != nil {
		return errors.Wrapf(errors.ErrInvalidInput, "%v", err)
	}

	for name, d := range timeouts {
		s := cfg.Source.Sources[name]
		s.Timeout = *d
		cfg.Source.Sources[name] = s
	}
	if vt, ok := cfg.Source.Sources[SourceVirusTotal]; ok {
		vt.APIKey = vtKey
		cfg.Source.Sources[SourceVirusTotal] = vt
	}

	// Un argumento posicional se toma como target.
	if cfg.Core.Target == "" && fs.NArg() > 0 {
		cfg.Core.Target = fs.Arg(0)
	}

	return nil
}

func normalize(c *Config) {
	c.Core.Target = strings.ToLower(strings.TrimSpace(c.Core.Target))
	if c.Core.TimeoutS < 0 {
		c.Core.TimeoutS = 0
	}

	methods := make([]string, 0, len(c.Core.Methods))
	for _, m := range c.Core.Methods {
		if m = strings.ToLower(strings.TrimSpace(m)); m != "" {
			methods = append(methods, m)
		}
	}
	c.Core.Methods = methods

	if c.DNS.Workers < 1 {
		c.DNS.Workers = 50
	}
	if c.DNS.ProbeTimeout <= 0 {
		c.DNS.ProbeTimeout = 2 * time.Second
	}

	defaults := DefaultSources()
	if c.Source.Sources == nil {
		c.Source.Sources = defaults
	}
	for name, def := range defaults {
		s, ok := c.Source.Sources[name]
		if !ok {
			c.Source.Sources[name] = def
			continue
		}
		if s.Timeout <= 0 {
			s.Timeout = def.Timeout
		}
		if s.Retries < 0 {
			s.Retries = 0
		}
		if s.RateLimit < 0 {
			s.RateLimit = 0
		}
		if s.BaseURL == "" {
			s.BaseURL = def.BaseURL
		}
		c.Source.Sources[name] = s
	}

	if c.Server.Addr == "" {
		c.Server.Addr = ":8000"
	}

	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	c.Log.Format = strings.ToLower(strings.TrimSpace(c.Log.Format))
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate verifica valores que normalize no puede corregir.
func (c Config) Validate() error {
	switch c.Log.Format {
	case "text", "json":
	default:
		return errors.InvalidInput("invalid log format %q (text, json)", c.Log.Format)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return errors.InvalidInput("invalid log level %q", c.Log.Level)
	}
	if c.Network.ProxyURL != "" {
		u, err := url.Parse(c.Network.ProxyURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return errors.InvalidInput("invalid proxy url %q", c.Network.ProxyURL)
		}
	}
	if !c.Server.Serve && c.Core.Target == "" {
		return errors.InvalidInput("target is required (use -t <domain> or --serve)")
	}
	return nil
}

// SourceSettings devuelve la configuración de una fuente HTTP (con defaults si falta).
func (c Config) SourceSettings(name string) SourceSettings {
	if s, ok := c.Source.Sources[name]; ok {
		return s
	}
	return DefaultSources()[name]
}

// ToJSON serializa la configuración a JSON (útil para debugging). Las API keys se ocultan.
func (c Config) ToJSON() (string, error) {
	redacted := c
	redacted.Source.Sources = make(map[string]SourceSettings, len(c.Source.Sources))
	for name, s := range c.Source.Sources {
		if s.APIKey != "" {
			s.APIKey = "***"
		}
		redacted.Source.Sources[name] = s
	}

	data, err := json.MarshalIndent(redacted, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Timeout devuelve un time.Duration útil si prefieres trabajar con duración.
func (c Config) Timeout() time.Duration {
	if c.Core.TimeoutS <= 0 {
		return 0
	}
	return time.Duration(c.Core.TimeoutS) * time.Second
}

// Helpers

func getenv(k, def string) string {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		return v
	}
	return def
}

func parseBool(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "t", "true", "y", "yes", "on":
		return true
	default:
		return false
	}
}

func parseInt(v string, def int) int {
	i, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return def
	}
	return i
}

func parseFloat(v string, def float64) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return def
	}
	return f
}

// parseDuration acepta "2s", "500ms" o un entero en segundos.
func parseDuration(v string, def time.Duration) time.Duration {
	v = strings.TrimSpace(v)
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if i, err := strconv.Atoi(v); err == nil {
		return time.Duration(i) * time.Second
	}
	return def
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
