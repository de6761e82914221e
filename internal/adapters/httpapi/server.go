// internal/adapters/httpapi/server.go
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"subhound/internal/core/domain"
	"subhound/internal/platform/errors"
	"subhound/internal/platform/logx"
)

const (
	// ServiceName identifica el servicio en /health y en /
	ServiceName = "subhound"

	// DiscoveryIDHeader expone el ID de la ejecución para correlacionar logs
	DiscoveryIDHeader = "X-Discovery-ID"

	shutdownTimeout = 10 * time.Second
)

// Discoverer es lo que la API necesita del orchestrator.
type Discoverer interface {
	Discover(ctx context.Context, rawDomain string, rawMethods []string) (*domain.DiscoveryReport, error)
}

// Options configura el servidor HTTP.
type Options struct {
	Discoverer Discoverer
	Logger     logx.Logger
	Version    string

	// RequestTimeout acota cada POST /discover (0 = sin límite)
	RequestTimeout time.Duration

	// Metrics se monta en GET /metrics si no es nil
	Metrics http.Handler
}

// Server expone el servicio de descubrimiento sobre gin.
type Server struct {
	engine  *gin.Engine
	disc    Discoverer
	logger  logx.Logger
	version string
	timeout time.Duration
}

// discoverRequest es el cuerpo de POST /discover.
type discoverRequest struct {
	Domain  string   `json:"domain"`
	Methods []string `json:"methods"`
}

// New construye el router con todas las rutas registradas.
func New(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = logx.New()
	}
	if opts.Version == "" {
		opts.Version = "dev"
	}

	s := &Server{
		disc:    opts.Discoverer,
		logger:  opts.Logger.With("component", "httpapi"),
		version: opts.Version,
		timeout: opts.RequestTimeout,
	}

	r := gin.New()
	r.Use(s.requestLogger(), gin.CustomRecovery(s.recovered))

	r.GET("/", s.handleRoot)
	r.GET("/methods", s.handleMethods)
	r.GET("/health", s.handleHealth)
	r.POST("/discover", s.handleDiscover)
	if opts.Metrics != nil {
		r.GET("/metrics", gin.WrapH(opts.Metrics))
	}

	s.engine = r
	return s
}

// Handler devuelve el http.Handler del servidor (útil en tests).
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run escucha en addr hasta que ctx se cancela y luego hace shutdown ordenado.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func (s *Server) handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message":           "Advanced Subdomain Discovery Service",
		"service":           ServiceName,
		"version":           s.version,
		"available_methods": domain.MethodNames(domain.AllMethods),
		"endpoints": gin.H{
			"discover": "/discover",
			"health":   "/health",
			"methods":  "/methods",
			"metrics":  "/metrics",
		},
	})
}

func (s *Server) handleMethods(c *gin.Context) {
	available := make(gin.H, len(domain.AllMethods))
	for _, info := range domain.Catalog() {
		available[info.Method.String()] = info.Description
	}

	recommendations := make(gin.H)
	for name, methods := range domain.Recommendations() {
		recommendations[name] = domain.MethodNames(methods)
	}

	c.JSON(http.StatusOK, gin.H{
		"available_methods": available,
		"recommendations":   recommendations,
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": ServiceName})
}

func (s *Server) handleDiscover(c *gin.Context) {
	var req discoverRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "invalid request body: " + err.Error()})
		return
	}

	ctx := c.Request.Context()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	report, err := s.disc.Discover(ctx, req.Domain, req.Methods)
	if err != nil {
		if errors.IsInvalidInput(err) {
			c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
			return
		}
		s.logger.Err(err, "domain", req.Domain)
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "internal server error"})
		return
	}

	c.Header(DiscoveryIDHeader, report.ID)
	c.JSON(http.StatusOK, report)
}

// recovered traduce un panic en un handler a la misma respuesta que ErrInternal.
func (s *Server) recovered(c *gin.Context, rec any) {
	s.logger.Warn("handler panicked", "path", c.Request.URL.Path, "panic", rec)
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"detail": "internal server error"})
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}
}
