// cmd/subhound/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"subhound/internal/adapters/httpapi"
	"subhound/internal/adapters/output"
	"subhound/internal/core/domain"
	"subhound/internal/core/usecases"
	"subhound/internal/platform/config"
	"subhound/internal/platform/errors"
	"subhound/internal/platform/logx"
	"subhound/internal/platform/metrics"
	"subhound/internal/sources"
)

var (
	// Rellenables con -ldflags en build
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	// 1. Config centralizada (defaults -> YAML -> ENV -> flags)
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: configuration load failed: %v\n", err)
		return 2
	}

	if cfg.PrintHelp {
		config.PrintHelp(os.Stdout)
		return 0
	}
	if cfg.PrintVersion {
		config.PrintVersion(os.Stdout, version, commit, date)
		return 0
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		fmt.Fprintln(os.Stderr, "Usage: subhound -t <domain> [-m dns,crt]  |  subhound --serve")
		fmt.Fprintln(os.Stderr, "Try: subhound -h for help")
		return 2
	}

	// 2. Logger compartido
	logger := logx.NewWithOptions(os.Stderr, logx.ParseLevel(cfg.Log.Level), logx.Format(cfg.Log.Format))
	if cfg.Output.Quiet {
		logger.SetLevel(logx.LevelError)
	}

	logger.Info("SubHound starting",
		"version", version,
		"commit", commit,
		"serve", cfg.Server.Serve,
		"target", cfg.Core.Target,
		"methods", cfg.Core.Methods,
		"dns_workers", cfg.DNS.Workers,
	)

	// 3. Métricas y adapters
	prom := metrics.NewPrometheus()

	srcs, err := sources.Build(sources.Deps{
		Config:  cfg,
		Metrics: prom,
		Logger:  logger,
	})
	if err != nil {
		logger.Err(err, "phase", "source-build")
		if errors.IsInvalidInput(err) {
			return 2
		}
		return 1
	}

	orch := usecases.NewOrchestrator(usecases.OrchestratorOptions{
		Sources: srcs,
		Logger:  logger,
		Metrics: prom,
	})
	defer func() {
		if err := orch.Close(); err != nil {
			logger.Warn("failed to close sources", "error", err.Error())
		}
	}()

	if cfg.Server.Serve {
		return serve(cfg, orch, prom, logger)
	}
	return oneShot(cfg, orch, logger)
}

// serve levanta la API HTTP hasta recibir SIGINT/SIGTERM.
func serve(cfg config.Config, orch *usecases.Orchestrator, prom *metrics.Prometheus, logger logx.Logger) int {
	ctx, cancel := rootContextWithSignals(0)
	defer cancel()

	srv := httpapi.New(httpapi.Options{
		Discoverer:     orch,
		Logger:         logger,
		Version:        version,
		RequestTimeout: cfg.Timeout(),
		Metrics:        prom.Handler(),
	})

	if err := srv.Run(ctx, cfg.Server.Addr); err != nil {
		logger.Err(err, "phase", "serve")
		return 1
	}
	return 0
}

// oneShot ejecuta una sola discovery y escribe los resultados.
func oneShot(cfg config.Config, orch *usecases.Orchestrator, logger logx.Logger) int {
	ctx, cancel := rootContextWithSignals(cfg.Core.TimeoutS)
	defer cancel()

	report, err := orch.Discover(ctx, cfg.Core.Target, cfg.Core.Methods)
	if err != nil {
		logger.Err(err, "phase", "run")
		if errors.IsInvalidInput(err) {
			return 2
		}
		return 1
	}

	if err := writeOutputs(cfg, report, logger); err != nil {
		logger.Err(err, "phase", "output")
		return 1
	}

	logger.Info("SubHound finished",
		"elapsed_ms", report.Duration.Milliseconds(),
		"total_found", report.TotalFound,
	)
	return 0
}

// writeOutputs decide los formatos de salida según la config.
func writeOutputs(cfg config.Config, report *domain.DiscoveryReport, logger logx.Logger) error {
	if cfg.Output.Dir != "" {
		path, err := output.OutputJSON(cfg.Output.Dir, report)
		if err != nil {
			return fmt.Errorf("json file output: %w", err)
		}
		logger.Info("report written", "path", path)
	}

	if cfg.Output.JSON {
		if err := output.OutputJSONStdout(report, true); err != nil {
			return fmt.Errorf("json output: %w", err)
		}
		return nil
	}

	if err := output.OutputTable(report); err != nil {
		return fmt.Errorf("table output: %w", err)
	}
	return nil
}

// rootContextWithSignals crea el contexto raíz con timeout opcional y
// cancelación por señales del sistema.
func rootContextWithSignals(timeoutSeconds int) (context.Context, context.CancelFunc) {
	var base context.Context
	var baseCancel context.CancelFunc

	if timeoutSeconds > 0 {
		base, baseCancel = context.WithTimeout(context.Background(), time.Duration(timeoutSeconds)*time.Second)
	} else {
		base, baseCancel = context.WithCancel(context.Background())
	}

	ctx, stop := signal.NotifyContext(base, syscall.SIGINT, syscall.SIGTERM)

	return ctx, func() {
		stop()
		baseCancel()
	}
}
