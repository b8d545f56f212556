// cmd/osintx/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"osintx/internal/adapters/httpapi"
	"osintx/internal/adapters/output"
	"osintx/internal/adapters/store/postgres"
	"osintx/internal/core/domain"
	"osintx/internal/core/ports"
	"osintx/internal/core/usecases"
	"osintx/internal/platform/cache"
	"osintx/internal/platform/config"
	"osintx/internal/platform/logx"
	"osintx/internal/platform/registry"
	"osintx/internal/platform/resilience"

	// Import modules for auto-registration via init()
	_ "osintx/internal/modules/harvester"
	_ "osintx/internal/modules/reconng"
	_ "osintx/internal/modules/shodan"
	_ "osintx/internal/modules/spiderfoot"
)

var (
	// Rellenables con -ldflags en build
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// .env opcional para claves de API en desarrollo local
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: configuration load failed: %v\n", err)
		os.Exit(2)
	}

	if cfg.PrintVersion {
		config.PrintVersion(version, commit, date)
	}

	logger := logx.New()

	logger.Info("osintx starting",
		"version", version,
		"commit", commit,
		"mode", mode(cfg),
	)

	// Contexto raíz cancelable por señales
	ctx, cancel := rootContextWithSignals()
	defer cancel()

	// Almacén: grafo + índice de búsqueda sobre el mismo pool
	graphStore, err := postgres.OpenGraphStore(cfg.StoreDSN, logger)
	if err != nil {
		logger.Err(err, "phase", "store-open")
		os.Exit(1)
	}
	defer func() {
		if err := graphStore.Close(); err != nil {
			logger.Warn("failed to close graph store", "error", err.Error())
		}
	}()

	searchIndex, err := postgres.NewSearchIndex(graphStore.DB(), logger)
	if err != nil {
		logger.Err(err, "phase", "index-open")
		os.Exit(1)
	}

	// Módulos desde el registry, con resiliencia opcional
	modules, err := buildModulesWithResilience(logger, cfg)
	if err != nil {
		logger.Err(err, "phase", "module-build")
		os.Exit(2)
	}

	defer func() {
		for _, m := range modules {
			if err := m.Close(); err != nil {
				logger.Warn("failed to close module",
					"module", m.Name(),
					"error", err.Error(),
				)
			}
		}
	}()

	logger.Info("modules ready", "count", len(modules))

	// Cache opcional de outcomes por (módulo, target)
	var outcomeCache cache.Cache
	if cfg.Cache.Enabled {
		outcomeCache = cache.NewMemoryCache(cfg.Cache.Size)
	}

	orch := usecases.NewOrchestrator(usecases.OrchestratorOptions{
		Modules:       modules,
		Logger:        logger,
		ModuleTimeout: cfg.ModuleTimeout(),
		OutcomeCache:  outcomeCache,
		CacheTTL:      cfg.Cache.TTL,
	})

	writer := usecases.NewGraphWriter(graphStore, logger)
	store := usecases.NewResultStore(writer, searchIndex, logger)
	projector := usecases.NewVisualizationProjector(graphStore, logger)

	if cfg.Serve {
		os.Exit(runServe(ctx, cfg, logger, orch, store, projector))
	}

	os.Exit(runCollect(ctx, cfg, logger, orch, store))
}

// runCollect ejecuta una recolección one-shot: valida el target,
// orquesta los módulos, persiste e indexa, y emite las salidas.
func runCollect(
	ctx context.Context,
	cfg config.Config,
	logger logx.Logger,
	orch *usecases.Orchestrator,
	store *usecases.ResultStore,
) int {
	if cfg.TargetValue == "" {
		fmt.Fprintln(os.Stderr, "Error: target is required")
		fmt.Fprintln(os.Stderr, "Usage: osintx --target <value> [--type domain|ip|email]")
		fmt.Fprintln(os.Stderr, "Try: osintx --help")
		return 2
	}

	target := domain.NewTarget(domain.TargetType(cfg.TargetType), cfg.TargetValue, cfg.Modules)

	start := time.Now()
	result, err := orch.Collect(ctx, *target)
	elapsed := time.Since(start)

	if err != nil {
		logger.Err(err, "phase", "collect", "elapsed_ms", elapsed.Milliseconds())
		return 2
	}

	if err := store.Store(ctx, result); err != nil {
		if errors.Is(err, domain.ErrIndexing) {
			// El grafo ya quedó persistido; la indexación es best-effort
			logger.Warn("search indexing failed", "error", err.Error())
		} else {
			logger.Err(err, "phase", "persist")
			return 1
		}
	}

	path, err := output.WriteJSON(cfg.OutputDir, result)
	if err != nil {
		logger.Err(err, "phase", "output")
		return 1
	}
	logger.Info("result written", "path", path)

	if !cfg.Outputs.TableDisabled {
		if err := output.RenderTable(result); err != nil {
			logger.Warn("table output failed", "error", err.Error())
		}
	}

	logger.Info("osintx finished",
		"elapsed_ms", elapsed.Milliseconds(),
		"entities", len(result.Entities),
		"modules_ok", result.Metadata.ModulesSucceeded,
		"modules_failed", result.Metadata.ModulesFailed,
	)

	if result.HasFailures() {
		return 1
	}
	return 0
}

// runServe levanta la API HTTP y bloquea hasta una señal de apagado.
func runServe(
	ctx context.Context,
	cfg config.Config,
	logger logx.Logger,
	orch *usecases.Orchestrator,
	store *usecases.ResultStore,
	projector *usecases.VisualizationProjector,
) int {
	server := httpapi.NewServer(httpapi.Options{
		Addr:         cfg.ListenAddr,
		Orchestrator: orch,
		Store:        store,
		Projector:    projector,
		Logger:       logger,
	})

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http api listening", "addr", cfg.ListenAddr)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Err(err, "phase", "serve")
			return 1
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Err(err, "phase", "shutdown")
			return 1
		}
	}

	logger.Info("http api stopped")
	return 0
}

// buildModulesWithResilience construye los módulos habilitados desde el
// registry y los envuelve con retry + circuit breaker si está habilitado.
func buildModulesWithResilience(logger logx.Logger, cfg config.Config) (map[string]ports.Module, error) {
	modules, err := registry.Global().Build(cfg.ModuleConfigs, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to build modules: %w", err)
	}

	if !cfg.Resilience.CircuitBreakerEnabled {
		logger.Debug("resilience disabled, using modules directly")
		return modules, nil
	}

	resilient := make(map[string]ports.Module, len(modules))
	for name, mod := range modules {
		cb := resilience.NewCircuitBreaker(
			cfg.Resilience.CircuitBreakerThreshold,
			cfg.Resilience.CircuitBreakerTimeout,
			cfg.Resilience.CircuitBreakerHalfOpenMax,
		)

		resilient[name] = resilience.NewRetryableModule(
			mod,
			cfg.Resilience.MaxRetries,
			cfg.Resilience.BackoffBase,
			2.0,
			cb,
			logger,
		)

		logger.Debug("wrapped module with resilience",
			"module", name,
			"max_retries", cfg.Resilience.MaxRetries,
		)
	}

	return resilient, nil
}

func mode(cfg config.Config) string {
	if cfg.Serve {
		return "serve"
	}
	return "collect"
}

// rootContextWithSignals crea un contexto raíz cancelado por SIGINT/SIGTERM.
func rootContextWithSignals() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}
