// internal/core/usecases/orchestrator.go
package usecases

import (
	"context"
	"fmt"
	"sync"
	"time"

	"osintx/internal/core/domain"
	"osintx/internal/core/ports"
	"osintx/internal/platform/cache"
	"osintx/internal/platform/logx"
)

// Orchestrator coordina la recolección concurrente sobre un target.
// Despacha un módulo por goroutine, aísla los fallos de cada módulo
// dentro de su ModuleOutcome y ensambla un resultado determinista en
// el orden de módulos solicitado por el target.
type Orchestrator struct {
	modules   map[string]ports.Module
	extractor *EntityExtractor
	dedupe    *DedupeService
	logger    logx.Logger

	// Configuración
	moduleTimeout time.Duration
	outcomeCache  cache.Cache
	cacheTTL      time.Duration
}

// OrchestratorOptions configura el orchestrator.
type OrchestratorOptions struct {
	Modules map[string]ports.Module
	Logger  logx.Logger

	// ModuleTimeout tiempo máximo por módulo (0 = 60s)
	ModuleTimeout time.Duration

	// OutcomeCache cache opcional de resultados por (módulo, target)
	OutcomeCache cache.Cache

	// CacheTTL tiempo de vida de las entradas del cache
	CacheTTL time.Duration
}

// NewOrchestrator crea una nueva instancia del orchestrator.
func NewOrchestrator(opts OrchestratorOptions) *Orchestrator {
	if opts.Logger == nil {
		opts.Logger = logx.New()
	}
	if opts.ModuleTimeout <= 0 {
		opts.ModuleTimeout = 60 * time.Second
	}
	if opts.CacheTTL <= 0 {
		opts.CacheTTL = 15 * time.Minute
	}

	return &Orchestrator{
		modules:       opts.Modules,
		extractor:     NewEntityExtractor(),
		dedupe:        NewDedupeService(),
		logger:        opts.Logger.With("component", "orchestrator"),
		moduleTimeout: opts.ModuleTimeout,
		outcomeCache:  opts.OutcomeCache,
		cacheTTL:      opts.CacheTTL,
	}
}

// Collect ejecuta todos los módulos solicitados contra el target y
// ensambla el resultado unificado. Un módulo desconocido es un error
// de validación que aborta antes de despachar nada; un módulo que
// falla durante la recolección queda registrado inline sin afectar al
// resto.
func (o *Orchestrator) Collect(ctx context.Context, target domain.Target) (*domain.CollectionResult, error) {
	// Validar target (normaliza el valor)
	if err := target.Validate(); err != nil {
		return nil, err
	}

	// Fail-fast: todos los módulos deben existir antes de despachar
	for _, name := range target.Modules {
		if _, ok := o.modules[name]; !ok {
			return nil, fmt.Errorf("%w: %s", domain.ErrUnknownModule, name)
		}
	}

	result := domain.NewCollectionResult(target)

	o.logger.Info("starting collection",
		"target", target.Value,
		"type", target.Type,
		"modules", len(target.Modules),
	)

	outcomes := o.dispatchModules(ctx, target)

	// Ensamblar en el orden de despacho, no en el de finalización
	var allEntities []domain.Entity
	for _, name := range target.Modules {
		outcome := outcomes[name]
		result.AddOutcome(name, outcome)

		if outcome.IsSuccess() {
			entities := o.extractor.Extract(name, outcome.Raw)
			allEntities = append(allEntities, entities...)
		}
	}

	result.AddEntities(o.dedupe.Deduplicate(allEntities)...)
	result.Finalize()

	o.logger.Info("collection completed",
		"target", target.Value,
		"entities", len(result.Entities),
		"succeeded", result.Metadata.ModulesSucceeded,
		"failed", result.Metadata.ModulesFailed,
		"duration_ms", result.Metadata.Duration.Milliseconds(),
	)

	return result, nil
}

// dispatchModules ejecuta los módulos en paralelo y recoge un outcome
// terminal por módulo.
func (o *Orchestrator) dispatchModules(ctx context.Context, target domain.Target) map[string]domain.ModuleOutcome {
	var wg sync.WaitGroup
	var mu sync.Mutex
	outcomes := make(map[string]domain.ModuleOutcome, len(target.Modules))

	for _, name := range target.Modules {
		wg.Add(1)
		go func(name string, module ports.Module) {
			defer wg.Done()

			outcome := o.runModule(ctx, name, module, target)

			mu.Lock()
			outcomes[name] = outcome
			mu.Unlock()
		}(name, o.modules[name])
	}

	wg.Wait()
	return outcomes
}

// runModule ejecuta un módulo individual con su propio timeout y
// convierte cualquier fallo en un outcome de failure.
func (o *Orchestrator) runModule(ctx context.Context, name string, module ports.Module, target domain.Target) domain.ModuleOutcome {
	cacheKey := name + ":" + target.Key()

	if o.outcomeCache != nil {
		if cached, found := o.outcomeCache.Get(cacheKey); found {
			if outcome, ok := cached.(domain.ModuleOutcome); ok {
				o.logger.Debug("outcome cache hit", "module", name, "target", target.Value)
				return outcome
			}
		}
	}

	moduleCtx, cancel := context.WithTimeout(ctx, o.moduleTimeout)
	defer cancel()

	o.logger.Debug("executing module", "module", name, "target", target.Value)

	handle, err := module.Start(moduleCtx, target)
	if err != nil {
		o.logger.Warn("module start failed", "module", name, "error", err.Error())
		return domain.FailureOutcome(err.Error())
	}

	raw, err := module.Fetch(moduleCtx, handle)
	if err != nil {
		if moduleCtx.Err() == context.DeadlineExceeded {
			o.logger.Warn("module timed out", "module", name, "timeout", o.moduleTimeout)
			return domain.FailureOutcome(fmt.Sprintf("timed out after %s", o.moduleTimeout))
		}
		o.logger.Warn("module fetch failed", "module", name, "error", err.Error())
		return domain.FailureOutcome(err.Error())
	}

	outcome := domain.SuccessOutcome(raw)

	if o.outcomeCache != nil {
		o.outcomeCache.Set(cacheKey, outcome, o.cacheTTL)
	}

	return outcome
}
