// internal/platform/registry/module_registry.go
package registry

import (
	"fmt"
	"sort"
	"sync"

	"osintx/internal/core/ports"
	"osintx/internal/platform/logx"
)

// ModuleRegistry gestiona el registro y construcción de módulos de
// recolección. Implementa el patrón Registry + Factory para desacoplar
// la creación de módulos del código de aplicación.
type ModuleRegistry struct {
	mu        sync.RWMutex
	factories map[string]ports.ModuleFactory
	metadata  map[string]ports.ModuleMetadata
	logger    logx.Logger
}

// globalRegistry es la instancia global del registry.
var globalRegistry *ModuleRegistry
var once sync.Once

// Global retorna la instancia global del registry.
func Global() *ModuleRegistry {
	once.Do(func() {
		globalRegistry = NewModuleRegistry(logx.New())
	})
	return globalRegistry
}

// NewModuleRegistry crea un nuevo registry de módulos.
func NewModuleRegistry(logger logx.Logger) *ModuleRegistry {
	return &ModuleRegistry{
		factories: make(map[string]ports.ModuleFactory),
		metadata:  make(map[string]ports.ModuleMetadata),
		logger:    logger.With("component", "module-registry"),
	}
}

// Register registra una module factory con su metadata.
// Típicamente llamado desde init() de cada module package.
func (r *ModuleRegistry) Register(name string, factory ports.ModuleFactory, meta ports.ModuleMetadata) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if name == "" {
		return fmt.Errorf("module name cannot be empty")
	}

	if factory == nil {
		return fmt.Errorf("factory cannot be nil for module %s", name)
	}

	if _, exists := r.factories[name]; exists {
		return fmt.Errorf("module %s is already registered", name)
	}

	r.factories[name] = factory
	r.metadata[name] = meta
	r.logger.Debug("module registered", "name", name)

	return nil
}

// Build construye todos los módulos habilitados según la configuración.
// Retorna un mapa nombre→módulo listo para el orquestador.
func (r *ModuleRegistry) Build(configs map[string]ports.ModuleConfig, logger logx.Logger) (map[string]ports.Module, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if configs == nil {
		return nil, fmt.Errorf("configs cannot be nil")
	}

	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}

	modules := make(map[string]ports.Module, len(configs))
	var buildErrors []error

	for name, cfg := range configs {
		if !cfg.Enabled {
			continue
		}

		factory, exists := r.factories[name]
		if !exists {
			r.logger.Warn("module not registered, skipping", "module", name)
			buildErrors = append(buildErrors, fmt.Errorf("module %s not registered in registry", name))
			continue
		}

		module, err := factory(cfg, logger)
		if err != nil {
			buildErrors = append(buildErrors, fmt.Errorf("failed to build module %s: %w", name, err))
			continue
		}

		modules[name] = module
		r.logger.Debug("module built", "name", name)
	}

	if len(buildErrors) > 0 {
		// Log errors pero no fallar completamente
		for _, err := range buildErrors {
			r.logger.Warn("module build error", "error", err.Error())
		}
	}

	if len(modules) == 0 && len(configs) > 0 {
		return nil, fmt.Errorf("no modules could be built")
	}

	logger.Info("modules built", "count", len(modules), "requested", len(configs))
	return modules, nil
}

// List retorna los nombres de todos los módulos registrados.
func (r *ModuleRegistry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetMetadata retorna el metadata de un módulo.
func (r *ModuleRegistry) GetMetadata(name string) (ports.ModuleMetadata, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	meta, exists := r.metadata[name]
	return meta, exists
}

// GetAllMetadata retorna el metadata de todos los módulos registrados.
func (r *ModuleRegistry) GetAllMetadata() map[string]ports.ModuleMetadata {
	r.mu.RLock()
	defer r.mu.RUnlock()

	// Crear copia para evitar race conditions
	result := make(map[string]ports.ModuleMetadata, len(r.metadata))
	for name, meta := range r.metadata {
		result[name] = meta
	}

	return result
}

// IsRegistered verifica si un módulo está registrado.
func (r *ModuleRegistry) IsRegistered(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, exists := r.factories[name]
	return exists
}

// Clear elimina todos los módulos registrados (útil para testing).
func (r *ModuleRegistry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.factories = make(map[string]ports.ModuleFactory)
	r.metadata = make(map[string]ports.ModuleMetadata)
}
