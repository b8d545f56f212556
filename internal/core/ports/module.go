// internal/core/ports/module.go
package ports

import (
	"context"
	"time"

	"osintx/internal/core/domain"
	"osintx/internal/platform/logx"
)

// Handle identifica una recolección en curso iniciada por un módulo.
// Su formato es opaco para el orquestador; solo el módulo lo interpreta.
type Handle string

// Module es el port primario para todos los módulos de recolección.
// Cualquier módulo (API remota, herramienta CLI) debe implementar esta
// interfaz; el orquestador los trata de forma uniforme sin importar el
// transporte real.
type Module interface {
	// Name retorna el nombre único del módulo (ej: "shodan", "harvester")
	Name() string

	// Start inicia la recolección sobre el valor del target y retorna
	// un handle para recuperar los resultados
	Start(ctx context.Context, target domain.Target) (Handle, error)

	// Fetch recupera los datos crudos de una recolección iniciada
	Fetch(ctx context.Context, handle Handle) (domain.RawData, error)

	// Close libera recursos utilizados por el módulo
	Close() error
}

// ModuleConfig contiene la configuración específica de un módulo.
type ModuleConfig struct {
	// Enabled indica si el módulo está habilitado
	Enabled bool

	// Timeout tiempo máximo de ejecución por recolección
	Timeout time.Duration

	// Retries número de reintentos en caso de fallo
	Retries int

	// RateLimit límite de peticiones por segundo (0 = sin límite)
	RateLimit float64

	// BaseURL URL base del servicio remoto (vacío = valor por defecto del módulo)
	BaseURL string

	// APIKey credencial del servicio remoto, si aplica
	APIKey string

	// Custom configuración específica del módulo
	Custom map[string]string
}

// DefaultModuleConfig retorna una configuración por defecto.
func DefaultModuleConfig() ModuleConfig {
	return ModuleConfig{
		Enabled:   true,
		Timeout:   60 * time.Second,
		Retries:   2,
		RateLimit: 0,
		Custom:    make(map[string]string),
	}
}

// ModuleFactory es una función que crea una instancia de Module.
type ModuleFactory func(cfg ModuleConfig, logger logx.Logger) (Module, error)

// ModuleMetadata contiene metadatos sobre un módulo.
type ModuleMetadata struct {
	Name         string
	Description  string
	RequiresAuth bool

	// TargetTypes tipos de target que el módulo sabe recolectar
	TargetTypes []domain.TargetType
}

// SupportsTarget indica si el módulo declara soporte para el tipo dado.
func (m ModuleMetadata) SupportsTarget(t domain.TargetType) bool {
	for _, tt := range m.TargetTypes {
		if tt == t {
			return true
		}
	}
	return false
}
