// internal/core/domain/collection_result.go
package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CollectionResult representa el resultado completo de una recolección
// sobre un target: el resultado terminal de cada módulo solicitado y
// las entidades extraídas de los módulos exitosos.
type CollectionResult struct {
	// ID identificador único de la recolección
	ID string `json:"id"`

	// Target objetivo de la recolección
	Target Target `json:"target"`

	// Timestamp momento de la recolección (RFC3339, UTC)
	Timestamp string `json:"timestamp"`

	// Sources resultado terminal por módulo solicitado
	Sources map[string]ModuleOutcome `json:"sources"`

	// Entities entidades extraídas, en orden de despacho de módulos
	Entities []Entity `json:"entities"`

	// Metadata información sobre la ejecución
	Metadata CollectionMetadata `json:"metadata"`
}

// CollectionMetadata contiene información sobre la ejecución de la recolección.
type CollectionMetadata struct {
	// StartTime momento de inicio
	StartTime time.Time `json:"start_time"`

	// EndTime momento de finalización
	EndTime time.Time `json:"end_time"`

	// Duration duración total
	Duration time.Duration `json:"duration"`

	// ModulesRequested número de módulos solicitados
	ModulesRequested int `json:"modules_requested"`

	// ModulesSucceeded número de módulos que completaron con éxito
	ModulesSucceeded int `json:"modules_succeeded"`

	// ModulesFailed número de módulos que fallaron
	ModulesFailed int `json:"modules_failed"`
}

// NewCollectionResult crea un nuevo resultado de recolección.
func NewCollectionResult(target Target) *CollectionResult {
	now := time.Now()
	return &CollectionResult{
		ID:        uuid.NewString(),
		Target:    target,
		Timestamp: now.UTC().Format(time.RFC3339),
		Sources:   make(map[string]ModuleOutcome, len(target.Modules)),
		Entities:  []Entity{},
		Metadata: CollectionMetadata{
			StartTime:        now,
			ModulesRequested: len(target.Modules),
		},
	}
}

// AddOutcome registra el resultado terminal de un módulo.
func (r *CollectionResult) AddOutcome(module string, outcome ModuleOutcome) {
	r.Sources[module] = outcome
	if outcome.IsSuccess() {
		r.Metadata.ModulesSucceeded++
	} else {
		r.Metadata.ModulesFailed++
	}
}

// AddEntities añade entidades extraídas preservando el orden.
func (r *CollectionResult) AddEntities(entities ...Entity) {
	r.Entities = append(r.Entities, entities...)
}

// Finalize marca la recolección como completada y calcula la duración.
func (r *CollectionResult) Finalize() {
	r.Metadata.EndTime = time.Now()
	r.Metadata.Duration = r.Metadata.EndTime.Sub(r.Metadata.StartTime)
}

// Outcome retorna el resultado de un módulo, si existe.
func (r *CollectionResult) Outcome(module string) (ModuleOutcome, bool) {
	o, ok := r.Sources[module]
	return o, ok
}

// Stats retorna el número de entidades agrupadas por tipo.
func (r *CollectionResult) Stats() map[string]int {
	stats := make(map[string]int)
	for _, e := range r.Entities {
		stats[string(e.Type)]++
	}
	return stats
}

// HasFailures indica si algún módulo falló durante la recolección.
func (r *CollectionResult) HasFailures() bool {
	return r.Metadata.ModulesFailed > 0
}

// Summary retorna un resumen legible del resultado.
func (r *CollectionResult) Summary() string {
	return fmt.Sprintf(
		"CollectionResult{target=%s, entities=%d, succeeded=%d, failed=%d, duration=%s}",
		r.Target.Value,
		len(r.Entities),
		r.Metadata.ModulesSucceeded,
		r.Metadata.ModulesFailed,
		r.Metadata.Duration,
	)
}
