// internal/core/usecases/dedupe_service.go
package usecases

import (
	"osintx/internal/core/domain"
)

// DedupeService maneja la deduplicación de entidades extraídas.
// Cuando la misma entidad lógica (value, type) llega desde varios
// módulos, conserva la atribución de mayor confianza; en empate gana
// la primera en llegar. El orden de primera aparición se preserva.
type DedupeService struct{}

// NewDedupeService crea una nueva instancia del servicio.
func NewDedupeService() *DedupeService {
	return &DedupeService{}
}

// Deduplicate normaliza y fusiona duplicados de una lista de entidades.
func (d *DedupeService) Deduplicate(entities []domain.Entity) []domain.Entity {
	if len(entities) == 0 {
		return entities
	}

	seen := make(map[string]int, len(entities))
	result := make([]domain.Entity, 0, len(entities))

	for _, e := range entities {
		e.Normalize()
		if e.Value == "" || !e.Type.IsValid() {
			continue
		}

		key := e.Key()
		if idx, found := seen[key]; found {
			result[idx].Merge(e)
			continue
		}

		seen[key] = len(result)
		result = append(result, e)
	}

	return result
}

// FilterByType filtra entidades por tipo.
func (d *DedupeService) FilterByType(entities []domain.Entity, types ...domain.EntityType) []domain.Entity {
	if len(types) == 0 {
		return entities
	}

	typeMap := make(map[domain.EntityType]bool)
	for _, t := range types {
		typeMap[t] = true
	}

	filtered := make([]domain.Entity, 0)
	for _, e := range entities {
		if typeMap[e.Type] {
			filtered = append(filtered, e)
		}
	}

	return filtered
}

// FilterByConfidence filtra entidades por confianza mínima.
func (d *DedupeService) FilterByConfidence(entities []domain.Entity, minConfidence float64) []domain.Entity {
	filtered := make([]domain.Entity, 0)
	for _, e := range entities {
		if e.Confidence >= minConfidence {
			filtered = append(filtered, e)
		}
	}
	return filtered
}

// GroupByType agrupa entidades por tipo.
func (d *DedupeService) GroupByType(entities []domain.Entity) map[domain.EntityType][]domain.Entity {
	groups := make(map[domain.EntityType][]domain.Entity)
	for _, e := range entities {
		groups[e.Type] = append(groups[e.Type], e)
	}
	return groups
}
