// internal/core/domain/entity.go
package domain

import (
	"fmt"
	"strings"
)

// Entity representa un dato descubierto por un módulo de recolección.
// Su identidad para persistencia es el par (Value, Type); el par
// (Source, Confidence) es la atribución ganadora según la política
// de fusión (ver Merge).
type Entity struct {
	// Type clasifica la entidad
	Type EntityType `json:"type"`

	// Value es el valor normalizado de la entidad
	Value string `json:"value"`

	// Source módulo que descubrió la entidad
	Source string `json:"source"`

	// Confidence confianza del descubrimiento [0.0-1.0]
	Confidence float64 `json:"confidence"`
}

// NewEntity crea una nueva entidad normalizada.
func NewEntity(entityType EntityType, value, source string, confidence float64) Entity {
	e := Entity{
		Type:       entityType,
		Value:      value,
		Source:     source,
		Confidence: confidence,
	}
	e.Normalize()
	return e
}

// Normalize normaliza el valor de la entidad según su tipo.
func (e *Entity) Normalize() {
	e.Value = strings.TrimSpace(e.Value)

	switch e.Type {
	case EntityTypeDomain, EntityTypeEmail:
		e.Value = strings.ToLower(e.Value)
	case EntityTypeURL:
		e.Value = strings.TrimRight(e.Value, "/")
	}
}

// Key retorna la clave de identidad de la entidad (value:type).
func (e *Entity) Key() string {
	return e.Value + ":" + string(e.Type)
}

// Merge combina la atribución de otra entidad con la misma clave.
// Política: gana la confianza más alta; en empate se conserva la
// atribución existente (orden de llegada).
func (e *Entity) Merge(other Entity) error {
	if e.Key() != other.Key() {
		return fmt.Errorf("cannot merge entities with different keys: %s != %s", e.Key(), other.Key())
	}
	if other.Confidence > e.Confidence {
		e.Source = other.Source
		e.Confidence = other.Confidence
	}
	return nil
}

// String retorna una representación legible de la entidad.
func (e Entity) String() string {
	return fmt.Sprintf("%s:%s (source=%s, confidence=%.2f)", e.Type, e.Value, e.Source, e.Confidence)
}
