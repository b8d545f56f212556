// internal/core/domain/target.go
package domain

import (
	"fmt"
	"strings"

	"osintx/internal/platform/validator"
)

// Target representa el objetivo de la recolección de inteligencia.
// Es inmutable una vez construido para una ejecución de recolección;
// su identidad es el par (Type, Value).
type Target struct {
	// Type clasifica el objetivo (domain, ip, email)
	Type TargetType

	// Value es el valor normalizado del objetivo
	Value string

	// Modules lista ordenada de módulos de recolección solicitados
	Modules []string

	// Priority prioridad de la recolección (mayor = más prioritario)
	Priority int
}

// NewTarget crea un nuevo target con valores por defecto.
func NewTarget(targetType TargetType, value string, modules []string) *Target {
	return &Target{
		Type:     targetType,
		Value:    strings.TrimSpace(value),
		Modules:  modules,
		Priority: 1,
	}
}

// Key retorna la clave de identidad del target (value:type).
func (t *Target) Key() string {
	return t.Value + ":" + string(t.Type)
}

// Validate verifica que el target sea válido.
// Normaliza el valor según el tipo antes de validar.
func (t *Target) Validate() error {
	if strings.TrimSpace(t.Value) == "" {
		return ErrEmptyTarget
	}

	if !t.Type.IsValid() {
		return fmt.Errorf("%w: %s", ErrInvalidTargetType, t.Type)
	}

	if len(t.Modules) == 0 {
		return ErrNoModulesRequested
	}

	switch t.Type {
	case TargetTypeDomain:
		t.Value = validator.NormalizeDomain(t.Value)
		if !validator.IsDomain(t.Value) {
			return fmt.Errorf("%w: %s", ErrInvalidDomain, t.Value)
		}
	case TargetTypeIP:
		t.Value = strings.TrimSpace(t.Value)
		if !validator.IsIP(t.Value) {
			return fmt.Errorf("%w: %s", ErrInvalidIP, t.Value)
		}
	case TargetTypeEmail:
		t.Value = validator.NormalizeEmail(t.Value)
		if !validator.IsEmail(t.Value) {
			return fmt.Errorf("%w: %s", ErrInvalidEmail, t.Value)
		}
	}

	return nil
}

// RequestsModule indica si el target solicitó el módulo dado.
func (t *Target) RequestsModule(name string) bool {
	for _, m := range t.Modules {
		if m == name {
			return true
		}
	}
	return false
}

// String retorna una representación legible del target.
func (t *Target) String() string {
	return fmt.Sprintf("Target{type=%s, value=%s, modules=%v}", t.Type, t.Value, t.Modules)
}
