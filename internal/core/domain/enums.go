// internal/core/domain/enums.go
package domain

// TargetType define el tipo de objetivo sobre el que se recolecta inteligencia.
type TargetType string

const (
	// TargetTypeDomain objetivo de tipo dominio (ej: example.com)
	TargetTypeDomain TargetType = "domain"

	// TargetTypeIP objetivo de tipo dirección IP
	TargetTypeIP TargetType = "ip"

	// TargetTypeEmail objetivo de tipo dirección de correo
	TargetTypeEmail TargetType = "email"
)

// IsValid verifica si el tipo de target es válido.
func (t TargetType) IsValid() bool {
	switch t {
	case TargetTypeDomain, TargetTypeIP, TargetTypeEmail:
		return true
	default:
		return false
	}
}

// String retorna la representación string del tipo.
func (t TargetType) String() string {
	return string(t)
}

// EntityType clasifica las entidades descubiertas por los módulos.
type EntityType string

const (
	// EntityTypeIP dirección IP descubierta
	EntityTypeIP EntityType = "ip"

	// EntityTypeDomain dominio o hostname descubierto
	EntityTypeDomain EntityType = "domain"

	// EntityTypeEmail dirección de correo descubierta
	EntityTypeEmail EntityType = "email"

	// EntityTypeURL URL descubierta
	EntityTypeURL EntityType = "url"

	// EntityTypePort puerto expuesto descubierto
	EntityTypePort EntityType = "port"
)

// IsValid verifica si el tipo de entidad es válido.
func (t EntityType) IsValid() bool {
	switch t {
	case EntityTypeIP, EntityTypeDomain, EntityTypeEmail, EntityTypeURL, EntityTypePort:
		return true
	default:
		return false
	}
}

// String retorna la representación string del tipo.
func (t EntityType) String() string {
	return string(t)
}

// OutcomeStatus define el estado terminal de la ejecución de un módulo.
type OutcomeStatus string

const (
	// OutcomeSuccess el módulo completó y entregó datos
	OutcomeSuccess OutcomeStatus = "success"

	// OutcomeFailure el módulo falló o excedió su timeout
	OutcomeFailure OutcomeStatus = "failure"
)

// String retorna la representación string del estado.
func (s OutcomeStatus) String() string {
	return string(s)
}
