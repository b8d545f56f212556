// internal/core/domain/outcome.go
package domain

// ModuleOutcome representa el resultado terminal de la ejecución de un
// módulo dentro de una recolección. Un fallo de módulo se registra aquí
// en lugar de propagarse: no aborta la recolección de los demás módulos.
type ModuleOutcome struct {
	// Status estado terminal (success o failure)
	Status OutcomeStatus `json:"status"`

	// Raw datos crudos entregados por el módulo (solo en success)
	Raw RawData `json:"raw,omitempty"`

	// Error mensaje de fallo (solo en failure)
	Error string `json:"error,omitempty"`
}

// SuccessOutcome construye un resultado exitoso con los datos crudos.
func SuccessOutcome(raw RawData) ModuleOutcome {
	return ModuleOutcome{Status: OutcomeSuccess, Raw: raw}
}

// FailureOutcome construye un resultado fallido con el mensaje de error.
func FailureOutcome(message string) ModuleOutcome {
	return ModuleOutcome{Status: OutcomeFailure, Error: message}
}

// IsSuccess indica si el módulo completó con éxito.
func (o ModuleOutcome) IsSuccess() bool {
	return o.Status == OutcomeSuccess
}
