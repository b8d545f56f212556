// internal/core/domain/errors.go
package domain

import "errors"

// Errores de dominio comunes.
var (
	// Target errors (validación, fatales antes de recolectar)
	ErrEmptyTarget       = errors.New("target cannot be empty")
	ErrInvalidTargetType = errors.New("invalid target type")
	ErrInvalidDomain     = errors.New("invalid domain format")
	ErrInvalidIP         = errors.New("invalid ip address")
	ErrInvalidEmail      = errors.New("invalid email format")
	ErrNoModulesRequested = errors.New("no collection modules requested")

	// Module errors
	ErrUnknownModule   = errors.New("unknown collection module")
	ErrModuleNotReady  = errors.New("module not configured")
	ErrModuleExecution = errors.New("module execution failed")

	// Persistence errors (fatales para la llamada a persist)
	ErrPersistence = errors.New("graph persistence failed")

	// Index errors
	ErrIndexing = errors.New("search indexing failed")
)
