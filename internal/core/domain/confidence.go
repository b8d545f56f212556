// internal/core/domain/confidence.go
package domain

// Niveles de confianza para entidades descubiertas.
// Representan cuánta certeza hay de que una entidad sea válida y actual.
const (
	// ConfidenceLow dato histórico o sin verificación
	ConfidenceLow float64 = 0.3

	// ConfidenceMedium descubrimiento pasivo sin verificación directa
	ConfidenceMedium float64 = 0.6

	// ConfidenceHigh descubrimiento desde una fuente oficial o activa
	ConfidenceHigh float64 = 0.8

	// ConfidenceVerified verificación directa de la entidad
	ConfidenceVerified float64 = 0.95

	// ConfidenceDefault valor por defecto para combinaciones desconocidas
	ConfidenceDefault float64 = 0.5
)

// confidenceTable asigna una confianza a cada par (módulo, clave de
// extracción) conocido. Es una tabla cerrada: la función de score es
// determinista y las combinaciones no listadas reciben ConfidenceDefault.
var confidenceTable = map[string]map[string]float64{
	"shodan": {
		"ip":        ConfidenceVerified,
		"ip_str":    ConfidenceVerified,
		"hostnames": ConfidenceHigh,
		"domains":   ConfidenceHigh,
		"ports":     ConfidenceVerified,
		"port":      ConfidenceVerified,
	},
	"harvester": {
		"hosts":  ConfidenceMedium,
		"emails": ConfidenceMedium,
		"ips":    ConfidenceMedium,
		"urls":   ConfidenceLow,
	},
	"spiderfoot": {
		"ip":        ConfidenceHigh,
		"domain":    ConfidenceHigh,
		"subdomain": ConfidenceMedium,
		"email":     ConfidenceMedium,
		"url":       ConfidenceLow,
	},
	"reconng": {
		"hosts":     ConfidenceMedium,
		"ip":        ConfidenceMedium,
		"contacts":  ConfidenceMedium,
		"email":     ConfidenceMedium,
		"locations": ConfidenceLow,
	},
}

// ScoreConfidence retorna la confianza para un par (módulo, clave).
// Es una función pura: las mismas entradas producen siempre el mismo
// valor. Las combinaciones desconocidas reciben ConfidenceDefault.
func ScoreConfidence(module, key string) float64 {
	if keys, ok := confidenceTable[module]; ok {
		if score, ok := keys[key]; ok {
			return score
		}
	}
	return ConfidenceDefault
}

// ConfidenceLabel retorna una etiqueta legible para un valor de confianza.
func ConfidenceLabel(confidence float64) string {
	switch {
	case confidence >= ConfidenceVerified:
		return "verified"
	case confidence >= ConfidenceHigh:
		return "high"
	case confidence >= ConfidenceMedium:
		return "medium"
	case confidence >= ConfidenceLow:
		return "low"
	default:
		return "unknown"
	}
}
