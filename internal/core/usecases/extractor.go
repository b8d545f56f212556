// internal/core/usecases/extractor.go
package usecases

import (
	"fmt"
	"strings"

	"osintx/internal/core/domain"
	"osintx/internal/platform/validator"
)

// EntityExtractor convierte los datos crudos de un módulo en entidades.
// Opera sobre el árbol genérico (mapa/secuencia/escalar) sin asumir un
// esquema fijo por módulo: clasifica cada par (clave, valor) con una
// tabla cerrada de claves indicadoras y, en su defecto, con la forma
// del valor. Nunca falla: las formas no reconocidas se ignoran.
type EntityExtractor struct{}

// NewEntityExtractor crea una nueva instancia del extractor.
func NewEntityExtractor() *EntityExtractor {
	return &EntityExtractor{}
}

// keyVocabulary asocia claves indicadoras conocidas a un tipo de entidad.
var keyVocabulary = map[string]domain.EntityType{
	"ip":        domain.EntityTypeIP,
	"ips":       domain.EntityTypeIP,
	"ip_str":    domain.EntityTypeIP,
	"address":   domain.EntityTypeIP,
	"addresses": domain.EntityTypeIP,
	"domain":    domain.EntityTypeDomain,
	"domains":   domain.EntityTypeDomain,
	"host":      domain.EntityTypeDomain,
	"hosts":     domain.EntityTypeDomain,
	"hostname":  domain.EntityTypeDomain,
	"hostnames": domain.EntityTypeDomain,
	"subdomain": domain.EntityTypeDomain,
	"email":     domain.EntityTypeEmail,
	"emails":    domain.EntityTypeEmail,
	"contact":   domain.EntityTypeEmail,
	"contacts":  domain.EntityTypeEmail,
	"url":       domain.EntityTypeURL,
	"urls":      domain.EntityTypeURL,
	"link":      domain.EntityTypeURL,
	"links":     domain.EntityTypeURL,
	"port":      domain.EntityTypePort,
	"ports":     domain.EntityTypePort,
}

// Extract recorre los datos crudos de un módulo y retorna las entidades
// reconocidas en orden determinista (claves de mapa ordenadas, listas en
// su orden original).
func (e *EntityExtractor) Extract(module string, raw domain.RawData) []domain.Entity {
	entities := []domain.Entity{}
	e.walk(module, "", raw, &entities)
	return entities
}

// walk desciende por el árbol acumulando entidades. key es la clave de
// mapa más cercana al valor actual.
func (e *EntityExtractor) walk(module, key string, node domain.RawData, out *[]domain.Entity) {
	switch node.Kind {
	case domain.RawMap:
		for _, k := range node.SortedKeys() {
			e.walk(module, k, node.Map[k], out)
		}
	case domain.RawList:
		for _, item := range node.List {
			e.walk(module, key, item, out)
		}
	case domain.RawScalar:
		e.classify(module, key, node.Scalar, out)
	}
}

// classify decide si el par (clave, valor escalar) es una entidad.
func (e *EntityExtractor) classify(module, key string, value any, out *[]domain.Entity) {
	text := scalarText(value)
	if text == "" {
		return
	}

	// Política por vocabulario de claves primero
	if entityType, ok := keyVocabulary[strings.ToLower(key)]; ok {
		if validated, ok := validateValue(entityType, text); ok {
			*out = append(*out, domain.NewEntity(entityType, validated, module, domain.ScoreConfidence(module, strings.ToLower(key))))
			return
		}
	}

	// Fallback por forma del valor
	if entityType, ok := shapeOf(text); ok {
		*out = append(*out, domain.NewEntity(entityType, text, module, domain.ScoreConfidence(module, strings.ToLower(key))))
	}
}

// scalarText retorna la representación textual de un escalar entidad-candidato.
func scalarText(value any) string {
	switch v := value.(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		// Números enteros (ej: puertos decodificados de JSON)
		if v == float64(int64(v)) {
			return fmt.Sprintf("%d", int64(v))
		}
		return ""
	case int:
		return fmt.Sprintf("%d", v)
	default:
		return ""
	}
}

// validateValue confirma que el valor tenga la forma del tipo declarado
// por la clave. Evita que una clave indicadora arrastre basura.
func validateValue(entityType domain.EntityType, value string) (string, bool) {
	switch entityType {
	case domain.EntityTypeIP:
		if validator.IsIP(value) {
			return validator.NormalizeIP(value), true
		}
	case domain.EntityTypeDomain:
		if validator.IsHostname(value) {
			return validator.NormalizeDomain(value), true
		}
	case domain.EntityTypeEmail:
		if validator.IsEmail(value) {
			return validator.NormalizeEmail(value), true
		}
	case domain.EntityTypeURL:
		if validator.IsURL(value) {
			return validator.NormalizeURL(value), true
		}
	case domain.EntityTypePort:
		if validator.IsPort(value) {
			return value, true
		}
	}
	return "", false
}

// shapeOf clasifica un valor suelto por su forma.
func shapeOf(value string) (domain.EntityType, bool) {
	switch {
	case validator.IsIP(value):
		return domain.EntityTypeIP, true
	case validator.IsEmail(value):
		return domain.EntityTypeEmail, true
	case validator.IsURL(value):
		return domain.EntityTypeURL, true
	case validator.IsHostname(value):
		return domain.EntityTypeDomain, true
	default:
		return "", false
	}
}
