// internal/adapters/output/json.go
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"osintx/internal/core/domain"
)

// sanitizeTargetName convierte un valor de target en un nombre de
// carpeta válido. Ejemplo: "example.com" -> "example_com"
func sanitizeTargetName(value string) string {
	sanitized := strings.ReplaceAll(value, ".", "_")
	sanitized = strings.ReplaceAll(sanitized, "@", "_at_")
	sanitized = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_' || r == '-' {
			return r
		}
		return '_'
	}, sanitized)
	return sanitized
}

// WriteJSON exporta el resultado de recolección a un archivo JSON bajo
// un subdirectorio por target. Retorna la ruta del archivo creado.
func WriteJSON(dir string, result *domain.CollectionResult) (string, error) {
	if dir == "" {
		dir = "."
	}

	targetDir := sanitizeTargetName(result.Target.Value)
	fullDir := filepath.Join(dir, targetDir)

	if err := os.MkdirAll(fullDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("osintx_%s_%s.json", targetDir, timestamp)
	path := filepath.Join(fullDir, filename)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		return "", fmt.Errorf("failed to encode JSON: %w", err)
	}

	return path, nil
}

// WriteJSONTo exporta el resultado al writer dado.
func WriteJSONTo(w io.Writer, result *domain.CollectionResult, pretty bool) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(result)
}

// CollectionSummary es un resumen serializable de una recolección.
type CollectionSummary struct {
	Target           string         `json:"target"`
	TargetType       string         `json:"target_type"`
	Timestamp        string         `json:"timestamp"`
	TotalEntities    int            `json:"total_entities"`
	EntitiesByType   map[string]int `json:"entities_by_type"`
	ModulesSucceeded int            `json:"modules_succeeded"`
	ModulesFailed    int            `json:"modules_failed"`
	DurationMs       int64          `json:"duration_ms"`
}

// BuildSummary construye el resumen de un resultado de recolección.
func BuildSummary(result *domain.CollectionResult) CollectionSummary {
	return CollectionSummary{
		Target:           result.Target.Value,
		TargetType:       string(result.Target.Type),
		Timestamp:        result.Timestamp,
		TotalEntities:    len(result.Entities),
		EntitiesByType:   result.Stats(),
		ModulesSucceeded: result.Metadata.ModulesSucceeded,
		ModulesFailed:    result.Metadata.ModulesFailed,
		DurationMs:       result.Metadata.Duration.Milliseconds(),
	}
}
