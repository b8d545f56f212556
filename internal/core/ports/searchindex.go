// internal/core/ports/searchindex.go
package ports

import "context"

// Document es un documento arbitrario a indexar para búsqueda de texto.
type Document map[string]any

// Hit es un resultado de búsqueda con su puntuación de relevancia.
type Hit struct {
	Score    float64  `json:"score"`
	Document Document `json:"document"`
}

// SearchIndex es el port secundario hacia el índice de búsqueda.
// El núcleo solo lo usa para escritura; la capa API lo consulta.
type SearchIndex interface {
	// IndexDocument indexa un documento en el índice dado
	IndexDocument(ctx context.Context, index string, doc Document) error

	// Search retorna los documentos que coinciden con la consulta,
	// ordenados por relevancia descendente
	Search(ctx context.Context, index, query string, limit int) ([]Hit, error)

	// Close libera la conexión al índice
	Close() error
}
