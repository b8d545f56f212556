// internal/core/usecases/store_facade.go
package usecases

import (
	"context"

	"osintx/internal/core/domain"
	"osintx/internal/core/ports"
	"osintx/internal/platform/errors"
	"osintx/internal/platform/logx"
)

// SearchIndexName índice donde se documentan las recolecciones.
const SearchIndexName = "osint-results"

// ResultStore es la fachada de almacenamiento de resultados: persiste
// el grafo a través del GraphWriter y documenta la recolección en el
// índice de búsqueda. El fallo del grafo es fatal; el del índice se
// reporta pero llega después de que el grafo quedó consistente.
type ResultStore struct {
	writer *GraphWriter
	index  ports.SearchIndex
	logger logx.Logger
}

// NewResultStore crea una nueva fachada de almacenamiento.
func NewResultStore(writer *GraphWriter, index ports.SearchIndex, logger logx.Logger) *ResultStore {
	return &ResultStore{
		writer: writer,
		index:  index,
		logger: logger.With("component", "result-store"),
	}
}

// Store persiste el resultado en el grafo y lo indexa para búsqueda.
func (s *ResultStore) Store(ctx context.Context, result *domain.CollectionResult) error {
	if err := s.writer.Persist(ctx, result); err != nil {
		return err
	}

	if s.index == nil {
		return nil
	}

	doc := ports.Document{
		"id":        result.ID,
		"timestamp": result.Timestamp,
		"target": map[string]any{
			"value":   result.Target.Value,
			"type":    string(result.Target.Type),
			"modules": result.Target.Modules,
		},
		"sources":  result.Sources,
		"entities": result.Entities,
	}

	if err := s.index.IndexDocument(ctx, SearchIndexName, doc); err != nil {
		s.logger.Err(err, "target", result.Target.Value)
		return errors.Wrapf(domain.ErrIndexing, "index for target %s: %v", result.Target.Value, err)
	}

	s.logger.Debug("result indexed", "target", result.Target.Value, "index", SearchIndexName)
	return nil
}

// Search consulta el índice de recolecciones con texto libre.
func (s *ResultStore) Search(ctx context.Context, query string, limit int) ([]ports.Hit, error) {
	if s.index == nil {
		return []ports.Hit{}, nil
	}
	if limit <= 0 {
		limit = 20
	}
	return s.index.Search(ctx, SearchIndexName, query, limit)
}
