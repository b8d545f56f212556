// internal/core/usecases/projector.go
package usecases

import (
	"context"
	"sort"

	"osintx/internal/core/domain"
	"osintx/internal/core/ports"
	"osintx/internal/platform/errors"
	"osintx/internal/platform/logx"
)

// VisualizationProjector proyecta el subgrafo persistido de un target
// en un payload de nodos y aristas listo para el frontend. Es una
// proyección de solo lectura: se recalcula en cada petición y nunca se
// persiste. Un target sin datos produce un payload vacío, no un error.
type VisualizationProjector struct {
	store  ports.GraphStore
	logger logx.Logger
}

// NewVisualizationProjector crea un nuevo projector.
func NewVisualizationProjector(store ports.GraphStore, logger logx.Logger) *VisualizationProjector {
	return &VisualizationProjector{
		store:  store,
		logger: logger.With("component", "projector"),
	}
}

// Project consulta el subgrafo del target (emparejado solo por value)
// y emite un nodo por el target, un nodo por cada entidad conectada y
// una arista por relación, preservando el orden de recorrido del
// almacén.
func (p *VisualizationProjector) Project(ctx context.Context, targetValue string) (domain.VisualizationPayload, error) {
	target, entities, edges, err := p.store.QueryTargetSubgraph(ctx, targetValue)
	if err != nil {
		p.logger.Err(err, "target", targetValue)
		return domain.VisualizationPayload{}, errors.Wrapf(domain.ErrPersistence, "subgraph query for %s: %v", targetValue, err)
	}

	// Target nunca recolectado: estado legítimo, payload vacío
	if target == nil {
		p.logger.Debug("projection miss", "target", targetValue)
		return domain.EmptyVisualizationPayload(), nil
	}

	payload := domain.VisualizationPayload{
		Nodes: make([]domain.VizNode, 0, len(entities)+1),
		Edges: make([]domain.VizEdge, 0, len(edges)),
	}

	payload.Nodes = append(payload.Nodes, domain.VizNode{
		ID:    target.Value,
		Label: target.Value,
		Type:  "target",
		Size:  domain.VizTargetSize,
	})

	sources := make(map[string]bool, len(entities))
	for _, entity := range entities {
		payload.Nodes = append(payload.Nodes, domain.VizNode{
			ID:         entity.Value,
			Label:      entity.Value,
			Type:       string(entity.Type),
			Size:       domain.VizEntitySize,
			Source:     entity.Source,
			Confidence: entity.Confidence,
		})
		if entity.Source != "" {
			sources[entity.Source] = true
		}
	}

	for _, edge := range edges {
		payload.Edges = append(payload.Edges, domain.VizEdge{
			From:  edge.From.Value,
			To:    edge.To.Value,
			Label: domain.VizEdgeLabel,
		})
	}

	payload.Metadata = domain.VizMetadata{
		TotalEntities: len(payload.Nodes) - 1,
		Sources:       sortedKeys(sources),
	}

	return payload, nil
}

// sortedKeys retorna las claves del set en orden lexicográfico.
func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
