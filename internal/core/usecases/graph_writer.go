// internal/core/usecases/graph_writer.go
package usecases

import (
	"context"
	"sort"
	"sync"
	"time"

	"osintx/internal/core/domain"
	"osintx/internal/core/ports"
	"osintx/internal/platform/errors"
	"osintx/internal/platform/logx"
)

// GraphWriter persiste un CollectionResult en el almacén de grafo.
// Todas las escrituras de una llamada Persist ocurren dentro de una
// única transacción atómica: upsert del nodo target, upsert de cada
// nodo entidad y upsert de la arista FOUND_IN target→entidad. Todos
// los upserts son idempotentes, por lo que re-persistir el mismo
// resultado no duplica nodos ni aristas.
type GraphWriter struct {
	store  ports.GraphStore
	logger logx.Logger

	// Exclusión mutua por identidad de target: escrituras concurrentes
	// sobre el mismo target se serializan para que los upserts en
	// conflicto no interbloqueen la transacción del almacén.
	mu      sync.Mutex
	targets map[string]*sync.Mutex
}

// NewGraphWriter crea un nuevo GraphWriter.
func NewGraphWriter(store ports.GraphStore, logger logx.Logger) *GraphWriter {
	return &GraphWriter{
		store:   store,
		logger:  logger.With("component", "graph-writer"),
		targets: make(map[string]*sync.Mutex),
	}
}

// Persist escribe el resultado completo en el grafo de forma atómica.
// Cualquier fallo del almacén se reporta como error de persistencia y
// no deja estado parcial observable.
func (w *GraphWriter) Persist(ctx context.Context, result *domain.CollectionResult) error {
	if result == nil {
		return errors.Wrap(domain.ErrPersistence, "nil result")
	}

	lock := w.targetLock(result.Target.Key())
	lock.Lock()
	defer lock.Unlock()

	timestamp, err := time.Parse(time.RFC3339, result.Timestamp)
	if err != nil {
		timestamp = time.Now().UTC()
	}

	// Orden de escritura determinista
	entities := make([]domain.Entity, len(result.Entities))
	copy(entities, result.Entities)
	sort.Slice(entities, func(i, j int) bool {
		if entities[i].Type == entities[j].Type {
			return entities[i].Value < entities[j].Value
		}
		return entities[i].Type < entities[j].Type
	})

	targetKey := ports.NodeKey{Value: result.Target.Value, Type: string(result.Target.Type)}

	err = w.store.WithinTx(ctx, func(tx ports.GraphTx) error {
		if err := tx.UpsertTargetNode(ctx, ports.TargetNode{
			Value:       result.Target.Value,
			Type:        result.Target.Type,
			LastUpdated: timestamp,
		}); err != nil {
			return err
		}

		for _, entity := range entities {
			if err := tx.UpsertEntityNode(ctx, ports.EntityNode{
				Value:      entity.Value,
				Type:       entity.Type,
				Source:     entity.Source,
				Confidence: entity.Confidence,
			}); err != nil {
				return err
			}

			if err := tx.UpsertEdge(ctx, ports.EdgeRecord{
				From:  targetKey,
				To:    ports.NodeKey{Value: entity.Value, Type: string(entity.Type)},
				Label: "FOUND_IN",
			}); err != nil {
				return err
			}
		}

		return nil
	})

	if err != nil {
		w.logger.Err(err, "target", result.Target.Value)
		return errors.Wrapf(domain.ErrPersistence, "persist for target %s: %v", result.Target.Value, err)
	}

	w.logger.Info("result persisted",
		"target", result.Target.Value,
		"entities", len(entities),
	)

	return nil
}

// targetLock retorna el mutex asociado a la identidad del target.
func (w *GraphWriter) targetLock(key string) *sync.Mutex {
	w.mu.Lock()
	defer w.mu.Unlock()

	lock, ok := w.targets[key]
	if !ok {
		lock = &sync.Mutex{}
		w.targets[key] = lock
	}
	return lock
}
