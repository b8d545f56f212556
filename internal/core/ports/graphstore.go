// internal/core/ports/graphstore.go
package ports

import (
	"context"
	"time"

	"osintx/internal/core/domain"
)

// NodeKey identifica un nodo del grafo por su par (value, type).
type NodeKey struct {
	Value string
	Type  string
}

// TargetNode es la representación persistida de un target.
type TargetNode struct {
	Value       string
	Type        domain.TargetType
	LastUpdated time.Time
}

// EntityNode es la representación persistida de una entidad descubierta.
type EntityNode struct {
	Value      string
	Type       domain.EntityType
	Source     string
	Confidence float64
}

// EdgeRecord es una arista dirigida persistida entre dos nodos.
type EdgeRecord struct {
	From  NodeKey
	To    NodeKey
	Label string
}

// GraphTx expone las operaciones de escritura disponibles dentro de una
// transacción del grafo. Todas las escrituras son upserts idempotentes.
type GraphTx interface {
	// UpsertTargetNode crea o actualiza un nodo target por (value, type)
	UpsertTargetNode(ctx context.Context, node TargetNode) error

	// UpsertEntityNode crea o actualiza un nodo entidad por (value, type)
	UpsertEntityNode(ctx context.Context, node EntityNode) error

	// UpsertEdge crea una arista si no existe; re-ejecutar no duplica
	UpsertEdge(ctx context.Context, edge EdgeRecord) error
}

// GraphStore es el port secundario hacia el almacén de grafo.
type GraphStore interface {
	// WithinTx ejecuta fn dentro de una transacción atómica: o todas las
	// escrituras son visibles o ninguna lo es
	WithinTx(ctx context.Context, fn func(tx GraphTx) error) error

	// QueryTargetSubgraph retorna el target (emparejado solo por value),
	// sus entidades alcanzables vía aristas salientes y dichas aristas.
	// Si el target no existe retorna (nil, nil, nil, nil).
	QueryTargetSubgraph(ctx context.Context, targetValue string) (*TargetNode, []EntityNode, []EdgeRecord, error)

	// Close libera la conexión al almacén
	Close() error
}
