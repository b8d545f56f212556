// internal/core/domain/visualization.go
package domain

// Tamaños de nodo para la proyección de visualización.
const (
	// VizTargetSize tamaño del nodo target
	VizTargetSize = 20

	// VizEntitySize tamaño de los nodos entidad
	VizEntitySize = 10

	// VizEdgeLabel etiqueta de las aristas target→entidad
	VizEdgeLabel = "found_in"
)

// VizNode representa un nodo en el payload de visualización.
type VizNode struct {
	// ID identificador del nodo (el valor del target o la entidad)
	ID string `json:"id"`

	// Label etiqueta visible del nodo
	Label string `json:"label"`

	// Type tipo del nodo (target o tipo de entidad)
	Type string `json:"type"`

	// Size tamaño relativo del nodo
	Size int `json:"size"`

	// Source módulo que descubrió la entidad (vacío para el target)
	Source string `json:"source,omitempty"`

	// Confidence confianza de la entidad (cero para el target)
	Confidence float64 `json:"confidence,omitempty"`
}

// VizEdge representa una arista dirigida en el payload de visualización.
type VizEdge struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Label string `json:"label"`
}

// VizMetadata resume el contenido del payload.
type VizMetadata struct {
	// TotalEntities número de nodos entidad emitidos
	TotalEntities int `json:"total_entities"`

	// Sources conjunto de módulos con entidades emitidas, ordenado
	Sources []string `json:"sources"`
}

// VisualizationPayload es la proyección de lectura del subgrafo de un
// target. Es derivado y efímero: se recalcula en cada petición, nunca
// se persiste.
type VisualizationPayload struct {
	Nodes    []VizNode   `json:"nodes"`
	Edges    []VizEdge   `json:"edges"`
	Metadata VizMetadata `json:"metadata"`
}

// EmptyVisualizationPayload retorna el payload vacío que se emite
// cuando el target no existe en el grafo. Visualizar un target nunca
// recolectado no es un error.
func EmptyVisualizationPayload() VisualizationPayload {
	return VisualizationPayload{
		Nodes: []VizNode{},
		Edges: []VizEdge{},
		Metadata: VizMetadata{
			TotalEntities: 0,
			Sources:       []string{},
		},
	}
}

// IsEmpty indica si el payload no contiene nodos.
func (p VisualizationPayload) IsEmpty() bool {
	return len(p.Nodes) == 0
}
