// internal/core/domain/rawdata.go
package domain

import (
	"encoding/json"
	"sort"
)

// RawKind clasifica un nodo del árbol de datos crudos de un módulo.
type RawKind int

const (
	// RawScalar valor hoja (string, número, booleano o null)
	RawScalar RawKind = iota

	// RawList secuencia ordenada de valores
	RawList

	// RawMap mapa de string a valor
	RawMap
)

// RawData representa la salida cruda de un módulo como un árbol etiquetado
// (escalar | secuencia | mapa). Cada módulo produce formas distintas; este
// tipo permite recorrerlas sin asumir un esquema fijo.
type RawData struct {
	Kind   RawKind
	Scalar any
	List   []RawData
	Map    map[string]RawData
}

// Scalar construye un nodo escalar.
func NewScalar(v any) RawData {
	return RawData{Kind: RawScalar, Scalar: v}
}

// NewList construye un nodo secuencia.
func NewList(items ...RawData) RawData {
	return RawData{Kind: RawList, List: items}
}

// NewMap construye un nodo mapa.
func NewMap(m map[string]RawData) RawData {
	if m == nil {
		m = map[string]RawData{}
	}
	return RawData{Kind: RawMap, Map: m}
}

// RawFromAny convierte un valor ya decodificado (JSON genérico) en RawData.
// Valores de tipos no reconocidos se tratan como escalares.
func RawFromAny(v any) RawData {
	switch t := v.(type) {
	case map[string]any:
		m := make(map[string]RawData, len(t))
		for k, child := range t {
			m[k] = RawFromAny(child)
		}
		return RawData{Kind: RawMap, Map: m}
	case []any:
		list := make([]RawData, 0, len(t))
		for _, child := range t {
			list = append(list, RawFromAny(child))
		}
		return RawData{Kind: RawList, List: list}
	default:
		return RawData{Kind: RawScalar, Scalar: v}
	}
}

// RawFromJSON decodifica un blob JSON en RawData.
func RawFromJSON(data []byte) (RawData, error) {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return RawData{}, err
	}
	return RawFromAny(v), nil
}

// ToAny convierte el árbol de vuelta a valores JSON genéricos.
func (r RawData) ToAny() any {
	switch r.Kind {
	case RawMap:
		m := make(map[string]any, len(r.Map))
		for k, child := range r.Map {
			m[k] = child.ToAny()
		}
		return m
	case RawList:
		list := make([]any, 0, len(r.List))
		for _, child := range r.List {
			list = append(list, child.ToAny())
		}
		return list
	default:
		return r.Scalar
	}
}

// MarshalJSON serializa el árbol como el JSON original.
func (r RawData) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.ToAny())
}

// UnmarshalJSON reconstruye el árbol desde JSON.
func (r *RawData) UnmarshalJSON(data []byte) error {
	parsed, err := RawFromJSON(data)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// SortedKeys retorna las claves del mapa en orden lexicográfico.
// Garantiza recorridos deterministas sobre mapas.
func (r RawData) SortedKeys() []string {
	if r.Kind != RawMap {
		return nil
	}
	keys := make([]string, 0, len(r.Map))
	for k := range r.Map {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// StringValue retorna el escalar como string si lo es.
func (r RawData) StringValue() (string, bool) {
	if r.Kind != RawScalar {
		return "", false
	}
	s, ok := r.Scalar.(string)
	return s, ok
}
