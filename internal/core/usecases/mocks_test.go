// internal/core/usecases/mocks_test.go
package usecases

import (
	"context"
	"sync"

	"osintx/internal/core/domain"
	"osintx/internal/core/ports"
)

// mockModule es un mock de ports.Module para tests del orchestrator
type mockModule struct {
	name           string
	startFunc      func(ctx context.Context, target domain.Target) (ports.Handle, error)
	fetchFunc      func(ctx context.Context, handle ports.Handle) (domain.RawData, error)
	startCallCount int
	fetchCallCount int
}

func newMockModule(name string) *mockModule {
	return &mockModule{name: name}
}

func (m *mockModule) Name() string {
	return m.name
}

func (m *mockModule) Start(ctx context.Context, target domain.Target) (ports.Handle, error) {
	m.startCallCount++
	if m.startFunc != nil {
		return m.startFunc(ctx, target)
	}
	return ports.Handle(m.name + ":" + target.Value), nil
}

func (m *mockModule) Fetch(ctx context.Context, handle ports.Handle) (domain.RawData, error) {
	m.fetchCallCount++
	if m.fetchFunc != nil {
		return m.fetchFunc(ctx, handle)
	}
	return domain.NewMap(nil), nil
}

func (m *mockModule) Close() error {
	return nil
}

// mockModuleWithData crea un mock que entrega datos crudos fijos.
func mockModuleWithData(name string, raw domain.RawData) *mockModule {
	mock := newMockModule(name)
	mock.fetchFunc = func(ctx context.Context, handle ports.Handle) (domain.RawData, error) {
		return raw, nil
	}
	return mock
}

// mockModuleWithError crea un mock cuyo fetch siempre falla.
func mockModuleWithError(name string, err error) *mockModule {
	mock := newMockModule(name)
	mock.fetchFunc = func(ctx context.Context, handle ports.Handle) (domain.RawData, error) {
		return domain.RawData{}, err
	}
	return mock
}

// mockGraphStore es un mock transaccional en memoria de ports.GraphStore.
type mockGraphStore struct {
	mu      sync.Mutex
	targets map[ports.NodeKey]ports.TargetNode
	ents    map[ports.NodeKey]ports.EntityNode
	edges   map[[2]ports.NodeKey]ports.EdgeRecord

	txCount  int
	failTx   error
	queryErr error
}

func newMockGraphStore() *mockGraphStore {
	return &mockGraphStore{
		targets: make(map[ports.NodeKey]ports.TargetNode),
		ents:    make(map[ports.NodeKey]ports.EntityNode),
		edges:   make(map[[2]ports.NodeKey]ports.EdgeRecord),
	}
}

// mockGraphTx acumula escrituras y las aplica solo en commit.
type mockGraphTx struct {
	store   *mockGraphStore
	targets []ports.TargetNode
	ents    []ports.EntityNode
	edges   []ports.EdgeRecord
}

func (tx *mockGraphTx) UpsertTargetNode(ctx context.Context, node ports.TargetNode) error {
	tx.targets = append(tx.targets, node)
	return nil
}

func (tx *mockGraphTx) UpsertEntityNode(ctx context.Context, node ports.EntityNode) error {
	tx.ents = append(tx.ents, node)
	return nil
}

func (tx *mockGraphTx) UpsertEdge(ctx context.Context, edge ports.EdgeRecord) error {
	tx.edges = append(tx.edges, edge)
	return nil
}

func (s *mockGraphStore) WithinTx(ctx context.Context, fn func(tx ports.GraphTx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.txCount++

	if s.failTx != nil {
		return s.failTx
	}

	tx := &mockGraphTx{store: s}
	if err := fn(tx); err != nil {
		return err
	}

	// Commit: aplicar escrituras acumuladas
	for _, t := range tx.targets {
		s.targets[ports.NodeKey{Value: t.Value, Type: string(t.Type)}] = t
	}
	for _, e := range tx.ents {
		key := ports.NodeKey{Value: e.Value, Type: string(e.Type)}
		if existing, ok := s.ents[key]; !ok || e.Confidence > existing.Confidence {
			s.ents[key] = e
		}
	}
	for _, e := range tx.edges {
		s.edges[[2]ports.NodeKey{e.From, e.To}] = e
	}

	return nil
}

func (s *mockGraphStore) QueryTargetSubgraph(ctx context.Context, targetValue string) (*ports.TargetNode, []ports.EntityNode, []ports.EdgeRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.queryErr != nil {
		return nil, nil, nil, s.queryErr
	}

	var target *ports.TargetNode
	for _, t := range s.targets {
		if t.Value == targetValue {
			copied := t
			target = &copied
			break
		}
	}
	if target == nil {
		return nil, nil, nil, nil
	}

	targetKey := ports.NodeKey{Value: target.Value, Type: string(target.Type)}
	var entities []ports.EntityNode
	var edges []ports.EdgeRecord
	for pair, edge := range s.edges {
		if pair[0] != targetKey {
			continue
		}
		if ent, ok := s.ents[pair[1]]; ok {
			entities = append(entities, ent)
			edges = append(edges, edge)
		}
	}

	return target, entities, edges, nil
}

func (s *mockGraphStore) Close() error { return nil }

func (s *mockGraphStore) nodeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.targets) + len(s.ents)
}

func (s *mockGraphStore) edgeCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.edges)
}

// mockSearchIndex es un mock en memoria de ports.SearchIndex.
type mockSearchIndex struct {
	mu        sync.Mutex
	docs      map[string][]ports.Document
	indexErr  error
	searchErr error
}

func newMockSearchIndex() *mockSearchIndex {
	return &mockSearchIndex{docs: make(map[string][]ports.Document)}
}

func (s *mockSearchIndex) IndexDocument(ctx context.Context, index string, doc ports.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexErr != nil {
		return s.indexErr
	}
	s.docs[index] = append(s.docs[index], doc)
	return nil
}

func (s *mockSearchIndex) Search(ctx context.Context, index, query string, limit int) ([]ports.Hit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.searchErr != nil {
		return nil, s.searchErr
	}

	hits := make([]ports.Hit, 0)
	for _, doc := range s.docs[index] {
		hits = append(hits, ports.Hit{Score: 1.0, Document: doc})
		if len(hits) >= limit {
			break
		}
	}
	return hits, nil
}

func (s *mockSearchIndex) Close() error { return nil }
