// internal/adapters/httpapi/server_test.go
package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"osintx/internal/core/domain"
	"osintx/internal/core/ports"
	"osintx/internal/core/usecases"
	"osintx/internal/platform/logx"
	"osintx/internal/testutil"
)

// stubModule returns fixed raw data for every target.
type stubModule struct {
	name string
	raw  domain.RawData
	err  error
}

func (m *stubModule) Name() string { return m.name }

func (m *stubModule) Start(ctx context.Context, target domain.Target) (ports.Handle, error) {
	return ports.Handle(target.Value), nil
}

func (m *stubModule) Fetch(ctx context.Context, handle ports.Handle) (domain.RawData, error) {
	if m.err != nil {
		return domain.RawData{}, m.err
	}
	return m.raw, nil
}

func (m *stubModule) Close() error { return nil }

// memGraphStore is a minimal in-memory graph for API tests.
type memGraphStore struct {
	targets  map[string]ports.TargetNode
	entities map[ports.NodeKey]ports.EntityNode
	edges    []ports.EdgeRecord
}

func newMemGraphStore() *memGraphStore {
	return &memGraphStore{
		targets:  make(map[string]ports.TargetNode),
		entities: make(map[ports.NodeKey]ports.EntityNode),
	}
}

type memGraphTx struct{ store *memGraphStore }

func (tx *memGraphTx) UpsertTargetNode(ctx context.Context, node ports.TargetNode) error {
	tx.store.targets[node.Value] = node
	return nil
}

func (tx *memGraphTx) UpsertEntityNode(ctx context.Context, node ports.EntityNode) error {
	tx.store.entities[ports.NodeKey{Value: node.Value, Type: string(node.Type)}] = node
	return nil
}

func (tx *memGraphTx) UpsertEdge(ctx context.Context, edge ports.EdgeRecord) error {
	for _, existing := range tx.store.edges {
		if existing == edge {
			return nil
		}
	}
	tx.store.edges = append(tx.store.edges, edge)
	return nil
}

func (s *memGraphStore) WithinTx(ctx context.Context, fn func(tx ports.GraphTx) error) error {
	return fn(&memGraphTx{store: s})
}

func (s *memGraphStore) QueryTargetSubgraph(ctx context.Context, targetValue string) (*ports.TargetNode, []ports.EntityNode, []ports.EdgeRecord, error) {
	target, ok := s.targets[targetValue]
	if !ok {
		return nil, nil, nil, nil
	}

	var entities []ports.EntityNode
	var edges []ports.EdgeRecord
	for _, edge := range s.edges {
		if edge.From.Value != targetValue {
			continue
		}
		if ent, ok := s.entities[edge.To]; ok {
			entities = append(entities, ent)
			edges = append(edges, edge)
		}
	}
	return &target, entities, edges, nil
}

func (s *memGraphStore) Close() error { return nil }

// memSearchIndex records indexed documents and echoes them on search.
type memSearchIndex struct {
	docs []ports.Document
}

func (s *memSearchIndex) IndexDocument(ctx context.Context, index string, doc ports.Document) error {
	s.docs = append(s.docs, doc)
	return nil
}

func (s *memSearchIndex) Search(ctx context.Context, index, query string, limit int) ([]ports.Hit, error) {
	hits := make([]ports.Hit, 0)
	for _, doc := range s.docs {
		hits = append(hits, ports.Hit{Score: 1.0, Document: doc})
		if len(hits) >= limit {
			break
		}
	}
	return hits, nil
}

func (s *memSearchIndex) Close() error { return nil }

func newTestServer(t *testing.T, modules map[string]ports.Module) (*Server, *memGraphStore) {
	t.Helper()

	logger := logx.NewSilent()
	graph := newMemGraphStore()
	writer := usecases.NewGraphWriter(graph, logger)

	return NewServer(Options{
		Addr: ":0",
		Orchestrator: usecases.NewOrchestrator(usecases.OrchestratorOptions{
			Modules: modules,
			Logger:  logger,
		}),
		Store:     usecases.NewResultStore(writer, &memSearchIndex{}, logger),
		Projector: usecases.NewVisualizationProjector(graph, logger),
		Logger:    logger,
	}), graph
}

func shodanStub() *stubModule {
	return &stubModule{
		name: "shodan",
		raw: domain.NewMap(map[string]domain.RawData{
			"ip_str": domain.NewScalar("198.51.100.7"),
			"ports":  domain.NewList(domain.NewScalar(float64(443))),
		}),
	}
}

func TestServer_Collect(t *testing.T) {
	server, graph := newTestServer(t, map[string]ports.Module{"shodan": shodanStub()})

	body := `{"target_type": "domain", "target_value": "example.com", "modules": ["shodan"]}`
	req := httptest.NewRequest(http.MethodPost, "/api/collect", strings.NewReader(body))
	rec := httptest.NewRecorder()

	server.Handler().ServeHTTP(rec, req)

	testutil.AssertEqual(t, rec.Code, http.StatusOK, "collect succeeds")

	var resp collectResponse
	testutil.AssertNoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), "response decodes")
	testutil.AssertEqual(t, resp.Result.Target.Value, "example.com", "target echoed")
	testutil.AssertEqual(t, len(resp.Result.Entities), 2, "ip and port extracted")

	// The response carries the projected subgraph of the fresh persist
	testutil.AssertEqual(t, len(resp.Visualization.Nodes), 3, "target plus two entities projected")
	testutil.AssertEqual(t, resp.Visualization.Metadata.TotalEntities, 2, "projection metadata")

	// Collection was persisted as a side effect
	testutil.AssertEqual(t, len(graph.targets), 1, "target node persisted")
	testutil.AssertEqual(t, len(graph.entities), 2, "entity nodes persisted")
}

func TestServer_Collect_ModuleFailureInline(t *testing.T) {
	modules := map[string]ports.Module{
		"shodan":    shodanStub(),
		"harvester": &stubModule{name: "harvester", err: context.DeadlineExceeded},
	}
	server, _ := newTestServer(t, modules)

	body := `{"target_type": "domain", "target_value": "example.com", "modules": ["shodan", "harvester"]}`
	req := httptest.NewRequest(http.MethodPost, "/api/collect", strings.NewReader(body))
	rec := httptest.NewRecorder()

	server.Handler().ServeHTTP(rec, req)

	// Module failures are part of the result, not HTTP errors
	testutil.AssertEqual(t, rec.Code, http.StatusOK, "partial failure still 200")

	var resp collectResponse
	testutil.AssertNoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), "response decodes")
	testutil.AssertEqual(t, resp.Result.Sources["harvester"].Status, domain.OutcomeFailure, "failure recorded inline")
	testutil.AssertEqual(t, resp.Result.Sources["shodan"].Status, domain.OutcomeSuccess, "sibling unaffected")
}

func TestServer_Collect_ValidationErrors(t *testing.T) {
	server, _ := newTestServer(t, map[string]ports.Module{"shodan": shodanStub()})

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"target_type":`},
		{"empty target", `{"target_type": "domain", "target_value": "", "modules": ["shodan"]}`},
		{"unknown type", `{"target_type": "asn", "target_value": "AS13335", "modules": ["shodan"]}`},
		{"no modules", `{"target_type": "domain", "target_value": "example.com", "modules": []}`},
		{"unknown module", `{"target_type": "domain", "target_value": "example.com", "modules": ["ghost"]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/collect", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			server.Handler().ServeHTTP(rec, req)

			testutil.AssertEqual(t, rec.Code, http.StatusBadRequest, "validation error is 400")

			var errResp errorResponse
			testutil.AssertNoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp), "error payload decodes")
			testutil.AssertNotEqual(t, errResp.Error, "", "error message present")
		})
	}
}

func TestServer_Visualize(t *testing.T) {
	server, _ := newTestServer(t, map[string]ports.Module{"shodan": shodanStub()})

	// Collect first so the graph has data
	body := `{"target_type": "domain", "target_value": "example.com", "modules": ["shodan"]}`
	collectReq := httptest.NewRequest(http.MethodPost, "/api/collect", strings.NewReader(body))
	server.Handler().ServeHTTP(httptest.NewRecorder(), collectReq)

	req := httptest.NewRequest(http.MethodGet, "/api/visualize/example.com", nil)
	rec := httptest.NewRecorder()

	server.Handler().ServeHTTP(rec, req)

	testutil.AssertEqual(t, rec.Code, http.StatusOK, "visualize succeeds")

	var payload domain.VisualizationPayload
	testutil.AssertNoError(t, json.Unmarshal(rec.Body.Bytes(), &payload), "payload decodes")
	testutil.AssertEqual(t, len(payload.Nodes), 3, "target plus two entities")
	testutil.AssertEqual(t, payload.Metadata.TotalEntities, 2, "total excludes target node")
}

func TestServer_Visualize_NeverCollected(t *testing.T) {
	server, _ := newTestServer(t, map[string]ports.Module{})

	req := httptest.NewRequest(http.MethodGet, "/api/visualize/ghost.example.com", nil)
	rec := httptest.NewRecorder()

	server.Handler().ServeHTTP(rec, req)

	// Unknown target is an empty payload, not an error
	testutil.AssertEqual(t, rec.Code, http.StatusOK, "miss is still 200")

	var payload domain.VisualizationPayload
	testutil.AssertNoError(t, json.Unmarshal(rec.Body.Bytes(), &payload), "payload decodes")
	testutil.AssertEqual(t, len(payload.Nodes), 0, "no nodes")
	testutil.AssertEqual(t, len(payload.Edges), 0, "no edges")
	testutil.AssertTrue(t, strings.Contains(rec.Body.String(), `"nodes":[]`), "nodes serialize as [] not null")
}

func TestServer_Search(t *testing.T) {
	server, _ := newTestServer(t, map[string]ports.Module{"shodan": shodanStub()})

	body := `{"target_type": "domain", "target_value": "example.com", "modules": ["shodan"]}`
	collectReq := httptest.NewRequest(http.MethodPost, "/api/collect", strings.NewReader(body))
	server.Handler().ServeHTTP(httptest.NewRecorder(), collectReq)

	req := httptest.NewRequest(http.MethodGet, "/api/search?q=example", nil)
	rec := httptest.NewRecorder()

	server.Handler().ServeHTTP(rec, req)

	testutil.AssertEqual(t, rec.Code, http.StatusOK, "search succeeds")

	var resp struct {
		Total int         `json:"total"`
		Hits  []ports.Hit `json:"hits"`
	}
	testutil.AssertNoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), "response decodes")
	testutil.AssertEqual(t, resp.Total, 1, "stored collection is searchable")
}

func TestServer_Search_Validation(t *testing.T) {
	server, _ := newTestServer(t, map[string]ports.Module{})

	req := httptest.NewRequest(http.MethodGet, "/api/search", nil)
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)
	testutil.AssertEqual(t, rec.Code, http.StatusBadRequest, "missing query rejected")

	req = httptest.NewRequest(http.MethodGet, "/api/search?q=x&limit=9999", nil)
	rec = httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)
	testutil.AssertEqual(t, rec.Code, http.StatusBadRequest, "out-of-range limit rejected")
}

func TestServer_Health(t *testing.T) {
	server, _ := newTestServer(t, map[string]ports.Module{})

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	rec := httptest.NewRecorder()

	server.Handler().ServeHTTP(rec, req)

	testutil.AssertEqual(t, rec.Code, http.StatusOK, "health is 200")
}
