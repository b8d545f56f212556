// internal/adapters/store/postgres/graph.go
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"

	"osintx/internal/core/domain"
	"osintx/internal/core/ports"
	"osintx/internal/platform/logx"
)

const graphSchema = `
CREATE TABLE IF NOT EXISTS graph_targets (
	value        TEXT NOT NULL,
	type         TEXT NOT NULL,
	last_updated TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (value, type)
);

CREATE TABLE IF NOT EXISTS graph_entities (
	value      TEXT NOT NULL,
	type       TEXT NOT NULL,
	source     TEXT NOT NULL DEFAULT '',
	confidence DOUBLE PRECISION NOT NULL DEFAULT 0,
	PRIMARY KEY (value, type)
);

CREATE TABLE IF NOT EXISTS graph_edges (
	from_value TEXT NOT NULL,
	from_type  TEXT NOT NULL,
	to_value   TEXT NOT NULL,
	to_type    TEXT NOT NULL,
	label      TEXT NOT NULL,
	PRIMARY KEY (from_value, from_type, to_value, to_type, label)
);

CREATE INDEX IF NOT EXISTS idx_graph_targets_value ON graph_targets (value);
CREATE INDEX IF NOT EXISTS idx_graph_edges_from ON graph_edges (from_value, from_type);
`

// GraphStore is a PostgreSQL-backed implementation of ports.GraphStore.
// Nodes and edges live in three relational tables keyed by (value, type);
// every write is an upsert so replaying a collection never duplicates rows.
type GraphStore struct {
	db     *sql.DB
	logger logx.Logger
}

// OpenGraphStore opens a connection pool against the given DSN and
// ensures the graph schema exists.
func OpenGraphStore(dsn string, logger logx.Logger) (*GraphStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if _, err := db.Exec(graphSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure graph schema: %w", err)
	}

	return &GraphStore{db: db, logger: logger.With("component", "postgres-graph")}, nil
}

// NewGraphStore wraps an existing pool. The schema is assumed to exist;
// used by tests that manage their own connection.
func NewGraphStore(db *sql.DB, logger logx.Logger) *GraphStore {
	return &GraphStore{db: db, logger: logger.With("component", "postgres-graph")}
}

// EnsureSchema creates the graph tables if they are missing.
func (s *GraphStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, graphSchema)
	return err
}

// graphTx implements ports.GraphTx over a sql.Tx.
type graphTx struct {
	tx *sql.Tx
}

func (t *graphTx) UpsertTargetNode(ctx context.Context, node ports.TargetNode) error {
	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO graph_targets (value, type, last_updated)
		VALUES ($1, $2, $3)
		ON CONFLICT (value, type)
		DO UPDATE SET last_updated = EXCLUDED.last_updated`,
		node.Value, string(node.Type), node.LastUpdated,
	)
	return err
}

func (t *graphTx) UpsertEntityNode(ctx context.Context, node ports.EntityNode) error {
	// Keep the attribution with the highest confidence across collections
	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO graph_entities (value, type, source, confidence)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (value, type)
		DO UPDATE SET source = EXCLUDED.source, confidence = EXCLUDED.confidence
		WHERE graph_entities.confidence < EXCLUDED.confidence`,
		node.Value, string(node.Type), node.Source, node.Confidence,
	)
	return err
}

func (t *graphTx) UpsertEdge(ctx context.Context, edge ports.EdgeRecord) error {
	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO graph_edges (from_value, from_type, to_value, to_type, label)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT DO NOTHING`,
		edge.From.Value, edge.From.Type, edge.To.Value, edge.To.Type, edge.Label,
	)
	return err
}

// WithinTx runs fn inside a single database transaction. Any error from
// fn rolls back every write; commit errors surface to the caller.
func (s *GraphStore) WithinTx(ctx context.Context, fn func(tx ports.GraphTx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	if err := fn(&graphTx{tx: tx}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			s.logger.Err(rbErr, "op", "rollback")
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// QueryTargetSubgraph loads the most recently updated target matching the
// value, plus every entity reachable through its outgoing edges. A value
// never collected yields (nil, nil, nil, nil).
func (s *GraphStore) QueryTargetSubgraph(ctx context.Context, targetValue string) (*ports.TargetNode, []ports.EntityNode, []ports.EdgeRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT value, type, last_updated
		FROM graph_targets
		WHERE value = $1
		ORDER BY last_updated DESC
		LIMIT 1`,
		targetValue,
	)

	var target ports.TargetNode
	var targetType string
	if err := row.Scan(&target.Value, &targetType, &target.LastUpdated); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil, nil, nil
		}
		return nil, nil, nil, fmt.Errorf("query target: %w", err)
	}
	target.Type = domain.TargetType(targetType)

	rows, err := s.db.QueryContext(ctx, `
		SELECT e.value, e.type, e.source, e.confidence, g.label
		FROM graph_edges g
		JOIN graph_entities e ON e.value = g.to_value AND e.type = g.to_type
		WHERE g.from_value = $1 AND g.from_type = $2
		ORDER BY e.value, e.type`,
		target.Value, targetType,
	)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("query subgraph: %w", err)
	}
	defer rows.Close()

	var entities []ports.EntityNode
	var edges []ports.EdgeRecord
	for rows.Next() {
		var entity ports.EntityNode
		var entityType, label string
		if err := rows.Scan(&entity.Value, &entityType, &entity.Source, &entity.Confidence, &label); err != nil {
			return nil, nil, nil, fmt.Errorf("scan subgraph row: %w", err)
		}
		entity.Type = domain.EntityType(entityType)
		entities = append(entities, entity)
		edges = append(edges, ports.EdgeRecord{
			From:  ports.NodeKey{Value: target.Value, Type: targetType},
			To:    ports.NodeKey{Value: entity.Value, Type: entityType},
			Label: label,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, nil, nil, fmt.Errorf("iterate subgraph: %w", err)
	}

	return &target, entities, edges, nil
}

// DB exposes the underlying pool so the search index can share it.
func (s *GraphStore) DB() *sql.DB {
	return s.db
}

// Close releases the connection pool.
func (s *GraphStore) Close() error {
	return s.db.Close()
}
