// internal/adapters/store/postgres/search.go
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"osintx/internal/core/ports"
	"osintx/internal/platform/logx"
)

const searchSchema = `
CREATE TABLE IF NOT EXISTS search_documents (
	id         BIGSERIAL PRIMARY KEY,
	index_name TEXT NOT NULL,
	doc        JSONB NOT NULL,
	doc_text   TSVECTOR NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_search_documents_index ON search_documents (index_name);
CREATE INDEX IF NOT EXISTS idx_search_documents_text ON search_documents USING GIN (doc_text);
`

// SearchIndex is a PostgreSQL full-text implementation of
// ports.SearchIndex. Documents are stored as JSONB alongside a tsvector
// built from their flattened text, queried with plainto_tsquery.
type SearchIndex struct {
	db     *sql.DB
	logger logx.Logger
}

// NewSearchIndex wraps a pool (typically shared with the graph store)
// and ensures the search schema exists.
func NewSearchIndex(db *sql.DB, logger logx.Logger) (*SearchIndex, error) {
	if _, err := db.Exec(searchSchema); err != nil {
		return nil, fmt.Errorf("ensure search schema: %w", err)
	}
	return &SearchIndex{db: db, logger: logger.With("component", "postgres-search")}, nil
}

// IndexDocument stores the document under the given index name.
func (s *SearchIndex) IndexDocument(ctx context.Context, index string, doc ports.Document) error {
	blob, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}

	// Flatten over the decoded JSON so typed fields contribute their text
	var generic any
	if err := json.Unmarshal(blob, &generic); err != nil {
		return fmt.Errorf("flatten document: %w", err)
	}

	// 'simple' avoids language stemming: hostnames and emails must match verbatim
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO search_documents (index_name, doc, doc_text)
		VALUES ($1, $2, to_tsvector('simple', $3))`,
		index, blob, flattenText(generic),
	)
	if err != nil {
		return fmt.Errorf("index document: %w", err)
	}

	s.logger.Debug("document indexed", "index", index)
	return nil
}

// Search runs a full-text query over the index, most relevant first.
func (s *SearchIndex) Search(ctx context.Context, index, query string, limit int) ([]ports.Hit, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT doc, ts_rank(doc_text, plainto_tsquery('simple', $2)) AS rank
		FROM search_documents
		WHERE index_name = $1 AND doc_text @@ plainto_tsquery('simple', $2)
		ORDER BY rank DESC, created_at DESC
		LIMIT $3`,
		index, query, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	defer rows.Close()

	hits := make([]ports.Hit, 0)
	for rows.Next() {
		var blob []byte
		var rank float64
		if err := rows.Scan(&blob, &rank); err != nil {
			return nil, fmt.Errorf("scan hit: %w", err)
		}

		var doc ports.Document
		if err := json.Unmarshal(blob, &doc); err != nil {
			return nil, fmt.Errorf("unmarshal document: %w", err)
		}
		hits = append(hits, ports.Hit{Score: rank, Document: doc})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate hits: %w", err)
	}

	return hits, nil
}

// Close is a no-op: the pool belongs to the graph store.
func (s *SearchIndex) Close() error {
	return nil
}

// flattenText walks the document and concatenates every string and
// number into the text fed to the tsvector.
func flattenText(v any) string {
	switch t := v.(type) {
	case map[string]any:
		out := ""
		for _, child := range t {
			if s := flattenText(child); s != "" {
				out += s + " "
			}
		}
		return out
	case []any:
		out := ""
		for _, child := range t {
			if s := flattenText(child); s != "" {
				out += s + " "
			}
		}
		return out
	case string:
		return t
	case float64:
		return fmt.Sprintf("%v", t)
	default:
		return ""
	}
}
