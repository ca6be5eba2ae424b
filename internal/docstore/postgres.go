package docstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore implements Store on a single JSONB-backed documents table.
// Unlike the hosted document backend the original deployment used, Postgres
// can combine range predicates with equality filters, so NativeRange is on.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore wraps an established pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Collection returns a handle for the named collection.
func (s *PostgresStore) Collection(name string) Collection {
	return &postgresCollection{pool: s.pool, name: name}
}

// Capabilities reports native range-query support.
func (s *PostgresStore) Capabilities() Capabilities {
	return Capabilities{NativeRange: true}
}

// Ping verifies connectivity.
func (s *PostgresStore) Ping(ctx context.Context) error {
	if s.pool == nil {
		return errors.New("postgres pool not configured")
	}
	return s.pool.Ping(ctx)
}

type postgresCollection struct {
	pool *pgxpool.Pool
	name string
}

func (c *postgresCollection) Add(ctx context.Context, data map[string]any) (string, error) {
	id := uuid.NewString()
	payload, err := json.Marshal(data)
	if err != nil {
		return "", err
	}
	const query = `INSERT INTO documents (collection, id, data) VALUES ($1, $2, $3)`
	if _, err := c.pool.Exec(ctx, query, c.name, id, payload); err != nil {
		return "", err
	}
	return id, nil
}

func (c *postgresCollection) Get(ctx context.Context, id string) (*Document, error) {
	const query = `SELECT id, data, created_at FROM documents WHERE collection=$1 AND id=$2`
	doc := Document{}
	var payload []byte
	err := c.pool.QueryRow(ctx, query, c.name, id).Scan(&doc.ID, &payload, &doc.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(payload, &doc.Data); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (c *postgresCollection) Set(ctx context.Context, id string, data map[string]any, merge bool) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return err
	}
	if merge {
		const query = `
            INSERT INTO documents (collection, id, data) VALUES ($1, $2, $3)
            ON CONFLICT (collection, id) DO UPDATE SET data = documents.data || EXCLUDED.data`
		_, err = c.pool.Exec(ctx, query, c.name, id, payload)
		return err
	}
	const query = `
        INSERT INTO documents (collection, id, data) VALUES ($1, $2, $3)
        ON CONFLICT (collection, id) DO UPDATE SET data = EXCLUDED.data`
	_, err = c.pool.Exec(ctx, query, c.name, id, payload)
	return err
}

func (c *postgresCollection) Update(ctx context.Context, id string, fields map[string]any) error {
	payload, err := json.Marshal(fields)
	if err != nil {
		return err
	}
	const query = `UPDATE documents SET data = data || $3 WHERE collection=$1 AND id=$2`
	cmd, err := c.pool.Exec(ctx, query, c.name, id, payload)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (c *postgresCollection) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM documents WHERE collection=$1 AND id=$2`
	cmd, err := c.pool.Exec(ctx, query, c.name, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (c *postgresCollection) Query(ctx context.Context, q Query) ([]Document, error) {
	where, args := c.buildWhere(q)
	query := fmt.Sprintf(`SELECT id, data, created_at FROM documents WHERE %s`, where)
	if q.OrderByCreated {
		query += ` ORDER BY created_at DESC`
	}
	rows, err := c.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []Document
	for rows.Next() {
		var doc Document
		var payload []byte
		if err := rows.Scan(&doc.ID, &payload, &doc.CreatedAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal(payload, &doc.Data); err != nil {
			return nil, err
		}
		result = append(result, doc)
	}
	return result, rows.Err()
}

func (c *postgresCollection) Count(ctx context.Context, q Query) (int, error) {
	where, args := c.buildWhere(q)
	query := fmt.Sprintf(`SELECT COUNT(*) FROM documents WHERE %s`, where)
	var count int
	if err := c.pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (c *postgresCollection) buildWhere(q Query) (string, []any) {
	args := []any{c.name}
	clauses := []string{"collection=$1"}
	for _, f := range q.Filters {
		args = append(args, fmt.Sprint(f.Value))
		clauses = append(clauses, fmt.Sprintf("data #>> %s = $%d", pgPath(f.Field), len(args)))
	}
	if q.Range != nil {
		if q.Range.Min != nil {
			args = append(args, *q.Range.Min)
			clauses = append(clauses, fmt.Sprintf("(data #>> %s)::numeric >= $%d", pgPath(q.Range.Field), len(args)))
		}
		if q.Range.Max != nil {
			args = append(args, *q.Range.Max)
			clauses = append(clauses, fmt.Sprintf("(data #>> %s)::numeric <= $%d", pgPath(q.Range.Field), len(args)))
		}
	}
	return strings.Join(clauses, " AND "), args
}

// pgPath renders a dotted field path as a Postgres text[] literal for #>>.
// Field names come from code, never from client input.
func pgPath(field string) string {
	parts := strings.Split(field, ".")
	return "'{" + strings.Join(parts, ",") + "}'"
}
