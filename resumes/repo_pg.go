package resumes

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Create(ctx context.Context, doc Document) error {
	const query = `
INSERT INTO resumes (id, name, document, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5)`
	body, err := json.Marshal(doc.Record)
	if err != nil {
		return fmt.Errorf("encode resume %s: %w", doc.ID, err)
	}
	_, err = r.DB.ExecContext(ctx, query, doc.ID, doc.Name, body, doc.CreatedAt, doc.UpdatedAt)
	return err
}

func (r *PGRepo) Get(ctx context.Context, id string) (Document, error) {
	const query = `
SELECT id, document, created_at, updated_at
FROM resumes
WHERE id = $1
LIMIT 1`
	var (
		doc  Document
		body []byte
	)
	err := r.DB.QueryRowContext(ctx, query, id).Scan(&doc.ID, &body, &doc.CreatedAt, &doc.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Document{}, ErrNotFound
		}
		return Document{}, err
	}
	if err := json.Unmarshal(body, &doc.Record); err != nil {
		return Document{}, fmt.Errorf("decode resume %s: %w", id, err)
	}
	doc.Record = doc.Record.Normalize()
	return doc, nil
}

func (r *PGRepo) Update(ctx context.Context, doc Document) error {
	const query = `
UPDATE resumes
SET name = $2, document = $3, updated_at = $4
WHERE id = $1`
	body, err := json.Marshal(doc.Record)
	if err != nil {
		return fmt.Errorf("encode resume %s: %w", doc.ID, err)
	}
	res, err := r.DB.ExecContext(ctx, query, doc.ID, doc.Name, body, doc.UpdatedAt)
	if err != nil {
		return err
	}
	return expectOneRow(res)
}

func (r *PGRepo) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM resumes WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return expectOneRow(res)
}

func (r *PGRepo) List(ctx context.Context, limit, offset int) ([]Summary, error) {
	const query = `
SELECT id, name, updated_at
FROM resumes
ORDER BY updated_at DESC, id
LIMIT $1 OFFSET $2`
	rows, err := r.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Summary{}
	for rows.Next() {
		var s Summary
		if err := rows.Scan(&s.ID, &s.Name, &s.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

var (
	_ Repo = (*PGRepo)(nil)
	_ Repo = (*MemoryRepo)(nil)
)
