package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/hrygo/timenorm/store"
)

func (d *DB) CreateDocument(ctx context.Context, create *store.Document) (*store.Document, error) {
	fields := []string{"id", "reference", "timezone"}
	args := []any{create.ID, create.Reference, create.Timezone}
	if create.CreatedTs != 0 {
		fields = append(fields, "created_ts")
		args = append(args, create.CreatedTs)
	}

	stmt := `INSERT INTO document (` + strings.Join(fields, ", ") + `)
		VALUES (` + placeholders(len(args)) + `)
		RETURNING created_ts`
	if err := d.db.QueryRowContext(ctx, stmt, args...).Scan(&create.CreatedTs); err != nil {
		return nil, fmt.Errorf("failed to create document: %w", err)
	}
	return create, nil
}

func (d *DB) ListDocuments(ctx context.Context, find *store.FindDocument) ([]*store.Document, error) {
	where, args := []string{"1 = 1"}, []any{}
	if v := find.ID; v != nil {
		where, args = append(where, "document.id = "+placeholder(len(args)+1)), append(args, *v)
	}

	query := `
		SELECT id, created_ts, reference, timezone
		FROM document
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY document.created_ts DESC, document.id ASC`
	if find.Limit != nil {
		query = fmt.Sprintf("%s LIMIT %d", query, *find.Limit)
		if find.Offset != nil {
			query = fmt.Sprintf("%s OFFSET %d", query, *find.Offset)
		}
	}

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer rows.Close()

	list := make([]*store.Document, 0)
	for rows.Next() {
		var doc store.Document
		if err := rows.Scan(&doc.ID, &doc.CreatedTs, &doc.Reference, &doc.Timezone); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		list = append(list, &doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate documents: %w", err)
	}
	return list, nil
}

func (d *DB) DeleteDocument(ctx context.Context, delete *store.DeleteDocument) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM annotation WHERE document_id = ?", delete.ID); err != nil {
		return fmt.Errorf("failed to delete annotations: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM document WHERE id = ?", delete.ID); err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	return tx.Commit()
}
