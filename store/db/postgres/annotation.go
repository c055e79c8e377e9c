package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/hrygo/timenorm/store"
)

func (d *DB) CreateAnnotation(ctx context.Context, create *store.Annotation) (*store.Annotation, error) {
	fields := []string{
		"document_id", "seq", "text", "tid", "type", "value", "alt_value",
		"mod", "grounded", "expression", "element", "error",
	}
	args := []any{
		create.DocumentID, create.Seq, create.Text, create.TID, create.Type, create.Value, create.AltValue,
		create.Mod, create.Grounded, create.Expression, create.Element, create.Error,
	}

	stmt := `INSERT INTO annotation (` + strings.Join(fields, ", ") + `)
		VALUES (` + placeholders(len(args)) + `)
		RETURNING id, created_ts`
	if err := d.db.QueryRowContext(ctx, stmt, args...).Scan(&create.ID, &create.CreatedTs); err != nil {
		return nil, fmt.Errorf("failed to create annotation: %w", err)
	}
	return create, nil
}

func (d *DB) ListAnnotations(ctx context.Context, find *store.FindAnnotation) ([]*store.Annotation, error) {
	where, args := []string{"1 = 1"}, []any{}
	if v := find.DocumentID; v != nil {
		where, args = append(where, "annotation.document_id = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.Type; v != nil {
		where, args = append(where, "annotation.type = "+placeholder(len(args)+1)), append(args, *v)
	}
	if v := find.Grounded; v != nil {
		where, args = append(where, "annotation.grounded = "+placeholder(len(args)+1)), append(args, *v)
	}

	query := `
		SELECT
			id, document_id, created_ts, seq, text, tid, type, value,
			alt_value, mod, grounded, expression, element, error
		FROM annotation
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY annotation.document_id ASC, annotation.seq ASC, annotation.id ASC`

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query annotations: %w", err)
	}
	defer rows.Close()

	list := make([]*store.Annotation, 0)
	for rows.Next() {
		var a store.Annotation
		if err := rows.Scan(
			&a.ID, &a.DocumentID, &a.CreatedTs, &a.Seq, &a.Text, &a.TID, &a.Type, &a.Value,
			&a.AltValue, &a.Mod, &a.Grounded, &a.Expression, &a.Element, &a.Error,
		); err != nil {
			return nil, fmt.Errorf("failed to scan annotation: %w", err)
		}
		list = append(list, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate annotations: %w", err)
	}
	return list, nil
}
