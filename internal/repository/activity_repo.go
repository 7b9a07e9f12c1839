package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"bookstore/internal/models"

	"github.com/google/uuid"
)

type ActivitySQLite struct {
	db *sql.DB
}

func NewActivitySQLite(db *sql.DB) *ActivitySQLite { return &ActivitySQLite{db: db} }

var _ ActivityRepo = (*ActivitySQLite)(nil)

const (
	insertActivitySQL = `INSERT INTO book_activity (id, user_id, book_id, occurred_at, type, message, meta) VALUES (?, ?, ?, ?, ?, ?, ?)`
	selectActivitySQL = `SELECT id, user_id, book_id, occurred_at, type, message, meta FROM book_activity`
	deleteActivitySQL = `DELETE FROM book_activity WHERE occurred_at < ?`
)

// Append inserts a new entry. If ID or OccurredAt are empty, they’re set.
func (r *ActivitySQLite) Append(ctx context.Context, a models.BookActivity) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.OccurredAt.IsZero() {
		a.OccurredAt = time.Now().UTC()
	} else {
		a.OccurredAt = a.OccurredAt.UTC()
	}

	var metaPtr *string
	if a.Metadata != nil {
		if b, err := json.Marshal(a.Metadata); err == nil {
			s := string(b)
			metaPtr = &s
		}
	}

	_, err := r.db.ExecContext(ctx, insertActivitySQL,
		a.ID,
		a.UserID,
		a.BookID,
		a.OccurredAt,
		strings.ToUpper(strings.TrimSpace(a.Type)),
		a.Description,
		metaPtr,
	)
	if err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}
	return nil
}

// List returns the owner's entries filtered by [from, to] (inclusive) and/or type, oldest first.
func (r *ActivitySQLite) List(ctx context.Context, ownerID string, from, to time.Time, typ string) ([]models.BookActivity, error) {
	conds := []string{"user_id = ?"}
	args := []any{ownerID}

	if !from.IsZero() {
		conds = append(conds, "occurred_at >= ?")
		args = append(args, from.UTC())
	}
	if !to.IsZero() {
		conds = append(conds, "occurred_at <= ?")
		args = append(args, to.UTC())
	}
	if typ = strings.ToUpper(strings.TrimSpace(typ)); typ != "" {
		conds = append(conds, "type = ?")
		args = append(args, typ)
	}

	q := selectActivitySQL + " WHERE " + strings.Join(conds, " AND ") + " ORDER BY occurred_at ASC"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("select activity: %w", err)
	}
	defer rows.Close()

	out := make([]models.BookActivity, 0, 32)
	for rows.Next() {
		var (
			a       models.BookActivity
			metaStr sql.NullString
		)
		if err := rows.Scan(&a.ID, &a.UserID, &a.BookID, &a.OccurredAt, &a.Type, &a.Description, &metaStr); err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		a.OccurredAt = a.OccurredAt.UTC()

		if metaStr.Valid && metaStr.String != "" {
			var v any
			if err := json.Unmarshal([]byte(metaStr.String), &v); err == nil {
				a.Metadata = v
			} else {
				a.Metadata = metaStr.String // keep raw if malformed
			}
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteBefore removes entries older than cutoff and returns how many were removed.
func (r *ActivitySQLite) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, deleteActivitySQL, cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("prune activity: %w", err)
	}
	return res.RowsAffected()
}
