package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"bookstore/internal/models"
)

type BookSQLite struct {
	db *sql.DB
}

func NewBookSQLite(db *sql.DB) *BookSQLite {
	return &BookSQLite{db: db}
}

var _ BookRepo = (*BookSQLite)(nil)

// BookQuery describes one owner-scoped page of books.
type BookQuery struct {
	OwnerID   string
	Search    string   // substring of title OR author, case-insensitive
	Category  string   // category prefix, case-insensitive
	MinRating *float64 // inclusive
	SortBy    string   // key of BookSortColumns; unknown keys fall back to DefaultBookSort
	Desc      bool
	Limit     int
	Offset    int
}

// DefaultBookSort is the sort key used when none is requested.
const DefaultBookSort = "createdAt"

// BookSortColumns maps the public sort keys onto table columns.
var BookSortColumns = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"title":     "title",
	"author":    "author",
	"category":  "category",
	"price":     "price",
	"rating":    "rating",
}

const (
	bookColumns = `id, user_id, title, author, category, price, rating, created_at, updated_at`

	insertBookSQL = `INSERT INTO books (` + bookColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

	selectBookByIDSQL = `SELECT ` + bookColumns + ` FROM books WHERE id = ? AND user_id = ?`

	selectBooksByTitleSQL = `SELECT ` + bookColumns + ` FROM books WHERE user_id = ? AND title LIKE ? ESCAPE '\' ORDER BY created_at DESC, id DESC`

	updateBookSQL = `UPDATE books SET title = ?, author = ?, category = ?, price = ?, rating = ?, updated_at = ? WHERE id = ? AND user_id = ? RETURNING ` + bookColumns

	deleteBookSQL = `DELETE FROM books WHERE id = ? AND user_id = ?`

	summaryTotalsSQL     = `SELECT COUNT(*), COALESCE(AVG(rating), 0), COALESCE(AVG(price), 0) FROM books WHERE user_id = ?`
	summaryCategoriesSQL = `SELECT category, COUNT(*) FROM books WHERE user_id = ? GROUP BY category ORDER BY category`
)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBook(s rowScanner) (models.Book, error) {
	var b models.Book
	if err := s.Scan(
		&b.ID,
		&b.UserID,
		&b.Title,
		&b.Author,
		&b.Category,
		&b.Price,
		&b.Rating,
		&b.CreatedAt,
		&b.UpdatedAt,
	); err != nil {
		return models.Book{}, err
	}
	b.CreatedAt = b.CreatedAt.UTC()
	b.UpdatedAt = b.UpdatedAt.UTC()
	return b, nil
}

func scanBooks(rows *sql.Rows) ([]models.Book, error) {
	out := make([]models.Book, 0, 16)
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, fmt.Errorf("scan book: %w", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *BookSQLite) Create(ctx context.Context, b models.Book) error {
	_, err := r.db.ExecContext(ctx, insertBookSQL,
		b.ID,
		b.UserID,
		b.Title,
		b.Author,
		b.Category,
		b.Price,
		b.Rating,
		b.CreatedAt.UTC(),
		b.UpdatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert book: %w", err)
	}
	return nil
}

// GetByID returns (nil, nil) when the book does not exist or belongs to someone else.
func (r *BookSQLite) GetByID(ctx context.Context, ownerID, id string) (*models.Book, error) {
	b, err := scanBook(r.db.QueryRowContext(ctx, selectBookByIDSQL, id, ownerID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select book %q: %w", id, err)
	}
	return &b, nil
}

func (r *BookSQLite) FindByTitle(ctx context.Context, ownerID, title string) ([]models.Book, error) {
	rows, err := r.db.QueryContext(ctx, selectBooksByTitleSQL, ownerID, "%"+escapeLike(title)+"%")
	if err != nil {
		return nil, fmt.Errorf("select books by title: %w", err)
	}
	defer rows.Close()
	return scanBooks(rows)
}

// buildBookFilter returns the WHERE clause (without the keyword) and its args.
func buildBookFilter(q BookQuery) (string, []any) {
	conds := []string{"user_id = ?"}
	args := []any{q.OwnerID}

	if q.Search != "" {
		p := "%" + escapeLike(q.Search) + "%"
		conds = append(conds, `(title LIKE ? ESCAPE '\' OR author LIKE ? ESCAPE '\')`)
		args = append(args, p, p)
	}
	if q.Category != "" {
		conds = append(conds, `category LIKE ? ESCAPE '\'`)
		args = append(args, escapeLike(q.Category)+"%")
	}
	if q.MinRating != nil {
		conds = append(conds, "rating >= ?")
		args = append(args, *q.MinRating)
	}
	return strings.Join(conds, " AND "), args
}

func orderClause(q BookQuery) string {
	col, ok := BookSortColumns[q.SortBy]
	if !ok {
		col = BookSortColumns[DefaultBookSort]
	}
	dir := "ASC"
	if q.Desc {
		dir = "DESC"
	}
	return " ORDER BY " + col + " " + dir + ", id " + dir
}

// List returns the requested page and the total number of matching books.
func (r *BookSQLite) List(ctx context.Context, q BookQuery) ([]models.Book, int, error) {
	where, args := buildBookFilter(q)

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM books WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count books: %w", err)
	}
	if total == 0 || q.Offset >= total {
		return []models.Book{}, total, nil
	}

	query := `SELECT ` + bookColumns + ` FROM books WHERE ` + where + orderClause(q) + ` LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, query, append(args, q.Limit, q.Offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("select books: %w", err)
	}
	defer rows.Close()

	books, err := scanBooks(rows)
	if err != nil {
		return nil, 0, err
	}
	return books, total, nil
}

// Update replaces the editable fields of the book identified by (b.ID, b.UserID).
// Returns (nil, nil) when no such book exists.
func (r *BookSQLite) Update(ctx context.Context, b models.Book) (*models.Book, error) {
	updated, err := scanBook(r.db.QueryRowContext(ctx, updateBookSQL,
		b.Title,
		b.Author,
		b.Category,
		b.Price,
		b.Rating,
		b.UpdatedAt.UTC(),
		b.ID,
		b.UserID,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("update book %q: %w", b.ID, err)
	}
	return &updated, nil
}

// Delete reports whether a book owned by ownerID was removed.
func (r *BookSQLite) Delete(ctx context.Context, ownerID, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, deleteBookSQL, id, ownerID)
	if err != nil {
		return false, fmt.Errorf("delete book %q: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected for book %q: %w", id, err)
	}
	return n > 0, nil
}

func (r *BookSQLite) Summary(ctx context.Context, ownerID string) (models.CatalogSummary, error) {
	s := models.CatalogSummary{
		Categories:  map[string]int{},
		GeneratedAt: time.Now().UTC(),
	}
	if err := r.db.QueryRowContext(ctx, summaryTotalsSQL, ownerID).Scan(&s.TotalBooks, &s.AverageRating, &s.AveragePrice); err != nil {
		return models.CatalogSummary{}, fmt.Errorf("summary totals: %w", err)
	}
	if s.TotalBooks == 0 {
		return s, nil
	}

	rows, err := r.db.QueryContext(ctx, summaryCategoriesSQL, ownerID)
	if err != nil {
		return models.CatalogSummary{}, fmt.Errorf("summary categories: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			cat string
			n   int
		)
		if err := rows.Scan(&cat, &n); err != nil {
			return models.CatalogSummary{}, fmt.Errorf("scan category: %w", err)
		}
		s.Categories[cat] = n
	}
	if err := rows.Err(); err != nil {
		return models.CatalogSummary{}, err
	}
	return s, nil
}
