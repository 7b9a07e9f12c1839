package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"bookstore/internal/models"
)

// ErrDuplicate is returned when an insert violates a uniqueness constraint.
var ErrDuplicate = errors.New("duplicate record")

type Authorization interface {
	Create(ctx context.Context, u models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// BookRepo persists books. Every method is scoped to a single owner.
type BookRepo interface {
	Create(ctx context.Context, b models.Book) error
	GetByID(ctx context.Context, ownerID, id string) (*models.Book, error)
	FindByTitle(ctx context.Context, ownerID, title string) ([]models.Book, error)
	List(ctx context.Context, q BookQuery) ([]models.Book, int, error)
	Update(ctx context.Context, b models.Book) (*models.Book, error)
	Delete(ctx context.Context, ownerID, id string) (bool, error)
	Summary(ctx context.Context, ownerID string) (models.CatalogSummary, error)
}

type ActivityRepo interface {
	Append(ctx context.Context, a models.BookActivity) error
	List(ctx context.Context, ownerID string, from, to time.Time, typ string) ([]models.BookActivity, error)
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type Repository struct {
	Auth     Authorization
	Books    BookRepo
	Activity ActivityRepo
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		Auth:     NewUserRepository(db),
		Books:    NewBookSQLite(db),
		Activity: NewActivitySQLite(db),
	}
}
