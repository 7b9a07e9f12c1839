package service

import (
	"context"

	"bookstore/internal/config"
	"bookstore/internal/logger"
	"bookstore/internal/models"
	"bookstore/internal/repository"
)

type Authorization interface {
	Register(ctx context.Context, email, password string) (models.User, string, error)
	Login(ctx context.Context, email, password string) (models.User, string, error)
	IssueToken(userID, email string) (string, error)
	VerifyToken(accessToken string) (*Claims, error)
}

// Books exposes owner-scoped catalog CRUD and listing.
type Books interface {
	List(ctx context.Context, ownerID string, p ListParams) (models.BookPage, error)
	Get(ctx context.Context, ownerID, id string) (models.Book, error)
	FindByTitle(ctx context.Context, ownerID, title string) ([]models.Book, error)
	Create(ctx context.Context, ownerID string, in BookInput) (models.Book, error)
	Update(ctx context.Context, ownerID, id string, in BookInput) (models.Book, error)
	Delete(ctx context.Context, ownerID, id string) error
}

// Catalog exposes read-only aggregates (counts, averages, categories).
type Catalog interface {
	Summary(ctx context.Context, ownerID string) (models.CatalogSummary, error)
}

// ActivityLog exposes the append-only mutation history with filtering access.
type ActivityLog interface {
	List(ctx context.Context, ownerID string, f LogFilter) ([]models.BookActivity, error)
}

// Pruner runs the scheduled cleanup of old activity entries.
type Pruner interface {
	Start(ctx context.Context, schedule string) error
	PruneOnce(ctx context.Context) (int64, error)
}

// Service aggregates all sub-services. Books and ActivityLog both declare List,
// so callers go through the named field (s.Books.List, s.ActivityLog.List).
type Service struct {
	Authorization
	Books
	Catalog
	ActivityLog
	Pruner
}

// NewService wires the repository layer into concrete services.
func NewService(repos *repository.Repository, cfg *config.Config, log *logger.Logger) *Service {
	return &Service{
		Authorization: NewAuthService(repos.Auth, cfg.JWT.Secret, cfg.JWT.TTL),
		Books:         NewBookService(repos.Books, repos.Activity, log),
		Catalog:       NewCatalogService(repos.Books),
		ActivityLog:   NewActivityService(repos.Activity),
		Pruner:        NewPrunerService(repos.Activity, cfg.Activity.Retention, log),
	}
}
