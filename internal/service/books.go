package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"bookstore/internal/logger"
	"bookstore/internal/models"
	"bookstore/internal/repository"

	"github.com/google/uuid"
)

// Paging bounds for catalog listings.
const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100

	maxPage = math.MaxInt32
)

// ListParams carries raw query-string values; BookService coerces and validates them.
type ListParams struct {
	Search    string
	Category  string
	MinRating string
	Sort      string
	Order     string
	Page      string
	Limit     string
}

// BookInput is the full set of client-editable book fields.
type BookInput struct {
	Title    string   `json:"title" validate:"required"`
	Author   string   `json:"author" validate:"required"`
	Category string   `json:"category" validate:"required"`
	Price    *float64 `json:"price" validate:"required,gte=0"`
	Rating   *float64 `json:"rating" validate:"required,gte=0,lte=5"`
}

func (in BookInput) normalized() BookInput {
	in.Title = strings.TrimSpace(in.Title)
	in.Author = strings.TrimSpace(in.Author)
	in.Category = strings.TrimSpace(in.Category)
	return in
}

type BookService struct {
	books    repository.BookRepo
	activity repository.ActivityRepo
	log      *logger.Logger
	now      func() time.Time
}

func NewBookService(books repository.BookRepo, activity repository.ActivityRepo, log *logger.Logger) *BookService {
	return &BookService{books: books, activity: activity, log: log, now: time.Now}
}

// List returns one page of the owner's books.
func (s *BookService) List(ctx context.Context, ownerID string, p ListParams) (models.BookPage, error) {
	q, page, err := buildBookQuery(ownerID, p)
	if err != nil {
		return models.BookPage{}, err
	}

	books, total, err := s.books.List(ctx, q)
	if err != nil {
		return models.BookPage{}, err
	}
	if books == nil {
		books = []models.Book{}
	}

	return models.BookPage{
		Books:       books,
		CurrentPage: page,
		TotalPages:  (total + q.Limit - 1) / q.Limit,
		TotalBooks:  total,
		Limit:       q.Limit,
	}, nil
}

// buildBookQuery coerces paging values leniently and rejects unknown sort keys,
// unknown orders and non-numeric ratings.
func buildBookQuery(ownerID string, p ListParams) (repository.BookQuery, int, error) {
	page := parseIntOr(p.Page, DefaultPage)
	if page < 1 {
		page = 1
	}
	if page > maxPage {
		page = maxPage
	}

	limit := parseIntOr(p.Limit, DefaultLimit)
	if limit < 1 {
		limit = 1
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	q := repository.BookQuery{
		OwnerID:  ownerID,
		Search:   strings.TrimSpace(p.Search),
		Category: strings.TrimSpace(p.Category),
		SortBy:   repository.DefaultBookSort,
		Desc:     true,
		Limit:    limit,
		Offset:   (page - 1) * limit,
	}

	verr := &ValidationError{}

	if raw := strings.TrimSpace(p.MinRating); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			verr.add("minRating", "minRating must be a number")
		} else {
			q.MinRating = &v
		}
	}

	if key := strings.TrimSpace(p.Sort); key != "" {
		if _, ok := repository.BookSortColumns[key]; ok {
			q.SortBy = key
		} else {
			verr.add("sort", "sort must be one of %s", strings.Join(sortKeys(), ", "))
		}
	}

	switch strings.ToLower(strings.TrimSpace(p.Order)) {
	case "", "desc":
		q.Desc = true
	case "asc":
		q.Desc = false
	default:
		verr.add("order", "order must be asc or desc")
	}

	if err := verr.orNil(); err != nil {
		return repository.BookQuery{}, 0, err
	}
	return q, page, nil
}

// parseIntOr reads the leading integer of raw ("2.5" and "3abc" give 2 and 3).
// Input without leading digits yields def; out-of-range input saturates.
func parseIntOr(raw string, def int) int {
	s := strings.TrimSpace(raw)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return def
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return def
	}
	return n
}

func sortKeys() []string {
	keys := make([]string, 0, len(repository.BookSortColumns))
	for k := range repository.BookSortColumns {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (s *BookService) Get(ctx context.Context, ownerID, id string) (models.Book, error) {
	b, err := s.books.GetByID(ctx, ownerID, id)
	if err != nil {
		return models.Book{}, err
	}
	if b == nil {
		return models.Book{}, ErrBookNotFound
	}
	return *b, nil
}

// FindByTitle returns the owner's books whose title contains title, case-insensitively.
func (s *BookService) FindByTitle(ctx context.Context, ownerID, title string) ([]models.Book, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		verr := &ValidationError{}
		verr.add("title", "title is required")
		return nil, verr
	}
	books, err := s.books.FindByTitle(ctx, ownerID, title)
	if err != nil {
		return nil, err
	}
	if len(books) == 0 {
		return nil, ErrBookNotFound
	}
	return books, nil
}

func (s *BookService) Create(ctx context.Context, ownerID string, in BookInput) (models.Book, error) {
	in = in.normalized()
	if err := validateStruct(in); err != nil {
		return models.Book{}, err
	}

	now := s.now().UTC()
	b := models.Book{
		ID:        uuid.NewString(),
		Title:     in.Title,
		Author:    in.Author,
		Category:  in.Category,
		Price:     *in.Price,
		Rating:    *in.Rating,
		UserID:    ownerID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.books.Create(ctx, b); err != nil {
		return models.Book{}, err
	}

	s.record(ctx, models.BookActivity{
		OccurredAt:  now,
		Type:        models.ActivityBookCreated,
		BookID:      b.ID,
		UserID:      ownerID,
		Description: fmt.Sprintf("created %q", b.Title),
		Metadata:    map[string]any{"title": b.Title, "category": b.Category},
	})
	return b, nil
}

// Update replaces every editable field of an owned book. Ownership never changes.
func (s *BookService) Update(ctx context.Context, ownerID, id string, in BookInput) (models.Book, error) {
	in = in.normalized()
	if err := validateStruct(in); err != nil {
		return models.Book{}, err
	}

	now := s.now().UTC()
	updated, err := s.books.Update(ctx, models.Book{
		ID:        id,
		Title:     in.Title,
		Author:    in.Author,
		Category:  in.Category,
		Price:     *in.Price,
		Rating:    *in.Rating,
		UserID:    ownerID,
		UpdatedAt: now,
	})
	if err != nil {
		return models.Book{}, err
	}
	if updated == nil {
		return models.Book{}, ErrBookNotFound
	}

	s.record(ctx, models.BookActivity{
		OccurredAt:  now,
		Type:        models.ActivityBookUpdated,
		BookID:      id,
		UserID:      ownerID,
		Description: fmt.Sprintf("updated %q", updated.Title),
		Metadata:    map[string]any{"title": updated.Title, "price": updated.Price, "rating": updated.Rating},
	})
	return *updated, nil
}

func (s *BookService) Delete(ctx context.Context, ownerID, id string) error {
	deleted, err := s.books.Delete(ctx, ownerID, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrBookNotFound
	}

	s.record(ctx, models.BookActivity{
		OccurredAt:  s.now().UTC(),
		Type:        models.ActivityBookDeleted,
		BookID:      id,
		UserID:      ownerID,
		Description: "deleted book " + id,
	})
	return nil
}

// record appends to the activity log. Failures are logged and never fail the mutation.
func (s *BookService) record(ctx context.Context, a models.BookActivity) {
	if s.activity == nil {
		return
	}
	if err := s.activity.Append(ctx, a); err != nil && s.log != nil {
		s.log.Warnw("append activity failed", "type", a.Type, "bookId", a.BookID, "err", err)
	}
}
