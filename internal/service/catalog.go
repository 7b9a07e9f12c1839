package service

import (
	"context"
	"math"

	"bookstore/internal/models"
	"bookstore/internal/repository"
)

// CatalogService exposes read-only aggregates over a user's books.
type CatalogService struct {
	books repository.BookRepo
}

func NewCatalogService(books repository.BookRepo) *CatalogService {
	return &CatalogService{books: books}
}

// Summary returns counts and averages for the owner's catalog. Averages are rounded to cents.
func (s *CatalogService) Summary(ctx context.Context, ownerID string) (models.CatalogSummary, error) {
	sum, err := s.books.Summary(ctx, ownerID)
	if err != nil {
		return models.CatalogSummary{}, err
	}
	sum.AverageRating = round2(sum.AverageRating)
	sum.AveragePrice = round2(sum.AveragePrice)
	sum.GeneratedAt = normalizeToUTC(sum.GeneratedAt)
	if sum.Categories == nil {
		sum.Categories = map[string]int{}
	}
	return sum, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
