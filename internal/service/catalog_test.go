package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"bookstore/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogService_Summary(t *testing.T) {
	t.Parallel()

	local := time.Date(2025, 3, 1, 12, 0, 0, 0, time.FixedZone("UTC+2", 2*3600))
	repo := &fakeBookRepo{summary: models.CatalogSummary{
		TotalBooks:    3,
		AverageRating: 3.6666666,
		AveragePrice:  10.005,
		GeneratedAt:   local,
	}}

	got, err := NewCatalogService(repo).Summary(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, 3, got.TotalBooks)
	assert.Equal(t, 3.67, got.AverageRating)
	assert.NotNil(t, got.Categories)
	assert.Equal(t, time.UTC, got.GeneratedAt.Location())
	assert.True(t, got.GeneratedAt.Equal(local))
}

func TestCatalogService_Summary_RepoError(t *testing.T) {
	t.Parallel()

	boom := errors.New("db down")
	_, err := NewCatalogService(&fakeBookRepo{err: boom}).Summary(context.Background(), "u1")
	assert.ErrorIs(t, err, boom)
}
