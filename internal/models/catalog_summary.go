package models

import "time"

// CatalogSummary aggregates a user's catalog.
type CatalogSummary struct {
	TotalBooks    int            `json:"totalBooks"`
	AverageRating float64        `json:"averageRating"`
	AveragePrice  float64        `json:"averagePrice"`
	Categories    map[string]int `json:"categories"`
	GeneratedAt   time.Time      `json:"generatedAt"`
}
