package models

import "time"

// Book is a single catalog entry. UserID is the owner and never changes after creation.
type Book struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	Category  string    `json:"category"`
	Price     float64   `json:"price"`
	Rating    float64   `json:"rating"` // 0..5 inclusive
	UserID    string    `json:"user"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookPage is one page of a filtered catalog listing.
type BookPage struct {
	Books       []Book `json:"books"`
	CurrentPage int    `json:"currentPage"`
	TotalPages  int    `json:"totalPages"`
	TotalBooks  int    `json:"totalBooks"`
	Limit       int    `json:"limit"`
}
