package handlers

import (
	"errors"
	"net/http"

	"bookstore/internal/service"

	"github.com/gin-gonic/gin"
)

const msgBookDeleted = "Book deleted successfully"

// BookRequest is the create/update payload. Every field is required.
type BookRequest struct {
	Title    string   `json:"title" example:"Dune"`
	Author   string   `json:"author" example:"Frank Herbert"`
	Category string   `json:"category" example:"Fiction"`
	Price    *float64 `json:"price" example:"9.99"`
	Rating   *float64 `json:"rating" example:"4.5"`
}

func (r BookRequest) toInput() service.BookInput {
	return service.BookInput{
		Title:    r.Title,
		Author:   r.Author,
		Category: r.Category,
		Price:    r.Price,
		Rating:   r.Rating,
	}
}

// @Summary      List books
// @Description  Owner-scoped listing with search, category prefix, minimum rating, sorting and pagination.
// @Tags         books
// @Produce      json
// @Param        search     query  string  false  "Substring of title or author"
// @Param        category   query  string  false  "Category prefix (case-insensitive)"
// @Param        minRating  query  number  false  "Minimum rating, inclusive"
// @Param        sort       query  string  false  "Sort key"  Enums(createdAt,updatedAt,title,author,category,price,rating)
// @Param        order      query  string  false  "Sort order"  Enums(asc,desc)
// @Param        page       query  int     false  "Page number (default 1)"
// @Param        limit      query  int     false  "Page size (default 10, max 100)"
// @Success      200  {object}  models.BookPage
// @Failure      400  {object}  errorResponse
// @Failure      401  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /api/store [get]
// @Security     BearerAuth
func (h *Handler) listBooks(c *gin.Context) {
	page, err := h.services.Books.List(c.Request.Context(), currentUser(c), service.ListParams{
		Search:    c.Query("search"),
		Category:  c.Query("category"),
		MinRating: c.Query("minRating"),
		Sort:      c.Query("sort"),
		Order:     c.Query("order"),
		Page:      c.Query("page"),
		Limit:     c.Query("limit"),
	})
	if err != nil {
		h.respondError(c, err, "books_list_failed")
		return
	}
	c.JSON(http.StatusOK, page)
}

// @Summary      Get a book
// @Tags         books
// @Produce      json
// @Param        id   path      string  true  "Book id"
// @Success      200  {object}  models.Book
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/store/{id} [get]
// @Security     BearerAuth
func (h *Handler) getBook(c *gin.Context) {
	book, err := h.services.Books.Get(c.Request.Context(), currentUser(c), c.Param("id"))
	if err != nil {
		h.respondError(c, err, "books_get_failed", "id", c.Param("id"))
		return
	}
	c.JSON(http.StatusOK, book)
}

// @Summary      Find books by title
// @Description  Case-insensitive title substring search over the caller's books.
// @Tags         books
// @Produce      json
// @Param        title  path      string  true  "Title fragment"
// @Success      200    {object}  map[string]interface{}  "message, books"
// @Failure      401    {object}  errorResponse
// @Failure      404    {object}  errorResponse
// @Router       /api/store/title/{title} [get]
// @Security     BearerAuth
func (h *Handler) getBooksByTitle(c *gin.Context) {
	books, err := h.services.Books.FindByTitle(c.Request.Context(), currentUser(c), c.Param("title"))
	if err != nil {
		if errors.Is(err, service.ErrBookNotFound) {
			c.JSON(http.StatusNotFound, errorResponse{Error: codeNotFound, Message: "No books found with this title"})
			return
		}
		h.respondError(c, err, "books_find_by_title_failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"message": "Books found successfully",
		"books":   books,
	})
}

// @Summary      Create a book
// @Tags         books
// @Accept       json
// @Produce      json
// @Param        body  body      BookRequest  true  "Book"
// @Success      201   {object}  models.Book
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /api/store [post]
// @Security     BearerAuth
func (h *Handler) createBook(c *gin.Context) {
	var req BookRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}
	book, err := h.services.Books.Create(c.Request.Context(), currentUser(c), req.toInput())
	if err != nil {
		h.respondError(c, err, "books_create_failed")
		return
	}
	c.JSON(http.StatusCreated, book)
}

// @Summary      Replace a book
// @Tags         books
// @Accept       json
// @Produce      json
// @Param        id    path      string       true  "Book id"
// @Param        body  body      BookRequest  true  "Book"
// @Success      200   {object}  models.Book
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /api/store/{id} [put]
// @Security     BearerAuth
func (h *Handler) updateBook(c *gin.Context) {
	var req BookRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}
	book, err := h.services.Books.Update(c.Request.Context(), currentUser(c), c.Param("id"), req.toInput())
	if err != nil {
		h.respondError(c, err, "books_update_failed", "id", c.Param("id"))
		return
	}
	c.JSON(http.StatusOK, book)
}

// @Summary      Delete a book
// @Tags         books
// @Produce      json
// @Param        id   path      string  true  "Book id"
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/store/{id} [delete]
// @Security     BearerAuth
func (h *Handler) deleteBook(c *gin.Context) {
	if err := h.services.Books.Delete(c.Request.Context(), currentUser(c), c.Param("id")); err != nil {
		h.respondError(c, err, "books_delete_failed", "id", c.Param("id"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": msgBookDeleted})
}

// @Summary      Catalog summary
// @Tags         books
// @Produce      json
// @Success      200  {object}  models.CatalogSummary
// @Failure      401  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /api/store/summary [get]
// @Security     BearerAuth
func (h *Handler) getSummary(c *gin.Context) {
	sum, err := h.services.Catalog.Summary(c.Request.Context(), currentUser(c))
	if err != nil {
		h.respondError(c, err, "catalog_summary_failed")
		return
	}
	c.JSON(http.StatusOK, sum)
}
