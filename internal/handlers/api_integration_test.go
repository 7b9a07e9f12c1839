package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"bookstore/internal/config"
	"bookstore/internal/handlers"
	"bookstore/internal/logger"
	"bookstore/internal/models"
	"bookstore/internal/repository"
	"bookstore/internal/repository/db"
	"bookstore/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type apiClient struct {
	t      *testing.T
	router http.Handler
}

func newAPI(t *testing.T) *apiClient {
	t.Helper()
	conn, err := db.InitDB(filepath.Join(t.TempDir(), "api.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	cfg := &config.Config{
		Env:      config.EnvProduction,
		JWT:      config.JWT{Secret: "integration-secret", TTL: time.Hour},
		Activity: config.Activity{Retention: time.Hour, PruneSchedule: "@hourly"},
	}
	services := service.NewService(repository.NewRepository(conn), cfg, logger.Nop())

	gin.SetMode(gin.TestMode)
	return &apiClient{t: t, router: handlers.NewHandler(services, logger.Nop(), cfg).InitRoutes()}
}

func (a *apiClient) do(method, path, token string, body any) *httptest.ResponseRecorder {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *apiClient) signup(email string) string {
	a.t.Helper()
	w := a.do(http.MethodPost, "/api/user/signup", "", map[string]string{"email": email, "password": "secret123"})
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	var out struct {
		Token string `json:"token"`
	}
	require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &out))
	require.NotEmpty(a.t, out.Token)
	return out.Token
}

func (a *apiClient) createBook(token string, book map[string]any) models.Book {
	a.t.Helper()
	w := a.do(http.MethodPost, "/api/store", token, book)
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	var b models.Book
	require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &b))
	return b
}

func book(title, category string, price, rating float64) map[string]any {
	return map[string]any{"title": title, "author": "Some Author", "category": category, "price": price, "rating": rating}
}

func TestAPI_SignupLoginAndDuplicate(t *testing.T) {
	api := newAPI(t)
	token := api.signup("reader@example.com")

	w := api.do(http.MethodGet, "/api/store", token, nil)
	assert.Equal(t, http.StatusOK, w.Code, "issued token must be usable")

	w = api.do(http.MethodPost, "/api/user/signup", "", map[string]string{"email": "Reader@Example.com", "password": "another1"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = api.do(http.MethodPost, "/api/user/login", "", map[string]string{"email": "reader@example.com", "password": "secret123"})
	assert.Equal(t, http.StatusOK, w.Code)

	w = api.do(http.MethodPost, "/api/user/login", "", map[string]string{"email": "reader@example.com", "password": "wrong-one"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = api.do(http.MethodPost, "/api/user/login", "", map[string]string{"email": "nobody@example.com", "password": "secret123"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAPI_SignupRejectsPasswordOverBcryptLimit(t *testing.T) {
	api := newAPI(t)

	w := api.do(http.MethodPost, "/api/user/signup", "", map[string]string{"email": "mei@example.com", "password": strings.Repeat("密", 30)})
	require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())

	var body struct {
		Error   string               `json:"error"`
		Details []service.FieldError `json:"details"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ValidationError", body.Error)
	require.Len(t, body.Details, 1)
	assert.Equal(t, "password", body.Details[0].Field)

	w = api.do(http.MethodPost, "/api/user/signup", "", map[string]string{"email": "mei@example.com", "password": strings.Repeat("密", 24)})
	assert.Equal(t, http.StatusCreated, w.Code, w.Body.String())
}

func TestAPI_OwnerIsolation(t *testing.T) {
	api := newAPI(t)
	alice := api.signup("alice@example.com")
	bob := api.signup("bob@example.com")
	b := api.createBook(alice, book("Dune", "Fiction", 10, 4))

	path := "/api/store/" + b.ID
	assert.Equal(t, http.StatusNotFound, api.do(http.MethodGet, path, bob, nil).Code)
	assert.Equal(t, http.StatusNotFound, api.do(http.MethodPut, path, bob, book("Mine", "Fiction", 1, 1)).Code)
	assert.Equal(t, http.StatusNotFound, api.do(http.MethodDelete, path, bob, nil).Code)
	assert.Equal(t, http.StatusNotFound, api.do(http.MethodGet, "/api/store/title/dune", bob, nil).Code)

	w := api.do(http.MethodGet, path, alice, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got models.Book
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "Dune", got.Title, "bob's update must not have applied")
}

func TestAPI_PriceAndRatingBoundaries(t *testing.T) {
	api := newAPI(t)
	token := api.signup("bounds@example.com")

	for _, bad := range []map[string]any{
		book("Neg", "Fiction", -1, 3),
		book("High", "Fiction", 3, 6),
	} {
		w := api.do(http.MethodPost, "/api/store", token, bad)
		assert.Equal(t, http.StatusBadRequest, w.Code, "%v", bad)
	}

	for _, ok := range []map[string]any{
		book("Free", "Fiction", 0, 0),
		book("Top", "Fiction", 0, 5),
	} {
		w := api.do(http.MethodPost, "/api/store", token, ok)
		assert.Equal(t, http.StatusCreated, w.Code, "%v: %s", ok, w.Body.String())
	}
}

func TestAPI_CategoryFilterExcludesNonFiction(t *testing.T) {
	api := newAPI(t)
	token := api.signup("cat@example.com")
	api.createBook(token, book("Story", "Fiction", 5, 3))
	api.createBook(token, book("Facts", "Non-Fiction", 5, 3))

	w := api.do(http.MethodGet, "/api/store?category=Fiction", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var page models.BookPage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	require.Len(t, page.Books, 1)
	assert.Equal(t, "Story", page.Books[0].Title)
}

func TestAPI_Pagination(t *testing.T) {
	api := newAPI(t)
	token := api.signup("pages@example.com")
	for i := 0; i < 15; i++ {
		api.createBook(token, book(fmt.Sprintf("Book %02d", i), "Fiction", 1, 1))
	}

	w := api.do(http.MethodGet, "/api/store?page=2&limit=10", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var page models.BookPage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Len(t, page.Books, 5)
	assert.Equal(t, 2, page.TotalPages)
	assert.Equal(t, 15, page.TotalBooks)
	assert.Equal(t, 2, page.CurrentPage)

	w = api.do(http.MethodGet, "/api/store?page=x&limit=-4", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Equal(t, 1, page.CurrentPage)
	assert.Equal(t, 1, page.Limit)
	assert.Equal(t, 15, page.TotalPages)
}

func TestAPI_UpdateRoundTripAndActivity(t *testing.T) {
	api := newAPI(t)
	token := api.signup("round@example.com")
	created := api.createBook(token, book("Draft", "Drafts", 1, 1))

	update := map[string]any{"title": "Final", "author": "New Author", "category": "History", "price": 19.5, "rating": 4.5}
	w := api.do(http.MethodPut, "/api/store/"+created.ID, token, update)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = api.do(http.MethodGet, "/api/store/"+created.ID, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got models.Book
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "Final", got.Title)
	assert.Equal(t, "New Author", got.Author)
	assert.Equal(t, "History", got.Category)
	assert.Equal(t, 19.5, got.Price)
	assert.Equal(t, 4.5, got.Rating)
	assert.True(t, got.CreatedAt.Equal(created.CreatedAt), "createdAt must not change")

	require.Equal(t, http.StatusOK, api.do(http.MethodDelete, "/api/store/"+created.ID, token, nil).Code)

	w = api.do(http.MethodGet, "/api/store/activity", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var log struct {
		Count  int                   `json:"count"`
		Events []models.BookActivity `json:"events"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &log))
	require.Equal(t, 3, log.Count)
	assert.Equal(t, models.ActivityBookCreated, log.Events[0].Type)
	assert.Equal(t, models.ActivityBookUpdated, log.Events[1].Type)
	assert.Equal(t, models.ActivityBookDeleted, log.Events[2].Type)
}

func TestAPI_Summary(t *testing.T) {
	api := newAPI(t)
	token := api.signup("sum@example.com")
	api.createBook(token, book("A", "Fiction", 10, 4))
	api.createBook(token, book("B", "Fiction", 20, 5))
	api.createBook(token, book("C", "History", 30, 3))

	w := api.do(http.MethodGet, "/api/store/summary", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var sum models.CatalogSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sum))
	assert.Equal(t, 3, sum.TotalBooks)
	assert.Equal(t, 20.0, sum.AveragePrice)
	assert.Equal(t, 4.0, sum.AverageRating)
	assert.Equal(t, map[string]int{"Fiction": 2, "History": 1}, sum.Categories)
}
