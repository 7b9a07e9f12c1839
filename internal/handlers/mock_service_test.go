package handlers

import (
	"context"
	"net/http"
	"time"

	"bookstore/internal/models"
	"bookstore/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	registerUser  models.User
	registerToken string
	registerErr   error
	loginUser     models.User
	loginToken    string
	loginErr      error
	verifyClaims  *service.Claims
	verifyErr     error

	lastEmail       string
	lastPassword    string
	lastVerifyToken string
}

func (m *mockAuth) Register(_ context.Context, email, password string) (models.User, string, error) {
	m.lastEmail = email
	m.lastPassword = password
	return m.registerUser, m.registerToken, m.registerErr
}

func (m *mockAuth) Login(_ context.Context, email, password string) (models.User, string, error) {
	m.lastEmail = email
	m.lastPassword = password
	return m.loginUser, m.loginToken, m.loginErr
}

func (m *mockAuth) IssueToken(userID, email string) (string, error) {
	return "tok-" + userID, nil
}

func (m *mockAuth) VerifyToken(token string) (*service.Claims, error) {
	m.lastVerifyToken = token
	if m.verifyErr != nil {
		return nil, m.verifyErr
	}
	if m.verifyClaims != nil {
		return m.verifyClaims, nil
	}
	return &service.Claims{UserID: "u1", Email: "u1@example.com"}, nil
}

type mockBooks struct {
	page      models.BookPage
	book      models.Book
	byTitle   []models.Book
	err       error
	lastOwner string
	lastID    string
	lastList  service.ListParams
	lastInput service.BookInput
	calls     int
}

func (m *mockBooks) List(_ context.Context, ownerID string, p service.ListParams) (models.BookPage, error) {
	m.calls++
	m.lastOwner = ownerID
	m.lastList = p
	return m.page, m.err
}

func (m *mockBooks) Get(_ context.Context, ownerID, id string) (models.Book, error) {
	m.calls++
	m.lastOwner, m.lastID = ownerID, id
	return m.book, m.err
}

func (m *mockBooks) FindByTitle(_ context.Context, ownerID, title string) ([]models.Book, error) {
	m.calls++
	m.lastOwner, m.lastID = ownerID, title
	return m.byTitle, m.err
}

func (m *mockBooks) Create(_ context.Context, ownerID string, in service.BookInput) (models.Book, error) {
	m.calls++
	m.lastOwner, m.lastInput = ownerID, in
	return m.book, m.err
}

func (m *mockBooks) Update(_ context.Context, ownerID, id string, in service.BookInput) (models.Book, error) {
	m.calls++
	m.lastOwner, m.lastID, m.lastInput = ownerID, id, in
	return m.book, m.err
}

func (m *mockBooks) Delete(_ context.Context, ownerID, id string) error {
	m.calls++
	m.lastOwner, m.lastID = ownerID, id
	return m.err
}

type mockCatalog struct {
	summary   models.CatalogSummary
	err       error
	lastOwner string
}

func (m *mockCatalog) Summary(_ context.Context, ownerID string) (models.CatalogSummary, error) {
	m.lastOwner = ownerID
	return m.summary, m.err
}

type mockActivityLog struct {
	resp      []models.BookActivity
	err       error
	lastOwner string
	lastFrom  time.Time
	lastTo    time.Time
	lastType  string
}

func (m *mockActivityLog) List(_ context.Context, ownerID string, f service.LogFilter) ([]models.BookActivity, error) {
	m.lastOwner = ownerID
	m.lastFrom = f.From
	m.lastTo = f.To
	m.lastType = f.Type
	return m.resp, m.err
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}

func withHeaders(req *http.Request, hdr http.Header) *http.Request {
	for k, vv := range hdr {
		for _, v := range vv {
			req.Header.Add(k, v)
		}
	}
	return req
}
