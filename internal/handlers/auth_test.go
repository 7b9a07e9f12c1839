package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"bookstore/internal/models"
	"bookstore/internal/service"
)

func postJSON(path, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestAuthHandlers_SignUpAndLogin(t *testing.T) {
	user := models.User{ID: "u42", Email: "a@example.com", PasswordHash: "secret-hash"}
	auth := &mockAuth{
		registerUser: user, registerToken: "tok123",
		loginUser: user, loginToken: "tok456",
	}
	s := &service.Service{Authorization: auth}
	r := newTestRouter(s)

	// signup success → 201 {token, user}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, postJSON("/api/user/signup", `{"email":"a@example.com","password":"secret1"}`))
	if w.Code != http.StatusCreated {
		t.Fatalf("signup status=%d, body=%s", w.Code, w.Body.String())
	}
	var m map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &m)
	if m["token"] != "tok123" {
		t.Fatalf("expected token tok123, got %v", m["token"])
	}
	u, _ := m["user"].(map[string]any)
	if u["id"] != "u42" {
		t.Fatalf("expected user id u42, got %v", m["user"])
	}
	if _, leaked := u["passwordHash"]; leaked || bytes.Contains(w.Body.Bytes(), []byte("secret-hash")) {
		t.Fatalf("password hash leaked: %s", w.Body.String())
	}
	if auth.lastEmail != "a@example.com" || auth.lastPassword != "secret1" {
		t.Fatalf("credentials not passed through: %q %q", auth.lastEmail, auth.lastPassword)
	}

	// login success → 200
	w = httptest.NewRecorder()
	r.ServeHTTP(w, postJSON("/api/user/login", `{"email":"a@example.com","password":"secret1"}`))
	if w.Code != http.StatusOK {
		t.Fatalf("login status=%d, body=%s", w.Code, w.Body.String())
	}
	m = nil
	_ = json.Unmarshal(w.Body.Bytes(), &m)
	if m["token"] != "tok456" {
		t.Fatalf("expected token tok456, got %v", m["token"])
	}

	// login invalid body → 400
	w = httptest.NewRecorder()
	r.ServeHTTP(w, postJSON("/api/user/login", `{"email":1}`))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad body, got %d", w.Code)
	}
}

func TestAuthHandlers_ErrorMapping(t *testing.T) {
	cases := []struct {
		name     string
		path     string
		auth     *mockAuth
		wantCode int
		wantErr  string
	}{
		{
			name:     "duplicate email",
			path:     "/api/user/signup",
			auth:     &mockAuth{registerErr: service.ErrDuplicateEmail},
			wantCode: http.StatusConflict,
			wantErr:  codeDuplicateEmail,
		},
		{
			name: "validation",
			path: "/api/user/signup",
			auth: &mockAuth{registerErr: &service.ValidationError{Fields: []service.FieldError{
				{Field: "password", Message: "password must be at least 6 characters"},
			}}},
			wantCode: http.StatusBadRequest,
			wantErr:  codeValidation,
		},
		{
			name:     "invalid credentials",
			path:     "/api/user/login",
			auth:     &mockAuth{loginErr: service.ErrInvalidCredentials},
			wantCode: http.StatusUnauthorized,
			wantErr:  codeInvalidCredentials,
		},
		{
			name:     "store failure",
			path:     "/api/user/login",
			auth:     &mockAuth{loginErr: errors.New("disk I/O error")},
			wantCode: http.StatusInternalServerError,
			wantErr:  codeInternal,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newTestRouter(&service.Service{Authorization: tc.auth})
			w := httptest.NewRecorder()
			r.ServeHTTP(w, postJSON(tc.path, `{"email":"a@example.com","password":"whatever"}`))

			if w.Code != tc.wantCode {
				t.Fatalf("status=%d, want %d, body=%s", w.Code, tc.wantCode, w.Body.String())
			}
			var out errorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if out.Error != tc.wantErr {
				t.Fatalf("error=%q, want %q", out.Error, tc.wantErr)
			}
		})
	}
}
