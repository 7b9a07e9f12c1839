package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"bookstore/internal/models"
	"bookstore/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles user auth logic
type AuthService struct {
	authRepo   repository.Authorization
	signingKey []byte
	tokenTTL   time.Duration
	now        func() time.Time
}

func NewAuthService(repo repository.Authorization, signingKey string, tokenTTL time.Duration) *AuthService {
	return &AuthService{
		authRepo:   repo,
		signingKey: []byte(signingKey),
		tokenTTL:   tokenTTL,
		now:        time.Now,
	}
}

// Claims defines JWT claims
type Claims struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

type signupInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,maxbytes=72"`
}

type loginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a user with a hashed password and returns it together with a fresh token.
func (s *AuthService) Register(ctx context.Context, email, password string) (models.User, string, error) {
	in := signupInput{Email: normalizeEmail(email), Password: password}
	if err := validateStruct(in); err != nil {
		return models.User{}, "", err
	}

	existing, err := s.authRepo.GetByEmail(ctx, in.Email)
	if err != nil {
		return models.User{}, "", err
	}
	if existing != nil {
		return models.User{}, "", ErrDuplicateEmail
	}

	hash, err := hashPassword(in.Password)
	if err != nil {
		return models.User{}, "", err
	}

	u := models.User{
		ID:           uuid.NewString(),
		Email:        in.Email,
		PasswordHash: hash,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.authRepo.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return models.User{}, "", ErrDuplicateEmail
		}
		return models.User{}, "", err
	}

	token, err := s.IssueToken(u.ID, u.Email)
	if err != nil {
		return models.User{}, "", err
	}
	return u, token, nil
}

// Login validates credentials and returns the user with a signed token.
// Unknown emails and wrong passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (models.User, string, error) {
	in := loginInput{Email: normalizeEmail(email), Password: password}
	if err := validateStruct(in); err != nil {
		return models.User{}, "", err
	}

	u, err := s.authRepo.GetByEmail(ctx, in.Email)
	if err != nil {
		return models.User{}, "", err
	}
	if u == nil {
		return models.User{}, "", ErrInvalidCredentials
	}
	if err := verifyPassword(u.PasswordHash, in.Password); err != nil {
		return models.User{}, "", ErrInvalidCredentials
	}

	token, err := s.IssueToken(u.ID, u.Email)
	if err != nil {
		return models.User{}, "", err
	}
	return *u, token, nil
}

// IssueToken signs an HS256 token carrying the user's id and email.
func (s *AuthService) IssueToken(userID, email string) (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	})
	signed, err := token.SignedString(s.signingKey)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// VerifyToken parses a token and returns its claims.
// Expired tokens yield ErrTokenExpired; every other failure yields ErrTokenInvalid.
func (s *AuthService) VerifyToken(accessToken string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(accessToken, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Ensure HMAC signing is used
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.signingKey, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == "" {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// helper: hash password safely
func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// helper: verify password against hash
func verifyPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
