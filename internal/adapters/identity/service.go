package identity

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"booknstay/internal/domain"
)

// Service is the identity provider: email+password accounts backed by the
// user repository, bearer tokens signed by the TokenService.
type Service struct {
	users  domain.UserRepository
	tokens *TokenService
}

func NewService(users domain.UserRepository, tokens *TokenService) *Service {
	return &Service{users: users, tokens: tokens}
}

// AuthResult is what a successful sign-in or sign-up returns: the opaque
// user identifier plus the bearer token for subsequent calls.
type AuthResult struct {
	UserID string `json:"userId"`
	Token  string `json:"token"`
}

func (s *Service) Register(ctx context.Context, fullName, email, password string) (AuthResult, error) {
	email = normalizeEmail(email)

	if _, err := s.users.UserByEmail(ctx, email); err == nil {
		return AuthResult{}, domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrNotFound) {
		return AuthResult{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return AuthResult{}, err
	}

	u := domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		FullName:     strings.TrimSpace(fullName),
		PasswordHash: string(hash),
	}
	if err := s.users.CreateUser(ctx, u); err != nil {
		return AuthResult{}, err
	}
	return s.issue(u.ID)
}

func (s *Service) Login(ctx context.Context, email, password string) (AuthResult, error) {
	email = normalizeEmail(email)

	u, err := s.users.UserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return AuthResult{}, domain.ErrInvalidCredentials
		}
		return AuthResult{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return AuthResult{}, domain.ErrInvalidCredentials
	}
	return s.issue(u.ID)
}

// UserIDFromToken resolves a bearer token to its user identifier.
func (s *Service) UserIDFromToken(token string) (string, error) {
	claims, err := s.tokens.Validate(token)
	if err != nil {
		return "", err
	}
	return claims.UserID, nil
}

func (s *Service) issue(userID string) (AuthResult, error) {
	tok, err := s.tokens.Generate(userID)
	if err != nil {
		return AuthResult{}, err
	}
	return AuthResult{UserID: userID, Token: tok}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
