package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"stockpile/internal/core/apperror"
	"stockpile/internal/core/id"
	"stockpile/pkg/logger"
)

// Service provides account and session operations.
type Service struct {
	repo   Repository
	tokens *TokenIssuer
}

// NewService creates a new auth service.
func NewService(repo Repository, tokens *TokenIssuer) *Service {
	return &Service{
		repo:   repo,
		tokens: tokens,
	}
}

// Session is an issued access token with its account.
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      *User
}

// Register creates a new account and issues a token.
func (s *Service) Register(ctx context.Context, email, name, password string) (*Session, error) {
	user, err := NewUser(email, name, password)
	if err != nil {
		return nil, err
	}
	if err := user.Validate(ctx); err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsByEmail(ctx, user.Email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return nil, apperror.NewDuplicate("user", "email", user.Email)
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	logger.Info(ctx, "user registered", "user_id", user.ID, "email", user.Email)
	return s.newSession(user)
}

// Login verifies credentials and issues a token.
// Unknown email and wrong password produce the same error.
func (s *Service) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewUnauthorized("invalid credentials")
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	if !user.IsActive {
		return nil, apperror.NewUnauthorized("account is disabled")
	}
	if !user.CheckPassword(password) {
		return nil, apperror.NewUnauthorized("invalid credentials")
	}

	logger.Info(ctx, "user logged in", "user_id", user.ID)
	return s.newSession(user)
}

// GetByID returns an account by ID.
func (s *Service) GetByID(ctx context.Context, userID id.ID) (*User, error) {
	return s.repo.GetByID(ctx, userID)
}

// VerifyToken validates a token and returns its claims.
func (s *Service) VerifyToken(tokenString string) (*Claims, error) {
	return s.tokens.Verify(tokenString)
}

func (s *Service) newSession(user *User) (*Session, error) {
	token, expiresAt, err := s.tokens.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &Session{Token: token, ExpiresAt: expiresAt, User: user}, nil
}
