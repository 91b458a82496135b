package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"clubsite-backend/internal/domains/auth/model"
	"clubsite-backend/internal/shared/auth"
	"clubsite-backend/pkg/jwt"
	"clubsite-backend/pkg/logger"

	"golang.org/x/crypto/bcrypt"
)

// Repository is satisfied by *repository.PostgresRepository.
type Repository interface {
	FindByEmail(ctx context.Context, email string) (model.Admin, error)
	Upsert(ctx context.Context, email, passwordHash, role string) (model.Admin, error)
}

type Service struct {
	repo    Repository
	tokens  *jwt.Manager
	allowed map[string]struct{}
}

// NewService builds the admin login service. An empty allow-list admits
// every row in admins.
func NewService(repo Repository, tokens *jwt.Manager, allowedEmails []string) *Service {
	allowed := make(map[string]struct{}, len(allowedEmails))
	for _, e := range allowedEmails {
		allowed[strings.ToLower(strings.TrimSpace(e))] = struct{}{}
	}
	return &Service{repo: repo, tokens: tokens, allowed: allowed}
}

func (s *Service) Login(ctx context.Context, req model.LoginRequest) (*model.LoginResponse, error) {
	req = req.Normalized()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// unknown email, wrong password and not-allowed all look the same
	if !s.isAllowed(req.Email) {
		logger.Warn("Login rejected: email not on allow-list", map[string]interface{}{"email": req.Email})
		return nil, model.ErrInvalidCredentials
	}

	a, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, model.ErrAdminNotFound) {
			return nil, model.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(req.Password)); err != nil {
		return nil, model.ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.GenerateAccessToken(a.ID.String(), a.Email, a.Role)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	logger.Info("Admin signed in", map[string]interface{}{"admin": a.Email})
	return &model.LoginResponse{AccessToken: token, ExpiresAt: expiresAt, Admin: a}, nil
}

func (s *Service) Me(ac auth.Context) (auth.Context, error) {
	if err := ac.Require(); err != nil {
		return auth.Context{}, err
	}
	return ac, nil
}

// Bootstrap creates the first admin or resets its password.
func (s *Service) Bootstrap(ctx context.Context, email, password string) (model.Admin, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return model.Admin{}, model.ErrBootstrapMissing
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return model.Admin{}, fmt.Errorf("hash password: %w", err)
	}

	a, err := s.repo.Upsert(ctx, email, string(hash), model.RoleAdmin)
	if err != nil {
		return model.Admin{}, err
	}
	logger.Info("Bootstrap admin ready", map[string]interface{}{"admin": a.Email})
	return a, nil
}

func (s *Service) isAllowed(email string) bool {
	if len(s.allowed) == 0 {
		return true
	}
	_, ok := s.allowed[email]
	return ok
}
