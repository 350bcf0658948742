package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	config "github.com/prasadk19/postdeck/configs"
	"github.com/prasadk19/postdeck/internal/models"
	"github.com/prasadk19/postdeck/internal/repository"
	"github.com/prasadk19/postdeck/pkg/utils"
)

type AuthService interface {
	SignUp(ctx context.Context, email, password, fullName string) (int64, error)
	SignIn(ctx context.Context, email, password string) (int64, error)
}

type authService struct {
	cfg config.Config
	u   repository.UserRepository
}

func NewAuthService(cfg config.Config, u repository.UserRepository) AuthService {
	return &authService{
		cfg: cfg,
		u:   u,
	}
}

func (s *authService) SignUp(ctx context.Context, email, password, fullName string) (int64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		err := errors.New("invalid email address")
		slog.Info(err.Error())
		return 0, err
	}
	if len(password) < 8 {
		err := errors.New("password must be at least 8 characters")
		slog.Info(err.Error())
		return 0, err
	}

	_, exists, err := s.u.GetByEmail(ctx, email)
	if err != nil {
		return 0, fmt.Errorf("error checking existing user: %w", err)
	}
	if exists {
		err = errors.New("an account with this email already exists")
		slog.Info(err.Error())
		return 0, err
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return 0, fmt.Errorf("error hashing password: %w", err)
	}

	userID, err := s.u.Create(ctx, nil, &models.User{
		Email:        email,
		PasswordHash: hash,
		FullName:     fullName,
	})
	if err != nil {
		return 0, fmt.Errorf("error creating user: %w", err)
	}

	return userID, nil
}

func (s *authService) SignIn(ctx context.Context, email, password string) (int64, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, exists, err := s.u.GetByEmail(ctx, email)
	if err != nil {
		return 0, fmt.Errorf("error looking up user: %w", err)
	}
	if !exists || !utils.VerifyPassword(user.PasswordHash, password) {
		err = errors.New("invalid email or password")
		slog.Info(err.Error())
		return 0, err
	}

	return user.ID, nil
}
