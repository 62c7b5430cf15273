// Package services содержит бизнес-логику регистрации и аутентификации пользователей.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	jwtmaker "github.com/magabrotheeeer/repair-crm/internal/lib/jwt"
	"github.com/magabrotheeeer/repair-crm/internal/lib/password"
	"github.com/magabrotheeeer/repair-crm/internal/models"
)

// UserRepository определяет методы для работы с пользователями в хранилище.
type UserRepository interface {
	CreateUser(ctx context.Context, user models.User) (int, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
}

// AuthService реализует регистрацию и вход пользователей.
type AuthService struct {
	repo  UserRepository
	maker jwtmaker.Maker
	log   *slog.Logger
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(repo UserRepository, maker jwtmaker.Maker, log *slog.Logger) *AuthService {
	return &AuthService{
		repo:  repo,
		maker: maker,
		log:   log,
	}
}

// Register создает нового пользователя с ролью user и возвращает его ID.
func (s *AuthService) Register(ctx context.Context, req models.DummyRegister) (int, error) {
	const op = "services.auth.Register"

	hash, err := password.GetHash(req.Password)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	user := models.User{
		UID:          uuid.New().String(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         "user",
	}
	id, err := s.repo.CreateUser(ctx, user)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("registered new user", slog.String("username", req.Username))
	return id, nil
}

// Login проверяет пароль пользователя и возвращает подписанный JWT.
func (s *AuthService) Login(ctx context.Context, req models.DummyLogin) (string, error) {
	const op = "services.auth.Login"

	user, err := s.repo.GetUserByUsername(ctx, req.Username)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if err := password.CompareHash(user.PasswordHash, req.Password); err != nil {
		return "", fmt.Errorf("%s: invalid credentials", op)
	}

	token, err := s.maker.GenerateToken(user.Username, user.Role, user.UID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("user logged in", slog.String("username", req.Username))
	return token, nil
}
