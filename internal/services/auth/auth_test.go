package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	jwtmaker "github.com/magabrotheeeer/repair-crm/internal/lib/jwt"
	"github.com/magabrotheeeer/repair-crm/internal/lib/password"
	"github.com/magabrotheeeer/repair-crm/internal/models"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) CreateUser(ctx context.Context, user models.User) (int, error) {
	args := m.Called(ctx, user)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestAuthService_Register(t *testing.T) {
	repo := new(RepoMock)
	maker := jwtmaker.NewJWTMaker("test-secret", time.Hour)
	svc := NewAuthService(repo, maker, newNoopLogger())

	repo.On("CreateUser", mock.Anything, mock.MatchedBy(func(u models.User) bool {
		return u.Username == "masha" &&
			u.Role == "user" &&
			u.UID != "" &&
			password.CompareHash(u.PasswordHash, "secretpass123") == nil
	})).Return(1, nil).Once()

	id, err := svc.Register(context.Background(), models.DummyRegister{
		Username: "masha",
		Email:    "masha@example.com",
		Password: "secretpass123",
	})
	assert.NoError(t, err)
	assert.Equal(t, 1, id)
	repo.AssertExpectations(t)
}

func TestAuthService_Login(t *testing.T) {
	hash, err := password.GetHash("secretpass123")
	assert.NoError(t, err)

	user := &models.User{
		ID:           1,
		UID:          "uid-1",
		Username:     "masha",
		PasswordHash: hash,
		Role:         "user",
	}
	maker := jwtmaker.NewJWTMaker("test-secret", time.Hour)

	t.Run("success returns parseable token", func(t *testing.T) {
		repo := new(RepoMock)
		svc := NewAuthService(repo, maker, newNoopLogger())
		repo.On("GetUserByUsername", mock.Anything, "masha").Return(user, nil).Once()

		token, err := svc.Login(context.Background(), models.DummyLogin{
			Username: "masha",
			Password: "secretpass123",
		})
		assert.NoError(t, err)

		claims, err := maker.ParseToken(token)
		assert.NoError(t, err)
		assert.Equal(t, "masha", claims.Username)
		assert.Equal(t, "user", claims.Role)
	})

	t.Run("wrong password", func(t *testing.T) {
		repo := new(RepoMock)
		svc := NewAuthService(repo, maker, newNoopLogger())
		repo.On("GetUserByUsername", mock.Anything, "masha").Return(user, nil).Once()

		_, err := svc.Login(context.Background(), models.DummyLogin{
			Username: "masha",
			Password: "wrong",
		})
		assert.Error(t, err)
	})

	t.Run("unknown user", func(t *testing.T) {
		repo := new(RepoMock)
		svc := NewAuthService(repo, maker, newNoopLogger())
		repo.On("GetUserByUsername", mock.Anything, "nobody").Return(nil, errors.New("user not found")).Once()

		_, err := svc.Login(context.Background(), models.DummyLogin{
			Username: "nobody",
			Password: "secretpass123",
		})
		assert.Error(t, err)
	})
}
