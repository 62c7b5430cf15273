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

	"github.com/magabrotheeeer/repair-crm/internal/models"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) CreatePayment(ctx context.Context, payment models.Payment) (int, error) {
	args := m.Called(ctx, payment)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) ListPaymentsBySubscription(ctx context.Context, subscriptionID int) ([]*models.Payment, error) {
	args := m.Called(ctx, subscriptionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Payment), args.Error(1)
}
func (m *RepoMock) ListPaymentsByClient(ctx context.Context, clientID int) ([]*models.Payment, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Payment), args.Error(1)
}
func (m *RepoMock) ReadSubscription(ctx context.Context, id int) (*models.Subscription, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subscription), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestPaymentService_Create(t *testing.T) {
	req := models.DummyPayment{
		SubscriptionID: 5,
		DurationMonths: 1,
		Amount:         "120.50",
		PaidOn:         "31-01-2025",
	}

	t.Run("derives paid_until and takes client from subscription", func(t *testing.T) {
		repo := new(RepoMock)
		svc := NewPaymentService(repo, newNoopLogger())

		repo.On("ReadSubscription", mock.Anything, 5).Return(&models.Subscription{
			ID: 5, ClientID: 77,
		}, nil).Once()
		repo.On("CreatePayment", mock.Anything, mock.MatchedBy(func(p models.Payment) bool {
			wantUntil := time.Date(2025, time.February, 28, 0, 0, 0, 0, time.UTC)
			return p.ClientID == 77 &&
				p.SubscriptionID == 5 &&
				p.PaidUntil.Equal(wantUntil) &&
				p.Amount.String() == "120.5"
		})).Return(13, nil).Once()

		id, err := svc.Create(context.Background(), req)
		assert.NoError(t, err)
		assert.Equal(t, 13, id)
		repo.AssertExpectations(t)
	})

	t.Run("invalid date", func(t *testing.T) {
		repo := new(RepoMock)
		svc := NewPaymentService(repo, newNoopLogger())

		bad := req
		bad.PaidOn = "2025-01-31"
		_, err := svc.Create(context.Background(), bad)
		assert.Error(t, err)
		repo.AssertNotCalled(t, "CreatePayment", mock.Anything, mock.Anything)
	})

	t.Run("invalid amount", func(t *testing.T) {
		repo := new(RepoMock)
		svc := NewPaymentService(repo, newNoopLogger())

		bad := req
		bad.Amount = "twelve"
		_, err := svc.Create(context.Background(), bad)
		assert.Error(t, err)
		repo.AssertNotCalled(t, "CreatePayment", mock.Anything, mock.Anything)
	})

	t.Run("unknown subscription", func(t *testing.T) {
		repo := new(RepoMock)
		svc := NewPaymentService(repo, newNoopLogger())

		repo.On("ReadSubscription", mock.Anything, 5).Return(nil, errors.New("not found")).Once()

		_, err := svc.Create(context.Background(), req)
		assert.Error(t, err)
		repo.AssertNotCalled(t, "CreatePayment", mock.Anything, mock.Anything)
	})
}

func TestPaymentService_ListBySubscription(t *testing.T) {
	repo := new(RepoMock)
	svc := NewPaymentService(repo, newNoopLogger())

	payments := []*models.Payment{{ID: 1}, {ID: 2}}
	repo.On("ListPaymentsBySubscription", mock.Anything, 5).Return(payments, nil).Once()

	got, err := svc.ListBySubscription(context.Background(), 5)
	assert.NoError(t, err)
	assert.Equal(t, payments, got)
	repo.AssertExpectations(t)
}
