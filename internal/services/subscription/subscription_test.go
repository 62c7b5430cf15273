package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/repair-crm/internal/lib/dates"
	"github.com/magabrotheeeer/repair-crm/internal/models"

	"io"
	"log/slog"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) CreateSubscription(ctx context.Context, sub models.Subscription) (int, error) {
	args := m.Called(ctx, sub)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) ReadSubscription(ctx context.Context, id int) (*models.Subscription, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subscription), args.Error(1)
}
func (m *RepoMock) RemoveSubscription(ctx context.Context, id int) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) ListSubscriptionsByClient(ctx context.Context, clientID int) ([]*models.Subscription, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Subscription), args.Error(1)
}
func (m *RepoMock) UpdateSubscriptionTerm(ctx context.Context, sub *models.Subscription) (int, error) {
	args := m.Called(ctx, sub)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) FindSubscriptionsExpiringInDays(ctx context.Context, days int) ([]*models.Subscription, error) {
	args := m.Called(ctx, days)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Subscription), args.Error(1)
}
func (m *RepoMock) FindActivePayment(ctx context.Context, subscriptionID int, today time.Time) (*models.Payment, error) {
	args := m.Called(ctx, subscriptionID, today)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Payment), args.Error(1)
}
func (m *RepoMock) FindLastPayment(ctx context.Context, subscriptionID int) (*models.Payment, error) {
	args := m.Called(ctx, subscriptionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Payment), args.Error(1)
}
func (m *RepoMock) ReadClient(ctx context.Context, id int) (*models.Client, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Client), args.Error(1)
}
func (m *RepoMock) CreateSubscriptionType(ctx context.Context, st models.SubscriptionType) (int, error) {
	args := m.Called(ctx, st)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) ReadSubscriptionType(ctx context.Context, id int) (*models.SubscriptionType, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SubscriptionType), args.Error(1)
}

type CacheMock struct{ mock.Mock }

func (m *CacheMock) Get(key string, result any) (bool, error) {
	args := m.Called(key, result)
	return args.Bool(0), args.Error(1)
}
func (m *CacheMock) Set(key string, value any, expiration time.Duration) error {
	return m.Called(key, value, expiration).Error(0)
}
func (m *CacheMock) Invalidate(key string) error {
	return m.Called(key).Error(0)
}

type NotifierMock struct{ mock.Mock }

func (m *NotifierMock) PublishExpiring(msg models.ExpiringSubscription) error {
	return m.Called(msg).Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func newService(repo *RepoMock, cache *CacheMock, notifier *NotifierMock) *SubscriptionService {
	return NewSubscriptionService(repo, cache, notifier, "€", newNoopLogger())
}

func TestSubscriptionService_Create(t *testing.T) {
	req := models.DummySubscription{
		ClientID:    3,
		TypeID:      1,
		Description: "annual maintenance",
	}

	tests := []struct {
		name       string
		setupMocks func(r *RepoMock, c *CacheMock)
		wantID     int
		wantErr    bool
	}{
		{
			name: "success create",
			setupMocks: func(r *RepoMock, c *CacheMock) {
				r.On("CreateSubscription", mock.Anything, mock.MatchedBy(func(s models.Subscription) bool {
					return s.ClientID == 3 && s.TypeID == 1 && s.TermMonths == 12
				})).Return(42, nil).Once()
				c.On("Set", "subscription:42", mock.Anything, time.Hour).Return(nil).Once()
			},
			wantID:  42,
			wantErr: false,
		},
		{
			name: "storage error",
			setupMocks: func(r *RepoMock, _ *CacheMock) {
				r.On("CreateSubscription", mock.Anything, mock.Anything).Return(0, errors.New("db error")).Once()
			},
			wantID:  0,
			wantErr: true,
		},
		{
			name: "cache set error logs warning but returns id",
			setupMocks: func(r *RepoMock, c *CacheMock) {
				r.On("CreateSubscription", mock.Anything, mock.Anything).Return(7, nil).Once()
				c.On("Set", "subscription:7", mock.Anything, time.Hour).Return(errors.New("redis down")).Once()
			},
			wantID:  7,
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(RepoMock)
			cache := new(CacheMock)
			svc := newService(repo, cache, new(NotifierMock))

			tt.setupMocks(repo, cache)

			id, err := svc.Create(context.Background(), req)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantID, id)

			repo.AssertExpectations(t)
			cache.AssertExpectations(t)
		})
	}
}

func TestSubscriptionService_Read_CacheMiss(t *testing.T) {
	repo := new(RepoMock)
	cache := new(CacheMock)
	svc := newService(repo, cache, new(NotifierMock))

	sub := &models.Subscription{ID: 5, ClientID: 3, Description: "laptop care"}
	cache.On("Get", "subscription:5", mock.Anything).Return(false, nil).Once()
	repo.On("ReadSubscription", mock.Anything, 5).Return(sub, nil).Once()
	cache.On("Set", "subscription:5", sub, time.Hour).Return(nil).Once()

	got, err := svc.Read(context.Background(), 5)
	assert.NoError(t, err)
	assert.Equal(t, sub, got)

	repo.AssertExpectations(t)
	cache.AssertExpectations(t)
}

func TestSubscriptionService_ActivePayment_None(t *testing.T) {
	repo := new(RepoMock)
	svc := newService(repo, new(CacheMock), new(NotifierMock))

	repo.On("FindActivePayment", mock.Anything, 9, mock.Anything).Return(nil, nil).Once()

	got, err := svc.ActivePayment(context.Background(), 9)
	assert.NoError(t, err)
	assert.Nil(t, got)
	repo.AssertExpectations(t)
}

func TestSubscriptionService_LastPayment(t *testing.T) {
	repo := new(RepoMock)
	svc := newService(repo, new(CacheMock), new(NotifierMock))

	last := &models.Payment{ID: 11, SubscriptionID: 9}
	repo.On("FindLastPayment", mock.Anything, 9).Return(last, nil).Once()

	got, err := svc.LastPayment(context.Background(), 9)
	assert.NoError(t, err)
	assert.Equal(t, last, got)
	repo.AssertExpectations(t)
}

func TestSubscriptionService_NotifyExpiration(t *testing.T) {
	sub := &models.Subscription{ID: 5, ClientID: 3, TypeID: 2, Description: "office pc"}
	active := &models.Payment{
		ID:             1,
		SubscriptionID: 5,
		PaidUntil:      dates.Day(time.Now()).AddDate(0, 0, 7),
		Amount:         decimal.RequireFromString("120.00"),
	}

	t.Run("success publishes message", func(t *testing.T) {
		repo := new(RepoMock)
		notifier := new(NotifierMock)
		svc := newService(repo, new(CacheMock), notifier)

		repo.On("FindActivePayment", mock.Anything, 5, mock.Anything).Return(active, nil).Once()
		repo.On("ReadClient", mock.Anything, 3).Return(&models.Client{
			ID: 3, FirstName: "Anna", LastName: "Weber", Email: "anna@example.com",
		}, nil).Once()
		repo.On("ReadSubscriptionType", mock.Anything, 2).Return(&models.SubscriptionType{
			ID: 2, Description: "Business",
		}, nil).Once()
		notifier.On("PublishExpiring", mock.MatchedBy(func(msg models.ExpiringSubscription) bool {
			return msg.ClientName == "Weber Anna" &&
				msg.Label == "Business - office pc" &&
				msg.DaysLeft == 7 &&
				msg.Currency == "€"
		})).Return(nil).Once()

		err := svc.NotifyExpiration(context.Background(), sub, 7)
		assert.NoError(t, err)

		repo.AssertExpectations(t)
		notifier.AssertExpectations(t)
	})

	t.Run("no active payment", func(t *testing.T) {
		repo := new(RepoMock)
		notifier := new(NotifierMock)
		svc := newService(repo, new(CacheMock), notifier)

		repo.On("FindActivePayment", mock.Anything, 5, mock.Anything).Return(nil, nil).Once()

		err := svc.NotifyExpiration(context.Background(), sub, 7)
		assert.ErrorIs(t, err, ErrNoActivePayment)
		notifier.AssertNotCalled(t, "PublishExpiring", mock.Anything)
	})
}

func TestSubscriptionService_PaidFor(t *testing.T) {
	paidUntil := dates.Day(time.Now()).AddDate(0, 0, 10)

	t.Run("start now with explicit months", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		svc := newService(repo, cache, new(NotifierMock))

		repo.On("ReadSubscription", mock.Anything, 5).Return(&models.Subscription{
			ID: 5, ClientID: 3, TermMonths: 12,
		}, nil).Once()
		repo.On("UpdateSubscriptionTerm", mock.Anything, mock.MatchedBy(func(s *models.Subscription) bool {
			return s.TermMonths == 6 && s.TermStart != nil &&
				s.TermStart.Equal(dates.Day(time.Now()))
		})).Return(1, nil).Once()
		cache.On("Invalidate", "subscription:5").Return(nil).Once()

		err := svc.PaidFor(context.Background(), 5, 6, true)
		assert.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("seamless renewal starts at active payment end", func(t *testing.T) {
		repo := new(RepoMock)
		cache := new(CacheMock)
		svc := newService(repo, cache, new(NotifierMock))

		repo.On("ReadSubscription", mock.Anything, 5).Return(&models.Subscription{
			ID: 5, ClientID: 3, TermMonths: 12,
		}, nil).Once()
		repo.On("FindActivePayment", mock.Anything, 5, mock.Anything).Return(&models.Payment{
			ID: 2, SubscriptionID: 5, PaidUntil: paidUntil,
		}, nil).Once()
		repo.On("UpdateSubscriptionTerm", mock.Anything, mock.MatchedBy(func(s *models.Subscription) bool {
			// months == 0 falls back to the current term
			return s.TermMonths == 12 && s.TermStart != nil && s.TermStart.Equal(paidUntil)
		})).Return(1, nil).Once()
		cache.On("Invalidate", "subscription:5").Return(nil).Once()

		err := svc.PaidFor(context.Background(), 5, 0, false)
		assert.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("seamless renewal without active payment fails", func(t *testing.T) {
		repo := new(RepoMock)
		svc := newService(repo, new(CacheMock), new(NotifierMock))

		repo.On("ReadSubscription", mock.Anything, 5).Return(&models.Subscription{
			ID: 5, ClientID: 3, TermMonths: 12,
		}, nil).Once()
		repo.On("FindActivePayment", mock.Anything, 5, mock.Anything).Return(nil, nil).Once()

		err := svc.PaidFor(context.Background(), 5, 6, false)
		assert.ErrorIs(t, err, ErrNoActivePayment)
		repo.AssertNotCalled(t, "UpdateSubscriptionTerm", mock.Anything, mock.Anything)
	})
}
