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

type LifecycleMock struct{ mock.Mock }

func (m *LifecycleMock) ExpireInDays(ctx context.Context, days int) ([]*models.Subscription, error) {
	args := m.Called(ctx, days)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Subscription), args.Error(1)
}
func (m *LifecycleMock) NotifyExpiration(ctx context.Context, sub *models.Subscription, days int) error {
	return m.Called(ctx, sub, days).Error(0)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestSchedulerService_RunScan(t *testing.T) {
	t.Run("notifies every subscription per offset", func(t *testing.T) {
		subs := new(LifecycleMock)
		svc := NewSchedulerService(subs, 9, newNoopLogger())

		expiring := []*models.Subscription{{ID: 1}, {ID: 2}}
		for _, days := range NotifyOffsets {
			if days == 7 {
				subs.On("ExpireInDays", mock.Anything, days).Return(expiring, nil).Once()
				continue
			}
			subs.On("ExpireInDays", mock.Anything, days).Return([]*models.Subscription{}, nil).Once()
		}
		subs.On("NotifyExpiration", mock.Anything, expiring[0], 7).Return(nil).Once()
		subs.On("NotifyExpiration", mock.Anything, expiring[1], 7).Return(nil).Once()

		svc.RunScan(context.Background())
		subs.AssertExpectations(t)
	})

	t.Run("one failed notification does not stop the scan", func(t *testing.T) {
		subs := new(LifecycleMock)
		svc := NewSchedulerService(subs, 9, newNoopLogger())

		expiring := []*models.Subscription{{ID: 1}, {ID: 2}}
		for _, days := range NotifyOffsets {
			if days == 14 {
				subs.On("ExpireInDays", mock.Anything, days).Return(expiring, nil).Once()
				continue
			}
			subs.On("ExpireInDays", mock.Anything, days).Return([]*models.Subscription{}, nil).Once()
		}
		subs.On("NotifyExpiration", mock.Anything, expiring[0], 14).Return(errors.New("broker down")).Once()
		subs.On("NotifyExpiration", mock.Anything, expiring[1], 14).Return(nil).Once()

		svc.RunScan(context.Background())
		subs.AssertExpectations(t)
	})

	t.Run("query error for one offset does not stop others", func(t *testing.T) {
		subs := new(LifecycleMock)
		svc := NewSchedulerService(subs, 9, newNoopLogger())

		for _, days := range NotifyOffsets {
			if days == 2 {
				subs.On("ExpireInDays", mock.Anything, days).Return(nil, errors.New("db error")).Once()
				continue
			}
			subs.On("ExpireInDays", mock.Anything, days).Return([]*models.Subscription{}, nil).Once()
		}

		svc.RunScan(context.Background())
		subs.AssertExpectations(t)
	})
}

func TestSchedulerService_NextRun(t *testing.T) {
	svc := NewSchedulerService(new(LifecycleMock), 9, newNoopLogger())

	t.Run("before run hour schedules same day", func(t *testing.T) {
		now := time.Date(2025, time.March, 10, 7, 30, 0, 0, time.UTC)
		next := svc.nextRun(now)
		assert.Equal(t, time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC), next)
	})

	t.Run("after run hour schedules next day", func(t *testing.T) {
		now := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
		next := svc.nextRun(now)
		assert.Equal(t, time.Date(2025, time.March, 11, 9, 0, 0, 0, time.UTC), next)
	})
}
