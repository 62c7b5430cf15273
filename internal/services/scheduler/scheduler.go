// Package services содержит планировщик сканирования истекающих подписок.
package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/repair-crm/internal/lib/sl"
	"github.com/magabrotheeeer/repair-crm/internal/models"
)

// NotifyOffsets дни до истечения, за которые рассылаются предупреждения.
// Совпадение по точной дате гарантирует, что подписка сработает один раз
// на каждый офсет, без дедупликации между запусками.
var NotifyOffsets = []int{14, 7, 2, 1}

// SubscriptionLifecycle описывает операции жизненного цикла подписок,
// которые нужны планировщику.
type SubscriptionLifecycle interface {
	// ExpireInDays возвращает подписки, истекающие ровно через days дней.
	ExpireInDays(ctx context.Context, days int) ([]*models.Subscription, error)
	// NotifyExpiration ставит уведомление об истечении в очередь.
	NotifyExpiration(ctx context.Context, sub *models.Subscription, days int) error
}

// SchedulerService раз в сутки в заданный час обходит офсеты и ставит
// уведомление для каждой найденной подписки.
type SchedulerService struct {
	subs    SubscriptionLifecycle
	runHour int
	log     *slog.Logger
}

// NewSchedulerService создает новый экземпляр SchedulerService.
func NewSchedulerService(subs SubscriptionLifecycle, runHour int, log *slog.Logger) *SchedulerService {
	return &SchedulerService{
		subs:    subs,
		runHour: runHour,
		log:     log,
	}
}

// Run запускает ежедневный цикл сканирования. Блокируется до отмены контекста.
func (s *SchedulerService) Run(ctx context.Context) {
	for {
		next := s.nextRun(time.Now())
		s.log.Info("next expiration scan scheduled", slog.Time("at", next))

		timer := time.NewTimer(time.Until(next))
		select {
		case <-timer.C:
			s.RunScan(ctx)
		case <-ctx.Done():
			timer.Stop()
			return
		}
	}
}

// RunScan выполняет один проход по всем офсетам. Ошибка уведомления одной
// подписки логируется и не прерывает обработку остальных.
func (s *SchedulerService) RunScan(ctx context.Context) {
	s.log.Info("starting expiration scan")
	for _, days := range NotifyOffsets {
		subs, err := s.subs.ExpireInDays(ctx, days)
		if err != nil {
			s.log.Error("failed to find expiring subscriptions",
				slog.Int("days", days), sl.Err(err))
			continue
		}
		if len(subs) == 0 {
			continue
		}
		s.log.Info("found expiring subscriptions",
			slog.Int("days", days), slog.Int("count", len(subs)))
		for _, sub := range subs {
			if err := s.subs.NotifyExpiration(ctx, sub, days); err != nil {
				s.log.Error("failed to notify expiration",
					slog.Int("subscription_id", sub.ID), slog.Int("days", days), sl.Err(err))
			}
		}
	}
	s.log.Info("expiration scan finished")
}

func (s *SchedulerService) nextRun(now time.Time) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), s.runHour, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
