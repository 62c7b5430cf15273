// Package services содержит бизнес-логику жизненного цикла подписок:
// активный и последний платежи, поиск истекающих подписок, продление
// и постановку уведомлений в очередь.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/repair-crm/internal/lib/dates"
	"github.com/magabrotheeeer/repair-crm/internal/models"
)

// ErrNoActivePayment возвращается операциями, которым требуется действующий
// платёж, когда все платежи подписки уже истекли.
var ErrNoActivePayment = errors.New("subscription has no active payment")

// SubscriptionRepository определяет методы для работы с подписками в хранилище.
type SubscriptionRepository interface {
	// CreateSubscription добавляет новую подписку и возвращает её ID.
	CreateSubscription(ctx context.Context, sub models.Subscription) (int, error)
	// ReadSubscription возвращает подписку по ID.
	ReadSubscription(ctx context.Context, id int) (*models.Subscription, error)
	// RemoveSubscription удаляет подписку по ID и возвращает количество удалённых записей.
	RemoveSubscription(ctx context.Context, id int) (int, error)
	// ListSubscriptionsByClient возвращает подписки клиента.
	ListSubscriptionsByClient(ctx context.Context, clientID int) ([]*models.Subscription, error)
	// UpdateSubscriptionTerm сохраняет рабочий срок подписки.
	UpdateSubscriptionTerm(ctx context.Context, sub *models.Subscription) (int, error)
	// FindSubscriptionsExpiringInDays находит подписки с платежом, истекающим ровно через days дней.
	FindSubscriptionsExpiringInDays(ctx context.Context, days int) ([]*models.Subscription, error)
	// FindActivePayment возвращает первый платёж с paid_until >= today или nil.
	FindActivePayment(ctx context.Context, subscriptionID int, today time.Time) (*models.Payment, error)
	// FindLastPayment возвращает последний добавленный платёж или nil.
	FindLastPayment(ctx context.Context, subscriptionID int) (*models.Payment, error)
	// ReadClient возвращает клиента по ID.
	ReadClient(ctx context.Context, id int) (*models.Client, error)
	// CreateSubscriptionType добавляет тип подписки и возвращает его ID.
	CreateSubscriptionType(ctx context.Context, st models.SubscriptionType) (int, error)
	// ReadSubscriptionType возвращает тип подписки по ID.
	ReadSubscriptionType(ctx context.Context, id int) (*models.SubscriptionType, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
	Invalidate(key string) error
}

// Notifier отправляет сообщение об истекающей подписке внешнему коллаборатору.
type Notifier interface {
	PublishExpiring(msg models.ExpiringSubscription) error
}

// SubscriptionService реализует бизнес-логику работы с подписками.
type SubscriptionService struct {
	repo     SubscriptionRepository
	cache    Cache
	notifier Notifier
	currency string
	log      *slog.Logger
}

// NewSubscriptionService создает новый экземпляр SubscriptionService.
func NewSubscriptionService(repo SubscriptionRepository, cache Cache, notifier Notifier, currency string, log *slog.Logger) *SubscriptionService {
	return &SubscriptionService{
		repo:     repo,
		cache:    cache,
		notifier: notifier,
		currency: currency,
		log:      log,
	}
}

// Create создает новую подписку клиента, кеширует её и возвращает ID.
// Дата создания выставляется в текущий день и далее никогда не перезаписывается.
func (s *SubscriptionService) Create(ctx context.Context, req models.DummySubscription) (int, error) {
	sub := models.Subscription{
		ClientID:    req.ClientID,
		TypeID:      req.TypeID,
		Description: req.Description,
		CreateDate:  dates.Day(time.Now()),
		TermMonths:  12,
	}

	id, err := s.repo.CreateSubscription(ctx, sub)
	if err != nil {
		return 0, err
	}
	s.log.Info("created new subscription", slog.Int("id", id))

	sub.ID = id
	cacheKey := fmt.Sprintf("subscription:%d", id)
	if err := s.cache.Set(cacheKey, sub, time.Hour); err != nil {
		s.log.Warn("failed to cache subscription", slog.String("key", cacheKey), slog.Any("err", err))
	}

	return id, nil
}

// AddType добавляет тип подписки в справочник и возвращает его ID.
func (s *SubscriptionService) AddType(ctx context.Context, req models.DummySubscriptionType) (int, error) {
	id, err := s.repo.CreateSubscriptionType(ctx, models.SubscriptionType{Description: req.Description})
	if err != nil {
		return 0, err
	}
	s.log.Info("created new subscription type", slog.Int("id", id))
	return id, nil
}

// Read возвращает подписку по ID, используя кеш или репозиторий.
func (s *SubscriptionService) Read(ctx context.Context, id int) (*models.Subscription, error) {
	var result *models.Subscription
	cacheKey := fmt.Sprintf("subscription:%d", id)
	found, err := s.cache.Get(cacheKey, &result)
	if err != nil {
		return nil, err
	}
	if found {
		return result, nil
	}
	result, err = s.repo.ReadSubscription(ctx, id)
	if err != nil {
		return nil, err
	}

	if result != nil {
		if err := s.cache.Set(cacheKey, result, time.Hour); err != nil {
			s.log.Warn("failed to add to cache", slog.String("key", cacheKey),
				slog.Any("err", err))
		}
	}
	return result, nil
}

// Remove удаляет подписку по ID и инвалидирует кеш.
func (s *SubscriptionService) Remove(ctx context.Context, id int) (int, error) {
	cacheKey := fmt.Sprintf("subscription:%d", id)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to remove from cache", slog.String("key", cacheKey), slog.Any("err", err))
	}

	count, err := s.repo.RemoveSubscription(ctx, id)
	if err != nil {
		return 0, err
	}

	return count, nil
}

// ListByClient возвращает подписки клиента.
func (s *SubscriptionService) ListByClient(ctx context.Context, clientID int) ([]*models.Subscription, error) {
	return s.repo.ListSubscriptionsByClient(ctx, clientID)
}

// ActivePayment возвращает первый по порядку вставки платёж подписки,
// покрывающий текущий день (paid_until >= today), либо nil, если подписка
// сейчас не оплачена.
func (s *SubscriptionService) ActivePayment(ctx context.Context, subscriptionID int) (*models.Payment, error) {
	today := dates.Day(time.Now())
	return s.repo.FindActivePayment(ctx, subscriptionID, today)
}

// LastPayment возвращает последний добавленный платёж подписки, либо nil.
// Это платёж с наибольшим порядковым номером, а не с самой поздней датой
// окончания — различие важно и сохраняется намеренно.
func (s *SubscriptionService) LastPayment(ctx context.Context, subscriptionID int) (*models.Payment, error) {
	return s.repo.FindLastPayment(ctx, subscriptionID)
}

// ExpireInDays возвращает подписки, у которых есть платёж с датой окончания
// ровно через days дней от сегодняшнего дня.
func (s *SubscriptionService) ExpireInDays(ctx context.Context, days int) ([]*models.Subscription, error) {
	return s.repo.FindSubscriptionsExpiringInDays(ctx, days)
}

// NotifyExpiration собирает контекст уведомления об истечении подписки и
// передаёт его нотификатору. Возвращает ErrNoActivePayment, если у подписки
// нет действующего платежа — вызывающая сторона обязана это гарантировать.
func (s *SubscriptionService) NotifyExpiration(ctx context.Context, sub *models.Subscription, days int) error {
	const op = "services.subscription.NotifyExpiration"

	active, err := s.ActivePayment(ctx, sub.ID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if active == nil {
		return fmt.Errorf("%s: %w", op, ErrNoActivePayment)
	}

	client, err := s.repo.ReadClient(ctx, sub.ClientID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	subType, err := s.repo.ReadSubscriptionType(ctx, sub.TypeID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	msg := models.ExpiringSubscription{
		Email:          client.Email,
		ClientName:     client.FullName(),
		Description:    sub.Description,
		Label:          subType.Description + " - " + sub.Description,
		ExpirationDate: active.PaidUntil,
		Price:          active.Amount,
		Currency:       s.currency,
		DaysLeft:       days,
	}
	if err := s.notifier.PublishExpiring(msg); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("queued expiration notification",
		slog.Int("subscription_id", sub.ID), slog.Int("days", days))
	return nil
}

// PaidFor продлевает рабочий срок подписки. При months == 0 используется
// текущий срок подписки. При startNow новый срок начинается сегодня, иначе —
// с даты окончания действующего платежа (продление встык, без разрыва).
// Платёж этой операцией не создаётся.
func (s *SubscriptionService) PaidFor(ctx context.Context, subscriptionID, months int, startNow bool) error {
	const op = "services.subscription.PaidFor"

	sub, err := s.repo.ReadSubscription(ctx, subscriptionID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if months == 0 {
		months = sub.TermMonths
	}

	var start time.Time
	if startNow {
		start = dates.Day(time.Now())
	} else {
		active, err := s.ActivePayment(ctx, subscriptionID)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		if active == nil {
			return fmt.Errorf("%s: %w", op, ErrNoActivePayment)
		}
		start = active.PaidUntil
	}

	sub.TermStart = &start
	sub.TermMonths = months
	if _, err := s.repo.UpdateSubscriptionTerm(ctx, sub); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	cacheKey := fmt.Sprintf("subscription:%d", subscriptionID)
	if err := s.cache.Invalidate(cacheKey); err != nil {
		s.log.Warn("failed to remove from cache", slog.String("key", cacheKey), slog.Any("err", err))
	}

	s.log.Info("subscription term updated",
		slog.Int("id", subscriptionID), slog.Int("months", months))
	return nil
}
