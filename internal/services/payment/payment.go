// Package services содержит бизнес-логику сохранения платежей по подпискам.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/magabrotheeeer/repair-crm/internal/lib/dates"
	"github.com/magabrotheeeer/repair-crm/internal/models"
)

// PaymentRepository определяет методы для работы с платежами в хранилище.
type PaymentRepository interface {
	// CreatePayment добавляет новый платёж и возвращает его ID.
	CreatePayment(ctx context.Context, payment models.Payment) (int, error)
	// ListPaymentsBySubscription возвращает платежи подписки в порядке вставки.
	ListPaymentsBySubscription(ctx context.Context, subscriptionID int) ([]*models.Payment, error)
	// ListPaymentsByClient возвращает платежи клиента.
	ListPaymentsByClient(ctx context.Context, clientID int) ([]*models.Payment, error)
	// ReadSubscription возвращает подписку по ID.
	ReadSubscription(ctx context.Context, id int) (*models.Subscription, error)
}

// PaymentService реализует сохранение и выборку платежей.
type PaymentService struct {
	repo PaymentRepository
	log  *slog.Logger
}

// NewPaymentService создает новый экземпляр PaymentService.
func NewPaymentService(repo PaymentRepository, log *slog.Logger) *PaymentService {
	return &PaymentService{
		repo: repo,
		log:  log,
	}
}

// Create сохраняет платёж по подписке. Дата окончания периода всегда
// выводится из paid_on и длительности, а клиент берётся из подписки —
// что бы ни прислала вызывающая сторона.
func (s *PaymentService) Create(ctx context.Context, req models.DummyPayment) (int, error) {
	const op = "services.payment.Create"

	paidOn, err := time.Parse("02-01-2006", req.PaidOn)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid paid_on date: %w", op, err)
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid amount: %w", op, err)
	}

	sub, err := s.repo.ReadSubscription(ctx, req.SubscriptionID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	payment := models.Payment{
		SubscriptionID: req.SubscriptionID,
		ClientID:       sub.ClientID,
		DurationMonths: req.DurationMonths,
		Amount:         amount,
		PaidOn:         paidOn,
		PaidUntil:      dates.PaidUntil(paidOn, req.DurationMonths),
	}

	id, err := s.repo.CreatePayment(ctx, payment)
	if err != nil {
		return 0, err
	}

	s.log.Info("created new payment",
		slog.Int("id", id), slog.Int("subscription_id", req.SubscriptionID))
	return id, nil
}

// ListBySubscription возвращает платежи подписки в порядке вставки.
func (s *PaymentService) ListBySubscription(ctx context.Context, subscriptionID int) ([]*models.Payment, error) {
	return s.repo.ListPaymentsBySubscription(ctx, subscriptionID)
}

// ListByClient возвращает платежи клиента.
func (s *PaymentService) ListByClient(ctx context.Context, clientID int) ([]*models.Payment, error) {
	return s.repo.ListPaymentsByClient(ctx, clientID)
}
