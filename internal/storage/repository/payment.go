package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/magabrotheeeer/repair-crm/internal/models"
)

// CreatePayment вставляет новый платёж и возвращает его ID.
// Производные поля (client_id, paid_until) к этому моменту уже
// пересчитаны сервисом. Платежи append-only: методов изменения
// и удаления у хранилища нет.
func (s *Storage) CreatePayment(ctx context.Context, payment models.Payment) (int, error) {
	const op = "storage.CreatePayment"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO payments (subscription_id, client_id, duration_months, amount, paid_on, paid_until)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		payment.SubscriptionID, payment.ClientID, payment.DurationMonths,
		payment.Amount, payment.PaidOn, payment.PaidUntil).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ListPaymentsBySubscription возвращает платежи подписки в порядке вставки.
func (s *Storage) ListPaymentsBySubscription(ctx context.Context, subscriptionID int) ([]*models.Payment, error) {
	const op = "storage.ListPaymentsBySubscription"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, subscription_id, client_id, duration_months, amount, paid_on, paid_until
			  FROM payments
			  WHERE subscription_id = $1
			  ORDER BY id`
	rows, err := s.DB.QueryContext(ctx, query, subscriptionID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Payment
	for rows.Next() {
		var item models.Payment
		if err := rows.Scan(&item.ID, &item.SubscriptionID, &item.ClientID,
			&item.DurationMonths, &item.Amount, &item.PaidOn, &item.PaidUntil); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// FindActivePayment возвращает первый по порядку вставки платёж подписки,
// у которого paid_until >= today, либо nil, если такого платежа нет.
func (s *Storage) FindActivePayment(ctx context.Context, subscriptionID int, today time.Time) (*models.Payment, error) {
	const op = "storage.FindActivePayment"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, subscription_id, client_id, duration_months, amount, paid_on, paid_until
			  FROM payments
			  WHERE subscription_id = $1 AND paid_until >= $2
			  ORDER BY id
			  LIMIT 1`
	row := s.DB.QueryRowContext(ctx, query, subscriptionID, today)

	var result models.Payment
	err := row.Scan(&result.ID, &result.SubscriptionID, &result.ClientID,
		&result.DurationMonths, &result.Amount, &result.PaidOn, &result.PaidUntil)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &result, nil
}

// FindLastPayment возвращает последний по порядку вставки платёж подписки,
// либо nil, если платежей нет. Это именно последний добавленный платёж,
// а не платёж с самой поздней датой paid_until.
func (s *Storage) FindLastPayment(ctx context.Context, subscriptionID int) (*models.Payment, error) {
	const op = "storage.FindLastPayment"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, subscription_id, client_id, duration_months, amount, paid_on, paid_until
			  FROM payments
			  WHERE subscription_id = $1
			  ORDER BY id DESC
			  LIMIT 1`
	row := s.DB.QueryRowContext(ctx, query, subscriptionID)

	var result models.Payment
	err := row.Scan(&result.ID, &result.SubscriptionID, &result.ClientID,
		&result.DurationMonths, &result.Amount, &result.PaidOn, &result.PaidUntil)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &result, nil
}

// ListPaymentsByClient возвращает платежи клиента в порядке вставки.
func (s *Storage) ListPaymentsByClient(ctx context.Context, clientID int) ([]*models.Payment, error) {
	const op = "storage.ListPaymentsByClient"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, subscription_id, client_id, duration_months, amount, paid_on, paid_until
			  FROM payments
			  WHERE client_id = $1
			  ORDER BY id`
	rows, err := s.DB.QueryContext(ctx, query, clientID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Payment
	for rows.Next() {
		var item models.Payment
		if err := rows.Scan(&item.ID, &item.SubscriptionID, &item.ClientID,
			&item.DurationMonths, &item.Amount, &item.PaidOn, &item.PaidUntil); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
