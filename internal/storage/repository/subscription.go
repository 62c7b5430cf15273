package repository

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/repair-crm/internal/models"
)

// CreateSubscription вставляет новую подписку и возвращает её ID.
// create_date к этому моменту уже выставлен сервисом.
func (s *Storage) CreateSubscription(ctx context.Context, sub models.Subscription) (int, error) {
	const op = "storage.CreateSubscription"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO subscriptions (client_id, type_id, description, create_date, term_start, term_months)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		sub.ClientID, sub.TypeID, sub.Description, sub.CreateDate,
		sub.TermStart, sub.TermMonths).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ReadSubscription возвращает подписку по её ID.
func (s *Storage) ReadSubscription(ctx context.Context, id int) (*models.Subscription, error) {
	const op = "storage.ReadSubscription"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, client_id, type_id, description, create_date, term_start, term_months
			  FROM subscriptions WHERE id = $1`
	row := s.DB.QueryRowContext(ctx, query, id)

	var result models.Subscription
	if err := row.Scan(&result.ID, &result.ClientID, &result.TypeID, &result.Description,
		&result.CreateDate, &result.TermStart, &result.TermMonths); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &result, nil
}

// RemoveSubscription удаляет подписку по ID и возвращает количество удалённых строк.
func (s *Storage) RemoveSubscription(ctx context.Context, id int) (int, error) {
	const op = "storage.RemoveSubscription"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM subscriptions WHERE id = $1`
	result, err := s.DB.ExecContext(ctx, query, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// ListSubscriptionsByClient возвращает подписки клиента.
func (s *Storage) ListSubscriptionsByClient(ctx context.Context, clientID int) ([]*models.Subscription, error) {
	const op = "storage.ListSubscriptionsByClient"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, client_id, type_id, description, create_date, term_start, term_months
			  FROM subscriptions
			  WHERE client_id = $1
			  ORDER BY id`
	rows, err := s.DB.QueryContext(ctx, query, clientID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Subscription
	for rows.Next() {
		var item models.Subscription
		if err := rows.Scan(&item.ID, &item.ClientID, &item.TypeID, &item.Description,
			&item.CreateDate, &item.TermStart, &item.TermMonths); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateSubscriptionTerm обновляет рабочий срок подписки после продления.
func (s *Storage) UpdateSubscriptionTerm(ctx context.Context, sub *models.Subscription) (int, error) {
	const op = "storage.UpdateSubscriptionTerm"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE subscriptions
			  SET term_start = $1, term_months = $2
			  WHERE id = $3`
	res, err := s.DB.ExecContext(ctx, query, sub.TermStart, sub.TermMonths, sub.ID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// FindSubscriptionsExpiringInDays находит подписки, у которых есть платёж
// с paid_until ровно через days дней от текущей даты. Совпадение точное,
// по дате без времени, поэтому одна подписка попадает в выборку один раз
// на каждый день-офсет.
func (s *Storage) FindSubscriptionsExpiringInDays(ctx context.Context, days int) ([]*models.Subscription, error) {
	const op = "storage.FindSubscriptionsExpiringInDays"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT DISTINCT s.id, s.client_id, s.type_id, s.description,
			      s.create_date, s.term_start, s.term_months
			  FROM subscriptions s
			  JOIN payments p ON p.subscription_id = s.id
			  WHERE p.paid_until = CURRENT_DATE + $1 * INTERVAL '1 day'
			  ORDER BY s.id`
	rows, err := s.DB.QueryContext(ctx, query, days)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Subscription
	for rows.Next() {
		var item models.Subscription
		if err := rows.Scan(&item.ID, &item.ClientID, &item.TypeID, &item.Description,
			&item.CreateDate, &item.TermStart, &item.TermMonths); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// CreateSubscriptionType вставляет новый тип подписки и возвращает его ID.
func (s *Storage) CreateSubscriptionType(ctx context.Context, st models.SubscriptionType) (int, error) {
	const op = "storage.CreateSubscriptionType"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO subscription_types (description) VALUES ($1) RETURNING id`
	var newID int
	if err := s.DB.QueryRowContext(ctx, query, st.Description).Scan(&newID); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ReadSubscriptionType возвращает тип подписки по его ID.
func (s *Storage) ReadSubscriptionType(ctx context.Context, id int) (*models.SubscriptionType, error) {
	const op = "storage.ReadSubscriptionType"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, description FROM subscription_types WHERE id = $1`
	var result models.SubscriptionType
	if err := s.DB.QueryRowContext(ctx, query, id).Scan(&result.ID, &result.Description); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &result, nil
}
