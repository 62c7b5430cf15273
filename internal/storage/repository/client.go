package repository

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/repair-crm/internal/models"
)

// CreateClient вставляет нового клиента и возвращает его ID.
func (s *Storage) CreateClient(ctx context.Context, client models.Client) (int, error) {
	const op = "storage.CreateClient"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO clients (first_name, last_name, phone, mobile, email, comment, balance)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		client.FirstName, client.LastName, client.Phone, client.Mobile,
		client.Email, client.Comment, client.Balance).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ReadClient возвращает клиента по его ID.
func (s *Storage) ReadClient(ctx context.Context, id int) (*models.Client, error) {
	const op = "storage.ReadClient"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, first_name, last_name, phone, mobile, email, comment, balance
			  FROM clients WHERE id = $1`
	row := s.DB.QueryRowContext(ctx, query, id)

	var result models.Client
	if err := row.Scan(&result.ID, &result.FirstName, &result.LastName, &result.Phone,
		&result.Mobile, &result.Email, &result.Comment, &result.Balance); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &result, nil
}

// UpdateClient обновляет данные клиента по его ID и возвращает количество изменённых строк.
func (s *Storage) UpdateClient(ctx context.Context, client models.Client, id int) (int, error) {
	const op = "storage.UpdateClient"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE clients
			  SET first_name = $1, last_name = $2, phone = $3, mobile = $4,
			      email = $5, comment = $6, balance = $7
			  WHERE id = $8`
	result, err := s.DB.ExecContext(ctx, query,
		client.FirstName, client.LastName, client.Phone, client.Mobile,
		client.Email, client.Comment, client.Balance, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// RemoveClient удаляет клиента по ID и возвращает количество удалённых строк.
func (s *Storage) RemoveClient(ctx context.Context, id int) (int, error) {
	const op = "storage.RemoveClient"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM clients WHERE id = $1`
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

// ListClients возвращает список клиентов, упорядоченный по фамилии, с пагинацией.
func (s *Storage) ListClients(ctx context.Context, limit, offset int) ([]*models.Client, error) {
	const op = "storage.ListClients"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, first_name, last_name, phone, mobile, email, comment, balance
			  FROM clients
			  ORDER BY last_name
			  LIMIT $1 OFFSET $2`
	rows, err := s.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Client
	for rows.Next() {
		var item models.Client
		if err := rows.Scan(&item.ID, &item.FirstName, &item.LastName, &item.Phone,
			&item.Mobile, &item.Email, &item.Comment, &item.Balance); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
