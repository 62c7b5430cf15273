package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/magabrotheeeer/repair-crm/internal/models"
)

// CreateDevice вставляет новое устройство клиента и возвращает его ID.
func (s *Storage) CreateDevice(ctx context.Context, device models.Device) (int, error) {
	const op = "storage.CreateDevice"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	// пустой серийный номер храним как NULL, иначе ломается уникальность
	serial := sql.NullString{String: device.SerialNumber, Valid: device.SerialNumber != ""}

	query := `INSERT INTO devices (client_id, model_id, type_id, serial_number, description, comment)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		device.ClientID, device.ModelID, device.TypeID, serial,
		device.Description, device.Comment).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ReadDevice возвращает устройство по его ID.
func (s *Storage) ReadDevice(ctx context.Context, id int) (*models.Device, error) {
	const op = "storage.ReadDevice"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, client_id, model_id, type_id, COALESCE(serial_number, ''), description, comment
			  FROM devices WHERE id = $1`
	row := s.DB.QueryRowContext(ctx, query, id)

	var result models.Device
	if err := row.Scan(&result.ID, &result.ClientID, &result.ModelID, &result.TypeID,
		&result.SerialNumber, &result.Description, &result.Comment); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &result, nil
}

// ListDevicesByClient возвращает устройства клиента.
func (s *Storage) ListDevicesByClient(ctx context.Context, clientID int) ([]*models.Device, error) {
	const op = "storage.ListDevicesByClient"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, client_id, model_id, type_id, COALESCE(serial_number, ''), description, comment
			  FROM devices
			  WHERE client_id = $1
			  ORDER BY model_id`
	rows, err := s.DB.QueryContext(ctx, query, clientID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Device
	for rows.Next() {
		var item models.Device
		if err := rows.Scan(&item.ID, &item.ClientID, &item.ModelID, &item.TypeID,
			&item.SerialNumber, &item.Description, &item.Comment); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// CreateDeviceType вставляет новый тип устройства и возвращает его ID.
func (s *Storage) CreateDeviceType(ctx context.Context, dt models.DeviceType) (int, error) {
	const op = "storage.CreateDeviceType"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO device_types (type) VALUES ($1) RETURNING id`
	var newID int
	if err := s.DB.QueryRowContext(ctx, query, dt.Type).Scan(&newID); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// CreateDeviceModel вставляет новую модель устройства и возвращает её ID.
func (s *Storage) CreateDeviceModel(ctx context.Context, dm models.DeviceModel) (int, error) {
	const op = "storage.CreateDeviceModel"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO device_models (name) VALUES ($1) RETURNING id`
	var newID int
	if err := s.DB.QueryRowContext(ctx, query, dm.Name).Scan(&newID); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}
