package repository

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/repair-crm/internal/models"
)

// CreateTicket вставляет новую заявку и возвращает её ID.
// admission_date проставляется базой данных.
func (s *Storage) CreateTicket(ctx context.Context, ticket models.Ticket) (int, error) {
	const op = "storage.CreateTicket"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO tickets (client_id, device_id, status_id, problem, diagnosis, actions, work_charge)
			  VALUES ($1, $2, $3, $4, $5, $6, $7)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		ticket.ClientID, ticket.DeviceID, ticket.StatusID, ticket.Problem,
		ticket.Diagnosis, ticket.Actions, ticket.WorkCharge).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ReadTicket возвращает заявку по её ID.
func (s *Storage) ReadTicket(ctx context.Context, id int) (*models.Ticket, error) {
	const op = "storage.ReadTicket"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, client_id, device_id, status_id, admission_date, discharge_date,
			      delivered, problem, diagnosis, actions, work_charge
			  FROM tickets WHERE id = $1`
	row := s.DB.QueryRowContext(ctx, query, id)

	var result models.Ticket
	if err := row.Scan(&result.ID, &result.ClientID, &result.DeviceID, &result.StatusID,
		&result.AdmissionDate, &result.DischargeDate, &result.Delivered,
		&result.Problem, &result.Diagnosis, &result.Actions, &result.WorkCharge); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &result, nil
}

// UpdateTicket обновляет заявку по её ID и возвращает количество изменённых строк.
func (s *Storage) UpdateTicket(ctx context.Context, ticket models.Ticket, id int) (int, error) {
	const op = "storage.UpdateTicket"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE tickets
			  SET status_id = $1, discharge_date = $2, delivered = $3, problem = $4,
			      diagnosis = $5, actions = $6, work_charge = $7
			  WHERE id = $8`
	result, err := s.DB.ExecContext(ctx, query,
		ticket.StatusID, ticket.DischargeDate, ticket.Delivered, ticket.Problem,
		ticket.Diagnosis, ticket.Actions, ticket.WorkCharge, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// ListTicketsByClient возвращает заявки клиента.
func (s *Storage) ListTicketsByClient(ctx context.Context, clientID int) ([]*models.Ticket, error) {
	const op = "storage.ListTicketsByClient"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, client_id, device_id, status_id, admission_date, discharge_date,
			      delivered, problem, diagnosis, actions, work_charge
			  FROM tickets
			  WHERE client_id = $1
			  ORDER BY id`
	rows, err := s.DB.QueryContext(ctx, query, clientID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Ticket
	for rows.Next() {
		var item models.Ticket
		if err := rows.Scan(&item.ID, &item.ClientID, &item.DeviceID, &item.StatusID,
			&item.AdmissionDate, &item.DischargeDate, &item.Delivered,
			&item.Problem, &item.Diagnosis, &item.Actions, &item.WorkCharge); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// CreateCharge добавляет запчасть к заявке и возвращает ID записи.
func (s *Storage) CreateCharge(ctx context.Context, charge models.Charge) (int, error) {
	const op = "storage.CreateCharge"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO charges (ticket_id, part_id, charge, serial_number)
			  VALUES ($1, $2, $3, $4)
			  RETURNING id`
	var newID int
	err := s.DB.QueryRowContext(ctx, query,
		charge.TicketID, charge.PartID, charge.Charge, charge.SerialNumber).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ListCharges возвращает строки запчастей заявки с именами запчастей.
func (s *Storage) ListCharges(ctx context.Context, ticketID int) ([]models.ChargeLine, error) {
	const op = "storage.ListCharges"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT p.name, c.charge, c.serial_number
			  FROM charges c
			  JOIN parts p ON p.id = c.part_id
			  WHERE c.ticket_id = $1
			  ORDER BY c.id`
	rows, err := s.DB.QueryContext(ctx, query, ticketID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []models.ChargeLine
	for rows.Next() {
		var line models.ChargeLine
		if err := rows.Scan(&line.PartName, &line.Charge, &line.SerialNumber); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// CreatePart вставляет новую запчасть и возвращает её ID.
func (s *Storage) CreatePart(ctx context.Context, part models.Part) (int, error) {
	const op = "storage.CreatePart"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO parts (name) VALUES ($1) RETURNING id`
	var newID int
	if err := s.DB.QueryRowContext(ctx, query, part.Name).Scan(&newID); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// CreateTicketStatus вставляет новый статус заявки и возвращает его ID.
func (s *Storage) CreateTicketStatus(ctx context.Context, st models.TicketStatus) (int, error) {
	const op = "storage.CreateTicketStatus"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO ticket_statuses (status, label) VALUES ($1, $2) RETURNING id`
	var newID int
	if err := s.DB.QueryRowContext(ctx, query, st.Status, st.Label).Scan(&newID); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ReadTicketReport собирает агрегат заявки для печатной формы:
// заявку, клиента, устройство, статус и список запчастей.
func (s *Storage) ReadTicketReport(ctx context.Context, id int) (*models.TicketReport, error) {
	const op = "storage.ReadTicketReport"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT t.id, t.client_id, t.device_id, t.status_id, t.admission_date, t.discharge_date,
			      t.delivered, t.problem, t.diagnosis, t.actions, t.work_charge,
			      c.id, c.first_name, c.last_name, c.phone, c.mobile, c.email, c.comment, c.balance,
			      d.id, d.client_id, d.model_id, d.type_id, COALESCE(d.serial_number, ''), d.description, d.comment,
			      COALESCE(dm.name, ''), dt.type,
			      ts.id, ts.status, ts.label
			  FROM tickets t
			  JOIN clients c ON c.id = t.client_id
			  JOIN devices d ON d.id = t.device_id
			  LEFT JOIN device_models dm ON dm.id = d.model_id
			  JOIN device_types dt ON dt.id = d.type_id
			  JOIN ticket_statuses ts ON ts.id = t.status_id
			  WHERE t.id = $1`
	row := s.DB.QueryRowContext(ctx, query, id)

	var report models.TicketReport
	if err := row.Scan(
		&report.Ticket.ID, &report.Ticket.ClientID, &report.Ticket.DeviceID, &report.Ticket.StatusID,
		&report.Ticket.AdmissionDate, &report.Ticket.DischargeDate, &report.Ticket.Delivered,
		&report.Ticket.Problem, &report.Ticket.Diagnosis, &report.Ticket.Actions, &report.Ticket.WorkCharge,
		&report.Client.ID, &report.Client.FirstName, &report.Client.LastName, &report.Client.Phone,
		&report.Client.Mobile, &report.Client.Email, &report.Client.Comment, &report.Client.Balance,
		&report.Device.ID, &report.Device.ClientID, &report.Device.ModelID, &report.Device.TypeID,
		&report.Device.SerialNumber, &report.Device.Description, &report.Device.Comment,
		&report.Model, &report.Type,
		&report.Status.ID, &report.Status.Status, &report.Status.Label,
	); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	charges, err := s.ListCharges(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	report.Charges = charges
	return &report, nil
}
