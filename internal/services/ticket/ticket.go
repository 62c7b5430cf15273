// Package services содержит бизнес-логику для заявок на ремонт и стоимости запчастей.
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

// TicketRepository определяет методы для работы с заявками в хранилище.
type TicketRepository interface {
	CreateTicket(ctx context.Context, ticket models.Ticket) (int, error)
	ReadTicket(ctx context.Context, id int) (*models.Ticket, error)
	UpdateTicket(ctx context.Context, ticket models.Ticket, id int) (int, error)
	ListTicketsByClient(ctx context.Context, clientID int) ([]*models.Ticket, error)
	CreateCharge(ctx context.Context, charge models.Charge) (int, error)
	ListCharges(ctx context.Context, ticketID int) ([]models.ChargeLine, error)
	ReadTicketReport(ctx context.Context, id int) (*models.TicketReport, error)
	CreatePart(ctx context.Context, part models.Part) (int, error)
	CreateTicketStatus(ctx context.Context, st models.TicketStatus) (int, error)
}

// TicketService реализует бизнес-логику работы с заявками.
type TicketService struct {
	repo TicketRepository
	log  *slog.Logger
}

// NewTicketService создает новый экземпляр TicketService.
func NewTicketService(repo TicketRepository, log *slog.Logger) *TicketService {
	return &TicketService{
		repo: repo,
		log:  log,
	}
}

// Create открывает новую заявку и возвращает её ID.
func (s *TicketService) Create(ctx context.Context, req models.DummyTicket) (int, error) {
	const op = "services.ticket.Create"

	workCharge, err := parseCharge(req.WorkCharge)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	ticket := models.Ticket{
		ClientID:   req.ClientID,
		DeviceID:   req.DeviceID,
		StatusID:   req.StatusID,
		Problem:    req.Problem,
		Diagnosis:  req.Diagnosis,
		Actions:    req.Actions,
		WorkCharge: workCharge,
	}

	id, err := s.repo.CreateTicket(ctx, ticket)
	if err != nil {
		return 0, err
	}
	s.log.Info("created new ticket", slog.Int("id", id), slog.Int("client_id", req.ClientID))
	return id, nil
}

// Read возвращает заявку по ID.
func (s *TicketService) Read(ctx context.Context, id int) (*models.Ticket, error) {
	return s.repo.ReadTicket(ctx, id)
}

// Update обновляет рабочие поля заявки по её ID.
func (s *TicketService) Update(ctx context.Context, req models.DummyTicket, id int) (int, error) {
	const op = "services.ticket.Update"

	current, err := s.repo.ReadTicket(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	workCharge, err := parseCharge(req.WorkCharge)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	current.StatusID = req.StatusID
	current.Problem = req.Problem
	current.Diagnosis = req.Diagnosis
	current.Actions = req.Actions
	current.WorkCharge = workCharge

	res, err := s.repo.UpdateTicket(ctx, *current, id)
	if err != nil {
		return 0, err
	}
	s.log.Info("updated ticket", slog.Int("id", id))
	return res, nil
}

// Discharge отмечает выдачу устройства: проставляет дату выдачи и флаг delivered.
func (s *TicketService) Discharge(ctx context.Context, id int) (int, error) {
	const op = "services.ticket.Discharge"

	current, err := s.repo.ReadTicket(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	now := dates.Day(time.Now())
	current.DischargeDate = &now
	current.Delivered = true

	res, err := s.repo.UpdateTicket(ctx, *current, id)
	if err != nil {
		return 0, err
	}
	s.log.Info("ticket discharged", slog.Int("id", id))
	return res, nil
}

// ListByClient возвращает заявки клиента.
func (s *TicketService) ListByClient(ctx context.Context, clientID int) ([]*models.Ticket, error) {
	return s.repo.ListTicketsByClient(ctx, clientID)
}

// AddCharge добавляет к заявке использованную запчасть с её стоимостью.
func (s *TicketService) AddCharge(ctx context.Context, ticketID int, req models.DummyCharge) (int, error) {
	const op = "services.ticket.AddCharge"

	amount, err := decimal.NewFromString(req.Charge)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid charge: %w", op, err)
	}

	charge := models.Charge{
		TicketID:     ticketID,
		PartID:       req.PartID,
		Charge:       amount,
		SerialNumber: req.SerialNumber,
	}
	id, err := s.repo.CreateCharge(ctx, charge)
	if err != nil {
		return 0, err
	}
	s.log.Info("added charge to ticket", slog.Int("ticket_id", ticketID), slog.Int("id", id))
	return id, nil
}

// AddPart добавляет запчасть в справочник и возвращает её ID.
func (s *TicketService) AddPart(ctx context.Context, req models.DummyPart) (int, error) {
	id, err := s.repo.CreatePart(ctx, models.Part{Name: req.Name})
	if err != nil {
		return 0, err
	}
	s.log.Info("created new part", slog.Int("id", id))
	return id, nil
}

// AddStatus добавляет статус заявки в справочник и возвращает его ID.
func (s *TicketService) AddStatus(ctx context.Context, req models.DummyTicketStatus) (int, error) {
	id, err := s.repo.CreateTicketStatus(ctx, models.TicketStatus{Status: req.Status, Label: req.Label})
	if err != nil {
		return 0, err
	}
	s.log.Info("created new ticket status", slog.Int("id", id))
	return id, nil
}

// Report собирает агрегат заявки для печатной формы.
func (s *TicketService) Report(ctx context.Context, id int) (*models.TicketReport, error) {
	return s.repo.ReadTicketReport(ctx, id)
}

func parseCharge(raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(raw)
}
