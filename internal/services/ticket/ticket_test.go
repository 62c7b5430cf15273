package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/repair-crm/internal/models"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) CreateTicket(ctx context.Context, ticket models.Ticket) (int, error) {
	args := m.Called(ctx, ticket)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) ReadTicket(ctx context.Context, id int) (*models.Ticket, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Ticket), args.Error(1)
}
func (m *RepoMock) UpdateTicket(ctx context.Context, ticket models.Ticket, id int) (int, error) {
	args := m.Called(ctx, ticket, id)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) ListTicketsByClient(ctx context.Context, clientID int) ([]*models.Ticket, error) {
	args := m.Called(ctx, clientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Ticket), args.Error(1)
}
func (m *RepoMock) CreateCharge(ctx context.Context, charge models.Charge) (int, error) {
	args := m.Called(ctx, charge)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) ListCharges(ctx context.Context, ticketID int) ([]models.ChargeLine, error) {
	args := m.Called(ctx, ticketID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.ChargeLine), args.Error(1)
}
func (m *RepoMock) ReadTicketReport(ctx context.Context, id int) (*models.TicketReport, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TicketReport), args.Error(1)
}
func (m *RepoMock) CreatePart(ctx context.Context, part models.Part) (int, error) {
	args := m.Called(ctx, part)
	return args.Int(0), args.Error(1)
}
func (m *RepoMock) CreateTicketStatus(ctx context.Context, st models.TicketStatus) (int, error) {
	args := m.Called(ctx, st)
	return args.Int(0), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestTicketService_Create(t *testing.T) {
	req := models.DummyTicket{
		ClientID:   3,
		DeviceID:   8,
		StatusID:   1,
		Problem:    "does not power on",
		WorkCharge: "35.00",
	}

	t.Run("success", func(t *testing.T) {
		repo := new(RepoMock)
		svc := NewTicketService(repo, newNoopLogger())

		repo.On("CreateTicket", mock.Anything, mock.MatchedBy(func(tk models.Ticket) bool {
			return tk.ClientID == 3 && tk.DeviceID == 8 && tk.WorkCharge.String() == "35"
		})).Return(21, nil).Once()

		id, err := svc.Create(context.Background(), req)
		assert.NoError(t, err)
		assert.Equal(t, 21, id)
		repo.AssertExpectations(t)
	})

	t.Run("empty work charge defaults to zero", func(t *testing.T) {
		repo := new(RepoMock)
		svc := NewTicketService(repo, newNoopLogger())

		free := req
		free.WorkCharge = ""
		repo.On("CreateTicket", mock.Anything, mock.MatchedBy(func(tk models.Ticket) bool {
			return tk.WorkCharge.IsZero()
		})).Return(22, nil).Once()

		_, err := svc.Create(context.Background(), free)
		assert.NoError(t, err)
		repo.AssertExpectations(t)
	})

	t.Run("invalid work charge", func(t *testing.T) {
		repo := new(RepoMock)
		svc := NewTicketService(repo, newNoopLogger())

		bad := req
		bad.WorkCharge = "a lot"
		_, err := svc.Create(context.Background(), bad)
		assert.Error(t, err)
		repo.AssertNotCalled(t, "CreateTicket", mock.Anything, mock.Anything)
	})
}

func TestTicketService_Discharge(t *testing.T) {
	repo := new(RepoMock)
	svc := NewTicketService(repo, newNoopLogger())

	repo.On("ReadTicket", mock.Anything, 21).Return(&models.Ticket{
		ID: 21, ClientID: 3,
	}, nil).Once()
	repo.On("UpdateTicket", mock.Anything, mock.MatchedBy(func(tk models.Ticket) bool {
		return tk.Delivered && tk.DischargeDate != nil
	}), 21).Return(1, nil).Once()

	res, err := svc.Discharge(context.Background(), 21)
	assert.NoError(t, err)
	assert.Equal(t, 1, res)
	repo.AssertExpectations(t)
}

func TestTicketService_AddCharge(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		repo := new(RepoMock)
		svc := NewTicketService(repo, newNoopLogger())

		repo.On("CreateCharge", mock.Anything, mock.MatchedBy(func(c models.Charge) bool {
			return c.TicketID == 21 && c.PartID == 4 && c.Charge.String() == "49.9"
		})).Return(5, nil).Once()

		id, err := svc.AddCharge(context.Background(), 21, models.DummyCharge{
			PartID:       4,
			Charge:       "49.90",
			SerialNumber: "SSD-0042",
		})
		assert.NoError(t, err)
		assert.Equal(t, 5, id)
		repo.AssertExpectations(t)
	})

	t.Run("invalid charge", func(t *testing.T) {
		repo := new(RepoMock)
		svc := NewTicketService(repo, newNoopLogger())

		_, err := svc.AddCharge(context.Background(), 21, models.DummyCharge{
			PartID: 4,
			Charge: "??",
		})
		assert.Error(t, err)
		repo.AssertNotCalled(t, "CreateCharge", mock.Anything, mock.Anything)
	})
}

func TestTicketService_Update_ReadFails(t *testing.T) {
	repo := new(RepoMock)
	svc := NewTicketService(repo, newNoopLogger())

	repo.On("ReadTicket", mock.Anything, 99).Return(nil, errors.New("not found")).Once()

	_, err := svc.Update(context.Background(), models.DummyTicket{StatusID: 2}, 99)
	assert.Error(t, err)
	repo.AssertNotCalled(t, "UpdateTicket", mock.Anything, mock.Anything, mock.Anything)
}
