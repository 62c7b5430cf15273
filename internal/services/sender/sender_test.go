package services

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/repair-crm/internal/lib/smtp"
	"github.com/magabrotheeeer/repair-crm/internal/models"
)

type writeCloserMock struct {
	buf    bytes.Buffer
	closed bool
}

func (w *writeCloserMock) Write(p []byte) (int, error) { return w.buf.Write(p) }
func (w *writeCloserMock) Close() error                { w.closed = true; return nil }

type ClientMock struct {
	mock.Mock
	data *writeCloserMock
}

func (m *ClientMock) Mail(from string) error { return m.Called(from).Error(0) }
func (m *ClientMock) Rcpt(to string) error   { return m.Called(to).Error(0) }
func (m *ClientMock) Data() (io.WriteCloser, error) {
	args := m.Called()
	return m.data, args.Error(0)
}
func (m *ClientMock) Quit() error  { return m.Called().Error(0) }
func (m *ClientMock) Close() error { return m.Called().Error(0) }

type TransportMock struct {
	mock.Mock
	client *ClientMock
}

func (m *TransportMock) Connect() (smtp.Client, error) {
	args := m.Called()
	if args.Get(1) != nil {
		return nil, args.Error(1)
	}
	return m.client, nil
}
func (m *TransportMock) GetSMTPUser() string { return m.Called().String(0) }

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestSenderService_SendExpiringSubscription(t *testing.T) {
	message := models.ExpiringSubscription{
		Email:          "anna@example.com",
		ClientName:     "Weber Anna",
		Description:    "office pc",
		Label:          "Business - office pc",
		ExpirationDate: time.Date(2025, time.April, 10, 0, 0, 0, 0, time.UTC),
		Price:          decimal.RequireFromString("120.00"),
		Currency:       "€",
		DaysLeft:       7,
	}
	body, err := json.Marshal(message)
	assert.NoError(t, err)

	t.Run("renders and sends the notification", func(t *testing.T) {
		client := &ClientMock{data: &writeCloserMock{}}
		transport := &TransportMock{client: client}

		transport.On("Connect").Return(nil, nil).Once()
		transport.On("GetSMTPUser").Return("noreply@workshop.example")
		client.On("Mail", "noreply@workshop.example").Return(nil).Once()
		client.On("Rcpt", "support@workshop.example").Return(nil).Once()
		client.On("Data").Return(nil).Once()
		client.On("Quit").Return(nil).Once()
		client.On("Close").Return(nil).Once()

		svc := NewSenderService(transport, "support@workshop.example", newNoopLogger())
		err := svc.SendExpiringSubscription(body)
		assert.NoError(t, err)

		sent := client.data.buf.String()
		assert.Contains(t, sent, "Subject: Weber Anna subscription - office pc ending in 7 days")
		assert.Contains(t, sent, "Weber Anna")
		assert.Contains(t, sent, "Business - office pc")
		assert.Contains(t, sent, "10-04-2025")
		assert.True(t, client.data.closed)

		transport.AssertExpectations(t)
		client.AssertExpectations(t)
	})

	t.Run("invalid message body", func(t *testing.T) {
		transport := &TransportMock{}
		svc := NewSenderService(transport, "support@workshop.example", newNoopLogger())

		err := svc.SendExpiringSubscription([]byte("{not json"))
		assert.Error(t, err)
		transport.AssertNotCalled(t, "Connect")
	})
}
