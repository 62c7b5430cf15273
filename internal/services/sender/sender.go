// Package services содержит отправку писем об истекающих подписках.
package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"strings"

	"github.com/magabrotheeeer/repair-crm/internal/lib/sl"
	"github.com/magabrotheeeer/repair-crm/internal/lib/smtp"
	"github.com/magabrotheeeer/repair-crm/internal/models"
)

// notificationTemplate HTML-шаблон письма об истекающей подписке.
const notificationTemplate = `<html>
<body>
<p>Subscription expiration notice.</p>
<table>
  <tr><td>Client:</td><td>{{.ClientName}}</td></tr>
  <tr><td>Subscription:</td><td>{{.Label}}</td></tr>
  <tr><td>Expiration date:</td><td>{{.ExpirationDate.Format "02-01-2006"}}</td></tr>
  <tr><td>Price:</td><td>{{.Price}}{{.Currency}}</td></tr>
  <tr><td>Days remaining:</td><td>{{.DaysLeft}}</td></tr>
  <tr><td>Client email:</td><td>{{.Email}}</td></tr>
</table>
</body>
</html>`

// SenderService отправляет уведомления об истекающих подписках по SMTP.
type SenderService struct {
	transport   smtp.TransportInterface
	notifyEmail string
	tmpl        *template.Template
	log         *slog.Logger
}

// NewSenderService создает новый экземпляр SenderService.
func NewSenderService(transport smtp.TransportInterface, notifyEmail string, log *slog.Logger) *SenderService {
	return &SenderService{
		transport:   transport,
		notifyEmail: notifyEmail,
		tmpl:        template.Must(template.New("notification").Parse(notificationTemplate)),
		log:         log,
	}
}

// SendExpiringSubscription обрабатывает сообщение из очереди: рендерит
// HTML-письмо и отправляет его на адрес уведомлений.
func (s *SenderService) SendExpiringSubscription(body []byte) error {
	var message models.ExpiringSubscription
	if err := json.Unmarshal(body, &message); err != nil {
		s.log.Error("failed to unmarshal message body", sl.Err(err))
		return fmt.Errorf("error unmarshalling message: %w", err)
	}

	subject := fmt.Sprintf("%s subscription - %s ending in %d days",
		message.ClientName, message.Description, message.DaysLeft)

	var content bytes.Buffer
	if err := s.tmpl.Execute(&content, message); err != nil {
		s.log.Error("failed to render notification template", sl.Err(err))
		return fmt.Errorf("error rendering template: %w", err)
	}

	return s.sendEmail([]string{s.notifyEmail}, subject, content.String())
}

func (s *SenderService) sendEmail(to []string, subject, bodyHTML string) error {
	msg := strings.Join([]string{
		"From: " + s.transport.GetSMTPUser(),
		"To: " + strings.Join(to, ";"),
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/html; charset=\"UTF-8\"",
		"",
		bodyHTML,
	}, "\r\n")

	client, err := s.transport.Connect()
	if err != nil {
		s.log.Error("failed to connect to SMTP server", sl.Err(err))
		return err
	}
	defer client.Close()

	if err := client.Mail(s.transport.GetSMTPUser()); err != nil {
		s.log.Error("failed to set MAIL FROM", "from", s.transport.GetSMTPUser(), sl.Err(err))
		return err
	}

	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			s.log.Error("failed to set RCPT TO", "recipient", addr, sl.Err(err))
			return err
		}
	}

	wc, err := client.Data()
	if err != nil {
		s.log.Error("failed to get Data writer", sl.Err(err))
		return err
	}

	if _, err = wc.Write([]byte(msg)); err != nil {
		s.log.Error("failed to write email body", sl.Err(err))
		return err
	}

	if err = wc.Close(); err != nil {
		s.log.Error("failed to close Data writer", sl.Err(err))
		return err
	}

	if err = client.Quit(); err != nil {
		s.log.Error("failed to quit SMTP client", sl.Err(err))
		return err
	}

	s.log.Info("email sent successfully", "to", to)
	return nil
}
