package mailer

import (
	"context"
	"fmt"
	"time"

	"github.com/eduforge/eduforge-api/pkg/logger"
	"github.com/eduforge/eduforge-api/pkg/metrics"
	"github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

// Sender delivers transactional email. Abstracted so services can be tested
// without an SMTP relay.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Message is a plain transactional email
type Message struct {
	To      string
	Subject string
	Body    string
}

// SMTPSender sends mail through an authenticated SMTP relay
type SMTPSender struct {
	host     string
	port     int
	user     string
	password string
	from     string
}

// NewSMTPSender creates a sender for the configured relay. The from address
// defaults to the authenticating user when not set explicitly.
func NewSMTPSender(host string, port int, user, password, from string) *SMTPSender {
	if from == "" {
		from = user
	}
	return &SMTPSender{
		host:     host,
		port:     port,
		user:     user,
		password: password,
		from:     from,
	}
}

// Send delivers a single message
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	start := time.Now()
	operation := "sendEmail"

	m := mail.NewMsg()
	if err := m.From(s.from); err != nil {
		return fmt.Errorf("invalid from address: %w", err)
	}
	if err := m.To(msg.To); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	m.Subject(msg.Subject)
	m.SetBodyString(mail.TypeTextPlain, msg.Body)

	client, err := mail.NewClient(s.host,
		mail.WithPort(s.port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(s.user),
		mail.WithPassword(s.password),
		mail.WithTLSPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return fmt.Errorf("failed to create SMTP client: %w", err)
	}

	err = client.DialAndSendWithContext(ctx, m)

	duration := metrics.MeasureDuration(start)
	if err != nil {
		metrics.IntegrationRequestTotal.WithLabelValues("smtp", operation, "error").Inc()
		metrics.IntegrationRequestDuration.WithLabelValues("smtp", operation, "error").Observe(duration)
		logger.LogAPICall("smtp", operation, "error", duration, zap.Error(err), zap.String("to", msg.To))
		return fmt.Errorf("failed to send email: %w", err)
	}

	metrics.IntegrationRequestTotal.WithLabelValues("smtp", operation, "success").Inc()
	metrics.IntegrationRequestDuration.WithLabelValues("smtp", operation, "success").Observe(duration)
	logger.LogAPICall("smtp", operation, "success", duration, zap.String("to", msg.To))

	return nil
}
