package mail

import (
	"context"
	"fmt"
	"log/slog"

	gomail "github.com/wneessen/go-mail"
)

// SMTPSender delivers mail through an authenticated SMTP relay using
// wneessen/go-mail. One client is constructed at startup and reused; the
// library dials per send, so there is no long-lived connection to manage.
type SMTPSender struct {
	client *gomail.Client
	from   string
	logger *slog.Logger
}

// NewSMTPSender creates a sender for the given relay. from is the envelope
// and header From address (e.g. a Gmail account with an app password).
func NewSMTPSender(host string, port int, username, password, from string, logger *slog.Logger) (*SMTPSender, error) {
	client, err := gomail.NewClient(host,
		gomail.WithPort(port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(username),
		gomail.WithPassword(password),
		gomail.WithTLSPolicy(gomail.TLSMandatory),
	)
	if err != nil {
		return nil, fmt.Errorf("mail: creating smtp client: %w", err)
	}

	return &SMTPSender{client: client, from: from, logger: logger}, nil
}

// Send delivers a single message. Failures are returned to the caller —
// retry policy (there is none) is the caller's concern.
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	m := gomail.NewMsg()
	if err := m.From(s.from); err != nil {
		return fmt.Errorf("mail: setting from address: %w", err)
	}
	if err := m.To(msg.To); err != nil {
		return fmt.Errorf("mail: setting to address: %w", err)
	}
	if msg.ReplyTo != "" {
		if err := m.ReplyTo(msg.ReplyTo); err != nil {
			return fmt.Errorf("mail: setting reply-to address: %w", err)
		}
	}
	m.Subject(msg.Subject)
	m.SetBodyString(gomail.TypeTextPlain, msg.Text)
	if msg.HTML != "" {
		m.AddAlternativeString(gomail.TypeTextHTML, msg.HTML)
	}

	if err := s.client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("mail: sending to %s: %w", msg.To, err)
	}

	s.logger.Info("mail sent",
		slog.String("to", msg.To),
		slog.String("subject", msg.Subject),
	)
	return nil
}

// LogSender is the no-SMTP fallback used in development: instead of
// delivering, it logs the message body (which contains the OTP) so signup
// can still be completed locally.
type LogSender struct {
	Logger *slog.Logger
}

func (s *LogSender) Send(_ context.Context, msg Message) error {
	s.Logger.Info("mail delivery disabled, logging instead",
		slog.String("to", msg.To),
		slog.String("subject", msg.Subject),
		slog.String("text", msg.Text),
	)
	return nil
}
