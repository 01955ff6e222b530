package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/kickstart-blog/internal/apperror"
	"github.com/sakif/kickstart-blog/internal/mail"
)

// ContactService relays contact-form submissions to the site operator's
// inbox. Nothing is persisted; the mail IS the delivery.
type ContactService struct {
	mailer    mail.Sender
	recipient string
	logger    *slog.Logger
}

func NewContactService(mailer mail.Sender, recipient string, logger *slog.Logger) *ContactService {
	return &ContactService{mailer: mailer, recipient: recipient, logger: logger}
}

// Submit validates and relays one contact message. No retries — a delivery
// failure is surfaced immediately and the visitor can resubmit.
func (s *ContactService) Submit(ctx context.Context, name, email, message string) error {
	if strings.TrimSpace(name) == "" || strings.TrimSpace(email) == "" || strings.TrimSpace(message) == "" {
		return apperror.ValidationFailed("contact", "all fields are required")
	}

	if err := s.mailer.Send(ctx, mail.ContactMessage(s.recipient, name, email, message)); err != nil {
		s.logger.Error("failed to relay contact message", slog.String("error", err.Error()))
		return fmt.Errorf("sending contact message: %w", err)
	}

	s.logger.Info("contact message relayed", slog.String("from", email))
	return nil
}
