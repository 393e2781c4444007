package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/portfolio-api/internal/apperror"
	"github.com/portfolio-api/internal/mailer"
	"github.com/portfolio-api/internal/models"
	"github.com/portfolio-api/internal/validation"
)

// ContactService defines the contact relay
type ContactService interface {
	Submit(ctx context.Context, req models.ContactRequest) error
}

// contactService is the concrete implementation of ContactService
type contactService struct {
	mailer    mailer.Mailer
	validator *validation.Validator
	recipient string
	log       zerolog.Logger
}

func newContactService(m mailer.Mailer, validator *validation.Validator, recipient string, log zerolog.Logger) *contactService {
	return &contactService{
		mailer:    m,
		validator: validator,
		recipient: recipient,
		log:       log.With().Str("service", "contact").Logger(),
	}
}

// Submit validates the submission and hands it to the mailer. A mailer
// failure is reported as a delivery error, never as a validation error.
func (s *contactService) Submit(ctx context.Context, req models.ContactRequest) error {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	req.Subject = strings.TrimSpace(req.Subject)

	if err := s.validator.Check("Contact", req); err != nil {
		return err
	}

	s.log.Info().
		Str("name", req.Name).
		Str("email", req.Email).
		Str("subject", req.Subject).
		Int("message_length", len(req.Message)).
		Msg("Contact message received")

	msg := mailer.Message{
		To:      s.recipient,
		ReplyTo: req.Email,
		Subject: contactSubject(req),
		Body:    fmt.Sprintf("From: %s <%s>\n\n%s\n", req.Name, req.Email, req.Message),
	}

	if err := s.mailer.Send(ctx, msg); err != nil {
		s.log.Error().Err(err).Str("email", req.Email).Msg("Contact message delivery failed")
		return apperror.DeliveryFailed(err)
	}
	return nil
}

func contactSubject(req models.ContactRequest) string {
	if req.Subject != "" {
		return req.Subject
	}
	return "Portfolio contact from " + req.Name
}
