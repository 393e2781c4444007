package mailer

import (
	"context"

	"github.com/rs/zerolog"
)

// Message is an email handed to the dispatch collaborator.
type Message struct {
	To      string
	ReplyTo string
	Subject string
	Body    string
}

// Mailer delivers messages. Send returns an error when the message could
// not be handed off; callers treat that as a delivery failure.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// LogMailer writes messages to the log instead of sending them.
type LogMailer struct {
	log zerolog.Logger
}

func NewLogMailer(log zerolog.Logger) *LogMailer {
	return &LogMailer{log: log.With().Str("component", "mailer").Logger()}
}

// Send logs the envelope and body size and always succeeds.
func (m *LogMailer) Send(ctx context.Context, msg Message) error {
	m.log.Info().
		Str("to", msg.To).
		Str("reply_to", msg.ReplyTo).
		Str("subject", msg.Subject).
		Int("body_bytes", len(msg.Body)).
		Msg("Email dispatch not configured, message logged")
	return nil
}
