package adapter

import (
	"context"

	"profitscan-ai/internal/domain/model"
)

// Mailer sends a single message using the administered SMTP settings.
type Mailer interface {
	Send(ctx context.Context, settings *model.SMTPSettings, to, subject, body string) error
}
