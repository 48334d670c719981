package repository

import (
	"context"

	"profitscan-ai/internal/domain/model"
)

// MailRepository stores the administered SMTP settings singleton and the
// outbound email templates.
type MailRepository interface {
	GetSettings(ctx context.Context, tx Tx) (*model.SMTPSettings, error)
	SaveSettings(ctx context.Context, tx Tx, s *model.SMTPSettings) error

	FindTemplateByName(ctx context.Context, tx Tx, name string) (*model.EmailTemplate, error)
	ListTemplates(ctx context.Context, tx Tx) ([]*model.EmailTemplate, error)
	SaveTemplate(ctx context.Context, tx Tx, t *model.EmailTemplate) error
	DeleteTemplate(ctx context.Context, tx Tx, name string) error
}
