package usecase

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"text/template"
	"time"

	"github.com/rs/zerolog"

	"profitscan-ai/internal/domain"
	"profitscan-ai/internal/domain/model"
	"profitscan-ai/internal/domain/ports/adapter"
	"profitscan-ai/internal/domain/ports/repository"
)

// MailUseCase administers SMTP settings and outbound email templates.
type MailUseCase interface {
	GetSettings(ctx context.Context) (*model.SMTPSettings, error)
	UpdateSettings(ctx context.Context, s *model.SMTPSettings) error

	ListTemplates(ctx context.Context) ([]*model.EmailTemplate, error)
	GetTemplate(ctx context.Context, name string) (*model.EmailTemplate, error)
	UpsertTemplate(ctx context.Context, name, subject, body string) (*model.EmailTemplate, error)
	DeleteTemplate(ctx context.Context, name string) error

	// SendTest renders the named template with the given data and sends
	// it to a single recipient using the stored settings.
	SendTest(ctx context.Context, templateName, to string, data map[string]string) error
}

var _ MailUseCase = (*mailUC)(nil)

type mailUC struct {
	repo   repository.MailRepository
	mailer adapter.Mailer
	log    *zerolog.Logger
}

func NewMailUseCase(repo repository.MailRepository, mailer adapter.Mailer, logger *zerolog.Logger) MailUseCase {
	return &mailUC{repo: repo, mailer: mailer, log: logger}
}

func (m *mailUC) GetSettings(ctx context.Context) (*model.SMTPSettings, error) {
	return m.repo.GetSettings(ctx, repository.NoTX)
}

func (m *mailUC) UpdateSettings(ctx context.Context, s *model.SMTPSettings) error {
	if s == nil || s.Host == "" || s.Port <= 0 || s.Port > 65535 || s.FromAddress == "" {
		return domain.ErrInvalidArgument
	}
	s.UpdatedAt = time.Now()
	if err := m.repo.SaveSettings(ctx, repository.NoTX, s); err != nil {
		return err
	}
	m.log.Info().Str("host", s.Host).Int("port", s.Port).Msg("smtp settings updated")
	return nil
}

func (m *mailUC) ListTemplates(ctx context.Context) ([]*model.EmailTemplate, error) {
	return m.repo.ListTemplates(ctx, repository.NoTX)
}

func (m *mailUC) GetTemplate(ctx context.Context, name string) (*model.EmailTemplate, error) {
	name = normalizeTemplateName(name)
	if name == "" {
		return nil, domain.ErrInvalidArgument
	}
	return m.repo.FindTemplateByName(ctx, repository.NoTX, name)
}

func (m *mailUC) UpsertTemplate(ctx context.Context, name, subject, body string) (*model.EmailTemplate, error) {
	name = normalizeTemplateName(name)
	if name == "" || subject == "" || body == "" {
		return nil, domain.ErrInvalidArgument
	}
	// Reject templates that cannot render before storing them.
	if _, err := template.New("subject").Parse(subject); err != nil {
		return nil, fmt.Errorf("%w: subject: %v", domain.ErrInvalidArgument, err)
	}
	if _, err := template.New("body").Parse(body); err != nil {
		return nil, fmt.Errorf("%w: body: %v", domain.ErrInvalidArgument, err)
	}

	existing, err := m.repo.FindTemplateByName(ctx, repository.NoTX, name)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		existing.Subject = subject
		existing.Body = body
		existing.UpdatedAt = time.Now()
		if err := m.repo.SaveTemplate(ctx, repository.NoTX, existing); err != nil {
			return nil, err
		}
		return existing, nil
	}

	t := model.NewEmailTemplate(name, subject, body)
	if err := m.repo.SaveTemplate(ctx, repository.NoTX, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (m *mailUC) DeleteTemplate(ctx context.Context, name string) error {
	return m.repo.DeleteTemplate(ctx, repository.NoTX, normalizeTemplateName(name))
}

func (m *mailUC) SendTest(ctx context.Context, templateName, to string, data map[string]string) error {
	to = strings.TrimSpace(to)
	if to == "" || !strings.Contains(to, "@") {
		return domain.ErrInvalidArgument
	}

	settings, err := m.repo.GetSettings(ctx, repository.NoTX)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrMailNotConfigured
		}
		return err
	}
	if !settings.Configured() {
		return domain.ErrMailNotConfigured
	}

	t, err := m.GetTemplate(ctx, templateName)
	if err != nil {
		return err
	}

	subject, err := renderTemplate("subject", t.Subject, data)
	if err != nil {
		return err
	}
	body, err := renderTemplate("body", t.Body, data)
	if err != nil {
		return err
	}

	if err := m.mailer.Send(ctx, settings, to, subject, body); err != nil {
		return fmt.Errorf("send test mail: %w", err)
	}
	m.log.Info().Str("template", t.Name).Str("to", to).Msg("test mail sent")
	return nil
}

func renderTemplate(name, src string, data map[string]string) (string, error) {
	t, err := template.New(name).Parse(src)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func normalizeTemplateName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
