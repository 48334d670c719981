package model

import (
	"time"

	"github.com/google/uuid"
)

// SMTPSettings is the single administered mail transport configuration.
type SMTPSettings struct {
	Host        string
	Port        int
	Username    string
	Password    string
	FromAddress string
	UseTLS      bool
	UpdatedAt   time.Time
}

// Configured reports whether the settings are complete enough to send.
func (s *SMTPSettings) Configured() bool {
	return s != nil && s.Host != "" && s.Port > 0 && s.FromAddress != ""
}

// EmailTemplate is an administered outbound mail template. Subject and
// Body are text/template sources.
type EmailTemplate struct {
	ID        string
	Name      string
	Subject   string
	Body      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

func NewEmailTemplate(name, subject, body string) *EmailTemplate {
	now := time.Now()
	return &EmailTemplate{
		ID:        uuid.NewString(),
		Name:      name,
		Subject:   subject,
		Body:      body,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
