package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"j2systems/internal/config"
)

// Mailer delivers a single email
type Mailer interface {
	SendHTMLEmail(ctx context.Context, to, subject, htmlBody, textBody string) error
}

// EmailService handles sending emails over SMTP
type EmailService struct {
	cfg    *config.EmailConfig
	dialer *gomail.Dialer
	log    *zap.SugaredLogger
}

var _ Mailer = (*EmailService)(nil)

// NewEmailService creates a new email service. The dialer opens one SMTP
// session per message and is safe for concurrent use.
func NewEmailService(cfg *config.EmailConfig, log *zap.SugaredLogger) *EmailService {
	log = log.Named("email")
	log.Infow("Initializing mail sender", "enabled", cfg.Enabled, "host", cfg.SMTPHost, "port", cfg.SMTPPort, "user", cfg.Username)
	return &EmailService{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.Username, cfg.Password),
		log:    log,
	}
}

// SendHTMLEmail sends an HTML email with plain text fallback. Exactly one
// delivery attempt is made.
func (s *EmailService) SendHTMLEmail(ctx context.Context, to, subject, htmlBody, textBody string) error {
	if !s.cfg.Enabled {
		// In development mode, just log
		s.log.Infow("Email disabled, would send", "to", to, "subject", subject)
		return nil
	}

	if s.cfg.SMTPHost == "" || s.cfg.Username == "" || s.cfg.Password == "" {
		return fmt.Errorf("email service not properly configured")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", s.cfg.FromEmail, s.cfg.FromName)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", textBody)
	if htmlBody != "" {
		msg.AddAlternative("text/html", htmlBody)
	}

	if err := s.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.log.Infow("Email sent", "to", to, "subject", subject)
	return nil
}

// IsEnabled returns whether email service is enabled
func (s *EmailService) IsEnabled() bool {
	return s.cfg.Enabled
}
