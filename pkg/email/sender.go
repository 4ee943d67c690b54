package email

import (
	"time"

	"portfolio-contact-api/config"
	"portfolio-contact-api/internal/domain"
)

// NewSender returns the sender selected by cfg.EmailProvider
func NewSender(cfg *config.Config) domain.Sender {
	timeout := time.Duration(cfg.ProviderTimeoutSeconds) * time.Second
	if cfg.EmailProvider == config.ProviderSMTP {
		return NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, WithTLSMode(cfg.SMTPTLS), WithTimeout(timeout))
	}
	return NewMailjetSender(cfg.MailjetBaseURL, cfg.MailjetSandbox, timeout)
}
