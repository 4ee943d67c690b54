package email_test

import (
	"context"
	"testing"

	"portfolio-contact-api/config"
	"portfolio-contact-api/pkg/email"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSender(t *testing.T) {
	assert.Equal(t, "mailjet", email.NewSender(&config.Config{EmailProvider: config.ProviderMailjet}).Name())
	assert.Equal(t, "smtp", email.NewSender(&config.Config{EmailProvider: config.ProviderSMTP, SMTPHost: "localhost", SMTPPort: "25"}).Name())
}

func TestNewSender_SMTPUsesConfiguredTLSMode(t *testing.T) {
	backend := &sink{user: smtpUser, pass: smtpPass}
	host, port := startSink(t, backend, sinkOptions{})

	sender := email.NewSender(&config.Config{
		EmailProvider:          config.ProviderSMTP,
		SMTPHost:               host,
		SMTPPort:               port,
		SMTPTLS:                config.SMTPTLSNone,
		ProviderTimeoutSeconds: 5,
	})

	_, err := sender.Send(context.Background(), authCreds(), testEmail())
	require.NoError(t, err)

	backend.mu.Lock()
	defer backend.mu.Unlock()
	assert.Equal(t, smtpUser, backend.authed)
	assert.Equal(t, []string{"me@example.com"}, backend.to)
}
