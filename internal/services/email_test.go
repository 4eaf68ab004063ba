package services

import (
	"context"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"j2systems/internal/config"
)

func TestSendHTMLEmailDisabled(t *testing.T) {
	svc := NewEmailService(&config.EmailConfig{Enabled: false}, zaptest.NewLogger(t).Sugar())

	assert.False(t, svc.IsEnabled())
	assert.NoError(t, svc.SendHTMLEmail(context.Background(), "ops@j2systems.ec", "Nuevo Contacto: Ana", "<p>hola</p>", "hola"))
}

func TestSendHTMLEmailMissingCredentials(t *testing.T) {
	svc := NewEmailService(&config.EmailConfig{Enabled: true, SMTPHost: "smtp.gmail.com", SMTPPort: 587}, zaptest.NewLogger(t).Sugar())

	assert.Error(t, svc.SendHTMLEmail(context.Background(), "ops@j2systems.ec", "s", "<p>b</p>", "b"))
}

func TestSendHTMLEmailUnreachableServer(t *testing.T) {
	// Reserve a port and release it so nothing is listening there.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := ln.Addr().(*net.TCPAddr).Port
	require.NoError(t, ln.Close())

	svc := NewEmailService(&config.EmailConfig{
		Enabled:   true,
		SMTPHost:  "127.0.0.1",
		SMTPPort:  port,
		Username:  "ops@j2systems.ec",
		Password:  "app-password",
		FromEmail: "ops@j2systems.ec",
		FromName:  "J2Systems",
	}, zaptest.NewLogger(t).Sugar())

	err = svc.SendHTMLEmail(context.Background(), "ops@j2systems.ec", "s", "<p>b</p>", "b")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to send email")
}

func TestSendHTMLEmailCanceledContext(t *testing.T) {
	svc := NewEmailService(&config.EmailConfig{
		Enabled:  true,
		SMTPHost: "127.0.0.1",
		SMTPPort: 25,
		Username: "u",
		Password: "p",
	}, zaptest.NewLogger(t).Sugar())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, svc.SendHTMLEmail(ctx, "ops@j2systems.ec", "s", "", "b"), context.Canceled)
}
