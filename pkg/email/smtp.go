package email

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"html/template"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net"
	"net/mail"
	"net/textproto"
	"strings"
	"time"

	"portfolio-contact-api/config"
	"portfolio-contact-api/internal/domain"
	"portfolio-contact-api/pkg/logger"

	"github.com/emersion/go-sasl"
	"github.com/emersion/go-smtp"
)

// SMTPSender relays through an SMTP server, authenticating with the resolved credentials
type SMTPSender struct {
	addr      string
	host      string
	tlsMode   string
	tlsConfig *tls.Config
	timeout   time.Duration
	now       func() time.Time
}

// SMTPOption configures an SMTPSender
type SMTPOption func(*SMTPSender)

// WithTLSMode selects how the connection is secured: config.SMTPTLSStartTLS,
// config.SMTPTLSImplicit or config.SMTPTLSNone
func WithTLSMode(mode string) SMTPOption {
	return func(s *SMTPSender) {
		s.tlsMode = mode
	}
}

// WithTLSConfig overrides the client TLS configuration, used by tests to trust a local certificate
func WithTLSConfig(cfg *tls.Config) SMTPOption {
	return func(s *SMTPSender) {
		s.tlsConfig = cfg
	}
}

// WithTimeout bounds the whole SMTP conversation; non-positive values keep the default
func WithTimeout(timeout time.Duration) SMTPOption {
	return func(s *SMTPSender) {
		if timeout > 0 {
			s.timeout = timeout
		}
	}
}

// htmlDocumentTemplate wraps the already-escaped HTML part in a minimal document
const htmlDocumentTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>{{.Subject}}</title>
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
{{.Body}}
</body>
</html>`

var htmlDocument = template.Must(template.New("contact").Parse(htmlDocumentTemplate))

// NewSMTPSender creates a sender for host:port. STARTTLS is required unless another mode is set.
func NewSMTPSender(host, port string, opts ...SMTPOption) *SMTPSender {
	s := &SMTPSender{
		addr:    net.JoinHostPort(host, port),
		host:    host,
		tlsMode: config.SMTPTLSStartTLS,
		timeout: defaultSMTPTimeout,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

const defaultSMTPTimeout = 10 * time.Second

func (s *SMTPSender) Name() string {
	return "smtp"
}

func (s *SMTPSender) Send(ctx context.Context, creds domain.Credentials, email *domain.Email) (*domain.Receipt, error) {
	if err := ctx.Err(); err != nil {
		return nil, &domain.ProviderError{Message: "smtp send cancelled", Err: err}
	}

	msg, err := s.buildMessage(email)
	if err != nil {
		return nil, fmt.Errorf("failed to build email: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	conn, err := (&net.Dialer{}).DialContext(ctx, "tcp", s.addr)
	if err != nil {
		return nil, smtpProviderError(ctx, err)
	}
	// Closing the connection unblocks any pending command once ctx is done
	stop := context.AfterFunc(ctx, func() { _ = conn.Close() })
	defer stop()

	client, err := s.newClient(ctx, conn)
	if err != nil {
		_ = conn.Close()
		return nil, smtpProviderError(ctx, err)
	}
	defer client.Close()

	if creds.APIKey != "" {
		if ok, _ := client.Extension("AUTH"); !ok {
			return nil, smtpProviderError(ctx, errors.New("server does not offer AUTH"))
		}
		if err := client.Auth(sasl.NewPlainClient("", creds.APIKey, creds.APISecret)); err != nil {
			return nil, smtpProviderError(ctx, err)
		}
	}

	to := make([]string, 0, len(email.To))
	for _, addr := range email.To {
		to = append(to, addr.Email)
	}

	if err := client.SendMail(email.From.Email, to, bytes.NewReader(msg)); err != nil {
		return nil, smtpProviderError(ctx, err)
	}
	// The message is already accepted at this point
	if err := client.Quit(); err != nil {
		logger.Log.Warn("SMTP QUIT failed", "error", err, "request_id", email.ID)
	}

	return &domain.Receipt{Provider: s.Name(), MessageID: email.ID, Status: "success"}, nil
}

func (s *SMTPSender) newClient(ctx context.Context, conn net.Conn) (*smtp.Client, error) {
	var (
		client *smtp.Client
		err    error
	)

	switch s.tlsMode {
	case config.SMTPTLSNone:
		client = smtp.NewClient(conn)
	case config.SMTPTLSImplicit:
		tlsConn := tls.Client(conn, s.clientTLSConfig())
		if err := tlsConn.HandshakeContext(ctx); err != nil {
			return nil, err
		}
		client = smtp.NewClient(tlsConn)
	default:
		client, err = smtp.NewClientStartTLS(conn, s.clientTLSConfig())
		if err != nil {
			return nil, err
		}
	}

	client.CommandTimeout = s.timeout
	client.SubmissionTimeout = s.timeout
	return client, nil
}

func (s *SMTPSender) clientTLSConfig() *tls.Config {
	cfg := &tls.Config{MinVersion: tls.VersionTLS12}
	if s.tlsConfig != nil {
		cfg = s.tlsConfig.Clone()
	}
	if cfg.ServerName == "" {
		cfg.ServerName = s.host
	}
	return cfg
}

// buildMessage renders a multipart/alternative MIME message
func (s *SMTPSender) buildMessage(email *domain.Email) ([]byte, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	recipients := make([]string, 0, len(email.To))
	for _, addr := range email.To {
		recipients = append(recipients, formatAddress(addr))
	}

	headers := []string{
		"From: " + formatAddress(email.From),
		"To: " + strings.Join(recipients, ", "),
		"Subject: " + mime.QEncoding.Encode("utf-8", email.Subject),
		"Date: " + s.now().Format(time.RFC1123Z),
		"MIME-Version: 1.0",
		"Content-Type: multipart/alternative; boundary=" + writer.Boundary(),
	}
	if email.ReplyTo.Email != "" {
		headers = append(headers, "Reply-To: "+formatAddress(email.ReplyTo))
	}
	if email.ID != "" {
		headers = append(headers, "X-Contact-ID: "+email.ID)
	}

	var head bytes.Buffer
	head.WriteString(strings.Join(headers, "\r\n"))
	head.WriteString("\r\n\r\n")

	if err := writePart(writer, "text/plain; charset=UTF-8", []byte(email.TextPart)); err != nil {
		return nil, err
	}

	var html bytes.Buffer
	if err := htmlDocument.Execute(&html, struct {
		Subject string
		Body    template.HTML
	}{
		Subject: email.Subject,
		// HTMLPart is composed from escaped values only
		Body: template.HTML(email.HTMLPart),
	}); err != nil {
		return nil, fmt.Errorf("failed to execute email template: %w", err)
	}
	if err := writePart(writer, "text/html; charset=UTF-8", html.Bytes()); err != nil {
		return nil, err
	}

	if err := writer.Close(); err != nil {
		return nil, err
	}

	return append(head.Bytes(), buf.Bytes()...), nil
}

func writePart(writer *multipart.Writer, contentType string, body []byte) error {
	part, err := writer.CreatePart(textproto.MIMEHeader{
		"Content-Type":              {contentType},
		"Content-Transfer-Encoding": {"quoted-printable"},
	})
	if err != nil {
		return err
	}

	qp := quotedprintable.NewWriter(part)
	if _, err := qp.Write(body); err != nil {
		return err
	}
	return qp.Close()
}

func formatAddress(addr domain.Address) string {
	return (&mail.Address{Name: addr.Name, Address: addr.Email}).String()
}

// smtpProviderError keeps the SMTP reply as details; SMTP codes are not HTTP statuses
func smtpProviderError(ctx context.Context, err error) *domain.ProviderError {
	var smtpErr *smtp.SMTPError
	if errors.As(err, &smtpErr) {
		return &domain.ProviderError{
			Message: "smtp send failed: " + smtpErr.Message,
			Details: map[string]interface{}{
				"smtp_code": smtpErr.Code,
				"message":   smtpErr.Message,
			},
			Err: err,
		}
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return &domain.ProviderError{Message: "smtp send failed: " + ctxErr.Error(), Err: ctxErr}
	}
	return &domain.ProviderError{Message: "smtp send failed: " + err.Error(), Err: err}
}
