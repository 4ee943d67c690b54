package usecase

import (
	"context"
	"errors"
	"fmt"

	"portfolio-contact-api/internal/domain"
	"portfolio-contact-api/pkg/logger"
	"portfolio-contact-api/pkg/sanitize"
	"portfolio-contact-api/pkg/validation"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

const defaultSubjectPrefix = "Novo contato"

type contactUsecase struct {
	sender        domain.Sender
	validate      *validator.Validate
	subjectPrefix string
}

// NewContactUsecase creates a new contact usecase. validate must have the custom
// validation tags registered (see validation.New).
func NewContactUsecase(sender domain.Sender, validate *validator.Validate, subjectPrefix string) domain.ContactUsecase {
	if validate == nil {
		validate = validation.New()
	}
	if subjectPrefix == "" {
		subjectPrefix = defaultSubjectPrefix
	}
	return &contactUsecase{
		sender:        sender,
		validate:      validate,
		subjectPrefix: subjectPrefix,
	}
}

// SendContactMessage rejects honeypot hits and incomplete submissions, then forwards a
// sanitized message through the configured provider. Every client-input rejection is
// domain.ErrInvalidSubmission.
func (uc *contactUsecase) SendContactMessage(ctx context.Context, creds domain.Credentials, req *domain.ContactRequest) (*domain.Receipt, error) {
	requestID := domain.RequestIDFrom(ctx)

	if req == nil {
		return nil, domain.ErrInvalidSubmission
	}

	// Honeypot: bots fill every field they find
	if req.Website != "" {
		logger.Log.Info("Contact submission rejected", "reason", "honeypot", "request_id", requestID)
		return nil, domain.ErrInvalidSubmission
	}

	clean := &domain.ContactRequest{
		Name:     sanitize.Clean(req.Name),
		Email:    sanitize.Clean(req.Email),
		Message:  sanitize.Clean(req.Message),
		Interest: domain.Interests{sanitize.Clean(req.Interest.Join())},
	}

	if err := uc.validate.Struct(clean); err != nil {
		logger.Log.Info("Contact submission rejected",
			"reason", "validation",
			"fields", validation.FailedFields(err),
			"request_id", requestID,
		)
		return nil, domain.ErrInvalidSubmission
	}

	if requestID == "" {
		requestID = uuid.NewString()
	}
	email := uc.compose(requestID, creds, clean)

	receipt, err := uc.sender.Send(ctx, creds, email)
	if err != nil {
		var providerErr *domain.ProviderError
		if errors.As(err, &providerErr) {
			return nil, providerErr
		}
		return nil, fmt.Errorf("failed to send contact email: %w", err)
	}

	logger.Log.Info("Contact message sent",
		"provider", receipt.Provider,
		"message_id", receipt.MessageID,
		"request_id", requestID,
	)
	return receipt, nil
}

// compose builds the outgoing email from a sanitized request. The HTML part only
// ever embeds escaped copies.
func (uc *contactUsecase) compose(id string, creds domain.Credentials, clean *domain.ContactRequest) *domain.Email {
	interest := clean.Interest.Join()

	escName := sanitize.EscapeHTML(clean.Name)
	escEmail := sanitize.EscapeHTML(clean.Email)
	escMessage := sanitize.EscapeHTML(clean.Message)
	escInterest := sanitize.EscapeHTML(interest)

	return &domain.Email{
		ID:      id,
		From:    domain.Address{Email: creds.FromEmail, Name: creds.FromName},
		To:      []domain.Address{{Email: creds.ToEmail, Name: creds.ToName}},
		ReplyTo: domain.Address{Email: clean.Email, Name: clean.Name},
		Subject: fmt.Sprintf("%s: %s", uc.subjectPrefix, escName),
		TextPart: fmt.Sprintf("Interesses: %s\n\nMensagem:\n%s\n\nEmail: %s",
			interest, clean.Message, clean.Email),
		HTMLPart: fmt.Sprintf("<p><strong>Interesses:</strong> %s</p><p><strong>Mensagem:</strong><br/>%s</p><p><strong>Email:</strong> %s</p>",
			escInterest, escMessage, escEmail),
	}
}
