package domain

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidSubmission covers every client-input rejection after decoding: honeypot,
// missing fields and malformed email all map to it so callers cannot tell them apart.
var ErrInvalidSubmission = errors.New("invalid submission")

// ContactRequest represents a contact form submission
type ContactRequest struct {
	Name     string    `json:"name" validate:"required"`
	Email    string    `json:"email" validate:"required,contact_email"`
	Message  string    `json:"message" validate:"required"`
	Interest Interests `json:"interest"`
	// Website is a honeypot; real visitors never see the field
	Website string `json:"website"`
}

// Interests accepts either a single string or a list of strings.
type Interests []string

// UnmarshalJSON decodes a string, an array or null. Anything that is not a string keeps its
// JSON text, inside an array too.
func (i *Interests) UnmarshalJSON(data []byte) error {
	var items []json.RawMessage
	switch trimmed := bytes.TrimSpace(data); {
	case bytes.Equal(trimmed, []byte("null")):
		*i = nil
		return nil
	case len(trimmed) > 0 && trimmed[0] == '[':
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return err
		}
	default:
		items = []json.RawMessage{trimmed}
	}

	out := make(Interests, 0, len(items))
	for _, item := range items {
		text, ok, err := interestText(item)
		if err != nil {
			return err
		}
		if ok {
			out = append(out, text)
		}
	}
	*i = out
	return nil
}

// interestText renders one JSON value; null values are dropped
func interestText(raw json.RawMessage) (string, bool, error) {
	raw = bytes.TrimSpace(raw)
	switch {
	case bytes.Equal(raw, []byte("null")):
		return "", false, nil
	case len(raw) > 0 && raw[0] == '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", false, err
		}
		return s, true, nil
	default:
		if !json.Valid(raw) {
			return "", false, fmt.Errorf("invalid interest value")
		}
		var compact bytes.Buffer
		if err := json.Compact(&compact, raw); err != nil {
			return "", false, err
		}
		return compact.String(), true, nil
	}
}

// Join renders the interests the way they appear in the email body.
func (i Interests) Join() string {
	return strings.Join(i, ", ")
}

// Credentials are resolved per request and never logged.
type Credentials struct {
	APIKey    string
	APISecret string
	FromEmail string
	FromName  string
	ToEmail   string
	ToName    string
}

// Address is a mailbox with an optional display name.
type Address struct {
	Email string
	Name  string
}

// Email is the provider-neutral message handed to a Sender.
type Email struct {
	// ID is attached to the provider request so a submission can be traced
	ID       string
	From     Address
	To       []Address
	ReplyTo  Address
	Subject  string
	TextPart string
	HTMLPart string
}

// Receipt is what a provider returns on acceptance.
type Receipt struct {
	Provider  string
	MessageID string
	Status    string
}

// ProviderError is returned by a Sender when the provider rejected or could not be reached.
// StatusCode is zero when the provider attached no status.
type ProviderError struct {
	StatusCode int
	Message    string
	Details    interface{}
	Err        error
}

func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s (status %d)", e.Message, e.StatusCode)
	}
	return e.Message
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Sender delivers a composed email through an email-sending provider.
type Sender interface {
	Name() string
	Send(ctx context.Context, creds Credentials, email *Email) (*Receipt, error)
}

// ContactUsecase defines the interface for contact form operations
type ContactUsecase interface {
	// SendContactMessage validates, sanitizes and forwards a contact form message
	SendContactMessage(ctx context.Context, creds Credentials, req *ContactRequest) (*Receipt, error)
}
