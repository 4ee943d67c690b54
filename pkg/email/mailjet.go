package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"portfolio-contact-api/internal/domain"
)

const maxResponseBytes = 1 << 20

// MailjetSender talks to the Mailjet Send API v3.1
type MailjetSender struct {
	baseURL    string
	sandbox    bool
	httpClient *http.Client
}

type mailjetAddress struct {
	Email string `json:"Email"`
	Name  string `json:"Name,omitempty"`
}

type mailjetMessage struct {
	From     mailjetAddress   `json:"From"`
	To       []mailjetAddress `json:"To"`
	ReplyTo  *mailjetAddress  `json:"ReplyTo,omitempty"`
	Subject  string           `json:"Subject"`
	TextPart string           `json:"TextPart"`
	HTMLPart string           `json:"HTMLPart"`
	CustomID string           `json:"CustomID,omitempty"`
}

type mailjetSendRequest struct {
	SandboxMode bool             `json:"SandboxMode,omitempty"`
	Messages    []mailjetMessage `json:"Messages"`
}

type mailjetError struct {
	ErrorIdentifier string `json:"ErrorIdentifier"`
	ErrorCode       string `json:"ErrorCode"`
	StatusCode      int    `json:"StatusCode"`
	ErrorMessage    string `json:"ErrorMessage"`
}

type mailjetSendResponse struct {
	Messages []struct {
		Status   string `json:"Status"`
		CustomID string `json:"CustomID"`
		To       []struct {
			Email       string `json:"Email"`
			MessageUUID string `json:"MessageUUID"`
			MessageID   int64  `json:"MessageID"`
		} `json:"To"`
		Errors []mailjetError `json:"Errors"`
	} `json:"Messages"`
	// Set on request-level failures such as bad credentials
	mailjetError
}

// NewMailjetSender creates a sender for baseURL (normally https://api.mailjet.com)
func NewMailjetSender(baseURL string, sandbox bool, timeout time.Duration) *MailjetSender {
	return &MailjetSender{
		baseURL:    baseURL,
		sandbox:    sandbox,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (s *MailjetSender) Name() string {
	return "mailjet"
}

// Send posts a single message; credentials are supplied per call
func (s *MailjetSender) Send(ctx context.Context, creds domain.Credentials, email *domain.Email) (*domain.Receipt, error) {
	payload := mailjetSendRequest{
		SandboxMode: s.sandbox,
		Messages:    []mailjetMessage{toMailjetMessage(email)},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode mailjet payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/v3.1/send", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build mailjet request: %w", err)
	}
	req.SetBasicAuth(creds.APIKey, creds.APISecret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, &domain.ProviderError{Message: "mailjet request failed: " + err.Error(), Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &domain.ProviderError{StatusCode: resp.StatusCode, Message: "failed to read mailjet response", Err: err}
	}

	var parsed mailjetSendResponse
	decodeErr := json.Unmarshal(raw, &parsed)

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, &domain.ProviderError{
			StatusCode: resp.StatusCode,
			Message:    errorMessage(resp.StatusCode, &parsed),
			Details:    details(raw),
		}
	}
	if decodeErr != nil {
		return nil, &domain.ProviderError{
			StatusCode: resp.StatusCode,
			Message:    "unexpected mailjet response",
			Details:    string(raw),
			Err:        decodeErr,
		}
	}

	receipt := &domain.Receipt{Provider: s.Name(), Status: "success"}
	if len(parsed.Messages) > 0 {
		msg := parsed.Messages[0]
		receipt.Status = msg.Status
		if msg.Status != "success" {
			return nil, &domain.ProviderError{
				StatusCode: resp.StatusCode,
				Message:    errorMessage(resp.StatusCode, &parsed),
				Details:    details(raw),
			}
		}
		if len(msg.To) > 0 {
			receipt.MessageID = strconv.FormatInt(msg.To[0].MessageID, 10)
		}
	}
	return receipt, nil
}

func toMailjetMessage(email *domain.Email) mailjetMessage {
	to := make([]mailjetAddress, 0, len(email.To))
	for _, addr := range email.To {
		to = append(to, mailjetAddress{Email: addr.Email, Name: addr.Name})
	}

	msg := mailjetMessage{
		From:     mailjetAddress{Email: email.From.Email, Name: email.From.Name},
		To:       to,
		Subject:  email.Subject,
		TextPart: email.TextPart,
		HTMLPart: email.HTMLPart,
		CustomID: email.ID,
	}
	if email.ReplyTo.Email != "" {
		msg.ReplyTo = &mailjetAddress{Email: email.ReplyTo.Email, Name: email.ReplyTo.Name}
	}
	return msg
}

// errorMessage picks the most specific message Mailjet returned
func errorMessage(status int, parsed *mailjetSendResponse) string {
	if parsed.ErrorMessage != "" {
		return parsed.ErrorMessage
	}
	for _, msg := range parsed.Messages {
		for _, e := range msg.Errors {
			if e.ErrorMessage != "" {
				return e.ErrorMessage
			}
		}
	}
	return fmt.Sprintf("Unsuccessful: Status Code: %d", status)
}

// details returns the decoded provider body, or the raw text if it is not JSON
func details(raw []byte) interface{} {
	if len(raw) == 0 {
		return nil
	}
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return string(raw)
	}
	return v
}
