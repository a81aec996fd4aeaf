// Package mail delivers rendered plans over a Resend-style HTTP email API.
package mail

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"

	"fitplan"
)

const defaultMaxAttempts = 3

type doer interface {
	Do(req *http.Request) (*http.Response, error)
}

type Client struct {
	endpoint    string
	apiKey      string
	from        string
	maxAttempts int
	httpClient  doer
}

type ClientOpts struct {
	Endpoint    string
	APIKey      string
	From        string
	MaxAttempts int
	HTTPClient  doer
}

func NewClient(opts ClientOpts) *Client {
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = defaultMaxAttempts
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	return &Client{
		endpoint:    opts.Endpoint,
		apiKey:      opts.APIKey,
		from:        opts.From,
		maxAttempts: opts.MaxAttempts,
		httpClient:  opts.HTTPClient,
	}
}

type wireAttachment struct {
	Filename    string `json:"filename"`
	Content     string `json:"content"`
	ContentType string `json:"content_type,omitempty"`
}

type wireEmail struct {
	From        string           `json:"from"`
	To          []string         `json:"to"`
	Subject     string           `json:"subject"`
	HTML        string           `json:"html"`
	Attachments []wireAttachment `json:"attachments,omitempty"`
}

// Send posts the email, retrying transient transport and 5xx failures with
// exponential backoff. 4xx responses are not retried.
func (c *Client) Send(ctx context.Context, email fitplan.Email) error {
	slog.Info("MAIL: Sending", "to", email.To, "subject", email.Subject, "attachments", len(email.Attachments))

	if email.To == "" {
		return fitplan.NewDeliveryError("email has no recipient")
	}

	payload, err := json.Marshal(c.toWire(email))
	if err != nil {
		return err
	}

	attempt := 0
	op := func() (struct{}, error) {
		attempt++
		if err := c.post(ctx, payload); err != nil {
			slog.Warn("MAIL: Send attempt failed", "attempt", attempt, "error", err)
			return struct{}{}, err
		}
		return struct{}{}, nil
	}

	_, err = backoff.Retry(ctx, op,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(uint(c.maxAttempts)),
		backoff.WithMaxElapsedTime(time.Minute),
	)
	if err != nil {
		return fitplan.NewDeliveryError(fmt.Sprintf("send to %s failed: %v", email.To, err))
	}

	slog.Info("MAIL: Sent", "to", email.To)
	return nil
}

func (c *Client) toWire(email fitplan.Email) wireEmail {
	we := wireEmail{
		From:    c.from,
		To:      []string{email.To},
		Subject: email.Subject,
		HTML:    email.HTML,
	}
	for _, a := range email.Attachments {
		we.Attachments = append(we.Attachments, wireAttachment{
			Filename:    a.Filename,
			Content:     base64.StdEncoding.EncodeToString(a.Content),
			ContentType: a.MIMEType,
		})
	}
	return we
}

func (c *Client) post(ctx context.Context, payload []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return backoff.Permanent(err)
	}

	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("mail API returned %s", resp.Status)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		body, _ := io.ReadAll(resp.Body)
		return backoff.Permanent(fmt.Errorf("mail API rejected request: %s: %s", resp.Status, string(body)))
	}

	return nil
}
