// Package contact relays portfolio contact-form submissions through a
// transactional email service: an auto-reply to the visitor and a
// notification to the site owner.
package contact

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const defaultEndpoint = "https://api.emailjs.com/api/v1.0/email/send"

// Relay sends a submission to the visitor and to the owner
type Relay interface {
	// Send validates s and fires both template sends concurrently.
	// Returns the reference included in both emails.
	Send(ctx context.Context, s Submission) (string, error)
}

// Config holds the email service account settings
type Config struct {
	ServiceID         string
	PublicKey         string
	PrivateKey        string
	AutoReplyTemplate string
	NotifyTemplate    string
	OwnerName         string
	OwnerEmail        string
}

func (c Config) configured() bool {
	return c.ServiceID != "" && c.PublicKey != "" && c.AutoReplyTemplate != "" && c.NotifyTemplate != ""
}

type relay struct {
	client   *http.Client
	newRef   func() string
	endpoint string
	cfg      Config
}

// RelayOption configures the relay
type RelayOption func(*relay)

// WithEndpoint overrides the send endpoint
func WithEndpoint(endpoint string) RelayOption {
	return func(r *relay) {
		r.endpoint = endpoint
	}
}

// WithHTTPClient sets the client used for sends
func WithHTTPClient(client *http.Client) RelayOption {
	return func(r *relay) {
		r.client = client
	}
}

// WithReferenceGenerator replaces the uuid reference generator. Used by tests.
func WithReferenceGenerator(newRef func() string) RelayOption {
	return func(r *relay) {
		r.newRef = newRef
	}
}

// NewRelay creates a Relay for the given account
func NewRelay(cfg Config, opts ...RelayOption) Relay {
	r := &relay{
		client:   &http.Client{Timeout: 10 * time.Second},
		newRef:   func() string { return uuid.NewString() },
		endpoint: defaultEndpoint,
		cfg:      cfg,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// sendRequest is the EmailJS REST send payload
type sendRequest struct {
	TemplateParams map[string]string `json:"template_params"`
	ServiceID      string            `json:"service_id"`
	TemplateID     string            `json:"template_id"`
	UserID         string            `json:"user_id"`
	AccessToken    string            `json:"accessToken,omitempty"`
}

func (r *relay) Send(ctx context.Context, s Submission) (string, error) {
	s = s.Normalize()
	if err := s.Validate(); err != nil {
		return "", err
	}
	if !r.cfg.configured() {
		return "", ErrNotConfigured
	}

	ref := r.newRef()

	autoReply := map[string]string{
		"to_name":   s.Name,
		"to_email":  s.Email,
		"from_name": r.cfg.OwnerName,
		"subject":   s.Subject,
		"message":   s.Message,
		"reference": ref,
	}
	notify := map[string]string{
		"from_name":  s.Name,
		"from_email": s.Email,
		"reply_to":   s.Email,
		"to_name":    r.cfg.OwnerName,
		"to_email":   r.cfg.OwnerEmail,
		"subject":    s.Subject,
		"message":    s.Message,
		"reference":  ref,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return r.send(gctx, r.cfg.AutoReplyTemplate, autoReply)
	})
	g.Go(func() error {
		return r.send(gctx, r.cfg.NotifyTemplate, notify)
	})
	if err := g.Wait(); err != nil {
		log.Printf("[CONTACT] Relay failed for reference %s: %v", ref, err)
		return "", fmt.Errorf("%w: %w", ErrRelayFailed, err)
	}

	log.Printf("[CONTACT] Relayed message %s from %s", ref, s.Email)
	return ref, nil
}

// send posts one template to the email service
func (r *relay) send(ctx context.Context, templateID string, params map[string]string) error {
	payload := sendRequest{
		ServiceID:      r.cfg.ServiceID,
		TemplateID:     templateID,
		UserID:         r.cfg.PublicKey,
		AccessToken:    r.cfg.PrivateKey,
		TemplateParams: params,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal send payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create send request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("send request for template %s failed: %w", templateID, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("template %s: email service returned status %d: %s", templateID, resp.StatusCode, string(respBody))
	}
	return nil
}
