// Package api is the thin client for the external KTRN REST backend.
// It builds absolute URLs from a configured base, issues single
// requests (no retries, no de-duplication), and maps failures onto the
// application error taxonomy. The backend is the source of truth for
// every record this client touches.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"ktrn/internal/models"
	"ktrn/internal/observability"
)

// SessionSource supplies the current session, if any, for bearer
// authentication. A nil source or nil session sends unauthenticated
// requests (the public endpoints need none).
type SessionSource interface {
	Current() *models.Session
}

// Client issues requests against the backend.
type Client struct {
	baseURL string
	http    *http.Client
	session SessionSource
	log     *observability.APILogger
}

// NewClient creates a Client for the given base URL. timeout bounds
// every request; cancellation beyond that is the caller's context.
func NewClient(baseURL string, timeout time.Duration, session SessionSource) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		session: session,
		log:     observability.NewAPILogger("ktrn-backend"),
	}
}

// URL joins the configured base with an endpoint path.
func (c *Client) URL(endpoint string) string {
	return c.baseURL + endpoint
}

// serverMessage is the error payload shape the backend uses. Some
// endpoints report under "error", others under "message".
type serverMessage struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (m serverMessage) text(fallback string) string {
	if m.Error != "" {
		return m.Error
	}
	if m.Message != "" {
		return m.Message
	}
	return fallback
}

// do issues one request and decodes a 2xx response body into out (when
// out is non-nil). Errors come back as AppError: network failures as
// transport errors, non-2xx responses as server errors keyed by status.
func (c *Client) do(ctx context.Context, method, endpoint string, body, out any) error {
	if observability.Config.EnableCorrelationID && observability.ExtractCorrelationID(ctx) == "" {
		ctx = observability.WithCorrelationID(ctx, observability.GenerateCorrelationID())
	}

	span, ctx := observability.StartClientSpan(ctx, method, endpoint)
	defer span.End()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.URL(endpoint), reader)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.session != nil {
		if sess := c.session.Current(); sess != nil && sess.Token != "" {
			req.Header.Set("Authorization", "Bearer "+sess.Token)
		}
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		appErr := models.NewTransportError(err)
		span.SetError(appErr)
		c.log.LogError(ctx, method, endpoint, appErr)
		return appErr
	}
	defer resp.Body.Close()

	span.SetStatus(resp.StatusCode)
	c.log.LogCall(ctx, method, endpoint, resp.StatusCode, time.Since(start))

	if resp.StatusCode >= 400 {
		appErr := c.statusError(resp)
		span.SetError(appErr)
		return appErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		appErr := models.NewTransportError(fmt.Errorf("decoding response: %w", err))
		span.SetError(appErr)
		return appErr
	}
	return nil
}

// statusError converts a non-2xx response into an AppError, preferring
// the message the server reported over the bare status.
func (c *Client) statusError(resp *http.Response) *models.AppError {
	var payload serverMessage
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	_ = json.Unmarshal(raw, &payload)
	message := payload.text(http.StatusText(resp.StatusCode))

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return models.NewUnauthorizedError(message)
	case http.StatusNotFound:
		return &models.AppError{Code: models.CodeNotFound, Message: message}
	default:
		return models.NewServerError(message)
	}
}

func (c *Client) get(ctx context.Context, endpoint string, out any) error {
	return c.do(ctx, http.MethodGet, endpoint, nil, out)
}

func (c *Client) post(ctx context.Context, endpoint string, body, out any) error {
	return c.do(ctx, http.MethodPost, endpoint, body, out)
}

func (c *Client) put(ctx context.Context, endpoint string, body, out any) error {
	return c.do(ctx, http.MethodPut, endpoint, body, out)
}

func (c *Client) delete(ctx context.Context, endpoint string) error {
	return c.do(ctx, http.MethodDelete, endpoint, nil, nil)
}
