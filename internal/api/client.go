// internal/api/client.go
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"coopwise-client/internal/auth"
	"coopwise-client/internal/domain/notification"
)

// APIError is a non-success response from the backend. Detail carries the
// server message when the body had one.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("backend rejected request: %d: %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("backend rejected request: %d", e.Status)
}

// Client talks to the Coopwise notification REST API. All business logic
// lives server-side; this client only moves confirmed state.
type Client struct {
	baseURL string
	tokens  auth.TokenProvider
	httpc   *http.Client
	logger  *zap.Logger
}

func NewClient(baseURL string, tokens auth.TokenProvider, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: baseURL,
		tokens:  tokens,
		httpc:   &http.Client{Timeout: 30 * time.Second},
		logger:  logger,
	}
}

// FetchNotifications calls GET /notifications/me with pagination.
func (c *Client) FetchNotifications(ctx context.Context, page, pageSize int) (*notification.ListResponse, error) {
	path := fmt.Sprintf("/api/v1/notifications/me?page=%d&page_size=%d", page, pageSize)

	var out notification.ListResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MarkAsRead confirms a single read transition with the backend.
func (c *Client) MarkAsRead(ctx context.Context, id string) error {
	body := map[string]string{"status": "read"}
	return c.do(ctx, http.MethodPatch, "/api/v1/notifications/"+id, body, nil)
}

// MarkAllAsRead is a single bulk call, not one call per record.
func (c *Client) MarkAllAsRead(ctx context.Context) error {
	return c.do(ctx, http.MethodPatch, "/api/v1/notifications/mark-all-as-read", nil, nil)
}

// Archive confirms an archive transition with the backend.
func (c *Client) Archive(ctx context.Context, id string) error {
	body := map[string]string{"status": "archived"}
	return c.do(ctx, http.MethodPatch, "/api/v1/notifications/"+id+"/archive", body, nil)
}

// Delete removes the notification server-side.
func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/notifications/"+id, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return err
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}

	requestID := ulid.Make().String()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("X-Request-ID", requestID)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("calling backend: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode, Detail: readDetail(resp.Body)}
		c.logger.Warn("backend rejected request",
			zap.String("method", method),
			zap.String("path", path),
			zap.String("request_id", requestID),
			zap.Int("status", resp.StatusCode),
		)
		return apiErr
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}
	return nil
}

// readDetail extracts the {"detail": "..."} message the backend uses for
// errors. A body in any other shape yields an empty detail.
func readDetail(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil {
		return ""
	}
	var body struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return ""
	}
	return body.Detail
}
