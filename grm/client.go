package grm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	ai "github.com/openseva/seva"
)

// ErrNotFound is returned when the GRM API has no grievance with the
// requested ID.
var ErrNotFound = errors.New("grm: grievance not found")

// Client calls the GRM case-management API.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets the underlying HTTP client. Useful for tests and
// custom timeouts.
func WithHTTPClient(h *http.Client) ClientOption {
	return func(c *Client) { c.http = h }
}

// New creates a GRM client for the given API base URL and bearer token.
func New(baseURL, token string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify ranks CPGRAMS categories for a piece of grievance text.
func (c *Client) Classify(ctx context.Context, grievanceText string) ([]CategoryPrediction, error) {
	body := map[string]string{"grievance_text": grievanceText}

	var result struct {
		Data    []CategoryPrediction `json:"data"`
		Success bool                 `json:"success"`
	}
	if err := c.do(ctx, http.MethodPost, "/category", body, &result); err != nil {
		return nil, fmt.Errorf("grm: classify: %w", err)
	}
	return result.Data, nil
}

// CreateGrievance files a new grievance and returns the created record.
func (c *Client) CreateGrievance(ctx context.Context, input CreateGrievanceInput) (*Grievance, error) {
	if input.Priority == "" {
		input.Priority = PriorityMedium
	}

	var created Grievance
	if err := c.do(ctx, http.MethodPost, "/grievances", input, &created); err != nil {
		return nil, fmt.Errorf("grm: create grievance: %w", err)
	}
	return &created, nil
}

// GetGrievance fetches a single grievance by ID. A 404 from the API is
// returned as ErrNotFound.
func (c *Client) GetGrievance(ctx context.Context, id string) (*Grievance, error) {
	var g Grievance
	if err := c.do(ctx, http.MethodGet, "/grievances/"+id, nil, &g); err != nil {
		return nil, fmt.Errorf("grm: get grievance %s: %w", id, err)
	}
	return &g, nil
}

// ListUserGrievances fetches every grievance filed by a user.
func (c *Client) ListUserGrievances(ctx context.Context, userID string) ([]Grievance, error) {
	var result struct {
		Grievances []Grievance `json:"grievances"`
	}
	if err := c.do(ctx, http.MethodGet, "/grievances/user/"+userID, nil, &result); err != nil {
		return nil, fmt.Errorf("grm: list grievances for %s: %w", userID, err)
	}
	return result.Grievances, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return ai.NewTransientError("request failed", 0, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apiError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// apiError converts a non-2xx response into a categorized error,
// preserving the upstream message when the body carries one.
func apiError(resp *http.Response) error {
	msg := fmt.Sprintf("unexpected status %d", resp.StatusCode)

	var errBody struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&errBody); err == nil {
		if errBody.Message != "" {
			msg = errBody.Message
		} else if errBody.Error != "" {
			msg = errBody.Error
		}
	}

	if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
		return ai.NewTransientError(msg, resp.StatusCode, nil)
	}
	return ai.NewPermanentError(msg, resp.StatusCode, nil)
}
