// Package contactsdk is a minimal Contactline HTTP API client.
package contactsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// FallbackMessage is reported when the server gave no usable error body.
const FallbackMessage = "Failed to submit contact form. Please try again later."

// Client is a minimal Contactline HTTP API client.
type Client struct {
	BaseURL    string
	BasePath   string
	HTTPClient *http.Client
	Timeout    time.Duration
}

// New creates a client with sane defaults.
func New(baseURL string) *Client {
	return &Client{
		BaseURL:  baseURL,
		BasePath: "/api",
		Timeout:  10 * time.Second,
	}
}

// Submission mirrors the API request payload.
type Submission struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Subject string `json:"subject,omitempty"`
	Message string `json:"message"`
}

// Result is the server's acknowledgement of a submission.
type Result struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// APIError wraps transport failures and non-2xx responses. Message
// carries the server's error text when the body was parseable, else
// FallbackMessage.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error: status=%d message=%s", e.StatusCode, e.Message)
}

// Submit sends one contact request. It performs a single network call
// with no retry; the caller decides whether to try again.
func (c *Client) Submit(ctx context.Context, s Submission) (Result, error) {
	var resp Result
	err := c.do(ctx, http.MethodPost, "contact", s, &resp)
	return resp, err
}

// Health reports whether the server answers its health check.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "health", nil, nil)
}

func (c *Client) do(ctx context.Context, method, endpoint string, body any, out any) error {
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: c.Timeout}
	}
	url := c.base() + joinPath(c.BasePath, endpoint)
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, url, &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return &APIError{Message: FallbackMessage}
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		msg := FallbackMessage
		var payload struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(b, &payload) == nil && payload.Error != "" {
			msg = payload.Error
		}
		return &APIError{StatusCode: resp.StatusCode, Message: msg}
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

func joinPath(base, endpoint string) string {
	base = "/" + strings.Trim(base, "/")
	return base + "/" + strings.TrimLeft(endpoint, "/")
}

func (c *Client) base() string {
	return strings.TrimRight(c.BaseURL, "/")
}
