// Package rest implements the service gateways against the task backend's
// JSON REST API.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"phototask/internal/config"
	"phototask/internal/logging"
	"phototask/internal/service"
)

// UserAgent is sent with every request.
var UserAgent = "phototask/0.1.0"

// maxBodySize bounds how much of a response body is read.
const maxBodySize = 10 << 20

// Client implements service.Service over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
	log     *slog.Logger
}

var _ service.Service = (*Client)(nil)

// New creates a client for the backend configured in cfg.
func New(cfg *config.Config, log *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(cfg.APIURL, "/"),
		http:    &http.Client{Timeout: cfg.Timeout},
		log:     logging.OrDiscard(log),
	}
}

// NewWithHTTPClient creates a client with a custom HTTP client (for testing).
func NewWithHTTPClient(baseURL string, httpClient *http.Client, log *slog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		log:     logging.OrDiscard(log),
	}
}

// httpClientFor returns the client used for a call.
// With a token, requests go through an oauth2 transport that sets the
// bearer Authorization header on top of the base client.
func (c *Client) httpClientFor(ctx context.Context, token string) *http.Client {
	if token == "" {
		return c.http
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.http)
	hc := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: token,
		TokenType:   "Bearer",
	}))
	hc.Timeout = c.http.Timeout
	return hc
}

// do sends one request and returns the response body of a 2xx answer.
// Non-2xx answers become *service.Error via service.StatusError.
func (c *Client) do(ctx context.Context, op service.Op, token, method, path string, body io.Reader, contentType string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("X-Request-ID", requestID)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpClientFor(ctx, token).Do(req)
	if err != nil {
		c.log.Debug("request failed", "method", method, "path", path, "request_id", requestID, "error", err)
		return nil, service.NetworkError(op, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, service.NetworkError(op, err)
	}

	c.log.Debug("request", "method", method, "path", path, "status", resp.StatusCode, "request_id", requestID)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, service.StatusError(op, resp.StatusCode, data)
	}
	return data, nil
}

// doJSON sends payload as JSON.
func (c *Client) doJSON(ctx context.Context, op service.Op, token, method, path string, payload any) ([]byte, error) {
	var body io.Reader
	contentType := ""
	if payload != nil {
		buf, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(buf)
		contentType = "application/json"
	}
	return c.do(ctx, op, token, method, path, body, contentType)
}

// envelope is the {data: ...} wrapper used by the backend.
type envelope struct {
	Data json.RawMessage `json:"data"`
}

// payload returns the data member of body, or body itself when there is none.
func payload(body []byte) []byte {
	var env envelope
	if err := json.Unmarshal(body, &env); err == nil && hasValue(env.Data) {
		return env.Data
	}
	return body
}

// dataOnly returns the data member of body, or nil when there is none.
func dataOnly(body []byte) []byte {
	var env envelope
	if err := json.Unmarshal(body, &env); err == nil && hasValue(env.Data) {
		return env.Data
	}
	return nil
}

func hasValue(raw json.RawMessage) bool {
	s := strings.TrimSpace(string(raw))
	return s != "" && s != "null"
}

// decode unmarshals data into v, reporting malformed answers as
// unexpected responses.
func decode(op service.Op, data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return &service.Error{
			Kind:    service.KindUnexpectedResponse,
			Op:      op,
			Message: "the server sent an invalid response while trying to " + string(op),
			Details: string(data),
			Err:     err,
		}
	}
	return nil
}
