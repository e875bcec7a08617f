// Package instagram publishes enhanced photos through the Instagram Graph
// API content publishing endpoints. Publishing is asynchronous: a media
// container is created from a public image URL, polled until Instagram has
// fetched and processed it, then published. The polling loop itself lives
// in the edit package; this client only performs the individual calls.
package instagram

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/fpang/venue-enhance/internal/edit"
	"github.com/fpang/venue-enhance/internal/jsonutil"
)

const (
	defaultBaseURL = "https://graph.instagram.com/v22.0"
	defaultTimeout = 30 * time.Second
)

// Client performs Graph API calls for one Instagram professional account.
// It satisfies edit.Publisher.
type Client struct {
	httpClient  *http.Client
	accessToken string
	userID      string
	baseURL     string
}

// Option customises a Client.
type Option func(*Client)

// WithBaseURL points the client at another Graph API host.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithHTTPClient replaces the default 30s-timeout HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.httpClient = h }
}

// NewClient creates a client. accessToken and userID usually come from SSM
// at cold start.
func NewClient(accessToken, userID string, opts ...Option) *Client {
	c := &Client{
		httpClient:  &http.Client{Timeout: defaultTimeout},
		accessToken: accessToken,
		userID:      userID,
		baseURL:     defaultBaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type apiResponse struct {
	ID    string  `json:"id"`
	Error *apiErr `json:"error,omitempty"`
}

type apiErr struct {
	Message   string `json:"message"`
	Type      string `json:"type"`
	Code      int    `json:"code"`
	FBTraceID string `json:"fbtrace_id,omitempty"`
}

// containerStatusResponse is GET /{container_id}?fields=status_code,status.
type containerStatusResponse struct {
	ID         string  `json:"id"`
	StatusCode string  `json:"status_code"`
	Status     string  `json:"status,omitempty"`
	Error      *apiErr `json:"error,omitempty"`
}

// CreateContainer creates a single-image container. imageURL must be
// publicly fetchable, e.g. a presigned S3 GET URL.
func (c *Client) CreateContainer(ctx context.Context, imageURL, caption string) (string, error) {
	params := url.Values{
		"image_url":    {imageURL},
		"access_token": {c.accessToken},
	}
	if caption != "" {
		params.Set("caption", caption)
	}

	var resp apiResponse
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/%s/media", c.userID), params, &resp); err != nil {
		return "", fmt.Errorf("create image container: %w", err)
	}
	if resp.ID == "" {
		return "", fmt.Errorf("create image container: %w", &edit.ProviderError{Message: "no container ID returned"})
	}
	log.Info().Str("containerId", resp.ID).Msg("Image container created")
	return resp.ID, nil
}

// ContainerStatus returns the container's status_code. For ERROR the
// human-readable status text is returned as Message.
func (c *Client) ContainerStatus(ctx context.Context, containerID string) (edit.ContainerStatus, error) {
	params := url.Values{
		"fields":       {"status_code,status"},
		"access_token": {c.accessToken},
	}
	var resp containerStatusResponse
	if err := c.do(ctx, http.MethodGet, "/"+containerID, params, &resp); err != nil {
		return edit.ContainerStatus{}, fmt.Errorf("container status: %w", err)
	}
	return edit.ContainerStatus{Code: resp.StatusCode, Message: resp.Status}, nil
}

// Publish publishes a finished container and returns the media ID.
func (c *Client) Publish(ctx context.Context, containerID string) (string, error) {
	params := url.Values{
		"creation_id":  {containerID},
		"access_token": {c.accessToken},
	}
	var resp apiResponse
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/%s/media_publish", c.userID), params, &resp); err != nil {
		return "", fmt.Errorf("publish container %s: %w", containerID, err)
	}
	if resp.ID == "" {
		return "", fmt.Errorf("publish container %s: %w", containerID, &edit.ProviderError{Message: "no media ID returned"})
	}
	log.Info().Str("containerId", containerID).Str("mediaId", resp.ID).Msg("Container published")
	return resp.ID, nil
}

// do sends one request. POST parameters are form-encoded; GET parameters go
// in the query string. Graph API errors become *edit.ProviderError carrying
// the HTTP status.
func (c *Client) do(ctx context.Context, method, endpoint string, params url.Values, out any) error {
	start := time.Now()

	var (
		req *http.Request
		err error
	)
	if method == http.MethodGet {
		req, err = http.NewRequestWithContext(ctx, method, c.baseURL+endpoint+"?"+params.Encode(), nil)
	} else {
		req, err = http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, strings.NewReader(params.Encode()))
		if req != nil {
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		}
	}
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}

	log.Debug().Str("method", method).Str("path", endpoint).Msg("Instagram API request")
	httpResp, err := c.httpClient.Do(req)
	duration := time.Since(start)
	if err != nil {
		log.Debug().Dur("duration", duration).Err(err).Msg("Instagram API request failed")
		return fmt.Errorf("request failed: %w", err)
	}
	defer httpResp.Body.Close()
	log.Debug().Int("statusCode", httpResp.StatusCode).Dur("duration", duration).Msg("Instagram API response")

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	var envelope struct {
		Error *apiErr `json:"error"`
	}
	_ = json.Unmarshal(body, &envelope)
	if envelope.Error != nil || httpResp.StatusCode >= 400 {
		return apiError(httpResp.StatusCode, envelope.Error, body)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("parse response: %w (body: %s)", err, jsonutil.Truncate(string(body), 200))
	}
	return nil
}

func apiError(status int, e *apiErr, body []byte) error {
	if e == nil {
		return &edit.ProviderError{StatusCode: status, Message: jsonutil.Truncate(string(body), 200)}
	}
	log.Error().
		Int("statusCode", status).
		Str("errorMessage", e.Message).
		Str("errorType", e.Type).
		Int("errorCode", e.Code).
		Str("fbtraceId", e.FBTraceID).
		Msg("Instagram API error")
	if status < 400 {
		status = http.StatusBadRequest
	}
	return &edit.ProviderError{StatusCode: status, Message: e.Message}
}
