package internal

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Transport owns one authenticated channel to the API server. It attaches
// headers, issues requests, and classifies failures into the typed error
// set. It performs no retries; each call maps to exactly one HTTP request.
//
// The configured timeout bounds each buffered request end to end, but a
// streaming response is bounded only up to the response headers; the body
// stays open as long as the consumer keeps reading.
type Transport struct {
	baseURL    string
	apiURL     string // host-level URL, used in connectivity error messages
	userAgent  string
	authToken  string
	timeout    time.Duration
	httpClient *http.Client
}

// OpenTransport builds a channel bound to the configured base URL and
// timeout. The stored API key, when readable, becomes the Bearer token;
// a credential store failure yields an anonymous channel.
func OpenTransport(cfg *Config, creds CredentialStore) *Transport {
	token, _ := creds.APIKey()
	rt := http.DefaultTransport.(*http.Transport).Clone()
	rt.ResponseHeaderTimeout = cfg.RequestTimeout()
	return &Transport{
		baseURL:    cfg.BaseURL(),
		apiURL:     cfg.APIURL,
		userAgent:  cfg.UserAgent(),
		authToken:  token,
		timeout:    cfg.RequestTimeout(),
		httpClient: &http.Client{Transport: rt},
	}
}

// Close releases the channel. The transport must not be used afterwards.
func (t *Transport) Close() {
	t.httpClient.CloseIdleConnections()
}

// SetAuthToken swaps the Bearer token for subsequent requests on this
// channel. Used when a key is acquired mid-session (login).
func (t *Transport) SetAuthToken(token string) {
	t.authToken = token
}

func (t *Transport) endpoint(path string, query url.Values) string {
	endpoint := strings.TrimRight(t.baseURL, "/") + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	return endpoint
}

func (t *Transport) applyHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", t.userAgent)
	if t.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+t.authToken)
	}
}

// classifyNetError maps connection-level failures onto the error taxonomy
func (t *Transport) classifyNetError(err error) error {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &TimeoutError{Err: err}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &TimeoutError{Err: err}
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	return &UnreachableError{Target: t.apiURL, Err: err}
}

// errorEnvelope is the body shape the server uses for error responses
type errorEnvelope struct {
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details"`
}

// Request issues one API request. On success the JSON body is decoded into
// out when out is non-nil; an empty body leaves out untouched (the empty
// structured result). Non-success statuses become typed errors.
func (t *Transport) Request(ctx context.Context, method, path string, body interface{}, query url.Values, out interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, t.endpoint(path, query), reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	t.applyHeaders(req)

	LogDebug("%s %s", method, path)
	resp, err := t.httpClient.Do(req)
	if err != nil {
		return t.classifyNetError(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return t.classifyNetError(err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return &UnauthenticatedError{Message: "authentication required: run 'powerha-copilot login' first"}
	case resp.StatusCode == http.StatusForbidden:
		return &ForbiddenError{Message: "access denied: check your permissions"}
	case resp.StatusCode >= 400:
		reqErr := &RequestError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("request failed: %d", resp.StatusCode),
		}
		if len(data) > 0 {
			var envelope errorEnvelope
			if jsonErr := json.Unmarshal(data, &envelope); jsonErr == nil {
				if envelope.Message != "" {
					reqErr.Message = envelope.Message
				}
				reqErr.Details = envelope.Details
			}
		}
		return reqErr
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// RequestStream issues a request whose response is consumed incrementally.
// The timeout covers connection and response headers only; once fragments
// flow, the stream lives as long as the server keeps sending and the
// consumer keeps reading. The returned Stream owns the response body; the
// caller must Close it.
func (t *Transport) RequestStream(ctx context.Context, method, path string, body interface{}) (*Stream, error) {
	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, t.endpoint(path, nil), reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	t.applyHeaders(req)
	req.Header.Set("Accept", "text/event-stream")

	LogDebug("%s %s (streaming)", method, path)
	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, t.classifyNetError(err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, &StreamError{StatusCode: resp.StatusCode}
	}
	stream := NewStream(resp.Body)
	stream.classify = t.classifyNetError
	return stream, nil
}
