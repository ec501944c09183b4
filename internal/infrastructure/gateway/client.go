// Package gateway is the HTTP client of the SmartRide REST API. Every call
// goes through Client.do, which attaches the bearer credential, applies the
// timeout, classifies failures into *Error and records metrics.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/smartride/smartride-web/internal/pkg/metrics"
)

const (
	defaultTimeout       = 10 * time.Second
	defaultDriverTimeout = 5 * time.Second
	maxErrorBody         = 4 << 10
)

// TokenSource yields the credential to attach to outgoing calls. An empty
// token means the call is sent without an Authorization header.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// TokenFunc adapts a function to TokenSource.
type TokenFunc func(ctx context.Context) (string, error)

func (f TokenFunc) Token(ctx context.Context) (string, error) { return f(ctx) }

// Config captures the settings of the API client.
type Config struct {
	BaseURL string
	// Timeout bounds every call unless overridden. Defaults to 10s.
	Timeout time.Duration
	// DriverTimeout bounds the driver dashboard calls. Defaults to 5s.
	DriverTimeout time.Duration
	// HTTPClient replaces the default transport, mostly for tests.
	HTTPClient *http.Client
}

// Client calls the SmartRide REST API.
type Client struct {
	base          *url.URL
	http          *http.Client
	timeout       time.Duration
	driverTimeout time.Duration
	tokens        TokenSource
	log           zerolog.Logger
}

// New returns a Client. tokens may be nil, in which case no credential is
// ever attached.
func New(cfg Config, tokens TokenSource, log zerolog.Logger) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("gateway: parse base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("gateway: base url %q must be absolute", cfg.BaseURL)
	}

	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	driverTimeout := cfg.DriverTimeout
	if driverTimeout <= 0 {
		driverTimeout = defaultDriverTimeout
	}

	return &Client{
		base:          base,
		http:          hc,
		timeout:       timeout,
		driverTimeout: driverTimeout,
		tokens:        tokens,
		log:           log,
	}, nil
}

// call describes one API request.
type call struct {
	method string
	path   string
	// route is the path template used as metric label; defaults to path.
	route string
	body  any
	out   any
	// timeout overrides the client default when positive.
	timeout time.Duration
}

func (c call) endpoint() string {
	if c.route != "" {
		return c.method + " " + c.route
	}
	return c.method + " " + c.path
}

func (c *Client) do(ctx context.Context, rc call) error {
	endpoint := rc.endpoint()
	start := time.Now()

	err := c.roundTrip(ctx, rc)

	metrics.APIRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	metrics.APIRequestsTotal.WithLabelValues(endpoint, outcome(err)).Inc()
	if err != nil {
		c.log.Debug().Err(err).Str("endpoint", endpoint).Msg("api call failed")
	}
	return err
}

func (c *Client) roundTrip(ctx context.Context, rc call) error {
	endpoint := rc.endpoint()
	timeout := c.timeout
	if rc.timeout > 0 {
		timeout = rc.timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var body io.Reader
	if rc.body != nil {
		raw, err := json.Marshal(rc.body)
		if err != nil {
			return &Error{Kind: KindRequest, Endpoint: endpoint, Message: "Could not encode request", Err: err}
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, rc.method, c.base.String()+rc.path, body)
	if err != nil {
		return &Error{Kind: KindRequest, Endpoint: endpoint, Message: "Could not build request", Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	token, err := c.credential(ctx)
	if err != nil {
		return &Error{Kind: KindRequest, Endpoint: endpoint, Message: "Could not read session", Err: err}
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &Error{Kind: KindNetwork, Endpoint: endpoint, Message: NetworkMessage, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &Error{
			Kind:     KindServer,
			Endpoint: endpoint,
			Status:   resp.StatusCode,
			Message:  extractMessage(resp.StatusCode, raw),
		}
	}

	if rc.out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Kind: KindNetwork, Endpoint: endpoint, Message: NetworkMessage, Err: err}
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, rc.out); err != nil {
		return &Error{
			Kind:     KindServer,
			Endpoint: endpoint,
			Status:   resp.StatusCode,
			Message:  "Unexpected response from server",
			Err:      err,
		}
	}
	return nil
}

func (c *Client) credential(ctx context.Context) (string, error) {
	if c.tokens == nil {
		return "", nil
	}
	return c.tokens.Token(ctx)
}

// extractMessage picks the user-facing text of an error response: the JSON
// "message" or "error" field, else a short plain-text body, else the status
// text.
func extractMessage(status int, raw []byte) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		var body struct {
			Message string `json:"message"`
			Error   string `json:"error"`
		}
		if err := json.Unmarshal(trimmed, &body); err == nil {
			if body.Message != "" {
				return body.Message
			}
			if body.Error != "" {
				return body.Error
			}
		}
		return http.StatusText(status)
	}
	if len(trimmed) > 0 && !bytes.HasPrefix(trimmed, []byte("<")) {
		return string(trimmed)
	}
	if text := http.StatusText(status); text != "" {
		return text
	}
	return fmt.Sprintf("Request failed with status %d", status)
}

func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	var ge *Error
	if !errors.As(err, &ge) {
		return "request_error"
	}
	switch ge.Kind {
	case KindServer:
		return "server_error"
	case KindNetwork:
		return "network_error"
	default:
		return "request_error"
	}
}
