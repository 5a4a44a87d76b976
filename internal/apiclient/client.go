// Package apiclient is the HTTP client for the activities backend.
// It covers the three calls the roster view makes and reports every failure
// as either a *TransportError or an *ApplicationError.
package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"

	"github.com/pkordes/activity-roster/internal/domain"
)

// RequestIDHeader carries the caller's request ID to the backend.
const RequestIDHeader = "X-Request-Id"

// Client talks to the activities backend rooted at a base URL.
type Client struct {
	base string
	http *http.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithTimeout bounds each request. Zero, the default, means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// New constructs a Client for the backend at baseURL (scheme and host, with an
// optional path prefix).
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("apiclient.New: parse base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("apiclient.New: base url %q must include scheme and host", baseURL)
	}
	c := &Client{
		base: strings.TrimRight(u.String(), "/"),
		http: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// ListActivities fetches the full roster, keeping the server's key order.
func (c *Client) ListActivities(ctx context.Context) (domain.Roster, error) {
	const op = "Client.ListActivities"

	status, body, err := c.do(ctx, http.MethodGet, c.base+"/activities")
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	if !isSuccess(status) {
		return nil, &ApplicationError{Op: op, Status: status, Detail: detailOf(body)}
	}

	r, err := decodeRoster(body)
	if err != nil {
		return nil, &TransportError{Op: op, Err: err}
	}
	return r, nil
}

// Signup adds email to activity and returns the server's confirmation message.
func (c *Client) Signup(ctx context.Context, activity, email string) (string, error) {
	return c.mutate(ctx, "Client.Signup", activity, "signup", email)
}

// Unregister removes email from activity and returns the server's message.
func (c *Client) Unregister(ctx context.Context, activity, email string) (string, error) {
	return c.mutate(ctx, "Client.Unregister", activity, "unregister", email)
}

// mutate issues POST /activities/{activity}/{action}?email={email}.
// A non-JSON body counts as a transport failure whatever the status.
func (c *Client) mutate(ctx context.Context, op, activity, action, email string) (string, error) {
	target := c.base + "/activities/" + url.PathEscape(activity) + "/" + action +
		"?email=" + url.QueryEscape(email)

	status, body, err := c.do(ctx, http.MethodPost, target)
	if err != nil {
		return "", &TransportError{Op: op, Err: err}
	}
	if !gjson.ValidBytes(body) {
		return "", &TransportError{Op: op, Err: errMalformed}
	}
	if !isSuccess(status) {
		return "", &ApplicationError{Op: op, Status: status, Detail: detailOf(body)}
	}
	return gjson.GetBytes(body, "message").String(), nil
}

// do sends one request and reads the whole body.
func (c *Client) do(ctx context.Context, method, target string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, target, nil)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(RequestIDHeader, requestID(ctx))

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("read body: %w", err)
	}
	return resp.StatusCode, body, nil
}

// decodeRoster walks the top-level object in document order. Each value must
// be an object carrying a participants array.
func decodeRoster(body []byte) (domain.Roster, error) {
	if !gjson.ValidBytes(body) {
		return nil, errMalformed
	}
	doc := gjson.ParseBytes(body)
	if !doc.IsObject() {
		return nil, fmt.Errorf("%w: expected an object", errMalformed)
	}

	r := domain.Roster{}
	var decodeErr error
	doc.ForEach(func(key, value gjson.Result) bool {
		if !value.IsObject() || !value.Get("participants").IsArray() {
			decodeErr = fmt.Errorf("%w: activity %q has no participants list", errMalformed, key.String())
			return false
		}
		var a domain.Activity
		if err := json.Unmarshal([]byte(value.Raw), &a); err != nil {
			decodeErr = fmt.Errorf("%w: activity %q: %v", errMalformed, key.String(), err)
			return false
		}
		a.Name = key.String()
		r = append(r, a)
		return true
	})
	if decodeErr != nil {
		return nil, decodeErr
	}
	return r, nil
}

// detailOf returns the "detail" string of an error body, or "" when absent or
// not a string.
func detailOf(body []byte) string {
	d := gjson.GetBytes(body, "detail")
	if d.Type != gjson.String {
		return ""
	}
	return d.String()
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}

// requestID reuses chi's request ID when the call originates from an HTTP
// handler, and mints a fresh one otherwise.
func requestID(ctx context.Context) string {
	if id := chimiddleware.GetReqID(ctx); id != "" {
		return id
	}
	return uuid.NewString()
}
