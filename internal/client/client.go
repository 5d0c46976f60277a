// Package client talks to the site content API.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/hairbystephanie/site/backend/go-services/internal/content"
)

// DefaultBaseURL is used when no base URL is configured.
const DefaultBaseURL = "http://localhost:8000"

var (
	// ErrUnreachable wraps transport failures: refused connections, DNS, timeouts.
	ErrUnreachable = errors.New("content API unreachable")
	// ErrUnauthorized is returned by Login for any non-2xx answer.
	ErrUnauthorized = errors.New("login rejected")
	// ErrMalformed is returned when a 2xx body is not a content document.
	ErrMalformed = errors.New("malformed content document")
)

// StatusError is a non-2xx answer from the API.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s %s: %d", e.Method, e.Path, e.StatusCode)
}

// Client is a thin typed wrapper over the content API.
type Client struct {
	baseURL string
	http    *resty.Client
}

// Option configures a Client.
type Option func(*resty.Client)

// WithTimeout bounds every request; zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *resty.Client) {
		if d > 0 {
			c.SetTimeout(d)
		}
	}
}

// WithDebug logs requests and responses through resty.
func WithDebug(debug bool) Option {
	return func(c *resty.Client) { c.SetDebug(debug) }
}

// New returns a client for baseURL (DefaultBaseURL when empty).
func New(baseURL string, opts ...Option) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	rc := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Accept", "application/json").
		SetRetryCount(0)
	for _, o := range opts {
		o(rc)
	}
	return &Client{baseURL: baseURL, http: rc}
}

// BaseURL returns the API root the client targets.
func (c *Client) BaseURL() string { return c.baseURL }

type apiError struct {
	Error  string `json:"error"`
	Detail string `json:"detail"`
}

// do sends one request; out may be nil.
func (c *Client) do(ctx context.Context, method, path, token string, body, out interface{}) error {
	_, err := c.send(ctx, method, path, token, body, out)
	return err
}

// send is do that also hands back the response for callers decoding the
// body themselves.
func (c *Client) send(ctx context.Context, method, path, token string, body, out interface{}) (*resty.Response, error) {
	req := c.http.R().SetContext(ctx).SetError(&apiError{})
	if token != "" {
		req.SetAuthToken(token)
	}
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}
	if out != nil {
		req.SetResult(out)
	}
	resp, err := req.Execute(method, path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %w", ErrUnreachable, method, path, err)
	}
	if !resp.IsSuccess() {
		se := &StatusError{Method: method, Path: path, StatusCode: resp.StatusCode()}
		if ae, ok := resp.Error().(*apiError); ok && ae != nil {
			se.Message = ae.Error
			if se.Message == "" {
				se.Message = ae.Detail
			}
		}
		return resp, se
	}
	return resp, nil
}

// GetContent fetches the public content document.
func (c *Client) GetContent(ctx context.Context) (*content.Document, error) {
	resp, err := c.send(ctx, http.MethodGet, "/content", "", nil, nil)
	if err != nil {
		return nil, err
	}
	return decodeDocument(http.MethodGet, "/content", resp)
}

// decodeDocument parses the body regardless of its Content-Type. A body
// that is not a JSON object (an HTML error page, null) is ErrMalformed.
func decodeDocument(method, path string, resp *resty.Response) (*content.Document, error) {
	var doc *content.Document
	if err := json.Unmarshal(resp.Body(), &doc); err != nil {
		return nil, fmt.Errorf("%w: %s %s: %w", ErrMalformed, method, path, err)
	}
	if doc == nil {
		return nil, fmt.Errorf("%w: %s %s: empty body", ErrMalformed, method, path)
	}
	if doc.Services == nil {
		doc.Services = []content.Service{}
	}
	return doc, nil
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Login exchanges credentials for a bearer token. Transport failures wrap
// ErrUnreachable; every non-2xx answer wraps ErrUnauthorized.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	var out loginResponse
	err := c.do(ctx, http.MethodPost, "/login", "", loginRequest{Username: username, Password: password}, &out)
	if err != nil {
		var se *StatusError
		if errors.As(err, &se) {
			return "", fmt.Errorf("%w: %w", ErrUnauthorized, se)
		}
		return "", err
	}
	if out.AccessToken == "" {
		return "", fmt.Errorf("%w: response carried no access token", ErrUnauthorized)
	}
	return out.AccessToken, nil
}

type fieldUpdate struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// UpdateField writes one scalar field.
func (c *Client) UpdateField(ctx context.Context, token, key, value string) error {
	return c.do(ctx, http.MethodPut, "/content", token, fieldUpdate{Key: key, Value: value}, nil)
}

type servicesUpdate struct {
	Services []content.Service `json:"services"`
}

// UpdateServices replaces the whole services list.
func (c *Client) UpdateServices(ctx context.Context, token string, services []content.Service) error {
	return c.do(ctx, http.MethodPut, "/services", token, servicesUpdate{Services: content.CloneServices(services)}, nil)
}

// ReplaceDocument writes the whole document in one request and returns
// what the server stored.
func (c *Client) ReplaceDocument(ctx context.Context, token string, doc *content.Document) (*content.Document, error) {
	resp, err := c.send(ctx, http.MethodPut, "/content/document", token, doc.Clone(), nil)
	if err != nil {
		return nil, err
	}
	return decodeDocument(http.MethodPut, "/content/document", resp)
}

// Me returns the username the token belongs to.
func (c *Client) Me(ctx context.Context, token string) (string, error) {
	var out struct {
		Username string `json:"username"`
	}
	if err := c.do(ctx, http.MethodGet, "/me", token, nil, &out); err != nil {
		return "", err
	}
	return out.Username, nil
}

// Logout asks the server to revoke token.
func (c *Client) Logout(ctx context.Context, token string) error {
	return c.do(ctx, http.MethodPost, "/logout", token, nil, nil)
}
