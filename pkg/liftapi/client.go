// Package liftapi is a typed client for the liftsync REST API.
package liftapi

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

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
)

const DefaultBaseURL = "http://localhost:5000/api"

var (
	// ErrInvalidPayload is returned when a response or request body fails
	// validation.
	ErrInvalidPayload = errors.New("invalid payload")
	ErrMissingID      = errors.New("id required")
)

// Error is a non-2xx response from the API.
type Error struct {
	Method     string
	Path       string
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s: %d: %s", e.Method, e.Path, e.StatusCode, e.Message)
}

// IsStatus reports whether err is an *Error with the given status code.
func IsStatus(err error, code int) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.StatusCode == code
}

type Client struct {
	http     *http.Client
	baseURL  *url.URL
	token    string
	timeout  time.Duration
	log      zerolog.Logger
	validate *validator.Validate
	optErr   error
}

type Option func(*Client)

func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

func WithBaseURL(raw string) Option {
	return func(c *Client) {
		u, err := url.Parse(strings.TrimRight(raw, "/"))
		if err != nil {
			c.optErr = fmt.Errorf("invalid base url: %w", err)
			return
		}
		c.baseURL = u
	}
}

// WithToken attaches token as a bearer credential to every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.log = l }
}

func New(opts ...Option) (*Client, error) {
	u, _ := url.Parse(DefaultBaseURL)
	c := &Client{
		http:     http.DefaultClient,
		baseURL:  u,
		timeout:  15 * time.Second,
		log:      zerolog.Nop(),
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
	for _, o := range opts {
		o(c)
	}
	if c.optErr != nil {
		return nil, c.optErr
	}
	if c.baseURL.Scheme == "" || c.baseURL.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", c.baseURL)
	}

	hc := *c.http
	if c.timeout > 0 {
		hc.Timeout = c.timeout
	}
	if c.token != "" {
		hc.Transport = &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: c.token}),
			Base:   c.http.Transport,
		}
	}
	c.http = &hc
	return c, nil
}

// envelope is the response wrapper every endpoint uses.
type envelope[T any] struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message,omitempty"`
	Data       T           `json:"data"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

type listEnvelope[T any] struct {
	Success    bool        `json:"success"`
	Message    string      `json:"message,omitempty"`
	Data       []T         `json:"data" validate:"dive"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

func (c *Client) newReq(ctx context.Context, method, p string, q url.Values, reqBody any) (*http.Request, error) {
	u := c.baseURL.JoinPath(p)
	if len(q) > 0 {
		u.RawQuery = q.Encode()
	}

	var body io.Reader
	if reqBody != nil {
		if err := c.validate.Struct(reqBody); err != nil {
			return nil, fmt.Errorf("%w: %s %s: %v", ErrInvalidPayload, method, p, err)
		}
		b, err := json.Marshal(reqBody)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, err
	}
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	return req, nil
}

// doJSON performs one request and decodes the envelope into dst. dst may be
// nil for calls whose body carries nothing of interest.
func (c *Client) doJSON(ctx context.Context, method, p string, q url.Values, reqBody any, dst any) error {
	req, err := c.newReq(ctx, method, p, q, reqBody)
	if err != nil {
		return err
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, p, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	c.log.Debug().
		Str("method", method).
		Str("path", p).
		Int("status", resp.StatusCode).
		Str("request_id", req.Header.Get("X-Request-ID")).
		Dur("elapsed", time.Since(start)).
		Msg("api request")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &Error{
			Method:     method,
			Path:       p,
			StatusCode: resp.StatusCode,
			Message:    errorMessage(resp),
		}
	}
	if dst == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, p, err)
	}
	if err := c.validate.Struct(dst); err != nil {
		return fmt.Errorf("%w: %s %s: %v", ErrInvalidPayload, method, p, err)
	}
	return nil
}

func errorMessage(resp *http.Response) string {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 8<<10))
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(raw, &body) == nil {
		if body.Message != "" {
			return body.Message
		}
		if body.Error != "" {
			return body.Error
		}
	}
	if text := strings.TrimSpace(string(raw)); text != "" {
		return text
	}
	return resp.Status
}

func getList[T any](ctx context.Context, c *Client, p string, q url.Values) ([]T, *Pagination, error) {
	var env listEnvelope[T]
	if err := c.doJSON(ctx, http.MethodGet, p, q, nil, &env); err != nil {
		return nil, nil, err
	}
	if env.Data == nil {
		env.Data = []T{}
	}
	return env.Data, env.Pagination, nil
}

func getItem[T any](ctx context.Context, c *Client, method, p string, q url.Values, reqBody any) (T, error) {
	var env envelope[T]
	if err := c.doJSON(ctx, method, p, q, reqBody, &env); err != nil {
		var zero T
		return zero, err
	}
	return env.Data, nil
}

func escape(id string) (string, error) {
	if strings.TrimSpace(id) == "" {
		return "", ErrMissingID
	}
	return url.PathEscape(id), nil
}
