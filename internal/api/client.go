package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"library-lending/internal/domain"
)

const (
	DefaultBaseURL = "http://localhost:8080/api"
	DefaultTimeout = 10 * time.Second
)

// Request describe una llamada relativa a la URL base.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   any
}

// Response es una respuesta 2xx ya decodificada.
type Response struct {
	Status   int
	Header   http.Header
	Envelope *domain.Envelope
}

// Client es el unico cliente HTTP del sistema: URL base y timeout fijos, y
// toda request pasa por la cadena de interceptores.
type Client struct {
	baseURL       string
	client        *http.Client
	logger        *zap.Logger
	requestHooks  []RequestInterceptor
	responseHooks []ResponseInterceptor
}

type Option func(*Client)

// WithHTTPClient reemplaza el *http.Client (el timeout se respeta si el dado no tiene).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc == nil {
			return
		}
		if hc.Timeout == 0 {
			hc.Timeout = c.client.Timeout
		}
		c.client = hc
	}
}

func WithRequestInterceptor(ri RequestInterceptor) Option {
	return func(c *Client) {
		if ri != nil {
			c.requestHooks = append(c.requestHooks, ri)
		}
	}
}

func WithResponseInterceptor(ri ResponseInterceptor) Option {
	return func(c *Client) {
		if ri != nil {
			c.responseHooks = append(c.responseHooks, ri)
		}
	}
}

// NewClient construye el cliente apuntando a baseURL (incluye el prefijo /api).
func NewClient(baseURL string, timeout time.Duration, logger *zap.Logger, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL devuelve la URL base normalizada.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do ejecuta la request y devuelve la respuesta exitosa o un *Error.
func (c *Client) Do(ctx context.Context, r Request) (*Response, error) {
	start := time.Now()
	req, err := c.newRequest(ctx, r)
	if err != nil {
		return nil, c.reject(ctx, newUnexpectedError(err))
	}
	for _, hook := range c.requestHooks {
		if err := hook(ctx, req); err != nil {
			return nil, c.reject(ctx, newUnexpectedError(fmt.Errorf("request interceptor: %w", err)))
		}
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Warn("api request failed",
			zap.String("method", req.Method),
			zap.String("path", r.Path),
			zap.Duration("latency", time.Since(start)),
			zap.Error(err),
		)
		return nil, c.reject(ctx, newNetworkError(err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.reject(ctx, newNetworkError(fmt.Errorf("read response: %w", err)))
	}

	c.logger.Debug("api request",
		zap.String("method", req.Method),
		zap.String("path", r.Path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
		zap.String("request_id", req.Header.Get("X-Request-ID")),
	)

	env, decodeErr := decodeEnvelope(body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, c.reject(ctx, newStatusError(resp.StatusCode, env))
	}
	if decodeErr != nil {
		return nil, c.reject(ctx, newUnexpectedError(decodeErr))
	}

	out := &Response{Status: resp.StatusCode, Header: resp.Header, Envelope: env}
	for _, hook := range c.responseHooks {
		if err := hook.Fulfilled(ctx, out); err != nil {
			c.logger.Warn("api business failure",
				zap.String("path", r.Path),
				zap.Int("status", resp.StatusCode),
				zap.Error(err),
			)
			return nil, err
		}
	}
	if env != nil && !env.Success {
		return nil, newBusinessError(resp.StatusCode, env)
	}
	return out, nil
}

// Request es la forma corta de Do que devuelve el envelope.
func (c *Client) Request(ctx context.Context, method, path string, body any, query url.Values) (*domain.Envelope, error) {
	resp, err := c.Do(ctx, Request{Method: method, Path: path, Body: body, Query: query})
	if err != nil {
		return nil, err
	}
	if resp.Envelope == nil {
		return &domain.Envelope{Success: true}, nil
	}
	return resp.Envelope, nil
}

// Call ejecuta la request y decodifica envelope.data en T.
func Call[T any](ctx context.Context, c *Client, r Request) (T, error) {
	var out T
	resp, err := c.Do(ctx, r)
	if err != nil {
		return out, err
	}
	if resp.Envelope == nil || !resp.Envelope.HasData() {
		return out, nil
	}
	if err := json.Unmarshal(resp.Envelope.Data, &out); err != nil {
		return out, c.reject(ctx, newUnexpectedError(fmt.Errorf("decode %s data: %w", r.Path, err)))
	}
	return out, nil
}

func (c *Client) newRequest(ctx context.Context, r Request) (*http.Request, error) {
	method := r.Method
	if method == "" {
		method = http.MethodGet
	}
	target := c.baseURL + "/" + strings.TrimLeft(r.Path, "/")
	if len(r.Query) > 0 {
		target += "?" + r.Query.Encode()
	}

	var body io.Reader
	if r.Body != nil {
		payload, err := json.Marshal(r.Body)
		if err != nil {
			return nil, fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if r.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// reject pasa el fallo por la cadena de interceptores.
func (c *Client) reject(ctx context.Context, apiErr *Error) error {
	for _, hook := range c.responseHooks {
		if next := hook.Rejected(ctx, apiErr); next != nil {
			apiErr = next
		}
	}
	return apiErr
}

func decodeEnvelope(body []byte) (*domain.Envelope, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}
	var env domain.Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}
	return &env, nil
}

// IsTimeout indica si el fallo de red fue por el timeout del cliente.
func IsTimeout(err error) bool {
	var netErr interface{ Timeout() bool }
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}
	return errors.Is(err, context.DeadlineExceeded)
}
