// Package rpcclient provides a JSON-RPC 2.0 client for Ethereum nodes with
// ordered failover across several endpoints.
package rpcclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	klog "github.com/Klingon-tech/ethwallet/internal/log"
	"github.com/sony/gobreaker"
	"go.uber.org/ratelimit"
)

// Defaults for New.
const (
	DefaultTimeout         = 30 * time.Second
	DefaultBreakerFailures = 5
	DefaultBreakerCooldown = 30 * time.Second

	maxResponseSize = 10 << 20
)

// ErrNoEndpoints is returned by Call on a client without endpoints.
var ErrNoEndpoints = errors.New("no rpc endpoints configured")

// errNoResult marks a response carrying neither result nor error.
var errNoResult = errors.New("no result in response")

// Client is a JSON-RPC 2.0 HTTP client. It is safe for concurrent use.
type Client struct {
	endpoints []*endpoint
	http      *http.Client
	limiter   ratelimit.Limiter
	nextID    atomic.Uint64
}

type endpoint struct {
	url string
	cb  *gobreaker.CircuitBreaker
}

type options struct {
	timeout         time.Duration
	rate            int
	breakerFailures uint32
	breakerCooldown time.Duration
	httpClient      *http.Client
}

// Option configures a Client.
type Option func(*options)

// WithTimeout sets the per-request HTTP timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// WithRateLimit caps outgoing requests at rps per second across all
// endpoints. Zero disables limiting.
func WithRateLimit(rps int) Option {
	return func(o *options) { o.rate = rps }
}

// WithBreaker sets how many consecutive failures open an endpoint's circuit
// breaker and how long it stays open before a trial request is allowed.
func WithBreaker(failures uint32, cooldown time.Duration) Option {
	return func(o *options) {
		o.breakerFailures = failures
		o.breakerCooldown = cooldown
	}
}

// WithHTTPClient replaces the underlying HTTP client. The timeout option is
// ignored when this is set.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.httpClient = c }
}

// New creates a client that tries endpoints in the given order.
func New(endpoints []string, opts ...Option) *Client {
	o := options{
		timeout:         DefaultTimeout,
		breakerFailures: DefaultBreakerFailures,
		breakerCooldown: DefaultBreakerCooldown,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.timeout <= 0 {
		o.timeout = DefaultTimeout
	}
	if o.breakerFailures == 0 {
		o.breakerFailures = DefaultBreakerFailures
	}

	c := &Client{http: o.httpClient}
	if c.http == nil {
		c.http = &http.Client{Timeout: o.timeout}
	}
	if o.rate > 0 {
		c.limiter = ratelimit.New(o.rate)
	} else {
		c.limiter = ratelimit.NewUnlimited()
	}

	for _, url := range endpoints {
		c.endpoints = append(c.endpoints, &endpoint{
			url: url,
			cb:  newCircuitBreaker(url, o.breakerFailures, o.breakerCooldown),
		})
	}
	return c
}

func newCircuitBreaker(name string, failures uint32, cooldown time.Duration) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    name,
		Timeout: cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			if to == gobreaker.StateOpen {
				klog.RPC.Warn().Str("endpoint", name).Msg("Endpoint circuit breaker opened")
			}
			if from == gobreaker.StateOpen && to == gobreaker.StateHalfOpen {
				klog.RPC.Debug().Str("endpoint", name).Msg("Endpoint circuit breaker half-open")
			}
			if from == gobreaker.StateHalfOpen && to == gobreaker.StateClosed {
				klog.RPC.Info().Str("endpoint", name).Msg("Endpoint circuit breaker closed")
			}
		},
	})
}

// Endpoints returns the configured endpoint URLs in failover order.
func (c *Client) Endpoints() []string {
	urls := make([]string, len(c.endpoints))
	for i, ep := range c.endpoints {
		urls[i] = ep.url
	}
	return urls
}

// request is a JSON-RPC 2.0 request.
type request struct {
	JSONRPC string      `json:"jsonrpc"`
	Method  string      `json:"method"`
	Params  interface{} `json:"params"`
	ID      uint64      `json:"id"`
}

// response is a JSON-RPC 2.0 response.
type response struct {
	JSONRPC string          `json:"jsonrpc"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
	ID      uint64          `json:"id"`
}

// rpcError is a JSON-RPC 2.0 error.
type rpcError struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// RPCError is returned when the server responds with an error.
type RPCError struct {
	Code    int
	Message string
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

// HTTPError is returned for a non-2xx HTTP status.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	if e.StatusCode == http.StatusTooManyRequests {
		return "rate limited (http 429)"
	}
	return fmt.Sprintf("http error %d: %s", e.StatusCode, e.Body)
}

// EndpointError records the failure of one endpoint.
type EndpointError struct {
	Endpoint string
	Err      error
}

func (e *EndpointError) Error() string {
	return fmt.Sprintf("%s: %v", e.Endpoint, e.Err)
}

func (e *EndpointError) Unwrap() error { return e.Err }

// AllEndpointsFailedError is returned when no endpoint produced a result.
// It unwraps to the last endpoint's error.
type AllEndpointsFailedError struct {
	Method   string
	Attempts []*EndpointError
}

func (e *AllEndpointsFailedError) Error() string {
	if len(e.Attempts) == 0 {
		return fmt.Sprintf("%s: all rpc endpoints failed", e.Method)
	}
	return fmt.Sprintf("%s: all %d rpc endpoints failed, last error: %v",
		e.Method, len(e.Attempts), e.Attempts[len(e.Attempts)-1])
}

func (e *AllEndpointsFailedError) Unwrap() error {
	if len(e.Attempts) == 0 {
		return nil
	}
	return e.Attempts[len(e.Attempts)-1]
}

// Call invokes a JSON-RPC method and unmarshals the result into the provided
// pointer. If result is nil, the response result is discarded. Endpoints are
// tried in order; the first one returning a result wins.
func (c *Client) Call(ctx context.Context, method string, params, result interface{}) error {
	if len(c.endpoints) == 0 {
		return ErrNoEndpoints
	}
	if params == nil {
		params = []interface{}{}
	}

	body, err := json.Marshal(request{
		JSONRPC: "2.0",
		Method:  method,
		Params:  params,
		ID:      c.nextID.Add(1),
	})
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	failed := &AllEndpointsFailedError{Method: method}
	for _, ep := range c.endpoints {
		if err := ctx.Err(); err != nil {
			return err
		}

		raw, err := c.callEndpoint(ctx, ep, body)
		if err == nil && result != nil {
			if err = json.Unmarshal(raw, result); err != nil {
				err = fmt.Errorf("decode result: %w", err)
			}
		}
		if err == nil {
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		klog.RPC.Debug().
			Str("endpoint", ep.url).
			Str("method", method).
			Err(err).
			Msg("RPC endpoint failed, trying next")
		failed.Attempts = append(failed.Attempts, &EndpointError{Endpoint: ep.url, Err: err})
	}

	klog.RPC.Warn().Str("method", method).Int("endpoints", len(c.endpoints)).Msg("All RPC endpoints failed")
	return failed
}

// callEndpoint performs one request. Transport-level failures are counted by
// the endpoint's breaker; a well-formed JSON-RPC error is not.
func (c *Client) callEndpoint(ctx context.Context, ep *endpoint, body []byte) (json.RawMessage, error) {
	out, err := ep.cb.Execute(func() (interface{}, error) {
		c.limiter.Take()
		return c.post(ctx, ep.url, body)
	})
	if err != nil {
		return nil, err
	}

	resp := out.(*response)
	if resp.Error != nil {
		return nil, &RPCError{Code: resp.Error.Code, Message: resp.Error.Message}
	}
	if len(resp.Result) == 0 || bytes.Equal(resp.Result, []byte("null")) {
		return nil, errNoResult
	}
	return resp.Result, nil
}

func (c *Client) post(ctx context.Context, url string, body []byte) (*response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &HTTPError{StatusCode: resp.StatusCode, Body: truncate(string(data), 200)}
	}

	var rpcResp response
	if err := json.Unmarshal(data, &rpcResp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &rpcResp, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
