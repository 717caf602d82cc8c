package a2a

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"
	"time"
)

var _ Client = (*HTTPClient)(nil)

// defaultClientTimeout applies when no WithTimeout or WithHTTPClient option
// is given.
const defaultClientTimeout = 30 * time.Second

// HTTPClient talks JSON-RPC to an A2A endpoint over plain HTTP POST. The
// MCP bridge uses it to reach the mock server it runs next to. It is safe
// for concurrent use.
type HTTPClient struct {
	http   *http.Client
	lastID atomic.Int64
}

// ClientOption customises NewHTTPClient.
type ClientOption func(*HTTPClient)

// WithTimeout bounds each round trip, including reading the response body.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *HTTPClient) { c.http.Timeout = d }
}

// WithHTTPClient swaps in hc, e.g. an httptest server's client. Options are
// applied in order, so a later WithTimeout changes hc's timeout.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *HTTPClient) { c.http = hc }
}

func NewHTTPClient(opts ...ClientOption) *HTTPClient {
	c := &HTTPClient{http: &http.Client{Timeout: defaultClientTimeout}}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *HTTPClient) SendMessage(ctx context.Context, endpoint string, req SendMessageRequest) (*Task, error) {
	return callTask(ctx, c, endpoint, MethodSendMessage, req)
}

func (c *HTTPClient) GetTask(ctx context.Context, endpoint string, req GetTaskRequest) (*Task, error) {
	return callTask(ctx, c, endpoint, MethodGetTask, req)
}

func (c *HTTPClient) CancelTask(ctx context.Context, endpoint string, req CancelTaskRequest) (*Task, error) {
	return callTask(ctx, c, endpoint, MethodCancelTask, req)
}

func (c *HTTPClient) ListTasks(ctx context.Context, endpoint string, req ListTasksRequest) (*ListTasksResponse, error) {
	var page ListTasksResponse
	if err := c.call(ctx, endpoint, MethodListTasks, req, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func callTask(ctx context.Context, c *HTTPClient, endpoint, method string, params any) (*Task, error) {
	var task Task
	if err := c.call(ctx, endpoint, method, params, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// DiscoverAgent GETs the card published under baseURL. Anything but a 200 is
// an error carrying the response body.
func (c *HTTPClient) DiscoverAgent(ctx context.Context, baseURL string) (*AgentCard, error) {
	cardURL := strings.TrimRight(baseURL, "/") + AgentCardPath

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, cardURL, nil)
	if err != nil {
		return nil, fmt.Errorf("a2a: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	status, body, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("a2a: discover agent: %w", err)
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("a2a: discover agent: HTTP %d: %s", status, body)
	}

	var card AgentCard
	if err := json.Unmarshal(body, &card); err != nil {
		return nil, fmt.Errorf("a2a: decode agent card: %w", err)
	}
	return &card, nil
}

// call sends one request and decodes its result into result, which may be
// nil. The mock answers errors with 4xx/5xx plus a JSON-RPC envelope, so
// the envelope wins over the status: only a body without one falls back to
// a plain HTTP error.
func (c *HTTPClient) call(ctx context.Context, endpoint, method string, params, result any) error {
	payload, err := c.encodeRequest(method, params)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("a2a: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	status, body, err := c.do(req)
	if err != nil {
		return fmt.Errorf("a2a: %s: %w", method, err)
	}

	env, ok := decodeEnvelope(body)
	switch {
	case !ok:
		return fmt.Errorf("a2a: %s: HTTP %d: %s", method, status, body)
	case env.Error != nil:
		return &RPCError{
			Method:     method,
			Code:       env.Error.Code,
			Message:    env.Error.Message,
			Data:       env.Error.Data,
			HTTPStatus: status,
		}
	case status != http.StatusOK:
		return fmt.Errorf("a2a: %s: HTTP %d: %s", method, status, body)
	}

	if result == nil {
		return nil
	}
	if err := json.Unmarshal(env.Result, result); err != nil {
		return fmt.Errorf("a2a: decode result: %w", err)
	}
	return nil
}

// encodeRequest wraps params in a request envelope with the next numeric id.
func (c *HTTPClient) encodeRequest(method string, params any) ([]byte, error) {
	raw, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("a2a: marshal params: %w", err)
	}
	payload, err := json.Marshal(JSONRPCRequest{
		JSONRPC: JSONRPCVersion,
		ID:      json.RawMessage(strconv.FormatInt(c.lastID.Add(1), 10)),
		Method:  method,
		Params:  raw,
	})
	if err != nil {
		return nil, fmt.Errorf("a2a: marshal request: %w", err)
	}
	return payload, nil
}

// do runs req and reads the whole body before returning.
func (c *HTTPClient) do(req *http.Request) (int, []byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read response: %w", err)
	}
	return resp.StatusCode, body, nil
}

// decodeEnvelope reports false unless body is a response carrying either a
// result or an error.
func decodeEnvelope(body []byte) (JSONRPCResponse, bool) {
	var env JSONRPCResponse
	if err := json.Unmarshal(body, &env); err != nil {
		return env, false
	}
	return env, env.Error != nil || env.Result != nil
}

// RPCError is an error envelope returned by the remote agent, together with
// the HTTP status it arrived with.
type RPCError struct {
	Method     string
	Code       int
	Message    string
	Data       json.RawMessage
	HTTPStatus int
}

func (e *RPCError) Error() string {
	if len(e.Data) > 0 {
		return fmt.Sprintf("a2a: %s: rpc error %d: %s (data: %s)", e.Method, e.Code, e.Message, e.Data)
	}
	return fmt.Sprintf("a2a: %s: rpc error %d: %s", e.Method, e.Code, e.Message)
}
