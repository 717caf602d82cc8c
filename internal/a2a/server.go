package a2a

import (
	"context"
	"net/http"

	"go.uber.org/zap"

	"github.com/dusk-indust/mocka2a/internal/telemetry"
)

// Handler processes the A2A methods served by a Server. Returning an *Error
// selects the JSON-RPC error code; any other error is reported as internal.
type Handler interface {
	// HandleSendMessage processes an incoming message and returns the task
	// created for it.
	HandleSendMessage(ctx context.Context, req SendMessageRequest) (*Task, error)

	// HandleGetTask returns a stored task.
	HandleGetTask(ctx context.Context, req GetTaskRequest) (*Task, error)

	// HandleListTasks returns the tasks matching the filter.
	HandleListTasks(ctx context.Context, req ListTasksRequest) (*ListTasksResponse, error)

	// HandleCancelTask marks a task cancelled and returns it.
	HandleCancelTask(ctx context.Context, req CancelTaskRequest) (*Task, error)
}

// Server is the HTTP server that exposes an A2A agent.
type Server struct {
	card    AgentCard
	handler Handler
	logger  *zap.Logger
	metrics *telemetry.Metrics
	methods map[string]rpcMethod
	router  http.Handler

	http *http.Server
	addr string
	done chan error
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithLogger sets the logger used for request and lifecycle logging.
func WithLogger(logger *zap.Logger) ServerOption {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMetrics records RPC metrics and serves them at GET /metrics.
func WithMetrics(m *telemetry.Metrics) ServerOption {
	return func(s *Server) {
		s.metrics = m
	}
}

// NewServer creates an A2A server for the given agent.
func NewServer(card AgentCard, handler Handler, opts ...ServerOption) *Server {
	s := &Server{
		card:    card,
		handler: handler,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.methods = map[string]rpcMethod{
		MethodSendMessage: bindMethod(handler.HandleSendMessage),
		MethodGetTask:     bindMethod(handler.HandleGetTask),
		MethodListTasks:   bindMethod(handler.HandleListTasks),
		MethodCancelTask:  bindMethod(handler.HandleCancelTask),
	}
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler serving discovery and JSON-RPC. It can be
// mounted directly, e.g. in httptest.NewServer.
func (s *Server) Handler() http.Handler {
	return s.router
}
