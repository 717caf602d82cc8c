package agent

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dusk-indust/mocka2a/internal/a2a"
	"github.com/dusk-indust/mocka2a/internal/telemetry"
)

// Compile-time interface check.
var _ a2a.Handler = (*MockAgent)(nil)

// MockAgent answers A2A requests with canned replies. It composes an A2A
// server and the task table, and implements a2a.Handler for that server.
type MockAgent struct {
	server  *a2a.Server
	store   *a2a.TaskStore
	card    a2a.AgentCard
	logger  *zap.Logger
	metrics *telemetry.Metrics
}

// Option configures a MockAgent.
type Option func(*MockAgent)

// WithLogger sets the logger shared by the agent and its server.
func WithLogger(logger *zap.Logger) Option {
	return func(m *MockAgent) {
		m.logger = logger
	}
}

// WithMetrics enables task metrics and the server's /metrics route.
func WithMetrics(metrics *telemetry.Metrics) Option {
	return func(m *MockAgent) {
		m.metrics = metrics
	}
}

// New creates a MockAgent serving the given card.
func New(card a2a.AgentCard, opts ...Option) *MockAgent {
	m := &MockAgent{
		store:  a2a.NewTaskStore(),
		card:   card,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}

	serverOpts := []a2a.ServerOption{a2a.WithLogger(m.logger)}
	if m.metrics != nil {
		serverOpts = append(serverOpts, a2a.WithMetrics(m.metrics))
	}
	m.server = a2a.NewServer(card, m, serverOpts...)
	return m
}

// Card returns the agent's A2A Agent Card.
func (m *MockAgent) Card() a2a.AgentCard {
	return m.card
}

// Server returns the A2A server fronting this agent.
func (m *MockAgent) Server() *a2a.Server {
	return m.server
}

// Start launches the agent's HTTP server on the given address.
func (m *MockAgent) Start(ctx context.Context, addr string) error {
	return m.server.Start(ctx, addr)
}

// Stop gracefully shuts down the agent.
func (m *MockAgent) Stop(ctx context.Context) error {
	return m.server.Stop(ctx)
}

// --- a2a.Handler implementation ---

// HandleSendMessage stores a completed task holding the incoming message and
// the agent's reply. The incoming message is kept as sent, role included.
func (m *MockAgent) HandleSendMessage(_ context.Context, req a2a.SendMessageRequest) (*a2a.Task, error) {
	text := req.Message.Text()
	reply := Reply(m.card.Name, text)

	task := a2a.Task{
		ID:        a2a.NewTaskID(),
		ContextID: req.Message.ContextID,
		State:     a2a.TaskStateCompleted,
		Messages: []a2a.Message{
			req.Message,
			{
				MessageID: uuid.NewString(),
				Role:      a2a.RoleAgent,
				Parts:     []a2a.Part{a2a.TextPart(reply)},
			},
		},
	}
	if err := m.store.Create(task); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	m.metrics.TaskCreated()

	m.logger.Debug("task created",
		zap.String("taskId", task.ID),
		zap.String("role", string(req.Message.Role)),
		zap.Int("textLen", len(text)),
	)
	return &task, nil
}

// HandleGetTask retrieves a task by ID. A non-nil HistoryLength keeps only
// the most recent messages.
func (m *MockAgent) HandleGetTask(_ context.Context, req a2a.GetTaskRequest) (*a2a.Task, error) {
	if req.HistoryLength != nil && *req.HistoryLength < 0 {
		return nil, a2a.NewInvalidParamsError("historyLength must not be negative")
	}

	task, err := m.store.Get(req.TaskID)
	if err != nil {
		return nil, err
	}
	if req.HistoryLength != nil && *req.HistoryLength < len(task.Messages) {
		task.Messages = task.Messages[len(task.Messages)-*req.HistoryLength:]
	}
	return task, nil
}

// HandleListTasks returns tasks matching the filter.
func (m *MockAgent) HandleListTasks(_ context.Context, req a2a.ListTasksRequest) (*a2a.ListTasksResponse, error) {
	if req.State != "" && !req.State.Valid() {
		return nil, a2a.NewInvalidParamsError(fmt.Sprintf("unknown state %q", req.State))
	}
	if req.PageSize < 0 {
		return nil, a2a.NewInvalidParamsError("pageSize must not be negative")
	}
	return m.store.List(req)
}

// HandleCancelTask flips the task's state to cancelled, whatever it was.
func (m *MockAgent) HandleCancelTask(_ context.Context, req a2a.CancelTaskRequest) (*a2a.Task, error) {
	task, err := m.store.Update(req.TaskID, func(t *a2a.Task) {
		t.State = a2a.TaskStateCancelled
	})
	if err != nil {
		return nil, err
	}
	m.metrics.TaskCancelled()

	m.logger.Info("task cancelled", zap.String("taskId", task.ID))
	return task, nil
}
