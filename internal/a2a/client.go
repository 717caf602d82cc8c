package a2a

import "context"

// Client is the interface for an A2A client that talks to an agent endpoint.
type Client interface {
	// SendMessage sends a message to an agent and returns the task.
	SendMessage(ctx context.Context, endpoint string, req SendMessageRequest) (*Task, error)

	// GetTask retrieves a task by ID from a specific agent.
	GetTask(ctx context.Context, endpoint string, req GetTaskRequest) (*Task, error)

	// ListTasks queries tasks from a specific agent.
	ListTasks(ctx context.Context, endpoint string, req ListTasksRequest) (*ListTasksResponse, error)

	// CancelTask cancels a task.
	CancelTask(ctx context.Context, endpoint string, req CancelTaskRequest) (*Task, error)

	// DiscoverAgent fetches the Agent Card from the well-known path.
	DiscoverAgent(ctx context.Context, baseURL string) (*AgentCard, error)
}
