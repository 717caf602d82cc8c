package mcptools

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/dusk-indust/mocka2a/internal/a2a"
)

// --- MCP Tool Input/Output Types ---
// The MCP Go SDK generates the tool JSON schemas from these struct tags.

// SendMessageInput is the input for the send_message MCP tool.
type SendMessageInput struct {
	Text      string `json:"text" jsonschema:"the message text sent to the agent"`
	Role      string `json:"role,omitempty" jsonschema:"message role (default: user)"`
	ContextID string `json:"contextId,omitempty" jsonschema:"optional conversation context id"`
}

// TaskIDInput is the input for the get_task and cancel_task MCP tools.
type TaskIDInput struct {
	TaskID string `json:"taskId" jsonschema:"the id of the task"`
}

// ListTasksInput is the input for the list_tasks MCP tool.
type ListTasksInput struct {
	State     string `json:"state,omitempty" jsonschema:"only tasks in this state: submitted, working, completed, failed, cancelled"`
	ContextID string `json:"contextId,omitempty" jsonschema:"only tasks with this context id"`
	PageSize  int    `json:"pageSize,omitempty" jsonschema:"maximum number of tasks per page (default: all)"`
	PageToken string `json:"pageToken,omitempty" jsonschema:"nextPageToken from the previous page"`
}

// GetAgentCardInput is the input for the get_agent_card MCP tool.
type GetAgentCardInput struct{}

// TaskSummary is a flattened view of an A2A task.
type TaskSummary struct {
	ID        string `json:"id"`
	ContextID string `json:"contextId,omitempty"`
	State     string `json:"state"`
	Reply     string `json:"reply,omitempty"`
	Messages  int    `json:"messages"`
}

// TaskOutput is the result of the task-returning MCP tools.
type TaskOutput struct {
	Task TaskSummary `json:"task"`
}

// ListTasksOutput is the result of the list_tasks MCP tool.
type ListTasksOutput struct {
	Tasks         []TaskSummary `json:"tasks"`
	TotalSize     int           `json:"totalSize"`
	NextPageToken string        `json:"nextPageToken,omitempty"`
}

// SkillSummary describes one skill of the agent.
type SkillSummary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// GetAgentCardOutput is the result of the get_agent_card MCP tool.
type GetAgentCardOutput struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	URL         string         `json:"url"`
	Version     string         `json:"version"`
	Skills      []SkillSummary `json:"skills"`
}

// A2AService forwards MCP tool calls to an A2A endpoint.
type A2AService struct {
	client  a2a.Client
	baseURL string
}

// NewA2AService creates a service calling the A2A endpoint at baseURL.
func NewA2AService(client a2a.Client, baseURL string) *A2AService {
	return &A2AService{client: client, baseURL: baseURL}
}

// SendMessage sends a text message and returns the created task.
func (s *A2AService) SendMessage(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SendMessageInput,
) (*mcp.CallToolResult, TaskOutput, error) {
	if input.Text == "" {
		return nil, TaskOutput{}, fmt.Errorf("text is required")
	}
	role := a2a.RoleUser
	if input.Role != "" {
		role = a2a.Role(input.Role)
	}

	task, err := s.client.SendMessage(ctx, s.baseURL, a2a.SendMessageRequest{
		Message: a2a.Message{
			ContextID: input.ContextID,
			Role:      role,
			Parts:     []a2a.Part{a2a.TextPart(input.Text)},
		},
	})
	if err != nil {
		return nil, TaskOutput{}, err
	}
	return nil, TaskOutput{Task: summarize(task)}, nil
}

// GetTask returns a stored task.
func (s *A2AService) GetTask(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input TaskIDInput,
) (*mcp.CallToolResult, TaskOutput, error) {
	if input.TaskID == "" {
		return nil, TaskOutput{}, fmt.Errorf("taskId is required")
	}
	task, err := s.client.GetTask(ctx, s.baseURL, a2a.GetTaskRequest{TaskID: input.TaskID})
	if err != nil {
		return nil, TaskOutput{}, err
	}
	return nil, TaskOutput{Task: summarize(task)}, nil
}

// ListTasks lists stored tasks.
func (s *A2AService) ListTasks(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ListTasksInput,
) (*mcp.CallToolResult, ListTasksOutput, error) {
	resp, err := s.client.ListTasks(ctx, s.baseURL, a2a.ListTasksRequest{
		ContextID: input.ContextID,
		State:     a2a.TaskState(input.State),
		PageSize:  input.PageSize,
		PageToken: input.PageToken,
	})
	if err != nil {
		return nil, ListTasksOutput{}, err
	}

	out := ListTasksOutput{
		Tasks:         make([]TaskSummary, 0, len(resp.Tasks)),
		TotalSize:     resp.TotalSize,
		NextPageToken: resp.NextPageToken,
	}
	for i := range resp.Tasks {
		out.Tasks = append(out.Tasks, summarize(&resp.Tasks[i]))
	}
	return nil, out, nil
}

// CancelTask cancels a task.
func (s *A2AService) CancelTask(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input TaskIDInput,
) (*mcp.CallToolResult, TaskOutput, error) {
	if input.TaskID == "" {
		return nil, TaskOutput{}, fmt.Errorf("taskId is required")
	}
	task, err := s.client.CancelTask(ctx, s.baseURL, a2a.CancelTaskRequest{TaskID: input.TaskID})
	if err != nil {
		return nil, TaskOutput{}, err
	}
	return nil, TaskOutput{Task: summarize(task)}, nil
}

// GetAgentCard fetches the agent card.
func (s *A2AService) GetAgentCard(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ GetAgentCardInput,
) (*mcp.CallToolResult, GetAgentCardOutput, error) {
	card, err := s.client.DiscoverAgent(ctx, s.baseURL)
	if err != nil {
		return nil, GetAgentCardOutput{}, err
	}

	out := GetAgentCardOutput{
		Name:        card.Name,
		Description: card.Description,
		URL:         card.URL,
		Version:     card.Version,
		Skills:      make([]SkillSummary, 0, len(card.Skills)),
	}
	for _, sk := range card.Skills {
		out.Skills = append(out.Skills, SkillSummary{ID: sk.ID, Name: sk.Name, Description: sk.Description})
	}
	return nil, out, nil
}

// summarize flattens a task; Reply is the text of the last agent message.
func summarize(t *a2a.Task) TaskSummary {
	sum := TaskSummary{
		ID:        t.ID,
		ContextID: t.ContextID,
		State:     string(t.State),
		Messages:  len(t.Messages),
	}
	for i := len(t.Messages) - 1; i >= 0; i-- {
		if t.Messages[i].Role == a2a.RoleAgent {
			sum.Reply = t.Messages[i].Text()
			break
		}
	}
	return sum
}
