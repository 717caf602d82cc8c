package a2a

import (
	"bytes"
	"encoding/json"
	"strings"
)

// --- Enums ---

// TaskState represents the lifecycle state of an A2A task.
type TaskState string

const (
	TaskStateSubmitted TaskState = "submitted"
	TaskStateWorking   TaskState = "working"
	TaskStateCompleted TaskState = "completed"
	TaskStateFailed    TaskState = "failed"
	TaskStateCancelled TaskState = "cancelled"
)

// Valid reports whether s is one of the known task states.
func (s TaskState) Valid() bool {
	switch s {
	case TaskStateSubmitted, TaskStateWorking, TaskStateCompleted, TaskStateFailed, TaskStateCancelled:
		return true
	}
	return false
}

// Role identifies the sender of a message.
type Role string

const (
	RoleUser  Role = "user"
	RoleAgent Role = "agent"
)

// --- Core Types ---

// Task is the unit of conversational work tracked by the mock agent.
type Task struct {
	ID        string    `json:"id"`
	ContextID string    `json:"contextId,omitempty"`
	State     TaskState `json:"state"`
	Messages  []Message `json:"messages"`
}

// Message is a unit of communication between client and agent. A decoded
// Message keeps the object it was decoded from, so fields without a struct
// counterpart survive re-encoding.
type Message struct {
	MessageID string          `json:"messageId,omitempty"`
	ContextID string          `json:"contextId,omitempty"`
	TaskID    string          `json:"taskId,omitempty"`
	Role      Role            `json:"role"`
	Parts     []Part          `json:"parts"`
	Metadata  json.RawMessage `json:"metadata,omitempty"`

	raw json.RawMessage
}

// UnmarshalJSON decodes the known fields and retains the whole object.
func (m *Message) UnmarshalJSON(data []byte) error {
	type plain Message
	var v plain
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	raw, err := compactRaw(data)
	if err != nil {
		return err
	}
	*m = Message(v)
	m.raw = raw
	return nil
}

// MarshalJSON encodes the retained object with the known fields laid over it.
func (m Message) MarshalJSON() ([]byte, error) {
	type plain Message
	return overlayRaw(m.raw, plain(m))
}

// Text returns the concatenated text of every part that carries text.
func (m Message) Text() string {
	var b strings.Builder
	for _, p := range m.Parts {
		b.WriteString(p.Text)
	}
	return b.String()
}

// Part carries free-form content within a message. Only Text is interpreted
// by the mock agent. Like Message, a decoded Part re-encodes every field it
// was received with, including ones Part does not declare.
type Part struct {
	Kind      string          `json:"kind,omitempty"`
	Text      string          `json:"text,omitempty"`
	Raw       []byte          `json:"raw,omitempty"`
	URL       string          `json:"url,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
	Metadata  json.RawMessage `json:"metadata,omitempty"`
	Filename  string          `json:"filename,omitempty"`
	MediaType string          `json:"mediaType,omitempty"`

	raw json.RawMessage
}

// UnmarshalJSON decodes the known fields and retains the whole object.
func (p *Part) UnmarshalJSON(data []byte) error {
	type plain Part
	var v plain
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	raw, err := compactRaw(data)
	if err != nil {
		return err
	}
	*p = Part(v)
	p.raw = raw
	return nil
}

// MarshalJSON encodes the retained object with the known fields laid over it.
func (p Part) MarshalJSON() ([]byte, error) {
	type plain Part
	return overlayRaw(p.raw, plain(p))
}

// TextPart creates a Part with text content.
func TextPart(text string) Part {
	return Part{Text: text}
}

// --- Agent Card Types ---

// AgentCard is the discovery document served at the well-known path.
type AgentCard struct {
	Name               string            `json:"name"`
	Description        string            `json:"description"`
	URL                string            `json:"url"`
	Version            string            `json:"version"`
	Provider           *AgentProvider    `json:"provider,omitempty"`
	DocumentationURL   string            `json:"documentationUrl,omitempty"`
	Capabilities       AgentCapabilities `json:"capabilities"`
	Skills             []AgentSkill      `json:"skills"`
	DefaultInputModes  []string          `json:"defaultInputModes"`
	DefaultOutputModes []string          `json:"defaultOutputModes"`
}

// AgentProvider identifies the service provider.
type AgentProvider struct {
	Organization string `json:"organization"`
	URL          string `json:"url,omitempty"`
}

// AgentCapabilities declares which optional A2A features the agent supports.
type AgentCapabilities struct {
	Streaming         bool `json:"streaming"`
	PushNotifications bool `json:"pushNotifications"`
}

// AgentSkill declares a distinct capability of an agent.
type AgentSkill struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Tags        []string `json:"tags,omitempty"`
	Examples    []string `json:"examples,omitempty"`
}

// --- Request / Response Types ---

// SendMessageRequest carries the params of message/send.
type SendMessageRequest struct {
	Message Message `json:"message"`
}

// GetTaskRequest retrieves a task by ID.
type GetTaskRequest struct {
	TaskID        string `json:"taskId"`
	HistoryLength *int   `json:"historyLength,omitempty"`
}

// ListTasksRequest filters and paginates the stored tasks. The zero value
// selects every task.
type ListTasksRequest struct {
	ContextID string    `json:"contextId,omitempty"`
	State     TaskState `json:"state,omitempty"`
	PageSize  int       `json:"pageSize,omitempty"`
	PageToken string    `json:"pageToken,omitempty"`
}

// ListTasksResponse is the result of tasks/list.
type ListTasksResponse struct {
	Tasks         []Task `json:"tasks"`
	TotalSize     int    `json:"totalSize"`
	NextPageToken string `json:"nextPageToken,omitempty"`
}

// CancelTaskRequest cancels a task.
type CancelTaskRequest struct {
	TaskID string `json:"taskId"`
}

// --- Raw object retention ---

// compactRaw returns a compacted copy of a JSON object, or nil when data is
// not an object.
func compactRaw(data []byte) (json.RawMessage, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil, nil
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, trimmed); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// overlayRaw encodes known and lays its fields over the retained object raw.
// A known field that encodes as "" or null only replaces a field raw already
// has, so decoding and re-encoding adds nothing the sender left out.
func overlayRaw(raw json.RawMessage, known any) ([]byte, error) {
	data, err := json.Marshal(known)
	if err != nil || len(raw) == 0 {
		return data, err
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	var overlay map[string]json.RawMessage
	if err := json.Unmarshal(data, &overlay); err != nil {
		return nil, err
	}

	for k, v := range overlay {
		if _, sent := fields[k]; !sent && isBlank(v) {
			continue
		}
		fields[k] = v
	}
	return json.Marshal(fields)
}

func isBlank(v json.RawMessage) bool {
	s := string(v)
	return s == "null" || s == `""`
}
