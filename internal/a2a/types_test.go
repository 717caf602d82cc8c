package a2a

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskState_Valid(t *testing.T) {
	tests := []struct {
		state TaskState
		valid bool
	}{
		{TaskStateSubmitted, true},
		{TaskStateWorking, true},
		{TaskStateCompleted, true},
		{TaskStateFailed, true},
		{TaskStateCancelled, true},
		{"canceled", false},
		{"", false},
		{"COMPLETED", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.state.Valid())
		})
	}
}

func TestMessage_Text(t *testing.T) {
	msg := Message{
		Role: RoleUser,
		Parts: []Part{
			TextPart("hello "),
			{Kind: "data", Data: json.RawMessage(`{"x":1}`)},
			TextPart("world"),
		},
	}
	assert.Equal(t, "hello world", msg.Text())
	assert.Empty(t, Message{}.Text())
}

func TestTask_WireFormat(t *testing.T) {
	task := Task{
		ID:    "t-1",
		State: TaskStateCompleted,
		Messages: []Message{
			{MessageID: "m-1", Role: RoleAgent, Parts: []Part{TextPart("hi")}},
		},
	}

	data, err := json.Marshal(task)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"id": "t-1",
		"state": "completed",
		"messages": [{"messageId": "m-1", "role": "agent", "parts": [{"text": "hi"}]}]
	}`, string(data))
}

func TestMessage_RoundTripKeepsUndeclaredFields(t *testing.T) {
	raw := `{
		"kind": "message",
		"role": "user",
		"parts": [
			{"type": "text", "text": "hey"},
			{"type": "file", "file": {"name": "a.png", "mimeType": "image/png", "uri": "https://example.com/a.png"}},
			{"text": ""}
		],
		"extensions": ["urn:x"]
	}`

	var msg Message
	require.NoError(t, json.Unmarshal([]byte(raw), &msg))
	assert.Equal(t, "hey", msg.Text())
	require.Len(t, msg.Parts, 3)

	out, err := json.Marshal(msg)
	require.NoError(t, err)
	assert.JSONEq(t, raw, string(out))
}

func TestPart_RoundTripKeepsEmptyText(t *testing.T) {
	var part Part
	require.NoError(t, json.Unmarshal([]byte(`{"text":"","type":"text"}`), &part))

	out, err := json.Marshal(part)
	require.NoError(t, err)
	assert.JSONEq(t, `{"text":"","type":"text"}`, string(out))
}

func TestMessage_ChangedFieldsOverrideReceived(t *testing.T) {
	var msg Message
	require.NoError(t, json.Unmarshal([]byte(`{"role":"user","parts":[],"trace":"t-1"}`), &msg))
	msg.ContextID = "ctx-9"

	out, err := json.Marshal(msg)
	require.NoError(t, err)
	assert.JSONEq(t, `{"role":"user","parts":[],"trace":"t-1","contextId":"ctx-9"}`, string(out))
}

func TestMessage_DecodeDoesNotAddFields(t *testing.T) {
	var msg Message
	require.NoError(t, json.Unmarshal([]byte(`{"parts":[{"text":"x"}]}`), &msg))

	out, err := json.Marshal(msg)
	require.NoError(t, err)
	assert.JSONEq(t, `{"parts":[{"text":"x"}]}`, string(out), "role was not sent and must not appear")
}

func TestMessage_BuiltInCodeEncodesKnownFields(t *testing.T) {
	msg := Message{Role: RoleAgent, Parts: []Part{TextPart("hi"), {Kind: "data", Data: json.RawMessage(`{"x":1}`)}}}

	out, err := json.Marshal(msg)
	require.NoError(t, err)
	assert.JSONEq(t, `{"role":"agent","parts":[{"text":"hi"},{"kind":"data","data":{"x":1}}]}`, string(out))
}

func TestAgentCard_WireFormat(t *testing.T) {
	card := AgentCard{
		Name:               "agent",
		Description:        "desc",
		URL:                "http://localhost:9999",
		Version:            "1.0.0",
		Provider:           &AgentProvider{Organization: "Org"},
		Skills:             []AgentSkill{{ID: "echo", Name: "Echo", Description: "Echoes"}},
		DefaultInputModes:  []string{"text"},
		DefaultOutputModes: []string{"text"},
	}

	data, err := json.Marshal(card)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"name": "agent",
		"description": "desc",
		"url": "http://localhost:9999",
		"version": "1.0.0",
		"provider": {"organization": "Org"},
		"capabilities": {"streaming": false, "pushNotifications": false},
		"skills": [{"id": "echo", "name": "Echo", "description": "Echoes"}],
		"defaultInputModes": ["text"],
		"defaultOutputModes": ["text"]
	}`, string(data))
}

func TestJSONRPC_ResponseNullID(t *testing.T) {
	resp := JSONRPCResponse{
		JSONRPC: JSONRPCVersion,
		Error:   &JSONRPCError{Code: ErrCodeParse, Message: "Parse error"},
	}

	data, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.JSONEq(t, `{"jsonrpc":"2.0","id":null,"error":{"code":-32700,"message":"Parse error"}}`, string(data))
}

func TestJSONRPC_RequestKeepsRawID(t *testing.T) {
	var req JSONRPCRequest
	require.NoError(t, json.Unmarshal([]byte(`{"jsonrpc":"2.0","id":"abc-1","method":"tasks/get","params":{"taskId":"t"}}`), &req))
	assert.Equal(t, `"abc-1"`, string(req.ID))
	assert.Equal(t, MethodGetTask, req.Method)
	assert.JSONEq(t, `{"taskId":"t"}`, string(req.Params))
}

func TestError_HTTPStatus(t *testing.T) {
	tests := []struct {
		code   int
		status int
	}{
		{ErrCodeParse, http.StatusBadRequest},
		{ErrCodeInvalidRequest, http.StatusBadRequest},
		{ErrCodeMethodNotFound, http.StatusBadRequest},
		{ErrCodeInvalidParams, http.StatusBadRequest},
		{ErrCodeTaskNotFound, http.StatusNotFound},
		{ErrCodeInternal, http.StatusInternalServerError},
		{-1, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		err := &Error{Code: tt.code, Message: "x"}
		assert.Equal(t, tt.status, err.HTTPStatus(), "code %d", tt.code)
	}
}

func TestErrorConstructors(t *testing.T) {
	nf := NewTaskNotFoundError("abc")
	assert.Equal(t, ErrCodeTaskNotFound, nf.Code)
	assert.Equal(t, "Task not found: abc", nf.Error())

	ip := NewInvalidParamsError("bad")
	assert.Equal(t, ErrCodeInvalidParams, ip.Code)
	assert.Equal(t, "Invalid params: bad", ip.Error())
}
