package a2a

import (
	"encoding/json"
	"net/http"
)

// JSONRPCVersion is the JSON-RPC protocol version.
const JSONRPCVersion = "2.0"

// JSONRPCRequest is a JSON-RPC 2.0 request envelope. ID is kept raw so it can
// be echoed back exactly as the client sent it.
type JSONRPCRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// JSONRPCResponse is a JSON-RPC 2.0 response envelope. A nil ID is encoded
// as null.
type JSONRPCResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *JSONRPCError   `json:"error,omitempty"`
}

// JSONRPCError is a JSON-RPC 2.0 error object.
type JSONRPCError struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Standard JSON-RPC error codes.
const (
	ErrCodeParse          = -32700
	ErrCodeInvalidRequest = -32600
	ErrCodeMethodNotFound = -32601
	ErrCodeInvalidParams  = -32602
	ErrCodeInternal       = -32603

	// Application error code used for unknown task ids.
	ErrCodeTaskNotFound = -32000
)

// A2A method names.
const (
	MethodSendMessage = "message/send"
	MethodGetTask     = "tasks/get"
	MethodListTasks   = "tasks/list"
	MethodCancelTask  = "tasks/cancel"
)

// Error is a JSON-RPC error raised on the server side. Handlers return it to
// choose the code sent to the client; any other error is reported as
// ErrCodeInternal.
type Error struct {
	Code    int
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// HTTPStatus maps the error code to the status of the HTTP response that
// carries it.
func (e *Error) HTTPStatus() int {
	switch e.Code {
	case ErrCodeParse, ErrCodeInvalidRequest, ErrCodeMethodNotFound, ErrCodeInvalidParams:
		return http.StatusBadRequest
	case ErrCodeTaskNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// NewTaskNotFoundError returns the error reported for an unknown task id.
func NewTaskNotFoundError(id string) *Error {
	return &Error{Code: ErrCodeTaskNotFound, Message: "Task not found: " + id}
}

// NewInvalidParamsError returns the error reported for undecodable or
// out-of-range params.
func NewInvalidParamsError(detail string) *Error {
	return &Error{Code: ErrCodeInvalidParams, Message: "Invalid params: " + detail}
}
