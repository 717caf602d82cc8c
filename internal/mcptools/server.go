package mcptools

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// NewA2AMCPServer creates an MCP server with the five A2A bridge tools
// registered. version is reported in the server's implementation info.
func NewA2AMCPServer(svc *A2AService, version string) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "mock-a2a",
		Version: version,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "send_message",
		Description: "Send a text message to the A2A agent via message/send. Returns the created task and the agent's reply.",
	}, svc.SendMessage)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_task",
		Description: "Fetch a task by id via tasks/get.",
	}, svc.GetTask)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_tasks",
		Description: "List tasks via tasks/list, optionally filtered by state or context id and paginated.",
	}, svc.ListTasks)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "cancel_task",
		Description: "Mark a task cancelled via tasks/cancel.",
	}, svc.CancelTask)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_agent_card",
		Description: "Fetch the agent card from the well-known discovery path.",
	}, svc.GetAgentCard)

	return server
}

// RunMCPServer serves the bridge tools over streamable HTTP on addr until
// ctx is cancelled.
func RunMCPServer(ctx context.Context, svc *A2AService, addr, version string) error {
	server := NewA2AMCPServer(svc, version)

	handler := mcp.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcp.Server { return server },
		nil,
	)

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Shutdown gracefully when context is cancelled.
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
