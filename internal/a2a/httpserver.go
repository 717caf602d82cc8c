package a2a

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// AgentCardPath is the well-known discovery path of the agent card.
const AgentCardPath = "/.well-known/agent.json"

// rpcMethod decodes raw params and runs one A2A method.
type rpcMethod func(ctx context.Context, params json.RawMessage) (any, error)

// bindMethod adapts a typed handler method to the dispatch table. Absent or
// null params decode as the zero value of P.
func bindMethod[P, R any](fn func(context.Context, P) (R, error)) rpcMethod {
	return func(ctx context.Context, raw json.RawMessage) (any, error) {
		var params P
		if len(raw) > 0 && !bytes.Equal(raw, []byte("null")) {
			if err := json.Unmarshal(raw, &params); err != nil {
				return nil, NewInvalidParamsError(err.Error())
			}
		}
		return fn(ctx, params)
	}
}

// Start binds addr and begins serving in a background goroutine. Listen
// errors are returned synchronously; later serve errors are delivered on
// Done.
func (s *Server) Start(ctx context.Context, addr string) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("a2a: listen %s: %w", addr, err)
	}

	s.addr = ln.Addr().String()
	s.done = make(chan error, 1)
	s.http = &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		err := s.http.Serve(ln)
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		s.done <- err
		close(s.done)
	}()

	s.logger.Info("a2a server listening", zap.String("addr", s.addr))
	return nil
}

// Addr returns the bound listen address once Start has succeeded.
func (s *Server) Addr() string {
	return s.addr
}

// Done is closed after the server stops serving. It carries the serve error,
// if any.
func (s *Server) Done() <-chan error {
	return s.done
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(corsMiddleware)

	r.Get(AgentCardPath, s.handleAgentCard)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}
	r.Get("/*", handleNotFound)
	r.Post("/*", s.handleJSONRPC)

	r.NotFound(handleNotFound)
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "Method not allowed"})
	})
	return r
}

// corsMiddleware allows any origin and answers preflight requests for every
// path.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		if r.Method == http.MethodOptions {
			h.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			h.Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// handleAgentCard serves the agent card as JSON at the well-known endpoint.
func (s *Server) handleAgentCard(w http.ResponseWriter, r *http.Request) {
	s.logger.Debug("serving agent card", zap.String("remote", r.RemoteAddr))
	writeJSON(w, http.StatusOK, s.card)
}

func handleNotFound(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusNotFound, map[string]string{"error": "Not found"})
}

// handleJSONRPC processes incoming JSON-RPC 2.0 requests and dispatches them
// through the method table.
func (s *Server) handleJSONRPC(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req JSONRPCRequest
	if rpcErr := decodeRequest(r.Body, &req); rpcErr != nil {
		s.logger.Debug("undecodable request", zap.Int("code", rpcErr.Code))
		s.writeError(w, nil, rpcErr)
		s.metrics.ObserveRPC("", false, rpcErr.Code, time.Since(start))
		return
	}

	log := s.logger.With(zap.String("method", req.Method), zap.ByteString("id", req.ID))

	if req.JSONRPC != JSONRPCVersion {
		log.Debug("rejecting request", zap.String("jsonrpc", req.JSONRPC))
		s.writeError(w, req.ID, &Error{Code: ErrCodeInvalidRequest, Message: "Invalid Request"})
		s.metrics.ObserveRPC(req.Method, false, ErrCodeInvalidRequest, time.Since(start))
		return
	}

	method, ok := s.methods[req.Method]
	if !ok {
		log.Debug("method not found")
		s.writeError(w, req.ID, &Error{Code: ErrCodeMethodNotFound, Message: "Method not found: " + req.Method})
		s.metrics.ObserveRPC(req.Method, false, ErrCodeMethodNotFound, time.Since(start))
		return
	}

	result, err := method(r.Context(), req.Params)
	if err != nil {
		var rpcErr *Error
		if !errors.As(err, &rpcErr) {
			log.Error("handler failed", zap.Error(err))
			rpcErr = &Error{Code: ErrCodeInternal, Message: err.Error()}
		}
		log.Debug("rpc error", zap.Int("code", rpcErr.Code), zap.Duration("took", time.Since(start)))
		s.writeError(w, req.ID, rpcErr)
		s.metrics.ObserveRPC(req.Method, true, rpcErr.Code, time.Since(start))
		return
	}

	log.Debug("rpc ok", zap.Duration("took", time.Since(start)))
	s.writeResult(w, req.ID, result)
	s.metrics.ObserveRPC(req.Method, true, 0, time.Since(start))
}

// decodeRequest reads the whole body into req. Bodies that are not JSON are
// parse errors; JSON that is not a request object is an invalid request.
func decodeRequest(body io.Reader, req *JSONRPCRequest) *Error {
	data, err := io.ReadAll(body)
	if err != nil {
		return &Error{Code: ErrCodeParse, Message: "Parse error"}
	}
	if err := json.Unmarshal(data, req); err != nil {
		if !json.Valid(data) {
			return &Error{Code: ErrCodeParse, Message: "Parse error"}
		}
		return &Error{Code: ErrCodeInvalidRequest, Message: "Invalid Request"}
	}
	return nil
}

// writeResult writes a successful JSON-RPC response.
func (s *Server) writeResult(w http.ResponseWriter, id json.RawMessage, result any) {
	data, err := json.Marshal(result)
	if err != nil {
		s.logger.Error("marshal result", zap.Error(err))
		s.writeError(w, id, &Error{Code: ErrCodeInternal, Message: "Failed to marshal result: " + err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, JSONRPCResponse{
		JSONRPC: JSONRPCVersion,
		ID:      id,
		Result:  data,
	})
}

// writeError writes a JSON-RPC error response with the HTTP status that
// matches its code.
func (s *Server) writeError(w http.ResponseWriter, id json.RawMessage, rpcErr *Error) {
	writeJSON(w, rpcErr.HTTPStatus(), JSONRPCResponse{
		JSONRPC: JSONRPCVersion,
		ID:      id,
		Error: &JSONRPCError{
			Code:    rpcErr.Code,
			Message: rpcErr.Message,
		},
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}
