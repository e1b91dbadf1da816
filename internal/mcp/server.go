package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"runtime/debug"
	"sync"

	"golang.org/x/sync/errgroup"

	"twittermcp/internal/cmdlog"
	"twittermcp/internal/logging"
	"twittermcp/internal/tools"
)

const maxLineBytes = 4 << 20

// Caller executes a named tool with raw JSON arguments and returns its text result.
type Caller interface {
	Known(name string) bool
	Call(ctx context.Context, name string, args json.RawMessage) (string, error)
}

// Server answers MCP requests. Each request runs in its own goroutine;
// responses may therefore be written out of order and are matched by id.
type Server struct {
	info    ServerInfo
	catalog []tools.Descriptor
	caller  Caller

	mu  sync.Mutex
	out io.Writer
}

func NewServer(info ServerInfo, catalog []tools.Descriptor, caller Caller) *Server {
	return &Server{info: info, catalog: catalog, caller: caller}
}

// Serve reads requests from r until EOF and writes responses to w.
// It returns as soon as a handler fails or ctx is cancelled, without waiting
// for more input; otherwise it returns at EOF after in-flight requests finish.
// A non-nil error means the stream broke or a handler panicked.
func (s *Server) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	s.out = w
	g, gctx := errgroup.WithContext(ctx)

	lines := make(chan []byte)
	readErr := make(chan error, 1)
	done := make(chan struct{})
	defer close(done)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(r)
		scanner.Buffer(make([]byte, 64<<10), maxLineBytes)
		for scanner.Scan() {
			line := append([]byte(nil), scanner.Bytes()...)
			select {
			case lines <- line:
			case <-done:
				return
			}
		}
		readErr <- scanner.Err()
	}()

	var writeErr error
loop:
	for {
		select {
		case <-gctx.Done():
			break loop
		case line, ok := <-lines:
			if !ok {
				break loop
			}
			if len(line) == 0 {
				continue
			}
			var req rpcRequest
			if err := json.Unmarshal(line, &req); err != nil {
				logging.Warn("mcp_parse_error", map[string]any{"error": err.Error()})
				writeErr = s.write(rpcResponse{JSONRPC: "2.0", ID: json.RawMessage("null"), Error: &rpcError{Code: codeParseError, Message: "Parse error"}})
				if writeErr != nil {
					break loop
				}
				continue
			}
			g.Go(func() error { return s.handle(gctx, req) })
		}
	}

	if err := g.Wait(); err != nil {
		return err
	}
	if writeErr != nil {
		return writeErr
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case err := <-readErr:
		if err != nil {
			return fmt.Errorf("read requests: %w", err)
		}
	default:
	}
	return nil
}

func (s *Server) handle(ctx context.Context, req rpcRequest) (err error) {
	defer func() {
		if p := recover(); p != nil {
			logging.Error("mcp_handler_panic", map[string]any{"method": req.Method, "panic": fmt.Sprint(p), "stack": string(debug.Stack())})
			if !req.isNotification() {
				_ = s.reply(req, nil, &rpcError{Code: codeInternalError, Message: "Internal error"})
			}
			err = fmt.Errorf("panic handling %s: %v", req.Method, p)
		}
	}()

	if req.JSONRPC != "2.0" || req.Method == "" {
		if req.isNotification() {
			return nil
		}
		return s.reply(req, nil, &rpcError{Code: codeInvalidRequest, Message: "Invalid Request"})
	}
	if req.isNotification() {
		logging.Debug("mcp_notification", map[string]any{"method": req.Method})
		return nil
	}

	switch req.Method {
	case "initialize":
		return s.reply(req, s.initialize(req.Params), nil)
	case "ping":
		return s.reply(req, map[string]any{}, nil)
	case "tools/list":
		return s.reply(req, map[string]any{"tools": s.catalog}, nil)
	case "tools/call":
		res, rerr := s.callTool(ctx, req.Params)
		if rerr != nil {
			return s.reply(req, nil, rerr)
		}
		return s.reply(req, res, nil)
	default:
		return s.reply(req, nil, &rpcError{Code: codeMethodNotFound, Message: "Method not found: " + req.Method})
	}
}

func (s *Server) initialize(params json.RawMessage) initializeResult {
	var p initializeParams
	_ = json.Unmarshal(params, &p)
	version := p.ProtocolVersion
	if version == "" {
		version = DefaultProtocolVersion
	}
	logging.Info("mcp_initialize", map[string]any{"client": p.ClientInfo.Name, "client_version": p.ClientInfo.Version, "protocol": version})
	return initializeResult{
		ProtocolVersion: version,
		Capabilities:    map[string]any{"tools": map[string]any{}},
		ServerInfo:      s.info,
	}
}

func (s *Server) callTool(ctx context.Context, params json.RawMessage) (*callToolResult, *rpcError) {
	var p callToolParams
	if err := json.Unmarshal(params, &p); err != nil || p.Name == "" {
		return nil, &rpcError{Code: codeInvalidParams, Message: "tools/call requires a tool name"}
	}
	// Unknown names are rejected before they reach metrics labels or the backend.
	if !s.caller.Known(p.Name) {
		logging.Warn("mcp_unknown_tool", map[string]any{"tool": p.Name})
		return nil, toRPCError(&tools.UnknownOperationError{Name: p.Name})
	}
	var text string
	err := cmdlog.Run(p.Name, func() error {
		var err error
		text, err = s.caller.Call(ctx, p.Name, p.Arguments)
		return err
	})
	if err != nil {
		return nil, toRPCError(err)
	}
	return &callToolResult{Content: []Content{{Type: "text", Text: text}}}, nil
}

func toRPCError(err error) *rpcError {
	var unknown *tools.UnknownOperationError
	var invalid *tools.ValidationError
	if errors.As(err, &unknown) || errors.As(err, &invalid) {
		return &rpcError{Code: codeInvalidParams, Message: err.Error()}
	}
	return &rpcError{Code: codeInternalError, Message: err.Error()}
}

func (s *Server) reply(req rpcRequest, result any, rerr *rpcError) error {
	resp := rpcResponse{JSONRPC: "2.0", ID: req.ID, Error: rerr}
	if rerr == nil {
		resp.Result = result
	}
	return s.write(resp)
}

func (s *Server) write(resp rpcResponse) error {
	b, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("encode response: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.out.Write(append(b, '\n')); err != nil {
		return fmt.Errorf("write response: %w", err)
	}
	return nil
}
