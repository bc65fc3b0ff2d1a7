// Package mcp exposes the funnel engine as an MCP server, so agent hosts
// can drive a guided conversation through tools: start it, pick options,
// submit free text, and resolve offer timers.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/mitchellh/mapstructure"

	"github.com/sellwise/funnel/pkg/domain"
	"github.com/sellwise/funnel/pkg/ports"
)

// Version is stamped by the host binary; defaults for embedded use.
var Version = "dev"

// ToolResponse is the unified result shape across the conversation tools.
type ToolResponse struct {
	Conversation *domain.Conversation `json:"conversation" jsonschema_description:"The advanced conversation snapshot; pass it back on the next call"`
	Options      []domain.Option      `json:"options" jsonschema_description:"Options currently offered to the user"`
	Terminal     bool                 `json:"terminal" jsonschema_description:"Whether the conversation has ended"`
}

// toolArgs is the decoded argument set shared by the conversation tools.
// The snapshot travels as a JSON string because MCP arguments are flat.
type toolArgs struct {
	Conversation string `mapstructure:"conversation"`
	OptionIndex  int    `mapstructure:"option_index"`
	Input        string `mapstructure:"input"`
	BlockID      string `mapstructure:"block_id"`
	Outcome      string `mapstructure:"outcome"`
}

// Server wraps the engine and exposes it as an MCP server.
type Server struct {
	engine    ports.StatelessEngine
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance.
func NewServer(engine ports.StatelessEngine) *Server {
	s := &Server{
		engine:    engine,
		mcpServer: server.NewMCPServer("funnel-mcp", strings.TrimSpace(Version)),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		slog.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	startTool := mcp.NewTool("start_conversation",
		mcp.WithDescription("Start a fresh conversation at the funnel's entry block."),
		mcp.WithOutputSchema[ToolResponse](),
	)
	s.mcpServer.AddTool(startTool, mcp.NewStructuredToolHandler(s.handleStart))

	selectTool := mcp.NewTool("select_option",
		mcp.WithDescription("Select one of the currently offered options by index."),
		mcp.WithString("conversation", mcp.Required(), mcp.Description("JSON conversation snapshot from a previous call")),
		mcp.WithNumber("option_index", mcp.Required(), mcp.Description("Zero-based index into the current options")),
		mcp.WithOutputSchema[ToolResponse](),
	)
	s.mcpServer.AddTool(selectTool, mcp.NewStructuredToolHandler(s.handleSelect))

	submitTool := mcp.NewTool("submit_text",
		mcp.WithDescription("Submit free text; it is matched against the current options."),
		mcp.WithString("conversation", mcp.Required(), mcp.Description("JSON conversation snapshot from a previous call")),
		mcp.WithString("input", mcp.Required(), mcp.Description("The user's text")),
		mcp.WithOutputSchema[ToolResponse](),
	)
	s.mcpServer.AddTool(submitTool, mcp.NewStructuredToolHandler(s.handleSubmit))

	activateTool := mcp.NewTool("activate_offer_timer",
		mcp.WithDescription("Arm the deferred bought/didn't-buy decision on an offer block."),
		mcp.WithString("conversation", mcp.Required(), mcp.Description("JSON conversation snapshot from a previous call")),
		mcp.WithString("block_id", mcp.Required(), mcp.Description("The offer block to arm")),
		mcp.WithOutputSchema[ToolResponse](),
	)
	s.mcpServer.AddTool(activateTool, mcp.NewStructuredToolHandler(s.handleActivateTimer))

	resolveTool := mcp.NewTool("resolve_offer_timer",
		mcp.WithDescription("Resolve a pending offer timer with 'bought' or 'didnt_buy'."),
		mcp.WithString("conversation", mcp.Required(), mcp.Description("JSON conversation snapshot from a previous call")),
		mcp.WithString("outcome", mcp.Required(), mcp.Description("bought | didnt_buy")),
		mcp.WithOutputSchema[ToolResponse](),
	)
	s.mcpServer.AddTool(resolveTool, mcp.NewStructuredToolHandler(s.handleResolveTimer))

	s.mcpServer.AddTool(mcp.NewTool("get_funnel",
		mcp.WithDescription("Get the full funnel definition for introspection."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		flow, err := s.engine.Inspect()
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("inspect failed: %v", err)), nil
		}
		jsonBytes, _ := json.Marshal(flow)
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})
}

// Handler methods for structured tools

func (s *Server) handleStart(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (ToolResponse, error) {
	conv := s.engine.Start(ctx)
	return s.respond(conv), nil
}

func (s *Server) handleSelect(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (ToolResponse, error) {
	req, conv, err := s.decode(ctx, args)
	if err != nil {
		return ToolResponse{}, err
	}

	options := s.engine.Options(conv)
	if req.OptionIndex < 0 || req.OptionIndex >= len(options) {
		return ToolResponse{}, fmt.Errorf("option_index %d out of range (%d options)", req.OptionIndex, len(options))
	}

	conv = s.engine.SelectOption(ctx, conv, options[req.OptionIndex], req.OptionIndex)
	return s.respond(conv), nil
}

func (s *Server) handleSubmit(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (ToolResponse, error) {
	req, conv, err := s.decode(ctx, args)
	if err != nil {
		return ToolResponse{}, err
	}

	conv = s.engine.SubmitText(ctx, conv, req.Input)
	return s.respond(conv), nil
}

func (s *Server) handleActivateTimer(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (ToolResponse, error) {
	req, conv, err := s.decode(ctx, args)
	if err != nil {
		return ToolResponse{}, err
	}

	conv, err = s.engine.ActivateTimer(conv, req.BlockID)
	if err != nil {
		return ToolResponse{}, fmt.Errorf("activate timer: %w", err)
	}
	return s.respond(conv), nil
}

func (s *Server) handleResolveTimer(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (ToolResponse, error) {
	req, conv, err := s.decode(ctx, args)
	if err != nil {
		return ToolResponse{}, err
	}

	conv, err = s.engine.ResolveTimer(ctx, conv, domain.TimerOutcome(req.Outcome))
	if err != nil {
		return ToolResponse{}, fmt.Errorf("resolve timer: %w", err)
	}
	return s.respond(conv), nil
}

// decode maps the raw MCP arguments into a typed request and resumes the
// carried snapshot.
func (s *Server) decode(ctx context.Context, args map[string]interface{}) (toolArgs, *domain.Conversation, error) {
	var req toolArgs
	if err := mapstructure.WeakDecode(args, &req); err != nil {
		return req, nil, fmt.Errorf("invalid arguments: %w", err)
	}
	if req.Conversation == "" {
		return req, nil, fmt.Errorf("missing conversation snapshot")
	}

	var snapshot domain.Conversation
	if err := json.Unmarshal([]byte(req.Conversation), &snapshot); err != nil {
		return req, nil, fmt.Errorf("invalid conversation snapshot: %w", err)
	}

	return req, s.engine.Resume(ctx, &snapshot), nil
}

func (s *Server) respond(conv *domain.Conversation) ToolResponse {
	return ToolResponse{
		Conversation: conv,
		Options:      s.engine.Options(conv),
		Terminal:     conv.Terminal(),
	}
}

func (s *Server) registerResources() {
	// EXPOSE: funnel://flow
	s.mcpServer.AddResource(mcp.NewResource("funnel://flow", "Current Funnel Definition",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		flow, err := s.engine.Inspect()
		if err != nil {
			return nil, fmt.Errorf("failed to inspect funnel: %w", err)
		}
		jsonBytes, _ := json.Marshal(flow)

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "funnel://flow",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
